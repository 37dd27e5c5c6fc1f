// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ailink-app/diagnostico/cliparse"
	"github.com/ailink-app/diagnostico/db"
	"github.com/ailink-app/diagnostico/middleware"
	"github.com/ailink-app/diagnostico/models"
	"github.com/ailink-app/diagnostico/webhook"
)

// Broadcaster publishes status events to connected WebSocket clients.
type Broadcaster interface {
	Broadcast(msg models.WSMessage)
}

// WebhookSender posts a payload upstream and classifies the response.
type WebhookSender interface {
	Send(ctx context.Context, payload models.WebhookPayload) (*webhook.Result, error)
}

// DiagnosticHandler processes diagnostic form submissions: sanitize,
// forward to the webhook, broadcast lifecycle events, record the outcome.
type DiagnosticHandler struct {
	cfg    cliparse.Config
	hub    Broadcaster
	sender WebhookSender
	store  *db.Store
}

// NewDiagnosticHandler creates a submission handler. hub, sender and store
// may be nil in tests; nil dependencies are skipped, not dereferenced.
func NewDiagnosticHandler(cfg cliparse.Config, hub Broadcaster, sender WebhookSender, store *db.Store) *DiagnosticHandler {
	return &DiagnosticHandler{cfg: cfg, hub: hub, sender: sender, store: store}
}

// botDecoyPayload is what honeypot traffic receives. Indistinguishable
// from a real success so bots have nothing to learn from.
var botDecoyPayload = map[string]string{
	"status":  "success",
	"message": "Formulario recibido correctamente",
}

// Submit handles POST /api/n8n-webhook.
func (h *DiagnosticHandler) Submit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var body map[string]interface{}
	if err := middleware.ParseJSONBody(r, &body); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Cuerpo de la solicitud no válido")
		return
	}

	// Honeypot: silently swallow bot traffic. No events, no webhook call.
	if honeypot := sanitizeField(body["honeypot"]); honeypot != "" {
		slog.Info("Honeypot triggered, dropping submission")
		h.record(models.Submission{
			RequestID:  uuid.NewString(),
			Status:     models.SubmissionStatusBot,
			HTTPStatus: http.StatusOK,
			DurationMs: time.Since(start).Milliseconds(),
		})
		middleware.JSONResponse(w, http.StatusOK, botDecoyPayload)
		return
	}

	requestID := uuid.NewString()
	sessionID := sanitizeField(body["userSessionId"])
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	payload := sanitizePayload(body)

	if h.cfg.WebhookURL == "" || h.cfg.WebhookAuthKey == "" {
		h.broadcast(models.NewStatusEvent(models.StatusProcessingError,
			"Error de configuración del servidor", requestID, sessionID))
		h.record(models.Submission{
			RequestID:     requestID,
			UserSessionID: sessionID,
			Correo:        payload.Correo,
			Status:        models.StatusProcessingError,
			HTTPStatus:    http.StatusInternalServerError,
			DurationMs:    time.Since(start).Milliseconds(),
			Error:         "webhook not configured",
		})
		middleware.JSONResponse(w, http.StatusInternalServerError, models.ErrorResponse{
			Error:     "Error al procesar la solicitud",
			Message:   "El servidor no está configurado correctamente",
			RequestID: requestID,
		})
		return
	}

	h.broadcast(models.NewStatusEvent(models.StatusStarting,
		"Iniciando procesamiento de la solicitud", requestID, sessionID))
	h.broadcast(models.NewStatusEvent(models.StatusDataPrepared,
		"Datos preparados para envío", requestID, sessionID))
	h.broadcast(models.NewStatusEvent(models.StatusSending,
		"Enviando datos al webhook", requestID, sessionID))

	// Deliberately not the request context: the submission keeps going to
	// the webhook even if the browser disconnects, and clients learn the
	// outcome over the status channel.
	result, err := h.sender.Send(context.Background(), payload)
	if err != nil {
		if errors.Is(err, webhook.ErrTimeout) {
			h.broadcast(models.NewStatusEvent(models.StatusTimeout,
				"La solicitud al webhook ha excedido el tiempo de espera", requestID, sessionID))
			h.record(models.Submission{
				RequestID:     requestID,
				UserSessionID: sessionID,
				Correo:        payload.Correo,
				Status:        models.StatusTimeout,
				HTTPStatus:    http.StatusGatewayTimeout,
				DurationMs:    time.Since(start).Milliseconds(),
				Error:         err.Error(),
			})
			middleware.JSONResponse(w, http.StatusGatewayTimeout, models.ErrorResponse{
				Error:     "Timeout en la solicitud al webhook",
				Message:   "La solicitud al webhook ha tardado demasiado tiempo en responder",
				RequestID: requestID,
			})
			return
		}

		slog.Error("Webhook request failed", "error", err, "request_id", requestID)
		h.broadcast(models.NewStatusEvent(models.StatusError,
			"Error al contactar con el webhook", requestID, sessionID))
		h.record(models.Submission{
			RequestID:     requestID,
			UserSessionID: sessionID,
			Correo:        payload.Correo,
			Status:        models.StatusError,
			HTTPStatus:    http.StatusInternalServerError,
			DurationMs:    time.Since(start).Milliseconds(),
			Error:         err.Error(),
		})
		middleware.JSONResponse(w, http.StatusInternalServerError, models.ErrorResponse{
			Error:     "Error al contactar con el webhook",
			Message:   err.Error(),
			RequestID: requestID,
		})
		return
	}

	h.broadcast(models.NewStatusEvent(models.StatusReceiving,
		"Recibiendo respuesta del webhook", requestID, sessionID))

	status, httpStatus := classify(result)

	var message string
	switch status {
	case models.StatusSuccess:
		message = "Respuesta recibida correctamente"
	case models.StatusWarning:
		message = "Respuesta recibida con advertencias"
	case models.StatusFormatError:
		message = "La respuesta del webhook no tiene el formato esperado"
	}
	h.broadcast(models.NewStatusEvent(status, message, requestID, sessionID))

	h.record(models.Submission{
		RequestID:     requestID,
		UserSessionID: sessionID,
		Correo:        payload.Correo,
		Status:        status,
		HTTPStatus:    httpStatus,
		DurationMs:    time.Since(start).Milliseconds(),
	})

	if result.IsJSON() {
		middleware.JSONResponse(w, httpStatus, json.RawMessage(result.JSON))
		return
	}
	middleware.JSONResponse(w, httpStatus, models.RawResponse{
		Message:     result.Raw,
		RawResponse: result.Raw,
	})
}

// classify maps an upstream response shape onto a terminal status and the
// HTTP status relayed to the client.
func classify(result *webhook.Result) (status string, httpStatus int) {
	switch {
	case result.IsJSON() && result.OK():
		return models.StatusSuccess, http.StatusOK
	case result.IsJSON():
		// Upstream rejected the submission but answered coherently;
		// pass its status and body through.
		return models.StatusWarning, result.StatusCode
	case result.OK():
		return models.StatusWarning, http.StatusOK
	default:
		return models.StatusFormatError, result.StatusCode
	}
}

func (h *DiagnosticHandler) broadcast(msg models.WSMessage) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

func (h *DiagnosticHandler) record(sub models.Submission) {
	if h.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.store.RecordSubmission(ctx, sub); err != nil {
		slog.Warn("Failed to record submission", "error", err, "request_id", sub.RequestID)
	}
}
