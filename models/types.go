package models

import "time"

// Webhook lifecycle status values. starting, data_prepared, sending and
// receiving are transient progress markers; the rest are terminal, and
// exactly one terminal status is broadcast per submission.
const (
	StatusStarting        = "starting"
	StatusDataPrepared    = "data_prepared"
	StatusSending         = "sending"
	StatusReceiving       = "receiving"
	StatusSuccess         = "success"
	StatusWarning         = "warning"
	StatusFormatError     = "format_error"
	StatusTimeout         = "timeout"
	StatusProcessingError = "processing_error"
	StatusError           = "error"
)

// WebSocket message types
const (
	TypeConnection    = "connection"
	TypeWebhookStatus = "webhook_status"
	TypeHeartbeat     = "heartbeat"
	TypePing          = "ping"
	TypePong          = "pong"
)

// DefaultHorasSemana is substituted when a submission omits horas_semana.
const DefaultHorasSemana = "no especificado"

// SubmissionStatusBot marks honeypot traffic in the audit log. Bot requests
// get a canned 200 and never reach the webhook or the status channel.
const SubmissionStatusBot = "bot"

// WSMessage is the single envelope for every WebSocket frame the server
// sends (and the ping frames it receives). Optional fields are omitted so
// heartbeats stay small.
type WSMessage struct {
	Type          string `json:"type"`
	Status        string `json:"status,omitempty"`
	Message       string `json:"message,omitempty"`
	RequestID     string `json:"requestId,omitempty"`
	UserSessionID string `json:"userSessionId,omitempty"`
	Timestamp     string `json:"timestamp"`
}

// NewStatusEvent builds a webhook_status frame for one submission phase.
func NewStatusEvent(status, message, requestID, userSessionID string) WSMessage {
	return WSMessage{
		Type:          TypeWebhookStatus,
		Status:        status,
		Message:       message,
		RequestID:     requestID,
		UserSessionID: userSessionID,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	}
}

// NewConnectionMessage is the welcome frame sent once per connection.
func NewConnectionMessage(message string) WSMessage {
	return WSMessage{
		Type:      TypeConnection,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// NewHeartbeat carries no status field; clients must ignore heartbeats for
// business logic.
func NewHeartbeat() WSMessage {
	return WSMessage{
		Type:      TypeHeartbeat,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// NewPong answers a client ping.
func NewPong() WSMessage {
	return WSMessage{
		Type:      TypePong,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// WebhookPayload is the sanitized body forwarded to the n8n workflow.
// Every field is a trimmed string by the time this struct exists.
type WebhookPayload struct {
	Nombre            string `json:"nombre"`
	ExperienciaPrevia string `json:"experiencia_previa"`
	Correo            string `json:"correo"`
	PublicoInteres    string `json:"publico_interes"`
	MejoraDeseada     string `json:"mejora_deseada"`
	IdeaLibre         string `json:"idea_libre"`
	HorasSemana       string `json:"horas_semana"`
	Fecha             string `json:"fecha"`
}

// Response types

type CSRFTokenResponse struct {
	CSRFToken string `json:"csrfToken"`
}

// RawResponse wraps a non-JSON upstream body. The payload is never dropped;
// consumers degrade gracefully.
type RawResponse struct {
	Message     string `json:"message"`
	RawResponse string `json:"raw_response"`
}

// RateLimitResponse is the fixed 429 body.
type RateLimitResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Error response

type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// Submission is one row of the submission audit log.
type Submission struct {
	RequestID     string    `json:"request_id"`
	UserSessionID string    `json:"user_session_id,omitempty"`
	Correo        string    `json:"correo,omitempty"`
	Status        string    `json:"status"`
	HTTPStatus    int       `json:"http_status"`
	DurationMs    int64     `json:"duration_ms"`
	Error         string    `json:"error,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
