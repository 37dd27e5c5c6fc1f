package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/ailink-app/diagnostico/cliparse"
	"github.com/ailink-app/diagnostico/models"
	"github.com/ailink-app/diagnostico/testutil"
	"github.com/ailink-app/diagnostico/webhook"
)

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []models.WSMessage
}

func (f *fakeBroadcaster) Broadcast(msg models.WSMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, msg)
}

func (f *fakeBroadcaster) statuses() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.events))
	for i, e := range f.events {
		out[i] = e.Status
	}
	return out
}

type fakeSender struct {
	result      *webhook.Result
	err         error
	calls       int
	lastPayload models.WebhookPayload
}

func (f *fakeSender) Send(ctx context.Context, payload models.WebhookPayload) (*webhook.Result, error) {
	f.calls++
	f.lastPayload = payload
	return f.result, f.err
}

func testConfig() cliparse.Config {
	return cliparse.Config{
		WebhookURL:     "https://n8n.example.com/webhook/abc",
		WebhookAuthKey: "test-key",
		CSRFSecret:     "test-csrf-secret",
	}
}

func submitBody(t *testing.T, extra map[string]interface{}) *strings.Reader {
	t.Helper()
	body := map[string]interface{}{
		"nombre":             "Ana",
		"experiencia_previa": "ninguna",
		"correo":             "ana@example.com",
		"publico_interes":    "pymes",
		"mejora_deseada":     "captación",
		"idea_libre":         "",
		"horas_semana":       "5-10",
	}
	for k, v := range extra {
		body[k] = v
	}
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	return strings.NewReader(string(data))
}

func doSubmit(t *testing.T, h *DiagnosticHandler, body *strings.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/n8n-webhook", body)
	rr := httptest.NewRecorder()
	h.Submit(rr, req)
	return rr
}

func TestSubmit_Success(t *testing.T) {
	hub := &fakeBroadcaster{}
	sender := &fakeSender{result: &webhook.Result{
		StatusCode: 200,
		Raw:        `{"saludo":"Hola"}`,
		JSON:       json.RawMessage(`{"saludo":"Hola"}`),
	}}
	h := NewDiagnosticHandler(testConfig(), hub, sender, nil)

	rr := doSubmit(t, h, submitBody(t, nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	if body := strings.TrimSpace(rr.Body.String()); body != `{"saludo":"Hola"}` {
		t.Errorf("Expected upstream JSON passthrough, got %s", body)
	}

	expected := []string{
		models.StatusStarting,
		models.StatusDataPrepared,
		models.StatusSending,
		models.StatusReceiving,
		models.StatusSuccess,
	}
	got := hub.statuses()
	if len(got) != len(expected) {
		t.Fatalf("Expected %d events, got %d: %v", len(expected), len(got), got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Event %d: expected %s, got %s", i, expected[i], got[i])
		}
	}
}

func TestSubmit_EventsShareRequestID(t *testing.T) {
	hub := &fakeBroadcaster{}
	sender := &fakeSender{result: &webhook.Result{StatusCode: 200, Raw: `{}`, JSON: json.RawMessage(`{}`)}}
	h := NewDiagnosticHandler(testConfig(), hub, sender, nil)

	doSubmit(t, h, submitBody(t, map[string]interface{}{"userSessionId": "sess-42"}))

	hub.mu.Lock()
	defer hub.mu.Unlock()
	if len(hub.events) == 0 {
		t.Fatal("No events broadcast")
	}
	reqID := hub.events[0].RequestID
	if reqID == "" {
		t.Fatal("Events missing requestId")
	}
	for i, e := range hub.events {
		if e.RequestID != reqID {
			t.Errorf("Event %d has requestId %s, expected %s", i, e.RequestID, reqID)
		}
		if e.UserSessionID != "sess-42" {
			t.Errorf("Event %d has userSessionId %s, expected sess-42", i, e.UserSessionID)
		}
	}
}

func TestSubmit_GeneratesSessionID(t *testing.T) {
	hub := &fakeBroadcaster{}
	sender := &fakeSender{result: &webhook.Result{StatusCode: 200, Raw: `{}`, JSON: json.RawMessage(`{}`)}}
	h := NewDiagnosticHandler(testConfig(), hub, sender, nil)

	doSubmit(t, h, submitBody(t, nil))

	hub.mu.Lock()
	defer hub.mu.Unlock()
	for i, e := range hub.events {
		if e.UserSessionID == "" {
			t.Errorf("Event %d missing generated userSessionId", i)
		}
	}
}

func TestSubmit_Honeypot(t *testing.T) {
	hub := &fakeBroadcaster{}
	sender := &fakeSender{}
	h := NewDiagnosticHandler(testConfig(), hub, sender, nil)

	rr := doSubmit(t, h, submitBody(t, map[string]interface{}{"honeypot": "gotcha"}))

	if rr.Code != http.StatusOK {
		t.Errorf("Honeypot should return 200, got %d", rr.Code)
	}
	if sender.calls != 0 {
		t.Errorf("Honeypot must not reach the webhook, got %d calls", sender.calls)
	}
	if len(hub.statuses()) != 0 {
		t.Errorf("Honeypot must not broadcast events, got %v", hub.statuses())
	}

	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "success" {
		t.Errorf("Decoy body should look like success: %v", body)
	}
}

func TestSubmit_InvalidJSON(t *testing.T) {
	sender := &fakeSender{}
	h := NewDiagnosticHandler(testConfig(), &fakeBroadcaster{}, sender, nil)

	req := httptest.NewRequest("POST", "/api/n8n-webhook", strings.NewReader("not json"))
	rr := httptest.NewRecorder()
	h.Submit(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rr.Code)
	}
	if sender.calls != 0 {
		t.Error("Invalid JSON must not reach the webhook")
	}
}

func TestSubmit_Timeout(t *testing.T) {
	hub := &fakeBroadcaster{}
	sender := &fakeSender{err: webhook.ErrTimeout}
	h := NewDiagnosticHandler(testConfig(), hub, sender, nil)

	rr := doSubmit(t, h, submitBody(t, nil))

	if rr.Code != http.StatusGatewayTimeout {
		t.Fatalf("Expected 504, got %d", rr.Code)
	}

	var body models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Error != "Timeout en la solicitud al webhook" {
		t.Errorf("Unexpected error message: %s", body.Error)
	}
	if body.RequestID == "" {
		t.Error("Timeout response should carry requestId")
	}

	got := hub.statuses()
	if got[len(got)-1] != models.StatusTimeout {
		t.Errorf("Expected terminal timeout event, got %v", got)
	}
}

func TestSubmit_TransportError(t *testing.T) {
	hub := &fakeBroadcaster{}
	sender := &fakeSender{err: errors.New("connection refused")}
	h := NewDiagnosticHandler(testConfig(), hub, sender, nil)

	rr := doSubmit(t, h, submitBody(t, nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rr.Code)
	}

	got := hub.statuses()
	if got[len(got)-1] != models.StatusError {
		t.Errorf("Expected terminal error event, got %v", got)
	}
}

func TestSubmit_MissingConfig(t *testing.T) {
	hub := &fakeBroadcaster{}
	sender := &fakeSender{}
	h := NewDiagnosticHandler(cliparse.Config{}, hub, sender, nil)

	rr := doSubmit(t, h, submitBody(t, nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rr.Code)
	}
	if sender.calls != 0 {
		t.Error("Misconfigured server must not attempt the webhook call")
	}

	got := hub.statuses()
	if len(got) != 1 || got[0] != models.StatusProcessingError {
		t.Errorf("Expected single processing_error event, got %v", got)
	}
}

func TestSubmit_NonJSONUpstream2xx(t *testing.T) {
	hub := &fakeBroadcaster{}
	sender := &fakeSender{result: &webhook.Result{StatusCode: 200, Raw: "OK"}}
	h := NewDiagnosticHandler(testConfig(), hub, sender, nil)

	rr := doSubmit(t, h, submitBody(t, nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	var body models.RawResponse
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Message != "OK" || body.RawResponse != "OK" {
		t.Errorf("Unexpected raw wrapping: %+v", body)
	}

	got := hub.statuses()
	if got[len(got)-1] != models.StatusWarning {
		t.Errorf("Expected terminal warning event, got %v", got)
	}
}

func TestSubmit_NonJSONUpstreamError(t *testing.T) {
	hub := &fakeBroadcaster{}
	sender := &fakeSender{result: &webhook.Result{StatusCode: 502, Raw: "Bad Gateway"}}
	h := NewDiagnosticHandler(testConfig(), hub, sender, nil)

	rr := doSubmit(t, h, submitBody(t, nil))

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("Expected 502 passthrough, got %d", rr.Code)
	}

	got := hub.statuses()
	if got[len(got)-1] != models.StatusFormatError {
		t.Errorf("Expected terminal format_error event, got %v", got)
	}
}

func TestSubmit_JSONUpstreamError(t *testing.T) {
	hub := &fakeBroadcaster{}
	sender := &fakeSender{result: &webhook.Result{
		StatusCode: 422,
		Raw:        `{"error":"correo inválido"}`,
		JSON:       json.RawMessage(`{"error":"correo inválido"}`),
	}}
	h := NewDiagnosticHandler(testConfig(), hub, sender, nil)

	rr := doSubmit(t, h, submitBody(t, nil))

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422 passthrough, got %d", rr.Code)
	}
	if body := strings.TrimSpace(rr.Body.String()); body != `{"error":"correo inválido"}` {
		t.Errorf("Expected upstream body passthrough, got %s", body)
	}

	got := hub.statuses()
	if got[len(got)-1] != models.StatusWarning {
		t.Errorf("Expected terminal warning event, got %v", got)
	}
}

func TestSubmit_ExactlyOneTerminalEvent(t *testing.T) {
	terminal := map[string]bool{
		models.StatusSuccess:         true,
		models.StatusWarning:         true,
		models.StatusFormatError:     true,
		models.StatusTimeout:         true,
		models.StatusProcessingError: true,
		models.StatusError:           true,
	}

	testCases := []struct {
		name   string
		sender *fakeSender
	}{
		{"success", &fakeSender{result: &webhook.Result{StatusCode: 200, Raw: `{}`, JSON: json.RawMessage(`{}`)}}},
		{"warning raw", &fakeSender{result: &webhook.Result{StatusCode: 200, Raw: "OK"}}},
		{"format error", &fakeSender{result: &webhook.Result{StatusCode: 500, Raw: "boom"}}},
		{"timeout", &fakeSender{err: webhook.ErrTimeout}},
		{"transport", &fakeSender{err: errors.New("dial failed")}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			hub := &fakeBroadcaster{}
			h := NewDiagnosticHandler(testConfig(), hub, tc.sender, nil)
			doSubmit(t, h, submitBody(t, nil))

			count := 0
			for _, s := range hub.statuses() {
				if terminal[s] {
					count++
				}
			}
			if count != 1 {
				t.Errorf("Expected exactly one terminal event, got %d: %v", count, hub.statuses())
			}
		})
	}
}

func TestSubmit_RecordsOutcome(t *testing.T) {
	store := testutil.SetupTestStore(t)
	sender := &fakeSender{result: &webhook.Result{StatusCode: 200, Raw: `{}`, JSON: json.RawMessage(`{}`)}}
	h := NewDiagnosticHandler(testConfig(), &fakeBroadcaster{}, sender, store)

	doSubmit(t, h, submitBody(t, nil))

	subs, err := store.RecentSubmissions(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(subs) != 1 {
		t.Fatalf("Expected 1 audit row, got %d", len(subs))
	}
	if subs[0].Status != models.StatusSuccess {
		t.Errorf("Expected success row, got %s", subs[0].Status)
	}
	if subs[0].Correo != "ana@example.com" {
		t.Errorf("Expected correo recorded, got %q", subs[0].Correo)
	}
}

func TestSubmit_PayloadSanitized(t *testing.T) {
	sender := &fakeSender{result: &webhook.Result{StatusCode: 200, Raw: `{}`, JSON: json.RawMessage(`{}`)}}
	h := NewDiagnosticHandler(testConfig(), &fakeBroadcaster{}, sender, nil)

	doSubmit(t, h, submitBody(t, map[string]interface{}{
		"nombre":       "  Ana  ",
		"horas_semana": nil,
		"idea_libre":   42,
	}))

	if sender.lastPayload.Nombre != "Ana" {
		t.Errorf("Expected trimmed nombre, got %q", sender.lastPayload.Nombre)
	}
	if sender.lastPayload.HorasSemana != models.DefaultHorasSemana {
		t.Errorf("Expected default horas_semana, got %q", sender.lastPayload.HorasSemana)
	}
	if sender.lastPayload.IdeaLibre != "42" {
		t.Errorf("Expected numeric coercion, got %q", sender.lastPayload.IdeaLibre)
	}
	if sender.lastPayload.Fecha == "" {
		t.Error("Payload should carry a fecha timestamp")
	}
}
