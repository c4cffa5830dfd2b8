package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/OV20408/mgc-back/config"
	v1 "github.com/OV20408/mgc-back/internal/delivery/http/v1"
	"github.com/OV20408/mgc-back/internal/domain"
	"github.com/OV20408/mgc-back/internal/usecase"
	"github.com/OV20408/mgc-back/pkg/email"
	"github.com/OV20408/mgc-back/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubSender delegates message construction to the real SMTP service but
// records sends instead of dialing out.
type stubSender struct {
	svc        *email.Service
	configured bool
	sendErr    error

	mu   sync.Mutex
	sent []domain.OutboundMessage
}

func (s *stubSender) BuildMessage(sub *domain.ContactSubmission) domain.OutboundMessage {
	return s.svc.BuildMessage(sub)
}

func (s *stubSender) Send(ctx context.Context, msg domain.OutboundMessage) error {
	if s.sendErr != nil {
		return s.sendErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return nil
}

func (s *stubSender) IsConfigured() bool {
	return s.configured
}

func testConfig() *config.Config {
	return &config.Config{
		Port:                   "3000",
		AllowedOrigins:         []string{"http://localhost:5173"},
		SMTPHost:               "smtp.example.com",
		SMTPPort:               587,
		EmailUser:              "relay@example.com",
		EmailPass:              "secret",
		FromEmail:              "relay@example.com",
		CompanyEmail:           "contacto@example.com",
		MailTimezone:           "America/Argentina/Buenos_Aires",
		RateLimitWindowMinutes: 15,
		RateLimitMaxRequests:   100,
	}
}

func newTestServer(cfg *config.Config, sender *stubSender) *gin.Engine {
	if sender.svc == nil {
		sender.svc = email.NewService(cfg)
	}
	validate := validator.New()
	validation.RegisterValidators(validate)
	contactUC := usecase.NewContactUsecase(sender, validate)

	return v1.NewRouter(v1.RouterDeps{
		ContactUC: contactUC,
		Config:    cfg,
	})
}

func validPayload() map[string]string {
	return map[string]string{
		"nombreCompleto":    "Juan Pérez",
		"correoElectronico": "Juan.Perez@Example.com",
		"telefono":          "+5491144445555",
		"asunto":            "Consulta de servicios",
		"mensaje":           "Quisiera un presupuesto para un desarrollo web.",
	}
}

func postContact(r *gin.Engine, remoteAddr string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/send-email", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type apiResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Error   string   `json:"error"`
	Details []string `json:"details"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSendEmailSuccess(t *testing.T) {
	sender := &stubSender{configured: true}
	r := newTestServer(testConfig(), sender)

	w := postContact(r, "10.0.0.1:5000", validPayload())

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Message)

	// Relay invoked exactly once, with the prefixed subject and the
	// submitter as Reply-To
	assert.Len(t, sender.sent, 1)
	assert.Equal(t, "[CONTACTO WEB] Consulta de servicios", sender.sent[0].Subject)
	assert.Equal(t, "juan.perez@example.com", sender.sent[0].ReplyTo)
	assert.Equal(t, "contacto@example.com", sender.sent[0].To)
}

func TestSendEmailValidationFailure(t *testing.T) {
	sender := &stubSender{configured: true}
	r := newTestServer(testConfig(), sender)

	payload := validPayload()
	delete(payload, "mensaje")

	w := postContact(r, "10.0.0.2:5000", payload)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Details, "El mensaje es obligatorio")
	assert.Empty(t, sender.sent, "relay must not be invoked on validation failure")
}

func TestSendEmailSpamRejection(t *testing.T) {
	sender := &stubSender{configured: true}
	r := newTestServer(testConfig(), sender)

	payload := validPayload()
	payload["mensaje"] = "Buy viagra now, best prices guaranteed"

	w := postContact(r, "10.0.0.3:5000", payload)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.False(t, resp.Success)
	// Generic message: the caller learns nothing about the heuristic
	assert.Equal(t, "No se pudo procesar el mensaje.", resp.Error)
	assert.Empty(t, resp.Details)
	assert.Empty(t, sender.sent)
}

func TestSendEmailTransportFailure(t *testing.T) {
	sender := &stubSender{configured: true, sendErr: assert.AnError}
	r := newTestServer(testConfig(), sender)

	w := postContact(r, "10.0.0.4:5000", validPayload())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode(t, w)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
	// Nothing internal leaks into the response body
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
	assert.NotContains(t, w.Body.String(), "smtp")
}

func TestSendEmailMailNotConfigured(t *testing.T) {
	sender := &stubSender{configured: false}
	r := newTestServer(testConfig(), sender)

	w := postContact(r, "10.0.0.5:5000", validPayload())

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.False(t, decode(t, w).Success)
}

func TestSendEmailMalformedBody(t *testing.T) {
	sender := &stubSender{configured: true}
	r := newTestServer(testConfig(), sender)

	req := httptest.NewRequest(http.MethodPost, "/send-email", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "10.0.0.6:5000"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, decode(t, w).Success)
}

func TestSendEmailBodyTooLarge(t *testing.T) {
	sender := &stubSender{configured: true}
	r := newTestServer(testConfig(), sender)

	// 2 MB body blows past the 1 MB cap and must die at the read,
	// never reaching validation or the relay
	payload := validPayload()
	payload["mensaje"] = strings.Repeat("a", 2<<20)

	w := postContact(r, "10.0.0.7:5000", payload)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.False(t, resp.Success)
	// The request dies on the capped read, not on field validation
	assert.Equal(t, "El cuerpo de la solicitud no es válido", resp.Error)
	assert.Empty(t, resp.Details)
	assert.Empty(t, sender.sent, "relay must not be invoked for an oversized body")
}

func TestSendEmailRateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitMaxRequests = 3
	sender := &stubSender{configured: true}
	r := newTestServer(cfg, sender)

	const addr = "10.9.9.9:5000"
	for i := 0; i < 3; i++ {
		w := postContact(r, addr, validPayload())
		assert.Equal(t, http.StatusOK, w.Code, "request %d should be admitted", i+1)
	}

	w := postContact(r, addr, validPayload())
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	resp := decode(t, w)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	// Only the admitted requests reached the relay
	assert.Len(t, sender.sent, 3)
}

func TestHealth(t *testing.T) {
	r := newTestServer(testConfig(), &stubSender{configured: true})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"OK"}`, w.Body.String())
}

func TestRouteNotFound(t *testing.T) {
	r := newTestServer(testConfig(), &stubSender{configured: true})

	req := httptest.NewRequest(http.MethodGet, "/no-such-route", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, decode(t, w).Success)
}

func TestCORSPreflight(t *testing.T) {
	r := newTestServer(testConfig(), &stubSender{configured: true})

	t.Run("Should accept an allow-listed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/send-email", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
	})

	t.Run("Should reject an unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/send-email", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}
