package mailer

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func mountHandler(t *testing.T, transport Transport) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, _ := testService(t, transport)
	router := gin.New()
	NewHandler(svc).RegisterRoutes(router.Group("/api/admin"))
	return router, svc
}

func postSendMail(t *testing.T, router *gin.Engine, payload map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/admin/send-mail", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestSendMailEndpointContract(t *testing.T) {
	transport := &fakeTransport{}
	router, _ := mountHandler(t, transport)

	resp := postSendMail(t, router, map[string]any{
		"recipients":   []string{"all"},
		"subject":      "Hello {{name}}",
		"message":      "See you soon",
		"smtpProvider": "gmail",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Results struct {
			Sent   int      `json:"sent"`
			Failed int      `json:"failed"`
			Errors []string `json:"errors"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !envelope.Success {
		t.Fatalf("envelope = %+v", envelope)
	}
	if envelope.Results.Sent != 3 || envelope.Results.Failed != 0 {
		t.Fatalf("results = %+v", envelope.Results)
	}
	if len(transport.sent) != 3 {
		t.Fatalf("expected 3 sends, got %d", len(transport.sent))
	}
}

func TestSendMailEndpointTemplate(t *testing.T) {
	transport := &fakeTransport{}
	router, _ := mountHandler(t, transport)

	resp := postSendMail(t, router, map[string]any{
		"recipients": []string{"asha@example.com"},
		"template":   "confirmation",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if len(transport.sent) != 1 {
		t.Fatalf("expected 1 send, got %d", len(transport.sent))
	}
	if transport.sent[0].Subject != "Registration received, Asha" {
		t.Fatalf("subject = %q", transport.sent[0].Subject)
	}
}

func TestSendMailEndpointMissingRecipients(t *testing.T) {
	transport := &fakeTransport{}
	router, _ := mountHandler(t, transport)

	resp := postSendMail(t, router, map[string]any{
		"subject": "s",
		"message": "b",
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if len(transport.sent) != 0 {
		t.Fatalf("expected no sends, got %d", len(transport.sent))
	}
}

func TestSendMailEndpointVerifyFailure(t *testing.T) {
	transport := &fakeTransport{verifyErr: errors.New("auth rejected")}
	router, _ := mountHandler(t, transport)

	resp := postSendMail(t, router, map[string]any{
		"recipients": []string{"all"},
		"subject":    "s",
		"message":    "b",
	})
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if len(transport.sent) != 0 {
		t.Fatalf("expected no sends, got %d", len(transport.sent))
	}
}
