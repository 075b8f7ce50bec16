package http_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"

	controller "github.com/m-mizutani/mirror-status/pkg/controller/http"
	"github.com/m-mizutani/mirror-status/pkg/domain/model"
)

// MockWebhookUseCase records processed events
type MockWebhookUseCase struct {
	mu     sync.Mutex
	events []*model.WebhookEvent
	err    error
}

func (m *MockWebhookUseCase) ProcessEvent(ctx context.Context, event *model.WebhookEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return m.err
}

// generateSignature generates HMAC-SHA256 signature for testing
func generateSignature(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func newWebhookRequest(t *testing.T, url, eventType string, payload []byte, signature string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", eventType)
	req.Header.Set("X-GitHub-Delivery", "test-delivery")
	if signature != "" {
		req.Header.Set("X-Hub-Signature-256", signature)
	}
	return req
}

const pushPayload = `{"ref":"refs/heads/master","repository":{"full_name":"nylen/wordpress-develop-svn"},"sender":{"login":"testuser"}}`

func TestWebhookHandler_SignatureVerification(t *testing.T) {
	secret := "test-secret"

	tests := []struct {
		name           string
		signature      string
		wantStatusCode int
	}{
		{
			name:           "Valid signature",
			signature:      generateSignature(secret, []byte(pushPayload)),
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "Signature with wrong secret",
			signature:      generateSignature("other-secret", []byte(pushPayload)),
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "Malformed signature",
			signature:      "sha256=invalid",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "Missing signature",
			signature:      "",
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &MockWebhookUseCase{}
			handler := controller.NewWebhookHandler(secret, uc)

			req := newWebhookRequest(t, controller.WebhookPath, "push", []byte(pushPayload), tt.signature)
			w := httptest.NewRecorder()
			handler.Handle(w, req)

			gt.Number(t, w.Code).Equal(tt.wantStatusCode)
			if tt.wantStatusCode != http.StatusOK {
				gt.Number(t, len(uc.events)).Equal(0)
			}
		})
	}
}

func TestWebhookHandler_EventParsing(t *testing.T) {
	secret := "test-secret"

	tests := []struct {
		name      string
		eventType string
		payload   string
		expected  model.WebhookEvent
	}{
		{
			name:      "Push event",
			eventType: "push",
			payload:   pushPayload,
			expected: model.WebhookEvent{
				ID:         "test-delivery",
				Type:       model.EventTypePush,
				Repository: "nylen/wordpress-develop-svn",
				Ref:        "refs/heads/master",
				Sender:     "testuser",
			},
		},
		{
			name:      "Status event",
			eventType: "status",
			payload:   `{"sha":"abc123","state":"error","repository":{"full_name":"nylen/wordpress-develop-svn"},"sender":{"login":"travis-ci"}}`,
			expected: model.WebhookEvent{
				ID:         "test-delivery",
				Type:       model.EventTypeStatus,
				Repository: "nylen/wordpress-develop-svn",
				Ref:        "abc123",
				State:      "error",
				Sender:     "travis-ci",
			},
		},
		{
			name:      "Ping event",
			eventType: "ping",
			payload:   `{"zen":"Keep it logically awesome."}`,
			expected: model.WebhookEvent{
				ID:   "test-delivery",
				Type: model.EventTypePing,
			},
		},
		{
			name:      "Other event",
			eventType: "issues",
			payload:   `{"action":"opened","repository":{"full_name":"nylen/wordpress-develop-svn"}}`,
			expected: model.WebhookEvent{
				ID:   "test-delivery",
				Type: model.EventTypeUnknown,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &MockWebhookUseCase{}
			handler := controller.NewWebhookHandler(secret, uc)

			payload := []byte(tt.payload)
			req := newWebhookRequest(t, controller.WebhookPath, tt.eventType, payload, generateSignature(secret, payload))
			w := httptest.NewRecorder()
			handler.Handle(w, req)

			gt.Number(t, w.Code).Equal(http.StatusOK)

			var response map[string]string
			gt.NoError(t, json.NewDecoder(w.Body).Decode(&response))
			gt.String(t, response["status"]).Equal("success")

			gt.Number(t, len(uc.events)).Equal(1)
			got := uc.events[0]
			gt.String(t, got.ID).Equal(tt.expected.ID)
			gt.Value(t, got.Type).Equal(tt.expected.Type)
			gt.String(t, got.Repository).Equal(tt.expected.Repository)
			gt.String(t, got.Ref).Equal(tt.expected.Ref)
			gt.String(t, got.State).Equal(tt.expected.State)
			gt.String(t, got.Sender).Equal(tt.expected.Sender)
			gt.False(t, got.ReceivedAt.IsZero())
		})
	}
}

func TestWebhookHandler_InvalidPayload(t *testing.T) {
	secret := "test-secret"
	uc := &MockWebhookUseCase{}
	handler := controller.NewWebhookHandler(secret, uc)

	payload := []byte(`{"ref":`)
	req := newWebhookRequest(t, controller.WebhookPath, "push", payload, generateSignature(secret, payload))
	w := httptest.NewRecorder()
	handler.Handle(w, req)

	gt.Number(t, w.Code).Equal(http.StatusBadRequest)
	gt.Number(t, len(uc.events)).Equal(0)
}

func TestWebhookHandler_UseCaseError(t *testing.T) {
	secret := "test-secret"
	uc := &MockWebhookUseCase{err: errors.New("boom")}
	handler := controller.NewWebhookHandler(secret, uc)

	payload := []byte(pushPayload)
	req := newWebhookRequest(t, controller.WebhookPath, "push", payload, generateSignature(secret, payload))
	w := httptest.NewRecorder()
	handler.Handle(w, req)

	gt.Number(t, w.Code).Equal(http.StatusInternalServerError)
}

func TestWebhookHandler_Integration(t *testing.T) {
	secret := "integration-test-secret"
	uc := &MockWebhookUseCase{}

	server, err := controller.NewServer(
		context.Background(),
		uc,
		controller.WithAddr("localhost:0"),
		controller.WithWebhookSecret(secret),
	)
	gt.NoError(t, err)

	ts := httptest.NewServer(server.Handler)
	defer ts.Close()

	payload := []byte(pushPayload)
	req, err := http.NewRequest(http.MethodPost, ts.URL+controller.WebhookPath, bytes.NewReader(payload))
	gt.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-GitHub-Event", "push")
	req.Header.Set("X-GitHub-Delivery", "integration-test")
	req.Header.Set("X-Hub-Signature-256", generateSignature(secret, payload))

	resp, err := http.DefaultClient.Do(req)
	gt.NoError(t, err)
	defer func() {
		_ = resp.Body.Close() // Error ignored in test
	}()

	gt.Number(t, resp.StatusCode).Equal(http.StatusOK)

	uc.mu.Lock()
	defer uc.mu.Unlock()
	gt.Number(t, len(uc.events)).Equal(1)
	gt.String(t, uc.events[0].ID).Equal("integration-test")
}
