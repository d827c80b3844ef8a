package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"newsdesk-platform/internal/classify"

	"github.com/gin-gonic/gin"
)

type stubProcessor struct {
	inbound  []ParsedInbound
	statuses []MessageStatus
	outcome  Outcome
}

func (s *stubProcessor) ProcessInbound(ctx context.Context, in ParsedInbound) (Outcome, error) {
	s.inbound = append(s.inbound, in)
	return s.outcome, nil
}

func (s *stubProcessor) ProcessDeliveryStatus(ctx context.Context, st MessageStatus) error {
	s.statuses = append(s.statuses, st)
	return nil
}

type stubLinks struct{ taskID string }

func (s stubLinks) TaskIDByMessageID(ctx context.Context, id string) (string, error) {
	return s.taskID, nil
}

type stubDedupe struct{ first bool }

func (s stubDedupe) FirstDelivery(ctx context.Context, id string) (bool, error) {
	return s.first, nil
}

func newWebhookRouter(h WebhookHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/webhooks/whatsapp", h.HandleVerify)
	r.POST("/webhooks/whatsapp", h.HandleReceive)
	return r
}

func TestHandleVerify(t *testing.T) {
	r := newWebhookRouter(WebhookHandler{VerifyToken: "secret", Processor: &stubProcessor{}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/webhooks/whatsapp?hub.mode=subscribe&hub.verify_token=secret&hub.challenge=12345", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "12345" {
		t.Fatalf("expected challenge echo, got %d %q", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/webhooks/whatsapp?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 on bad token, got %d", w.Code)
	}
}

func webhookBody(t *testing.T, msgs []IncomingMessage, statuses []MessageStatus) string {
	t.Helper()
	payload := WebhookPayload{
		Object: "whatsapp_business_account",
		Entry: []Entry{{
			ID: "entry-1",
			Changes: []Change{{
				Field: "messages",
				Value: ChangeValue{Messages: msgs, Statuses: statuses},
			}},
		}},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(data)
}

func TestHandleReceive_MessageFlow(t *testing.T) {
	proc := &stubProcessor{outcome: Outcome{Applied: true, TaskID: "t1", NewStatus: "ACCEPTED"}}
	h := WebhookHandler{
		VerifyToken: "secret",
		Processor:   proc,
		Links:       stubLinks{taskID: "t1"},
		Dedupe:      stubDedupe{first: true},
	}
	r := newWebhookRouter(h)

	msg := textMessage("accepted")
	msg.Context = &MessageContext{ID: "wamid.out"}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/whatsapp", strings.NewReader(webhookBody(t, []IncomingMessage{msg}, nil)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(proc.inbound) != 1 {
		t.Fatalf("expected 1 processed message, got %d", len(proc.inbound))
	}
	got := proc.inbound[0]
	if got.Message.Action.Type != classify.ActionAccept {
		t.Fatalf("expected ACCEPT, got %s", got.Message.Action.Type)
	}
	// Reply correlation resolved the task id before classification.
	if got.Message.Action.TaskID != "t1" {
		t.Fatalf("expected correlated task id, got %q", got.Message.Action.TaskID)
	}
}

func TestHandleReceive_DuplicateDropped(t *testing.T) {
	proc := &stubProcessor{}
	h := WebhookHandler{Processor: proc, Dedupe: stubDedupe{first: false}}
	r := newWebhookRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/whatsapp", strings.NewReader(webhookBody(t, []IncomingMessage{textMessage("done")}, nil)))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(proc.inbound) != 0 {
		t.Fatalf("duplicate delivery must not reach the processor")
	}
}

func TestHandleReceive_Statuses(t *testing.T) {
	proc := &stubProcessor{}
	h := WebhookHandler{Processor: proc}
	r := newWebhookRouter(h)

	st := MessageStatus{ID: "wamid.out", RecipientID: "973", Status: "read", Timestamp: "1700000100"}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/whatsapp", strings.NewReader(webhookBody(t, nil, []MessageStatus{st})))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(proc.statuses) != 1 || proc.statuses[0].Status != "read" {
		t.Fatalf("expected status forwarded, got %+v", proc.statuses)
	}
}

func TestHandleReceive_MalformedPayload(t *testing.T) {
	h := WebhookHandler{Processor: &stubProcessor{}}
	r := newWebhookRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/whatsapp", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
