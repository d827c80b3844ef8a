package whatsapp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(ClientConfig{
		BaseURL:       srv.URL,
		AccessToken:   "token",
		PhoneNumberID: "10001",
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c, srv
}

func TestClient_SendText(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.sent"}]}`))
	})

	id, err := c.SendText(context.Background(), "97312345678", "hello")
	if err != nil {
		t.Fatalf("SendText: %v", err)
	}
	if id != "wamid.sent" {
		t.Fatalf("expected message id, got %q", id)
	}
	if gotPath != "/10001/messages" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotAuth != "Bearer token" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotBody["type"] != "text" || gotBody["to"] != "97312345678" {
		t.Fatalf("unexpected body: %v", gotBody)
	}
}

func TestClient_SendButtons(t *testing.T) {
	var gotBody outboundInteractive
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.btn"}]}`))
	})

	_, err := c.SendButtons(context.Background(), "973", "New assignment", AssignmentButtons("t1"))
	if err != nil {
		t.Fatalf("SendButtons: %v", err)
	}
	btns := gotBody.Interactive.Action.Buttons
	if len(btns) != 3 {
		t.Fatalf("expected 3 buttons, got %d", len(btns))
	}
	if btns[0].Reply.ID != "accept_t1" || btns[1].Reply.ID != "decline_t1" {
		t.Fatalf("unexpected button ids: %+v", btns)
	}
}

func TestClient_SendFailureSurfaced(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"bad token"}}`, http.StatusUnauthorized)
	})
	if _, err := c.SendText(context.Background(), "973", "x"); err == nil {
		t.Fatalf("expected transport failure to surface")
	}
}
