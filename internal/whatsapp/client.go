package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Sender is the outbound transport contract consumed by the rest of the
// service. Delivery failures are surfaced, not retried, at this layer.
type Sender interface {
	SendText(ctx context.Context, to, body string) (messageID string, err error)
	SendButtons(ctx context.Context, to, body string, buttons []ReplyButton) (messageID string, err error)
}

// ReplyButton is one interactive reply button. ID uses the action_taskId
// format decoded by ParseIncoming.
type ReplyButton struct {
	ID    string
	Title string
}

// ClientConfig holds the Cloud API credentials and endpoint. It is passed to
// the constructor explicitly; there is no package-level configuration.
type ClientConfig struct {
	BaseURL       string // e.g. https://graph.facebook.com/v19.0
	AccessToken   string
	PhoneNumberID string
	Timeout       time.Duration
}

// Client talks to the WhatsApp Business Cloud API.
type Client struct {
	cfg  ClientConfig
	http *http.Client
}

func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("whatsapp: base url is required")
	}
	if cfg.AccessToken == "" {
		return nil, errors.New("whatsapp: access token is required")
	}
	if cfg.PhoneNumberID == "" {
		return nil, errors.New("whatsapp: phone number id is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: timeout}}, nil
}

type outboundText struct {
	MessagingProduct string `json:"messaging_product"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		Body string `json:"body"`
	} `json:"text"`
}

type outboundInteractive struct {
	MessagingProduct string `json:"messaging_product"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Interactive      struct {
		Type string `json:"type"`
		Body struct {
			Text string `json:"text"`
		} `json:"body"`
		Action struct {
			Buttons []interactiveButton `json:"buttons"`
		} `json:"action"`
	} `json:"interactive"`
}

type interactiveButton struct {
	Type  string `json:"type"`
	Reply struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	} `json:"reply"`
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

func (c *Client) SendText(ctx context.Context, to, body string) (string, error) {
	msg := outboundText{MessagingProduct: "whatsapp", To: to, Type: "text"}
	msg.Text.Body = body
	return c.post(ctx, msg)
}

func (c *Client) SendButtons(ctx context.Context, to, body string, buttons []ReplyButton) (string, error) {
	if len(buttons) == 0 {
		return c.SendText(ctx, to, body)
	}
	// The Cloud API caps interactive reply buttons at three per message.
	if len(buttons) > 3 {
		buttons = buttons[:3]
	}

	msg := outboundInteractive{MessagingProduct: "whatsapp", To: to, Type: "interactive"}
	msg.Interactive.Type = "button"
	msg.Interactive.Body.Text = body
	for _, b := range buttons {
		ib := interactiveButton{Type: "reply"}
		ib.Reply.ID = b.ID
		ib.Reply.Title = b.Title
		msg.Interactive.Action.Buttons = append(msg.Interactive.Action.Buttons, ib)
	}
	return c.post(ctx, msg)
}

func (c *Client) post(ctx context.Context, payload any) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("whatsapp: marshal: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.cfg.BaseURL, c.cfg.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("whatsapp: send: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("whatsapp: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("whatsapp: send failed: status %d: %s", resp.StatusCode, raw)
	}

	var out sendResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("whatsapp: decode response: %w", err)
	}
	if len(out.Messages) == 0 {
		return "", errors.New("whatsapp: response carried no message id")
	}
	return out.Messages[0].ID, nil
}

// AssignmentButtons are the standard reply buttons attached to a new
// assignment.
func AssignmentButtons(taskID string) []ReplyButton {
	return []ReplyButton{
		{ID: "accept_" + taskID, Title: "Accept"},
		{ID: "decline_" + taskID, Title: "Decline"},
		{ID: "call_" + taskID, Title: "Call desk"},
	}
}

// ProgressButtons are offered once the assignee has accepted.
func ProgressButtons(taskID string) []ReplyButton {
	return []ReplyButton{
		{ID: "onway_" + taskID, Title: "On my way"},
		{ID: "done_" + taskID, Title: "Done"},
		{ID: "delay_" + taskID, Title: "Delayed"},
	}
}
