package whatsapp

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"newsdesk-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Processor consumes parsed inbound traffic. Implemented by the task
// pipeline; the webhook layer makes no business decisions.
type Processor interface {
	ProcessInbound(ctx context.Context, in ParsedInbound) (Outcome, error)
	ProcessDeliveryStatus(ctx context.Context, st MessageStatus) error
}

// Outcome reports what the pipeline did with one inbound message. A declined
// message (Applied false) is a designed response to ambiguous or unauthorized
// input, not an error.
type Outcome struct {
	Applied   bool   `json:"applied"`
	TaskID    string `json:"task_id,omitempty"`
	NewStatus string `json:"new_status,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// LinkResolver maps a WhatsApp message id back to the task whose outbound
// message it was. Returns "" when the id is unknown.
type LinkResolver interface {
	TaskIDByMessageID(ctx context.Context, waMessageID string) (string, error)
}

// Deduper guards against at-least-once webhook delivery. FirstDelivery
// reports whether this message id has not been seen before; redeliveries are
// dropped before the pipeline runs.
type Deduper interface {
	FirstDelivery(ctx context.Context, messageID string) (bool, error)
}

// WebhookHandler terminates the Cloud API webhook: the GET verification
// handshake and the POST delivery of message/status batches.
type WebhookHandler struct {
	VerifyToken string

	Processor Processor
	Links     LinkResolver
	Dedupe    Deduper

	Now func() time.Time
}

// HandleVerify answers the subscription handshake: hub.mode=subscribe with a
// matching verify token echoes hub.challenge.
func (h WebhookHandler) HandleVerify(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token != "" && token == h.VerifyToken {
		c.String(http.StatusOK, challenge)
		return
	}
	c.AbortWithStatus(http.StatusForbidden)
}

// HandleReceive ingests one webhook delivery. Individual message failures are
// logged and skipped; the handler answers 200 so the provider does not
// redeliver a batch whose remaining items were already processed.
func (h WebhookHandler) HandleReceive(c *gin.Context) {
	log := logger.FromGin(c)

	if h.Processor == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "processor not configured"})
		return
	}

	var payload WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Warn("webhook payload decode failed", "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	ctx := c.Request.Context()
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				h.handleMessage(ctx, log, msg)
			}
			for _, st := range change.Value.Statuses {
				if err := h.Processor.ProcessDeliveryStatus(ctx, st); err != nil {
					log.Warn("delivery status update failed", "message_id", st.ID, "err", err)
				}
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h WebhookHandler) handleMessage(ctx context.Context, log *slog.Logger, msg IncomingMessage) {
	if h.Dedupe != nil {
		first, err := h.Dedupe.FirstDelivery(ctx, msg.ID)
		if err != nil {
			log.Error("dedupe check failed", "message_id", msg.ID, "err", err)
			return
		}
		if !first {
			log.Debug("duplicate webhook delivery dropped", "message_id", msg.ID)
			return
		}
	}

	knownTaskID := ""
	if msg.Context != nil && msg.Context.ID != "" && h.Links != nil {
		id, err := h.Links.TaskIDByMessageID(ctx, msg.Context.ID)
		if err != nil {
			log.Error("reply correlation lookup failed", "message_id", msg.Context.ID, "err", err)
		} else {
			knownTaskID = id
		}
	}

	in := ParseIncoming(msg, knownTaskID)
	if in.Timestamp.IsZero() {
		now := time.Now
		if h.Now != nil {
			now = h.Now
		}
		in.Timestamp = now().UTC()
	}

	outcome, err := h.Processor.ProcessInbound(ctx, in)
	if err != nil {
		log.Error("inbound processing failed", "message_id", msg.ID, "from", msg.From, "err", err)
		return
	}
	if outcome.Applied {
		log.Info("transition applied",
			"message_id", msg.ID,
			"task_id", outcome.TaskID,
			"new_status", outcome.NewStatus,
			"action", in.Message.Action.Type)
		return
	}
	log.Info("inbound message declined",
		"message_id", msg.ID,
		"from", msg.From,
		"action", in.Message.Action.Type,
		"confidence", in.Message.Confidence,
		"reason", outcome.Reason)
}
