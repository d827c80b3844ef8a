package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events.
//
// It MUST be append-only.
// No Update/Delete methods are provided by design.

type Repository interface {
	Append(ctx context.Context, e Event) error
}

// Service logs internal audit information.
//
// IMPORTANT:
// - Audit is internal-only. Do not expose these records to reporters.
// - Callers should treat audit logging as best-effort.

type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.Type == "" {
		return ErrInvalidEvent
	}

	now := s.clock().UTC()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	return s.repo.Append(ctx, e)
}

// LogUnauthorizedSender records an inbound message whose sender did not match
// the task's assignee.
func (s *Service) LogUnauthorizedSender(ctx context.Context, senderPhone, taskID, messageID, ip string) error {
	return s.Append(ctx, Event{
		Type:       EventTypeUnauthorizedSender,
		ActorPhone: senderPhone,
		IPAddress:  ip,
		TaskID:     taskID,
		MessageID:  messageID,
		Message:    "sender is not the task assignee",
	})
}

// LogEditorOverride records a forced transition issued from the editor API.
func (s *Service) LogEditorOverride(ctx context.Context, actorUserID, actorRole, ip, taskID, action, metadata string) error {
	return s.Append(ctx, Event{
		Type:        EventTypeEditorOverride,
		ActorUserID: actorUserID,
		ActorRole:   actorRole,
		IPAddress:   ip,
		TaskID:      taskID,
		Message:     action,
		Metadata:    metadata,
	})
}
