package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"newsdesk-platform/internal/audit"
	"newsdesk-platform/internal/classify"
	"newsdesk-platform/internal/employees"
	"newsdesk-platform/internal/notify"
	"newsdesk-platform/internal/whatsapp"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("tasks: not found")
	ErrInvalidArgument = errors.New("tasks: invalid argument")

	// ErrAlreadyProcessed is returned by ApplyUpdate when the source message
	// id was claimed by an earlier delivery. At-least-once webhook delivery
	// makes this expected and benign.
	ErrAlreadyProcessed = errors.New("tasks: message already processed")
)

// Repository is the persistence contract for tasks and their message links.
//
// ApplyUpdate must be atomic: when sourceMessageID is non-empty it claims the
// id in the processed-messages ledger inside the same transaction as the task
// mutation, so applying the same inbound message twice cannot double-apply.
type Repository interface {
	Create(ctx context.Context, t Task) error
	GetByID(ctx context.Context, id string) (Task, error)
	ListByStatus(ctx context.Context, status TaskStatus) ([]Task, error)

	ApplyUpdate(ctx context.Context, id string, upd TaskUpdate, sourceMessageID string) (Task, error)

	// Message links correlate outbound WhatsApp message ids with tasks.
	SaveLink(ctx context.Context, waMessageID, taskID string) error
	TaskIDByMessageID(ctx context.Context, waMessageID string) (string, error)
}

// ExpenseRecorder receives budget requests extracted from inbound messages.
// Recording is best-effort and never drives a status change.
type ExpenseRecorder interface {
	Record(ctx context.Context, taskID, employeeID string, amount float64, description string) error
}

// Service runs the inbound pipeline (classify result -> transition -> side
// effects) and the editor-facing task operations.
type Service struct {
	repo      Repository
	directory employees.Directory
	notifier  notify.Notifier
	auditor   *audit.Service
	expenses  ExpenseRecorder
	sender    whatsapp.Sender

	clock func() time.Time
}

func NewService(repo Repository, directory employees.Directory, notifier notify.Notifier, auditor *audit.Service, sender whatsapp.Sender) *Service {
	return &Service{
		repo:      repo,
		directory: directory,
		notifier:  notifier,
		auditor:   auditor,
		sender:    sender,
		clock:     time.Now,
	}
}

// WithExpenses wires the optional expense recorder.
func (s *Service) WithExpenses(rec ExpenseRecorder) *Service {
	s.expenses = rec
	return s
}

// ProcessInbound applies one parsed inbound message to the task it targets.
// Declines (ambiguous input, unknown task, unauthorized sender, disallowed
// transition) are reported through the Outcome, not as errors; only storage
// and infrastructure failures return a non-nil error.
func (s *Service) ProcessInbound(ctx context.Context, in whatsapp.ParsedInbound) (whatsapp.Outcome, error) {
	action := in.Message.Action

	if action.Type == classify.ActionUnknown {
		return whatsapp.Outcome{Reason: "unclassified"}, nil
	}
	if action.TaskID == "" || action.TaskID == classify.TaskIDUnknown {
		return whatsapp.Outcome{Reason: "task_unresolved"}, nil
	}

	task, err := s.repo.GetByID(ctx, action.TaskID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return whatsapp.Outcome{Reason: "task_not_found"}, nil
		}
		return whatsapp.Outcome{}, err
	}

	sender, err := s.directory.FindByPhone(ctx, in.From)
	if err != nil {
		if errors.Is(err, employees.ErrNotFound) {
			s.auditUnauthorized(ctx, in, task.ID)
			return whatsapp.Outcome{TaskID: task.ID, Reason: "sender_unknown"}, nil
		}
		return whatsapp.Outcome{}, err
	}
	if sender.ID != task.AssigneeID {
		s.auditUnauthorized(ctx, in, task.ID)
		return whatsapp.Outcome{TaskID: task.ID, Reason: "not_assignee"}, nil
	}

	// Budget requests are recorded regardless of whether the transition is
	// accepted; an expense mention on a declined transition is still real.
	s.recordBudget(ctx, task.ID, sender.ID, in.Message.Extracted)

	res := ResolveTransition(task, action, s.clock())
	if res == nil {
		return whatsapp.Outcome{TaskID: task.ID, Reason: "invalid_transition"}, nil
	}

	updated, err := s.repo.ApplyUpdate(ctx, task.ID, res.Update, in.MessageID)
	if err != nil {
		if errors.Is(err, ErrAlreadyProcessed) {
			return whatsapp.Outcome{TaskID: task.ID, Reason: "duplicate_delivery"}, nil
		}
		return whatsapp.Outcome{}, err
	}

	s.notifyCreator(ctx, updated, sender, action)

	return whatsapp.Outcome{
		Applied:   true,
		TaskID:    updated.ID,
		NewStatus: string(res.NewStatus),
	}, nil
}

// ProcessDeliveryStatus handles outbound delivery receipts. A read receipt on
// an assignment message moves the task from SENT to READ.
func (s *Service) ProcessDeliveryStatus(ctx context.Context, st whatsapp.MessageStatus) error {
	if st.Status != "read" {
		return nil
	}

	taskID, err := s.repo.TaskIDByMessageID(ctx, st.ID)
	if err != nil || taskID == "" {
		return err
	}
	task, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	if task.Status != StatusSent {
		return nil
	}

	now := s.clock().UTC()
	status := StatusRead
	_, err = s.repo.ApplyUpdate(ctx, task.ID, TaskUpdate{Status: &status, ReadAt: &now}, "")
	return err
}

// CreateTask registers a new draft task.
func (s *Service) CreateTask(ctx context.Context, t Task) (Task, error) {
	if strings.TrimSpace(t.Title) == "" || t.CreatorID == "" {
		return Task{}, ErrInvalidArgument
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Type == "" {
		t.Type = TypeGeneral
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	t.Status = StatusDraft
	now := s.clock().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	if err := s.repo.Create(ctx, t); err != nil {
		return Task{}, err
	}
	return t, nil
}

// SendAssignment renders the assignment message for the task's type, sends it
// with reply buttons to the assignee, records the message link for reply
// correlation, and marks the task SENT.
func (s *Service) SendAssignment(ctx context.Context, taskID string) (Task, error) {
	task, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return Task{}, err
	}
	if task.AssigneeID == "" {
		return Task{}, fmt.Errorf("%w: task has no assignee", ErrInvalidArgument)
	}
	if task.Status != StatusDraft && task.Status != StatusSent {
		return Task{}, fmt.Errorf("%w: task is %s", ErrInvalidArgument, task.Status)
	}

	assignee, err := s.directory.FindByID(ctx, task.AssigneeID)
	if err != nil {
		return Task{}, err
	}

	now := s.clock().UTC()
	body := whatsapp.RenderAssignment(viewOf(task), now)
	msgID, err := s.sender.SendButtons(ctx, assignee.Phone, body, whatsapp.AssignmentButtons(task.ID))
	if err != nil {
		return Task{}, fmt.Errorf("send assignment: %w", err)
	}

	if err := s.repo.SaveLink(ctx, msgID, task.ID); err != nil {
		return Task{}, err
	}

	status := StatusSent
	return s.repo.ApplyUpdate(ctx, task.ID, TaskUpdate{Status: &status, SentAt: &now}, "")
}

// Cancel is an editor override: the task is cancelled regardless of its
// current status. Audited.
func (s *Service) Cancel(ctx context.Context, taskID, actorID, actorRole string) (Task, error) {
	task, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return Task{}, err
	}
	if task.Status == StatusCompleted || task.Status == StatusCancelled {
		return Task{}, fmt.Errorf("%w: task is %s", ErrInvalidArgument, task.Status)
	}

	status := StatusCancelled
	updated, err := s.repo.ApplyUpdate(ctx, taskID, TaskUpdate{Status: &status}, "")
	if err != nil {
		return Task{}, err
	}
	if s.auditor != nil {
		_ = s.auditor.LogEditorOverride(ctx, actorID, actorRole, ClientIPFromContext(ctx), taskID, "cancel", "")
	}
	return updated, nil
}

// Reassign is an editor override: the task moves to a new assignee and back
// to DRAFT so a fresh assignment can be sent. Audited.
func (s *Service) Reassign(ctx context.Context, taskID, newAssigneeID, actorID, actorRole string) (Task, error) {
	if newAssigneeID == "" {
		return Task{}, ErrInvalidArgument
	}
	if _, err := s.directory.FindByID(ctx, newAssigneeID); err != nil {
		return Task{}, err
	}
	task, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return Task{}, err
	}
	if task.Status == StatusCompleted || task.Status == StatusCancelled {
		return Task{}, fmt.Errorf("%w: task is %s", ErrInvalidArgument, task.Status)
	}

	status := StatusDraft
	updated, err := s.repo.ApplyUpdate(ctx, taskID, TaskUpdate{Status: &status, AssigneeID: &newAssigneeID}, "")
	if err != nil {
		return Task{}, err
	}
	if s.auditor != nil {
		_ = s.auditor.LogEditorOverride(ctx, actorID, actorRole, ClientIPFromContext(ctx), taskID, "reassign", fmt.Sprintf(`{"new_assignee":%q}`, newAssigneeID))
	}
	return updated, nil
}

// Get returns one task.
func (s *Service) Get(ctx context.Context, id string) (Task, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) auditUnauthorized(ctx context.Context, in whatsapp.ParsedInbound, taskID string) {
	if s.auditor == nil {
		return
	}
	_ = s.auditor.LogUnauthorizedSender(ctx, in.From, taskID, in.MessageID, ClientIPFromContext(ctx))
}

func (s *Service) recordBudget(ctx context.Context, taskID, employeeID string, extracted *classify.ExtractedData) {
	if s.expenses == nil || extracted == nil || extracted.BudgetRequest == nil {
		return
	}
	br := extracted.BudgetRequest
	_ = s.expenses.Record(ctx, taskID, employeeID, br.Amount, br.Description)
}

func (s *Service) notifyCreator(ctx context.Context, task Task, actor employees.Employee, action classify.ParsedAction) {
	if s.notifier == nil || task.CreatorID == "" {
		return
	}
	e := notify.Event{
		ID:          uuid.NewString(),
		TaskID:      task.ID,
		RecipientID: task.CreatorID,
		ActorID:     actor.ID,
		Action:      string(action.Type),
		Message:     whatsapp.RenderCreatorUpdate(viewOf(task), actor.Name, string(action.Type)),
		OccurredAt:  s.clock().UTC(),
	}
	// Notification failures must not roll back the transition; the update is
	// already durable.
	_ = s.notifier.Publish(ctx, e)
}

// viewOf converts the domain task to the provider-side render snapshot.
func viewOf(t Task) whatsapp.TaskView {
	return whatsapp.TaskView{
		ID:           t.ID,
		Type:         string(t.Type),
		Priority:     string(t.Priority),
		Title:        t.Title,
		Description:  t.Description,
		Location:     t.Location,
		Deadline:     t.Deadline,
		Deliverables: t.Deliverables,
		BudgetAmount: t.BudgetAmount,
		Currency:     t.Currency,
	}
}
