package expenses

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("expenses: not found")
	ErrInvalidArgument = errors.New("expenses: invalid argument")
	ErrAlreadyReviewed = errors.New("expenses: already reviewed")
)

type Repository interface {
	Create(ctx context.Context, e Expense) error
	GetByID(ctx context.Context, id string) (Expense, error)
	ListByTask(ctx context.Context, taskID string) ([]Expense, error)
	SetStatus(ctx context.Context, id string, status ExpenseStatus, reviewedBy string, reviewedAt time.Time) (Expense, error)
}

// Service records and reviews expense requests. Recording is called from the
// inbound message pipeline and must never block a status transition; review
// is an editor action.
type Service struct {
	repo     Repository
	currency string
	clock    func() time.Time
}

func NewService(repo Repository, currency string) *Service {
	if currency == "" {
		currency = "BD"
	}
	return &Service{repo: repo, currency: currency, clock: time.Now}
}

// Record stores a pending expense extracted from an inbound message.
// Implements the task pipeline's ExpenseRecorder contract.
func (s *Service) Record(ctx context.Context, taskID, employeeID string, amount float64, description string) error {
	if taskID == "" || employeeID == "" || amount <= 0 {
		return ErrInvalidArgument
	}
	if strings.TrimSpace(description) == "" {
		description = "Expense request"
	}
	return s.repo.Create(ctx, Expense{
		ID:          uuid.NewString(),
		TaskID:      taskID,
		EmployeeID:  employeeID,
		Amount:      amount,
		Currency:    s.currency,
		Description: description,
		Status:      StatusPending,
		CreatedAt:   s.clock().UTC(),
	})
}

func (s *Service) ListByTask(ctx context.Context, taskID string) ([]Expense, error) {
	if taskID == "" {
		return nil, ErrInvalidArgument
	}
	return s.repo.ListByTask(ctx, taskID)
}

func (s *Service) Approve(ctx context.Context, id, reviewerID string) (Expense, error) {
	return s.review(ctx, id, reviewerID, StatusApproved)
}

func (s *Service) Reject(ctx context.Context, id, reviewerID string) (Expense, error) {
	return s.review(ctx, id, reviewerID, StatusRejected)
}

func (s *Service) review(ctx context.Context, id, reviewerID string, status ExpenseStatus) (Expense, error) {
	if id == "" || reviewerID == "" {
		return Expense{}, ErrInvalidArgument
	}
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Expense{}, err
	}
	if e.Status != StatusPending {
		return Expense{}, ErrAlreadyReviewed
	}
	return s.repo.SetStatus(ctx, id, status, reviewerID, s.clock().UTC())
}
