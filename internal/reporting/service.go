package reporting

import (
	"context"
	"errors"
	"time"

	"newsdesk-platform/internal/expenses"
	"newsdesk-platform/internal/tasks"
)

var ErrInvalidRequest = errors.New("reporting: invalid request")

// Repository abstracts data access for reporting.
//
// Implementations should query the task and expense stores directly; the
// summaries are read-only aggregates and never mutate anything.
type Repository interface {
	ListTasks(ctx context.Context, from, to time.Time, assigneeID string) ([]tasks.Task, error)
	ListExpenses(ctx context.Context, from, to time.Time, taskID string) ([]expenses.Expense, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service { return &Service{repo: repo} }

func (s *Service) TasksSummary(ctx context.Context, req TasksSummaryRequest) (TasksSummary, error) {
	if req.Range.From.IsZero() || req.Range.To.IsZero() || !req.Range.To.After(req.Range.From) {
		return TasksSummary{}, ErrInvalidRequest
	}
	if s.repo == nil {
		return TasksSummary{}, errors.New("reporting: repository not configured")
	}

	rows, err := s.repo.ListTasks(ctx, req.Range.From, req.Range.To, req.AssigneeID)
	if err != nil {
		return TasksSummary{}, err
	}

	out := TasksSummary{AssigneeID: req.AssigneeID}
	var responseTotal, completionTotal int64
	var responseN, completionN int64
	for _, t := range rows {
		out.TotalTasks++
		out.TotalEscalations += t.EscalationCount
		switch t.Status {
		case tasks.StatusCompleted:
			out.CompletedTasks++
		case tasks.StatusInProgress:
			out.InProgressTasks++
		case tasks.StatusAccepted:
			out.AcceptedTasks++
		case tasks.StatusRejected:
			out.RejectedTasks++
		case tasks.StatusCancelled:
			out.CancelledTasks++
		case tasks.StatusReview:
			out.ReviewTasks++
		case tasks.StatusOverdue:
			out.OverdueTasks++
		case tasks.StatusDraft, tasks.StatusSent, tasks.StatusRead:
			out.PendingTasks++
		}
		if t.ResponseTimeSecs != nil {
			responseTotal += *t.ResponseTimeSecs
			responseN++
		}
		if t.CompletionTimeSecs != nil {
			completionTotal += *t.CompletionTimeSecs
			completionN++
		}
	}
	if responseN > 0 {
		out.AverageResponseSeconds = responseTotal / responseN
	}
	if completionN > 0 {
		out.AverageCompletionSeconds = completionTotal / completionN
	}
	return out, nil
}

func (s *Service) ExpenseSummary(ctx context.Context, req ExpenseSummaryRequest) (ExpenseSummary, error) {
	if req.Range.From.IsZero() || req.Range.To.IsZero() || !req.Range.To.After(req.Range.From) {
		return ExpenseSummary{}, ErrInvalidRequest
	}
	if s.repo == nil {
		return ExpenseSummary{}, errors.New("reporting: repository not configured")
	}

	rows, err := s.repo.ListExpenses(ctx, req.Range.From, req.Range.To, req.TaskID)
	if err != nil {
		return ExpenseSummary{}, err
	}

	out := ExpenseSummary{TaskID: req.TaskID}
	for _, e := range rows {
		if out.Currency == "" {
			out.Currency = e.Currency
		}
		out.TotalRequests++
		out.RequestedAmount += e.Amount
		switch e.Status {
		case expenses.StatusPending:
			out.PendingRequests++
		case expenses.StatusApproved:
			out.ApprovedRequests++
			out.ApprovedAmount += e.Amount
		case expenses.StatusRejected:
			out.RejectedRequests++
		}
	}
	return out, nil
}
