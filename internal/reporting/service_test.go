package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"newsdesk-platform/internal/expenses"
	"newsdesk-platform/internal/tasks"
)

func int64p(v int64) *int64 { return &v }

func TestTasksSummary(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	repo := &MemoryRepo{Tasks: []tasks.Task{
		{ID: "a", Status: tasks.StatusCompleted, AssigneeID: "emp-1", CreatedAt: base.Add(time.Hour),
			ResponseTimeSecs: int64p(120), CompletionTimeSecs: int64p(3600), EscalationCount: 1},
		{ID: "b", Status: tasks.StatusCompleted, AssigneeID: "emp-1", CreatedAt: base.Add(2 * time.Hour),
			ResponseTimeSecs: int64p(240), CompletionTimeSecs: int64p(1800)},
		{ID: "c", Status: tasks.StatusInProgress, AssigneeID: "emp-2", CreatedAt: base.Add(3 * time.Hour),
			EscalationCount: 2},
		{ID: "d", Status: tasks.StatusSent, AssigneeID: "emp-1", CreatedAt: base.Add(4 * time.Hour)},
		{ID: "old", Status: tasks.StatusCompleted, AssigneeID: "emp-1", CreatedAt: base.Add(-time.Hour)},
	}}

	svc := NewService(repo)
	sum, err := svc.TasksSummary(context.Background(), TasksSummaryRequest{
		Range: TimeRange{From: base, To: base.Add(24 * time.Hour)},
	})
	if err != nil {
		t.Fatalf("TasksSummary: %v", err)
	}
	if sum.TotalTasks != 4 || sum.CompletedTasks != 2 || sum.InProgressTasks != 1 || sum.PendingTasks != 1 {
		t.Fatalf("summary = %+v", sum)
	}
	if sum.AverageResponseSeconds != 180 || sum.AverageCompletionSeconds != 2700 {
		t.Fatalf("averages = %d/%d, want 180/2700", sum.AverageResponseSeconds, sum.AverageCompletionSeconds)
	}
	if sum.TotalEscalations != 3 {
		t.Fatalf("escalations = %d, want 3", sum.TotalEscalations)
	}

	sum, err = svc.TasksSummary(context.Background(), TasksSummaryRequest{
		Range:      TimeRange{From: base, To: base.Add(24 * time.Hour)},
		AssigneeID: "emp-2",
	})
	if err != nil {
		t.Fatalf("TasksSummary: %v", err)
	}
	if sum.TotalTasks != 1 || sum.InProgressTasks != 1 {
		t.Fatalf("assignee summary = %+v", sum)
	}
}

func TestTasksSummaryValidatesRange(t *testing.T) {
	svc := NewService(&MemoryRepo{})
	now := time.Now()
	_, err := svc.TasksSummary(context.Background(), TasksSummaryRequest{Range: TimeRange{From: now, To: now}})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest", err)
	}
}

func TestExpenseSummary(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	repo := &MemoryRepo{Expenses: []expenses.Expense{
		{ID: "e1", TaskID: "a", Amount: 20, Currency: "BD", Status: expenses.StatusApproved, CreatedAt: base.Add(time.Hour)},
		{ID: "e2", TaskID: "a", Amount: 5, Currency: "BD", Status: expenses.StatusPending, CreatedAt: base.Add(time.Hour)},
		{ID: "e3", TaskID: "b", Amount: 12, Currency: "BD", Status: expenses.StatusRejected, CreatedAt: base.Add(time.Hour)},
	}}

	svc := NewService(repo)
	sum, err := svc.ExpenseSummary(context.Background(), ExpenseSummaryRequest{
		Range: TimeRange{From: base, To: base.Add(24 * time.Hour)},
	})
	if err != nil {
		t.Fatalf("ExpenseSummary: %v", err)
	}
	if sum.TotalRequests != 3 || sum.ApprovedRequests != 1 || sum.PendingRequests != 1 || sum.RejectedRequests != 1 {
		t.Fatalf("summary = %+v", sum)
	}
	if sum.ApprovedAmount != 20 || sum.RequestedAmount != 37 {
		t.Fatalf("amounts = %v/%v, want 20/37", sum.ApprovedAmount, sum.RequestedAmount)
	}
	if sum.Currency != "BD" {
		t.Fatalf("currency = %q", sum.Currency)
	}
}
