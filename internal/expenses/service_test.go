package expenses

import (
	"context"
	"errors"
	"testing"
)

func TestRecordAndReview(t *testing.T) {
	svc := NewService(NewMemoryRepo(), "BD")

	if err := svc.Record(context.Background(), "task-1", "emp-1", 20, "taxi to the venue"); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := svc.Record(context.Background(), "task-1", "emp-1", 7.5, ""); err != nil {
		t.Fatalf("Record: %v", err)
	}

	list, err := svc.ListByTask(context.Background(), "task-1")
	if err != nil {
		t.Fatalf("ListByTask: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expenses = %d, want 2", len(list))
	}
	if list[0].Status != StatusPending || list[0].Currency != "BD" {
		t.Fatalf("expense = %+v, want pending BD", list[0])
	}
	if list[1].Description != "Expense request" {
		t.Fatalf("blank description should default, got %q", list[1].Description)
	}

	approved, err := svc.Approve(context.Background(), list[0].ID, "emp-editor")
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if approved.Status != StatusApproved || approved.ReviewedBy != "emp-editor" || approved.ReviewedAt == nil {
		t.Fatalf("approved = %+v", approved)
	}

	if _, err := svc.Reject(context.Background(), list[0].ID, "emp-editor"); !errors.Is(err, ErrAlreadyReviewed) {
		t.Fatalf("second review err = %v, want ErrAlreadyReviewed", err)
	}
}

func TestRecordValidation(t *testing.T) {
	svc := NewService(NewMemoryRepo(), "")

	if err := svc.Record(context.Background(), "", "emp-1", 20, "x"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("missing task err = %v", err)
	}
	if err := svc.Record(context.Background(), "task-1", "emp-1", 0, "x"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("zero amount err = %v", err)
	}
}
