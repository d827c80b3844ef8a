package tasks

import (
	"testing"
	"time"

	"newsdesk-platform/internal/classify"
)

func mkAction(t classify.ActionType) classify.ParsedAction {
	return classify.ParsedAction{Type: t, TaskID: "task-1"}
}

func TestResolveTransitionAccept(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	sentAt := now.Add(-90 * time.Second)

	task := Task{ID: "task-1", Status: StatusSent, SentAt: &sentAt}
	res := ResolveTransition(task, mkAction(classify.ActionAccept), now)
	if res == nil {
		t.Fatal("expected resolution, got nil")
	}
	if res.NewStatus != StatusAccepted {
		t.Fatalf("NewStatus = %s, want %s", res.NewStatus, StatusAccepted)
	}
	if res.Update.AcceptedAt == nil || !res.Update.AcceptedAt.Equal(now) {
		t.Fatalf("AcceptedAt = %v, want %v", res.Update.AcceptedAt, now)
	}
	if res.Update.ResponseTimeSecs == nil || *res.Update.ResponseTimeSecs != 90 {
		t.Fatalf("ResponseTimeSecs = %v, want 90", res.Update.ResponseTimeSecs)
	}
	if res.Update.Status == nil || *res.Update.Status != StatusAccepted {
		t.Fatalf("Update.Status = %v, want %s", res.Update.Status, StatusAccepted)
	}
}

func TestResolveTransitionAcceptWithoutSentAt(t *testing.T) {
	now := time.Now().UTC()
	task := Task{ID: "task-1", Status: StatusRead}
	res := ResolveTransition(task, mkAction(classify.ActionAccept), now)
	if res == nil {
		t.Fatal("expected resolution, got nil")
	}
	if res.Update.ResponseTimeSecs != nil {
		t.Fatalf("ResponseTimeSecs = %v, want nil without sent_at", *res.Update.ResponseTimeSecs)
	}
}

func TestResolveTransitionDone(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	startedAt := now.Add(-2 * time.Hour)

	task := Task{ID: "task-1", Status: StatusInProgress, StartedAt: &startedAt}
	res := ResolveTransition(task, mkAction(classify.ActionDone), now)
	if res == nil {
		t.Fatal("expected resolution, got nil")
	}
	if res.NewStatus != StatusCompleted {
		t.Fatalf("NewStatus = %s, want %s", res.NewStatus, StatusCompleted)
	}
	if res.Update.CompletedAt == nil {
		t.Fatal("CompletedAt not set")
	}
	if res.Update.CompletionTimeSecs == nil || *res.Update.CompletionTimeSecs != 7200 {
		t.Fatalf("CompletionTimeSecs = %v, want 7200", res.Update.CompletionTimeSecs)
	}
}

func TestResolveTransitionStartedFirstOnly(t *testing.T) {
	now := time.Now().UTC()
	task := Task{ID: "task-1", Status: StatusAccepted}

	res := ResolveTransition(task, mkAction(classify.ActionStarted), now)
	if res == nil {
		t.Fatal("expected resolution, got nil")
	}
	if res.Update.StartedAt == nil {
		t.Fatal("first STARTED must set started_at")
	}

	already := now.Add(-time.Hour)
	task.StartedAt = &already
	res = ResolveTransition(task, mkAction(classify.ActionOnWay), now)
	if res == nil {
		t.Fatal("expected resolution, got nil")
	}
	if res.Update.StartedAt != nil {
		t.Fatal("started_at must not move once set")
	}
}

func TestResolveTransitionDelay(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	deadline := now.Add(3 * time.Hour)
	minutes := 30

	task := Task{ID: "task-1", Status: StatusInProgress, Deadline: &deadline}
	action := mkAction(classify.ActionDelay)
	action.Minutes = &minutes

	res := ResolveTransition(task, action, now)
	if res == nil {
		t.Fatal("expected resolution, got nil")
	}
	if res.NewStatus != StatusInProgress {
		t.Fatalf("NewStatus = %s, want unchanged %s", res.NewStatus, StatusInProgress)
	}
	if res.Update.Status != nil {
		t.Fatal("status must stay untouched on DELAY")
	}
	if res.Update.EscalationIncrement != 1 {
		t.Fatalf("EscalationIncrement = %d, want 1", res.Update.EscalationIncrement)
	}
	want := deadline.Add(30 * time.Minute)
	if res.Update.Deadline == nil || !res.Update.Deadline.Equal(want) {
		t.Fatalf("Deadline = %v, want %v", res.Update.Deadline, want)
	}
}

func TestResolveTransitionDelayWithoutMinutes(t *testing.T) {
	now := time.Now().UTC()
	task := Task{ID: "task-1", Status: StatusInProgress}

	res := ResolveTransition(task, mkAction(classify.ActionDelay), now)
	if res == nil {
		t.Fatal("expected resolution, got nil")
	}
	if res.Update.EscalationIncrement != 1 {
		t.Fatalf("EscalationIncrement = %d, want 1 even without a parsed duration", res.Update.EscalationIncrement)
	}
	if res.Update.Deadline != nil {
		t.Fatal("Deadline must not move without a parsed duration")
	}
}

func TestResolveTransitionDeclined(t *testing.T) {
	now := time.Now().UTC()
	started := now.Add(-time.Hour)

	cases := []struct {
		name   string
		task   Task
		action classify.ParsedAction
	}{
		{
			name:   "repeated started while in progress",
			task:   Task{ID: "task-1", Status: StatusInProgress, StartedAt: &started},
			action: mkAction(classify.ActionStarted),
		},
		{
			name:   "accept after completion",
			task:   Task{ID: "task-1", Status: StatusCompleted},
			action: mkAction(classify.ActionAccept),
		},
		{
			name:   "done before starting",
			task:   Task{ID: "task-1", Status: StatusSent},
			action: mkAction(classify.ActionDone),
		},
		{
			name:   "unknown action",
			task:   Task{ID: "task-1", Status: StatusSent},
			action: classify.ParsedAction{Type: classify.ActionUnknown, TaskID: "task-1"},
		},
		{
			name:   "unresolved task id",
			task:   Task{ID: "task-1", Status: StatusSent},
			action: classify.ParsedAction{Type: classify.ActionAccept, TaskID: classify.TaskIDUnknown},
		},
		{
			name:   "cancelled task",
			task:   Task{ID: "task-1", Status: StatusCancelled},
			action: mkAction(classify.ActionAccept),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if res := ResolveTransition(tc.task, tc.action, now); res != nil {
				t.Fatalf("expected nil resolution, got %+v", res)
			}
		})
	}
}

func TestResolveTransitionIssueAndDecline(t *testing.T) {
	now := time.Now().UTC()

	res := ResolveTransition(Task{ID: "task-1", Status: StatusInProgress}, mkAction(classify.ActionIssue), now)
	if res == nil || res.NewStatus != StatusReview {
		t.Fatalf("ISSUE: got %+v, want REVIEW", res)
	}

	res = ResolveTransition(Task{ID: "task-1", Status: StatusAccepted}, mkAction(classify.ActionDecline), now)
	if res == nil || res.NewStatus != StatusRejected {
		t.Fatalf("DECLINE: got %+v, want REJECTED", res)
	}
}

func TestResolveTransitionArrivedIsInformational(t *testing.T) {
	now := time.Now().UTC()
	res := ResolveTransition(Task{ID: "task-1", Status: StatusInProgress}, mkAction(classify.ActionArrived), now)
	if res == nil {
		t.Fatal("expected resolution, got nil")
	}
	if res.NewStatus != StatusInProgress || res.Update.Status != nil {
		t.Fatalf("ARRIVED must not change status, got %+v", res)
	}
}
