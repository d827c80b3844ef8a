package tasks

import (
	"time"

	"newsdesk-platform/internal/classify"
)

// Transition table: which actions are accepted from which status. Anything
// not listed here is declined without mutation. A repeated STARTED/ON_WAY
// while the task is already IN_PROGRESS is deliberately absent and therefore
// declined.
var allowedTransitions = map[TaskStatus][]classify.ActionType{
	StatusSent:       {classify.ActionAccept, classify.ActionDecline},
	StatusRead:       {classify.ActionAccept, classify.ActionDecline},
	StatusAccepted:   {classify.ActionStarted, classify.ActionOnWay, classify.ActionDecline},
	StatusInProgress: {classify.ActionArrived, classify.ActionDone, classify.ActionDelay, classify.ActionIssue},
}

// TransitionAllowed reports whether action is accepted from the current
// status.
func TransitionAllowed(current TaskStatus, action classify.ActionType) bool {
	for _, a := range allowedTransitions[current] {
		if a == action {
			return true
		}
	}
	return false
}

// Resolution is a resolved transition: the status the task moves to and the
// field mutations that go with it.
type Resolution struct {
	NewStatus TaskStatus
	Update    TaskUpdate
}

// ResolveTransition validates action against the task's current status and
// computes the resulting mutation set. A nil result means "decline, no
// mutation" and is the designed response to ambiguous or out-of-order input,
// not an error.
//
// Assertion note: task.Status must be a known lifecycle value; a value
// outside the enum indicates corrupted upstream state and resolves to nil
// like any other non-transitionable status.
func ResolveTransition(task Task, action classify.ParsedAction, now time.Time) *Resolution {
	if action.Type == classify.ActionUnknown {
		return nil
	}
	if action.TaskID == "" || action.TaskID == classify.TaskIDUnknown {
		return nil
	}
	if !TransitionAllowed(task.Status, action.Type) {
		return nil
	}

	now = now.UTC()
	res := &Resolution{NewStatus: task.Status}

	switch action.Type {
	case classify.ActionAccept:
		res.NewStatus = StatusAccepted
		res.Update.AcceptedAt = &now
		if task.SentAt != nil {
			secs := int64(now.Sub(*task.SentAt).Seconds())
			res.Update.ResponseTimeSecs = &secs
		}

	case classify.ActionDecline:
		res.NewStatus = StatusRejected

	case classify.ActionStarted, classify.ActionOnWay:
		res.NewStatus = StatusInProgress
		// First signal only; a later ON_WAY after STARTED must not move
		// started_at forward.
		if task.StartedAt == nil {
			res.Update.StartedAt = &now
		}

	case classify.ActionArrived:
		// Arrival is informational: the task stays IN_PROGRESS, the creator
		// is notified.

	case classify.ActionDone:
		res.NewStatus = StatusCompleted
		res.Update.CompletedAt = &now
		if task.StartedAt != nil {
			secs := int64(now.Sub(*task.StartedAt).Seconds())
			res.Update.CompletionTimeSecs = &secs
		}

	case classify.ActionDelay:
		// Status unchanged. Escalation counts even when the duration did not
		// parse; the deadline only moves when it did.
		res.Update.EscalationIncrement = 1
		if action.Minutes != nil {
			base := now
			if task.Deadline != nil {
				base = *task.Deadline
			}
			extended := base.Add(time.Duration(*action.Minutes) * time.Minute)
			res.Update.Deadline = &extended
		}

	case classify.ActionIssue:
		res.NewStatus = StatusReview

	default:
		return nil
	}

	if res.NewStatus != task.Status {
		status := res.NewStatus
		res.Update.Status = &status
	}
	return res
}
