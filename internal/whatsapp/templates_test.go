package whatsapp

import (
	"strings"
	"testing"
	"time"

	"newsdesk-platform/internal/classify"
)

var renderNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func sampleTask(taskType string) TaskView {
	deadline := renderNow.Add(3 * time.Hour)
	return TaskView{
		ID:           "3f9a2c1b-77aa-4bd1-9c01-aa00bb11cc22",
		Type:         taskType,
		Priority:     "HIGH",
		Title:        "Fire at the port warehouse",
		Description:  "Get eyewitness statements and confirm casualty figures with civil defence.",
		Location:     "Mina Salman, Manama",
		Deadline:     &deadline,
		Deliverables: []string{"3 photos", "short video", "quotes"},
		BudgetAmount: 15,
	}
}

func TestRenderAssignment_FooterRoundTrip(t *testing.T) {
	for _, taskType := range []string{
		TaskTypeBreakingNews, TaskTypePressConf, TaskTypeInterview,
		TaskTypePhotoAssign, TaskTypeVideoAssign, "CUSTOM_TYPE",
	} {
		out := RenderAssignment(sampleTask(taskType), renderNow)
		if !strings.Contains(out, "Task ID: #3F9A2C1B") {
			t.Fatalf("%s: missing task id footer in:\n%s", taskType, out)
		}
		// The footer must round-trip through inbound id extraction.
		if got := classify.ExtractTaskID(out); got != "3F9A2C1B" {
			t.Fatalf("%s: footer extraction got %q", taskType, got)
		}
	}
}

func TestRenderAssignment_CommonFields(t *testing.T) {
	out := RenderAssignment(sampleTask(TaskTypeBreakingNews), renderNow)
	for _, want := range []string{
		"Fire at the port warehouse",
		"Mina Salman, Manama",
		"3h 0m from now",
		"3 photos",
		"15.00",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestRenderAssignment_GenericTruncatesDescription(t *testing.T) {
	task := sampleTask("CUSTOM_TYPE")
	task.Description = strings.Repeat("x", 400)
	out := RenderAssignment(task, renderNow)
	if strings.Contains(out, strings.Repeat("x", 201)) {
		t.Fatalf("generic template must truncate description to 200 chars")
	}
	if !strings.Contains(out, "...") {
		t.Fatalf("expected truncation ellipsis")
	}
}

func TestFormatDeadline(t *testing.T) {
	cases := []struct {
		deadline time.Time
		want     string
	}{
		{renderNow.Add(90 * time.Minute), "1h 30m from now"},
		{renderNow.Add(20 * time.Minute), "20m from now"},
		{renderNow.Add(48 * time.Hour), renderNow.Add(48 * time.Hour).Format("Mon 2 Jan 2006 15:04")},
		{renderNow.Add(-time.Hour), renderNow.Add(-time.Hour).Format("Mon 2 Jan 15:04") + " (overdue)"},
	}
	for _, tc := range cases {
		if got := formatDeadline(tc.deadline, renderNow); got != tc.want {
			t.Fatalf("formatDeadline(%v): got %q, want %q", tc.deadline, got, tc.want)
		}
	}
}

func TestShortTaskID(t *testing.T) {
	if got := ShortTaskID("3f9a2c1b-77aa"); got != "3F9A2C1B" {
		t.Fatalf("got %q", got)
	}
	if got := ShortTaskID("ab12"); got != "AB12" {
		t.Fatalf("short ids pass through uppercased, got %q", got)
	}
}

func TestRenderReminderAndEscalation(t *testing.T) {
	task := sampleTask(TaskTypeInterview)
	if out := RenderReminder(task, renderNow); !strings.Contains(out, "Task ID: #3F9A2C1B") {
		t.Fatalf("reminder missing footer:\n%s", out)
	}
	out := RenderEscalation(task, 2, renderNow)
	if !strings.Contains(out, "(2)") {
		t.Fatalf("escalation missing count:\n%s", out)
	}
}
