package whatsapp

import (
	"fmt"
	"strings"
	"time"
)

// Assignment message templates. Pure rendering only; no transport calls and
// no status decisions here.
//
// The trailing "Task ID: #XXXXXXXX" footer (first 8 chars of the id,
// uppercased) is what classify.ExtractTaskID recovers on the inbound side;
// the two must stay in lockstep.

// TaskView is the provider-side snapshot a template renders. Adapters build
// it from the domain task model; templates never see storage types.
type TaskView struct {
	ID           string
	Type         string
	Priority     string
	Title        string
	Description  string
	Location     string
	Deadline     *time.Time
	Deliverables []string
	BudgetAmount float64
	Currency     string
}

// Task type keys. Unknown or custom types use the generic template.
const (
	TaskTypeBreakingNews = "BREAKING_NEWS"
	TaskTypePressConf    = "PRESS_CONF"
	TaskTypeInterview    = "INTERVIEW"
	TaskTypePhotoAssign  = "PHOTO_ASSIGN"
	TaskTypeVideoAssign  = "VIDEO_ASSIGN"
)

const genericDescriptionLimit = 200

type templateFunc func(t TaskView, now time.Time) string

var assignmentTemplates = map[string]templateFunc{
	TaskTypeBreakingNews: renderBreakingNews,
	TaskTypePressConf:    renderPressConf,
	TaskTypeInterview:    renderInterview,
	TaskTypePhotoAssign:  renderMediaAssignment,
	TaskTypeVideoAssign:  renderMediaAssignment,
}

// RenderAssignment selects the template for the task's type and renders the
// assignment notice.
func RenderAssignment(t TaskView, now time.Time) string {
	if fn, ok := assignmentTemplates[t.Type]; ok {
		return fn(t, now)
	}
	return renderGeneric(t, now)
}

func renderBreakingNews(t TaskView, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🚨 BREAKING NEWS %s\n\n", priorityLabel(t.Priority))
	fmt.Fprintf(&b, "*%s*\n", t.Title)
	writeCommon(&b, t, now, t.Description)
	b.WriteString("\nGet there as fast as you can. Reply or use the buttons to update the desk.\n")
	writeFooter(&b, t.ID)
	return b.String()
}

func renderPressConf(t TaskView, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎤 Press Conference %s\n\n", priorityLabel(t.Priority))
	fmt.Fprintf(&b, "*%s*\n", t.Title)
	writeCommon(&b, t, now, t.Description)
	b.WriteString("\nArrive early for accreditation and a front position.\n")
	writeFooter(&b, t.ID)
	return b.String()
}

func renderInterview(t TaskView, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🗣️ Interview %s\n\n", priorityLabel(t.Priority))
	fmt.Fprintf(&b, "*%s*\n", t.Title)
	writeCommon(&b, t, now, t.Description)
	writeFooter(&b, t.ID)
	return b.String()
}

func renderMediaAssignment(t TaskView, now time.Time) string {
	var b strings.Builder
	label := "📷 Photo Assignment"
	if t.Type == TaskTypeVideoAssign {
		label = "🎥 Video Assignment"
	}
	fmt.Fprintf(&b, "%s %s\n\n", label, priorityLabel(t.Priority))
	fmt.Fprintf(&b, "*%s*\n", t.Title)
	writeCommon(&b, t, now, t.Description)
	writeFooter(&b, t.ID)
	return b.String()
}

func renderGeneric(t TaskView, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 New Assignment %s\n\n", priorityLabel(t.Priority))
	fmt.Fprintf(&b, "*%s*\n", t.Title)
	writeCommon(&b, t, now, truncate(t.Description, genericDescriptionLimit))
	writeFooter(&b, t.ID)
	return b.String()
}

// RenderReminder nudges the assignee about an unanswered or approaching task.
func RenderReminder(t TaskView, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⏰ Reminder: *%s*\n", t.Title)
	if t.Deadline != nil {
		fmt.Fprintf(&b, "Deadline: %s\n", formatDeadline(*t.Deadline, now))
	}
	b.WriteString("Please update the desk on your status.\n")
	writeFooter(&b, t.ID)
	return b.String()
}

// RenderEscalation is sent when a task has been delayed repeatedly.
func RenderEscalation(t TaskView, escalations int, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⚠️ Escalation (%d): *%s*\n", escalations, t.Title)
	if t.Deadline != nil {
		fmt.Fprintf(&b, "Deadline: %s\n", formatDeadline(*t.Deadline, now))
	}
	b.WriteString("The desk has been notified. Reply with your status or call the editor.\n")
	writeFooter(&b, t.ID)
	return b.String()
}

// RenderCreatorUpdate summarizes field activity for the task's creator. This
// is the creator's only signal that something happened in the field.
func RenderCreatorUpdate(t TaskView, actorName, action string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s on *%s*\n", actorName, strings.ToLower(strings.ReplaceAll(action, "_", " ")), t.Title)
	writeFooter(&b, t.ID)
	return b.String()
}

func writeCommon(b *strings.Builder, t TaskView, now time.Time, description string) {
	if t.Location != "" {
		fmt.Fprintf(b, "📍 %s\n", t.Location)
	}
	if t.Deadline != nil {
		fmt.Fprintf(b, "🕒 Deadline: %s\n", formatDeadline(*t.Deadline, now))
	}
	if description != "" {
		fmt.Fprintf(b, "\n%s\n", description)
	}
	if len(t.Deliverables) > 0 {
		b.WriteString("\nDeliverables:\n")
		for _, d := range t.Deliverables {
			fmt.Fprintf(b, "☐ %s\n", d)
		}
	}
	if t.BudgetAmount > 0 {
		cur := t.Currency
		if cur == "" {
			cur = "BD"
		}
		fmt.Fprintf(b, "\n💰 Budget: %s %.2f\n", cur, t.BudgetAmount)
	}
}

// priorityLabel renders the priority marker shown in message headers.
func priorityLabel(priority string) string {
	switch strings.ToUpper(priority) {
	case "URGENT":
		return "🔴 URGENT"
	case "HIGH":
		return "🟠 HIGH"
	case "MEDIUM":
		return "🟡 MEDIUM"
	case "LOW":
		return "🟢 LOW"
	default:
		return ""
	}
}

func writeFooter(b *strings.Builder, id string) {
	fmt.Fprintf(b, "\nTask ID: #%s", ShortTaskID(id))
}

// ShortTaskID is the first 8 characters of the id, uppercased. It is the
// token embedded in outbound footers and recovered by id extraction.
func ShortTaskID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return strings.ToUpper(id)
}

// formatDeadline renders an absolute timestamp when the deadline is more
// than 24h away, otherwise a relative "Xh Ym from now". Past deadlines are
// flagged as overdue.
func formatDeadline(deadline, now time.Time) string {
	until := deadline.Sub(now)
	if until <= 0 {
		return fmt.Sprintf("%s (overdue)", deadline.Format("Mon 2 Jan 15:04"))
	}
	if until > 24*time.Hour {
		return deadline.Format("Mon 2 Jan 2006 15:04")
	}
	h := int(until.Hours())
	m := int(until.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm from now", m)
	}
	return fmt.Sprintf("%dh %dm from now", h, m)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit-3] + "..."
}
