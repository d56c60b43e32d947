package tagparser

import (
	"time"

	"github.com/todozi/todozi/pkg/content"
)

// parseReminder handles <reminder>: content; remind_at(ISO-8601); priority;
// [status]; [tags]
func parseReminder(c *ChatContent, f rawFields) {
	const tag = "reminder"
	if len(f.Positional) < 3 {
		c.reject(tag, "body", "expected at least 3 positional fields: content; remind_at; priority")
		return
	}

	remindAt, err := time.Parse(time.RFC3339, f.get(1))
	if err != nil {
		c.reject(tag, "remind_at", "invalid ISO-8601 timestamp %q", f.get(1))
		return
	}
	priority, ok := content.ParsePriority(f.get(2))
	if !ok {
		c.reject(tag, "priority", "unrecognized priority %q", f.get(2))
		return
	}

	r := &Reminder{
		Content:  f.get(0),
		RemindAt: remindAt,
		Priority: priority,
		Status:   content.StatusTodo,
	}
	if raw, ok := f.named("status"); ok {
		status, ok := content.ParseTaskStatus(raw)
		if !ok {
			c.reject(tag, "status", "unrecognized status %q", raw)
			return
		}
		r.Status = status
	}
	if raw, ok := f.named("tags"); ok {
		r.Tags = content.SplitTags(raw)
	}
	c.Reminders = append(c.Reminders, r)
}
