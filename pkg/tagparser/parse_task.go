package tagparser

import (
	"strconv"
	"strings"

	"github.com/todozi/todozi/pkg/content"
)

// parseTask handles <todozi>: action; time; priority; project; status;
// [assignee=]; [tags=]; [dependencies=]; [context_notes=]; [progress=%]
func parseTask(c *ChatContent, f rawFields) {
	const tag = "todozi"
	if len(f.Positional) < 5 {
		c.reject(tag, "body", "expected at least 5 positional fields: action; time; priority; project; status")
		return
	}

	priority, ok := content.ParsePriority(f.get(2))
	if !ok {
		c.reject(tag, "priority", "unrecognized priority %q", f.get(2))
		return
	}
	status, ok := content.ParseTaskStatus(f.get(4))
	if !ok {
		c.reject(tag, "status", "unrecognized status %q", f.get(4))
		return
	}

	t := &content.Task{
		Action:       f.get(0),
		TimeEstimate: f.get(1),
		Priority:     priority,
		Project:      f.get(3),
		Status:       status,
	}

	if raw, ok := f.named("assignee"); ok {
		a, ok := content.ParseAssignee(raw)
		if !ok {
			c.reject(tag, "assignee", "unrecognized assignee %q", raw)
			return
		}
		t.Assignee = &a
	}
	if raw, ok := f.named("tags"); ok {
		t.TagList = content.SplitTags(raw)
	}
	if raw, ok := f.named("dependencies"); ok {
		t.Dependencies = content.SplitTags(raw)
	}
	if raw, ok := f.named("context_notes"); ok {
		t.ContextNotes = raw
	}
	if raw, ok := f.named("progress"); ok {
		raw = strings.TrimSuffix(strings.TrimSpace(raw), "%")
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > 100 {
			c.reject(tag, "progress", "progress %q out of range", raw)
			return
		}
		t.Progress = &n
	}

	if err := t.Validate(); err != nil {
		c.reject(tag, "validate", err.Error())
		return
	}
	c.Tasks = append(c.Tasks, t)
}
