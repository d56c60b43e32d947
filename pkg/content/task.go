package content

import (
	"strings"
	"time"

	"github.com/todozi/todozi/pkg/errs"
)

// Task is an action item, optionally assigned, optionally blocked on other
// tasks, tracked to completion.
type Task struct {
	ID           string
	CreatorID    string
	Action       string
	TimeEstimate string
	Priority     Priority
	Project      string
	Status       TaskStatus
	Assignee     *Assignee
	TagList      []string
	Dependencies []string
	ContextNotes string
	Progress     *int

	Created   time.Time
	Updated   time.Time
	Embedding []float64
}

var _ Item = (*Task)(nil)

func (t *Task) ContentID() string    { return t.ID }
func (t *Task) ContentType() Type    { return TypeTask }
func (t *Task) Tags() []string       { return t.TagList }
func (t *Task) ProjectID() string    { return t.Project }
func (t *Task) CreatedAt() time.Time { return t.Created }
func (t *Task) UpdatedAt() time.Time { return t.Updated }

func (t *Task) IndexableText() string {
	var b strings.Builder
	b.WriteString(t.Action)
	if t.ContextNotes != "" {
		b.WriteString(" ")
		b.WriteString(t.ContextNotes)
	}
	return b.String()
}

// Validate enforces: progress <= 100; if status is Done then progress must
// be 100.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Action) == "" {
		return errs.Validation("action", "task action must not be empty")
	}
	if t.Progress != nil {
		if *t.Progress < 0 || *t.Progress > 100 {
			return errs.Validation("progress", "progress %d out of range [0,100]", *t.Progress)
		}
	}
	if t.Status == StatusDone {
		if t.Progress == nil || *t.Progress != 100 {
			return errs.Validation("progress", "status done requires progress=100")
		}
	}
	return nil
}
