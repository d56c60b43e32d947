package content

import (
	"strings"
	"time"

	"github.com/todozi/todozi/pkg/errs"
)

// Memory records what happened, what it implies, and why it mattered.
type Memory struct {
	ID        string
	CreatorID string
	Moment    string // what happened
	Meaning   string // what it implies
	Reason    string // why it matters
	Importance MemoryImportance
	Term      MemoryTerm
	Variant   MemoryVariant
	Project   string
	TagList   []string

	Created   time.Time
	Updated   time.Time
	Embedding []float64
}

var _ Item = (*Memory)(nil)

func (m *Memory) ContentID() string    { return m.ID }
func (m *Memory) ContentType() Type    { return TypeMemory }
func (m *Memory) Tags() []string       { return m.TagList }
func (m *Memory) ProjectID() string    { return m.Project }
func (m *Memory) CreatedAt() time.Time { return m.Created }
func (m *Memory) UpdatedAt() time.Time { return m.Updated }

func (m *Memory) IndexableText() string {
	var b strings.Builder
	b.WriteString(m.Moment)
	b.WriteString(" ")
	b.WriteString(m.Meaning)
	b.WriteString(" ")
	b.WriteString(m.Reason)
	return b.String()
}

// Validate enforces: a Memory tagged Emotional must carry a non-empty,
// enumerated emotion label.
func (m *Memory) Validate() error {
	if strings.TrimSpace(m.Moment) == "" {
		return errs.Validation("moment", "memory moment must not be empty")
	}
	if m.Variant.Kind == VariantEmotional {
		if m.Variant.Emotion == "" {
			return errs.Validation("emotion", "emotional memory requires a non-empty emotion")
		}
		if _, ok := allEmotions[m.Variant.Emotion]; !ok {
			return errs.Validation("emotion", "unknown emotion label %q", m.Variant.Emotion)
		}
	}
	return nil
}
