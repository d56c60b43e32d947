// Package tagparser turns free text containing delimited markup tags into
// typed content records, the way a chat transcript or agent turn embeds
// structured intents inline with prose.
package tagparser

import (
	"fmt"
	"time"

	"github.com/todozi/todozi/pkg/content"
)

// Feeling is a standalone emotional check-in, distinct from a Memory's
// emotional variant: it carries its own intensity scale and is not one of
// the six persisted content entities in pkg/content.
type Feeling struct {
	Emotion     content.Emotion
	Intensity   int // 1-10
	Description string
	Context     string
	Tags        []string
}

// Summary is a short prioritized digest, e.g. of a work session.
type Summary struct {
	Content  string
	Priority content.Priority
	Context  string
	Tags     []string
}

// Reminder schedules a follow-up at a specific time.
type Reminder struct {
	Content  string
	RemindAt time.Time
	Priority content.Priority
	Status   content.TaskStatus
	Tags     []string
}

// AgentLink associates an agent with a task inside a project, used to
// record which agent is driving which piece of work.
type AgentLink struct {
	AgentID   string
	TaskID    string
	ProjectID string
	Label     string
}

// ParseIssue describes why one tag's record was rejected. Parsing of
// subsequent tags continues regardless.
type ParseIssue struct {
	Tag     string
	Field   string
	Message string
}

// ChatContent is the aggregate output of Parse: one ordered list per entity
// type, plus every rejection encountered along the way.
type ChatContent struct {
	Tasks         []*content.Task
	Memories      []*content.Memory
	Ideas         []*content.Idea
	ErrorRecords  []*content.ErrorRecord
	TrainingData  []*content.TrainingDatum
	Chunks        []*content.CodeChunk
	Feelings      []*Feeling
	Summaries     []*Summary
	Reminders     []*Reminder
	AgentLinks    []*AgentLink

	Rejected int
	Issues   []ParseIssue
}

func (c *ChatContent) reject(tag, field, format string, args ...any) {
	c.Rejected++
	c.Issues = append(c.Issues, ParseIssue{Tag: tag, Field: field, Message: fmt.Sprintf(format, args...)})
}
