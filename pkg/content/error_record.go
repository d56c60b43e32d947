package content

import (
	"strings"
	"time"

	"github.com/todozi/todozi/pkg/errs"
)

// ErrorRecord is a logged failure, optionally resolved later.
type ErrorRecord struct {
	ID          string
	CreatorID   string
	Title       string
	Description string
	Severity    Severity
	Category    ErrorCategory
	Source      string
	Project     string
	Context     string
	TagList     []string

	Resolved     bool
	Resolution   string
	ResolvedAt   *time.Time

	Created   time.Time
	Updated   time.Time
	Embedding []float64
}

var _ Item = (*ErrorRecord)(nil)

func (e *ErrorRecord) ContentID() string    { return e.ID }
func (e *ErrorRecord) ContentType() Type    { return TypeError }
func (e *ErrorRecord) Tags() []string       { return e.TagList }
func (e *ErrorRecord) ProjectID() string    { return e.Project }
func (e *ErrorRecord) CreatedAt() time.Time { return e.Created }
func (e *ErrorRecord) UpdatedAt() time.Time { return e.Updated }

func (e *ErrorRecord) IndexableText() string {
	var b strings.Builder
	b.WriteString(e.Title)
	b.WriteString(" ")
	b.WriteString(e.Description)
	if e.Context != "" {
		b.WriteString(" ")
		b.WriteString(e.Context)
	}
	return b.String()
}

func (e *ErrorRecord) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return errs.Validation("title", "error title must not be empty")
	}
	if strings.TrimSpace(e.Description) == "" {
		return errs.Validation("description", "error description must not be empty")
	}
	return nil
}
