package content

import (
	"strings"
	"time"

	"github.com/todozi/todozi/pkg/errs"
)

// Idea is a freeform, shareable thought.
type Idea struct {
	ID         string
	CreatorID  string
	Text       string
	ShareLevel ShareLevel
	Importance IdeaImportance
	Project    string
	TagList    []string
	Context    string

	Created   time.Time
	Updated   time.Time
	Embedding []float64
}

var _ Item = (*Idea)(nil)

func (i *Idea) ContentID() string    { return i.ID }
func (i *Idea) ContentType() Type    { return TypeIdea }
func (i *Idea) Tags() []string       { return i.TagList }
func (i *Idea) ProjectID() string    { return i.Project }
func (i *Idea) CreatedAt() time.Time { return i.Created }
func (i *Idea) UpdatedAt() time.Time { return i.Updated }

func (i *Idea) IndexableText() string {
	if i.Context == "" {
		return i.Text
	}
	return i.Text + " " + i.Context
}

func (i *Idea) Validate() error {
	if strings.TrimSpace(i.Text) == "" {
		return errs.Validation("text", "idea text must not be empty")
	}
	return nil
}
