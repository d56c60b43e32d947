package content

import (
	"strings"
	"time"

	"github.com/todozi/todozi/pkg/errs"
)

// TrainingDatum is a single example destined for fine-tuning export.
type TrainingDatum struct {
	ID        string
	CreatorID string
	DataType  TrainingDataType
	Prompt    string
	Completion string
	Context   string
	TagList   []string
	Quality   *float64 // [0,1]
	Source    string
	Project   string

	Created   time.Time
	Updated   time.Time
	Embedding []float64
}

var _ Item = (*TrainingDatum)(nil)

func (d *TrainingDatum) ContentID() string    { return d.ID }
func (d *TrainingDatum) ContentType() Type    { return TypeTraining }
func (d *TrainingDatum) Tags() []string       { return d.TagList }
func (d *TrainingDatum) ProjectID() string    { return d.Project }
func (d *TrainingDatum) CreatedAt() time.Time { return d.Created }
func (d *TrainingDatum) UpdatedAt() time.Time { return d.Updated }

func (d *TrainingDatum) IndexableText() string {
	var b strings.Builder
	b.WriteString(d.Prompt)
	b.WriteString(" ")
	b.WriteString(d.Completion)
	if d.Context != "" {
		b.WriteString(" ")
		b.WriteString(d.Context)
	}
	return b.String()
}

func (d *TrainingDatum) Validate() error {
	if strings.TrimSpace(d.Prompt) == "" {
		return errs.Validation("prompt", "training datum prompt must not be empty")
	}
	if d.Quality != nil && (*d.Quality < 0 || *d.Quality > 1) {
		return errs.Validation("quality", "quality %f out of range [0,1]", *d.Quality)
	}
	return nil
}
