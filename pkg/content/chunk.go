package content

import (
	"strings"
	"time"

	"github.com/todozi/todozi/pkg/errs"
)

// CodeChunk is a unit of generated code at one level of the five-level
// project/module/class/method/block hierarchy, tracked through the
// chunking dependency engine (pkg/chunking).
type CodeChunk struct {
	ID               string
	CreatorID        string
	Level            ChunkLevel
	Description      string
	Dependencies     []string
	Code             string
	Status           ChunkStatus
	EstimatedTokens   int
	Project          string
	TagList          []string

	Created   time.Time
	Updated   time.Time
	Embedding []float64
}

var _ Item = (*CodeChunk)(nil)

func (c *CodeChunk) ContentID() string    { return c.ID }
func (c *CodeChunk) ContentType() Type    { return TypeChunk }
func (c *CodeChunk) Tags() []string       { return c.TagList }
func (c *CodeChunk) ProjectID() string    { return c.Project }
func (c *CodeChunk) CreatedAt() time.Time { return c.Created }
func (c *CodeChunk) UpdatedAt() time.Time { return c.Updated }

func (c *CodeChunk) IndexableText() string {
	if c.Code == "" {
		return c.Description
	}
	return c.Description + "\n" + c.Code
}

func (c *CodeChunk) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return errs.Validation("id", "chunk id must not be empty")
	}
	if _, ok := ParseChunkLevel(string(c.Level)); !ok {
		return errs.Validation("level", "unknown chunk level %q", c.Level)
	}
	return nil
}

// ExceedsTokenLimit reports whether the chunk's estimated token count is
// over its level's budget (Project<=100, Module<=500, Class<=1000,
// Method<=300, Block<=100).
func (c *CodeChunk) ExceedsTokenLimit() bool {
	return c.EstimatedTokens > c.Level.TokenLimit()
}
