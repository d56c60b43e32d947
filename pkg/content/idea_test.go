package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/todozi/todozi/pkg/errs"
)

func TestIdea_Validate_RequiresText(t *testing.T) {
	i := &Idea{ID: "i1"}
	assert.True(t, errs.Is(i.Validate(), errs.KindValidation))

	i.Text = "build a graph index"
	assert.NoError(t, i.Validate())
}

func TestIdea_IndexableText_WithAndWithoutContext(t *testing.T) {
	i := &Idea{Text: "use bleve"}
	assert.Equal(t, "use bleve", i.IndexableText())

	i.Context = "for keyword search"
	assert.Equal(t, "use bleve for keyword search", i.IndexableText())
}

func TestParseIdeaImportance_Breakthrough(t *testing.T) {
	imp, ok := ParseIdeaImportance("breakthrough")
	assert.True(t, ok)
	assert.Equal(t, IdeaImportanceBreakthrough, imp)
}
