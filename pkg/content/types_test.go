package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkLevel_TokenLimit(t *testing.T) {
	assert.Equal(t, 100, LevelProject.TokenLimit())
	assert.Equal(t, 500, LevelModule.TokenLimit())
	assert.Equal(t, 1000, LevelClass.TokenLimit())
	assert.Equal(t, 300, LevelMethod.TokenLimit())
	assert.Equal(t, 100, LevelBlock.TokenLimit())
}

func TestParsePriority(t *testing.T) {
	p, ok := ParsePriority("Critical")
	assert.True(t, ok)
	assert.Equal(t, PriorityCritical, p)

	_, ok = ParsePriority("whenever")
	assert.False(t, ok)
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitTags(" a, b ,c"))
	assert.Nil(t, SplitTags("   "))
}

func TestFingerprint_Deterministic(t *testing.T) {
	a := Fingerprint("hello world")
	b := Fingerprint("hello world")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, Fingerprint("hello world!"))
}
