package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/todozi/todozi/pkg/errs"
)

func TestMemory_Validate_RequiresMoment(t *testing.T) {
	m := &Memory{ID: "m1"}
	assert.True(t, errs.Is(m.Validate(), errs.KindValidation))
}

func TestMemory_Validate_EmotionalRequiresEmotion(t *testing.T) {
	m := &Memory{ID: "m1", Moment: "shipped the release", Variant: MemoryVariant{Kind: VariantEmotional}}
	assert.True(t, errs.Is(m.Validate(), errs.KindValidation))

	m.Variant.Emotion = EmotionPride
	assert.NoError(t, m.Validate())
}

func TestMemory_Validate_UnknownEmotionRejected(t *testing.T) {
	m := &Memory{ID: "m1", Moment: "x", Variant: MemoryVariant{Kind: VariantEmotional, Emotion: Emotion("made_up")}}
	assert.True(t, errs.Is(m.Validate(), errs.KindValidation))
}

func TestMemory_Validate_NonEmotionalVariantsIgnoreEmotion(t *testing.T) {
	m := &Memory{ID: "m1", Moment: "x", Variant: MemoryVariant{Kind: VariantStandard}}
	assert.NoError(t, m.Validate())
}

func TestMemory_IndexableText(t *testing.T) {
	m := &Memory{Moment: "a", Meaning: "b", Reason: "c"}
	assert.Equal(t, "a b c", m.IndexableText())
}

func TestParseEmotion_CaseInsensitive(t *testing.T) {
	e, ok := ParseEmotion("ANTICIPATION")
	assert.True(t, ok)
	assert.Equal(t, EmotionAnticipation, e)
}
