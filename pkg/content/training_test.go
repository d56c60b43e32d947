package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/todozi/todozi/pkg/errs"
)

func floatPtr(v float64) *float64 { return &v }

func TestTrainingDatum_Validate_RequiresPrompt(t *testing.T) {
	d := &TrainingDatum{ID: "d1"}
	assert.True(t, errs.Is(d.Validate(), errs.KindValidation))
}

func TestTrainingDatum_Validate_QualityRange(t *testing.T) {
	d := &TrainingDatum{ID: "d1", Prompt: "summarize", Quality: floatPtr(1.5)}
	assert.True(t, errs.Is(d.Validate(), errs.KindValidation))

	d.Quality = floatPtr(0.9)
	assert.NoError(t, d.Validate())
}

func TestTrainingDatum_Validate_NilQualityAllowed(t *testing.T) {
	d := &TrainingDatum{ID: "d1", Prompt: "summarize"}
	assert.NoError(t, d.Validate())
}

func TestParseTrainingDataType(t *testing.T) {
	dt, ok := ParseTrainingDataType("conversation")
	assert.True(t, ok)
	assert.Equal(t, DataTypeConversation, dt)
}
