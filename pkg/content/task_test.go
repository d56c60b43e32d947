package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/todozi/todozi/pkg/errs"
)

func intPtr(v int) *int { return &v }

func TestTask_Validate_RequiresAction(t *testing.T) {
	tsk := &Task{ID: "t1"}
	err := tsk.Validate()
	assert.True(t, errs.Is(err, errs.KindValidation))
}

func TestTask_Validate_ProgressRange(t *testing.T) {
	tsk := &Task{ID: "t1", Action: "ship it", Progress: intPtr(150)}
	err := tsk.Validate()
	assert.True(t, errs.Is(err, errs.KindValidation))

	tsk.Progress = intPtr(50)
	assert.NoError(t, tsk.Validate())
}

func TestTask_Validate_DoneRequiresFullProgress(t *testing.T) {
	tsk := &Task{ID: "t1", Action: "ship it", Status: StatusDone, Progress: intPtr(80)}
	err := tsk.Validate()
	assert.True(t, errs.Is(err, errs.KindValidation))

	tsk.Progress = intPtr(100)
	assert.NoError(t, tsk.Validate())
}

func TestTask_IndexableText(t *testing.T) {
	tsk := &Task{Action: "write tests", ContextNotes: "cover edge cases"}
	assert.Equal(t, "write tests cover edge cases", tsk.IndexableText())
}

func TestParseAssignee_AgentForm(t *testing.T) {
	a, ok := ParseAssignee("agent:reviewer")
	assert.True(t, ok)
	assert.Equal(t, AssigneeAgent, a.Kind)
	assert.Equal(t, "reviewer", a.Name)
}

func TestParseAssignee_Fixed(t *testing.T) {
	a, ok := ParseAssignee("human")
	assert.True(t, ok)
	assert.Equal(t, AssigneeHuman, a.Kind)

	_, ok = ParseAssignee("nonsense")
	assert.False(t, ok)
}

func TestParseTaskStatus(t *testing.T) {
	s, ok := ParseTaskStatus("In Progress")
	assert.True(t, ok)
	assert.Equal(t, StatusInProgress, s)
}
