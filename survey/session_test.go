package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvsarolkar/partner-survey/model"
)

func TestSessionRejectsOutOfRangeBeforeStoringAnything(t *testing.T) {
	sess := NewSession(testTemplate())

	err := sess.SetAnswer("Q3", 6)
	require.Error(t, err)
	assert.True(t, model.IsOutOfRange(err))
	assert.Empty(t, sess.Answers)
}

func TestSessionUnknownQuestion(t *testing.T) {
	sess := NewSession(testTemplate())

	err := sess.SetAnswer("Q99", "hello")
	assert.True(t, model.IsNotFound(err))
}

func TestSessionClearingAnAnswerRemovesIt(t *testing.T) {
	sess := NewSession(testTemplate())

	require.NoError(t, sess.SetAnswer("Q4", "some feedback"))
	assert.True(t, sess.Answers.Answered("Q4"))

	require.NoError(t, sess.SetAnswer("Q4", ""))
	assert.False(t, sess.Answers.Answered("Q4"))
}

func TestSessionAssembleBlocksOnMissingRequired(t *testing.T) {
	sess := NewSession(testTemplate())
	require.NoError(t, sess.SetAnswer("Q1", "Yes"))

	_, err := sess.Assemble(1)
	require.Error(t, err)

	var missing *model.MissingRequiredError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"Q2", "Q3"}, missing.QuestionIDs)
}

func TestSessionCompleteFlow(t *testing.T) {
	sess := NewSession(testTemplate())
	require.NoError(t, sess.SetAnswer("Q1", "Yes"))
	require.NoError(t, sess.SetAnswer("Q2", []any{"A", "B"}))
	require.NoError(t, sess.SetAnswer("Q3", 5))

	assert.Equal(t, 1.0, sess.Progress())

	responses, err := sess.Assemble(9)
	require.NoError(t, err)
	assert.Len(t, responses, 3)

	sess.Reset()
	assert.Empty(t, sess.Answers)
	assert.Equal(t, 0.0, sess.Progress())
}
