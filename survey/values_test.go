package survey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvsarolkar/partner-survey/model"
)

func TestMultiSelectionRoundTrip(t *testing.T) {
	q := model.Question{
		ID: "Q2", Type: model.TypeMultiSelect, Label: "pick many",
		Select: &model.SelectSettings{Options: []string{"A", "B", "C"}},
	}

	encoded, err := EncodeValue(model.MultiSelection{"A", "C"})
	require.NoError(t, err)

	decoded, err := ParseValue(q, encoded)
	require.NoError(t, err)
	assert.ElementsMatch(t, model.MultiSelection{"A", "C"}, decoded)
}

func TestMultiSelectionRoundTripSurvivesSeparatorCharacters(t *testing.T) {
	options := []string{"a|b", "c,d", "e;f"}
	q := model.Question{
		ID: "Q2", Type: model.TypeMultiSelect, Label: "tricky",
		Select: &model.SelectSettings{Options: options},
	}

	encoded, err := EncodeValue(model.MultiSelection(options))
	require.NoError(t, err)

	decoded, err := ParseValue(q, encoded)
	require.NoError(t, err)
	assert.Equal(t, model.MultiSelection(options), decoded)
}

func TestMatrixRoundTrip(t *testing.T) {
	q := model.Question{
		ID: "Q5", Type: model.TypeMatrix, Label: "grade",
		Matrix: &model.MatrixSettings{
			Rows:    []string{"Support", "Docs"},
			Columns: []string{"Poor", "Good"},
		},
	}

	original := model.MatrixAnswer{"Support": "Good", "Docs": "Poor"}
	encoded, err := EncodeValue(original)
	require.NoError(t, err)

	decoded, err := ParseValue(q, encoded)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestRatingRoundTrip(t *testing.T) {
	q := model.Question{
		ID: "Q3", Type: model.TypeRating, Label: "rate",
		Rating: &model.RatingSettings{Min: 1, Max: 10},
	}

	encoded, err := EncodeValue(model.Rating(7))
	require.NoError(t, err)
	assert.Equal(t, "7", encoded)

	decoded, err := ParseValue(q, encoded)
	require.NoError(t, err)
	assert.Equal(t, model.Rating(7), decoded)
}

func TestAssembleCarriesQuestionMetadata(t *testing.T) {
	tpl := testTemplate()
	answers := model.AnswerSet{
		"Q1": model.Selection("No"),
		"Q3": model.Rating(2),
		"Q4": model.Text("too slow"),
	}

	responses, err := Assemble(tpl, answers, 42)
	require.NoError(t, err)
	require.Len(t, responses, 3)

	first := responses[0]
	assert.Equal(t, 42, first.SubmissionID)
	assert.Equal(t, "Q1", first.QuestionID)
	assert.Equal(t, "Do you resell our products?", first.QuestionText)
	assert.Equal(t, "General", first.Section)
	assert.Equal(t, model.TypeSingleSelect, first.Type)
	assert.Equal(t, "No", first.Value)
}

func TestAssembleSkipsEmptyAnswers(t *testing.T) {
	tpl := testTemplate()
	answers := model.AnswerSet{
		"Q1": model.Selection("No"),
		"Q3": model.Rating(2),
		"Q4": model.Text(""),
	}

	responses, err := Assemble(tpl, answers, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Q1", "Q3"}, questionIDsOf(responses))
}
