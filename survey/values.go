package survey

import (
	"encoding/json"
	"strconv"

	"github.com/pvsarolkar/partner-survey/model"
)

// EncodeValue serializes an answer to the text form stored in a response
// row. Structured answers use JSON so the encoding stays reversible whatever
// characters the options contain; ParseValue is its exact inverse.
func EncodeValue(a model.Answer) (string, error) {
	switch v := a.(type) {
	case model.Text:
		return string(v), nil
	case model.Selection:
		return string(v), nil
	case model.Rating:
		return strconv.Itoa(int(v)), nil
	case model.MultiSelection:
		raw, err := json.Marshal([]string(v))
		return string(raw), err
	case model.MatrixAnswer:
		raw, err := json.Marshal(map[string]string(v))
		return string(raw), err
	}
	return "", &model.OutOfRangeError{Value: a, Reason: "unknown answer shape"}
}

// ParseValue decodes a stored response value back into the typed answer for
// the question it belongs to.
func ParseValue(q model.Question, stored string) (model.Answer, error) {
	switch q.Type {
	case model.TypeText, model.TypeTextarea:
		return model.Text(stored), nil
	case model.TypeSingleSelect:
		return model.Selection(stored), nil
	case model.TypeRating:
		n, err := strconv.Atoi(stored)
		if err != nil {
			return nil, &model.OutOfRangeError{QuestionID: q.ID, Value: stored, Reason: "stored rating is not a number"}
		}
		return model.Rating(n), nil
	case model.TypeMultiSelect:
		var values []string
		if err := json.Unmarshal([]byte(stored), &values); err != nil {
			return nil, &model.OutOfRangeError{QuestionID: q.ID, Value: stored, Reason: "stored selection is not a list"}
		}
		return model.MultiSelection(values), nil
	case model.TypeMatrix:
		cells := map[string]string{}
		if err := json.Unmarshal([]byte(stored), &cells); err != nil {
			return nil, &model.OutOfRangeError{QuestionID: q.ID, Value: stored, Reason: "stored matrix is not a map"}
		}
		return model.MatrixAnswer(cells), nil
	}
	return nil, &model.OutOfRangeError{QuestionID: q.ID, Value: stored, Reason: "unknown question type"}
}

// Raw converts a typed answer back to the plain value shape the SPA works
// with: strings, string lists, ints, and row-to-column maps.
func Raw(a model.Answer) any {
	switch v := a.(type) {
	case model.Text:
		return string(v)
	case model.Selection:
		return string(v)
	case model.Rating:
		return int(v)
	case model.MultiSelection:
		return []string(v)
	case model.MatrixAnswer:
		return map[string]string(v)
	}
	return nil
}

// Assemble converts an answer set into the response rows to persist. Answers
// for questions hidden by the current visibility state are dropped, so a
// conditional branch abandoned mid-session never leaks its stale values into
// storage. Empty answers are skipped.
func Assemble(tpl model.Template, answers model.AnswerSet, submissionID int) ([]model.Response, error) {
	var responses []model.Response
	for _, q := range Visible(tpl, answers) {
		if !answers.Answered(q.ID) {
			continue
		}
		value, err := EncodeValue(answers[q.ID])
		if err != nil {
			return nil, err
		}
		responses = append(responses, model.Response{
			SubmissionID: submissionID,
			QuestionID:   q.ID,
			QuestionText: q.Label,
			Section:      q.Section,
			Type:         q.Type,
			Value:        value,
		})
	}
	return responses, nil
}
