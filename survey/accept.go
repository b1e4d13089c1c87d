package survey

import (
	"fmt"
	"math"

	"github.com/samber/lo"

	"github.com/pvsarolkar/partner-survey/model"
)

// Accept coerces a raw client value (as decoded from JSON) into the typed
// answer for the question, rejecting anything out of range or of the wrong
// shape. This is the only way values enter an AnswerSet: a rating outside
// its bounds or a selection outside the option list fails here, never at
// submission time.
func Accept(q model.Question, raw any) (model.Answer, error) {
	switch q.Type {
	case model.TypeText, model.TypeTextarea:
		s, ok := raw.(string)
		if !ok {
			return nil, shapeError(q, raw, "expected text")
		}
		return model.Text(s), nil

	case model.TypeSingleSelect:
		s, ok := raw.(string)
		if !ok {
			return nil, shapeError(q, raw, "expected one option")
		}
		if s != "" && !lo.Contains(q.Select.Options, s) {
			return nil, &model.OutOfRangeError{QuestionID: q.ID, Value: s, Reason: "not one of the options"}
		}
		return model.Selection(s), nil

	case model.TypeMultiSelect:
		values, err := stringSlice(raw)
		if err != nil {
			return nil, shapeError(q, raw, "expected a list of options")
		}
		selected := lo.Uniq(values)
		for _, v := range selected {
			if !lo.Contains(q.Select.Options, v) {
				return nil, &model.OutOfRangeError{QuestionID: q.ID, Value: v, Reason: "not one of the options"}
			}
		}
		return model.MultiSelection(selected), nil

	case model.TypeRating:
		n, ok := intValue(raw)
		if !ok {
			return nil, shapeError(q, raw, "expected a whole number")
		}
		if n < q.Rating.Min || n > q.Rating.Max {
			return nil, &model.OutOfRangeError{
				QuestionID: q.ID,
				Value:      n,
				Reason:     fmt.Sprintf("outside rating range [%d, %d]", q.Rating.Min, q.Rating.Max),
			}
		}
		return model.Rating(n), nil

	case model.TypeMatrix:
		cells, err := stringMap(raw)
		if err != nil {
			return nil, shapeError(q, raw, "expected row to column choices")
		}
		for row, col := range cells {
			if !lo.Contains(q.Matrix.Rows, row) {
				return nil, &model.OutOfRangeError{QuestionID: q.ID, Value: row, Reason: "not one of the matrix rows"}
			}
			if !lo.Contains(q.Matrix.Columns, col) {
				return nil, &model.OutOfRangeError{QuestionID: q.ID, Value: col, Reason: "not one of the matrix columns"}
			}
		}
		return model.MatrixAnswer(cells), nil
	}
	return nil, shapeError(q, raw, "unknown question type")
}

func shapeError(q model.Question, raw any, reason string) error {
	return &model.OutOfRangeError{QuestionID: q.ID, Value: raw, Reason: reason}
}

func stringSlice(raw any) ([]string, error) {
	switch v := raw.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("non-string entry %v", item)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("not a list")
}

func stringMap(raw any) (map[string]string, error) {
	switch v := raw.(type) {
	case map[string]string:
		return v, nil
	case map[string]any:
		out := make(map[string]string, len(v))
		for key, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("non-string entry %v", item)
			}
			out[key] = s
		}
		return out, nil
	}
	return nil, fmt.Errorf("not a map")
}

func intValue(raw any) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	}
	return 0, false
}
