package model

import (
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// QuestionType is the closed set of supported question kinds. Dispatch on it
// is always an exhaustive switch; adding a type is a compile-visible change.
type QuestionType string

const (
	TypeText         QuestionType = "text"
	TypeTextarea     QuestionType = "textarea"
	TypeSingleSelect QuestionType = "single_select"
	TypeMultiSelect  QuestionType = "multi_select"
	TypeRating       QuestionType = "rating"
	TypeMatrix       QuestionType = "matrix"
)

func (t QuestionType) Valid() bool {
	switch t {
	case TypeText, TypeTextarea, TypeSingleSelect, TypeMultiSelect, TypeRating, TypeMatrix:
		return true
	}
	return false
}

// HasOptions reports whether the type carries an option list.
func (t QuestionType) HasOptions() bool {
	return t == TypeSingleSelect || t == TypeMultiSelect
}

// Dependency makes a question visible only when the parent question's answer
// matches. An empty AnyOf means "visible whenever the parent is answered".
type Dependency struct {
	QuestionID string   `json:"question_id"`
	AnyOf      []string `json:"any_of,omitempty"`
}

type SelectSettings struct {
	Options []string `json:"options"`
}

type RatingSettings struct {
	Min int `json:"min_rating"`
	Max int `json:"max_rating"`
}

type MatrixSettings struct {
	Rows    []string `json:"rows"`
	Columns []string `json:"columns"`
}

// Question is a tagged variant: the common head plus exactly one settings
// block, the one its Type calls for. The shape is enforced when a stored
// template is decoded, not re-checked at render time.
type Question struct {
	ID        string       `json:"id"`
	Type      QuestionType `json:"type"`
	Label     string       `json:"label"`
	Section   string       `json:"section,omitempty"`
	Required  bool         `json:"required,omitempty"`
	DependsOn *Dependency  `json:"depends_on,omitempty"`

	Select *SelectSettings `json:"select,omitempty"`
	Rating *RatingSettings `json:"rating,omitempty"`
	Matrix *MatrixSettings `json:"matrix,omitempty"`
}

func (q *Question) UnmarshalJSON(data []byte) error {
	type alias Question
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*q = Question(a)
	return q.CheckShape()
}

// CheckShape verifies the variant invariants of a single question: a known
// type, the settings block that type needs, and no other.
func (q Question) CheckShape() error {
	if q.ID == "" {
		return fmt.Errorf("question without id")
	}
	if !q.Type.Valid() {
		return fmt.Errorf("question %q: unknown type %q", q.ID, q.Type)
	}

	var err error
	requireSettings := func(want string, present bool) {
		if !present {
			err = multierror.Append(err, fmt.Errorf("question %q: type %q needs %s settings", q.ID, q.Type, want))
		}
	}
	forbidSettings := func(have string, present bool) {
		if present {
			err = multierror.Append(err, fmt.Errorf("question %q: type %q does not take %s settings", q.ID, q.Type, have))
		}
	}

	switch q.Type {
	case TypeText, TypeTextarea:
		forbidSettings("select", q.Select != nil)
		forbidSettings("rating", q.Rating != nil)
		forbidSettings("matrix", q.Matrix != nil)
	case TypeSingleSelect, TypeMultiSelect:
		requireSettings("select", q.Select != nil)
		forbidSettings("rating", q.Rating != nil)
		forbidSettings("matrix", q.Matrix != nil)
		if q.Select != nil {
			err = multierror.Append(err, checkOptionList(q.ID, "options", q.Select.Options)).ErrorOrNil()
		}
	case TypeRating:
		requireSettings("rating", q.Rating != nil)
		forbidSettings("select", q.Select != nil)
		forbidSettings("matrix", q.Matrix != nil)
		if q.Rating != nil && q.Rating.Min >= q.Rating.Max {
			err = multierror.Append(err, fmt.Errorf("question %q: min_rating %d must be below max_rating %d", q.ID, q.Rating.Min, q.Rating.Max))
		}
	case TypeMatrix:
		requireSettings("matrix", q.Matrix != nil)
		forbidSettings("select", q.Select != nil)
		forbidSettings("rating", q.Rating != nil)
		if q.Matrix != nil {
			err = multierror.Append(err,
				checkOptionList(q.ID, "rows", q.Matrix.Rows),
				checkOptionList(q.ID, "columns", q.Matrix.Columns),
			).ErrorOrNil()
		}
	}
	return err
}

func checkOptionList(questionID, field string, values []string) error {
	var err error
	if len(values) == 0 {
		return fmt.Errorf("question %q: empty %s", questionID, field)
	}
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		if v == "" {
			err = multierror.Append(err, fmt.Errorf("question %q: blank entry in %s", questionID, field))
			continue
		}
		if seen[v] {
			err = multierror.Append(err, fmt.Errorf("question %q: duplicate %q in %s", questionID, v, field))
		}
		seen[v] = true
	}
	return err
}

// Options returns the option list for select types, nil otherwise.
func (q Question) Options() []string {
	if q.Select != nil {
		return q.Select.Options
	}
	return nil
}
