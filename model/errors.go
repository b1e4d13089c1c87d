package model

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError rejects a malformed template at upload or load time.
// Err usually aggregates several field-level issues (go-multierror).
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return "invalid template: " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// NotFoundError reports that an entity id did not resolve.
type NotFoundError struct {
	Kind string
	ID   any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Kind, e.ID)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// OutOfRangeError rejects a value before it enters the AnswerSet: a rating
// outside its bounds, a selection outside the option list, or a value of the
// wrong shape for the question type.
type OutOfRangeError struct {
	QuestionID string
	Value      any
	Reason     string
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("question %q: value %v rejected: %s", e.QuestionID, e.Value, e.Reason)
}

func IsOutOfRange(err error) bool {
	var oor *OutOfRangeError
	return errors.As(err, &oor)
}

// MissingRequiredError blocks a submission while visible required questions
// are unanswered. QuestionIDs preserves template order.
type MissingRequiredError struct {
	QuestionIDs []string
}

func (e *MissingRequiredError) Error() string {
	return "missing required answers: " + strings.Join(e.QuestionIDs, ", ")
}

func IsMissingRequired(err error) bool {
	var mr *MissingRequiredError
	return errors.As(err, &mr)
}
