package model

// Answer is the closed set of value shapes an AnswerSet can hold, one per
// question type family. Values only enter an AnswerSet through
// survey.Accept, so a stored Answer is always well-formed for its question.
type Answer interface {
	Empty() bool
	answer()
}

// Text holds a free-form text or textarea answer.
type Text string

// Selection holds a single_select answer: one of the question's options.
type Selection string

// MultiSelection holds a multi_select answer: a subset of the options.
type MultiSelection []string

// Rating holds a rating answer within the question's declared bounds.
type Rating int

// MatrixAnswer maps answered matrix rows to the chosen column.
type MatrixAnswer map[string]string

func (Text) answer()           {}
func (Selection) answer()      {}
func (MultiSelection) answer() {}
func (Rating) answer()         {}
func (MatrixAnswer) answer()   {}

func (a Text) Empty() bool           { return a == "" }
func (a Selection) Empty() bool      { return a == "" }
func (a MultiSelection) Empty() bool { return len(a) == 0 }
func (Rating) Empty() bool           { return false }
func (a MatrixAnswer) Empty() bool   { return len(a) == 0 }

// AnswerSet is one partner session's in-progress answers, keyed by question
// id. It may hold stale entries for questions that have since become hidden;
// those never survive submission assembly.
type AnswerSet map[string]Answer

// Answered reports whether the question has a non-empty answer.
func (s AnswerSet) Answered(questionID string) bool {
	a, ok := s[questionID]
	return ok && a != nil && !a.Empty()
}

// Clone returns an independent shallow copy.
func (s AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(s))
	for id, a := range s {
		out[id] = a
	}
	return out
}
