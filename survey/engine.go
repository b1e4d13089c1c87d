// Package survey is the pure core of the application: given a template and a
// live answer set it computes question visibility, missing required answers,
// and completion progress, and assembles the rows a submission persists. It
// performs no I/O.
package survey

import (
	"strconv"

	"github.com/samber/lo"

	"github.com/pvsarolkar/partner-survey/model"
)

// Visible returns the questions currently shown, in template order. A
// question with no dependency is always visible; one with a dependency is
// visible iff the parent question has a non-empty answer matching the
// dependency's value set.
func Visible(tpl model.Template, answers model.AnswerSet) []model.Question {
	return lo.Filter(tpl.Questions, func(q model.Question, _ int) bool {
		return questionVisible(q, answers)
	})
}

func questionVisible(q model.Question, answers model.AnswerSet) bool {
	dep := q.DependsOn
	if dep == nil {
		return true
	}
	parent, ok := answers[dep.QuestionID]
	if !ok || parent == nil || parent.Empty() {
		return false
	}
	// An empty value set means any answered parent shows the question.
	if len(dep.AnyOf) == 0 {
		return true
	}
	return lo.Some(dep.AnyOf, answerValues(parent))
}

// answerValues flattens an answer into the strings a dependency can match.
func answerValues(a model.Answer) []string {
	switch v := a.(type) {
	case model.Text:
		return []string{string(v)}
	case model.Selection:
		return []string{string(v)}
	case model.MultiSelection:
		return v
	case model.Rating:
		return []string{strconv.Itoa(int(v))}
	case model.MatrixAnswer:
		// Matrix parents are rejected at template validation.
		return nil
	}
	return nil
}

// MissingRequired returns the ids of visible required questions that are
// still unanswered, in template order. Hidden questions are never reported,
// required or not.
func MissingRequired(tpl model.Template, answers model.AnswerSet) []string {
	var missing []string
	for _, q := range Visible(tpl, answers) {
		if q.Required && !answers.Answered(q.ID) {
			missing = append(missing, q.ID)
		}
	}
	return missing
}

// Progress is the completion ratio in [0,1]: answered over total among the
// visible required questions. A survey with no visible required questions is
// trivially complete. Visibility shifts as answers change, so this is
// recomputed from scratch on every call.
func Progress(tpl model.Template, answers model.AnswerSet) float64 {
	var total, answered int
	for _, q := range Visible(tpl, answers) {
		if !q.Required {
			continue
		}
		total++
		if answers.Answered(q.ID) {
			answered++
		}
	}
	if total == 0 {
		return 1.0
	}
	return float64(answered) / float64(total)
}
