package survey

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/pvsarolkar/partner-survey/model"
)

// drawTemplate generates a valid template: a mix of question types where a
// question may depend on any single earlier question.
func drawTemplate(rt *rapid.T) model.Template {
	n := rapid.IntRange(1, 12).Draw(rt, "questions")
	questions := make([]model.Question, 0, n)
	for i := 0; i < n; i++ {
		q := model.Question{
			ID:       fmt.Sprintf("Q%d", i+1),
			Label:    fmt.Sprintf("question %d", i+1),
			Required: rapid.Bool().Draw(rt, fmt.Sprintf("required%d", i)),
		}
		switch rapid.IntRange(0, 2).Draw(rt, fmt.Sprintf("kind%d", i)) {
		case 0:
			q.Type = model.TypeText
		case 1:
			q.Type = model.TypeSingleSelect
			q.Select = &model.SelectSettings{Options: []string{"red", "green", "blue"}}
		case 2:
			q.Type = model.TypeRating
			q.Rating = &model.RatingSettings{Min: 1, Max: 5}
		}

		if i > 0 && rapid.Bool().Draw(rt, fmt.Sprintf("dep%d", i)) {
			parent := questions[rapid.IntRange(0, i-1).Draw(rt, fmt.Sprintf("parent%d", i))]
			dep := &model.Dependency{QuestionID: parent.ID}
			if parent.Type == model.TypeSingleSelect {
				dep.AnyOf = []string{"red", "green"}
			}
			q.DependsOn = dep
		}
		questions = append(questions, q)
	}
	return model.Template{ID: 1, Name: "generated", Questions: questions}
}

// drawAnswers fills a random subset of questions with values Accept allows.
func drawAnswers(rt *rapid.T, tpl model.Template) model.AnswerSet {
	answers := model.AnswerSet{}
	for i, q := range tpl.Questions {
		if !rapid.Bool().Draw(rt, fmt.Sprintf("answered%d", i)) {
			continue
		}
		var raw any
		switch q.Type {
		case model.TypeText:
			raw = rapid.StringMatching(`[a-z]{0,8}`).Draw(rt, fmt.Sprintf("text%d", i))
		case model.TypeSingleSelect:
			raw = rapid.SampledFrom([]string{"red", "green", "blue"}).Draw(rt, fmt.Sprintf("option%d", i))
		case model.TypeRating:
			raw = rapid.IntRange(1, 5).Draw(rt, fmt.Sprintf("rating%d", i))
		default:
			continue
		}
		a, err := Accept(q, raw)
		if err != nil {
			rt.Fatal(err)
		}
		if !a.Empty() {
			answers[q.ID] = a
		}
	}
	return answers
}

func TestPropertyVisibleIsOrderPreservingSubsequence(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tpl := drawTemplate(rt)
		if err := tpl.Validate(); err != nil {
			rt.Fatal(err)
		}
		answers := drawAnswers(rt, tpl)

		visible := Visible(tpl, answers)

		cursor := 0
		for _, v := range visible {
			found := false
			for ; cursor < len(tpl.Questions); cursor++ {
				if tpl.Questions[cursor].ID == v.ID {
					found = true
					cursor++
					break
				}
			}
			if !found {
				rt.Errorf("question %s out of template order in visible set", v.ID)
			}
		}
	})
}

func TestPropertyProgressStaysInUnitInterval(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tpl := drawTemplate(rt)
		answers := drawAnswers(rt, tpl)

		p := Progress(tpl, answers)
		if p < 0 || p > 1 {
			rt.Errorf("progress %f outside [0,1]", p)
		}
	})
}

func TestPropertyMissingRequiredOnlyReportsVisibleUnanswered(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tpl := drawTemplate(rt)
		answers := drawAnswers(rt, tpl)

		visible := map[string]model.Question{}
		for _, q := range Visible(tpl, answers) {
			visible[q.ID] = q
		}

		for _, id := range MissingRequired(tpl, answers) {
			q, ok := visible[id]
			if !ok {
				rt.Errorf("hidden question %s reported missing", id)
				continue
			}
			if !q.Required {
				rt.Errorf("optional question %s reported missing", id)
			}
			if answers.Answered(id) {
				rt.Errorf("answered question %s reported missing", id)
			}
		}
	})
}

func TestPropertyMultiSelectionEncodingRoundTrips(t *testing.T) {
	options := []string{"A", "B", "C", "d|e", "f,g"}
	q := model.Question{
		ID: "Q1", Type: model.TypeMultiSelect, Label: "pick",
		Select: &model.SelectSettings{Options: options},
	}

	rapid.Check(t, func(rt *rapid.T) {
		selected := rapid.SliceOfDistinct(rapid.SampledFrom(options), rapid.ID[string]).Draw(rt, "selected")

		encoded, err := EncodeValue(model.MultiSelection(selected))
		if err != nil {
			rt.Fatal(err)
		}
		decoded, err := ParseValue(q, encoded)
		if err != nil {
			rt.Fatal(err)
		}

		got, ok := decoded.(model.MultiSelection)
		if !ok {
			rt.Fatalf("decoded %T, want MultiSelection", decoded)
		}
		if len(got) != len(selected) {
			rt.Fatalf("round trip changed length: %v vs %v", got, selected)
		}
		for i := range selected {
			if got[i] != selected[i] {
				rt.Errorf("round trip changed value %d: %q vs %q", i, got[i], selected[i])
			}
		}
	})
}
