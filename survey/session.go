package survey

import "github.com/pvsarolkar/partner-survey/model"

// Session is the explicit state of one partner's in-progress survey attempt:
// who is filling it in, for which customer, against which template, and the
// live answers. The surrounding application owns one Session per interactive
// session; nothing here is shared or process-wide.
type Session struct {
	Partner  model.Partner
	Customer model.Customer
	Template model.Template
	Answers  model.AnswerSet
	IsUpdate bool
}

func NewSession(tpl model.Template) *Session {
	return &Session{Template: tpl, Answers: model.AnswerSet{}}
}

// SetAnswer validates and records one answer. Out-of-range values are
// rejected and leave the session unchanged.
func (s *Session) SetAnswer(questionID string, raw any) error {
	q, ok := s.Template.Question(questionID)
	if !ok {
		return &model.NotFoundError{Kind: "question", ID: questionID}
	}
	answer, err := Accept(q, raw)
	if err != nil {
		return err
	}
	if answer.Empty() {
		delete(s.Answers, questionID)
		return nil
	}
	s.Answers[questionID] = answer
	return nil
}

func (s *Session) RemoveAnswer(questionID string) {
	delete(s.Answers, questionID)
}

// Visible returns the questions currently shown for this session's answers.
func (s *Session) Visible() []model.Question {
	return Visible(s.Template, s.Answers)
}

// Missing returns the required question ids still blocking submission.
func (s *Session) Missing() []string {
	return MissingRequired(s.Template, s.Answers)
}

func (s *Session) Progress() float64 {
	return Progress(s.Template, s.Answers)
}

// Assemble produces the response rows for this session, or a
// MissingRequiredError while required visible questions are unanswered.
func (s *Session) Assemble(submissionID int) ([]model.Response, error) {
	if missing := s.Missing(); len(missing) > 0 {
		return nil, &model.MissingRequiredError{QuestionIDs: missing}
	}
	return Assemble(s.Template, s.Answers, submissionID)
}

// Reset discards the in-progress answers, e.g. to start over for another
// customer.
func (s *Session) Reset() {
	s.Answers = model.AnswerSet{}
	s.IsUpdate = false
}
