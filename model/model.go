package model

import "time"

// Customer is one surveyed account, keyed by the external customer id.
type Customer struct {
	ID             string `json:"customer_id"`
	Company        string `json:"customer_company"`
	Classification string `json:"classification,omitempty"`
	Owner          string `json:"owner,omitempty"`
}

// Partner identifies who filled the survey in. Upserted on submission,
// unique per (name, company).
type Partner struct {
	ID      int    `json:"id,omitempty"`
	Name    string `json:"partner_name"`
	Company string `json:"partner_company"`
}

// Submission is the persisted record of one survey attempt. There is at most
// one per (customer, template) pair; re-submitting updates it in place and
// replaces its responses.
type Submission struct {
	ID          int       `json:"id"`
	UUID        string    `json:"uuid"`
	CustomerID  string    `json:"customer_id"`
	TemplateID  int       `json:"template_id"`
	PartnerID   int       `json:"partner_id"`
	IsUpdate    bool      `json:"is_update"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Response is one persisted (question, value) pair of a submission. Question
// text, type, and section are denormalized alongside so exports do not need
// the template to still exist unchanged.
type Response struct {
	ID           int          `json:"id,omitempty"`
	SubmissionID int          `json:"submission_id"`
	QuestionID   string       `json:"question_id"`
	QuestionText string       `json:"question_text"`
	Section      string       `json:"section,omitempty"`
	Type         QuestionType `json:"type"`
	Value        string       `json:"value"`
}
