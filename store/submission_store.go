package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/pvsarolkar/partner-survey/model"
	"github.com/pvsarolkar/partner-survey/survey"
)

// SubmissionStore persists survey attempts. One submission exists per
// (customer, template) pair; re-submitting replaces its response rows inside
// a single transaction, so readers never observe a mix of old and new rows.
type SubmissionStore struct {
	db *sql.DB
}

func NewSubmissionStore(db *sql.DB) *SubmissionStore {
	return &SubmissionStore{db: db}
}

// Submit writes one survey attempt: upserts the customer and partner rows,
// finds or creates the submission for the (customer, template) pair, drops
// any responses of a prior attempt, and inserts the new set. The
// SubmissionID on the given responses is overwritten with the row decided
// here. Everything happens in one transaction.
func (s *SubmissionStore) Submit(ctx context.Context, customer model.Customer, partner model.Partner, templateID int, responses []model.Response) (model.Submission, error) {
	sub := model.Submission{
		CustomerID:  customer.ID,
		TemplateID:  templateID,
		SubmittedAt: time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return sub, pkgerrors.Wrap(err, "begin tx")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO customer (id, company, classification, owner)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET company = excluded.company`,
		customer.ID, customer.Company, customer.Classification, customer.Owner,
	)
	if err != nil {
		return sub, pkgerrors.Wrap(err, "upsert customer")
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO partner (name, company)
		VALUES (?, ?)
		ON CONFLICT (name, company) DO UPDATE SET name = excluded.name
		RETURNING id`,
		partner.Name, partner.Company,
	).Scan(&sub.PartnerID)
	if err != nil {
		return sub, pkgerrors.Wrap(err, "upsert partner")
	}

	err = tx.QueryRowContext(ctx, `
		SELECT id, uuid FROM submission
		WHERE customer_id = ? AND template_id = ?`,
		customer.ID, templateID,
	).Scan(&sub.ID, &sub.UUID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		sub.UUID = uuid.NewString()
		err = tx.QueryRowContext(ctx, `
			INSERT INTO submission (uuid, customer_id, template_id, partner_id, is_update, submitted_at)
			VALUES (?, ?, ?, ?, 0, ?)
			RETURNING id`,
			sub.UUID, customer.ID, templateID, sub.PartnerID, sub.SubmittedAt,
		).Scan(&sub.ID)
		if err != nil {
			return sub, pkgerrors.Wrap(err, "insert submission")
		}
	case err != nil:
		return sub, pkgerrors.Wrap(err, "find submission")
	default:
		sub.IsUpdate = true
		_, err = tx.ExecContext(ctx, `
			UPDATE submission
			SET partner_id = ?, is_update = 1, submitted_at = ?
			WHERE id = ?`,
			sub.PartnerID, sub.SubmittedAt, sub.ID,
		)
		if err != nil {
			return sub, pkgerrors.Wrap(err, "update submission")
		}
		_, err = tx.ExecContext(ctx, `
			DELETE FROM response WHERE submission_id = ?`,
			sub.ID,
		)
		if err != nil {
			return sub, pkgerrors.Wrap(err, "delete previous responses")
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO response (submission_id, question_id, question_text, section, type, value)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return sub, pkgerrors.Wrap(err, "prepare responses")
	}
	defer stmt.Close()

	for _, r := range responses {
		_, err = stmt.ExecContext(ctx, sub.ID, r.QuestionID, r.QuestionText, r.Section, string(r.Type), r.Value)
		if err != nil {
			return sub, pkgerrors.Wrapf(err, "insert response %s", r.QuestionID)
		}
	}

	if err := tx.Commit(); err != nil {
		return sub, pkgerrors.Wrap(err, "commit submission")
	}
	return sub, nil
}

// PriorSubmission is what a partner gets back when a survey was already
// filled in for the customer: the stored answers for prefill plus who
// submitted them and when.
type PriorSubmission struct {
	Submission     model.Submission
	PartnerName    string
	PartnerCompany string
	Answers        model.AnswerSet
}

// Latest loads the stored submission for a (customer, template) pair,
// decoding the response values back into a typed answer set against the
// given template. Responses for question ids no longer in the template are
// skipped.
func (s *SubmissionStore) Latest(ctx context.Context, customerID string, tpl model.Template) (PriorSubmission, error) {
	var prior PriorSubmission
	sub := &prior.Submission
	err := s.db.QueryRowContext(ctx, `
		SELECT s.id, s.uuid, s.customer_id, s.template_id, s.partner_id, s.is_update, s.submitted_at,
			p.name, p.company
		FROM submission s
		INNER JOIN partner p ON (p.id = s.partner_id)
		WHERE s.customer_id = ? AND s.template_id = ?`,
		customerID, tpl.ID,
	).Scan(
		&sub.ID, &sub.UUID, &sub.CustomerID, &sub.TemplateID, &sub.PartnerID, &sub.IsUpdate, &sub.SubmittedAt,
		&prior.PartnerName, &prior.PartnerCompany,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return prior, &model.NotFoundError{Kind: "submission", ID: customerID}
	}
	if err != nil {
		return prior, pkgerrors.Wrap(err, "load submission")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT question_id, value
		FROM response
		WHERE submission_id = ?`,
		sub.ID,
	)
	if err != nil {
		return prior, pkgerrors.Wrap(err, "load responses")
	}
	defer rows.Close()

	prior.Answers = model.AnswerSet{}
	for rows.Next() {
		var questionID, value string
		if err := rows.Scan(&questionID, &value); err != nil {
			return prior, pkgerrors.Wrap(err, "scan response")
		}
		q, ok := tpl.Question(questionID)
		if !ok {
			continue
		}
		answer, err := survey.ParseValue(q, value)
		if err != nil {
			return prior, err
		}
		prior.Answers[questionID] = answer
	}
	return prior, rows.Err()
}

// SubmissionDetail is one submission with its raw response rows, as shown in
// the admin view.
type SubmissionDetail struct {
	Submission     model.Submission `json:"submission"`
	PartnerName    string           `json:"partner_name"`
	PartnerCompany string           `json:"partner_company"`
	Responses      []model.Response `json:"responses"`
}

// ForTemplate lists every submission against a template, newest first.
func (s *SubmissionStore) ForTemplate(ctx context.Context, templateID int) ([]SubmissionDetail, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.uuid, s.customer_id, s.template_id, s.partner_id, s.is_update, s.submitted_at,
			p.name, p.company,
			r.id, r.question_id, r.question_text, r.section, r.type, r.value
		FROM submission s
		INNER JOIN partner p ON (p.id = s.partner_id)
		LEFT OUTER JOIN response r ON (r.submission_id = s.id)
		WHERE s.template_id = ?
		ORDER BY s.submitted_at DESC, r.question_id ASC`,
		templateID,
	)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list submissions")
	}
	defer rows.Close()

	details := []SubmissionDetail{}
	for rows.Next() {
		var d SubmissionDetail
		var r model.Response
		var respID sql.NullInt64
		var questionID, questionText, section, qtype, value sql.NullString
		err = rows.Scan(
			&d.Submission.ID, &d.Submission.UUID, &d.Submission.CustomerID, &d.Submission.TemplateID,
			&d.Submission.PartnerID, &d.Submission.IsUpdate, &d.Submission.SubmittedAt,
			&d.PartnerName, &d.PartnerCompany,
			&respID, &questionID, &questionText, &section, &qtype, &value,
		)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "scan submission")
		}

		last := len(details) - 1
		if last < 0 || details[last].Submission.ID != d.Submission.ID {
			d.Responses = []model.Response{}
			details = append(details, d)
			last++
		}
		if respID.Valid {
			r = model.Response{
				ID:           int(respID.Int64),
				SubmissionID: d.Submission.ID,
				QuestionID:   questionID.String,
				QuestionText: questionText.String,
				Section:      section.String,
				Type:         model.QuestionType(qtype.String),
				Value:        value.String,
			}
			details[last].Responses = append(details[last].Responses, r)
		}
	}
	return details, rows.Err()
}

// ExportRow is one line of the flattened export join: submission metadata
// plus one response, or a submission alone when it has no responses.
type ExportRow struct {
	SubmissionUUID  string
	SubmittedAt     time.Time
	CustomerID      string
	CustomerCompany string
	PartnerName     string
	PartnerCompany  string
	TemplateName    string
	IsUpdate        bool
	QuestionID      sql.NullString
	QuestionText    sql.NullString
	Section         sql.NullString
	Type            sql.NullString
	Value           sql.NullString
}

// ExportRows streams the full submissions join for the export workbook,
// newest submission first.
func (s *SubmissionStore) ExportRows(ctx context.Context) ([]ExportRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.uuid, s.submitted_at, s.customer_id, c.company,
			p.name, p.company, t.name, s.is_update,
			r.question_id, r.question_text, r.section, r.type, r.value
		FROM submission s
		INNER JOIN customer c ON (c.id = s.customer_id)
		INNER JOIN partner p ON (p.id = s.partner_id)
		INNER JOIN template t ON (t.id = s.template_id)
		LEFT OUTER JOIN response r ON (r.submission_id = s.id)
		ORDER BY s.submitted_at DESC, r.question_id ASC`)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "export submissions")
	}
	defer rows.Close()

	export := []ExportRow{}
	for rows.Next() {
		var row ExportRow
		err = rows.Scan(
			&row.SubmissionUUID, &row.SubmittedAt, &row.CustomerID, &row.CustomerCompany,
			&row.PartnerName, &row.PartnerCompany, &row.TemplateName, &row.IsUpdate,
			&row.QuestionID, &row.QuestionText, &row.Section, &row.Type, &row.Value,
		)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "scan export row")
		}
		export = append(export, row)
	}
	return export, rows.Err()
}
