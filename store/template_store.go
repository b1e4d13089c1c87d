// Package store holds the SQL adapters between the pure survey core and the
// database: templates, customers, and submissions with their responses.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	pkgerrors "github.com/pkg/errors"

	"github.com/pvsarolkar/partner-survey/model"
)

// TemplateStore persists survey definitions. The question list is stored as
// one JSON document per template; invariants are checked on save so a
// malformed upload is rejected whole, and re-checked on load so a corrupted
// document fails before it reaches a form.
type TemplateStore struct {
	db *sql.DB
}

func NewTemplateStore(db *sql.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

// Save validates the template and upserts it by name, returning the id.
// Nothing persists when validation fails.
func (s *TemplateStore) Save(ctx context.Context, tpl model.Template) (int, error) {
	if err := tpl.Validate(); err != nil {
		return 0, err
	}

	questions, err := json.Marshal(tpl.Questions)
	if err != nil {
		return 0, pkgerrors.Wrap(err, "encode questions")
	}

	var id int
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO template (name, description, questions)
		VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			description = excluded.description,
			questions = excluded.questions,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id`,
		tpl.Name,
		tpl.Description,
		string(questions),
	).Scan(&id)
	if err != nil {
		return 0, pkgerrors.Wrap(err, "upsert template")
	}
	return id, nil
}

// Load fetches one template by id, decoding and re-validating its question
// document.
func (s *TemplateStore) Load(ctx context.Context, id int) (model.Template, error) {
	tpl := model.Template{ID: id}
	var questions string
	err := s.db.QueryRowContext(ctx, `
		SELECT name, description, questions, created_at, updated_at
		FROM template
		WHERE id = ?`,
		id,
	).Scan(&tpl.Name, &tpl.Description, &questions, &tpl.CreatedAt, &tpl.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return tpl, &model.NotFoundError{Kind: "template", ID: id}
	}
	if err != nil {
		return tpl, pkgerrors.Wrap(err, "load template")
	}

	if err := json.Unmarshal([]byte(questions), &tpl.Questions); err != nil {
		return tpl, &model.ValidationError{Err: pkgerrors.Wrapf(err, "template %d: stored questions", id)}
	}
	if err := tpl.Validate(); err != nil {
		return tpl, err
	}
	return tpl, nil
}

// List returns all templates, newest first, each with its decoded questions.
func (s *TemplateStore) List(ctx context.Context) ([]model.Template, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, questions, created_at, updated_at
		FROM template
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list templates")
	}
	defer rows.Close()

	templates := []model.Template{}
	for rows.Next() {
		var tpl model.Template
		var questions string
		err = rows.Scan(&tpl.ID, &tpl.Name, &tpl.Description, &questions, &tpl.CreatedAt, &tpl.UpdatedAt)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "scan template")
		}
		if err := json.Unmarshal([]byte(questions), &tpl.Questions); err != nil {
			return nil, &model.ValidationError{Err: pkgerrors.Wrapf(err, "template %d: stored questions", tpl.ID)}
		}
		templates = append(templates, tpl)
	}
	return templates, rows.Err()
}

// Delete removes a template together with its submissions (the schema
// cascades).
func (s *TemplateStore) Delete(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM template WHERE id = ?`, id)
	if err != nil {
		return pkgerrors.Wrap(err, "delete template")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return pkgerrors.Wrap(err, "delete template: rows affected")
	}
	if n < 1 {
		return &model.NotFoundError{Kind: "template", ID: id}
	}
	return nil
}
