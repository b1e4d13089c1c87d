package store

import (
	"context"
	"database/sql"
	"errors"

	pkgerrors "github.com/pkg/errors"

	"github.com/pvsarolkar/partner-survey/model"
)

// CustomerStore reads and upserts the customer directory partners pick from.
type CustomerStore struct {
	db *sql.DB
}

func NewCustomerStore(db *sql.DB) *CustomerStore {
	return &CustomerStore{db: db}
}

// Search matches the term against company name or customer id,
// case-insensitively, capped at 50 rows. An empty term lists the first 50
// customers by company.
func (s *CustomerStore) Search(ctx context.Context, term string) ([]model.Customer, error) {
	var rows *sql.Rows
	var err error
	if term != "" {
		pattern := "%" + term + "%"
		rows, err = s.db.QueryContext(ctx, `
			SELECT id, company, classification, owner
			FROM customer
			WHERE company LIKE ? OR id LIKE ?
			ORDER BY company ASC
			LIMIT 50`,
			pattern, pattern,
		)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT id, company, classification, owner
			FROM customer
			ORDER BY company ASC
			LIMIT 50`)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(err, "search customers")
	}
	defer rows.Close()

	customers := []model.Customer{}
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.Company, &c.Classification, &c.Owner); err != nil {
			return nil, pkgerrors.Wrap(err, "scan customer")
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (s *CustomerStore) Get(ctx context.Context, id string) (model.Customer, error) {
	var c model.Customer
	err := s.db.QueryRowContext(ctx, `
		SELECT id, company, classification, owner
		FROM customer
		WHERE id = ?`,
		id,
	).Scan(&c.ID, &c.Company, &c.Classification, &c.Owner)
	if errors.Is(err, sql.ErrNoRows) {
		return c, &model.NotFoundError{Kind: "customer", ID: id}
	}
	if err != nil {
		return c, pkgerrors.Wrap(err, "get customer")
	}
	return c, nil
}

// Upsert inserts the customer or refreshes its company name.
func (s *CustomerStore) Upsert(ctx context.Context, c model.Customer) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO customer (id, company, classification, owner)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET company = excluded.company`,
		c.ID, c.Company, c.Classification, c.Owner,
	)
	return pkgerrors.Wrap(err, "upsert customer")
}
