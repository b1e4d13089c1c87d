package model

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Template is one survey definition: an ordered question list uploaded by an
// admin and rendered to partners.
type Template struct {
	ID          int        `json:"id,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Questions   []Question `json:"questions"`
	CreatedAt   time.Time  `json:"created_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at,omitempty"`
}

// Validate checks the whole-template invariants: per-question shapes, unique
// ids, resolvable dependency targets, and a cycle-free dependency graph.
// All issues are collected so the uploader sees every problem at once; any
// issue at all means nothing persists.
func (t Template) Validate() error {
	var issues error

	if t.Name == "" {
		issues = multierror.Append(issues, fmt.Errorf("template without a name"))
	}
	if len(t.Questions) == 0 {
		issues = multierror.Append(issues, fmt.Errorf("template %q has no questions", t.Name))
	}

	byID := make(map[string]Question, len(t.Questions))
	for _, q := range t.Questions {
		if err := q.CheckShape(); err != nil {
			issues = multierror.Append(issues, err)
		}
		if q.ID == "" {
			continue
		}
		if _, dup := byID[q.ID]; dup {
			issues = multierror.Append(issues, fmt.Errorf("duplicate question id %q", q.ID))
			continue
		}
		byID[q.ID] = q
	}

	for _, q := range t.Questions {
		dep := q.DependsOn
		if dep == nil {
			continue
		}
		if dep.QuestionID == q.ID {
			issues = multierror.Append(issues, fmt.Errorf("question %q depends on itself", q.ID))
			continue
		}
		parent, ok := byID[dep.QuestionID]
		if !ok {
			issues = multierror.Append(issues, fmt.Errorf("question %q depends on unknown question %q", q.ID, dep.QuestionID))
			continue
		}
		if parent.Type == TypeMatrix {
			issues = multierror.Append(issues, fmt.Errorf("question %q depends on matrix question %q", q.ID, dep.QuestionID))
		}
	}

	for _, q := range t.Questions {
		if cyclic(q, byID) {
			issues = multierror.Append(issues, fmt.Errorf("question %q is part of a dependency cycle", q.ID))
		}
	}

	if issues != nil {
		return &ValidationError{Err: issues}
	}
	return nil
}

// cyclic walks the single-parent chain upward from q looking for a repeat.
func cyclic(q Question, byID map[string]Question) bool {
	seen := map[string]bool{q.ID: true}
	for q.DependsOn != nil {
		parent, ok := byID[q.DependsOn.QuestionID]
		if !ok {
			return false
		}
		if seen[parent.ID] {
			return true
		}
		seen[parent.ID] = true
		q = parent
	}
	return false
}

// Question returns the question with the given id, if present.
func (t Template) Question(id string) (Question, bool) {
	for _, q := range t.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}
