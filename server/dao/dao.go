// Package dao provides data access objects for use in the FRBS registry
// server.
package dao

import (
	"context"
	"time"

	"github.com/dekarrin/frbs/fuzzy"
	"github.com/google/uuid"
)

// Store holds all the repositories.
type Store interface {
	RuleBases() RuleBaseRepository
	Close() error
}

type RuleBaseRepository interface {

	// Create creates a new RuleBase. All attributes except for auto-generated
	// fields are taken from the provided RuleBase. Names must be unique; if
	// one is already taken ErrConstraintViolation is returned.
	Create(ctx context.Context, rb RuleBase) (RuleBase, error)
	GetByID(ctx context.Context, id uuid.UUID) (RuleBase, error)
	GetByName(ctx context.Context, name string) (RuleBase, error)

	// GetAll returns every stored RuleBase ordered by name.
	GetAll(ctx context.Context) ([]RuleBase, error)
	Update(ctx context.Context, id uuid.UUID, rb RuleBase) (RuleBase, error)
	Delete(ctx context.Context, id uuid.UUID) (RuleBase, error)
	Close() error
}

// RuleBase is a compiled rule base stored in the registry along with the text
// it was compiled from.
type RuleBase struct {
	ID       uuid.UUID
	Name     string
	Source   string
	Model    fuzzy.Model
	Owner    string
	Created  time.Time
	Modified time.Time
}
