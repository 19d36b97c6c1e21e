// Package store provides access to the remote flashcard table.
//
// Two backends implement [Store]: [Postgres] talks to the database directly
// through a pgx connection pool, and [PostgREST] uses the Supabase REST
// endpoint. Every call is synchronous and touches a single row; there are no
// batched or transactional writes.
package store

import (
	"context"
	"errors"

	"github.com/JonMunkholm/flashmaint/internal/flashcard"
)

// DefaultTable is the flashcard table name.
const DefaultTable = "flashcards"

// ErrNotFound is returned when an update or delete matches no row.
var ErrNotFound = errors.New("record not found")

// Store defines the persistence operations the maintenance workflow needs.
type Store interface {
	// FetchAll returns every flashcard ordered by id.
	FetchAll(ctx context.Context) ([]flashcard.Card, error)

	// Update writes the given columns of the row with this id.
	Update(ctx context.Context, id int64, fields flashcard.Fields) error

	// Delete removes the row with this id.
	Delete(ctx context.Context, id int64) error
}
