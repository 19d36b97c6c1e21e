package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/flashmaint/internal/flashcard"
)

// querier is the subset of *pgxpool.Pool used by Postgres.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Postgres implements Store over a direct database connection.
type Postgres struct {
	db    querier
	table string
}

// NewPostgres creates a Postgres store for the given table. Pass a
// *pgxpool.Pool as db.
func NewPostgres(db querier, table string) *Postgres {
	if table == "" {
		table = DefaultTable
	}
	return &Postgres{db: db, table: table}
}

// FetchAll returns every flashcard ordered by id. NULL text columns are
// returned as empty strings.
func (p *Postgres) FetchAll(ctx context.Context) ([]flashcard.Card, error) {
	query := fmt.Sprintf(
		`SELECT id,
			COALESCE(arabic, '') AS arabic,
			COALESCE(spanish, '') AS spanish,
			COALESCE(category, '') AS category,
			COALESCE(phonetic, '') AS phonetic
		 FROM %s ORDER BY id`,
		p.tableIdent(),
	)

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query flashcards: %w", err)
	}

	cards, err := pgx.CollectRows(rows, pgx.RowToStructByName[flashcard.Card])
	if err != nil {
		return nil, fmt.Errorf("failed to scan flashcards: %w", err)
	}
	return cards, nil
}

// Update writes the given columns of one row.
func (p *Postgres) Update(ctx context.Context, id int64, fields flashcard.Fields) error {
	query, args, err := p.buildUpdate(id, fields)
	if err != nil {
		return err
	}

	tag, err := p.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update flashcard %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update flashcard %d: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes one row.
func (p *Postgres) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", p.tableIdent())

	tag, err := p.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete flashcard %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete flashcard %d: %w", id, ErrNotFound)
	}
	return nil
}

// buildUpdate returns the UPDATE statement and its arguments. Columns are
// emitted in a fixed order so statements are stable.
func (p *Postgres) buildUpdate(id int64, fields flashcard.Fields) (string, []any, error) {
	if err := fields.Validate(); err != nil {
		return "", nil, err
	}

	cols := fields.Sorted()
	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+1)
	for i, f := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", pgx.Identifier{string(f)}.Sanitize(), i+1)
		args = append(args, fields[f])
	}
	args = append(args, id)

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE id = $%d",
		p.tableIdent(),
		strings.Join(sets, ", "),
		len(args),
	)
	return query, args, nil
}

// tableIdent returns the quoted table name. A schema-qualified name such as
// "public.flashcards" is quoted per part.
func (p *Postgres) tableIdent() string {
	return pgx.Identifier(strings.Split(p.table, ".")).Sanitize()
}
