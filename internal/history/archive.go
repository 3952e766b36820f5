package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/precreuse/internal/codec"
	"github.com/roach88/precreuse/internal/ir"
)

// Archived is one stored precision document.
type Archived struct {
	Hash   string
	Format codec.Format
	Kind   ir.Kind
	Body   string
	// RunID is empty for documents archived outside a run.
	RunID string
}

// Archive implements reuse.Archive for documents not tied to a run.
func (s *Store) Archive(ctx context.Context, format codec.Format, kind ir.Kind, body string) (string, error) {
	return s.archive(ctx, "", format, kind, body)
}

func (s *Store) archive(ctx context.Context, runID string, format codec.Format, kind ir.Kind, body string) (string, error) {
	hash := ir.PrecisionHash(string(format), kind, body)

	var run sql.NullString
	if runID != "" {
		run = sql.NullString{String: runID, Valid: true}
	}

	// ON CONFLICT keeps the first archived copy and its run.
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO precisions (hash, format, kind, body, run_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(hash) DO NOTHING
	`,
		hash,
		string(format),
		string(kind),
		body,
		run,
	)
	if err != nil {
		return "", fmt.Errorf("archive precision: %w", err)
	}

	s.logger.Debug("precision archived", "hash", hash, "format", format, "kind", kind, "run", runID)
	return hash, nil
}

// Precision retrieves an archived document by hash.
// Returns an error wrapping sql.ErrNoRows if not found.
func (s *Store) Precision(ctx context.Context, hash string) (Archived, error) {
	var (
		a      Archived
		format string
		kind   string
		run    sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT hash, format, kind, body, run_id
		FROM precisions
		WHERE hash = ?
	`, hash).Scan(&a.Hash, &format, &kind, &a.Body, &run)
	if err != nil {
		return Archived{}, fmt.Errorf("read precision %s: %w", hash, err)
	}
	a.Format = codec.Format(format)
	a.Kind = ir.Kind(kind)
	a.RunID = run.String
	return a, nil
}

// Precisions returns the documents archived by runID, ordered by hash.
func (s *Store) Precisions(ctx context.Context, runID string) ([]Archived, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT hash, format, kind, body
		FROM precisions
		WHERE run_id = ?
		ORDER BY hash COLLATE BINARY ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query precisions: %w", err)
	}
	defer rows.Close()

	out := []Archived{}
	for rows.Next() {
		var (
			a      Archived
			format string
			kind   string
		)
		if err := rows.Scan(&a.Hash, &format, &kind, &a.Body); err != nil {
			return nil, fmt.Errorf("scan precision: %w", err)
		}
		a.Format = codec.Format(format)
		a.Kind = ir.Kind(kind)
		a.RunID = runID
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate precisions: %w", err)
	}
	return out, nil
}

// IsNotFound reports whether err means a missing row.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
