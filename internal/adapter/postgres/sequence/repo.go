// Package sequence backs the id format engine: Postgres sequences and the
// id_generator format registry.
package sequence

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/health-registry/internal/adapter/postgres"
)

// Repo provides sequence and format access backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new sequence repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// NextValues draws n values from the named sequence. A missing sequence
// yields domain.ErrNotFound.
func (r *Repo) NextValues(ctx context.Context, name string, n int) ([]int64, error) {
	if n <= 0 {
		return nil, nil
	}

	var vals []int64
	err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &vals,
		`SELECT nextval($1::regclass) FROM generate_series(1, $2)`,
		pgx.Identifier{name}.Sanitize(), n,
	)
	if err != nil {
		return nil, postgres.MapError(err, "sequence", name)
	}
	return vals, nil
}

// Create creates the named sequence if it does not exist.
func (r *Repo) Create(ctx context.Context, name string) error {
	stmt := "CREATE SEQUENCE IF NOT EXISTS " + pgx.Identifier{name}.Sanitize()
	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, stmt); err != nil {
		return postgres.MapError(err, "sequence", name)
	}
	return nil
}

// IDFormat returns the format registered for idName and tenantID.
// Returns domain.ErrNotFound if none is registered.
func (r *Repo) IDFormat(ctx context.Context, idName, tenantID string) (string, error) {
	query, args, err := postgres.Builder().
		Select("format").
		From("id_generator").
		Where(sq.Eq{"idname": idName, "tenantid": tenantID}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build id_generator select: %w", err)
	}

	var format string
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &format, query, args...); err != nil {
		return "", postgres.MapError(err, "id_generator", idName)
	}
	return format, nil
}
