// Package individual implements the individual repository using PostgreSQL.
// Addresses, identifiers and skills are stored as JSONB next to their owner.
package individual

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	postgres "github.com/heartmarshall/health-registry/internal/adapter/postgres"
	"github.com/heartmarshall/health-registry/internal/domain"
)

const table = "individual"

var columns = append(append([]string{}, postgres.BaseColumns...),
	"client_reference_id", "individual_id", "user_uuid",
	"given_name", "family_name", "other_names",
	"date_of_birth", "gender", "mobile_number", "email",
	"address", "identifiers", "skills",
)

type row struct {
	postgres.BaseRow
	ClientReferenceID *string `db:"client_reference_id"`
	IndividualID      *string `db:"individual_id"`
	UserUUID          *string `db:"user_uuid"`
	GivenName         *string `db:"given_name"`
	FamilyName        *string `db:"family_name"`
	OtherNames        *string `db:"other_names"`
	DateOfBirth       *string `db:"date_of_birth"`
	Gender            *string `db:"gender"`
	MobileNumber      *string `db:"mobile_number"`
	Email             *string `db:"email"`
	Address           []byte  `db:"address"`
	Identifiers       []byte  `db:"identifiers"`
	Skills            []byte  `db:"skills"`
}

// Repo provides individual persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new individual repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// FindByIDs returns the tenant's individuals with the given ids.
func (r *Repo) FindByIDs(ctx context.Context, tenantID string, ids []string, includeDeleted bool) ([]*domain.Individual, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.Search(ctx, domain.IndividualSearch{TenantID: tenantID, IDs: ids, IncludeDeleted: includeDeleted})
}

// Search returns individuals matching every set filter, oldest first.
func (r *Repo) Search(ctx context.Context, s domain.IndividualSearch) ([]*domain.Individual, error) {
	where := sq.And{sq.Eq{"tenant_id": s.TenantID}}
	if len(s.IDs) > 0 {
		where = append(where, sq.Eq{"id": s.IDs})
	}
	if len(s.ClientReferenceIDs) > 0 {
		where = append(where, sq.Eq{"client_reference_id": s.ClientReferenceIDs})
	}
	if s.MobileNumber != "" {
		where = append(where, sq.Eq{"mobile_number": s.MobileNumber})
	}
	if !s.IncludeDeleted {
		where = append(where, sq.Eq{"is_deleted": false})
	}

	sel := postgres.Builder().Select(columns...).From(table).Where(where).OrderBy("created_time", "id")
	if s.Limit > 0 {
		sel = sel.Limit(uint64(s.Limit))
	}
	if s.Offset > 0 {
		sel = sel.Offset(uint64(s.Offset))
	}
	query, args, err := sel.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build individual select: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, table, s.TenantID)
	}

	out := make([]*domain.Individual, 0, len(rows))
	for _, rw := range rows {
		ind, err := rw.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, ind)
	}
	return out, nil
}

// Upsert inserts individuals or overwrites the stored rows with the same id.
// Deletes are soft and arrive here with isDeleted set.
func (r *Repo) Upsert(ctx context.Context, individuals []*domain.Individual) error {
	if len(individuals) == 0 {
		return nil
	}

	insert := postgres.Builder().Insert(table).Columns(columns...)
	for _, ind := range individuals {
		vals, err := values(ind)
		if err != nil {
			return err
		}
		insert = insert.Values(vals...)
	}
	query, args, err := insert.Suffix(postgres.UpsertSuffix("id", columns)).ToSql()
	if err != nil {
		return fmt.Errorf("build individual upsert: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, table, individuals[0].ID)
	}
	return nil
}

func values(ind *domain.Individual) ([]any, error) {
	vals, err := postgres.BaseValues(&ind.Base)
	if err != nil {
		return nil, err
	}
	address, err := jsonList(ind.Address)
	if err != nil {
		return nil, fmt.Errorf("encode address of %s: %w", ind.ID, err)
	}
	identifiers, err := jsonList(ind.Identifiers)
	if err != nil {
		return nil, fmt.Errorf("encode identifiers of %s: %w", ind.ID, err)
	}
	skills, err := jsonList(ind.Skills)
	if err != nil {
		return nil, fmt.Errorf("encode skills of %s: %w", ind.ID, err)
	}
	return append(vals,
		postgres.Nullable(ind.ClientReferenceID), postgres.Nullable(ind.IndividualID), postgres.Nullable(ind.UserUUID),
		postgres.Nullable(ind.Name.GivenName), postgres.Nullable(ind.Name.FamilyName), postgres.Nullable(ind.Name.OtherNames),
		postgres.Nullable(ind.DateOfBirth), postgres.Nullable(ind.Gender), postgres.Nullable(ind.MobileNumber), postgres.Nullable(ind.Email),
		address, identifiers, skills,
	), nil
}

// jsonList encodes a sub-entity list, storing nil as an empty array.
func jsonList[T any](items []T) ([]byte, error) {
	if items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(items)
}

func (r row) toDomain() (*domain.Individual, error) {
	b, err := r.BaseRow.ToDomain()
	if err != nil {
		return nil, err
	}
	b.ClientReferenceID = postgres.Deref(r.ClientReferenceID)

	ind := &domain.Individual{
		Base:         b,
		IndividualID: postgres.Deref(r.IndividualID),
		UserUUID:     postgres.Deref(r.UserUUID),
		Name: domain.Name{
			GivenName:  postgres.Deref(r.GivenName),
			FamilyName: postgres.Deref(r.FamilyName),
			OtherNames: postgres.Deref(r.OtherNames),
		},
		DateOfBirth:  postgres.Deref(r.DateOfBirth),
		Gender:       postgres.Deref(r.Gender),
		MobileNumber: postgres.Deref(r.MobileNumber),
		Email:        postgres.Deref(r.Email),
	}
	for _, part := range []struct {
		name string
		raw  []byte
		dst  any
	}{
		{"address", r.Address, &ind.Address},
		{"identifiers", r.Identifiers, &ind.Identifiers},
		{"skills", r.Skills, &ind.Skills},
	} {
		if len(part.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(part.raw, part.dst); err != nil {
			return nil, fmt.Errorf("decode %s of %s: %w", part.name, r.ID, err)
		}
	}
	return ind, nil
}
