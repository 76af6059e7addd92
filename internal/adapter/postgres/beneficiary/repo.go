// Package beneficiary implements the project beneficiary repository using PostgreSQL.
package beneficiary

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	postgres "github.com/heartmarshall/health-registry/internal/adapter/postgres"
	"github.com/heartmarshall/health-registry/internal/domain"
)

const table = "project_beneficiary"

var columns = append(append([]string{}, postgres.BaseColumns...),
	"client_reference_id", "project_id", "beneficiary_id", "beneficiary_client_reference_id",
	"date_of_registration", "tag",
)

type row struct {
	postgres.BaseRow
	ClientReferenceID            *string `db:"client_reference_id"`
	ProjectID                    *string `db:"project_id"`
	BeneficiaryID                *string `db:"beneficiary_id"`
	BeneficiaryClientReferenceID *string `db:"beneficiary_client_reference_id"`
	DateOfRegistration           *int64  `db:"date_of_registration"`
	Tag                          *string `db:"tag"`
}

// Repo provides project beneficiary persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new project beneficiary repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// FindByIDs returns the tenant's project beneficiaries with the given ids.
func (r *Repo) FindByIDs(ctx context.Context, tenantID string, ids []string, includeDeleted bool) ([]*domain.ProjectBeneficiary, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	where := sq.And{sq.Eq{"tenant_id": tenantID, "id": ids}}
	if !includeDeleted {
		where = append(where, sq.Eq{"is_deleted": false})
	}
	return r.find(ctx, tenantID, where)
}

// FindByTags returns live project beneficiaries holding any of tags.
func (r *Repo) FindByTags(ctx context.Context, tenantID string, tags []string) ([]*domain.ProjectBeneficiary, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	return r.find(ctx, tenantID, sq.Eq{"tenant_id": tenantID, "tag": tags, "is_deleted": false})
}

func (r *Repo) find(ctx context.Context, tenantID string, where sq.Sqlizer) ([]*domain.ProjectBeneficiary, error) {
	query, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(where).
		OrderBy("created_time", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build project_beneficiary select: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, table, tenantID)
	}

	out := make([]*domain.ProjectBeneficiary, 0, len(rows))
	for _, rw := range rows {
		b, err := rw.BaseRow.ToDomain()
		if err != nil {
			return nil, err
		}
		b.ClientReferenceID = postgres.Deref(rw.ClientReferenceID)
		out = append(out, &domain.ProjectBeneficiary{
			Base:                         b,
			ProjectID:                    postgres.Deref(rw.ProjectID),
			BeneficiaryID:                postgres.Deref(rw.BeneficiaryID),
			BeneficiaryClientReferenceID: postgres.Deref(rw.BeneficiaryClientReferenceID),
			DateOfRegistration:           postgres.Deref(rw.DateOfRegistration),
			Tag:                          rw.Tag,
		})
	}
	return out, nil
}

// Upsert inserts project beneficiaries or overwrites the stored rows with the same id.
func (r *Repo) Upsert(ctx context.Context, items []*domain.ProjectBeneficiary) error {
	if len(items) == 0 {
		return nil
	}

	insert := postgres.Builder().Insert(table).Columns(columns...)
	for _, pb := range items {
		vals, err := postgres.BaseValues(&pb.Base)
		if err != nil {
			return err
		}
		insert = insert.Values(append(vals,
			postgres.Nullable(pb.ClientReferenceID), postgres.Nullable(pb.ProjectID),
			postgres.Nullable(pb.BeneficiaryID), postgres.Nullable(pb.BeneficiaryClientReferenceID),
			postgres.Nullable(pb.DateOfRegistration), pb.Tag,
		)...)
	}
	query, args, err := insert.Suffix(postgres.UpsertSuffix("id", columns)).ToSql()
	if err != nil {
		return fmt.Errorf("build project_beneficiary upsert: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, table, items[0].ID)
	}
	return nil
}
