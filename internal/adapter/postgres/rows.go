package postgres

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/heartmarshall/health-registry/internal/domain"
)

// BaseColumns are the columns every entity table shares, in BaseRow order.
var BaseColumns = []string{
	"id", "tenant_id", "row_version", "is_deleted", "additional_fields",
	"created_by", "created_time", "last_modified_by", "last_modified_time",
}

// BaseRow is the scan target for BaseColumns. Embed it in table rows.
type BaseRow struct {
	ID               string  `db:"id"`
	TenantID         string  `db:"tenant_id"`
	RowVersion       int     `db:"row_version"`
	IsDeleted        bool    `db:"is_deleted"`
	AdditionalFields []byte  `db:"additional_fields"`
	CreatedBy        *string `db:"created_by"`
	CreatedTime      *int64  `db:"created_time"`
	LastModifiedBy   *string `db:"last_modified_by"`
	LastModifiedTime *int64  `db:"last_modified_time"`
}

// ToDomain converts the row to a domain.Base.
func (r BaseRow) ToDomain() (domain.Base, error) {
	b := domain.Base{
		ID:         r.ID,
		TenantID:   r.TenantID,
		RowVersion: r.RowVersion,
		IsDeleted:  r.IsDeleted,
	}
	if r.CreatedBy != nil || r.CreatedTime != nil || r.LastModifiedBy != nil || r.LastModifiedTime != nil {
		b.AuditDetails = &domain.AuditDetails{
			CreatedBy:        Deref(r.CreatedBy),
			CreatedTime:      Deref(r.CreatedTime),
			LastModifiedBy:   Deref(r.LastModifiedBy),
			LastModifiedTime: Deref(r.LastModifiedTime),
		}
	}
	if len(r.AdditionalFields) > 0 {
		b.AdditionalFields = &domain.AdditionalFields{}
		if err := json.Unmarshal(r.AdditionalFields, b.AdditionalFields); err != nil {
			return domain.Base{}, fmt.Errorf("decode additional_fields of %s: %w", r.ID, err)
		}
	}
	return b, nil
}

// BaseValues returns the values of b in BaseColumns order.
func BaseValues(b *domain.Base) ([]any, error) {
	extra, err := JSON(b.AdditionalFields)
	if err != nil {
		return nil, fmt.Errorf("encode additional_fields of %s: %w", b.ID, err)
	}
	a := b.AuditDetails
	if a == nil {
		a = &domain.AuditDetails{}
	}
	return []any{
		b.ID, b.TenantID, b.RowVersion, b.IsDeleted, extra,
		Nullable(a.CreatedBy), Nullable(a.CreatedTime), Nullable(a.LastModifiedBy), Nullable(a.LastModifiedTime),
	}, nil
}

// JSON encodes v for a JSONB column. A nil pointer encodes as NULL.
func JSON[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// Deref returns *p, or the zero value for a nil p.
func Deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// Nullable returns nil for the zero value so it is stored as NULL.
func Nullable[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}

// UpsertSuffix renders an ON CONFLICT clause that overwrites every column
// except the conflict key and the creation audit.
func UpsertSuffix(conflict string, columns []string) string {
	sets := make([]string, 0, len(columns))
	for _, c := range columns {
		switch c {
		case conflict, "created_by", "created_time":
			continue
		}
		sets = append(sets, c+" = EXCLUDED."+c)
	}
	return "ON CONFLICT (" + conflict + ") DO UPDATE SET " + strings.Join(sets, ", ")
}
