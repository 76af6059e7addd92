package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/health-registry/internal/domain"
)

// UniqueTenant returns a tenant id no other test uses, so tests sharing the
// container do not see each other's rows.
func UniqueTenant() string {
	return "t" + uuid.New().String()[:8]
}

// SeedIDPool inserts UNASSIGNED ids for tenantID with increasing created times.
func SeedIDPool(t *testing.T, pool *pgxpool.Pool, tenantID string, ids ...string) []*domain.IDRecord {
	t.Helper()
	ctx := context.Background()

	base := time.Now().UnixMilli()
	out := make([]*domain.IDRecord, 0, len(ids))
	for i, id := range ids {
		created := base + int64(i)
		_, err := pool.Exec(ctx,
			`INSERT INTO id_pool (id, tenant_id, status, row_version, created_by, created_time)
			 VALUES ($1, $2, 'UNASSIGNED', 1, 'seed', $3)`,
			id, tenantID, created,
		)
		if err != nil {
			t.Fatalf("testhelper: SeedIDPool insert %s: %v", id, err)
		}
		out = append(out, &domain.IDRecord{
			Base: domain.Base{
				ID:           id,
				TenantID:     tenantID,
				RowVersion:   1,
				AuditDetails: &domain.AuditDetails{CreatedBy: "seed", CreatedTime: created},
			},
			Status: domain.IDStatusUnassigned.String(),
		})
	}
	return out
}

// SeedIDFormat registers an id format in the id_generator table.
func SeedIDFormat(t *testing.T, pool *pgxpool.Pool, idName, tenantID, format string) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO id_generator (idname, tenantid, format, sequencenumber) VALUES ($1, $2, $3, 1)`,
		idName, tenantID, format,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedIDFormat insert %s: %v", idName, err)
	}
}
