// Package idpool implements the id pool and dispatch log repositories using PostgreSQL.
package idpool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	postgres "github.com/heartmarshall/health-registry/internal/adapter/postgres"
	"github.com/heartmarshall/health-registry/internal/domain"
)

const (
	poolTable = "id_pool"
	logTable  = "id_transaction_log"
)

var (
	poolColumns = append(append([]string{}, postgres.BaseColumns...), "status")
	logColumns  = []string{
		"tenant_id", "id", "user_uuid", "device_uuid", "device_info", "status", "row_version",
		"created_by", "created_time", "last_modified_by", "last_modified_time",
	}
)

type recordRow struct {
	postgres.BaseRow
	Status string `db:"status"`
}

func (r recordRow) toDomain() (*domain.IDRecord, error) {
	b, err := r.BaseRow.ToDomain()
	if err != nil {
		return nil, err
	}
	return &domain.IDRecord{Base: b, Status: r.Status}, nil
}

type logRow struct {
	TenantID         string  `db:"tenant_id"`
	ID               string  `db:"id"`
	UserUUID         string  `db:"user_uuid"`
	DeviceUUID       string  `db:"device_uuid"`
	DeviceInfo       []byte  `db:"device_info"`
	Status           string  `db:"status"`
	RowVersion       int     `db:"row_version"`
	CreatedBy        *string `db:"created_by"`
	CreatedTime      *int64  `db:"created_time"`
	LastModifiedBy   *string `db:"last_modified_by"`
	LastModifiedTime *int64  `db:"last_modified_time"`
}

// Repo provides id pool persistence backed by PostgreSQL.
type Repo struct {
	db  postgres.Querier
	now func() time.Time
}

// New creates a new id pool repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db, now: time.Now}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// fetchUnassignedSQL claims the oldest UNASSIGNED ids, skipping rows other
// dispatchers hold, marks them DISPATCHED and returns them as they were
// before the update.
var fetchUnassignedSQL = `WITH claimed AS (
	SELECT ` + strings.Join(poolColumns, ", ") + `
	FROM ` + poolTable + `
	WHERE tenant_id = $1 AND status = 'UNASSIGNED' AND is_deleted = FALSE
	ORDER BY created_time, id
	LIMIT $2
	FOR UPDATE SKIP LOCKED
), marked AS (
	UPDATE ` + poolTable + ` p
	SET status = 'DISPATCHED',
		row_version = p.row_version + 1,
		last_modified_by = $3,
		last_modified_time = $4
	FROM claimed c
	WHERE p.id = c.id AND p.tenant_id = c.tenant_id
)
SELECT * FROM claimed ORDER BY created_time, id`

// FetchUnassigned atomically claims up to count UNASSIGNED ids for userUUID.
// Concurrent callers never receive the same id.
func (r *Repo) FetchUnassigned(ctx context.Context, tenantID, userUUID string, count int) ([]*domain.IDRecord, error) {
	if count <= 0 {
		return nil, nil
	}
	q := postgres.QuerierFromCtx(ctx, r.db)

	var rows []recordRow
	if err := pgxscan.Select(ctx, q, &rows, fetchUnassignedSQL, tenantID, count, userUUID, r.now().UnixMilli()); err != nil {
		return nil, postgres.MapError(err, poolTable, tenantID)
	}
	return toRecords(rows)
}

// FindByIDsAndStatus returns the tenant's pooled ids among ids, filtered by
// status when it is set. Empty ids means every id of the tenant.
func (r *Repo) FindByIDsAndStatus(ctx context.Context, ids []string, status, tenantID string) ([]*domain.IDRecord, error) {
	where := sq.And{sq.Eq{"tenant_id": tenantID}}
	if len(ids) > 0 {
		where = append(where, sq.Eq{"id": ids})
	}
	if status != "" {
		where = append(where, sq.Eq{"status": status})
	}

	query, args, err := postgres.Builder().
		Select(poolColumns...).
		From(poolTable).
		Where(where).
		OrderBy("created_time", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build id_pool select: %w", err)
	}

	var rows []recordRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, poolTable, tenantID)
	}
	return toRecords(rows)
}

// FindByIDs implements validation.Finder for pool status updates.
func (r *Repo) FindByIDs(ctx context.Context, tenantID string, ids []string, _ bool) ([]*domain.IDRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.FindByIDsAndStatus(ctx, ids, "", tenantID)
}

// SelectTransactionLogs returns one page of a user's dispatch history on a
// device, newest first, and the total number of matching logs.
func (r *Repo) SelectTransactionLogs(ctx context.Context, f domain.TransactionLogQuery) ([]domain.IDTransactionLog, int64, error) {
	status := f.Status
	if status == "" {
		status = domain.IDStatusDispatched.String()
	}
	where := sq.And{sq.Eq{
		"tenant_id":   f.TenantID,
		"user_uuid":   f.UserUUID,
		"device_uuid": f.DeviceUUID,
		"status":      status,
	}}
	if f.SinceMillis > 0 {
		where = append(where, sq.GtOrEq{"created_time": f.SinceMillis})
	}
	q := postgres.QuerierFromCtx(ctx, r.db)

	countSQL, countArgs, err := postgres.Builder().Select("COUNT(*)").From(logTable).Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build id_transaction_log count: %w", err)
	}
	var total int64
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, postgres.MapError(err, logTable, f.UserUUID)
	}

	page := postgres.Builder().
		Select(logColumns...).
		From(logTable).
		Where(where).
		OrderBy("created_time DESC", "seq DESC")
	if f.Limit > 0 {
		page = page.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		page = page.Offset(uint64(f.Offset))
	}
	pageSQL, pageArgs, err := page.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build id_transaction_log select: %w", err)
	}

	var rows []logRow
	if err := pgxscan.Select(ctx, q, &rows, pageSQL, pageArgs...); err != nil {
		return nil, 0, postgres.MapError(err, logTable, f.UserUUID)
	}

	logs := make([]domain.IDTransactionLog, len(rows))
	for i, row := range rows {
		logs[i] = row.toDomain()
	}
	return logs, total, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// InsertRecords adds records to the pool. Ids already present are skipped.
// Returns the number of inserted rows.
func (r *Repo) InsertRecords(ctx context.Context, records []*domain.IDRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	insert := postgres.Builder().Insert(poolTable).Columns(poolColumns...)
	for _, rec := range records {
		vals, err := postgres.BaseValues(&rec.Base)
		if err != nil {
			return 0, err
		}
		insert = insert.Values(append(vals, rec.Status)...)
	}
	query, args, err := insert.Suffix("ON CONFLICT (id, tenant_id) DO NOTHING").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build id_pool insert: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return 0, postgres.MapError(err, poolTable, records[0].TenantID)
	}
	return tag.RowsAffected(), nil
}

const updateStatusesSQL = `UPDATE id_pool p
SET status = u.status,
	row_version = u.row_version,
	is_deleted = u.is_deleted,
	last_modified_by = u.last_modified_by,
	last_modified_time = u.last_modified_time
FROM unnest($1::text[], $2::text[], $3::text[], $4::int[], $5::bool[], $6::text[], $7::bigint[])
	AS u(id, tenant_id, status, row_version, is_deleted, last_modified_by, last_modified_time)
WHERE p.id = u.id AND p.tenant_id = u.tenant_id`

// UpdateStatuses writes the status, row version and audit of records in
// one statement. Returns the number of updated rows.
func (r *Repo) UpdateStatuses(ctx context.Context, records []*domain.IDRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	n := len(records)
	ids, tenants, statuses, modifiedBy := make([]string, n), make([]string, n), make([]string, n), make([]string, n)
	versions, modifiedAt := make([]int32, n), make([]int64, n)
	deleted := make([]bool, n)
	for i, rec := range records {
		ids[i], tenants[i], statuses[i] = rec.ID, rec.TenantID, rec.Status
		versions[i], deleted[i] = int32(rec.RowVersion), rec.IsDeleted
		if a := rec.AuditDetails; a != nil {
			modifiedBy[i], modifiedAt[i] = a.LastModifiedBy, a.LastModifiedTime
		}
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, updateStatusesSQL,
		ids, tenants, statuses, versions, deleted, modifiedBy, modifiedAt)
	if err != nil {
		return 0, postgres.MapError(err, poolTable, records[0].TenantID)
	}
	return tag.RowsAffected(), nil
}

// InsertTransactionLogs appends dispatch and status-change logs.
func (r *Repo) InsertTransactionLogs(ctx context.Context, logs []domain.IDTransactionLog) error {
	if len(logs) == 0 {
		return nil
	}

	insert := postgres.Builder().Insert(logTable).Columns(logColumns...)
	for _, l := range logs {
		var info []byte
		if l.DeviceInfo != nil {
			var err error
			if info, err = json.Marshal(l.DeviceInfo); err != nil {
				return fmt.Errorf("encode device_info of %s: %w", l.ID, err)
			}
		}
		a := l.AuditDetails
		if a == nil {
			a = &domain.AuditDetails{}
		}
		insert = insert.Values(l.TenantID, l.ID, l.UserUUID, l.DeviceUUID, info, l.Status, l.RowVersion,
			a.CreatedBy, a.CreatedTime, a.LastModifiedBy, a.LastModifiedTime)
	}
	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build id_transaction_log insert: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, logTable, logs[0].UserUUID)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Mappers
// ---------------------------------------------------------------------------

func toRecords(rows []recordRow) ([]*domain.IDRecord, error) {
	out := make([]*domain.IDRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r logRow) toDomain() domain.IDTransactionLog {
	l := domain.IDTransactionLog{
		TenantID:   r.TenantID,
		ID:         r.ID,
		UserUUID:   r.UserUUID,
		DeviceUUID: r.DeviceUUID,
		Status:     r.Status,
		RowVersion: r.RowVersion,
		AuditDetails: &domain.AuditDetails{
			CreatedBy:        postgres.Deref(r.CreatedBy),
			CreatedTime:      postgres.Deref(r.CreatedTime),
			LastModifiedBy:   postgres.Deref(r.LastModifiedBy),
			LastModifiedTime: postgres.Deref(r.LastModifiedTime),
		},
	}
	if len(r.DeviceInfo) > 0 {
		l.DeviceInfo = json.RawMessage(r.DeviceInfo)
	}
	return l
}
