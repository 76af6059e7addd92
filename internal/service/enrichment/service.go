// Package enrichment stamps ids, audit details, row versions and soft-delete
// flags on entities that passed validation.
package enrichment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/health-registry/internal/domain"
)

// IDListSupplier issues fresh entity ids.
type IDListSupplier interface {
	IDs(ctx context.Context, tenantID string, count int) ([]string, error)
}

// UUIDSupplier issues random UUIDs.
type UUIDSupplier struct{}

func (UUIDSupplier) IDs(_ context.Context, _ string, count int) ([]string, error) {
	ids := make([]string, count)
	for i := range ids {
		ids[i] = uuid.NewString()
	}
	return ids, nil
}

// Service mutates entities in memory only. Persistence is the caller's job.
type Service struct {
	log *slog.Logger
	ids IDListSupplier
	now func() time.Time
}

// NewService creates a new enrichment service. A nil supplier falls back to UUIDs.
func NewService(log *slog.Logger, ids IDListSupplier) *Service {
	if ids == nil {
		ids = UUIDSupplier{}
	}
	return &Service{
		log: log.With("service", "enrichment"),
		ids: ids,
		now: time.Now,
	}
}

// UserUUID returns the caller's uuid. Without one it falls back to the
// string form of UserInfo, which is what ends up in createdBy.
func UserUUID(info domain.RequestInfo) string {
	if id := info.UserUUID(); id != "" {
		return id
	}
	return info.UserInfo.String()
}

func (s *Service) stamp(info domain.RequestInfo) *domain.AuditDetails {
	by, at := UserUUID(info), s.now().UnixMilli()
	return &domain.AuditDetails{CreatedBy: by, CreatedTime: at, LastModifiedBy: by, LastModifiedTime: at}
}

// Create assigns one fresh id per entity in order and initialises version,
// deletion flag and audit.
func (s *Service) Create(ctx context.Context, info domain.RequestInfo, entities []domain.Entity) error {
	if len(entities) == 0 {
		return nil
	}
	ids, err := s.ids.IDs(ctx, entities[0].Tenant(), len(entities))
	if err != nil {
		return fmt.Errorf("enrich create: %w", err)
	}
	if len(ids) < len(entities) {
		return fmt.Errorf("enrich create: got %d ids for %d entities", len(ids), len(entities))
	}

	audit := s.stamp(info)
	for i, e := range entities {
		e.AssignID(ids[i])
		e.SetVersion(1)
		e.MarkDeleted(false)
		a := *audit
		e.SetAudit(&a)
	}
	s.log.DebugContext(ctx, "enriched create", slog.Int("count", len(entities)))
	return nil
}

// Update advances each entity to stored rowVersion+1 and applies one shared
// lastModified stamp. createdBy and createdTime are kept from the stored row.
func (s *Service) Update(info domain.RequestInfo, entities []domain.Entity, stored map[string]domain.Entity) {
	audit := s.stamp(info)
	for _, e := range entities {
		version := e.Version()
		a := &domain.AuditDetails{LastModifiedBy: audit.LastModifiedBy, LastModifiedTime: audit.LastModifiedTime}
		if old, ok := stored[e.Identity()]; ok {
			version = old.Version()
			if oa := old.Audit(); oa != nil {
				a.CreatedBy, a.CreatedTime = oa.CreatedBy, oa.CreatedTime
			}
		} else if ea := e.Audit(); ea != nil {
			a.CreatedBy, a.CreatedTime = ea.CreatedBy, ea.CreatedTime
		}
		e.SetVersion(version + 1)
		e.SetAudit(a)
	}
}

// StatusForUpdate moves id records to status with one shared audit update.
func (s *Service) StatusForUpdate(info domain.RequestInfo, records []*domain.IDRecord, status domain.IDStatus) {
	audit := s.stamp(info)
	for _, r := range records {
		r.Status = status.String()
		r.RowVersion++
		a := domain.AuditDetails{LastModifiedBy: audit.LastModifiedBy, LastModifiedTime: audit.LastModifiedTime}
		if r.AuditDetails != nil {
			a.CreatedBy, a.CreatedTime = r.AuditDetails.CreatedBy, r.AuditDetails.CreatedTime
		}
		r.AuditDetails = &a
	}
}

// Delete soft-deletes entities and every sub-entity they own. Each row
// version is bumped on its own.
func (s *Service) Delete(info domain.RequestInfo, entities []domain.Entity) {
	audit := s.stamp(info)
	for _, e := range entities {
		s.delete(e, audit)
		if o, ok := e.(domain.Owner); ok {
			for _, sub := range o.Owned() {
				s.delete(sub, audit)
			}
		}
	}
}

func (s *Service) delete(e domain.Entity, audit *domain.AuditDetails) {
	e.MarkDeleted(true)
	e.SetVersion(e.Version() + 1)
	a := domain.AuditDetails{LastModifiedBy: audit.LastModifiedBy, LastModifiedTime: audit.LastModifiedTime}
	if old := e.Audit(); old != nil {
		a.CreatedBy, a.CreatedTime = old.CreatedBy, old.CreatedTime
	}
	e.SetAudit(&a)
}
