// Package dispatch hands pre-generated ids to field devices under per user
// and device quotas, and applies administrative status updates to the pool.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/health-registry/internal/domain"
	"github.com/heartmarshall/health-registry/internal/metrics"
	"github.com/heartmarshall/health-registry/internal/service/enrichment"
	"github.com/heartmarshall/health-registry/internal/validation"
)

type idRepo interface {
	FetchUnassigned(ctx context.Context, tenantID, userUUID string, count int) ([]*domain.IDRecord, error)
	FindByIDsAndStatus(ctx context.Context, ids []string, status, tenantID string) ([]*domain.IDRecord, error)
	SelectTransactionLogs(ctx context.Context, q domain.TransactionLogQuery) ([]domain.IDTransactionLog, int64, error)
}

type counters interface {
	GetRemaining(ctx context.Context, key domain.CounterKey, count int64, validate, allowToday bool) (int64, error)
	UpdateCount(ctx context.Context, key domain.CounterKey, delta int64, increment, isToday bool) (int64, error)
}

type producer interface {
	Push(ctx context.Context, topic string, payload any) error
}

type enricher interface {
	StatusForUpdate(info domain.RequestInfo, records []*domain.IDRecord, status domain.IDStatus)
	Update(info domain.RequestInfo, entities []domain.Entity, stored map[string]domain.Entity)
}

// Config holds dispatch quotas and topics.
type Config struct {
	TotalLimit              int64
	PerDayLimit             int64
	PerDayEnabled           bool
	RestrictToToday         bool
	Location                *time.Location
	SaveDispatchLogTopic    string
	UpdateIDPoolStatusTopic string
}

// Service implements id dispatch, pool search and pool status updates.
type Service struct {
	log        *slog.Logger
	cfg        Config
	repo       idRepo
	counters   counters
	producer   producer
	enricher   enricher
	reporter   validation.ErrorReporter
	validators []validation.Validator[*domain.IDRecord]
	metrics    *metrics.Metrics
	now        func() time.Time
}

// NewService creates a new dispatch service.
func NewService(
	log *slog.Logger,
	cfg Config,
	repo idRepo,
	counters counters,
	producer producer,
	enricher enricher,
	reporter validation.ErrorReporter,
	m *metrics.Metrics,
) *Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Service{
		log:        log.With("service", "dispatch"),
		cfg:        cfg,
		repo:       repo,
		counters:   counters,
		producer:   producer,
		enricher:   enricher,
		reporter:   reporter,
		validators: []validation.Validator[*domain.IDRecord]{NewIDPoolUpdate(repo)},
		metrics:    m,
		now:        time.Now,
	}
}

// totalLimit is the limit reported to devices. With a daily quota enabled
// devices see the daily limit.
func (s *Service) totalLimit() int64 {
	if s.cfg.PerDayEnabled {
		return s.cfg.PerDayLimit
	}
	return s.cfg.TotalLimit
}

// DispatchIDs hands out new ids to the calling user and device, or returns
// the ids already handed out when fetchAllocatedIds is set.
func (s *Service) DispatchIDs(ctx context.Context, req domain.DispatchRequest, limit, offset int) (*domain.DispatchResponse, error) {
	userUUID := req.RequestInfo.UserUUID()
	if userUUID == "" {
		return nil, domain.NewCustomError(domain.CodeValidationException, "Missing User Uuid")
	}
	client := req.ClientInfo
	key := domain.CounterKey{TenantID: client.TenantID, UserID: userUUID, DeviceID: client.DeviceUUID}

	s.log.DebugContext(ctx, "dispatch request",
		slog.String("tenant_id", client.TenantID),
		slog.String("user_uuid", userUUID),
		slog.String("device_uuid", client.DeviceUUID),
		slog.Int("count", client.Count),
	)

	if client.FetchAllocatedIDs != nil && *client.FetchAllocatedIDs {
		return s.fetchAllocated(ctx, key, limit, offset)
	}

	resp, err := s.dispatchNew(ctx, req, key)
	if err != nil {
		s.observeRejection(client.TenantID, err)
		return nil, err
	}
	return resp, nil
}

func (s *Service) dispatchNew(ctx context.Context, req domain.DispatchRequest, key domain.CounterKey) (*domain.DispatchResponse, error) {
	client := req.ClientInfo
	count := int64(client.Count)

	remaining, err := s.counters.GetRemaining(ctx, key, count, true, true)
	if err != nil {
		return nil, err
	}
	fetchCount := min(remaining, count)

	records, err := s.repo.FetchUnassigned(ctx, key.TenantID, key.UserID, int(fetchCount))
	if err != nil {
		return nil, fmt.Errorf("fetch unassigned ids: %w", err)
	}
	if len(records) == 0 {
		s.log.ErrorContext(ctx, "no ids available", slog.String("tenant_id", key.TenantID))
		return nil, domain.NewCustomError(domain.CodeNoIDsAvailable, "Unable to fetch IDs from the database")
	}

	s.enricher.StatusForUpdate(req.RequestInfo, records, domain.IDStatusDispatched)

	logs := s.transactionLogs(records, key.UserID, key.DeviceID, client.DeviceInfo, key.TenantID, domain.IDStatusDispatched.String())
	if err := s.producer.Push(ctx, s.cfg.SaveDispatchLogTopic, map[string]any{"idTransactionLog": logs}); err != nil {
		s.log.ErrorContext(ctx, "push dispatch logs",
			slog.String("topic", s.cfg.SaveDispatchLogTopic),
			slog.String("error", err.Error()),
		)
	}

	if _, err := s.counters.UpdateCount(ctx, key, int64(len(records)), true, true); err != nil {
		return nil, fmt.Errorf("update dispatch counters: %w", err)
	}

	for _, r := range records {
		r.NormalizeAdditionalFields()
	}
	if s.metrics != nil {
		s.metrics.IDsDispatched.WithLabelValues(key.TenantID).Add(float64(len(records)))
	}

	s.log.InfoContext(ctx, "ids dispatched",
		slog.String("tenant_id", key.TenantID),
		slog.Int("count", len(records)),
	)
	return &domain.DispatchResponse{
		IDResponses: records,
		FetchLimit:  remaining - int64(len(records)),
		TotalLimit:  s.totalLimit(),
	}, nil
}

func (s *Service) fetchAllocated(ctx context.Context, key domain.CounterKey, limit, offset int) (*domain.DispatchResponse, error) {
	restrict := s.cfg.RestrictToToday

	remaining, err := s.counters.GetRemaining(ctx, key, 0, false, restrict)
	if err != nil {
		return nil, err
	}

	q := domain.TransactionLogQuery{
		TenantID:   key.TenantID,
		UserUUID:   key.UserID,
		DeviceUUID: key.DeviceID,
		Limit:      limit,
		Offset:     offset,
	}
	if restrict {
		q.SinceMillis = s.startOfToday().UnixMilli()
	}
	logs, totalCount, err := s.repo.SelectTransactionLogs(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("select dispatch logs: %w", err)
	}

	ids := make([]string, 0, len(logs))
	for _, l := range logs {
		ids = append(ids, l.ID)
	}
	if len(ids) == 0 {
		return nil, domain.NewCustomError(domain.CodeNoIDsDispatched,
			"NO IDS Dispatched: No IDs found for the given user and device.")
	}

	records, err := s.repo.FindByIDsAndStatus(ctx, ids, "", key.TenantID)
	if err != nil {
		return nil, fmt.Errorf("find dispatched ids: %w", err)
	}
	for _, r := range records {
		r.NormalizeAdditionalFields()
	}

	totalLimit := s.totalLimit()
	if remaining != totalLimit-totalCount {
		if _, err := s.counters.UpdateCount(ctx, key, totalCount, false, restrict); err != nil {
			return nil, fmt.Errorf("reconcile dispatch counters: %w", err)
		}
		s.log.InfoContext(ctx, "dispatch counters reconciled",
			slog.String("tenant_id", key.TenantID),
			slog.Int64("counter_remaining", remaining),
			slog.Int64("log_count", totalCount),
		)
		if s.metrics != nil {
			s.metrics.CounterReconciles.WithLabelValues(key.TenantID).Inc()
		}
	}
	if s.metrics != nil {
		s.metrics.AllocatedIDsFetched.WithLabelValues(key.TenantID).Add(float64(len(records)))
	}

	return &domain.DispatchResponse{
		IDResponses: records,
		FetchLimit:  totalCount - int64(offset+len(records)),
		TotalLimit:  totalLimit,
		TotalCount:  &totalCount,
	}, nil
}

// SearchIDs returns pooled ids matching the search.
func (s *Service) SearchIDs(ctx context.Context, search domain.IDPoolSearch) (*domain.DispatchResponse, error) {
	records, err := s.repo.FindByIDsAndStatus(ctx, search.IDList, search.Status, search.TenantID)
	if err != nil {
		return nil, fmt.Errorf("search ids: %w", err)
	}
	s.log.DebugContext(ctx, "searched ids",
		slog.String("tenant_id", search.TenantID),
		slog.Int("found", len(records)),
	)
	for _, r := range records {
		r.NormalizeAdditionalFields()
	}
	return &domain.DispatchResponse{IDResponses: records}, nil
}

// Update applies client-submitted status changes to pooled ids. In bulk
// mode invalid records are reported and the rest are applied.
func (s *Service) Update(ctx context.Context, req domain.BulkRequest[*domain.IDRecord], isBulk bool) ([]*domain.IDRecord, error) {
	valid, details, err := validation.Validate(ctx, s.validators, validation.For[*domain.IDRecord](validation.OpUpdate), req, isBulk)
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "id pool update validated",
		slog.Int("valid", len(valid)),
		slog.Int("invalid", len(details)),
	)

	if len(valid) > 0 {
		if err := s.applyUpdate(ctx, req.RequestInfo, valid); err != nil {
			s.log.ErrorContext(ctx, "id pool update", slog.String("error", err.Error()))
			validation.PopulateErrorDetails(req.RequestInfo, details, valid, err)
		}
	}

	if err := validation.HandleErrors(ctx, s.reporter, details, req.Entities, isBulk, domain.CodeValidationError); err != nil {
		return nil, err
	}

	out := make([]*domain.IDRecord, 0, len(valid))
	for _, r := range valid {
		if !r.HasErrors {
			out = append(out, r)
		}
	}
	if s.metrics != nil {
		s.metrics.ObservePipeline("id_record", validation.OpUpdate.String(), len(out), len(req.Entities)-len(out))
	}
	return out, nil
}

func (s *Service) applyUpdate(ctx context.Context, info domain.RequestInfo, valid []*domain.IDRecord) error {
	tenantID := valid[0].TenantID

	stored, err := s.repo.FindByIDsAndStatus(ctx, domain.IDs(valid), "", tenantID)
	if err != nil {
		return fmt.Errorf("load stored ids: %w", err)
	}
	byID := make(map[string]domain.Entity, len(stored))
	for _, r := range stored {
		byID[r.ID] = r
	}
	s.enricher.Update(info, domain.Entities(valid), byID)

	if err := s.producer.Push(ctx, s.cfg.UpdateIDPoolStatusTopic, map[string]any{"idPool": valid}); err != nil {
		return err
	}

	logs := s.transactionLogs(valid, enrichment.UserUUID(info), domain.DeviceSystemUpdated, "", tenantID, "")
	return s.producer.Push(ctx, s.cfg.SaveDispatchLogTopic, map[string]any{"idTransactionLog": logs})
}

// transactionLogs builds one log per record. An empty status falls back to
// the record's own status.
func (s *Service) transactionLogs(records []*domain.IDRecord, userUUID, deviceUUID string, deviceInfo any, tenantID, status string) []domain.IDTransactionLog {
	now := s.now().UnixMilli()
	logs := make([]domain.IDTransactionLog, 0, len(records))
	for _, r := range records {
		st := status
		if st == "" {
			st = r.Status
		}
		logs = append(logs, domain.IDTransactionLog{
			TenantID:     tenantID,
			ID:           r.ID,
			UserUUID:     userUUID,
			DeviceUUID:   deviceUUID,
			DeviceInfo:   deviceInfo,
			Status:       st,
			RowVersion:   1,
			AuditDetails: &domain.AuditDetails{CreatedBy: userUUID, CreatedTime: now},
		})
	}
	return logs
}

func (s *Service) startOfToday() time.Time {
	now := s.now().In(s.cfg.Location)
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.cfg.Location)
}

func (s *Service) observeRejection(tenantID string, err error) {
	if s.metrics == nil {
		return
	}
	if code, ok := domain.CodeOf(err); ok {
		s.metrics.DispatchRejections.WithLabelValues(tenantID, code).Inc()
	}
}
