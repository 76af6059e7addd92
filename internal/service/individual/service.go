// Package individual registers people and their addresses, identifiers and
// skills through the bulk pipeline.
package individual

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/health-registry/internal/domain"
	"github.com/heartmarshall/health-registry/internal/metrics"
	"github.com/heartmarshall/health-registry/internal/validation"
)

type individualRepo interface {
	FindByIDs(ctx context.Context, tenantID string, ids []string, includeDeleted bool) ([]*domain.Individual, error)
	Search(ctx context.Context, s domain.IndividualSearch) ([]*domain.Individual, error)
}

type idPool interface {
	FindByIDsAndStatus(ctx context.Context, ids []string, status, tenantID string) ([]*domain.IDRecord, error)
}

type producer interface {
	Push(ctx context.Context, topic string, payload any) error
}

type enricher interface {
	Create(ctx context.Context, info domain.RequestInfo, entities []domain.Entity) error
	Update(info domain.RequestInfo, entities []domain.Entity, stored map[string]domain.Entity)
	Delete(info domain.RequestInfo, entities []domain.Entity)
}

// Config holds the individual topics and feature switches.
type Config struct {
	BeneficiaryIDValidation bool
	SaveTopic               string
	UpdateTopic             string
	DeleteTopic             string
}

// Service implements create, update, delete and search of individuals.
// Individual ids are issued through ids, sub-entity ids through subs.
type Service struct {
	log        *slog.Logger
	cfg        Config
	repo       individualRepo
	producer   producer
	ids        enricher
	subs       enricher
	reporter   validation.ErrorReporter
	validators []validation.Validator[*domain.Individual]
	metrics    *metrics.Metrics
}

// NewService creates a new individual service.
func NewService(
	log *slog.Logger,
	cfg Config,
	repo individualRepo,
	pool idPool,
	producer producer,
	ids enricher,
	subs enricher,
	reporter validation.ErrorReporter,
	m *metrics.Metrics,
) *Service {
	validators := validation.Standard[*domain.Individual](repo)
	if cfg.BeneficiaryIDValidation {
		validators = append(validators, NewBeneficiaryID(pool))
	}
	return &Service{
		log:        log.With("service", "individual"),
		cfg:        cfg,
		repo:       repo,
		producer:   producer,
		ids:        ids,
		subs:       subs,
		reporter:   reporter,
		validators: validators,
		metrics:    m,
	}
}

// Create registers new individuals. In bulk mode invalid individuals are
// reported and the rest are saved.
func (s *Service) Create(ctx context.Context, req domain.BulkRequest[*domain.Individual], isBulk bool) ([]*domain.Individual, error) {
	return s.run(ctx, req, isBulk, validation.OpCreate, s.applyCreate)
}

// Update saves changes to existing individuals.
func (s *Service) Update(ctx context.Context, req domain.BulkRequest[*domain.Individual], isBulk bool) ([]*domain.Individual, error) {
	return s.run(ctx, req, isBulk, validation.OpUpdate, s.applyUpdate)
}

// Delete soft-deletes individuals together with their sub-entities.
func (s *Service) Delete(ctx context.Context, req domain.BulkRequest[*domain.Individual], isBulk bool) ([]*domain.Individual, error) {
	return s.run(ctx, req, isBulk, validation.OpDelete, s.applyDelete)
}

type applyFunc func(ctx context.Context, info domain.RequestInfo, valid []*domain.Individual) error

func (s *Service) run(
	ctx context.Context,
	req domain.BulkRequest[*domain.Individual],
	isBulk bool,
	op validation.Operation,
	apply applyFunc,
) ([]*domain.Individual, error) {
	ctx = validation.WithLookups(ctx)
	valid, details, err := validation.Validate(ctx, s.validators, validation.For[*domain.Individual](op), req, isBulk)
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "individuals validated",
		slog.String("operation", op.String()),
		slog.Int("valid", len(valid)),
		slog.Int("invalid", len(details)),
	)

	if len(valid) > 0 {
		if err := apply(ctx, req.RequestInfo, valid); err != nil {
			s.log.ErrorContext(ctx, "individual "+op.String(), slog.String("error", err.Error()))
			validation.PopulateErrorDetails(req.RequestInfo, details, valid, err)
		}
	}

	if err := validation.HandleErrors(ctx, s.reporter, details, req.Entities, isBulk, domain.CodeValidationError); err != nil {
		return nil, err
	}

	out := make([]*domain.Individual, 0, len(valid))
	for _, ind := range valid {
		if !ind.HasErrors {
			out = append(out, ind)
		}
	}
	if s.metrics != nil {
		s.metrics.ObservePipeline("individual", op.String(), len(out), len(req.Entities)-len(out))
	}
	return out, nil
}

func (s *Service) applyCreate(ctx context.Context, info domain.RequestInfo, valid []*domain.Individual) error {
	if err := s.ids.Create(ctx, info, domain.Entities(valid)); err != nil {
		return err
	}

	var subs []domain.Entity
	for _, ind := range valid {
		if len(ind.Identifiers) == 0 {
			ind.Identifiers = []*domain.Identifier{{
				IdentifierType: domain.IdentifierSystemGenerated,
				IdentifierID:   ind.ID,
			}}
		}
		for _, sub := range ind.Owned() {
			setTenant(sub, ind.TenantID)
			subs = append(subs, sub)
		}
	}
	if err := s.subs.Create(ctx, info, subs); err != nil {
		return err
	}
	for _, ind := range valid {
		ind.LinkSubEntities()
	}

	return s.producer.Push(ctx, s.cfg.SaveTopic, map[string]any{"individuals": valid})
}

func (s *Service) applyUpdate(ctx context.Context, info domain.RequestInfo, valid []*domain.Individual) error {
	stored, err := validation.Load[*domain.Individual](ctx, s.repo, valid)
	if err != nil {
		return fmt.Errorf("load stored individuals: %w", err)
	}
	byID := make(map[string]domain.Entity, len(stored))
	storedSubs := make(map[string]domain.Entity)
	for _, ind := range stored {
		byID[ind.ID] = ind
		for _, sub := range ind.Owned() {
			storedSubs[sub.Identity()] = sub
		}
	}

	// Sub-entities without an id are new.
	var added, changed []domain.Entity
	for _, ind := range valid {
		for _, sub := range ind.Owned() {
			if sub.Identity() == "" {
				setTenant(sub, ind.TenantID)
				added = append(added, sub)
			} else {
				changed = append(changed, sub)
			}
		}
	}
	if err := s.subs.Create(ctx, info, added); err != nil {
		return err
	}
	s.subs.Update(info, changed, storedSubs)
	s.ids.Update(info, domain.Entities(valid), byID)
	for _, ind := range valid {
		ind.LinkSubEntities()
	}

	return s.producer.Push(ctx, s.cfg.UpdateTopic, map[string]any{"individuals": valid})
}

func (s *Service) applyDelete(ctx context.Context, info domain.RequestInfo, valid []*domain.Individual) error {
	for _, ind := range valid {
		ind.LinkSubEntities()
	}
	s.ids.Delete(info, domain.Entities(valid))
	return s.producer.Push(ctx, s.cfg.DeleteTopic, map[string]any{"individuals": valid})
}

// Search returns individuals matching the search.
func (s *Service) Search(ctx context.Context, search domain.IndividualSearch) ([]*domain.Individual, error) {
	found, err := s.repo.Search(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("search individuals: %w", err)
	}
	for _, ind := range found {
		ind.NormalizeAdditionalFields()
	}
	return found, nil
}

// setTenant fills in a missing tenant on a sub-entity from its owner.
func setTenant(e domain.Entity, tenantID string) {
	if t, ok := e.(interface{ SetTenant(string) }); ok && e.Tenant() == "" {
		t.SetTenant(tenantID)
	}
}
