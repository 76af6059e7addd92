// Package beneficiary enrols beneficiaries into projects through the bulk
// pipeline.
package beneficiary

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/health-registry/internal/domain"
	"github.com/heartmarshall/health-registry/internal/metrics"
	"github.com/heartmarshall/health-registry/internal/validation"
)

type beneficiaryRepo interface {
	FindByIDs(ctx context.Context, tenantID string, ids []string, includeDeleted bool) ([]*domain.ProjectBeneficiary, error)
	FindByTags(ctx context.Context, tenantID string, tags []string) ([]*domain.ProjectBeneficiary, error)
}

type producer interface {
	Push(ctx context.Context, topic string, payload any) error
}

type enricher interface {
	Create(ctx context.Context, info domain.RequestInfo, entities []domain.Entity) error
	Update(info domain.RequestInfo, entities []domain.Entity, stored map[string]domain.Entity)
	Delete(info domain.RequestInfo, entities []domain.Entity)
}

// Config holds the project beneficiary topics.
type Config struct {
	SaveTopic   string
	UpdateTopic string
	DeleteTopic string
}

// Service implements create, update and delete of project beneficiaries.
type Service struct {
	log        *slog.Logger
	cfg        Config
	repo       beneficiaryRepo
	producer   producer
	enricher   enricher
	reporter   validation.ErrorReporter
	validators []validation.Validator[*domain.ProjectBeneficiary]
	metrics    *metrics.Metrics
}

// NewService creates a new project beneficiary service.
func NewService(
	log *slog.Logger,
	cfg Config,
	repo beneficiaryRepo,
	producer producer,
	enricher enricher,
	reporter validation.ErrorReporter,
	m *metrics.Metrics,
) *Service {
	validators := append(validation.Standard[*domain.ProjectBeneficiary](repo), NewVoucherTagUnique(repo))
	return &Service{
		log:        log.With("service", "beneficiary"),
		cfg:        cfg,
		repo:       repo,
		producer:   producer,
		enricher:   enricher,
		reporter:   reporter,
		validators: validators,
		metrics:    m,
	}
}

// Create enrols new project beneficiaries.
func (s *Service) Create(ctx context.Context, req domain.BulkRequest[*domain.ProjectBeneficiary], isBulk bool) ([]*domain.ProjectBeneficiary, error) {
	return s.run(ctx, req, isBulk, validation.OpCreate, func(ctx context.Context, info domain.RequestInfo, valid []*domain.ProjectBeneficiary) error {
		if err := s.enricher.Create(ctx, info, domain.Entities(valid)); err != nil {
			return err
		}
		return s.producer.Push(ctx, s.cfg.SaveTopic, map[string]any{"projectBeneficiaries": valid})
	})
}

// Update saves changes to enrolled beneficiaries, typically a new voucher tag.
func (s *Service) Update(ctx context.Context, req domain.BulkRequest[*domain.ProjectBeneficiary], isBulk bool) ([]*domain.ProjectBeneficiary, error) {
	return s.run(ctx, req, isBulk, validation.OpUpdate, func(ctx context.Context, info domain.RequestInfo, valid []*domain.ProjectBeneficiary) error {
		stored, err := validation.Load[*domain.ProjectBeneficiary](ctx, s.repo, valid)
		if err != nil {
			return fmt.Errorf("load stored beneficiaries: %w", err)
		}
		byID := make(map[string]domain.Entity, len(stored))
		for id, b := range stored {
			byID[id] = b
		}
		s.enricher.Update(info, domain.Entities(valid), byID)
		return s.producer.Push(ctx, s.cfg.UpdateTopic, map[string]any{"projectBeneficiaries": valid})
	})
}

// Delete soft-deletes project beneficiaries.
func (s *Service) Delete(ctx context.Context, req domain.BulkRequest[*domain.ProjectBeneficiary], isBulk bool) ([]*domain.ProjectBeneficiary, error) {
	return s.run(ctx, req, isBulk, validation.OpDelete, func(ctx context.Context, info domain.RequestInfo, valid []*domain.ProjectBeneficiary) error {
		s.enricher.Delete(info, domain.Entities(valid))
		return s.producer.Push(ctx, s.cfg.DeleteTopic, map[string]any{"projectBeneficiaries": valid})
	})
}

func (s *Service) run(
	ctx context.Context,
	req domain.BulkRequest[*domain.ProjectBeneficiary],
	isBulk bool,
	op validation.Operation,
	apply func(ctx context.Context, info domain.RequestInfo, valid []*domain.ProjectBeneficiary) error,
) ([]*domain.ProjectBeneficiary, error) {
	ctx = validation.WithLookups(ctx)
	valid, details, err := validation.Validate(ctx, s.validators, validation.For[*domain.ProjectBeneficiary](op), req, isBulk)
	if err != nil {
		return nil, err
	}

	if len(valid) > 0 {
		if err := apply(ctx, req.RequestInfo, valid); err != nil {
			s.log.ErrorContext(ctx, "project beneficiary "+op.String(), slog.String("error", err.Error()))
			validation.PopulateErrorDetails(req.RequestInfo, details, valid, err)
		}
	}

	if err := validation.HandleErrors(ctx, s.reporter, details, req.Entities, isBulk, domain.CodeValidationError); err != nil {
		return nil, err
	}

	out := make([]*domain.ProjectBeneficiary, 0, len(valid))
	for _, b := range valid {
		if !b.HasErrors {
			out = append(out, b)
		}
	}
	s.log.InfoContext(ctx, "project beneficiaries processed",
		slog.String("operation", op.String()),
		slog.Int("accepted", len(out)),
		slog.Int("rejected", len(req.Entities)-len(out)),
	)
	s.metrics.ObservePipeline("project_beneficiary", op.String(), len(out), len(req.Entities)-len(out))
	return out, nil
}
