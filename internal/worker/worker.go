// Package worker applies the payloads published by the API services to
// Postgres. Each topic has one handler; all consumers run until the first
// fails or the context ends.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/health-registry/internal/domain"
)

type idPoolStore interface {
	InsertRecords(ctx context.Context, records []*domain.IDRecord) (int64, error)
	UpdateStatuses(ctx context.Context, records []*domain.IDRecord) (int64, error)
	InsertTransactionLogs(ctx context.Context, logs []domain.IDTransactionLog) error
}

type individualStore interface {
	Upsert(ctx context.Context, individuals []*domain.Individual) error
}

type beneficiaryStore interface {
	Upsert(ctx context.Context, items []*domain.ProjectBeneficiary) error
}

type poolGenerator interface {
	HandleAsyncPoolRequest(ctx context.Context, req domain.AsyncPoolRequest) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Topics names the topics the worker consumes.
type Topics struct {
	SaveIDPool         string
	UpdateIDPoolStatus string
	SaveDispatchLog    string
	AsyncCreateIDPool  string
	SaveIndividual     string
	UpdateIndividual   string
	DeleteIndividual   string
	SaveBeneficiary    string
	UpdateBeneficiary  string
	DeleteBeneficiary  string
}

// Handler processes one message value.
type Handler func(ctx context.Context, value []byte) error

// Handlers decodes topic payloads and writes them through the stores.
type Handlers struct {
	log           *slog.Logger
	tx            txManager
	idPool        idPoolStore
	individuals   individualStore
	beneficiaries beneficiaryStore
	generator     poolGenerator
}

// NewHandlers creates the topic handlers.
func NewHandlers(
	log *slog.Logger,
	tx txManager,
	idPool idPoolStore,
	individuals individualStore,
	beneficiaries beneficiaryStore,
	generator poolGenerator,
) *Handlers {
	return &Handlers{
		log:           log.With("component", "worker"),
		tx:            tx,
		idPool:        idPool,
		individuals:   individuals,
		beneficiaries: beneficiaries,
		generator:     generator,
	}
}

// Routes maps every configured topic to its handler. Topics left empty are
// not consumed.
func (h *Handlers) Routes(t Topics) map[string]Handler {
	all := map[string]Handler{
		t.SaveIDPool:         h.SaveIDPool,
		t.UpdateIDPoolStatus: h.UpdateIDPoolStatus,
		t.SaveDispatchLog:    h.SaveDispatchLog,
		t.AsyncCreateIDPool:  h.AsyncCreateIDPool,
		t.SaveIndividual:     h.UpsertIndividuals,
		t.UpdateIndividual:   h.UpsertIndividuals,
		t.DeleteIndividual:   h.UpsertIndividuals,
		t.SaveBeneficiary:    h.UpsertBeneficiaries,
		t.UpdateBeneficiary:  h.UpsertBeneficiaries,
		t.DeleteBeneficiary:  h.UpsertBeneficiaries,
	}
	delete(all, "")
	return all
}

// SaveIDPool inserts freshly generated ids. Ids already in the pool are skipped.
func (h *Handlers) SaveIDPool(ctx context.Context, value []byte) error {
	var msg struct {
		IDPool []*domain.IDRecord `json:"idPool"`
	}
	if err := decode(value, &msg); err != nil {
		return err
	}
	var inserted int64
	err := h.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		inserted, err = h.idPool.InsertRecords(ctx, msg.IDPool)
		return err
	})
	if err != nil {
		return fmt.Errorf("save id pool: %w", err)
	}
	h.log.InfoContext(ctx, "id pool saved",
		slog.Int("received", len(msg.IDPool)),
		slog.Int64("inserted", inserted),
	)
	return nil
}

// UpdateIDPoolStatus writes status changes of pooled ids.
func (h *Handlers) UpdateIDPoolStatus(ctx context.Context, value []byte) error {
	var msg struct {
		IDPool []*domain.IDRecord `json:"idPool"`
	}
	if err := decode(value, &msg); err != nil {
		return err
	}
	var updated int64
	err := h.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		updated, err = h.idPool.UpdateStatuses(ctx, msg.IDPool)
		return err
	})
	if err != nil {
		return fmt.Errorf("update id pool status: %w", err)
	}
	if updated < int64(len(msg.IDPool)) {
		h.log.WarnContext(ctx, "id pool status update missed rows",
			slog.Int("received", len(msg.IDPool)),
			slog.Int64("updated", updated),
		)
	}
	return nil
}

// SaveDispatchLog appends dispatch transaction logs.
func (h *Handlers) SaveDispatchLog(ctx context.Context, value []byte) error {
	var msg struct {
		Logs []domain.IDTransactionLog `json:"idTransactionLog"`
	}
	if err := decode(value, &msg); err != nil {
		return err
	}
	return h.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := h.idPool.InsertTransactionLogs(ctx, msg.Logs); err != nil {
			return fmt.Errorf("save dispatch log: %w", err)
		}
		return nil
	})
}

// AsyncCreateIDPool generates one chunk of a pool creation request.
func (h *Handlers) AsyncCreateIDPool(ctx context.Context, value []byte) error {
	var req domain.AsyncPoolRequest
	if err := decode(value, &req); err != nil {
		return err
	}
	if err := h.generator.HandleAsyncPoolRequest(ctx, req); err != nil {
		return fmt.Errorf("async id pool for %s: %w", req.TenantID, err)
	}
	return nil
}

// UpsertIndividuals persists created, updated and deleted individuals.
func (h *Handlers) UpsertIndividuals(ctx context.Context, value []byte) error {
	var msg struct {
		Individuals []*domain.Individual `json:"individuals"`
	}
	if err := decode(value, &msg); err != nil {
		return err
	}
	return h.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := h.individuals.Upsert(ctx, msg.Individuals); err != nil {
			return fmt.Errorf("upsert individuals: %w", err)
		}
		return nil
	})
}

// UpsertBeneficiaries persists created, updated and deleted project beneficiaries.
func (h *Handlers) UpsertBeneficiaries(ctx context.Context, value []byte) error {
	var msg struct {
		Items []*domain.ProjectBeneficiary `json:"projectBeneficiaries"`
	}
	if err := decode(value, &msg); err != nil {
		return err
	}
	return h.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := h.beneficiaries.Upsert(ctx, msg.Items); err != nil {
			return fmt.Errorf("upsert project beneficiaries: %w", err)
		}
		return nil
	})
}

func decode(value []byte, v any) error {
	if err := json.Unmarshal(value, v); err != nil {
		return fmt.Errorf("decode message: %w", err)
	}
	return nil
}

// Runner is a long-running consumer.
type Runner interface {
	Run(ctx context.Context) error
}

// Run starts every runner and waits. The first failure cancels the rest.
func Run(ctx context.Context, runners []Runner) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, r := range runners {
		g.Go(func() error { return r.Run(ctx) })
	}
	return g.Wait()
}
