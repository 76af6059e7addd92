// Package idgen synthesises ids from bracket-token formats and fills the
// dispatchable id pool.
package idgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/heartmarshall/health-registry/internal/domain"
	"github.com/heartmarshall/health-registry/internal/metrics"
	"golang.org/x/sync/errgroup"
)

var (
	tokenPattern       = regexp.MustCompile(`\[(.*?)\]`)
	randomLenPattern   = regexp.MustCompile(`\{(.*?)\}`)
	randomTokenPattern = regexp.MustCompile(`\[d\{\d+\}\]`)
)

const defaultRandomLength = 2

type sequenceRepo interface {
	NextValues(ctx context.Context, name string, n int) ([]int64, error)
	Create(ctx context.Context, name string) error
	IDFormat(ctx context.Context, idName, tenantID string) (string, error)
}

type masterData interface {
	IDFormat(ctx context.Context, info domain.RequestInfo, idName, tenantID string) (string, error)
	City(ctx context.Context, info domain.RequestInfo, tenantID string) (string, error)
}

type producer interface {
	Push(ctx context.Context, topic string, payload any) error
}

// Config holds format engine and pool generation settings.
type Config struct {
	FormatFromMDMS      bool
	AutoCreateSeq       bool
	PoolSeqCode         string
	RandomBufferPercent int
	PoolCreateBatchSize int
	PoolAsyncBatchSize  int
	PaddingLength       int
	Location            *time.Location
	SaveIDPoolTopic     string
	AsyncCreateTopic    string
}

// Service is the id format engine.
type Service struct {
	log      *slog.Logger
	cfg      Config
	seqs     sequenceRepo
	mdms     masterData
	producer producer
	metrics  *metrics.Metrics
	now      func() time.Time
	digit    func() int
}

// NewService creates a new id generation service.
func NewService(log *slog.Logger, cfg Config, seqs sequenceRepo, mdms masterData, producer producer, m *metrics.Metrics) *Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.PaddingLength <= 0 {
		cfg.PaddingLength = 12
	}
	if cfg.PoolCreateBatchSize <= 0 {
		cfg.PoolCreateBatchSize = 1000
	}
	if cfg.PoolAsyncBatchSize <= 0 {
		cfg.PoolAsyncBatchSize = 50000
	}
	return &Service{
		log:      log.With("service", "idgen"),
		cfg:      cfg,
		seqs:     seqs,
		mdms:     mdms,
		producer: producer,
		metrics:  m,
		now:      time.Now,
		digit:    func() int { return rand.IntN(10) },
	}
}

// GenerateIDs resolves every request and returns the ids in request order.
func (s *Service) GenerateIDs(ctx context.Context, info domain.RequestInfo, reqs []domain.IDRequest) ([]string, error) {
	var out []string
	for _, req := range reqs {
		ids, err := s.generate(ctx, info, req)
		if err != nil {
			return nil, err
		}
		out = append(out, ids...)
		s.observe(req.TenantID, "request", len(ids))
	}
	return out, nil
}

func (s *Service) generate(ctx context.Context, info domain.RequestInfo, req domain.IDRequest) ([]string, error) {
	autoCreate := false
	if req.IDName != "" {
		format, err := s.formatFor(ctx, info, req.IDName, req.TenantID)
		if err != nil {
			return nil, err
		}
		if format != "" {
			req.Format = format
			autoCreate = true
		}
	}
	if req.Format == "" {
		return nil, domain.NewCustomError(domain.CodeIDNotFound,
			"No Format is available in the MDMS for the given name and tenant")
	}
	return s.render(ctx, info, req, autoCreate)
}

// formatFor looks the format up in MDMS when configured and falls back to
// the id_generator table. A missing format is "".
func (s *Service) formatFor(ctx context.Context, info domain.RequestInfo, idName, tenantID string) (string, error) {
	if s.cfg.FormatFromMDMS && s.mdms != nil {
		format, err := s.mdms.IDFormat(ctx, info, idName, tenantID)
		if err == nil && format != "" {
			return format, nil
		}
		if err != nil {
			s.log.WarnContext(ctx, "mdms id format lookup failed, using database",
				slog.String("id_name", idName),
				slog.String("error", err.Error()),
			)
		}
	}

	format, err := s.seqs.IDFormat(ctx, idName, tenantID)
	if errors.Is(err, domain.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		s.log.ErrorContext(ctx, "id format lookup", slog.String("id_name", idName), slog.String("error", err.Error()))
		return "", domain.NewCustomError(domain.CodeIDNotFound,
			"No Format is available in the MDMS for the given name and tenant")
	}
	return format, nil
}

func (s *Service) render(ctx context.Context, info domain.RequestInfo, req domain.IDRequest, autoCreate bool) ([]string, error) {
	format := req.Format
	if domain.IsBlank(format) {
		return nil, domain.NewCustomError(domain.CodeIDGenFormatError, "Blank format is not allowed")
	}
	if req.TenantID != "" {
		format = strings.ReplaceAll(format, "[tenantid]", req.TenantID)
		format = strings.ReplaceAll(format, "[tenant_id]", domain.NormalizeTenant(req.TenantID))
		format = strings.ReplaceAll(format, "[TENANT_ID]", strings.ToUpper(domain.NormalizeTenant(req.TenantID)))
	}

	var tokens []string
	for _, m := range tokenPattern.FindAllStringSubmatch(format, -1) {
		tokens = append(tokens, m[1])
	}

	count := 1
	if req.Count != nil {
		count = *req.Count
	}

	now := s.now().In(s.cfg.Location)
	sequences := make(map[string][]string)
	var city *string

	ids := make([]string, 0, max(count, 0))
	for i := 0; i < count; i++ {
		id := format
		for _, tok := range tokens {
			lower := strings.ToLower(tok)
			var value string
			switch {
			case strings.HasPrefix(lower, "seq"):
				seq, ok := sequences[tok]
				if !ok {
					var err error
					if seq, err = s.sequence(ctx, tok, count, autoCreate); err != nil {
						return nil, err
					}
					sequences[tok] = seq
				}
				value = seq[i]
			case strings.HasPrefix(lower, "fy"):
				v, err := financialYear(tok, now)
				if err != nil {
					return nil, err
				}
				value = v
			case strings.HasPrefix(lower, "cy"):
				v, err := currentDate(tok, now)
				if err != nil {
					return nil, err
				}
				value = v
			case strings.HasPrefix(lower, "city"):
				if city == nil {
					c, err := s.city(ctx, info, req.TenantID)
					if err != nil {
						return nil, err
					}
					city = &c
				}
				value = *city
			default:
				v, err := s.randomText(tok)
				if err != nil {
					return nil, err
				}
				value = v
			}
			id = strings.ReplaceAll(id, "["+tok+"]", value)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// sequence pulls n consecutive values from the named sequence. A missing
// sequence is created when both the format came from the registry and
// auto creation is enabled.
func (s *Service) sequence(ctx context.Context, name string, n int, autoCreate bool) ([]string, error) {
	vals, err := s.seqs.NextValues(ctx, name, n)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		if !autoCreate || !s.cfg.AutoCreateSeq {
			return nil, domain.NewCustomError(domain.CodeSeqDoesNotExist, "auto creation of seq is not allowed in DB")
		}
		if err := s.seqs.Create(ctx, name); err != nil {
			s.log.ErrorContext(ctx, "create sequence", slog.String("sequence", name), slog.String("error", err.Error()))
			return nil, domain.NewCustomError(domain.CodeErrorCreatingSeq, "Error occurred while auto creating seq in DB")
		}
		if vals, err = s.seqs.NextValues(ctx, name, n); err != nil {
			return nil, domain.NewCustomError(domain.CodeErrorCreatingSeq, "Error occurred while auto creating seq in DB")
		}
		s.log.InfoContext(ctx, "sequence created", slog.String("sequence", name))
	case err != nil:
		s.log.ErrorContext(ctx, "next sequence values", slog.String("sequence", name), slog.String("error", err.Error()))
		return nil, domain.NewCustomError(domain.CodeSeqNumberError, "Error retrieving seq number from existing seq in DB")
	}
	if len(vals) < n {
		return nil, domain.NewCustomError(domain.CodeSeqNumberError,
			fmt.Sprintf("Sequence %s returned %d of %d values", name, len(vals), n))
	}

	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = fmt.Sprintf("%0*d", s.cfg.PaddingLength, v)
	}
	return out, nil
}

func (s *Service) city(ctx context.Context, info domain.RequestInfo, tenantID string) (string, error) {
	if s.mdms == nil {
		return "", domain.NewCustomError(domain.CodeMDMSError, "City lookup is not configured")
	}
	city, err := s.mdms.City(ctx, info, tenantID)
	if err != nil {
		return "", domain.NewCustomError(domain.CodeMDMSError, fmt.Sprintf("City lookup for %s failed: %v", tenantID, err))
	}
	return city, nil
}

// financialYear renders "[fy:yyyy-yy]" style tokens. The financial year
// starts in April.
func financialYear(tok string, now time.Time) (string, error) {
	pattern := strings.TrimSpace(tok[strings.Index(tok, ":")+1:])
	parts := strings.Split(pattern, "-")

	var pre, post int
	april := now.Month() > time.March
	for i, p := range parts {
		formatted, err := formatDate(strings.TrimSpace(p), now)
		if err != nil {
			return "", invalidFormat("financial year")
		}
		year, err := strconv.Atoi(formatted)
		if err != nil {
			return "", invalidFormat("financial year")
		}
		switch {
		case i == 0 && april:
			pre = year
		case i == 0:
			pre = year - 1
		case april:
			post = year + 1
		default:
			post = year
		}
	}
	return fmt.Sprintf("%d-%d", pre, post), nil
}

func currentDate(tok string, now time.Time) (string, error) {
	pattern := strings.TrimSpace(tok[strings.Index(tok, ":")+1:])
	v, err := formatDate(pattern, now)
	if err != nil {
		return "", invalidFormat("current year")
	}
	return v, nil
}

func invalidFormat(what string) error {
	return domain.NewCustomError(domain.CodeInvalidFormat,
		fmt.Sprintf("Error while generating %s in provided format. Given format invalid.", what))
}

// randomText fills "{N}" random digits (2 when no length is given).
func (s *Service) randomText(tok string) (string, error) {
	if _, err := regexp.Compile(tok); err != nil {
		return "", domain.NewCustomError(domain.CodeInvalidRegex, "Random text could not be generated. Invalid regex provided.")
	}
	length := defaultRandomLength
	if m := randomLenPattern.FindStringSubmatch(tok); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 0 {
			return "", domain.NewCustomError(domain.CodeInvalidRegex, "Random text could not be generated. Invalid regex provided.")
		}
		length = n
	}
	var b strings.Builder
	b.Grow(length)
	for range length {
		b.WriteByte(byte('0' + s.digit()))
	}
	return b.String(), nil
}

// adjustBatchSize inflates the batch by the random buffer when the format
// has a random digit token.
func (s *Service) adjustBatchSize(batch int, format string) int {
	if !randomTokenPattern.MatchString(format) {
		return batch
	}
	return (batch*(100+s.cfg.RandomBufferPercent) + 99) / 100
}

// GenerateIDPool splits each batch into chunks of at most the async batch
// size and queues them for the worker.
func (s *Service) GenerateIDPool(ctx context.Context, info domain.RequestInfo, batches []domain.BatchRequest) ([]domain.PoolCreationResult, error) {
	if len(batches) == 0 {
		return nil, domain.NewCustomError(domain.CodeEmptyRequest, "Batch list is empty.")
	}

	results := make([]domain.PoolCreationResult, 0, len(batches))
	for _, b := range batches {
		for sent := 0; sent < b.BatchSize; {
			chunk := min(s.cfg.PoolAsyncBatchSize, b.BatchSize-sent)
			msg := domain.AsyncPoolRequest{TenantID: b.TenantID, BatchSize: chunk, RequestInfo: info}
			if err := s.producer.Push(ctx, s.cfg.AsyncCreateTopic, msg); err != nil {
				return nil, fmt.Errorf("queue id pool chunk: %w", err)
			}
			sent += chunk
		}
		s.log.InfoContext(ctx, "id pool generation queued",
			slog.String("tenant_id", b.TenantID),
			slog.Int("batch_size", b.BatchSize),
		)
		results = append(results, domain.PoolCreationResult{TenantID: b.TenantID, Message: "ID Generation is chunked and queued"})
	}
	return results, nil
}

// HandleAsyncPoolRequest generates one queued chunk and publishes the new
// UNASSIGNED records for persistence.
func (s *Service) HandleAsyncPoolRequest(ctx context.Context, req domain.AsyncPoolRequest) error {
	if req.BatchSize <= 0 {
		return domain.NewCustomError(domain.CodeInvalidBatchSize, "Batch size must be > 0")
	}
	if s.cfg.PoolSeqCode == "" {
		return errors.New("idgen: id pool sequence code is not configured")
	}

	format, err := s.formatFor(ctx, req.RequestInfo, s.cfg.PoolSeqCode, req.TenantID)
	if err != nil {
		return err
	}
	if format == "" {
		return domain.NewCustomError(domain.CodeIDGenFormatError, "ID format cannot be null or empty")
	}

	size := s.adjustBatchSize(req.BatchSize, format)
	ids, err := s.generate(ctx, req.RequestInfo, domain.IDRequest{
		IDName:   s.cfg.PoolSeqCode,
		TenantID: req.TenantID,
		Count:    &size,
	})
	if err != nil {
		return fmt.Errorf("generate id pool: %w", err)
	}

	if err := s.publishPool(ctx, req, ids); err != nil {
		return err
	}
	s.observe(req.TenantID, "pool", len(ids))
	s.log.InfoContext(ctx, "id pool chunk generated",
		slog.String("tenant_id", req.TenantID),
		slog.Int("requested", req.BatchSize),
		slog.Int("generated", len(ids)),
	)
	return nil
}

func (s *Service) publishPool(ctx context.Context, req domain.AsyncPoolRequest, ids []string) error {
	createdBy := req.RequestInfo.UserUUID()
	createdAt := s.now().UnixMilli()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for start := 0; start < len(ids); start += s.cfg.PoolCreateBatchSize {
		chunk := ids[start:min(start+s.cfg.PoolCreateBatchSize, len(ids))]
		records := make([]*domain.IDRecord, len(chunk))
		for i, id := range chunk {
			records[i] = &domain.IDRecord{
				Base: domain.Base{
					ID:           id,
					TenantID:     req.TenantID,
					RowVersion:   1,
					AuditDetails: &domain.AuditDetails{CreatedBy: createdBy, CreatedTime: createdAt},
				},
				Status: domain.IDStatusUnassigned.String(),
			}
		}
		g.Go(func() error {
			return s.producer.Push(gctx, s.cfg.SaveIDPoolTopic, map[string]any{"idPool": records})
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("publish id pool: %w", err)
	}
	return nil
}

func (s *Service) observe(tenantID, target string, n int) {
	if s.metrics != nil && n > 0 {
		s.metrics.IDsGenerated.WithLabelValues(tenantID, target).Add(float64(n))
	}
}

// Supplier issues entity ids from a registered id format.
type Supplier struct {
	svc    *Service
	idName string
}

// NewSupplier creates a supplier for the format registered as idName.
func NewSupplier(svc *Service, idName string) *Supplier {
	return &Supplier{svc: svc, idName: idName}
}

func (p *Supplier) IDs(ctx context.Context, tenantID string, count int) ([]string, error) {
	ids, err := p.svc.GenerateIDs(ctx, domain.RequestInfo{}, []domain.IDRequest{{
		IDName:   p.idName,
		TenantID: tenantID,
		Count:    &count,
	}})
	if err != nil {
		if _, ok := domain.CodeOf(err); ok {
			return nil, domain.NewCustomError(domain.CodeIDGenError, err.Error())
		}
		return nil, err
	}
	return ids, nil
}
