package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/heartmarshall/health-registry/internal/adapter/kafka"
	"github.com/heartmarshall/health-registry/internal/adapter/mdms"
	"github.com/heartmarshall/health-registry/internal/adapter/postgres"
	beneficiaryrepo "github.com/heartmarshall/health-registry/internal/adapter/postgres/beneficiary"
	"github.com/heartmarshall/health-registry/internal/adapter/postgres/idpool"
	individualrepo "github.com/heartmarshall/health-registry/internal/adapter/postgres/individual"
	"github.com/heartmarshall/health-registry/internal/adapter/postgres/sequence"
	"github.com/heartmarshall/health-registry/internal/adapter/redis"
	"github.com/heartmarshall/health-registry/internal/auth"
	"github.com/heartmarshall/health-registry/internal/config"
	"github.com/heartmarshall/health-registry/internal/metrics"
	"github.com/heartmarshall/health-registry/internal/service/beneficiary"
	"github.com/heartmarshall/health-registry/internal/service/dispatch"
	"github.com/heartmarshall/health-registry/internal/service/enrichment"
	"github.com/heartmarshall/health-registry/internal/service/idgen"
	"github.com/heartmarshall/health-registry/internal/service/individual"
	"github.com/heartmarshall/health-registry/internal/transport/rest"
)

// Run starts the HTTP API and blocks until ctx is cancelled, then shuts
// the server down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting health registry",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.Bool("auth", cfg.Auth.Enabled()),
	)

	applied, err := postgres.Migrate(ctx, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	logger.Info("migrations applied", slog.Int("count", applied))

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	rdb, err := redis.NewClient(ctx, redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	producer := kafka.NewProducer(logger, kafka.NewWriter(cfg.Kafka.BrokerList()))
	defer producer.Close()
	reporter := kafka.NewErrorReporter(producer, cfg.Kafka.ErrorTopic)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	idRepo := idpool.New(pool)
	idgenSvc := newIDGen(logger, cfg, pool, producer, m)
	uuids := enrichment.NewService(logger, enrichment.UUIDSupplier{})

	counters := redis.NewCounters(rdb, redis.Limits{
		Total:         cfg.Dispatch.LimitTotal,
		PerDay:        cfg.Dispatch.LimitPerDay,
		PerDayEnabled: cfg.Dispatch.PerDayEnabled,
		PerDayTTL:     cfg.Dispatch.PerDayTTL(),
		TotalTTL:      cfg.Dispatch.TotalTTL(),
		Location:      cfg.Dispatch.Location,
	})
	dispatchSvc := dispatch.NewService(logger, dispatch.Config{
		TotalLimit:              cfg.Dispatch.LimitTotal,
		PerDayLimit:             cfg.Dispatch.LimitPerDay,
		PerDayEnabled:           cfg.Dispatch.PerDayEnabled,
		RestrictToToday:         cfg.Dispatch.RestrictToToday,
		Location:                cfg.Dispatch.Location,
		SaveDispatchLogTopic:    cfg.Dispatch.SaveDispatchLogTopic,
		UpdateIDPoolStatusTopic: cfg.Dispatch.UpdateIDPoolStatusTopic,
	}, idRepo, counters, producer, uuids, reporter, m)

	individualIDs := enrichment.NewService(logger, idgen.NewSupplier(idgenSvc, cfg.IDGen.IndividualIDName))
	individualSvc := individual.NewService(logger, individual.Config{
		BeneficiaryIDValidation: cfg.Individual.BeneficiaryIDValidation,
		SaveTopic:               cfg.Individual.SaveTopic,
		UpdateTopic:             cfg.Individual.UpdateTopic,
		DeleteTopic:             cfg.Individual.DeleteTopic,
	}, individualrepo.New(pool), idRepo, producer, individualIDs, uuids, reporter, m)

	beneficiarySvc := beneficiary.NewService(logger, beneficiary.Config{
		SaveTopic:   cfg.Beneficiary.SaveTopic,
		UpdateTopic: cfg.Beneficiary.UpdateTopic,
		DeleteTopic: cfg.Beneficiary.DeleteTopic,
	}, beneficiaryrepo.New(pool), producer, uuids, reporter, m)

	var tokens tokenValidator
	if cfg.Auth.Enabled() {
		tokens = auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
	}

	limiter := newLimiter()
	defer limiter.Stop()

	handler := newRouter(routerDeps{
		log:      logger,
		cors:     cfg.CORS,
		rate:     cfg.Server.RateLimitPerMinute,
		limiter:  limiter,
		tokens:   tokens,
		metrics:  m,
		registry: reg,
		health: rest.NewHealthHandler(BuildVersion(),
			rest.Dependency{Name: "postgres", Pinger: pool},
			rest.Dependency{Name: "redis", Pinger: rdb},
		),
		api: []routes{
			rest.NewIDGenHandler(logger, idgenSvc, dispatchSvc),
			rest.NewIndividualHandler(logger, individualSvc),
			rest.NewBeneficiaryHandler(logger, beneficiarySvc),
		},
	})

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return serve(ctx, logger, srv, cfg.Server.ShutdownTimeout)
}

// newIDGen wires the format engine; the API and the worker share it.
func newIDGen(logger *slog.Logger, cfg *config.Config, db postgres.Querier, producer *kafka.Producer, m *metrics.Metrics) *idgen.Service {
	client := mdms.NewClient(cfg.MDMS.Host, cfg.MDMS.SearchPath, cfg.MDMS.Timeout, logger)
	return idgen.NewService(logger, idgen.Config{
		FormatFromMDMS:      cfg.IDGen.FormatFromMDMS,
		AutoCreateSeq:       cfg.IDGen.AutoCreateSeq,
		PoolSeqCode:         cfg.IDGen.PoolSeqCode,
		RandomBufferPercent: cfg.IDGen.RandomBufferPercent,
		PoolCreateBatchSize: cfg.IDGen.PoolCreateBatchSize,
		PoolAsyncBatchSize:  cfg.IDGen.PoolAsyncBatchSize,
		PaddingLength:       cfg.IDGen.PaddingLength,
		Location:            cfg.IDGen.Location,
		SaveIDPoolTopic:     cfg.IDGen.SaveIDPoolTopic,
		AsyncCreateTopic:    cfg.IDGen.AsyncCreateTopic,
	}, sequence.New(db), client, producer, m)
}

func serve(ctx context.Context, logger *slog.Logger, srv *http.Server, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
