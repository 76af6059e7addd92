package app

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/health-registry/internal/adapter/kafka"
	"github.com/heartmarshall/health-registry/internal/adapter/postgres"
	beneficiaryrepo "github.com/heartmarshall/health-registry/internal/adapter/postgres/beneficiary"
	"github.com/heartmarshall/health-registry/internal/adapter/postgres/idpool"
	individualrepo "github.com/heartmarshall/health-registry/internal/adapter/postgres/individual"
	"github.com/heartmarshall/health-registry/internal/config"
	"github.com/heartmarshall/health-registry/internal/worker"
)

// RunWorker consumes the persistence topics until ctx is cancelled or a
// consumer fails.
func RunWorker(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting persister", slog.String("version", BuildVersion()))

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	brokers := cfg.Kafka.BrokerList()
	producer := kafka.NewProducer(logger, kafka.NewWriter(brokers))
	defer producer.Close()

	handlers := worker.NewHandlers(logger,
		postgres.NewTxManager(pool),
		idpool.New(pool),
		individualrepo.New(pool),
		beneficiaryrepo.New(pool),
		newIDGen(logger, cfg, pool, producer, nil),
	)

	dlq := kafka.NewDeadLetter(producer, cfg.Kafka.ErrorTopic)
	routes := handlers.Routes(topics(cfg))
	runners := make([]worker.Runner, 0, len(routes))
	for topic, h := range routes {
		r := kafka.NewReader(brokers, cfg.Kafka.GroupID, topic)
		runners = append(runners, kafka.NewConsumer(logger, r, topic, kafka.Handler(h),
			kafka.WithRetry(cfg.Kafka.RetryAttempts, cfg.Kafka.RetryBackoff),
			kafka.WithDeadLetter(dlq),
		))
	}
	logger.Info("consuming topics", slog.Int("count", len(runners)))

	return worker.Run(ctx, runners)
}

func topics(cfg *config.Config) worker.Topics {
	return worker.Topics{
		SaveIDPool:         cfg.IDGen.SaveIDPoolTopic,
		UpdateIDPoolStatus: cfg.Dispatch.UpdateIDPoolStatusTopic,
		SaveDispatchLog:    cfg.Dispatch.SaveDispatchLogTopic,
		AsyncCreateIDPool:  cfg.IDGen.AsyncCreateTopic,
		SaveIndividual:     cfg.Individual.SaveTopic,
		UpdateIndividual:   cfg.Individual.UpdateTopic,
		DeleteIndividual:   cfg.Individual.DeleteTopic,
		SaveBeneficiary:    cfg.Beneficiary.SaveTopic,
		UpdateBeneficiary:  cfg.Beneficiary.UpdateTopic,
		DeleteBeneficiary:  cfg.Beneficiary.DeleteTopic,
	}
}
