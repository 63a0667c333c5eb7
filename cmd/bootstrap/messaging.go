package bootstrap

import (
	"context"
	"log/slog"

	"library-lending/internal/infra/messaging"
	"library-lending/internal/pkg/config"
	"library-lending/internal/usecase/shared"

	"go.uber.org/fx"
)

var MessagingModule = fx.Module("messaging",
	fx.Provide(
		NewEventPublisher,
	),
)

type closablePublisher interface {
	shared.EventPublisher
	Close() error
}

// NewEventPublisher falls back to dropping events when no brokers are configured.
func NewEventPublisher(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (shared.EventPublisher, error) {
	var publisher closablePublisher = messaging.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kp, err := messaging.NewKafkaPublisher(cfg.Kafka)
		if err != nil {
			return nil, err
		}
		publisher = kp
		logger.Info("Kafka publisher initialized", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	} else {
		logger.Info("No Kafka brokers configured, lending events are dropped")
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return publisher.Close()
		},
	})

	return publisher, nil
}
