package bootstrap

import (
	"context"

	"library-lending/internal/infra/observability"
	"library-lending/internal/pkg/config"
	"library-lending/internal/usecase/shared"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
)

var TelemetryModule = fx.Module("telemetry",
	fx.Provide(
		NewMeterProvider,
		NewMetricsCollector,
		func(c *observability.MetricsCollector) shared.MetricsCollector { return c },
	),
)

func NewMeterProvider(lc fx.Lifecycle, cfg config.Config) (*sdkmetric.MeterProvider, error) {
	provider, err := observability.NewMeterProvider(context.Background(), cfg.Telemetry.ServiceName)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return provider.Shutdown(ctx)
		},
	})

	return provider, nil
}

func NewMetricsCollector(provider *sdkmetric.MeterProvider, cfg config.Config) *observability.MetricsCollector {
	return observability.NewMetricsCollector(provider.Meter(cfg.Telemetry.ServiceName))
}
