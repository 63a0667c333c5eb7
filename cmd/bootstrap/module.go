package bootstrap

import (
	"library-lending/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	TelemetryModule,
	StorageModule,
	MessagingModule,
	JWTModule,
	components.UseCaseModule,
	components.HandlerModule,
)
