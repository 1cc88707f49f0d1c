package config

import (
	"Foodgram-Backend/internal/utils"
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// RegisterServer ties the fiber app to the fx lifecycle.
func RegisterServer(lc fx.Lifecycle, app *fiber.App, cfg *utils.Config, log *zap.SugaredLogger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				listen := cfg.ListenAddr()
				log.Infow("starting HTTP server", "addr", listen)
				if err := app.Listen(listen); err != nil {
					log.Fatalw("shutting down the server", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Stopping HTTP server.")
			return app.ShutdownWithContext(ctx)
		},
	})
}
