package main

import (
	"Foodgram-Backend/cmd/config"
	migration "Foodgram-Backend/cmd/database/migrate"
	"Foodgram-Backend/internal/utils"
	"flag"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the yaml config file")
	flag.Parse()

	fx.New(
		fx.Provide(
			func() (*utils.Config, error) {
				return utils.LoadConfig(*configPath)
			},
			utils.NewLogger,
			config.ConnectDB,
			config.NewApp,
		),
		fx.Invoke(func(db *gorm.DB, log *zap.SugaredLogger) error {
			if err := migration.Migrate(db); err != nil {
				return err
			}
			log.Info("database migrated")
			return nil
		}),
		fx.Invoke(config.RegisterServer),
	).Run()
}
