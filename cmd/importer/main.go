package main

import (
	"Foodgram-Backend/cmd/config"
	migration "Foodgram-Backend/cmd/database/migrate"
	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/pkg/ingredient"
	"os"
)

func main() {
	root := newRootCommand(func(configPath string) (ingredient.IngredientService, error) {
		cfg, err := utils.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		log, err := utils.NewLogger(cfg)
		if err != nil {
			return nil, err
		}
		db, err := config.ConnectDB(cfg, log)
		if err != nil {
			return nil, err
		}
		if err := migration.Migrate(db); err != nil {
			return nil, err
		}
		return ingredient.NewIngredientService(ingredient.NewIngredientRepository(db), log)
	})
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
