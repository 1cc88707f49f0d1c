package migration

import (
	"Foodgram-Backend/entities"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Migrate creates the schema. Tables are migrated parents first so foreign
// keys always reference an existing table.
func Migrate(db *gorm.DB) error {
	models := []struct {
		name  string
		model interface{}
	}{
		{"user", &entities.User{}},
		{"tag", &entities.Tag{}},
		{"ingredient", &entities.Ingredient{}},
		{"recipe", &entities.Recipe{}},
		{"recipe ingredient", &entities.RecipeIngredient{}},
		{"shopping cart", &entities.ShoppingCart{}},
		{"favorite", &entities.Favorite{}},
		{"author subscription", &entities.AuthorSubscription{}},
	}

	for _, m := range models {
		if err := db.AutoMigrate(m.model); err != nil {
			return errors.Wrapf(err, "migrate %s table", m.name)
		}
	}
	return nil
}
