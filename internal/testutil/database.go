// Package testutil provides an isolated in-memory database for repository
// and handler tests.
package testutil

import (
	migration "Foodgram-Backend/cmd/database/migrate"
	"Foodgram-Backend/entities"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a fresh migrated SQLite database with foreign keys on.
// A single connection is used, so code under test must run every statement
// of a transaction through the transaction handle.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migration.Migrate(db))
	return db
}

func NewLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// Fixtures creates rows directly through gorm for tests.
type Fixtures struct {
	t  *testing.T
	db *gorm.DB
	n  int
}

func NewFixtures(t *testing.T, db *gorm.DB) *Fixtures {
	return &Fixtures{t: t, db: db}
}

func (f *Fixtures) next() int {
	f.n++
	return f.n
}

func (f *Fixtures) User() *entities.User {
	f.t.Helper()
	n := f.next()
	u := &entities.User{
		Email:     fmt.Sprintf("user%d@example.com", n),
		Username:  fmt.Sprintf("user%d", n),
		FirstName: "Test",
		LastName:  fmt.Sprintf("User%d", n),
		Password:  "x",
	}
	require.NoError(f.t, f.db.Create(u).Error)
	return u
}

func (f *Fixtures) Tag(slug string) *entities.Tag {
	f.t.Helper()
	tag := &entities.Tag{Name: slug, Color: "#E26C2D", Slug: slug}
	require.NoError(f.t, f.db.Create(tag).Error)
	return tag
}

func (f *Fixtures) Ingredient(name, unit string) *entities.Ingredient {
	f.t.Helper()
	ing := &entities.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(f.t, f.db.Create(ing).Error)
	return ing
}

// Recipe creates a recipe by author holding amounts of each ingredient.
func (f *Fixtures) Recipe(author *entities.User, amounts map[*entities.Ingredient]int) *entities.Recipe {
	f.t.Helper()
	recipe := &entities.Recipe{
		AuthorID:    author.ID,
		Name:        fmt.Sprintf("Recipe %d", f.next()),
		Text:        "Mix everything.",
		CookingTime: 10,
	}
	require.NoError(f.t, f.db.Create(recipe).Error)
	for ing, amount := range amounts {
		require.NoError(f.t, f.db.Create(&entities.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: ing.ID,
			Amount:       amount,
		}).Error)
	}
	return recipe
}

func (f *Fixtures) AddToCart(user *entities.User, recipe *entities.Recipe) {
	f.t.Helper()
	require.NoError(f.t, f.db.Create(&entities.ShoppingCart{UserID: user.ID, RecipeID: recipe.ID}).Error)
}
