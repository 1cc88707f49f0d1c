package ingredient

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	IngredientRepository interface {
		GetIngredientByID(ctx context.Context, id uuid.UUID) (*entities.Ingredient, error)
		SearchIngredients(ctx context.Context, prefix string) ([]*entities.Ingredient, error)
		UpsertIngredients(ctx context.Context, ingredients []entities.Ingredient) (int64, error)
		GetTagByID(ctx context.Context, id uuid.UUID) (*entities.Tag, error)
		GetTags(ctx context.Context) ([]*entities.Tag, error)
		UpsertTags(ctx context.Context, tags []entities.Tag) (int64, error)
	}

	ingredientRepository struct {
		db *gorm.DB
	}
)

const importBatchSize = 500

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) GetIngredientByID(ctx context.Context, id uuid.UUID) (*entities.Ingredient, error) {
	var ingredient entities.Ingredient
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ingredient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrIngredientNotFound
		}
		return nil, errors.Wrap(err, "get ingredient")
	}
	return &ingredient, nil
}

// SearchIngredients matches names starting with prefix, ignoring case.
func (r *ingredientRepository) SearchIngredients(ctx context.Context, prefix string) ([]*entities.Ingredient, error) {
	var ingredients []*entities.Ingredient
	q := r.db.WithContext(ctx).Order("name").Order("measurement_unit")
	if prefix != "" {
		escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(prefix))
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, escaped+"%")
	}
	if err := q.Find(&ingredients).Error; err != nil {
		return nil, errors.Wrap(err, "search ingredients")
	}
	return ingredients, nil
}

// UpsertIngredients inserts the ingredients that do not exist yet and
// returns how many were new.
func (r *ingredientRepository) UpsertIngredients(ctx context.Context, ingredients []entities.Ingredient) (int64, error) {
	if len(ingredients) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&ingredients, importBatchSize)
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "import ingredients")
	}
	return res.RowsAffected, nil
}

func (r *ingredientRepository) GetTagByID(ctx context.Context, id uuid.UUID) (*entities.Tag, error) {
	var tag entities.Tag
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTagNotFound
		}
		return nil, errors.Wrap(err, "get tag")
	}
	return &tag, nil
}

func (r *ingredientRepository) GetTags(ctx context.Context) ([]*entities.Tag, error) {
	var tags []*entities.Tag
	if err := r.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		return nil, errors.Wrap(err, "list tags")
	}
	return tags, nil
}

func (r *ingredientRepository) UpsertTags(ctx context.Context, tags []entities.Tag) (int64, error) {
	if len(tags) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&tags, importBatchSize)
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "import tags")
	}
	return res.RowsAffected, nil
}
