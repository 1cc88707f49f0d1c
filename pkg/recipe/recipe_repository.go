package recipe

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const ingredientBatchSize = 100

type (
	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe, tagIDs []uuid.UUID, items []domain.IngredientAmount) error
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe, tagIDs []uuid.UUID, items []domain.IngredientAmount) error
		DeleteRecipe(ctx context.Context, id uuid.UUID) error
		SetIngredients(ctx context.Context, recipeID uuid.UUID, items []domain.IngredientAmount) error
		GetRecipeByID(ctx context.Context, id uuid.UUID) (*entities.Recipe, error)
		GetRecipeShort(ctx context.Context, id uuid.UUID) (*entities.Recipe, error)
		ListRecipes(ctx context.Context, filter domain.RecipeFilter, actorID *uuid.UUID) ([]*entities.Recipe, int64, error)
		ListRecentByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]*entities.Recipe, error)
		CountByAuthor(ctx context.Context, authorIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe, tagIDs []uuid.UUID, items []domain.IngredientAmount) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Author", "Tags", "Ingredients").Create(recipe).Error; err != nil {
			if errors.Is(err, gorm.ErrForeignKeyViolated) {
				return domain.ErrUserNotFound
			}
			return errors.Wrap(err, "create recipe")
		}
		if err := replaceTags(tx, recipe.ID, tagIDs); err != nil {
			return err
		}
		return replaceIngredients(tx, recipe.ID, items)
	})
}

// UpdateRecipe rewrites the recipe's own columns and replaces its tags and
// ingredient set. The author never changes.
func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe, tagIDs []uuid.UUID, items []domain.IngredientAmount) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entities.Recipe{}).
			Where("id = ?", recipe.ID).
			Updates(map[string]interface{}{
				"name":         recipe.Name,
				"text":         recipe.Text,
				"image":        recipe.Image,
				"cooking_time": recipe.CookingTime,
				"updated_at":   time.Now().UTC(),
			})
		if res.Error != nil {
			return errors.Wrap(res.Error, "update recipe")
		}
		if res.RowsAffected == 0 {
			return domain.ErrRecipeNotFound
		}
		if err := replaceTags(tx, recipe.ID, tagIDs); err != nil {
			return err
		}
		return replaceIngredients(tx, recipe.ID, items)
	})
}

// SetIngredients replaces the full ingredient set of a recipe in one
// transaction. Either every row of the new set is stored or nothing changes.
func (r *recipeRepository) SetIngredients(ctx context.Context, recipeID uuid.UUID, items []domain.IngredientAmount) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entities.Recipe{}).Where("id = ?", recipeID).Count(&count).Error; err != nil {
			return errors.Wrap(err, "check recipe")
		}
		if count == 0 {
			return domain.ErrRecipeNotFound
		}
		return replaceIngredients(tx, recipeID, items)
	})
}

func replaceIngredients(tx *gorm.DB, recipeID uuid.UUID, items []domain.IngredientAmount) error {
	seen := make(map[uuid.UUID]struct{}, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if err := domain.ValidateAmount(item.Amount); err != nil {
			return err
		}
		if _, dup := seen[item.ID]; dup {
			return domain.ErrDuplicateIngredient
		}
		seen[item.ID] = struct{}{}
		ids = append(ids, item.ID)
	}

	if len(ids) > 0 {
		var count int64
		if err := tx.Model(&entities.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
			return errors.Wrap(err, "check ingredients")
		}
		if count != int64(len(ids)) {
			return domain.ErrIngredientNotFound
		}
	}

	if err := tx.Where("recipe_id = ?", recipeID).Delete(&entities.RecipeIngredient{}).Error; err != nil {
		return errors.Wrap(err, "clear recipe ingredients")
	}
	if len(items) == 0 {
		return nil
	}

	rows := make([]entities.RecipeIngredient, len(items))
	for i, item := range items {
		rows[i] = entities.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: item.ID,
			Amount:       item.Amount,
		}
	}
	if err := tx.CreateInBatches(rows, ingredientBatchSize).Error; err != nil {
		return errors.Wrap(err, "insert recipe ingredients")
	}
	return nil
}

func replaceTags(tx *gorm.DB, recipeID uuid.UUID, tagIDs []uuid.UUID) error {
	seen := make(map[uuid.UUID]struct{}, len(tagIDs))
	rows := make([]entities.RecipeTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		rows = append(rows, entities.RecipeTag{RecipeID: recipeID, TagID: id})
	}

	if len(rows) > 0 {
		ids := make([]uuid.UUID, len(rows))
		for i := range rows {
			ids[i] = rows[i].TagID
		}
		var count int64
		if err := tx.Model(&entities.Tag{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
			return errors.Wrap(err, "check tags")
		}
		if count != int64(len(ids)) {
			return domain.ErrTagNotFound
		}
	}

	if err := tx.Where("recipe_id = ?", recipeID).Delete(&entities.RecipeTag{}).Error; err != nil {
		return errors.Wrap(err, "clear recipe tags")
	}
	if len(rows) == 0 {
		return nil
	}
	if err := tx.Create(&rows).Error; err != nil {
		return errors.Wrap(err, "insert recipe tags")
	}
	return nil
}

func (r *recipeRepository) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entities.Recipe{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return errors.Wrap(err, "check recipe")
		}
		if count == 0 {
			return domain.ErrRecipeNotFound
		}
		return DeleteRecipesCascade(tx, []uuid.UUID{id})
	})
}

// DeleteRecipesCascade removes recipes together with every row that refers to
// them. It must be called inside a transaction.
func DeleteRecipesCascade(tx *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	dependents := []struct {
		name  string
		model interface{}
	}{
		{"recipe ingredients", &entities.RecipeIngredient{}},
		{"recipe tags", &entities.RecipeTag{}},
		{"shopping cart entries", &entities.ShoppingCart{}},
		{"favorites", &entities.Favorite{}},
	}
	for _, d := range dependents {
		if err := tx.Where("recipe_id IN ?", ids).Delete(d.model).Error; err != nil {
			return errors.Wrapf(err, "delete %s", d.name)
		}
	}
	if err := tx.Where("id IN ?", ids).Delete(&entities.Recipe{}).Error; err != nil {
		return errors.Wrap(err, "delete recipes")
	}
	return nil
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id uuid.UUID) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.withDetails(r.db.WithContext(ctx)).
		Where("id = ?", id).
		First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, errors.Wrap(err, "get recipe")
	}
	return &recipe, nil
}

func (r *recipeRepository) GetRecipeShort(ctx context.Context, id uuid.UUID) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).
		Select("id", "author_id", "name", "image", "cooking_time").
		Where("id = ?", id).
		First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, errors.Wrap(err, "get recipe")
	}
	return &recipe, nil
}

func (r *recipeRepository) withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name") }).
		Preload("Ingredients.Ingredient")
}

// filterQuery selects the recipes matching filter. Favorite and cart filters
// only apply to an authenticated actor.
func filterQuery(columns string, filter domain.RecipeFilter, actorID *uuid.UUID) sq.SelectBuilder {
	q := sq.Select(columns).From("recipes r")

	if filter.AuthorID != nil {
		q = q.Where(sq.Eq{"r.author_id": *filter.AuthorID})
	}
	if len(filter.Tags) > 0 {
		tagged := sq.Select("rt.recipe_id").
			From("recipe_tags rt").
			Join("tags t ON t.id = rt.tag_id").
			Where(sq.Eq{"t.slug": filter.Tags})
		q = q.Where(sq.Expr("r.id IN (?)", tagged))
	}
	if actorID != nil {
		if filter.IsFavorited {
			q = q.Where(sq.Expr("r.id IN (?)",
				sq.Select("f.recipe_id").From("favorites f").Where(sq.Eq{"f.user_id": *actorID})))
		}
		if filter.IsInShoppingCart {
			q = q.Where(sq.Expr("r.id IN (?)",
				sq.Select("sc.recipe_id").From("shopping_carts sc").Where(sq.Eq{"sc.user_id": *actorID})))
		}
	}
	return q
}

func (r *recipeRepository) ListRecipes(ctx context.Context, filter domain.RecipeFilter, actorID *uuid.UUID) ([]*entities.Recipe, int64, error) {
	page, limit := domain.Pagination(filter.Page, filter.Limit)

	countSQL, countArgs, err := filterQuery("COUNT(*)", filter, actorID).ToSql()
	if err != nil {
		return nil, 0, errors.Wrap(err, "build recipe count query")
	}
	var count int64
	if err := r.db.WithContext(ctx).Raw(countSQL, countArgs...).Scan(&count).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count recipes")
	}
	if count == 0 {
		return []*entities.Recipe{}, 0, nil
	}

	idSQL, idArgs, err := filterQuery("r.id", filter, actorID).
		OrderBy("r.pub_date DESC", "r.id").
		Limit(uint64(limit)).
		Offset(uint64((page - 1) * limit)).
		ToSql()
	if err != nil {
		return nil, 0, errors.Wrap(err, "build recipe list query")
	}
	var idRows []struct {
		ID uuid.UUID
	}
	if err := r.db.WithContext(ctx).Raw(idSQL, idArgs...).Scan(&idRows).Error; err != nil {
		return nil, 0, errors.Wrap(err, "list recipe ids")
	}
	if len(idRows) == 0 {
		return []*entities.Recipe{}, count, nil
	}

	ids := make([]uuid.UUID, len(idRows))
	for i := range idRows {
		ids[i] = idRows[i].ID
	}
	var recipes []*entities.Recipe
	if err := r.withDetails(r.db.WithContext(ctx)).
		Where("id IN ?", ids).
		Find(&recipes).Error; err != nil {
		return nil, 0, errors.Wrap(err, "load recipes")
	}

	byID := make(map[uuid.UUID]*entities.Recipe, len(recipes))
	for _, recipe := range recipes {
		byID[recipe.ID] = recipe
	}
	ordered := make([]*entities.Recipe, 0, len(ids))
	for _, id := range ids {
		if recipe, ok := byID[id]; ok {
			ordered = append(ordered, recipe)
		}
	}
	return ordered, count, nil
}

func (r *recipeRepository) ListRecentByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	q := r.db.WithContext(ctx).
		Select("id", "name", "image", "cooking_time").
		Where("author_id = ?", authorID).
		Order("pub_date desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&recipes).Error; err != nil {
		return nil, errors.Wrap(err, "list author recipes")
	}
	return recipes, nil
}

func (r *recipeRepository) CountByAuthor(ctx context.Context, authorIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	result := make(map[uuid.UUID]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return result, nil
	}
	var rows []struct {
		AuthorID uuid.UUID
		Total    int64
	}
	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "count author recipes")
	}
	for _, row := range rows {
		result[row.AuthorID] = row.Total
	}
	return result, nil
}
