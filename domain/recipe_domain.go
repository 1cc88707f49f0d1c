package domain

import (
	"time"

	"github.com/google/uuid"
)

var (
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessCreateRecipe    = "recipe created successfully"
	MessageSuccessUpdateRecipe    = "recipe updated successfully"
	MessageSuccessDeleteRecipe    = "recipe deleted successfully"
	MessageSuccessAddFavorite     = "recipe added to favorites"
	MessageSuccessRemoveFavorite  = "recipe removed from favorites"
	MessageSuccessGetTags         = "success get tags"
	MessageSuccessGetIngredients  = "success get ingredients"

	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedCreateRecipe    = "failed to create recipe"
	MessageFailedUpdateRecipe    = "failed to update recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"
	MessageFailedAddFavorite     = "failed to add recipe to favorites"
	MessageFailedRemoveFavorite  = "failed to remove recipe from favorites"
	MessageFailedGetTags         = "failed to get tags"
	MessageFailedGetIngredients  = "failed to get ingredients"
)

const (
	MinAmount      = 1
	MaxAmount      = 32000
	MinCookingTime = 1
	MaxCookingTime = 32000
)

// ValidateAmount enforces the ledger bounds on an ingredient quantity.
func ValidateAmount(amount int) error {
	if amount < MinAmount || amount > MaxAmount {
		return ErrInvalidAmount
	}
	return nil
}

func ValidateCookingTime(minutes int) error {
	if minutes < MinCookingTime || minutes > MaxCookingTime {
		return ErrInvalidRange
	}
	return nil
}

type (
	// IngredientAmount is one ledger entry as supplied by a caller.
	IngredientAmount struct {
		ID     uuid.UUID `json:"id" validate:"required"`
		Amount int       `json:"amount" validate:"required,min=1,max=32000"`
	}

	RecipeRequest struct {
		Name        string             `json:"name" validate:"required,max=200"`
		Text        string             `json:"text" validate:"required"`
		CookingTime int                `json:"cooking_time" validate:"required,min=1,max=32000"`
		Image       string             `json:"image"`
		Tags        []uuid.UUID        `json:"tags" validate:"required,min=1"`
		Ingredients []IngredientAmount `json:"ingredients" validate:"required,min=1,dive"`
	}

	RecipeFilter struct {
		Page             int
		Limit            int
		Tags             []string
		AuthorID         *uuid.UUID
		IsFavorited      bool
		IsInShoppingCart bool
	}

	TagResponse struct {
		ID    uuid.UUID `json:"id"`
		Name  string    `json:"name"`
		Color string    `json:"color"`
		Slug  string    `json:"slug"`
	}

	IngredientResponse struct {
		ID              uuid.UUID `json:"id"`
		Name            string    `json:"name"`
		MeasurementUnit string    `json:"measurement_unit"`
	}

	RecipeIngredientResponse struct {
		ID              uuid.UUID `json:"id"`
		Name            string    `json:"name"`
		MeasurementUnit string    `json:"measurement_unit"`
		Amount          int       `json:"amount"`
	}

	RecipeResponse struct {
		ID               uuid.UUID                  `json:"id"`
		Tags             []TagResponse              `json:"tags"`
		Author           UserResponse               `json:"author"`
		Ingredients      []RecipeIngredientResponse `json:"ingredients"`
		IsFavorited      bool                       `json:"is_favorited"`
		IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
		Name             string                     `json:"name"`
		Image            string                     `json:"image"`
		Text             string                     `json:"text"`
		CookingTime      int                        `json:"cooking_time"`
		PubDate          time.Time                  `json:"pub_date"`
	}

	// RecipeShort is the compact recipe summary returned by cart, favorite
	// and subscription endpoints.
	RecipeShort struct {
		ID          uuid.UUID `json:"id"`
		Name        string    `json:"name"`
		Image       string    `json:"image"`
		CookingTime int       `json:"cooking_time"`
	}

	RecipeListResponse struct {
		Recipes []RecipeResponse `json:"recipes"`
		Total   int64            `json:"total"`
	}
)
