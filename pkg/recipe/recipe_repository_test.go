package recipe

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/testutil"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ledger(t *testing.T, repo RecipeRepository, id uuid.UUID) map[uuid.UUID]int {
	t.Helper()
	recipe, err := repo.GetRecipeByID(context.Background(), id)
	require.NoError(t, err)
	amounts := map[uuid.UUID]int{}
	for _, ri := range recipe.Ingredients {
		amounts[ri.IngredientID] = ri.Amount
	}
	return amounts
}

func TestSetIngredientsReplacesWholeSet(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.NewFixtures(t, db)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	salt := f.Ingredient("Salt", "g")
	flour := f.Ingredient("Flour", "g")
	milk := f.Ingredient("Milk", "ml")
	recipe := f.Recipe(f.User(), map[*entities.Ingredient]int{salt: 5})

	require.NoError(t, repo.SetIngredients(ctx, recipe.ID, []domain.IngredientAmount{
		{ID: salt.ID, Amount: 3},
		{ID: flour.ID, Amount: 200},
	}))
	require.NoError(t, repo.SetIngredients(ctx, recipe.ID, []domain.IngredientAmount{
		{ID: milk.ID, Amount: 250},
	}))

	assert.Equal(t, map[uuid.UUID]int{milk.ID: 250}, ledger(t, repo, recipe.ID))
}

func TestSetIngredientsAmountBounds(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.NewFixtures(t, db)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	salt := f.Ingredient("Salt", "g")
	recipe := f.Recipe(f.User(), map[*entities.Ingredient]int{salt: 7})

	cases := []struct {
		amount int
		err    error
	}{
		{0, domain.ErrInvalidAmount},
		{1, nil},
		{32000, nil},
		{32001, domain.ErrInvalidAmount},
		{-4, domain.ErrInvalidAmount},
	}
	for _, tc := range cases {
		err := repo.SetIngredients(ctx, recipe.ID, []domain.IngredientAmount{{ID: salt.ID, Amount: tc.amount}})
		if tc.err != nil {
			assert.ErrorIs(t, err, tc.err, "amount %d", tc.amount)
			continue
		}
		require.NoError(t, err, "amount %d", tc.amount)
		assert.Equal(t, tc.amount, ledger(t, repo, recipe.ID)[salt.ID])
	}
}

func TestSetIngredientsRejectsWithoutPartialWrite(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.NewFixtures(t, db)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	salt := f.Ingredient("Salt", "g")
	flour := f.Ingredient("Flour", "g")
	recipe := f.Recipe(f.User(), map[*entities.Ingredient]int{salt: 7})

	err := repo.SetIngredients(ctx, recipe.ID, []domain.IngredientAmount{
		{ID: flour.ID, Amount: 100},
		{ID: flour.ID, Amount: 50},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateIngredient)

	err = repo.SetIngredients(ctx, recipe.ID, []domain.IngredientAmount{
		{ID: flour.ID, Amount: 100},
		{ID: uuid.New(), Amount: 50},
	})
	assert.ErrorIs(t, err, domain.ErrIngredientNotFound)

	err = repo.SetIngredients(ctx, uuid.New(), []domain.IngredientAmount{{ID: flour.ID, Amount: 1}})
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)

	assert.Equal(t, map[uuid.UUID]int{salt.ID: 7}, ledger(t, repo, recipe.ID))
}

func TestCreateAndUpdateRecipe(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.NewFixtures(t, db)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	author := f.User()
	breakfast := f.Tag("breakfast")
	dinner := f.Tag("dinner")
	egg := f.Ingredient("Egg", "pcs")
	bacon := f.Ingredient("Bacon", "g")

	recipe := &entities.Recipe{AuthorID: author.ID, Name: "Eggs", Text: "Fry.", CookingTime: 5}
	require.NoError(t, repo.CreateRecipe(ctx, recipe,
		[]uuid.UUID{breakfast.ID, breakfast.ID},
		[]domain.IngredientAmount{{ID: egg.ID, Amount: 2}}))

	got, err := repo.GetRecipeByID(ctx, recipe.ID)
	require.NoError(t, err)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "breakfast", got.Tags[0].Slug)
	require.NotNil(t, got.Author)
	assert.Equal(t, author.ID, got.Author.ID)
	assert.False(t, got.PubDate.IsZero())

	recipe.Name = "Eggs and bacon"
	require.NoError(t, repo.UpdateRecipe(ctx, recipe,
		[]uuid.UUID{dinner.ID},
		[]domain.IngredientAmount{{ID: egg.ID, Amount: 3}, {ID: bacon.ID, Amount: 100}}))

	got, err = repo.GetRecipeByID(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Eggs and bacon", got.Name)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "dinner", got.Tags[0].Slug)
	assert.Equal(t, map[uuid.UUID]int{egg.ID: 3, bacon.ID: 100}, ledger(t, repo, recipe.ID))

	err = repo.UpdateRecipe(ctx, recipe, []uuid.UUID{uuid.New()}, nil)
	assert.ErrorIs(t, err, domain.ErrTagNotFound)
	got, err = repo.GetRecipeByID(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "dinner", got.Tags[0].Slug, "failed update leaves tags untouched")
}

func TestDeleteRecipeCascades(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.NewFixtures(t, db)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	salt := f.Ingredient("Salt", "g")
	reader := f.User()
	recipe := f.Recipe(f.User(), map[*entities.Ingredient]int{salt: 5})
	f.AddToCart(reader, recipe)
	require.NoError(t, db.Create(&entities.Favorite{UserID: reader.ID, RecipeID: recipe.ID}).Error)

	require.NoError(t, repo.DeleteRecipe(ctx, recipe.ID))

	for _, model := range []interface{}{
		&entities.RecipeIngredient{}, &entities.ShoppingCart{}, &entities.Favorite{},
	} {
		var count int64
		require.NoError(t, db.Model(model).Where("recipe_id = ?", recipe.ID).Count(&count).Error)
		assert.Zero(t, count)
	}

	_, err := repo.GetRecipeByID(ctx, recipe.ID)
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
	assert.ErrorIs(t, repo.DeleteRecipe(ctx, recipe.ID), domain.ErrRecipeNotFound)
}

func TestListRecipesFilters(t *testing.T) {
	db := testutil.NewTestDB(t)
	f := testutil.NewFixtures(t, db)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	alice := f.User()
	bob := f.User()
	lunch := f.Tag("lunch")

	tagged := f.Recipe(alice, nil)
	require.NoError(t, db.Create(&entities.RecipeTag{RecipeID: tagged.ID, TagID: lunch.ID}).Error)
	byBob := f.Recipe(bob, nil)
	f.AddToCart(alice, byBob)

	all, total, err := repo.ListRecipes(ctx, domain.RecipeFilter{}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	got, total, err := repo.ListRecipes(ctx, domain.RecipeFilter{Tags: []string{"lunch"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, tagged.ID, got[0].ID)

	got, _, err = repo.ListRecipes(ctx, domain.RecipeFilter{AuthorID: &bob.ID}, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, byBob.ID, got[0].ID)

	got, _, err = repo.ListRecipes(ctx, domain.RecipeFilter{IsInShoppingCart: true}, &alice.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, byBob.ID, got[0].ID)

	got, total, err = repo.ListRecipes(ctx, domain.RecipeFilter{IsFavorited: true}, &alice.ID)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, got)

	counts, err := repo.CountByAuthor(ctx, []uuid.UUID{alice.ID, bob.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[alice.ID])
	assert.Equal(t, int64(1), counts[bob.ID])
}
