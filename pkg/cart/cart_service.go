package cart

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/internal/metrics"
	"Foodgram-Backend/pkg/recipe"
	"Foodgram-Backend/pkg/relation"
	"Foodgram-Backend/pkg/report"
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const shoppingListFilename = "shopping_cart"

type (
	CartService interface {
		AddToCart(ctx context.Context, actor domain.Actor, recipeID uuid.UUID) (domain.RecipeShort, bool, error)
		RemoveFromCart(ctx context.Context, actor domain.Actor, recipeID uuid.UUID) error
		DownloadShoppingList(ctx context.Context, actor domain.Actor, format string) (domain.Document, error)
	}

	cartService struct {
		relationRepository relation.RelationRepository
		recipeRepository   recipe.RecipeRepository
		aggregator         *Aggregator
		rowsPerPage        int
		logger             *zap.SugaredLogger
	}
)

func NewCartService(
	relationRepository relation.RelationRepository,
	recipeRepository recipe.RecipeRepository,
	aggregator *Aggregator,
	rowsPerPage int,
	logger *zap.SugaredLogger,
) CartService {
	return &cartService{
		relationRepository: relationRepository,
		recipeRepository:   recipeRepository,
		aggregator:         aggregator,
		rowsPerPage:        rowsPerPage,
		logger:             logger,
	}
}

// AddToCart puts the recipe in the actor's cart. Adding a recipe that is
// already there succeeds with created false.
func (s *cartService) AddToCart(ctx context.Context, actor domain.Actor, recipeID uuid.UUID) (domain.RecipeShort, bool, error) {
	userID, err := actor.RequireUser()
	if err != nil {
		return domain.RecipeShort{}, false, err
	}
	created, err := s.relationRepository.AddRelation(ctx, domain.RelationCart, userID, recipeID)
	if err != nil {
		return domain.RecipeShort{}, false, err
	}
	r, err := s.recipeRepository.GetRecipeShort(ctx, recipeID)
	if err != nil {
		return domain.RecipeShort{}, false, err
	}
	if created {
		s.logger.Infow("recipe added to cart", "recipe_id", recipeID, "user_id", userID)
	}
	return r.ToShort(), created, nil
}

func (s *cartService) RemoveFromCart(ctx context.Context, actor domain.Actor, recipeID uuid.UUID) error {
	userID, err := actor.RequireUser()
	if err != nil {
		return err
	}
	if _, err := s.relationRepository.RemoveRelation(ctx, domain.RelationCart, userID, recipeID); err != nil {
		return err
	}
	s.logger.Infow("recipe removed from cart", "recipe_id", recipeID, "user_id", userID)
	return nil
}

func (s *cartService) DownloadShoppingList(ctx context.Context, actor domain.Actor, format string) (domain.Document, error) {
	userID, err := actor.RequireUser()
	if err != nil {
		return domain.Document{}, err
	}
	renderer, err := report.ForFormat(format, s.rowsPerPage)
	if err != nil {
		return domain.Document{}, err
	}

	lines, err := s.aggregator.BuildAggregate(ctx, userID)
	if err != nil {
		s.logger.Errorw("failed to build shopping list", "user_id", userID, "error", err)
		return domain.Document{}, err
	}

	start := time.Now()
	body, err := renderer.Render(domain.ShoppingListTitle, lines)
	if err != nil {
		s.logger.Errorw("failed to render shopping list", "user_id", userID, "error", err)
		return domain.Document{}, err
	}
	metrics.RecordRender(renderer.Extension(), time.Since(start))

	return domain.Document{
		Filename:    shoppingListFilename + renderer.Extension(),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}
