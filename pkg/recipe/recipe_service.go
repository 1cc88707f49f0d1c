package recipe

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/utils/storage"
	"Foodgram-Backend/pkg/relation"
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const imageFolder = "recipes"

type (
	RecipeService interface {
		CreateRecipe(ctx context.Context, actor domain.Actor, req domain.RecipeRequest) (domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, actor domain.Actor, id uuid.UUID, req domain.RecipeRequest) (domain.RecipeResponse, error)
		DeleteRecipe(ctx context.Context, actor domain.Actor, id uuid.UUID) error
		GetRecipe(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.RecipeResponse, error)
		ListRecipes(ctx context.Context, actor domain.Actor, filter domain.RecipeFilter) ([]domain.RecipeResponse, int64, error)
		AddFavorite(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.RecipeShort, bool, error)
		RemoveFavorite(ctx context.Context, actor domain.Actor, id uuid.UUID) error
	}

	recipeService struct {
		recipeRepository   RecipeRepository
		relationRepository relation.RelationRepository
		storage            storage.FileStorage
		logger             *zap.SugaredLogger
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	relationRepository relation.RelationRepository,
	fileStorage storage.FileStorage,
	logger *zap.SugaredLogger,
) RecipeService {
	return &recipeService{
		recipeRepository:   recipeRepository,
		relationRepository: relationRepository,
		storage:            fileStorage,
		logger:             logger,
	}
}

func validateRecipe(req domain.RecipeRequest) error {
	if err := domain.ValidateCookingTime(req.CookingTime); err != nil {
		return err
	}
	for _, item := range req.Ingredients {
		if err := domain.ValidateAmount(item.Amount); err != nil {
			return err
		}
	}
	return nil
}

// storeImage uploads a data URI image and returns its public link.
func (s *recipeService) storeImage(ctx context.Context, recipeID uuid.UUID, dataURI string) (string, error) {
	contentType, ext, body, err := storage.DecodeDataURI(dataURI)
	if err != nil {
		return "", err
	}
	key, err := s.storage.UploadFile(ctx, recipeID.String()+"-"+uuid.NewString()[:8]+ext, body, contentType, imageFolder)
	if err != nil {
		return "", err
	}
	return s.storage.GetPublicLinkKey(key), nil
}

func (s *recipeService) dropImage(ctx context.Context, link string) {
	if link == "" {
		return
	}
	if key := s.storage.GetObjectKeyFromLink(link); key != "" {
		if err := s.storage.DeleteFile(ctx, key); err != nil {
			s.logger.Warnw("failed to delete recipe image", "image", link, "error", err)
		}
	}
}

func (s *recipeService) CreateRecipe(ctx context.Context, actor domain.Actor, req domain.RecipeRequest) (domain.RecipeResponse, error) {
	userID, err := actor.RequireUser()
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	if err := validateRecipe(req); err != nil {
		return domain.RecipeResponse{}, err
	}
	if req.Image == "" {
		return domain.RecipeResponse{}, domain.ErrInvalidImage
	}

	recipe := &entities.Recipe{
		ID:          uuid.New(),
		AuthorID:    userID,
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}
	recipe.Image, err = s.storeImage(ctx, recipe.ID, req.Image)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	if err := s.recipeRepository.CreateRecipe(ctx, recipe, req.Tags, req.Ingredients); err != nil {
		s.dropImage(ctx, recipe.Image)
		return domain.RecipeResponse{}, err
	}
	s.logger.Infow("recipe created", "recipe_id", recipe.ID, "user_id", userID)

	return s.GetRecipe(ctx, actor, recipe.ID)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, actor domain.Actor, id uuid.UUID, req domain.RecipeRequest) (domain.RecipeResponse, error) {
	userID, err := actor.RequireUser()
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	existing, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	if existing.AuthorID != userID {
		return domain.RecipeResponse{}, domain.ErrForbidden
	}
	if err := validateRecipe(req); err != nil {
		return domain.RecipeResponse{}, err
	}

	updated := &entities.Recipe{
		ID:          id,
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		Image:       existing.Image,
	}
	if req.Image != "" {
		updated.Image, err = s.storeImage(ctx, id, req.Image)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
	}

	if err := s.recipeRepository.UpdateRecipe(ctx, updated, req.Tags, req.Ingredients); err != nil {
		if updated.Image != existing.Image {
			s.dropImage(ctx, updated.Image)
		}
		return domain.RecipeResponse{}, err
	}
	if updated.Image != existing.Image {
		s.dropImage(ctx, existing.Image)
	}
	s.logger.Infow("recipe updated", "recipe_id", id, "user_id", userID)

	return s.GetRecipe(ctx, actor, id)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	userID, err := actor.RequireUser()
	if err != nil {
		return err
	}
	existing, err := s.recipeRepository.GetRecipeShort(ctx, id)
	if err != nil {
		return err
	}
	if existing.AuthorID != userID {
		return domain.ErrForbidden
	}

	if err := s.recipeRepository.DeleteRecipe(ctx, id); err != nil {
		return err
	}
	s.dropImage(ctx, existing.Image)
	s.logger.Infow("recipe deleted", "recipe_id", id, "user_id", userID)
	return nil
}

func (s *recipeService) GetRecipe(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.RecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	responses, err := s.decorate(ctx, actor, []*entities.Recipe{recipe})
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	return responses[0], nil
}

func (s *recipeService) ListRecipes(ctx context.Context, actor domain.Actor, filter domain.RecipeFilter) ([]domain.RecipeResponse, int64, error) {
	var actorID *uuid.UUID
	if id, ok := actor.UserID(); ok {
		actorID = &id
	}
	recipes, total, err := s.recipeRepository.ListRecipes(ctx, filter, actorID)
	if err != nil {
		return nil, 0, err
	}
	responses, err := s.decorate(ctx, actor, recipes)
	if err != nil {
		return nil, 0, err
	}
	return responses, total, nil
}

// decorate builds responses with the actor's favorite, cart and
// subscription flags. All flags are false for anonymous actors.
func (s *recipeService) decorate(ctx context.Context, actor domain.Actor, recipes []*entities.Recipe) ([]domain.RecipeResponse, error) {
	responses := make([]domain.RecipeResponse, 0, len(recipes))
	userID, ok := actor.UserID()
	if !ok {
		for _, recipe := range recipes {
			responses = append(responses, recipe.ToResponse(false, false, false))
		}
		return responses, nil
	}

	recipeIDs := make([]uuid.UUID, len(recipes))
	authorIDs := make([]uuid.UUID, len(recipes))
	for i, recipe := range recipes {
		recipeIDs[i] = recipe.ID
		authorIDs[i] = recipe.AuthorID
	}

	favorites, err := s.relationRepository.TargetsIn(ctx, domain.RelationFavorite, userID, recipeIDs)
	if err != nil {
		return nil, err
	}
	carts, err := s.relationRepository.TargetsIn(ctx, domain.RelationCart, userID, recipeIDs)
	if err != nil {
		return nil, err
	}
	subscriptions, err := s.relationRepository.TargetsIn(ctx, domain.RelationSubscription, userID, authorIDs)
	if err != nil {
		return nil, err
	}

	for _, recipe := range recipes {
		responses = append(responses, recipe.ToResponse(
			favorites[recipe.ID],
			carts[recipe.ID],
			subscriptions[recipe.AuthorID],
		))
	}
	return responses, nil
}

// AddFavorite marks the recipe as a favorite. The bool result is false when
// the recipe was already a favorite.
func (s *recipeService) AddFavorite(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.RecipeShort, bool, error) {
	userID, err := actor.RequireUser()
	if err != nil {
		return domain.RecipeShort{}, false, err
	}
	created, err := s.relationRepository.AddRelation(ctx, domain.RelationFavorite, userID, id)
	if err != nil {
		return domain.RecipeShort{}, false, err
	}
	recipe, err := s.recipeRepository.GetRecipeShort(ctx, id)
	if err != nil {
		return domain.RecipeShort{}, false, err
	}
	if created {
		s.logger.Infow("favorite added", "recipe_id", id, "user_id", userID)
	}
	return recipe.ToShort(), created, nil
}

func (s *recipeService) RemoveFavorite(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	userID, err := actor.RequireUser()
	if err != nil {
		return err
	}
	if _, err := s.relationRepository.RemoveRelation(ctx, domain.RelationFavorite, userID, id); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Errorw("failed to remove favorite", "recipe_id", id, "user_id", userID, "error", err)
		}
		return err
	}
	s.logger.Infow("favorite removed", "recipe_id", id, "user_id", userID)
	return nil
}
