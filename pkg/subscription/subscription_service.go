package subscription

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/pkg/recipe"
	"Foodgram-Backend/pkg/relation"
	"Foodgram-Backend/pkg/user"
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const previewWorkers = 4

type (
	SubscriptionService interface {
		Subscribe(ctx context.Context, actor domain.Actor, authorID uuid.UUID, recipesLimit int) (domain.SubscriptionAuthor, error)
		Unsubscribe(ctx context.Context, actor domain.Actor, authorID uuid.UUID) error
		ListSubscriptions(ctx context.Context, actor domain.Actor, page, limit, recipesLimit int) ([]domain.SubscriptionAuthor, int64, error)
	}

	subscriptionService struct {
		relationRepository relation.RelationRepository
		userRepository     user.UserRepository
		recipeRepository   recipe.RecipeRepository
		logger             *zap.SugaredLogger
	}
)

func NewSubscriptionService(
	relationRepository relation.RelationRepository,
	userRepository user.UserRepository,
	recipeRepository recipe.RecipeRepository,
	logger *zap.SugaredLogger,
) SubscriptionService {
	return &subscriptionService{
		relationRepository: relationRepository,
		userRepository:     userRepository,
		recipeRepository:   recipeRepository,
		logger:             logger,
	}
}

func (s *subscriptionService) Subscribe(ctx context.Context, actor domain.Actor, authorID uuid.UUID, recipesLimit int) (domain.SubscriptionAuthor, error) {
	userID, err := actor.RequireUser()
	if err != nil {
		return domain.SubscriptionAuthor{}, err
	}
	if _, err := s.relationRepository.AddRelation(ctx, domain.RelationSubscription, userID, authorID); err != nil {
		return domain.SubscriptionAuthor{}, err
	}
	s.logger.Infow("subscribed", "user_id", userID, "author_id", authorID)

	author, err := s.userRepository.GetUserByID(ctx, authorID)
	if err != nil {
		return domain.SubscriptionAuthor{}, err
	}
	authors, err := s.withPreviews(ctx, []*entities.User{author}, recipesLimit)
	if err != nil {
		return domain.SubscriptionAuthor{}, err
	}
	return authors[0], nil
}

func (s *subscriptionService) Unsubscribe(ctx context.Context, actor domain.Actor, authorID uuid.UUID) error {
	userID, err := actor.RequireUser()
	if err != nil {
		return err
	}
	if _, err := s.relationRepository.RemoveRelation(ctx, domain.RelationSubscription, userID, authorID); err != nil {
		return err
	}
	s.logger.Infow("unsubscribed", "user_id", userID, "author_id", authorID)
	return nil
}

// ListSubscriptions pages through the authors the actor follows, newest
// subscription first.
func (s *subscriptionService) ListSubscriptions(ctx context.Context, actor domain.Actor, page, limit, recipesLimit int) ([]domain.SubscriptionAuthor, int64, error) {
	userID, err := actor.RequireUser()
	if err != nil {
		return nil, 0, err
	}
	ids, total, err := s.relationRepository.ListTargets(ctx, domain.RelationSubscription, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	byID, err := s.userRepository.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	authors := make([]*entities.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			authors = append(authors, u)
		}
	}
	res, err := s.withPreviews(ctx, authors, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return res, total, nil
}

// withPreviews attaches each author's most recent recipes and recipe count.
// A non-positive recipesLimit uses the default preview size.
func (s *subscriptionService) withPreviews(ctx context.Context, authors []*entities.User, recipesLimit int) ([]domain.SubscriptionAuthor, error) {
	if recipesLimit <= 0 {
		recipesLimit = domain.DefaultRecipesPreview
	}

	ids := make([]uuid.UUID, len(authors))
	for i, a := range authors {
		ids[i] = a.ID
	}
	counts, err := s.recipeRepository.CountByAuthor(ctx, ids)
	if err != nil {
		return nil, err
	}

	res := make([]domain.SubscriptionAuthor, len(authors))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(previewWorkers)
	for i, a := range authors {
		g.Go(func() error {
			recipes, err := s.recipeRepository.ListRecentByAuthor(gctx, a.ID, recipesLimit)
			if err != nil {
				return err
			}
			previews := make([]domain.RecipeShort, 0, len(recipes))
			for _, r := range recipes {
				previews = append(previews, r.ToShort())
			}
			res[i] = domain.SubscriptionAuthor{
				UserResponse: a.ToResponse(true),
				Recipes:      previews,
				RecipesCount: counts[a.ID],
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}
