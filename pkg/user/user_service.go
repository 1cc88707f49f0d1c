package user

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/pkg/jwt"
	"Foodgram-Backend/pkg/relation"
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		GetMe(ctx context.Context, actor domain.Actor) (domain.UserResponse, error)
		GetUser(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.UserResponse, error)
		ListUsers(ctx context.Context, actor domain.Actor, page, limit int) ([]domain.UserResponse, int64, error)
		DeleteMe(ctx context.Context, actor domain.Actor) error
		SetPassword(ctx context.Context, actor domain.Actor, req domain.SetPasswordRequest) error
		Logout(ctx context.Context, actor domain.Actor) error
		ValidateSession(ctx context.Context, token jwt.TokenUser) error
	}

	userService struct {
		userRepository     UserRepository
		relationRepository relation.RelationRepository
		jwtService         jwt.JWTService
		logger             *zap.SugaredLogger
	}
)

func NewUserService(
	userRepository UserRepository,
	relationRepository relation.RelationRepository,
	jwtService jwt.JWTService,
	logger *zap.SugaredLogger,
) UserService {
	return &userService{
		userRepository:     userRepository,
		relationRepository: relationRepository,
		jwtService:         jwtService,
		logger:             logger,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if s.userRepository.CheckEmail(ctx, email) {
		return domain.UserResponse{}, domain.ErrEmailAlreadyExists
	}
	if s.userRepository.CheckUsername(ctx, req.Username) {
		return domain.UserResponse{}, domain.ErrUsernameAlreadyExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.UserResponse{}, err
	}

	user := &entities.User{
		Email:     email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hashed),
	}
	if err := s.userRepository.RegisterUser(ctx, user); err != nil {
		return domain.UserResponse{}, err
	}
	s.logger.Infow("user registered", "user_id", user.ID)
	return user.ToResponse(false), nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.LoginResponse{}, domain.ErrInvalidCredentials
		}
		return domain.LoginResponse{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateTokenUser(user.ID, user.TokenVersion)
	if err != nil {
		return domain.LoginResponse{}, err
	}
	return domain.LoginResponse{AuthToken: token}, nil
}

func (s *userService) GetMe(ctx context.Context, actor domain.Actor) (domain.UserResponse, error) {
	userID, err := actor.RequireUser()
	if err != nil {
		return domain.UserResponse{}, err
	}
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return domain.UserResponse{}, err
	}
	return user.ToResponse(false), nil
}

func (s *userService) GetUser(ctx context.Context, actor domain.Actor, id uuid.UUID) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		return domain.UserResponse{}, err
	}
	subscribed := false
	if actorID, ok := actor.UserID(); ok {
		subscribed, err = s.relationRepository.HasRelation(ctx, domain.RelationSubscription, actorID, id)
		if err != nil {
			return domain.UserResponse{}, err
		}
	}
	return user.ToResponse(subscribed), nil
}

func (s *userService) ListUsers(ctx context.Context, actor domain.Actor, page, limit int) ([]domain.UserResponse, int64, error) {
	page, limit = domain.Pagination(page, limit)
	users, total, err := s.userRepository.ListUsers(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	subscribed := map[uuid.UUID]bool{}
	if actorID, ok := actor.UserID(); ok {
		ids := make([]uuid.UUID, len(users))
		for i, u := range users {
			ids[i] = u.ID
		}
		subscribed, err = s.relationRepository.TargetsIn(ctx, domain.RelationSubscription, actorID, ids)
		if err != nil {
			return nil, 0, err
		}
	}

	res := make([]domain.UserResponse, 0, len(users))
	for _, u := range users {
		res = append(res, u.ToResponse(subscribed[u.ID]))
	}
	return res, total, nil
}

func (s *userService) DeleteMe(ctx context.Context, actor domain.Actor) error {
	userID, err := actor.RequireUser()
	if err != nil {
		return err
	}
	if err := s.userRepository.DeleteUser(ctx, userID); err != nil {
		return err
	}
	s.logger.Infow("user deleted", "user_id", userID)
	return nil
}

func (s *userService) SetPassword(ctx context.Context, actor domain.Actor, req domain.SetPasswordRequest) error {
	userID, err := actor.RequireUser()
	if err != nil {
		return err
	}
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return domain.ErrInvalidPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.userRepository.UpdatePassword(ctx, userID, string(hashed)); err != nil {
		return err
	}
	s.logger.Infow("password changed", "user_id", userID)
	return nil
}

// Logout revokes every token the user holds.
func (s *userService) Logout(ctx context.Context, actor domain.Actor) error {
	userID, err := actor.RequireUser()
	if err != nil {
		return err
	}
	if err := s.userRepository.BumpTokenVersion(ctx, userID); err != nil {
		return err
	}
	s.logger.Infow("user logged out", "user_id", userID)
	return nil
}

// ValidateSession rejects tokens of deleted users and tokens issued before
// the last logout or password change.
func (s *userService) ValidateSession(ctx context.Context, token jwt.TokenUser) error {
	user, err := s.userRepository.GetUserByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrTokenInvalid
		}
		return err
	}
	if user.TokenVersion != token.Version {
		return domain.ErrTokenInvalid
	}
	return nil
}
