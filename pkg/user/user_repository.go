package user

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/pkg/recipe"
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type (
	UserRepository interface {
		RegisterUser(ctx context.Context, user *entities.User) error
		GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
		GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
		GetUsersByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entities.User, error)
		ListUsers(ctx context.Context, page, limit int) ([]*entities.User, int64, error)
		CheckEmail(ctx context.Context, email string) bool
		CheckUsername(ctx context.Context, username string) bool
		UpdatePassword(ctx context.Context, id uuid.UUID, password string) error
		BumpTokenVersion(ctx context.Context, id uuid.UUID) error
		DeleteUser(ctx context.Context, id uuid.UUID) error
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) RegisterUser(ctx context.Context, user *entities.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrEmailAlreadyExists
		}
		return errors.Wrap(err, "register user")
	}
	return nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, errors.Wrap(err, "get user")
	}
	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, errors.Wrap(err, "get user by email")
	}
	return &user, nil
}

func (r *userRepository) GetUsersByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entities.User, error) {
	result := make(map[uuid.UUID]*entities.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var users []*entities.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "get users")
	}
	for _, u := range users {
		result[u.ID] = u
	}
	return result, nil
}

func (r *userRepository) ListUsers(ctx context.Context, page, limit int) ([]*entities.User, int64, error) {
	var users []*entities.User
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).Model(&entities.User{}).Count(&count).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count users")
	}

	if err := r.db.WithContext(ctx).
		Offset(offset).
		Limit(limit).
		Order("username").
		Find(&users).Error; err != nil {
		return nil, 0, errors.Wrap(err, "list users")
	}
	return users, count, nil
}

func (r *userRepository) CheckEmail(ctx context.Context, email string) bool {
	var count int64
	r.db.WithContext(ctx).Model(&entities.User{}).Where("email = ?", email).Count(&count)
	return count > 0
}

func (r *userRepository) CheckUsername(ctx context.Context, username string) bool {
	var count int64
	r.db.WithContext(ctx).Model(&entities.User{}).Where("username = ?", username).Count(&count)
	return count > 0
}

// UpdatePassword stores a new password hash and revokes every token issued
// before the change.
func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, password string) error {
	return r.updateUser(ctx, id, map[string]interface{}{
		"password":      password,
		"token_version": gorm.Expr("token_version + 1"),
	})
}

func (r *userRepository) BumpTokenVersion(ctx context.Context, id uuid.UUID) error {
	return r.updateUser(ctx, id, map[string]interface{}{
		"token_version": gorm.Expr("token_version + 1"),
	})
}

func (r *userRepository) updateUser(ctx context.Context, id uuid.UUID, values map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&entities.User{}).Where("id = ?", id).Updates(values)
	if res.Error != nil {
		return errors.Wrap(res.Error, "update user")
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// DeleteUser removes the user, their recipes and every relation either of
// them takes part in, in one transaction.
func (r *userRepository) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipeIDs []uuid.UUID
		if err := tx.Model(&entities.Recipe{}).Where("author_id = ?", id).Pluck("id", &recipeIDs).Error; err != nil {
			return errors.Wrap(err, "list user recipes")
		}
		if err := recipe.DeleteRecipesCascade(tx, recipeIDs); err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", id).Delete(&entities.ShoppingCart{}).Error; err != nil {
			return errors.Wrap(err, "delete shopping cart")
		}
		if err := tx.Where("user_id = ?", id).Delete(&entities.Favorite{}).Error; err != nil {
			return errors.Wrap(err, "delete favorites")
		}
		if err := tx.Where("subscriber_id = ? OR author_id = ?", id, id).Delete(&entities.AuthorSubscription{}).Error; err != nil {
			return errors.Wrap(err, "delete subscriptions")
		}

		res := tx.Where("id = ?", id).Delete(&entities.User{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "delete user")
		}
		if res.RowsAffected == 0 {
			return domain.ErrUserNotFound
		}
		return nil
	})
}
