package cart

import (
	"Foodgram-Backend/domain"
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type (
	CartRepository interface {
		CartLedger(ctx context.Context, userID uuid.UUID) ([]domain.LedgerLine, error)
	}

	cartRepository struct {
		db *gorm.DB
	}
)

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

// CartLedger returns every ingredient row of every recipe in the user's
// cart. Cart membership and amounts come from one statement, so the result
// reflects a single snapshot even while the cart is being changed.
func (r *cartRepository) CartLedger(ctx context.Context, userID uuid.UUID) ([]domain.LedgerLine, error) {
	query, args, err := sq.
		Select("i.name AS name", "i.measurement_unit AS measurement_unit", "ri.amount AS amount").
		From("shopping_carts sc").
		Join("recipe_ingredients ri ON ri.recipe_id = sc.recipe_id").
		Join("ingredients i ON i.id = ri.ingredient_id").
		Where(sq.Eq{"sc.user_id": userID}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build cart ledger query")
	}

	lines := make([]domain.LedgerLine, 0)
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&lines).Error; err != nil {
		return nil, errors.Wrap(err, "read cart ledger")
	}
	return lines, nil
}
