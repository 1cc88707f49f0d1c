package relation

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/entities"
	"Foodgram-Backend/internal/metrics"
	"context"
	"fmt"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	// RelationRepository keeps the favorite, shopping cart and subscription
	// pairs. The unique index on each table is the only authority on whether
	// a pair exists; no existence check is made before inserting.
	RelationRepository interface {
		AddRelation(ctx context.Context, kind domain.RelationKind, actorID, targetID uuid.UUID) (bool, error)
		RemoveRelation(ctx context.Context, kind domain.RelationKind, actorID, targetID uuid.UUID) (bool, error)
		HasRelation(ctx context.Context, kind domain.RelationKind, actorID, targetID uuid.UUID) (bool, error)
		TargetsIn(ctx context.Context, kind domain.RelationKind, actorID uuid.UUID, targetIDs []uuid.UUID) (map[uuid.UUID]bool, error)
		ListTargets(ctx context.Context, kind domain.RelationKind, actorID uuid.UUID, page, limit int) ([]uuid.UUID, int64, error)
	}

	relationRepository struct {
		db *gorm.DB
	}

	// table describes where one relation kind is stored.
	table struct {
		name        string
		actorCol    string
		targetCol   string
		targetTable string
		notFound    error
	}
)

var tables = map[domain.RelationKind]table{
	domain.RelationFavorite: {
		name: "favorites", actorCol: "user_id", targetCol: "recipe_id",
		targetTable: "recipes", notFound: domain.ErrRecipeNotFound,
	},
	domain.RelationCart: {
		name: "shopping_carts", actorCol: "user_id", targetCol: "recipe_id",
		targetTable: "recipes", notFound: domain.ErrRecipeNotFound,
	},
	domain.RelationSubscription: {
		name: "author_subscriptions", actorCol: "subscriber_id", targetCol: "author_id",
		targetTable: "users", notFound: domain.ErrUserNotFound,
	},
}

func NewRelationRepository(db *gorm.DB) RelationRepository {
	return &relationRepository{db: db}
}

func lookup(kind domain.RelationKind) (table, error) {
	t, ok := tables[kind]
	if !ok {
		return table{}, fmt.Errorf("unknown relation kind %q", kind)
	}
	return t, nil
}

func newRow(kind domain.RelationKind, actorID, targetID uuid.UUID) interface{} {
	switch kind {
	case domain.RelationFavorite:
		return &entities.Favorite{UserID: actorID, RecipeID: targetID}
	case domain.RelationCart:
		return &entities.ShoppingCart{UserID: actorID, RecipeID: targetID}
	default:
		return &entities.AuthorSubscription{SubscriberID: actorID, AuthorID: targetID}
	}
}

func (r *relationRepository) targetExists(ctx context.Context, t table, targetID uuid.UUID) error {
	var count int64
	if err := r.db.WithContext(ctx).
		Table(t.targetTable).
		Where("id = ?", targetID).
		Count(&count).Error; err != nil {
		return errors.Wrap(err, "check relation target")
	}
	if count == 0 {
		return t.notFound
	}
	return nil
}

// AddRelation creates the (actor, target) pair and reports whether a new row
// was written. For favorites and cart entries a pair that already exists is
// not an error; for subscriptions it is ErrDuplicateRelation.
func (r *relationRepository) AddRelation(ctx context.Context, kind domain.RelationKind, actorID, targetID uuid.UUID) (bool, error) {
	t, err := lookup(kind)
	if err != nil {
		return false, err
	}
	if kind == domain.RelationSubscription && actorID == targetID {
		metrics.RecordRelationChange(string(kind), "add", metrics.OutcomeRejected)
		return false, domain.ErrSelfSubscription
	}
	if err := r.targetExists(ctx, t, targetID); err != nil {
		metrics.RecordRelationChange(string(kind), "add", metrics.OutcomeRejected)
		return false, err
	}

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(newRow(kind, actorID, targetID))
	if res.Error != nil {
		// the target was removed between the check and the insert
		if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
			metrics.RecordRelationChange(string(kind), "add", metrics.OutcomeRejected)
			return false, t.notFound
		}
		metrics.RecordRelationChange(string(kind), "add", metrics.OutcomeError)
		return false, errors.Wrapf(res.Error, "add %s relation", kind)
	}

	if res.RowsAffected == 0 {
		if !kind.Idempotent() {
			metrics.RecordRelationChange(string(kind), "add", metrics.OutcomeRejected)
			return false, domain.ErrDuplicateRelation
		}
		metrics.RecordRelationChange(string(kind), "add", metrics.OutcomeExisting)
		return false, nil
	}
	metrics.RecordRelationChange(string(kind), "add", metrics.OutcomeCreated)
	return true, nil
}

// RemoveRelation deletes the pair. Removing an absent pair fails with
// ErrRelationNotFound, or with the target's not-found error when the target
// itself does not exist.
func (r *relationRepository) RemoveRelation(ctx context.Context, kind domain.RelationKind, actorID, targetID uuid.UUID) (bool, error) {
	t, err := lookup(kind)
	if err != nil {
		return false, err
	}

	res := r.db.WithContext(ctx).
		Table(t.name).
		Where(t.actorCol+" = ? AND "+t.targetCol+" = ?", actorID, targetID).
		Delete(newRow(kind, actorID, targetID))
	if res.Error != nil {
		metrics.RecordRelationChange(string(kind), "remove", metrics.OutcomeError)
		return false, errors.Wrapf(res.Error, "remove %s relation", kind)
	}
	if res.RowsAffected == 0 {
		metrics.RecordRelationChange(string(kind), "remove", metrics.OutcomeRejected)
		if err := r.targetExists(ctx, t, targetID); err != nil {
			return false, err
		}
		return false, domain.ErrRelationNotFound
	}
	metrics.RecordRelationChange(string(kind), "remove", metrics.OutcomeRemoved)
	return true, nil
}

func (r *relationRepository) HasRelation(ctx context.Context, kind domain.RelationKind, actorID, targetID uuid.UUID) (bool, error) {
	t, err := lookup(kind)
	if err != nil {
		return false, err
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Table(t.name).
		Where(t.actorCol+" = ? AND "+t.targetCol+" = ?", actorID, targetID).
		Count(&count).Error; err != nil {
		return false, errors.Wrapf(err, "check %s relation", kind)
	}
	return count > 0, nil
}

// TargetsIn reports which of targetIDs the actor holds a relation to.
func (r *relationRepository) TargetsIn(ctx context.Context, kind domain.RelationKind, actorID uuid.UUID, targetIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	result := make(map[uuid.UUID]bool, len(targetIDs))
	if len(targetIDs) == 0 {
		return result, nil
	}
	t, err := lookup(kind)
	if err != nil {
		return nil, err
	}

	var found []uuid.UUID
	if err := r.db.WithContext(ctx).
		Table(t.name).
		Where(t.actorCol+" = ? AND "+t.targetCol+" IN ?", actorID, targetIDs).
		Pluck(t.targetCol, &found).Error; err != nil {
		return nil, errors.Wrapf(err, "list %s relations", kind)
	}
	for _, id := range found {
		result[id] = true
	}
	return result, nil
}

// ListTargets pages through the actor's targets, most recent first.
func (r *relationRepository) ListTargets(ctx context.Context, kind domain.RelationKind, actorID uuid.UUID, page, limit int) ([]uuid.UUID, int64, error) {
	t, err := lookup(kind)
	if err != nil {
		return nil, 0, err
	}
	page, limit = domain.Pagination(page, limit)

	var count int64
	if err := r.db.WithContext(ctx).
		Table(t.name).
		Where(t.actorCol+" = ?", actorID).
		Count(&count).Error; err != nil {
		return nil, 0, errors.Wrapf(err, "count %s relations", kind)
	}

	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Table(t.name).
		Where(t.actorCol+" = ?", actorID).
		Order("created_at desc").
		Offset((page-1)*limit).
		Limit(limit).
		Pluck(t.targetCol, &ids).Error; err != nil {
		return nil, 0, errors.Wrapf(err, "list %s relations", kind)
	}
	return ids, count, nil
}
