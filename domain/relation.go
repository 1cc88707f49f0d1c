package domain

// RelationKind selects one of the user relations kept by the relationship
// store. Each kind has its own idempotency policy.
type RelationKind string

const (
	RelationFavorite     RelationKind = "favorite"
	RelationCart         RelationKind = "cart"
	RelationSubscription RelationKind = "subscription"
)

// Idempotent reports whether a redundant add is a successful no-op for the
// kind, as opposed to failing with ErrDuplicateRelation.
func (k RelationKind) Idempotent() bool {
	return k == RelationFavorite || k == RelationCart
}

func (k RelationKind) Valid() bool {
	switch k {
	case RelationFavorite, RelationCart, RelationSubscription:
		return true
	}
	return false
}
