package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Timestamp struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// newID fills an empty primary key. Keys are generated in the application so
// the same schema works on databases without uuid_generate_v4().
func newID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	newID(&u.ID)
	return nil
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	newID(&t.ID)
	return nil
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	newID(&i.ID)
	return nil
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	newID(&r.ID)
	if r.PubDate.IsZero() {
		r.PubDate = time.Now().UTC()
	}
	return nil
}

func (ri *RecipeIngredient) BeforeCreate(tx *gorm.DB) error {
	newID(&ri.ID)
	return nil
}

func (s *ShoppingCart) BeforeCreate(tx *gorm.DB) error {
	newID(&s.ID)
	return nil
}

func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	newID(&f.ID)
	return nil
}

func (a *AuthorSubscription) BeforeCreate(tx *gorm.DB) error {
	newID(&a.ID)
	return nil
}
