package entities

import (
	"Foodgram-Backend/domain"
	"sort"
)

func (u *User) ToResponse(isSubscribed bool) domain.UserResponse {
	if u == nil {
		return domain.UserResponse{}
	}
	return domain.UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
	}
}

func (t *Tag) ToResponse() domain.TagResponse {
	return domain.TagResponse{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
}

func (i *Ingredient) ToResponse() domain.IngredientResponse {
	return domain.IngredientResponse{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

func (r *Recipe) ToShort() domain.RecipeShort {
	return domain.RecipeShort{ID: r.ID, Name: r.Name, Image: r.Image, CookingTime: r.CookingTime}
}

// ToResponse expects Author, Tags and Ingredients.Ingredient to be loaded.
func (r *Recipe) ToResponse(isFavorited, isInShoppingCart, authorSubscribed bool) domain.RecipeResponse {
	tags := make([]domain.TagResponse, 0, len(r.Tags))
	for _, tag := range r.Tags {
		tags = append(tags, tag.ToResponse())
	}

	ingredients := make([]domain.RecipeIngredientResponse, 0, len(r.Ingredients))
	for _, ri := range r.Ingredients {
		line := domain.RecipeIngredientResponse{ID: ri.IngredientID, Amount: ri.Amount}
		if ri.Ingredient != nil {
			line.Name = ri.Ingredient.Name
			line.MeasurementUnit = ri.Ingredient.MeasurementUnit
		}
		ingredients = append(ingredients, line)
	}
	sort.SliceStable(ingredients, func(i, j int) bool {
		return ingredients[i].Name < ingredients[j].Name
	})

	return domain.RecipeResponse{
		ID:               r.ID,
		Tags:             tags,
		Author:           r.Author.ToResponse(authorSubscribed),
		Ingredients:      ingredients,
		IsFavorited:      isFavorited,
		IsInShoppingCart: isInShoppingCart,
		Name:             r.Name,
		Image:            r.Image,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
		PubDate:          r.PubDate,
	}
}
