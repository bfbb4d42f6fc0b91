package handler

import (
	"recipebox/internal/model"
)

// UserResponse is the public form of a user.
type UserResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// TaxonResponse is the form of a tag or an ingredient.
type TaxonResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// RecipeResponse is the reference form of a recipe: linked tags and
// ingredients are listed by id.
type RecipeResponse struct {
	ID               uint    `json:"id"`
	Title            string  `json:"title"`
	User             uint    `json:"user"`
	Price            string  `json:"price"`
	MinutesToDeliver int     `json:"minutes_to_deliver"`
	Link             string  `json:"link"`
	Tags             []uint  `json:"tags"`
	Ingredients      []uint  `json:"ingredients"`
	Image            *string `json:"image"`
}

// RecipeDetailResponse is the detail form of a recipe: linked tags and
// ingredients are nested objects.
type RecipeDetailResponse struct {
	ID               uint            `json:"id"`
	Title            string          `json:"title"`
	User             uint            `json:"user"`
	Price            string          `json:"price"`
	MinutesToDeliver int             `json:"minutes_to_deliver"`
	Link             string          `json:"link"`
	Tags             []TaxonResponse `json:"tags"`
	Ingredients      []TaxonResponse `json:"ingredients"`
	Image            *string         `json:"image"`
}

// URLFunc resolves a storage key to a public URL.
type URLFunc func(key string) string

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{Email: u.Email, Name: u.Name}
}

func toTaxonResponse(t *model.Taxon) TaxonResponse {
	return TaxonResponse{ID: t.ID, Name: t.Name}
}

func imageURL(key string, url URLFunc) *string {
	if key == "" || url == nil {
		return nil
	}
	u := url(key)
	return &u
}

// toRecipeReference maps a recipe to its reference form.
func toRecipeReference(r *model.Recipe, url URLFunc) RecipeResponse {
	resp := RecipeResponse{
		ID:               r.ID,
		Title:            r.Title,
		User:             r.UserID,
		Price:            r.Price.StringFixed(2),
		MinutesToDeliver: r.MinutesToDeliver,
		Link:             r.Link,
		Tags:             make([]uint, 0, len(r.Tags)),
		Ingredients:      make([]uint, 0, len(r.Ingredients)),
		Image:            imageURL(r.Image, url),
	}
	for _, t := range r.Tags {
		resp.Tags = append(resp.Tags, t.ID)
	}
	for _, i := range r.Ingredients {
		resp.Ingredients = append(resp.Ingredients, i.ID)
	}
	return resp
}

// toRecipeDetail maps a recipe to its detail form.
func toRecipeDetail(r *model.Recipe, url URLFunc) RecipeDetailResponse {
	resp := RecipeDetailResponse{
		ID:               r.ID,
		Title:            r.Title,
		User:             r.UserID,
		Price:            r.Price.StringFixed(2),
		MinutesToDeliver: r.MinutesToDeliver,
		Link:             r.Link,
		Tags:             make([]TaxonResponse, 0, len(r.Tags)),
		Ingredients:      make([]TaxonResponse, 0, len(r.Ingredients)),
		Image:            imageURL(r.Image, url),
	}
	for i := range r.Tags {
		resp.Tags = append(resp.Tags, toTaxonResponse(&r.Tags[i].Taxon))
	}
	for i := range r.Ingredients {
		resp.Ingredients = append(resp.Ingredients, toTaxonResponse(&r.Ingredients[i].Taxon))
	}
	return resp
}
