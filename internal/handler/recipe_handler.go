package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"recipebox/internal/errors"
	"recipebox/internal/repository"
	"recipebox/internal/service"
)

// imageField is the multipart field carrying an upload.
const imageField = "image"

// RecipeHandler serves the caller's recipes.
type RecipeHandler struct {
	svc      service.RecipeService
	url      URLFunc
	maxImage int64
}

// NewRecipeHandler creates a recipe handler. url resolves image keys and
// maxImage bounds how much of an upload is read.
func NewRecipeHandler(svc service.RecipeService, url URLFunc, maxImage int64) *RecipeHandler {
	return &RecipeHandler{svc: svc, url: url, maxImage: maxImage}
}

// RecipeRequest represents a recipe payload. Any "user" value is ignored;
// recipes always belong to the caller.
type RecipeRequest struct {
	Title            *string          `json:"title"`
	MinutesToDeliver *int             `json:"minutes_to_deliver"`
	Price            *decimal.Decimal `json:"price" swaggertype:"string" example:"12.50"`
	Link             *string          `json:"link"`
	Tags             *[]uint          `json:"tags"`
	Ingredients      *[]uint          `json:"ingredients"`
	User             *uint            `json:"user,omitempty" swaggerignore:"true"`
}

func (r RecipeRequest) input() service.RecipeInput {
	return service.RecipeInput{
		Title:            r.Title,
		MinutesToDeliver: r.MinutesToDeliver,
		Price:            r.Price,
		Link:             r.Link,
		TagIDs:           r.Tags,
		IngredientIDs:    r.Ingredients,
	}
}

// List godoc
// @Summary List the caller's recipes, newest first
// @Tags recipe
// @Produce json
// @Security BearerAuth
// @Param tags query string false "Comma separated tag ids; any match"
// @Param ingredients query string false "Comma separated ingredient ids; any match"
// @Success 200 {array} RecipeResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /recipe/recepie/ [get]
func (h *RecipeHandler) List(c echo.Context) error {
	o, err := owner(c)
	if err != nil {
		return err
	}

	filter, err := recipeFilter(c)
	if err != nil {
		return fail(err)
	}

	recipes, err := h.svc.List(c.Request().Context(), o, filter)
	if err != nil {
		return fail(err)
	}

	resp := make([]RecipeResponse, 0, len(recipes))
	for i := range recipes {
		resp = append(resp, toRecipeReference(&recipes[i], h.url))
	}
	return c.JSON(http.StatusOK, resp)
}

// recipeFilter reads the tags and ingredients query parameters. The
// singular "ingredient" is accepted as well.
func recipeFilter(c echo.Context) (repository.RecipeFilter, error) {
	var filter repository.RecipeFilter

	tags, err := parseIDs(c.QueryParam("tags"))
	if err != nil {
		return filter, err
	}
	rawIngredients := c.QueryParam("ingredients")
	if rawIngredients == "" {
		rawIngredients = c.QueryParam("ingredient")
	}
	ingredients, err := parseIDs(rawIngredients)
	if err != nil {
		return filter, err
	}

	filter.TagIDs = tags
	filter.IngredientIDs = ingredients
	return filter, nil
}

// Create godoc
// @Summary Create a recipe owned by the caller
// @Tags recipe
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RecipeRequest true "Recipe"
// @Success 201 {object} RecipeResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /recipe/recepie/ [post]
func (h *RecipeHandler) Create(c echo.Context) error {
	o, err := owner(c)
	if err != nil {
		return err
	}
	var req RecipeRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	recipe, err := h.svc.Create(c.Request().Context(), o, req.input())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, toRecipeReference(recipe, h.url))
}

// Get godoc
// @Summary Get one of the caller's recipes with nested tags and ingredients
// @Tags recipe
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Success 200 {object} RecipeDetailResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /recipe/recepie/{id}/ [get]
func (h *RecipeHandler) Get(c echo.Context) error {
	o, err := owner(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	recipe, err := h.svc.Get(c.Request().Context(), o, id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, toRecipeDetail(recipe, h.url))
}

// Update godoc
// @Summary Replace (PUT) or partially update (PATCH) one of the caller's recipes
// @Tags recipe
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Param request body RecipeRequest true "Recipe"
// @Success 200 {object} RecipeResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /recipe/recepie/{id}/ [put]
// @Router /recipe/recepie/{id}/ [patch]
func (h *RecipeHandler) Update(c echo.Context) error {
	o, err := owner(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req RecipeRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	update := h.svc.Patch
	if c.Request().Method == http.MethodPut {
		update = h.svc.Replace
	}
	recipe, err := update(ctx, o, id, req.input())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, toRecipeReference(recipe, h.url))
}

// Delete godoc
// @Summary Delete one of the caller's recipes and its image
// @Tags recipe
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /recipe/recepie/{id}/ [delete]
func (h *RecipeHandler) Delete(c echo.Context) error {
	o, err := owner(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.svc.Delete(c.Request().Context(), o, id); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadImage godoc
// @Summary Attach an image to one of the caller's recipes
// @Description Replaces any previous image. Invalid payloads are rejected before anything is stored.
// @Tags recipe
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Param image formData file true "PNG, JPEG or GIF image"
// @Success 200 {object} RecipeResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /recipe/recepie/{id}/image-upload/ [post]
func (h *RecipeHandler) UploadImage(c echo.Context) error {
	o, err := owner(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile(imageField)
	if err != nil {
		return fail(errors.NewValidationError(imageField, "no file was submitted"))
	}
	f, err := fh.Open()
	if err != nil {
		return fail(errors.NewValidationError(imageField, "the submitted file could not be read"))
	}
	defer f.Close()

	var r io.Reader = f
	if h.maxImage > 0 {
		// one byte past the limit is enough to reject it
		r = io.LimitReader(f, h.maxImage+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return fail(errors.NewValidationError(imageField, "the submitted file could not be read"))
	}

	recipe, err := h.svc.UploadImage(c.Request().Context(), o, id, fh.Filename, data)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, toRecipeReference(recipe, h.url))
}

// RemoveImage godoc
// @Summary Remove the image of one of the caller's recipes
// @Tags recipe
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Success 200 {object} RecipeResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /recipe/recepie/{id}/image-upload/ [delete]
func (h *RecipeHandler) RemoveImage(c echo.Context) error {
	o, err := owner(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	recipe, err := h.svc.RemoveImage(c.Request().Context(), o, id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, toRecipeReference(recipe, h.url))
}
