package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"recipebox/internal/model"
	"recipebox/internal/service"
)

type taxon[T any] interface {
	*T
	Base() *model.Taxon
}

// TaxonRequest represents a tag or ingredient payload.
type TaxonRequest struct {
	Name string `json:"name" validate:"required,max=32"`
}

// TaxonomyHandler serves the caller's tags or ingredients.
type TaxonomyHandler[T any, PT taxon[T]] struct {
	svc service.TaxonomyService[T]
}

// NewTagHandler creates the tag handler.
func NewTagHandler(svc service.TaxonomyService[model.Tag]) *TaxonomyHandler[model.Tag, *model.Tag] {
	return &TaxonomyHandler[model.Tag, *model.Tag]{svc: svc}
}

// NewIngredientHandler creates the ingredient handler.
func NewIngredientHandler(svc service.TaxonomyService[model.Ingredient]) *TaxonomyHandler[model.Ingredient, *model.Ingredient] {
	return &TaxonomyHandler[model.Ingredient, *model.Ingredient]{svc: svc}
}

func (h *TaxonomyHandler[T, PT]) respond(c echo.Context, status int, item *T) error {
	return c.JSON(status, toTaxonResponse(PT(item).Base()))
}

// List godoc
// @Summary List the caller's tags or ingredients
// @Tags recipe
// @Produce json
// @Security BearerAuth
// @Param assigned_only query int false "1 keeps only rows linked to a recipe"
// @Success 200 {array} TaxonResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /recipe/tags/ [get]
// @Router /recipe/ingredient/ [get]
func (h *TaxonomyHandler[T, PT]) List(c echo.Context) error {
	o, err := owner(c)
	if err != nil {
		return err
	}
	assignedOnly, err := parseFlag(c.QueryParam("assigned_only"))
	if err != nil {
		return fail(err)
	}

	items, err := h.svc.List(c.Request().Context(), o, assignedOnly)
	if err != nil {
		return fail(err)
	}

	resp := make([]TaxonResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toTaxonResponse(PT(&items[i]).Base()))
	}
	return c.JSON(http.StatusOK, resp)
}

// Create godoc
// @Summary Create a tag or ingredient owned by the caller
// @Tags recipe
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TaxonRequest true "Name"
// @Success 201 {object} TaxonResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /recipe/tags/ [post]
// @Router /recipe/ingredient/ [post]
func (h *TaxonomyHandler[T, PT]) Create(c echo.Context) error {
	o, err := owner(c)
	if err != nil {
		return err
	}
	var req TaxonRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	item, err := h.svc.Create(c.Request().Context(), o, req.Name)
	if err != nil {
		return fail(err)
	}
	return h.respond(c, http.StatusCreated, item)
}

// Get godoc
// @Summary Get one of the caller's tags or ingredients
// @Tags recipe
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 200 {object} TaxonResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /recipe/tags/{id}/ [get]
// @Router /recipe/ingredient/{id}/ [get]
func (h *TaxonomyHandler[T, PT]) Get(c echo.Context) error {
	o, err := owner(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	item, err := h.svc.Get(c.Request().Context(), o, id)
	if err != nil {
		return fail(err)
	}
	return h.respond(c, http.StatusOK, item)
}

// Update godoc
// @Summary Rename one of the caller's tags or ingredients
// @Tags recipe
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Param request body TaxonRequest true "Name"
// @Success 200 {object} TaxonResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /recipe/tags/{id}/ [patch]
// @Router /recipe/ingredient/{id}/ [patch]
func (h *TaxonomyHandler[T, PT]) Update(c echo.Context) error {
	o, err := owner(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req TaxonRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	item, err := h.svc.Rename(c.Request().Context(), o, id, req.Name)
	if err != nil {
		return fail(err)
	}
	return h.respond(c, http.StatusOK, item)
}

// Delete godoc
// @Summary Delete one of the caller's tags or ingredients
// @Description Recipes linked to it keep existing; only the link is removed.
// @Tags recipe
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /recipe/tags/{id}/ [delete]
// @Router /recipe/ingredient/{id}/ [delete]
func (h *TaxonomyHandler[T, PT]) Delete(c echo.Context) error {
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
