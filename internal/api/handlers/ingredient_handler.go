package handlers

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/internal/api/presenters"
	"Foodgram-Backend/pkg/ingredient"

	"github.com/gofiber/fiber/v2"
)

type (
	IngredientHandler interface {
		GetTags(c *fiber.Ctx) error
		GetTag(c *fiber.Ctx) error
		SearchIngredients(c *fiber.Ctx) error
		GetIngredient(c *fiber.Ctx) error
	}

	ingredientHandler struct {
		ingredientService ingredient.IngredientService
	}
)

func NewIngredientHandler(ingredientService ingredient.IngredientService) IngredientHandler {
	return &ingredientHandler{ingredientService: ingredientService}
}

func (h *ingredientHandler) GetTags(c *fiber.Ctx) error {
	tags, err := h.ingredientService.GetTags(c.Context())
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedGetTags, err)
	}
	return presenters.SuccessResponse(c, tags, fiber.StatusOK, domain.MessageSuccessGetTags)
}

func (h *ingredientHandler) GetTag(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedGetTags, err)
	}
	tag, err := h.ingredientService.GetTag(c.Context(), id)
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedGetTags, err)
	}
	return presenters.SuccessResponse(c, tag, fiber.StatusOK, domain.MessageSuccessGetTags)
}

func (h *ingredientHandler) SearchIngredients(c *fiber.Ctx) error {
	ingredients, err := h.ingredientService.SearchIngredients(c.Context(), c.Query("name"))
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedGetIngredients, err)
	}
	return presenters.SuccessResponse(c, ingredients, fiber.StatusOK, domain.MessageSuccessGetIngredients)
}

func (h *ingredientHandler) GetIngredient(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedGetIngredients, err)
	}
	res, err := h.ingredientService.GetIngredient(c.Context(), id)
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedGetIngredients, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetIngredients)
}
