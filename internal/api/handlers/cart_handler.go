package handlers

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/internal/api/presenters"
	"Foodgram-Backend/internal/middleware"
	"Foodgram-Backend/pkg/cart"

	"github.com/gofiber/fiber/v2"
)

type (
	CartHandler interface {
		AddToCart(c *fiber.Ctx) error
		RemoveFromCart(c *fiber.Ctx) error
		DownloadShoppingCart(c *fiber.Ctx) error
	}

	cartHandler struct {
		cartService cart.CartService
	}
)

func NewCartHandler(cartService cart.CartService) CartHandler {
	return &cartHandler{cartService: cartService}
}

// AddToCart answers 201 for a new entry and 200 when the recipe is already in
// the cart.
func (h *cartHandler) AddToCart(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedAddToCart, err)
	}
	res, created, err := h.cartService.AddToCart(c.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedAddToCart, err)
	}
	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return presenters.SuccessResponse(c, res, status, domain.MessageSuccessAddToCart)
}

func (h *cartHandler) RemoveFromCart(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedRemoveFromCart, err)
	}
	if err := h.cartService.RemoveFromCart(c.Context(), middleware.ActorFrom(c), id); err != nil {
		return presenters.ServiceError(c, domain.MessageFailedRemoveFromCart, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *cartHandler) DownloadShoppingCart(c *fiber.Ctx) error {
	doc, err := h.cartService.DownloadShoppingList(c.Context(), middleware.ActorFrom(c), c.Query("format"))
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedDownloadCart, err)
	}
	return presenters.Attachment(c, doc)
}
