package handlers

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/internal/api/presenters"
	"Foodgram-Backend/internal/middleware"
	"Foodgram-Backend/pkg/subscription"

	"github.com/gofiber/fiber/v2"
)

type (
	SubscriptionHandler interface {
		Subscribe(c *fiber.Ctx) error
		Unsubscribe(c *fiber.Ctx) error
		ListSubscriptions(c *fiber.Ctx) error
	}

	subscriptionHandler struct {
		subscriptionService subscription.SubscriptionService
	}
)

func NewSubscriptionHandler(subscriptionService subscription.SubscriptionService) SubscriptionHandler {
	return &subscriptionHandler{subscriptionService: subscriptionService}
}

func (h *subscriptionHandler) Subscribe(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedSubscribe, err)
	}
	res, err := h.subscriptionService.Subscribe(c.Context(), middleware.ActorFrom(c), id,
		c.QueryInt("recipes_limit", domain.DefaultRecipesPreview))
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedSubscribe, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessSubscribe)
}

func (h *subscriptionHandler) Unsubscribe(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedUnsubscribe, err)
	}
	if err := h.subscriptionService.Unsubscribe(c.Context(), middleware.ActorFrom(c), id); err != nil {
		return presenters.ServiceError(c, domain.MessageFailedUnsubscribe, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *subscriptionHandler) ListSubscriptions(c *fiber.Ctx) error {
	page, limit := pageParams(c)
	authors, total, err := h.subscriptionService.ListSubscriptions(c.Context(), middleware.ActorFrom(c), page, limit,
		c.QueryInt("recipes_limit", domain.DefaultRecipesPreview))
	if err != nil {
		return presenters.ServiceError(c, domain.MessageFailedGetSubscription, err)
	}
	return presenters.SuccessResponse(c, fiber.Map{
		"authors":    authors,
		"pagination": presenters.Pagination(page, limit, total),
	}, fiber.StatusOK, domain.MessageSuccessGetSubscribers)
}
