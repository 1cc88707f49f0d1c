package presenters

import (
	"Foodgram-Backend/domain"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data interface{}, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse writes a failed response. Details of unexpected errors are
// not exposed to the client.
func ErrorResponse(c *fiber.Ctx, statusCode int, message string, err error) error {
	res := Response{Status: false, Message: message}
	if err != nil {
		res.Error = err.Error()
		if statusCode >= fiber.StatusInternalServerError {
			res.Error = "internal server error"
		}
	}
	return c.Status(statusCode).JSON(res)
}

// ServiceError writes err with the status it maps to.
func ServiceError(c *fiber.Ctx, message string, err error) error {
	return ErrorResponse(c, StatusFromError(err), message, err)
}

var badRequest = []error{
	domain.ErrParseUUID,
	domain.ErrDuplicateRelation,
	domain.ErrSelfSubscription,
	domain.ErrInvalidAmount,
	domain.ErrInvalidRange,
	domain.ErrDuplicateIngredient,
	domain.ErrInvalidImage,
	domain.ErrEmailAlreadyExists,
	domain.ErrUsernameAlreadyExists,
	domain.ErrInvalidCredentials,
	domain.ErrInvalidPassword,
	domain.ErrUnsupportedFormat,
}

func StatusFromError(err error) int {
	var validationErrors validator.ValidationErrors
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, domain.ErrTokenNotFound),
		errors.Is(err, domain.ErrTokenInvalid),
		errors.Is(err, domain.ErrTokenExpired):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	case errors.As(err, &validationErrors):
		return fiber.StatusBadRequest
	}
	for _, target := range badRequest {
		if errors.Is(err, target) {
			return fiber.StatusBadRequest
		}
	}
	return fiber.StatusInternalServerError
}

// Pagination is the page block attached to every list response.
func Pagination(page, limit int, total int64) fiber.Map {
	return fiber.Map{
		"page":        page,
		"limit":       limit,
		"total":       total,
		"total_pages": (total + int64(limit) - 1) / int64(limit),
	}
}

// Attachment writes a document download.
func Attachment(c *fiber.Ctx, doc domain.Document) error {
	c.Set(fiber.HeaderContentType, doc.ContentType)
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+strconv.Quote(doc.Filename))
	return c.Status(fiber.StatusOK).Send(doc.Body)
}
