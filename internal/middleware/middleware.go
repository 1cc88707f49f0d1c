package middleware

import (
	"Foodgram-Backend/domain"
	"Foodgram-Backend/internal/api/presenters"
	"Foodgram-Backend/pkg/jwt"
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

const actorKey = "actor"

type (
	Middleware interface {
		CORSMiddleware() fiber.Handler
		Authenticate(jwtService jwt.JWTService) fiber.Handler
		AuthMiddleware(jwtService jwt.JWTService) fiber.Handler
	}

	// SessionValidator decides whether a well-formed token is still live.
	SessionValidator interface {
		ValidateSession(ctx context.Context, token jwt.TokenUser) error
	}

	middleware struct {
		allowedOrigins string
		sessions       SessionValidator
	}
)

func NewMiddleware(allowedOrigins string, sessions SessionValidator) Middleware {
	return &middleware{allowedOrigins: allowedOrigins, sessions: sessions}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: m.allowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PATCH, DELETE, OPTIONS",
	})
}

// bearerToken accepts both "Bearer <token>" and "Token <token>".
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return "", false
	}
	switch strings.ToLower(scheme) {
	case "bearer", "token":
		token = strings.TrimSpace(token)
		return token, token != ""
	}
	return "", false
}

// Authenticate resolves the request's actor. Requests without credentials
// run as anonymous; requests with bad credentials are rejected.
func (m *middleware) Authenticate(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			c.Locals(actorKey, domain.Anonymous())
			return c.Next()
		}
		token, ok := bearerToken(header)
		if !ok {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, domain.ErrTokenNotFound)
		}
		tokenUser, err := jwtService.ParseTokenUser(token)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedTokenInvalid, err)
		}
		if err := m.sessions.ValidateSession(c.UserContext(), tokenUser); err != nil {
			return presenters.ServiceError(c, domain.MessageFailedTokenInvalid, err)
		}
		c.Locals(actorKey, domain.Authenticated(tokenUser.UserID))
		return c.Next()
	}
}

// AuthMiddleware is Authenticate followed by a rejection of anonymous actors.
func (m *middleware) AuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	authenticate := m.Authenticate(jwtService)
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, domain.ErrUnauthenticated)
		}
		return authenticate(c)
	}
}

// ActorFrom returns the actor set by Authenticate, anonymous if none.
func ActorFrom(c *fiber.Ctx) domain.Actor {
	if actor, ok := c.Locals(actorKey).(domain.Actor); ok {
		return actor
	}
	return domain.Anonymous()
}
