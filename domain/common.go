package domain

import (
	"errors"

	"github.com/google/uuid"
)

var (
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"
	MessageUserNotAllowed       = "user not allowed"

	ErrParseUUID       = errors.New("failed to parse UUID")
	ErrUnauthenticated = errors.New("authentication credentials were not provided")
	ErrForbidden       = errors.New("you do not have permission to perform this action")
	ErrTokenNotFound   = errors.New("failed to token not found")
	ErrTokenInvalid    = errors.New("token invalid")
	ErrTokenExpired    = errors.New("token expired")

	// ErrNotFound is the root of every "referenced entity absent" error.
	ErrNotFound            = errors.New("not found")
	ErrUserNotFound        = notFound("user not found")
	ErrRecipeNotFound      = notFound("recipe not found")
	ErrIngredientNotFound  = notFound("ingredient not found")
	ErrTagNotFound         = notFound("tag not found")
	ErrRelationNotFound    = notFound("relation not found")
	ErrDuplicateRelation   = errors.New("relation already exists")
	ErrSelfSubscription    = errors.New("cannot subscribe to yourself")
	ErrInvalidAmount       = errors.New("amount must be between 1 and 32000")
	ErrInvalidRange        = errors.New("cooking time must be between 1 and 32000")
	ErrDuplicateIngredient = errors.New("ingredient listed more than once")
	ErrInvalidImage        = errors.New("image must be a base64 data URI")
)

type notFoundError struct {
	msg string
}

func notFound(msg string) error {
	return &notFoundError{msg: msg}
}

func (e *notFoundError) Error() string {
	return e.msg
}

func (e *notFoundError) Is(target error) bool {
	return target == ErrNotFound
}

const (
	DefaultPageLimit = 8
	MaxPageLimit     = 100
)

// Pagination normalises page/limit query values.
func Pagination(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

// Actor is the identity a request runs as: either anonymous or an
// authenticated user. The zero value is anonymous.
type Actor struct {
	userID        uuid.UUID
	authenticated bool
}

func Anonymous() Actor {
	return Actor{}
}

func Authenticated(userID uuid.UUID) Actor {
	return Actor{userID: userID, authenticated: true}
}

func (a Actor) IsAuthenticated() bool {
	return a.authenticated
}

// UserID reports the user behind the actor, if any.
func (a Actor) UserID() (uuid.UUID, bool) {
	return a.userID, a.authenticated
}

// RequireUser returns the user ID or ErrUnauthenticated for anonymous actors.
func (a Actor) RequireUser() (uuid.UUID, error) {
	if !a.authenticated {
		return uuid.Nil, ErrUnauthenticated
	}
	return a.userID, nil
}

func (a Actor) String() string {
	if !a.authenticated {
		return "anonymous"
	}
	return a.userID.String()
}
