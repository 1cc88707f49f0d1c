package jwt

import (
	"Foodgram-Backend/domain"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const issuer = "FOODGRAM"

type (
	JWTService interface {
		GenerateTokenUser(userID uuid.UUID, version int) (string, error)
		ValidateTokenUser(token string) (*jwt.Token, error)
		GetUserIDByToken(token string) (uuid.UUID, error)
		ParseTokenUser(token string) (TokenUser, error)
	}

	// TokenUser is the identity a valid token carries.
	TokenUser struct {
		UserID  uuid.UUID
		Version int
	}

	jwtUserClaim struct {
		UserID  string `json:"user_id"`
		Version int    `json:"ver"`
		jwt.RegisteredClaims
	}

	jwtService struct {
		secretKey string
		issuer    string
		ttl       time.Duration
	}
)

func NewJWTService(secretKey string, ttl time.Duration) JWTService {
	return &jwtService{
		secretKey: secretKey,
		issuer:    issuer,
		ttl:       ttl,
	}
}

func (j *jwtService) GenerateTokenUser(userID uuid.UUID, version int) (string, error) {
	now := time.Now()
	claims := jwtUserClaim{
		userID.String(),
		version,
		jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

func (j *jwtService) parseToken(t_ *jwt.Token) (any, error) {
	if _, ok := t_.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t_.Header["alg"])
	}
	return []byte(j.secretKey), nil
}

func (j *jwtService) ValidateTokenUser(token string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, &jwtUserClaim{}, j.parseToken)
}

func (j *jwtService) GetUserIDByToken(token string) (uuid.UUID, error) {
	user, err := j.ParseTokenUser(token)
	if err != nil {
		return uuid.Nil, err
	}
	return user.UserID, nil
}

func (j *jwtService) ParseTokenUser(token string) (TokenUser, error) {
	t_Token, err := j.ValidateTokenUser(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return TokenUser{}, domain.ErrTokenExpired
		}
		return TokenUser{}, domain.ErrTokenInvalid
	}
	if !t_Token.Valid {
		return TokenUser{}, domain.ErrTokenInvalid
	}

	claims := t_Token.Claims.(*jwtUserClaim)
	if claims.Issuer != j.issuer {
		return TokenUser{}, domain.ErrTokenInvalid
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return TokenUser{}, domain.ErrTokenInvalid
	}
	return TokenUser{UserID: id, Version: claims.Version}, nil
}
