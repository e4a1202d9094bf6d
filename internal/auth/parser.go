package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokensDisabled = errors.New("bearer tokens are not configured")
	ErrInvalidToken   = errors.New("invalid token")
)

type Claims struct {
	ProfileID string `json:"profile_id"`
	jwt.RegisteredClaims
}

// Parser validates HS256 access tokens that carry a profile id. A parser
// built with an empty secret rejects every token.
type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

func (p *Parser) Enabled() bool {
	return len(p.secret) > 0
}

func (p *Parser) Parse(tokenString string) (uuid.UUID, error) {
	if !p.Enabled() {
		return uuid.Nil, ErrTokensDisabled
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	raw := claims.ProfileID
	if raw == "" {
		raw = claims.Subject
	}
	profileID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: profile_id", ErrInvalidToken)
	}
	return profileID, nil
}

// Issue signs a token for the profile, valid for ttl.
func (p *Parser) Issue(profileID uuid.UUID, ttl time.Duration) (string, error) {
	if !p.Enabled() {
		return "", ErrTokensDisabled
	}
	now := time.Now()
	claims := Claims{
		ProfileID: profileID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profileID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}
