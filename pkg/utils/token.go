package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries the account id and role of the token holder.
type Claims struct {
	ID   string `json:"id"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 authentication tokens.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a manager from config. ExpiryHours <= 0 issues tokens without exp.
func NewTokenManager(cfg JWTConfig) *TokenManager {
	return &TokenManager{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    time.Duration(cfg.ExpiryHours) * time.Hour,
		now:    time.Now,
	}
}

func (m *TokenManager) Generate(userID uuid.UUID, role string) (string, error) {
	now := m.now()
	claims := Claims{
		ID:   userID.String(),
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
			Issuer:   m.issuer,
		},
	}
	if m.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(m.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *TokenManager) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return m.secret, nil
	}, jwt.WithIssuedAt(), jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if m.issuer != "" && claims.Issuer != m.issuer {
		return nil, jwt.ErrTokenInvalidIssuer
	}
	return claims, nil
}

// Caller converts verified claims into a CallerContext.
func (c *Claims) Caller() (CallerContext, error) {
	id, err := uuid.Parse(c.ID)
	if err != nil {
		return CallerContext{}, fmt.Errorf("parse token subject: %w", err)
	}
	return CallerContext{UserID: id, Role: c.Role}, nil
}
