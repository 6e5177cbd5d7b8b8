// Package session carries the authenticated requester explicitly through the call chain.
package session

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const localsKey = "session"

// Session identifies who is acting. Core logic receives it as a value.
type Session struct {
	AccessToken string
	Username    string
	Department  string
	BranchID    string
	Role        string
}

type Claims struct {
	Username   string `json:"username"`
	Department string `json:"department"`
	BranchID   string `json:"branch_id"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager signs and validates HS256 session tokens
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

func (m *TokenManager) Generate(s Session) (string, error) {
	now := time.Now()
	claims := Claims{
		Username:   s.Username,
		Department: s.Department,
		BranchID:   s.BranchID,
		Role:       s.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.Username,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *TokenManager) Validate(tokenString string) (Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil {
		return Session{}, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Session{}, jwt.ErrTokenSignatureInvalid
	}
	if claims.Username == "" {
		return Session{}, errors.New("token has no username")
	}

	return Session{
		AccessToken: tokenString,
		Username:    claims.Username,
		Department:  claims.Department,
		BranchID:    claims.BranchID,
		Role:        claims.Role,
	}, nil
}

// Store attaches s to the request
func Store(c *fiber.Ctx, s Session) {
	c.Locals(localsKey, s)
}

// From returns the session attached by the auth middleware
func From(c *fiber.Ctx) (Session, bool) {
	s, ok := c.Locals(localsKey).(Session)
	return s, ok
}
