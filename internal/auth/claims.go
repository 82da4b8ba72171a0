package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer is the fixed iss claim of every token this service signs.
const Issuer = "LEK-backend"

const (
	AccessTTL  = 3600 * time.Second
	RefreshTTL = 86400 * time.Second

	// RefreshNotBefore delays a refresh token until its paired access token
	// has nominally expired.
	RefreshNotBefore = 3599 * time.Second
)

// ErrInvalidSubject is returned when sub is not a positive integer.
var ErrInvalidSubject = errors.New("token subject is not a valid user id")

type TokenType int

const (
	Access TokenType = iota
	Refresh
)

func (t TokenType) String() string {
	switch t {
	case Access:
		return "access"
	case Refresh:
		return "refresh"
	default:
		return "unknown"
	}
}

// Claims is the token payload.
type Claims struct {
	TokenType string `json:"token_type"`
	Admin     bool   `json:"admin"`
	jwt.RegisteredClaims
}

// UserID parses the subject back into a user id.
func (c *Claims) UserID() (int, error) {
	id, err := strconv.Atoi(c.Subject)
	if err != nil || id <= 0 {
		return 0, ErrInvalidSubject
	}
	return id, nil
}

func (c *Claims) has(name string) bool {
	switch name {
	case "exp":
		return c.ExpiresAt != nil
	case "nbf":
		return c.NotBefore != nil
	case "iat":
		return c.IssuedAt != nil
	case "iss":
		return c.Issuer != ""
	case "sub":
		return c.Subject != ""
	case "token_type":
		return c.TokenType != ""
	default:
		return false
	}
}

func newClaims(userID int, now time.Time, kind TokenType, ttl time.Duration, notBefore time.Duration, isAdmin bool) *Claims {
	return &Claims{
		TokenType: kind.String(),
		Admin:     isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   strconv.Itoa(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			NotBefore: jwt.NewNumericDate(now.Add(notBefore)),
		},
	}
}
