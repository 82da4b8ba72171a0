package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// presenceChecked lists the required claims the jwt parser cannot enforce by
// itself. exp and iss are required through parser options.
var presenceChecked = []string{"nbf", "sub"}

// SigningConfig holds the HMAC secret and the claim validation policy. Build it
// once at startup; it is never mutated afterwards and is shared by pointer.
type SigningConfig struct {
	key               []byte
	method            *jwt.SigningMethodHMAC
	issuer            string
	validateNotBefore bool
	leeway            time.Duration
	now               func() time.Time
	parser            *jwt.Parser
}

type Option func(*SigningConfig)

// WithNotBefore toggles nbf enforcement. It is on by default.
func WithNotBefore(enabled bool) Option {
	return func(c *SigningConfig) {
		c.validateNotBefore = enabled
	}
}

// WithLeeway tolerates clock skew when checking exp and nbf.
func WithLeeway(leeway time.Duration) Option {
	return func(c *SigningConfig) {
		if leeway > 0 {
			c.leeway = leeway
		}
	}
}

// WithClock replaces time.Now as the validation clock.
func WithClock(now func() time.Time) Option {
	return func(c *SigningConfig) {
		if now != nil {
			c.now = now
		}
	}
}

func NewSigningConfig(secret string, opts ...Option) (*SigningConfig, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("signing secret is required")
	}

	cfg := &SigningConfig{
		key:               []byte(secret),
		method:            jwt.SigningMethodHS256,
		issuer:            Issuer,
		validateNotBefore: true,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	cfg.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{cfg.method.Alg()}),
		jwt.WithIssuer(cfg.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(cfg.leeway),
		jwt.WithTimeFunc(cfg.now),
	)

	return cfg, nil
}

// Now is the clock used for issuance and validation.
func (c *SigningConfig) Now() time.Time {
	return c.now()
}

func (c *SigningConfig) Issuer() string {
	return c.issuer
}

func (c *SigningConfig) encode(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(c.method, claims)
	return token.SignedString(c.key)
}

// decode verifies the signature and applies the claim policy. The returned
// error always wraps one of the jwt.ErrToken* sentinels.
func (c *SigningConfig) decode(tokenString string) (*Claims, error) {
	claims := &Claims{}

	var target jwt.Claims = claims
	if !c.validateNotBefore {
		target = &notBeforeIgnored{Claims: claims}
	}

	parsed, err := c.parser.ParseWithClaims(tokenString, target, c.keyFunc)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	for _, name := range presenceChecked {
		if !claims.has(name) {
			return nil, fmt.Errorf("%w: %s", jwt.ErrTokenRequiredClaimMissing, name)
		}
	}

	return claims, nil
}

func (c *SigningConfig) keyFunc(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return c.key, nil
}

// notBeforeIgnored hides nbf from the jwt validator, which otherwise always
// checks it when present. The claim is still decoded into Claims.
type notBeforeIgnored struct {
	*Claims
}

func (notBeforeIgnored) GetNotBefore() (*jwt.NumericDate, error) {
	return nil, nil
}
