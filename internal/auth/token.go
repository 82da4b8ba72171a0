package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"quiz-backend/pkg/apierror"
)

// IssueAccessToken signs an access token valid from now for AccessTTL.
func IssueAccessToken(userID int, now time.Time, cfg *SigningConfig, isAdmin bool) (string, error) {
	return issue(newClaims(userID, now, Access, AccessTTL, 0, isAdmin), cfg)
}

// IssueRefreshToken signs a refresh token valid from now+RefreshNotBefore
// until now+RefreshTTL.
func IssueRefreshToken(userID int, now time.Time, cfg *SigningConfig, isAdmin bool) (string, error) {
	return issue(newClaims(userID, now, Refresh, RefreshTTL, RefreshNotBefore, isAdmin), cfg)
}

func issue(claims *Claims, cfg *SigningConfig) (string, error) {
	if cfg == nil {
		return "", apierror.Crypto(errors.New("signing config is not initialized"))
	}

	signed, err := cfg.encode(claims)
	if err != nil {
		return "", apierror.Crypto(fmt.Errorf("sign %s token: %w", claims.TokenType, err))
	}
	return signed, nil
}

// ValidateToken verifies token against cfg and checks that it is of the
// expected kind. Decode failures are TOKEN_ERROR; a valid token of the other
// kind is WRONG_TOKEN_TYPE.
func ValidateToken(token string, cfg *SigningConfig, expected TokenType) (*Claims, error) {
	if cfg == nil {
		return nil, apierror.Unknown(errors.New("signing config is not initialized"))
	}

	claims, err := cfg.decode(token)
	if err != nil {
		return nil, apierror.Token(tokenErrorMessage(err), err)
	}

	if claims.TokenType != expected.String() {
		return nil, apierror.New(apierror.KindWrongTokenType, "unexpected token type",
			fmt.Sprintf("expected %s, got %q", expected, claims.TokenType))
	}

	return claims, nil
}

// IsMalformed reports whether err comes from a token that is not structurally
// a JWT at all.
func IsMalformed(err error) bool {
	return errors.Is(err, jwt.ErrTokenMalformed)
}

func tokenErrorMessage(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "malformed token"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return "invalid token signature"
	case errors.Is(err, jwt.ErrTokenExpired):
		return "token expired"
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return "token not valid yet"
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return "invalid token issuer"
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return "token is missing a required claim"
	default:
		return "invalid token"
	}
}
