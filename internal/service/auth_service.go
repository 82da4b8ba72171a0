package service

import (
	"context"
	"errors"
	"log/slog"

	"quiz-backend/internal/auth"
	"quiz-backend/internal/model"
	"quiz-backend/pkg/apierror"
)

type UserStore interface {
	FindByUsername(ctx context.Context, username string) (model.User, error)
	FindSafeByID(ctx context.Context, id int) (model.SafeUser, error)
	Create(ctx context.Context, rec model.UserRecord) (model.SafeUser, error)
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}

// LoginObserver receives the result label of every login attempt.
type LoginObserver func(result string)

type AuthService struct {
	users   UserStore
	hasher  *auth.Hasher
	signing *auth.SigningConfig
	observe LoginObserver
}

func NewAuthService(users UserStore, hasher *auth.Hasher, signing *auth.SigningConfig) *AuthService {
	return &AuthService{users: users, hasher: hasher, signing: signing, observe: func(string) {}}
}

func (s *AuthService) SetLoginObserver(fn LoginObserver) {
	if fn != nil {
		s.observe = fn
	}
}

// Login exchanges credentials for an access and refresh token pair. An unknown
// username and a wrong password both yield model.ErrWrongCredentials.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.Tokens, error) {
	if err := req.Validate(); err != nil {
		s.observe("invalid")
		return model.Tokens{}, apierror.BadRequest("invalid login request", err.Error())
	}

	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			s.hasher.Burn(req.Password)
			s.observe("wrong_credentials")
			return model.Tokens{}, model.ErrWrongCredentials
		}
		s.observe("error")
		return model.Tokens{}, err
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		s.observe("wrong_credentials")
		return model.Tokens{}, model.ErrWrongCredentials
	}

	now := s.signing.Now()
	access, err := auth.IssueAccessToken(user.ID, now, s.signing, user.IsAdmin)
	if err != nil {
		s.observe("error")
		return model.Tokens{}, err
	}
	refresh, err := auth.IssueRefreshToken(user.ID, now, s.signing, user.IsAdmin)
	if err != nil {
		s.observe("error")
		return model.Tokens{}, err
	}

	s.observe("success")
	slog.Debug("user logged in", "user_id", user.ID)
	return newTokens(access, refresh), nil
}

// Refresh issues a new access token from a refresh token. The admin flag and
// subject come from the refresh claims, not from storage; no new refresh token
// is issued.
func (s *AuthService) Refresh(_ context.Context, req model.RefreshRequest) (model.Tokens, error) {
	if err := req.Validate(); err != nil {
		return model.Tokens{}, apierror.BadRequest("invalid refresh request", err.Error())
	}

	claims, err := auth.ValidateToken(req.RefreshToken, s.signing, auth.Refresh)
	if err != nil {
		return model.Tokens{}, err
	}

	userID, err := claims.UserID()
	if err != nil {
		return model.Tokens{}, apierror.Token("invalid token subject", err)
	}

	access, err := auth.IssueAccessToken(userID, s.signing.Now(), s.signing, claims.Admin)
	if err != nil {
		return model.Tokens{}, err
	}
	return newTokens(access, ""), nil
}

func (s *AuthService) Signup(ctx context.Context, in model.NewUser) (model.SafeUser, error) {
	if err := in.Validate(); err != nil {
		return model.SafeUser{}, apierror.BadRequest("invalid signup request", err.Error())
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return model.SafeUser{}, err
	}

	user, err := s.users.Create(ctx, model.UserRecord{
		Username:     in.Username,
		PasswordHash: hash,
		Nickname:     in.Nickname,
	})
	if err != nil {
		return model.SafeUser{}, err
	}

	slog.Info("user signed up", "user_id", user.ID, "username", user.Username)
	return user, nil
}

func (s *AuthService) Me(ctx context.Context) (model.SafeUser, error) {
	return auth.RequireIdentity(ctx)
}

// DeleteAccount removes the caller's own account.
func (s *AuthService) DeleteAccount(ctx context.Context) error {
	identity, err := auth.RequireIdentity(ctx)
	if err != nil {
		return err
	}

	if err := s.users.Delete(ctx, identity.ID); err != nil {
		return err
	}

	slog.Info("user deleted account", "user_id", identity.ID)
	return nil
}

// EnsureAdmin seeds one admin account when the users table is empty. It
// reports whether an account was created.
func (s *AuthService) EnsureAdmin(ctx context.Context, in model.NewUser) (bool, error) {
	if in.Username == "" || in.Password == "" {
		return false, nil
	}

	count, err := s.users.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	if in.Nickname == "" {
		in.Nickname = in.Username
	}
	if err := in.Validate(); err != nil {
		return false, apierror.BadRequest("invalid admin account", err.Error())
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return false, err
	}

	admin, err := s.users.Create(ctx, model.UserRecord{
		Username:     in.Username,
		PasswordHash: hash,
		Nickname:     in.Nickname,
		IsAdmin:      true,
	})
	if err != nil {
		return false, err
	}

	slog.Info("seeded admin account", "user_id", admin.ID, "username", admin.Username)
	return true, nil
}

func newTokens(access, refresh string) model.Tokens {
	return model.Tokens{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(auth.AccessTTL.Seconds()),
	}
}
