package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mcreation/auth-service/internal/events"
	"github.com/mcreation/auth-service/internal/hash"
	"github.com/mcreation/auth-service/internal/logging"
	"github.com/mcreation/auth-service/internal/models"
	"github.com/mcreation/auth-service/internal/repo"
	"github.com/mcreation/auth-service/internal/tokens"
)

type AuthService struct {
	Repo   *repo.Repo
	Tokens *tokens.Service
	Events *events.Producer
}

// UserSummary is the profile shape returned to callers. It never carries
// the password hash.
type UserSummary struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

type AuthResult struct {
	User         UserSummary `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

func summary(u *models.User) UserSummary {
	return UserSummary{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// Register creates the user and their first session. Email is checked before
// username so duplicate errors are deterministic. User create and refresh
// token persist share one transaction: a failed token write must not leave
// an orphaned user behind.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if _, err := s.Repo.UserByEmail(ctx, email); err == nil {
		l.Warn("register_failed", "status", 400, "reason", "email_taken")
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		l.Error("register_failed", "status", 500, "reason", "db_error", "error", err)
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	if _, err := s.Repo.UserByUsername(ctx, username); err == nil {
		l.Warn("register_failed", "status", 400, "reason", "username_taken")
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		l.Error("register_failed", "status", 500, "reason", "db_error", "error", err)
		return nil, fmt.Errorf("lookup username: %w", err)
	}

	pwHash, err := hash.Password(password)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
	}

	var res *AuthResult
	err = s.Repo.Transaction(ctx, func(tx *repo.Repo) error {
		if err := tx.CreateUser(ctx, &user); err != nil {
			return err
		}
		issued, err := s.issueSession(ctx, tx, &user)
		if err != nil {
			return err
		}
		res = issued
		return nil
	})
	if err != nil {
		// A concurrent registration can still hit the unique constraints;
		// email is checked first, so report it as the email conflict.
		if errors.Is(err, repo.ErrUserConflict) {
			l.Warn("register_failed", "status", 400, "reason", "user_conflict")
			return nil, ErrEmailTaken
		}
		l.Error("register_failed", "status", 500, "error", err)
		return nil, err
	}

	s.publish(ctx, "user_registered", user.ID, user.Username)
	l.Info("register_success", "user_id", user.ID)
	return res, nil
}

// Authenticate verifies credentials and opens a new session. Unknown email
// and wrong password return the same error; an inactive account is allowed
// to be distinguishable.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.authenticate")

	user, err := s.Repo.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("authenticate_failed", "status", 401, "reason", "invalid email or password")
			return nil, ErrInvalidCredentials
		}
		l.Error("authenticate_failed", "status", 500, "reason", "db_error", "error", err)
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	if !user.IsActive {
		l.Warn("authenticate_failed", "status", 401, "reason", "account_inactive", "user_id", user.ID)
		return nil, ErrAccountInactive
	}

	if !hash.Check(user.PasswordHash, password) {
		l.Warn("authenticate_failed", "status", 401, "reason", "invalid email or password")
		return nil, ErrInvalidCredentials
	}

	res, err := s.issueSession(ctx, s.Repo, user)
	if err != nil {
		l.Error("authenticate_failed", "status", 500, "error", err)
		return nil, err
	}

	s.publish(ctx, "user_signed_in", user.ID, user.Username)
	l.Info("authenticate_success", "user_id", user.ID)
	return res, nil
}

// RotateAccessToken reissues the access token from a still-valid refresh
// token. The refresh token itself is not rotated; it stays usable until its
// own expiry or an explicit sign-out.
func (s *AuthService) RotateAccessToken(ctx context.Context, refreshToken string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.rotate")

	if refreshToken == "" {
		return "", ErrMissingToken
	}

	claims, err := s.Tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		l.Warn("rotate_failed", "status", 401, "reason", "verify", "error", err)
		return "", ErrInvalidRefreshToken
	}

	rec, err := s.Repo.ActiveRefreshToken(ctx, refreshToken, claims.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("rotate_failed", "status", 401, "reason", "token not found or revoked")
			return "", ErrInvalidRefreshToken
		}
		l.Error("rotate_failed", "status", 500, "reason", "db_error", "error", err)
		return "", fmt.Errorf("lookup refresh token: %w", err)
	}

	// The stored expiry is authoritative even though the signed token
	// embeds its own.
	if time.Now().Unix() > rec.ExpiresAt {
		l.Warn("rotate_failed", "status", 401, "reason", "stored_token_expired")
		return "", ErrRefreshTokenExpired
	}

	user, err := s.Repo.UserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrUserInactiveOrMissing
		}
		l.Error("rotate_failed", "status", 500, "reason", "db_error", "error", err)
		return "", fmt.Errorf("lookup user: %w", err)
	}
	if !user.IsActive {
		l.Warn("rotate_failed", "status", 401, "reason", "user_inactive", "user_id", user.ID)
		return "", ErrUserInactiveOrMissing
	}

	accessToken, err := s.Tokens.SignAccessToken(tokens.Payload{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
	})
	if err != nil {
		l.Error("rotate_failed", "status", 500, "reason", "cannot create token", "error", err)
		return "", fmt.Errorf("sign access token: %w", err)
	}

	l.Info("rotate_success", "user_id", user.ID)
	return accessToken, nil
}

// SignOut revokes the caller's refresh token. Scoped to userID, so a caller
// can never revoke another user's token. Idempotent: unknown or
// already-revoked tokens are not an error.
func (s *AuthService) SignOut(ctx context.Context, refreshToken string, userID uint) error {
	l := logging.FromContext(ctx).With("svc", "auth.signout", "user_id", userID)

	if refreshToken == "" {
		return ErrMissingToken
	}

	if err := s.Repo.RevokeRefreshToken(ctx, refreshToken, userID); err != nil {
		l.Error("signout_failed", "status", 500, "reason", "db_error", "error", err)
		return fmt.Errorf("revoke refresh token: %w", err)
	}

	s.publish(ctx, "user_signed_out", userID, "")
	l.Info("signout_success")
	return nil
}

// RevokeAll revokes every live refresh token the user holds.
func (s *AuthService) RevokeAll(ctx context.Context, userID uint) error {
	l := logging.FromContext(ctx).With("svc", "auth.revoke_all", "user_id", userID)

	if err := s.Repo.RevokeAllRefreshTokens(ctx, userID); err != nil {
		l.Error("revoke_all_failed", "status", 500, "reason", "db_error", "error", err)
		return fmt.Errorf("revoke all refresh tokens: %w", err)
	}

	l.Info("revoke_all_success")
	return nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID uint) (*UserSummary, error) {
	user, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	sum := summary(user)
	return &sum, nil
}

// issueSession mints both tokens and persists the refresh record through the
// given repo view (transactional during Register).
func (s *AuthService) issueSession(ctx context.Context, r *repo.Repo, user *models.User) (*AuthResult, error) {
	payload := tokens.Payload{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
	}

	accessToken, err := s.Tokens.SignAccessToken(payload)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refreshToken, expiresAt, err := s.Tokens.SignRefreshToken(payload)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	rec := models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: expiresAt.Unix(),
	}
	if err := r.CreateRefreshToken(ctx, &rec); err != nil {
		return nil, fmt.Errorf("persist refresh token: %w", err)
	}

	return &AuthResult{
		User:         summary(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *AuthService) publish(ctx context.Context, eventType string, userID uint, username string) {
	if s.Events == nil {
		return
	}

	event := map[string]any{
		"type":    eventType,
		"user_id": userID,
	}
	if username != "" {
		event["username"] = username
	}

	if err := s.Events.Publish(ctx, fmt.Sprint(userID), event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "type", eventType, "error", err)
	}
}
