// Package auth implements account management for SnapBoard: email/password
// signup with link-based verification, sign-in that rejects unverified
// accounts, profile updates and account deletion.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/JeongUpGi/SnapBoard/internal/database"
	"github.com/JeongUpGi/SnapBoard/internal/email"
	"github.com/JeongUpGi/SnapBoard/internal/model"
	"github.com/JeongUpGi/SnapBoard/internal/session"
)

// VerificationTokenTTL defines how long verification links remain valid
const VerificationTokenTTL = 24 * time.Hour

// Service defines the account management interface
type Service interface {
	SignUp(ctx context.Context, email, password, nickname string) (*model.User, error)
	VerifyEmail(ctx context.Context, token string) error
	SignIn(ctx context.Context, email, password string) (*model.User, error)
	GetUserByID(ctx context.Context, userID string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID, nickname, photoURL string) (*model.User, error)
	DeleteAccount(ctx context.Context, userID string) error
}

type service struct {
	db         database.Service
	tokenStore session.Store
	sender     email.Sender
	publicURL  string
}

// NewService creates a new account service. publicURL is the externally
// reachable base URL used to build verification links.
func NewService(db database.Service, tokenStore session.Store, sender email.Sender, publicURL string) Service {
	return &service{
		db:         db,
		tokenStore: tokenStore,
		sender:     sender,
		publicURL:  publicURL,
	}
}

// SignUp validates the input, creates an unverified account and sends the
// verification link.
func (s *service) SignUp(ctx context.Context, addr, password, nickname string) (*model.User, error) {
	if err := ValidateSignup(addr, password, password, nickname); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:        uuid.New().String(),
		Email:     addr,
		Nickname:  nickname,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	const q = `
		INSERT INTO users (id, email, password, nickname, verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, FALSE, $5, $6)
	`
	if _, err := s.db.Exec(ctx, q, user.ID, user.Email, string(hash), user.Nickname, user.CreatedAt, user.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.sendVerificationLink(ctx, user); err != nil {
		// The account exists but the link could not be delivered; the user
		// can request a new link by signing up again after deletion, so
		// surface the configuration problem.
		return nil, err
	}

	slog.Info("Created new account", "email", user.Email, "user_id", user.ID)
	return user, nil
}

func (s *service) sendVerificationLink(ctx context.Context, user *model.User) error {
	token := uuid.New().String()
	key := fmt.Sprintf("verify:%s", token)

	if err := s.tokenStore.Set(ctx, key, user.ID, VerificationTokenTTL); err != nil {
		return fmt.Errorf("%w: failed to store verification token: %v", ErrNetworkFailure, err)
	}

	link := fmt.Sprintf("%s/auth/verify?token=%s", s.publicURL, token)
	if err := s.sender.SendVerificationLink(user.Email, link); err != nil {
		return fmt.Errorf("%w: %v", ErrUnauthorizedContinueURL, err)
	}
	return nil
}

// VerifyEmail redeems a verification token and marks the account verified.
func (s *service) VerifyEmail(ctx context.Context, token string) error {
	key := fmt.Sprintf("verify:%s", token)

	userID, err := s.tokenStore.Get(ctx, key)
	if err != nil {
		return ErrInvalidToken
	}

	if _, err := s.db.Exec(ctx, `UPDATE users SET verified = TRUE, updated_at = NOW() WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}

	if err := s.tokenStore.Delete(ctx, key); err != nil {
		slog.Warn("Failed to delete verification token", "error", err)
	}

	slog.Info("Verified account", "user_id", userID)
	return nil
}

// SignIn checks the credentials and rejects accounts that never completed
// email verification.
func (s *service) SignIn(ctx context.Context, addr, password string) (*model.User, error) {
	if !ValidateEmail(addr) {
		return nil, ErrInvalidEmail
	}

	const q = `
		SELECT id, email, password, nickname, photo_url, verified, created_at, updated_at
		FROM users WHERE email = $1
	`
	var user model.User
	var hash string
	err := s.db.QueryRow(ctx, q, addr).Scan(
		&user.ID, &user.Email, &hash, &user.Nickname, &user.PhotoURL,
		&user.Verified, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkFailure, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, ErrWrongPassword
	}

	if !user.Verified {
		return nil, ErrNotVerified
	}

	return &user, nil
}

// GetUserByID retrieves a user by their ID
func (s *service) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	const q = `
		SELECT id, email, nickname, photo_url, verified, created_at, updated_at
		FROM users WHERE id = $1
	`
	var user model.User
	err := s.db.QueryRow(ctx, q, userID).Scan(
		&user.ID, &user.Email, &user.Nickname, &user.PhotoURL,
		&user.Verified, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// UpdateProfile changes the nickname and/or profile image of an account.
// Propagation to denormalized author fields on posts and comments is the
// gateway's job; callers run it after this succeeds.
func (s *service) UpdateProfile(ctx context.Context, userID, nickname, photoURL string) (*model.User, error) {
	if nickname != "" && !ValidateNickname(nickname) {
		return nil, ErrNicknameTooShort
	}

	const q = `
		UPDATE users
		SET nickname = COALESCE(NULLIF($1, ''), nickname),
		    photo_url = COALESCE(NULLIF($2, ''), photo_url),
		    updated_at = NOW()
		WHERE id = $3
		RETURNING id, email, nickname, photo_url, verified, created_at, updated_at
	`
	var user model.User
	err := s.db.QueryRow(ctx, q, nickname, photoURL, userID).Scan(
		&user.ID, &user.Email, &user.Nickname, &user.PhotoURL,
		&user.Verified, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	slog.Info("Updated profile", "user_id", user.ID, "nickname", user.Nickname)
	return &user, nil
}

// DeleteAccount removes the account record. Posts, comments and like
// relations the user created stay behind with their denormalized author
// fields, matching the feed's lifecycle rules.
func (s *service) DeleteAccount(ctx context.Context, userID string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	slog.Info("Deleted account", "user_id", userID)
	return nil
}

// isUniqueViolation checks for a Postgres unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
