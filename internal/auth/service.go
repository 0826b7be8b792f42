// Package auth orchestrates credential verification and session issuance.
// The Service verifies and creates credentials; the Gate enforces "must be
// logged in" on protected routes. Neither performs HTTP writes itself: both
// return values (cookies, redirect targets, lookup outcomes) that the HTTP
// layer turns into responses.
package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/jokehub-dev/jokehub/internal/models"
	"github.com/jokehub-dev/jokehub/internal/password"
	"github.com/jokehub-dev/jokehub/internal/session"
)

// userIDKey is the single session payload key in use: the authenticated
// principal's User.ID.
const userIDKey = "userId"

// Service verifies credentials and creates accounts.
type Service struct {
	db       *gorm.DB
	hasher   *password.Hasher
	sessions *session.Store
	logger   zerolog.Logger
}

// NewService creates an auth service backed by the given datastore,
// password hasher, and session store.
func NewService(db *gorm.DB, hasher *password.Hasher, sessions *session.Store, logger zerolog.Logger) *Service {
	return &Service{
		db:       db,
		hasher:   hasher,
		sessions: sessions,
		logger:   logger,
	}
}

// Login verifies the credentials and returns the matching user.
// It has no side effects; session issuance is a separate explicit step
// (CreateUserSession) performed by the caller. An unknown username and a
// wrong password both return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, plaintext string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(plaintext, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// Register hashes the password and creates the user. Username uniqueness is
// enforced by the datastore constraint rather than a pre-check, so two
// concurrent registrations cannot both slip through: exactly one insert
// succeeds and the other reports ErrDuplicateUsername.
func (s *Service) Register(ctx context.Context, username, plaintext string) (*models.User, error) {
	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("User registered")
	return user, nil
}

// CreateUserSession mints a signed session cookie for the user and returns
// it alongside the redirect target the HTTP layer should send the client to.
// This is the only path that produces a valid authenticated session.
func (s *Service) CreateUserSession(userID, redirectTo string) (*http.Cookie, string, error) {
	sess := s.sessions.New()
	sess.Set(userIDKey, userID)
	cookie, err := sess.Commit()
	if err != nil {
		return nil, "", err
	}

	s.logger.Info().Str("user_id", userID).Msg("Session created")
	return cookie, redirectTo, nil
}
