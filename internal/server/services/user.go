// Package services contains server-side business logic. This file implements
// UserService, which maps identity signatures to stored tokens and issues
// access tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/finiam/notes-app/internal/common"
	"github.com/finiam/notes-app/internal/cryptox"
	"github.com/finiam/notes-app/internal/dbx"
	"github.com/finiam/notes-app/internal/logging"
	"github.com/finiam/notes-app/internal/server/auth"
	"github.com/finiam/notes-app/internal/server/config"
	"github.com/finiam/notes-app/internal/server/models"
	"github.com/finiam/notes-app/internal/server/repositories/repomanager"
)

// UserService provides identity operations:
// - LookupUser: return the token registered for a signature
// - CreateUser: register a token for a new signature
//
// Both mint an access token scoped to the signature's identity.
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	logger                      logging.Logger
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		logger:                      logger,
	}
}

// Session is what a successful lookup or registration returns.
type Session struct {
	Identity    string
	Token       string
	AccessToken string
}

// LookupUser returns the token stored for signature. Unknown signatures
// yield common.ErrorNotFound.
func (s *UserService) LookupUser(ctx context.Context, signature string) (*Session, error) {
	if signature == "" {
		return nil, fmt.Errorf("%w: signature is required", common.ErrorValidation)
	}
	identity := cryptox.IdentityFromSignature(signature)

	user, err := s.repomanager.Users(s.db).GetByIdentity(ctx, identity)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	return s.newSession(identity, user.Token)
}

// CreateUser registers token for signature. If the identity is already
// registered it returns common.ErrorAlreadyExists and keeps the stored
// token.
func (s *UserService) CreateUser(ctx context.Context, signature, token string) (*Session, error) {
	if signature == "" || token == "" {
		return nil, fmt.Errorf("%w: signature and token are required", common.ErrorValidation)
	}
	identity := cryptox.IdentityFromSignature(signature)

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		_, err := repo.GetByIdentity(ctx, identity)
		switch {
		case err == nil:
			return common.ErrorAlreadyExists
		case !errors.Is(err, common.ErrorNotFound):
			return err
		}
		_, err = repo.Create(ctx, &models.User{Identity: identity, Token: token})
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		s.logger.Error(ctx, "user registration failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user registered", "identity", identity)
	return s.newSession(identity, token)
}

func (s *UserService) newSession(identity, token string) (*Session, error) {
	access, err := auth.GenerateToken(identity, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &Session{Identity: identity, Token: token, AccessToken: access}, nil
}
