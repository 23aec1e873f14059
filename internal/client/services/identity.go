package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/finiam/notes-app/internal/client/client"
	"github.com/finiam/notes-app/internal/logging"
	"github.com/google/uuid"
)

// IdentityResolver maps an identity signature to the user's opaque token,
// registering a new token on first contact.
type IdentityResolver struct {
	client client.Client
	rand   io.Reader
	logger logging.Logger
}

func NewIdentityResolver(c client.Client, rand io.Reader, logger logging.Logger) *IdentityResolver {
	return &IdentityResolver{client: c, rand: rand, logger: logger}
}

// Resolve returns the opaque token for signature. Two sessions racing to
// register the same signature both end up with the token that was stored
// first.
func (r *IdentityResolver) Resolve(ctx context.Context, signature string) (string, error) {
	token, err := r.client.LookupUser(ctx, signature)
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, client.ErrNotFound) {
		return "", fmt.Errorf("%w: %w", ErrUserLookupFailed, err)
	}

	id, err := uuid.NewRandomFromReader(r.rand)
	if err != nil {
		return "", fmt.Errorf("%w: generate token: %w", ErrUserLookupFailed, err)
	}
	token = id.String()

	err = r.client.CreateUser(ctx, signature, token)
	switch {
	case err == nil:
		r.logger.Info(ctx, "registered new user")
		return token, nil
	case errors.Is(err, client.ErrAlreadyExists):
		r.logger.Debug(ctx, "user registered concurrently, re-reading token")
		token, err = r.client.LookupUser(ctx, signature)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrUserLookupFailed, err)
		}
		return token, nil
	default:
		return "", fmt.Errorf("%w: %w", ErrUserLookupFailed, err)
	}
}
