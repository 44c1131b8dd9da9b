package storage

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/vendordesk/internal/client/models"
	"github.com/dmitrijs2005/vendordesk/internal/common"
)

// TokenStore reads and writes the access/refresh token pair.
type TokenStore struct {
	store Store
}

func NewTokenStore(s Store) *TokenStore {
	return &TokenStore{store: s}
}

// Backend exposes the underlying store, used for the auth state snapshot.
func (t *TokenStore) Backend() Store {
	return t.store
}

func (t *TokenStore) Load(ctx context.Context) (models.Tokens, error) {
	var tok models.Tokens

	a, err := t.store.Get(ctx, common.AccessTokenKey)
	if err != nil {
		return tok, fmt.Errorf("load access token: %w", err)
	}
	r, err := t.store.Get(ctx, common.RefreshTokenKey)
	if err != nil {
		return tok, fmt.Errorf("load refresh token: %w", err)
	}

	tok.AccessToken = string(a)
	tok.RefreshToken = string(r)
	return tok, nil
}

// AccessToken returns the stored access token or "".
func (t *TokenStore) AccessToken(ctx context.Context) (string, error) {
	a, err := t.store.Get(ctx, common.AccessTokenKey)
	if err != nil {
		return "", err
	}
	return string(a), nil
}

// Save writes both tokens. An empty refresh token leaves the stored one in
// place, since some refresh responses do not rotate it.
func (t *TokenStore) Save(ctx context.Context, tok models.Tokens) error {
	return Update(ctx, t.store, func(ctx context.Context, s Store) error {
		if err := s.Set(ctx, common.AccessTokenKey, []byte(tok.AccessToken)); err != nil {
			return err
		}
		if tok.RefreshToken == "" {
			return nil
		}
		return s.Set(ctx, common.RefreshTokenKey, []byte(tok.RefreshToken))
	})
}

// Clear removes both tokens. Other keys are left alone.
func (t *TokenStore) Clear(ctx context.Context) error {
	return Update(ctx, t.store, func(ctx context.Context, s Store) error {
		if err := s.Delete(ctx, common.AccessTokenKey); err != nil {
			return err
		}
		return s.Delete(ctx, common.RefreshTokenKey)
	})
}
