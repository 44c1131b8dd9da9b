package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/vendordesk/internal/common"
	"github.com/dmitrijs2005/vendordesk/internal/cryptox"
)

// SaltKey holds the Argon2id salt next to the sealed values. It is never
// encrypted and survives Clear.
const SaltKey = "vault-salt"

// ErrWrongPassphrase is returned when a stored value cannot be opened with the
// derived key.
var ErrWrongPassphrase = errors.New("wrong passphrase or corrupted value")

// EncryptedStore seals every value with AES-GCM before handing it to the
// wrapped store.
type EncryptedStore struct {
	inner Store
	key   []byte
	salt  []byte
}

// NewEncryptedStore derives the key from passphrase and the salt kept in
// inner, generating and saving a salt on first use.
func NewEncryptedStore(ctx context.Context, inner Store, passphrase []byte) (*EncryptedStore, error) {
	salt, err := inner.Get(ctx, SaltKey)
	if err != nil {
		return nil, fmt.Errorf("load salt: %w", err)
	}
	if len(salt) == 0 {
		salt = common.GenerateRandByteArray(cryptox.SaltSize)
		if err := inner.Set(ctx, SaltKey, salt); err != nil {
			return nil, fmt.Errorf("save salt: %w", err)
		}
	}

	return &EncryptedStore{
		inner: inner,
		key:   cryptox.DeriveKey(passphrase, salt),
		salt:  salt,
	}, nil
}

func (e *EncryptedStore) Get(ctx context.Context, key string) ([]byte, error) {
	sealed, err := e.inner.Get(ctx, key)
	if err != nil || sealed == nil {
		return nil, err
	}
	plain, err := cryptox.Open(sealed, e.key)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", key, ErrWrongPassphrase)
	}
	return plain, nil
}

func (e *EncryptedStore) Set(ctx context.Context, key string, value []byte) error {
	sealed, err := cryptox.Seal(value, e.key)
	if err != nil {
		return fmt.Errorf("seal %s: %w", key, err)
	}
	return e.inner.Set(ctx, key, sealed)
}

func (e *EncryptedStore) Delete(ctx context.Context, key string) error {
	return e.inner.Delete(ctx, key)
}

// Clear removes every value and writes the salt back so the passphrase keeps
// working.
func (e *EncryptedStore) Clear(ctx context.Context) error {
	if err := e.inner.Clear(ctx); err != nil {
		return err
	}
	return e.inner.Set(ctx, SaltKey, e.salt)
}

func (e *EncryptedStore) Update(ctx context.Context, fn func(ctx context.Context, s Store) error) error {
	return Update(ctx, e.inner, func(ctx context.Context, tx Store) error {
		return fn(ctx, &EncryptedStore{inner: tx, key: e.key, salt: e.salt})
	})
}

// Wipe zeroes the derived key. The store is unusable afterwards.
func (e *EncryptedStore) Wipe() {
	common.WipeByteArray(e.key)
}
