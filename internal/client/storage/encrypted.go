package storage

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophmobile/internal/common"
	"github.com/dmitrijs2005/gophmobile/internal/cryptox"
)

const (
	saltKey  = "_secure_salt"
	saltSize = 16
)

// EncryptedStore keeps values in the secure_kv table sealed with AES-GCM.
// The key is derived from a device secret and a per-database salt, so a
// copied database file is useless without the secret.
type EncryptedStore struct {
	db  *sql.DB
	key []byte
}

// NewEncryptedStore derives the store key, creating and persisting the salt
// on first use.
func NewEncryptedStore(ctx context.Context, db *sql.DB, secret string) (*EncryptedStore, error) {
	salt, err := loadSalt(ctx, db)
	if err != nil {
		return nil, err
	}
	return &EncryptedStore{db: db, key: cryptox.DeriveKey([]byte(secret), salt)}, nil
}

func loadSalt(ctx context.Context, db *sql.DB) ([]byte, error) {
	encoded, ok, err := getKV(ctx, db, saltKey)
	if err != nil {
		return nil, err
	}
	if ok {
		salt, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("decode salt: %w", err)
		}
		return salt, nil
	}

	salt := common.GenerateRandByteArray(saltSize)
	if err := setKV(ctx, db, saltKey, base64.StdEncoding.EncodeToString(salt)); err != nil {
		return nil, err
	}
	return salt, nil
}

func (s *EncryptedStore) Get(ctx context.Context, key string) (string, bool, error) {
	var sealed []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM secure_kv WHERE key = ?`, key).Scan(&sealed)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get secure[%s]: %w", key, err)
	}

	plain, err := cryptox.Open(s.key, sealed)
	if err != nil {
		return "", false, fmt.Errorf("failed to open secure[%s]: %w", key, err)
	}
	return string(plain), true, nil
}

func (s *EncryptedStore) Set(ctx context.Context, key, value string) error {
	sealed, err := cryptox.Seal(s.key, []byte(value))
	if err != nil {
		return fmt.Errorf("failed to seal secure[%s]: %w", key, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO secure_kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, sealed)
	if err != nil {
		return fmt.Errorf("failed to set secure[%s]: %w", key, err)
	}
	return nil
}

func (s *EncryptedStore) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM secure_kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to remove secure[%s]: %w", key, err)
	}
	return nil
}

func (s *EncryptedStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM secure_kv`); err != nil {
		return fmt.Errorf("failed to clear secure store: %w", err)
	}
	return nil
}
