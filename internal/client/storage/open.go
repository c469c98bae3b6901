package storage

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/gophmobile/internal/client/config"
	"github.com/dmitrijs2005/gophmobile/internal/client/migrations"
	"github.com/dmitrijs2005/gophmobile/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

const dbFileName = "gophmobile.db"

// Stores groups the stores opened for one process.
type Stores struct {
	Plain  *SQLiteStore
	Secure Store
	DB     *sql.DB
}

func (s *Stores) Close() error {
	return s.DB.Close()
}

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if needed) the database under cfg.DataDir, migrates
// it and builds the plain and secure stores.
func Open(ctx context.Context, cfg *config.Config) (*Stores, error) {
	dir, err := filex.EnsureDir(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, dbFileName))
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	var secure Store
	switch cfg.SecureStoreBackend {
	case config.SecureBackendKeyring:
		secure = NewKeyringStore(DefaultKeyringService)
	case config.SecureBackendMemory:
		secure = NewMemoryStore()
	case config.SecureBackendSQLite, "":
		enc, err := NewEncryptedStore(ctx, db, cfg.SecureStoreSecret)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		secure = enc
	default:
		_ = db.Close()
		return nil, fmt.Errorf("unknown secure store backend %q", cfg.SecureStoreBackend)
	}

	return &Stores{Plain: NewSQLiteStore(db), Secure: secure, DB: db}, nil
}
