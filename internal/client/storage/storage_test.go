package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/dmitrijs2005/gophmobile/internal/client/config"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, RunMigrations(context.Background(), db))
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestRunMigrations_CreatesTablesAndIsIdempotent(t *testing.T) {
	db := setupDB(t)

	require.NoError(t, RunMigrations(context.Background(), db))

	assert.True(t, tableExists(t, db, "goose_db_version"))
	assert.True(t, tableExists(t, db, "kv"))
	assert.True(t, tableExists(t, db, "secure_kv"))
}

// storeContract runs the behaviour every Store must share.
func storeContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	v, ok, err := s.Get(ctx, "absent")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)

	require.NoError(t, s.Set(ctx, "k", "old"))
	require.NoError(t, s.Set(ctx, "k", "new"))
	v, ok, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "new", v)

	require.NoError(t, s.Remove(ctx, "k"))
	require.NoError(t, s.Remove(ctx, "k"))
	_, ok, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "a", "1"))
	require.NoError(t, s.Set(ctx, "b", "2"))
	require.NoError(t, s.Clear(ctx))
	for _, k := range []string{"a", "b"} {
		_, ok, err = s.Get(ctx, k)
		require.NoError(t, err)
		assert.False(t, ok, k)
	}
}

func TestSQLiteStore_Contract(t *testing.T) {
	storeContract(t, NewSQLiteStore(setupDB(t)))
}

func TestEncryptedStore_Contract(t *testing.T) {
	db := setupDB(t)
	s, err := NewEncryptedStore(context.Background(), db, "device-secret")
	require.NoError(t, err)
	storeContract(t, s)
}

func TestKeyringStore_Contract(t *testing.T) {
	keyring.MockInit()
	storeContract(t, NewKeyringStore(""))
}

func TestMemoryStore_Contract(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestSQLiteStore_SetManyRemoveManyKeys(t *testing.T) {
	s := NewSQLiteStore(setupDB(t))
	ctx := context.Background()

	require.NoError(t, s.SetMany(ctx, map[string]string{"b": "2", "a": "1", "c": "3"}))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, keys)

	require.NoError(t, s.RemoveMany(ctx, "a", "c", "missing"))
	keys, err = s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, keys)
}

func TestSQLiteStore_ClosedDBErrorsWrapped(t *testing.T) {
	db := setupDB(t)
	s := NewSQLiteStore(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, _, err := s.Get(ctx, "k")
	require.ErrorContains(t, err, "failed to get kv[k]")
	require.ErrorContains(t, s.Set(ctx, "k", "v"), "failed to set kv[k]")
	require.ErrorContains(t, s.Remove(ctx, "k"), "failed to remove kv[k]")
	require.ErrorContains(t, s.Clear(ctx), "failed to clear kv")
}

func TestEncryptedStore_ValuesAreNotStoredInPlaintext(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	s, err := NewEncryptedStore(ctx, db, "device-secret")
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "access_token", "access-token-123"))

	var raw []byte
	require.NoError(t, db.QueryRow(`SELECT value FROM secure_kv WHERE key = 'access_token'`).Scan(&raw))
	assert.NotContains(t, string(raw), "access-token-123")
}

func TestEncryptedStore_SaltSurvivesReopenAndClearKeepsIt(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	s1, err := NewEncryptedStore(ctx, db, "device-secret")
	require.NoError(t, err)
	require.NoError(t, s1.Set(ctx, "k", "v"))

	plain := NewSQLiteStore(db)
	require.NoError(t, plain.Clear(ctx))

	s2, err := NewEncryptedStore(ctx, db, "device-secret")
	require.NoError(t, err)
	v, ok, err := s2.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	wrong, err := NewEncryptedStore(ctx, db, "other-secret")
	require.NoError(t, err)
	_, _, err = wrong.Get(ctx, "k")
	require.Error(t, err)
}

func TestObjectHelpers(t *testing.T) {
	s := NewSQLiteStore(setupDB(t))
	ctx := context.Background()

	type prefs struct {
		Theme string `json:"theme"`
	}

	var got prefs
	ok, err := GetObject(ctx, s, "prefs", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, SetObject(ctx, s, "prefs", prefs{Theme: "dark"}))
	ok, err = GetObject(ctx, s, "prefs", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", got.Theme)

	require.NoError(t, s.Set(ctx, "broken", "{"))
	_, err = GetObject(ctx, s, "broken", &got)
	require.Error(t, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("sqlite backend", func(t *testing.T) {
		cfg := &config.Config{DataDir: filepath.Join(t.TempDir(), "data"), SecureStoreBackend: config.SecureBackendSQLite, SecureStoreSecret: "s"}
		st, err := Open(ctx, cfg)
		require.NoError(t, err)
		t.Cleanup(func() { _ = st.Close() })

		assert.IsType(t, &EncryptedStore{}, st.Secure)
		require.NoError(t, st.Plain.Set(ctx, "user", "{}"))
	})

	t.Run("keyring backend", func(t *testing.T) {
		keyring.MockInit()
		cfg := &config.Config{DataDir: t.TempDir(), SecureStoreBackend: config.SecureBackendKeyring}
		st, err := Open(ctx, cfg)
		require.NoError(t, err)
		t.Cleanup(func() { _ = st.Close() })

		assert.IsType(t, &KeyringStore{}, st.Secure)
	})

	t.Run("memory backend", func(t *testing.T) {
		cfg := &config.Config{DataDir: t.TempDir(), SecureStoreBackend: config.SecureBackendMemory}
		st, err := Open(ctx, cfg)
		require.NoError(t, err)
		t.Cleanup(func() { _ = st.Close() })

		assert.IsType(t, &MemoryStore{}, st.Secure)
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := &config.Config{DataDir: t.TempDir(), SecureStoreBackend: "vault"}
		_, err := Open(ctx, cfg)
		require.Error(t, err)
	})
}
