package api

import (
	"context"
	"sync"
	"testing"

	"github.com/dmitrijs2005/gophmobile/internal/logging"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory storage.Store.
type memStore struct {
	mu   sync.Mutex
	data map[string]string
	// getErr, when set, is returned by every Get.
	getErr error
}

func newMemStore(kv ...string) *memStore {
	s := &memStore{data: map[string]string{}}
	for i := 0; i+1 < len(kv); i += 2 {
		s.data[kv[i]] = kv[i+1]
	}
	return s
}

func (s *memStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return "", false, s.getErr
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *memStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *memStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *memStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = map[string]string{}
	return nil
}

func (s *memStore) value(t *testing.T, key string) (string, bool) {
	t.Helper()
	v, ok, err := s.Get(context.Background(), key)
	require.NoError(t, err)
	return v, ok
}

func newTestClient(baseURL string, store *memStore) *Client {
	return New(NewTransport(baseURL, 0), store, logging.Nop())
}
