package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/zalando/go-keyring"
)

// DefaultKeyringService is the keychain service name entries are filed under.
const DefaultKeyringService = "gophmobile"

const keyringIndexKey = "_index"

// KeyringStore keeps values in the OS keychain. The keychain cannot be
// enumerated portably, so the store records its own keys under an index
// entry that Clear walks.
type KeyringStore struct {
	service string
	mu      sync.Mutex
}

func NewKeyringStore(service string) *KeyringStore {
	if service == "" {
		service = DefaultKeyringService
	}
	return &KeyringStore{service: service}
}

func (s *KeyringStore) Get(_ context.Context, key string) (string, bool, error) {
	v, err := keyring.Get(s.service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("keyring get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *KeyringStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := keyring.Set(s.service, key, value); err != nil {
		return fmt.Errorf("keyring set %s: %w", key, err)
	}
	return s.updateIndex(func(idx map[string]struct{}) { idx[key] = struct{}{} })
}

func (s *KeyringStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := keyring.Delete(s.service, key); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keyring delete %s: %w", key, err)
	}
	return s.updateIndex(func(idx map[string]struct{}) { delete(idx, key) })
}

func (s *KeyringStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.readIndex()
	if err != nil {
		return err
	}
	for key := range idx {
		if err := keyring.Delete(s.service, key); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("keyring delete %s: %w", key, err)
		}
	}
	if err := keyring.Delete(s.service, keyringIndexKey); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keyring delete index: %w", err)
	}
	return nil
}

func (s *KeyringStore) readIndex() (map[string]struct{}, error) {
	idx := map[string]struct{}{}
	raw, err := keyring.Get(s.service, keyringIndexKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return idx, nil
	}
	if err != nil {
		return nil, fmt.Errorf("keyring read index: %w", err)
	}

	var keys []string
	if err := json.Unmarshal([]byte(raw), &keys); err != nil {
		return nil, fmt.Errorf("keyring decode index: %w", err)
	}
	for _, k := range keys {
		idx[k] = struct{}{}
	}
	return idx, nil
}

func (s *KeyringStore) updateIndex(mutate func(map[string]struct{})) error {
	idx, err := s.readIndex()
	if err != nil {
		return err
	}
	mutate(idx)

	keys := make([]string, 0, len(idx))
	for k := range idx {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b, err := json.Marshal(keys)
	if err != nil {
		return err
	}
	if err := keyring.Set(s.service, keyringIndexKey, string(b)); err != nil {
		return fmt.Errorf("keyring write index: %w", err)
	}
	return nil
}
