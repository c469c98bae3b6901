package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophmobile/internal/client/repositories/auth"
	"github.com/dmitrijs2005/gophmobile/internal/client/storage"
	"github.com/dmitrijs2005/gophmobile/internal/common"
)

// DeviceID returns a DeviceIDFunc backed by store. The id is generated on
// first use and kept under common.KeyDeviceID; logout does not remove it.
func DeviceID(store storage.Store) auth.DeviceIDFunc {
	var mu sync.Mutex
	return func(ctx context.Context) (string, error) {
		mu.Lock()
		defer mu.Unlock()

		id, ok, err := store.Get(ctx, common.KeyDeviceID)
		if err != nil {
			return "", fmt.Errorf("read device id: %w", err)
		}
		if ok && id != "" {
			return id, nil
		}

		id = uuid.NewString()
		if err := store.Set(ctx, common.KeyDeviceID, id); err != nil {
			return "", fmt.Errorf("save device id: %w", err)
		}
		return id, nil
	}
}
