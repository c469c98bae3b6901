package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/dmitrijs2005/gophmobile/internal/client/storage"
	"github.com/dmitrijs2005/gophmobile/internal/logging"
)

// DeliveryKind tells how a message reached the app.
type DeliveryKind string

const (
	// KindForeground arrives while the app is running.
	KindForeground DeliveryKind = "foreground"
	// KindOpened arrives when the user opens the app from a notification.
	KindOpened DeliveryKind = "opened"
	// KindInitial is the message that cold-started the app.
	KindInitial DeliveryKind = "initial"
)

type Delivery struct {
	Kind    DeliveryKind     `json:"kind"`
	Message RawRemoteMessage `json:"message"`
}

// PushProvider is the remote messaging channel.
type PushProvider interface {
	// DeviceToken registers the device if needed and returns its token.
	DeviceToken(ctx context.Context) (string, error)
	DeleteDeviceToken(ctx context.Context) error
	// Listen delivers messages to fn until ctx is cancelled or the channel
	// closes. Cancellation is not an error.
	Listen(ctx context.Context, fn func(Delivery)) error
}

const (
	DeviceTokenKey    = "push_device_token"
	DeviceTokenHeader = "X-Device-Token"
)

// WebSocketProvider receives pushes as JSON Delivery frames over a
// websocket. The device token is generated locally and kept in store.
type WebSocketProvider struct {
	url    string
	store  storage.Store
	dialer *websocket.Dialer
	log    logging.Logger

	mu sync.Mutex
}

func NewWebSocketProvider(url string, store storage.Store, log logging.Logger) *WebSocketProvider {
	return &WebSocketProvider{
		url:    url,
		store:  store,
		dialer: websocket.DefaultDialer,
		log:    log.With("component", "push"),
	}
}

func (p *WebSocketProvider) DeviceToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tok, ok, err := p.store.Get(ctx, DeviceTokenKey)
	if err != nil {
		return "", fmt.Errorf("read device token: %w", err)
	}
	if ok && tok != "" {
		return tok, nil
	}

	tok = uuid.NewString()
	if err := p.store.Set(ctx, DeviceTokenKey, tok); err != nil {
		return "", fmt.Errorf("save device token: %w", err)
	}
	p.log.Info(ctx, "device registered for push")
	return tok, nil
}

func (p *WebSocketProvider) DeleteDeviceToken(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.store.Remove(ctx, DeviceTokenKey); err != nil {
		return fmt.Errorf("delete device token: %w", err)
	}
	return nil
}

func (p *WebSocketProvider) Listen(ctx context.Context, fn func(Delivery)) error {
	tok, err := p.DeviceToken(ctx)
	if err != nil {
		return err
	}

	header := http.Header{}
	header.Set(DeviceTokenHeader, tok)

	conn, _, err := p.dialer.DialContext(ctx, p.url, header)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("dial push channel: %w", err)
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	p.log.Info(ctx, "push channel connected", "url", p.url)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				p.log.Info(ctx, "push channel closed")
				return nil
			}
			return fmt.Errorf("read push frame: %w", err)
		}

		var d Delivery
		if err := json.Unmarshal(data, &d); err != nil {
			p.log.Warn(ctx, "malformed push frame", "error", err)
			continue
		}

		switch d.Kind {
		case KindForeground, KindOpened, KindInitial:
			fn(d)
		default:
			p.log.Warn(ctx, "unknown push frame kind", "kind", d.Kind)
		}
	}
}
