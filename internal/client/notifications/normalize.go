// Package notifications turns push-provider payloads into notification
// records and drives the enable/permission state machine around them.
package notifications

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophmobile/internal/client/models"
	"github.com/dmitrijs2005/gophmobile/internal/common"
)

const (
	DefaultTitle = "Notification"

	remoteIDPrefix = "remote"
	localIDPrefix  = "notification"
	suffixBytes    = 3
)

// RawNotification is the display block a provider may attach.
type RawNotification struct {
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`
}

// RawRemoteMessage is a provider payload before normalization. SentTime is
// epoch milliseconds; zero means absent.
type RawRemoteMessage struct {
	MessageID    string           `json:"messageId,omitempty"`
	SentTime     int64            `json:"sentTime,omitempty"`
	Data         map[string]any   `json:"data,omitempty"`
	Notification *RawNotification `json:"notification,omitempty"`
}

// Normalize maps raw to a RemotePushMessage. now stands in for a missing
// sent time.
func Normalize(raw RawRemoteMessage, now time.Time) models.RemotePushMessage {
	sent := now
	if raw.SentTime > 0 {
		sent = time.UnixMilli(raw.SentTime)
	}

	data := normalizeData(raw.Data)

	id := raw.MessageID
	if id == "" {
		id = makeID(remoteIDPrefix, sent)
	}

	title, body := "", ""
	if raw.Notification != nil {
		title, body = raw.Notification.Title, raw.Notification.Body
	}
	if title == "" {
		title = data["title"]
	}
	if title == "" {
		title = DefaultTitle
	}
	if body == "" {
		body = data["body"]
	}

	return models.RemotePushMessage{
		ID:       id,
		Title:    title,
		Body:     body,
		Type:     models.ParseNotificationType(data["type"]),
		SentTime: sent,
		Data:     data,
	}
}

// ToNotification builds the stored, unread record for m.
func ToNotification(m models.RemotePushMessage) models.Notification {
	return models.Notification{
		ID:        m.ID,
		Title:     m.Title,
		Body:      m.Body,
		Type:      m.Type,
		Read:      false,
		CreatedAt: m.SentTime.UTC(),
	}
}

func normalizeData(in map[string]any) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		if s, ok := v.(string); ok {
			out[k] = s
			continue
		}
		b, err := json.Marshal(v)
		if err != nil {
			out[k] = fmt.Sprint(v)
			continue
		}
		out[k] = string(b)
	}
	return out
}

// makeID returns "<prefix>-<millis>-<6 hex chars>".
func makeID(prefix string, at time.Time) string {
	suffix, err := common.MakeRandHexString(suffixBytes)
	if err != nil {
		suffix = strconv.FormatInt(time.Now().UnixNano()&0xffffff, 16)
	}
	return fmt.Sprintf("%s-%d-%s", prefix, at.UnixMilli(), suffix)
}
