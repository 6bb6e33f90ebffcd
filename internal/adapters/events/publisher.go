// Package events は通知を Redis Pub/Sub へ配信します。
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ogurasousui/staffing-workflow/internal/core/notification"
)

// DefaultChannel は通知イベントの既定チャネルです。
const DefaultChannel = "staffing.notifications"

const eventTypeNotificationCreated = "notification.created"

// Publisher は redis.Client の Publish 部分です。
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// NotificationEvent はチャネルへ送る JSON の形式です。
type NotificationEvent struct {
	EventID        string    `json:"eventId"`
	Type           string    `json:"type"`
	NotificationID string    `json:"notificationId"`
	UserID         string    `json:"userId"`
	Title          string    `json:"title"`
	Body           string    `json:"body,omitempty"`
	Category       string    `json:"category,omitempty"`
	ProjectID      string    `json:"projectId,omitempty"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// NotificationPublisher は notification.Publisher の Redis 実装です。
type NotificationPublisher struct {
	client  Publisher
	channel string
}

// NewNotificationPublisher は NotificationPublisher を生成します。channel が空なら DefaultChannel を使います。
func NewNotificationPublisher(client Publisher, channel string) *NotificationPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &NotificationPublisher{client: client, channel: channel}
}

// Publish は通知をイベントとして配信します。
func (p *NotificationPublisher) Publish(ctx context.Context, n *notification.Notification) error {
	payload, err := json.Marshal(NotificationEvent{
		EventID:        uuid.NewString(),
		Type:           eventTypeNotificationCreated,
		NotificationID: n.ID,
		UserID:         n.UserID,
		Title:          n.Title,
		Body:           n.Body,
		Category:       string(n.Category),
		ProjectID:      n.ProjectID,
		OccurredAt:     n.CreatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("events: marshal notification: %w", err)
	}

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("events: publish to %s: %w", p.channel, err)
	}
	return nil
}

// NewRedisClient は URL から Redis クライアントを生成し疎通確認を行います。
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("events: parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("events: redis ping: %w", err)
	}
	return client, nil
}
