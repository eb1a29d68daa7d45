// Package notification delivers reorder alerts outside the process
package notification

import (
	"context"
	"encoding/json"
	"fmt"

	appinventory "github.com/mercearia/backend/internal/application/inventory"
	"github.com/redis/go-redis/v9"
)

// DefaultChannelPrefix prefixes the per-store alert channel
const DefaultChannelPrefix = "mercearia:reorder:"

// recentAlerts is how many alerts are kept per store for late readers
const recentAlerts = 100

// RedisNotifier publishes reorder alerts on a per-store pub/sub channel and
// keeps the latest ones in a capped list under the same key
type RedisNotifier struct {
	client *redis.Client
	prefix string
}

// NewRedisNotifier creates a RedisNotifier. An empty prefix uses DefaultChannelPrefix.
func NewRedisNotifier(client *redis.Client, prefix string) *RedisNotifier {
	if prefix == "" {
		prefix = DefaultChannelPrefix
	}
	return &RedisNotifier{client: client, prefix: prefix}
}

// Channel returns the channel alerts for storeID are published on
func (n *RedisNotifier) Channel(storeID string) string {
	return n.prefix + storeID
}

// SendAlert implements appinventory.ReorderNotifier
func (n *RedisNotifier) SendAlert(ctx context.Context, alert appinventory.ReorderAlert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("encode reorder alert: %w", err)
	}
	key := n.Channel(alert.StoreID)
	_, err = n.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Publish(ctx, key, payload)
		pipe.LPush(ctx, key, payload)
		pipe.LTrim(ctx, key, 0, recentAlerts-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("publish reorder alert: %w", err)
	}
	return nil
}

// Recent returns up to limit of the store's latest alerts, newest first
func (n *RedisNotifier) Recent(ctx context.Context, storeID string, limit int) ([]appinventory.ReorderAlert, error) {
	if limit <= 0 || limit > recentAlerts {
		limit = recentAlerts
	}
	raw, err := n.client.LRange(ctx, n.Channel(storeID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read reorder alerts: %w", err)
	}
	alerts := make([]appinventory.ReorderAlert, 0, len(raw))
	for _, r := range raw {
		var a appinventory.ReorderAlert
		if err := json.Unmarshal([]byte(r), &a); err != nil {
			continue
		}
		alerts = append(alerts, a)
	}
	return alerts, nil
}

var _ appinventory.ReorderNotifier = (*RedisNotifier)(nil)
