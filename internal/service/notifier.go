package service

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/siakadcloud/siakad-backend/internal/config"
	"github.com/siakadcloud/siakad-backend/internal/notification"
)

// Notifier hands push notifications off to the background worker through a
// Redis list. Enqueueing is best effort: a Redis hiccup is logged and the
// triggering request still succeeds.
type Notifier struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewNotifier creates a new Notifier.
func NewNotifier(rdb *redis.Client, log zerolog.Logger) *Notifier {
	return &Notifier{rdb: rdb, log: log.With().Str("component", "notifier").Logger()}
}

// Enqueue pushes one notification job for the worker to deliver.
func (n *Notifier) Enqueue(ctx context.Context, tokens []string, title, body string) {
	if len(tokens) == 0 {
		return
	}
	payload, err := json.Marshal(notification.QueuedMessage{
		Tokens: tokens,
		Title:  title,
		Body:   body,
	})
	if err != nil {
		n.log.Error().Err(err).Msg("marshal notification")
		return
	}
	if err := n.rdb.RPush(ctx, config.Keys.NotifyQueue, payload).Err(); err != nil {
		n.log.Warn().Err(err).Str("title", title).Msg("enqueue notification failed")
	}
}
