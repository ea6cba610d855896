package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/siakadcloud/siakad-backend/internal/config"
	"github.com/siakadcloud/siakad-backend/internal/notification"
)

const notifyPollTimeout = 1 * time.Second

// NotifyWorker drains the Redis notify queue and hands each message to the
// FCM pusher. Handlers only enqueue, so a slow or failing push service never
// delays a request.
type NotifyWorker struct {
	rdb    *redis.Client
	pusher *notification.Pusher
	log    zerolog.Logger
}

func NewNotifyWorker(rdb *redis.Client, pusher *notification.Pusher, log zerolog.Logger) *NotifyWorker {
	return &NotifyWorker{
		rdb:    rdb,
		pusher: pusher,
		log:    log.With().Str("component", "notify_worker").Logger(),
	}
}

// Start blocks on the queue until ctx is cancelled. Malformed payloads are
// dropped; send failures are already swallowed inside the pusher.
func (w *NotifyWorker) Start(ctx context.Context) {
	w.log.Info().Msg("NotifyWorker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("NotifyWorker stopped")
			return
		default:
			item, err := w.rdb.BLPop(ctx, notifyPollTimeout, config.Keys.NotifyQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}
			if len(item) < 2 {
				continue
			}

			var msg notification.QueuedMessage
			if err := json.Unmarshal([]byte(item[1]), &msg); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			w.pusher.Send(ctx, msg.Tokens, msg.Title, msg.Body)
		}
	}
}
