// Package notification delivers push messages through Firebase Cloud
// Messaging. Delivery is best effort end to end: per-token failures are
// counted and logged, never retried, and never surfaced to callers.
package notification

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/siakadcloud/siakad-backend/internal/config"
)

// FCM multicast messages carry at most 500 tokens each.
const multicastLimit = 500

// Pusher sends push notifications to registered device tokens.
type Pusher struct {
	client *messaging.Client
	log    zerolog.Logger
}

// New initializes the FCM client from the configured service account file.
// Returns a disabled pusher when no credentials are configured; Send then
// becomes a logged no-op.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Pusher, error) {
	p := &Pusher{log: log.With().Str("component", "pusher").Logger()}
	if cfg.FCMCredentialsFile == "" {
		p.log.Warn().Msg("FCM credentials not configured, push notifications disabled")
		return p, nil
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(cfg.FCMCredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase messaging: %w", err)
	}
	p.client = client
	p.log.Info().Msg("FCM connected")
	return p, nil
}

// Send delivers title/body to every token, chunked to FCM's multicast limit.
// Partial failure is acceptable: failed tokens are logged and dropped.
func (p *Pusher) Send(ctx context.Context, tokens []string, title, body string) {
	if p.client == nil || len(tokens) == 0 {
		return
	}

	for start := 0; start < len(tokens); start += multicastLimit {
		end := min(start+multicastLimit, len(tokens))
		chunk := tokens[start:end]

		resp, err := p.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
			Tokens: chunk,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
		})
		if err != nil {
			p.log.Warn().Err(err).Int("tokens", len(chunk)).Msg("push send failed")
			continue
		}
		if resp.FailureCount > 0 {
			p.log.Warn().
				Int("failed", resp.FailureCount).
				Int("sent", resp.SuccessCount).
				Msg("push partially delivered")
		}
	}
}
