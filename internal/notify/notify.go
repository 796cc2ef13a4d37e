// Package notify fans the daily summary out to the configured channels.
package notify

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Notifier drives the delivery chain: desktop toast first, push second. Both
// channels are best-effort; the console line printed by the caller is the
// delivery of last resort.
type Notifier struct {
	desktop bool
	push    *Client
}

func NewNotifier(desktop bool, push *Client) *Notifier {
	return &Notifier{desktop: desktop, push: push}
}

func (n *Notifier) Publish(ctx context.Context, title, message string) {
	if n.desktop {
		if err := Toast(title, message); err != nil {
			log.Warn().Err(err).Msg("Desktop toast failed")
		} else {
			log.Debug().Str("title", title).Msg("Desktop toast shown")
		}
	}

	if n.push != nil {
		if err := n.push.Send(ctx, title, message); err != nil {
			log.Warn().Err(err).Msg("Push notification failed")
		}
	}
}
