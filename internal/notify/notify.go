// Package notify tells proposers that their proposal was answered. Delivery
// is best effort: failures are logged and never reach the response flow.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sujalbistaa/proposal/internal/models"
)

// Notification is the context of one response email.
type Notification struct {
	ProposalID    string
	ToEmail       string
	ProposerName  string
	RecipientName string
	ProposalType  string
	Response      models.Response
	StatusLink    string
}

// Sender delivers a notification and reports whether it went out.
type Sender interface {
	Send(ctx context.Context, n Notification) bool
}

// Disabled is the Sender used when no provider is configured.
type Disabled struct {
	Log zerolog.Logger
}

func (d Disabled) Send(_ context.Context, n Notification) bool {
	d.Log.Debug().Str("id", n.ProposalID).Msg("notifications disabled, skipping")
	return false
}

// Dispatcher runs each Send on its own goroutine with its own deadline, so
// the caller never waits on the provider.
type Dispatcher struct {
	sender  Sender
	timeout time.Duration
	log     zerolog.Logger
	wg      sync.WaitGroup
}

func NewDispatcher(sender Sender, timeout time.Duration, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, timeout: timeout, log: log}
}

// Dispatch queues n and returns immediately. Notifications without a
// recipient address are dropped.
func (d *Dispatcher) Dispatch(n Notification) {
	if n.ToEmail == "" {
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if !d.sender.Send(ctx, n) {
			d.log.Warn().Str("id", n.ProposalID).Msg("response notification not delivered")
			return
		}
		d.log.Info().Str("id", n.ProposalID).Msg("response notification sent")
	}()
}

// Wait blocks until every dispatched notification has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
