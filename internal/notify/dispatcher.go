// Package notify fans triggered alerts out to the channels configured on a
// rule. Channels fail independently: one broken transport never blocks the
// others, and the dispatcher never raises to its caller.
package notify

import (
	"context"
	"log"
	"sync"

	"github.com/pulsewatch/internal/models"
)

const (
	OutcomeSent   = "sent"
	OutcomeFailed = "failed"
)

// Result is one (channel key, outcome) pair. Channels that address
// individual recipients return one result per recipient.
type Result struct {
	Key     string
	Outcome string
}

// Channel is a notification transport.
type Channel interface {
	Key() string
	Send(ctx context.Context, alert *models.Alert, rule *models.AlertRule) []Result
}

type Dispatcher struct {
	channels map[string]Channel
}

func NewDispatcher(channels ...Channel) *Dispatcher {
	d := &Dispatcher{channels: make(map[string]Channel, len(channels))}
	for _, channel := range channels {
		d.channels[channel.Key()] = channel
	}
	return d
}

// Dispatch sends the alert through every channel configured on the rule,
// concurrently, and aggregates the per-channel outcomes. Unknown channel
// keys are no-ops. Never returns an error.
func (d *Dispatcher) Dispatch(ctx context.Context, alert *models.Alert, rule *models.AlertRule) map[string]string {
	status := make(map[string]string)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, key := range rule.Channels {
		channel, ok := d.channels[key]
		if !ok {
			log.Printf("Alert %d: no sender configured for channel %q, skipping", alert.ID, key)
			continue
		}

		wg.Add(1)
		go func(key string, channel Channel) {
			defer wg.Done()
			for _, result := range d.send(ctx, key, channel, alert, rule) {
				mu.Lock()
				status[result.Key] = result.Outcome
				mu.Unlock()
			}
		}(key, channel)
	}

	wg.Wait()
	return status
}

// send invokes one channel, converting a panic into a failed outcome so a
// misbehaving transport cannot take the batch down.
func (d *Dispatcher) send(ctx context.Context, key string, channel Channel, alert *models.Alert, rule *models.AlertRule) (results []Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Channel %s panicked sending alert %d: %v", key, alert.ID, r)
			results = []Result{{Key: key, Outcome: OutcomeFailed}}
		}
	}()
	return channel.Send(ctx, alert, rule)
}
