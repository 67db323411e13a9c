// Package polling drives the long-running pull loop against the
// message queue and dispatches drained notifications to subscribers,
// either one at a time or as whole batches.
package polling

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ellucian-developer/integration-sdk-go/pkg/ethoserr"
	"github.com/ellucian-developer/integration-sdk-go/pkg/model"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultBatchSize is the sentinel meaning "use the gateway's default
// batch size" when a subscription doesn't request an explicit count.
const DefaultBatchSize = 0

const (
	minNotifications = 1
	maxNotifications = 1000

	defaultGatewayBatchSize = 25
	initialDelay            = time.Second
	defaultPollingInterval  = 60 * time.Second
)

// Fetcher drains up to n notifications from the message queue. n is
// always in [1,1000]: a subscription requested with DefaultBatchSize
// passes defaultGatewayBatchSize instead.
type Fetcher interface {
	Fetch(ctx context.Context, n int) ([]model.ChangeNotification, error)
}

// Subscription is the per-subscriber state machine: NEW -> READY ->
// ACTIVE -> CANCELED -> TERMINATED. Cancellation is cooperative via a
// single atomic flag, observed at two points per tick: before a fetch,
// and between dispatches within a drained batch.
type Subscription struct {
	id       string
	fetcher  Fetcher
	interval time.Duration

	canceled     atomic.Bool
	cancelNotify chan struct{}
	cancelOnce   sync.Once
	ticker       *time.Ticker
	stopCh       chan struct{}
	doneCh       chan struct{}

	mu      sync.Mutex
	running bool

	dispatch func(ctx context.Context, batch []model.ChangeNotification) error
	onError  func(ctx context.Context, err error)
	onDone   func(ctx context.Context)
}

// newSubscription builds a Subscription in the NEW state. request
// transitions it to ACTIVE.
func newSubscription(fetcher Fetcher, dispatch func(context.Context, []model.ChangeNotification) error, onError func(context.Context, error), onDone func(context.Context)) *Subscription {
	return &Subscription{
		id:           uuid.NewString(),
		fetcher:      fetcher,
		interval:     defaultPollingInterval,
		cancelNotify: make(chan struct{}),
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
		dispatch:     dispatch,
		onError:      onError,
		onDone:       onDone,
	}
}

// ID returns the subscription's correlation ID.
func (s *Subscription) ID() string { return s.id }

// request transitions READY -> ACTIVE: n notifications per fetch
// (already resolved from DefaultBatchSize by clampBatchSize), initial
// delay 1s, then period = s.interval.
func (s *Subscription) request(ctx context.Context, n int) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	go s.run(ctx, n)
}

func (s *Subscription) run(ctx context.Context, n int) {
	defer close(s.doneCh)

	timer := time.NewTimer(initialDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
		if !s.tick(ctx, n) {
			return
		}
	case <-s.cancelNotify:
		s.terminate(ctx)
		return
	case <-s.stopCh:
		return
	case <-ctx.Done():
		return
	}

	s.ticker = time.NewTicker(s.interval)
	defer s.ticker.Stop()

	for {
		select {
		case <-s.ticker.C:
			if !s.tick(ctx, n) {
				return
			}
		case <-s.cancelNotify:
			s.terminate(ctx)
			return
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// tick runs the drain protocol once. Returns false when the
// subscription tore itself down (canceled or hard-stopped) and the
// polling loop should exit.
func (s *Subscription) tick(ctx context.Context, n int) bool {
	if s.canceled.Load() {
		s.terminate(ctx)
		return false
	}

	for {
		batch, err := s.fetcher.Fetch(ctx, n)
		if err != nil {
			s.onError(ctx, ethoserr.Wrap(ethoserr.Subscription, "fetch failed", err))
			s.terminate(ctx)
			return false
		}
		if len(batch) == 0 {
			return true
		}

		if err := s.dispatch(ctx, batch); err != nil {
			// Subscriber-raised failure: isolate it from the fetch
			// pipeline. The loop keeps running.
			s.onError(ctx, err)
		}

		if s.canceled.Load() {
			s.terminate(ctx)
			return false
		}
	}
}

func (s *Subscription) terminate(ctx context.Context) {
	s.onDone(ctx)
}

// Cancel atomically sets the cancellation flag and wakes the scheduler
// if it's idle between ticks. An in-flight tick completes its current
// batch, then observes the flag and tears down on its own; an idle
// subscription tears down as soon as Cancel is observed, without
// waiting for the next scheduled tick.
func (s *Subscription) Cancel() {
	s.canceled.Store(true)
	s.cancelOnce.Do(func() { close(s.cancelNotify) })
}

// stop halts the scheduler immediately, used once the tick loop has
// already observed cancellation and torn itself down.
func (s *Subscription) stop() {
	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}
}

// Wait blocks until the subscription's polling loop has exited.
func (s *Subscription) Wait() {
	<-s.doneCh
}

func clampBatchSize(n int) (int, error) {
	if n == DefaultBatchSize {
		return defaultGatewayBatchSize, nil
	}
	if n < minNotifications || n > maxNotifications {
		return 0, ethoserr.InvalidArg("Subscription", "numNotifications", "must be between 1 and 1000")
	}
	return n, nil
}

func logSubscriptionStart(id string, n int) {
	log.Debug().Str("subscription_id", id).Int("batch_size", n).Msg("ethos: poll subscription started")
}
