package polling

import (
	"context"
	"errors"
	"sync"

	"github.com/ellucian-developer/integration-sdk-go/pkg/contracts"
	"github.com/ellucian-developer/integration-sdk-go/pkg/model"
)

// registry is the subscriber -> subscription mapping shared by both
// publisher variants. Mutation happens on subscribe/unsubscribe under
// a single mutex, per spec's mutual-exclusion requirement.
type registry struct {
	mu   sync.Mutex
	subs map[*Subscription]bool
}

func newRegistry() *registry {
	return &registry{subs: make(map[*Subscription]bool)}
}

func (r *registry) add(sub *Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs[sub] = true
}

func (r *registry) remove(sub *Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subs, sub)
}

// PerItemPublisher dispatches each notification in every polled batch
// individually to its subscriber.
type PerItemPublisher struct {
	fetcher  Fetcher
	registry *registry
}

// NewPerItemPublisher builds a Publisher that fetches through fetcher.
func NewPerItemPublisher(fetcher Fetcher) *PerItemPublisher {
	return &PerItemPublisher{fetcher: fetcher, registry: newRegistry()}
}

// Subscribe registers subscriber, requests n notifications per fetch,
// and starts the polling loop. n may be DefaultBatchSize (the gateway
// default batch size) or a value in [1,1000].
func (p *PerItemPublisher) Subscribe(ctx context.Context, subscriber contracts.ItemSubscriber, n int) (*Subscription, error) {
	batchSize, err := clampBatchSize(n)
	if err != nil {
		return nil, err
	}

	var sub *Subscription
	sub = newSubscription(p.fetcher,
		func(ctx context.Context, batch []model.ChangeNotification) error {
			var errs []error
			for _, item := range batch {
				if err := subscriber.OnNext(ctx, item); err != nil {
					errs = append(errs, err)
				}
				if sub.canceled.Load() {
					break
				}
			}
			return errors.Join(errs...)
		},
		subscriber.OnError,
		func(ctx context.Context) {
			subscriber.OnComplete(ctx)
			p.registry.remove(sub)
			sub.stop()
		},
	)

	p.registry.add(sub)
	logSubscriptionStart(sub.id, batchSize)
	sub.request(ctx, batchSize)
	return sub, nil
}

// Unsubscribe cancels sub; its in-flight tick finishes before teardown.
func (p *PerItemPublisher) Unsubscribe(sub *Subscription) {
	sub.Cancel()
}

// PerBatchPublisher dispatches each polled batch as a whole list to
// its subscriber.
type PerBatchPublisher struct {
	fetcher  Fetcher
	registry *registry
}

// NewPerBatchPublisher builds a Publisher that fetches through fetcher.
func NewPerBatchPublisher(fetcher Fetcher) *PerBatchPublisher {
	return &PerBatchPublisher{fetcher: fetcher, registry: newRegistry()}
}

// Subscribe registers subscriber and starts the polling loop.
func (p *PerBatchPublisher) Subscribe(ctx context.Context, subscriber contracts.BatchSubscriber, n int) (*Subscription, error) {
	batchSize, err := clampBatchSize(n)
	if err != nil {
		return nil, err
	}

	var sub *Subscription
	sub = newSubscription(p.fetcher,
		func(ctx context.Context, batch []model.ChangeNotification) error {
			return subscriber.OnNextBatch(ctx, batch)
		},
		subscriber.OnError,
		func(ctx context.Context) {
			subscriber.OnComplete(ctx)
			p.registry.remove(sub)
			sub.stop()
		},
	)

	p.registry.add(sub)
	logSubscriptionStart(sub.id, batchSize)
	sub.request(ctx, batchSize)
	return sub, nil
}

// Unsubscribe cancels sub; its in-flight tick finishes before teardown.
func (p *PerBatchPublisher) Unsubscribe(sub *Subscription) {
	sub.Cancel()
}
