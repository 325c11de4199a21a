package price

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/rovshanmuradov/launchpad/internal/events"
)

// Fetcher serves quotes from a Cache and goes to the Source only when the cache
// has expired. Concurrent callers on an expired cache share one request.
// Failures keep the previous quote.
type Fetcher struct {
	name   string
	source Source
	cache  *Cache
	now    func() time.Time
	group  singleflight.Group
	logger *zap.Logger
}

type quote struct {
	value  float64
	cached bool
}

// FetcherOption customizes a Fetcher.
type FetcherOption func(*Fetcher)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) FetcherOption {
	return func(f *Fetcher) { f.now = now }
}

// NewFetcher creates a fetcher named after what it quotes (e.g. "ETH", "reward token").
func NewFetcher(name string, source Source, ttl time.Duration, logger *zap.Logger, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		name:   name,
		source: source,
		cache:  NewCache(ttl),
		now:    time.Now,
		logger: logger.Named("price").With(zap.String("quote", name)),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Get returns the current quote. The returned flag is true when a cached value
// was served because the cache was fresh or the fetch failed.
func (f *Fetcher) Get(ctx context.Context) (float64, bool) {
	if !f.cache.IsExpired(f.now()) {
		return f.cache.Value(), true
	}
	v, _, _ := f.group.Do(f.name, func() (interface{}, error) {
		return f.fetch(ctx), nil
	})
	q := v.(quote)
	return q.value, q.cached
}

func (f *Fetcher) fetch(ctx context.Context) quote {
	// A flight that finished just before this one was joined may have refilled the cache.
	now := f.now()
	if !f.cache.IsExpired(now) {
		return quote{value: f.cache.Value(), cached: true}
	}

	v, err := f.source.Quote(ctx)
	if err != nil {
		f.logger.Warn("Price fetch failed, keeping previous price",
			zap.Float64("previous", f.cache.Value()),
			zap.Error(err))
		return quote{value: f.cache.Value(), cached: true}
	}
	f.cache.Store(v, now)
	f.logger.Debug("Price fetched", zap.Float64("price", v))
	return quote{value: v}
}

// Current returns the cached quote without fetching.
func (f *Fetcher) Current() float64 {
	return f.cache.Value()
}

func (f *Fetcher) Name() string {
	return f.name
}

// Interval is the cache TTL, also used as the poll interval.
func (f *Fetcher) Interval() time.Duration {
	return f.cache.TTL()
}

// Poller re-invokes a Fetcher on a fixed interval and publishes each result.
type Poller struct {
	fetcher   *Fetcher
	interval  time.Duration
	publisher events.Publisher
	logger    *zap.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewPoller creates a poller. It is bound to parent: cancelling parent or calling
// Stop ends the loop and aborts a request in flight.
func NewPoller(parent context.Context, fetcher *Fetcher, publisher events.Publisher, logger *zap.Logger) *Poller {
	if publisher == nil {
		publisher = events.Discard
	}
	ctx, cancel := context.WithCancel(parent)
	return &Poller{
		fetcher:   fetcher,
		interval:  fetcher.Interval(),
		publisher: publisher,
		logger:    logger.Named("price_poller"),
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
}

// Start runs the poll loop; it blocks until Stop or parent cancellation.
func (p *Poller) Start() {
	defer close(p.done)

	p.logger.Info("Starting price poller",
		zap.String("quote", p.fetcher.Name()),
		zap.Duration("interval", p.interval))

	p.poll()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.poll()
		case <-p.ctx.Done():
			p.logger.Debug("Price poller stopped")
			return
		}
	}
}

// Stop cancels the loop and waits for it to exit. It must only be called after Start.
func (p *Poller) Stop() {
	p.cancel()
	<-p.done
}

func (p *Poller) poll() {
	v, stale := p.fetcher.Get(p.ctx)
	if p.ctx.Err() != nil {
		// torn down mid-request; nobody is listening any more
		return
	}
	_ = p.publisher.Publish(events.PriceUpdatedEvent{
		BaseEvent: events.NewBase(events.PriceUpdated, time.Now()),
		Source:    p.fetcher.Name(),
		Price:     v,
		Stale:     stale,
	})
}
