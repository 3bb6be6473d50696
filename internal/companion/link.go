package companion

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weather-watchface/internal/logging"
	"github.com/i474232898/weather-watchface/internal/weather"
)

// Fetcher produces a bundle on demand.
type Fetcher interface {
	FetchBundle(ctx context.Context) ([]weather.Tuple, error)
}

// Deliverer accepts inbound bundles, i.e. the watchface engine.
type Deliverer interface {
	Deliver(tuples []weather.Tuple)
}

// Link connects the watchface's forecast requests to a Fetcher. Requests
// never block the caller; answers are handed to the attached Deliverer.
// Failed fetches are only logged, so the watch notices the silence through
// its data-lost timeout.
type Link struct {
	fetcher Fetcher
	timeout time.Duration

	mu     sync.RWMutex
	target Deliverer

	inflight atomic.Bool
	wg       sync.WaitGroup
}

// NewLink creates a Link. timeout bounds each fetch.
func NewLink(fetcher Fetcher, timeout time.Duration) *Link {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Link{fetcher: fetcher, timeout: timeout}
}

// Attach sets where answers are delivered.
func (l *Link) Attach(target Deliverer) {
	l.mu.Lock()
	l.target = target
	l.mu.Unlock()
}

// RequestForecast starts a fetch in the background. A request made while
// another is still running is dropped.
func (l *Link) RequestForecast() {
	if !l.inflight.CompareAndSwap(false, true) {
		logging.Debug("companion: request already in flight, skipping")
		return
	}

	log := logging.With("requestId", uuid.NewString())
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer l.inflight.Store(false)

		ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
		defer cancel()

		start := time.Now()
		tuples, err := l.fetcher.FetchBundle(ctx)
		if err != nil {
			log.Error("companion: forecast request failed", "err", err)
			return
		}

		l.mu.RLock()
		target := l.target
		l.mu.RUnlock()
		if target == nil {
			log.Warn("companion: no watch attached, dropping bundle")
			return
		}

		target.Deliver(tuples)
		log.Info("companion: bundle delivered",
			"tuples", len(tuples),
			"took", time.Since(start),
		)
	}()
}

// Wait blocks until all running fetches have finished.
func (l *Link) Wait() {
	l.wg.Wait()
}
