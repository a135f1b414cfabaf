/*
gateway.go - Rate source gateway with keyed caching

PURPOSE:
  Owns every interaction with the external rate sources. Each dataset is
  fetched at most once per (year, kind) for the life of the gateway; callers
  hit the in-memory cache after the first load. The gateway is an
  instantiable service holding its own cache - no package-level state - so
  tests and independent sessions get isolation.

CACHING:
  An explicit keyed map from (year, kind) to a result-or-in-flight entry.
  Concurrent callers for the same key share one underlying fetch: the first
  caller loads, later callers block on the entry's done channel. Results are
  idempotent pure functions of the key, so a cached failure is also final
  for the gateway's lifetime except network failures, which are evicted so
  a later request can retry.

SECOND-LEVEL STORE:
  An optional DatasetStore persists raw payloads across restarts. Only
  payloads that parsed successfully are written back.

PUBLICATION LAG:
  Every January the current year's international archive may not exist yet;
  the upstream serves an error page instead of a ZIP. When the requested
  year is the current year and the clock says January, the gateway falls
  back to the prior year's archive and logs a warning. Any other non-ZIP
  payload is a hard CorruptArchive failure.
*/
package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// DatasetKind distinguishes the cached dataset families.
type DatasetKind string

const (
	KindDomesticLodging DatasetKind = "domestic-lodging"
	KindDomesticMeals   DatasetKind = "domestic-meals"
	KindInternational   DatasetKind = "intl"
)

// DatasetStore is an optional persistent cache of raw dataset payloads.
// Implemented by store/sqlite; nil disables second-level caching.
type DatasetStore interface {
	Get(ctx context.Context, year int, kind DatasetKind) ([]byte, bool, error)
	Put(ctx context.Context, year int, kind DatasetKind, payload []byte) error
}

type datasetKey struct {
	year int
	kind DatasetKind
}

// inflight is one cache slot: done closes when the load completes.
type inflight struct {
	done chan struct{}
	data any
	err  error
}

// Gateway fetches and caches rate datasets.
type Gateway struct {
	fetcher Fetcher
	store   DatasetStore
	logger  *log.Logger
	now     func() time.Time

	mu    sync.Mutex
	cache map[datasetKey]*inflight
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithStore attaches a persistent dataset cache.
func WithStore(s DatasetStore) Option {
	return func(g *Gateway) { g.store = s }
}

// WithLogger overrides the default logger.
func WithLogger(l *log.Logger) Option {
	return func(g *Gateway) { g.logger = l }
}

// WithClock overrides the wall clock, for tests exercising the January
// fallback window.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) { g.now = now }
}

// NewGateway builds a gateway around the given fetch capability.
func NewGateway(fetcher Fetcher, opts ...Option) *Gateway {
	g := &Gateway{
		fetcher: fetcher,
		logger:  log.Default(),
		now:     time.Now,
		cache:   make(map[datasetKey]*inflight),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// DomesticLodging returns the domestic lodging table for the given year.
func (g *Gateway) DomesticLodging(ctx context.Context, year int) ([]DomesticRateRecord, error) {
	v, err := g.load(ctx, datasetKey{year, KindDomesticLodging}, g.loadDomesticLodging)
	if err != nil {
		return nil, err
	}
	return v.([]DomesticRateRecord), nil
}

// DomesticMeals returns the domestic meals table for the given year.
func (g *Gateway) DomesticMeals(ctx context.Context, year int) ([]MealsRateRecord, error) {
	v, err := g.load(ctx, datasetKey{year, KindDomesticMeals}, g.loadDomesticMeals)
	if err != nil {
		return nil, err
	}
	return v.([]MealsRateRecord), nil
}

// International returns the parsed international dataset for the given year,
// transparently substituting the prior year during the January publication
// gap.
func (g *Gateway) International(ctx context.Context, year int) ([]IntlRateRecord, error) {
	v, err := g.load(ctx, datasetKey{year, KindInternational}, g.loadInternational)
	if err != nil {
		return nil, err
	}
	return v.([]IntlRateRecord), nil
}

// load is the cache protocol: one fetch per key, concurrent callers share
// the in-flight entry.
func (g *Gateway) load(ctx context.Context, key datasetKey, fn func(context.Context, int) (any, error)) (any, error) {
	g.mu.Lock()
	if entry, ok := g.cache[key]; ok {
		g.mu.Unlock()
		select {
		case <-entry.done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return entry.data, entry.err
	}
	entry := &inflight{done: make(chan struct{})}
	g.cache[key] = entry
	g.mu.Unlock()

	entry.data, entry.err = fn(ctx, key.year)
	close(entry.done)

	// Network failures are transient; evict so a later call can retry.
	if entry.err != nil && errors.Is(entry.err, ErrNetworkFailure) {
		g.mu.Lock()
		delete(g.cache, key)
		g.mu.Unlock()
	}
	return entry.data, entry.err
}

func (g *Gateway) loadDomesticLodging(ctx context.Context, year int) (any, error) {
	raw, fromStore, err := g.rawDataset(ctx, year, KindDomesticLodging)
	if err != nil {
		return nil, err
	}
	var records []DomesticRateRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parsing domestic lodging table for %d: %w", year, err)
	}
	g.persist(ctx, year, KindDomesticLodging, raw, fromStore)
	return records, nil
}

func (g *Gateway) loadDomesticMeals(ctx context.Context, year int) (any, error) {
	raw, fromStore, err := g.rawDataset(ctx, year, KindDomesticMeals)
	if err != nil {
		return nil, err
	}
	var records []MealsRateRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parsing domestic meals table for %d: %w", year, err)
	}
	g.persist(ctx, year, KindDomesticMeals, raw, fromStore)
	return records, nil
}

func (g *Gateway) loadInternational(ctx context.Context, year int) (any, error) {
	raw, fromStore, err := g.rawDataset(ctx, year, KindInternational)
	if err != nil {
		return nil, err
	}

	if !IsZIPArchive(raw) {
		now := g.now()
		if year != now.Year() || now.Month() != time.January {
			return nil, fmt.Errorf("%w: international archive for %d", ErrCorruptArchive, year)
		}
		// Publication lag: the current year's archive is not out yet.
		g.logger.Printf("WARN: international archive for %d not yet published, falling back to %d", year, year-1)
		fallbackYear := year - 1
		raw, fromStore, err = g.rawDataset(ctx, fallbackYear, KindInternational)
		if err != nil {
			return nil, err
		}
		if !IsZIPArchive(raw) {
			return nil, fmt.Errorf("%w: international archive for %d", ErrCorruptArchive, fallbackYear)
		}
		records, err := ExtractArchive(raw)
		if err != nil {
			return nil, err
		}
		g.persist(ctx, fallbackYear, KindInternational, raw, fromStore)
		return records, nil
	}

	records, err := ExtractArchive(raw)
	if err != nil {
		return nil, err
	}
	g.persist(ctx, year, KindInternational, raw, fromStore)
	return records, nil
}

// rawDataset returns the raw payload for a key, preferring the persistent
// store when configured. The boolean reports whether the payload came from
// the store (and so needs no write-back).
func (g *Gateway) rawDataset(ctx context.Context, year int, kind DatasetKind) ([]byte, bool, error) {
	if g.store != nil {
		payload, ok, err := g.store.Get(ctx, year, kind)
		if err != nil {
			g.logger.Printf("WARN: dataset store read for %s/%d failed: %v", kind, year, err)
		} else if ok {
			return payload, true, nil
		}
	}
	raw, err := g.fetcher.Fetch(ctx, datasetPath(year, kind))
	if err != nil {
		return nil, false, err
	}
	return raw, false, nil
}

// persist writes a successfully parsed payload back to the store.
func (g *Gateway) persist(ctx context.Context, year int, kind DatasetKind, payload []byte, fromStore bool) {
	if g.store == nil || fromStore {
		return
	}
	if err := g.store.Put(ctx, year, kind, payload); err != nil {
		g.logger.Printf("WARN: dataset store write for %s/%d failed: %v", kind, year, err)
	}
}

// datasetPath maps a key to the proxy resource path. The proxy translates
// these to upstream URLs; the core never sees them.
func datasetPath(year int, kind DatasetKind) string {
	switch kind {
	case KindDomesticLodging:
		return fmt.Sprintf("rates/lodging?year=%d", year)
	case KindDomesticMeals:
		return fmt.Sprintf("rates/mie?year=%d", year)
	case KindInternational:
		return fmt.Sprintf("rates/oconus?year=%d", year)
	}
	return ""
}
