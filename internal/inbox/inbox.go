// Package inbox serves the consolidated moderation inbox: it fetches every
// report source concurrently, merges them, applies the operator's search and
// type filter and keeps one review controller per operator.
package inbox

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/ahmetcoskunkizilkaya/moderation-inbox/internal/reports"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sync/errgroup"
)

// Query is what an operator has typed and picked in the inbox toolbar.
type Query struct {
	Status reports.StatusFilter
	Text   string
	Type   reports.TypeFilter
}

// View is one rendering of the inbox.
type View struct {
	Status  reports.StatusFilter
	Reports []reports.ModerationReport
	Loading bool
	Errors  map[reports.Type]error
}

type Config struct {
	// CacheSize and CacheTTL bound how long a loaded source result is reused.
	CacheSize int
	CacheTTL  time.Duration
	// SourceTimeout bounds one source read. A source that misses it is shown
	// as still loading.
	SourceTimeout time.Duration
}

type Inbox struct {
	sources []reports.Source
	cfg     Config
	cache   *expirable.LRU[string, reports.Result]
	aggs    *xsync.MapOf[reports.StatusFilter, *reports.Aggregator]
	// generation changes on every Invalidate. A fetch only caches its result
	// if no invalidation happened while it was in flight.
	generation atomic.Uint64
}

func New(sources []reports.Source, cfg Config) *Inbox {
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 64
	}
	if cfg.SourceTimeout <= 0 {
		cfg.SourceTimeout = 10 * time.Second
	}
	return &Inbox{
		sources: sources,
		cfg:     cfg,
		cache:   expirable.NewLRU[string, reports.Result](cfg.CacheSize, nil, cfg.CacheTTL),
		aggs:    xsync.NewMapOf[reports.StatusFilter, *reports.Aggregator](),
	}
}

func cacheKey(status reports.StatusFilter, t reports.Type) string {
	if status.IsAll() {
		status = reports.StatusAll
	}
	return fmt.Sprintf("%s/%s", status, t)
}

// Load fetches every source for status, reusing cached results that are
// still fresh, and returns the aggregated list. Slow or failed sources
// contribute nothing and are reported through Loading and Errors.
func (ib *Inbox) Load(ctx context.Context, status reports.StatusFilter) View {
	if status.IsAll() {
		status = reports.StatusAll
	}

	start := time.Now()
	gen := ib.generation.Load()
	results := make([]reports.Result, len(ib.sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range ib.sources {
		key := cacheKey(status, src.Type())
		if cached, ok := ib.cache.Get(key); ok {
			results[i] = cached
			sourceCacheHits.WithLabelValues(string(src.Type())).Inc()
			continue
		}
		i, src := i, src
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(gctx, ib.cfg.SourceTimeout)
			defer cancel()

			res := src.Fetch(fctx, status)
			results[i] = res
			sourceFetches.WithLabelValues(string(src.Type()), res.State.String()).Inc()
			switch res.State {
			case reports.Loaded:
				ib.store(gen, key, res)
			case reports.Failed:
				slog.Error("report source failed", "source", string(src.Type()), "status", string(status), "error", res.Err)
			}
			return nil
		})
	}
	_ = g.Wait()

	agg, _ := ib.aggs.LoadOrCompute(status, reports.NewAggregator)
	view := View{
		Status:  status,
		Reports: agg.Aggregate(results...),
		Loading: reports.Loading(results...),
		Errors:  reports.Errors(results...),
	}
	inboxLoadDuration.Observe(time.Since(start).Seconds())
	return view
}

// Query loads the inbox for q.Status and applies the text and type filter.
func (ib *Inbox) Query(ctx context.Context, q Query) View {
	view := ib.Load(ctx, q.Status)
	view.Reports = reports.Filter(view.Reports, q.Text, q.Type)
	return view
}

// Invalidate drops every cached source result. It runs after any report
// changes status since that moves it between status filters.
func (ib *Inbox) Invalidate() {
	ib.generation.Add(1)
	ib.cache.Purge()
}

// store caches res unless the inbox was invalidated after gen was read. The
// check and the add are not atomic, so the entry is removed again if an
// invalidation slipped in between.
func (ib *Inbox) store(gen uint64, key string, res reports.Result) {
	if ib.generation.Load() != gen {
		return
	}
	ib.cache.Add(key, res)
	if ib.generation.Load() != gen {
		ib.cache.Remove(key)
	}
}
