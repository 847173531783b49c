package reports

import (
	"slices"
	"sync"
)

// Aggregate merges the loaded results in argument order and sorts by
// CreatedAt descending. Sources that are not loaded or failed contribute
// nothing. Ties keep concatenation order.
func Aggregate(results ...Result) []ModerationReport {
	n := 0
	for _, r := range results {
		if r.State == Loaded {
			n += len(r.Items)
		}
	}

	merged := make([]ModerationReport, 0, n)
	for _, r := range results {
		if r.State == Loaded {
			merged = append(merged, r.Items...)
		}
	}

	slices.SortStableFunc(merged, func(a, b ModerationReport) int {
		switch {
		case a.CreatedAt > b.CreatedAt:
			return -1
		case a.CreatedAt < b.CreatedAt:
			return 1
		}
		return 0
	})
	return merged
}

// Aggregator memoizes Aggregate on the identity of its inputs: the merge is
// recomputed only when some source result changed since the last call.
type Aggregator struct {
	mu   sync.Mutex
	keys []aggKey
	out  []ModerationReport
}

type aggKey struct {
	state   LoadState
	version uint64
}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Aggregate returns the merged list. Callers must treat the returned slice
// as read-only since it may be shared with earlier and later calls.
func (a *Aggregator) Aggregate(results ...Result) []ModerationReport {
	keys := make([]aggKey, len(results))
	for i, r := range results {
		keys[i] = aggKey{state: r.State, version: r.Version}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.out != nil && slices.Equal(a.keys, keys) {
		return a.out
	}
	a.keys = keys
	a.out = Aggregate(results...)
	return a.out
}
