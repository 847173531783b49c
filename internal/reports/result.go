package reports

import "sync/atomic"

// LoadState distinguishes "still loading" from "loaded, possibly empty"
// and from "the read failed".
type LoadState int

const (
	NotLoaded LoadState = iota
	Loaded
	Failed
)

func (s LoadState) String() string {
	switch s {
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "not_loaded"
	}
}

// Result is one source's contribution to the inbox. Version identifies the
// fetch that produced it; two results with the same version carry the same
// items.
type Result struct {
	Type    Type
	State   LoadState
	Items   []ModerationReport
	Err     error
	Version uint64
}

var resultVersion atomic.Uint64

func nextVersion() uint64 {
	return resultVersion.Add(1)
}

func NotLoadedResult(t Type) Result {
	return Result{Type: t, State: NotLoaded}
}

func LoadedResult(t Type, items []ModerationReport) Result {
	if items == nil {
		items = []ModerationReport{}
	}
	return Result{Type: t, State: Loaded, Items: items, Version: nextVersion()}
}

func FailedResult(t Type, err error) Result {
	return Result{Type: t, State: Failed, Err: err}
}

// Loading is true while any source has not produced a result yet.
func Loading(results ...Result) bool {
	for _, r := range results {
		if r.State == NotLoaded {
			return true
		}
	}
	return false
}

// Errors collects the failures of failed sources keyed by source type.
func Errors(results ...Result) map[Type]error {
	var errs map[Type]error
	for _, r := range results {
		if r.State != Failed {
			continue
		}
		if errs == nil {
			errs = make(map[Type]error)
		}
		errs[r.Type] = r.Err
	}
	return errs
}
