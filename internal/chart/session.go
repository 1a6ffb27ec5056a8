// internal/chart/session.go
package chart

import (
	"context"
	"sync"

	"github.com/metricdeck/metricdeck/internal/monitoring"
)

// Fetcher aggregates a paginated query into one result set.
type Fetcher interface {
	Fetch(ctx context.Context, q monitoring.Query) monitoring.Result
}

// Renderer is the live chart a session reconciles formatted series into. The
// session treats it as an opaque mutable series collection; it never renders
// anything itself. Init and Reconcile are invoked while the session holds its
// own lock, so implementations must not call back into the session.
type Renderer interface {
	// Init seeds the renderer with the first successful fetch's series.
	Init(series []Series)
	// Reconcile merges freshly formatted series into the existing collection
	// and reports whether series membership changed.
	Reconcile(series []Series) bool
}

// Session owns one chart's mutable query, its rollback snapshot, and drives
// the fetch, format, reconcile pipeline on demand or on a timer tick.
//
// Overlapping updates are resolved by cancel-and-supersede: starting an update
// bumps a per-session generation, and a fetch completing under a stale
// generation is discarded entirely: no state writes, no notice. The newest
// update always wins.
type Session struct {
	mu          sync.Mutex
	fetcher     Fetcher
	formatter   Formatter
	renderer    Renderer
	onFailure   func(monitoring.QueryFailure)
	query       monitoring.Query
	prevQuery   monitoring.Query
	generation  uint64
	initialized bool
}

// NewSession creates a session over its collaborators. onFailure receives
// every rejected or failed query for user display; it may be nil.
func NewSession(fetcher Fetcher, formatter Formatter, renderer Renderer, base monitoring.Query, onFailure func(monitoring.QueryFailure)) *Session {
	return &Session{
		fetcher:   fetcher,
		formatter: formatter,
		renderer:  renderer,
		onFailure: onFailure,
		query:     base,
	}
}

// Query returns the session's current query.
func (s *Session) Query() monitoring.Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Update snapshots the current query for rollback, merges delta onto it (delta
// fields win, absent fields persist), and runs the fetch pipeline. On failure
// the snapshot is restored and a notice is emitted; on success the renderer is
// initialized or reconciled.
//
// The rollback snapshot is taken at the start of the update, before the merge.
// Two rapid updates before either resolves therefore roll back to the
// second-to-last query, not the original. That matches the source behavior
// this session preserves.
func (s *Session) Update(ctx context.Context, delta monitoring.Query) {
	s.run(ctx, func(q monitoring.Query) monitoring.Query {
		return q.Merge(delta)
	})
}

// Refresh re-runs the current query unchanged, as on a timer tick.
func (s *Session) Refresh(ctx context.Context) {
	s.run(ctx, func(q monitoring.Query) monitoring.Query { return q })
}

// Reset removes the label filters from the query entirely, then behaves like
// an update with no delta.
func (s *Session) Reset(ctx context.Context) {
	s.run(ctx, func(q monitoring.Query) monitoring.Query {
		return q.WithoutLabels()
	})
}

func (s *Session) run(ctx context.Context, mutate func(monitoring.Query) monitoring.Query) {
	s.mu.Lock()
	s.prevQuery = s.query
	s.query = mutate(s.query)
	q := s.query
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	res := s.fetcher.Fetch(ctx, q)

	s.mu.Lock()
	if gen != s.generation {
		// A newer update superseded this one while it was in flight.
		s.mu.Unlock()
		return
	}
	if res.Failure != nil {
		s.query = s.prevQuery
		onFailure := s.onFailure
		s.mu.Unlock()
		if onFailure != nil {
			onFailure(*res.Failure)
		}
		return
	}

	series := s.formatter.Format(res.Series)
	first := !s.initialized
	s.initialized = true
	// The renderer runs under the session lock: once a fetch has passed the
	// generation check, no newer update can render before it finishes.
	if first {
		s.renderer.Init(series)
	} else {
		s.renderer.Reconcile(series)
	}
	s.mu.Unlock()
}
