package probe

import (
	"context"
	"sync"
	"time"

	"github.com/butrejp/disprobe/internal/events"
)

// Scheduler runs the orchestrator over all entries with bounded
// concurrency. Entries are independent; results are collected into a
// position-indexed buffer so output order always matches input order.
type Scheduler struct {
	orch         *Orchestrator
	limit        int
	entryTimeout time.Duration
	sink         events.Sink
}

// NewScheduler creates a scheduler. limit bounds in-flight resolutions;
// values below 1 are treated as 1. entryTimeout caps each entry's whole
// fallback chain; zero means no per-entry cap.
func NewScheduler(orch *Orchestrator, limit int, entryTimeout time.Duration, sink events.Sink) *Scheduler {
	if limit < 1 {
		limit = 1
	}
	return &Scheduler{
		orch:         orch,
		limit:        limit,
		entryTimeout: entryTimeout,
		sink:         sink,
	}
}

// Run resolves all entries and returns their outcomes in input order.
// Invalid entries are rejected at this boundary and become config-error
// outcomes without any fetch. A panic inside one entry's resolution is
// caught and converted into an internal-error outcome; it never aborts
// the batch.
func (s *Scheduler) Run(ctx context.Context, entries []Entry) BatchResult {
	events.Emit(s.sink, "batch_started", map[string]interface{}{
		"entries":     len(entries),
		"concurrency": s.limit,
	})

	outcomes := make([]Outcome, len(entries))
	sem := make(chan struct{}, s.limit)
	var wg sync.WaitGroup

	for i := range entries {
		entry := &entries[i]

		if err := entry.Validate(); err != nil {
			outcomes[i] = Outcome{
				Name:         entry.Name,
				LocalVersion: entry.LocalVersion,
				Status:       StatusUnknown,
				Err:          ErrKindConfig,
			}
			events.Emit(s.sink, "entry_rejected", map[string]interface{}{
				"entry": entry.Name,
				"error": err.Error(),
			})
			continue
		}

		wg.Add(1)
		go func(i int, entry *Entry) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			defer func() {
				if r := recover(); r != nil {
					outcomes[i] = Outcome{
						Name:         entry.Name,
						LocalVersion: entry.LocalVersion,
						Status:       StatusUnknown,
						Err:          ErrKindInternal,
					}
					events.Emit(s.sink, "entry_panic", map[string]interface{}{
						"entry": entry.Name,
						"panic": r,
					})
				}
			}()

			entryCtx := ctx
			if s.entryTimeout > 0 {
				var cancel context.CancelFunc
				entryCtx, cancel = context.WithTimeout(ctx, s.entryTimeout)
				defer cancel()
			}

			outcomes[i] = s.orch.Resolve(entryCtx, entry)
		}(i, entry)
	}

	wg.Wait()

	result := newBatchResult(outcomes)
	events.Emit(s.sink, "batch_finished", map[string]interface{}{
		"entries":  len(entries),
		"resolved": len(entries) - result.Counts[StatusUnknown],
	})
	return result
}
