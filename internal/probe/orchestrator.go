package probe

import (
	"context"

	"github.com/butrejp/disprobe/internal/common/vercmp"
	"github.com/butrejp/disprobe/internal/events"
	"github.com/butrejp/disprobe/internal/transport"
)

// Orchestrator resolves one entry by walking its fallback chain: an
// ordered candidate list of sources, tried until one yields an
// extractable version or the chain is exhausted.
type Orchestrator struct {
	rss     Resolver
	url     Resolver
	catalog Resolver
	sink    events.Sink
}

// NewOrchestrator builds an orchestrator over the given transport
// capabilities. A nil renderer disables the browser fallback: entries
// depending solely on it resolve to UNKNOWN. A nil sink disables debug
// events.
func NewOrchestrator(fetcher transport.Fetcher, renderer transport.Renderer, sink events.Sink) *Orchestrator {
	return NewOrchestratorWithFeedFetcher(fetcher, fetcher, renderer, sink)
}

// NewOrchestratorWithFeedFetcher routes feed fetches through a separate
// fetcher, so feed concurrency can be bounded without throttling
// direct-page fetches.
func NewOrchestratorWithFeedFetcher(fetcher, feedFetcher transport.Fetcher, renderer transport.Renderer, sink events.Sink) *Orchestrator {
	return &Orchestrator{
		rss:     NewRSSResolver(feedFetcher),
		url:     NewURLResolver(fetcher),
		catalog: NewCatalogResolver(renderer),
		sink:    sink,
	}
}

// candidates returns the ordered source chain for an entry. The declared
// source goes first; only the default catalog source falls through to the
// browser resolver — an entry that explicitly pinned rss or url does not.
func (o *Orchestrator) candidates(entry *Entry) []Resolver {
	switch entry.Source {
	case SourceRSS:
		return []Resolver{o.rss}
	case SourceURL:
		return []Resolver{o.url}
	default:
		return []Resolver{o.rss, o.catalog}
	}
}

// Resolve walks the entry's fallback chain and produces its outcome.
// Transport failures never propagate: they downgrade the outcome only.
func (o *Orchestrator) Resolve(ctx context.Context, entry *Entry) Outcome {
	outcome := Outcome{
		Name:         entry.Name,
		LocalVersion: entry.LocalVersion,
		Status:       StatusUnknown,
	}

	override, err := entry.Pattern()
	if err != nil {
		// Entries are validated at the scheduler boundary; a bad pattern
		// here means the caller skipped validation.
		outcome.Err = ErrKindConfig
		return outcome
	}

	lastErr := ErrKindNotFound

	for _, resolver := range o.candidates(entry) {
		attempt := resolver.Fetch(ctx, entry)
		events.Emit(o.sink, "source_attempted", map[string]interface{}{
			"entry":  entry.Name,
			"source": attempt.Source.String(),
		})

		if attempt.Err != ErrKindNone {
			events.Emit(o.sink, "source_failed", map[string]interface{}{
				"entry":  entry.Name,
				"source": attempt.Source.String(),
				"kind":   attempt.Err.String(),
			})
			lastErr = attempt.Err
			continue
		}

		pattern := override
		if pattern == nil {
			pattern = defaultPattern(attempt.Source)
		}

		remote, ok := Extract(attempt.Content, pattern)
		if !ok {
			events.Emit(o.sink, "extraction_failed", map[string]interface{}{
				"entry":   entry.Name,
				"source":  attempt.Source.String(),
				"pattern": pattern.String(),
			})
			lastErr = ErrKindNotFound
			continue
		}

		o.evaluate(&outcome, entry, remote, attempt)
		events.Emit(o.sink, "outcome_resolved", map[string]interface{}{
			"entry":  entry.Name,
			"source": attempt.Source.String(),
			"remote": outcome.RemoteVersion,
			"status": outcome.Status.String(),
		})
		return outcome
	}

	// Chain exhausted. Keep the last failure kind seen; a chain where every
	// source fetched fine but nothing matched ends as NotFound.
	outcome.Err = lastErr
	events.Emit(o.sink, "outcome_resolved", map[string]interface{}{
		"entry":  entry.Name,
		"status": outcome.Status.String(),
		"kind":   outcome.Err.String(),
	})
	return outcome
}

// evaluate maps a comparator result onto the outcome. Incomparable
// versions leave the outcome UNKNOWN with no remote version, preserving
// the invariant that UNKNOWN and an absent remote version coincide.
func (o *Orchestrator) evaluate(outcome *Outcome, entry *Entry, remote string, attempt FetchAttempt) {
	switch vercmp.Compare(entry.LocalVersion, remote) {
	case vercmp.Equal:
		outcome.Status = StatusUpToDate
	case vercmp.RemoteNewer:
		outcome.Status = StatusUpdateAvailable
	case vercmp.LocalNewer:
		outcome.Status = StatusLocalAhead
	default:
		outcome.Err = ErrKindIncomparable
		return
	}
	outcome.RemoteVersion = remote
	outcome.SourceUsed = attempt.Source
	outcome.Link = attempt.Link
}

// compile-time interface checks
var (
	_ Resolver = (*RSSResolver)(nil)
	_ Resolver = (*URLResolver)(nil)
	_ Resolver = (*CatalogResolver)(nil)
)
