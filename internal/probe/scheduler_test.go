package probe

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestRunPreservesInputOrder(t *testing.T) {
	// Entries complete in reverse order thanks to staggered delays; the
	// result order must still match the input order.
	const n = 6
	responses := make(map[string]fakeResponse, n)
	entries := make([]Entry, n)
	for i := 0; i < n; i++ {
		url := fmt.Sprintf("https://example.org/%d", i)
		responses[url] = fakeResponse{
			body:  fmt.Sprintf("release %d.0 is out", i),
			delay: time.Duration(n-i) * 20 * time.Millisecond,
		}
		entries[i] = Entry{
			Name:         fmt.Sprintf("distro%d", i),
			LocalVersion: fmt.Sprintf("%d.0", i),
			Source:       SourceURL,
			OverrideURL:  url,
		}
	}

	orch := NewOrchestrator(&fakeFetcher{responses: responses}, nil, nil)
	sched := NewScheduler(orch, n, 0, nil)
	result := sched.Run(context.Background(), entries)

	if len(result.Outcomes) != n {
		t.Fatalf("expected %d outcomes, got %d", n, len(result.Outcomes))
	}
	for i, o := range result.Outcomes {
		want := fmt.Sprintf("distro%d", i)
		if o.Name != want {
			t.Errorf("outcome %d = %s, want %s", i, o.Name, want)
		}
		if o.Status != StatusUpToDate {
			t.Errorf("outcome %d status = %v", i, o.Status)
		}
	}
	if result.Counts[StatusUpToDate] != n {
		t.Errorf("counts = %v", result.Counts)
	}
}

func TestRunOneOutcomePerEntry(t *testing.T) {
	entries := []Entry{
		{Name: "good", LocalVersion: "1.0", Source: SourceURL, OverrideURL: "https://example.org/good"},
		{Name: "bad", LocalVersion: "1.0", Source: SourceURL, OverrideURL: "https://example.org/missing"},
		{Name: "invalid", LocalVersion: "1.0", Source: SourceRSS}, // no feed
	}
	fetcher := &fakeFetcher{responses: map[string]fakeResponse{
		"https://example.org/good": {body: "version 1.0"},
	}}

	sched := NewScheduler(NewOrchestrator(fetcher, nil, nil), 2, 0, nil)
	result := sched.Run(context.Background(), entries)

	if len(result.Outcomes) != len(entries) {
		t.Fatalf("expected %d outcomes, got %d", len(entries), len(result.Outcomes))
	}
	for _, o := range result.Outcomes {
		unknown := o.Status == StatusUnknown
		absent := o.RemoteVersion == ""
		if unknown != absent {
			t.Errorf("%s: UNKNOWN (%v) must coincide with absent remote (%v)", o.Name, unknown, absent)
		}
	}
	if result.Outcomes[2].Err != ErrKindConfig {
		t.Errorf("invalid entry err = %v, want config_error", result.Outcomes[2].Err)
	}
}

func TestRunBoundsConcurrency(t *testing.T) {
	// With limit 1 and three 30ms entries, the batch cannot finish in
	// under 90ms.
	responses := map[string]fakeResponse{}
	entries := make([]Entry, 3)
	for i := range entries {
		url := fmt.Sprintf("https://example.org/%d", i)
		responses[url] = fakeResponse{body: "1.0", delay: 30 * time.Millisecond}
		entries[i] = Entry{Name: fmt.Sprintf("d%d", i), LocalVersion: "1.0", Source: SourceURL, OverrideURL: url}
	}

	sched := NewScheduler(NewOrchestrator(&fakeFetcher{responses: responses}, nil, nil), 1, 0, nil)
	start := time.Now()
	sched.Run(context.Background(), entries)
	if elapsed := time.Since(start); elapsed < 90*time.Millisecond {
		t.Errorf("batch finished in %v, concurrency limit not honored", elapsed)
	}
}

func TestRunRecoversPanic(t *testing.T) {
	entries := []Entry{
		{Name: "boom", LocalVersion: "1.0", Source: SourceURL, OverrideURL: "https://example.org/x"},
		{Name: "fine", LocalVersion: "1.0", Source: SourceURL, OverrideURL: "https://example.org/fine"},
	}

	// First entry's fetch panics; the second must still resolve.
	orch := NewOrchestrator(panicFetcher{}, nil, nil)
	fineOrch := NewOrchestrator(&fakeFetcher{responses: map[string]fakeResponse{
		"https://example.org/fine": {body: "version 1.0"},
	}}, nil, nil)

	sched := NewScheduler(orch, 2, 0, nil)
	result := sched.Run(context.Background(), entries[:1])
	if result.Outcomes[0].Err != ErrKindInternal {
		t.Errorf("err = %v, want internal_error", result.Outcomes[0].Err)
	}
	if result.Outcomes[0].Status != StatusUnknown {
		t.Errorf("status = %v, want UNKNOWN", result.Outcomes[0].Status)
	}

	fineSched := NewScheduler(fineOrch, 2, 0, nil)
	fineResult := fineSched.Run(context.Background(), entries[1:])
	if fineResult.Outcomes[0].Status != StatusUpToDate {
		t.Errorf("healthy entry status = %v", fineResult.Outcomes[0].Status)
	}
}

func TestRunEntryTimeout(t *testing.T) {
	entries := []Entry{
		{Name: "slow", LocalVersion: "1.0", Source: SourceURL, OverrideURL: "https://example.org/slow"},
	}
	fetcher := &fakeFetcher{responses: map[string]fakeResponse{
		"https://example.org/slow": {body: "1.0", delay: 500 * time.Millisecond},
	}}

	sched := NewScheduler(NewOrchestrator(fetcher, nil, nil), 1, 30*time.Millisecond, nil)
	result := sched.Run(context.Background(), entries)

	if result.Outcomes[0].Status != StatusUnknown {
		t.Errorf("status = %v, want UNKNOWN", result.Outcomes[0].Status)
	}
	if result.Outcomes[0].Err != ErrKindTimeout {
		t.Errorf("err = %v, want timeout", result.Outcomes[0].Err)
	}
}
