package probe

// Status classifies the resolved result for one entry.
type Status int

const (
	// StatusUnknown means no upstream version could be resolved
	StatusUnknown Status = iota
	// StatusUpToDate means local and upstream versions match
	StatusUpToDate
	// StatusUpdateAvailable means upstream is newer than local
	StatusUpdateAvailable
	// StatusLocalAhead means local is newer than upstream
	StatusLocalAhead
)

// String returns the display label of the status.
func (s Status) String() string {
	switch s {
	case StatusUpToDate:
		return "UP TO DATE"
	case StatusUpdateAvailable:
		return "UPDATE AVAILABLE"
	case StatusLocalAhead:
		return "LOCAL AHEAD"
	default:
		return "UNKNOWN"
	}
}

// ErrorKind classifies why an entry could not be resolved.
type ErrorKind int

const (
	// ErrKindNone means the entry resolved without error
	ErrKindNone ErrorKind = iota
	// ErrKindTimeout means a fetch or render exceeded its deadline
	ErrKindTimeout
	// ErrKindHTTP means the server answered with an error status
	ErrKindHTTP
	// ErrKindBlocked means the server refused service
	ErrKindBlocked
	// ErrKindConnRefused means no connection could be established
	ErrKindConnRefused
	// ErrKindRender means page rendering failed
	ErrKindRender
	// ErrKindBrowserDisabled means the entry needed the browser fallback
	// while browser use was disabled
	ErrKindBrowserDisabled
	// ErrKindNotFound means every source fetched but none matched a pattern
	ErrKindNotFound
	// ErrKindIncomparable means a version was extracted but could not be
	// compared against the local one
	ErrKindIncomparable
	// ErrKindInternal means an unexpected fault occurred during resolution
	ErrKindInternal
	// ErrKindConfig means the entry failed validation and was never fetched
	ErrKindConfig
)

// String returns the wire name of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrKindNone:
		return ""
	case ErrKindTimeout:
		return "timeout"
	case ErrKindHTTP:
		return "http_error"
	case ErrKindBlocked:
		return "blocked"
	case ErrKindConnRefused:
		return "connection_refused"
	case ErrKindRender:
		return "render_error"
	case ErrKindBrowserDisabled:
		return "browser_disabled"
	case ErrKindNotFound:
		return "not_found"
	case ErrKindIncomparable:
		return "incomparable"
	case ErrKindInternal:
		return "internal_error"
	default:
		return "config_error"
	}
}

// Network reports whether the kind describes an upstream network fault.
// Render errors and a locally disabled browser are deliberately excluded:
// they say nothing about upstream reachability.
func (k ErrorKind) Network() bool {
	switch k {
	case ErrKindTimeout, ErrKindHTTP, ErrKindBlocked, ErrKindConnRefused:
		return true
	}
	return false
}

// Outcome is the resolved result for one entry. Exactly one Outcome is
// produced per entry; Status is StatusUnknown iff RemoteVersion is empty.
type Outcome struct {
	// Name is the entry name
	Name string
	// LocalVersion is the locally recorded version
	LocalVersion string
	// RemoteVersion is the resolved upstream version, "" when unresolved
	RemoteVersion string
	// Status classifies the comparison result
	Status Status
	// SourceUsed is the source that produced the version, meaningful only
	// when RemoteVersion is set
	SourceUsed Source
	// Link is an upstream link associated with the resolution, when known
	Link string
	// Err records why resolution failed, ErrKindNone on success
	Err ErrorKind
}

// FetchAttempt is one try against one source for one entry. Attempts live
// only within a single orchestrator invocation.
type FetchAttempt struct {
	// Source is the source kind that was tried
	Source Source
	// Content is the raw fetched content, nil on failure
	Content []byte
	// Link is an upstream link discovered during the fetch
	Link string
	// Err is the failure kind, ErrKindNone on success
	Err ErrorKind
}

// BatchResult is the ordered outcome set for one run. Order matches the
// input entry order regardless of completion order.
type BatchResult struct {
	// Outcomes holds one outcome per input entry, in input order
	Outcomes []Outcome
	// Counts holds the number of outcomes per status
	Counts map[Status]int
}

// newBatchResult builds a BatchResult and its per-status counts.
func newBatchResult(outcomes []Outcome) BatchResult {
	counts := make(map[Status]int, 4)
	for _, o := range outcomes {
		counts[o.Status]++
	}
	return BatchResult{Outcomes: outcomes, Counts: counts}
}
