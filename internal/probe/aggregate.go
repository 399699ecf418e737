package probe

// ExitCode is the process exit status derived from a batch.
type ExitCode int

const (
	// ExitOK means every entry resolved with no config problems
	ExitOK ExitCode = 0
	// ExitConfig means config-level errors only
	ExitConfig ExitCode = 1
	// ExitFatal means an unrecoverable internal fault
	ExitFatal ExitCode = 2
	// ExitNetwork means a total network outage across all entries
	ExitNetwork ExitCode = 3
	// ExitMultiple means several total-failure categories at once
	ExitMultiple ExitCode = 4
	// ExitPartialConfig means some config lines were ignored, rest fine
	ExitPartialConfig ExitCode = 10
	// ExitPartialOther means some entries failed from non-network causes
	ExitPartialOther ExitCode = 20
	// ExitPartialNetwork means some entries failed from network causes
	ExitPartialNetwork ExitCode = 30
	// ExitPartialMultiple means several partial-failure categories at once
	ExitPartialMultiple ExitCode = 40
)

// Aggregate reduces the batch outcome set to one exit code.
// configWarnings counts config lines that were ignored with a warning
// during parsing; they contribute to the config category without owning
// an outcome of their own.
//
// Classification of unknown outcomes: timeout, HTTP error, blocked and
// connection refused are network causes; render errors, a disabled
// browser, unmatched patterns, incomparable versions and internal faults
// are non-network causes; validation failures are config causes.
func Aggregate(outcomes []Outcome, configWarnings int) ExitCode {
	var resolved, config, network, other, internal int

	for _, o := range outcomes {
		switch {
		case o.Status != StatusUnknown:
			resolved++
		case o.Err == ErrKindConfig:
			config++
		case o.Err == ErrKindInternal:
			internal++
		case o.Err.Network():
			network++
		default:
			other++
		}
	}

	if len(outcomes) == 0 {
		// Nothing survived parsing: a config problem by definition.
		return ExitConfig
	}

	if resolved == 0 {
		switch {
		case internal == len(outcomes):
			return ExitFatal
		case config == len(outcomes):
			return ExitConfig
		case network == len(outcomes):
			return ExitNetwork
		default:
			return ExitMultiple
		}
	}

	categories := 0
	if config > 0 || configWarnings > 0 {
		categories++
	}
	if network > 0 {
		categories++
	}
	if other+internal > 0 {
		categories++
	}

	switch categories {
	case 0:
		return ExitOK
	case 1:
		switch {
		case config > 0 || configWarnings > 0:
			return ExitPartialConfig
		case network > 0:
			return ExitPartialNetwork
		default:
			return ExitPartialOther
		}
	default:
		return ExitPartialMultiple
	}
}
