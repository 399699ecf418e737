package render

import (
	"encoding/json"
	"io"
	"os"

	"github.com/butrejp/disprobe/internal/probe"
)

// Report is the JSON document written for a run.
type Report struct {
	Summary Summary  `json:"summary"`
	Results []Result `json:"results"`
}

// Summary aggregates a run for machine consumers.
type Summary struct {
	UpdatesAvailable bool `json:"updates_available"`
	LocalAhead       bool `json:"local_ahead"`
	UpToDate         int  `json:"up_to_date"`
	Updates          int  `json:"updates"`
	Ahead            int  `json:"ahead"`
	Unknown          int  `json:"unknown"`
	ExitCode         int  `json:"exit_code"`
}

// Result is one entry outcome in the JSON document.
type Result struct {
	Distro         string `json:"distro"`
	LocalVersion   string `json:"local_version"`
	LatestVersion  string `json:"latest_version"`
	Status         string `json:"status"`
	DistrowatchURL string `json:"distrowatch_url"`
	Source         string `json:"source"`
	Error          string `json:"error,omitempty"`
}

// NewReport builds the JSON document from filtered outcomes and the
// run's exit code.
func NewReport(outcomes []probe.Outcome, result probe.BatchResult, code probe.ExitCode) Report {
	report := Report{
		Summary: Summary{
			UpdatesAvailable: result.Counts[probe.StatusUpdateAvailable] > 0,
			LocalAhead:       result.Counts[probe.StatusLocalAhead] > 0,
			UpToDate:         result.Counts[probe.StatusUpToDate],
			Updates:          result.Counts[probe.StatusUpdateAvailable],
			Ahead:            result.Counts[probe.StatusLocalAhead],
			Unknown:          result.Counts[probe.StatusUnknown],
			ExitCode:         int(code),
		},
		Results: make([]Result, 0, len(outcomes)),
	}
	for _, o := range outcomes {
		source := ""
		if o.RemoteVersion != "" {
			source = o.SourceUsed.String()
		}
		report.Results = append(report.Results, Result{
			Distro:         o.Name,
			LocalVersion:   o.LocalVersion,
			LatestVersion:  o.RemoteVersion,
			Status:         o.Status.String(),
			DistrowatchURL: o.Link,
			Source:         source,
			Error:          o.Err.String(),
		})
	}
	return report
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, report Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// WriteJSONFile writes the report as indented JSON to a file path.
func WriteJSONFile(path string, report Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteJSON(f, report)
}
