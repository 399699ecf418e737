package render

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/butrejp/disprobe/internal/probe"
)

var csvHeader = []string{
	"distro", "local_version", "latest_version", "status", "distrowatch_url", "source",
}

// WriteCSV writes outcomes as CSV with a fixed header row.
func WriteCSV(w io.Writer, outcomes []probe.Outcome) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, o := range outcomes {
		source := ""
		if o.RemoteVersion != "" {
			source = o.SourceUsed.String()
		}
		record := []string{o.Name, o.LocalVersion, o.RemoteVersion, o.Status.String(), o.Link, source}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes outcomes as CSV to a file path.
func WriteCSVFile(path string, outcomes []probe.Outcome) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteCSV(f, outcomes)
}
