package render

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/butrejp/disprobe/internal/common/output"
	"github.com/butrejp/disprobe/internal/probe"
)

func sampleOutcomes() []probe.Outcome {
	return []probe.Outcome{
		{
			Name:          "fedora",
			LocalVersion:  "41",
			RemoteVersion: "42",
			Status:        probe.StatusUpdateAvailable,
			SourceUsed:    probe.SourceRSS,
			Link:          "https://distrowatch.com/?newsid=1",
		},
		{
			Name:          "debian",
			LocalVersion:  "12.8",
			RemoteVersion: "12.8",
			Status:        probe.StatusUpToDate,
			SourceUsed:    probe.SourceDistrowatch,
			Link:          "https://distrowatch.com/table.php?distribution=debian",
		},
		{
			Name:         "voidlinux",
			LocalVersion: "20240314",
			Status:       probe.StatusUnknown,
			Err:          probe.ErrKindTimeout,
		},
	}
}

func TestTableRendersRowsAndLinks(t *testing.T) {
	output.NoColor()

	var buf bytes.Buffer
	table := NewTable(&buf)
	for _, o := range sampleOutcomes() {
		table.Add(o)
	}
	table.Render()

	got := buf.String()
	upper := strings.ToUpper(got)
	for _, heading := range []string{"DISTRO", "LOCAL", "LATEST", "STATUS"} {
		if !strings.Contains(upper, heading) {
			t.Errorf("table output missing heading %q:\n%s", heading, got)
		}
	}
	for _, cell := range []string{"fedora", "UPDATE AVAILABLE", "12.8", "UNKNOWN"} {
		if !strings.Contains(got, cell) {
			t.Errorf("table output missing %q:\n%s", cell, got)
		}
	}
	if !strings.Contains(got, "[1] https://distrowatch.com/?newsid=1") {
		t.Errorf("table output missing numbered link list:\n%s", got)
	}
	if strings.Contains(got, "[3]") {
		t.Errorf("unresolved entry without link should not get a reference:\n%s", got)
	}
	if len(table.Links()) != 2 {
		t.Errorf("expected 2 links, got %d", len(table.Links()))
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleOutcomes()); err != nil {
		t.Fatal(err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 4 {
		t.Fatalf("expected header + 3 rows, got %d records", len(records))
	}
	wantHeader := "distro,local_version,latest_version,status,distrowatch_url,source"
	if strings.Join(records[0], ",") != wantHeader {
		t.Errorf("unexpected header: %v", records[0])
	}
	if records[1][0] != "fedora" || records[1][3] != "UPDATE AVAILABLE" || records[1][5] != "rss" {
		t.Errorf("unexpected first row: %v", records[1])
	}
	// Unresolved entries carry no source.
	if records[3][2] != "" || records[3][5] != "" {
		t.Errorf("unresolved row should have empty version and source: %v", records[3])
	}
}

func TestJSONReport(t *testing.T) {
	outcomes := sampleOutcomes()
	result := probe.BatchResult{
		Outcomes: outcomes,
		Counts: map[probe.Status]int{
			probe.StatusUpdateAvailable: 1,
			probe.StatusUpToDate:        1,
			probe.StatusUnknown:         1,
		},
	}

	var buf bytes.Buffer
	report := NewReport(outcomes, result, probe.ExitPartialNetwork)
	if err := WriteJSON(&buf, report); err != nil {
		t.Fatal(err)
	}

	var decoded Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if !decoded.Summary.UpdatesAvailable {
		t.Error("expected updates_available true")
	}
	if decoded.Summary.LocalAhead {
		t.Error("expected local_ahead false")
	}
	if decoded.Summary.ExitCode != int(probe.ExitPartialNetwork) {
		t.Errorf("expected exit code %d, got %d", probe.ExitPartialNetwork, decoded.Summary.ExitCode)
	}
	if len(decoded.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(decoded.Results))
	}
	if decoded.Results[0].Source != "rss" {
		t.Errorf("expected source rss, got %q", decoded.Results[0].Source)
	}
	if decoded.Results[2].Error != "timeout" {
		t.Errorf("expected error timeout on unresolved entry, got %q", decoded.Results[2].Error)
	}
}

func TestJSONReportFiltered(t *testing.T) {
	outcomes := sampleOutcomes()
	result := probe.BatchResult{Outcomes: outcomes, Counts: map[probe.Status]int{
		probe.StatusUpdateAvailable: 1,
		probe.StatusUpToDate:        1,
		probe.StatusUnknown:         1,
	}}

	// Summary counts come from the full run even when results are filtered.
	report := NewReport(outcomes[:1], result, probe.ExitPartialNetwork)
	if len(report.Results) != 1 {
		t.Fatalf("expected 1 filtered result, got %d", len(report.Results))
	}
	if report.Summary.UpToDate != 1 || report.Summary.Unknown != 1 {
		t.Errorf("summary should reflect full run counts: %+v", report.Summary)
	}
}
