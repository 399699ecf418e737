// Package render writes batch results as a terminal table, CSV, or JSON.
package render

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/butrejp/disprobe/internal/common/output"
	"github.com/butrejp/disprobe/internal/probe"
)

// Table renders outcomes as an aligned terminal table. Rows with a link
// get a numeric reference; the referenced URLs print below the table.
type Table struct {
	w     io.Writer
	table *tablewriter.Table
	rows  [][]string
	links []string
}

// NewTable creates a table writing to w.
func NewTable(w io.Writer) *Table {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader: tw.Off,
				},
			},
		}),
	)

	return &Table{w: w, table: table}
}

// Add appends one outcome row.
func (t *Table) Add(o probe.Outcome) {
	linkRef := ""
	if o.Link != "" {
		t.links = append(t.links, o.Link)
		linkRef = fmt.Sprintf("[%d]", len(t.links))
	}
	t.rows = append(t.rows, []string{
		output.FormatDistro(o.Name),
		o.LocalVersion,
		o.RemoteVersion,
		output.FormatStatus(o.Status.String()),
		linkRef,
	})
}

// Links returns the URLs referenced by row link markers, in marker order.
func (t *Table) Links() []string {
	return t.links
}

// Render outputs the table followed by the numbered link list.
func (t *Table) Render() {
	t.table.Header([]string{"Distro", "Local", "Latest", "Status", "Link"})
	t.table.Bulk(t.rows)
	t.table.Render()

	if len(t.links) > 0 {
		fmt.Fprintln(t.w)
		for i, link := range t.links {
			fmt.Fprintf(t.w, "  [%d] %s\n", i+1, link)
		}
	}
}
