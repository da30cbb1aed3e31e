package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"trainvoc-updates/internal/domain"
	"trainvoc-updates/internal/navigation"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

var typeColors = map[domain.UpdateType]text.Colors{
	domain.UpdateTypeNew:      {text.FgGreen},
	domain.UpdateTypeImproved: {text.FgCyan},
	domain.UpdateTypeFixed:    {text.FgYellow},
}

func formatType(t domain.UpdateType) string {
	if c, ok := typeColors[t]; ok {
		return c.Sprint(string(t))
	}
	return string(t)
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

// Changelog renders one row per highlight, grouped by version.
func Changelog(w io.Writer, result *domain.ChangelogResult) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Version", "Code", "Released", "Type", "Highlight"})

	for _, v := range result.Versions {
		if len(v.Highlights) == 0 {
			t.AppendRow(table.Row{v.CurrentVersion, v.VersionCode, v.ReleaseDate, "", ""})
			continue
		}
		for _, h := range v.Highlights {
			t.AppendRow(table.Row{v.CurrentVersion, v.VersionCode, v.ReleaseDate, formatType(h.Type), h.Title})
		}
		t.AppendSeparator()
	}

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true},
		{Number: 2, AutoMerge: true},
		{Number: 3, AutoMerge: true},
	})
	t.Render()

	if result.Summary != "" {
		fmt.Fprintln(w, result.Summary)
	}
}

func Notes(w io.Writer, notes *domain.UpdateNotes) {
	fmt.Fprintf(w, "What's new in %s (%d), released %s\n", notes.CurrentVersion, notes.VersionCode, notes.ReleaseDate)

	t := newTable(w)
	t.AppendHeader(table.Row{"Type", "Highlight", "Details"})
	for _, h := range notes.Highlights {
		t.AppendRow(table.Row{formatType(h.Type), h.Title, h.Description})
	}
	if tally := highlightTally(notes); tally != "" {
		t.AppendFooter(table.Row{"", tally, ""})
	}
	t.Render()

	if len(notes.UpcomingFeatures) > 0 {
		fmt.Fprintln(w, "Coming soon:")
		for _, f := range notes.UpcomingFeatures {
			fmt.Fprintf(w, "  - %s\n", f)
		}
	}
}

// highlightTally summarizes highlights per category, e.g. "2 NEW, 1 FIXED".
func highlightTally(notes *domain.UpdateNotes) string {
	counts := notes.CountByType()
	var parts []string
	for _, typ := range domain.UpdateTypes {
		if n := counts[typ]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, typ))
		}
	}
	return strings.Join(parts, ", ")
}

func Status(w io.Writer, deviceID string, status *domain.UpdateStatus) {
	dismissed := make([]string, len(status.DismissedVersionCodes))
	for i, code := range status.DismissedVersionCodes {
		dismissed[i] = strconv.Itoa(code)
	}

	t := newTable(w)
	t.AppendRows([]table.Row{
		{"Device", deviceID},
		{"Current version", fmt.Sprintf("%s (%d)", status.CurrentVersion, status.CurrentVersionCode)},
		{"Last seen", status.LastSeenVersionCode},
		{"Dismissed", strings.Join(dismissed, ", ")},
		{"Show notes", status.ShouldShow},
	})
	t.Render()
}

func Routes(w io.Writer, start string, destinations []navigation.Destination) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Route", "Screen", "Scope", ""})
	for _, d := range destinations {
		marker := ""
		if d.Route == start {
			marker = "start"
		}
		t.AppendRow(table.Row{d.Route, d.Screen, d.Scope, marker})
	}
	t.Render()
}

func Match(w io.Writer, m *navigation.Match) {
	t := newTable(w)
	t.AppendRows([]table.Row{
		{"Route", m.Destination.Route},
		{"Screen", m.Destination.Screen},
		{"Path", m.Path},
	})
	if m.Destination.Scope != "" {
		t.AppendRow(table.Row{"Scope", m.Destination.Scope})
	}
	for name, value := range m.Args {
		t.AppendRow(table.Row{"Arg " + name, value})
	}
	t.SortBy([]table.SortBy{{Number: 1, Mode: table.Asc}})
	t.Render()
}
