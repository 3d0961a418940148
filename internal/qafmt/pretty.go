package qafmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"qawarn/internal/qa"
)

// severityColumn fits the longest severity name.
const severityColumn = 9

type palette struct {
	severity map[qa.Severity]*color.Color
	count    *color.Color
	key      *color.Color
	dim      *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		severity: map[qa.Severity]*color.Color{
			qa.SevCritical:  color.New(color.FgRed, color.Bold),
			qa.SevImportant: color.New(color.FgMagenta, color.Bold),
			qa.SevWarning:   color.New(color.FgYellow),
			qa.SevInfo:      color.New(color.FgCyan),
		},
		count: color.New(color.Bold),
		key:   color.New(color.FgWhite),
		dim:   color.New(color.Faint),
	}
	for _, c := range p.all() {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) all() []*color.Color {
	out := []*color.Color{p.count, p.key, p.dim}
	for _, sev := range qa.Severities {
		out = append(out, p.severity[sev])
	}
	return out
}

// Pretty writes one line per group:
//
//	CRITICAL  x5    bad-property_P31  label=instance of
//
// Groups are taken in set order (call set.Sort first). Lines longer than
// opts.Width are truncated on display width, so wide runes are accounted for.
func Pretty(w io.Writer, set *qa.Set, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	items := set.Items()
	limit := len(items)
	if opts.Max > 0 && opts.Max < limit {
		limit = opts.Max
	}

	countWidth := 2
	for _, it := range items[:limit] {
		countWidth = max(countWidth, len(fmt.Sprintf("x%d", it.Count())))
	}

	for _, it := range items[:limit] {
		sev := fmt.Sprintf("%-*s", severityColumn, it.Severity().String())
		cnt := fmt.Sprintf("%-*s", countWidth, fmt.Sprintf("x%d", it.Count()))

		body := it.AggregationID()
		if opts.ShowProperties {
			if props := formatProperties(it); props != "" {
				body += "  " + props
			}
		}
		if opts.Width > 0 {
			room := opts.Width - severityColumn - countWidth - 2
			body = truncate(body, max(room, 8))
		}

		if _, err := fmt.Fprintf(w, "%s %s %s\n", p.severity[it.Severity()].Sprint(sev), p.count.Sprint(cnt), p.key.Sprint(body)); err != nil {
			return err
		}
	}

	if hidden := len(items) - limit; hidden > 0 {
		if _, err := fmt.Fprintln(w, p.dim.Sprintf("... and %d more", hidden)); err != nil {
			return err
		}
	}
	if opts.ShowSummary {
		if _, err := fmt.Fprintln(w, p.dim.Sprint(set.Summary().String())); err != nil {
			return err
		}
	}
	return nil
}

func formatProperties(w *qa.Warning) string {
	keys := w.PropertyKeys()
	if len(keys) == 0 {
		return ""
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v, _ := w.Property(k)
		parts = append(parts, k+"="+formatValue(v))
	}
	return strings.Join(parts, ", ")
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
