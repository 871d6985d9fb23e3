package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/octohelm/queryfield/internal/catalog"
	"github.com/octohelm/queryfield/pkg/schema"
	"github.com/octohelm/queryfield/pkg/stringutil"
)

var (
	bold   = color.New(color.Bold)
	red    = color.New(color.FgRed)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	gray   = color.New(color.FgHiBlack)
)

func printSet(w io.Writer, set *schema.DescriptorSet) {
	_, _ = bold.Fprintln(w, set.Type())
	all := set.All()
	if len(all) == 0 {
		_, _ = gray.Fprintln(w, "  (no indexes)")
		return
	}
	for _, d := range all {
		_, _ = fmt.Fprintf(w, "  %s\n", schema.FormatIndex(d))
	}
}

func printFailure(w io.Writer, name string, err error) {
	_, _ = bold.Fprintln(w, name)
	_, _ = red.Fprintf(w, "  %v\n", err)
}

func printPlan(w io.Writer, plan *catalog.Plan, verbose bool) {
	_, _ = bold.Fprintln(w, plan.Table)

	if plan.IsNoop() {
		_, _ = gray.Fprintln(w, "  up to date")
		if !verbose {
			return
		}
	}

	for _, r := range plan.Created {
		_, _ = green.Fprintf(w, "  + %s\n", formatRecord(r))
	}
	for i, r := range plan.Changed {
		_, _ = yellow.Fprintf(w, "  ~ %s (was %s)\n", formatRecord(r), formatRecord(plan.Replaced[i]))
	}
	for _, r := range plan.Dropped {
		_, _ = red.Fprintf(w, "  - %s\n", formatRecord(r))
	}
	if verbose {
		for _, r := range plan.Unchanged {
			_, _ = gray.Fprintf(w, "  = %s\n", formatRecord(r))
		}
	}
}

func printTables(w io.Writer, tables []catalog.TableRecord) {
	if len(tables) == 0 {
		_, _ = gray.Fprintln(w, "catalog is empty")
		return
	}
	for _, t := range tables {
		_, _ = bold.Fprint(w, t.Name)
		_, _ = gray.Fprintf(w, " %s\n", t.ID)
		for _, r := range t.Indexes {
			_, _ = fmt.Fprintf(w, "  %s ", formatRecord(r))
			_, _ = gray.Fprintf(w, "%s\n", r.ID)
		}
	}
}

// formatRecord renders like schema.FormatIndex, e.g. group full_name(first, last desc)
func formatRecord(r catalog.IndexRecord) string {
	b := &strings.Builder{}

	_, _ = fmt.Fprintf(b, "%s %s(", r.Kind, stringutil.NormalizeIdentifier(r.Name, '`'))
	for i, f := range r.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(stringutil.NormalizeIdentifier(f.Property, '`'))
		if f.Descending {
			b.WriteString(" desc")
		}
	}
	b.WriteString(")")

	return b.String()
}

func printJSON(w io.Writer, v any) error {
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	return e.Encode(v)
}
