package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"stagehand/internal/config"
	"stagehand/internal/dependency"
	"stagehand/internal/orchestrator"
	stringsutil "stagehand/pkg/strings"
)

// createTable creates a new table with standard styling
func createTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	return t
}

func header(cols ...string) table.Row {
	row := make(table.Row, len(cols))
	for i, c := range cols {
		row[i] = text.FgHiCyan.Sprint(c)
	}
	return row
}

func joinOrDash(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}

func renderPlan(out io.Writer, graph *dependency.Graph, groups []dependency.LoadGroup, avg time.Duration) {
	if len(groups) == 0 {
		fmt.Fprintf(out, "%s\n", text.FgYellow.Sprint("No services to load"))
		return
	}

	t := createTable(out)
	t.AppendHeader(header("GROUP", "SERVICE", "CRITICAL", "DEPENDS ON", "DEPENDENTS", "DESCRIPTION"))
	for _, g := range groups {
		for _, m := range g.Members {
			critical := ""
			if m.Critical {
				critical = text.FgRed.Sprint("yes")
			}
			deps := make([]string, 0, len(m.Dependencies))
			for _, d := range m.Dependencies {
				if !graph.Has(d) {
					d += " (external)"
				}
				deps = append(deps, d)
			}
			description := stringsutil.Truncate(stringsutil.SingleLine(m.Description), stringsutil.DescriptionMaxLen)
			t.AppendRow(table.Row{g.Index, m.Name, critical, joinOrDash(deps), joinOrDash(graph.Dependents(m.Name)), description})
		}
		t.AppendSeparator()
	}
	t.Render()

	savings := orchestrator.EstimateSavings(groups, avg)
	fmt.Fprintf(out, "\n%s %d services in %d groups, estimated savings %s (at %s per service)\n",
		text.FgHiBlue.Sprint("Plan:"), dependency.TotalMembers(groups), len(groups), savings, avg)
}

func renderBootReport(out io.Writer, report *orchestrator.BootReport) {
	t := createTable(out)
	t.AppendHeader(header("GROUP", "SERVICES", "LOADED", "FAILED", "DURATION"))
	for _, g := range report.Groups {
		failed := joinOrDash(g.Failed)
		if len(g.Failed) > 0 {
			failed = text.FgRed.Sprint(failed)
		}
		t.AppendRow(table.Row{
			g.Index,
			strings.Join(g.Services, ", "),
			g.Succeeded,
			failed,
			g.Duration.Round(time.Microsecond),
		})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("boot %s", report.BootID), report.Loaded(), len(report.FailedServices()), report.Total.Round(time.Microsecond)})
	t.Render()

	fmt.Fprintf(out, "%s %s (groups took %s)\n",
		text.FgHiBlue.Sprint("Estimated savings:"), report.EstimatedSavings, report.Sequential().Round(time.Microsecond))
}

// printConfigErrors writes the full report for configuration and definition
// file errors, which Error() abbreviates to the first file.
func printConfigErrors(out io.Writer, err error) {
	var errs config.ConfigurationErrorCollection
	if errors.As(err, &errs) {
		fmt.Fprintln(out, errs.GetDetailedReport())
		return
	}
	var ce config.ConfigurationError
	if errors.As(err, &ce) {
		fmt.Fprintln(out, ce.DetailedError())
	}
}
