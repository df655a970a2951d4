// Package output renders analysis reports for the console. It consumes
// the analyzer's structured results and owns all user-visible text; the
// core never prints.
package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/reposcope/reposcope/internal/models"
)

// Formatter writes human-readable reports to w.
type Formatter struct {
	w io.Writer
}

// NewFormatter returns a Formatter writing to w.
func NewFormatter(w io.Writer) *Formatter {
	return &Formatter{w: w}
}

// Format renders the full report: the file tree, per-type counts, and
// the combined project-type description.
func (f *Formatter) Format(report *models.Report) error {
	fmt.Fprintf(f.w, "%s/%s @ %s\n\n", report.Owner, report.Name, report.Branch)

	f.formatTree(report.Entries)

	fmt.Fprintf(f.w, "\nFile types (%d files classified, %d fetches failed):\n",
		report.FetchedFiles, report.FailedFetches)
	f.formatCounts(report.Aggregate.PerTypeCounts)

	if len(report.Aggregate.DetectedProjectTypes) > 0 {
		fmt.Fprintf(f.w, "\nDetected: %s\n", strings.Join(report.Aggregate.DetectedProjectTypes, ", "))
	}
	fmt.Fprintf(f.w, "Project type: %s\n", report.Aggregate.CombinedProjectType)
	return nil
}

// formatTree prints each entry indented by its nesting depth. The
// listing is already recursive and path-ordered, so depth falls straight
// out of the separator count; no subtree reconstruction needed.
func (f *Formatter) formatTree(entries []models.TreeEntry) {
	for _, entry := range entries {
		depth := strings.Count(entry.Path, "/")
		name := entry.Path
		if idx := strings.LastIndex(entry.Path, "/"); idx >= 0 {
			name = entry.Path[idx+1:]
		}
		suffix := ""
		if entry.Kind == models.KindDirectory {
			suffix = "/"
		}
		fmt.Fprintf(f.w, "%s%s%s\n", strings.Repeat("  ", depth), name, suffix)
	}
}

// formatCounts prints the per-type table sorted by count descending,
// then name, so output is stable across runs.
func (f *Formatter) formatCounts(counts map[string]int) {
	type row struct {
		name  string
		count int
	}
	rows := make([]row, 0, len(counts))
	for name, count := range counts {
		rows = append(rows, row{name, count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].name < rows[j].name
	})

	for _, r := range rows {
		fmt.Fprintf(f.w, "  %-20s %d\n", r.name, r.count)
	}
}
