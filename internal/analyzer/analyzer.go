// Package analyzer runs one fetch-and-analyze cycle: locate the
// repository, pull its recursive tree, fetch blob contents, classify
// every fetched file, and fold the results into a report. Nothing is
// cached between cycles; a re-run re-fetches and rebuilds from scratch.
package analyzer

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/reposcope/reposcope/internal/classify"
	"github.com/reposcope/reposcope/internal/models"
	"github.com/reposcope/reposcope/internal/repourl"
	"github.com/reposcope/reposcope/internal/rules"
)

// RepoFetcher is the read surface of the host API the analyzer needs.
type RepoFetcher interface {
	DefaultBranch(ctx context.Context, owner, name string) string
	FetchTree(ctx context.Context, owner, name, branch string) ([]models.TreeEntry, error)
	FetchContents(ctx context.Context, owner, name string, entries []models.TreeEntry) (map[string]string, int)
}

// Analyzer ties the fetcher and the rule table together for the
// lifetime of the process. Per-cycle state lives in the Report.
type Analyzer struct {
	fetcher RepoFetcher
	table   *rules.Table
	log     *logrus.Logger
}

// New returns an Analyzer over the given fetcher and rule table.
func New(fetcher RepoFetcher, table *rules.Table, log *logrus.Logger) *Analyzer {
	return &Analyzer{fetcher: fetcher, table: table, log: log}
}

// AnalyzeRepository runs one full cycle for a user-supplied URL.
// MalformedInput and UpstreamUnavailable errors abort the cycle; blob
// fetch failures only reduce coverage and are counted in the report.
func (a *Analyzer) AnalyzeRepository(ctx context.Context, rawURL string) (*models.Report, error) {
	runID := uuid.NewString()
	log := a.log.WithField("run_id", runID)

	owner, name, err := repourl.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	log = log.WithField("repo", owner+"/"+name)

	branch := a.fetcher.DefaultBranch(ctx, owner, name)
	log.WithField("branch", branch).Info("fetching repository tree")

	entries, err := a.fetcher.FetchTree(ctx, owner, name, branch)
	if err != nil {
		return nil, err
	}
	log.WithField("entries", len(entries)).Debug("tree listing retrieved")

	contents, failed := a.fetcher.FetchContents(ctx, owner, name, entries)
	if failed > 0 {
		log.WithField("failed", failed).Warn("some blob fetches failed; analyzing partial content")
	}

	classifier := classify.New(a.table)
	agg := classify.NewAggregator(a.table)

	// Fold in tree-listing order, not map order, so label ordering and
	// the combined description are reproducible.
	fetched := 0
	for _, entry := range entries {
		if entry.Kind != models.KindFile {
			continue
		}
		content, ok := contents[entry.Path]
		if !ok {
			continue
		}
		fetched++
		agg.Add(classifier.Classify(entry.Path, content))
	}

	report := &models.Report{
		RunID:         runID,
		Owner:         owner,
		Name:          name,
		Branch:        branch,
		Entries:       entries,
		Aggregate:     agg.Finalize(),
		FetchedFiles:  fetched,
		FailedFetches: failed,
	}
	log.WithField("project_type", report.Aggregate.CombinedProjectType).Info("analysis complete")
	return report, nil
}
