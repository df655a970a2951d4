// Package classify turns fetched file contents into per-file
// classifications and folds them into the aggregate report. Everything
// here is a pure function of (path, content, rule table); all I/O and
// diagnostics live with the callers.
package classify

import (
	"github.com/reposcope/reposcope/internal/models"
	"github.com/reposcope/reposcope/internal/rules"
)

// Classifier applies one immutable rule table.
type Classifier struct {
	table *rules.Table
}

// New returns a Classifier over the given table.
func New(table *rules.Table) *Classifier {
	return &Classifier{table: table}
}

// Classify produces the classification for a single file. Deterministic:
// ties resolve in rule-table document order.
func (c *Classifier) Classify(path, content string) models.FileClassification {
	fc := models.FileClassification{
		Path:     path,
		FileType: c.table.FileType(path),
	}
	if framework, ok := c.table.Framework(path, content); ok {
		fc.FrameworkSignal = framework
	}
	if projectType, ok := c.table.ProjectType(path, content); ok {
		fc.ProjectTypeSignal = projectType
	}
	return fc
}

// Aggregator folds classifications into per-type counts and the ordered
// set of detected project-type labels. Feed files in tree-listing order
// so first-appearance ordering is reproducible.
type Aggregator struct {
	table          *rules.Table
	counts         map[string]int
	detected       []string
	seen           map[string]bool
	firstFramework string
}

// NewAggregator returns an empty fold over the given table.
func NewAggregator(table *rules.Table) *Aggregator {
	return &Aggregator{
		table:  table,
		counts: make(map[string]int),
		seen:   make(map[string]bool),
	}
}

// Add folds one classification.
func (a *Aggregator) Add(fc models.FileClassification) {
	a.counts[fc.FileType]++

	if fc.FrameworkSignal != "" && a.firstFramework == "" {
		a.firstFramework = fc.FrameworkSignal
	}
	if fc.ProjectTypeSignal != "" {
		a.addLabel(fc.ProjectTypeSignal)
	}
}

func (a *Aggregator) addLabel(label string) {
	if a.seen[label] {
		return
	}
	a.seen[label] = true
	a.detected = append(a.detected, label)
}

// Finalize synthesizes the website label (framework-qualified when any
// framework signal was seen, "Static website" otherwise), runs the
// combiner, and returns the finished report. The aggregate is one-shot;
// callers discard the Aggregator afterward.
func (a *Aggregator) Finalize() models.AggregateReport {
	if a.seen[rules.WebsiteLabel] {
		if a.firstFramework != "" {
			a.addLabel("Website using " + a.firstFramework)
		} else {
			a.addLabel("Static website")
		}
	}

	return models.AggregateReport{
		PerTypeCounts:        a.counts,
		DetectedProjectTypes: a.detected,
		CombinedProjectType:  Combine(a.detected, a.table.Combinations),
	}
}

// Combine reduces detected labels to one description: the first
// combination in precedence order whose required labels are all present.
func Combine(detected []string, combos []rules.Combination) string {
	present := make(map[string]bool, len(detected))
	for _, label := range detected {
		present[label] = true
	}

	for _, combo := range combos {
		satisfied := true
		for _, required := range combo.Require {
			if !present[required] {
				satisfied = false
				break
			}
		}
		if satisfied {
			return combo.Describe
		}
	}
	return rules.UnknownProjectType
}
