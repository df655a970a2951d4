package models

// EntryKind distinguishes blob and tree nodes in a repository listing.
type EntryKind string

const (
	KindFile      EntryKind = "file"
	KindDirectory EntryKind = "directory"
)

// TreeEntry is one node of a repository's recursive tree listing.
// ContentRef is the blob SHA used to retrieve raw content; it is empty
// for directories and for blobs the listing did not expose.
type TreeEntry struct {
	Path       string    `json:"path"`
	Kind       EntryKind `json:"kind"`
	ContentRef string    `json:"content_ref,omitempty"`
	Size       int64     `json:"size,omitempty"`
}

// IsFetchable reports whether the entry is a file whose content can be requested.
func (e TreeEntry) IsFetchable() bool {
	return e.Kind == KindFile && e.ContentRef != ""
}

// FileClassification is the per-file result of rule-table matching.
// FileType is always set ("Unknown" when no rule matched); the two
// signals are empty when no signature matched.
type FileClassification struct {
	Path              string `json:"path"`
	FileType          string `json:"file_type"`
	FrameworkSignal   string `json:"framework_signal,omitempty"`
	ProjectTypeSignal string `json:"project_type_signal,omitempty"`
}

// AggregateReport is the folded result of classifying every fetched file.
// DetectedProjectTypes preserves first-appearance order so the combiner
// output is deterministic.
type AggregateReport struct {
	PerTypeCounts        map[string]int `json:"per_type_counts"`
	DetectedProjectTypes []string       `json:"detected_project_types"`
	CombinedProjectType  string         `json:"combined_project_type"`
}

// Report is everything one fetch-and-analyze cycle produces. Nothing in it
// survives past the cycle; a re-run rebuilds from scratch.
type Report struct {
	RunID         string          `json:"run_id"`
	Owner         string          `json:"owner"`
	Name          string          `json:"name"`
	Branch        string          `json:"branch"`
	Entries       []TreeEntry     `json:"entries"`
	Aggregate     AggregateReport `json:"aggregate"`
	FetchedFiles  int             `json:"fetched_files"`
	FailedFetches int             `json:"failed_fetches"`
}
