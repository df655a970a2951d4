// Package rules holds the data-driven classification tables: file-type
// patterns grouped into ordered categories, framework signatures,
// project-type markers, and the combiner precedence list. The table is
// loaded once per run from a YAML document and immutable afterward.
package rules

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/reposcope/reposcope/internal/errors"
)

// Category scan order is fixed; a rule document must enumerate exactly
// these categories in exactly this order so tie-breaks stay reproducible.
var CategoryOrder = []string{
	"programming_languages",
	"web_files",
	"config_files",
	"documentation",
	"images",
	"video",
	"audio",
	"archives",
	"fonts",
	"other",
}

// UnknownFileType is returned when no pattern in any category matches.
const UnknownFileType = "Unknown"

// UnknownProjectType is the combiner fallback when no combination matches.
const UnknownProjectType = "Unknown Project Type"

// FileTypeRule maps a type name to its suffix patterns. A leading '*' on a
// pattern is a wildcard marker and is stripped before suffix comparison.
type FileTypeRule struct {
	Name     string   `yaml:"name"`
	Patterns []string `yaml:"patterns"`
}

// Category is an ordered group of file-type rules.
type Category struct {
	Name  string         `yaml:"name"`
	Types []FileTypeRule `yaml:"types"`
}

// Signature is a single substring-based signal: Pattern matched against a
// path (frameworks), Substring against manifest content (manifest deps),
// or Marker against path-or-content (project types).
type Signature struct {
	Pattern   string `yaml:"pattern,omitempty"`
	Substring string `yaml:"substring,omitempty"`
	Marker    string `yaml:"marker,omitempty"`
	Name      string `yaml:"name"`
}

// Combination names the set of project-type labels whose simultaneous
// presence yields one human-readable description.
type Combination struct {
	Require  []string `yaml:"require"`
	Describe string   `yaml:"describe"`
}

// Table is the full rule document. All slices keep document order, which
// is the precedence order for matching.
type Table struct {
	Version           int           `yaml:"version"`
	Categories        []Category    `yaml:"categories"`
	Frameworks        []Signature   `yaml:"frameworks"`
	ManifestDeps      []Signature   `yaml:"manifest_dependencies"`
	WebsiteExtensions []string      `yaml:"website_extensions"`
	ProjectTypes      []Signature   `yaml:"project_types"`
	Combinations      []Combination `yaml:"combinations"`
}

// Load reads and validates the rule document at path. Any failure is a
// configuration error: no analysis can proceed without the table.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ConfigurationMissing(err, fmt.Sprintf("read rule table %s", path))
	}

	var table Table
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, errors.ConfigurationMissing(err, fmt.Sprintf("parse rule table %s", path))
	}

	if err := table.validate(); err != nil {
		return nil, errors.ConfigurationMissing(err, fmt.Sprintf("invalid rule table %s", path))
	}
	return &table, nil
}

func (t *Table) validate() error {
	if len(t.Categories) != len(CategoryOrder) {
		return fmt.Errorf("expected %d categories, got %d", len(CategoryOrder), len(t.Categories))
	}
	for i, cat := range t.Categories {
		if cat.Name != CategoryOrder[i] {
			return fmt.Errorf("category %d: expected %q, got %q", i, CategoryOrder[i], cat.Name)
		}
		for _, rule := range cat.Types {
			if rule.Name == "" {
				return fmt.Errorf("category %q: file type with empty name", cat.Name)
			}
			if len(rule.Patterns) == 0 {
				return fmt.Errorf("file type %q: no patterns", rule.Name)
			}
		}
	}
	for _, sig := range t.Frameworks {
		if sig.Pattern == "" || sig.Name == "" {
			return fmt.Errorf("framework signature missing pattern or name")
		}
	}
	for _, sig := range t.ManifestDeps {
		if sig.Substring == "" || sig.Name == "" {
			return fmt.Errorf("manifest dependency signature missing substring or name")
		}
	}
	for _, sig := range t.ProjectTypes {
		if sig.Marker == "" || sig.Name == "" {
			return fmt.Errorf("project type signature missing marker or name")
		}
	}
	for _, combo := range t.Combinations {
		if len(combo.Require) == 0 || combo.Describe == "" {
			return fmt.Errorf("combination missing require labels or description")
		}
	}
	return nil
}

// FileType returns the type name of the first pattern, in category-then-
// pattern document order, whose stripped form is a suffix of path.
func (t *Table) FileType(path string) string {
	for _, cat := range t.Categories {
		for _, rule := range cat.Types {
			for _, pattern := range rule.Patterns {
				if strings.HasSuffix(path, strings.TrimPrefix(pattern, "*")) {
					return rule.Name
				}
			}
		}
	}
	return UnknownFileType
}

// Framework returns the framework signaled by path or, for package
// manifests, by dependency names inside content. Path signatures win over
// content signatures; within each table the first match wins.
func (t *Table) Framework(path, content string) (string, bool) {
	for _, sig := range t.Frameworks {
		if strings.Contains(path, sig.Pattern) {
			return sig.Name, true
		}
	}
	if isPackageManifest(path) {
		for _, sig := range t.ManifestDeps {
			if strings.Contains(content, sig.Substring) {
				return sig.Name, true
			}
		}
	}
	return "", false
}

// WebsiteLabel is the project-type label synthesized for HTML/CSS files.
const WebsiteLabel = "Website"

// ProjectType returns the project-type label for a file. Website
// extensions are checked first and are independent of frameworks; after
// that the first marker contained in the path or content wins.
func (t *Table) ProjectType(path, content string) (string, bool) {
	if t.IsWebsitePath(path) {
		return WebsiteLabel, true
	}
	for _, sig := range t.ProjectTypes {
		if strings.Contains(path, sig.Marker) || strings.Contains(content, sig.Marker) {
			return sig.Name, true
		}
	}
	return "", false
}

// IsWebsitePath reports whether path ends in one of the website
// extensions (HTML/CSS family).
func (t *Table) IsWebsitePath(path string) bool {
	for _, ext := range t.WebsiteExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func isPackageManifest(path string) bool {
	return strings.Contains(path, "package.json")
}
