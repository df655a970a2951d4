package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reposcope/reposcope/internal/errors"
)

// The shipped default table must always load; it is the one users run with.
func TestLoadShippedTable(t *testing.T) {
	table, err := Load(filepath.Join("..", "..", "rules.yaml"))
	require.NoError(t, err)

	require.Len(t, table.Categories, len(CategoryOrder))
	for i, cat := range table.Categories {
		assert.Equal(t, CategoryOrder[i], cat.Name)
	}
	assert.NotEmpty(t, table.Frameworks)
	assert.NotEmpty(t, table.ProjectTypes)
	assert.NotEmpty(t, table.Combinations)
	assert.NotEmpty(t, table.WebsiteExtensions)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, errors.KindConfigurationMissing, errors.KindOf(err))
}

func TestLoadMalformedDocument(t *testing.T) {
	path := writeTable(t, "categories: [not a mapping")
	_, err := Load(path)
	require.Error(t, err)
	assert.Equal(t, errors.KindConfigurationMissing, errors.KindOf(err))
}

func TestLoadRejectsWrongCategoryOrder(t *testing.T) {
	// All ten categories present, but the first two are swapped.
	swapped := make([]string, len(CategoryOrder))
	copy(swapped, CategoryOrder)
	swapped[0], swapped[1] = swapped[1], swapped[0]

	doc := "version: 1\ncategories:\n"
	for _, name := range swapped {
		doc += "  - name: " + name + "\n    types: [{name: T, patterns: [\"*.t\"]}]\n"
	}
	_, err := Load(writeTable(t, doc))
	require.Error(t, err)
	assert.Equal(t, errors.KindConfigurationMissing, errors.KindOf(err))
}

func TestLoadRejectsEmptyPatterns(t *testing.T) {
	doc := minimalDoc(`types: [{name: Go, patterns: []}]`)
	_, err := Load(writeTable(t, doc))
	require.Error(t, err)
	assert.Equal(t, errors.KindConfigurationMissing, errors.KindOf(err))
}

func TestFileTypeOrder(t *testing.T) {
	table := &Table{
		Categories: []Category{
			{Name: "programming_languages", Types: []FileTypeRule{
				{Name: "Rust", Patterns: []string{"*.rs"}},
				{Name: "Go", Patterns: []string{"*.go"}},
			}},
			{Name: "web_files", Types: []FileTypeRule{
				{Name: "HTML", Patterns: []string{"*.html", "*.htm"}},
				// Deliberate overlap with Rust's suffix: must never win
				// because its category comes later.
				{Name: "Shadow", Patterns: []string{"*.rs"}},
			}},
		},
	}

	tests := []struct {
		path string
		want string
	}{
		{"src/main.rs", "Rust"},
		{"cmd/app/main.go", "Go"},
		{"public/index.html", "HTML"},
		{"public/legacy.htm", "HTML"},
		{"README", UnknownFileType},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, table.FileType(tt.path), "path %q", tt.path)
	}
}

func TestFileTypeStripsWildcardMarker(t *testing.T) {
	table := &Table{
		Categories: []Category{
			{Name: "config_files", Types: []FileTypeRule{
				{Name: "Dockerfile", Patterns: []string{"Dockerfile"}},
				{Name: "YAML", Patterns: []string{"*.yaml"}},
			}},
		},
	}
	// Bare patterns match as plain suffixes, starred ones lose the star.
	assert.Equal(t, "Dockerfile", table.FileType("build/Dockerfile"))
	assert.Equal(t, "YAML", table.FileType("ci/pipeline.yaml"))
}

func TestFrameworkPathSignatureWinsOverContent(t *testing.T) {
	table := &Table{
		Frameworks: []Signature{
			{Pattern: "next.config.js", Name: "Next.js"},
			{Pattern: "angular.json", Name: "Angular"},
		},
		ManifestDeps: []Signature{
			{Substring: "react", Name: "React"},
		},
	}

	name, ok := table.Framework("web/next.config.js", `{"dependencies":{"react":"18"}}`)
	require.True(t, ok)
	assert.Equal(t, "Next.js", name)
}

func TestFrameworkManifestFallback(t *testing.T) {
	table := &Table{
		ManifestDeps: []Signature{
			{Substring: "react", Name: "React"},
			{Substring: "vue", Name: "Vue.js"},
		},
	}

	name, ok := table.Framework("package.json", `{"dependencies":{"react":"^18.2.0"}}`)
	require.True(t, ok)
	assert.Equal(t, "React", name)

	// Content scanning only applies to package manifests.
	_, ok = table.Framework("docs/notes.md", "we might adopt react someday")
	assert.False(t, ok)

	_, ok = table.Framework("package.json", `{"dependencies":{"lodash":"4"}}`)
	assert.False(t, ok)
}

func TestProjectTypeWebsiteBeforeMarkers(t *testing.T) {
	table := &Table{
		WebsiteExtensions: []string{".html", ".css"},
		ProjectTypes: []Signature{
			{Marker: "go.mod", Name: "Go Backend"},
			{Marker: "AndroidManifest.xml", Name: "Mobile App"},
		},
	}

	label, ok := table.ProjectType("app/index.html", "")
	require.True(t, ok)
	assert.Equal(t, WebsiteLabel, label)

	label, ok = table.ProjectType("go.mod", "module example.com/x")
	require.True(t, ok)
	assert.Equal(t, "Go Backend", label)

	// Marker may live in content rather than path.
	label, ok = table.ProjectType("android/app/src/AndroidManifest.xml", "")
	require.True(t, ok)
	assert.Equal(t, "Mobile App", label)

	_, ok = table.ProjectType("src/lib.rs", "pub fn run() {}")
	assert.False(t, ok)
}

// writeTable drops a rule document into a temp dir and returns its path.
func writeTable(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

// minimalDoc builds a document with all ten categories where the first
// category's types stanza is the supplied fragment and the rest are valid.
func minimalDoc(firstTypes string) string {
	doc := "version: 1\ncategories:\n"
	for i, name := range CategoryOrder {
		doc += "  - name: " + name + "\n"
		if i == 0 {
			doc += "    " + firstTypes + "\n"
		} else {
			doc += "    types: [{name: T" + name + ", patterns: [\"*.x" + name + "\"]}]\n"
		}
	}
	return doc
}
