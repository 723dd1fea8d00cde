package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin_AllValid(t *testing.T) {
	candidates := Builtin()
	require.NotEmpty(t, candidates)

	seen := make(map[string]bool)
	for _, c := range candidates {
		assert.NoError(t, c.Validate(), "candidate %s", c.ID)
		assert.False(t, seen[c.ID], "duplicate id %s", c.ID)
		seen[c.ID] = true
	}
}

func TestBuiltin_CoversEveryComplexity(t *testing.T) {
	byComplexity := make(map[Complexity]int)
	for _, c := range Builtin() {
		byComplexity[c.Complexity]++
	}
	assert.Positive(t, byComplexity[ComplexitySimple])
	assert.Positive(t, byComplexity[ComplexityModerate])
	assert.Positive(t, byComplexity[ComplexityComplex])
}

func TestBuiltin_FreshSlice(t *testing.T) {
	a := Builtin()
	a[0].Components[0] = "mutated"
	b := Builtin()
	assert.NotEqual(t, "mutated", b[0].Components[0])
}

func TestDefault_Valid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestComplexity_Level(t *testing.T) {
	assert.Equal(t, 1, ComplexitySimple.Level())
	assert.Equal(t, 2, ComplexityModerate.Level())
	assert.Equal(t, 3, ComplexityComplex.Level())
	assert.Equal(t, 0, Complexity("epic").Level())
}

func TestCandidate_Validate(t *testing.T) {
	valid := Builtin()[0]

	tests := []struct {
		name   string
		mutate func(*Candidate)
	}{
		{"empty id", func(c *Candidate) { c.ID = "" }},
		{"empty name", func(c *Candidate) { c.Name = "" }},
		{"bad category", func(c *Candidate) { c.Category = "arcade" }},
		{"bad complexity", func(c *Candidate) { c.Complexity = "epic" }},
		{"bad layout", func(c *Candidate) { c.Layout = "mosaic" }},
		{"quality out of range", func(c *Candidate) { c.BaseQuality = 11 }},
		{"no components", func(c *Candidate) { c.Components = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid.Clone()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestCandidate_Clone(t *testing.T) {
	src := Builtin()[0]
	dup := src.Clone()
	dup.Components[0] = "changed"
	assert.NotEqual(t, src.Components[0], dup.Components[0])
}

func TestLoad_EmptyPathReturnsBuiltin(t *testing.T) {
	got, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Builtin(), got)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := `
candidates:
  - id: tpl-custom
    name: Custom
    category: landing
    complexity: simple
    layout: hero
    colors:
      primary: "#000000"
      secondary: "#333333"
      accent: "#ff0000"
      background: "#ffffff"
      text: "#111111"
    components: [hero, footer]
    base_quality: 7
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	got, err := Load(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "tpl-custom", got[0].ID)
	assert.Equal(t, CategoryLanding, got[0].Category)
	assert.Equal(t, []string{"hero", "footer"}, got[0].Components)
}

func TestLoad_RejectsInvalidEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := `
candidates:
  - id: tpl-broken
    name: Broken
    category: arcade
    complexity: simple
    layout: hero
    components: [hero]
    base_quality: 7
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")
}

func TestLoad_RejectsDuplicateIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := `
candidates:
  - {id: tpl-a, name: A, category: blog, complexity: simple, layout: hero, components: [hero], base_quality: 5}
  - {id: tpl-a, name: B, category: blog, complexity: simple, layout: hero, components: [hero], base_quality: 5}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
