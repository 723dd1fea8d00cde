// Package catalog defines the template catalog draftd selects from.
// Candidates are immutable once loaded and safe to share across
// concurrent generation runs.
package catalog

import (
	"fmt"
)

// Category classifies what kind of product a template targets.
type Category string

const (
	CategoryDashboard    Category = "dashboard"
	CategoryProductivity Category = "productivity"
	CategoryEcommerce    Category = "ecommerce"
	CategoryPortfolio    Category = "portfolio"
	CategoryLanding      Category = "landing"
	CategoryBlog         Category = "blog"
	CategorySocial       Category = "social"
	CategorySaaS         Category = "saas"
)

// Categories returns all known categories in canonical order.
func Categories() []Category {
	return []Category{
		CategoryDashboard, CategoryProductivity, CategoryEcommerce,
		CategoryPortfolio, CategoryLanding, CategoryBlog,
		CategorySocial, CategorySaaS,
	}
}

// Valid reports whether the category is a known value.
func (c Category) Valid() bool {
	switch c {
	case CategoryDashboard, CategoryProductivity, CategoryEcommerce,
		CategoryPortfolio, CategoryLanding, CategoryBlog,
		CategorySocial, CategorySaaS:
		return true
	}
	return false
}

// Complexity grades how much structure a template carries.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// Valid reports whether the complexity is a known value.
func (c Complexity) Valid() bool {
	switch c {
	case ComplexitySimple, ComplexityModerate, ComplexityComplex:
		return true
	}
	return false
}

// Level maps complexity to a numeric grade: simple=1, moderate=2, complex=3.
// Unknown values map to 0.
func (c Complexity) Level() int {
	switch c {
	case ComplexitySimple:
		return 1
	case ComplexityModerate:
		return 2
	case ComplexityComplex:
		return 3
	}
	return 0
}

// Layout names the page structure a template ships with.
type Layout string

const (
	LayoutGrid         Layout = "grid"
	LayoutSingleColumn Layout = "single-column"
	LayoutSidebar      Layout = "sidebar"
	LayoutHero         Layout = "hero"
	LayoutMagazine     Layout = "magazine"
	LayoutSplit        Layout = "split"
)

// Valid reports whether the layout is a known value.
func (l Layout) Valid() bool {
	switch l {
	case LayoutGrid, LayoutSingleColumn, LayoutSidebar,
		LayoutHero, LayoutMagazine, LayoutSplit:
		return true
	}
	return false
}

// ColorSlots holds the five named color roles of a template.
type ColorSlots struct {
	Primary    string `koanf:"primary" json:"primary"`
	Secondary  string `koanf:"secondary" json:"secondary"`
	Accent     string `koanf:"accent" json:"accent"`
	Background string `koanf:"background" json:"background"`
	Text       string `koanf:"text" json:"text"`
}

// Candidate is one selectable template. Immutable once loaded.
type Candidate struct {
	ID          string     `koanf:"id" json:"id"`
	Name        string     `koanf:"name" json:"name"`
	Category    Category   `koanf:"category" json:"category"`
	Complexity  Complexity `koanf:"complexity" json:"complexity"`
	Layout      Layout     `koanf:"layout" json:"layout"`
	Colors      ColorSlots `koanf:"colors" json:"colors"`
	Components  []string   `koanf:"components" json:"components"`
	BaseQuality float64    `koanf:"base_quality" json:"base_quality"` // 0-10
}

// Validate checks the candidate for structural errors.
func (c Candidate) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("candidate id cannot be empty")
	}
	if c.Name == "" {
		return fmt.Errorf("candidate %s: name cannot be empty", c.ID)
	}
	if !c.Category.Valid() {
		return fmt.Errorf("candidate %s: unknown category %q", c.ID, c.Category)
	}
	if !c.Complexity.Valid() {
		return fmt.Errorf("candidate %s: unknown complexity %q", c.ID, c.Complexity)
	}
	if !c.Layout.Valid() {
		return fmt.Errorf("candidate %s: unknown layout %q", c.ID, c.Layout)
	}
	if c.BaseQuality < 0 || c.BaseQuality > 10 {
		return fmt.Errorf("candidate %s: base_quality must be 0-10, got %f", c.ID, c.BaseQuality)
	}
	if len(c.Components) == 0 {
		return fmt.Errorf("candidate %s: component list cannot be empty", c.ID)
	}
	return nil
}

// Clone returns a deep copy; callers that mutate a candidate must work
// on a clone so the shared catalog stays immutable.
func (c Candidate) Clone() Candidate {
	out := c
	out.Components = append([]string(nil), c.Components...)
	return out
}
