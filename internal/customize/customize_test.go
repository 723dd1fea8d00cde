package customize

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/draftd/internal/catalog"
	"github.com/fyrsmithlabs/draftd/internal/design"
)

func fixedClock() func() time.Time {
	t := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	return func() time.Time { return t }
}

func testProfile() design.Context {
	return design.Context{
		Category:   catalog.CategoryPortfolio,
		Complexity: catalog.ComplexitySimple,
		Tone:       design.ToneMinimal,
		Audience:   design.AudienceCreators,
		Goal:       design.GoalShowcase,
		Confidence: 7,
	}
}

func sourceCandidate() catalog.Candidate {
	return catalog.Candidate{
		ID:         "tpl-source",
		Name:       "Source",
		Category:   catalog.CategoryBlog,
		Complexity: catalog.ComplexityModerate,
		Layout:     catalog.LayoutMagazine,
		Colors: catalog.ColorSlots{
			Primary: "#111111", Secondary: "#222222", Accent: "#333333",
			Background: "#ffffff", Text: "#000000",
		},
		Components:  []string{"nav", "article-list", "article-view", "tags", "footer"},
		BaseQuality: 7,
	}
}

func TestCustomize_IdentityAndTraceability(t *testing.T) {
	c := New(nil, WithClock(fixedClock()))
	src := sourceCandidate()

	got := c.Customize(context.Background(), src, testProfile(), design.PaletteFor(design.ToneMinimal), AllOptions())

	assert.Equal(t, "tpl-source", got.SourceID)
	assert.True(t, strings.HasPrefix(got.ID, "tpl-source-"), "id %q must carry the source id", got.ID)
	assert.NotEqual(t, src.ID, got.ID)
	assert.Equal(t, "Portfolio Source", got.Name)
}

func TestCustomize_ColorsReplacedWholesale(t *testing.T) {
	c := New(nil, WithClock(fixedClock()))
	palette := design.PaletteFor(design.ToneBold)

	got := c.Customize(context.Background(), sourceCandidate(), testProfile(), palette, Options{AdaptColors: true})
	assert.Equal(t, palette, got.Colors)

	kept := c.Customize(context.Background(), sourceCandidate(), testProfile(), palette, Options{})
	assert.Equal(t, sourceCandidate().Colors, kept.Colors)
}

func TestCustomize_SimpleComponentsArePrefix(t *testing.T) {
	c := New(nil, WithClock(fixedClock()))
	src := sourceCandidate()

	got := c.Customize(context.Background(), src, testProfile(), catalog.ColorSlots{},
		Options{AdaptComplexity: true, AdaptComponents: true})

	assert.Equal(t, catalog.ComplexitySimple, got.Complexity)
	require.LessOrEqual(t, len(got.Components), 3)
	for i, comp := range got.Components {
		assert.Equal(t, src.Components[i], comp, "component %d must keep source order", i)
	}
}

func TestCustomize_ComplexAppendsSupplementals(t *testing.T) {
	c := New(nil, WithClock(fixedClock()))
	src := sourceCandidate()
	src.Components = []string{"nav", "search", "footer"} // search already present

	dctx := testProfile()
	dctx.Complexity = catalog.ComplexityComplex

	got := c.Customize(context.Background(), src, dctx, catalog.ColorSlots{},
		Options{AdaptComplexity: true, AdaptComponents: true})

	assert.Equal(t, catalog.ComplexityComplex, got.Complexity)
	assert.Equal(t,
		[]string{"nav", "search", "footer", "analytics", "notifications", "integrations", "admin-panel"},
		got.Components)
}

func TestCustomize_LayoutFollowsTone(t *testing.T) {
	c := New(nil, WithClock(fixedClock()))

	tests := []struct {
		tone   design.Tone
		layout catalog.Layout
	}{
		{design.ToneProfessional, catalog.LayoutSidebar},
		{design.ToneMinimal, catalog.LayoutSingleColumn},
		{design.ToneBold, catalog.LayoutHero},
		{design.TonePlayful, catalog.LayoutGrid},
		{design.ToneEnergetic, catalog.LayoutMagazine},
	}
	for _, tt := range tests {
		dctx := testProfile()
		dctx.Tone = tt.tone
		got := c.Customize(context.Background(), sourceCandidate(), dctx, catalog.ColorSlots{}, Options{AdaptLayout: true})
		assert.Equal(t, tt.layout, got.Layout, "tone %s", tt.tone)
	}

	// Calm is unmapped and keeps the source layout.
	dctx := testProfile()
	dctx.Tone = design.ToneCalm
	got := c.Customize(context.Background(), sourceCandidate(), dctx, catalog.ColorSlots{}, Options{AdaptLayout: true})
	assert.Equal(t, sourceCandidate().Layout, got.Layout)
}

func TestCustomize_QualityBoostCappedNonCompounding(t *testing.T) {
	c := New(nil, WithClock(fixedClock()))

	src := sourceCandidate()
	src.BaseQuality = 9.5
	got := c.Customize(context.Background(), src, testProfile(), catalog.ColorSlots{}, Options{})
	assert.Equal(t, 10.0, got.BaseQuality)

	// Re-customizing the adapted candidate never pushes past the cap.
	for range 3 {
		got = c.Customize(context.Background(), got.Candidate, testProfile(), catalog.ColorSlots{}, Options{})
		assert.LessOrEqual(t, got.BaseQuality, 10.0)
	}
}

func TestCustomize_SourceUntouched(t *testing.T) {
	c := New(nil, WithClock(fixedClock()))
	src := sourceCandidate()

	_ = c.Customize(context.Background(), src, testProfile(), design.PaletteFor(design.ToneBold), AllOptions())

	assert.Equal(t, sourceCandidate(), src)
}

type stubEnricher struct {
	assets Assets
	err    error
}

func (s stubEnricher) Enrich(_ context.Context, _ string) (Assets, error) {
	return s.assets, s.err
}

func TestCustomize_EnrichmentSuccess(t *testing.T) {
	enricher := stubEnricher{assets: Assets{PreviewURL: "https://assets.example/preview.png"}}
	c := New(nil, WithClock(fixedClock()), WithEnricher(enricher, time.Second))

	got := c.Customize(context.Background(), sourceCandidate(), testProfile(), catalog.ColorSlots{}, Options{})
	require.NotNil(t, got.Assets)
	assert.Equal(t, "https://assets.example/preview.png", got.Assets.PreviewURL)
	assert.Empty(t, got.Warnings)
}

func TestCustomize_EnrichmentFailureDegrades(t *testing.T) {
	enricher := stubEnricher{err: errors.New("connection refused")}
	c := New(nil, WithClock(fixedClock()), WithEnricher(enricher, time.Second))

	got := c.Customize(context.Background(), sourceCandidate(), testProfile(), catalog.ColorSlots{}, Options{})
	assert.Nil(t, got.Assets)
	require.Len(t, got.Warnings, 1)
	assert.Contains(t, got.Warnings[0], "tpl-source")
	assert.Equal(t, "tpl-source", got.SourceID)
}
