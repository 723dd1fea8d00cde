// Package customize adapts a winning catalog candidate to a requirement
// profile: colors, layout, complexity, and component list, plus a one-time
// quality boost and best-effort asset enrichment.
package customize

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/draftd/internal/catalog"
	"github.com/fyrsmithlabs/draftd/internal/design"
	"github.com/fyrsmithlabs/draftd/internal/logging"
)

// Options selects which dimensions of the candidate get adapted.
type Options struct {
	AdaptColors     bool `json:"adapt_colors"`
	AdaptLayout     bool `json:"adapt_layout"`
	AdaptComplexity bool `json:"adapt_complexity"`
	AdaptComponents bool `json:"adapt_components"`
}

// AllOptions enables every adaptation.
func AllOptions() Options {
	return Options{AdaptColors: true, AdaptLayout: true, AdaptComplexity: true, AdaptComponents: true}
}

// Adapted is the customized candidate. SourceID always names the catalog
// entry it was derived from.
type Adapted struct {
	catalog.Candidate
	SourceID string   `json:"source_id"`
	Warnings []string `json:"warnings,omitempty"`
	Assets   *Assets  `json:"assets,omitempty"`
}

// toneLayouts replaces the candidate layout per tone. Tones absent from
// the table keep the original layout.
var toneLayouts = map[design.Tone]catalog.Layout{
	design.ToneProfessional: catalog.LayoutSidebar,
	design.ToneMinimal:      catalog.LayoutSingleColumn,
	design.ToneBold:         catalog.LayoutHero,
	design.TonePlayful:      catalog.LayoutGrid,
	design.ToneEnergetic:    catalog.LayoutMagazine,
}

// supplementalComponents are appended, in this order, when adapting a
// candidate up to complex.
var supplementalComponents = []string{
	"analytics", "notifications", "search", "integrations", "admin-panel",
}

const simpleComponentLimit = 3

// Customizer derives Adapted candidates. The zero value is not usable;
// construct with New. Safe for concurrent use.
type Customizer struct {
	logger        *logging.Logger
	enricher      Enricher
	enrichTimeout time.Duration
	now           func() time.Time
}

// Option configures a Customizer.
type Option func(*Customizer)

// WithEnricher attaches a best-effort asset enricher with its own timeout.
func WithEnricher(e Enricher, timeout time.Duration) Option {
	return func(c *Customizer) {
		c.enricher = e
		c.enrichTimeout = timeout
	}
}

// WithClock overrides the identity-timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Customizer) { c.now = now }
}

// New returns a Customizer.
func New(logger *logging.Logger, opts ...Option) *Customizer {
	if logger == nil {
		logger = logging.NewNop()
	}
	c := &Customizer{
		logger:        logger,
		enrichTimeout: 3 * time.Second,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Customize adapts the candidate to the profile. Deterministic except for
// the identity timestamp and the enrichment outcome; enrichment failure
// degrades to a warning and never fails the call.
func (c *Customizer) Customize(ctx context.Context, cand catalog.Candidate, dctx design.Context, palette catalog.ColorSlots, opts Options) Adapted {
	out := Adapted{
		Candidate: cand.Clone(),
		SourceID:  cand.ID,
	}
	out.ID = fmt.Sprintf("%s-%d", cand.ID, c.now().UnixMilli())
	out.Name = fmt.Sprintf("%s %s", titleCase(string(dctx.Category)), cand.Name)

	if opts.AdaptColors {
		out.Colors = palette
	}

	if opts.AdaptComplexity && out.Complexity != dctx.Complexity {
		out.Complexity = dctx.Complexity
	}

	if opts.AdaptComponents {
		out.Components = adaptComponents(out.Components, out.Complexity)
	}

	if opts.AdaptLayout {
		if layout, ok := toneLayouts[dctx.Tone]; ok {
			out.Layout = layout
		}
	}

	// Boost computed from the source value so repeat customization of an
	// already-adapted candidate cannot compound past the cap.
	out.BaseQuality = boostQuality(cand.BaseQuality)

	if c.enricher != nil {
		ectx, cancel := context.WithTimeout(ctx, c.enrichTimeout)
		assets, err := c.enricher.Enrich(ectx, cand.ID)
		cancel()
		if err != nil {
			warning := fmt.Sprintf("asset enrichment unavailable for %s: %v", cand.ID, err)
			out.Warnings = append(out.Warnings, warning)
			c.logger.Warn(ctx, "asset enrichment failed",
				zap.String("candidate_id", cand.ID),
				zap.Error(err),
			)
		} else {
			out.Assets = &assets
		}
	}

	return out
}

// adaptComponents reshapes the component list for the target complexity.
// Simple keeps a prefix of at most three entries; complex appends missing
// supplemental components in their fixed order. Moderate is untouched.
func adaptComponents(components []string, complexity catalog.Complexity) []string {
	switch complexity {
	case catalog.ComplexitySimple:
		if len(components) > simpleComponentLimit {
			return components[:simpleComponentLimit]
		}
		return components
	case catalog.ComplexityComplex:
		have := make(map[string]bool, len(components))
		for _, comp := range components {
			have[comp] = true
		}
		out := components
		for _, supp := range supplementalComponents {
			if !have[supp] {
				out = append(out, supp)
			}
		}
		return out
	}
	return components
}

func boostQuality(base float64) float64 {
	boosted := base + 1
	if boosted > 10 {
		return 10
	}
	return boosted
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
