// Package scoring ranks catalog candidates against a derived requirement
// profile. Ranking is a pure function over immutable inputs; the
// compatibility tables below are read-only and safe to share across
// concurrent runs.
package scoring

import (
	"github.com/fyrsmithlabs/draftd/internal/catalog"
	"github.com/fyrsmithlabs/draftd/internal/design"
)

// categoryAffinity grades how well a candidate's category substitutes for
// the requested one, in [0,1]. Pairs absent from the table have affinity 0.
var categoryAffinity = map[catalog.Category]map[catalog.Category]float64{
	catalog.CategoryDashboard: {
		catalog.CategoryProductivity: 0.6,
		catalog.CategorySaaS:         0.7,
	},
	catalog.CategoryProductivity: {
		catalog.CategoryDashboard: 0.6,
		catalog.CategorySaaS:      0.5,
	},
	catalog.CategoryEcommerce: {
		catalog.CategoryLanding: 0.5,
		catalog.CategorySaaS:    0.4,
	},
	catalog.CategoryPortfolio: {
		catalog.CategoryLanding: 0.6,
		catalog.CategoryBlog:    0.5,
	},
	catalog.CategoryLanding: {
		catalog.CategorySaaS:      0.7,
		catalog.CategoryEcommerce: 0.5,
		catalog.CategoryPortfolio: 0.6,
	},
	catalog.CategoryBlog: {
		catalog.CategorySocial:    0.6,
		catalog.CategoryPortfolio: 0.5,
	},
	catalog.CategorySocial: {
		catalog.CategoryBlog: 0.6,
	},
	catalog.CategorySaaS: {
		catalog.CategoryLanding:   0.7,
		catalog.CategoryDashboard: 0.7,
	},
}

// CategoryAffinity returns the affinity of candidate category a toward
// requested category b. Exact matches are scored separately by the ranker;
// this lookup only covers substitutions.
func CategoryAffinity(a, b catalog.Category) float64 {
	return categoryAffinity[a][b]
}

const layoutDefaultAffinity = 0.5

// layoutTone grades how well a page layout carries an emotional tone.
var layoutTone = map[catalog.Layout]map[design.Tone]float64{
	catalog.LayoutGrid: {
		design.TonePlayful:   0.8,
		design.ToneEnergetic: 0.7,
		design.ToneMinimal:   0.4,
	},
	catalog.LayoutSingleColumn: {
		design.ToneMinimal: 0.9,
		design.ToneCalm:    0.8,
	},
	catalog.LayoutSidebar: {
		design.ToneProfessional: 0.9,
		design.ToneCalm:         0.6,
	},
	catalog.LayoutHero: {
		design.ToneBold:      0.9,
		design.ToneEnergetic: 0.8,
		design.TonePlayful:   0.6,
	},
	catalog.LayoutMagazine: {
		design.ToneCalm: 0.7,
		design.ToneBold: 0.6,
	},
	catalog.LayoutSplit: {
		design.ToneProfessional: 0.7,
		design.ToneEnergetic:    0.6,
	},
}

// layoutAudience grades how well a layout serves an audience.
var layoutAudience = map[catalog.Layout]map[design.Audience]float64{
	catalog.LayoutGrid: {
		design.AudienceConsumers: 0.8,
		design.AudienceCreators:  0.6,
	},
	catalog.LayoutSingleColumn: {
		design.AudienceStudents:  0.7,
		design.AudienceConsumers: 0.6,
	},
	catalog.LayoutSidebar: {
		design.AudienceProfessionals: 0.9,
		design.AudienceEnterprises:   0.8,
	},
	catalog.LayoutHero: {
		design.AudienceConsumers:     0.7,
		design.AudienceProfessionals: 0.6,
	},
	catalog.LayoutMagazine: {
		design.AudienceCreators: 0.8,
		design.AudienceStudents: 0.6,
	},
	catalog.LayoutSplit: {
		design.AudienceCreators:      0.7,
		design.AudienceProfessionals: 0.6,
	},
}

// LayoutToneAffinity returns the layout/tone affinity, 0.5 when the pair
// is absent from the table.
func LayoutToneAffinity(l catalog.Layout, t design.Tone) float64 {
	if v, ok := layoutTone[l][t]; ok {
		return v
	}
	return layoutDefaultAffinity
}

// LayoutAudienceAffinity returns the layout/audience affinity, 0.5 when
// the pair is absent from the table.
func LayoutAudienceAffinity(l catalog.Layout, a design.Audience) float64 {
	if v, ok := layoutAudience[l][a]; ok {
		return v
	}
	return layoutDefaultAffinity
}

// audienceCategories lists the categories each audience responds to.
var audienceCategories = map[design.Audience]map[catalog.Category]bool{
	design.AudienceConsumers: {
		catalog.CategoryEcommerce: true,
		catalog.CategoryLanding:   true,
		catalog.CategorySocial:    true,
		catalog.CategoryBlog:      true,
	},
	design.AudienceProfessionals: {
		catalog.CategoryDashboard:    true,
		catalog.CategoryProductivity: true,
		catalog.CategorySaaS:         true,
	},
	design.AudienceCreators: {
		catalog.CategoryPortfolio: true,
		catalog.CategoryBlog:      true,
		catalog.CategorySocial:    true,
	},
	design.AudienceEnterprises: {
		catalog.CategoryDashboard:    true,
		catalog.CategorySaaS:         true,
		catalog.CategoryProductivity: true,
	},
	design.AudienceStudents: {
		catalog.CategoryBlog:         true,
		catalog.CategoryProductivity: true,
		catalog.CategoryLanding:      true,
	},
}

// AudienceAllows reports whether a candidate category sits in the
// audience's allowed set.
func AudienceAllows(a design.Audience, c catalog.Category) bool {
	return audienceCategories[a][c]
}

// goalCategories lists the categories that serve each primary goal.
var goalCategories = map[design.Goal]map[catalog.Category]bool{
	design.GoalConvert: {
		catalog.CategoryLanding:   true,
		catalog.CategorySaaS:      true,
		catalog.CategoryEcommerce: true,
	},
	design.GoalInform: {
		catalog.CategoryBlog:      true,
		catalog.CategoryLanding:   true,
		catalog.CategoryDashboard: true,
	},
	design.GoalEngage: {
		catalog.CategorySocial:       true,
		catalog.CategoryBlog:         true,
		catalog.CategoryProductivity: true,
	},
	design.GoalSell: {
		catalog.CategoryEcommerce: true,
		catalog.CategorySaaS:      true,
		catalog.CategoryLanding:   true,
	},
	design.GoalShowcase: {
		catalog.CategoryPortfolio: true,
		catalog.CategoryLanding:   true,
		catalog.CategoryBlog:      true,
	},
}

// GoalAllows reports whether a candidate category sits in the goal's
// allowed set.
func GoalAllows(g design.Goal, c catalog.Category) bool {
	return goalCategories[g][c]
}
