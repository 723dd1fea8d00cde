package scoring

import (
	"math"
	"sort"

	"github.com/fyrsmithlabs/draftd/internal/catalog"
	"github.com/fyrsmithlabs/draftd/internal/design"
)

// Scoring weights. Category dominates, then complexity, then layout and
// goal fit; base quality acts as a quality-floor tiebreaker.
const (
	weightCategoryExact    = 40.0
	weightCategoryAffinity = 20.0
	bonusHighDiversity     = 15.0
	weightComplexityExact  = 25.0
	weightComplexityNear   = 15.0
	complexityDecay        = 0.3
	weightLayout           = 20.0
	weightQuality          = 1.5
	weightAudience         = 10.0
	audienceMissFactor     = 0.3
	weightGoal             = 15.0
	goalMissFactor         = 0.4
)

// highDiversityCategory marks the category whose catalog entries vary the
// most internally; requests for it get a flat bonus on every candidate so
// near-misses stay in contention.
const highDiversityCategory = catalog.CategoryPortfolio

// Breakdown itemizes one candidate's score by criterion.
type Breakdown struct {
	Category   float64 `json:"category"`
	Complexity float64 `json:"complexity"`
	Layout     float64 `json:"layout"`
	Quality    float64 `json:"quality"`
	Audience   float64 `json:"audience"`
	Goal       float64 `json:"goal"`
}

// Total returns the summed score.
func (b Breakdown) Total() float64 {
	return b.Category + b.Complexity + b.Layout + b.Quality + b.Audience + b.Goal
}

// ScoredCandidate pairs a candidate with its score. Created fresh per
// ranking run, never persisted.
type ScoredCandidate struct {
	Candidate   catalog.Candidate `json:"candidate"`
	Score       float64           `json:"score"`
	Breakdown   Breakdown         `json:"breakdown"`
	CatalogRank int               `json:"catalog_rank"`
}

// Rank scores every candidate against the profile and returns them sorted
// descending by score, ties broken by catalog order. The result is always
// a permutation of the input; an empty input yields an empty slice and the
// caller falls back to catalog.Default().
func Rank(candidates []catalog.Candidate, dctx design.Context) []ScoredCandidate {
	scored := make([]ScoredCandidate, 0, len(candidates))
	for i, c := range candidates {
		bd := score(c, dctx)
		scored = append(scored, ScoredCandidate{
			Candidate:   c,
			Score:       bd.Total(),
			Breakdown:   bd,
			CatalogRank: i,
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

func score(c catalog.Candidate, dctx design.Context) Breakdown {
	var bd Breakdown

	if c.Category == dctx.Category {
		bd.Category = weightCategoryExact
	} else {
		bd.Category = weightCategoryAffinity * CategoryAffinity(c.Category, dctx.Category)
	}
	if dctx.Category == highDiversityCategory {
		bd.Category += bonusHighDiversity
	}

	if c.Complexity == dctx.Complexity {
		bd.Complexity = weightComplexityExact
	} else {
		delta := math.Abs(float64(c.Complexity.Level() - dctx.Complexity.Level()))
		bd.Complexity = weightComplexityNear * math.Max(0, 1-complexityDecay*delta)
	}

	bd.Layout = weightLayout * math.Max(
		LayoutToneAffinity(c.Layout, dctx.Tone),
		LayoutAudienceAffinity(c.Layout, dctx.Audience),
	)

	bd.Quality = weightQuality * c.BaseQuality

	if AudienceAllows(dctx.Audience, c.Category) {
		bd.Audience = weightAudience
	} else {
		bd.Audience = weightAudience * audienceMissFactor
	}

	if GoalAllows(dctx.Goal, c.Category) {
		bd.Goal = weightGoal
	} else {
		bd.Goal = weightGoal * goalMissFactor
	}

	return bd
}
