package design

import (
	"context"
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/draftd/internal/catalog"
	"github.com/fyrsmithlabs/draftd/internal/logging"
	"go.uber.org/zap"
)

// Builder derives a Context from a Brief using keyword classification.
// Construct with NewBuilder; safe for concurrent use.
type Builder struct {
	logger    *logging.Logger
	overrides []categoryOverride
}

// categoryOverride forcibly replaces the derived category when the brief
// contains the trigger substring. Overrides run after keyword scoring;
// every application is logged.
type categoryOverride struct {
	Trigger  string
	Category catalog.Category
}

// defaultOverrides captures phrasings the keyword tables misclassify.
// Each entry needs a comment naming the failure it corrects.
func defaultOverrides() []categoryOverride {
	return []categoryOverride{
		// "online store" carries no single keyword the table scores,
		// but is unambiguously ecommerce.
		{Trigger: "online store", Category: catalog.CategoryEcommerce},
		// "admin panel" would otherwise score productivity via "panel".
		{Trigger: "admin panel", Category: catalog.CategoryDashboard},
	}
}

// NewBuilder returns a Builder with the default override table.
func NewBuilder(logger *logging.Logger) *Builder {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Builder{logger: logger, overrides: defaultOverrides()}
}

// categoryKeywords maps lowercase keywords to the category they indicate.
// Each hit counts one vote; the category with the most votes wins, ties
// broken by canonical category order.
var categoryKeywords = map[string]catalog.Category{
	"dashboard": catalog.CategoryDashboard,
	"analytics": catalog.CategoryDashboard,
	"metrics":   catalog.CategoryDashboard,
	"kpi":       catalog.CategoryDashboard,
	"report":    catalog.CategoryDashboard,

	"task":         catalog.CategoryProductivity,
	"todo":         catalog.CategoryProductivity,
	"productivity": catalog.CategoryProductivity,
	"planner":      catalog.CategoryProductivity,
	"workflow":     catalog.CategoryProductivity,

	"shop":      catalog.CategoryEcommerce,
	"store":     catalog.CategoryEcommerce,
	"ecommerce": catalog.CategoryEcommerce,
	"product":   catalog.CategoryEcommerce,
	"checkout":  catalog.CategoryEcommerce,
	"cart":      catalog.CategoryEcommerce,

	"portfolio": catalog.CategoryPortfolio,
	"showcase":  catalog.CategoryPortfolio,
	"gallery":   catalog.CategoryPortfolio,
	"artist":    catalog.CategoryPortfolio,
	"designer":  catalog.CategoryPortfolio,

	"landing":  catalog.CategoryLanding,
	"launch":   catalog.CategoryLanding,
	"waitlist": catalog.CategoryLanding,
	"signup":   catalog.CategoryLanding,

	"blog":       catalog.CategoryBlog,
	"article":    catalog.CategoryBlog,
	"newsletter": catalog.CategoryBlog,
	"magazine":   catalog.CategoryBlog,

	"social":    catalog.CategorySocial,
	"community": catalog.CategorySocial,
	"forum":     catalog.CategorySocial,
	"feed":      catalog.CategorySocial,

	"saas":         catalog.CategorySaaS,
	"subscription": catalog.CategorySaaS,
	"pricing":      catalog.CategorySaaS,
	"b2b":          catalog.CategorySaaS,
}

var toneKeywords = map[string]Tone{
	"professional": ToneProfessional,
	"corporate":    ToneProfessional,
	"serious":      ToneProfessional,
	"fun":          TonePlayful,
	"playful":      TonePlayful,
	"quirky":       TonePlayful,
	"minimal":      ToneMinimal,
	"clean":        ToneMinimal,
	"simple":       ToneMinimal,
	"bold":         ToneBold,
	"striking":     ToneBold,
	"dramatic":     ToneBold,
	"calm":         ToneCalm,
	"soothing":     ToneCalm,
	"gentle":       ToneCalm,
	"energetic":    ToneEnergetic,
	"vibrant":      ToneEnergetic,
	"dynamic":      ToneEnergetic,
}

var audienceKeywords = map[string]Audience{
	"consumer":     AudienceConsumers,
	"shopper":      AudienceConsumers,
	"everyone":     AudienceConsumers,
	"professional": AudienceProfessionals,
	"business":     AudienceProfessionals,
	"freelancer":   AudienceProfessionals,
	"creator":      AudienceCreators,
	"artist":       AudienceCreators,
	"writer":       AudienceCreators,
	"enterprise":   AudienceEnterprises,
	"corporation":  AudienceEnterprises,
	"organization": AudienceEnterprises,
	"student":      AudienceStudents,
	"learner":      AudienceStudents,
	"university":   AudienceStudents,
}

var goalKeywords = map[string]Goal{
	"convert":  GoalConvert,
	"signup":   GoalConvert,
	"lead":     GoalConvert,
	"inform":   GoalInform,
	"educate":  GoalInform,
	"explain":  GoalInform,
	"engage":   GoalEngage,
	"interact": GoalEngage,
	"retain":   GoalEngage,
	"sell":     GoalSell,
	"revenue":  GoalSell,
	"purchase": GoalSell,
	"showcase": GoalShowcase,
	"present":  GoalShowcase,
	"display":  GoalShowcase,
}

// complexitySignals raise the derived complexity when present.
var complexitySignals = []string{
	"auth", "login", "payment", "integration", "api", "realtime",
	"multi-user", "admin", "search", "notification",
}

// Build derives the requirement profile from a brief. The brief text is
// required; the structured fields refine classification when present.
func (b *Builder) Build(ctx context.Context, brief Brief) (Context, error) {
	text := strings.ToLower(strings.TrimSpace(brief.Text))
	if text == "" {
		return Context{}, fmt.Errorf("brief text cannot be empty")
	}

	signals := 0

	category, catHits := classifyCategory(text, brief.Industry)
	signals += catHits

	for _, ov := range b.overrides {
		if strings.Contains(text, ov.Trigger) && ov.Category != category {
			b.logger.Info(ctx, "category override applied",
				zap.String("trigger", ov.Trigger),
				zap.String("derived", string(category)),
				zap.String("override", string(ov.Category)),
			)
			category = ov.Category
			break
		}
	}

	tone, hit := matchKeyword(text, toneKeywords)
	if hit {
		signals++
	} else {
		tone = ToneProfessional
	}

	audience, hit := classifyAudience(text, brief.Audience)
	if hit {
		signals++
	}

	goal, hit := matchKeyword(text, goalKeywords)
	if hit {
		signals++
	} else {
		goal = defaultGoalFor(category)
	}

	complexity := deriveComplexity(text, brief.QualityLevel)

	// One matched concern is worth 2 confidence points over a base of 2,
	// capped at 10.
	confidence := 2 + 2*float64(min(signals, 4))
	if confidence > 10 {
		confidence = 10
	}

	dctx := Context{
		Category:   category,
		Complexity: complexity,
		Tone:       tone,
		Audience:   audience,
		Goal:       goal,
		Confidence: confidence,
	}
	if err := dctx.Validate(); err != nil {
		return Context{}, fmt.Errorf("derived profile invalid: %w", err)
	}

	b.logger.Debug(ctx, "requirement profile derived",
		zap.String("category", string(dctx.Category)),
		zap.String("complexity", string(dctx.Complexity)),
		zap.String("tone", string(dctx.Tone)),
		zap.String("audience", string(dctx.Audience)),
		zap.String("goal", string(dctx.Goal)),
		zap.Float64("confidence", dctx.Confidence),
	)
	return dctx, nil
}

// classifyCategory votes categories by keyword hits. The industry field,
// when it names a category outright, counts as two votes. Ties resolve in
// canonical category order; zero hits fall back to landing.
func classifyCategory(text, industry string) (catalog.Category, int) {
	votes := make(map[catalog.Category]int)
	total := 0
	for kw, cat := range categoryKeywords {
		if strings.Contains(text, kw) {
			votes[cat]++
			total++
		}
	}
	if industry != "" {
		ind := catalog.Category(strings.ToLower(strings.TrimSpace(industry)))
		if ind.Valid() {
			votes[ind] += 2
			total++
		}
	}
	if total == 0 {
		return catalog.CategoryLanding, 0
	}
	best := catalog.CategoryLanding
	bestVotes := 0
	for _, cat := range catalog.Categories() {
		if votes[cat] > bestVotes {
			best = cat
			bestVotes = votes[cat]
		}
	}
	return best, total
}

func classifyAudience(text, declared string) (Audience, bool) {
	if declared != "" {
		d := Audience(strings.ToLower(strings.TrimSpace(declared)))
		if d.Valid() {
			return d, true
		}
		if a, ok := matchKeyword(strings.ToLower(declared), audienceKeywords); ok {
			return a, true
		}
	}
	if a, ok := matchKeyword(text, audienceKeywords); ok {
		return a, true
	}
	return AudienceConsumers, false
}

func deriveComplexity(text, qualityLevel string) catalog.Complexity {
	hits := 0
	for _, sig := range complexitySignals {
		if strings.Contains(text, sig) {
			hits++
		}
	}
	switch strings.ToLower(strings.TrimSpace(qualityLevel)) {
	case "premium":
		hits += 2
	case "draft":
		hits--
	}
	switch {
	case hits >= 3:
		return catalog.ComplexityComplex
	case hits >= 1:
		return catalog.ComplexityModerate
	default:
		return catalog.ComplexitySimple
	}
}

func defaultGoalFor(category catalog.Category) Goal {
	switch category {
	case catalog.CategoryEcommerce:
		return GoalSell
	case catalog.CategoryPortfolio:
		return GoalShowcase
	case catalog.CategoryBlog:
		return GoalInform
	case catalog.CategorySocial:
		return GoalEngage
	default:
		return GoalConvert
	}
}

func matchKeyword[T ~string](text string, table map[string]T) (T, bool) {
	// Deterministic scan: longest keyword wins, ties by lexical order,
	// so map iteration order never leaks into results.
	var best string
	var out T
	for kw, v := range table {
		if !strings.Contains(text, kw) {
			continue
		}
		if len(kw) > len(best) || (len(kw) == len(best) && kw < best) {
			best = kw
			out = v
		}
	}
	return out, best != ""
}
