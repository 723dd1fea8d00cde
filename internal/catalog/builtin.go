package catalog

// Builtin returns the static template catalog shipped with draftd.
// The slice is freshly allocated on every call so callers can never
// mutate the shared definitions.
func Builtin() []Candidate {
	return []Candidate{
		{
			ID:         "tpl-insight-board",
			Name:       "Insight Board",
			Category:   CategoryDashboard,
			Complexity: ComplexityComplex,
			Layout:     LayoutSidebar,
			Colors: ColorSlots{
				Primary: "#1f2937", Secondary: "#374151", Accent: "#3b82f6",
				Background: "#f9fafb", Text: "#111827",
			},
			Components:  []string{"nav", "kpi-cards", "charts", "data-table", "filters", "export"},
			BaseQuality: 9,
		},
		{
			ID:         "tpl-taskline",
			Name:       "Taskline",
			Category:   CategoryProductivity,
			Complexity: ComplexitySimple,
			Layout:     LayoutSingleColumn,
			Colors: ColorSlots{
				Primary: "#0f766e", Secondary: "#14b8a6", Accent: "#f59e0b",
				Background: "#ffffff", Text: "#134e4a",
			},
			Components:  []string{"nav", "task-list", "quick-add", "footer"},
			BaseQuality: 8,
		},
		{
			ID:         "tpl-storefront",
			Name:       "Storefront",
			Category:   CategoryEcommerce,
			Complexity: ComplexityComplex,
			Layout:     LayoutGrid,
			Colors: ColorSlots{
				Primary: "#7c2d12", Secondary: "#9a3412", Accent: "#fbbf24",
				Background: "#fffbeb", Text: "#1c1917",
			},
			Components:  []string{"nav", "product-grid", "cart", "checkout", "reviews", "footer"},
			BaseQuality: 8.5,
		},
		{
			ID:         "tpl-atelier",
			Name:       "Atelier",
			Category:   CategoryPortfolio,
			Complexity: ComplexitySimple,
			Layout:     LayoutMagazine,
			Colors: ColorSlots{
				Primary: "#18181b", Secondary: "#3f3f46", Accent: "#e11d48",
				Background: "#fafafa", Text: "#09090b",
			},
			Components:  []string{"hero", "gallery", "about", "contact"},
			BaseQuality: 7.5,
		},
		{
			ID:         "tpl-launchpad",
			Name:       "Launchpad",
			Category:   CategoryLanding,
			Complexity: ComplexitySimple,
			Layout:     LayoutHero,
			Colors: ColorSlots{
				Primary: "#312e81", Secondary: "#4338ca", Accent: "#22d3ee",
				Background: "#eef2ff", Text: "#1e1b4b",
			},
			Components:  []string{"hero", "features", "cta", "footer"},
			BaseQuality: 8,
		},
		{
			ID:         "tpl-chronicle",
			Name:       "Chronicle",
			Category:   CategoryBlog,
			Complexity: ComplexityModerate,
			Layout:     LayoutSingleColumn,
			Colors: ColorSlots{
				Primary: "#1e3a5f", Secondary: "#2d5a87", Accent: "#d97706",
				Background: "#fefce8", Text: "#1c1917",
			},
			Components:  []string{"nav", "article-list", "article-view", "tags", "subscribe", "footer"},
			BaseQuality: 7,
		},
		{
			ID:         "tpl-commons",
			Name:       "Commons",
			Category:   CategorySocial,
			Complexity: ComplexityComplex,
			Layout:     LayoutSplit,
			Colors: ColorSlots{
				Primary: "#4c1d95", Secondary: "#6d28d9", Accent: "#f472b6",
				Background: "#faf5ff", Text: "#2e1065",
			},
			Components:  []string{"nav", "feed", "profile", "messages", "notifications", "footer"},
			BaseQuality: 7.5,
		},
		{
			ID:         "tpl-meterworks",
			Name:       "Meterworks",
			Category:   CategorySaaS,
			Complexity: ComplexityModerate,
			Layout:     LayoutHero,
			Colors: ColorSlots{
				Primary: "#0c4a6e", Secondary: "#0369a1", Accent: "#34d399",
				Background: "#f0f9ff", Text: "#082f49",
			},
			Components:  []string{"nav", "hero", "pricing", "features", "testimonials", "footer"},
			BaseQuality: 8.5,
		},
		{
			ID:         "tpl-ledgerlite",
			Name:       "Ledgerlite",
			Category:   CategoryDashboard,
			Complexity: ComplexityModerate,
			Layout:     LayoutGrid,
			Colors: ColorSlots{
				Primary: "#14532d", Secondary: "#166534", Accent: "#a3e635",
				Background: "#f7fee7", Text: "#052e16",
			},
			Components:  []string{"nav", "kpi-cards", "charts", "footer"},
			BaseQuality: 7,
		},
		{
			ID:         "tpl-fieldnotes",
			Name:       "Fieldnotes",
			Category:   CategoryBlog,
			Complexity: ComplexitySimple,
			Layout:     LayoutMagazine,
			Colors: ColorSlots{
				Primary: "#44403c", Secondary: "#78716c", Accent: "#ea580c",
				Background: "#fafaf9", Text: "#292524",
			},
			Components:  []string{"article-list", "article-view", "about"},
			BaseQuality: 6.5,
		},
	}
}

// Default returns the fallback candidate used when ranking yields no
// results (for example, an empty catalog).
func Default() Candidate {
	return Candidate{
		ID:         "tpl-baseline",
		Name:       "Baseline",
		Category:   CategoryLanding,
		Complexity: ComplexitySimple,
		Layout:     LayoutSingleColumn,
		Colors: ColorSlots{
			Primary: "#1f2937", Secondary: "#4b5563", Accent: "#2563eb",
			Background: "#ffffff", Text: "#111827",
		},
		Components:  []string{"hero", "features", "footer"},
		BaseQuality: 6,
	}
}
