package design

import "github.com/fyrsmithlabs/draftd/internal/catalog"

// tonePalettes is the fixed tone-keyed palette table. Entries are full
// five-slot palettes; customization swaps a candidate's colors wholesale.
var tonePalettes = map[Tone]catalog.ColorSlots{
	ToneProfessional: {
		Primary: "#1e3a5f", Secondary: "#2d5a87", Accent: "#0ea5e9",
		Background: "#f8fafc", Text: "#0f172a",
	},
	TonePlayful: {
		Primary: "#7c3aed", Secondary: "#a78bfa", Accent: "#fbbf24",
		Background: "#fdf4ff", Text: "#3b0764",
	},
	ToneMinimal: {
		Primary: "#18181b", Secondary: "#52525b", Accent: "#a1a1aa",
		Background: "#ffffff", Text: "#09090b",
	},
	ToneBold: {
		Primary: "#b91c1c", Secondary: "#7f1d1d", Accent: "#fde047",
		Background: "#fef2f2", Text: "#1c1917",
	},
	ToneCalm: {
		Primary: "#155e75", Secondary: "#0e7490", Accent: "#5eead4",
		Background: "#ecfeff", Text: "#083344",
	},
	ToneEnergetic: {
		Primary: "#ea580c", Secondary: "#f97316", Accent: "#84cc16",
		Background: "#fff7ed", Text: "#431407",
	},
}

// neutralPalette backs unmapped tones.
var neutralPalette = catalog.ColorSlots{
	Primary: "#334155", Secondary: "#64748b", Accent: "#3b82f6",
	Background: "#ffffff", Text: "#0f172a",
}

// PaletteFor returns the deterministic palette for a tone. Unknown tones
// get a neutral palette rather than an error so customization always has
// colors to apply.
func PaletteFor(tone Tone) catalog.ColorSlots {
	if p, ok := tonePalettes[tone]; ok {
		return p
	}
	return neutralPalette
}
