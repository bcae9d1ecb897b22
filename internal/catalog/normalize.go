package catalog

import "strings"

// Canonical price-tier display strings. After load, every record's
// price-tier field holds exactly one of these.
const (
	TierBudget      = "€ (Οικονομικό)"
	TierModerate    = "€€ (Μεσαίο)"
	TierUpscale     = "€€€ (Ακριβό)"
	TierUnspecified = "Δεν προσδιορίζεται"
)

// priceTierVariants maps recognized raw source values (lowercased, trimmed)
// to canonical tiers. The Latin "E" spellings are legacy encodings from
// spreadsheets that could not store the euro sign.
var priceTierVariants = map[string]string{
	"€":              TierBudget,
	"e":              TierBudget,
	"1":              TierBudget,
	"φθηνό":          TierBudget,
	"οικονομικό":     TierBudget,
	"€ (φθηνό)":      TierBudget,
	"e (φθηνό)":      TierBudget,
	"€ (οικονομικό)": TierBudget,
	"e (οικονομικό)": TierBudget,

	"€€":          TierModerate,
	"ee":          TierModerate,
	"2":           TierModerate,
	"μεσαίο":      TierModerate,
	"€€ (μεσαίο)": TierModerate,
	"ee (μεσαίο)": TierModerate,

	"€€€":          TierUpscale,
	"eee":          TierUpscale,
	"3":            TierUpscale,
	"ακριβό":       TierUpscale,
	"€€€ (ακριβό)": TierUpscale,
	"eee (ακριβό)": TierUpscale,
}

// normalizePriceTier maps a raw price-tier value to its canonical display
// string. Unrecognized or absent values map to TierUnspecified, so the
// mapping is total. Runs exactly once, at load time.
func normalizePriceTier(raw string) string {
	if canonical, ok := priceTierVariants[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return canonical
	}
	return TierUnspecified
}
