package chat

import (
	"strings"

	"github.com/periplo/periplo/internal/catalog"
)

// Source is a titled link surfaced alongside the generated text.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// ExtractSources scans the generated text for mentions of record names and
// returns the matching links, in record order.
//
// This is a heuristic: a case-insensitive substring test of each record's
// display name, O(records × text length). A record contributes at most one
// Source — the website link when present, otherwise the social media link —
// and records sharing a display name count as one. The at-most-one-per-
// record outcome is a contract, not an accident; do not "fix" it to emit
// both links.
func ExtractSources(text string, records []catalog.Record) []Source {
	sources := []Source{}
	lowerText := strings.ToLower(text)
	found := make(map[string]bool)

	for _, record := range records {
		name := record.Name()
		if name == "" || !strings.Contains(lowerText, strings.ToLower(name)) {
			continue
		}
		if found[name] {
			continue
		}
		if website := record.Website(); strings.HasPrefix(website, "http") {
			sources = append(sources, Source{Title: name + " - Website", URI: website})
			found[name] = true
			continue
		}
		if social := record.SocialMedia(); strings.HasPrefix(social, "http") {
			sources = append(sources, Source{Title: name + " - Social Media", URI: social})
			found[name] = true
		}
	}
	return sources
}
