package domain

import "strings"

// QueryCard is the attribute set extracted from a photographed card by the
// vision pipeline. Every field may be absent: numeric fields use nil pointers,
// text fields use the empty string, and Colors uses an empty slice. The
// matcher treats absence as a first-class state, never as an error.
type QueryCard struct {
	Name       string   `json:"name,omitempty"`
	CardNumber string   `json:"card_number,omitempty"`
	Category   string   `json:"category,omitempty"`
	Rarity     string   `json:"rarity,omitempty"`
	Colors     []string `json:"colors,omitempty"`
	Cost       *int     `json:"cost,omitempty"`
	Counter    *int     `json:"counter,omitempty"`
}

// CatalogCard is one immutable record from the card database. The catalog is
// loaded once per process and shared read-only across requests; the matcher
// never mutates it.
type CatalogCard struct {
	ID         string   `json:"id"`
	PackID     string   `json:"pack_id"`
	Name       string   `json:"name"`
	Rarity     string   `json:"rarity"`
	Category   string   `json:"category"`
	ImgURL     string   `json:"img_url"`
	ImgFullURL string   `json:"img_full_url"`
	Colors     []string `json:"colors"`
	Cost       *int     `json:"cost,omitempty"`
	Attributes []string `json:"attributes"`
	Power      *int     `json:"power,omitempty"`
	Counter    *int     `json:"counter,omitempty"`
	Types      []string `json:"types"`
	Effect     string   `json:"effect"`
	Trigger    string   `json:"trigger,omitempty"`
}

// MatchResult pairs a catalog card with its similarity score in [0,1].
// Result lists are ordered descending by score.
type MatchResult struct {
	Card  CatalogCard `json:"card"`
	Score float64     `json:"score"`
}

// WeightProfile maps a field name to its non-negative importance weight.
// Weights need not sum to any fixed total; the scoring engine normalizes.
type WeightProfile map[string]float64

// MatchRequest is one card match call: the extracted attributes plus optional
// per-request tuning. Weights merge over the default profile; NumResults and
// MinScore fall back to configured defaults when omitted.
type MatchRequest struct {
	Card       QueryCard          `json:"card" binding:"required"`
	Weights    map[string]float64 `json:"weights,omitempty"`
	NumResults int                `json:"num_results,omitempty"`
	MinScore   *float64           `json:"min_score,omitempty"`
}

// Pack describes one card set/expansion from the catalog metadata.
type Pack struct {
	ID         string         `json:"id"`
	TitleParts PackTitleParts `json:"title_parts"`
}

// PackTitleParts carries the display pieces of a pack title. Label is the
// short set code printed on boosters (e.g. "OP-10", "ST-23").
type PackTitleParts struct {
	Label string `json:"label"`
	Title string `json:"title"`
}

// BaseCardID strips a parallel-art suffix from a card id, so "OP01-001_p1"
// and "OP01-001" resolve to the same printing family.
func BaseCardID(id string) string {
	if idx := strings.Index(id, "_p"); idx >= 0 {
		return id[:idx]
	}
	return id
}

// NormalizeCardID canonicalizes a card id for comparison: parallel suffix
// stripped, separators removed, uppercased.
func NormalizeCardID(id string) string {
	base := BaseCardID(id)
	base = strings.ReplaceAll(base, "-", "")
	base = strings.ReplaceAll(base, "_", "")
	return strings.ToUpper(base)
}
