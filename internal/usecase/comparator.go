package usecase

import (
	"regexp"
	"strings"

	"github.com/tcgwallet/backend/internal/domain"
)

// Tolerance constants for numeric field comparison. A numeric similarity is
// max(0, 1 - |a-b|/k): 1.0 at equality, falling off linearly to 0 at k.
const (
	costTolerance    = 1.0    // any cost difference is a miss
	counterTolerance = 2000.0 // counters come in 1000-steps
)

// minNameSimilarity is the floor below which a fuzzy name match counts as
// zero. Keeps unrelated names from collecting partial credit.
const minNameSimilarity = 0.6

// namePunctuationRegex strips punctuation and whitespace before name comparison
var namePunctuationRegex = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// rarityAliases maps the abbreviated rarity codes the vision model tends to
// read off the card to the full names used in the catalog.
var rarityAliases = map[string]string{
	"C":   "Common",
	"UC":  "Uncommon",
	"R":   "Rare",
	"SR":  "SuperRare",
	"SEC": "SecretRare",
	"P":   "Promo",
	"L":   "Leader",
	"DON": "DON!!",
}

// fieldScorer computes the similarity in [0,1] for one attribute pair.
// Scorers are pure: same inputs, same output, absence is an input state.
type fieldScorer func(q *domain.QueryCard, c *domain.CatalogCard) float64

// matchField binds one weight-table key to its comparison semantics. The
// presence predicates let the scoring engine tell "both sides silent" apart
// from "one side failed to supply evidence": the former drops the field from
// the denominator, the latter scores zero against full field weight.
type matchField struct {
	score          fieldScorer
	queryPresent   func(q *domain.QueryCard) bool
	catalogPresent func(c *domain.CatalogCard) bool
}

// matchFields lists every scorable attribute. Field evaluation order never
// affects the total score, so map iteration order is fine.
var matchFields = map[string]matchField{
	"id": {
		score: func(q *domain.QueryCard, c *domain.CatalogCard) float64 {
			return compareIdentifier(q.CardNumber, c.ID)
		},
		queryPresent:   func(q *domain.QueryCard) bool { return q.CardNumber != "" },
		catalogPresent: func(c *domain.CatalogCard) bool { return c.ID != "" },
	},
	"cost": {
		score: func(q *domain.QueryCard, c *domain.CatalogCard) float64 {
			return compareNumeric(q.Cost, c.Cost, costTolerance)
		},
		queryPresent:   func(q *domain.QueryCard) bool { return q.Cost != nil },
		catalogPresent: func(c *domain.CatalogCard) bool { return c.Cost != nil },
	},
	"name": {
		score: func(q *domain.QueryCard, c *domain.CatalogCard) float64 {
			return compareFreeText(q.Name, c.Name)
		},
		queryPresent:   func(q *domain.QueryCard) bool { return q.Name != "" },
		catalogPresent: func(c *domain.CatalogCard) bool { return c.Name != "" },
	},
	"color": {
		score: func(q *domain.QueryCard, c *domain.CatalogCard) float64 {
			return compareCategoricalSet(q.Colors, c.Colors)
		},
		queryPresent:   func(q *domain.QueryCard) bool { return len(q.Colors) > 0 },
		catalogPresent: func(c *domain.CatalogCard) bool { return len(c.Colors) > 0 },
	},
	"counter": {
		score: func(q *domain.QueryCard, c *domain.CatalogCard) float64 {
			return compareNumeric(q.Counter, c.Counter, counterTolerance)
		},
		queryPresent:   func(q *domain.QueryCard) bool { return q.Counter != nil },
		catalogPresent: func(c *domain.CatalogCard) bool { return c.Counter != nil },
	},
	"category": {
		score: func(q *domain.QueryCard, c *domain.CatalogCard) float64 {
			return compareCategorical(q.Category, c.Category)
		},
		queryPresent:   func(q *domain.QueryCard) bool { return q.Category != "" },
		catalogPresent: func(c *domain.CatalogCard) bool { return c.Category != "" },
	},
	"rarity": {
		score: func(q *domain.QueryCard, c *domain.CatalogCard) float64 {
			return compareCategorical(canonicalRarity(q.Rarity), canonicalRarity(c.Rarity))
		},
		queryPresent:   func(q *domain.QueryCard) bool { return q.Rarity != "" },
		catalogPresent: func(c *domain.CatalogCard) bool { return c.Rarity != "" },
	},
}

// compareIdentifier scores a card number against a catalog id: 1.0 on
// case-insensitive equality after separator and parallel-suffix
// normalization, 0.0 otherwise. Identifiers are either right or wrong,
// so no partial credit.
func compareIdentifier(query, candidate string) float64 {
	if query == "" || candidate == "" {
		return 0
	}
	if domain.NormalizeCardID(query) == domain.NormalizeCardID(candidate) {
		return 1
	}
	return 0
}

// compareNumeric scores two optional integers with linear decay over the
// given tolerance.
func compareNumeric(query, candidate *int, tolerance float64) float64 {
	if query == nil || candidate == nil {
		return 0
	}
	diff := float64(*query - *candidate)
	if diff < 0 {
		diff = -diff
	}
	score := 1 - diff/tolerance
	if score < 0 {
		return 0
	}
	return score
}

// compareCategorical scores two optional single-valued labels by
// case-insensitive, space-insensitive equality.
func compareCategorical(query, candidate string) float64 {
	if query == "" || candidate == "" {
		return 0
	}
	if normalizeLabel(query) == normalizeLabel(candidate) {
		return 1
	}
	return 0
}

// compareCategoricalSet scores two optional label sets by Jaccard overlap:
// identical singleton sets score 1.0, disjoint sets 0.0.
func compareCategoricalSet(query, candidate []string) float64 {
	if len(query) == 0 || len(candidate) == 0 {
		return 0
	}

	union := make(map[string]bool)
	querySet := make(map[string]bool)
	for _, v := range query {
		key := normalizeLabel(v)
		querySet[key] = true
		union[key] = true
	}

	intersection := 0
	seen := make(map[string]bool)
	for _, v := range candidate {
		key := normalizeLabel(v)
		if !union[key] {
			union[key] = true
		}
		if querySet[key] && !seen[key] {
			intersection++
			seen[key] = true
		}
	}

	return float64(intersection) / float64(len(union))
}

// compareFreeText scores two optional names by Levenshtein ratio after
// normalization. Exact normalized equality scores 1.0; ratios below
// minNameSimilarity count as zero.
func compareFreeText(query, candidate string) float64 {
	if query == "" || candidate == "" {
		return 0
	}

	a := normalizeName(query)
	b := normalizeName(candidate)
	if a == b {
		return 1
	}

	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 0
	}

	similarity := 1 - float64(levenshteinDistance(a, b))/float64(maxLen)
	if similarity < minNameSimilarity {
		return 0
	}
	return similarity
}

// canonicalRarity expands abbreviated rarity codes to their catalog names
func canonicalRarity(rarity string) string {
	if full, ok := rarityAliases[strings.ToUpper(strings.TrimSpace(rarity))]; ok {
		return full
	}
	return rarity
}

// normalizeLabel lowercases a categorical value and drops internal spaces,
// so "Super Rare" and "SuperRare" compare equal.
func normalizeLabel(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "")
}

// normalizeName lowercases a card name and strips punctuation and whitespace,
// so "Monkey.D.Luffy" and "Monkey D. Luffy" compare equal.
func normalizeName(s string) string {
	return namePunctuationRegex.ReplaceAllString(strings.ToLower(s), "")
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	// Use two rows instead of the full matrix for space efficiency
	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}
