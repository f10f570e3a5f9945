package usecase

import (
	"context"
	"log"
	"sort"

	"github.com/tcgwallet/backend/internal/domain"
)

// Score combines the per-field similarities between query and candidate into
// one normalized score in [0,1] under the given weight profile:
// sum(w(f)*s(f)) / sum(w(f)) over fields with positive weight.
//
// Absence policy: a field the query failed to extract while the catalog
// record carries it (or vice versa) scores 0 against its full weight, so
// incomplete extractions are penalized rather than silently forgiven. A field
// absent on both sides carries no evidence either way and drops out of the
// denominator entirely, so a full match on every field both sides actually
// have still scores 1.0. An all-zero profile fails with ErrNoActiveWeights.
func Score(query *domain.QueryCard, candidate *domain.CatalogCard, weights domain.WeightProfile) (float64, error) {
	configured := 0.0
	for field := range matchFields {
		if w := weights[field]; w > 0 {
			configured += w
		}
	}
	if configured == 0 {
		return 0, domain.ErrNoActiveWeights
	}

	activeWeight := 0.0
	score := 0.0
	for name, field := range matchFields {
		w := weights[name]
		if w <= 0 {
			continue
		}
		if !field.queryPresent(query) && !field.catalogPresent(candidate) {
			continue
		}
		activeWeight += w
		score += w * field.score(query, candidate)
	}

	// Neither side supplied evidence for any weighted field
	if activeWeight == 0 {
		return 0, nil
	}

	return score / activeWeight, nil
}

// FindBestMatches scores every catalog card against the query, sorts by score
// descending, and returns the top n. Ties resolve to catalog order, so output
// is reproducible across runs. n <= 0 and an empty catalog both yield an
// empty result, not an error. Catalog records without an id are logged and
// skipped; one bad record must not sink the rest of the ranking.
func FindBestMatches(
	ctx context.Context,
	query *domain.QueryCard,
	catalog []domain.CatalogCard,
	weights domain.WeightProfile,
	n int,
) ([]domain.MatchResult, error) {
	if query == nil {
		return nil, domain.ErrInvalidRequest
	}

	// Validate the profile up front even when the result is trivially empty
	if _, err := Score(query, &domain.CatalogCard{}, weights); err != nil {
		return nil, err
	}

	if n <= 0 || len(catalog) == 0 {
		return []domain.MatchResult{}, nil
	}

	results := make([]domain.MatchResult, 0, len(catalog))
	for i := range catalog {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		card := catalog[i]
		if card.ID == "" {
			log.Printf("[MATCH] Skipping catalog record without id (name=%q, pack=%q)", card.Name, card.PackID)
			continue
		}

		score, err := Score(query, &card, weights)
		if err != nil {
			return nil, err
		}
		results = append(results, domain.MatchResult{Card: card, Score: score})
	}

	// Stable sort keeps catalog order on equal scores
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if n < len(results) {
		results = results[:n]
	}
	return results, nil
}

// MatcherConfig holds configuration for the matcher service
type MatcherConfig struct {
	NumResults         int
	MinScore           float64
	EnableDebugLogging bool
}

// MatcherService ranks the shared catalog snapshot against extracted card
// attributes. The service itself is stateless across calls; concurrent match
// requests need no locking because the snapshot is read-only.
type MatcherService struct {
	catalog            domain.CardCatalog
	numResults         int
	minScore           float64
	enableDebugLogging bool
}

// NewMatcherService creates a new matcher service with the given configuration
func NewMatcherService(catalog domain.CardCatalog, config MatcherConfig) *MatcherService {
	numResults := config.NumResults
	if numResults <= 0 {
		numResults = 5 // Default result count
	}

	minScore := config.MinScore
	if minScore < 0 || minScore > 1 {
		minScore = 0.3 // Default threshold
	}

	return &MatcherService{
		catalog:            catalog,
		numResults:         numResults,
		minScore:           minScore,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// MatchCard ranks the catalog against one query. Overrides merge over the
// default weight profile; NumResults and MinScore fall back to the service
// defaults when unset. Results below the effective min score are dropped
// after ranking.
func (s *MatcherService) MatchCard(ctx context.Context, request *domain.MatchRequest) ([]domain.MatchResult, error) {
	if request == nil {
		return nil, domain.ErrInvalidRequest
	}

	weights, err := ResolveWeights(request.Weights)
	if err != nil {
		return nil, err
	}

	numResults := request.NumResults
	if numResults == 0 {
		numResults = s.numResults
	}

	minScore := s.minScore
	if request.MinScore != nil {
		minScore = *request.MinScore
	}

	if s.enableDebugLogging {
		log.Printf("[MATCH] Query: number=%q name=%q (top %d, min score %.2f)",
			request.Card.CardNumber, request.Card.Name, numResults, minScore)
	}

	results, err := FindBestMatches(ctx, &request.Card, s.catalog.Snapshot(), weights, numResults)
	if err != nil {
		return nil, err
	}

	filtered := results[:0]
	for _, result := range results {
		if result.Score >= minScore {
			filtered = append(filtered, result)
		}
	}

	if s.enableDebugLogging {
		for i, result := range filtered {
			log.Printf("[MATCH] #%d %s %q score=%.3f", i+1, result.Card.ID, result.Card.Name, result.Score)
		}
	}

	return filtered, nil
}

// FindBestMatch returns the single best catalog match for a query under the
// default weights, with no score threshold. ErrCardNotFound when the catalog
// is empty.
func (s *MatcherService) FindBestMatch(ctx context.Context, query *domain.QueryCard) (*domain.MatchResult, error) {
	results, err := FindBestMatches(ctx, query, s.catalog.Snapshot(), DefaultWeights(), 1)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, domain.ErrCardNotFound
	}
	return &results[0], nil
}
