package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/tcgwallet/backend/internal/domain"
)

// luffyCatalog is the two-record fixture used across ranking tests
func luffyCatalog() []domain.CatalogCard {
	return []domain.CatalogCard{
		{
			ID:     "OP01-001",
			PackID: "op01",
			Name:   "Monkey D. Luffy",
			Cost:   intPtr(5),
			Colors: []string{"Red"},
		},
		{
			ID:     "OP01-002",
			PackID: "op01",
			Name:   "Roronoa Zoro",
			Cost:   intPtr(5),
			Colors: []string{"Red"},
		},
	}
}

func luffyQuery() *domain.QueryCard {
	return &domain.QueryCard{
		Name:       "Monkey D. Luffy",
		CardNumber: "OP01-001",
		Cost:       intPtr(5),
		Colors:     []string{"Red"},
	}
}

func TestScoreBounds(t *testing.T) {
	queries := []*domain.QueryCard{
		{},
		luffyQuery(),
		{Name: "Nami", Cost: intPtr(1)},
		{CardNumber: "ST14-001", Category: "Leader", Rarity: "L", Counter: intPtr(2000)},
	}
	candidates := []domain.CatalogCard{
		{},
		luffyCatalog()[0],
		{ID: "EB01-040", Name: "Nami", Category: "Character", Rarity: "Rare", Counter: intPtr(1000), Colors: []string{"Blue"}},
	}

	for _, q := range queries {
		for _, c := range candidates {
			score, err := Score(q, &c, DefaultWeights())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if score < 0 || score > 1 {
				t.Errorf("Score(%+v, %s) = %v, out of [0,1]", q, c.ID, score)
			}
		}
	}
}

func TestScoreIdentity(t *testing.T) {
	// A fully populated query against an identical record is a perfect match
	query := &domain.QueryCard{
		Name:       "Monkey D. Luffy",
		CardNumber: "OP01-001",
		Category:   "Leader",
		Rarity:     "Leader",
		Colors:     []string{"Red"},
		Cost:       intPtr(5),
		Counter:    intPtr(1000),
	}
	candidate := &domain.CatalogCard{
		ID:       "OP01-001",
		Name:     "Monkey D. Luffy",
		Category: "Leader",
		Rarity:   "Leader",
		Colors:   []string{"Red"},
		Cost:     intPtr(5),
		Counter:  intPtr(1000),
	}

	score, err := Score(query, candidate, DefaultWeights())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 1.0 {
		t.Errorf("identity score = %v, want 1.0", score)
	}
}

func TestScoreAllZeroWeights(t *testing.T) {
	weights := domain.WeightProfile{}
	for field := range DefaultWeights() {
		weights[field] = 0
	}

	_, err := Score(luffyQuery(), &luffyCatalog()[0], weights)
	if !errors.Is(err, domain.ErrNoActiveWeights) {
		t.Errorf("error = %v, want ErrNoActiveWeights", err)
	}
}

func TestScoreZeroWeightExclusion(t *testing.T) {
	// With only the name field active, mismatches elsewhere are invisible
	nameOnly := domain.WeightProfile{"name": 3.0}

	query := &domain.QueryCard{
		Name:       "Monkey D. Luffy",
		CardNumber: "WRONG-999",
		Cost:       intPtr(9),
		Colors:     []string{"Purple"},
	}
	candidate := &luffyCatalog()[0]

	score, err := Score(query, candidate, nameOnly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 1.0 {
		t.Errorf("name-only score = %v, want 1.0 despite other mismatches", score)
	}
}

func TestScoreIdentifierDominance(t *testing.T) {
	matching := &luffyCatalog()[0] // id matches the query
	mismatch := &luffyCatalog()[1] // id does not

	query := luffyQuery()

	baseMatch, err := Score(query, matching, DefaultWeights())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	baseMiss, err := Score(query, mismatch, DefaultWeights())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	boosted, err := ResolveWeights(map[string]float64{"id": 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	boostedMatch, err := Score(query, matching, boosted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	boostedMiss, err := Score(query, mismatch, boosted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if boostedMatch < baseMatch {
		t.Errorf("raising id weight lowered a matching record: %v -> %v", baseMatch, boostedMatch)
	}
	if boostedMiss > baseMiss {
		t.Errorf("raising id weight raised a mismatching record: %v -> %v", baseMiss, boostedMiss)
	}
}

func TestFindBestMatchesLuffyScenario(t *testing.T) {
	results, err := FindBestMatches(context.Background(), luffyQuery(), luffyCatalog(), DefaultWeights(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].Card.ID != "OP01-001" {
		t.Errorf("top match = %s, want OP01-001", results[0].Card.ID)
	}
	if results[0].Score != 1.0 {
		t.Errorf("top score = %v, want 1.0", results[0].Score)
	}
	if results[1].Card.ID != "OP01-002" {
		t.Errorf("second match = %s, want OP01-002", results[1].Card.ID)
	}
	if results[1].Score >= results[0].Score {
		t.Errorf("second score %v not strictly below top score %v", results[1].Score, results[0].Score)
	}
}

func TestFindBestMatchesBounds(t *testing.T) {
	catalog := make([]domain.CatalogCard, 5)
	for i := range catalog {
		catalog[i] = domain.CatalogCard{ID: string(rune('A' + i)), Name: "Card"}
	}

	t.Run("n of zero returns empty", func(t *testing.T) {
		results, err := FindBestMatches(context.Background(), luffyQuery(), catalog, DefaultWeights(), 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 0 {
			t.Errorf("len(results) = %d, want 0", len(results))
		}
	})

	t.Run("negative n returns empty", func(t *testing.T) {
		results, err := FindBestMatches(context.Background(), luffyQuery(), catalog, DefaultWeights(), -3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 0 {
			t.Errorf("len(results) = %d, want 0", len(results))
		}
	})

	t.Run("n beyond catalog size returns the full catalog", func(t *testing.T) {
		results, err := FindBestMatches(context.Background(), luffyQuery(), catalog, DefaultWeights(), 1000000)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 5 {
			t.Errorf("len(results) = %d, want 5", len(results))
		}
	})

	t.Run("empty catalog returns empty", func(t *testing.T) {
		results, err := FindBestMatches(context.Background(), luffyQuery(), nil, DefaultWeights(), 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 0 {
			t.Errorf("len(results) = %d, want 0", len(results))
		}
	})
}

func TestFindBestMatchesTieBreakDeterminism(t *testing.T) {
	// Two records indistinguishable to the query must come back in catalog
	// order on every call
	catalog := []domain.CatalogCard{
		{ID: "OP02-010", Name: "Edward Newgate", Cost: intPtr(4), Colors: []string{"Green"}},
		{ID: "OP02-011", Name: "Edward Newgate", Cost: intPtr(4), Colors: []string{"Green"}},
	}
	query := &domain.QueryCard{Name: "Edward Newgate", Cost: intPtr(4), Colors: []string{"Green"}}

	for i := 0; i < 20; i++ {
		results, err := FindBestMatches(context.Background(), query, catalog, DefaultWeights(), 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if results[0].Score != results[1].Score {
			t.Fatalf("scores differ: %v vs %v", results[0].Score, results[1].Score)
		}
		if results[0].Card.ID != "OP02-010" || results[1].Card.ID != "OP02-011" {
			t.Fatalf("run %d: tie broken out of catalog order: %s, %s", i, results[0].Card.ID, results[1].Card.ID)
		}
	}
}

func TestFindBestMatchesAllAbsentQuery(t *testing.T) {
	// A query with nothing extracted produces a fully tied ranking resolved
	// by catalog order
	catalog := luffyCatalog()
	results, err := FindBestMatches(context.Background(), &domain.QueryCard{}, catalog, DefaultWeights(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	for i, result := range results {
		if result.Score != 0 {
			t.Errorf("result %d score = %v, want 0", i, result.Score)
		}
		if result.Card.ID != catalog[i].ID {
			t.Errorf("result %d = %s, want catalog order %s", i, result.Card.ID, catalog[i].ID)
		}
	}
}

func TestFindBestMatchesSkipsRecordsWithoutID(t *testing.T) {
	catalog := []domain.CatalogCard{
		{Name: "Broken Record"}, // no id
		luffyCatalog()[0],
	}

	results, err := FindBestMatches(context.Background(), luffyQuery(), catalog, DefaultWeights(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1 (bad record skipped)", len(results))
	}
	if results[0].Card.ID != "OP01-001" {
		t.Errorf("match = %s, want OP01-001", results[0].Card.ID)
	}
}

func TestFindBestMatchesAllZeroWeights(t *testing.T) {
	weights := domain.WeightProfile{"id": 0, "name": 0}
	_, err := FindBestMatches(context.Background(), luffyQuery(), luffyCatalog(), weights, 5)
	if !errors.Is(err, domain.ErrNoActiveWeights) {
		t.Errorf("error = %v, want ErrNoActiveWeights", err)
	}
}

func TestFindBestMatchesCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FindBestMatches(ctx, luffyQuery(), luffyCatalog(), DefaultWeights(), 5)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

// fakeCatalog implements domain.CardCatalog over a fixed slice
type fakeCatalog struct {
	cards []domain.CatalogCard
	packs []domain.Pack
}

func (f *fakeCatalog) Snapshot() []domain.CatalogCard { return f.cards }
func (f *fakeCatalog) Packs() []domain.Pack           { return f.packs }

func (f *fakeCatalog) PackByID(id string) (*domain.Pack, error) {
	for i := range f.packs {
		if f.packs[i].ID == id {
			return &f.packs[i], nil
		}
	}
	return nil, domain.ErrPackNotFound
}

func (f *fakeCatalog) PackLabel(packID string) (string, error) {
	pack, err := f.PackByID(packID)
	if err != nil {
		return "", err
	}
	return pack.TitleParts.Label, nil
}

func (f *fakeCatalog) FindCardsByBaseID(baseID string) []domain.CatalogCard {
	target := domain.NormalizeCardID(baseID)
	var matches []domain.CatalogCard
	for _, card := range f.cards {
		if domain.NormalizeCardID(card.ID) == target {
			matches = append(matches, card)
		}
	}
	return matches
}

func (f *fakeCatalog) FindPackIDsByBaseID(baseID string) []string {
	seen := make(map[string]bool)
	var packIDs []string
	for _, card := range f.FindCardsByBaseID(baseID) {
		if card.PackID != "" && !seen[card.PackID] {
			seen[card.PackID] = true
			packIDs = append(packIDs, card.PackID)
		}
	}
	return packIDs
}

func TestMatcherServiceMatchCard(t *testing.T) {
	catalog := &fakeCatalog{cards: luffyCatalog()}
	svc := NewMatcherService(catalog, MatcherConfig{NumResults: 5, MinScore: 0.3})
	ctx := context.Background()

	t.Run("returns error for nil request", func(t *testing.T) {
		_, err := svc.MatchCard(ctx, nil)
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("ranks with default weights", func(t *testing.T) {
		results, err := svc.MatchCard(ctx, &domain.MatchRequest{Card: *luffyQuery()})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) == 0 || results[0].Card.ID != "OP01-001" {
			t.Fatalf("results = %+v, want OP01-001 first", results)
		}
	})

	t.Run("min score filters weak matches", func(t *testing.T) {
		minScore := 0.99
		results, err := svc.MatchCard(ctx, &domain.MatchRequest{
			Card:     *luffyQuery(),
			MinScore: &minScore,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 1 {
			t.Fatalf("len(results) = %d, want 1 above 0.99", len(results))
		}
	})

	t.Run("rejects negative weight override", func(t *testing.T) {
		_, err := svc.MatchCard(ctx, &domain.MatchRequest{
			Card:    *luffyQuery(),
			Weights: map[string]float64{"cost": -1.0},
		})
		if !errors.Is(err, domain.ErrInvalidWeight) {
			t.Errorf("error = %v, want ErrInvalidWeight", err)
		}
	})

	t.Run("explicit num_results limits output", func(t *testing.T) {
		minScore := 0.0
		results, err := svc.MatchCard(ctx, &domain.MatchRequest{
			Card:       *luffyQuery(),
			NumResults: 1,
			MinScore:   &minScore,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 1 {
			t.Errorf("len(results) = %d, want 1", len(results))
		}
	})
}

func TestMatcherServiceFindBestMatch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the single top match", func(t *testing.T) {
		svc := NewMatcherService(&fakeCatalog{cards: luffyCatalog()}, MatcherConfig{})
		result, err := svc.FindBestMatch(ctx, luffyQuery())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Card.ID != "OP01-001" {
			t.Errorf("best match = %s, want OP01-001", result.Card.ID)
		}
	})

	t.Run("empty catalog yields ErrCardNotFound", func(t *testing.T) {
		svc := NewMatcherService(&fakeCatalog{}, MatcherConfig{})
		_, err := svc.FindBestMatch(ctx, luffyQuery())
		if !errors.Is(err, domain.ErrCardNotFound) {
			t.Errorf("error = %v, want ErrCardNotFound", err)
		}
	})
}
