package catalog

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"

	"github.com/tcgwallet/backend/internal/domain"
)

// snapshot is one immutable view of the loaded catalog. Reload builds a fresh
// snapshot and swaps the pointer, so concurrent rankings never observe a
// partially loaded card set.
type snapshot struct {
	cards []domain.CatalogCard
	packs []domain.Pack
}

// Store loads card pack JSON files into an in-memory read-only catalog.
// It implements domain.CardCatalog.
type Store struct {
	dir     string
	current atomic.Pointer[snapshot]
}

// NewStore creates a catalog store over a directory of pack files. Call Load
// before serving.
func NewStore(dir string) *Store {
	s := &Store{dir: dir}
	s.current.Store(&snapshot{})
	return s
}

// Load reads every cards_*.json pack file plus packs.json from the store
// directory and atomically swaps in the new snapshot. A malformed file is
// logged and skipped; one bad pack must not empty the catalog.
func (s *Store) Load() error {
	pattern := filepath.Join(s.dir, "cards_*.json")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("globbing card files: %w", err)
	}
	sort.Strings(files)

	next := &snapshot{}
	for _, file := range files {
		cards, err := readCardFile(file)
		if err != nil {
			log.Printf("[CATALOG] Skipping %s: %v", file, err)
			continue
		}
		next.cards = append(next.cards, cards...)
	}

	packs, err := readPackFile(filepath.Join(s.dir, "packs.json"))
	if err != nil {
		// Pack metadata is optional; matching works without it
		log.Printf("[CATALOG] No pack metadata: %v", err)
	}
	next.packs = packs

	s.current.Store(next)
	log.Printf("[CATALOG] Loaded %d cards from %d files (%d packs)", len(next.cards), len(files), len(next.packs))
	return nil
}

// Snapshot returns the current read-only card slice. Callers must not mutate
// the returned records.
func (s *Store) Snapshot() []domain.CatalogCard {
	return s.current.Load().cards
}

// Packs returns the current pack metadata.
func (s *Store) Packs() []domain.Pack {
	return s.current.Load().packs
}

// PackByID returns the pack with the given id, or ErrPackNotFound.
func (s *Store) PackByID(id string) (*domain.Pack, error) {
	for _, pack := range s.current.Load().packs {
		if pack.ID == id {
			return &pack, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrPackNotFound, id)
}

// PackLabel returns the short set code for a pack (e.g. "OP-10").
func (s *Store) PackLabel(packID string) (string, error) {
	pack, err := s.PackByID(packID)
	if err != nil {
		return "", err
	}
	if pack.TitleParts.Label == "" {
		return "", fmt.Errorf("%w: pack %s has no label", domain.ErrPackNotFound, packID)
	}
	return pack.TitleParts.Label, nil
}

// FindCardsByBaseID returns every printing that shares the given base card id
// across packs, parallel-art variants included.
func (s *Store) FindCardsByBaseID(baseID string) []domain.CatalogCard {
	target := domain.NormalizeCardID(baseID)

	var matches []domain.CatalogCard
	for _, card := range s.current.Load().cards {
		if domain.NormalizeCardID(card.ID) == target {
			matches = append(matches, card)
		}
	}
	return matches
}

// FindPackIDsByBaseID returns the distinct pack ids holding printings of the
// given base card id, in catalog order.
func (s *Store) FindPackIDsByBaseID(baseID string) []string {
	seen := make(map[string]bool)
	var packIDs []string
	for _, card := range s.FindCardsByBaseID(baseID) {
		if card.PackID == "" || seen[card.PackID] {
			continue
		}
		seen[card.PackID] = true
		packIDs = append(packIDs, card.PackID)
	}
	return packIDs
}

// readCardFile decodes one cards_*.json pack file
func readCardFile(path string) ([]domain.CatalogCard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cards []domain.CatalogCard
	if err := json.Unmarshal(data, &cards); err != nil {
		return nil, fmt.Errorf("decoding cards: %w", err)
	}
	return cards, nil
}

// readPackFile decodes packs.json
func readPackFile(path string) ([]domain.Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var packs []domain.Pack
	if err := json.Unmarshal(data, &packs); err != nil {
		return nil, fmt.Errorf("decoding packs: %w", err)
	}
	return packs, nil
}
