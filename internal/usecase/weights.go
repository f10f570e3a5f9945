package usecase

import (
	"fmt"

	"github.com/tcgwallet/backend/internal/domain"
)

// defaultWeights is the built-in field weight table. The card number is the
// strongest signal, cost second; the softer attributes fill in when the
// vision extraction misses either.
var defaultWeights = domain.WeightProfile{
	"id":       7.0,
	"cost":     5.0,
	"name":     3.0,
	"color":    3.0,
	"counter":  3.0,
	"category": 2.0,
	"rarity":   2.0,
}

// DefaultWeights returns a copy of the built-in weight profile.
func DefaultWeights() domain.WeightProfile {
	profile := make(domain.WeightProfile, len(defaultWeights))
	for field, weight := range defaultWeights {
		profile[field] = weight
	}
	return profile
}

// ResolveWeights merges caller overrides key-by-key over the defaults.
// Unspecified fields keep their default, zero disables a field, and unknown
// keys are accepted and simply never consulted. A negative override fails
// with ErrInvalidWeight.
func ResolveWeights(overrides map[string]float64) (domain.WeightProfile, error) {
	profile := DefaultWeights()
	for field, weight := range overrides {
		if weight < 0 {
			return nil, fmt.Errorf("%w: %s=%v", domain.ErrInvalidWeight, field, weight)
		}
		profile[field] = weight
	}
	return profile, nil
}
