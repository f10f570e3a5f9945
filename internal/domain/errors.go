package domain

import "errors"

var (
	// ErrInvalidWeight is returned when a supplied weight override is negative
	ErrInvalidWeight = errors.New("weight override must not be negative")

	// ErrNoActiveWeights is returned when the effective weight set sums to zero
	ErrNoActiveWeights = errors.New("no field carries a positive weight")

	// ErrCardNotFound is returned when no catalog card clears the match threshold
	ErrCardNotFound = errors.New("no matching cards found")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrPackNotFound is returned when a pack id is unknown to the catalog
	ErrPackNotFound = errors.New("pack not found in catalog")

	// ErrGroupNotFound is returned when no price group matches a pack
	ErrGroupNotFound = errors.New("no price group found for pack")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrPriceAPIFailure is returned when a price feed request fails
	ErrPriceAPIFailure = errors.New("price feed request failed")
)
