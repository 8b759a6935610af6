package barcode

import (
	"context"
)

// Stock is the subset of the stock reservation store the Allocator needs.
// The Postgres implementation lives in the postgresengine package.
type Stock interface {
	// ReserveOneFor atomically reserves one available code, trying the
	// given tiers in order. It returns a NoStockError carrying the first
	// matched tier when every tier is exhausted.
	ReserveOneFor(ctx context.Context, orderedTiers []Tier) (CodeString, error)
}

// Allocator combines the dimension rule table with a stock reservation
// store to implement the assign-for-dimensions operation. It holds no
// mutable state; the store is the sole synchronization point.
type Allocator struct {
	rules RuleTable
	stock Stock
}

// NewAllocator creates an Allocator from a rule table and a stock store.
func NewAllocator(rules RuleTable, stock Stock) (Allocator, error) {
	if stock == nil {
		return Allocator{}, ErrNilStock
	}

	if len(rules.rules) == 0 {
		return Allocator{}, ErrNoRulesSupplied
	}

	return Allocator{rules: rules, stock: stock}, nil
}

// AssignForDimensions matches the given dimensions (centimeter wire unit)
// against the rule table and reserves one code from the highest-priority
// tier with stock.
//
// Errors:
//   - ErrInvalidDimensions: missing or malformed dimension input
//   - ErrNoRuleApplies: no tier predicate matches (permanent for these dimensions)
//   - NoStockError: a tier matched but had no available code (transient)
//   - ErrStorageUnavailable (wrapped): the store could not be reached
func (a Allocator) AssignForDimensions(ctx context.Context, widthCm, heightCm float64) (CodeString, error) {
	orderedTiers, err := a.rules.MatchCentimeters(widthCm, heightCm)
	if err != nil {
		return "", err
	}

	return a.stock.ReserveOneFor(ctx, orderedTiers)
}

// AssignForCanonicalDimensions is the millimeter variant of
// AssignForDimensions for callers that already hold canonical units,
// e.g. the registration layer where book dimensions are stored in
// integer millimeters.
func (a Allocator) AssignForCanonicalDimensions(ctx context.Context, widthMM, heightMM MillimeterInt) (CodeString, error) {
	orderedTiers, err := a.rules.Match(widthMM, heightMM)
	if err != nil {
		return "", err
	}

	return a.stock.ReserveOneFor(ctx, orderedTiers)
}
