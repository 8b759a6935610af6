// Package barcode provides the core abstractions for tiered barcode
// inventory allocation: sizing tiers, dimension rules, the dimension
// matcher, and the allocator that turns book dimensions into a reserved
// inventory code.
//
// The package defines the fundamental types and contracts used across
// the storage engine implementations, including the error taxonomy and
// the observability interfaces.
//
// Dimension matching works in three priority-ordered tiers:
//   - exact: the height matches one of the configured exact heights
//   - larger: the dimensions fall into a configured size band
//   - oversized: the dimensions exceed all regular bands
//
// Key types:
//   - Tier: priority-ordered sizing category
//   - DimensionRule / RuleTable: read-only sizing configuration
//   - Allocator: combines a RuleTable with a stock reservation store
//
// Common usage pattern:
//
//	rules, err := barcode.BuildRuleTable(
//		barcode.BuildExactHeightRule(100, 140, 205, 210),
//		barcode.BuildDimensionRule(barcode.TierLarger, 100, 140, 150, 240),
//		barcode.BuildDimensionRule(barcode.TierOversized, 100, 300, 240, 0),
//	)
//
//	allocator, err := barcode.NewAllocator(rules, stockStore)
//	code, err := allocator.AssignForDimensions(ctx, 12.5, 20.5)
//	if err != nil {
//		// handle error
//	}
//
// All dimensions are canonicalized to integer millimeters inside the
// rule table; CanonicalMillimeters is the single conversion point from
// the centimeter wire unit.
package barcode
