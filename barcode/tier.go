package barcode

// Tier is a priority-ordered sizing category for inventory codes.
// Dimension rules and stocked codes both carry a tier; the allocator
// always tries tiers in strict priority order: exact > larger > oversized.
type Tier string

const (
	TierExact     Tier = "exact"
	TierLarger    Tier = "larger"
	TierOversized Tier = "oversized"
)

// TiersByPriority returns all tiers in strict priority order.
func TiersByPriority() []Tier {
	return []Tier{TierExact, TierLarger, TierOversized}
}

// String returns the tier as its persisted string representation.
func (t Tier) String() string {
	return string(t)
}

// IsValid reports whether the tier is one of the three known categories.
func (t Tier) IsValid() bool {
	switch t {
	case TierExact, TierLarger, TierOversized:
		return true
	default:
		return false
	}
}
