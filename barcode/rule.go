package barcode

import (
	"math"
	"slices"
)

// MillimeterInt is a type alias for int, the canonical dimension unit.
type MillimeterInt = int

const millimetersPerCentimeter = 10

// CanonicalMillimeters converts a centimeter value (the wire unit of the
// surrounding services) to the canonical integer millimeter unit.
// All call sites must funnel through this single conversion point so the
// rule table and the stock table can never disagree on units.
func CanonicalMillimeters(centimeters float64) MillimeterInt {
	return MillimeterInt(math.Round(centimeters * millimetersPerCentimeter))
}

// DimensionRule decides whether a given (width, height) pair belongs to
// its tier. A zero max bound means "unbounded". Rules of the exact tier
// usually carry a set of exact heights instead of a height range.
//
// Rules are read-only configuration; they should only be constructed with
// the supplied factory methods:
//   - BuildDimensionRule
//   - BuildExactHeightRule
type DimensionRule struct {
	tier         Tier
	widthMinMM   MillimeterInt
	widthMaxMM   MillimeterInt
	heightMinMM  MillimeterInt
	heightMaxMM  MillimeterInt
	exactHeights []MillimeterInt
}

// BuildDimensionRule is a factory method for a range-based DimensionRule.
// Max bounds of 0 are treated as unbounded.
func BuildDimensionRule(tier Tier, widthMinMM, widthMaxMM, heightMinMM, heightMaxMM MillimeterInt) DimensionRule {
	return DimensionRule{
		tier:        tier,
		widthMinMM:  widthMinMM,
		widthMaxMM:  widthMaxMM,
		heightMinMM: heightMinMM,
		heightMaxMM: heightMaxMM,
	}
}

// BuildExactHeightRule is a factory method for an exact-tier DimensionRule
// that matches when the height equals one of the given heights.
func BuildExactHeightRule(widthMinMM, widthMaxMM MillimeterInt, exactHeightsMM ...MillimeterInt) DimensionRule {
	return DimensionRule{
		tier:         TierExact,
		widthMinMM:   widthMinMM,
		widthMaxMM:   widthMaxMM,
		exactHeights: slices.Clone(exactHeightsMM),
	}
}

// Tier returns the sizing category this rule belongs to.
func (r DimensionRule) Tier() Tier {
	return r.tier
}

func (r DimensionRule) validate() error {
	if !r.tier.IsValid() {
		return ErrUnknownTier
	}

	if r.widthMinMM < 0 || r.heightMinMM < 0 {
		return ErrInvalidDimensions
	}

	if r.widthMaxMM != 0 && r.widthMaxMM < r.widthMinMM {
		return ErrInvalidDimensions
	}

	if r.heightMaxMM != 0 && r.heightMaxMM < r.heightMinMM {
		return ErrInvalidDimensions
	}

	return nil
}

// matches reports whether the given canonical dimensions fall into this rule.
// Exact heights are compared after canonical rounding, which absorbs the
// sub-millimeter tolerance of the centimeter wire unit.
func (r DimensionRule) matches(widthMM, heightMM MillimeterInt) bool {
	if widthMM < r.widthMinMM {
		return false
	}

	if r.widthMaxMM != 0 && widthMM > r.widthMaxMM {
		return false
	}

	if len(r.exactHeights) > 0 {
		return slices.Contains(r.exactHeights, heightMM)
	}

	if heightMM < r.heightMinMM {
		return false
	}

	if r.heightMaxMM != 0 && heightMM > r.heightMaxMM {
		return false
	}

	return true
}

// RuleTable is the configured set of dimension rules for all tiers.
// It is immutable after construction and safe for concurrent use.
type RuleTable struct {
	rules []DimensionRule
}

// BuildRuleTable is a factory method for RuleTable.
// It validates every supplied rule and returns an error for unknown tiers
// or inconsistent bounds.
func BuildRuleTable(rule DimensionRule, additionalRules ...DimensionRule) (RuleTable, error) {
	allRules := append([]DimensionRule{rule}, additionalRules...)

	for _, r := range allRules {
		if err := r.validate(); err != nil {
			return RuleTable{}, err
		}
	}

	return RuleTable{rules: allRules}, nil
}

// Rules returns the configured rules.
func (rt RuleTable) Rules() []DimensionRule {
	return slices.Clone(rt.rules)
}

// Match determines which tiers apply to the given canonical dimensions,
// ordered by strict tier priority (exact first). It is a pure function.
//
// Non-positive dimensions return ErrInvalidDimensions.
// An empty result returns ErrNoRuleApplies: this is a permanent input
// error - no amount of stock replenishment can resolve it without a
// configuration change.
func (rt RuleTable) Match(widthMM, heightMM MillimeterInt) ([]Tier, error) {
	if widthMM <= 0 || heightMM <= 0 {
		return nil, ErrInvalidDimensions
	}

	orderedTiers := make([]Tier, 0, len(TiersByPriority()))

	for _, tier := range TiersByPriority() {
		for _, r := range rt.rules {
			if r.tier == tier && r.matches(widthMM, heightMM) {
				orderedTiers = append(orderedTiers, tier)
				break
			}
		}
	}

	if len(orderedTiers) == 0 {
		return nil, ErrNoRuleApplies
	}

	return orderedTiers, nil
}

// MatchCentimeters is a convenience wrapper around Match for callers that
// work in the centimeter wire unit.
func (rt RuleTable) MatchCentimeters(widthCm, heightCm float64) ([]Tier, error) {
	if !isUsableDimension(widthCm) || !isUsableDimension(heightCm) {
		return nil, ErrInvalidDimensions
	}

	return rt.Match(CanonicalMillimeters(widthCm), CanonicalMillimeters(heightCm))
}

func isUsableDimension(centimeters float64) bool {
	return !math.IsNaN(centimeters) && !math.IsInf(centimeters, 0) && centimeters > 0
}
