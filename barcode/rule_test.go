package barcode_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ckocevar-dev/rxlog/barcode"
)

func buildTestRuleTable(t *testing.T) barcode.RuleTable {
	t.Helper()

	rules, err := barcode.BuildRuleTable(
		barcode.BuildExactHeightRule(0, 140, 185, 250),
		barcode.BuildDimensionRule(barcode.TierLarger, 0, 210, 0, 297),
		barcode.BuildDimensionRule(barcode.TierOversized, 0, 0, 0, 0),
	)
	assert.NoError(t, err, "error in arranging test data")

	return rules
}

func Test_RuleTable_Match_OrdersMatchingTiersByPriority(t *testing.T) {
	// arrange
	rules := buildTestRuleTable(t)

	// act
	orderedTiers, err := rules.Match(130, 185)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, []barcode.Tier{barcode.TierExact, barcode.TierLarger, barcode.TierOversized}, orderedTiers)
}

func Test_RuleTable_Match_When_ExactHeightDoesNotMatch(t *testing.T) {
	// arrange
	rules := buildTestRuleTable(t)

	// act
	orderedTiers, err := rules.Match(130, 200)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, []barcode.Tier{barcode.TierLarger, barcode.TierOversized}, orderedTiers)
}

func Test_RuleTable_Match_When_OnlyTheUnboundedRuleMatches(t *testing.T) {
	// arrange
	rules := buildTestRuleTable(t)

	// act
	orderedTiers, err := rules.Match(300, 400)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, []barcode.Tier{barcode.TierOversized}, orderedTiers)
}

func Test_RuleTable_Match_With_InvalidDimensions(t *testing.T) {
	rules := buildTestRuleTable(t)

	tests := []struct {
		name     string
		widthMM  int
		heightMM int
	}{
		{name: "zero_width", widthMM: 0, heightMM: 185},
		{name: "zero_height", widthMM: 130, heightMM: 0},
		{name: "negative_width", widthMM: -1, heightMM: 185},
		{name: "negative_height", widthMM: 130, heightMM: -10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			orderedTiers, err := rules.Match(tc.widthMM, tc.heightMM)

			assert.ErrorIs(t, err, barcode.ErrInvalidDimensions)
			assert.Empty(t, orderedTiers)
		})
	}
}

func Test_RuleTable_Match_When_NoRuleApplies(t *testing.T) {
	// arrange: no unbounded fallback rule this time
	rules, err := barcode.BuildRuleTable(
		barcode.BuildDimensionRule(barcode.TierLarger, 0, 210, 0, 297),
	)
	assert.NoError(t, err, "error in arranging test data")

	// act
	orderedTiers, matchErr := rules.Match(300, 400)

	// assert
	assert.ErrorIs(t, matchErr, barcode.ErrNoRuleApplies)
	assert.Empty(t, orderedTiers)
}

func Test_RuleTable_MatchCentimeters_RoundsToCanonicalMillimeters(t *testing.T) {
	// arrange
	rules := buildTestRuleTable(t)

	// act: 18.46 cm rounds to 185 mm, hitting the exact-height rule
	orderedTiers, err := rules.MatchCentimeters(13.0, 18.46)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, barcode.TierExact, orderedTiers[0])
}

func Test_RuleTable_MatchCentimeters_With_UnusableInput(t *testing.T) {
	rules := buildTestRuleTable(t)

	tests := []struct {
		name     string
		widthCm  float64
		heightCm float64
	}{
		{name: "zero_width", widthCm: 0, heightCm: 18.5},
		{name: "negative_height", widthCm: 13, heightCm: -18.5},
		{name: "nan_width", widthCm: math.NaN(), heightCm: 18.5},
		{name: "infinite_height", widthCm: 13, heightCm: math.Inf(1)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := rules.MatchCentimeters(tc.widthCm, tc.heightCm)

			assert.ErrorIs(t, err, barcode.ErrInvalidDimensions)
		})
	}
}

func Test_CanonicalMillimeters(t *testing.T) {
	tests := []struct {
		name        string
		centimeters float64
		expectedMM  int
	}{
		{name: "whole_centimeters", centimeters: 13, expectedMM: 130},
		{name: "rounds_up", centimeters: 18.46, expectedMM: 185},
		{name: "rounds_down", centimeters: 18.44, expectedMM: 184},
		{name: "half_millimeter_rounds_up", centimeters: 18.45, expectedMM: 185},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedMM, barcode.CanonicalMillimeters(tc.centimeters))
		})
	}
}

func Test_BuildRuleTable_With_InvalidRules(t *testing.T) {
	tests := []struct {
		name        string
		rule        barcode.DimensionRule
		expectedErr error
	}{
		{
			name:        "unknown_tier",
			rule:        barcode.BuildDimensionRule("gigantic", 0, 100, 0, 100),
			expectedErr: barcode.ErrUnknownTier,
		},
		{
			name:        "inverted_width_bounds",
			rule:        barcode.BuildDimensionRule(barcode.TierLarger, 200, 100, 0, 100),
			expectedErr: barcode.ErrInvalidDimensions,
		},
		{
			name:        "inverted_height_bounds",
			rule:        barcode.BuildDimensionRule(barcode.TierLarger, 0, 100, 200, 100),
			expectedErr: barcode.ErrInvalidDimensions,
		},
		{
			name:        "negative_min_bound",
			rule:        barcode.BuildDimensionRule(barcode.TierLarger, -1, 100, 0, 100),
			expectedErr: barcode.ErrInvalidDimensions,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := barcode.BuildRuleTable(tc.rule)

			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func Test_TiersByPriority_OrderIsStable(t *testing.T) {
	assert.Equal(t,
		[]barcode.Tier{barcode.TierExact, barcode.TierLarger, barcode.TierOversized},
		barcode.TiersByPriority())
}
