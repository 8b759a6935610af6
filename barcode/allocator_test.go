package barcode_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ckocevar-dev/rxlog/barcode"
)

// stockSpy records the tiers the allocator asked for and returns a
// pre-configured result.
type stockSpy struct {
	requestedTiers []barcode.Tier
	code           barcode.CodeString
	err            error
	calls          int
}

func (s *stockSpy) ReserveOneFor(_ context.Context, orderedTiers []barcode.Tier) (barcode.CodeString, error) {
	s.calls++
	s.requestedTiers = orderedTiers

	return s.code, s.err
}

func Test_NewAllocator_With_NilStock(t *testing.T) {
	rules := buildTestRuleTable(t)

	_, err := barcode.NewAllocator(rules, nil)

	assert.ErrorIs(t, err, barcode.ErrNilStock)
}

func Test_NewAllocator_With_EmptyRuleTable(t *testing.T) {
	_, err := barcode.NewAllocator(barcode.RuleTable{}, &stockSpy{})

	assert.ErrorIs(t, err, barcode.ErrNoRulesSupplied)
}

func Test_Allocator_AssignForDimensions_PassesPriorityOrderedTiersToStock(t *testing.T) {
	// arrange
	spy := &stockSpy{code: "gy042"}
	allocator, err := barcode.NewAllocator(buildTestRuleTable(t), spy)
	assert.NoError(t, err, "error in arranging test data")

	// act
	code, assignErr := allocator.AssignForDimensions(context.Background(), 13.0, 18.5)

	// assert
	assert.NoError(t, assignErr)
	assert.Equal(t, "gy042", code)
	assert.Equal(t, []barcode.Tier{barcode.TierExact, barcode.TierLarger, barcode.TierOversized}, spy.requestedTiers)
}

func Test_Allocator_AssignForDimensions_When_NoRuleApplies_DoesNotTouchStock(t *testing.T) {
	// arrange: only a bounded larger rule, dimensions outside its range
	rules, err := barcode.BuildRuleTable(
		barcode.BuildDimensionRule(barcode.TierLarger, 0, 210, 0, 297),
	)
	assert.NoError(t, err, "error in arranging test data")

	spy := &stockSpy{code: "gy042"}
	allocator, err := barcode.NewAllocator(rules, spy)
	assert.NoError(t, err, "error in arranging test data")

	// act
	_, assignErr := allocator.AssignForDimensions(context.Background(), 30.0, 40.0)

	// assert
	assert.ErrorIs(t, assignErr, barcode.ErrNoRuleApplies)
	assert.Zero(t, spy.calls)
}

func Test_Allocator_AssignForDimensions_With_InvalidDimensions_DoesNotTouchStock(t *testing.T) {
	spy := &stockSpy{code: "gy042"}
	allocator, err := barcode.NewAllocator(buildTestRuleTable(t), spy)
	assert.NoError(t, err, "error in arranging test data")

	_, assignErr := allocator.AssignForDimensions(context.Background(), 0, 18.5)

	assert.ErrorIs(t, assignErr, barcode.ErrInvalidDimensions)
	assert.Zero(t, spy.calls)
}

func Test_Allocator_AssignForDimensions_PropagatesNoStock(t *testing.T) {
	// arrange
	spy := &stockSpy{err: barcode.NoStockError{MatchedTier: barcode.TierExact}}
	allocator, err := barcode.NewAllocator(buildTestRuleTable(t), spy)
	assert.NoError(t, err, "error in arranging test data")

	// act
	_, assignErr := allocator.AssignForDimensions(context.Background(), 13.0, 18.5)

	// assert
	var noStock barcode.NoStockError
	assert.ErrorAs(t, assignErr, &noStock)
	assert.Equal(t, barcode.TierExact, noStock.MatchedTier)
}

func Test_Allocator_AssignForCanonicalDimensions(t *testing.T) {
	// arrange
	spy := &stockSpy{code: "om117"}
	allocator, err := barcode.NewAllocator(buildTestRuleTable(t), spy)
	assert.NoError(t, err, "error in arranging test data")

	// act: height 200 skips the exact-height rule
	code, assignErr := allocator.AssignForCanonicalDimensions(context.Background(), 130, 200)

	// assert
	assert.NoError(t, assignErr)
	assert.Equal(t, "om117", code)
	assert.Equal(t, []barcode.Tier{barcode.TierLarger, barcode.TierOversized}, spy.requestedTiers)
}
