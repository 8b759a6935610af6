package barcode

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Expected CSV layout, one rule per row after the header:
//
//	tier,width_min_mm,width_max_mm,height_min_mm,height_max_mm,exact_heights_mm
//
// exact_heights_mm is a semicolon-separated list and only valid on
// exact-tier rows; when present it replaces the height range.
const ruleCSVColumnCount = 6

// LoadRuleTableCSV reads a rule table from a CSV file.
func LoadRuleTableCSV(path string) (RuleTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return RuleTable{}, fmt.Errorf("open rule table csv: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	return ReadRuleTableCSV(f)
}

// ReadRuleTableCSV reads a rule table in CSV format from the given reader.
func ReadRuleTableCSV(r io.Reader) (RuleTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return RuleTable{}, fmt.Errorf("read rule table csv: %w", err)
	}

	if len(rows) < 2 {
		return RuleTable{}, fmt.Errorf("rule table csv has no data rows: %w", ErrNoRulesSupplied)
	}

	rules := make([]DimensionRule, 0, len(rows)-1)

	for i, row := range rows[1:] {
		rule, rowErr := ruleFromCSVRow(row)
		if rowErr != nil {
			return RuleTable{}, fmt.Errorf("rule table csv row %d: %w", i+2, rowErr)
		}

		rules = append(rules, rule)
	}

	return BuildRuleTable(rules[0], rules[1:]...)
}

func ruleFromCSVRow(row []string) (DimensionRule, error) {
	if len(row) < ruleCSVColumnCount {
		return DimensionRule{}, fmt.Errorf("expected %d columns, got %d", ruleCSVColumnCount, len(row))
	}

	tier := Tier(strings.TrimSpace(row[0]))
	if !tier.IsValid() {
		return DimensionRule{}, ErrUnknownTier
	}

	bounds := make([]MillimeterInt, 4)
	for i, field := range row[1:5] {
		value, err := parseMillimeterField(field)
		if err != nil {
			return DimensionRule{}, err
		}
		bounds[i] = value
	}

	exactHeights, err := parseExactHeightsField(row[5])
	if err != nil {
		return DimensionRule{}, err
	}

	if len(exactHeights) > 0 {
		if tier != TierExact {
			return DimensionRule{}, fmt.Errorf("exact heights are only valid for tier %q, got %q", TierExact, tier)
		}

		return BuildExactHeightRule(bounds[0], bounds[1], exactHeights...), nil
	}

	return BuildDimensionRule(tier, bounds[0], bounds[1], bounds[2], bounds[3]), nil
}

func parseMillimeterField(field string) (MillimeterInt, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return 0, nil // unbounded
	}

	value, err := strconv.Atoi(field)
	if err != nil {
		return 0, fmt.Errorf("parse millimeter value %q: %w", field, err)
	}

	return value, nil
}

func parseExactHeightsField(field string) ([]MillimeterInt, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return nil, nil
	}

	parts := strings.Split(field, ";")
	heights := make([]MillimeterInt, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		value, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("parse exact height %q: %w", part, err)
		}

		heights = append(heights, value)
	}

	return heights, nil
}
