package barcode

import (
	"errors"
	"fmt"
)

var ErrInvalidDimensions = errors.New("width and height must be positive numbers")
var ErrNoRuleApplies = errors.New("no dimension rule applies to the given dimensions")
var ErrNoRulesSupplied = errors.New("at least one dimension rule must be supplied")
var ErrUnknownTier = errors.New("unknown tier supplied")
var ErrNoTiersSupplied = errors.New("at least one tier must be supplied")
var ErrBlankCode = errors.New("code must not be blank")
var ErrNilDatabaseConnection = errors.New("nil database connection supplied")
var ErrEmptyBarcodeTableName = errors.New("empty barcodeTableName supplied")
var ErrNilStock = errors.New("nil stock reservation store supplied")

var ErrStorageUnavailable = errors.New("barcode storage is unavailable")
var ErrBuildingQueryFailed = errors.New("building the sql query failed")
var ErrReservingCodeFailed = errors.New("reserving a barcode failed")
var ErrReleasingCodeFailed = errors.New("releasing a barcode failed")
var ErrScanningDBRowFailed = errors.New("scanning the database row failed")
var ErrGettingRowsAffectedFailed = errors.New("getting the rows affected count failed")

// NoStockError reports that at least one tier rule matched the given
// dimensions but no code was available in any matching tier.
// MatchedTier identifies the first tier that had an applicable rule, for
// diagnostic reporting - not necessarily the tier with remaining capacity.
type NoStockError struct {
	MatchedTier Tier
}

func (e NoStockError) Error() string {
	return fmt.Sprintf("no barcode in stock for any matching tier (first matched rule tier: %s)", e.MatchedTier)
}

// CodeString is a type alias for string, representing a unique inventory barcode.
type CodeString = string
