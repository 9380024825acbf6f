package costing

import "errors"

// Input-validation failures. Every function in this package wraps one of these
// so callers can branch with errors.Is.
var (
	ErrInvalidGeometry       = errors.New("invalid geometry")
	ErrInvalidMaterialConfig = errors.New("invalid material configuration")
	ErrDegenerateMargin      = errors.New("target margin must be below 100%")
	ErrBreakEvenUnreachable  = errors.New("break-even not reachable at this price")
	ErrZeroPriceDivision     = errors.New("division by a zero price or volume")
	ErrInvalidMarketPosition = errors.New("unknown market position")
	ErrInvalidQuantity       = errors.New("quantity must be a positive integer")
	ErrInvalidInput          = errors.New("invalid input")
)
