// Package payment validates plan prices and creates Stripe payment intents.
package payment

import "errors"

var (
	// ErrUnknownPlan is returned for a plan id missing from the price table.
	ErrUnknownPlan = errors.New("invalid plan")
	// ErrAmountMismatch is returned when the client amount differs from the
	// server price.
	ErrAmountMismatch = errors.New("invalid amount")
)

// planPrices holds the authoritative price of each plan in minor units.
var planPrices = map[uint]int64{
	1: 2000,
	2: 4000,
}

// ExpectedAmount returns the server-side price of planID in minor units.
func ExpectedAmount(planID uint) (int64, bool) {
	amount, ok := planPrices[planID]
	return amount, ok
}

// ValidateAmount checks a client supplied amount against the price table.
// Currency plays no part in the check.
func ValidateAmount(planID uint, clientAmount int64) (int64, error) {
	expected, ok := ExpectedAmount(planID)
	if !ok {
		return 0, ErrUnknownPlan
	}
	if expected != clientAmount {
		return 0, ErrAmountMismatch
	}
	return expected, nil
}
