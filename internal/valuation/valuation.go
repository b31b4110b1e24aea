// Package valuation computes simple-interest investment values for cotas.
package valuation

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks a precondition violation of Compute.
var ErrInvalidInput = errors.New("valuation: invalid input")

// Result holds the derived values of a cota.
type Result struct {
	GrossValue    float64 // Principal plus profitability.
	NetValue      float64 // Gross value minus withheld tax.
	Profitability float64 // Raw interest earned before tax.
}

// Compute derives gross value, net value and profitability using simple
// interest. interestRate is a percentage applied per month of durationMonths.
// No rounding is applied; presentation rounding belongs to the caller.
//
// Preconditions are checked here even though handlers validate payloads,
// because Compute is reachable from more than one call site.
func Compute(amount, interestRate float64, durationMonths int, tax float64) (Result, error) {
	if amount <= 0 {
		return Result{}, fmt.Errorf("%w: amount must be greater than 0", ErrInvalidInput)
	}
	if interestRate <= 0 {
		return Result{}, fmt.Errorf("%w: interest_rate must be greater than 0", ErrInvalidInput)
	}
	if durationMonths <= 0 {
		return Result{}, fmt.Errorf("%w: duration_months must be greater than 0", ErrInvalidInput)
	}
	if tax < 0 {
		return Result{}, fmt.Errorf("%w: tax cannot be negative", ErrInvalidInput)
	}

	profitability := amount * (interestRate / 100) * float64(durationMonths)
	grossValue := amount + profitability
	taxWithheld := profitability * tax

	return Result{
		GrossValue:    grossValue,
		NetValue:      grossValue - taxWithheld,
		Profitability: profitability,
	}, nil
}
