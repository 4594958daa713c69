// Package finance implements the dealership's loan-offer calculation: the
// monthly payment for a fixed-rate, fixed-term amortizing loan plus summary
// totals and a rough all-in cost indicator.
package finance

import (
	"fmt"
	"math"

	"github.com/autocentru/dealer/pkg/constants"
	"github.com/autocentru/dealer/pkg/mathutil"
)

// ErrInvalidArgument indicates financing parameters that cannot produce a
// meaningful quote (non-positive principal or term, out-of-range rate).
var ErrInvalidArgument = fmt.Errorf("invalid finance argument")

// ZeroRatePolicy selects how a 0% nominal rate is handled. The annuity
// formula degenerates at zero rate; the historical behavior let the division
// happen and produced non-finite output, which forms relying on UI minimums
// never surfaced.
type ZeroRatePolicy int

const (
	// ZeroRatePolicyGuard splits the principal evenly across the term and
	// reports zero interest.
	ZeroRatePolicyGuard ZeroRatePolicy = iota

	// ZeroRatePolicyDivide applies the annuity formula unguarded,
	// reproducing the historical non-finite output at zero rate.
	ZeroRatePolicyDivide
)

// ParseZeroRatePolicy maps a configuration string onto a policy. An empty
// string selects the guard policy.
func ParseZeroRatePolicy(s string) (ZeroRatePolicy, error) {
	switch s {
	case "", "guard":
		return ZeroRatePolicyGuard, nil
	case "divide":
		return ZeroRatePolicyDivide, nil
	}
	return ZeroRatePolicyGuard, fmt.Errorf("unknown zero-rate policy: %s", s)
}

// QuoteRequest holds the financing parameters collected by the finance and
// sell-car forms.
type QuoteRequest struct {
	Price             float64 `json:"price"`
	DownPayment       float64 `json:"downPayment"`
	AnnualRatePercent float64 `json:"annualRatePercent"`
	TermMonths        int     `json:"termMonths"`
}

// Quote holds the derived values for one calculation. Quotes are computed on
// demand and never persisted; downstream lead records store the inputs only.
type Quote struct {
	Principal      float64 `json:"principal"`
	MonthlyPayment float64 `json:"monthlyPayment"`
	TotalInterest  float64 `json:"totalInterest"`
	TotalAmount    float64 `json:"totalAmount"`
	ApproximateAPR float64 `json:"approximateApr"`
}

// Finite reports whether every derived value is representable, which is
// false for zero-rate quotes computed under ZeroRatePolicyDivide.
func (q Quote) Finite() bool {
	return mathutil.IsFinite(q.MonthlyPayment) &&
		mathutil.IsFinite(q.TotalInterest) &&
		mathutil.IsFinite(q.TotalAmount)
}

// Calculate computes the quote for the given request using the standard
// amortization annuity formula. All outputs are rounded to two decimals.
func Calculate(req QuoteRequest, policy ZeroRatePolicy) (Quote, error) {
	principal := req.Price - req.DownPayment
	if principal <= 0 {
		return Quote{}, fmt.Errorf("%w: financed principal must be positive, got %.2f", ErrInvalidArgument, principal)
	}
	if req.TermMonths <= 0 {
		return Quote{}, fmt.Errorf("%w: term must be a positive number of months, got %d", ErrInvalidArgument, req.TermMonths)
	}
	if req.AnnualRatePercent < 0 || req.AnnualRatePercent >= 100 {
		return Quote{}, fmt.Errorf("%w: annual rate must be in [0, 100), got %.2f", ErrInvalidArgument, req.AnnualRatePercent)
	}

	var monthlyPayment float64
	if req.AnnualRatePercent == 0 && policy == ZeroRatePolicyGuard {
		monthlyPayment = principal / float64(req.TermMonths)
	} else {
		monthlyRate := req.AnnualRatePercent / constants.PercentageMultiplier / constants.MonthsPerYear
		power := math.Pow(1.00+monthlyRate, float64(req.TermMonths))
		monthlyPayment = principal * (monthlyRate * power) / (power - 1.00)
	}

	// Totals derive from the rounded monthly payment so that
	// TotalAmount == MonthlyPayment * TermMonths holds exactly.
	monthlyPayment = mathutil.Round(monthlyPayment)
	totalAmount := mathutil.Round(monthlyPayment * float64(req.TermMonths))
	totalInterest := mathutil.Round(totalAmount - principal)

	return Quote{
		Principal:      mathutil.Round(principal),
		MonthlyPayment: monthlyPayment,
		TotalInterest:  totalInterest,
		TotalAmount:    totalAmount,
		ApproximateAPR: mathutil.Round(req.AnnualRatePercent + constants.EstimatedFeeMarkupPercent),
	}, nil
}
