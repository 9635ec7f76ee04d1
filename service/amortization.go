package service

import (
	"math"

	"loan-amortizer/domain"
)

// ValidateLoanInput reports the first violated precondition, checking
// principal, rate, term and finally representability in that order.
func ValidateLoanInput(principal, annualRatePercent float64, termYears int) error {
	if math.IsNaN(principal) || principal <= 0 {
		return domain.NewValidationError(domain.ErrInvalidPrincipal,
			"principal must be greater than zero, got %v", principal)
	}
	if math.IsNaN(annualRatePercent) || annualRatePercent < 0 {
		return domain.NewValidationError(domain.ErrInvalidRate,
			"annual rate must be zero or positive, got %v", annualRatePercent)
	}
	if termYears <= 0 {
		return domain.NewValidationError(domain.ErrInvalidTerm,
			"term must be at least one whole year, got %d", termYears)
	}
	if math.IsInf(principal, 0) || math.IsInf(annualRatePercent, 0) {
		return domain.NewValidationError(domain.ErrNumericOverflow,
			"principal and rate must be finite")
	}
	if termYears > MaxSchedulePeriods/domain.MonthsPerYear {
		return domain.NewValidationError(domain.ErrNumericOverflow,
			"term of %d years exceeds %d periods", termYears, MaxSchedulePeriods)
	}
	return nil
}

// ComputePeriodicPayment returns the fixed monthly installment that repays
// principal over termYears at annualRatePercent. The result is not rounded.
func ComputePeriodicPayment(principal, annualRatePercent float64, termYears int) (float64, error) {
	if err := ValidateLoanInput(principal, annualRatePercent, termYears); err != nil {
		return 0, err
	}
	in := domain.LoanInput{Principal: principal, AnnualRatePercent: annualRatePercent, TermYears: termYears}
	payment := periodicPayment(principal, in.PeriodicRate(), in.Periods())
	if !isFinite(payment) {
		return 0, domain.NewValidationError(domain.ErrNumericOverflow,
			"periodic payment is not representable for principal %v at %v%%", principal, annualRatePercent)
	}
	return payment, nil
}

// periodicPayment evaluates P*r*(1+r)^n / ((1+r)^n - 1) as P*r / (1 - (1+r)^-n).
// Log1p/Expm1 keep precision for tiny rates and avoid an infinite (1+r)^n on
// long terms.
func periodicPayment(principal, r float64, n int) float64 {
	if r == 0 {
		return principal / float64(n)
	}
	return principal * r / -math.Expm1(-float64(n)*math.Log1p(r))
}

// GenerateSchedule produces one record per month. The payment is computed once
// and reused; the remaining balance is floored at zero after every period.
// Either the full schedule or an error is returned.
func GenerateSchedule(principal, annualRatePercent float64, termYears int) (domain.Schedule, error) {
	payment, err := ComputePeriodicPayment(principal, annualRatePercent, termYears)
	if err != nil {
		return nil, err
	}

	in := domain.LoanInput{Principal: principal, AnnualRatePercent: annualRatePercent, TermYears: termYears}
	r := in.PeriodicRate()
	n := in.Periods()
	balance := principal

	schedule := make(domain.Schedule, 0, n)
	for month := 1; month <= n; month++ {
		interest := balance * r
		principalPortion := payment - interest
		balance -= principalPortion
		balance = math.Max(balance, 0)

		if !isFinite(interest) || !isFinite(principalPortion) || !isFinite(balance) {
			return nil, domain.NewValidationError(domain.ErrNumericOverflow,
				"period %d is not representable", month)
		}

		schedule = append(schedule, domain.PeriodRecord{
			Period:           month,
			Payment:          payment,
			Principal:        principalPortion,
			Interest:         interest,
			RemainingBalance: balance,
		})
	}

	return schedule, nil
}

// Summarize derives the totals shown next to a schedule.
func Summarize(principal, payment float64, periods int) (domain.LoanSummary, error) {
	total := payment * float64(periods)
	if !isFinite(total) {
		return domain.LoanSummary{}, domain.NewValidationError(domain.ErrNumericOverflow,
			"total payment over %d periods is not representable", periods)
	}
	return domain.LoanSummary{
		MonthlyPayment: payment,
		Periods:        periods,
		TotalPayment:   total,
		TotalInterest:  total - principal,
	}, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
