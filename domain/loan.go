package domain

// MonthsPerYear is the number of payment periods in one year of term.
const MonthsPerYear = 12

// LoanInput holds the three values every amortization needs.
type LoanInput struct {
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"annual_rate_percent"`
	TermYears         int     `json:"term_years"`
}

// Periods returns the number of monthly payments in the term.
func (in LoanInput) Periods() int {
	return in.TermYears * MonthsPerYear
}

// PeriodicRate returns the monthly rate as a fraction (15% a year is 0.0125).
func (in LoanInput) PeriodicRate() float64 {
	return (in.AnnualRatePercent / 100) / MonthsPerYear
}

// PeriodRecord is one row of an amortization schedule.
type PeriodRecord struct {
	Period           int     `json:"period"`
	Payment          float64 `json:"payment"`
	Principal        float64 `json:"principal"`
	Interest         float64 `json:"interest"`
	RemainingBalance float64 `json:"remaining_balance"`
}

// Schedule is ordered by Period, starting at 1.
type Schedule []PeriodRecord

// TotalInterest sums the interest portion of every period.
func (s Schedule) TotalInterest() float64 {
	var total float64
	for _, rec := range s {
		total += rec.Interest
	}
	return total
}

// LoanSummary carries the periodic payment and the totals derived from it.
type LoanSummary struct {
	MonthlyPayment float64 `json:"monthly_payment"`
	Periods        int     `json:"periods"`
	TotalPayment   float64 `json:"total_payment"`
	TotalInterest  float64 `json:"total_interest"`
}

// LoanResult bundles a schedule with the input and totals it was computed from.
type LoanResult struct {
	Input    LoanInput   `json:"input"`
	Summary  LoanSummary `json:"summary"`
	Schedule Schedule    `json:"schedule"`
}
