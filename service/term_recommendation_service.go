package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"loan-amortizer/domain"
	"loan-amortizer/logger"
)

var (
	ErrInvalidTermRange  = errors.New("invalid term range")
	ErrInvalidPreference = errors.New("invalid preference")
	ErrInvalidMaxPayment = errors.New("maximum monthly payment must be greater than zero")
	ErrNoEligibleTerm    = errors.New("no term satisfies the maximum monthly payment")
)

// roundTo2Decimals rounds a float64 to 2 decimals.
func roundTo2Decimals(value float64) float64 {
	return math.Round(value*100) / 100
}

type TermRecommendationService struct {
	loanService *LoanService
}

func NewTermRecommendationService(loanService *LoanService) *TermRecommendationService {
	return &TermRecommendationService{loanService: loanService}
}

// RecommendTerm evaluates every whole-year term in the range and ranks the
// affordable ones by the requested preference.
func (s *TermRecommendationService) RecommendTerm(
	ctx context.Context,
	input domain.TermRecommendationInput,
) (domain.TermRecommendationResult, error) {
	if err := ValidateLoanInput(input.Principal, input.AnnualRatePercent, 1); err != nil {
		return domain.TermRecommendationResult{}, err
	}
	if input.MinTermYears <= 0 || input.MaxTermYears <= 0 {
		return domain.TermRecommendationResult{}, fmt.Errorf("%w: terms must be at least one year", ErrInvalidTermRange)
	}
	if input.MinTermYears > input.MaxTermYears {
		return domain.TermRecommendationResult{}, fmt.Errorf("%w: minimum term greater than maximum", ErrInvalidTermRange)
	}
	if input.MaxTermYears > MaxTermYears {
		return domain.TermRecommendationResult{}, fmt.Errorf("%w: maximum term exceeds %d years", ErrInvalidTermRange, MaxTermYears)
	}
	if input.MaxTermYears-input.MinTermYears > MaxTermRangeYears {
		return domain.TermRecommendationResult{}, fmt.Errorf("%w: range exceeds %d years", ErrInvalidTermRange, MaxTermRangeYears)
	}
	if math.IsNaN(input.MaxMonthlyPayment) || input.MaxMonthlyPayment <= 0 {
		return domain.TermRecommendationResult{}, ErrInvalidMaxPayment
	}

	switch input.Preference {
	case domain.PreferenceMinimizeInterest, domain.PreferenceMinimizePayment, domain.PreferenceBalanced:
	default:
		return domain.TermRecommendationResult{}, fmt.Errorf("%w: %q", ErrInvalidPreference, input.Preference)
	}

	recommendations := []domain.TermRecommendation{}

	for term := input.MinTermYears; term <= input.MaxTermYears; term++ {
		summary, err := s.loanService.Calculate(ctx, domain.LoanInput{
			Principal:         input.Principal,
			AnnualRatePercent: input.AnnualRatePercent,
			TermYears:         term,
		})
		if err != nil {
			logger.FromContext(ctx).WarnContext(ctx, "skipping term", "term_years", term, logger.FieldError, err)
			continue
		}

		if summary.MonthlyPayment > input.MaxMonthlyPayment {
			continue
		}

		recommendations = append(recommendations, domain.TermRecommendation{
			TermYears:      term,
			MonthlyPayment: summary.MonthlyPayment,
			TotalInterest:  summary.TotalInterest,
			Score:          s.calculateScore(summary, input, term),
			Reason:         reasonFor(input.Preference),
		})
	}

	if len(recommendations) == 0 {
		return domain.TermRecommendationResult{}, ErrNoEligibleTerm
	}

	// Highest score first; ties go to the shorter term.
	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Score > recommendations[j].Score
	})

	return domain.TermRecommendationResult{
		RecommendedTermYears: recommendations[0].TermYears,
		Recommendations:      recommendations,
	}, nil
}

// calculateScore normalizes interest, payment and term to 0-10 and weights
// them by preference.
func (s *TermRecommendationService) calculateScore(
	summary domain.LoanSummary,
	input domain.TermRecommendationInput,
	term int,
) float64 {
	maxPossibleInterest := input.Principal * (input.AnnualRatePercent / 100) * float64(input.MaxTermYears)
	minPossibleInterest := input.Principal * (input.AnnualRatePercent / 100) * float64(input.MinTermYears)

	lowestPayment := input.Principal / float64(input.MaxTermYears*domain.MonthsPerYear)
	interestRange := maxPossibleInterest - minPossibleInterest
	paymentRange := input.MaxMonthlyPayment - lowestPayment

	interestScore := 0.0
	paymentScore := 0.0
	termScore := 10.0

	if interestRange > 0 {
		interestScore = 10.0 * (1.0 - (summary.TotalInterest-minPossibleInterest)/interestRange)
	}
	if paymentRange > 0 {
		paymentScore = 10.0 * (1.0 - (summary.MonthlyPayment-lowestPayment)/paymentRange)
	}
	if input.MaxTermYears > input.MinTermYears {
		termScore = 10.0 * (1.0 - float64(term-input.MinTermYears)/float64(input.MaxTermYears-input.MinTermYears))
	}

	var score float64
	switch input.Preference {
	case domain.PreferenceMinimizeInterest:
		score = 0.6*interestScore + 0.2*paymentScore + 0.2*termScore
	case domain.PreferenceMinimizePayment:
		score = 0.2*interestScore + 0.6*paymentScore + 0.2*termScore
	case domain.PreferenceBalanced:
		score = 0.4*interestScore + 0.4*paymentScore + 0.2*termScore
	}

	return roundTo2Decimals(score)
}

func reasonFor(preference string) string {
	switch preference {
	case domain.PreferenceMinimizeInterest:
		return "Term chosen to minimize total interest paid"
	case domain.PreferenceMinimizePayment:
		return "Term chosen to minimize the monthly payment"
	case domain.PreferenceBalanced:
		return "Balance between monthly payment and total cost"
	}
	return "Recommendation based on the supplied parameters"
}
