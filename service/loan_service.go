package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"loan-amortizer/domain"
	"loan-amortizer/repository"
)

type LoanService struct {
	cache    repository.CacheRepository
	cacheTTL time.Duration
	group    singleflight.Group
	logger   *slog.Logger
}

// NewLoanService creates a LoanService that memoizes schedules in cache.
// A nil logger falls back to slog.Default().
func NewLoanService(
	cache repository.CacheRepository,
	cacheTTL time.Duration,
	logger *slog.Logger,
) *LoanService {
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LoanService{
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger.With("component", "loan_service"),
	}
}

// Calculate returns the periodic payment and the totals derived from it.
func (s *LoanService) Calculate(
	ctx context.Context,
	input domain.LoanInput,
) (domain.LoanSummary, error) {
	if err := validate(input); err != nil {
		return domain.LoanSummary{}, err
	}

	payment, err := ComputePeriodicPayment(input.Principal, input.AnnualRatePercent, input.TermYears)
	if err != nil {
		return domain.LoanSummary{}, err
	}

	return Summarize(input.Principal, payment, input.Periods())
}

// Schedule returns the full amortization schedule with its totals. Identical
// concurrent requests share one computation.
func (s *LoanService) Schedule(
	ctx context.Context,
	input domain.LoanInput,
) (domain.LoanResult, error) {
	if err := validate(input); err != nil {
		return domain.LoanResult{}, err
	}

	key := scheduleCacheKey(input)

	if cached, ok := s.cache.Get(ctx, key); ok {
		var result domain.LoanResult
		err := json.Unmarshal([]byte(cached), &result)
		if err == nil {
			s.logger.DebugContext(ctx, "schedule cache hit", "key", key)
			return result, nil
		}
		s.logger.WarnContext(ctx, "discarding undecodable cache entry", "key", key, "error", err)
	}

	v, err, shared := s.group.Do(key, func() (any, error) {
		return s.compute(ctx, key, input)
	})
	if err != nil {
		return domain.LoanResult{}, err
	}

	result := v.(domain.LoanResult)
	if shared {
		result.Schedule = slices.Clone(result.Schedule)
	}
	return result, nil
}

func (s *LoanService) compute(
	ctx context.Context,
	key string,
	input domain.LoanInput,
) (domain.LoanResult, error) {
	schedule, err := GenerateSchedule(input.Principal, input.AnnualRatePercent, input.TermYears)
	if err != nil {
		return domain.LoanResult{}, err
	}

	summary, err := Summarize(input.Principal, schedule[0].Payment, len(schedule))
	if err != nil {
		return domain.LoanResult{}, err
	}

	result := domain.LoanResult{
		Input:    input,
		Summary:  summary,
		Schedule: schedule,
	}

	// Caching is not critical; a failure only costs a recomputation.
	if encoded, err := json.Marshal(result); err != nil {
		s.logger.WarnContext(ctx, "failed to encode schedule for cache", "key", key, "error", err)
	} else if err := s.cache.Set(ctx, key, string(encoded), s.cacheTTL); err != nil {
		s.logger.WarnContext(ctx, "failed to cache schedule", "key", key, "error", err)
	}

	s.logger.InfoContext(ctx, "schedule computed",
		"principal", input.Principal,
		"annual_rate_percent", input.AnnualRatePercent,
		"term_years", input.TermYears,
		"periods", len(schedule))

	return result, nil
}

// validate applies the engine preconditions plus the service's term limit.
func validate(input domain.LoanInput) error {
	if err := ValidateLoanInput(input.Principal, input.AnnualRatePercent, input.TermYears); err != nil {
		return err
	}
	if input.TermYears > MaxTermYears {
		return domain.NewValidationError(domain.ErrInvalidTerm,
			"term exceeds the maximum of %d years", MaxTermYears)
	}
	return nil
}

func scheduleCacheKey(input domain.LoanInput) string {
	return fmt.Sprintf("loan:schedule:%s:%s:%s:%d",
		scheduleCacheVersion,
		strconv.FormatFloat(input.Principal, 'g', -1, 64),
		strconv.FormatFloat(input.AnnualRatePercent, 'g', -1, 64),
		input.TermYears,
	)
}
