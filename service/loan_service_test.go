package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-amortizer/domain"
	"loan-amortizer/repository"
)

type MockCache struct {
	mu         sync.Mutex
	Data       map[string]string
	GetCalls   int
	SetCalls   int
	ForceError bool
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string]string)}
}

func (m *MockCache) Get(_ context.Context, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls++
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls++
	if m.ForceError {
		return errors.New("set error")
	}
	m.Data[key] = value
	return nil
}

var _ repository.CacheRepository = (*MockCache)(nil)

func referenceInput() domain.LoanInput {
	return domain.LoanInput{Principal: 1000000, AnnualRatePercent: 15, TermYears: 5}
}

func TestCalculate_WithInterest(t *testing.T) {
	service := NewLoanService(NewMockCache(), time.Minute, nil)

	summary, err := service.Calculate(context.Background(), referenceInput())
	require.NoError(t, err)

	assert.InDelta(t, 23789.93, summary.MonthlyPayment, 0.005)
	assert.Equal(t, 60, summary.Periods)
	assert.InDelta(t, summary.MonthlyPayment*60, summary.TotalPayment, 1e-9)
	assert.InDelta(t, summary.TotalPayment-1000000, summary.TotalInterest, 1e-9)
}

func TestCalculate_ZeroInterest(t *testing.T) {
	service := NewLoanService(NewMockCache(), time.Minute, nil)

	summary, err := service.Calculate(context.Background(), domain.LoanInput{
		Principal:         1200,
		AnnualRatePercent: 0,
		TermYears:         1,
	})
	require.NoError(t, err)

	assert.Equal(t, 100.0, summary.MonthlyPayment)
	assert.Equal(t, 0.0, summary.TotalInterest)
}

func TestCalculate_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input domain.LoanInput
		want  error
	}{
		{"zero principal", domain.LoanInput{Principal: 0, AnnualRatePercent: 10, TermYears: 1}, domain.ErrInvalidPrincipal},
		{"negative rate", domain.LoanInput{Principal: 1000, AnnualRatePercent: -1, TermYears: 1}, domain.ErrInvalidRate},
		{"zero term", domain.LoanInput{Principal: 1000, AnnualRatePercent: 10, TermYears: 0}, domain.ErrInvalidTerm},
		{"term over limit", domain.LoanInput{Principal: 1000, AnnualRatePercent: 10, TermYears: MaxTermYears + 1}, domain.ErrInvalidTerm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := NewMockCache()
			service := NewLoanService(cache, time.Minute, nil)

			_, err := service.Calculate(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.want)

			_, err = service.Schedule(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, cache.SetCalls, "invalid input must not be cached")
		})
	}
}

func TestSchedule_CachesResult(t *testing.T) {
	cache := NewMockCache()
	service := NewLoanService(cache, time.Minute, nil)
	ctx := context.Background()

	first, err := service.Schedule(ctx, referenceInput())
	require.NoError(t, err)
	require.Len(t, first.Schedule, 60)
	assert.Equal(t, 1, cache.SetCalls)

	second, err := service.Schedule(ctx, referenceInput())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.SetCalls, "second call should be served from cache")
	assert.Equal(t, first, second)
}

func TestSchedule_DifferentInputsUseDifferentKeys(t *testing.T) {
	cache := NewMockCache()
	service := NewLoanService(cache, time.Minute, nil)
	ctx := context.Background()

	_, err := service.Schedule(ctx, referenceInput())
	require.NoError(t, err)

	other := referenceInput()
	other.AnnualRatePercent = 15.5
	_, err = service.Schedule(ctx, other)
	require.NoError(t, err)

	assert.Len(t, cache.Data, 2)
}

func TestSchedule_CacheFailureIsNotFatal(t *testing.T) {
	cache := NewMockCache()
	cache.ForceError = true
	service := NewLoanService(cache, time.Minute, nil)

	result, err := service.Schedule(context.Background(), referenceInput())
	require.NoError(t, err)
	assert.Len(t, result.Schedule, 60)
}

func TestSchedule_IgnoresCorruptCacheEntry(t *testing.T) {
	cache := NewMockCache()
	cache.Data[scheduleCacheKey(referenceInput())] = "{not json"
	service := NewLoanService(cache, time.Minute, nil)

	result, err := service.Schedule(context.Background(), referenceInput())
	require.NoError(t, err)
	assert.Len(t, result.Schedule, 60)
	assert.Equal(t, 1, cache.SetCalls)
}

func TestSchedule_WithMemoryCache(t *testing.T) {
	cache := repository.NewMemoryCache(time.Minute, time.Minute)
	service := NewLoanService(cache, time.Minute, nil)

	result, err := service.Schedule(context.Background(), referenceInput())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, referenceInput(), result.Input)
	assert.InDelta(t, 0, result.Schedule[59].RemainingBalance, 1e-6)
}

func TestSchedule_ConcurrentCallers(t *testing.T) {
	cache := NewMockCache()
	service := NewLoanService(cache, time.Minute, nil)

	const callers = 16
	results := make([]domain.LoanResult, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = service.Schedule(context.Background(), referenceInput())
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0], results[i])
	}

	// Each caller gets its own slice.
	results[0].Schedule[0].Payment = -1
	assert.NotEqual(t, results[0].Schedule[0].Payment, results[1].Schedule[0].Payment)
}

func TestScheduleCacheKey(t *testing.T) {
	assert.Equal(t, "loan:schedule:v1:1e+06:15:5", scheduleCacheKey(referenceInput()))
	assert.Equal(t, "loan:schedule:v1:1234.5:0.1:30", scheduleCacheKey(domain.LoanInput{
		Principal: 1234.5, AnnualRatePercent: 0.1, TermYears: 30,
	}))
}
