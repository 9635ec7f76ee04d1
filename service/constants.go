package service

import "time"

const (
	MaxTermYears      = 50 // 600 monthly rows per schedule
	MaxTermRangeYears = 30 // widest range a term recommendation evaluates

	// MaxSchedulePeriods bounds the rows a single schedule may hold (about
	// 40 MiB of records). Longer terms are reported as numeric overflow.
	MaxSchedulePeriods = 1 << 20

	DefaultCacheTTL = 15 * time.Minute

	scheduleCacheVersion = "v1"
)
