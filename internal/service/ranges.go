package service

import (
	"fmt"
	"time"

	"github.com/pageza/nutrilog/backend/internal/trends"
)

// MaxListDays is the longest span a diary or body metric listing may cover.
const MaxListDays = 366

func checkListRange(from, to time.Time) error {
	if n := trends.BucketCount(from, to, 1); n > MaxListDays {
		return fmt.Errorf("%w: %d days requested, at most %d allowed", ErrRangeTooLarge, n, MaxListDays)
	}
	return nil
}

func checkTrendRange(from, to time.Time, quantizationDays int) error {
	if n := trends.BucketCount(from, to, quantizationDays); n > trends.MaxBuckets {
		return fmt.Errorf("%w: %d buckets requested, at most %d allowed", ErrRangeTooLarge, n, trends.MaxBuckets)
	}
	return nil
}
