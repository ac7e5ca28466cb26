package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/nutrilog/backend/internal/models"
	"github.com/pageza/nutrilog/backend/internal/trends"
)

// StatisticsService buckets diary and body metric history into trends.
// A trend covers at most trends.MaxBuckets buckets.
type StatisticsService struct {
	db    *gorm.DB
	meals *ConsumptionService
}

// NewStatisticsService creates a new StatisticsService instance
func NewStatisticsService(db *gorm.DB) *StatisticsService {
	return &StatisticsService{
		db:    db,
		meals: NewConsumptionService(db),
	}
}

// IntakeTrend returns total calories and average daily macronutrients per
// bucket of quantizationDays days over [from, to]. Stale cached meal totals
// are refreshed first.
func (s *StatisticsService) IntakeTrend(ctx context.Context, userID uuid.UUID, from, to time.Time, quantizationDays int) ([]trends.IntakeSummary, error) {
	if err := checkTrendRange(from, to, quantizationDays); err != nil {
		return nil, err
	}
	meals, err := s.meals.listFresh(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	records := make([]trends.IntakeRecord, 0, len(meals))
	for i := range meals {
		records = append(records, trends.IntakeRecord{
			Date:   meals[i].Day(),
			Totals: meals[i].Totals.Totals(),
		})
	}
	return trends.AggregateIntake(from, to, trends.ClampQuantization(quantizationDays), records), nil
}

// WeightTrend returns the average weight per bucket.
func (s *StatisticsService) WeightTrend(ctx context.Context, userID uuid.UUID, from, to time.Time, quantizationDays int) ([]trends.ValueSummary, error) {
	if err := checkTrendRange(from, to, quantizationDays); err != nil {
		return nil, err
	}
	entries, err := listDaily[models.WeightEntry](ctx, s.db, userID, from, to)
	if err != nil {
		return nil, err
	}
	records := valueRecords(entries, func(e models.WeightEntry) trends.ValueRecord {
		return trends.ValueRecord{Date: e.Day(), Value: e.Value}
	})
	return trends.AggregateValues(from, to, trends.ClampQuantization(quantizationDays), records), nil
}

// WaistTrend returns the average waist circumference per bucket.
func (s *StatisticsService) WaistTrend(ctx context.Context, userID uuid.UUID, from, to time.Time, quantizationDays int) ([]trends.ValueSummary, error) {
	if err := checkTrendRange(from, to, quantizationDays); err != nil {
		return nil, err
	}
	entries, err := listDaily[models.WaistEntry](ctx, s.db, userID, from, to)
	if err != nil {
		return nil, err
	}
	records := valueRecords(entries, func(e models.WaistEntry) trends.ValueRecord {
		return trends.ValueRecord{Date: e.Day(), Value: e.Value}
	})
	return trends.AggregateValues(from, to, trends.ClampQuantization(quantizationDays), records), nil
}

func valueRecords[T any](entries []T, record func(T) trends.ValueRecord) []trends.ValueRecord {
	out := make([]trends.ValueRecord, 0, len(entries))
	for _, e := range entries {
		out = append(out, record(e))
	}
	return out
}
