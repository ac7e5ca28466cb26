package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/nutrilog/backend/internal/models"
	"github.com/pageza/nutrilog/backend/internal/trends"
)

// BodyMetricService records weight and waist measurements. A user has at
// most one entry of each kind per day; logging again replaces the value.
type BodyMetricService struct {
	db *gorm.DB
}

// NewBodyMetricService creates a new BodyMetricService instance
func NewBodyMetricService(db *gorm.DB) *BodyMetricService {
	return &BodyMetricService{db: db}
}

func (s *BodyMetricService) LogWeight(ctx context.Context, userID uuid.UUID, date time.Time, kg float64) (*models.WeightEntry, error) {
	if err := validMeasurement(kg); err != nil {
		return nil, err
	}
	day := trends.Day(date)
	entry := &models.WeightEntry{UserID: userID, Date: datatypes.Date(day), Value: kg}
	return upsertDaily[models.WeightEntry](ctx, s.db, entry, userID, day)
}

func (s *BodyMetricService) ListWeight(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.WeightEntry, error) {
	if err := checkListRange(from, to); err != nil {
		return nil, err
	}
	return listDaily[models.WeightEntry](ctx, s.db, userID, from, to)
}

func (s *BodyMetricService) DeleteWeight(ctx context.Context, userID, id uuid.UUID) error {
	return deleteEntry[models.WeightEntry](ctx, s.db, userID, id)
}

func (s *BodyMetricService) LogWaist(ctx context.Context, userID uuid.UUID, date time.Time, cm float64) (*models.WaistEntry, error) {
	if err := validMeasurement(cm); err != nil {
		return nil, err
	}
	day := trends.Day(date)
	entry := &models.WaistEntry{UserID: userID, Date: datatypes.Date(day), Value: cm}
	return upsertDaily[models.WaistEntry](ctx, s.db, entry, userID, day)
}

func (s *BodyMetricService) ListWaist(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.WaistEntry, error) {
	if err := checkListRange(from, to); err != nil {
		return nil, err
	}
	return listDaily[models.WaistEntry](ctx, s.db, userID, from, to)
}

func (s *BodyMetricService) DeleteWaist(ctx context.Context, userID, id uuid.UUID) error {
	return deleteEntry[models.WaistEntry](ctx, s.db, userID, id)
}

func validMeasurement(v float64) error {
	if !validNumber(v) || v <= 0 {
		return invalid("value", "must be greater than zero")
	}
	return nil
}

// upsertDaily inserts entry or, when the user already has one that day,
// overwrites its value. The stored row is read back because an update keeps
// the original id.
func upsertDaily[T any](ctx context.Context, db *gorm.DB, entry *T, userID uuid.UUID, day time.Time) (*T, error) {
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(entry).Error
	if err != nil {
		return nil, fmt.Errorf("failed to store entry: %w", err)
	}

	var stored T
	if err := db.WithContext(ctx).Where("user_id = ? AND date = ?", userID, datatypes.Date(day)).First(&stored).Error; err != nil {
		return nil, fmt.Errorf("failed to read entry: %w", err)
	}
	return &stored, nil
}

func listDaily[T any](ctx context.Context, db *gorm.DB, userID uuid.UUID, from, to time.Time) ([]T, error) {
	from, to = trends.Day(from), trends.Day(to)
	if from.After(to) {
		return nil, ErrInvalidRange
	}
	var entries []T
	err := db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, datatypes.Date(from), datatypes.Date(to)).
		Order("date").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, nil
}

func deleteEntry[T any](ctx context.Context, db *gorm.DB, userID, id uuid.UUID) error {
	result := db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(new(T))
	if result.Error != nil {
		return fmt.Errorf("failed to delete entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrEntryNotFound
	}
	return nil
}
