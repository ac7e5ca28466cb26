package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/nutrilog/backend/internal/metrics"
	"github.com/pageza/nutrilog/backend/internal/models"
	"github.com/pageza/nutrilog/backend/internal/nutrition"
	"github.com/pageza/nutrilog/backend/internal/trends"
	"github.com/pageza/nutrilog/backend/internal/types"
)

// DailySummary is the meals logged on one day and their combined totals.
type DailySummary struct {
	Date   time.Time
	Meals  []models.Consumption
	Totals nutrition.Totals
}

// ConsumptionService handles the food diary
type ConsumptionService struct {
	db      *gorm.DB
	catalog *CatalogLoader
}

// NewConsumptionService creates a new ConsumptionService instance
func NewConsumptionService(db *gorm.DB) *ConsumptionService {
	return &ConsumptionService{
		db:      db,
		catalog: NewCatalogLoader(db),
	}
}

// CreateConsumption logs a meal with computed totals
func (s *ConsumptionService) CreateConsumption(ctx context.Context, userID uuid.UUID, req *types.ConsumptionRequest) (*models.Consumption, error) {
	meal := &models.Consumption{UserID: userID}
	if err := applyConsumptionRequest(meal, req); err != nil {
		return nil, err
	}

	totals, err := s.catalog.CompositeTotals(ctx, userID, meal.Composite())
	if err != nil {
		return nil, err
	}
	meal.ApplyTotals(totals)

	if err := s.db.WithContext(ctx).Create(meal).Error; err != nil {
		return nil, fmt.Errorf("failed to create consumption: %w", err)
	}
	slog.Info("consumption logged", "consumption_id", meal.ID, "user_id", userID, "date", types.FormatDate(meal.Day()))
	return meal, nil
}

// GetConsumption returns one of the user's meals with fresh totals
func (s *ConsumptionService) GetConsumption(ctx context.Context, userID, id uuid.UUID) (*models.Consumption, error) {
	meal, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.refresh(ctx, meal); err != nil {
		slog.Warn("failed to refresh consumption totals", "consumption_id", id, "error", err)
	}
	return meal, nil
}

// UpdateConsumption replaces one of the user's meals
func (s *ConsumptionService) UpdateConsumption(ctx context.Context, userID, id uuid.UUID, req *types.ConsumptionRequest) (*models.Consumption, error) {
	meal, err := s.load(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := applyConsumptionRequest(meal, req); err != nil {
		return nil, err
	}

	totals, err := s.catalog.CompositeTotals(ctx, userID, meal.Composite())
	if err != nil {
		return nil, err
	}
	refreshed := staleTotals(meal.Totals, totals)
	if refreshed {
		meal.ApplyTotals(totals)
	}
	metrics.RecordTotalsCheck("consumption", refreshed)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("consumption_id = ?", meal.ID).Delete(&models.ConsumptionItem{}).Error; err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(meal).Error; err != nil {
			return err
		}
		if len(meal.Items) == 0 {
			return nil
		}
		for i := range meal.Items {
			meal.Items[i].ConsumptionID = meal.ID
		}
		return tx.Create(&meal.Items).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update consumption: %w", err)
	}
	return meal, nil
}

// DeleteConsumption deletes one of the user's meals
func (s *ConsumptionService) DeleteConsumption(ctx context.Context, userID, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&models.Consumption{}, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete consumption: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrConsumptionNotFound
	}
	return nil
}

// ListByDate returns the user's meals dated within [from, to], oldest first.
// The span is limited to MaxListDays.
func (s *ConsumptionService) ListByDate(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.Consumption, error) {
	if err := checkListRange(from, to); err != nil {
		return nil, err
	}
	return s.listFresh(ctx, userID, from, to)
}

// listFresh loads the meals within [from, to] and replaces stale cached
// totals before returning them.
func (s *ConsumptionService) listFresh(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.Consumption, error) {
	meals, err := s.list(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	for i := range meals {
		if _, err := s.refresh(ctx, &meals[i]); err != nil {
			slog.Warn("failed to refresh consumption totals", "consumption_id", meals[i].ID, "error", err)
		}
	}
	return meals, nil
}

// DailySummary returns the meals of one day and their sum
func (s *ConsumptionService) DailySummary(ctx context.Context, userID uuid.UUID, date time.Time) (*DailySummary, error) {
	day := trends.Day(date)
	meals, err := s.ListByDate(ctx, userID, day, day)
	if err != nil {
		return nil, err
	}
	summary := &DailySummary{Date: day, Meals: meals}
	for i := range meals {
		summary.Totals = summary.Totals.Add(meals[i].Totals.Totals())
	}
	return summary, nil
}

// RecalculateTotals checks the cached totals of every logged meal and
// rewrites the stale ones
func (s *ConsumptionService) RecalculateTotals(ctx context.Context) (RecalcReport, error) {
	var report RecalcReport
	var batch []models.Consumption
	err := preloadItems(s.db.WithContext(ctx)).FindInBatches(&batch, recalcBatchSize, func(tx *gorm.DB, _ int) error {
		for i := range batch {
			report.Checked++
			batch[i].SortItems()
			refreshed, err := s.refresh(ctx, &batch[i])
			if err != nil {
				report.Failed++
				slog.Warn("failed to recalculate consumption totals", "consumption_id", batch[i].ID, "error", err)
				continue
			}
			if refreshed {
				report.Refreshed++
			}
		}
		return nil
	}).Error
	if err != nil {
		return report, fmt.Errorf("failed to recalculate consumptions: %w", err)
	}
	slog.Info("consumption totals recalculated", "checked", report.Checked, "refreshed", report.Refreshed, "failed", report.Failed)
	return report, nil
}

// list loads the user's meals dated within [from, to] with their items.
func (s *ConsumptionService) list(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.Consumption, error) {
	from, to = trends.Day(from), trends.Day(to)
	if from.After(to) {
		return nil, ErrInvalidRange
	}
	var meals []models.Consumption
	err := preloadItems(s.db.WithContext(ctx)).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, datatypes.Date(from), datatypes.Date(to)).
		Order("date").Order("created_at").
		Find(&meals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list consumptions: %w", err)
	}
	for i := range meals {
		meals[i].SortItems()
	}
	return meals, nil
}

func (s *ConsumptionService) load(ctx context.Context, userID, id uuid.UUID) (*models.Consumption, error) {
	var meal models.Consumption
	if err := preloadItems(s.db.WithContext(ctx)).First(&meal, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, notFound(err, ErrConsumptionNotFound, "get consumption")
	}
	meal.SortItems()
	return &meal, nil
}

func (s *ConsumptionService) refresh(ctx context.Context, meal *models.Consumption) (bool, error) {
	fresh, err := s.catalog.CompositeTotals(ctx, meal.UserID, meal.Composite())
	if err != nil {
		return false, err
	}
	refreshed := staleTotals(meal.Totals, fresh)
	metrics.RecordTotalsCheck("consumption", refreshed)
	if !refreshed {
		return false, nil
	}

	meal.ApplyTotals(fresh)
	err = s.db.WithContext(ctx).Model(&models.Consumption{}).
		Where("id = ?", meal.ID).
		Updates(totalsColumns(meal.Totals)).Error
	if err != nil {
		return false, fmt.Errorf("failed to store consumption totals: %w", err)
	}
	return true, nil
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") })
}

func applyConsumptionRequest(c *models.Consumption, req *types.ConsumptionRequest) error {
	date, err := types.ParseDate(req.Date)
	if err != nil {
		return invalid("date", "%v", err)
	}
	mealType := strings.ToLower(strings.TrimSpace(req.MealType))
	if !models.ValidMealType(mealType) {
		return invalid("meal_type", "must be one of breakfast, lunch, dinner, snack, other")
	}

	items := make([]models.ConsumptionItem, 0, len(req.Items))
	for i, in := range req.Items {
		ref, err := parseIngredient(itemField("items", i), in)
		if err != nil {
			return err
		}
		items = append(items, models.ConsumptionItem{
			Position:  i,
			ProductID: ref.ProductID,
			RecipeID:  ref.RecipeID,
			Amount:    ref.Amount,
		})
	}

	auto := autoCalculated(req.IsNutritionAutoCalculated)
	manual, err := parseManual(req.Manual, !auto && len(items) == 0)
	if err != nil {
		return err
	}

	c.Date = datatypes.Date(date)
	c.MealType = mealType
	c.Comment = strings.TrimSpace(req.Comment)
	c.IsNutritionAutoCalculated = auto
	c.Manual = manual
	c.Items = items
	return nil
}
