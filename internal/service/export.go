package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/nutrilog/backend/internal/nutrition"
	"github.com/pageza/nutrilog/backend/internal/storage"
	"github.com/pageza/nutrilog/backend/internal/trends"
	"github.com/pageza/nutrilog/backend/internal/types"
)

const exportContentType = "application/json"

// DiaryExport is the document written by ExportService.
type DiaryExport struct {
	UserID      uuid.UUID               `json:"user_id"`
	From        string                  `json:"from"`
	To          string                  `json:"to"`
	GeneratedAt time.Time               `json:"generated_at"`
	Days        []DiaryExportDay        `json:"days"`
	Totals      types.NutrientsResponse `json:"totals"`
}

type DiaryExportDay struct {
	Date   string                  `json:"date"`
	Meals  []DiaryExportMeal       `json:"meals"`
	Totals types.NutrientsResponse `json:"totals"`
}

type DiaryExportMeal struct {
	ID       uuid.UUID               `json:"id"`
	MealType string                  `json:"meal_type"`
	Comment  string                  `json:"comment,omitempty"`
	Totals   types.NutrientsResponse `json:"totals"`
}

// ExportService writes diary exports to object storage
type ExportService struct {
	meals *ConsumptionService
	store storage.ObjectStore
	ttl   time.Duration
	now   func() time.Time
}

// NewExportService creates a new ExportService. A nil store disables exports.
func NewExportService(meals *ConsumptionService, store storage.ObjectStore, ttl time.Duration) *ExportService {
	return &ExportService{
		meals: meals,
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

// ExportDiary uploads the user's meals within [from, to] as JSON and returns
// a presigned download link.
func (s *ExportService) ExportDiary(ctx context.Context, userID uuid.UUID, from, to time.Time) (*types.ExportResponse, error) {
	if s.store == nil {
		return nil, ErrExportsDisabled
	}
	meals, err := s.meals.ListByDate(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	doc := DiaryExport{
		UserID:      userID,
		From:        types.FormatDate(trends.Day(from)),
		To:          types.FormatDate(trends.Day(to)),
		GeneratedAt: now,
		Days:        []DiaryExportDay{},
	}
	var grand, dayTotals nutrition.Totals
	for i := range meals {
		date := types.FormatDate(meals[i].Day())
		if n := len(doc.Days); n == 0 || doc.Days[n-1].Date != date {
			if n > 0 {
				doc.Days[n-1].Totals = types.NutrientsOf(dayTotals)
			}
			doc.Days = append(doc.Days, DiaryExportDay{Date: date})
			dayTotals = nutrition.Totals{}
		}
		totals := meals[i].Totals.Totals()
		day := &doc.Days[len(doc.Days)-1]
		day.Meals = append(day.Meals, DiaryExportMeal{
			ID:       meals[i].ID,
			MealType: meals[i].MealType,
			Comment:  meals[i].Comment,
			Totals:   types.NutrientsOf(totals),
		})
		dayTotals = dayTotals.Add(totals)
		grand = grand.Add(totals)
	}
	if n := len(doc.Days); n > 0 {
		doc.Days[n-1].Totals = types.NutrientsOf(dayTotals)
	}
	doc.Totals = types.NutrientsOf(grand)

	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}

	key := exportKey(userID, doc.From, doc.To, now)
	if err := s.store.Put(ctx, key, exportContentType, body); err != nil {
		return nil, err
	}
	url, err := s.store.PresignGet(ctx, key, s.ttl)
	if err != nil {
		return nil, err
	}

	slog.Info("diary exported", "user_id", userID, "key", key, "meals", len(meals))
	return &types.ExportResponse{
		Key:       key,
		URL:       url,
		ExpiresAt: now.Add(s.ttl),
	}, nil
}

func exportKey(userID uuid.UUID, from, to string, at time.Time) string {
	return fmt.Sprintf("exports/%s/%s_%s_%d.json", userID, from, to, at.Unix())
}
