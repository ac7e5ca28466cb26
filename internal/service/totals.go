package service

import (
	"github.com/pageza/nutrilog/backend/internal/models"
	"github.com/pageza/nutrilog/backend/internal/nutrition"
)

const recalcBatchSize = 100

// RecalcReport summarises a pass over cached totals.
type RecalcReport struct {
	Checked   int `json:"checked"`
	Refreshed int `json:"refreshed"`
	Failed    int `json:"failed"`
}

// staleTotals reports whether stored cached totals should be replaced by fresh.
// Only calories, proteins, fats and carbs are compared; a rewrite stores all
// six channels.
func staleTotals(stored models.NutrientValues, fresh nutrition.Totals) bool {
	return nutrition.NeedsRefresh(stored.Snapshot(), nutrition.SnapshotOf(fresh), nutrition.DefaultTolerance)
}

// totalsColumns is the update map for the total_* columns.
func totalsColumns(v models.NutrientValues) map[string]any {
	return map[string]any{
		"total_calories": v.Calories,
		"total_proteins": v.Proteins,
		"total_fats":     v.Fats,
		"total_carbs":    v.Carbs,
		"total_fiber":    v.Fiber,
		"total_alcohol":  v.Alcohol,
	}
}
