package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/nutrilog/backend/internal/metrics"
	"github.com/pageza/nutrilog/backend/internal/models"
	"github.com/pageza/nutrilog/backend/internal/types"
)

// RecipeService handles recipe operations
type RecipeService struct {
	db      *gorm.DB
	catalog *CatalogLoader
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{
		db:      db,
		catalog: NewCatalogLoader(db),
	}
}

// CreateRecipe validates the recipe's references, computes its totals and
// stores it
func (s *RecipeService) CreateRecipe(ctx context.Context, userID uuid.UUID, req *types.RecipeRequest) (*models.Recipe, error) {
	recipe := &models.Recipe{ID: uuid.New(), UserID: userID}
	if err := applyRecipeRequest(recipe, req); err != nil {
		return nil, err
	}

	totals, err := s.catalog.RecipeTotals(ctx, recipe)
	if err != nil {
		return nil, err
	}
	recipe.ApplyTotals(totals)

	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	slog.Info("recipe created", "recipe_id", recipe.ID, "user_id", userID)
	return recipe, nil
}

// GetRecipe returns a visible recipe with fresh totals
func (s *RecipeService) GetRecipe(ctx context.Context, userID, id uuid.UUID) (*models.Recipe, error) {
	recipe, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !recipe.VisibleTo(userID) {
		return nil, ErrRecipeNotFound
	}
	if _, err := s.refresh(ctx, recipe); err != nil {
		slog.Warn("failed to refresh recipe totals", "recipe_id", id, "error", err)
	}
	return recipe, nil
}

// UpdateRecipe replaces a recipe owned by the user. Cached totals are only
// rewritten when they drifted from the recomputed values.
func (s *RecipeService) UpdateRecipe(ctx context.Context, userID, id uuid.UUID, req *types.RecipeRequest) (*models.Recipe, error) {
	recipe, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe.UserID != userID {
		return nil, ErrRecipeNotFound
	}
	if err := applyRecipeRequest(recipe, req); err != nil {
		return nil, err
	}

	totals, err := s.catalog.RecipeTotals(ctx, recipe)
	if err != nil {
		return nil, err
	}
	refreshed := staleTotals(recipe.Totals, totals)
	if refreshed {
		recipe.ApplyTotals(totals)
	}
	metrics.RecordTotalsCheck("recipe", refreshed)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteSteps(tx, recipe.ID); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(recipe).Error; err != nil {
			return err
		}
		if len(recipe.Steps) == 0 {
			return nil
		}
		for i := range recipe.Steps {
			recipe.Steps[i].RecipeID = recipe.ID
		}
		return tx.Create(&recipe.Steps).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}
	return recipe, nil
}

// DeleteRecipe deletes a recipe owned by the user unless another recipe or
// a logged meal uses it
func (s *RecipeService) DeleteRecipe(ctx context.Context, userID, id uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return notFound(err, ErrRecipeNotFound, "get recipe")
	}
	used, err := isReferenced(ctx, s.db, "nested_recipe_id", "recipe_id", id)
	if err != nil {
		return err
	}
	if used {
		return fmt.Errorf("%w: recipe is used by other recipes or meals", ErrConflict)
	}
	if err := s.db.WithContext(ctx).Delete(&recipe).Error; err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	return nil
}

// ListRecipes lists the user's and shared recipes with their cached totals
func (s *RecipeService) ListRecipes(ctx context.Context, userID uuid.UUID, q types.ListQuery) ([]models.Recipe, int64, error) {
	q.Normalize()
	query := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("(user_id = ? OR is_shared = ?)", userID, true)
	if q.Search != "" {
		like := "%" + strings.ToLower(q.Search) + "%"
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", like, like)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	var recipes []models.Recipe
	if err := query.Order("name").Order("id").Offset(q.Offset()).Limit(q.PageSize).Find(&recipes).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, total, nil
}

// RecalculateTotals checks the cached totals of every recipe and rewrites the
// stale ones. Recipes that can no longer be resolved are counted as failed.
func (s *RecipeService) RecalculateTotals(ctx context.Context) (RecalcReport, error) {
	var report RecalcReport
	var batch []models.Recipe
	err := preloadSteps(s.db.WithContext(ctx)).FindInBatches(&batch, recalcBatchSize, func(tx *gorm.DB, _ int) error {
		for i := range batch {
			report.Checked++
			batch[i].SortSteps()
			refreshed, err := s.refresh(ctx, &batch[i])
			if err != nil {
				report.Failed++
				slog.Warn("failed to recalculate recipe totals", "recipe_id", batch[i].ID, "error", err)
				continue
			}
			if refreshed {
				report.Refreshed++
			}
		}
		return nil
	}).Error
	if err != nil {
		return report, fmt.Errorf("failed to recalculate recipes: %w", err)
	}
	slog.Info("recipe totals recalculated", "checked", report.Checked, "refreshed", report.Refreshed, "failed", report.Failed)
	return report, nil
}

func (s *RecipeService) load(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := preloadSteps(s.db.WithContext(ctx)).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, notFound(err, ErrRecipeNotFound, "get recipe")
	}
	recipe.SortSteps()
	return &recipe, nil
}

// refresh recomputes the totals of a loaded recipe and persists them if the
// cached ones are stale.
func (s *RecipeService) refresh(ctx context.Context, recipe *models.Recipe) (bool, error) {
	fresh, err := s.catalog.RecipeTotals(ctx, recipe)
	if err != nil {
		return false, err
	}
	refreshed := staleTotals(recipe.Totals, fresh)
	metrics.RecordTotalsCheck("recipe", refreshed)
	if !refreshed {
		return false, nil
	}

	recipe.ApplyTotals(fresh)
	err = s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("id = ?", recipe.ID).
		Updates(totalsColumns(recipe.Totals)).Error
	if err != nil {
		return false, fmt.Errorf("failed to store recipe totals: %w", err)
	}
	return true, nil
}

func deleteSteps(tx *gorm.DB, recipeID uuid.UUID) error {
	steps := tx.Model(&models.RecipeStep{}).Select("id").Where("recipe_id = ?", recipeID)
	if err := tx.Where("step_id IN (?)", steps).Delete(&models.RecipeIngredient{}).Error; err != nil {
		return err
	}
	return tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeStep{}).Error
}

func applyRecipeRequest(r *models.Recipe, req *types.RecipeRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return invalid("name", "is required")
	}
	servings := req.Servings
	if servings == 0 {
		servings = 1
	}
	if !validNumber(servings) || servings < 0 {
		return invalid("servings", "must be greater than zero")
	}

	steps := make([]models.RecipeStep, 0, len(req.Steps))
	ingredients := 0
	for i, st := range req.Steps {
		step := models.RecipeStep{Position: i, Instruction: strings.TrimSpace(st.Instruction)}
		for j, in := range st.Ingredients {
			ref, err := parseIngredient(itemField("steps", i)+itemField(".ingredients", j), in)
			if err != nil {
				return err
			}
			step.Ingredients = append(step.Ingredients, models.RecipeIngredient{
				Position:       j,
				ProductID:      ref.ProductID,
				NestedRecipeID: ref.RecipeID,
				Amount:         ref.Amount,
			})
			ingredients++
		}
		steps = append(steps, step)
	}

	auto := autoCalculated(req.IsNutritionAutoCalculated)
	manual, err := parseManual(req.Manual, !auto && ingredients == 0)
	if err != nil {
		return err
	}

	r.Name = name
	r.Description = strings.TrimSpace(req.Description)
	r.Servings = servings
	r.IsShared = req.IsShared
	r.IsNutritionAutoCalculated = auto
	r.Manual = manual
	r.Steps = steps
	return nil
}
