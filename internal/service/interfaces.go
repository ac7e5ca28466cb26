package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/nutrilog/backend/internal/models"
	"github.com/pageza/nutrilog/backend/internal/trends"
	"github.com/pageza/nutrilog/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*types.AuthResponse, error)
	Login(ctx context.Context, req *types.LoginRequest) (*types.AuthResponse, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	GenerateToken(user *models.User) (string, time.Time, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// IProductService defines the interface for product catalog operations
type IProductService interface {
	CreateProduct(ctx context.Context, userID uuid.UUID, req *types.ProductRequest) (*models.Product, error)
	GetProduct(ctx context.Context, userID, id uuid.UUID) (*models.Product, error)
	UpdateProduct(ctx context.Context, userID, id uuid.UUID, req *types.ProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, userID, id uuid.UUID) error
	ListProducts(ctx context.Context, userID uuid.UUID, q types.ListQuery) ([]models.Product, int64, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, userID uuid.UUID, req *types.RecipeRequest) (*models.Recipe, error)
	GetRecipe(ctx context.Context, userID, id uuid.UUID) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, userID, id uuid.UUID, req *types.RecipeRequest) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, userID, id uuid.UUID) error
	ListRecipes(ctx context.Context, userID uuid.UUID, q types.ListQuery) ([]models.Recipe, int64, error)
	RecalculateTotals(ctx context.Context) (RecalcReport, error)
}

// IConsumptionService defines the interface for food diary operations
type IConsumptionService interface {
	CreateConsumption(ctx context.Context, userID uuid.UUID, req *types.ConsumptionRequest) (*models.Consumption, error)
	GetConsumption(ctx context.Context, userID, id uuid.UUID) (*models.Consumption, error)
	UpdateConsumption(ctx context.Context, userID, id uuid.UUID, req *types.ConsumptionRequest) (*models.Consumption, error)
	DeleteConsumption(ctx context.Context, userID, id uuid.UUID) error
	ListByDate(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.Consumption, error)
	DailySummary(ctx context.Context, userID uuid.UUID, date time.Time) (*DailySummary, error)
	RecalculateTotals(ctx context.Context) (RecalcReport, error)
}

// IBodyMetricService defines the interface for weight and waist tracking
type IBodyMetricService interface {
	LogWeight(ctx context.Context, userID uuid.UUID, date time.Time, kg float64) (*models.WeightEntry, error)
	ListWeight(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.WeightEntry, error)
	DeleteWeight(ctx context.Context, userID, id uuid.UUID) error
	LogWaist(ctx context.Context, userID uuid.UUID, date time.Time, cm float64) (*models.WaistEntry, error)
	ListWaist(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.WaistEntry, error)
	DeleteWaist(ctx context.Context, userID, id uuid.UUID) error
}

// IStatisticsService defines the interface for trend queries
type IStatisticsService interface {
	IntakeTrend(ctx context.Context, userID uuid.UUID, from, to time.Time, quantizationDays int) ([]trends.IntakeSummary, error)
	WeightTrend(ctx context.Context, userID uuid.UUID, from, to time.Time, quantizationDays int) ([]trends.ValueSummary, error)
	WaistTrend(ctx context.Context, userID uuid.UUID, from, to time.Time, quantizationDays int) ([]trends.ValueSummary, error)
}

// IExportService defines the interface for diary exports
type IExportService interface {
	ExportDiary(ctx context.Context, userID uuid.UUID, from, to time.Time) (*types.ExportResponse, error)
}

var (
	_ IAuthService        = (*AuthService)(nil)
	_ IProductService     = (*ProductService)(nil)
	_ IRecipeService      = (*RecipeService)(nil)
	_ IConsumptionService = (*ConsumptionService)(nil)
	_ IBodyMetricService  = (*BodyMetricService)(nil)
	_ IStatisticsService  = (*StatisticsService)(nil)
	_ IExportService      = (*ExportService)(nil)
)
