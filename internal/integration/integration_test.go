package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/nutrilog/backend/config"
	"github.com/pageza/nutrilog/backend/internal/server"
	"github.com/pageza/nutrilog/backend/internal/service"
	"github.com/pageza/nutrilog/backend/internal/testhelpers"
	"github.com/pageza/nutrilog/backend/internal/types"
)

type client struct {
	t       *testing.T
	handler http.Handler
	token   string
}

func (c *client) do(method, path string, body any, out any) int {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	if out != nil && w.Code < http.StatusBadRequest {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w.Code
}

// TestDiaryOnPostgres runs the catalog, recipe and diary flow against a real
// PostgreSQL database.
func TestDiaryOnPostgres(t *testing.T) {
	db := testhelpers.SetupPostgresDB(t)
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Environment:     config.Test,
		ServerHost:      "127.0.0.1",
		ServerPort:      "0",
		JWTSecret:       "integration-secret",
		TokenTTL:        time.Hour,
		RateLimit:       100,
		RateLimitWindow: time.Minute,
		ExportURLTTL:    time.Minute,
	}
	c := &client{t: t, handler: server.New(cfg, db, nil, nil).Handler()}

	var auth types.AuthResponse
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/auth/register", types.RegisterRequest{
		Name: "Integration", Email: "integration@example.com", Password: "password123",
	}, &auth))
	c.token = auth.Token

	var rice, chicken types.ProductResponse
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/products", types.ProductRequest{
		Name: "Rice", CaloriesPerBase: 130, ProteinsPerBase: 2.7, FatsPerBase: 0.3, CarbsPerBase: 28,
	}, &rice))
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/products", types.ProductRequest{
		Name: "Chicken", CaloriesPerBase: 165, ProteinsPerBase: 31, FatsPerBase: 3.6,
	}, &chicken))

	var bowl types.RecipeResponse
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/recipes", types.RecipeRequest{
		Name:     "Chicken rice bowl",
		Servings: 2,
		Steps: []types.RecipeStepRequest{
			{Instruction: "Cook the rice.", Ingredients: []types.IngredientRequest{{ProductID: &rice.ID, Amount: 300}}},
			{Instruction: "Grill the chicken.", Ingredients: []types.IngredientRequest{{ProductID: &chicken.ID, Amount: 200}}},
		},
	}, &bowl))
	assert.Equal(t, 720.0, bowl.Totals.Calories)
	assert.Equal(t, 360.0, bowl.PerServing.Calories)

	for _, day := range []string{"2024-05-01", "2024-05-02"} {
		require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/v1/consumptions", types.ConsumptionRequest{
			Date:     day,
			MealType: "dinner",
			Items:    []types.IngredientRequest{{RecipeID: &bowl.ID, Amount: 1}},
		}, nil))
	}

	// A catalog edit makes the cached totals stale until they are read again.
	require.Equal(t, http.StatusOK, c.do(http.MethodPut, "/api/v1/products/"+rice.ID.String(), types.ProductRequest{
		Name: "Rice", CaloriesPerBase: 150, ProteinsPerBase: 2.7, FatsPerBase: 0.3, CarbsPerBase: 28,
	}, nil))

	report, err := service.NewConsumptionService(db).RecalculateTotals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, service.RecalcReport{Checked: 2, Refreshed: 2}, report)

	var summary types.DailySummaryResponse
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/consumptions/summary?date=2024-05-01", nil, &summary))
	assert.Equal(t, 390.0, summary.Totals.Calories)

	var trend types.TrendResponse[types.IntakeBucketResponse]
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/statistics/intake?from=2024-05-01&to=2024-05-07&quantization=7", nil, &trend))
	require.Len(t, trend.Buckets, 1)
	assert.Equal(t, 780.0, trend.Buckets[0].Calories)
	assert.Equal(t, 2, trend.Buckets[0].Records)

	assert.Equal(t, http.StatusConflict, c.do(http.MethodDelete, "/api/v1/recipes/"+bowl.ID.String(), nil, nil))
}
