package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/nutrilog/backend/internal/api"
	"github.com/pageza/nutrilog/backend/internal/service"
	"github.com/pageza/nutrilog/backend/internal/storage"
	"github.com/pageza/nutrilog/backend/internal/testhelpers"
	"github.com/pageza/nutrilog/backend/internal/types"
)

type testAPI struct {
	router *gin.Engine
	db     *gorm.DB
}

// setupAPI wires every route over an in-memory database. A nil store
// disables exports.
func setupAPI(t *testing.T, store storage.ObjectStore) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDB(t)
	meals := service.NewConsumptionService(db)
	svc := api.Services{
		Auth:         service.NewAuthService(db, "test-secret", time.Hour),
		Products:     service.NewProductService(db),
		Recipes:      service.NewRecipeService(db),
		Consumptions: meals,
		BodyMetrics:  service.NewBodyMetricService(db),
		Statistics:   service.NewStatisticsService(db),
		Exports:      service.NewExportService(meals, store, 15*time.Minute),
	}

	router := gin.New()
	api.RegisterRoutes(router, db, svc, api.Limiters{})
	return &testAPI{router: router, db: db}
}

// do performs a request with an optional bearer token and JSON body.
func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		req = httptest.NewRequest(method, path, bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	a.router.ServeHTTP(w, req)
	return w
}

// register creates an account and returns its token.
func (a *testAPI) register(t *testing.T, email string) types.AuthResponse {
	t.Helper()
	w := a.do(http.MethodPost, "/api/v1/auth/register", "", types.RegisterRequest{
		Name:     "Tester",
		Email:    email,
		Password: "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[types.AuthResponse](t, w)
}

// createProduct posts a product measured per 100 g.
func (a *testAPI) createProduct(t *testing.T, token, name string, calories, proteins float64) types.ProductResponse {
	t.Helper()
	w := a.do(http.MethodPost, "/api/v1/products", token, types.ProductRequest{
		Name:            name,
		CaloriesPerBase: calories,
		ProteinsPerBase: proteins,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[types.ProductResponse](t, w)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]any](t, w)["error"].(string)
}
