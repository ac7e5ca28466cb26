package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/nutrilog/backend/internal/service"
	"github.com/pageza/nutrilog/backend/internal/trends"
	"github.com/pageza/nutrilog/backend/internal/types"
)

type StatisticsHandler struct {
	statisticsService service.IStatisticsService
}

func NewStatisticsHandler(statisticsService service.IStatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	stats := router.Group("/statistics")
	{
		stats.GET("/intake", h.Intake)
		stats.GET("/weight", h.Weight)
		stats.GET("/waist", h.Waist)
	}
}

func (h *StatisticsHandler) Intake(c *gin.Context) {
	trend(c, func(ctx context.Context, userID uuid.UUID, from, to time.Time, q int) ([]types.IntakeBucketResponse, error) {
		buckets, err := h.statisticsService.IntakeTrend(ctx, userID, from, to, q)
		return toIntakeBuckets(buckets), err
	})
}

func (h *StatisticsHandler) Weight(c *gin.Context) {
	trend(c, func(ctx context.Context, userID uuid.UUID, from, to time.Time, q int) ([]types.ValueBucketResponse, error) {
		buckets, err := h.statisticsService.WeightTrend(ctx, userID, from, to, q)
		return toValueBuckets(buckets), err
	})
}

func (h *StatisticsHandler) Waist(c *gin.Context) {
	trend(c, func(ctx context.Context, userID uuid.UUID, from, to time.Time, q int) ([]types.ValueBucketResponse, error) {
		buckets, err := h.statisticsService.WaistTrend(ctx, userID, from, to, q)
		return toValueBuckets(buckets), err
	})
}

// trend parses from, to and quantization (days, default 1) and writes the
// buckets returned by query.
func trend[B any](c *gin.Context, query func(ctx context.Context, userID uuid.UUID, from, to time.Time, q int) ([]B, error)) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	from, to, ok := dateRange(c)
	if !ok {
		return
	}
	q := 1
	if raw := c.Query("quantization"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, "quantization must be a whole number of days")
			return
		}
		q = n
	}
	q = trends.ClampQuantization(q)

	buckets, err := query(c.Request.Context(), userID, from, to, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.TrendResponse[B]{
		From:             types.FormatDate(from),
		To:               types.FormatDate(to),
		QuantizationDays: q,
		Buckets:          buckets,
	})
}
