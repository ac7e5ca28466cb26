package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/nutrilog/backend/internal/service"
	"github.com/pageza/nutrilog/backend/internal/types"
)

// BodyMetricHandler serves the weight and waist logs. Both share one shape:
// a single value per day.
type BodyMetricHandler struct {
	bodyMetricService service.IBodyMetricService
	writes            gin.HandlerFunc
}

func NewBodyMetricHandler(bodyMetricService service.IBodyMetricService, writes gin.HandlerFunc) *BodyMetricHandler {
	return &BodyMetricHandler{
		bodyMetricService: bodyMetricService,
		writes:            writes,
	}
}

// metricLog binds one log's operations to the shared handlers.
type metricLog struct {
	log    func(ctx context.Context, userID uuid.UUID, date time.Time, value float64) (types.BodyMetricResponse, error)
	list   func(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]types.BodyMetricResponse, error)
	delete func(ctx context.Context, userID, id uuid.UUID) error
}

func (h *BodyMetricHandler) RegisterRoutes(router *gin.RouterGroup) {
	s := h.bodyMetricService
	h.register(router.Group("/weight"), metricLog{
		log: func(ctx context.Context, userID uuid.UUID, date time.Time, v float64) (types.BodyMetricResponse, error) {
			e, err := s.LogWeight(ctx, userID, date, v)
			if err != nil {
				return types.BodyMetricResponse{}, err
			}
			return weightResponse(e), nil
		},
		list: func(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]types.BodyMetricResponse, error) {
			entries, err := s.ListWeight(ctx, userID, from, to)
			return mapAll(entries, weightResponse), err
		},
		delete: s.DeleteWeight,
	})
	h.register(router.Group("/waist"), metricLog{
		log: func(ctx context.Context, userID uuid.UUID, date time.Time, v float64) (types.BodyMetricResponse, error) {
			e, err := s.LogWaist(ctx, userID, date, v)
			if err != nil {
				return types.BodyMetricResponse{}, err
			}
			return waistResponse(e), nil
		},
		list: func(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]types.BodyMetricResponse, error) {
			entries, err := s.ListWaist(ctx, userID, from, to)
			return mapAll(entries, waistResponse), err
		},
		delete: s.DeleteWaist,
	})
}

func (h *BodyMetricHandler) register(group *gin.RouterGroup, m metricLog) {
	group.GET("", listEntries(m))
	group.POST("", h.writes, logEntry(m))
	group.DELETE("/:id", h.writes, deleteEntry(m))
}

func listEntries(m metricLog) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		from, to, ok := dateRange(c)
		if !ok {
			return
		}

		entries, err := m.list(c.Request.Context(), userID, from, to)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": entries})
	}
}

func logEntry(m metricLog) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var req types.BodyMetricRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body: "+err.Error())
			return
		}
		date, err := types.ParseDate(req.Date)
		if err != nil {
			badRequest(c, "date: "+err.Error())
			return
		}

		entry, err := m.log(c.Request.Context(), userID, date, req.Value)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, entry)
	}
}

func deleteEntry(m metricLog) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := pathID(c)
		if !ok {
			return
		}

		if err := m.delete(c.Request.Context(), userID, id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
