package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/nutrilog/backend/internal/service"
	"github.com/pageza/nutrilog/backend/internal/types"
)

// ConsumptionHandler serves the food diary.
type ConsumptionHandler struct {
	consumptionService service.IConsumptionService
	writes             gin.HandlerFunc
}

func NewConsumptionHandler(consumptionService service.IConsumptionService, writes gin.HandlerFunc) *ConsumptionHandler {
	return &ConsumptionHandler{
		consumptionService: consumptionService,
		writes:             writes,
	}
}

func (h *ConsumptionHandler) RegisterRoutes(router *gin.RouterGroup) {
	meals := router.Group("/consumptions")
	{
		meals.GET("", h.ListConsumptions)
		meals.GET("/summary", h.DailySummary)
		meals.GET("/:id", h.GetConsumption)
		meals.POST("", h.writes, h.CreateConsumption)
		meals.PUT("/:id", h.writes, h.UpdateConsumption)
		meals.DELETE("/:id", h.writes, h.DeleteConsumption)
	}
}

func (h *ConsumptionHandler) ListConsumptions(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	from, to, ok := dateRange(c)
	if !ok {
		return
	}

	meals, err := h.consumptionService.ListByDate(c.Request.Context(), userID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": mapAll(meals, toConsumptionResponse)})
}

func (h *ConsumptionHandler) DailySummary(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	date, ok := dateParam(c, "date")
	if !ok {
		return
	}

	summary, err := h.consumptionService.DailySummary(c.Request.Context(), userID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSummaryResponse(summary))
}

func (h *ConsumptionHandler) GetConsumption(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	meal, err := h.consumptionService.GetConsumption(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toConsumptionResponse(meal))
}

func (h *ConsumptionHandler) CreateConsumption(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.ConsumptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	meal, err := h.consumptionService.CreateConsumption(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toConsumptionResponse(meal))
}

func (h *ConsumptionHandler) UpdateConsumption(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req types.ConsumptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	meal, err := h.consumptionService.UpdateConsumption(c.Request.Context(), userID, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toConsumptionResponse(meal))
}

func (h *ConsumptionHandler) DeleteConsumption(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.consumptionService.DeleteConsumption(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
