package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/nutrilog/backend/internal/service"
	"github.com/pageza/nutrilog/backend/internal/types"
)

type ExportHandler struct {
	exportService service.IExportService
	writes        gin.HandlerFunc
}

func NewExportHandler(exportService service.IExportService, writes gin.HandlerFunc) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
		writes:        writes,
	}
}

func (h *ExportHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/exports", h.writes, h.ExportDiary)
}

// ExportDiary uploads the diary for a date range and returns a download link.
func (h *ExportHandler) ExportDiary(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	from, err := types.ParseDate(req.From)
	if err != nil {
		badRequest(c, "from: "+err.Error())
		return
	}
	to, err := types.ParseDate(req.To)
	if err != nil {
		badRequest(c, "to: "+err.Error())
		return
	}

	res, err := h.exportService.ExportDiary(c.Request.Context(), userID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	slog.Info("diary exported", "user_id", userID, "key", res.Key)
	c.JSON(http.StatusCreated, res)
}
