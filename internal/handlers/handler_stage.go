package handlers

import (
	"net/http"

	"github.com/SscSPs/refinance_review_app/internal/core/domain"
	portssvc "github.com/SscSPs/refinance_review_app/internal/core/ports/services"
	"github.com/SscSPs/refinance_review_app/internal/dto"
	"github.com/SscSPs/refinance_review_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type stageHandler struct {
	stageService portssvc.StageRegistrySvc
}

func registerStageRoutes(rg *gin.RouterGroup, ss portssvc.StageRegistrySvc) {
	h := &stageHandler{stageService: ss}

	stages := rg.Group("/stages")
	{
		stages.GET("", h.listStages)
		stages.GET("/:stageID", h.getStage)
	}
}

// listStages godoc
// @Summary List review stages
// @Description Returns the stage pipeline in order with the requirements of each stage
// @Tags stages
// @Produce  json
// @Success 200 {array} dto.StageResponse
// @Security BearerAuth
// @Router /stages [get]
func (h *stageHandler) listStages(c *gin.Context) {
	defs := h.stageService.ListStages(c.Request.Context())
	res := make([]dto.StageResponse, len(defs))
	for i, def := range defs {
		res[i] = dto.ToStageResponse(def)
	}
	c.JSON(http.StatusOK, res)
}

// getStage godoc
// @Summary Get a review stage
// @Tags stages
// @Produce  json
// @Param   stageID path string true "Stage ID"
// @Success 200 {object} dto.StageResponse
// @Failure 404 {object} dto.ErrorResponse "Stage not found"
// @Security BearerAuth
// @Router /stages/{stageID} [get]
func (h *stageHandler) getStage(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	def, err := h.stageService.GetStage(c.Request.Context(), domain.StageID(c.Param("stageID")))
	if err != nil {
		respondError(c, logger, err, "Failed to get stage")
		return
	}
	c.JSON(http.StatusOK, dto.ToStageResponse(def))
}
