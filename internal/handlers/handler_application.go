package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/SscSPs/refinance_review_app/internal/core/domain"
	portssvc "github.com/SscSPs/refinance_review_app/internal/core/ports/services"
	"github.com/SscSPs/refinance_review_app/internal/dto"
	"github.com/SscSPs/refinance_review_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// applicationHandler handles HTTP requests related to refinance applications.
type applicationHandler struct {
	applicationService portssvc.ApplicationSvcFacade
	transitionService  portssvc.TransitionSvc
	rejectionService   portssvc.RejectionSvc
}

// newApplicationHandler creates a new applicationHandler.
func newApplicationHandler(as portssvc.ApplicationSvcFacade, ts portssvc.TransitionSvc, rs portssvc.RejectionSvc) *applicationHandler {
	return &applicationHandler{
		applicationService: as,
		transitionService:  ts,
		rejectionService:   rs,
	}
}

// registerApplicationRoutes registers routes related to applications.
func registerApplicationRoutes(rg *gin.RouterGroup, as portssvc.ApplicationSvcFacade, ts portssvc.TransitionSvc, rs portssvc.RejectionSvc) {
	h := newApplicationHandler(as, ts, rs)

	applications := rg.Group("/applications")
	{
		applications.POST("", h.createApplication)
		applications.GET("", h.listApplications)
		applications.GET("/:applicationID", h.getApplication)
		applications.GET("/:applicationID/history", h.getHistory)
		applications.GET("/:applicationID/readiness", h.getReadiness)
		applications.POST("/:applicationID/documents", h.recordDocument)
		applications.PUT("/:applicationID/stages/:stageID/complete", h.completeStage)
		applications.PUT("/:applicationID/reject", h.rejectApplication)
	}
}

// createApplication godoc
// @Summary Open a new application
// @Description Creates an application at the KYC stage from intake data. Only applicant and vehicle fields are accepted.
// @Tags applications
// @Accept  json
// @Produce  json
// @Param   application body dto.CreateApplicationRequest true "Intake data"
// @Success 201 {object} dto.ApplicationResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 409 {object} dto.ErrorResponse "Form number already in use"
// @Failure 503 {object} dto.ErrorResponse "Store unavailable"
// @Security BearerAuth
// @Router /applications [post]
func (h *applicationHandler) createApplication(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}
	actor, ok := operatorID(c, logger)
	if !ok {
		return
	}

	app, err := h.applicationService.CreateApplication(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to create application")
		return
	}

	c.JSON(http.StatusCreated, dto.ToApplicationResponse(app))
}

// listApplications godoc
// @Summary List applications
// @Description Lists applications newest first, optionally filtered by stage or status label
// @Tags applications
// @Produce  json
// @Param   stage query string false "Stage ID"
// @Param   status query string false "Status label, e.g. Rejected"
// @Param   limit query int false "Page size" default(20) minimum(1) maximum(100)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListApplicationsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid filter or token"
// @Failure 503 {object} dto.ErrorResponse "Store unavailable"
// @Security BearerAuth
// @Router /applications [get]
func (h *applicationHandler) listApplications(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListApplicationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, err)
		return
	}

	var nextToken *string
	if params.NextToken != "" {
		nextToken = &params.NextToken
	}
	filter := domain.ApplicationFilter{Stage: domain.StageID(params.Stage), Status: params.Status}

	apps, next, err := h.applicationService.ListApplications(c.Request.Context(), filter, params.Limit, nextToken)
	if err != nil {
		respondError(c, logger, err, "Failed to list applications")
		return
	}

	c.JSON(http.StatusOK, dto.ToListApplicationsResponse(apps, next))
}

// getApplication godoc
// @Summary Get an application
// @Description Returns the latest committed snapshot of an application
// @Tags applications
// @Produce  json
// @Param   applicationID path string true "Application ID"
// @Success 200 {object} dto.ApplicationResponse
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Failure 503 {object} dto.ErrorResponse "Store unavailable"
// @Security BearerAuth
// @Router /applications/{applicationID} [get]
func (h *applicationHandler) getApplication(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("application_id", c.Param("applicationID")))

	app, err := h.applicationService.GetApplication(c.Request.Context(), c.Param("applicationID"))
	if err != nil {
		respondError(c, logger, err, "Failed to get application")
		return
	}

	c.JSON(http.StatusOK, dto.ToApplicationResponse(app))
}

// getHistory godoc
// @Summary Get the status timeline
// @Description Returns the ordered status history of an application
// @Tags applications
// @Produce  json
// @Param   applicationID path string true "Application ID"
// @Success 200 {object} dto.HistoryResponse
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Security BearerAuth
// @Router /applications/{applicationID}/history [get]
func (h *applicationHandler) getHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("application_id", c.Param("applicationID")))

	app, err := h.applicationService.GetHistory(c.Request.Context(), c.Param("applicationID"))
	if err != nil {
		respondError(c, logger, err, "Failed to get application history")
		return
	}

	c.JSON(http.StatusOK, dto.HistoryResponse{
		ApplicationID: app.ApplicationID,
		Status:        app.Status(),
		Entries:       dto.ToHistoryEntryResponses(app.StatusHistory),
	})
}

// getReadiness godoc
// @Summary Check stage preconditions
// @Description Evaluates which required documents and fields are still missing for a stage (the current stage by default)
// @Tags applications
// @Produce  json
// @Param   applicationID path string true "Application ID"
// @Param   stage query string false "Stage ID"
// @Success 200 {object} dto.ReadinessResponse
// @Failure 404 {object} dto.ErrorResponse "Application or stage not found"
// @Failure 409 {object} dto.ErrorResponse "Application already approved or rejected"
// @Security BearerAuth
// @Router /applications/{applicationID}/readiness [get]
func (h *applicationHandler) getReadiness(c *gin.Context) {
	applicationID := c.Param("applicationID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("application_id", applicationID))
	var params dto.ReadinessParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, err)
		return
	}

	eval, err := h.applicationService.CheckReadiness(c.Request.Context(), applicationID, domain.StageID(params.Stage))
	if err != nil {
		respondError(c, logger, err, "Failed to check readiness")
		return
	}

	c.JSON(http.StatusOK, dto.ToReadinessResponse(applicationID, eval))
}

// recordDocument godoc
// @Summary Record a document
// @Description Appends a resolved document reference. The stage does not move.
// @Tags applications
// @Accept  json
// @Produce  json
// @Param   applicationID path string true "Application ID"
// @Param   document body dto.RecordDocumentRequest true "Document reference"
// @Success 200 {object} dto.ApplicationResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Failure 409 {object} dto.ErrorResponse "Application terminal or modified concurrently"
// @Security BearerAuth
// @Router /applications/{applicationID}/documents [post]
func (h *applicationHandler) recordDocument(c *gin.Context) {
	applicationID := c.Param("applicationID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("application_id", applicationID))
	var req dto.RecordDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}
	actor, ok := operatorID(c, logger)
	if !ok {
		return
	}

	app, err := h.applicationService.RecordDocument(c.Request.Context(), applicationID, req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to record document")
		return
	}

	c.JSON(http.StatusOK, dto.ToApplicationResponse(app))
}

// completeStage godoc
// @Summary Complete a stage
// @Description Merges the stage payload, checks the stage preconditions and advances the application. Completing the final stage approves it.
// @Tags applications
// @Accept  json
// @Produce  json
// @Param   applicationID path string true "Application ID"
// @Param   stageID path string true "Stage being completed"
// @Param   payload body dto.CompleteStageRequest true "Stage payload"
// @Success 200 {object} dto.ApplicationResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid payload"
// @Failure 404 {object} dto.ErrorResponse "Application or stage not found"
// @Failure 409 {object} dto.ErrorResponse "Wrong stage, already terminal, or concurrent modification"
// @Failure 422 {object} dto.ErrorResponse "Preconditions not satisfied"
// @Failure 503 {object} dto.ErrorResponse "Store unavailable"
// @Security BearerAuth
// @Router /applications/{applicationID}/stages/{stageID}/complete [put]
func (h *applicationHandler) completeStage(c *gin.Context) {
	applicationID := c.Param("applicationID")
	stageID := c.Param("stageID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(
		slog.String("application_id", applicationID),
		slog.String("stage", stageID))
	var req dto.CompleteStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err)
		return
	}
	actor, ok := operatorID(c, logger)
	if !ok {
		return
	}

	result, err := h.transitionService.CompleteStage(c.Request.Context(), applicationID, domain.StageID(stageID), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to complete stage")
		return
	}

	c.JSON(http.StatusOK, dto.ToApplicationResponse(result.Application))
}

// rejectApplication godoc
// @Summary Reject an application
// @Description Rejects a non-terminal application. The current stage is kept for the record.
// @Tags applications
// @Accept  json
// @Produce  json
// @Param   applicationID path string true "Application ID"
// @Param   rejection body dto.RejectApplicationRequest true "Rejection reason"
// @Success 200 {object} dto.ApplicationResponse
// @Failure 400 {object} dto.ErrorResponse "Blank reason"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Failure 409 {object} dto.ErrorResponse "Already terminal or concurrent modification"
// @Security BearerAuth
// @Router /applications/{applicationID}/reject [put]
func (h *applicationHandler) rejectApplication(c *gin.Context) {
	applicationID := c.Param("applicationID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("application_id", applicationID))
	var req dto.RejectApplicationRequest
	// An empty body still reaches the service so terminal applications answer 409.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, logger, err)
		return
	}
	actor, ok := operatorID(c, logger)
	if !ok {
		return
	}

	result, err := h.rejectionService.Reject(c.Request.Context(), applicationID, req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to reject application")
		return
	}

	c.JSON(http.StatusOK, dto.ToApplicationResponse(result.Application))
}
