package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/BarkinBalci/event-dataset-generator/docs"
	"github.com/BarkinBalci/event-dataset-generator/internal/domain"
	"github.com/BarkinBalci/event-dataset-generator/internal/dto"
	"github.com/BarkinBalci/event-dataset-generator/internal/service"
)

type Handler struct {
	generatorService service.GeneratorServicer
	router           *gin.Engine
	log              *zap.Logger
}

func NewHandler(generatorService service.GeneratorServicer, log *zap.Logger) *Handler {
	h := &Handler{
		generatorService: generatorService,
		router:           gin.Default(),
		log:              log,
	}

	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/health", h.healthCheck)
	h.router.POST("/generator/create", h.createGeneration)
	h.router.GET("/generator/progress", h.getProgress)
	h.router.POST("/generator/cancel", h.cancelGeneration)
	h.router.GET("/dataset/versions", h.listVersions)
	h.router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// healthCheck handles health check requests
// @Summary Health check
// @Description Check if the service is running and its base profile loads
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} dto.ErrorResponse
// @Router /health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	if err := h.generatorService.Health(c.Request.Context()); err != nil {
		h.log.Warn("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{
			Error:   "unhealthy",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// createGeneration handles POST /generator/create
// @Summary Start a generation run
// @Description Validate the overrides against the base profile and start a background generation
// @Tags generator
// @Accept json
// @Produce json
// @Param request body dto.CreateGenerationRequest false "Profile overrides"
// @Success 202 {object} dto.CreateGenerationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /generator/create [post]
func (h *Handler) createGeneration(c *gin.Context) {
	var req dto.CreateGenerationRequest

	// an empty body runs the base profile unchanged
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.log.Warn("Invalid generation request", zap.Error(err))
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "validation_error",
				Message: err.Error(),
			})
			return
		}
	}

	resp, err := h.generatorService.StartGeneration(&req)
	if err != nil {
		h.writeError(c, "Failed to start generation", err)
		return
	}

	h.log.Info("Generation accepted", zap.String("job_id", resp.JobID))

	c.JSON(http.StatusAccepted, resp)
}

// getProgress handles GET /generator/progress
// @Summary Generation progress
// @Description Status and percentage of the latest generation run
// @Tags generator
// @Produce json
// @Success 200 {object} dto.ProgressResponse
// @Router /generator/progress [get]
func (h *Handler) getProgress(c *gin.Context) {
	c.JSON(http.StatusOK, h.generatorService.Progress())
}

// cancelGeneration handles POST /generator/cancel
// @Summary Cancel the running generation
// @Description Cancel the running job; the live tables keep their previous contents
// @Tags generator
// @Produce json
// @Success 202 {object} map[string]string
// @Failure 409 {object} dto.ErrorResponse
// @Router /generator/cancel [post]
func (h *Handler) cancelGeneration(c *gin.Context) {
	if err := h.generatorService.Cancel(); err != nil {
		h.writeError(c, "Failed to cancel generation", err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"status": "cancelling",
	})
}

// listVersions handles GET /dataset/versions
// @Summary List dataset versions
// @Description Lineage records of one sink, newest first
// @Tags dataset
// @Produce json
// @Param sink query string false "Sink to read (defaults to the first profile sink)" Enums(clickhouse, postgres, mysql, sqlite, memory)
// @Param limit query int false "Maximum number of versions" example:"20"
// @Success 200 {object} dto.ListVersionsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /dataset/versions [get]
func (h *Handler) listVersions(c *gin.Context) {
	var req dto.ListVersionsRequest

	if err := c.ShouldBindQuery(&req); err != nil {
		h.log.Warn("Invalid versions request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	resp, err := h.generatorService.ListVersions(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, "Failed to list dataset versions", err, zap.String("sink", req.Sink))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// writeError maps service errors onto status codes
func (h *Handler) writeError(c *gin.Context, msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))

	var cfgErr *domain.ConfigError
	switch {
	case errors.As(err, &cfgErr):
		h.log.Warn(msg, fields...)
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
			Details: cfgErr.Problems,
		})
	case errors.Is(err, domain.ErrJobRunning):
		h.log.Warn(msg, fields...)
		c.JSON(http.StatusConflict, dto.ErrorResponse{
			Error:   "job_running",
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrNoActiveJob):
		c.JSON(http.StatusConflict, dto.ErrorResponse{
			Error:   "no_active_job",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrSinkUnavailable):
		h.log.Error(msg, fields...)
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{
			Error:   "sink_unavailable",
			Message: err.Error(),
		})
	default:
		h.log.Error(msg, fields...)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
	}
}
