package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"arc-framework/seeder/internal/models"
	"arc-framework/seeder/internal/orchestrator"
	"arc-framework/seeder/internal/seeding"
)

// orchestratorService is the subset of *orchestrator.Orchestrator used by the
// HTTP handlers. Declaring it as an interface allows test doubles to be injected.
type orchestratorService interface {
	RunBootstrap(ctx context.Context) (*orchestrator.BootstrapResult, error)
	RunDeepHealth(ctx context.Context) map[string]orchestrator.ProbeResult
	IsReady() bool
	IsBootstrapInProgress() bool
}

// seedingService is the subset of *seeding.Service used by the HTTP handlers.
type seedingService interface {
	GetUsers(ctx context.Context) ([]models.User, error)
	CreateSuperAdmin(ctx context.Context, req seeding.CreateAdminRequest) (*seeding.CreateAdminResponse, error)
}

// UsersResponse is the body of GET /api/v1/seed/users.
type UsersResponse struct {
	Status  int           `json:"status" example:"200"`
	Message string        `json:"message" example:"Users fetched successfully"`
	Data    []models.User `json:"data"`
}

// Handler holds the dependencies shared across all HTTP handlers.
type Handler struct {
	orchestrator orchestratorService
	seeder       seedingService
	// seedTimeout bounds a bootstrap started over HTTP; zero means no bound.
	seedTimeout time.Duration
}

// Seed handles POST /api/v1/seed.
//
//	@Summary		Run bootstrap and seeding
//	@Description	Starts a bootstrap run in the background. Returns 409 while one is already running.
//	@Tags			seed
//	@Produce		json
//	@Success		202	{object}	map[string]string
//	@Failure		409	{object}	map[string]string
//	@Router			/api/v1/seed [post]
func (h *Handler) Seed(c *gin.Context) {
	if h.orchestrator.IsBootstrapInProgress() {
		c.JSON(http.StatusConflict, gin.H{"status": "in-progress"})
		return
	}
	ctx := context.WithoutCancel(c.Request.Context())
	cancel := func() {}
	if h.seedTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, h.seedTimeout)
	}
	go func() {
		defer cancel()
		if _, err := h.orchestrator.RunBootstrap(ctx); err != nil {
			slog.WarnContext(ctx, "bootstrap not started", "error", err)
		}
	}()
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

// Users handles GET /api/v1/seed/users.
//
//	@Summary	List users
//	@Tags		seed
//	@Produce	json
//	@Success	200	{object}	UsersResponse
//	@Failure	400	{object}	ErrorResponse
//	@Router		/api/v1/seed/users [get]
func (h *Handler) Users(c *gin.Context) {
	users, err := h.seeder.GetUsers(c.Request.Context())
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, UsersResponse{
		Status:  http.StatusOK,
		Message: "Users fetched successfully",
		Data:    users,
	})
}

// CreateSuperAdmin handles POST /api/v1/seed/super-admin.
//
//	@Summary		Create a super-admin
//	@Description	Creates a super-admin account when the request carries the shared admin secret.
//	@Tags			seed
//	@Accept			json
//	@Produce		json
//	@Param			body	body		seeding.CreateAdminRequest	true	"Admin details"
//	@Success		201		{object}	seeding.CreateAdminResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/api/v1/seed/super-admin [post]
func (h *Handler) CreateSuperAdmin(c *gin.Context) {
	var req seeding.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}

	resp, err := h.seeder.CreateSuperAdmin(c.Request.Context(), req)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Health handles GET /health.
// It always returns 200; this is the liveness probe.
//
//	@Summary	Liveness probe
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Router		/health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"mode":   "shallow",
	})
}

// DeepHealth handles GET /health/deep.
// It returns 200 only when every configured dependency is reachable and the
// seeded tables are populated.
//
//	@Summary	Deep health probe
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	map[string]any
//	@Failure	503	{object}	map[string]any
//	@Router		/health/deep [get]
func (h *Handler) DeepHealth(c *gin.Context) {
	probes := h.orchestrator.RunDeepHealth(c.Request.Context())

	allOK := true
	for _, p := range probes {
		if !p.OK {
			allOK = false
			break
		}
	}

	status := "healthy"
	code := http.StatusOK
	if !allOK {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":       status,
		"dependencies": probes,
	})
}

// Ready handles GET /ready.
// It returns 200 only after a successful bootstrap; 503 otherwise.
//
//	@Summary	Readiness probe
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	map[string]bool
//	@Failure	503	{object}	map[string]bool
//	@Router		/ready [get]
func (h *Handler) Ready(c *gin.Context) {
	if h.orchestrator.IsReady() {
		c.JSON(http.StatusOK, gin.H{"ready": true})
		return
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{"ready": false})
}
