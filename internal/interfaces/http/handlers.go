package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/univance/kpi-workflow/internal/application/service"
	appwf "github.com/univance/kpi-workflow/internal/application/workflow"
	domainwf "github.com/univance/kpi-workflow/internal/domain/workflow"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	engine         appwf.Engine
	requestService service.RequestService
	kpiService     service.KpiService
	logger         Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	engine appwf.Engine,
	requestService service.RequestService,
	kpiService service.KpiService,
	logger Logger,
) *Handlers {
	return &Handlers{
		engine:         engine,
		requestService: requestService,
		kpiService:     kpiService,
		logger:         logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// TransitionRequest is the body of POST /api/requests/:id/transitions
type TransitionRequest struct {
	Action    string `json:"action" binding:"required"`
	ActorID   string `json:"actor_id" binding:"required"`
	ActorRole string `json:"actor_role" binding:"required"`
	Comment   string `json:"comment"`
}

// TransitionResponse carries the updated request and the new history record
type TransitionResponse struct {
	Request interface{} `json:"request"`
	History interface{} `json:"history"`
}

// CreateOrganizationRequest is the body of POST /api/organizations
type CreateOrganizationRequest struct {
	Name     string `json:"name" binding:"required"`
	Type     string `json:"type" binding:"required"`
	ParentID string `json:"parent_id"`
}

// CreateKpiRequest is the body of POST /api/organizations/:id/kpis
type CreateKpiRequest struct {
	Name              string  `json:"name" binding:"required"`
	Unit              string  `json:"unit"`
	CurrentValue      float64 `json:"current_value"`
	TargetValue       float64 `json:"target_value"`
	MeasurementPeriod string  `json:"measurement_period"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: gin.H{
			"status":  "healthy",
			"service": "kpi-workflow",
		},
	})
}

// CreateRequest handles POST /api/requests
func (h *Handlers) CreateRequest(c *gin.Context) {
	var input service.CreateRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	req, err := h.requestService.CreateRequest(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: req})
}

// ListRequests handles GET /api/requests?status=&organization_id=
func (h *Handlers) ListRequests(c *gin.Context) {
	if orgID := c.Query("organization_id"); orgID != "" {
		requests, err := h.requestService.ListByOrganization(c.Request.Context(), orgID)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, Response{Success: true, Data: requests})
		return
	}

	requests, err := h.requestService.ListByStatus(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: requests})
}

// GetRequest handles GET /api/requests/:id
func (h *Handlers) GetRequest(c *gin.Context) {
	req, err := h.requestService.GetRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: req})
}

// GetHistory handles GET /api/requests/:id/history
func (h *Handlers) GetHistory(c *gin.Context) {
	records, err := h.engine.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: records})
}

// GetAllowedActions handles GET /api/requests/:id/actions?role=
func (h *Handlers) GetAllowedActions(c *gin.Context) {
	role := domainwf.Role(c.Query("role"))
	if !role.IsValid() {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "unknown role"})
		return
	}

	actions, err := h.engine.AllowedActions(c.Request.Context(), c.Param("id"), role)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: actions})
}

// ExecuteTransition handles POST /api/requests/:id/transitions
func (h *Handlers) ExecuteTransition(c *gin.Context) {
	var body TransitionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	role := domainwf.Role(body.ActorRole)
	if !role.IsValid() {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "unknown role"})
		return
	}

	actor := appwf.Actor{ID: body.ActorID, Role: role}
	req, record, err := h.engine.Transition(c.Request.Context(), c.Param("id"), domainwf.Action(body.Action), actor, body.Comment)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    TransitionResponse{Request: req, History: record},
	})
}

// CreateOrganization handles POST /api/organizations
func (h *Handlers) CreateOrganization(c *gin.Context) {
	var body CreateOrganizationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	org, err := h.kpiService.CreateOrganization(c.Request.Context(), body.Name, body.Type, body.ParentID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: org})
}

// GetOrganization handles GET /api/organizations/:id
func (h *Handlers) GetOrganization(c *gin.Context) {
	org, err := h.kpiService.GetOrganization(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: org})
}

// ListOrganizations handles GET /api/organizations
func (h *Handlers) ListOrganizations(c *gin.Context) {
	orgs, err := h.kpiService.ListOrganizations(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: orgs})
}

// ListKpis handles GET /api/organizations/:id/kpis
func (h *Handlers) ListKpis(c *gin.Context) {
	kpis, err := h.kpiService.ListKpis(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: kpis})
}

// CreateKpi handles POST /api/organizations/:id/kpis
func (h *Handlers) CreateKpi(c *gin.Context) {
	var body CreateKpiRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body"})
		return
	}

	kpi, err := h.kpiService.CreateKpi(c.Request.Context(), c.Param("id"),
		body.Name, body.Unit, body.MeasurementPeriod, body.CurrentValue, body.TargetValue)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: kpi})
}

// respondError maps workflow error kinds to HTTP status codes so the UI can
// tell the user exactly which precondition failed.
func (h *Handlers) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, service.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, domainwf.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domainwf.ErrTerminalState):
		status = http.StatusConflict
	case errors.Is(err, domainwf.ErrInvalidAction), errors.Is(err, domainwf.ErrMissingComment):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domainwf.ErrUnauthorizedRole):
		status = http.StatusForbidden
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", "error", err)
		c.JSON(status, Response{Success: false, Error: "internal error"})
		return
	}

	c.JSON(status, Response{Success: false, Error: err.Error()})
}
