package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	planapp "github.com/tailorcv/tailorcv/internal/application/plan"
	"github.com/tailorcv/tailorcv/internal/application/plan/dto"
	"github.com/tailorcv/tailorcv/internal/shared/constants"
	"github.com/tailorcv/tailorcv/internal/shared/logger"
	"github.com/tailorcv/tailorcv/internal/shared/utils"
)

type PlanHandler struct {
	planService *planapp.Service
	logger      logger.Interface
}

func NewPlanHandler(planService *planapp.Service, logger logger.Interface) *PlanHandler {
	return &PlanHandler{
		planService: planService,
		logger:      logger,
	}
}

// ListActive handles GET /plans: the public pricing page source.
func (h *PlanHandler) ListActive(c *gin.Context) {
	plans, err := h.planService.ListActivePlans(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", plans)
}

// Create handles POST /admin/plans
func (h *PlanHandler) Create(c *gin.Context) {
	var req dto.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.planService.CreatePlan(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, resp, "plan created")
}

// List handles GET /admin/plans
func (h *PlanHandler) List(c *gin.Context) {
	var req dto.ListPlansRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid query parameters: "+err.Error())
		return
	}

	plans, total, err := h.planService.ListPlans(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = constants.DefaultPageSize
	}
	utils.ListSuccessResponse(c, plans, total, page, pageSize)
}

// Get handles GET /admin/plans/:id
func (h *PlanHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	resp, err := h.planService.GetPlan(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", resp)
}

// Update handles PUT /admin/plans/:id
func (h *PlanHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.planService.UpdatePlan(c.Request.Context(), id, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "plan updated", resp)
}

// Activate handles POST /admin/plans/:id/activate
func (h *PlanHandler) Activate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.planService.ActivatePlan(c.Request.Context(), id); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "plan activated", nil)
}

// Deactivate handles POST /admin/plans/:id/deactivate
func (h *PlanHandler) Deactivate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.planService.DeactivatePlan(c.Request.Context(), id); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "plan deactivated", nil)
}

// parseIDParam parses the :id path segment, writing the error response
// itself on failure.
func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid id parameter")
		return 0, false
	}
	return uint(id), true
}
