package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tailorcv/tailorcv/internal/application/analytics"
	userapp "github.com/tailorcv/tailorcv/internal/application/user"
	userdto "github.com/tailorcv/tailorcv/internal/application/user/dto"
	"github.com/tailorcv/tailorcv/internal/shared/constants"
	"github.com/tailorcv/tailorcv/internal/shared/logger"
	"github.com/tailorcv/tailorcv/internal/shared/utils"
)

// AdminHandler exposes the analytics report and user administration.
type AdminHandler struct {
	analytics   *analytics.Service
	userService *userapp.Service
	logger      logger.Interface
}

func NewAdminHandler(analyticsService *analytics.Service, userService *userapp.Service, logger logger.Interface) *AdminHandler {
	return &AdminHandler{
		analytics:   analyticsService,
		userService: userService,
		logger:      logger,
	}
}

// AnalyticsReport handles GET /admin/analytics/report
func (h *AdminHandler) AnalyticsReport(c *gin.Context) {
	query := analytics.ReportQuery{
		Period:    c.Query("period"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		Currency:  c.Query("currency"),
	}

	report, err := h.analytics.Report(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", report)
}

// ListUsers handles GET /admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var req userdto.ListUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid query parameters: "+err.Error())
		return
	}

	users, total, err := h.userService.ListUsers(c.Request.Context(), req)
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
	utils.ListSuccessResponse(c, users, total, page, pageSize)
}

// AssignSubscription handles POST /admin/users/:id/subscription
func (h *AdminHandler) AssignSubscription(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req userdto.AssignSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.userService.AssignSubscription(c.Request.Context(), id, req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "subscription assigned", resp)
}

// CancelSubscription handles DELETE /admin/users/:id/subscription
func (h *AdminHandler) CancelSubscription(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	resp, err := h.userService.CancelSubscription(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "subscription cancelled", resp)
}

// SweepExpired handles POST /admin/subscriptions/sweep
func (h *AdminHandler) SweepExpired(c *gin.Context) {
	swept, err := h.userService.SweepExpiredSubscriptions(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"swept": swept})
}
