package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appentitlement "github.com/tailorcv/tailorcv/internal/application/entitlement"
	"github.com/tailorcv/tailorcv/internal/domain/entitlement"
	"github.com/tailorcv/tailorcv/internal/interfaces/http/middleware"
	"github.com/tailorcv/tailorcv/internal/shared/logger"
	"github.com/tailorcv/tailorcv/internal/shared/utils"
)

type EntitlementHandler struct {
	entitlements *appentitlement.Service
	logger       logger.Interface
}

func NewEntitlementHandler(entitlements *appentitlement.Service, logger logger.Interface) *EntitlementHandler {
	return &EntitlementHandler{
		entitlements: entitlements,
		logger:       logger,
	}
}

// capabilitiesResponse is the wire form of a resolved capability set. A nil
// limit means unlimited.
type capabilitiesResponse struct {
	Limits   map[string]*int `json:"limits"`
	Features map[string]bool `json:"features"`
}

func toCapabilitiesResponse(caps entitlement.CapabilitySet) capabilitiesResponse {
	resp := capabilitiesResponse{
		Limits:   make(map[string]*int, len(caps.Limits)),
		Features: make(map[string]bool, len(caps.Features)),
	}
	for key, value := range caps.Limits {
		resp.Limits[string(key)] = value
	}
	for key, value := range caps.Features {
		resp.Features[string(key)] = value
	}
	return resp
}

// CurrentPlan handles GET /me/plan
func (h *EntitlementHandler) CurrentPlan(c *gin.Context) {
	u := middleware.CurrentUser(c)
	data := h.entitlements.CurrentPlanData(c.Request.Context(), u)
	utils.SuccessResponse(c, http.StatusOK, "", data)
}

// Capabilities handles GET /me/entitlements
func (h *EntitlementHandler) Capabilities(c *gin.Context) {
	u := middleware.CurrentUser(c)
	caps := h.entitlements.ResolveCapabilities(c.Request.Context(), u)
	utils.SuccessResponse(c, http.StatusOK, "", toCapabilitiesResponse(caps))
}

// Usage handles GET /me/usage
func (h *EntitlementHandler) Usage(c *gin.Context) {
	u := middleware.CurrentUser(c)
	snapshot, err := h.entitlements.Usage(c.Request.Context(), u)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", snapshot)
}

// Dashboard handles GET /me/dashboard
func (h *EntitlementHandler) Dashboard(c *gin.Context) {
	u := middleware.CurrentUser(c)
	summary, err := h.entitlements.DashboardSummary(c.Request.Context(), u)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", summary)
}
