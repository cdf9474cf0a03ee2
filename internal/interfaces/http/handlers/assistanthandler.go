package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tailorcv/tailorcv/internal/application/assistant"
	"github.com/tailorcv/tailorcv/internal/interfaces/http/middleware"
	"github.com/tailorcv/tailorcv/internal/shared/logger"
	"github.com/tailorcv/tailorcv/internal/shared/utils"
)

type AssistantHandler struct {
	assistant *assistant.Service
	logger    logger.Interface
}

func NewAssistantHandler(assistantService *assistant.Service, logger logger.Interface) *AssistantHandler {
	return &AssistantHandler{
		assistant: assistantService,
		logger:    logger,
	}
}

type chatRequest struct {
	SessionID *uint  `json:"session_id"`
	Message   string `json:"message" binding:"required"`
}

type jobAnalysisRequest struct {
	Content string `json:"content" binding:"required"`
}

type coverLetterRequest struct {
	Cv      map[string]any `json:"cv" binding:"required"`
	Job     map[string]any `json:"job" binding:"required"`
	Company map[string]any `json:"company"`
	Tone    string         `json:"tone"`
}

// Chat handles POST /assistant/chat
func (h *AssistantHandler) Chat(c *gin.Context) {
	u := middleware.CurrentUser(c)

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	reply, err := h.assistant.Chat(c.Request.Context(), u, req.SessionID, req.Message)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", reply)
}

// AnalyzeJob handles POST /assistant/job-analysis
func (h *AssistantHandler) AnalyzeJob(c *gin.Context) {
	u := middleware.CurrentUser(c)

	var req jobAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	analysis, err := h.assistant.AnalyzeJobPosting(c.Request.Context(), u, req.Content)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", analysis)
}

// DraftCoverLetter handles POST /assistant/cover-letter
func (h *AssistantHandler) DraftCoverLetter(c *gin.Context) {
	u := middleware.CurrentUser(c)

	var req coverLetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	draft, err := h.assistant.DraftCoverLetter(c.Request.Context(), u, req.Cv, req.Job, req.Company, req.Tone)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", draft)
}
