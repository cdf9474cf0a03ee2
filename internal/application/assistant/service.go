package assistant

import (
	"context"
	"strings"

	"github.com/tailorcv/tailorcv/internal/application/assistant/dto"
	appentitlement "github.com/tailorcv/tailorcv/internal/application/entitlement"
	"github.com/tailorcv/tailorcv/internal/domain/entitlement"
	"github.com/tailorcv/tailorcv/internal/domain/user"
	"github.com/tailorcv/tailorcv/internal/infrastructure/gemini"
	"github.com/tailorcv/tailorcv/internal/shared/constants"
	appErrors "github.com/tailorcv/tailorcv/internal/shared/errors"
	"github.com/tailorcv/tailorcv/internal/shared/logger"
	"github.com/tailorcv/tailorcv/internal/shared/services/markdown"
)

const (
	chatHistoryWindow   = 20
	sessionTitleMaxRune = 60
)

// Service runs the AI-assisted flows. Every operation resolves the user's
// entitlements first: feature gates decide whether the flow is available at
// all, and chat turns are additionally counted against the daily AI message
// limit before the model is called.
type Service struct {
	entitlements *appentitlement.Service
	generator    TextGenerator
	chatRepo     ChatRepository
	markdown     markdown.Service
	logger       logger.Interface
}

func NewService(
	entitlements *appentitlement.Service,
	generator TextGenerator,
	chatRepo ChatRepository,
	markdown markdown.Service,
	logger logger.Interface,
) *Service {
	return &Service{
		entitlements: entitlements,
		generator:    generator,
		chatRepo:     chatRepo,
		markdown:     markdown,
		logger:       logger,
	}
}

// AnalyzeJobPosting extracts structured fields from a pasted job posting.
func (s *Service) AnalyzeJobPosting(ctx context.Context, u *user.User, content string) (dto.JobAnalysis, error) {
	if strings.TrimSpace(content) == "" {
		return dto.JobAnalysis{}, appErrors.NewValidationError("job posting content is required")
	}

	if check := s.entitlements.CheckFeature(ctx, u, entitlement.FeatureAIJobAnalysis, "Job posting analysis"); !check.Allowed {
		return dto.JobAnalysis{}, appErrors.NewForbiddenError(*check.Message)
	}

	text, err := s.generator.GenerateText(ctx, jobAnalysisPrompt(content))
	if err != nil {
		s.logger.Errorw("job posting analysis failed", "error", err, "user_id", u.ID())
		return dto.JobAnalysis{}, appErrors.NewInternalError("failed to analyze job posting")
	}

	fields, ok := gemini.ParseJSONObject(text)
	if !ok {
		s.logger.Warnw("job analysis reply was not parseable JSON", "user_id", u.ID())
		return dto.JobAnalysis{}, appErrors.NewInternalError("failed to analyze job posting")
	}

	return dto.JobAnalysis{Fields: fields}, nil
}

// DraftCoverLetter generates a cover letter from CV and job data.
func (s *Service) DraftCoverLetter(ctx context.Context, u *user.User, cvData, jobData, companyData map[string]any, tone string) (dto.CoverLetterDraft, error) {
	if len(cvData) == 0 || len(jobData) == 0 {
		return dto.CoverLetterDraft{}, appErrors.NewValidationError("cv and job data are required")
	}
	if tone == "" {
		tone = "professional"
	}

	if check := s.entitlements.CheckFeature(ctx, u, entitlement.FeatureAICoverLetter, "AI cover letter generation"); !check.Allowed {
		return dto.CoverLetterDraft{}, appErrors.NewForbiddenError(*check.Message)
	}

	text, err := s.generator.GenerateText(ctx, coverLetterPrompt(cvData, jobData, companyData, tone))
	if err != nil {
		s.logger.Errorw("cover letter generation failed", "error", err, "user_id", u.ID())
		return dto.CoverLetterDraft{}, appErrors.NewInternalError("failed to generate cover letter")
	}

	rendered, err := s.markdown.ToHTMLSanitized(text)
	if err != nil {
		return dto.CoverLetterDraft{}, appErrors.NewInternalError("failed to render cover letter")
	}

	return dto.CoverLetterDraft{
		Content:     text,
		ContentHTML: rendered,
	}, nil
}

// Chat runs one turn of the career assistant conversation. A nil sessionID
// starts a new session titled after the first message. The stored user
// message is what the daily limit counts, so the limit is checked before
// anything is persisted.
func (s *Service) Chat(ctx context.Context, u *user.User, sessionID *uint, message string) (dto.ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return dto.ChatReply{}, appErrors.NewValidationError("message is required")
	}

	if check := s.entitlements.CheckFeature(ctx, u, entitlement.FeatureAIAssistant, "AI Assistant"); !check.Allowed {
		return dto.ChatReply{}, appErrors.NewForbiddenError(*check.Message)
	}

	usedToday, err := s.entitlements.UsedFor(ctx, u, entitlement.LimitAIMessagesPerDay)
	if err != nil {
		return dto.ChatReply{}, appErrors.NewInternalError("failed to read AI message usage")
	}
	if check := s.entitlements.CheckLimit(ctx, u, entitlement.LimitAIMessagesPerDay, usedToday, "AI messages"); !check.Allowed {
		return dto.ChatReply{}, appErrors.NewForbiddenError(*check.Message)
	}

	var history []ChatMessage
	var resolvedSession uint
	if sessionID != nil {
		owner, err := s.chatRepo.SessionOwner(ctx, *sessionID)
		if err != nil {
			return dto.ChatReply{}, appErrors.NewInternalError("failed to load chat session")
		}
		if owner == 0 {
			return dto.ChatReply{}, appErrors.NewNotFoundError("chat session not found")
		}
		if owner != u.ID() {
			return dto.ChatReply{}, appErrors.NewForbiddenError("chat session belongs to another user")
		}
		resolvedSession = *sessionID

		if history, err = s.chatRepo.RecentMessages(ctx, resolvedSession, chatHistoryWindow); err != nil {
			return dto.ChatReply{}, appErrors.NewInternalError("failed to load chat history")
		}
	} else {
		resolvedSession, err = s.chatRepo.CreateSession(ctx, u.ID(), sessionTitle(message))
		if err != nil {
			return dto.ChatReply{}, appErrors.NewInternalError("failed to create chat session")
		}
	}

	text, err := s.generator.GenerateText(ctx, chatPrompt(message, history))
	if err != nil {
		s.logger.Errorw("assistant chat turn failed", "error", err, "user_id", u.ID(), "session_id", resolvedSession)
		return dto.ChatReply{}, appErrors.NewInternalError("the assistant is unavailable right now")
	}

	reply := text
	if parsed, ok := gemini.ParseJSONObject(text); ok {
		if msg, ok := parsed["message"].(string); ok && msg != "" {
			reply = msg
		}
	}

	rendered, err := s.markdown.ToHTMLSanitized(reply)
	if err != nil {
		return dto.ChatReply{}, appErrors.NewInternalError("failed to render assistant reply")
	}

	if err := s.chatRepo.AppendMessage(ctx, resolvedSession, constants.ChatRoleUser, message); err != nil {
		return dto.ChatReply{}, appErrors.NewInternalError("failed to store chat message")
	}
	if err := s.chatRepo.AppendMessage(ctx, resolvedSession, constants.ChatRoleAssistant, reply); err != nil {
		return dto.ChatReply{}, appErrors.NewInternalError("failed to store assistant reply")
	}

	return dto.ChatReply{
		SessionID:   resolvedSession,
		Message:     reply,
		MessageHTML: rendered,
	}, nil
}

func sessionTitle(message string) string {
	runes := []rune(message)
	if len(runes) <= sessionTitleMaxRune {
		return message
	}
	return string(runes[:sessionTitleMaxRune]) + "…"
}
