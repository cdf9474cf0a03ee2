package assistant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appentitlement "github.com/tailorcv/tailorcv/internal/application/entitlement"
	"github.com/tailorcv/tailorcv/internal/domain/entitlement"
	"github.com/tailorcv/tailorcv/internal/domain/plan"
	"github.com/tailorcv/tailorcv/internal/domain/user"
	appErrors "github.com/tailorcv/tailorcv/internal/shared/errors"
	"github.com/tailorcv/tailorcv/internal/shared/logger"
	"github.com/tailorcv/tailorcv/internal/shared/services/markdown"
)

type stubPlanRepo struct {
	plan.Repository
	plans map[uint]*plan.Plan
}

func (s *stubPlanRepo) GetByID(_ context.Context, id uint) (*plan.Plan, error) {
	return s.plans[id], nil
}

type stubUsageRepo struct {
	aiMessages int
}

func (s *stubUsageRepo) CountCvs(context.Context, uint) (int, error)             { return 0, nil }
func (s *stubUsageRepo) CountCoverLetters(context.Context, uint) (int, error)    { return 0, nil }
func (s *stubUsageRepo) CountJobApplications(context.Context, uint) (int, error) { return 0, nil }
func (s *stubUsageRepo) CountAIMessagesBetween(context.Context, uint, time.Time, time.Time) (int, error) {
	return s.aiMessages, nil
}

type stubGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (s *stubGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

type stubChatRepo struct {
	nextSessionID uint
	owners        map[uint]uint
	messages      []ChatMessage
	history       []ChatMessage
}

func (s *stubChatRepo) CreateSession(_ context.Context, userID uint, _ string) (uint, error) {
	s.nextSessionID++
	if s.owners == nil {
		s.owners = map[uint]uint{}
	}
	s.owners[s.nextSessionID] = userID
	return s.nextSessionID, nil
}

func (s *stubChatRepo) SessionOwner(_ context.Context, sessionID uint) (uint, error) {
	return s.owners[sessionID], nil
}

func (s *stubChatRepo) AppendMessage(_ context.Context, _ uint, role, content string) error {
	s.messages = append(s.messages, ChatMessage{Role: role, Content: content})
	return nil
}

func (s *stubChatRepo) RecentMessages(context.Context, uint, int) ([]ChatMessage, error) {
	return s.history, nil
}

type fixture struct {
	svc       *Service
	generator *stubGenerator
	chatRepo  *stubChatRepo
	usageRepo *stubUsageRepo
	planRepo  *stubPlanRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.NewLogger()
	planRepo := &stubPlanRepo{plans: map[uint]*plan.Plan{}}
	usageRepo := &stubUsageRepo{}
	generator := &stubGenerator{reply: `{"message": "Happy to help!"}`}
	chatRepo := &stubChatRepo{}

	entitlements := appentitlement.NewService(entitlement.DefaultCatalog(), planRepo, usageRepo, log)
	svc := NewService(entitlements, generator, chatRepo, markdown.NewService(), log)

	return &fixture{
		svc:       svc,
		generator: generator,
		chatRepo:  chatRepo,
		usageRepo: usageRepo,
		planRepo:  planRepo,
	}
}

func freeUser(t *testing.T, id uint) *user.User {
	t.Helper()
	u, err := user.ReconstructUser(id, "Test", "t@example.com", "hash",
		"user", "free", nil, nil, 1, time.Now(), time.Now())
	require.NoError(t, err)
	return u
}

func proUser(t *testing.T, f *fixture, id uint) *user.User {
	t.Helper()
	p, err := plan.ReconstructPlan(7, "Pro Monthly", "pro-monthly-xaf", "", 5000_00, "XAF",
		plan.IntervalMonthly, false, 0, "active", nil, 1, time.Now(), time.Now())
	require.NoError(t, err)
	f.planRepo.plans[7] = p

	planID := uint(7)
	u, err := user.ReconstructUser(id, "Pro", "pro@example.com", "hash",
		"user", "active", &planID, nil, 1, time.Now(), time.Now())
	require.NoError(t, err)
	return u
}

// =====================================================================
// TestAnalyzeJobPosting
// =====================================================================

func TestAnalyzeJobPosting_FreeUserForbidden(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AnalyzeJobPosting(context.Background(), freeUser(t, 1), "Senior Go Engineer...")

	require.Error(t, err)
	appErr := appErrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, appErrors.ErrorTypeForbidden, appErr.Type)
	assert.Empty(t, f.generator.prompts)
}

func TestAnalyzeJobPosting_ProUserGetsParsedFields(t *testing.T) {
	f := newFixture(t)
	f.generator.reply = "```json\n{\"title\": \"Go Engineer\", \"work_type\": \"remote\"}\n```"

	analysis, err := f.svc.AnalyzeJobPosting(context.Background(), proUser(t, f, 1), "We are hiring a Go Engineer...")

	require.NoError(t, err)
	assert.Equal(t, "Go Engineer", analysis.Fields["title"])
	assert.Equal(t, "remote", analysis.Fields["work_type"])
	require.Len(t, f.generator.prompts, 1)
	assert.Contains(t, f.generator.prompts[0], "We are hiring a Go Engineer")
}

func TestAnalyzeJobPosting_EmptyContent(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AnalyzeJobPosting(context.Background(), proUser(t, f, 1), "   ")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrorTypeValidation, appErrors.GetAppError(err).Type)
}

func TestAnalyzeJobPosting_UnparseableReply(t *testing.T) {
	f := newFixture(t)
	f.generator.reply = "I could not extract anything."

	_, err := f.svc.AnalyzeJobPosting(context.Background(), proUser(t, f, 1), "job text")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrorTypeInternal, appErrors.GetAppError(err).Type)
}

// =====================================================================
// TestDraftCoverLetter
// =====================================================================

func TestDraftCoverLetter_FreeUserForbidden(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.DraftCoverLetter(context.Background(), freeUser(t, 1),
		map[string]any{"name": "Ada"}, map[string]any{"title": "Engineer"}, nil, "")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrorTypeForbidden, appErrors.GetAppError(err).Type)
}

func TestDraftCoverLetter_RendersSanitizedHTML(t *testing.T) {
	f := newFixture(t)
	f.generator.reply = "Dear Hiring Manager,\n\nI am **excited** to apply.<script>alert(1)</script>"

	draft, err := f.svc.DraftCoverLetter(context.Background(), proUser(t, f, 1),
		map[string]any{"name": "Ada"}, map[string]any{"title": "Engineer"}, nil, "friendly")

	require.NoError(t, err)
	assert.Contains(t, draft.Content, "excited")
	assert.Contains(t, draft.ContentHTML, "<strong>excited</strong>")
	assert.NotContains(t, draft.ContentHTML, "<script>")
	require.Len(t, f.generator.prompts, 1)
	assert.Contains(t, f.generator.prompts[0], "Tone: friendly")
}

func TestDraftCoverLetter_MissingData(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.DraftCoverLetter(context.Background(), proUser(t, f, 1), nil, nil, nil, "")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrorTypeValidation, appErrors.GetAppError(err).Type)
}

// =====================================================================
// TestChat
// =====================================================================

func TestChat_NewSessionStoresBothTurns(t *testing.T) {
	f := newFixture(t)

	reply, err := f.svc.Chat(context.Background(), freeUser(t, 1), nil, "How do I improve my CV?")

	require.NoError(t, err)
	assert.Equal(t, uint(1), reply.SessionID)
	assert.Equal(t, "Happy to help!", reply.Message)
	assert.Contains(t, reply.MessageHTML, "Happy to help!")
	require.Len(t, f.chatRepo.messages, 2)
	assert.Equal(t, "user", f.chatRepo.messages[0].Role)
	assert.Equal(t, "How do I improve my CV?", f.chatRepo.messages[0].Content)
	assert.Equal(t, "assistant", f.chatRepo.messages[1].Role)
}

func TestChat_DailyLimitReached(t *testing.T) {
	f := newFixture(t)
	// Free tier allows 20 AI messages per business day.
	f.usageRepo.aiMessages = 20

	_, err := f.svc.Chat(context.Background(), freeUser(t, 1), nil, "hello")

	require.Error(t, err)
	appErr := appErrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, appErrors.ErrorTypeForbidden, appErr.Type)
	assert.Contains(t, appErr.Message, "20")
	// Nothing was stored or sent to the model.
	assert.Empty(t, f.chatRepo.messages)
	assert.Empty(t, f.generator.prompts)
}

func TestChat_AdminBypassesDailyLimit(t *testing.T) {
	f := newFixture(t)
	f.usageRepo.aiMessages = 10_000
	admin, err := user.ReconstructUser(1, "Admin", "a@example.com", "hash",
		"admin", "free", nil, nil, 1, time.Now(), time.Now())
	require.NoError(t, err)

	reply, err := f.svc.Chat(context.Background(), admin, nil, "hello")

	require.NoError(t, err)
	assert.Equal(t, "Happy to help!", reply.Message)
}

func TestChat_ExistingSessionLoadsHistory(t *testing.T) {
	f := newFixture(t)
	u := freeUser(t, 1)
	f.chatRepo.owners = map[uint]uint{5: 1}
	f.chatRepo.history = []ChatMessage{{Role: "user", Content: "earlier question"}}
	sessionID := uint(5)

	reply, err := f.svc.Chat(context.Background(), u, &sessionID, "follow-up")

	require.NoError(t, err)
	assert.Equal(t, uint(5), reply.SessionID)
	require.Len(t, f.generator.prompts, 1)
	assert.Contains(t, f.generator.prompts[0], "earlier question")
}

func TestChat_ForeignSessionForbidden(t *testing.T) {
	f := newFixture(t)
	f.chatRepo.owners = map[uint]uint{5: 99}
	sessionID := uint(5)

	_, err := f.svc.Chat(context.Background(), freeUser(t, 1), &sessionID, "hello")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrorTypeForbidden, appErrors.GetAppError(err).Type)
}

func TestChat_UnknownSessionNotFound(t *testing.T) {
	f := newFixture(t)
	sessionID := uint(404)

	_, err := f.svc.Chat(context.Background(), freeUser(t, 1), &sessionID, "hello")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrorTypeNotFound, appErrors.GetAppError(err).Type)
}

func TestChat_PlainTextReplyUsedVerbatim(t *testing.T) {
	f := newFixture(t)
	f.generator.reply = "Just some advice without JSON."

	reply, err := f.svc.Chat(context.Background(), freeUser(t, 1), nil, "hello")

	require.NoError(t, err)
	assert.Equal(t, "Just some advice without JSON.", reply.Message)
}

func TestChat_GeneratorFailureSurfacesAsInternal(t *testing.T) {
	f := newFixture(t)
	f.generator.err = errors.New("upstream timeout")

	_, err := f.svc.Chat(context.Background(), freeUser(t, 1), nil, "hello")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrorTypeInternal, appErrors.GetAppError(err).Type)
	assert.Empty(t, f.chatRepo.messages)
}
