package user

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailorcv/tailorcv/internal/application/user/dto"
	"github.com/tailorcv/tailorcv/internal/domain/plan"
	"github.com/tailorcv/tailorcv/internal/domain/shared/events"
	"github.com/tailorcv/tailorcv/internal/domain/user"
	"github.com/tailorcv/tailorcv/internal/infrastructure/auth"
	appErrors "github.com/tailorcv/tailorcv/internal/shared/errors"
	"github.com/tailorcv/tailorcv/internal/shared/logger"
)

type memoryUserRepo struct {
	nextID  uint
	byID    map[uint]*user.User
	byEmail map[string]*user.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{
		byID:    map[uint]*user.User{},
		byEmail: map[string]*user.User{},
	}
}

func (m *memoryUserRepo) Create(_ context.Context, u *user.User) error {
	m.nextID++
	if err := u.SetID(m.nextID); err != nil {
		return err
	}
	m.byID[u.ID()] = u
	m.byEmail[u.Email()] = u
	return nil
}

func (m *memoryUserRepo) GetByID(_ context.Context, id uint) (*user.User, error) {
	return m.byID[id], nil
}

func (m *memoryUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	return m.byEmail[email], nil
}

func (m *memoryUserRepo) Update(_ context.Context, u *user.User) error {
	m.byID[u.ID()] = u
	m.byEmail[u.Email()] = u
	return nil
}

func (m *memoryUserRepo) Delete(_ context.Context, id uint) error {
	if u, ok := m.byID[id]; ok {
		delete(m.byEmail, u.Email())
		delete(m.byID, id)
	}
	return nil
}

func (m *memoryUserRepo) List(_ context.Context, _ user.Filter) ([]*user.User, int64, error) {
	var out []*user.User
	for _, u := range m.byID {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (m *memoryUserRepo) FindExpiredSubscriptions(_ context.Context, asOf time.Time) ([]*user.User, error) {
	var out []*user.User
	for _, u := range m.byID {
		if u.SubscriptionStatus() == user.SubscriptionActive &&
			u.SubscriptionEndsAt() != nil && u.SubscriptionEndsAt().Before(asOf) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memoryUserRepo) CountByStatus(_ context.Context, status string) (int64, error) {
	var count int64
	for _, u := range m.byID {
		if string(u.SubscriptionStatus()) == status {
			count++
		}
	}
	return count, nil
}

func (m *memoryUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := m.byEmail[email]
	return ok, nil
}

type stubPlanRepo struct {
	plan.Repository
	plans map[uint]*plan.Plan
}

func (s *stubPlanRepo) GetByID(_ context.Context, id uint) (*plan.Plan, error) {
	return s.plans[id], nil
}

type stubHasher struct{}

func (stubHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (stubHasher) Verify(password, hash string) error {
	if hash != "hashed:"+password {
		return fmt.Errorf("password verification failed")
	}
	return nil
}

type stubTokenIssuer struct {
	fail bool
}

func (s *stubTokenIssuer) Generate(userID uint, role string) (*auth.TokenPair, error) {
	if s.fail {
		return nil, fmt.Errorf("signing failed")
	}
	return &auth.TokenPair{
		AccessToken:  fmt.Sprintf("access-%d-%s", userID, role),
		RefreshToken: fmt.Sprintf("refresh-%d", userID),
		ExpiresIn:    3600,
	}, nil
}

func newTestService() (*Service, *memoryUserRepo, *stubPlanRepo) {
	userRepo := newMemoryUserRepo()
	planRepo := &stubPlanRepo{plans: map[uint]*plan.Plan{}}
	svc := NewService(userRepo, planRepo, stubHasher{}, &stubTokenIssuer{}, nil, logger.NewLogger())
	return svc, userRepo, planRepo
}

func storedPlan(t *testing.T, id uint, slug string, active bool) *plan.Plan {
	t.Helper()
	status := "active"
	if !active {
		status = "inactive"
	}
	p, err := plan.ReconstructPlan(id, "Pro", slug, "", 5000_00, "XAF",
		plan.IntervalMonthly, false, 0, status, nil, 1, time.Now(), time.Now())
	require.NoError(t, err)
	return p
}

func registerUser(t *testing.T, svc *Service, email string) *dto.AuthResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name:     "Ada",
		Email:    email,
		Password: "correct-horse",
	})
	require.NoError(t, err)
	return resp
}

// =====================================================================
// TestRegister
// =====================================================================

func TestRegister_IssuesTokens(t *testing.T) {
	svc, _, _ := newTestService()

	resp := registerUser(t, svc, "Ada@Example.COM")

	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.Equal(t, "access-1-user", resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, "free", resp.User.SubscriptionStatus)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()
	registerUser(t, svc, "ada@example.com")

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name:     "Other",
		Email:    "ADA@example.com",
		Password: "correct-horse",
	})

	require.Error(t, err)
	assert.True(t, appErrors.IsConflictError(err))
}

// =====================================================================
// TestLogin
// =====================================================================

func TestLogin_Valid(t *testing.T) {
	svc, _, _ := newTestService()
	registerUser(t, svc, "ada@example.com")

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "ada@example.com",
		Password: "correct-horse",
	})

	require.NoError(t, err)
	assert.Equal(t, uint(1), resp.User.ID)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestLogin_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	svc, _, _ := newTestService()
	registerUser(t, svc, "ada@example.com")

	_, wrongPass := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "ada@example.com",
		Password: "nope",
	})
	_, unknown := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "ghost@example.com",
		Password: "nope",
	})

	require.Error(t, wrongPass)
	require.Error(t, unknown)
	assert.True(t, appErrors.IsUnauthorizedError(wrongPass))
	assert.Equal(t, wrongPass.Error(), unknown.Error())
}

// =====================================================================
// TestProfile
// =====================================================================

func TestUpdateProfileAndChangePassword(t *testing.T) {
	svc, _, _ := newTestService()
	created := registerUser(t, svc, "ada@example.com")

	updated, err := svc.UpdateProfile(context.Background(), created.User.ID, dto.UpdateProfileRequest{Name: "Ada L."})
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", updated.Name)

	err = svc.ChangePassword(context.Background(), created.User.ID, dto.ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "new-password",
	})
	require.Error(t, err)
	assert.True(t, appErrors.IsUnauthorizedError(err))

	err = svc.ChangePassword(context.Background(), created.User.ID, dto.ChangePasswordRequest{
		CurrentPassword: "correct-horse",
		NewPassword:     "new-password",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Email:    "ada@example.com",
		Password: "new-password",
	})
	assert.NoError(t, err)
}

func TestGetProfile_NotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.GetProfile(context.Background(), 99)

	require.Error(t, err)
	assert.True(t, appErrors.IsNotFoundError(err))
}

// =====================================================================
// TestAssignSubscription
// =====================================================================

func TestAssignSubscription_ActivePlan(t *testing.T) {
	svc, repo, planRepo := newTestService()
	created := registerUser(t, svc, "ada@example.com")
	planRepo.plans[3] = storedPlan(t, 3, "pro-monthly-xaf", true)

	endsAt := time.Now().Add(30 * 24 * time.Hour)
	resp, err := svc.AssignSubscription(context.Background(), created.User.ID, dto.AssignSubscriptionRequest{
		PlanID: 3,
		EndsAt: &endsAt,
	})

	require.NoError(t, err)
	assert.Equal(t, "active", resp.SubscriptionStatus)
	require.NotNil(t, resp.PricingPlanID)
	assert.Equal(t, uint(3), *resp.PricingPlanID)
	assert.Equal(t, user.SubscriptionActive, repo.byID[created.User.ID].SubscriptionStatus())
}

func TestAssignSubscription_InactivePlan(t *testing.T) {
	svc, _, planRepo := newTestService()
	created := registerUser(t, svc, "ada@example.com")
	planRepo.plans[3] = storedPlan(t, 3, "legacy-xaf", false)

	_, err := svc.AssignSubscription(context.Background(), created.User.ID, dto.AssignSubscriptionRequest{PlanID: 3})

	require.Error(t, err)
	assert.True(t, appErrors.IsValidationError(err))
}

func TestAssignSubscription_MissingPlan(t *testing.T) {
	svc, _, _ := newTestService()
	created := registerUser(t, svc, "ada@example.com")

	_, err := svc.AssignSubscription(context.Background(), created.User.ID, dto.AssignSubscriptionRequest{PlanID: 7})

	require.Error(t, err)
	assert.True(t, appErrors.IsNotFoundError(err))
}

func TestAssignSubscription_PastEndDate(t *testing.T) {
	svc, _, planRepo := newTestService()
	created := registerUser(t, svc, "ada@example.com")
	planRepo.plans[3] = storedPlan(t, 3, "pro-monthly-xaf", true)

	past := time.Now().Add(-time.Hour)
	_, err := svc.AssignSubscription(context.Background(), created.User.ID, dto.AssignSubscriptionRequest{
		PlanID: 3,
		EndsAt: &past,
	})

	require.Error(t, err)
	assert.True(t, appErrors.IsValidationError(err))
}

// =====================================================================
// TestCancelAndSweep
// =====================================================================

func TestCancelSubscription(t *testing.T) {
	svc, _, planRepo := newTestService()
	created := registerUser(t, svc, "ada@example.com")
	planRepo.plans[3] = storedPlan(t, 3, "pro-monthly-xaf", true)

	_, err := svc.CancelSubscription(context.Background(), created.User.ID)
	require.Error(t, err, "free user has nothing to cancel")

	endsAt := time.Now().Add(time.Hour)
	_, err = svc.AssignSubscription(context.Background(), created.User.ID, dto.AssignSubscriptionRequest{
		PlanID: 3, EndsAt: &endsAt,
	})
	require.NoError(t, err)

	resp, err := svc.CancelSubscription(context.Background(), created.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.SubscriptionStatus)
	// The plan reference survives for history.
	assert.NotNil(t, resp.PricingPlanID)
}

func TestSweepExpiredSubscriptions(t *testing.T) {
	svc, repo, planRepo := newTestService()
	planRepo.plans[3] = storedPlan(t, 3, "pro-monthly-xaf", true)

	lapsed := registerUser(t, svc, "lapsed@example.com")
	current := registerUser(t, svc, "current@example.com")

	endsAt := time.Now().Add(time.Minute)
	_, err := svc.AssignSubscription(context.Background(), lapsed.User.ID, dto.AssignSubscriptionRequest{
		PlanID: 3, EndsAt: &endsAt,
	})
	require.NoError(t, err)
	farOut := time.Now().Add(48 * time.Hour)
	_, err = svc.AssignSubscription(context.Background(), current.User.ID, dto.AssignSubscriptionRequest{
		PlanID: 3, EndsAt: &farOut,
	})
	require.NoError(t, err)

	// Move the clock past the first subscription's end date.
	svc.now = func() time.Time { return time.Now().Add(24 * time.Hour) }

	swept, err := svc.SweepExpiredSubscriptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, swept)
	assert.Equal(t, user.SubscriptionExpired, repo.byID[lapsed.User.ID].SubscriptionStatus())
	assert.Equal(t, user.SubscriptionActive, repo.byID[current.User.ID].SubscriptionStatus())
}

// ============================================================================
// Lifecycle Events
// ============================================================================

type recordingPublisher struct {
	events []events.DomainEvent
}

func (p *recordingPublisher) Publish(event events.DomainEvent) error {
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.GetEventType())
	}
	return out
}

func TestLifecycleEvents(t *testing.T) {
	newServiceWithBus := func() (*Service, *recordingPublisher, *stubPlanRepo) {
		userRepo := newMemoryUserRepo()
		planRepo := &stubPlanRepo{plans: map[uint]*plan.Plan{}}
		bus := &recordingPublisher{}
		svc := NewService(userRepo, planRepo, stubHasher{}, &stubTokenIssuer{}, bus, logger.NewLogger())
		return svc, bus, planRepo
	}

	t.Run("register publishes user.registered", func(t *testing.T) {
		svc, bus, _ := newServiceWithBus()
		registerUser(t, svc, "ada@example.com")

		require.Len(t, bus.events, 1)
		assert.Equal(t, user.EventUserRegistered, bus.events[0].GetEventType())
		registered, ok := bus.events[0].(user.UserRegisteredEvent)
		require.True(t, ok)
		assert.Equal(t, "ada@example.com", registered.Email)
	})

	t.Run("assign and cancel publish subscription events", func(t *testing.T) {
		svc, bus, planRepo := newServiceWithBus()
		resp := registerUser(t, svc, "ada@example.com")
		planRepo.plans[7] = storedPlan(t, 7, "pro", true)

		_, err := svc.AssignSubscription(context.Background(), resp.User.ID, dto.AssignSubscriptionRequest{PlanID: 7})
		require.NoError(t, err)
		_, err = svc.CancelSubscription(context.Background(), resp.User.ID)
		require.NoError(t, err)

		assert.Equal(t, []string{
			user.EventUserRegistered,
			user.EventSubscriptionAssigned,
			user.EventSubscriptionCancelled,
		}, bus.types())
	})

	t.Run("sweep publishes one expired event per user", func(t *testing.T) {
		svc, bus, planRepo := newServiceWithBus()
		resp := registerUser(t, svc, "ada@example.com")
		planRepo.plans[7] = storedPlan(t, 7, "pro", true)

		endsAt := time.Now().Add(time.Hour)
		_, err := svc.AssignSubscription(context.Background(), resp.User.ID, dto.AssignSubscriptionRequest{PlanID: 7, EndsAt: &endsAt})
		require.NoError(t, err)

		svc.now = func() time.Time { return time.Now().Add(24 * time.Hour) }
		swept, err := svc.SweepExpiredSubscriptions(context.Background())
		require.NoError(t, err)
		require.Equal(t, 1, swept)

		types := bus.types()
		assert.Equal(t, user.EventSubscriptionExpired, types[len(types)-1])
	})
}
