package user

import (
	"context"
	"strings"
	"time"

	"github.com/tailorcv/tailorcv/internal/application/user/dto"
	"github.com/tailorcv/tailorcv/internal/domain/plan"
	"github.com/tailorcv/tailorcv/internal/domain/shared/events"
	"github.com/tailorcv/tailorcv/internal/domain/user"
	"github.com/tailorcv/tailorcv/internal/infrastructure/auth"
	"github.com/tailorcv/tailorcv/internal/shared/constants"
	appErrors "github.com/tailorcv/tailorcv/internal/shared/errors"
	"github.com/tailorcv/tailorcv/internal/shared/logger"
)

// TokenIssuer signs token pairs for authenticated users. Implemented by the
// JWT service.
type TokenIssuer interface {
	Generate(userID uint, role string) (*auth.TokenPair, error)
}

const invalidCredentialsMsg = "invalid email or password"

// Service covers registration, login, profile management and the admin-side
// subscription operations.
type Service struct {
	userRepo user.Repository
	planRepo plan.Repository
	hasher   user.PasswordHasher
	tokens   TokenIssuer
	bus      events.EventPublisher
	logger   logger.Interface
	now      func() time.Time
}

// NewService builds the user service. bus may be nil when no listener
// cares about lifecycle events.
func NewService(
	userRepo user.Repository,
	planRepo plan.Repository,
	hasher user.PasswordHasher,
	tokens TokenIssuer,
	bus events.EventPublisher,
	logger logger.Interface,
) *Service {
	return &Service{
		userRepo: userRepo,
		planRepo: planRepo,
		hasher:   hasher,
		tokens:   tokens,
		bus:      bus,
		logger:   logger,
		now:      time.Now,
	}
}

// publish fires a lifecycle event. Delivery is best effort; a full event
// buffer must never fail the originating request.
func (s *Service) publish(event events.DomainEvent) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(event); err != nil {
		s.logger.Warnw("failed to publish event",
			"event_type", event.GetEventType(), "error", err)
	}
}

// Register creates an account and signs the new user in.
func (s *Service) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		s.logger.Errorw("failed to check email existence", "error", err)
		return nil, appErrors.NewInternalError(constants.ErrMsgInternalServerError)
	}
	if exists {
		return nil, appErrors.NewConflictError("an account with this email already exists")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.Errorw("failed to hash password", "error", err)
		return nil, appErrors.NewInternalError(constants.ErrMsgInternalServerError)
	}

	u, err := user.NewUser(req.Name, email, hash)
	if err != nil {
		return nil, appErrors.NewValidationError(err.Error())
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		if appErrors.IsDuplicateError(err) {
			return nil, appErrors.NewConflictError("an account with this email already exists")
		}
		s.logger.Errorw("failed to create user", "error", err)
		return nil, appErrors.NewInternalError(constants.ErrMsgInternalServerError)
	}

	s.logger.Infow("user registered", "user_id", u.ID())
	s.publish(user.NewUserRegisteredEvent(u, s.now()))
	return s.authResponse(u)
}

// Login verifies credentials and issues a token pair. The error never says
// whether the email or the password was wrong.
func (s *Service) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Errorw("failed to load user for login", "error", err)
		return nil, appErrors.NewInternalError(constants.ErrMsgInternalServerError)
	}
	if u == nil {
		return nil, appErrors.NewUnauthorizedError(invalidCredentialsMsg)
	}

	if err := s.hasher.Verify(req.Password, u.PasswordHash()); err != nil {
		return nil, appErrors.NewUnauthorizedError(invalidCredentialsMsg)
	}

	return s.authResponse(u)
}

// GetProfile loads the user snapshot for the authenticated user.
func (s *Service) GetProfile(ctx context.Context, id uint) (*dto.UserResponse, error) {
	u, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.FromUser(u)
	return &resp, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id uint, req dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	u, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := u.UpdateName(req.Name); err != nil {
		return nil, appErrors.NewValidationError(err.Error())
	}

	if err := s.userRepo.Update(ctx, u); err != nil {
		s.logger.Errorw("failed to update user", "error", err, "user_id", id)
		return nil, appErrors.NewInternalError(constants.ErrMsgInternalServerError)
	}

	resp := dto.FromUser(u)
	return &resp, nil
}

func (s *Service) ChangePassword(ctx context.Context, id uint, req dto.ChangePasswordRequest) error {
	u, err := s.getUser(ctx, id)
	if err != nil {
		return err
	}

	if err := s.hasher.Verify(req.CurrentPassword, u.PasswordHash()); err != nil {
		return appErrors.NewUnauthorizedError("current password is incorrect")
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		s.logger.Errorw("failed to hash password", "error", err)
		return appErrors.NewInternalError(constants.ErrMsgInternalServerError)
	}

	if err := u.ChangePassword(hash); err != nil {
		return appErrors.NewValidationError(err.Error())
	}

	if err := s.userRepo.Update(ctx, u); err != nil {
		s.logger.Errorw("failed to update password", "error", err, "user_id", id)
		return appErrors.NewInternalError(constants.ErrMsgInternalServerError)
	}

	s.logger.Infow("password changed", "user_id", id)
	return nil
}

// ListUsers returns a filtered page of users for the admin console.
func (s *Service) ListUsers(ctx context.Context, req dto.ListUsersRequest) ([]dto.UserResponse, int64, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = constants.DefaultPageSize
	}
	if pageSize > constants.MaxPageSize {
		pageSize = constants.MaxPageSize
	}

	users, total, err := s.userRepo.List(ctx, user.Filter{
		Role:               req.Role,
		SubscriptionStatus: req.SubscriptionStatus,
		Search:             strings.TrimSpace(req.Search),
		Page:               page,
		PageSize:           pageSize,
		SortBy:             "created_at",
		SortDesc:           true,
	})
	if err != nil {
		s.logger.Errorw("failed to list users", "error", err)
		return nil, 0, appErrors.NewInternalError(constants.ErrMsgInternalServerError)
	}

	return dto.FromUsers(users), total, nil
}

// AssignSubscription attaches an active plan to a user. This is the admin
// stand-in for a payment webhook.
func (s *Service) AssignSubscription(ctx context.Context, userID uint, req dto.AssignSubscriptionRequest) (*dto.UserResponse, error) {
	u, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	p, err := s.planRepo.GetByID(ctx, req.PlanID)
	if err != nil {
		s.logger.Errorw("failed to load plan", "error", err, "plan_id", req.PlanID)
		return nil, appErrors.NewInternalError(constants.ErrMsgInternalServerError)
	}
	if p == nil {
		return nil, appErrors.NewNotFoundError("pricing plan not found")
	}
	if !p.IsActive() {
		return nil, appErrors.NewValidationError("cannot subscribe to an inactive plan")
	}
	if req.EndsAt != nil && !req.EndsAt.After(s.now()) {
		return nil, appErrors.NewValidationError("subscription end date must be in the future")
	}

	if err := u.StartSubscription(p.ID(), req.EndsAt); err != nil {
		return nil, appErrors.NewValidationError(err.Error())
	}

	if err := s.userRepo.Update(ctx, u); err != nil {
		s.logger.Errorw("failed to assign subscription", "error", err, "user_id", userID)
		return nil, appErrors.NewInternalError(constants.ErrMsgInternalServerError)
	}

	s.logger.Infow("subscription assigned",
		"user_id", userID, "plan_id", p.ID(), "slug", p.Slug())
	s.publish(user.NewSubscriptionAssignedEvent(u, p.Name(), req.EndsAt, s.now()))
	resp := dto.FromUser(u)
	return &resp, nil
}

// CancelSubscription flags a user's subscription cancelled.
func (s *Service) CancelSubscription(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	u, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if u.SubscriptionStatus() != user.SubscriptionActive {
		return nil, appErrors.NewValidationError("user has no active subscription")
	}
	u.CancelSubscription()

	if err := s.userRepo.Update(ctx, u); err != nil {
		s.logger.Errorw("failed to cancel subscription", "error", err, "user_id", userID)
		return nil, appErrors.NewInternalError(constants.ErrMsgInternalServerError)
	}

	s.logger.Infow("subscription cancelled", "user_id", userID)
	s.publish(user.NewSubscriptionCancelledEvent(u, s.now()))
	resp := dto.FromUser(u)
	return &resp, nil
}

// SweepExpiredSubscriptions flags every active subscription whose end date
// has passed as expired and returns how many were swept. Entitlement
// resolution already treats past end dates as free, so the sweep only keeps
// the stored status honest.
func (s *Service) SweepExpiredSubscriptions(ctx context.Context) (int, error) {
	expired, err := s.userRepo.FindExpiredSubscriptions(ctx, s.now())
	if err != nil {
		s.logger.Errorw("failed to find expired subscriptions", "error", err)
		return 0, appErrors.NewInternalError(constants.ErrMsgInternalServerError)
	}

	swept := 0
	for _, u := range expired {
		u.ExpireSubscription()
		if err := s.userRepo.Update(ctx, u); err != nil {
			s.logger.Errorw("failed to expire subscription", "error", err, "user_id", u.ID())
			continue
		}
		s.publish(user.NewSubscriptionExpiredEvent(u, s.now()))
		swept++
	}

	if swept > 0 {
		s.logger.Infow("expired subscriptions swept", "count", swept)
	}
	return swept, nil
}

func (s *Service) authResponse(u *user.User) (*dto.AuthResponse, error) {
	pair, err := s.tokens.Generate(u.ID(), string(u.Role()))
	if err != nil {
		s.logger.Errorw("failed to issue tokens", "error", err, "user_id", u.ID())
		return nil, appErrors.NewInternalError(constants.ErrMsgInternalServerError)
	}

	return &dto.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
		User:         dto.FromUser(u),
	}, nil
}

func (s *Service) getUser(ctx context.Context, id uint) (*user.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Errorw("failed to load user", "error", err, "user_id", id)
		return nil, appErrors.NewInternalError(constants.ErrMsgInternalServerError)
	}
	if u == nil {
		return nil, appErrors.NewNotFoundError("user not found")
	}
	return u, nil
}
