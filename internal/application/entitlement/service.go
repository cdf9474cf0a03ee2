package entitlement

import (
	"context"
	"time"

	"github.com/tailorcv/tailorcv/internal/application/entitlement/dto"
	"github.com/tailorcv/tailorcv/internal/domain/entitlement"
	"github.com/tailorcv/tailorcv/internal/domain/plan"
	"github.com/tailorcv/tailorcv/internal/domain/user"
	"github.com/tailorcv/tailorcv/internal/shared/biztime"
	"github.com/tailorcv/tailorcv/internal/shared/logger"
)

const (
	freePlanName = "Free Plan"
	freePlanSlug = "free"
)

// Service resolves what a user is entitled to: their effective plan, the
// capability set layered from the static tables and the plan's persisted
// override blob, and their usage against the resolved limits.
//
// Resolution never fails. Repository errors during plan lookup are logged
// and the user falls back to the free tier for that request.
type Service struct {
	catalog   *entitlement.Catalog
	planRepo  plan.Repository
	usageRepo UsageRepository
	logger    logger.Interface
	now       func() time.Time
}

func NewService(
	catalog *entitlement.Catalog,
	planRepo plan.Repository,
	usageRepo UsageRepository,
	logger logger.Interface,
) *Service {
	return &Service{
		catalog:   catalog,
		planRepo:  planRepo,
		usageRepo: usageRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// CurrentPlan returns the plan the user is actively subscribed to, or nil.
// A plan is current only when the subscription status is active, a plan
// reference is set, and the end date (if any) has not passed.
func (s *Service) CurrentPlan(ctx context.Context, u *user.User) *plan.Plan {
	if u == nil {
		return nil
	}

	if u.SubscriptionStatus() != user.SubscriptionActive || u.PricingPlanID() == nil {
		return nil
	}

	if endsAt := u.SubscriptionEndsAt(); endsAt != nil && endsAt.Before(s.now()) {
		return nil
	}

	p, err := s.planRepo.GetByID(ctx, *u.PricingPlanID())
	if err != nil {
		s.logger.Errorw("failed to load user's pricing plan, falling back to free tier",
			"error", err,
			"user_id", u.ID(),
			"plan_id", *u.PricingPlanID(),
		)
		return nil
	}
	if p == nil {
		s.logger.Warnw("user references a missing pricing plan",
			"user_id", u.ID(),
			"plan_id", *u.PricingPlanID(),
		)
		return nil
	}

	return p
}

// CurrentPlanData returns the client-facing plan descriptor. Guests and
// users without a current plan get the synthetic free descriptor.
func (s *Service) CurrentPlanData(ctx context.Context, u *user.User) dto.PlanData {
	if u == nil {
		return dto.PlanData{
			Name:   freePlanName,
			Slug:   freePlanSlug,
			Status: "guest",
			IsFree: true,
		}
	}

	p := s.CurrentPlan(ctx, u)
	if p == nil {
		return dto.PlanData{
			Name:   freePlanName,
			Slug:   freePlanSlug,
			Status: "free",
			IsFree: true,
		}
	}

	id := p.ID()
	return dto.PlanData{
		ID:                 &id,
		Name:               p.Name(),
		Slug:               p.Slug(),
		Status:             "active",
		IsFree:             false,
		SubscriptionEndsAt: u.SubscriptionEndsAt(),
	}
}

// ResolveCapabilities layers the capability tables for the user: admins get
// everything, users without a current plan get the free table, and
// subscribers get paid default + static slug override + the plan row's
// persisted override blob, in that order.
func (s *Service) ResolveCapabilities(ctx context.Context, u *user.User) entitlement.CapabilitySet {
	if u != nil && u.IsAdmin() {
		return entitlement.AdminCapabilities()
	}

	p := s.CurrentPlan(ctx, u)
	if p == nil {
		return s.catalog.Free()
	}

	resolved := s.catalog.ResolveForSlug(p.Slug())
	if override, ok := entitlement.ParseOverrideBlob(p.Features()); ok {
		resolved = entitlement.Merge(resolved, override)
	}
	return resolved
}

// CheckLimit evaluates a countable action against the user's resolved
// capabilities. The caller supplies the current used count.
func (s *Service) CheckLimit(ctx context.Context, u *user.User, key entitlement.LimitKey, used int, resourceLabel string) entitlement.LimitCheckResult {
	return s.ResolveCapabilities(ctx, u).CheckLimit(key, used, resourceLabel)
}

// CheckFeature evaluates a boolean capability for the user.
func (s *Service) CheckFeature(ctx context.Context, u *user.User, key entitlement.FeatureKey, featureLabel string) entitlement.FeatureCheckResult {
	return s.ResolveCapabilities(ctx, u).CheckFeature(key, featureLabel)
}

// Usage reads the user's current usage counters. The four counts are
// independent reads, not one snapshot. A guest has no usage.
func (s *Service) Usage(ctx context.Context, u *user.User) (dto.UsageSnapshot, error) {
	var snapshot dto.UsageSnapshot
	var err error

	if u == nil {
		return snapshot, nil
	}

	if snapshot.Cvs, err = s.usageRepo.CountCvs(ctx, u.ID()); err != nil {
		return dto.UsageSnapshot{}, err
	}
	if snapshot.CoverLetters, err = s.usageRepo.CountCoverLetters(ctx, u.ID()); err != nil {
		return dto.UsageSnapshot{}, err
	}
	if snapshot.JobApplications, err = s.usageRepo.CountJobApplications(ctx, u.ID()); err != nil {
		return dto.UsageSnapshot{}, err
	}

	dayStart, dayEnd := biztime.DayRangeUTC(s.now())
	if snapshot.AIMessagesToday, err = s.usageRepo.CountAIMessagesBetween(ctx, u.ID(), dayStart, dayEnd); err != nil {
		return dto.UsageSnapshot{}, err
	}

	return snapshot, nil
}

// UsedFor returns the usage counter that applies to key.
func (s *Service) UsedFor(ctx context.Context, u *user.User, key entitlement.LimitKey) (int, error) {
	if u == nil {
		return 0, nil
	}
	switch key {
	case entitlement.LimitCvs:
		return s.usageRepo.CountCvs(ctx, u.ID())
	case entitlement.LimitCoverLetters:
		return s.usageRepo.CountCoverLetters(ctx, u.ID())
	case entitlement.LimitJobApplications:
		return s.usageRepo.CountJobApplications(ctx, u.ID())
	case entitlement.LimitAIMessagesPerDay:
		dayStart, dayEnd := biztime.DayRangeUTC(s.now())
		return s.usageRepo.CountAIMessagesBetween(ctx, u.ID(), dayStart, dayEnd)
	default:
		return 0, nil
	}
}

// DashboardSummary builds the account dashboard payload: current plan,
// resolved feature flags, one usage row per limit, and the upgrade nudge.
func (s *Service) DashboardSummary(ctx context.Context, u *user.User) (dto.DashboardSummary, error) {
	planData := s.CurrentPlanData(ctx, u)
	capabilities := s.ResolveCapabilities(ctx, u)

	usage, err := s.Usage(ctx, u)
	if err != nil {
		return dto.DashboardSummary{}, err
	}

	usedByKey := map[entitlement.LimitKey]int{
		entitlement.LimitCvs:              usage.Cvs,
		entitlement.LimitCoverLetters:     usage.CoverLetters,
		entitlement.LimitJobApplications:  usage.JobApplications,
		entitlement.LimitAIMessagesPerDay: usage.AIMessagesToday,
	}

	items := make([]dto.LimitUsageItem, 0, len(usedByKey))
	reachedAny := false
	for _, key := range entitlement.AllLimitKeys() {
		used := usedByKey[key]
		check := capabilities.CheckLimit(key, used, entitlement.LimitLabel(key))
		reached := !check.Allowed
		if reached {
			reachedAny = true
		}
		items = append(items, dto.LimitUsageItem{
			Key:       string(key),
			Label:     entitlement.LimitLabel(key),
			Used:      used,
			Limit:     check.Limit,
			Remaining: check.Remaining,
			Reached:   reached,
		})
	}

	features := make(map[string]bool, len(capabilities.Features))
	for key, enabled := range capabilities.Features {
		features[string(key)] = enabled
	}

	return dto.DashboardSummary{
		CurrentPlan:   planData,
		Features:      features,
		Usage:         items,
		ShouldUpgrade: planData.IsFree || reachedAny,
	}, nil
}
