package scheduler

import (
	"context"

	userapp "github.com/tailorcv/tailorcv/internal/application/user"
)

// SubscriptionSweepJob adapts the user service's expiry sweep to the
// BatchJob interface.
type SubscriptionSweepJob struct {
	users *userapp.Service
}

func NewSubscriptionSweepJob(users *userapp.Service) *SubscriptionSweepJob {
	return &SubscriptionSweepJob{users: users}
}

func (j *SubscriptionSweepJob) Execute(ctx context.Context) (int, error) {
	return j.users.SweepExpiredSubscriptions(ctx)
}
