// Package scheduler runs background maintenance jobs using gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/tailorcv/tailorcv/internal/shared/biztime"
	"github.com/tailorcv/tailorcv/internal/shared/logger"
)

// BatchJob is a scheduled batch task. Execute processes one batch and
// returns how many items it touched.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// Manager owns the gocron scheduler instance for all periodic jobs.
type Manager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.Mutex
}

// NewManager initializes gocron with the business timezone so cron
// expressions follow local day boundaries.
func NewManager(log logger.Interface) (*Manager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &Manager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// RegisterSubscriptionSweep schedules the daily pass that flags lapsed
// subscriptions as expired. It also runs once at startup to catch
// subscriptions that lapsed while the server was down.
func (m *Manager) RegisterSubscriptionSweep(job BatchJob) error {
	_, err := m.scheduler.NewJob(
		gocron.CronJob("10 0 * * *", false),
		gocron.NewTask(func() {
			m.runSweep(job)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName("subscription-sweep"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered subscription sweep job", "schedule", "daily 00:10")
	return nil
}

func (m *Manager) runSweep(job BatchJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	start := biztime.NowUTC()
	count, err := job.Execute(ctx)
	if err != nil {
		m.logger.Errorw("subscription sweep failed",
			"error", err, "duration", time.Since(start))
		return
	}
	if count > 0 {
		m.logger.Infow("subscription sweep completed",
			"swept", count, "duration", time.Since(start))
	}
}

// Start begins executing registered jobs.
func (m *Manager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()
	if m.started {
		return
	}
	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler started")
}

// Stop shuts the scheduler down, waiting for running jobs to finish.
func (m *Manager) Stop() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()
	if !m.started {
		return
	}
	if err := m.scheduler.Shutdown(); err != nil {
		m.logger.Errorw("failed to shut scheduler down", "error", err)
	}
	m.started = false
	m.logger.Infow("scheduler stopped")
}
