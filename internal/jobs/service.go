package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/oguzsenturk/vitalshop-backend/pkg/config"
	"github.com/oguzsenturk/vitalshop-backend/pkg/logger"
	"github.com/oguzsenturk/vitalshop-backend/pkg/metrics"
)

// Job is one unit of scheduled maintenance work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Lock keeps multiple instances from running the same cycle at once.
type Lock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// ServiceParams configure the maintenance loop.
type ServiceParams struct {
	Logger  *logger.Logger
	Lock    Lock
	Metrics *metrics.JobMetrics
	Config  config.JobsConfig
	Jobs    []Job
}

// Service executes registered jobs on a fixed cadence.
type Service struct {
	logg    *logger.Logger
	lock    Lock
	metrics *metrics.JobMetrics
	cfg     config.JobsConfig
	jobs    []Job
}

// NewService builds the maintenance service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Lock == nil {
		return nil, fmt.Errorf("lock required")
	}
	if params.Config.Interval <= 0 {
		return nil, fmt.Errorf("positive interval required")
	}
	return &Service{
		logg:    params.Logger,
		lock:    params.Lock,
		metrics: params.Metrics,
		cfg:     params.Config,
		jobs:    params.Jobs,
	}, nil
}

// Run starts the loop until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	if err := s.runCycle(ctx); err != nil {
		s.logg.Error(ctx, "maintenance run failed", err)
	}
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "maintenance loop stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := s.runCycle(ctx); err != nil {
				s.logg.Error(ctx, "maintenance run failed", err)
			}
		}
	}
}

func (s *Service) runCycle(ctx context.Context) error {
	locked, err := s.lock.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("lock acquire: %w", err)
	}
	if !locked {
		s.logg.Info(ctx, "another instance holds the maintenance lock, skipping cycle")
		return nil
	}
	defer func() {
		if relErr := s.lock.Release(ctx); relErr != nil {
			s.logg.Error(ctx, "failed to release maintenance lock", relErr)
		}
	}()

	for _, job := range s.jobs {
		s.runJob(ctx, job)
	}
	return nil
}

func (s *Service) runJob(ctx context.Context, job Job) {
	jobCtx := s.logg.WithField(ctx, "job", job.Name())
	start := time.Now()
	err := job.Run(jobCtx)
	elapsed := time.Since(start)
	s.metrics.ObserveRun(job.Name(), err == nil, elapsed)
	jobCtx = s.logg.WithField(jobCtx, "duration_ms", elapsed.Milliseconds())
	if err != nil {
		s.logg.Error(jobCtx, "job failed", err)
		return
	}
	s.logg.Info(jobCtx, "job completed")
}
