package site

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Loader is a collection that can refetch its full list.
type Loader interface {
	Name() string
	Load(ctx context.Context) error
}

// LoadAll loads every collection concurrently. All loads run to completion;
// the first error is returned and the rest stay visible in each collection's state.
func LoadAll(ctx context.Context, loaders ...Loader) error {
	var g errgroup.Group
	for _, l := range loaders {
		g.Go(func() error {
			if err := l.Load(ctx); err != nil {
				return fmt.Errorf("load %s: %w", l.Name(), err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Scheduler refetches collections on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	logger  *zap.Logger
	loaders []Loader
}

// NewScheduler parses spec (standard five-field cron or a descriptor such
// as "@every 5m").
func NewScheduler(spec string, logger *zap.Logger, loaders ...Loader) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scheduler{
		cron:    cron.New(),
		logger:  logger.With(zap.String("component", "scheduler")),
		loaders: loaders,
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("refresh scheduler started", zap.Int("collections", len(s.loaders)))
}

// Stop halts the schedule and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) run() {
	if err := LoadAll(context.Background(), s.loaders...); err != nil {
		s.logger.Warn("scheduled refresh failed", zap.Error(err))
		return
	}
	s.logger.Debug("scheduled refresh completed")
}
