package sweeper

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Expiry is advisory data on the reservation row; nothing fires at the
// moment a hold lapses. The sweeper is the external process the core
// expects: on a schedule it releases every stale hold it finds.
type HoldReleaser interface {
	ReleaseExpired(ctx context.Context, limit int) (int, error)
}

type Sweeper struct {
	cron     *cron.Cron
	releaser HoldReleaser
	logger   *zap.Logger
	schedule string
	batch    int
}

func New(releaser HoldReleaser, schedule string, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		cron:     cron.New(),
		releaser: releaser,
		logger:   logger,
		schedule: schedule,
		batch:    500,
	}
}

func (s *Sweeper) Start() error {
	_, err := s.cron.AddFunc(s.schedule, s.sweep)
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("expired-hold sweeper started", zap.String("schedule", s.schedule))
	return nil
}

func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("expired-hold sweeper stopped")
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	released, err := s.releaser.ReleaseExpired(ctx, s.batch)
	if err != nil {
		s.logger.Error("expired-hold sweep failed", zap.Error(err))
		return
	}
	if released > 0 {
		s.logger.Info("expired holds released", zap.Int("count", released))
	}
}
