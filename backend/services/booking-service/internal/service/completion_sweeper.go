package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// BookingCompleter completes active bookings whose window has ended.
type BookingCompleter interface {
	CompleteExpired(ctx context.Context, now time.Time) (int, error)
}

// CompletionSweeper periodically completes active bookings past their end time.
type CompletionSweeper struct {
	completer BookingCompleter
	interval  time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewCompletionSweeper builds a sweeper running every interval (one minute if unset).
func NewCompletionSweeper(completer BookingCompleter, interval time.Duration, logger *zap.Logger) *CompletionSweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompletionSweeper{
		completer: completer,
		interval:  interval,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Run sweeps once immediately and then on every tick until ctx is cancelled.
func (s *CompletionSweeper) Run(ctx context.Context) error {
	s.logger.Info("starting completion sweeper", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("completion sweeper stopped")
			return nil
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *CompletionSweeper) sweep(ctx context.Context) {
	count, err := s.completer.CompleteExpired(ctx, s.now())
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Error("completion sweep failed", zap.Error(err))
		}
		return
	}
	if count > 0 {
		s.logger.Info("completed expired bookings", zap.Int("count", count))
	}
}
