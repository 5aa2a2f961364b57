package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/campushub/campushub/internal/campus/domain"
	"github.com/campushub/campushub/internal/campus/store"
	"github.com/campushub/campushub/pkg/slogx"
)

// HousekeepingService advances event lifecycle states on a timer:
// published events whose start has passed become ongoing, and ongoing
// events whose end has passed become completed. Cancellation is always
// explicit and never touched here.
type HousekeepingService struct {
	Store    store.Store
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

const DefaultHousekeepingInterval = time.Minute

// Start launches the background sweep loop. Call Stop to halt it.
func (s *HousekeepingService) Start(ctx context.Context) {
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultHousekeepingInterval
	}

	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})

	go func() {
		defer close(s.doneCh)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.Sweep(ctx)
			case <-s.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts the sweep loop and waits for it to exit.
func (s *HousekeepingService) Stop() {
	if s.stopCh == nil {
		return
	}
	close(s.stopCh)
	<-s.doneCh
	s.stopCh = nil
}

// Sweep runs one pass of the lifecycle advancement. Safe to call
// directly, which the tests do.
func (s *HousekeepingService) Sweep(ctx context.Context) {
	now := time.Now().UTC()
	s.advance(ctx, domain.EventPublished, domain.EventOngoing, now)
	s.advance(ctx, domain.EventOngoing, domain.EventCompleted, now)
}

func (s *HousekeepingService) advance(ctx context.Context, from, to domain.EventStatus, now time.Time) {
	log := slogx.FromContext(ctx)

	due, err := s.Store.Events().ListEventsDue(ctx, from, now)
	if err != nil {
		log.Error("housekeeping list failed",
			slog.String("from", string(from)),
			slog.Any("error", err),
		)
		return
	}

	for _, event := range due {
		if err := s.Store.Events().UpdateEventStatus(ctx, event.ID, to); err != nil {
			log.Error("housekeeping advance failed",
				slog.String("event_id", event.ID),
				slog.Any("error", err),
			)
			continue
		}
		log.Info("event advanced",
			slog.String("event_id", event.ID),
			slog.String("from", string(from)),
			slog.String("to", string(to)),
		)
	}
}
