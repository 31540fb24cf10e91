package application

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/animation-wardrobe/internal/domain"
	"github.com/bnema/animation-wardrobe/internal/ports"
	"github.com/rs/zerolog"
)

const DefaultTickInterval = 50 * time.Millisecond

// Scheduler holds follow-up commands until they are due. Enqueue and Tick may run on
// different goroutines; the mutex covers the whole scan-and-remove pass.
type Scheduler struct {
	sink  ports.CommandSink
	clock ports.Clock
	log   zerolog.Logger

	mu      sync.Mutex
	pending []domain.PendingCommand
}

func NewScheduler(sink ports.CommandSink, clock ports.Clock, logger zerolog.Logger) *Scheduler {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Scheduler{
		sink:  sink,
		clock: clock,
		log:   logger.With().Str("component", "scheduler").Logger(),
	}
}

func (s *Scheduler) Enqueue(text string, delay time.Duration) domain.PendingCommand {
	if delay < 0 {
		delay = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	command := domain.PendingCommand{Text: text, Due: s.clock.Now().Add(delay)}
	s.pending = append(s.pending, command)
	s.log.Debug().Str("command", text).Dur("delay", delay).Time("due", command.Due).Msg("scheduled command")

	return command
}

// Tick submits every command due at now and forgets it, whatever the submission outcome.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pending) == 0 {
		return 0
	}

	submitted := 0
	kept := s.pending[:0]
	for _, command := range s.pending {
		if now.Before(command.Due) {
			kept = append(kept, command)
			continue
		}

		s.log.Info().Str("command", command.Text).Msg("executing delayed command")
		if err := s.sink.Submit(ctx, command.Text); err != nil {
			s.log.Warn().Err(err).Str("command", command.Text).Msg("delayed command failed")
		}
		submitted++
	}

	for i := len(kept); i < len(s.pending); i++ {
		s.pending[i] = domain.PendingCommand{}
	}
	s.pending = kept

	return submitted
}

func (s *Scheduler) Pending() []domain.PendingCommand {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := make([]domain.PendingCommand, len(s.pending))
	copy(pending, s.pending)

	return pending
}

func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.pending)
}

// Run ticks at interval until ctx ends.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultTickInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Tick(ctx, s.clock.Now())
		}
	}
}

// Drain ticks at interval until nothing is pending or ctx ends.
func (s *Scheduler) Drain(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultTickInterval
	}

	for s.Len() > 0 {
		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		s.Tick(ctx, s.clock.Now())
	}

	return nil
}
