package roster

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"rosterbot/internal/common"
)

const DefaultInterval = 5 * time.Minute

// Scheduler drives periodic reconciliation passes. Each guild gets its own
// executor so a slow guild only skips its own ticks.
type Scheduler struct {
	reconciler *Reconciler
	guilds     GuildLister
	interval   time.Duration
	metrics    Metrics

	mu        sync.Mutex
	executors map[string]*common.TimedExecutor
	wg        sync.WaitGroup
}

func NewScheduler(reconciler *Reconciler, guilds GuildLister, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		reconciler: reconciler,
		guilds:     guilds,
		interval:   interval,
		metrics:    reconciler.metrics,
		executors:  map[string]*common.TimedExecutor{},
	}
}

// Run ticks until ctx is cancelled and then waits for in-flight passes.
func (s *Scheduler) Run(ctx context.Context) {
	log.Info().Dur("interval", s.interval).Msg("Starting roster reconciliation")
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.tick(ctx)
		select {
		case <-ctx.Done():
			log.Info().Msg("Stopping roster reconciliation, waiting for running passes")
			s.wg.Wait()
			return
		case <-ticker.C:
		}
	}
}

// RunOnce starts a pass for every guild and waits for all of them.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.tick(ctx)
	s.wg.Wait()
}

func (s *Scheduler) tick(ctx context.Context) {
	guildIDs, err := s.guilds.Guilds(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Could not list guilds for reconciliation")
		return
	}
	for _, guildID := range guildIDs {
		executor := s.executor(guildID)
		if executor.Running() {
			log.Debug().Str("guild", guildID).Msg("Previous pass still running, skipping tick")
			s.metrics.TickSkipped()
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if !executor.Execute(ctx) {
				s.metrics.TickSkipped()
			}
		}()
	}
}

func (s *Scheduler) executor(guildID string) *common.TimedExecutor {
	s.mu.Lock()
	defer s.mu.Unlock()
	executor, ok := s.executors[guildID]
	if !ok {
		executor = common.NewTimedExecutor(0, func(ctx context.Context) {
			s.pass(ctx, guildID)
		})
		s.executors[guildID] = executor
	}
	return executor
}

// pass isolates one guild: errors and panics are logged, never propagated.
func (s *Scheduler) pass(ctx context.Context, guildID string) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("guild", guildID).Err(fmt.Errorf("panic: %v", r)).Msg("Reconciliation pass panicked")
		}
	}()
	result, err := s.reconciler.Reconcile(ctx, guildID)
	if err != nil {
		log.Debug().Str("guild", guildID).Err(err).Str("outcome", string(result.Outcome)).Msg("Reconciliation pass aborted")
	}
}
