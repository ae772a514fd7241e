package roster

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const DefaultBatchSize = 10

// Outcome is how a reconciliation pass ended.
type Outcome string

const (
	OutcomeIdle       Outcome = "noop"
	OutcomeUnchanged  Outcome = "unchanged"
	OutcomeNotified   Outcome = "notified"
	OutcomeFetchError Outcome = "fetch_error"
	OutcomeStoreError Outcome = "store_error"
)

// Result summarises one pass.
type Result struct {
	GuildID       string
	Outcome       Outcome
	Diff          Diff
	BatchesSent   int
	BatchesFailed int
	Persisted     bool
}

// Reconciler runs fetch, diff, notify and persist for one guild at a time.
// It keeps no per guild state of its own; concurrent passes for the same
// guild must be prevented by the caller (see Scheduler).
type Reconciler struct {
	fetcher   Fetcher
	store     Store
	emitter   Emitter
	keyMode   KeyMode
	batchSize int
	metrics   Metrics
	tracer    trace.Tracer
}

type Option func(*Reconciler)

func WithKeyMode(mode KeyMode) Option {
	return func(r *Reconciler) { r.keyMode = mode }
}

func WithBatchSize(size int) Option {
	return func(r *Reconciler) {
		if size > 0 {
			r.batchSize = size
		}
	}
}

func WithMetrics(m Metrics) Option {
	return func(r *Reconciler) {
		if m != nil {
			r.metrics = m
		}
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(r *Reconciler) {
		if t != nil {
			r.tracer = t
		}
	}
}

func NewReconciler(fetcher Fetcher, store Store, emitter Emitter, opts ...Option) *Reconciler {
	r := &Reconciler{
		fetcher:   fetcher,
		store:     store,
		emitter:   emitter,
		keyMode:   KeyByName,
		batchSize: DefaultBatchSize,
		metrics:   NoopMetrics,
		tracer:    noop.NewTracerProvider().Tracer("rosterbot/roster"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile performs one pass for guildID. The stored snapshot is only
// replaced after notifications were attempted, and never when fetching or
// reading the previous snapshot failed.
func (r *Reconciler) Reconcile(ctx context.Context, guildID string) (result Result, err error) {
	start := time.Now()
	result.GuildID = guildID

	ctx, span := r.tracer.Start(ctx, "roster.reconcile", trace.WithAttributes(
		attribute.String("guild_id", guildID),
		attribute.String("key_mode", r.keyMode.String()),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.SetAttributes(attribute.String("outcome", string(result.Outcome)))
		span.End()
		r.metrics.PassCompleted(result.Outcome, time.Since(start))
	}()

	logger := log.With().Str("guild", guildID).Str("pass", uuid.NewString()).Logger()

	tracking, err := r.store.Tracking(ctx, guildID)
	if err != nil {
		result.Outcome = OutcomeStoreError
		return result, fmt.Errorf("read tracking config: %w", err)
	}
	if !tracking.Enabled() {
		logger.Debug().Msg("Roster tracking not configured, skipping")
		result.Outcome = OutcomeIdle
		return result, nil
	}

	logger.Debug().Str("identity", tracking.Identity.String()).Msg("Comparing guild rosters")
	entries, err := r.fetcher.FetchRoster(ctx, tracking.Identity)
	if err != nil {
		result.Outcome = OutcomeFetchError
		logFetchError(logger, err)
		return result, fmt.Errorf("fetch roster: %w", err)
	}
	current := NewRoster(entries)

	previous, err := r.store.Snapshot(ctx, guildID)
	if err != nil {
		result.Outcome = OutcomeStoreError
		return result, fmt.Errorf("read snapshot: %w", err)
	}

	result.Diff = Compare(Rekey(previous, r.keyMode), Rekey(current, r.keyMode))
	if result.Diff.Empty() {
		logger.Debug().Msg("No difference in guild roster")
		result.Outcome = OutcomeUnchanged
		return result, nil
	}
	logger.Info().
		Int("added", len(result.Diff.Added)).
		Int("changed", len(result.Diff.Changed)).
		Int("removed", len(result.Diff.Removed)).
		Msg("Guild roster changed")

	r.metrics.EventsEmitted(Added, len(result.Diff.Added))
	r.metrics.EventsEmitted(Changed, len(result.Diff.Changed))
	r.metrics.EventsEmitted(Removed, len(result.Diff.Removed))

	for i, batch := range Batches(result.Diff.Events(), r.batchSize) {
		if err := r.emitter.Send(ctx, guildID, batch); err != nil {
			logger.Error().Err(err).Int("batch", i).Int("size", len(batch)).Msg("Could not send roster changes")
			result.BatchesFailed++
			r.metrics.BatchFailed()
			continue
		}
		result.BatchesSent++
	}

	// Persist even when the pass context was cancelled during notification.
	if err := r.store.SetSnapshot(context.WithoutCancel(ctx), guildID, current); err != nil {
		result.Outcome = OutcomeStoreError
		return result, fmt.Errorf("store snapshot: %w", err)
	}
	result.Persisted = true
	result.Outcome = OutcomeNotified
	return result, nil
}

// Seed stores the live roster as the snapshot without announcing anything,
// so enabling the log channel does not post the whole guild as new members.
func (r *Reconciler) Seed(ctx context.Context, guildID string, id Identity) (Roster, error) {
	entries, err := r.fetcher.FetchRoster(ctx, id)
	if err != nil {
		return nil, err
	}
	current := NewRoster(entries)
	if err := r.store.SetSnapshot(ctx, guildID, current); err != nil {
		return nil, fmt.Errorf("store snapshot: %w", err)
	}
	return current, nil
}

func logFetchError(logger zerolog.Logger, err error) {
	switch {
	case errors.Is(err, ErrNotConfigured), errors.Is(err, ErrAuthInvalid):
		logger.Warn().Err(err).Msg(OperatorMessage(err))
	case errors.Is(err, ErrTransient):
		logger.Debug().Err(err).Msg("Roster fetch failed, will retry on the next pass")
	default:
		logger.Error().Err(err).Msg("Roster fetch failed")
	}
}
