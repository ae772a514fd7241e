package common

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrRateLimited is returned for non vital requests that would exceed a
// restriction.
var ErrRateLimited = errors.New("rate limiter rejected the request")

// RateLimiter decides when requests may be sent so that none of its
// restrictions are exceeded. Vital requests wait for their turn, non vital
// ones are rejected when they would have to wait or when vital requests
// are queued.
type RateLimiter struct {
	mu                   sync.Mutex
	restrictions         []Restriction          // Restrictions to consider
	history              []time.Time            // History of requests
	duration             time.Duration          // Longest restriction window
	pendingVitalRequests map[uuid.UUID]struct{} // Set of pending vital requests
	cooldown             *Stopwatch             // Running after the server answered 429
	now                  func() time.Time
}

func NewRateLimiter(restrictions []Restriction, cooldown time.Duration) *RateLimiter {
	rl := &RateLimiter{
		restrictions:         append([]Restriction(nil), restrictions...),
		pendingVitalRequests: map[uuid.UUID]struct{}{},
		cooldown:             NewStopwatch(cooldown),
		now:                  time.Now,
	}
	for _, r := range restrictions {
		if r.Duration > rl.duration {
			rl.duration = r.Duration
		}
	}
	return rl
}

// Wait blocks until the request is allowed. Non vital requests never block:
// they either pass or get ErrRateLimited.
func (rl *RateLimiter) Wait(ctx context.Context, vital bool) error {

	// Give this request a unique identifier
	id := uuid.New()
	defer rl.forget(id)

	for {
		wait, err := rl.reserve(id, vital)
		if err != nil || wait == 0 {
			return err
		}
		log.Warn().Str("request", id.String()).Dur("wait", wait).Msg("Vital request delayed")
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// reserve records the request and returns zero if it may go now, or the
// time to wait before asking again.
func (rl *RateLimiter) reserve(id uuid.UUID, vital bool) (time.Duration, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.trim(now)
	analysis := rl.analyse(now)

	if analysis.allowed {
		if vital || len(rl.pendingVitalRequests) == 0 {
			delete(rl.pendingVitalRequests, id)
			rl.history = append(rl.history, now)
			return 0, nil
		}
		log.Warn().Msg("Rejecting non vital request because vital requests are queued")
		return 0, ErrRateLimited
	}
	if !vital {
		log.Warn().Msg("Rejecting a non vital request because restrictions do not allow it")
		return 0, ErrRateLimited
	}
	rl.pendingVitalRequests[id] = struct{}{}
	return analysis.wait, nil
}

func (rl *RateLimiter) forget(id uuid.UUID) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.pendingVitalRequests, id)
}

// ReceivedRateLimit blocks all requests for the cooldown period.
func (rl *RateLimiter) ReceivedRateLimit() {
	rl.cooldown.Start()
}

// Trim the current history, leaving only the requests
// that are young enough to be affected by at least one restriction
func (rl *RateLimiter) trim(now time.Time) {
	index := 0
	for i := len(rl.history) - 1; i >= 0; i-- {
		if now.Sub(rl.history[i]) >= rl.duration {
			index = i + 1
			break
		}
	}
	rl.history = rl.history[index:]
}

func (rl *RateLimiter) analyse(now time.Time) Analysis {
	if stopped, remaining := rl.cooldown.Stopped(); !stopped {
		return Analysis{false, remaining}
	}

	// Merge the analyses of every restriction
	merged := Analysis{allowed: true}
	for _, restriction := range rl.restrictions {
		analysis := restriction.Analyse(rl.history, now)
		merged.allowed = merged.allowed && analysis.allowed
		if analysis.wait > merged.wait {
			merged.wait = analysis.wait
		}
	}
	return merged
}
