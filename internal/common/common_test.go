package common

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestStopwatch(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	s := NewStopwatch(time.Minute)
	s.now = clock.now

	stopped, _ := s.Stopped()
	assert.True(t, stopped, "never started")

	s.Start()
	stopped, remaining := s.Stopped()
	assert.False(t, stopped)
	assert.Equal(t, time.Minute, remaining)

	clock.advance(time.Minute)
	stopped, remaining = s.Stopped()
	assert.True(t, stopped)
	assert.Zero(t, remaining)
}

func TestRestrictionAnalyse(t *testing.T) {
	now := time.Unix(1000, 0)
	rest := Restriction{Requests: 2, Duration: 10 * time.Second}

	assert.True(t, rest.Analyse(nil, now).allowed)

	history := []time.Time{now.Add(-20 * time.Second), now.Add(-4 * time.Second)}
	assert.True(t, rest.Analyse(history, now).allowed)

	history = append(history, now.Add(-1*time.Second))
	analysis := rest.Analyse(history, now)
	assert.False(t, analysis.allowed)
	assert.Equal(t, 6*time.Second, analysis.wait)
}

func TestRateLimiterRejectsNonVital(t *testing.T) {
	rl := NewRateLimiter([]Restriction{{Requests: 1, Duration: time.Hour}}, time.Minute)
	ctx := context.Background()

	require.NoError(t, rl.Wait(ctx, false))
	assert.ErrorIs(t, rl.Wait(ctx, false), ErrRateLimited)
}

func TestRateLimiterVitalWaitsForContext(t *testing.T) {
	rl := NewRateLimiter([]Restriction{{Requests: 1, Duration: time.Hour}}, time.Minute)
	require.NoError(t, rl.Wait(context.Background(), true))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := rl.Wait(ctx, true)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, rl.pendingVitalRequests)
}

func TestRateLimiterCooldown(t *testing.T) {
	rl := NewRateLimiter(nil, time.Hour)
	require.NoError(t, rl.Wait(context.Background(), false))
	rl.ReceivedRateLimit()
	assert.ErrorIs(t, rl.Wait(context.Background(), false), ErrRateLimited)
}

func TestTimedExecutor(t *testing.T) {
	runs := 0
	te := NewTimedExecutor(time.Hour, func(context.Context) { runs++ })

	assert.True(t, te.Execute(context.Background()))
	assert.False(t, te.Execute(context.Background()), "timeout not reached")
	assert.Equal(t, 1, runs)
}

func TestTimedExecutorSkipsWhileRunning(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	te := NewTimedExecutor(0, func(context.Context) {
		close(started)
		<-release
	})

	done := make(chan bool)
	go func() { done <- te.Execute(context.Background()) }()
	<-started
	assert.True(t, te.Running())
	assert.False(t, te.Execute(context.Background()))
	close(release)
	assert.True(t, <-done)
	assert.False(t, te.Running())
}

func TestProxyRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-Token"))
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte(`{"ok":true}`))
		case "/slow-down":
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	rl := NewRateLimiter(nil, time.Hour)
	proxy := NewProxy(server.Client(), map[string]string{"X-Token": "secret"}, rl)
	ctx := context.Background()

	data, err := proxy.Request(ctx, server.URL+"/ok", true)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(data))

	_, err = proxy.Request(ctx, server.URL+"/missing", true)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.Code)

	_, err = proxy.Request(ctx, server.URL+"/slow-down", true)
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTooManyRequests, statusErr.Code)
	_, err = proxy.Request(ctx, server.URL+"/ok", false)
	assert.ErrorIs(t, err, ErrRateLimited)
}
