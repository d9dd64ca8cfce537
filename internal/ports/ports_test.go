package ports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubChecker reports err, or waits for ctx when delay is set.
type stubChecker struct {
	name  string
	err   error
	delay time.Duration
}

func (s stubChecker) Name() string { return s.name }

func (s stubChecker) Check(ctx context.Context) error {
	if s.delay == 0 {
		return s.err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.delay):
		return s.err
	}
}

func TestRegister(t *testing.T) {
	registry := NewHealthRegistry()

	require.NoError(t, registry.Register(stubChecker{name: "quotable"}))
	require.NoError(t, registry.Register(stubChecker{name: "favorites"}))

	err := registry.Register(stubChecker{name: "quotable"})
	require.ErrorIs(t, err, ErrDuplicateChecker)
	assert.Contains(t, err.Error(), "quotable")

	assert.Len(t, registry.CheckAll(context.Background()).Checks, 2)
}

func TestCheckAll(t *testing.T) {
	tests := []struct {
		name     string
		checkers []stubChecker
		want     HealthStatus
		messages map[string]string
	}{
		{
			name: "empty registry is healthy",
			want: HealthStatusHealthy,
		},
		{
			name: "all healthy",
			checkers: []stubChecker{
				{name: "quotable"},
				{name: "zenquotes"},
				{name: "favorites"},
			},
			want:     HealthStatusHealthy,
			messages: map[string]string{"quotable": "", "zenquotes": "", "favorites": ""},
		},
		{
			name: "open circuit makes it unhealthy",
			checkers: []stubChecker{
				{name: "quotable"},
				{name: "zenquotes", err: errors.New("circuit open")},
				{name: "favorites"},
			},
			want:     HealthStatusUnhealthy,
			messages: map[string]string{"quotable": "", "zenquotes": "circuit open", "favorites": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewHealthRegistry()
			for _, c := range tt.checkers {
				require.NoError(t, registry.Register(c))
			}

			result := registry.CheckAll(context.Background())

			assert.Equal(t, tt.want, result.Status)
			assert.False(t, result.Timestamp.IsZero())
			require.Len(t, result.Checks, len(tt.checkers))

			for name, msg := range tt.messages {
				assert.Equal(t, msg, result.Checks[name].Message, name)
			}
		})
	}
}

func TestCheckAll_Concurrent(t *testing.T) {
	registry := NewHealthRegistry()
	for _, name := range []string{"quotable", "zenquotes", "favorites"} {
		require.NoError(t, registry.Register(stubChecker{name: name, delay: 100 * time.Millisecond}))
	}

	start := time.Now()
	result := registry.CheckAll(context.Background())

	assert.Equal(t, HealthStatusHealthy, result.Status)
	assert.Less(t, time.Since(start), 250*time.Millisecond)
}

func TestCheckAll_PerCheckTimeout(t *testing.T) {
	registry := NewHealthRegistryWithTimeout(20 * time.Millisecond)
	require.NoError(t, registry.Register(stubChecker{name: "hung", delay: time.Second}))
	require.NoError(t, registry.Register(stubChecker{name: "favorites"}))

	result := registry.CheckAll(context.Background())

	assert.Equal(t, HealthStatusUnhealthy, result.Status)
	assert.Equal(t, HealthStatusHealthy, result.Checks["favorites"].Status)
	assert.Contains(t, result.Checks["hung"].Message, "deadline exceeded")
}

func TestCheckAll_CancelledContext(t *testing.T) {
	registry := NewHealthRegistryWithTimeout(0)
	require.NoError(t, registry.Register(stubChecker{name: "quotable", delay: time.Second}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := registry.CheckAll(ctx)

	assert.Equal(t, HealthStatusUnhealthy, result.Status)
	assert.Contains(t, result.Checks["quotable"].Message, "context canceled")
}
