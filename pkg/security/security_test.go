package security

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "e***@example.com", MaskEmail("emily@example.com"))
	assert.Equal(t, "***", MaskEmail("ab"))
	assert.Equal(t, "***@x.io", MaskEmail("a@x.io"))
	assert.Equal(t, "***oatsign", MaskEmail("noatsign"))
}

func TestHashValueIsStable(t *testing.T) {
	assert.Len(t, HashValue("secret"), 16)
	assert.Equal(t, HashValue("secret"), HashValue("secret"))
	assert.NotEqual(t, HashValue("secret"), HashValue("other"))
}

func TestSecurityLoggerLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sl := NewSecurityLoggerWith(zap.New(core), "coachflow-backend", "test")
	ctx := context.Background()

	sl.LogLoginFailed(ctx, "emily@example.com", "10.0.0.1", "ua", "req-1", "invalid_credentials")
	sl.LogBlockCreated(ctx, "email", "emily@example.com", "10.0.0.1", "req-1", 15)
	sl.LogAccessDenied(ctx, "", "10.0.0.1", "req-2", "/api/bookings", "book_sessions")
	sl.LogRolesChanged(ctx, "admin-1", "acc-1", []string{"coach"})

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "login_failed", entries[0].Message)
	assert.Equal(t, "e***@example.com", entries[0].ContextMap()["subject_value"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "unauthorized_access", entries[2].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[3].Level)
	assert.Equal(t, "coachflow-backend", entries[3].ContextMap()["service"])
}

func TestNilSecurityLoggerIsSafe(t *testing.T) {
	var sl *SecurityLogger
	assert.NotPanics(t, func() {
		sl.LogLoginFailed(context.Background(), "a@b.c", "", "", "", "x")
		_ = sl.Sync()
	})
}

func TestLoginTrackerWithoutRedisFailsOpen(t *testing.T) {
	lt := NewLoginTracker(LoginTrackerConfig{}, nil, NewSecurityLoggerWith(zap.NewNop(), "svc", "test"))
	ctx := context.Background()

	blocked, err := lt.IsBlocked(ctx, "emily@example.com", "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, blocked)

	for i := 0; i < 10; i++ {
		shouldBlock, count, err := lt.RecordFailedAttempt(ctx, "emily@example.com", "10.0.0.1", "", "")
		require.NoError(t, err)
		assert.False(t, shouldBlock)
		assert.Zero(t, count)
	}

	remaining, err := lt.RemainingAttempts(ctx, "emily@example.com")
	require.NoError(t, err)
	assert.Equal(t, 5, remaining)
	assert.NoError(t, lt.ClearAttempts(ctx, "emily@example.com", ""))
}

func TestSecurityLoggerPersistsWithSeverity(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sl := NewSecurityLoggerWith(zap.New(core), "coachflow-backend", "test")

	var mu sync.Mutex
	var persisted []SecurityEvent
	sl.SetPersistFunc(func(_ context.Context, e SecurityEvent) error {
		mu.Lock()
		defer mu.Unlock()
		persisted = append(persisted, e)
		if e.Event == EventRateLimitTriggered {
			return errors.New("db down")
		}
		return nil
	})

	sl.LogLoginBlocked(context.Background(), "emily@example.com", "10.0.0.1", "ua", "req-1")
	sl.LogRateLimitTriggered(context.Background(), "10.0.0.1", "ua", "req-2", "/api/auth/login")
	require.NoError(t, sl.Sync())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, persisted, 2)
	for _, e := range persisted {
		assert.Equal(t, "coachflow-backend", e.Service)
		assert.Equal(t, "test", e.Environment)
		if e.Event == EventLoginBlocked {
			assert.Equal(t, SeverityHIGH, e.Severity)
		}
	}
	assert.Equal(t, 1, logs.FilterMessage("Failed to persist security event").Len())
}

func TestSeverity(t *testing.T) {
	assert.Equal(t, SeverityWARN, GetSeverity(EventLoginFailed))
	assert.Equal(t, SeverityMEDIUM, GetSeverity(EventType("something_new")))
	assert.True(t, IsHighOrAbove(EventBlockCreated))
	assert.False(t, IsHighOrAbove(EventForbiddenAccess))
	assert.True(t, IsKnownSeverity("CRITICAL"))
	assert.False(t, IsKnownSeverity("high"))
}
