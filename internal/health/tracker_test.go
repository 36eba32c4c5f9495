package health

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oborchers/mcp-server-pacman/internal/errors"
	"github.com/oborchers/mcp-server-pacman/internal/packages"
)

func TestDuration_MarshalJSON(t *testing.T) {
	t.Parallel()

	tc := []struct {
		name     string
		duration *Duration
		expected string
	}{
		{name: "nil", duration: nil, expected: "null"},
		{name: "milliseconds", duration: func() *Duration { d := Duration(150 * time.Millisecond); return &d }(), expected: `"150ms"`},
		{name: "seconds", duration: func() *Duration { d := Duration(2 * time.Second); return &d }(), expected: `"2s"`},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := tt.duration.MarshalJSON()
			require.NoError(t, err)
			require.Equal(t, tt.expected, string(out))
		})
	}
}

func TestNewTracker(t *testing.T) {
	t.Parallel()

	tracker := NewTracker(packages.IndexPyPI, packages.IndexNpm)
	list := tracker.List()
	require.Len(t, list, 2)
	require.Equal(t, packages.IndexNpm, list[0].Index)
	require.Equal(t, packages.IndexPyPI, list[1].Index)
	for _, h := range list {
		require.Equal(t, StatusUnknown, h.Status)
		require.Nil(t, h.LastChecked)
	}
}

func TestTracker_Status_NotTracked(t *testing.T) {
	t.Parallel()

	tracker := NewTracker(packages.IndexPyPI)
	_, err := tracker.Status(packages.IndexCrates)
	require.ErrorIs(t, err, errors.ErrHealthNotTracked)

	err = tracker.Record(packages.IndexCrates, 0, nil)
	require.ErrorIs(t, err, errors.ErrHealthNotTracked)
}

func TestTracker_Record(t *testing.T) {
	t.Parallel()

	tracker := NewTracker(packages.IndexCrates)

	require.NoError(t, tracker.Record(packages.IndexCrates, 40*time.Millisecond, nil))
	h, err := tracker.Status(packages.IndexCrates)
	require.NoError(t, err)
	require.Equal(t, StatusOK, h.Status)
	require.NotNil(t, h.LastSuccessful)
	require.Equal(t, Duration(40*time.Millisecond), *h.Latency)
	successful := *h.LastSuccessful

	boom := fmt.Errorf("%w: connection refused", errors.ErrUpstreamUnavailable)
	require.NoError(t, tracker.Record(packages.IndexCrates, time.Millisecond, boom))
	h, err = tracker.Status(packages.IndexCrates)
	require.NoError(t, err)
	require.Equal(t, StatusUnreachable, h.Status)
	require.Equal(t, boom.Error(), h.LastError)
	require.Equal(t, successful, *h.LastSuccessful, "last successful is preserved on failure")
}

func TestStatusFor(t *testing.T) {
	t.Parallel()

	tc := []struct {
		name     string
		err      error
		expected Status
	}{
		{name: "success", err: nil, expected: StatusOK},
		{name: "not found", err: fmt.Errorf("wrapped: %w", errors.ErrPackageNotFound), expected: StatusOK},
		{name: "bad request", err: errors.ErrBadRequest, expected: StatusOK},
		{name: "deadline", err: fmt.Errorf("%w: %w", errors.ErrUpstreamUnavailable, context.DeadlineExceeded), expected: StatusTimeout},
		{name: "unavailable", err: errors.ErrUpstreamUnavailable, expected: StatusUnreachable},
		{name: "bad status", err: errors.ErrUpstreamStatus, expected: StatusError},
		{name: "parse", err: errors.ErrUpstreamParse, expected: StatusError},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, StatusFor(tt.err))
		})
	}
}

func TestTracker_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	indices := packages.Indices{packages.IndexPyPI, packages.IndexNpm, packages.IndexCrates, packages.IndexDocker}
	tracker := NewTracker(indices...)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			idx := indices[i%len(indices)]
			_ = tracker.Record(idx, time.Duration(i)*time.Millisecond, nil)
			_, _ = tracker.Status(idx)
			_ = tracker.List()
		}()
	}
	wg.Wait()

	for _, h := range tracker.List() {
		require.Equal(t, StatusOK, h.Status)
	}
}

func TestIndexHealth_JSON(t *testing.T) {
	t.Parallel()

	tracker := NewTracker(packages.IndexDocker)
	latency := 250 * time.Millisecond
	require.NoError(t, tracker.Record(packages.IndexDocker, latency, nil))

	h, err := tracker.Status(packages.IndexDocker)
	require.NoError(t, err)

	data, err := json.Marshal(h)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, "docker", decoded["index"])
	require.Equal(t, "ok", decoded["status"])
	require.Equal(t, "250ms", decoded["latency"])
	require.Contains(t, decoded, "last_checked")
	require.NotContains(t, decoded, "last_error")
}
