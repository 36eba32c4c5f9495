// Package health tracks the observed availability of each package index.
package health

import (
	"context"
	stdErrors "errors"
	"fmt"
	"net"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/oborchers/mcp-server-pacman/internal/errors"
	"github.com/oborchers/mcp-server-pacman/internal/packages"
)

const (
	StatusOK          Status = "ok"
	StatusTimeout     Status = "timeout"
	StatusUnreachable Status = "unreachable"
	StatusError       Status = "error"
	StatusUnknown     Status = "unknown"
)

// Status represents the last observed state of an upstream index.
type Status string

// Duration marshals as a Go duration string, e.g. "120ms".
type Duration time.Duration

// IndexHealth is the health record of a single index.
type IndexHealth struct {
	Index          packages.Index `json:"index" yaml:"index"`
	Status         Status         `json:"status" yaml:"status"`
	Latency        *Duration      `json:"latency,omitempty" yaml:"latency,omitempty"`
	LastChecked    *time.Time     `json:"last_checked,omitempty" yaml:"last_checked,omitempty"`
	LastSuccessful *time.Time     `json:"last_successful,omitempty" yaml:"last_successful,omitempty"`
	LastError      string         `json:"last_error,omitempty" yaml:"last_error,omitempty"`
}

// Tracker records the outcome of requests made to each index.
// It is safe for concurrent use.
type Tracker struct {
	mu       sync.RWMutex
	statuses map[packages.Index]IndexHealth
}

func (d *Duration) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("null"), nil
	}
	s := fmt.Sprintf(`"%s"`, time.Duration(*d).String())
	return []byte(s), nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// NewTracker creates a Tracker with every supplied index in the unknown state.
func NewTracker(indices ...packages.Index) *Tracker {
	statuses := make(map[packages.Index]IndexHealth, len(indices))
	for _, idx := range indices {
		statuses[idx] = IndexHealth{Index: idx, Status: StatusUnknown}
	}
	return &Tracker{
		statuses: statuses,
	}
}

// Status returns the health record for a single tracked index.
func (t *Tracker) Status(idx packages.Index) (IndexHealth, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if h, ok := t.statuses[idx]; ok {
		return h, nil
	}

	return IndexHealth{}, fmt.Errorf("%w: %s", errors.ErrHealthNotTracked, idx)
}

// List returns a copy of all health records, ordered by index name.
func (t *Tracker) List() []IndexHealth {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]IndexHealth, 0, len(t.statuses))
	for _, h := range t.statuses {
		out = append(out, h)
	}
	slices.SortFunc(out, func(a, b IndexHealth) int {
		return strings.Compare(string(a.Index), string(b.Index))
	})
	return out
}

// Record classifies err with StatusFor and stores the result for idx.
// The current time is recorded as LastChecked, and LastSuccessful is updated only on success.
func (t *Tracker) Record(idx packages.Index, latency time.Duration, err error) error {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return t.update(idx, StatusFor(err), &latency, msg)
}

func (t *Tracker) update(idx packages.Index, status Status, latency *time.Duration, lastErr string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now().UTC()

	prev, exists := t.statuses[idx]
	if !exists {
		return fmt.Errorf("%w: %s", errors.ErrHealthNotTracked, idx)
	}

	lastSuccessful := prev.LastSuccessful
	if status == StatusOK {
		lastSuccessful = &now
	}

	var duration *Duration
	if latency != nil {
		d := Duration(*latency)
		duration = &d
	}

	t.statuses[idx] = IndexHealth{
		Index:          idx,
		Status:         status,
		Latency:        duration,
		LastChecked:    &now,
		LastSuccessful: lastSuccessful,
		LastError:      lastErr,
	}

	return nil
}

// StatusFor maps the outcome of an upstream request to a Status.
// An index that answered, even with 404 or a rejected request, is considered reachable.
func StatusFor(err error) Status {
	if err == nil {
		return StatusOK
	}

	var netErr net.Error
	switch {
	case stdErrors.Is(err, errors.ErrPackageNotFound),
		stdErrors.Is(err, errors.ErrBadRequest),
		stdErrors.Is(err, errors.ErrUnsupportedIndex):
		return StatusOK
	case stdErrors.Is(err, context.DeadlineExceeded),
		stdErrors.As(err, &netErr) && netErr.Timeout():
		return StatusTimeout
	case stdErrors.Is(err, errors.ErrUpstreamUnavailable):
		return StatusUnreachable
	default:
		return StatusError
	}
}
