// Package refine decides when abstraction refinement should stop.
//
// A Monitor watches the precision size after every refinement iteration.
// When the size has not grown for a threshold number of consecutive
// observations the monitor latches into the stopped state. An optional
// external criterion can latch it as well.
package refine

import (
	"log/slog"

	"github.com/roach88/precreuse/internal/ir"
)

// DefaultThreshold is the number of consecutive non-growing observations
// after which refinement is considered stuck.
const DefaultThreshold = 10

// Iteration is one observation handed to a Recorder.
type Iteration struct {
	// Index counts observations from 1.
	Index int `json:"index"`
	Size  int `json:"size"`
	// NonGrowth is the consecutive non-growth counter after this
	// observation.
	NonGrowth int `json:"non_growth"`
	// Stuck is the monitor's latch after this observation.
	Stuck bool `json:"stuck"`
}

// Recorder receives every observation.
type Recorder interface {
	RecordIteration(it Iteration) error
}

// Monitor tracks precision growth across refinement iterations.
type Monitor struct {
	threshold int
	criterion Criterion
	recorder  Recorder
	logger    *slog.Logger

	iteration int
	prev      int
	hasPrev   bool
	nonGrowth int
	stuck     bool
	satisfied bool
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithThreshold sets the non-growth threshold. Values below 1 keep the
// default.
func WithThreshold(n int) Option {
	return func(m *Monitor) {
		if n >= 1 {
			m.threshold = n
		}
	}
}

// WithCriterion installs an external stopping criterion.
func WithCriterion(c Criterion) Option {
	return func(m *Monitor) {
		m.criterion = c
	}
}

// WithRecorder forwards every observation to r.
func WithRecorder(r Recorder) Option {
	return func(m *Monitor) {
		m.recorder = r
	}
}

// WithLogger sets the monitor's logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(m *Monitor) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewMonitor returns a monitor with no observations.
func NewMonitor(opts ...Option) *Monitor {
	m := &Monitor{threshold: DefaultThreshold, logger: slog.Default()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Threshold returns the non-growth threshold.
func (m *Monitor) Threshold() int {
	return m.threshold
}

// Observe records the precision size of one iteration and reports whether
// refinement is stuck.
//
// Growth means a size strictly greater than the previous one and resets
// the counter; anything else, including the very first observation,
// increments it. Once the counter reaches the threshold Observe returns
// true for the rest of the run.
func (m *Monitor) Observe(size int) bool {
	m.iteration++
	if m.hasPrev && size > m.prev {
		m.nonGrowth = 0
	} else {
		m.nonGrowth++
	}
	m.prev = size
	m.hasPrev = true

	if !m.stuck && m.nonGrowth >= m.threshold {
		m.stuck = true
		m.logger.Info("refinement stagnated",
			"iteration", m.iteration,
			"size", size,
			"threshold", m.threshold)
	}

	if m.recorder != nil {
		it := Iteration{Index: m.iteration, Size: size, NonGrowth: m.nonGrowth, Stuck: m.stuck}
		if err := m.recorder.RecordIteration(it); err != nil {
			m.logger.Warn("failed to record refinement iteration", "iteration", m.iteration, "error", err)
		}
	}
	return m.stuck
}

// ShouldStop evaluates the external criterion against p until it holds
// once; after that it returns true without evaluating again. Without a
// criterion it returns false. Evaluation errors count as "keep going".
func (m *Monitor) ShouldStop(p ir.Precision) bool {
	if m.satisfied {
		return true
	}
	if m.criterion == nil {
		return false
	}
	ok, err := m.criterion(p)
	if err != nil {
		m.logger.Warn("stopping criterion failed", "error", err)
		return false
	}
	if ok {
		m.satisfied = true
		m.logger.Info("stopping criterion satisfied", "size", p.Size())
	}
	return ok
}

// Stopped reports whether either latch is set.
func (m *Monitor) Stopped() bool {
	return m.stuck || m.satisfied
}

// Stuck reports whether the stagnation latch is set.
func (m *Monitor) Stuck() bool {
	return m.stuck
}

// Iterations returns the number of observations so far.
func (m *Monitor) Iterations() int {
	return m.iteration
}

// NonGrowth returns the current consecutive non-growth counter.
func (m *Monitor) NonGrowth() int {
	return m.nonGrowth
}
