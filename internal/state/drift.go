package state

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultDriftInterval is the period between random-walk ticks.
const DefaultDriftInterval = 3 * time.Second

// DefaultDriftAmplitude is the maximum per-tick change of each field.
var DefaultDriftAmplitude = PsychicState{Clarity: 0.15, Turbulence: 0.2, Growth: 0.1, Integration: 0.075}

// ErrDriftRunning is returned by Start when the task is already running.
var ErrDriftRunning = errors.New("drift already running")

// Drift perturbs the psychic state with a bounded random walk on a fixed
// interval. It is an explicit start/stop task: after Stop returns no
// further tick can happen.
type Drift struct {
	psyche    *Psyche
	interval  time.Duration
	amplitude PsychicState
	logger    *zap.Logger

	rngMu sync.Mutex
	rng   *rand.Rand

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// DriftOption configures a Drift.
type DriftOption func(*Drift)

// WithRand sets the random source, e.g. a seeded one for tests.
func WithRand(r *rand.Rand) DriftOption {
	return func(d *Drift) { d.rng = r }
}

// WithAmplitude overrides DefaultDriftAmplitude.
func WithAmplitude(a PsychicState) DriftOption {
	return func(d *Drift) { d.amplitude = a }
}

// WithDriftLogger sets the logger for lifecycle events.
func WithDriftLogger(l *zap.Logger) DriftOption {
	return func(d *Drift) { d.logger = l }
}

// NewDrift creates a stopped Drift over psyche. A non-positive interval
// uses DefaultDriftInterval.
func NewDrift(psyche *Psyche, interval time.Duration, opts ...DriftOption) *Drift {
	if interval <= 0 {
		interval = DefaultDriftInterval
	}
	d := &Drift{
		psyche:    psyche,
		interval:  interval,
		amplitude: DefaultDriftAmplitude,
		logger:    zap.NewNop(),
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// delta draws a uniform value in [-amp, amp].
func (d *Drift) delta(amp float64) float64 {
	return (d.rng.Float64()*2 - 1) * amp
}

// Step runs one tick synchronously and returns the new state. The write
// goes through the psyche setter, so it is clamped and persisted like any
// explicit update.
func (d *Drift) Step() PsychicState {
	return d.psyche.Update(func(prev PsychicState) PsychicState {
		d.rngMu.Lock()
		defer d.rngMu.Unlock()
		return prev.Add(PsychicState{
			Clarity:     d.delta(d.amplitude.Clarity),
			Turbulence:  d.delta(d.amplitude.Turbulence),
			Growth:      d.delta(d.amplitude.Growth),
			Integration: d.delta(d.amplitude.Integration),
		})
	})
}

// Start launches the ticker goroutine. It stops when ctx is cancelled or
// Stop is called.
func (d *Drift) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.done != nil {
		return ErrDriftRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	d.cancel = cancel
	d.done = done

	go d.run(ctx, done)
	d.logger.Debug("drift started", zap.Duration("interval", d.interval))
	return nil
}

func (d *Drift) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	// A cancelled parent ctx ends the run without Stop; release the slot
	// so Running reports false and Start can be called again.
	defer d.release(done)
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Cancellation wins over a tick that raced with it.
			if ctx.Err() != nil {
				return
			}
			d.Step()
		}
	}
}

func (d *Drift) release(done chan struct{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.done != done {
		return
	}
	d.cancel()
	d.cancel, d.done = nil, nil
}

// Stop cancels the task and waits for its goroutine to exit. Calling Stop
// on a stopped Drift is a no-op.
func (d *Drift) Stop() {
	d.mu.Lock()
	cancel, done := d.cancel, d.done
	d.cancel, d.done = nil, nil
	d.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	d.logger.Debug("drift stopped")
}

// Running reports whether the task has been started and not stopped.
func (d *Drift) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.done != nil
}
