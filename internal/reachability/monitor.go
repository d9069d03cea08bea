// Package reachability tracks whether the FasterFoods service is currently
// reachable and notifies subscribers on transitions, so queued mutations can
// be replayed the moment connectivity returns.
package reachability

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultProbeInterval = 15 * time.Second

// ProbeFunc reports whether the service answered a cheap liveness check.
type ProbeFunc func(ctx context.Context) bool

// MonitorConfig configures the reachability monitor.
type MonitorConfig struct {
	Probe    ProbeFunc
	Interval time.Duration
	Logger   *zap.Logger
}

// Monitor holds the current connectivity boolean and invokes callbacks on
// every edge. The initial value is probed synchronously during construction
// so startup logic never sees "unknown".
type Monitor struct {
	mu        sync.Mutex
	connected bool
	callbacks []func(connected bool)

	probe    ProbeFunc
	interval time.Duration
	logger   *zap.Logger
	cancel   context.CancelFunc
}

// NewMonitor constructs a Monitor and performs one synchronous probe for the
// initial value. The periodic loop does not start until Start is called.
func NewMonitor(cfg MonitorConfig) *Monitor {
	probe := cfg.Probe
	if probe == nil {
		probe = func(context.Context) bool { return false }
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultProbeInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Monitor{
		probe:    probe,
		interval: interval,
		logger:   logger,
	}

	initialCtx, cancel := context.WithTimeout(context.Background(), interval)
	m.connected = probe(initialCtx)
	cancel()

	return m
}

// Connected returns the current connectivity value.
func (m *Monitor) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

// Subscribe registers a callback invoked on every transition. Callbacks are
// never invoked for a repeated value (connected→connected is silent).
func (m *Monitor) Subscribe(fn func(connected bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, fn)
}

// Start launches the periodic probe loop. It returns immediately.
func (m *Monitor) Start(ctx context.Context) {
	m.mu.Lock()
	if m.cancel != nil {
		m.mu.Unlock()
		return
	}
	loopCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.mu.Unlock()

	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				m.Refresh(loopCtx)
			}
		}
	}()
}

// Stop halts the probe loop. Subscribers stay registered.
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Refresh performs one probe immediately and dispatches callbacks if the
// value flipped.
func (m *Monitor) Refresh(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, m.interval)
	connected := m.probe(probeCtx)
	cancel()
	m.setConnected(connected)
}

func (m *Monitor) setConnected(connected bool) {
	m.mu.Lock()
	if m.connected == connected {
		m.mu.Unlock()
		return
	}
	m.connected = connected
	callbacks := append([]func(bool){}, m.callbacks...)
	m.mu.Unlock()

	m.logger.Info("reachability changed", zap.Bool("connected", connected))
	for _, fn := range callbacks {
		fn(connected)
	}
}
