package reachability

import (
	"context"
	"sync"
	"testing"
	"time"
)

type flippableProbe struct {
	mu        sync.Mutex
	connected bool
}

func (p *flippableProbe) set(connected bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.connected = connected
}

func (p *flippableProbe) probe(context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected
}

func TestNewMonitorProbesInitialValueSynchronously(t *testing.T) {
	probe := &flippableProbe{connected: true}
	m := NewMonitor(MonitorConfig{Probe: probe.probe, Interval: time.Minute})
	if !m.Connected() {
		t.Fatalf("expected initial value from synchronous probe")
	}

	probe.set(false)
	m2 := NewMonitor(MonitorConfig{Probe: probe.probe, Interval: time.Minute})
	if m2.Connected() {
		t.Fatalf("expected disconnected initial value")
	}
}

func TestRefreshDispatchesOnTransitionOnly(t *testing.T) {
	probe := &flippableProbe{connected: false}
	m := NewMonitor(MonitorConfig{Probe: probe.probe, Interval: time.Minute})

	var transitions []bool
	m.Subscribe(func(connected bool) {
		transitions = append(transitions, connected)
	})

	m.Refresh(context.Background()) // disconnected → disconnected: silent
	probe.set(true)
	m.Refresh(context.Background()) // edge
	m.Refresh(context.Background()) // connected → connected: silent
	probe.set(false)
	m.Refresh(context.Background()) // edge

	if len(transitions) != 2 {
		t.Fatalf("expected 2 transitions, got %d: %v", len(transitions), transitions)
	}
	if !transitions[0] || transitions[1] {
		t.Fatalf("unexpected transition order: %v", transitions)
	}
}

func TestNilProbeDefaultsToDisconnected(t *testing.T) {
	m := NewMonitor(MonitorConfig{})
	if m.Connected() {
		t.Fatalf("expected disconnected without a probe")
	}
}

func TestStartIsIdempotentAndStoppable(t *testing.T) {
	probe := &flippableProbe{connected: false}
	m := NewMonitor(MonitorConfig{Probe: probe.probe, Interval: 5 * time.Millisecond})

	done := make(chan struct{})
	var once sync.Once
	m.Subscribe(func(connected bool) {
		if connected {
			once.Do(func() { close(done) })
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)
	m.Start(ctx) // second call must not spawn another loop

	probe.set(true)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("probe loop never observed the transition")
	}
	m.Stop()
}
