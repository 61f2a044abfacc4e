package systems

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/zeusync/bounce/internal/core/observability/log"
)

type entry struct {
	system  System
	seq     int
	enabled bool
	metrics Metrics
}

// Manager runs registered systems once per Tick in a fixed order:
// phase ascending, priority descending, then registration order.
//
// A tick always runs every enabled system; errors are collected and returned
// together once the tick is complete.
type Manager struct {
	mu      sync.Mutex
	entries []*entry
	byName  map[string]*entry
	seq     int
	metrics ManagerMetrics
	logger  log.Log
}

func NewManager(logger log.Log) *Manager {
	return &Manager{
		byName: make(map[string]*entry),
		logger: logger.With(log.String("component", "systems")),
	}
}

// Register adds s, enabled.
func (m *Manager) Register(s System) error {
	if s == nil {
		return ErrNilSystem
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byName[s.Name()]; exists {
		return fmt.Errorf("register %q: %w", s.Name(), ErrSystemExists)
	}
	m.seq++
	e := &entry{system: s, seq: m.seq, enabled: true}
	m.byName[s.Name()] = e
	m.entries = append(m.entries, e)
	slices.SortStableFunc(m.entries, compareEntries)

	m.logger.Debug("System registered",
		log.String("system", s.Name()),
		log.String("phase", s.Phase().String()),
		log.Int("priority", int(s.Priority())))
	return nil
}

func (m *Manager) Unregister(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.byName[name]
	if !ok {
		return fmt.Errorf("unregister %q: %w", name, ErrSystemNotFound)
	}
	delete(m.byName, name)
	m.entries = slices.DeleteFunc(m.entries, func(cur *entry) bool { return cur == e })
	return nil
}

func (m *Manager) EnableSystem(name string) error  { return m.setEnabled(name, true) }
func (m *Manager) DisableSystem(name string) error { return m.setEnabled(name, false) }

func (m *Manager) setEnabled(name string, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.byName[name]
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrSystemNotFound)
	}
	e.enabled = enabled
	return nil
}

func (m *Manager) HasSystem(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.byName[name]
	return ok
}

// ExecutionOrder lists the names of enabled systems in the order Tick runs them.
func (m *Manager) ExecutionOrder() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		if e.enabled {
			names = append(names, e.system.Name())
		}
	}
	return names
}

// Tick runs every enabled system once for frame.
func (m *Manager) Tick(ctx context.Context, frame Frame) error {
	m.mu.Lock()
	run := make([]*entry, 0, len(m.entries))
	for _, e := range m.entries {
		if e.enabled {
			run = append(run, e)
		}
	}
	m.mu.Unlock()

	tickStart := time.Now()
	var all error
	type result struct {
		started time.Time
		took    time.Duration
		err     error
	}
	results := make([]result, len(run))

	for i, e := range run {
		started := time.Now()
		err := e.system.Update(ctx, frame)
		results[i] = result{started: started, took: time.Since(started), err: err}
		if err != nil {
			m.logger.Error("System update failed",
				log.String("system", e.system.Name()),
				log.Uint64("frame", frame.Number),
				log.Error(err))
			all = errors.Join(all, fmt.Errorf("%s: %w", e.system.Name(), err))
		}
	}

	m.mu.Lock()
	for i, e := range run {
		e.metrics.record(results[i].started, results[i].took, results[i].err)
	}
	m.metrics.Ticks++
	m.metrics.TotalUpdateTime += time.Since(tickStart)
	m.metrics.AverageUpdateTime = m.metrics.TotalUpdateTime / time.Duration(m.metrics.Ticks)
	m.metrics.LastUpdateTime = tickStart
	m.mu.Unlock()

	return all
}

func (m *Manager) GetSystemMetrics(name string) (Metrics, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.byName[name]
	if !ok {
		return Metrics{}, false
	}
	return e.metrics, true
}

func (m *Manager) GetMetrics() ManagerMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := m.metrics
	out.RegisteredSystems = uint32(len(m.entries))
	out.SystemErrorCount = make(map[string]uint64, len(m.entries))
	for _, e := range m.entries {
		if e.enabled {
			out.EnabledSystems++
		}
		if e.metrics.ErrorCount > 0 {
			out.SystemErrorCount[e.system.Name()] = e.metrics.ErrorCount
		}
	}
	return out
}

func compareEntries(a, b *entry) int {
	if c := cmp.Compare(a.system.Phase(), b.system.Phase()); c != 0 {
		return c
	}
	if c := cmp.Compare(b.system.Priority(), a.system.Priority()); c != 0 {
		return c
	}
	return cmp.Compare(a.seq, b.seq)
}
