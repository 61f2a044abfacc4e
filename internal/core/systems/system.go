package systems

import (
	"context"
	"time"
)

// System is one stage of a simulation tick: spawning, stepping the world,
// rendering. The Manager runs systems ordered by phase, then priority.
type System interface {
	Name() string
	Phase() ExecutionPhase
	Priority() Priority
	Update(ctx context.Context, frame Frame) error
}

// Frame identifies the tick being executed.
type Frame struct {
	// Number starts at 1 for the first tick.
	Number uint64
	// Delta is the wall-clock time since the previous tick, zero for the first.
	Delta   time.Duration
	Started time.Time
}

// Priority orders systems within a phase; higher runs first.
type Priority uint16

const (
	PriorityLowest  Priority = 200
	PriorityLow     Priority = 500
	PriorityNormal  Priority = 600
	PriorityHigh    Priority = 1000
	PriorityHighest Priority = 1300
)

// ExecutionPhase defines when a system runs within a tick
type ExecutionPhase uint8

const (
	PhasePreUpdate ExecutionPhase = iota
	PhaseUpdate
	PhasePostUpdate
	PhasePreRender
	PhaseRender
	PhasePostRender
)

func (p ExecutionPhase) String() string {
	switch p {
	case PhasePreUpdate:
		return "pre_update"
	case PhaseUpdate:
		return "update"
	case PhasePostUpdate:
		return "post_update"
	case PhasePreRender:
		return "pre_render"
	case PhaseRender:
		return "render"
	case PhasePostRender:
		return "post_render"
	default:
		return "unknown"
	}
}

// Metrics provides runtime metrics for a system
type Metrics struct {
	ExecutionCount       uint64
	TotalExecutionTime   time.Duration
	AverageExecutionTime time.Duration
	MaxExecutionTime     time.Duration
	MinExecutionTime     time.Duration
	ErrorCount           uint64
	LastError            error
	LastExecutionTime    time.Time
}

func (m *Metrics) record(started time.Time, took time.Duration, err error) {
	m.ExecutionCount++
	m.TotalExecutionTime += took
	m.AverageExecutionTime = m.TotalExecutionTime / time.Duration(m.ExecutionCount)
	if took > m.MaxExecutionTime {
		m.MaxExecutionTime = took
	}
	if m.ExecutionCount == 1 || took < m.MinExecutionTime {
		m.MinExecutionTime = took
	}
	m.LastExecutionTime = started
	if err != nil {
		m.ErrorCount++
		m.LastError = err
	}
}

// ManagerMetrics provides system manager statistics
type ManagerMetrics struct {
	RegisteredSystems uint32
	EnabledSystems    uint32
	Ticks             uint64
	TotalUpdateTime   time.Duration
	AverageUpdateTime time.Duration
	LastUpdateTime    time.Time
	SystemErrorCount  map[string]uint64
}
