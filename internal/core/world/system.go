package world

import (
	"context"

	"github.com/zeusync/bounce/internal/core/systems"
)

var _ systems.System = (*StepSystem)(nil)

// StepSystem runs World.Step once per tick.
type StepSystem struct {
	world *World
	last  StepReport
}

func NewStepSystem(w *World) *StepSystem {
	return &StepSystem{world: w}
}

func (s *StepSystem) Name() string                  { return "world" }
func (s *StepSystem) Phase() systems.ExecutionPhase { return systems.PhaseUpdate }
func (s *StepSystem) Priority() systems.Priority    { return systems.PriorityNormal }

func (s *StepSystem) Update(_ context.Context, _ systems.Frame) error {
	report, err := s.world.Step()
	s.last = report
	return err
}

// LastReport returns the report of the most recent step.
func (s *StepSystem) LastReport() StepReport { return s.last }
