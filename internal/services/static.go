package services

import (
	"context"

	"stagehand/internal/definition"
	"stagehand/internal/orchestrator"
)

// TypeStatic is the definition type of StaticService.
const TypeStatic = "static"

// StaticService is an in-memory service holding its definition.
type StaticService struct {
	*BaseService
	def definition.Definition
}

// NewStaticService is the Factory for TypeStatic.
func NewStaticService(ctx context.Context, def definition.Definition) (orchestrator.Instance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := &StaticService{
		BaseService: NewBaseService(def.Name, TypeStatic, def.Dependencies),
		def:         def.Clone(),
	}
	s.UpdateState(StateRunning, nil)
	return s, nil
}

// Definition returns a copy of the definition the service was built from.
func (s *StaticService) Definition() definition.Definition {
	return s.def.Clone()
}

// Stop marks the service stopped.
func (s *StaticService) Stop(ctx context.Context) error {
	s.UpdateState(StateStopped, nil)
	return nil
}
