package memory

import (
	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/interfaces"
)

// Memory is the in-memory repository used for development and tests.
type Memory struct {
	assessment *assessmentRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		assessment: newAssessmentRepository(),
	}
}

func (m *Memory) Assessment() interfaces.AssessmentRepository {
	return m.assessment
}

func (m *Memory) Close() error {
	return nil
}
