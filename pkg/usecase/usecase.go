package usecase

import (
	"time"

	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/interfaces"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/domain/model/config"
)

type UseCases struct {
	repo       interfaces.Repository
	matrix     *config.MatrixConfig
	authorizer interfaces.Authorizer
	now        func() time.Time

	Assessment *AssessmentUseCase
	Query      *QueryUseCase
	Import     *ImportUseCase
}

type Option func(*UseCases)

// WithAuthorizer injects the approval capability check.
func WithAuthorizer(authorizer interfaces.Authorizer) Option {
	return func(uc *UseCases) {
		uc.authorizer = authorizer
	}
}

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func New(repo interfaces.Repository, matrix *config.MatrixConfig, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:   repo,
		matrix: matrix,
		now:    func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Assessment = &AssessmentUseCase{
		repo:       repo,
		matrix:     matrix,
		authorizer: uc.authorizer,
		now:        uc.now,
	}
	uc.Query = &QueryUseCase{
		repo:   repo,
		matrix: matrix,
		now:    uc.now,
	}
	uc.Import = &ImportUseCase{
		assessment: uc.Assessment,
		repo:       repo,
	}

	return uc
}
