package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/DataRockMyWorld/safesphere-risk/pkg/usecase"
	"github.com/DataRockMyWorld/safesphere-risk/pkg/utils/logging"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
}

type Options func(*Server)

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/matrix", s.getMatrix)
		r.Get("/matrix/cells", s.getMatrixCells)
		r.Get("/dashboard", s.getDashboard)

		r.Route("/assessments", func(r chi.Router) {
			r.Get("/", s.listAssessments)
			r.Post("/", s.createAssessment)
			r.Get("/export", s.exportAssessments)
			r.Post("/import", s.importAssessments)

			r.Route("/{assessmentID}", func(r chi.Router) {
				r.Get("/", s.getAssessment)
				r.Put("/", s.updateAssessment)
				r.Delete("/", s.deleteAssessment)

				r.Post("/submit", s.submitAssessment)
				r.Post("/approve", s.approveAssessment)
				r.Post("/reject", s.rejectAssessment)
				r.Post("/activate", s.activateAssessment)
				r.Post("/close", s.closeAssessment)
				r.Post("/review", s.reviewAssessment)
			})
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK")) //nolint:errcheck
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
