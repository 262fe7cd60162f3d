package api

import (
	"context"

	"github.com/vytor/wordflash/internal/services"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	Vocabulary   services.VocabularyService
	Scheduler    services.ReviewScheduler
	Tasks        services.TaskService
	Practice     services.PracticeService
	WrongAnswers services.WrongAnswerService
	Progress     services.ProgressService
	DB           Pinger
	Limiter      *UserLimiter
}

// NewServer wires the handlers to a service bundle. A nil limiter disables
// rate limiting.
func NewServer(svc *services.Services, db Pinger, limiter *UserLimiter) *Server {
	return &Server{
		Vocabulary:   svc.Vocabulary,
		Scheduler:    svc.Scheduler,
		Tasks:        svc.Tasks,
		Practice:     svc.Practice,
		WrongAnswers: svc.WrongAnswers,
		Progress:     svc.Progress,
		DB:           db,
		Limiter:      limiter,
	}
}
