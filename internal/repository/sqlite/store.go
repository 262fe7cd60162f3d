package sqlite

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/vytor/wordflash/internal/repository"
)

type store struct {
	db *sqlx.DB
	q  sqlx.ExtContext
	tx bool
}

// NewStore creates a Store whose repositories run directly on db.
func NewStore(db *sqlx.DB) repository.Store {
	return &store{db: db, q: db}
}

func (s *store) Users() repository.UserRepository { return NewUserRepository(s.q) }
func (s *store) Words() repository.WordRepository { return NewWordRepository(s.q) }
func (s *store) Records() repository.RecordRepository { return NewRecordRepository(s.q) }
func (s *store) WrongAnswers() repository.WrongAnswerRepository { return NewWrongAnswerRepository(s.q) }
func (s *store) Tasks() repository.TaskRepository { return NewTaskRepository(s.q) }
func (s *store) Sessions() repository.SessionRepository { return NewSessionRepository(s.q) }
func (s *store) Progress() repository.ProgressRepository { return NewProgressRepository(s.q) }

func (s *store) InTx(ctx context.Context, fn func(repository.Store) error) error {
	if s.tx {
		return fn(s)
	}
	return tx(ctx, s.db, func(t *sqlx.Tx) error {
		return fn(&store{db: s.db, q: t, tx: true})
	})
}

func (s *store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
