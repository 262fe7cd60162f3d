package sqlite

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/repository"
)

type userRepository struct {
	db sqlx.ExtContext
}

// NewUserRepository creates a new UserRepository implementation
func NewUserRepository(db sqlx.ExtContext) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Get(ctx context.Context, id string) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")

	var u models.User
	err := sqlx.GetContext(ctx, r.db, &u, `SELECT id, timezone, created_at FROM users WHERE id = ?`, id)
	if err != nil {
		err = notFound(err)
		if err != repository.ErrNotFound {
			log.Error("failed to get user %s: %v", id, err)
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")

	var users []models.User
	err := selectBuilt(ctx, r.db, &users, sqlBuilder.
		Select("id", "timezone", "created_at").
		From("users").
		OrderBy("id"))
	if err != nil {
		log.Error("failed to list users: %v", err)
		return nil, err
	}
	log.Debug("listed %d users", len(users))
	return users, nil
}

func (r *userRepository) Upsert(ctx context.Context, u models.User) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("upserting user: id=%s, timezone=%s", u.ID, u.Timezone)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (id, timezone, created_at) VALUES (?, ?, ?)
ON CONFLICT(id) DO UPDATE SET timezone = excluded.timezone
`, u.ID, u.Timezone, dbTime(u.CreatedAt))
	if err != nil {
		log.Error("failed to upsert user: %v", err)
	}
	return err
}

func (r *userRepository) EnsureExists(ctx context.Context, u models.User) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")

	_, err := r.db.ExecContext(ctx, `INSERT OR IGNORE INTO users (id, timezone, created_at) VALUES (?, ?, ?)`,
		u.ID, u.Timezone, dbTime(u.CreatedAt))
	if err != nil {
		log.Error("failed to ensure user %s: %v", u.ID, err)
	}
	return err
}
