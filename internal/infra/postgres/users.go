package postgres

import (
	"context"
	"time"

	"library-lending/internal/domain/user"
	"library-lending/internal/infra"
	"library-lending/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	insertUserSQL = `INSERT INTO users (id, email, name, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	selectUserSQL = `SELECT id, email, name, role, is_active, created_at, updated_at
		FROM users WHERE id = $1`

	setUserActiveSQL = `UPDATE users SET is_active = $2, updated_at = $3 WHERE id = $1`
)

type UserDirectory struct {
	*Store
}

func NewUserDirectory(s *Store) *UserDirectory {
	return &UserDirectory{Store: s}
}

func (d *UserDirectory) Create(ctx context.Context, u *user.User) error {
	return d.retrier.Do(ctx, "users.create", true, func(ctx context.Context) error {
		_, err := d.pool.Exec(ctx, insertUserSQL,
			u.ID(), u.Email().Value(), u.Name().String(), u.Role().String(),
			u.IsActive(), u.CreatedAt(), u.UpdatedAt(),
		)
		if err != nil {
			return wrapErr("failed to create user", err)
		}
		return nil
	})
}

func (d *UserDirectory) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var found *user.User
	err := d.retrier.Do(ctx, "users.find", true, func(ctx context.Context) error {
		var (
			uid                  uuid.UUID
			email, name, role    string
			active               bool
			createdAt, updatedAt time.Time
		)
		err := d.pool.QueryRow(ctx, selectUserSQL, id).
			Scan(&uid, &email, &name, &role, &active, &createdAt, &updatedAt)
		if err != nil {
			return wrapErr("user not found", err)
		}
		found = user.ReconstructUser(uid,
			user.ReconstructEmail(email), user.ReconstructName(name), user.Role(role),
			active, createdAt.UTC(), updatedAt.UTC(),
		)
		return nil
	})
	return found, err
}

func (d *UserDirectory) SetActive(ctx context.Context, id uuid.UUID, active bool, now time.Time) error {
	return d.retrier.Do(ctx, "users.set_active", true, func(ctx context.Context) error {
		tag, err := d.pool.Exec(ctx, setUserActiveSQL, id, active, now)
		if err != nil {
			return wrapErr("failed to update user", err)
		}
		if tag.RowsAffected() == 0 {
			return infra.NewRepoErr(infra.KindNotFound, "user not found")
		}
		return nil
	})
}

var _ shared.UserDirectory = (*UserDirectory)(nil)
