package queries

import (
	"context"
	"time"

	"library-lending/internal/domain/user"
	"library-lending/internal/usecase/shared"

	"github.com/google/uuid"
)

type UserView struct {
	ID        uuid.UUID
	Email     string
	Name      string
	Role      user.Role
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

//go:generate mockgen -source=user.go -destination=../../../tests/mock/queries/user_mock.go -package=queriesmock
type UserQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*UserView, error)
}

type userQueriesImpl struct {
	users shared.UserDirectory
}

func NewUserQueries(users shared.UserDirectory) UserQueries {
	return &userQueriesImpl{users: users}
}

func (q *userQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*UserView, error) {
	u, err := q.users.FindByID(ctx, id)
	if err != nil {
		return nil, shared.MapStorageErr(err, shared.ErrUserNotFound)
	}
	return NewUserView(u), nil
}

func NewUserView(u *user.User) *UserView {
	return &UserView{
		ID:        u.ID(),
		Email:     u.Email().Value(),
		Name:      u.Name().String(),
		Role:      u.Role(),
		IsActive:  u.IsActive(),
		CreatedAt: u.CreatedAt(),
		UpdatedAt: u.UpdatedAt(),
	}
}
