package commands

import (
	"context"

	"library-lending/internal/domain/user"
	"library-lending/internal/infra"
	"library-lending/internal/pkg/clock"
	"library-lending/internal/pkg/errs"
	"library-lending/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrEmailTaken = errs.New("email already registered")

type RegisterUserRequest struct {
	Email string
	Name  string
	Role  string
}

//go:generate mockgen -source=users.go -destination=../../../tests/mock/commands/users_mock.go -package=commandsmock
type UserCommands interface {
	RegisterUser(ctx context.Context, req RegisterUserRequest) (*user.User, error)
	SetUserActive(ctx context.Context, userID uuid.UUID, active bool) (*user.User, error)
}

type userUseCaseImpl struct {
	users shared.UserDirectory
	clock clock.Clock
}

func NewUserUseCase(users shared.UserDirectory, clk clock.Clock) UserCommands {
	return &userUseCaseImpl{users: users, clock: clk}
}

func (uc *userUseCaseImpl) RegisterUser(ctx context.Context, req RegisterUserRequest) (*user.User, error) {
	u, err := user.NewUser(uuid.Nil, req.Email, req.Name, req.Role, uc.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := uc.users.Create(ctx, u); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, shared.MapStorageErr(err, nil)
	}
	return u, nil
}

// SetUserActive gates future borrows only; existing borrowings are untouched.
func (uc *userUseCaseImpl) SetUserActive(ctx context.Context, userID uuid.UUID, active bool) (*user.User, error) {
	if err := uc.users.SetActive(ctx, userID, active, uc.clock.Now()); err != nil {
		return nil, shared.MapStorageErr(err, shared.ErrUserNotFound)
	}
	u, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.MapStorageErr(err, shared.ErrUserNotFound)
	}
	return u, nil
}
