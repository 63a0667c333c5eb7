package memory

import (
	"context"
	"time"

	"library-lending/internal/domain/user"
	"library-lending/internal/infra"
	"library-lending/internal/usecase/shared"

	"github.com/google/uuid"
)

type UserDirectory struct {
	store *Store
}

func NewUserDirectory(store *Store) *UserDirectory {
	return &UserDirectory{store: store}
}

func (d *UserDirectory) Create(ctx context.Context, u *user.User) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	d.store.mu.Lock()
	defer d.store.mu.Unlock()

	if _, exists := d.store.usersByEmail[u.Email().Value()]; exists {
		return infra.NewRepoErr(infra.KindDuplicateKey, "email already registered")
	}
	if _, exists := d.store.users[u.ID()]; exists {
		return infra.NewRepoErr(infra.KindDuplicateKey, "user already exists")
	}
	d.store.users[u.ID()] = cloneUser(u)
	d.store.usersByEmail[u.Email().Value()] = u.ID()
	return nil
}

func (d *UserDirectory) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()

	u, ok := d.store.users[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "user not found")
	}
	return cloneUser(u), nil
}

func (d *UserDirectory) SetActive(ctx context.Context, id uuid.UUID, active bool, now time.Time) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}
	d.store.mu.Lock()
	defer d.store.mu.Unlock()

	u, ok := d.store.users[id]
	if !ok {
		return infra.NewRepoErr(infra.KindNotFound, "user not found")
	}
	u.SetActive(active, now)
	return nil
}

var _ shared.UserDirectory = (*UserDirectory)(nil)
