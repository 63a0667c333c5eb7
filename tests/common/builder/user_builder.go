//go:build unit || e2e

package builder

import (
	"time"

	"library-lending/internal/domain/user"

	"github.com/google/uuid"
)

type UserBuilder struct {
	ID       uuid.UUID
	Email    string
	Name     string
	Role     string
	IsActive bool
	Now      time.Time
}

func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		ID:       uuid.New(),
		Email:    "member@example.com",
		Name:     "Test Member",
		Role:     string(user.RoleMember),
		IsActive: true,
		Now:      time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (u *UserBuilder) With(mutate func(*UserBuilder)) *UserBuilder {
	mutate(u)
	return u
}

// Build methods
func (u *UserBuilder) BuildDomain() (*user.User, error) {
	usr, err := user.NewUser(u.ID, u.Email, u.Name, u.Role, u.Now)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		usr.SetActive(false, u.Now)
	}
	return usr, nil
}

// Fluent builder methods
func (u *UserBuilder) WithEmail(email string) *UserBuilder {
	u.Email = email
	return u
}

func (u *UserBuilder) WithRole(role user.Role) *UserBuilder {
	u.Role = string(role)
	return u
}

func (u *UserBuilder) AsInactive() *UserBuilder {
	u.IsActive = false
	return u
}
