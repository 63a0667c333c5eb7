package user

import (
	"time"

	"github.com/google/uuid"
)

// User is the identity collaborator's view of a member. Lending trusts isActive and the
// role's permissions; credentials live with the identity provider.
type User struct {
	id        uuid.UUID
	email     Email
	name      Name
	role      Role
	isActive  bool
	createdAt time.Time
	updatedAt time.Time
}

func NewUser(id uuid.UUID, emailStr, nameStr, roleStr string, now time.Time) (*User, error) {
	email, err := NewEmail(emailStr)
	if err != nil {
		return nil, err
	}
	name, err := NewName(nameStr)
	if err != nil {
		return nil, err
	}
	role, err := NewRole(roleStr)
	if err != nil {
		return nil, err
	}

	if id == uuid.Nil {
		id = uuid.New()
	}

	return &User{
		id:        id,
		email:     email,
		name:      name,
		role:      role,
		isActive:  true,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructUser(id uuid.UUID, email Email, name Name, role Role, isActive bool, createdAt, updatedAt time.Time) *User {
	return &User{
		id:        id,
		email:     email,
		name:      name,
		role:      role,
		isActive:  isActive,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// CanBorrow is checked before any capacity is acquired.
func (u *User) CanBorrow() bool {
	return u.isActive && u.role.Can(PermBorrow)
}

func (u *User) SetActive(active bool, now time.Time) {
	u.isActive = active
	u.updatedAt = now
}

func (u *User) ID() uuid.UUID        { return u.id }
func (u *User) Email() Email         { return u.email }
func (u *User) Name() Name           { return u.name }
func (u *User) Role() Role           { return u.role }
func (u *User) IsActive() bool       { return u.isActive }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }
