//go:build unit

package user_test

import (
	"strings"
	"testing"
	"time"

	"library-lending/internal/domain/user"
	"library-lending/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	name   string
	mutate func(*builder.UserBuilder)
	errIs  error
}

func TestUser(t *testing.T) {
	t.Run("builds an active member", func(t *testing.T) {
		b := builder.NewUserBuilder()

		actual, err := b.BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.Equal(t, b.ID, actual.ID())
		assert.Equal(t, "member@example.com", actual.Email().Value())
		assert.Equal(t, "Test Member", actual.Name().String())
		assert.Equal(t, user.RoleMember, actual.Role())
		assert.True(t, actual.IsActive())
		assert.True(t, actual.CanBorrow())
		assert.Equal(t, b.Now, actual.CreatedAt())
		assert.Equal(t, b.Now, actual.UpdatedAt())
	})

	t.Run("generates an id when none is given", func(t *testing.T) {
		actual, err := user.NewUser(uuid.Nil, "a@example.com", "A", "member", time.Now())
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, actual.ID())
	})

	t.Run("email", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "valid address",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("valid@example.com") },
			},
			{
				name:   "surrounding spaces are trimmed",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("  valid@example.com  ") },
			},
			{
				name:   "empty address",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("") },
				errIs:  user.ErrInvalidEmail,
			},
			{
				name:   "missing domain",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("invalid-email") },
				errIs:  user.ErrInvalidEmail,
			},
			{
				name:   "missing @",
				mutate: func(b *builder.UserBuilder) { b.WithEmail("invalidemail.com") },
				errIs:  user.ErrInvalidEmail,
			},
		})

		u, err := builder.NewUserBuilder().WithEmail("Mixed.Case@Example.COM").BuildDomain()
		require.NoError(t, err)
		assert.Equal(t, "mixed.case@example.com", u.Email().Value())
	})

	t.Run("name", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "blank name",
				mutate: func(b *builder.UserBuilder) { b.Name = "   " },
				errIs:  user.ErrEmptyName,
			},
			{
				name:   "name at the limit",
				mutate: func(b *builder.UserBuilder) { b.Name = strings.Repeat("a", user.MaxNameLength) },
			},
			{
				name:   "name over the limit",
				mutate: func(b *builder.UserBuilder) { b.Name = strings.Repeat("a", user.MaxNameLength+1) },
				errIs:  user.ErrNameTooLong,
			},
		})
	})

	t.Run("role", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "member",
				mutate: func(b *builder.UserBuilder) { b.WithRole(user.RoleMember) },
			},
			{
				name:   "librarian",
				mutate: func(b *builder.UserBuilder) { b.WithRole(user.RoleLibrarian) },
			},
			{
				name:   "admin",
				mutate: func(b *builder.UserBuilder) { b.WithRole(user.RoleAdmin) },
			},
			{
				name:   "unknown role",
				mutate: func(b *builder.UserBuilder) { b.Role = "viewer" },
				errIs:  user.ErrInvalidRole,
			},
			{
				name:   "empty role",
				mutate: func(b *builder.UserBuilder) { b.Role = "" },
				errIs:  user.ErrInvalidRole,
			},
		})
	})

	t.Run("deactivated user cannot borrow", func(t *testing.T) {
		u, err := builder.NewUserBuilder().AsInactive().BuildDomain()
		require.NoError(t, err)
		assert.False(t, u.IsActive())
		assert.False(t, u.CanBorrow())

		later := u.CreatedAt().Add(time.Hour)
		u.SetActive(true, later)
		assert.True(t, u.CanBorrow())
		assert.Equal(t, later, u.UpdatedAt())
	})
}

func TestRolePermissions(t *testing.T) {
	all := []user.Permission{
		user.PermBorrow,
		user.PermActOnBehalf,
		user.PermManageCatalog,
		user.PermManageUsers,
		user.PermViewStatistics,
	}
	want := map[user.Role][]bool{
		user.RoleMember:    {true, false, false, false, false},
		user.RoleLibrarian: {true, true, true, false, true},
		user.RoleAdmin:     {true, true, true, true, true},
		user.Role("ghost"): {false, false, false, false, false},
	}

	for role, expected := range want {
		t.Run(string(role), func(t *testing.T) {
			got := make([]bool, len(all))
			for i, p := range all {
				got[i] = role.Can(p)
			}
			if diff := cmp.Diff(expected, got); diff != "" {
				t.Errorf("permissions mismatch (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("rank ordering", func(t *testing.T) {
		assert.True(t, user.RoleAdmin.AtLeast(user.RoleLibrarian))
		assert.True(t, user.RoleLibrarian.AtLeast(user.RoleLibrarian))
		assert.False(t, user.RoleMember.AtLeast(user.RoleLibrarian))
		assert.False(t, user.Role("ghost").AtLeast(user.RoleMember))
		assert.False(t, user.RoleAdmin.AtLeast(user.Role("ghost")))
	})
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {

			actual, err := builder.NewUserBuilder().With(c.mutate).BuildDomain()

			if c.errIs == nil {
				require.NotNil(t, actual)
				require.NoError(t, err)
			} else {
				require.Nil(t, actual)
				require.Error(t, err)
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}
