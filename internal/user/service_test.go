// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/reviewdeck/internal/authz"
	"github.com/angelamos/reviewdeck/internal/core"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, u *User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockRepository) GetByID(
	ctx context.Context,
	id string,
) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *mockRepository) GetByUsername(
	ctx context.Context,
	username string,
) (*User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *mockRepository) Update(ctx context.Context, u *User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockRepository) SetConfirmationCode(
	ctx context.Context,
	id, code string,
) error {
	return m.Called(ctx, id, code).Error(0)
}

func (m *mockRepository) ClearConfirmationCode(
	ctx context.Context,
	id string,
) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepository) SetRole(ctx context.Context, id, role string) error {
	return m.Called(ctx, id, role).Error(0)
}

func (m *mockRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepository) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	args := m.Called(ctx, params)
	var users []User
	if args.Get(0) != nil {
		users = args.Get(0).([]User)
	}
	return users, args.Int(1), args.Error(2)
}

func TestServiceCreate(t *testing.T) {
	t.Run("defaults role to user", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(u *User) bool {
			return u.Role == authz.RoleUser && u.ID != ""
		})).Return(nil)

		svc := NewService(repo)
		u, err := svc.Create(context.Background(), CreateUserRequest{
			Username: "alice",
			Email:    "alice@example.com",
		})

		require.NoError(t, err)
		assert.Equal(t, authz.RoleUser, u.Role)
		repo.AssertExpectations(t)
	})

	t.Run("rejects reserved username before touching the repo", func(t *testing.T) {
		repo := new(mockRepository)
		svc := NewService(repo)

		_, err := svc.Create(context.Background(), CreateUserRequest{
			Username: "me",
			Email:    "me@example.com",
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrInvalidInput)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("keeps explicit role", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)

		svc := NewService(repo)
		u, err := svc.Create(context.Background(), CreateUserRequest{
			Username: "mod",
			Email:    "mod@example.com",
			Role:     authz.RoleModerator,
		})

		require.NoError(t, err)
		assert.Equal(t, authz.RoleModerator, u.Role)
	})
}

func TestServiceUpdateMe(t *testing.T) {
	t.Run("updates profile fields only", func(t *testing.T) {
		existing := &User{
			ID:       "u1",
			Username: "alice",
			Email:    "old@example.com",
			Role:     authz.RoleUser,
		}

		repo := new(mockRepository)
		repo.On("GetByID", mock.Anything, "u1").Return(existing, nil)
		repo.On("Update", mock.Anything, mock.MatchedBy(func(u *User) bool {
			return u.Email == "new@example.com" &&
				u.Bio == "hello" &&
				u.Role == authz.RoleUser
		})).Return(nil)

		email := "new@example.com"
		bio := "hello"

		svc := NewService(repo)
		u, err := svc.UpdateMe(context.Background(), "u1", UpdateMeRequest{
			Email: &email,
			Bio:   &bio,
		})

		require.NoError(t, err)
		assert.Equal(t, "new@example.com", u.Email)
		repo.AssertNotCalled(t, "SetRole",
			mock.Anything, mock.Anything, mock.Anything)
		repo.AssertExpectations(t)
	})

	t.Run("rejects empty user id", func(t *testing.T) {
		svc := NewService(new(mockRepository))

		_, err := svc.UpdateMe(context.Background(), "", UpdateMeRequest{})
		assert.ErrorIs(t, err, core.ErrUnauthorized)
	})
}

func TestServiceUpdateByUsernameChangesRole(t *testing.T) {
	existing := &User{
		ID:       "u1",
		Username: "alice",
		Email:    "c@example.com",
		Role:     authz.RoleUser,
	}

	repo := new(mockRepository)
	repo.On("GetByUsername", mock.Anything, "alice").Return(existing, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(u *User) bool {
		return u.Role == authz.RoleUser
	})).Return(nil)
	repo.On("SetRole", mock.Anything, "u1", authz.RoleModerator).Return(nil)

	role := authz.RoleModerator

	svc := NewService(repo)
	u, err := svc.UpdateByUsername(
		context.Background(),
		"alice",
		UpdateUserRequest{Role: &role},
	)

	require.NoError(t, err)
	assert.Equal(t, authz.RoleModerator, u.Role)
	repo.AssertExpectations(t)
}

func TestCreateUnconfirmedMapsDuplicateFields(t *testing.T) {
	tests := []struct {
		name      string
		createErr error
		field     string
	}{
		{"username collision", ErrUsernameTaken, "username"},
		{"email collision", ErrEmailTaken, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRepository)
			repo.On("Create", mock.Anything, mock.Anything).
				Return(tt.createErr)

			svc := NewService(repo)
			_, err := svc.CreateUnconfirmed(
				context.Background(),
				"alice",
				"alice@example.com",
			)

			require.Error(t, err)

			var appErr *core.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Contains(t, appErr.Message, tt.field)
			assert.ErrorIs(t, err, core.ErrDuplicateKey)
		})
	}
}

func TestServicePrincipalByID(t *testing.T) {
	repo := new(mockRepository)
	repo.On("GetByID", mock.Anything, "u1").Return(&User{
		ID:          "u1",
		Username:    "alice",
		Role:        authz.RoleModerator,
		IsSuperuser: false,
	}, nil)

	svc := NewService(repo)
	principal, err := svc.PrincipalByID(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, "u1", principal.ID)
	assert.Equal(t, authz.RoleModerator, principal.Role)
	assert.True(t, principal.IsModerator())
}

func TestServiceConfirmationCodePassthrough(t *testing.T) {
	repo := new(mockRepository)
	repo.On("SetConfirmationCode", mock.Anything, "u1", "12345").Return(nil)
	repo.On("ClearConfirmationCode", mock.Anything, "u1").Return(nil)

	svc := NewService(repo)

	require.NoError(
		t,
		svc.StoreConfirmationCode(context.Background(), "u1", "12345"),
	)
	require.NoError(t, svc.ConsumeConfirmationCode(context.Background(), "u1"))
	repo.AssertExpectations(t)
}
