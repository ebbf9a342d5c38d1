// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/angelamos/reviewdeck/internal/auth"
	"github.com/angelamos/reviewdeck/internal/authz"
	"github.com/angelamos/reviewdeck/internal/core"
	"github.com/angelamos/reviewdeck/internal/middleware"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(
	ctx context.Context,
	req CreateUserRequest,
) (*User, error) {
	if msg := ValidateUsername(req.Username); msg != "" {
		return nil, core.ValidationAppError(map[string]string{
			"username": msg,
		})
	}

	role := req.Role
	if role == "" {
		role = authz.RoleUser
	}

	u := &User{
		ID:        uuid.New().String(),
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      role,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *Service) GetByUsername(
	ctx context.Context,
	username string,
) (*User, error) {
	return s.repo.GetByUsername(ctx, username)
}

func (s *Service) UpdateByUsername(
	ctx context.Context,
	username string,
	req UpdateUserRequest,
) (*User, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	applyProfileFields(u, req.Email, req.FirstName, req.LastName, req.Bio)

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	if req.Role != nil && *req.Role != u.Role {
		if err := s.repo.SetRole(ctx, u.ID, *req.Role); err != nil {
			return nil, err
		}
		u.Role = *req.Role
	}

	return u, nil
}

func (s *Service) DeleteByUsername(
	ctx context.Context,
	username string,
) error {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	return s.repo.Delete(ctx, u.ID)
}

func (s *Service) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) GetMe(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("get me: %w", core.ErrUnauthorized)
	}

	return s.repo.GetByID(ctx, userID)
}

// UpdateMe updates the caller's own profile. The request type carries no
// role field, so a role key in the payload is silently discarded.
func (s *Service) UpdateMe(
	ctx context.Context,
	userID string,
	req UpdateMeRequest,
) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("update me: %w", core.ErrUnauthorized)
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	applyProfileFields(u, req.Email, req.FirstName, req.LastName, req.Bio)

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func applyProfileFields(u *User, email, firstName, lastName, bio *string) {
	if email != nil {
		u.Email = *email
	}
	if firstName != nil {
		u.FirstName = *firstName
	}
	if lastName != nil {
		u.LastName = *lastName
	}
	if bio != nil {
		u.Bio = *bio
	}
}

// PrincipalByID backs the auth middleware: it resolves a verified token
// subject to the live user record so role changes apply immediately.
func (s *Service) PrincipalByID(
	ctx context.Context,
	id string,
) (*authz.Principal, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return u.Principal(), nil
}

func (s *Service) FindByUsername(
	ctx context.Context,
	username string,
) (*auth.UserInfo, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	return toUserInfo(u), nil
}

// CreateUnconfirmed registers a signup: default role, no usable code yet.
// Duplicate errors carry the offending field so the auth handler can report
// a lost insert race accurately.
func (s *Service) CreateUnconfirmed(
	ctx context.Context,
	username, email string,
) (*auth.UserInfo, error) {
	u, err := s.Create(ctx, CreateUserRequest{
		Username: username,
		Email:    email,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrUsernameTaken):
			return nil, core.DuplicateError("username")
		case errors.Is(err, ErrEmailTaken):
			return nil, core.DuplicateError("email")
		}
		return nil, err
	}

	return toUserInfo(u), nil
}

func (s *Service) StoreConfirmationCode(
	ctx context.Context,
	userID, code string,
) error {
	return s.repo.SetConfirmationCode(ctx, userID, code)
}

func (s *Service) ConsumeConfirmationCode(
	ctx context.Context,
	userID string,
) error {
	return s.repo.ClearConfirmationCode(ctx, userID)
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:               u.ID,
		Username:         u.Username,
		Email:            u.Email,
		ConfirmationCode: u.ConfirmationCode,
	}
}

var (
	_ auth.UserProvider          = (*Service)(nil)
	_ middleware.PrincipalSource = (*Service)(nil)
)
