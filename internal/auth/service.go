// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelamos/reviewdeck/internal/core"
	"github.com/angelamos/reviewdeck/internal/mail"
)

var (
	ErrEmailMismatch = errors.New("email does not match the existing user")
	ErrInvalidCode   = errors.New("invalid confirmation code")
	ErrMailDelivery  = errors.New("confirmation email delivery failed")
)

type UserInfo struct {
	ID               string
	Username         string
	Email            string
	ConfirmationCode string
}

// UserProvider is the slice of the identity store the auth flows need.
// Implemented by user.Service.
type UserProvider interface {
	FindByUsername(ctx context.Context, username string) (*UserInfo, error)
	CreateUnconfirmed(
		ctx context.Context,
		username, email string,
	) (*UserInfo, error)
	StoreConfirmationCode(ctx context.Context, userID, code string) error
	ConsumeConfirmationCode(ctx context.Context, userID string) error
}

type Service struct {
	users  UserProvider
	jwt    *JWTManager
	mailer mail.Sender
}

func NewService(
	users UserProvider,
	jwt *JWTManager,
	mailer mail.Sender,
) *Service {
	return &Service{
		users:  users,
		jwt:    jwt,
		mailer: mailer,
	}
}

// Signup issues (or reissues) a confirmation code. An existing username must
// present its registered email; a new username/email pair creates an
// unconfirmed user with the default role. The code is only persisted after
// the email is accepted for delivery, so a send failure never leaves a live
// code behind.
func (s *Service) Signup(
	ctx context.Context,
	req SignupRequest,
) (*SignupResponse, error) {
	account, err := s.users.FindByUsername(ctx, req.Username)
	switch {
	case err == nil:
		if account.Email != req.Email {
			return nil, ErrEmailMismatch
		}
	case errors.Is(err, core.ErrNotFound):
		account, err = s.users.CreateUnconfirmed(ctx, req.Username, req.Email)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("find user: %w", err)
	}

	code, err := core.GenerateConfirmationCode()
	if err != nil {
		return nil, err
	}

	if err := s.mailer.SendConfirmationCode(
		account.Email,
		account.Username,
		code,
	); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMailDelivery, err)
	}

	if err := s.users.StoreConfirmationCode(ctx, account.ID, code); err != nil {
		return nil, fmt.Errorf("store confirmation code: %w", err)
	}

	return &SignupResponse{
		Username: account.Username,
		Email:    account.Email,
	}, nil
}

// IssueToken exchanges a (username, confirmation code) pair for a signed
// bearer token. Codes are single-use: the stored code is reset to the
// consumed sentinel as soon as the exchange succeeds.
func (s *Service) IssueToken(
	ctx context.Context,
	req TokenRequest,
) (string, error) {
	account, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return "", fmt.Errorf("issue token: %w", core.ErrNotFound)
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	if !core.CompareConfirmationCode(
		account.ConfirmationCode,
		req.ConfirmationCode,
	) {
		return "", ErrInvalidCode
	}

	token, err := s.jwt.CreateAccessToken(account.ID)
	if err != nil {
		return "", fmt.Errorf("create access token: %w", err)
	}

	if err := s.users.ConsumeConfirmationCode(ctx, account.ID); err != nil {
		return "", fmt.Errorf("consume confirmation code: %w", err)
	}

	return token, nil
}
