// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/reviewdeck/internal/core"
)

type fakeUserProvider struct {
	byUsername map[string]*UserInfo

	created      []*UserInfo
	storedCodes  map[string]string
	consumed     []string
	createErr    error
	storeCodeErr error
}

func newFakeUserProvider() *fakeUserProvider {
	return &fakeUserProvider{
		byUsername:  make(map[string]*UserInfo),
		storedCodes: make(map[string]string),
	}
}

func (f *fakeUserProvider) FindByUsername(
	_ context.Context,
	username string,
) (*UserInfo, error) {
	if account, ok := f.byUsername[username]; ok {
		copied := *account
		return &copied, nil
	}
	return nil, core.ErrNotFound
}

func (f *fakeUserProvider) CreateUnconfirmed(
	_ context.Context,
	username, email string,
) (*UserInfo, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}

	account := &UserInfo{
		ID:       "id-" + username,
		Username: username,
		Email:    email,
	}
	f.byUsername[username] = account
	f.created = append(f.created, account)
	return account, nil
}

func (f *fakeUserProvider) StoreConfirmationCode(
	_ context.Context,
	userID, code string,
) error {
	if f.storeCodeErr != nil {
		return f.storeCodeErr
	}
	f.storedCodes[userID] = code
	return nil
}

func (f *fakeUserProvider) ConsumeConfirmationCode(
	_ context.Context,
	userID string,
) error {
	f.consumed = append(f.consumed, userID)
	for username, account := range f.byUsername {
		if account.ID == userID {
			account.ConfirmationCode = ""
			f.byUsername[username] = account
		}
	}
	return nil
}

type fakeMailer struct {
	sent []string
	err  error
}

func (f *fakeMailer) SendConfirmationCode(to, _, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

func newTestService(
	t *testing.T,
	users *fakeUserProvider,
	mailer *fakeMailer,
) *Service {
	t.Helper()
	return NewService(users, newTestJWTManager(t, time.Hour), mailer)
}

func TestSignupNewUser(t *testing.T) {
	users := newFakeUserProvider()
	mailer := &fakeMailer{}
	svc := newTestService(t, users, mailer)

	resp, err := svc.Signup(context.Background(), SignupRequest{
		Username: "alice",
		Email:    "alice@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, "alice@example.com", resp.Email)

	require.Len(t, users.created, 1)
	assert.Equal(t, []string{"alice@example.com"}, mailer.sent)

	code := users.storedCodes["id-alice"]
	assert.Len(t, code, core.ConfirmationCodeLength)
}

func TestSignupExistingPairRotatesCode(t *testing.T) {
	users := newFakeUserProvider()
	users.byUsername["alice"] = &UserInfo{
		ID:               "u1",
		Username:         "alice",
		Email:            "alice@example.com",
		ConfirmationCode: "11111",
	}
	mailer := &fakeMailer{}
	svc := newTestService(t, users, mailer)

	_, err := svc.Signup(context.Background(), SignupRequest{
		Username: "alice",
		Email:    "alice@example.com",
	})

	require.NoError(t, err)
	assert.Empty(t, users.created)
	assert.NotEmpty(t, users.storedCodes["u1"])
	assert.NotEqual(t, "11111", users.storedCodes["u1"])
}

func TestSignupEmailMismatch(t *testing.T) {
	users := newFakeUserProvider()
	users.byUsername["alice"] = &UserInfo{
		ID:       "u1",
		Username: "alice",
		Email:    "real@example.com",
	}
	mailer := &fakeMailer{}
	svc := newTestService(t, users, mailer)

	_, err := svc.Signup(context.Background(), SignupRequest{
		Username: "alice",
		Email:    "other@example.com",
	})

	assert.ErrorIs(t, err, ErrEmailMismatch)
	assert.Empty(t, mailer.sent)
	assert.Empty(t, users.storedCodes)
}

func TestSignupMailFailureLeavesNoCode(t *testing.T) {
	users := newFakeUserProvider()
	mailer := &fakeMailer{err: errors.New("smtp down")}
	svc := newTestService(t, users, mailer)

	_, err := svc.Signup(context.Background(), SignupRequest{
		Username: "alice",
		Email:    "alice@example.com",
	})

	assert.ErrorIs(t, err, ErrMailDelivery)
	assert.Empty(t, users.storedCodes)
}

func TestIssueToken(t *testing.T) {
	t.Run("valid code yields token and consumes the code", func(t *testing.T) {
		users := newFakeUserProvider()
		users.byUsername["alice"] = &UserInfo{
			ID:               "u1",
			Username:         "alice",
			Email:            "alice@example.com",
			ConfirmationCode: "12345",
		}
		svc := newTestService(t, users, &fakeMailer{})

		token, err := svc.IssueToken(context.Background(), TokenRequest{
			Username:         "alice",
			ConfirmationCode: "12345",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, []string{"u1"}, users.consumed)
	})

	t.Run("consumed code cannot be replayed", func(t *testing.T) {
		users := newFakeUserProvider()
		users.byUsername["alice"] = &UserInfo{
			ID:               "u1",
			Username:         "alice",
			Email:            "alice@example.com",
			ConfirmationCode: "12345",
		}
		svc := newTestService(t, users, &fakeMailer{})

		_, err := svc.IssueToken(context.Background(), TokenRequest{
			Username:         "alice",
			ConfirmationCode: "12345",
		})
		require.NoError(t, err)

		_, err = svc.IssueToken(context.Background(), TokenRequest{
			Username:         "alice",
			ConfirmationCode: "12345",
		})
		assert.ErrorIs(t, err, ErrInvalidCode)
	})

	t.Run("wrong code", func(t *testing.T) {
		users := newFakeUserProvider()
		users.byUsername["alice"] = &UserInfo{
			ID:               "u1",
			Username:         "alice",
			ConfirmationCode: "12345",
		}
		svc := newTestService(t, users, &fakeMailer{})

		_, err := svc.IssueToken(context.Background(), TokenRequest{
			Username:         "alice",
			ConfirmationCode: "99999",
		})

		assert.ErrorIs(t, err, ErrInvalidCode)
		assert.Empty(t, users.consumed)
	})

	t.Run("unknown username maps to not found", func(t *testing.T) {
		svc := newTestService(t, newFakeUserProvider(), &fakeMailer{})

		_, err := svc.IssueToken(context.Background(), TokenRequest{
			Username:         "ghost",
			ConfirmationCode: "12345",
		})

		assert.ErrorIs(t, err, core.ErrNotFound)
	})
}
