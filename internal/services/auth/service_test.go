package auth

import (
	"testing"

	"primepool/internal/models"
	"primepool/internal/repositories"
	"primepool/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUsers struct {
	users map[uint]*models.User
}

func newFakeUsers(users ...*models.User) *fakeUsers {
	f := &fakeUsers{users: make(map[uint]*models.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(*models.User) error { return nil }

func (f *fakeUsers) GetByID(id uint) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByEmail(email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUsers) GetByUsername(string) (*models.User, error) {
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUsers) GetByProviderUID(string) (*models.User, error) {
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUsers) GetByReferralCode(string) (*models.User, error) {
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUsers) GetByIDForUpdate(id uint) (*models.User, error) { return f.GetByID(id) }

func (f *fakeUsers) ListReferredBy(string) ([]models.User, error) { return nil, nil }

func (f *fakeUsers) Update(u *models.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUsers) CreditBalance(userID uint, amount float64) error {
	u, ok := f.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.Balance += amount
	return nil
}

func (f *fakeUsers) IncrementTokenVersion(userID uint) error {
	u, ok := f.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.TokenVersion++
	return nil
}

func (f *fakeUsers) ExecuteInTransaction(fn func(repositories.UserRepository) error) error {
	return fn(f)
}

func testUser(t *testing.T) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &models.User{
		Email:        "alice@example.com",
		Password:     string(hash),
		Role:         "user",
		TokenVersion: 1,
	}
	u.ID = 1
	return u
}

func TestLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := NewService(newFakeUsers(testUser(t)))

	user, access, refresh, err := svc.Login("alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, uint(1), user.ID)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)

	_, claims, err := utils.ParseToken(access)
	require.NoError(t, err)
	assert.Equal(t, uint(1), claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, 1, claims.TokenVersion)
}

func TestLoginWrongPassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := NewService(newFakeUsers(testUser(t)))

	_, _, _, err := svc.Login("alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	svc := NewService(newFakeUsers())

	_, _, _, err := svc.Login("nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginFederatedOnlyAccountRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	uid := "google-123"
	u := &models.User{Email: "bob@example.com", ProviderUID: &uid, TokenVersion: 1}
	u.ID = 2
	svc := NewService(newFakeUsers(u))

	_, _, _, err := svc.Login("bob@example.com", "anything")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	users := newFakeUsers(testUser(t))
	svc := NewService(users)

	_, _, refresh, err := svc.Login("alice@example.com", "secret123")
	require.NoError(t, err)

	access, newRefresh, err := svc.RefreshTokens(refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, newRefresh)
}

func TestLogoutInvalidatesRefreshTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	users := newFakeUsers(testUser(t))
	svc := NewService(users)

	_, _, refresh, err := svc.Login("alice@example.com", "secret123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(1))

	_, _, err = svc.RefreshTokens(refresh)
	assert.Error(t, err) // token version mismatch
}
