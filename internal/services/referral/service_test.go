package referral

import (
	"context"
	"strings"
	"testing"

	"primepool/internal/models"
	"primepool/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

func (f *fakeUsers) Create(u *models.User) error { f.users[u.ID] = u; return nil }

func (f *fakeUsers) GetByID(id uint) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByEmail(string) (*models.User, error) {
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUsers) GetByUsername(string) (*models.User, error) {
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUsers) GetByProviderUID(string) (*models.User, error) {
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUsers) GetByReferralCode(code string) (*models.User, error) {
	for _, u := range f.users {
		if u.ReferralCode == code {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUsers) GetByIDForUpdate(id uint) (*models.User, error) { return f.GetByID(id) }

func (f *fakeUsers) ListReferredBy(code string) ([]models.User, error) {
	var out []models.User
	for _, u := range f.users {
		if u.ReferredBy != nil && *u.ReferredBy == code {
			out = append(out, *u)
		}
	}
	return out, nil
}

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

func (f *fakeUsers) IncrementTokenVersion(uint) error { return nil }

func (f *fakeUsers) ExecuteInTransaction(fn func(repositories.UserRepository) error) error {
	return fn(f)
}

func TestGenerateCodeShape(t *testing.T) {
	svc := NewService(newFakeUsers(), "https://example.com/auth")

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := svc.Generate()
		require.NoError(t, err)
		assert.Len(t, code, 6)
		for _, ch := range code {
			assert.Contains(t, codeAlphabet, string(ch))
		}
		seen[code] = true
	}
	// 100 draws from a 36^6 space should not collide.
	assert.Greater(t, len(seen), 95)
}

func TestResolve(t *testing.T) {
	owner := &models.User{ReferralCode: "ABC123"}
	owner.ID = 1
	svc := NewService(newFakeUsers(owner), "https://example.com/auth")

	u, err := svc.Resolve("ABC123")
	require.NoError(t, err)
	assert.Equal(t, uint(1), u.ID)

	_, err = svc.Resolve("ZZZZZZ")
	assert.ErrorIs(t, err, ErrCodeNotFound)

	_, err = svc.Resolve("")
	assert.ErrorIs(t, err, ErrEmptyCode)
}

func TestAttachIsFirstWriterWins(t *testing.T) {
	u := &models.User{ReferralCode: "SELF01"}
	u.ID = 7
	users := newFakeUsers(u)
	svc := NewService(users, "https://example.com/auth")

	require.NoError(t, svc.Attach(7, "FIRST1"))
	require.NotNil(t, users.users[7].ReferredBy)
	assert.Equal(t, "FIRST1", *users.users[7].ReferredBy)

	// A second attach with a different code is a no-op.
	require.NoError(t, svc.Attach(7, "LATER2"))
	assert.Equal(t, "FIRST1", *users.users[7].ReferredBy)
}

func TestAttachAcceptsDanglingCode(t *testing.T) {
	u := &models.User{ReferralCode: "SELF01"}
	u.ID = 7
	users := newFakeUsers(u)
	svc := NewService(users, "https://example.com/auth")

	// No user owns this code; the reference is stored anyway.
	require.NoError(t, svc.Attach(7, "NOBODY"))
	assert.Equal(t, "NOBODY", *users.users[7].ReferredBy)
}

func TestShareLink(t *testing.T) {
	svc := NewService(newFakeUsers(), "https://example.com/auth")
	link := svc.ShareLink("ABC123")
	assert.Equal(t, "https://example.com/auth?ref=ABC123", link)
	assert.True(t, strings.HasSuffix(link, "ABC123"))
}

func TestOverview(t *testing.T) {
	owner := &models.User{ReferralCode: "OWNER1"}
	owner.ID = 1

	code := "OWNER1"
	uname := "kid1"
	referred := &models.User{ReferredBy: &code, Username: &uname, OnboardingCompleted: true, PrimeLevel: 2}
	referred.ID = 2

	svc := NewService(newFakeUsers(owner, referred), "https://example.com/auth")

	overview, err := svc.Overview(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "OWNER1", overview.Code)
	assert.Equal(t, 1, overview.Count)
	require.Len(t, overview.Members, 1)
	assert.Equal(t, "kid1", overview.Members[0].Username)
	assert.Equal(t, 2, overview.Members[0].PrimeLevel)
	assert.True(t, overview.Members[0].Active)
}
