package repositories

import (
	"errors"

	"primepool/internal/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailTaken        = errors.New("email already taken")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrInvalidUserData   = errors.New("invalid user data")
	ErrDatabaseOperation = errors.New("database operation failed")
)

// UserRepository defines the interface for user-related database operations.
// Username uniqueness is pre-checked by query for a friendly error, but the
// unique index is the authority: two concurrent registrations racing past
// the query cannot both commit.
type UserRepository interface {
	// Create creates a new user. Returns ErrEmailTaken or ErrUsernameTaken
	// on unique-constraint violations.
	Create(user *models.User) error

	// GetByID retrieves a user by their ID.
	GetByID(id uint) (*models.User, error)

	// GetByEmail retrieves a user by their email address.
	GetByEmail(email string) (*models.User, error)

	// GetByUsername retrieves a user by their exact username.
	GetByUsername(username string) (*models.User, error)

	// GetByProviderUID retrieves a user by their federated identity id.
	GetByProviderUID(uid string) (*models.User, error)

	// GetByReferralCode retrieves the user owning a referral code.
	GetByReferralCode(code string) (*models.User, error)

	// GetByIDForUpdate retrieves a user row locked FOR UPDATE. Only valid
	// inside ExecuteInTransaction.
	GetByIDForUpdate(id uint) (*models.User, error)

	// ListReferredBy lists users whose referred_by equals code, newest first.
	ListReferredBy(code string) ([]models.User, error)

	// Update saves an existing user's profile fields. The ledger columns
	// (balance, points, points_pending_pool) are never written by Update;
	// they change only through the wallet's transactional primitives or
	// CreditBalance.
	Update(user *models.User) error

	// CreditBalance atomically adds amount to a user's balance. Used for
	// the one credit outside the wallet operations, the start bonus.
	CreditBalance(userID uint, amount float64) error

	// IncrementTokenVersion invalidates all of the user's issued tokens.
	IncrementTokenVersion(userID uint) error

	// ExecuteInTransaction runs fn against a transaction-scoped repository;
	// the whole closure commits or rolls back as one unit.
	ExecuteInTransaction(fn func(UserRepository) error) error
}
