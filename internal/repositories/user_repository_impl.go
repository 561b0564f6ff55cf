package repositories

import (
	"errors"
	"fmt"
	"strings"

	"primepool/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQLSTATE class 23: integrity constraint violation.
const pgUniqueViolation = "23505"

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a user repository backed by the given database.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User) error {
	if user.Email == "" {
		return ErrInvalidUserData
	}
	if err := r.db.Create(user).Error; err != nil {
		return translateUniqueViolation(err)
	}
	return nil
}

func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	return r.getBy("email = ?", email)
}

func (r *userRepository) GetByUsername(username string) (*models.User, error) {
	return r.getBy("username = ?", username)
}

func (r *userRepository) GetByProviderUID(uid string) (*models.User, error) {
	return r.getBy("provider_uid = ?", uid)
}

func (r *userRepository) GetByReferralCode(code string) (*models.User, error) {
	return r.getBy("referral_code = ?", code)
}

func (r *userRepository) getBy(query string, arg string) (*models.User, error) {
	var user models.User
	if err := r.db.Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByIDForUpdate(id uint) (*models.User, error) {
	var user models.User
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to lock user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) ListReferredBy(code string) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("referred_by = ?", code).Order("created_at DESC").Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list referred users: %w", err)
	}
	return users, nil
}

func (r *userRepository) Update(user *models.User) error {
	// The ledger columns change only through the wallet's transactional
	// primitives; excluding them here means a profile write carrying a
	// stale struct can never revert a committed balance mutation.
	err := r.db.Model(user).
		Select("*").
		Omit("balance", "points", "points_pending_pool", "created_at").
		Updates(user).Error
	if err != nil {
		return translateUniqueViolation(err)
	}
	return nil
}

func (r *userRepository) CreditBalance(userID uint, amount float64) error {
	result := r.db.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("balance", gorm.Expr("balance + ?", amount))
	if result.Error != nil {
		return fmt.Errorf("failed to credit balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) IncrementTokenVersion(userID uint) error {
	result := r.db.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("token_version", gorm.Expr("token_version + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to increment token version: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) ExecuteInTransaction(fn func(UserRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&userRepository{db: tx})
	})
}

// translateUniqueViolation maps postgres unique-index failures onto the
// repository's sentinel errors. The driver error code (23505) is the
// authority; matching on error text is only a fallback for wrapped
// errors that lost the pgconn type.
func translateUniqueViolation(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		switch {
		case strings.Contains(pgErr.ConstraintName, "email"):
			return ErrEmailTaken
		case strings.Contains(pgErr.ConstraintName, "username"):
			return ErrUsernameTaken
		default:
			return fmt.Errorf("%w: %v", ErrDatabaseOperation, err)
		}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "idx_users_email") || strings.Contains(msg, "uni_users_email"):
		return ErrEmailTaken
	case strings.Contains(msg, "idx_users_username"):
		return ErrUsernameTaken
	case strings.Contains(msg, "duplicate key"):
		return fmt.Errorf("%w: %v", ErrDatabaseOperation, err)
	}
	return fmt.Errorf("failed to save user: %w", err)
}
