package repositories

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTranslateUniqueViolationByErrorCode(t *testing.T) {
	cases := []struct {
		name       string
		constraint string
		want       error
	}{
		{"username index", "idx_users_username", ErrUsernameTaken},
		{"email index", "idx_users_email", ErrEmailTaken},
		{"gorm-named email index", "uni_users_email", ErrEmailTaken},
		{"unrecognized unique index", "idx_users_referral_code", ErrDatabaseOperation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pgErr := &pgconn.PgError{
				Code:           pgUniqueViolation,
				ConstraintName: tc.constraint,
			}
			// The code path must survive wrapping, as gorm wraps driver errors.
			err := translateUniqueViolation(fmt.Errorf("insert failed: %w", pgErr))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestTranslateUniqueViolationIgnoresOtherCodes(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23503", // foreign key violation
		ConstraintName: "idx_users_username",
	}
	err := translateUniqueViolation(pgErr)
	assert.NotErrorIs(t, err, ErrUsernameTaken)
	assert.NotErrorIs(t, err, ErrEmailTaken)
}

func TestTranslateUniqueViolationTextFallback(t *testing.T) {
	err := translateUniqueViolation(errors.New(`duplicate key value violates unique constraint "idx_users_username"`))
	assert.ErrorIs(t, err, ErrUsernameTaken)

	err = translateUniqueViolation(errors.New(`duplicate key value violates unique constraint "uni_users_email"`))
	assert.ErrorIs(t, err, ErrEmailTaken)

	err = translateUniqueViolation(errors.New(`duplicate key value violates unique constraint "idx_users_referral_code"`))
	assert.ErrorIs(t, err, ErrDatabaseOperation)
}

func TestTranslateUniqueViolationNil(t *testing.T) {
	assert.NoError(t, translateUniqueViolation(nil))
}
