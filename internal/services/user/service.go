// Package user covers the profile tab: reading the profile and the one
// mutable profile field, the username.
package user

import (
	"errors"

	"primepool/internal/models"
	"primepool/internal/repositories"
	"primepool/internal/validation"
)

var (
	ErrUsernameTaken     = repositories.ErrUsernameTaken
	ErrUsernameUnchanged = errors.New("username is the same, no changes saved")
)

// Service exposes profile reads and username updates.
type Service interface {
	GetByID(id uint) (*models.User, error)
	UpdateUsername(userID uint, newUsername string) (*models.User, error)
}

type service struct {
	repo repositories.UserRepository
}

// NewService creates a profile service.
func NewService(repo repositories.UserRepository) Service {
	return &service{repo: repo}
}

func (s *service) GetByID(id uint) (*models.User, error) {
	return s.repo.GetByID(id)
}

func (s *service) UpdateUsername(userID uint, newUsername string) (*models.User, error) {
	v := validation.New()
	v.Check(len(newUsername) >= validation.MinUsernameLen, "username", "must be at least 3 characters")
	if err := v.Err(); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user.Username != nil && *user.Username == newUsername {
		return nil, ErrUsernameUnchanged
	}

	// Pre-check for a friendly error; the unique index decides the race.
	if existing, err := s.repo.GetByUsername(newUsername); err == nil && existing.ID != userID {
		return nil, ErrUsernameTaken
	}

	// Re-read the row locked so the write is based on current state, not
	// on the snapshot the pre-checks ran against.
	var updated *models.User
	err = s.repo.ExecuteInTransaction(func(tx repositories.UserRepository) error {
		u, err := tx.GetByIDForUpdate(userID)
		if err != nil {
			return err
		}
		u.Username = &newUsername
		if err := tx.Update(u); err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
