// Package referral derives and resolves the short codes that attribute
// new signups to existing members.
package referral

import (
	"context"
	"errors"
	"fmt"

	"primepool/internal/models"
	"primepool/internal/repositories"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

var (
	ErrCodeNotFound = errors.New("referral code not found")
	ErrEmptyCode    = errors.New("referral code is empty")
)

// Codes are 6 characters over 0-9A-Z. This is the one canonical strategy;
// the id-prefix variant that existed in an earlier flow is gone.
const (
	codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	codeLength   = 6
)

// Service manages referral codes and the referred-members view.
type Service interface {
	// Generate mints a new referral code.
	Generate() (string, error)

	// Resolve returns the user owning a code, or ErrCodeNotFound.
	Resolve(code string) (*models.User, error)

	// Attach sets referred_by on a user, only if currently unset.
	// Idempotent: once set, later calls are no-ops. The code is not
	// required to resolve; dangling references are accepted.
	Attach(userID uint, code string) error

	// ListReferred lists the users who signed up with a code, newest first.
	ListReferred(code string) ([]models.User, error)

	// ShareLink builds the signup link for a code.
	ShareLink(code string) string

	// Overview assembles the referral tab payload for a member.
	Overview(ctx context.Context, userID uint) (*Overview, error)
}

// ReferredMember is one row of the referral tab member list.
type ReferredMember struct {
	Username   string `json:"username"`
	PrimeLevel int    `json:"prime_level"`
	JoinedAt   string `json:"joined_at"`
	Active     bool   `json:"active"`
}

// Overview is the referral tab payload.
type Overview struct {
	Code      string           `json:"code"`
	ShareLink string           `json:"share_link"`
	Count     int              `json:"count"`
	Members   []ReferredMember `json:"members"`
}

type service struct {
	users        repositories.UserRepository
	shareBaseURL string
}

// NewService creates a referral service. shareBaseURL is the public auth
// page the referral link points at.
func NewService(users repositories.UserRepository, shareBaseURL string) Service {
	if users == nil {
		panic("user repo is required")
	}
	return &service{users: users, shareBaseURL: shareBaseURL}
}

func (s *service) Generate() (string, error) {
	code, err := gonanoid.Generate(codeAlphabet, codeLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate referral code: %w", err)
	}
	return code, nil
}

func (s *service) Resolve(code string) (*models.User, error) {
	if code == "" {
		return nil, ErrEmptyCode
	}
	user, err := s.users.GetByReferralCode(code)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrCodeNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *service) Attach(userID uint, code string) error {
	if code == "" {
		return ErrEmptyCode
	}
	return s.users.ExecuteInTransaction(func(tx repositories.UserRepository) error {
		user, err := tx.GetByIDForUpdate(userID)
		if err != nil {
			return err
		}
		if user.ReferredBy != nil {
			return nil // first writer wins
		}
		user.ReferredBy = &code
		return tx.Update(user)
	})
}

func (s *service) ListReferred(code string) ([]models.User, error) {
	if code == "" {
		return nil, ErrEmptyCode
	}
	return s.users.ListReferredBy(code)
}

func (s *service) ShareLink(code string) string {
	return fmt.Sprintf("%s?ref=%s", s.shareBaseURL, code)
}

func (s *service) Overview(ctx context.Context, userID uint) (*Overview, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}

	referred, err := s.users.ListReferredBy(user.ReferralCode)
	if err != nil {
		return nil, err
	}

	members := make([]ReferredMember, 0, len(referred))
	for _, m := range referred {
		members = append(members, ReferredMember{
			Username:   m.DisplayName(),
			PrimeLevel: m.PrimeLevel,
			JoinedAt:   m.CreatedAt.Format("2006-01-02"),
			Active:     m.OnboardingCompleted,
		})
	}

	return &Overview{
		Code:      user.ReferralCode,
		ShareLink: s.ShareLink(user.ReferralCode),
		Count:     len(members),
		Members:   members,
	}, nil
}
