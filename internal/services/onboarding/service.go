// Package onboarding drives the registration state machine:
// Unregistered -> ProfileIncomplete -> Active.
//
// Two entry paths exist. Password registration collects the full profile
// up front and lands directly in Active. Federated sign-in creates a
// provisional user that must complete its profile before reaching
// Active. The canonical bonus policy: the starting bonus is granted
// exactly once, at the moment a user reaches Active, on either path.
package onboarding

import (
	"context"
	"errors"
	"fmt"

	"primepool/internal/models"
	"primepool/internal/repositories"
	"primepool/internal/services/ledger"
	"primepool/internal/services/referral"
	"primepool/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken       = repositories.ErrEmailTaken
	ErrUsernameTaken    = repositories.ErrUsernameTaken
	ErrAlreadyOnboarded = errors.New("onboarding already completed")
)

// DefaultStartBonus is the USD balance granted once on reaching Active.
const DefaultStartBonus = 100.0

// RegisterInput is the password-registration payload.
type RegisterInput struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	FullName     string `json:"full_name"`
	Username     string `json:"username"`
	Country      string `json:"country"`
	ReferralCode string `json:"referral_code"`
}

// FederatedInput carries the claims of a provider-verified identity.
type FederatedInput struct {
	ProviderUID  string `json:"provider_uid"`
	Email        string `json:"email"`
	DisplayName  string `json:"display_name"`
	ReferralCode string `json:"referral_code"`
}

// CompleteProfileInput finishes a provisional profile.
type CompleteProfileInput struct {
	Username     string `json:"username"`
	FullName     string `json:"full_name"`
	Country      string `json:"country"`
	ReferralCode string `json:"referral_code"`
}

// Service creates users and walks them to the Active state.
type Service interface {
	// RegisterWithPassword creates an Active user in one step.
	RegisterWithPassword(ctx context.Context, in RegisterInput) (*models.User, error)

	// FederatedSignIn upserts a user for a provider identity. The bool
	// reports whether a provisional profile was just created.
	FederatedSignIn(ctx context.Context, in FederatedInput) (*models.User, bool, error)

	// CompleteProfile validates the remaining profile fields, grants the
	// starting bonus once, and transitions the user to Active. Users
	// already Active get ErrAlreadyOnboarded.
	CompleteProfile(ctx context.Context, userID uint, in CompleteProfileInput) (*models.User, error)
}

type service struct {
	users      repositories.UserRepository
	referral   referral.Service
	ledger     ledger.Service
	startBonus float64
}

// NewService creates an onboarding service. startBonus <= 0 selects the
// default.
func NewService(users repositories.UserRepository, ref referral.Service, ledgerSvc ledger.Service, startBonus float64) Service {
	if users == nil {
		panic("user repo is required")
	}
	if ref == nil {
		panic("referral service is required")
	}
	if startBonus <= 0 {
		startBonus = DefaultStartBonus
	}
	return &service{users: users, referral: ref, ledger: ledgerSvc, startBonus: startBonus}
}

func (s *service) RegisterWithPassword(ctx context.Context, in RegisterInput) (*models.User, error) {
	v := validation.New()
	v.Registration(in.Email, in.Password, in.Username, in.FullName, in.Country)
	if err := v.Err(); err != nil {
		return nil, err
	}

	// Friendly pre-checks; the unique indexes are the race backstop.
	if _, err := s.users.GetByEmail(in.Email); err == nil {
		return nil, ErrEmailTaken
	}
	if _, err := s.users.GetByUsername(in.Username); err == nil {
		return nil, ErrUsernameTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	code, err := s.referral.Generate()
	if err != nil {
		return nil, err
	}

	username := in.Username
	user := &models.User{
		Email:               in.Email,
		Password:            string(hashed),
		FullName:            in.FullName,
		Username:            &username,
		Country:             in.Country,
		ReferralCode:        code,
		Balance:             s.startBonus, // bonus granted on reaching Active
		Role:                "user",
		OnboardingCompleted: true,
		IsProfileComplete:   true,
	}
	if in.ReferralCode != "" {
		rb := in.ReferralCode
		user.ReferredBy = &rb
	}

	if err := s.users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) FederatedSignIn(ctx context.Context, in FederatedInput) (*models.User, bool, error) {
	if in.ProviderUID == "" || in.Email == "" {
		return nil, false, validation.ErrInvalidInput
	}

	if user, err := s.users.GetByProviderUID(in.ProviderUID); err == nil {
		return user, false, nil
	}

	// Same email registered with a password earlier: link the identities.
	// The write runs against a locked re-read, not the lookup snapshot.
	if existing, err := s.users.GetByEmail(in.Email); err == nil {
		var linked *models.User
		err := s.users.ExecuteInTransaction(func(tx repositories.UserRepository) error {
			user, err := tx.GetByIDForUpdate(existing.ID)
			if err != nil {
				return err
			}
			uid := in.ProviderUID
			user.ProviderUID = &uid
			if err := tx.Update(user); err != nil {
				return err
			}
			linked = user
			return nil
		})
		if err != nil {
			return nil, false, err
		}
		return linked, false, nil
	}

	code, err := s.referral.Generate()
	if err != nil {
		return nil, false, err
	}

	uid := in.ProviderUID
	user := &models.User{
		Email:        in.Email,
		ProviderUID:  &uid,
		FullName:     in.DisplayName,
		ReferralCode: code,
		Role:         "user",
		// Username and country are collected by profile completion.
		OnboardingCompleted: false,
		IsProfileComplete:   false,
	}
	if in.ReferralCode != "" {
		rb := in.ReferralCode
		user.ReferredBy = &rb
	}

	if err := s.users.Create(user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (s *service) CompleteProfile(ctx context.Context, userID uint, in CompleteProfileInput) (*models.User, error) {
	v := validation.New()
	v.Profile(in.Username, in.FullName, in.Country)
	if err := v.Err(); err != nil {
		return nil, err
	}

	if existing, err := s.users.GetByUsername(in.Username); err == nil && existing.ID != userID {
		return nil, ErrUsernameTaken
	}

	var updated *models.User
	err := s.users.ExecuteInTransaction(func(tx repositories.UserRepository) error {
		user, err := tx.GetByIDForUpdate(userID)
		if err != nil {
			return err
		}
		// The flag is the bonus-once guard: a row that reached Active can
		// never pass here again.
		if user.OnboardingCompleted {
			return ErrAlreadyOnboarded
		}

		username := in.Username
		user.Username = &username
		user.FullName = in.FullName
		user.Country = in.Country
		if user.ReferredBy == nil && in.ReferralCode != "" {
			rb := in.ReferralCode
			user.ReferredBy = &rb
		}
		if user.ReferralCode == "" {
			code, err := s.referral.Generate()
			if err != nil {
				return err
			}
			user.ReferralCode = code
		}

		user.OnboardingCompleted = true
		user.IsProfileComplete = true

		if err := tx.Update(user); err != nil {
			return err
		}
		// Update never writes ledger columns; the bonus goes through the
		// atomic credit.
		if err := tx.CreditBalance(userID, s.startBonus); err != nil {
			return err
		}
		user.Balance += s.startBonus
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.ledger != nil {
		s.ledger.Invalidate(ctx, userID)
	}
	return updated, nil
}
