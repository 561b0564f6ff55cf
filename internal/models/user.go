package models

import (
	"gorm.io/gorm"
)

// User holds the identity record and the mutable ledger fields.
// The ledger columns (Balance, Points, PointsPendingPool) are the only
// mutable numeric state in the system; they never go negative and are
// mutated exclusively through the wallet service's transactional
// primitives.
type User struct {
	gorm.Model
	Email       string  `gorm:"uniqueIndex;not null" json:"email"`
	Password    string  `gorm:"default:''" json:"-"`          // empty for federated-only accounts
	ProviderUID *string `gorm:"uniqueIndex" json:"-"`         // stable id from a federated identity provider
	FullName    string  `json:"full_name"`
	Username    *string `gorm:"uniqueIndex" json:"username"` // null until onboarding completes
	Country     string  `json:"country"`

	// Referral identity. ReferralCode is minted once at creation and never
	// changes. ReferredBy stores the code supplied at signup, not the
	// referrer's id, and is set at most once.
	ReferralCode string  `gorm:"uniqueIndex;not null" json:"referral_code"`
	ReferredBy   *string `gorm:"index" json:"referred_by"`

	// Ledger fields, all >= 0 at all observable times.
	Balance           float64 `gorm:"not null;default:0" json:"balance"`
	Points            int64   `gorm:"not null;default:0" json:"points"`
	PointsPendingPool int64   `gorm:"not null;default:0" json:"points_pending_pool"`

	PrimeLevel          int    `gorm:"not null;default:0" json:"prime_level"`
	Role                string `gorm:"default:'user'" json:"role"`
	OnboardingCompleted bool   `gorm:"not null;default:false" json:"onboarding_completed"`
	IsProfileComplete   bool   `gorm:"not null;default:false" json:"is_profile_complete"`
	TokenVersion        int    `gorm:"default:1" json:"-"`
}

// DisplayName returns the name shown in the dashboard header.
func (u *User) DisplayName() string {
	if u.Username != nil && *u.Username != "" {
		return *u.Username
	}
	if u.FullName != "" {
		return u.FullName
	}
	return "User"
}

// Ledger is the read view of a user's balances handed to callers and
// cached in Redis. Cached copies are advisory; sufficiency decisions are
// always re-made against the database inside a transaction.
type Ledger struct {
	UserID            uint    `json:"user_id"`
	Balance           float64 `json:"balance"`
	Points            int64   `json:"points"`
	PointsPendingPool int64   `json:"points_pending_pool"`
}

// LedgerView extracts the ledger fields from a user row.
func (u *User) LedgerView() *Ledger {
	return &Ledger{
		UserID:            u.ID,
		Balance:           u.Balance,
		Points:            u.Points,
		PointsPendingPool: u.PointsPendingPool,
	}
}
