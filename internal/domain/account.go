// internal/domain/account.go
package domain

import "time"

// Account represents one registered Bithero user. The ID is issued by the
// external authentication collaborator and is never generated here.
type Account struct {
	ID            string    `db:"id" json:"id"`                         // Opaque, stable, assigned at signup
	Username      string    `db:"username" json:"username"`             // Display form, case preserved
	UsernameKey   string    `db:"username_key" json:"username_key"`     // Canonical form, unique across accounts
	WalletAddress *string   `db:"wallet_address" json:"wallet_address"` // Chain-specific address, optional
	DisplayName   *string   `db:"display_name" json:"display_name"`
	AvatarURL     *string   `db:"avatar_url" json:"avatar_url"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// UsernameClaim reserves a canonical username for exactly one account.
// A claim row exists iff some account currently owns that username.
type UsernameClaim struct {
	UsernameKey string    `db:"username_key" json:"username_key"`
	AccountID   string    `db:"account_id" json:"account_id"`
	Username    string    `db:"username" json:"username"` // Display form at claim time
	ClaimedAt   time.Time `db:"claimed_at" json:"claimed_at"`
}

// NewUsernameClaim creates a new UsernameClaim instance for the given owner.
func NewUsernameClaim(accountID, username string) *UsernameClaim {
	return &UsernameClaim{
		UsernameKey: Canonicalize(username),
		AccountID:   accountID,
		Username:    DisplayForm(username),
		ClaimedAt:   time.Now().UTC(),
	}
}

// ProfileUpdate describes a partial account update. Nil fields are left
// untouched; a non-nil Username always goes through the claim transaction.
type ProfileUpdate struct {
	DisplayName   *string
	AvatarURL     *string
	WalletAddress *string
	Username      *string
}

// IsEmpty reports whether the update carries no fields at all.
func (u ProfileUpdate) IsEmpty() bool {
	return u.DisplayName == nil && u.AvatarURL == nil && u.WalletAddress == nil && u.Username == nil
}
