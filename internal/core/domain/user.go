package domain

import "time"

// UserRole defines the role a user holds within their org.
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleStaff UserRole = "staff"
)

// AuthProvider identifies how a user authenticates.
const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

// User represents a staff member of a CA firm (org).
type User struct {
	UserID       string   `json:"userID" db:"user_id"`
	OrgID        string   `json:"orgID" db:"org_id"`
	Email        string   `json:"email" db:"email"`
	Name         string   `json:"name" db:"name"`
	PasswordHash *string  `json:"-" db:"password_hash"` // nil for external-provider users
	Role         UserRole `json:"role" db:"role"`

	AuthProvider   string  `json:"authProvider" db:"auth_provider"`
	ProviderUserID *string `json:"-" db:"provider_user_id"`
	IsVerified     bool    `json:"isVerified" db:"is_verified"`

	RefreshTokenHash       *string    `json:"-" db:"refresh_token_hash"`
	RefreshTokenExpiryTime *time.Time `json:"-" db:"refresh_token_expiry_time"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// GoogleUserInfo is the subset of the Google userinfo payload the backend consumes.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
