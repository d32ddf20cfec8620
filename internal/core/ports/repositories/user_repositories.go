package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ledgerly/ledgerly_backend/internal/core/domain"
)

// OrgReader defines read operations for org data
type OrgReader interface {
	// FindOrgByID retrieves a specific org by its ID.
	FindOrgByID(ctx context.Context, orgID string) (*domain.Org, error)
}

// OrgWriter defines write operations for org data
type OrgWriter interface {
	// SaveOrg persists a new org. When tx is non-nil the insert joins that
	// transaction so org and first admin commit atomically; nil uses the pool.
	SaveOrg(ctx context.Context, tx pgx.Tx, org domain.Org) error
}

// OrgRepositoryFacade combines all org-related repository interfaces
type OrgRepositoryFacade interface {
	OrgReader
	OrgWriter
	TransactionManager
}

// UserReader defines read operations for user data
type UserReader interface {
	// FindUserByID retrieves a specific user by their ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a user by email address.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUserByProviderID retrieves a user by external auth provider identity.
	FindUserByProviderID(ctx context.Context, provider string, providerUserID string) (*domain.User, error)

	// FindUsersByOrg retrieves all users belonging to an org.
	FindUsersByOrg(ctx context.Context, orgID string) ([]domain.User, error)
}

// UserWriter defines write operations for user data
type UserWriter interface {
	// SaveUser persists a new user. A non-nil tx joins an open transaction.
	SaveUser(ctx context.Context, tx pgx.Tx, user domain.User) error

	// UpdateRefreshToken stores the hash and expiry of a newly issued refresh token.
	UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, expiryTime time.Time) error

	// ClearRefreshToken removes a user's stored refresh token.
	ClearRefreshToken(ctx context.Context, userID string) error
}

// UserRepositoryFacade combines all user-related repository interfaces
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
