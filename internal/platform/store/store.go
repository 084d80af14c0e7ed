package store

import (
	"context"
	"errors"

	"github.com/courseloft/courseloft/internal/platform/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. Sub-repositories keep concerns separated and testable.
type Store interface {
	Users() Users
	RefreshTokens() RefreshTokens
	Courses() Courses

	ApplyMigrations() error

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise committed. Use it for multi-step
	// operations that must be atomic (e.g., refresh token rotation).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped view of the repositories.
type Tx interface {
	Users() Users
	RefreshTokens() RefreshTokens
	Courses() Courses
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// ListUsers returns all users ordered by creation date (newest first).
	ListUsers(ctx context.Context) ([]domain.User, error)

	// UpdateUserRole changes a user's role and bumps updated_at.
	UpdateUserRole(ctx context.Context, userID, role string) error
}

type RefreshTokens interface {
	// CreateRefreshToken stores a new refresh token record.
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// GetRefreshTokenByHash returns the record by token fingerprint.
	GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error)

	// RevokeRefreshToken flips revoked, sets updated_at.
	RevokeRefreshToken(ctx context.Context, hash string) error

	// RevokeAllUserRefreshTokens bulk revocation for a user (e.g., password
	// reset or admin lockout).
	RevokeAllUserRefreshTokens(ctx context.Context, userID string) error

	// DeleteExpiredRefreshTokens is periodic housekeeping.
	DeleteExpiredRefreshTokens(ctx context.Context) error
}

type Courses interface {
	// CreateCourse inserts a new course (id and author set by the app).
	CreateCourse(ctx context.Context, c domain.Course) error

	// GetCourseByID returns a course by id.
	GetCourseByID(ctx context.Context, id string) (domain.Course, error)

	// ListCourses returns all courses ordered by creation date (newest first).
	ListCourses(ctx context.Context) ([]domain.Course, error)

	// UpdateCourse replaces the mutable fields and bumps updated_at.
	UpdateCourse(ctx context.Context, c domain.Course) error

	// DeleteCourse removes a course.
	DeleteCourse(ctx context.Context, id string) error
}
