package authsdk

// ErrorResponse represents the platform's standard error response body.
// This is used internally for parsing HTTP error responses. Client code
// should use the APIError type from errors.go instead.
type ErrorResponse struct {
	// Error is the machine-readable error code (e.g., "token_expired")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}

// TokenResponse represents the token endpoint response returned by
// POST /v1/auth/login and POST /v1/auth/refresh.
type TokenResponse struct {
	// AccessToken is the JWT access token used to authenticate API requests
	AccessToken string `json:"access_token"`

	// RefreshToken is the JWT refresh token used to obtain new access tokens
	RefreshToken string `json:"refresh_token"`

	// TokenType is always "Bearer"
	TokenType string `json:"token_type"`

	// ExpiresIn is the lifetime in seconds of the access token
	ExpiresIn int `json:"expires_in"`
}

// RegisterRequest is the body for POST /v1/auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginRequest is the body for POST /v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest is the body for POST /v1/auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LogoutRequest is the body for POST /v1/auth/logout.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UserResponse represents a user as returned by the API. The password hash
// never leaves the server.
type UserResponse struct {
	// UserID is the unique identifier for the user
	UserID string `json:"user_id"`

	// Email is the user's login email
	Email string `json:"email"`

	// Name is the user's display name
	Name string `json:"name"`

	// Role is the user's role ("user" or "admin")
	Role string `json:"role"`
}

// ListUsersResponse contains the list of all users. Admin only.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// SetRoleRequest is the body for PUT /v1/users/{id}/role. Admin only.
type SetRoleRequest struct {
	Role string `json:"role"`
}

// CourseRequest carries the mutable course fields for create and update.
type CourseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	Published   bool   `json:"published"`
}

// CourseResponse represents a course as returned by the API.
type CourseResponse struct {
	CourseID    string `json:"course_id"`
	AuthorID    string `json:"author_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	Published   bool   `json:"published"`

	// CreatedAt is the creation timestamp (RFC3339 format)
	CreatedAt string `json:"created_at"`
}

// ListCoursesResponse contains a list of courses.
type ListCoursesResponse struct {
	Courses []CourseResponse `json:"courses"`
}

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz (readyz includes the additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	// Database indicates the database connection status
	Database string `json:"database"`
}
