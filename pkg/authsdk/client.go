package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client is a client for the CourseLoft platform API. It provides the raw
// request/response operations; SessionManager builds the stateful session
// handling on top of it.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new platform API client.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	resp, err := c.postJSON(ctx, "/v1/auth/register", req, "")
	if err != nil {
		return nil, err
	}

	var user UserResponse
	if err := decodeJSON(resp, &user, http.StatusCreated); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	resp, err := c.postJSON(ctx, "/v1/auth/login", LoginRequest{Email: email, Password: password}, "")
	if err != nil {
		return nil, err
	}

	var tokens TokenResponse
	if err := decodeJSON(resp, &tokens, http.StatusOK); err != nil {
		return nil, err
	}
	return &tokens, nil
}

// Refresh exchanges a refresh token for a new token pair. The old refresh
// token is revoked server-side; callers must store the returned pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	resp, err := c.postJSON(ctx, "/v1/auth/refresh", RefreshRequest{RefreshToken: refreshToken}, "")
	if err != nil {
		return nil, err
	}

	var tokens TokenResponse
	if err := decodeJSON(resp, &tokens, http.StatusOK); err != nil {
		return nil, err
	}
	return &tokens, nil
}

// Logout revokes the refresh token server-side.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	resp, err := c.postJSON(ctx, "/v1/auth/logout", LogoutRequest{RefreshToken: refreshToken}, "")
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// Me returns the profile of the authenticated user.
func (c *Client) Me(ctx context.Context, accessToken string) (*UserResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/users/me", nil, accessToken)
	if err != nil {
		return nil, err
	}

	var user UserResponse
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns all registered users. Requires an admin access token.
func (c *Client) ListUsers(ctx context.Context, accessToken string) (*ListUsersResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/users", nil, accessToken)
	if err != nil {
		return nil, err
	}

	var users ListUsersResponse
	if err := decodeJSON(resp, &users, http.StatusOK); err != nil {
		return nil, err
	}
	return &users, nil
}

// SetUserRole changes a user's role. Requires an admin access token. The
// change takes effect at the user's next token refresh.
func (c *Client) SetUserRole(ctx context.Context, accessToken, userID, role string) error {
	body, err := json.Marshal(SetRoleRequest{Role: role})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPut, "/v1/users/"+userID+"/role", bytes.NewReader(body), accessToken)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// ListCourses returns the course catalogue. Publicly readable.
func (c *Client) ListCourses(ctx context.Context) (*ListCoursesResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/courses", nil, "")
	if err != nil {
		return nil, err
	}

	var courses ListCoursesResponse
	if err := decodeJSON(resp, &courses, http.StatusOK); err != nil {
		return nil, err
	}
	return &courses, nil
}

// GetCourse returns a single course. Publicly readable.
func (c *Client) GetCourse(ctx context.Context, courseID string) (*CourseResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/courses/"+courseID, nil, "")
	if err != nil {
		return nil, err
	}

	var course CourseResponse
	if err := decodeJSON(resp, &course, http.StatusOK); err != nil {
		return nil, err
	}
	return &course, nil
}

// CreateCourse creates a course owned by the authenticated user.
func (c *Client) CreateCourse(ctx context.Context, accessToken string, req CourseRequest) (*CourseResponse, error) {
	resp, err := c.postJSON(ctx, "/v1/courses", req, accessToken)
	if err != nil {
		return nil, err
	}

	var course CourseResponse
	if err := decodeJSON(resp, &course, http.StatusCreated); err != nil {
		return nil, err
	}
	return &course, nil
}

// UpdateCourse updates a course. Only the author or an admin may update.
func (c *Client) UpdateCourse(ctx context.Context, accessToken, courseID string, req CourseRequest) (*CourseResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPut, "/v1/courses/"+courseID, bytes.NewReader(body), accessToken)
	if err != nil {
		return nil, err
	}

	var course CourseResponse
	if err := decodeJSON(resp, &course, http.StatusOK); err != nil {
		return nil, err
	}
	return &course, nil
}

// DeleteCourse removes a course. Only the author or an admin may delete.
func (c *Client) DeleteCourse(ctx context.Context, accessToken, courseID string) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, "/v1/courses/"+courseID, nil, accessToken)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// Livez checks the liveness endpoint.
func (c *Client) Livez(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/livez", nil, "")
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

// Readyz checks the readiness endpoint, including dependency checks.
func (c *Client) Readyz(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/readyz", nil, "")
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}
