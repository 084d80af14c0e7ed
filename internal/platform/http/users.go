package http

import (
	"errors"
	"net/http"

	"github.com/courseloft/courseloft/internal/platform/domain"
	"github.com/courseloft/courseloft/internal/platform/service"
	"github.com/courseloft/courseloft/internal/platform/store"
	"github.com/courseloft/courseloft/pkg/authsdk"
	"github.com/courseloft/courseloft/pkg/httpx"
	"github.com/courseloft/courseloft/pkg/slogx"
)

type UsersHandler struct {
	UserService *service.UserService
}

func toUserResponse(u domain.User) authsdk.UserResponse {
	return authsdk.UserResponse{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Role:   u.Role,
	}
}

// HandleMe returns the authenticated user's profile.
//
//	@Summary		Get own profile
//	@Description	Returns the profile of the authenticated user.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.UserResponse	"User profile"
//	@Failure		401	{object}	authsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		500	{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/users/me [get].
func (h *UsersHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	user, err := h.UserService.GetUserByID(ctx, id.ID)
	if err != nil {
		log.Warn("failed to load user", "user_id", id.ID, "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

// HandleList returns all users. Admin only.
//
//	@Summary		List users
//	@Description	Returns all registered users, newest first. Requires the admin role.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.ListUsersResponse	"All users"
//	@Failure		401	{object}	authsdk.ErrorResponse		"Invalid or missing access token"
//	@Failure		403	{object}	authsdk.ErrorResponse		"Admin role required"
//	@Failure		500	{object}	authsdk.ErrorResponse		"Internal server error"
//	@Router			/v1/users [get].
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	users, err := h.UserService.ListUsers(ctx)
	if err != nil {
		log.Error("failed to list users", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	resp := authsdk.ListUsersResponse{Users: make([]authsdk.UserResponse, 0, len(users))}
	for _, u := range users {
		resp.Users = append(resp.Users, toUserResponse(u))
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleSetRole changes a user's role. Admin only.
//
//	@Summary		Set user role
//	@Description	Changes a user's role. The change takes effect at the user's next token refresh.
//	@Tags			Users
//	@Security		BearerAuth
//	@Accept			json
//	@Param			id		path	string					true	"User ID"
//	@Param			request	body	authsdk.SetRoleRequest	true	"New role"
//	@Success		204		"Role updated"
//	@Failure		400		{object}	authsdk.ErrorResponse	"Malformed request or unknown role"
//	@Failure		401		{object}	authsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		403		{object}	authsdk.ErrorResponse	"Admin role required"
//	@Failure		404		{object}	authsdk.ErrorResponse	"User not found"
//	@Failure		500		{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/users/{id}/role [put].
func (h *UsersHandler) HandleSetRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.SetRoleRequest
	if err := decodeJSONBody(r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	err := h.UserService.SetUserRole(ctx, r.PathValue("id"), req.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRole):
			authsdk.ErrInvalidRequest.WriteError(w)
		case errors.Is(err, store.ErrNotFound):
			authsdk.ErrNotFound.WriteError(w)
		default:
			log.Error("failed to set role", "err", err)
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
