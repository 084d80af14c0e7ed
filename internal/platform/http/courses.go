package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/courseloft/courseloft/internal/platform/domain"
	"github.com/courseloft/courseloft/internal/platform/service"
	"github.com/courseloft/courseloft/internal/platform/store"
	"github.com/courseloft/courseloft/pkg/authsdk"
	"github.com/courseloft/courseloft/pkg/httpx"
	"github.com/courseloft/courseloft/pkg/slogx"
)

type CoursesHandler struct {
	CourseService *service.CourseService
}

func toCourseResponse(c domain.Course) authsdk.CourseResponse {
	return authsdk.CourseResponse{
		CourseID:    c.ID,
		AuthorID:    c.AuthorID,
		Title:       c.Title,
		Description: c.Description,
		PriceCents:  c.PriceCents,
		Published:   c.Published,
		CreatedAt:   c.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func courseInput(req authsdk.CourseRequest) service.CourseInput {
	return service.CourseInput{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Published:   req.Published,
	}
}

// HandleCreate creates a course owned by the caller.
//
//	@Summary		Create a course
//	@Description	Creates a course with the authenticated user as author.
//	@Tags			Courses
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.CourseRequest	true	"Course fields"
//	@Success		201		{object}	authsdk.CourseResponse	"Created course"
//	@Failure		400		{object}	authsdk.ErrorResponse	"Malformed request"
//	@Failure		401		{object}	authsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		500		{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/courses [post].
func (h *CoursesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req authsdk.CourseRequest
	if err := decodeJSONBody(r, &req); err != nil || strings.TrimSpace(req.Title) == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	course, err := h.CourseService.CreateCourse(ctx, id, courseInput(req))
	if err != nil {
		log.Error("failed to create course", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toCourseResponse(course))
}

// HandleGet returns a single course.
//
//	@Summary		Get a course
//	@Tags			Courses
//	@Produce		json
//	@Param			id	path		string					true	"Course ID"
//	@Success		200	{object}	authsdk.CourseResponse	"Course"
//	@Failure		404	{object}	authsdk.ErrorResponse	"Course not found"
//	@Failure		500	{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/courses/{id} [get].
func (h *CoursesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	course, err := h.CourseService.GetCourseByID(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			authsdk.ErrNotFound.WriteError(w)
			return
		}
		log.Error("failed to load course", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toCourseResponse(course))
}

// HandleList returns the course catalogue.
//
//	@Summary		List courses
//	@Tags			Courses
//	@Produce		json
//	@Success		200	{object}	authsdk.ListCoursesResponse	"All courses"
//	@Failure		500	{object}	authsdk.ErrorResponse		"Internal server error"
//	@Router			/v1/courses [get].
func (h *CoursesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	courses, err := h.CourseService.ListCourses(ctx)
	if err != nil {
		log.Error("failed to list courses", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	resp := authsdk.ListCoursesResponse{Courses: make([]authsdk.CourseResponse, 0, len(courses))}
	for _, c := range courses {
		resp.Courses = append(resp.Courses, toCourseResponse(c))
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleUpdate replaces a course's mutable fields. Author or admin only.
//
//	@Summary		Update a course
//	@Description	Replaces the course's mutable fields. Only the author or an admin may update.
//	@Tags			Courses
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Course ID"
//	@Param			request	body		authsdk.CourseRequest	true	"Course fields"
//	@Success		200		{object}	authsdk.CourseResponse	"Updated course"
//	@Failure		400		{object}	authsdk.ErrorResponse	"Malformed request"
//	@Failure		401		{object}	authsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		403		{object}	authsdk.ErrorResponse	"Not the author"
//	@Failure		404		{object}	authsdk.ErrorResponse	"Course not found"
//	@Failure		500		{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/courses/{id} [put].
func (h *CoursesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	var req authsdk.CourseRequest
	if err := decodeJSONBody(r, &req); err != nil || strings.TrimSpace(req.Title) == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	course, err := h.CourseService.UpdateCourse(ctx, id, r.PathValue("id"), courseInput(req))
	if err != nil {
		h.writeCourseError(w, log, err, "failed to update course")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toCourseResponse(course))
}

// HandleDelete removes a course. Author or admin only.
//
//	@Summary		Delete a course
//	@Description	Removes the course. Only the author or an admin may delete.
//	@Tags			Courses
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Course ID"
//	@Success		204	"Course deleted"
//	@Failure		401	{object}	authsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		403	{object}	authsdk.ErrorResponse	"Not the author"
//	@Failure		404	{object}	authsdk.ErrorResponse	"Course not found"
//	@Failure		500	{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/courses/{id} [delete].
func (h *CoursesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	id, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	if err := h.CourseService.DeleteCourse(ctx, id, r.PathValue("id")); err != nil {
		h.writeCourseError(w, log, err, "failed to delete course")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CoursesHandler) writeCourseError(w http.ResponseWriter, log *slog.Logger, err error, msg string) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		authsdk.ErrForbidden.WriteError(w)
	case errors.Is(err, store.ErrNotFound):
		authsdk.ErrNotFound.WriteError(w)
	default:
		log.Error(msg, "err", err)
		authsdk.ErrServerError.WriteError(w)
	}
}
