package service

import (
	"context"
	"errors"

	"github.com/courseloft/courseloft/internal/platform/domain"
	"github.com/courseloft/courseloft/internal/platform/store"
	"github.com/courseloft/courseloft/pkg/idx"
	"github.com/courseloft/courseloft/pkg/tokenx"
)

// ErrForbidden is returned when the identity is authenticated but not allowed
// to act on the resource. Handlers map it to 403.
var ErrForbidden = errors.New("forbidden")

type CourseService struct {
	Store store.Store
}

// CourseInput carries the mutable course fields from the HTTP layer.
type CourseInput struct {
	Title       string
	Description string
	PriceCents  int64
	Published   bool
}

// CreateCourse creates a course owned by the calling identity.
func (s *CourseService) CreateCourse(ctx context.Context, id tokenx.Identity, in CourseInput) (domain.Course, error) {
	c := domain.Course{
		ID:          idx.New().String(),
		AuthorID:    id.ID,
		Title:       in.Title,
		Description: in.Description,
		PriceCents:  in.PriceCents,
		Published:   in.Published,
	}
	if err := s.Store.Courses().CreateCourse(ctx, c); err != nil {
		return domain.Course{}, err
	}
	return c, nil
}

// GetCourseByID fetches a course by id.
func (s *CourseService) GetCourseByID(ctx context.Context, courseID string) (domain.Course, error) {
	return s.Store.Courses().GetCourseByID(ctx, courseID)
}

// ListCourses returns all courses, newest first.
func (s *CourseService) ListCourses(ctx context.Context) ([]domain.Course, error) {
	return s.Store.Courses().ListCourses(ctx)
}

// UpdateCourse replaces the mutable fields of a course. Only the author or an
// admin may update; the ownership check runs before any write.
func (s *CourseService) UpdateCourse(ctx context.Context, id tokenx.Identity, courseID string, in CourseInput) (domain.Course, error) {
	c, err := s.Store.Courses().GetCourseByID(ctx, courseID)
	if err != nil {
		return domain.Course{}, err
	}

	if !domain.Allow(id, c.AuthorID) {
		return domain.Course{}, ErrForbidden
	}

	c.Title = in.Title
	c.Description = in.Description
	c.PriceCents = in.PriceCents
	c.Published = in.Published

	if err := s.Store.Courses().UpdateCourse(ctx, c); err != nil {
		return domain.Course{}, err
	}
	return c, nil
}

// DeleteCourse removes a course. Same ownership rule as UpdateCourse.
func (s *CourseService) DeleteCourse(ctx context.Context, id tokenx.Identity, courseID string) error {
	c, err := s.Store.Courses().GetCourseByID(ctx, courseID)
	if err != nil {
		return err
	}

	if !domain.Allow(id, c.AuthorID) {
		return ErrForbidden
	}

	return s.Store.Courses().DeleteCourse(ctx, c.ID)
}
