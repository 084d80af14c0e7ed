package sqlite

import (
	"context"
	"time"

	"github.com/courseloft/courseloft/internal/platform/domain"
)

type coursesRepo struct {
	q queryer
}

const courseColumns = `id, author_id, title, description, price_cents, published, created_at, updated_at`

func scanCourse(row interface{ Scan(...any) error }) (domain.Course, error) {
	var c domain.Course
	err := row.Scan(&c.ID, &c.AuthorID, &c.Title, &c.Description,
		&c.PriceCents, &c.Published, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *coursesRepo) CreateCourse(ctx context.Context, c domain.Course) error {
	now := time.Now().UTC()
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO courses (id, author_id, title, description, price_cents, published, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.AuthorID, c.Title, c.Description, c.PriceCents, c.Published, now, now)
	return mapConflict(err)
}

func (r *coursesRepo) GetCourseByID(ctx context.Context, id string) (domain.Course, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE id = ?`, id)
	c, err := scanCourse(row)
	if err != nil {
		return domain.Course{}, mapNotFound(err)
	}
	return c, nil
}

func (r *coursesRepo) ListCourses(ctx context.Context) ([]domain.Course, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+courseColumns+` FROM courses ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []domain.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (r *coursesRepo) UpdateCourse(ctx context.Context, c domain.Course) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE courses SET title = ?, description = ?, price_cents = ?, published = ?, updated_at = ?
		 WHERE id = ?`,
		c.Title, c.Description, c.PriceCents, c.Published, time.Now().UTC(), c.ID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *coursesRepo) DeleteCourse(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
