package handicapdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// GetCourse retrieves a course with its tees.
func (r *Impl) GetCourse(ctx context.Context, db bun.IDB, courseID uuid.UUID) (*Course, error) {
	db = r.resolveDB(db)
	course := new(Course)
	err := db.NewSelect().
		Model(course).
		Relation("Tees").
		Where("c.id = ?", courseID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("handicapdb.GetCourse: %w", err)
	}
	return course, nil
}

// UpsertCourse creates or updates a course and replaces its tees.
func (r *Impl) UpsertCourse(ctx context.Context, db bun.IDB, course *Course) error {
	db = r.resolveDB(db)
	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	course.UpdatedAt = time.Now().UTC()

	_, err := db.NewInsert().
		Model(course).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("location = EXCLUDED.location").
		Set("holes = EXCLUDED.holes").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("handicapdb.UpsertCourse: %w", err)
	}

	if _, err := db.NewDelete().
		Model((*CourseTee)(nil)).
		Where("course_id = ?", course.ID).
		Exec(ctx); err != nil {
		return fmt.Errorf("handicapdb.UpsertCourse: clear tees: %w", err)
	}

	if len(course.Tees) == 0 {
		return nil
	}
	for _, t := range course.Tees {
		t.ID = 0
		t.CourseID = course.ID
	}
	if _, err := db.NewInsert().Model(&course.Tees).Exec(ctx); err != nil {
		return fmt.Errorf("handicapdb.UpsertCourse: insert tees: %w", err)
	}
	return nil
}
