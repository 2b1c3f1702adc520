package handicapservice

import (
	"context"
	"fmt"
	"slices"
	"strings"

	handicapdomain "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/domain"
	handicapdb "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/infrastructure/repositories"
	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UpsertCourse creates or replaces a course layout and its tees.
func (s *HandicapService) UpsertCourse(ctx context.Context, req UpsertCourseRequest) (*handicapdb.Course, error) {
	upsertTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*handicapdb.Course, error], error) {
		return s.upsertCourseLogic(ctx, db, req)
	}

	result, err := withTelemetry(s, ctx, "UpsertCourse", req.ID.String(), func(ctx context.Context) (results.OperationResult[*handicapdb.Course, error], error) {
		return runInTx(s, ctx, upsertTx)
	})
	return unwrap(result, err)
}

func (s *HandicapService) upsertCourseLogic(ctx context.Context, db bun.IDB, req UpsertCourseRequest) (results.OperationResult[*handicapdb.Course, error], error) {
	if err := validateCourse(req); err != nil {
		return results.FailureResult[*handicapdb.Course, error](err), nil
	}

	holes := slices.Clone(req.Holes)
	slices.SortFunc(holes, func(a, b handicapdb.CourseHole) int { return a.Hole - b.Hole })

	course := &handicapdb.Course{
		ID:       req.ID,
		Name:     strings.TrimSpace(req.Name),
		Location: strings.TrimSpace(req.Location),
		Holes:    holes,
	}
	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	for _, t := range req.Tees {
		course.Tees = append(course.Tees, &handicapdb.CourseTee{
			CourseID: course.ID,
			Name:     strings.TrimSpace(t.Name),
			Rating:   t.Rating,
			Slope:    t.Slope,
		})
	}

	if err := s.repo.UpsertCourse(ctx, db, course); err != nil {
		return results.OperationResult[*handicapdb.Course, error]{}, fmt.Errorf("failed to upsert course: %w", err)
	}
	return results.SuccessResult[*handicapdb.Course, error](course), nil
}

// validateCourse requires a 9 or 18 hole layout with unique holes, par 3..6 and either no
// stroke indexes or a full 1..n ranking.
func validateCourse(req UpsertCourseRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidCourse)
	}
	n := len(req.Holes)
	if n != handicapdomain.NineHoles && n != handicapdomain.MaxHoles {
		return fmt.Errorf("%w: course must have 9 or 18 holes, got %d", ErrInvalidCourse, n)
	}

	seenHole := make(map[int]bool, n)
	seenIndex := make(map[int]bool, n)
	for _, h := range req.Holes {
		switch {
		case h.Hole < 1 || h.Hole > handicapdomain.MaxHoles:
			return fmt.Errorf("%w: hole number %d out of range", ErrInvalidCourse, h.Hole)
		case seenHole[h.Hole]:
			return fmt.Errorf("%w: hole %d listed twice", ErrInvalidCourse, h.Hole)
		case h.Par < 3 || h.Par > 6:
			return fmt.Errorf("%w: hole %d has par %d", ErrInvalidCourse, h.Hole, h.Par)
		case h.StrokeIndex < 0 || h.StrokeIndex > n:
			return fmt.Errorf("%w: hole %d has stroke index %d", ErrInvalidCourse, h.Hole, h.StrokeIndex)
		case h.StrokeIndex > 0 && seenIndex[h.StrokeIndex]:
			return fmt.Errorf("%w: stroke index %d used twice", ErrInvalidCourse, h.StrokeIndex)
		}
		seenHole[h.Hole] = true
		if h.StrokeIndex > 0 {
			seenIndex[h.StrokeIndex] = true
		}
	}
	if len(seenIndex) != 0 && len(seenIndex) != n {
		return fmt.Errorf("%w: stroke indexes must cover every hole or none", ErrInvalidCourse)
	}

	tees := make(map[string]bool, len(req.Tees))
	for _, t := range req.Tees {
		name := strings.ToLower(strings.TrimSpace(t.Name))
		if name == "" {
			return fmt.Errorf("%w: tee name is required", ErrInvalidCourse)
		}
		if tees[name] {
			return fmt.Errorf("%w: tee %q listed twice", ErrInvalidCourse, t.Name)
		}
		tees[name] = true
	}
	return nil
}
