package handicapinbox

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidPath is returned for inbox files that do not follow <course-id>/<YYYY-MM-DD>[-suffix].<ext>.
var ErrInvalidPath = errors.New("invalid inbox path")

// Location is what an inbox file's path says about the card inside it.
type Location struct {
	CourseID uuid.UUID
	PlayedOn time.Time
}

// ParseInboxPath reads the course and play date from a slash-separated path relative to the inbox.
func ParseInboxPath(rel string) (Location, error) {
	dir, file := path.Split(path.Clean(rel))
	courseDir := path.Base(strings.TrimSuffix(dir, "/"))
	if dir == "" || courseDir == "." {
		return Location{}, fmt.Errorf("%w: %q has no course directory", ErrInvalidPath, rel)
	}

	courseID, err := uuid.Parse(courseDir)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %q is not a course ID", ErrInvalidPath, courseDir)
	}

	name := strings.TrimSuffix(file, path.Ext(file))
	if len(name) < len(time.DateOnly) {
		return Location{}, fmt.Errorf("%w: %q does not start with a date", ErrInvalidPath, file)
	}
	playedOn, err := time.Parse(time.DateOnly, name[:len(time.DateOnly)])
	if err != nil {
		return Location{}, fmt.Errorf("%w: %q does not start with a date", ErrInvalidPath, file)
	}
	if rest := name[len(time.DateOnly):]; rest != "" && !strings.HasPrefix(rest, "-") && !strings.HasPrefix(rest, "_") {
		return Location{}, fmt.Errorf("%w: unexpected text after date in %q", ErrInvalidPath, file)
	}

	return Location{CourseID: courseID, PlayedOn: playedOn}, nil
}
