package handicaphandlers

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	handicapservice "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/application"
	handicapdomain "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s", name)
	}
	return id, nil
}

// parseBound accepts YYYY-MM-DD or RFC 3339. A date-only upper bound covers the whole day.
func parseBound(value string, upper bool) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, err
	}
	if upper {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return t, nil
}

// leaderboardQuery reads metric, holes, from, to, range, tee, type and player.
func leaderboardQuery(courseID uuid.UUID, v url.Values) (handicapservice.LeaderboardQuery, error) {
	q := handicapservice.LeaderboardQuery{
		CourseID:  courseID,
		Metric:    handicapdomain.Metric(v.Get("metric")),
		Holes:     handicapdomain.HoleSelection(v.Get("holes")),
		Range:     v.Get("range"),
		TeeName:   v.Get("tee"),
		RoundType: handicapdomain.RoundType(v.Get("type")),
		PlayerID:  v.Get("player"),
	}

	var err error
	if q.From, err = parseBound(v.Get("from"), false); err != nil {
		return q, fmt.Errorf("invalid from: %q", v.Get("from"))
	}
	if q.To, err = parseBound(v.Get("to"), true); err != nil {
		return q, fmt.Errorf("invalid to: %q", v.Get("to"))
	}
	return q, nil
}
