package handicaphandlers

import (
	"encoding/json"
	"errors"
	"net/http"

	handicapservice "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/application"
	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
)

type errorResponse struct {
	Error string `json:"error"`
}

type recalculationQueued struct {
	PlayerID string `json:"player_id"`
	Status   string `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, handicapservice.ErrRoundNotFound),
		errors.Is(err, handicapservice.ErrCourseNotFound):
		return http.StatusNotFound
	case errors.Is(err, handicapservice.ErrInvalidRound),
		errors.Is(err, handicapservice.ErrPlayerRequired),
		errors.Is(err, handicapservice.ErrUnsupportedMetric),
		errors.Is(err, handicapservice.ErrEmptyScorecard),
		errors.Is(err, handicapservice.ErrInvalidScorecard),
		errors.Is(err, handicapservice.ErrInvalidCourse),
		errors.Is(err, handicapservice.ErrInvalidQuery),
		errors.Is(err, handicapservice.ErrInvalidDateRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError reports business failures verbatim and hides infrastructure errors.
func (h *HandicapHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "Request failed",
			attr.String("method", r.Method),
			attr.String("path", r.URL.Path),
			attr.Error(err),
		)
		writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}
