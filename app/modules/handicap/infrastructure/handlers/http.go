package handicaphandlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	handicapservice "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/application"
	handicapdomain "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/domain"
	handicapdb "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/infrastructure/repositories"
	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/go-chi/chi/v5"
)

const (
	maxJSONBody   = 1 << 20
	maxUploadSize = 8 << 20

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func (h *HandicapHandlers) HandleGetHandicap(w http.ResponseWriter, r *http.Request) {
	handicap, err := h.service.GetPlayerHandicap(r.Context(), chi.URLParam(r, "playerID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, handicap)
}

func (h *HandicapHandlers) HandleGetHandicapHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			badRequest(w, "invalid limit")
			return
		}
		limit = n
	}

	history, err := h.service.GetHandicapHistory(r.Context(), chi.URLParam(r, "playerID"), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if history == nil {
		history = []handicapservice.HandicapPoint{}
	}
	writeJSON(w, http.StatusOK, history)
}

func (h *HandicapHandlers) HandleHandicapChart(w http.ResponseWriter, r *http.Request) {
	png, err := h.service.HandicapTrendChart(r.Context(), chi.URLParam(r, "playerID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

// HandleRecalculateHandicap queues the recalculation when a scheduler is
// configured and answers 202; without one it recalculates inline.
func (h *HandicapHandlers) HandleRecalculateHandicap(w http.ResponseWriter, r *http.Request) {
	playerID := strings.TrimSpace(chi.URLParam(r, "playerID"))
	if h.scheduler != nil {
		if playerID == "" {
			h.writeError(w, r, handicapservice.ErrPlayerRequired)
			return
		}
		if err := h.scheduler.ScheduleRecalculation(r.Context(), playerID); err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusAccepted, recalculationQueued{PlayerID: playerID, Status: "queued"})
		return
	}

	handicap, err := h.service.RecalculateHandicap(r.Context(), playerID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, handicap)
}

func (h *HandicapHandlers) HandleGetScorecard(w http.ResponseWriter, r *http.Request) {
	roundID, err := uuidParam(r, "roundID")
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	card, err := h.service.GetScorecard(r.Context(), roundID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (h *HandicapHandlers) HandleRecordRound(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req handicapservice.RecordRoundRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	round, err := h.service.RecordRound(ctx, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if claims, ok := ClaimsFromContext(ctx); ok {
		h.logger.InfoContext(ctx, "Round recorded over HTTP",
			attr.String("round_id", round.ID.String()),
			attr.String("recorded_by", claims.Subject),
		)
	}
	writeJSON(w, http.StatusCreated, round)
}

func (h *HandicapHandlers) HandleDeleteRound(w http.ResponseWriter, r *http.Request) {
	roundID, err := uuidParam(r, "roundID")
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	if err := h.service.DeleteRound(r.Context(), roundID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type courseResponse struct {
	ID       string                  `json:"id"`
	Name     string                  `json:"name"`
	Location string                  `json:"location,omitempty"`
	Holes    []handicapdb.CourseHole `json:"holes"`
	Tees     []handicapdomain.Tee    `json:"tees"`
}

func toCourseResponse(c *handicapdb.Course) courseResponse {
	out := courseResponse{
		ID:       c.ID.String(),
		Name:     c.Name,
		Location: c.Location,
		Holes:    c.Holes,
		Tees:     make([]handicapdomain.Tee, 0, len(c.Tees)),
	}
	for _, t := range c.Tees {
		out.Tees = append(out.Tees, handicapdomain.Tee{Name: t.Name, Rating: t.Rating, Slope: t.Slope})
	}
	return out
}

func (h *HandicapHandlers) HandleUpsertCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := uuidParam(r, "courseID")
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	var req handicapservice.UpsertCourseRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	req.ID = courseID

	course, err := h.service.UpsertCourse(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCourseResponse(course))
}

// HandleImportScorecard accepts a multipart upload with a "scorecard" file, an optional
// "played_on" date, an optional "tee" and an optional "player_map" JSON object.
func (h *HandicapHandlers) HandleImportScorecard(w http.ResponseWriter, r *http.Request) {
	courseID, err := uuidParam(r, "courseID")
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		badRequest(w, "invalid multipart upload")
		return
	}

	file, header, err := r.FormFile("scorecard")
	if err != nil {
		badRequest(w, "missing scorecard file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		badRequest(w, "failed to read scorecard file")
		return
	}

	req := handicapservice.ImportScorecardRequest{
		CourseID: courseID,
		FileName: header.Filename,
		Data:     data,
		TeeName:  r.FormValue("tee"),
	}
	if raw := r.FormValue("played_on"); raw != "" {
		if req.PlayedOn, err = parseBound(raw, false); err != nil {
			badRequest(w, fmt.Sprintf("invalid played_on: %q", raw))
			return
		}
	}
	if raw := strings.TrimSpace(r.FormValue("player_map")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.PlayerMap); err != nil {
			badRequest(w, "invalid player_map")
			return
		}
	}

	result, err := h.service.ImportScorecard(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *HandicapHandlers) parseLeaderboardRequest(w http.ResponseWriter, r *http.Request) (handicapservice.LeaderboardQuery, bool) {
	courseID, err := uuidParam(r, "courseID")
	if err != nil {
		badRequest(w, err.Error())
		return handicapservice.LeaderboardQuery{}, false
	}
	q, err := leaderboardQuery(courseID, r.URL.Query())
	if err != nil {
		badRequest(w, err.Error())
		return q, false
	}
	return q, true
}

func (h *HandicapHandlers) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseLeaderboardRequest(w, r)
	if !ok {
		return
	}

	lb, err := h.service.GetCourseLeaderboard(r.Context(), q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lb)
}

func (h *HandicapHandlers) HandleLeaderboardExport(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseLeaderboardRequest(w, r)
	if !ok {
		return
	}

	workbook, err := h.service.ExportLeaderboard(r.Context(), q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	name := fmt.Sprintf("leaderboard-%s-%s.xlsx", q.CourseID.String()[:8], time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write(workbook)
}
