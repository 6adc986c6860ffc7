package content

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/mathpath/backend/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func getUserID(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value("user_id").(int64)
	return uid, ok
}

// ── Catalog ─────────────────────────────────────────────

func (h *Handler) ListDisciplines(w http.ResponseWriter, r *http.Request) {
	disciplines, err := h.service.ListDisciplines()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list disciplines"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"disciplines": disciplines})
}

func (h *Handler) ListModules(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	mods, err := h.service.ListModules(slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Discipline not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list modules"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"modules": mods})
}

func (h *Handler) ListLessons(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	moduleID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid module ID"})
		return
	}

	lessons, err := h.service.ListLessons(moduleID, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list lessons"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"lessons": lessons})
}

func (h *Handler) GetLesson(w http.ResponseWriter, r *http.Request) {
	lessonID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid lesson ID"})
		return
	}

	lesson, exercises, err := h.service.GetLessonWithExercises(lessonID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Lesson not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get lesson"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"lesson":    lesson,
		"exercises": exercises,
	})
}

// ── Progress ────────────────────────────────────────────

func (h *Handler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	lessonID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid lesson ID"})
		return
	}

	resp, err := h.service.CompleteLesson(userID, lessonID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Lesson not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to complete lesson"})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) SubmitAttempt(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	exerciseID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid exercise ID"})
		return
	}

	var req models.SubmitAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.service.SubmitAttempt(userID, exerciseID, req.Answer)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Exercise not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to submit attempt"})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ── Drafts (admin) ──────────────────────────────────────

func (h *Handler) GenerateDrafts(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateDraftsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.service.GenerateDrafts(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownDifficulty), errors.Is(err, ErrInvalidDraftCount):
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		default:
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to generate drafts"})
		}
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	drafts, err := h.service.ListDrafts(status, limit, offset)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list drafts"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"drafts": drafts})
}

func (h *Handler) ReviewDraft(w http.ResponseWriter, r *http.Request) {
	draftID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid draft ID"})
		return
	}

	var req models.ReviewDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	reviewed, err := h.service.ReviewDraft(draftID, req.Action)
	if err != nil {
		if errors.Is(err, ErrInvalidAction) {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to review draft"})
		return
	}
	if !reviewed {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Draft not found or already reviewed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ── Helpers ─────────────────────────────────────────────

func pathID(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[key], 10, 64)
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
