package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	apperrors "github.com/Jibinz12/cerebra-app/internal/platform/errors"
	"github.com/Jibinz12/cerebra-app/internal/server/llm"
	"github.com/Jibinz12/cerebra-app/internal/server/storage"
	"github.com/Jibinz12/cerebra-app/internal/server/syllabus"
)

// maxUploadBytes bounds syllabus uploads held in memory.
const maxUploadBytes = 32 << 20

// Handler serves the planner wire API.
type Handler struct {
	store *storage.Store
	coach *llm.Coach
	log   *zap.SugaredLogger
}

func NewHandler(store *storage.Store, coach *llm.Coach, log *zap.SugaredLogger) *Handler {
	return &Handler{store: store, coach: coach, log: log}
}

func jsonResponse(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func errorResponse(w http.ResponseWriter, message string, status int) {
	jsonResponse(w, map[string]string{"error": message}, status)
}

// === Wire payloads ===

type planRequest struct {
	EnergyLevel    string   `json:"energy_level"`
	HoursAvailable int      `json:"hours_available"`
	Subjects       []string `json:"subjects"`
	CurrentTime    string   `json:"current_time"`
	Date           string   `json:"date"`
}

type logRequest struct {
	Topic    string `json:"topic"`
	Duration int    `json:"duration"`
	XP       int    `json:"xp"`
}

type taskCreate struct {
	Date               string   `json:"date"`
	Time               string   `json:"time"`
	Task               string   `json:"task"`
	Type               string   `json:"type"`
	Reason             string   `json:"reason"`
	KeyConcepts        []string `json:"key_concepts"`
	SuggestedResources []string `json:"suggested_resources"`
}

type taskUpdate struct {
	Task string `json:"task"`
	Time string `json:"time"`
}

type quizRequest struct {
	Topic string `json:"topic"`
}

type historyItem struct {
	ID              int64  `json:"id"`
	Topic           string `json:"topic"`
	DurationMinutes int    `json:"duration_minutes"`
	Timestamp       string `json:"timestamp"`
	XPEarned        int    `json:"xp_earned"`
}

type taskItem struct {
	ID                 int64    `json:"id"`
	Date               string   `json:"date"`
	Time               string   `json:"time"`
	Task               string   `json:"task"`
	Type               string   `json:"type"`
	Reason             string   `json:"reason"`
	KeyConcepts        []string `json:"key_concepts"`
	SuggestedResources []string `json:"suggested_resources"`
	Completed          bool     `json:"completed"`
}

// === Generation ===

func (h *Handler) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}

	plan, err := h.coach.GeneratePlan(r.Context(), llm.PlanRequest{
		EnergyLevel:    req.EnergyLevel,
		HoursAvailable: req.HoursAvailable,
		Subjects:       req.Subjects,
		CurrentTime:    req.CurrentTime,
		Date:           req.Date,
	})
	if err != nil {
		h.log.Warnw("plan generation failed", "error", err)
		// Generation failures ride in the body with a 200; clients key
		// off the error field, not the status.
		jsonResponse(w, map[string]string{"error": err.Error()}, http.StatusOK)
		return
	}
	jsonResponse(w, plan, http.StatusOK)
}

func (h *Handler) GenerateQuiz(w http.ResponseWriter, r *http.Request) {
	var req quizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}

	questions, err := h.coach.GenerateQuiz(r.Context(), req.Topic)
	if err != nil {
		h.log.Warnw("quiz generation failed", "topic", req.Topic, "error", err)
		jsonResponse(w, map[string]string{"error": "Quiz failed"}, http.StatusOK)
		return
	}
	jsonResponse(w, map[string]any{"questions": questions}, http.StatusOK)
}

func (h *Handler) AnalyzeSyllabus(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		errorResponse(w, "invalid upload", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		errorResponse(w, "no file in upload", http.StatusBadRequest)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		errorResponse(w, "could not read upload", http.StatusBadRequest)
		return
	}

	text, err := syllabus.Text(header.Filename, content)
	if err != nil {
		if errors.Is(err, syllabus.ErrUnsupported) {
			jsonResponse(w, map[string]string{"error": "Unsupported file"}, http.StatusOK)
			return
		}
		h.log.Warnw("syllabus extraction failed", "file", header.Filename, "error", err)
		jsonResponse(w, map[string]any{"topics": []string{}, "error": err.Error()}, http.StatusOK)
		return
	}

	topics, err := h.coach.AnalyzeSyllabus(r.Context(), text)
	if err != nil {
		h.log.Warnw("syllabus analysis failed", "file", header.Filename, "error", err)
		jsonResponse(w, map[string]any{"topics": []string{}, "error": err.Error()}, http.StatusOK)
		return
	}
	jsonResponse(w, map[string]any{"topics": topics}, http.StatusOK)
}

// === History ===

func (h *Handler) LogSession(w http.ResponseWriter, r *http.Request) {
	var req logRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}

	total, err := h.store.AppendLog(r.Context(), req.Topic, req.Duration, req.XP)
	if err != nil {
		h.log.Errorw("log session failed", "topic", req.Topic, "error", err)
		errorResponse(w, "could not record session", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]any{"status": "Logged", "total_xp": total}, http.StatusOK)
}

func (h *Handler) UserStats(w http.ResponseWriter, r *http.Request) {
	total, history, err := h.store.Stats(r.Context())
	if err != nil {
		h.log.Errorw("stats read failed", "error", err)
		errorResponse(w, "could not read stats", http.StatusInternalServerError)
		return
	}

	items := make([]historyItem, 0, len(history))
	for _, entry := range history {
		items = append(items, historyItem{
			ID:              entry.ID,
			Topic:           entry.Topic,
			DurationMinutes: entry.DurationMinutes,
			Timestamp:       entry.Timestamp.Format(time.RFC3339),
			XPEarned:        entry.XPEarned,
		})
	}
	jsonResponse(w, map[string]any{"total_xp": total, "history": items}, http.StatusOK)
}

func (h *Handler) ResetHistory(w http.ResponseWriter, r *http.Request) {
	resetXP := false
	if raw := r.URL.Query().Get("reset_xp"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			errorResponse(w, "reset_xp must be a boolean", http.StatusBadRequest)
			return
		}
		resetXP = parsed
	}

	if err := h.store.ResetHistory(r.Context(), resetXP); err != nil {
		h.log.Errorw("history reset failed", "error", err)
		errorResponse(w, "could not reset history", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]string{"status": "History Cleared"}, http.StatusOK)
}

// === Calendar ===

func (h *Handler) AddTask(w http.ResponseWriter, r *http.Request) {
	var req taskCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}

	_, err := h.store.CreateTask(r.Context(), storage.Task{
		Date:               req.Date,
		Time:               req.Time,
		Task:               req.Task,
		Type:               req.Type,
		Reason:             req.Reason,
		KeyConcepts:        req.KeyConcepts,
		SuggestedResources: req.SuggestedResources,
	})
	if err != nil {
		h.log.Errorw("task create failed", "error", err)
		errorResponse(w, "could not add task", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]string{"status": "Added"}, http.StatusOK)
}

func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		errorResponse(w, "date is required", http.StatusBadRequest)
		return
	}

	tasks, err := h.store.TasksForDate(r.Context(), date)
	if err != nil {
		h.log.Errorw("task list failed", "date", date, "error", err)
		errorResponse(w, "could not list tasks", http.StatusInternalServerError)
		return
	}

	items := make([]taskItem, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, taskItem{
			ID:                 task.ID,
			Date:               task.Date,
			Time:               task.Time,
			Task:               task.Task,
			Type:               task.Type,
			Reason:             task.Reason,
			KeyConcepts:        task.KeyConcepts,
			SuggestedResources: task.SuggestedResources,
			Completed:          task.Completed,
		})
	}
	jsonResponse(w, map[string]any{"tasks": items}, http.StatusOK)
}

func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		errorResponse(w, "invalid task id", http.StatusBadRequest)
		return
	}

	var req taskUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Task == "" || req.Time == "" {
		errorResponse(w, "task and time are required", http.StatusBadRequest)
		return
	}

	err = h.store.UpdateTask(r.Context(), id, storage.TaskEdit{Task: req.Task, Time: req.Time})
	if errors.Is(err, apperrors.ErrNotFound) {
		errorResponse(w, "Task not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Errorw("task update failed", "id", id, "error", err)
		errorResponse(w, "could not update task", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]string{"status": "Updated"}, http.StatusOK)
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		errorResponse(w, "invalid task id", http.StatusBadRequest)
		return
	}

	// Absent rows get the same reply; the row is gone either way.
	if err := h.store.DeleteTask(r.Context(), id); err != nil {
		h.log.Errorw("task delete failed", "id", id, "error", err)
		errorResponse(w, "could not delete task", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]string{"status": "Deleted"}, http.StatusOK)
}

func (h *Handler) ResetCalendar(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ClearTasks(r.Context(), r.URL.Query().Get("date")); err != nil {
		h.log.Errorw("calendar reset failed", "error", err)
		errorResponse(w, "could not reset calendar", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]string{"status": "Calendar Cleared"}, http.StatusOK)
}

// === System ===

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	jsonResponse(w, map[string]any{
		"status":        "ok",
		"llm_available": h.coach.ProviderAvailable(ctx),
	}, http.StatusOK)
}
