// Package api exposes HTTP handlers for the exercise tracker.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/failllix/freecodecamp-project-exercisetracker/internal/domain"
)

// dateLayout renders calendar dates without a time component, e.g.
// "Mon Jan 01 2024".
const dateLayout = "Mon Jan 02 2006"

// formDateLayout parses date form fields and from/to query params.
const formDateLayout = "2006-01-02"

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service *domain.Service
}

// NewHandler builds a Handler.
func NewHandler(service *domain.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/users", h.users)
	mux.HandleFunc("/api/users/", h.userScoped)
	mux.HandleFunc("/healthz", healthz)
	mux.HandleFunc("/", index)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) users(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listUsers(w, r)
	case http.MethodPost:
		h.createUser(w, r)
	default:
		http.Error(w, "unsupported method", http.StatusMethodNotAllowed)
	}
}

// userScoped resolves the user referenced in the path before dispatching to
// the exercise endpoints. Every failure, including an unknown user, is a
// textual 500 by contract.
func (h *Handler) userScoped(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/users/")
	parts := strings.SplitN(rest, "/", 2)
	if parts[0] == "" {
		respondError(w, errors.New("missing user id"))
		return
	}

	user, err := h.service.GetUser(r.Context(), parts[0])
	if err != nil {
		respondError(w, err)
		return
	}

	if len(parts) < 2 {
		http.NotFound(w, r)
		return
	}

	switch {
	case parts[1] == "exercises" && r.Method == http.MethodPost:
		h.createExercise(w, r, user)
	case parts[1] == "logs" && r.Method == http.MethodGet:
		h.getLog(w, r, user)
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	views := make([]UserView, 0, len(users))
	for _, user := range users {
		views = append(views, toUserView(user))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.CreateUser(r.Context(), r.FormValue("username"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserView(user))
}

func (h *Handler) createExercise(w http.ResponseWriter, r *http.Request, user *domain.User) {
	duration, err := strconv.Atoi(r.FormValue("duration"))
	if err != nil {
		respondError(w, errors.New("duration must be an integer number of minutes"))
		return
	}

	var date time.Time
	if raw := r.FormValue("date"); raw != "" {
		date, err = time.Parse(formDateLayout, raw)
		if err != nil {
			respondError(w, err)
			return
		}
	}

	exercise, err := h.service.CreateExercise(r.Context(), domain.CreateExerciseInput{
		UserID:      user.ID,
		Description: r.FormValue("description"),
		Duration:    duration,
		Date:        date,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	// The creation response carries the owning user's identity at the top
	// level in place of the stored user reference.
	writeJSON(w, http.StatusOK, ExerciseCreationResponse{
		ID:          user.ID,
		Username:    user.Username,
		Description: exercise.Description,
		Duration:    exercise.Duration,
		Date:        exercise.Date.Format(dateLayout),
	})
}

func (h *Handler) getLog(w http.ResponseWriter, r *http.Request, user *domain.User) {
	query := r.URL.Query()

	// Range filtering only activates when both bounds are supplied; a
	// one-sided from or to leaves the log unfiltered. Preserved behaviour of
	// the original tracker.
	var rng *domain.DateRange
	if fromRaw, toRaw := query.Get("from"), query.Get("to"); fromRaw != "" && toRaw != "" {
		from, err := time.Parse(formDateLayout, fromRaw)
		if err != nil {
			respondError(w, err)
			return
		}
		to, err := time.Parse(formDateLayout, toRaw)
		if err != nil {
			respondError(w, err)
			return
		}
		rng = &domain.DateRange{From: from, To: to}
	}

	limit := 0
	if raw := query.Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	userLog, err := h.service.GetLog(r.Context(), user.ID, rng, limit)
	if err != nil {
		respondError(w, err)
		return
	}

	entries := make([]LogEntryView, 0, len(userLog.Entries))
	for _, exercise := range userLog.Entries {
		entries = append(entries, LogEntryView{
			Description: exercise.Description,
			Duration:    exercise.Duration,
			Date:        exercise.Date.Format(dateLayout),
		})
	}

	writeJSON(w, http.StatusOK, UserLogResponse{
		ID:       userLog.User.ID,
		Username: userLog.User.Username,
		Count:    userLog.Count,
		Log:      entries,
	})
}

// UserView is the response shape for user listing and creation.
type UserView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ExerciseCreationResponse is the response shape for exercise creation. The
// id and username are the owning user's, not the exercise's.
type ExerciseCreationResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
}

// LogEntryView is a single exercise inside a log response. The owning-user
// reference is never exposed here.
type LogEntryView struct {
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Date        string `json:"date"`
}

// UserLogResponse packages a user's filtered log and computed count.
type UserLogResponse struct {
	ID       string         `json:"id"`
	Username string         `json:"username"`
	Count    int            `json:"count"`
	Log      []LogEntryView `json:"log"`
}

func toUserView(user domain.User) UserView {
	return UserView{ID: user.ID, Username: user.Username}
}

// respondError converts any failure into the textual 500 response the
// original tracker emits, keeping the specific message for diagnostics.
func respondError(w http.ResponseWriter, err error) {
	log.Printf("request failed: %v", err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
