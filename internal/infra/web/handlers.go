package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"meditation-premium-service/internal/domain"
	"meditation-premium-service/internal/domain/model"
	"meditation-premium-service/internal/usecase"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDomainError maps sentinel domain errors onto client-facing HTTP
// statuses; anything unmapped is an opaque server fault.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		http.Error(w, "Invalid argument", http.StatusBadRequest)
	case errors.Is(err, domain.ErrAlreadyExists):
		http.Error(w, "Already exists", http.StatusBadRequest)
	case errors.Is(err, domain.ErrCodeAlreadyUsed):
		http.Error(w, "Code already used", http.StatusBadRequest)
	case errors.Is(err, domain.ErrCodeNotFound):
		http.Error(w, "Code not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrNoActivationHistory):
		http.Error(w, "No activation history", http.StatusNotFound)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrPremiumRequired):
		http.Error(w, "Premium meditation. Upgrade required.", http.StatusForbidden)
	default:
		s.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// ===== Subscription =====

type checkResponse struct {
	Status        string `json:"status"`
	ExpiresInDays *int   `json:"expires_in_days,omitempty"`
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	status, err := s.subUC.Check(r.Context(), code)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if status.Used {
		writeJSON(w, http.StatusOK, checkResponse{Status: "used"})
		return
	}
	days := status.DurationDays
	writeJSON(w, http.StatusOK, checkResponse{Status: "valid", ExpiresInDays: &days})
}

type activateRequest struct {
	Code   string `json:"code"`
	UserID string `json:"user_id"`
}

type activateResponse struct {
	Status       string    `json:"status"`
	PremiumUntil time.Time `json:"premium_until"`
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	var req activateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	until, err := s.subUC.Activate(r.Context(), req.Code, req.UserID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, activateResponse{Status: "activated", PremiumUntil: until.UTC()})
}

type generateCodeRequest struct {
	DurationDays *int `json:"duration_days"`
}

type generateCodeResponse struct {
	RawCode      string `json:"raw_code"`
	Digest       string `json:"digest"`
	DurationDays int    `json:"duration_days"`
}

func (s *Server) handleGenerateCode(w http.ResponseWriter, r *http.Request) {
	var req generateCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	days := 30
	if req.DurationDays != nil {
		days = *req.DurationDays
	}

	issued, err := s.subUC.Issue(r.Context(), days)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, generateCodeResponse{
		RawCode:      issued.RawCode,
		Digest:       issued.Digest,
		DurationDays: issued.DurationDays,
	})
}

type historyEntry struct {
	Digest       string     `json:"digest"`
	ActivatedAt  *time.Time `json:"activated_at"`
	DurationDays int        `json:"duration_days"`
	IsUsed       bool       `json:"is_used"`
}

func historyEntries(codes []*model.ActivationCode) []historyEntry {
	out := make([]historyEntry, 0, len(codes))
	for _, c := range codes {
		out = append(out, historyEntry{
			Digest:       c.CodeHash,
			ActivatedAt:  c.ActivatedAt,
			DurationDays: c.DurationDays,
			IsUsed:       c.IsUsed,
		})
	}
	return out
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	s.serveHistory(w, r, r.URL.Query().Get("user_id"))
}

func (s *Server) handleHistoryByPath(w http.ResponseWriter, r *http.Request) {
	s.serveHistory(w, r, chi.URLParam(r, "userID"))
}

func (s *Server) serveHistory(w http.ResponseWriter, r *http.Request, userID string) {
	codes, err := s.subUC.History(r.Context(), userID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, historyEntries(codes))
}

// ===== Users =====

type userResponse struct {
	ID                     string     `json:"id"`
	Name                   string     `json:"name"`
	IsPremium              bool       `json:"is_premium"`
	PremiumExpiresAt       *time.Time `json:"premium_expires_at"`
	LastPlayedMeditationID *int64     `json:"last_played_meditation_id"`
}

// userView reports the *effective* premium state through the evaluator,
// never the raw stored flag.
func userView(u *model.User) userResponse {
	return userResponse{
		ID:                     u.ID,
		Name:                   u.Name,
		IsPremium:              u.HasActivePremium(time.Now().UTC()),
		PremiumExpiresAt:       u.PremiumExpiresAt,
		LastPlayedMeditationID: u.LastPlayedMeditationID,
	}
}

func (s *Server) handleUsersList(w http.ResponseWriter, r *http.Request) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	users, err := s.userUC.List(r.Context(), offset, limit)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userView(u))
	}
	writeJSON(w, http.StatusOK, out)
}

type userCreateRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (s *Server) handleUserCreate(w http.ResponseWriter, r *http.Request) {
	var req userCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	user, err := s.userUC.Register(r.Context(), req.ID, req.Name)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, userView(user))
}

func (s *Server) handleUserGet(w http.ResponseWriter, r *http.Request) {
	user, err := s.userUC.Get(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userView(user))
}

type userUpdateRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleUserUpdate(w http.ResponseWriter, r *http.Request) {
	var req userUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	user, err := s.userUC.Rename(r.Context(), chi.URLParam(r, "userID"), req.Name)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userView(user))
}

func (s *Server) handleUserDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.userUC.Delete(r.Context(), chi.URLParam(r, "userID")); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLastPlayedSet(w http.ResponseWriter, r *http.Request) {
	meditationID, err := strconv.ParseInt(chi.URLParam(r, "meditationID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid meditation id", http.StatusBadRequest)
		return
	}
	userID := chi.URLParam(r, "userID")
	if err := s.userUC.SetLastPlayed(r.Context(), userID, meditationID); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":                   "Last played meditation updated",
		"last_played_meditation_id": meditationID,
	})
}

func (s *Server) handleLastPlayedGet(w http.ResponseWriter, r *http.Request) {
	med, err := s.userUC.LastPlayed(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if med == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, med)
}

// ===== Meditations =====

type meditationResponse struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	DurationSeconds int    `json:"duration_seconds"`
	AudioURL        string `json:"audio_url"`
	IsPremium       bool   `json:"is_premium"`
	Category        string `json:"category"`
	LastPlayed      bool   `json:"last_played"`
}

func meditationView(v *usecase.MeditationView) meditationResponse {
	return meditationResponse{
		ID:              v.ID,
		Title:           v.Title,
		Description:     v.Description,
		DurationSeconds: v.DurationSeconds,
		AudioURL:        v.AudioURL,
		IsPremium:       v.IsPremium,
		Category:        v.Category,
		LastPlayed:      v.LastPlayed,
	}
}

func (s *Server) handleMeditationsList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := s.medUC.List(r.Context(), q.Get("user_id"), q.Get("category"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	out := make([]meditationResponse, 0, len(items))
	for _, it := range items {
		out = append(out, meditationView(it))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMeditationGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "meditationID"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid meditation id", http.StatusBadRequest)
		return
	}
	item, err := s.medUC.Get(r.Context(), id, r.URL.Query().Get("user_id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, meditationView(item))
}

func (s *Server) handleMeditationsSeed(w http.ResponseWriter, r *http.Request) {
	if err := s.medUC.Seed(r.Context()); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Meditation data seeded successfully"})
}
