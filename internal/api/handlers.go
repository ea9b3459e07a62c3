package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/skillforge/learn-engine/internal/learning"
	"github.com/skillforge/learn-engine/internal/models"
)

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service errors onto HTTP statuses
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, learning.ErrNotConfigured):
		respondError(w, http.StatusServiceUnavailable, "Database not configured")
	case errors.Is(err, learning.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, learning.ErrForbidden):
		respondError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, learning.ErrInvalidParent), errors.Is(err, learning.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// resolveUser returns the effective user id for a request: a verified token
// identity wins over a client-supplied id
func resolveUser(r *http.Request, bodyUserID string) string {
	if userID := UserFromContext(r.Context()); userID != "" {
		return userID
	}
	return bodyUserID
}

// Health handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"demo_mode": s.service.DemoMode(),
		"time":      time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "service not ready")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Feed and generation handlers

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	filters := models.FeedFilters{
		Course:   q.Get("course"),
		Filter:   q.Get("filter"),
		ViewerID: resolveUser(r, q.Get("userId")),
		Page:     page,
		Limit:    limit,
	}

	if filters.Filter == "mine" && filters.ViewerID == "" {
		respondError(w, http.StatusBadRequest, "userId is required for the mine filter")
		return
	}

	result, err := s.service.Feed(r.Context(), filters)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

type generateRequest struct {
	CourseID string `json:"courseId"`
	UserID   string `json:"userId"`
	models.SurveyInput
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ch, err := s.service.Generate(r.Context(), learning.GenerateRequest{
		CourseID: req.CourseID,
		UserID:   resolveUser(r, req.UserID),
		Survey:   req.SurveyInput,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"challenge": ch,
		"source":    ch.Source,
	})
}

// handleGenerateLegacy serves the pre-feed generation endpoint, which
// returns the bare challenge object
func (s *Server) handleGenerateLegacy(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ch, err := s.service.Generate(r.Context(), learning.GenerateRequest{
		CourseID: req.CourseID,
		UserID:   resolveUser(r, req.UserID),
		Survey:   req.SurveyInput,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, ch)
}

// Comment handlers

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	challengeID := chi.URLParam(r, "id")

	comments, err := s.service.Comments(r.Context(), challengeID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"comments": comments,
		"count":    len(comments),
	})
}

type addCommentRequest struct {
	UserID   string  `json:"userId"`
	Content  string  `json:"content"`
	ParentID *string `json:"parentId,omitempty"`
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	challengeID := chi.URLParam(r, "id")

	var req addCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	comment, err := s.service.AddComment(r.Context(), challengeID, resolveUser(r, req.UserID), req.Content, req.ParentID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, comment)
}

// Like handlers

type likeRequest struct {
	UserID string `json:"userId"`
}

func (s *Server) handleLikeToggle(w http.ResponseWriter, r *http.Request, target models.LikeTarget) {
	targetID := chi.URLParam(r, "id")

	var req likeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	status, err := s.service.ToggleLike(r.Context(), target, targetID, resolveUser(r, req.UserID))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, status)
}

func (s *Server) handleLikeStatus(w http.ResponseWriter, r *http.Request, target models.LikeTarget) {
	targetID := chi.URLParam(r, "id")
	userID := resolveUser(r, r.URL.Query().Get("userId"))

	status, err := s.service.LikeStatus(r.Context(), target, targetID, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, status)
}

func (s *Server) handleChallengeLikeToggle(w http.ResponseWriter, r *http.Request) {
	s.handleLikeToggle(w, r, models.LikeTargetChallenge)
}

func (s *Server) handleChallengeLikeStatus(w http.ResponseWriter, r *http.Request) {
	s.handleLikeStatus(w, r, models.LikeTargetChallenge)
}

func (s *Server) handleSubmissionLikeToggle(w http.ResponseWriter, r *http.Request) {
	s.handleLikeToggle(w, r, models.LikeTargetSubmission)
}

func (s *Server) handleSubmissionLikeStatus(w http.ResponseWriter, r *http.Request) {
	s.handleLikeStatus(w, r, models.LikeTargetSubmission)
}

// Submission handlers

func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	challengeID := q.Get("challengeId")
	if challengeID == "" {
		respondError(w, http.StatusBadRequest, "challengeId is required")
		return
	}

	subs, err := s.service.Submissions(r.Context(), challengeID, resolveUser(r, q.Get("userId")))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"submissions": subs,
		"count":       len(subs),
	})
}

type createSubmissionRequest struct {
	ChallengeID string `json:"challengeId"`
	UserID      string `json:"userId"`
	Code        string `json:"code,omitempty"`
	Story       string `json:"story,omitempty"`
	GithubLink  string `json:"githubLink,omitempty"`
	IsPublic    bool   `json:"isPublic"`
}

func (s *Server) handleCreateSubmission(w http.ResponseWriter, r *http.Request) {
	var req createSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sub, err := s.service.CreateSubmission(r.Context(), &models.Submission{
		ChallengeID: req.ChallengeID,
		UserID:      resolveUser(r, req.UserID),
		Code:        req.Code,
		Story:       req.Story,
		GithubLink:  req.GithubLink,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, sub)
}

type updateSubmissionRequest struct {
	SubmissionID string `json:"submissionId"`
	UserID       string `json:"userId"`
	IsPublic     bool   `json:"isPublic"`
}

func (s *Server) handleUpdateSubmission(w http.ResponseWriter, r *http.Request) {
	var req updateSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.SubmissionID == "" {
		respondError(w, http.StatusBadRequest, "submissionId is required")
		return
	}

	sub, err := s.service.SetSubmissionVisibility(r.Context(), req.SubmissionID, resolveUser(r, req.UserID), req.IsPublic)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, sub)
}

// Course handlers

type enrollRequest struct {
	CourseID string `json:"courseId"`
	UserID   string `json:"userId"`
}

func (s *Server) handleEnroll(w http.ResponseWriter, r *http.Request) {
	var req enrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	enr, err := s.service.Enroll(r.Context(), req.CourseID, resolveUser(r, req.UserID))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, enr)
}

type progressRequest struct {
	CourseID         string   `json:"courseId"`
	UserID           string   `json:"userId"`
	Progress         float64  `json:"progress"`
	CompletedLessons []string `json:"completedLessons,omitempty"`
}

func (s *Server) handleUpdateProgress(w http.ResponseWriter, r *http.Request) {
	var req progressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	enr, err := s.service.UpdateProgress(r.Context(), req.CourseID, resolveUser(r, req.UserID), req.Progress, req.CompletedLessons)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, enr)
}

type rateRequest struct {
	CourseID string `json:"courseId"`
	UserID   string `json:"userId"`
	Rating   int    `json:"rating"`
	Review   string `json:"review,omitempty"`
}

func (s *Server) handleRate(w http.ResponseWriter, r *http.Request) {
	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	summary, err := s.service.Rate(r.Context(), req.CourseID, resolveUser(r, req.UserID), req.Rating, req.Review)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleListRatings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	courseID := q.Get("courseId")
	if courseID == "" {
		respondError(w, http.StatusBadRequest, "courseId is required")
		return
	}

	ratings, own, summary, err := s.service.Ratings(r.Context(), courseID, resolveUser(r, q.Get("userId")))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ratings":       ratings,
		"userRating":    own,
		"avg_rating":    summary.AvgRating,
		"total_ratings": summary.TotalRatings,
	})
}

func (s *Server) handleCourseStats(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.CourseStats(r.Context(), r.URL.Query().Get("courseId"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Course request handler

func (s *Server) handleRequestCourse(w http.ResponseWriter, r *http.Request) {
	var req models.CourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := s.service.RequestCourse(r.Context(), req); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "course request received"})
}
