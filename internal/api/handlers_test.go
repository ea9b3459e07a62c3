package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillforge/learn-engine/internal/learning"
	"github.com/skillforge/learn-engine/internal/models"
	"github.com/skillforge/learn-engine/internal/ratelimit"
)

// stubService lets each test wire just the methods it exercises
type stubService struct {
	feed           func(ctx context.Context, filters models.FeedFilters) (*learning.FeedResult, error)
	generate       func(ctx context.Context, req learning.GenerateRequest) (*models.Challenge, error)
	addComment     func(ctx context.Context, challengeID, userID, content string, parentID *string) (*models.Comment, error)
	toggleLike     func(ctx context.Context, target models.LikeTarget, targetID, userID string) (models.LikeStatus, error)
	likeStatus     func(ctx context.Context, target models.LikeTarget, targetID, userID string) (models.LikeStatus, error)
	createSub      func(ctx context.Context, sub *models.Submission) (*models.Submission, error)
	setSubVis      func(ctx context.Context, submissionID, userID string, isPublic bool) (*models.Submission, error)
	enroll         func(ctx context.Context, courseID, userID string) (*models.Enrollment, error)
	updateProgress func(ctx context.Context, courseID, userID string, progress float64, lessons []string) (*models.Enrollment, error)
	rate           func(ctx context.Context, courseID, userID string, rating int, review string) (models.RatingSummary, error)
	requestCourse  func(ctx context.Context, req models.CourseRequest) error
	pingErr        error
}

func (s *stubService) Feed(ctx context.Context, filters models.FeedFilters) (*learning.FeedResult, error) {
	return s.feed(ctx, filters)
}

func (s *stubService) Generate(ctx context.Context, req learning.GenerateRequest) (*models.Challenge, error) {
	return s.generate(ctx, req)
}

func (s *stubService) Comments(ctx context.Context, challengeID string) ([]*models.Comment, error) {
	return []*models.Comment{}, nil
}

func (s *stubService) AddComment(ctx context.Context, challengeID, userID, content string, parentID *string) (*models.Comment, error) {
	return s.addComment(ctx, challengeID, userID, content, parentID)
}

func (s *stubService) ToggleLike(ctx context.Context, target models.LikeTarget, targetID, userID string) (models.LikeStatus, error) {
	return s.toggleLike(ctx, target, targetID, userID)
}

func (s *stubService) LikeStatus(ctx context.Context, target models.LikeTarget, targetID, userID string) (models.LikeStatus, error) {
	return s.likeStatus(ctx, target, targetID, userID)
}

func (s *stubService) Submissions(ctx context.Context, challengeID, viewerID string) ([]*models.Submission, error) {
	return []*models.Submission{}, nil
}

func (s *stubService) CreateSubmission(ctx context.Context, sub *models.Submission) (*models.Submission, error) {
	return s.createSub(ctx, sub)
}

func (s *stubService) SetSubmissionVisibility(ctx context.Context, submissionID, userID string, isPublic bool) (*models.Submission, error) {
	return s.setSubVis(ctx, submissionID, userID, isPublic)
}

func (s *stubService) Enroll(ctx context.Context, courseID, userID string) (*models.Enrollment, error) {
	return s.enroll(ctx, courseID, userID)
}

func (s *stubService) UpdateProgress(ctx context.Context, courseID, userID string, progress float64, lessons []string) (*models.Enrollment, error) {
	return s.updateProgress(ctx, courseID, userID, progress, lessons)
}

func (s *stubService) Rate(ctx context.Context, courseID, userID string, rating int, review string) (models.RatingSummary, error) {
	return s.rate(ctx, courseID, userID, rating, review)
}

func (s *stubService) Ratings(ctx context.Context, courseID, viewerID string) ([]*models.Rating, *models.Rating, models.RatingSummary, error) {
	var own *models.Rating
	if viewerID != "" {
		own = &models.Rating{ID: "rat-1", CourseID: courseID, UserID: viewerID, Rating: 4}
	}
	return []*models.Rating{}, own, models.RatingSummary{AvgRating: 4.5, TotalRatings: 2}, nil
}

func (s *stubService) CourseStats(ctx context.Context, courseID string) (*learning.CourseStatsResult, error) {
	return &learning.CourseStatsResult{
		Course: &models.Course{ID: courseID, Title: "Stub Course"},
		Stats:  &models.CourseStats{Enrollments: 3},
		Source: "database",
	}, nil
}

func (s *stubService) RequestCourse(ctx context.Context, req models.CourseRequest) error {
	return s.requestCourse(ctx, req)
}

func (s *stubService) Ping(ctx context.Context) error { return s.pingErr }
func (s *stubService) DemoMode() bool                 { return false }

func newTestServer(svc learning.Service) *Server {
	return NewServer(svc, "", nil, nil)
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleFeed(t *testing.T) {
	svc := &stubService{
		feed: func(ctx context.Context, filters models.FeedFilters) (*learning.FeedResult, error) {
			assert.Equal(t, "javascript-fundamentals", filters.Course)
			assert.Equal(t, "popular", filters.Filter)
			assert.Equal(t, 2, filters.Page)
			assert.Equal(t, 10, filters.Limit)
			return &learning.FeedResult{
				Items:  []*models.FeedItem{{Challenge: models.Challenge{ID: "ch-1"}}},
				Total:  11,
				Page:   filters.Page,
				Limit:  filters.Limit,
				Source: "database",
			}, nil
		},
	}
	srv := newTestServer(svc)

	rec := doJSON(t, srv.Router(), http.MethodGet,
		"/api/challenges/feed?course=javascript-fundamentals&filter=popular&page=2&limit=10", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Challenges []models.FeedItem `json:"challenges"`
		Total      int               `json:"total"`
		Page       int               `json:"page"`
		Limit      int               `json:"limit"`
		Source     string            `json:"source"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 11, resp.Total)
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 10, resp.Limit)
	assert.Equal(t, "database", resp.Source)
	require.Len(t, resp.Challenges, 1)
	assert.Equal(t, "ch-1", resp.Challenges[0].ID)
}

func TestHandleFeedMineRequiresUser(t *testing.T) {
	srv := newTestServer(&stubService{})

	rec := doJSON(t, srv.Router(), http.MethodGet, "/api/challenges/feed?filter=mine", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGenerate(t *testing.T) {
	svc := &stubService{
		generate: func(ctx context.Context, req learning.GenerateRequest) (*models.Challenge, error) {
			assert.Equal(t, "flutter-mobile-dev", req.CourseID)
			assert.Equal(t, "user-1", req.UserID)
			assert.Equal(t, "beginner", req.Survey.ExperienceLevel)
			return &models.Challenge{ID: "gen-1", Source: models.SourceAI}, nil
		},
	}
	srv := newTestServer(svc)

	rec := doJSON(t, srv.Router(), http.MethodPost, "/api/challenges/generate", map[string]interface{}{
		"courseId":        "flutter-mobile-dev",
		"userId":          "user-1",
		"experienceLevel": "beginner",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success   bool             `json:"success"`
		Challenge models.Challenge `json:"challenge"`
		Source    string           `json:"source"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "gen-1", resp.Challenge.ID)
	assert.Equal(t, "ai", resp.Source)
}

func TestHandleGenerateLegacyReturnsBareChallenge(t *testing.T) {
	svc := &stubService{
		generate: func(ctx context.Context, req learning.GenerateRequest) (*models.Challenge, error) {
			return &models.Challenge{ID: "gen-1", Source: models.SourceFallback}, nil
		},
	}
	srv := newTestServer(svc)

	rec := doJSON(t, srv.Router(), http.MethodPost, "/api/generate-challenge", map[string]string{
		"courseId": "systems-design-101",
		"userId":   "user-1",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var ch models.Challenge
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&ch))
	assert.Equal(t, "gen-1", ch.ID)
}

func TestHandleGenerateInvalidBody(t *testing.T) {
	srv := newTestServer(&stubService{})

	req := httptest.NewRequest(http.MethodPost, "/api/challenges/generate", bytes.NewBufferString("{nope"))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAddComment(t *testing.T) {
	svc := &stubService{
		addComment: func(ctx context.Context, challengeID, userID, content string, parentID *string) (*models.Comment, error) {
			assert.Equal(t, "ch-1", challengeID)
			assert.Equal(t, "user-1", userID)
			return &models.Comment{ID: "c-1", ChallengeID: challengeID, UserID: userID, Content: content}, nil
		},
	}
	srv := newTestServer(svc)

	rec := doJSON(t, srv.Router(), http.MethodPost, "/api/challenges/ch-1/comments", map[string]string{
		"userId":  "user-1",
		"content": "well done",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestHandleAddCommentInvalidParent(t *testing.T) {
	svc := &stubService{
		addComment: func(ctx context.Context, challengeID, userID, content string, parentID *string) (*models.Comment, error) {
			return nil, learning.ErrInvalidParent
		},
	}
	srv := newTestServer(svc)

	rec := doJSON(t, srv.Router(), http.MethodPost, "/api/challenges/ch-1/comments", map[string]string{
		"userId":  "user-1",
		"content": "reply",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleLikeToggleTargets(t *testing.T) {
	var gotTarget models.LikeTarget
	svc := &stubService{
		toggleLike: func(ctx context.Context, target models.LikeTarget, targetID, userID string) (models.LikeStatus, error) {
			gotTarget = target
			return models.LikeStatus{Count: 1, IsLiked: true}, nil
		},
	}
	srv := newTestServer(svc)

	rec := doJSON(t, srv.Router(), http.MethodPost, "/api/challenges/ch-1/likes", map[string]string{"userId": "user-1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.LikeTargetChallenge, gotTarget)

	rec = doJSON(t, srv.Router(), http.MethodPost, "/api/submissions/sub-1/likes", map[string]string{"userId": "user-1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.LikeTargetSubmission, gotTarget)
}

func TestHandleDemoModeWriteRejected(t *testing.T) {
	svc := &stubService{
		toggleLike: func(ctx context.Context, target models.LikeTarget, targetID, userID string) (models.LikeStatus, error) {
			return models.LikeStatus{}, learning.ErrNotConfigured
		},
	}
	srv := newTestServer(svc)

	rec := doJSON(t, srv.Router(), http.MethodPost, "/api/challenges/ch-1/likes", map[string]string{"userId": "user-1"})

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Database not configured", resp["error"])
}

func TestHandleUpdateSubmissionForbidden(t *testing.T) {
	svc := &stubService{
		setSubVis: func(ctx context.Context, submissionID, userID string, isPublic bool) (*models.Submission, error) {
			return nil, learning.ErrForbidden
		},
	}
	srv := newTestServer(svc)

	rec := doJSON(t, srv.Router(), http.MethodPatch, "/api/submissions", map[string]interface{}{
		"submissionId": "sub-1",
		"userId":       "intruder",
		"isPublic":     true,
	})

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandleCreateSubmission(t *testing.T) {
	svc := &stubService{
		createSub: func(ctx context.Context, sub *models.Submission) (*models.Submission, error) {
			sub.ID = "sub-1"
			return sub, nil
		},
	}
	srv := newTestServer(svc)

	rec := doJSON(t, srv.Router(), http.MethodPost, "/api/submissions", map[string]interface{}{
		"challengeId": "ch-1",
		"userId":      "user-1",
		"story":       "done in a weekend",
		"isPublic":    true,
	})

	require.Equal(t, http.StatusCreated, rec.Code)

	var sub models.Submission
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&sub))
	assert.Equal(t, "sub-1", sub.ID)
}

func TestHandleEnrollAndProgress(t *testing.T) {
	svc := &stubService{
		enroll: func(ctx context.Context, courseID, userID string) (*models.Enrollment, error) {
			return &models.Enrollment{ID: "enr-1", CourseID: courseID, UserID: userID}, nil
		},
		updateProgress: func(ctx context.Context, courseID, userID string, progress float64, lessons []string) (*models.Enrollment, error) {
			assert.Equal(t, 55.0, progress)
			return &models.Enrollment{ID: "enr-1", Progress: progress}, nil
		},
	}
	srv := newTestServer(svc)

	rec := doJSON(t, srv.Router(), http.MethodPost, "/api/courses/enroll", map[string]string{
		"courseId": "javascript-fundamentals",
		"userId":   "user-1",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv.Router(), http.MethodPatch, "/api/courses/enroll", map[string]interface{}{
		"courseId": "javascript-fundamentals",
		"userId":   "user-1",
		"progress": 55.0,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleRate(t *testing.T) {
	svc := &stubService{
		rate: func(ctx context.Context, courseID, userID string, rating int, review string) (models.RatingSummary, error) {
			assert.Equal(t, 5, rating)
			return models.RatingSummary{AvgRating: 5, TotalRatings: 1}, nil
		},
	}
	srv := newTestServer(svc)

	rec := doJSON(t, srv.Router(), http.MethodPost, "/api/courses/rate", map[string]interface{}{
		"courseId": "javascript-fundamentals",
		"userId":   "user-1",
		"rating":   5,
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var summary models.RatingSummary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&summary))
	assert.Equal(t, 5.0, summary.AvgRating)
}

func TestHandleListRatings(t *testing.T) {
	srv := newTestServer(&stubService{})

	rec := doJSON(t, srv.Router(), http.MethodGet,
		"/api/courses/rate?courseId=javascript-fundamentals&userId=user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Ratings      []models.Rating `json:"ratings"`
		UserRating   *models.Rating  `json:"userRating"`
		AvgRating    float64         `json:"avg_rating"`
		TotalRatings int             `json:"total_ratings"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 4.5, resp.AvgRating)
	assert.Equal(t, 2, resp.TotalRatings)
	require.NotNil(t, resp.UserRating)
	assert.Equal(t, "user-1", resp.UserRating.UserID)
}

func TestHandleListRatingsAnonymous(t *testing.T) {
	srv := newTestServer(&stubService{})

	rec := doJSON(t, srv.Router(), http.MethodGet, "/api/courses/rate?courseId=javascript-fundamentals", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		UserRating *models.Rating `json:"userRating"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Nil(t, resp.UserRating)
}

func TestHandleStats(t *testing.T) {
	srv := newTestServer(&stubService{})

	// courseId is optional; the service supplies the default course
	for _, path := range []string{"/api/courses/stats", "/api/courses/stats?courseId=javascript-fundamentals"} {
		rec := doJSON(t, srv.Router(), http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Course *models.Course      `json:"course"`
			Stats  *models.CourseStats `json:"stats"`
			Source string              `json:"source"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.NotNil(t, resp.Course)
		require.NotNil(t, resp.Stats)
		assert.Equal(t, 3, resp.Stats.Enrollments)
		assert.Equal(t, "database", resp.Source)
	}
}

func TestHandleRequestCourse(t *testing.T) {
	var got models.CourseRequest
	svc := &stubService{
		requestCourse: func(ctx context.Context, req models.CourseRequest) error {
			got = req
			return nil
		},
	}
	srv := newTestServer(svc)

	rec := doJSON(t, srv.Router(), http.MethodPost, "/api/request-course", map[string]string{
		"name":        "Ada",
		"email":       "ada@example.com",
		"courseTopic": "Rust for web developers",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ada@example.com", got.Email)
}

func TestRateLimitExceeded(t *testing.T) {
	svc := &stubService{
		feed: func(ctx context.Context, filters models.FeedFilters) (*learning.FeedResult, error) {
			return &learning.FeedResult{Items: []*models.FeedItem{}, Source: "database"}, nil
		},
	}
	limiter := ratelimit.NewLimiter(ratelimit.NewMemoryStore(), 2, time.Minute)
	srv := NewServer(svc, "", limiter, nil)

	for i := 0; i < 2; i++ {
		rec := doJSON(t, srv.Router(), http.MethodGet, "/api/challenges/feed", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doJSON(t, srv.Router(), http.MethodGet, "/api/challenges/feed", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestIdentityFromBearerToken(t *testing.T) {
	const secret = "test-secret"

	svc := &stubService{
		feed: func(ctx context.Context, filters models.FeedFilters) (*learning.FeedResult, error) {
			assert.Equal(t, "token-user", filters.ViewerID)
			return &learning.FeedResult{Items: []*models.FeedItem{}, Source: "database"}, nil
		},
	}
	srv := NewServer(svc, secret, nil, nil)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "token-user",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	// The token identity overrides the query parameter
	req := httptest.NewRequest(http.MethodGet, "/api/challenges/feed?userId=spoofed", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestInvalidBearerTokenIsIgnored(t *testing.T) {
	svc := &stubService{
		feed: func(ctx context.Context, filters models.FeedFilters) (*learning.FeedResult, error) {
			assert.Empty(t, filters.ViewerID)
			return &learning.FeedResult{Items: []*models.FeedItem{}, Source: "database"}, nil
		},
	}
	srv := NewServer(svc, "test-secret", nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/challenges/feed", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthAndReady(t *testing.T) {
	srv := newTestServer(&stubService{})

	rec := doJSON(t, srv.Router(), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv.Router(), http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyFailsWhenStoreDown(t *testing.T) {
	srv := newTestServer(&stubService{pingErr: context.DeadlineExceeded})

	rec := doJSON(t, srv.Router(), http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
