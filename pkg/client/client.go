// Package client is a Go SDK for the learn-engine API
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/skillforge/learn-engine/internal/models"
)

// Client is a Go SDK for the learn-engine API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new learn-engine client. token is an optional bearer
// token identifying the user; pass "" for anonymous access.
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FeedOptions contains options for listing the challenge feed. Page is
// 1-based; zero means the first page.
type FeedOptions struct {
	Course string
	Filter string // "", "recent", "popular", "mine"
	UserID string
	Page   int
	Limit  int
}

// FeedPage is one page of the challenge feed
type FeedPage struct {
	Challenges []*models.FeedItem `json:"challenges"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	Source     string             `json:"source"`
}

// Feed retrieves a page of the challenge feed
func (c *Client) Feed(ctx context.Context, opts FeedOptions) (*FeedPage, error) {
	q := url.Values{}
	if opts.Course != "" {
		q.Set("course", opts.Course)
	}
	if opts.Filter != "" {
		q.Set("filter", opts.Filter)
	}
	if opts.UserID != "" {
		q.Set("userId", opts.UserID)
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}

	path := "/api/challenges/feed"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var page FeedPage
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GenerateRequest carries a generation request: the target course plus the
// learner's onboarding survey
type GenerateRequest struct {
	CourseID string `json:"courseId"`
	UserID   string `json:"userId"`
	models.SurveyInput
}

// GenerateResult is a generated challenge plus where it came from
// ("ai" or "fallback")
type GenerateResult struct {
	Success   bool              `json:"success"`
	Challenge *models.Challenge `json:"challenge"`
	Source    string            `json:"source"`
}

// Generate produces a personalized challenge
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	var result GenerateResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/challenges/generate", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Comments retrieves all comments on a challenge
func (c *Client) Comments(ctx context.Context, challengeID string) ([]*models.Comment, error) {
	var result struct {
		Comments []*models.Comment `json:"comments"`
		Count    int               `json:"count"`
	}
	path := fmt.Sprintf("/api/challenges/%s/comments", url.PathEscape(challengeID))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return result.Comments, nil
}

// AddComment posts a comment on a challenge; parentID may be nil for a
// top-level comment
func (c *Client) AddComment(ctx context.Context, challengeID, userID, content string, parentID *string) (*models.Comment, error) {
	req := map[string]interface{}{
		"userId":  userID,
		"content": content,
	}
	if parentID != nil {
		req["parentId"] = *parentID
	}

	var comment models.Comment
	path := fmt.Sprintf("/api/challenges/%s/comments", url.PathEscape(challengeID))
	if err := c.doJSON(ctx, http.MethodPost, path, req, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// ToggleChallengeLike flips the user's like on a challenge
func (c *Client) ToggleChallengeLike(ctx context.Context, challengeID, userID string) (*models.LikeStatus, error) {
	path := fmt.Sprintf("/api/challenges/%s/likes", url.PathEscape(challengeID))
	return c.toggleLike(ctx, path, userID)
}

// ChallengeLikeStatus retrieves the like state of a challenge for a user
func (c *Client) ChallengeLikeStatus(ctx context.Context, challengeID, userID string) (*models.LikeStatus, error) {
	path := fmt.Sprintf("/api/challenges/%s/likes", url.PathEscape(challengeID))
	return c.likeStatus(ctx, path, userID)
}

// ToggleSubmissionLike flips the user's like on a submission
func (c *Client) ToggleSubmissionLike(ctx context.Context, submissionID, userID string) (*models.LikeStatus, error) {
	path := fmt.Sprintf("/api/submissions/%s/likes", url.PathEscape(submissionID))
	return c.toggleLike(ctx, path, userID)
}

// SubmissionLikeStatus retrieves the like state of a submission for a user
func (c *Client) SubmissionLikeStatus(ctx context.Context, submissionID, userID string) (*models.LikeStatus, error) {
	path := fmt.Sprintf("/api/submissions/%s/likes", url.PathEscape(submissionID))
	return c.likeStatus(ctx, path, userID)
}

func (c *Client) toggleLike(ctx context.Context, path, userID string) (*models.LikeStatus, error) {
	var status models.LikeStatus
	if err := c.doJSON(ctx, http.MethodPost, path, map[string]string{"userId": userID}, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) likeStatus(ctx context.Context, path, userID string) (*models.LikeStatus, error) {
	if userID != "" {
		path += "?userId=" + url.QueryEscape(userID)
	}

	var status models.LikeStatus
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Submissions retrieves the submissions on a challenge visible to the viewer
func (c *Client) Submissions(ctx context.Context, challengeID, userID string) ([]*models.Submission, error) {
	q := url.Values{"challengeId": {challengeID}}
	if userID != "" {
		q.Set("userId", userID)
	}

	var result struct {
		Submissions []*models.Submission `json:"submissions"`
		Count       int                  `json:"count"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/submissions?"+q.Encode(), nil, &result); err != nil {
		return nil, err
	}
	return result.Submissions, nil
}

// CreateSubmissionRequest records a completed challenge
type CreateSubmissionRequest struct {
	ChallengeID string `json:"challengeId"`
	UserID      string `json:"userId"`
	Code        string `json:"code,omitempty"`
	Story       string `json:"story,omitempty"`
	GithubLink  string `json:"githubLink,omitempty"`
	IsPublic    bool   `json:"isPublic"`
}

// CreateSubmission records a user's completion of a challenge
func (c *Client) CreateSubmission(ctx context.Context, req CreateSubmissionRequest) (*models.Submission, error) {
	var sub models.Submission
	if err := c.doJSON(ctx, http.MethodPost, "/api/submissions", req, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// SetSubmissionVisibility makes a submission public or private; only its
// owner may do this
func (c *Client) SetSubmissionVisibility(ctx context.Context, submissionID, userID string, isPublic bool) (*models.Submission, error) {
	req := map[string]interface{}{
		"submissionId": submissionID,
		"userId":       userID,
		"isPublic":     isPublic,
	}

	var sub models.Submission
	if err := c.doJSON(ctx, http.MethodPatch, "/api/submissions", req, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// Enroll enrolls a user in a course
func (c *Client) Enroll(ctx context.Context, courseID, userID string) (*models.Enrollment, error) {
	req := map[string]string{"courseId": courseID, "userId": userID}

	var enr models.Enrollment
	if err := c.doJSON(ctx, http.MethodPost, "/api/courses/enroll", req, &enr); err != nil {
		return nil, err
	}
	return &enr, nil
}

// UpdateProgress records course progress for an enrolled user
func (c *Client) UpdateProgress(ctx context.Context, courseID, userID string, progress float64, completedLessons []string) (*models.Enrollment, error) {
	req := map[string]interface{}{
		"courseId": courseID,
		"userId":   userID,
		"progress": progress,
	}
	if len(completedLessons) > 0 {
		req["completedLessons"] = completedLessons
	}

	var enr models.Enrollment
	if err := c.doJSON(ctx, http.MethodPatch, "/api/courses/enroll", req, &enr); err != nil {
		return nil, err
	}
	return &enr, nil
}

// RateCourse submits or replaces the user's rating of a course and returns
// the recomputed aggregate
func (c *Client) RateCourse(ctx context.Context, courseID, userID string, rating int, review string) (*models.RatingSummary, error) {
	req := map[string]interface{}{
		"courseId": courseID,
		"userId":   userID,
		"rating":   rating,
	}
	if review != "" {
		req["review"] = review
	}

	var summary models.RatingSummary
	if err := c.doJSON(ctx, http.MethodPost, "/api/courses/rate", req, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// CourseRatings is a course's individual ratings plus the caller's own
// rating (nil when anonymous or not yet rated) and the aggregate
type CourseRatings struct {
	Ratings      []*models.Rating `json:"ratings"`
	UserRating   *models.Rating   `json:"userRating"`
	AvgRating    float64          `json:"avg_rating"`
	TotalRatings int              `json:"total_ratings"`
}

// Ratings retrieves a course's ratings. A non-empty userID fills UserRating
// with that user's own rating.
func (c *Client) Ratings(ctx context.Context, courseID, userID string) (*CourseRatings, error) {
	var result CourseRatings
	path := "/api/courses/rate?courseId=" + url.QueryEscape(courseID)
	if userID != "" {
		path += "&userId=" + url.QueryEscape(userID)
	}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CourseStatsResult is a course definition with its aggregate activity
type CourseStatsResult struct {
	Course *models.Course      `json:"course"`
	Stats  *models.CourseStats `json:"stats"`
	Source string              `json:"source"`
}

// CourseStats retrieves aggregate activity for a course. An empty courseID
// returns the default course.
func (c *Client) CourseStats(ctx context.Context, courseID string) (*CourseStatsResult, error) {
	var result CourseStatsResult
	path := "/api/courses/stats"
	if courseID != "" {
		path += "?courseId=" + url.QueryEscape(courseID)
	}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RequestCourse submits a request for a course that does not exist yet
func (c *Client) RequestCourse(ctx context.Context, req models.CourseRequest) error {
	return c.doJSON(ctx, http.MethodPost, "/api/request-course", req, nil)
}

// Health checks if the service is healthy
func (c *Client) Health(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/health", nil, nil)
}

// doJSON performs a request and decodes the JSON response into out when
// out is non-nil
func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("API error: HTTP %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("API error: HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
