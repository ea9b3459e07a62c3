// Package learning implements the platform's core service: the challenge
// feed, AI challenge generation with catalog fallback, social interactions
// and course enrollment, progress, ratings and stats. When no database is
// configured the service runs in demo mode, serving built-in sample content
// for reads and rejecting writes.
package learning

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/skillforge/learn-engine/internal/catalog"
	"github.com/skillforge/learn-engine/internal/email"
	"github.com/skillforge/learn-engine/internal/generator"
	"github.com/skillforge/learn-engine/internal/models"
	"github.com/skillforge/learn-engine/internal/storage"
)

// Common errors
var (
	ErrNotConfigured = errors.New("database not configured")
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("forbidden")
	ErrInvalidParent = errors.New("parent comment does not exist on this challenge")
	ErrInvalidInput  = errors.New("invalid input")
)

// Feed source labels
const (
	sourceDatabase = "database"
	sourceSample   = "sample"
)

// enrichConcurrency caps the parallel count queries per feed request
const enrichConcurrency = 8

// FeedResult is a page of feed items plus the total matching count
type FeedResult struct {
	Items  []*models.FeedItem `json:"challenges"`
	Total  int                `json:"total"`
	Page   int                `json:"page"`
	Limit  int                `json:"limit"`
	Source string             `json:"source"`
}

// CourseStatsResult is a course definition with its aggregate activity and
// where the numbers came from
type CourseStatsResult struct {
	Course *models.Course      `json:"course"`
	Stats  *models.CourseStats `json:"stats"`
	Source string              `json:"source"`
}

// GenerateRequest carries everything needed to generate a challenge
type GenerateRequest struct {
	CourseID string
	UserID   string
	Survey   models.SurveyInput
}

// Service defines the learning platform operations
type Service interface {
	Feed(ctx context.Context, filters models.FeedFilters) (*FeedResult, error)
	Generate(ctx context.Context, req GenerateRequest) (*models.Challenge, error)

	Comments(ctx context.Context, challengeID string) ([]*models.Comment, error)
	AddComment(ctx context.Context, challengeID, userID, content string, parentID *string) (*models.Comment, error)
	ToggleLike(ctx context.Context, target models.LikeTarget, targetID, userID string) (models.LikeStatus, error)
	LikeStatus(ctx context.Context, target models.LikeTarget, targetID, userID string) (models.LikeStatus, error)

	Submissions(ctx context.Context, challengeID, viewerID string) ([]*models.Submission, error)
	CreateSubmission(ctx context.Context, sub *models.Submission) (*models.Submission, error)
	SetSubmissionVisibility(ctx context.Context, submissionID, userID string, isPublic bool) (*models.Submission, error)

	Enroll(ctx context.Context, courseID, userID string) (*models.Enrollment, error)
	UpdateProgress(ctx context.Context, courseID, userID string, progress float64, completedLessons []string) (*models.Enrollment, error)
	Rate(ctx context.Context, courseID, userID string, rating int, review string) (models.RatingSummary, error)
	Ratings(ctx context.Context, courseID, viewerID string) ([]*models.Rating, *models.Rating, models.RatingSummary, error)
	CourseStats(ctx context.Context, courseID string) (*CourseStatsResult, error)

	RequestCourse(ctx context.Context, req models.CourseRequest) error

	Ping(ctx context.Context) error
	DemoMode() bool
}

type service struct {
	repo     storage.Repository // nil in demo mode
	gen      *generator.Generator
	catalog  *catalog.Catalog
	sender   email.Sender
	logger   *slog.Logger
	validate *validator.Validate
}

// New creates the learning service. repo may be nil, which puts the service
// in demo mode: reads serve built-in sample content and writes are rejected
// with ErrNotConfigured.
func New(repo storage.Repository, gen *generator.Generator, cat *catalog.Catalog, sender email.Sender, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &service{
		repo:     repo,
		gen:      gen,
		catalog:  cat,
		sender:   sender,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// DemoMode reports whether the service runs without a database
func (s *service) DemoMode() bool {
	return s.repo == nil
}

// Ping checks the database connection; demo mode is always healthy
func (s *service) Ping(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	return s.repo.Ping(ctx)
}

// Feed returns a page of challenges enriched with social counts. In demo
// mode it serves the built-in samples with zeroed counts.
func (s *service) Feed(ctx context.Context, filters models.FeedFilters) (*FeedResult, error) {
	if filters.Limit <= 0 {
		filters.Limit = 20
	}
	if filters.Limit > 100 {
		filters.Limit = 100
	}
	if filters.Page <= 0 {
		filters.Page = 1
	}
	filters.Offset = (filters.Page - 1) * filters.Limit

	if s.repo == nil {
		items := s.catalog.SampleFeed(filters.Course)
		return &FeedResult{
			Items:  items,
			Total:  len(items),
			Page:   filters.Page,
			Limit:  filters.Limit,
			Source: sourceSample,
		}, nil
	}

	challenges, err := s.repo.ListChallenges(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}

	total, err := s.repo.CountChallenges(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to count challenges: %w", err)
	}

	items := make([]*models.FeedItem, len(challenges))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)

	for i, ch := range challenges {
		i, ch := i, ch
		g.Go(func() error {
			item := &models.FeedItem{Challenge: *ch}

			if filters.ViewerID != "" {
				status, err := s.repo.LikeStatus(gctx, models.LikeTargetChallenge, ch.ID, filters.ViewerID)
				if err != nil {
					return err
				}
				item.Likes = status.Count
				item.IsLiked = status.IsLiked
			} else {
				likes, err := s.repo.CountLikes(gctx, models.LikeTargetChallenge, ch.ID)
				if err != nil {
					return err
				}
				item.Likes = likes
			}

			comments, err := s.repo.CountComments(gctx, ch.ID)
			if err != nil {
				return err
			}
			item.Comments = comments

			subs, err := s.repo.CountSubmissions(gctx, ch.ID)
			if err != nil {
				return err
			}
			item.Submissions = subs

			items[i] = item
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to enrich feed: %w", err)
	}

	return &FeedResult{
		Items:  items,
		Total:  total,
		Page:   filters.Page,
		Limit:  filters.Limit,
		Source: sourceDatabase,
	}, nil
}

// Generate runs the AI pipeline and falls back to the curated catalog when
// the model is unavailable or its answer fails validation. The resulting
// challenge is persisted as a public, owned feed entry unless the service
// runs in demo mode; a persistence failure is logged but does not fail the
// request, the caller still gets their challenge.
func (s *service) Generate(ctx context.Context, req GenerateRequest) (*models.Challenge, error) {
	if req.CourseID == "" {
		return nil, fmt.Errorf("%w: courseId is required", ErrInvalidInput)
	}

	profile := req.Survey.Normalize()

	ch, ok := s.gen.Generate(ctx, req.CourseID, profile)
	if !ok {
		fb := s.catalog.Fallback(req.CourseID, profile.Level())
		ch = &fb
		s.logger.Info("serving fallback challenge",
			"course_id", req.CourseID,
			"level", profile.Level(),
			"challenge_id", ch.ID,
		)
	}

	if ch.CreatedAt.IsZero() {
		ch.CreatedAt = time.Now().UTC()
	}

	if s.repo == nil {
		return ch, nil
	}

	ch.ID = uniqueID(ch.ID)
	ch.OwnerID = req.UserID
	ch.IsPublic = true

	if err := s.repo.CreateChallenge(ctx, ch); err != nil {
		s.logger.Error("failed to persist generated challenge",
			"challenge_id", ch.ID,
			"course_id", req.CourseID,
			"error", err,
		)
	}

	return ch, nil
}

// Comments lists all comments on a challenge, oldest first
func (s *service) Comments(ctx context.Context, challengeID string) ([]*models.Comment, error) {
	if s.repo == nil {
		return []*models.Comment{}, nil
	}

	comments, err := s.repo.ListComments(ctx, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// AddComment creates a comment on a challenge. A reply's parent must be an
// existing comment on the same challenge; nesting depth is unbounded.
func (s *service) AddComment(ctx context.Context, challengeID, userID, content string, parentID *string) (*models.Comment, error) {
	if s.repo == nil {
		return nil, ErrNotConfigured
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrInvalidInput)
	}

	ch, err := s.repo.GetChallenge(ctx, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	if ch == nil {
		return nil, ErrNotFound
	}

	if parentID != nil {
		parent, err := s.repo.GetComment(ctx, *parentID)
		if err != nil {
			return nil, fmt.Errorf("failed to get parent comment: %w", err)
		}
		if parent == nil || parent.ChallengeID != challengeID {
			return nil, ErrInvalidParent
		}
	}

	comment := &models.Comment{
		ID:          uuid.NewString(),
		ChallengeID: challengeID,
		UserID:      userID,
		Content:     content,
		ParentID:    parentID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

// ToggleLike flips the user's like on a target and returns the new state
func (s *service) ToggleLike(ctx context.Context, target models.LikeTarget, targetID, userID string) (models.LikeStatus, error) {
	if s.repo == nil {
		return models.LikeStatus{}, ErrNotConfigured
	}
	if !target.Valid() {
		return models.LikeStatus{}, fmt.Errorf("%w: unknown like target %q", ErrInvalidInput, target)
	}
	if userID == "" {
		return models.LikeStatus{}, fmt.Errorf("%w: userId is required", ErrInvalidInput)
	}

	if _, err := s.repo.ToggleLike(ctx, target, targetID, userID); err != nil {
		return models.LikeStatus{}, fmt.Errorf("failed to toggle like: %w", err)
	}

	status, err := s.repo.LikeStatus(ctx, target, targetID, userID)
	if err != nil {
		return models.LikeStatus{}, fmt.Errorf("failed to get like status: %w", err)
	}
	return status, nil
}

// LikeStatus returns the like count and whether the viewer has liked the
// target. An empty viewer gets the count with isLiked false.
func (s *service) LikeStatus(ctx context.Context, target models.LikeTarget, targetID, userID string) (models.LikeStatus, error) {
	if s.repo == nil {
		return models.LikeStatus{}, nil
	}
	if !target.Valid() {
		return models.LikeStatus{}, fmt.Errorf("%w: unknown like target %q", ErrInvalidInput, target)
	}

	if userID == "" {
		count, err := s.repo.CountLikes(ctx, target, targetID)
		if err != nil {
			return models.LikeStatus{}, fmt.Errorf("failed to count likes: %w", err)
		}
		return models.LikeStatus{Count: count}, nil
	}

	status, err := s.repo.LikeStatus(ctx, target, targetID, userID)
	if err != nil {
		return models.LikeStatus{}, fmt.Errorf("failed to get like status: %w", err)
	}
	return status, nil
}

// Submissions lists submissions on a challenge visible to the viewer: all
// public ones plus the viewer's own private ones
func (s *service) Submissions(ctx context.Context, challengeID, viewerID string) ([]*models.Submission, error) {
	if s.repo == nil {
		return []*models.Submission{}, nil
	}
	if challengeID == "" {
		return nil, fmt.Errorf("%w: challengeId is required", ErrInvalidInput)
	}

	subs, err := s.repo.ListSubmissions(ctx, challengeID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return subs, nil
}

// CreateSubmission records a user's completion of a challenge
func (s *service) CreateSubmission(ctx context.Context, sub *models.Submission) (*models.Submission, error) {
	if s.repo == nil {
		return nil, ErrNotConfigured
	}
	if sub.ChallengeID == "" {
		return nil, fmt.Errorf("%w: challengeId is required", ErrInvalidInput)
	}
	if sub.UserID == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrInvalidInput)
	}

	ch, err := s.repo.GetChallenge(ctx, sub.ChallengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	if ch == nil {
		return nil, ErrNotFound
	}

	sub.ID = uuid.NewString()
	sub.CreatedAt = time.Now().UTC()

	if err := s.repo.CreateSubmission(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}
	return sub, nil
}

// SetSubmissionVisibility toggles a submission between public and private.
// Only the submission's owner may change it.
func (s *service) SetSubmissionVisibility(ctx context.Context, submissionID, userID string, isPublic bool) (*models.Submission, error) {
	if s.repo == nil {
		return nil, ErrNotConfigured
	}

	sub, err := s.repo.GetSubmission(ctx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	if sub == nil {
		return nil, ErrNotFound
	}
	if sub.UserID != userID {
		return nil, ErrForbidden
	}

	if err := s.repo.SetSubmissionVisibility(ctx, submissionID, isPublic); err != nil {
		return nil, fmt.Errorf("failed to update submission visibility: %w", err)
	}

	sub.IsPublic = isPublic
	return sub, nil
}

// Enroll enrolls a user in a course. Re-enrolling returns the existing
// enrollment with its progress intact.
func (s *service) Enroll(ctx context.Context, courseID, userID string) (*models.Enrollment, error) {
	if s.repo == nil {
		return nil, ErrNotConfigured
	}
	if courseID == "" || userID == "" {
		return nil, fmt.Errorf("%w: courseId and userId are required", ErrInvalidInput)
	}

	enr, err := s.repo.UpsertEnrollment(ctx, courseID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to enroll: %w", err)
	}
	return enr, nil
}

// UpdateProgress records a user's progress in a course they are enrolled in
func (s *service) UpdateProgress(ctx context.Context, courseID, userID string, progress float64, completedLessons []string) (*models.Enrollment, error) {
	if s.repo == nil {
		return nil, ErrNotConfigured
	}
	if courseID == "" || userID == "" {
		return nil, fmt.Errorf("%w: courseId and userId are required", ErrInvalidInput)
	}
	if progress < 0 || progress > 100 {
		return nil, fmt.Errorf("%w: progress must be between 0 and 100", ErrInvalidInput)
	}

	enr, err := s.repo.UpdateEnrollmentProgress(ctx, courseID, userID, progress, completedLessons)
	if err != nil {
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}
	if enr == nil {
		return nil, ErrNotFound
	}
	return enr, nil
}

// Rate upserts the user's rating of a course and returns the recomputed
// aggregate. A second rating by the same user replaces the first.
func (s *service) Rate(ctx context.Context, courseID, userID string, rating int, review string) (models.RatingSummary, error) {
	if s.repo == nil {
		return models.RatingSummary{}, ErrNotConfigured
	}
	if courseID == "" || userID == "" {
		return models.RatingSummary{}, fmt.Errorf("%w: courseId and userId are required", ErrInvalidInput)
	}
	if rating < 1 || rating > 5 {
		return models.RatingSummary{}, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}

	// The id only lands on a fresh insert; a conflicting (course, user)
	// pair keeps its existing row id.
	summary, err := s.repo.UpsertRating(ctx, &models.Rating{
		ID:       uuid.NewString(),
		CourseID: courseID,
		UserID:   userID,
		Rating:   rating,
		Review:   review,
	})
	if err != nil {
		return models.RatingSummary{}, fmt.Errorf("failed to rate course: %w", err)
	}
	return summary, nil
}

// Ratings lists a course's ratings with the viewer's own rating and the
// current aggregate. Demo mode serves the static sample aggregate with no
// individual ratings; an anonymous viewer gets a nil own rating.
func (s *service) Ratings(ctx context.Context, courseID, viewerID string) ([]*models.Rating, *models.Rating, models.RatingSummary, error) {
	if s.repo == nil {
		stats := s.catalog.SampleStats(courseID)
		return []*models.Rating{}, nil, models.RatingSummary{
			AvgRating:    stats.AvgRating,
			TotalRatings: stats.TotalRatings,
		}, nil
	}

	ratings, err := s.repo.ListRatings(ctx, courseID)
	if err != nil {
		return nil, nil, models.RatingSummary{}, fmt.Errorf("failed to list ratings: %w", err)
	}

	var own *models.Rating
	if viewerID != "" {
		own, err = s.repo.GetUserRating(ctx, courseID, viewerID)
		if err != nil {
			return nil, nil, models.RatingSummary{}, fmt.Errorf("failed to get viewer rating: %w", err)
		}
	}

	summary, err := s.repo.RatingSummary(ctx, courseID)
	if err != nil {
		return nil, nil, models.RatingSummary{}, fmt.Errorf("failed to get rating summary: %w", err)
	}
	return ratings, own, summary, nil
}

// CourseStats aggregates a course's activity alongside the course definition.
// An empty course id falls back to the default course; demo mode serves
// static numbers.
func (s *service) CourseStats(ctx context.Context, courseID string) (*CourseStatsResult, error) {
	if courseID == "" {
		courseID = catalog.DefaultCourseID
	}
	course := s.catalog.CourseOrDefault(courseID)

	if s.repo == nil {
		return &CourseStatsResult{
			Course: course,
			Stats:  s.catalog.SampleStats(courseID),
			Source: sourceSample,
		}, nil
	}

	stats, err := s.repo.CourseStats(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get course stats: %w", err)
	}
	return &CourseStatsResult{Course: course, Stats: stats, Source: sourceDatabase}, nil
}

// RequestCourse validates and forwards a course request to the admin inbox
func (s *service) RequestCourse(ctx context.Context, req models.CourseRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	subject := fmt.Sprintf("New course request: %s", req.CourseTopic)
	body := fmt.Sprintf(
		"Name: %s\nEmail: %s\nTopic: %s\n\nDetails:\n%s\n",
		req.Name, req.Email, req.CourseTopic, req.Details,
	)

	if err := s.sender.Send(ctx, subject, body); err != nil {
		return fmt.Errorf("failed to send course request: %w", err)
	}

	s.logger.Info("course request forwarded", "topic", req.CourseTopic)
	return nil
}

// uniqueID suffixes a model-generated slug so repeated generations of the
// same idea cannot collide on the primary key
func uniqueID(slug string) string {
	return fmt.Sprintf("%s-%s", slug, uuid.NewString()[:8])
}
