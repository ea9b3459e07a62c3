package storage

import (
	"context"

	"github.com/skillforge/learn-engine/internal/models"
)

// Repository defines the persistence interface over the external relational
// store. Get methods return (nil, nil) when the row does not exist. All
// aggregate counts are computed with auxiliary count queries, so list callers
// are expected to batch and parallelize enrichment themselves.
type Repository interface {
	// Challenges
	CreateChallenge(ctx context.Context, ch *models.Challenge) error
	GetChallenge(ctx context.Context, id string) (*models.Challenge, error)
	ListChallenges(ctx context.Context, filters models.FeedFilters) ([]*models.Challenge, error)
	CountChallenges(ctx context.Context, filters models.FeedFilters) (int, error)
	SetChallengeVisibility(ctx context.Context, id string, isPublic bool) error

	// Likes. Toggle relies on the unique (target, user) constraint: the
	// insert-on-conflict either creates the like or falls through to a
	// delete, so concurrent toggles cannot produce duplicate rows.
	ToggleLike(ctx context.Context, target models.LikeTarget, targetID, userID string) (bool, error)
	LikeStatus(ctx context.Context, target models.LikeTarget, targetID, userID string) (models.LikeStatus, error)
	CountLikes(ctx context.Context, target models.LikeTarget, targetID string) (int, error)

	// Comments
	CreateComment(ctx context.Context, c *models.Comment) error
	GetComment(ctx context.Context, id string) (*models.Comment, error)
	ListComments(ctx context.Context, challengeID string) ([]*models.Comment, error)
	CountComments(ctx context.Context, challengeID string) (int, error)

	// Submissions
	CreateSubmission(ctx context.Context, sub *models.Submission) error
	GetSubmission(ctx context.Context, id string) (*models.Submission, error)
	ListSubmissions(ctx context.Context, challengeID, viewerID string) ([]*models.Submission, error)
	SetSubmissionVisibility(ctx context.Context, id string, isPublic bool) error
	CountSubmissions(ctx context.Context, challengeID string) (int, error)

	// Enrollments
	UpsertEnrollment(ctx context.Context, courseID, userID string) (*models.Enrollment, error)
	UpdateEnrollmentProgress(ctx context.Context, courseID, userID string, progress float64, completedLessons []string) (*models.Enrollment, error)

	// Ratings
	UpsertRating(ctx context.Context, r *models.Rating) (models.RatingSummary, error)
	ListRatings(ctx context.Context, courseID string) ([]*models.Rating, error)
	GetUserRating(ctx context.Context, courseID, userID string) (*models.Rating, error)
	RatingSummary(ctx context.Context, courseID string) (models.RatingSummary, error)

	// Stats
	CourseStats(ctx context.Context, courseID string) (*models.CourseStats, error)

	// Health
	Ping(ctx context.Context) error
	Close() error
}
