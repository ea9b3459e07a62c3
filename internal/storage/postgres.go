package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillforge/learn-engine/internal/models"
)

// PostgresRepository implements Repository using PostgreSQL (Supabase)
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	DSN          string
	MaxOpenConns int32
	MaxIdleConns int32
	MaxLifetime  time.Duration
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(ctx context.Context, cfg PostgresConfig) (*PostgresRepository, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = cfg.MaxOpenConns
	} else {
		poolConfig.MaxConns = 25 // default
	}

	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = cfg.MaxIdleConns
	} else {
		poolConfig.MinConns = 5 // default
	}

	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxLifetime
	} else {
		poolConfig.MaxConnLifetime = 30 * time.Minute
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

// Ping checks database connectivity
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// --- Challenges ---

const challengeColumns = `id, course_id, title, description, difficulty, skills, steps, estimated_time, project_type, language, owner_id, is_public, source, created_at`

// CreateChallenge creates a new challenge record
func (r *PostgresRepository) CreateChallenge(ctx context.Context, ch *models.Challenge) error {
	skillsJSON, err := json.Marshal(ch.Skills)
	if err != nil {
		return fmt.Errorf("failed to marshal skills: %w", err)
	}

	stepsJSON, err := json.Marshal(ch.Steps)
	if err != nil {
		return fmt.Errorf("failed to marshal steps: %w", err)
	}

	query := `
		INSERT INTO challenges (` + challengeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err = r.pool.Exec(ctx, query,
		ch.ID,
		ch.CourseID,
		ch.Title,
		ch.Description,
		string(ch.Difficulty),
		skillsJSON,
		stepsJSON,
		ch.EstimatedTime,
		ch.ProjectType,
		nullString(ch.Language),
		nullString(ch.OwnerID),
		ch.IsPublic,
		string(ch.Source),
		ch.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create challenge: %w", err)
	}

	return nil
}

func scanChallenge(row pgx.Row) (*models.Challenge, error) {
	var ch models.Challenge
	var difficulty, source string
	var language, ownerID sql.NullString
	var skillsJSON, stepsJSON []byte

	err := row.Scan(
		&ch.ID,
		&ch.CourseID,
		&ch.Title,
		&ch.Description,
		&difficulty,
		&skillsJSON,
		&stepsJSON,
		&ch.EstimatedTime,
		&ch.ProjectType,
		&language,
		&ownerID,
		&ch.IsPublic,
		&source,
		&ch.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	ch.Difficulty = models.Difficulty(difficulty)
	ch.Source = models.ChallengeSource(source)
	ch.Language = language.String
	ch.OwnerID = ownerID.String

	if err := json.Unmarshal(skillsJSON, &ch.Skills); err != nil {
		return nil, fmt.Errorf("failed to unmarshal skills: %w", err)
	}
	if err := json.Unmarshal(stepsJSON, &ch.Steps); err != nil {
		return nil, fmt.Errorf("failed to unmarshal steps: %w", err)
	}

	return &ch, nil
}

// GetChallenge retrieves a challenge by ID
func (r *PostgresRepository) GetChallenge(ctx context.Context, id string) (*models.Challenge, error) {
	query := `SELECT ` + challengeColumns + ` FROM challenges WHERE id = $1`

	ch, err := scanChallenge(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}

	return ch, nil
}

// feedWhere builds the WHERE clause shared by ListChallenges and
// CountChallenges. "mine" shows the viewer's own challenges including private
// ones; every other filter sees only public rows.
func feedWhere(filters models.FeedFilters) (string, []interface{}) {
	query := " WHERE 1=1"
	args := make([]interface{}, 0)

	if filters.Filter == "mine" && filters.ViewerID != "" {
		args = append(args, filters.ViewerID)
		query += fmt.Sprintf(" AND owner_id = $%d", len(args))
	} else {
		query += " AND is_public = TRUE"
	}

	if filters.Course != "" {
		args = append(args, filters.Course)
		query += fmt.Sprintf(" AND course_id = $%d", len(args))
	}

	return query, args
}

// ListChallenges returns a feed page matching the filters
func (r *PostgresRepository) ListChallenges(ctx context.Context, filters models.FeedFilters) ([]*models.Challenge, error) {
	where, args := feedWhere(filters)
	query := `SELECT ` + challengeColumns + ` FROM challenges` + where

	if filters.Filter == "popular" {
		query += ` ORDER BY (
			SELECT COUNT(*) FROM likes l
			WHERE l.target_type = 'challenge' AND l.target_id = challenges.id
		) DESC, created_at DESC`
	} else {
		query += " ORDER BY created_at DESC"
	}

	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	if filters.Offset > 0 {
		args = append(args, filters.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	defer rows.Close()

	var challenges []*models.Challenge
	for rows.Next() {
		ch, err := scanChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		challenges = append(challenges, ch)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating challenges: %w", err)
	}

	return challenges, nil
}

// CountChallenges returns the total number of challenges matching the filters
func (r *PostgresRepository) CountChallenges(ctx context.Context, filters models.FeedFilters) (int, error) {
	where, args := feedWhere(filters)

	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM challenges`+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count challenges: %w", err)
	}

	return count, nil
}

// SetChallengeVisibility toggles a challenge between public and private
func (r *PostgresRepository) SetChallengeVisibility(ctx context.Context, id string, isPublic bool) error {
	result, err := r.pool.Exec(ctx, `UPDATE challenges SET is_public = $2 WHERE id = $1`, id, isPublic)
	if err != nil {
		return fmt.Errorf("failed to update challenge visibility: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("challenge not found: %s", id)
	}

	return nil
}

// --- Likes ---

// ToggleLike inserts or removes a like row. The unique constraint on
// (target_type, target_id, user_id) makes the insert side race-free: of two
// concurrent toggles at most one insert wins and the other falls through to
// the delete branch.
func (r *PostgresRepository) ToggleLike(ctx context.Context, target models.LikeTarget, targetID, userID string) (bool, error) {
	insert := `
		INSERT INTO likes (target_type, target_id, user_id, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (target_type, target_id, user_id) DO NOTHING
	`

	result, err := r.pool.Exec(ctx, insert, string(target), targetID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to insert like: %w", err)
	}

	if result.RowsAffected() > 0 {
		return true, nil
	}

	del := `DELETE FROM likes WHERE target_type = $1 AND target_id = $2 AND user_id = $3`
	if _, err := r.pool.Exec(ctx, del, string(target), targetID, userID); err != nil {
		return false, fmt.Errorf("failed to delete like: %w", err)
	}

	return false, nil
}

// LikeStatus returns the like count for a target and whether the given user
// has liked it, in a single query
func (r *PostgresRepository) LikeStatus(ctx context.Context, target models.LikeTarget, targetID, userID string) (models.LikeStatus, error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE user_id = $3)
		FROM likes
		WHERE target_type = $1 AND target_id = $2
	`

	var status models.LikeStatus
	var mine int
	err := r.pool.QueryRow(ctx, query, string(target), targetID, userID).Scan(&status.Count, &mine)
	if err != nil {
		return models.LikeStatus{}, fmt.Errorf("failed to get like status: %w", err)
	}

	status.IsLiked = mine > 0
	return status, nil
}

// CountLikes returns the like count for a target
func (r *PostgresRepository) CountLikes(ctx context.Context, target models.LikeTarget, targetID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM likes WHERE target_type = $1 AND target_id = $2`,
		string(target), targetID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}

	return count, nil
}

// --- Comments ---

const commentColumns = `id, challenge_id, user_id, content, parent_id, created_at`

// CreateComment creates a new comment record
func (r *PostgresRepository) CreateComment(ctx context.Context, c *models.Comment) error {
	query := `
		INSERT INTO comments (` + commentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	var parentID sql.NullString
	if c.ParentID != nil {
		parentID = sql.NullString{String: *c.ParentID, Valid: true}
	}

	_, err := r.pool.Exec(ctx, query, c.ID, c.ChallengeID, c.UserID, c.Content, parentID, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}

func scanComment(row pgx.Row) (*models.Comment, error) {
	var c models.Comment
	var parentID sql.NullString

	if err := row.Scan(&c.ID, &c.ChallengeID, &c.UserID, &c.Content, &parentID, &c.CreatedAt); err != nil {
		return nil, err
	}

	if parentID.Valid {
		c.ParentID = &parentID.String
	}

	return &c, nil
}

// GetComment retrieves a comment by ID
func (r *PostgresRepository) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`

	c, err := scanComment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	return c, nil
}

// ListComments returns all comments on a challenge, oldest first so clients
// can assemble threads in order
func (r *PostgresRepository) ListComments(ctx context.Context, challengeID string) ([]*models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE challenge_id = $1 ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}

	return comments, rows.Err()
}

// CountComments returns the number of comments on a challenge
func (r *PostgresRepository) CountComments(ctx context.Context, challengeID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM comments WHERE challenge_id = $1`, challengeID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}

	return count, nil
}

// --- Submissions ---

// CreateSubmission creates a new submission record
func (r *PostgresRepository) CreateSubmission(ctx context.Context, sub *models.Submission) error {
	query := `
		INSERT INTO submissions (id, challenge_id, user_id, code, story, github_link, is_public, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		sub.ID,
		sub.ChallengeID,
		sub.UserID,
		nullString(sub.Code),
		nullString(sub.Story),
		nullString(sub.GithubLink),
		sub.IsPublic,
		sub.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}

	return nil
}

const submissionSelect = `
	SELECT s.id, s.challenge_id, s.user_id, s.code, s.story, s.github_link, s.is_public, s.created_at,
	       (SELECT COUNT(*) FROM likes l WHERE l.target_type = 'submission' AND l.target_id = s.id)
	FROM submissions s
`

func scanSubmission(row pgx.Row) (*models.Submission, error) {
	var sub models.Submission
	var code, story, githubLink sql.NullString

	err := row.Scan(
		&sub.ID,
		&sub.ChallengeID,
		&sub.UserID,
		&code,
		&story,
		&githubLink,
		&sub.IsPublic,
		&sub.CreatedAt,
		&sub.LikeCount,
	)
	if err != nil {
		return nil, err
	}

	sub.Code = code.String
	sub.Story = story.String
	sub.GithubLink = githubLink.String

	return &sub, nil
}

// GetSubmission retrieves a submission by ID
func (r *PostgresRepository) GetSubmission(ctx context.Context, id string) (*models.Submission, error) {
	sub, err := scanSubmission(r.pool.QueryRow(ctx, submissionSelect+` WHERE s.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	return sub, nil
}

// ListSubmissions returns submissions for a challenge that the viewer may
// see: public ones plus the viewer's own private ones
func (r *PostgresRepository) ListSubmissions(ctx context.Context, challengeID, viewerID string) ([]*models.Submission, error) {
	query := submissionSelect + `
		WHERE s.challenge_id = $1 AND (s.is_public = TRUE OR s.user_id = $2)
		ORDER BY s.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, challengeID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var submissions []*models.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		submissions = append(submissions, sub)
	}

	return submissions, rows.Err()
}

// SetSubmissionVisibility toggles a submission between public and private
func (r *PostgresRepository) SetSubmissionVisibility(ctx context.Context, id string, isPublic bool) error {
	result, err := r.pool.Exec(ctx, `UPDATE submissions SET is_public = $2 WHERE id = $1`, id, isPublic)
	if err != nil {
		return fmt.Errorf("failed to update submission visibility: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("submission not found: %s", id)
	}

	return nil
}

// CountSubmissions returns the number of submissions on a challenge
func (r *PostgresRepository) CountSubmissions(ctx context.Context, challengeID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM submissions WHERE challenge_id = $1`, challengeID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count submissions: %w", err)
	}

	return count, nil
}

// --- Enrollments ---

const enrollmentColumns = `id, course_id, user_id, progress, completed_lessons, enrolled_at, updated_at`

func scanEnrollment(row pgx.Row) (*models.Enrollment, error) {
	var e models.Enrollment
	var lessonsJSON []byte

	err := row.Scan(&e.ID, &e.CourseID, &e.UserID, &e.Progress, &lessonsJSON, &e.EnrolledAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if lessonsJSON != nil {
		if err := json.Unmarshal(lessonsJSON, &e.CompletedLessons); err != nil {
			return nil, fmt.Errorf("failed to unmarshal completed lessons: %w", err)
		}
	}

	return &e, nil
}

// UpsertEnrollment enrolls a user in a course. Re-enrolling is a no-op that
// returns the existing row; the conflict target removes the
// existence-check-then-insert race.
func (r *PostgresRepository) UpsertEnrollment(ctx context.Context, courseID, userID string) (*models.Enrollment, error) {
	query := `
		INSERT INTO enrollments (` + enrollmentColumns + `)
		VALUES ($1, $2, $3, 0, '[]', NOW(), NOW())
		ON CONFLICT (course_id, user_id) DO UPDATE SET updated_at = NOW()
		RETURNING ` + enrollmentColumns

	e, err := scanEnrollment(r.pool.QueryRow(ctx, query, uuidString(), courseID, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert enrollment: %w", err)
	}

	return e, nil
}

// UpdateEnrollmentProgress updates a user's progress in a course
func (r *PostgresRepository) UpdateEnrollmentProgress(ctx context.Context, courseID, userID string, progress float64, completedLessons []string) (*models.Enrollment, error) {
	lessonsJSON, err := json.Marshal(completedLessons)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal completed lessons: %w", err)
	}

	query := `
		UPDATE enrollments
		SET progress = $3, completed_lessons = $4, updated_at = NOW()
		WHERE course_id = $1 AND user_id = $2
		RETURNING ` + enrollmentColumns

	e, err := scanEnrollment(r.pool.QueryRow(ctx, query, courseID, userID, progress, lessonsJSON))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not enrolled
		}
		return nil, fmt.Errorf("failed to update enrollment progress: %w", err)
	}

	return e, nil
}

// --- Ratings ---

const ratingColumns = `id, course_id, user_id, rating, review, created_at, updated_at`

func scanRating(row pgx.Row) (*models.Rating, error) {
	var rt models.Rating
	var review sql.NullString

	err := row.Scan(&rt.ID, &rt.CourseID, &rt.UserID, &rt.Rating, &review, &rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		return nil, err
	}

	rt.Review = review.String
	return &rt, nil
}

// UpsertRating stores or replaces a user's rating and recomputes the course
// aggregate in the same transaction, so the returned summary always reflects
// the write it accompanied
func (r *PostgresRepository) UpsertRating(ctx context.Context, rt *models.Rating) (models.RatingSummary, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return models.RatingSummary{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	upsert := `
		INSERT INTO course_ratings (` + ratingColumns + `)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (course_id, user_id) DO UPDATE
		SET rating = EXCLUDED.rating, review = EXCLUDED.review, updated_at = NOW()
	`

	// An empty id would collide on the primary key for every course after
	// the first rating; always insert with a usable one.
	id := rt.ID
	if id == "" {
		id = uuidString()
	}

	if _, err := tx.Exec(ctx, upsert, id, rt.CourseID, rt.UserID, rt.Rating, nullString(rt.Review)); err != nil {
		return models.RatingSummary{}, fmt.Errorf("failed to upsert rating: %w", err)
	}

	var summary models.RatingSummary
	recompute := `SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM course_ratings WHERE course_id = $1`
	if err := tx.QueryRow(ctx, recompute, rt.CourseID).Scan(&summary.AvgRating, &summary.TotalRatings); err != nil {
		return models.RatingSummary{}, fmt.Errorf("failed to recompute rating summary: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return models.RatingSummary{}, fmt.Errorf("failed to commit rating: %w", err)
	}

	return summary, nil
}

// ListRatings returns all ratings for a course, newest first
func (r *PostgresRepository) ListRatings(ctx context.Context, courseID string) ([]*models.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM course_ratings WHERE course_id = $1 ORDER BY updated_at DESC`

	rows, err := r.pool.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	defer rows.Close()

	var ratings []*models.Rating
	for rows.Next() {
		rt, err := scanRating(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, rt)
	}

	return ratings, rows.Err()
}

// GetUserRating retrieves a single user's rating for a course
func (r *PostgresRepository) GetUserRating(ctx context.Context, courseID, userID string) (*models.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM course_ratings WHERE course_id = $1 AND user_id = $2`

	rt, err := scanRating(r.pool.QueryRow(ctx, query, courseID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user rating: %w", err)
	}

	return rt, nil
}

// RatingSummary returns the current aggregate rating for a course
func (r *PostgresRepository) RatingSummary(ctx context.Context, courseID string) (models.RatingSummary, error) {
	var summary models.RatingSummary
	query := `SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM course_ratings WHERE course_id = $1`

	if err := r.pool.QueryRow(ctx, query, courseID).Scan(&summary.AvgRating, &summary.TotalRatings); err != nil {
		return models.RatingSummary{}, fmt.Errorf("failed to get rating summary: %w", err)
	}

	return summary, nil
}

// --- Stats ---

// CourseStats aggregates activity counts for a course. Each figure is its own
// query; the page is read rarely enough that round trips beat maintaining
// denormalized counters.
func (r *PostgresRepository) CourseStats(ctx context.Context, courseID string) (*models.CourseStats, error) {
	stats := &models.CourseStats{}

	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(AVG(progress), 0) FROM enrollments WHERE course_id = $1`,
		courseID,
	).Scan(&stats.Enrollments, &stats.AvgProgress)
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollment stats: %w", err)
	}

	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM challenges WHERE course_id = $1 AND is_public = TRUE`,
		courseID,
	).Scan(&stats.Challenges)
	if err != nil {
		return nil, fmt.Errorf("failed to count course challenges: %w", err)
	}

	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM submissions s JOIN challenges c ON c.id = s.challenge_id WHERE c.course_id = $1`,
		courseID,
	).Scan(&stats.Submissions)
	if err != nil {
		return nil, fmt.Errorf("failed to count course submissions: %w", err)
	}

	summary, err := r.RatingSummary(ctx, courseID)
	if err != nil {
		return nil, err
	}
	stats.AvgRating = summary.AvgRating
	stats.TotalRatings = summary.TotalRatings

	return stats, nil
}

// Helper functions for nullable values

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// uuidString generates an id for rows created inside upsert statements
func uuidString() string {
	return uuid.NewString()
}
