package learning

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/skillforge/learn-engine/internal/models"
)

// fakeRepo is an in-memory stand-in for the Postgres repository. It follows
// the same contract: Get methods return (nil, nil) when the row is missing.
type fakeRepo struct {
	mu          sync.Mutex
	challenges  map[string]*models.Challenge
	likes       map[string]map[string]bool // target key -> user ids
	comments    map[string]*models.Comment
	submissions map[string]*models.Submission
	enrollments map[string]*models.Enrollment // courseID|userID
	ratings     map[string]*models.Rating     // courseID|userID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		challenges:  make(map[string]*models.Challenge),
		likes:       make(map[string]map[string]bool),
		comments:    make(map[string]*models.Comment),
		submissions: make(map[string]*models.Submission),
		enrollments: make(map[string]*models.Enrollment),
		ratings:     make(map[string]*models.Rating),
	}
}

func likeKey(target models.LikeTarget, targetID string) string {
	return string(target) + "|" + targetID
}

func pairKey(courseID, userID string) string {
	return courseID + "|" + userID
}

func (f *fakeRepo) CreateChallenge(ctx context.Context, ch *models.Challenge) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.challenges[ch.ID]; exists {
		return fmt.Errorf("duplicate challenge id %s", ch.ID)
	}
	cp := *ch
	f.challenges[ch.ID] = &cp
	return nil
}

func (f *fakeRepo) GetChallenge(ctx context.Context, id string) (*models.Challenge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch, ok := f.challenges[id]
	if !ok {
		return nil, nil
	}
	cp := *ch
	return &cp, nil
}

func (f *fakeRepo) matchesFeed(ch *models.Challenge, filters models.FeedFilters) bool {
	if filters.Filter == "mine" {
		if ch.OwnerID != filters.ViewerID {
			return false
		}
	} else if !ch.IsPublic {
		return false
	}
	if filters.Course != "" && ch.CourseID != filters.Course {
		return false
	}
	return true
}

func (f *fakeRepo) ListChallenges(ctx context.Context, filters models.FeedFilters) ([]*models.Challenge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*models.Challenge
	for _, ch := range f.challenges {
		if f.matchesFeed(ch, filters) {
			cp := *ch
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if filters.Offset < len(out) {
		out = out[filters.Offset:]
	} else {
		out = nil
	}
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, nil
}

func (f *fakeRepo) CountChallenges(ctx context.Context, filters models.FeedFilters) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, ch := range f.challenges {
		if f.matchesFeed(ch, filters) {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) SetChallengeVisibility(ctx context.Context, id string, isPublic bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ch, ok := f.challenges[id]; ok {
		ch.IsPublic = isPublic
	}
	return nil
}

func (f *fakeRepo) ToggleLike(ctx context.Context, target models.LikeTarget, targetID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := likeKey(target, targetID)
	users, ok := f.likes[key]
	if !ok {
		users = make(map[string]bool)
		f.likes[key] = users
	}

	if users[userID] {
		delete(users, userID)
		return false, nil
	}
	users[userID] = true
	return true, nil
}

func (f *fakeRepo) LikeStatus(ctx context.Context, target models.LikeTarget, targetID, userID string) (models.LikeStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := f.likes[likeKey(target, targetID)]
	return models.LikeStatus{Count: len(users), IsLiked: users[userID]}, nil
}

func (f *fakeRepo) CountLikes(ctx context.Context, target models.LikeTarget, targetID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.likes[likeKey(target, targetID)]), nil
}

func (f *fakeRepo) CreateComment(ctx context.Context, c *models.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *c
	f.comments[c.ID] = &cp
	return nil
}

func (f *fakeRepo) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comments[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeRepo) ListComments(ctx context.Context, challengeID string) ([]*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Comment
	for _, c := range f.comments {
		if c.ChallengeID == challengeID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeRepo) CountComments(ctx context.Context, challengeID string) (int, error) {
	list, _ := f.ListComments(ctx, challengeID)
	return len(list), nil
}

func (f *fakeRepo) CreateSubmission(ctx context.Context, sub *models.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *sub
	f.submissions[sub.ID] = &cp
	return nil
}

func (f *fakeRepo) GetSubmission(ctx context.Context, id string) (*models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sub, ok := f.submissions[id]
	if !ok {
		return nil, nil
	}
	cp := *sub
	return &cp, nil
}

func (f *fakeRepo) ListSubmissions(ctx context.Context, challengeID, viewerID string) ([]*models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Submission
	for _, sub := range f.submissions {
		if sub.ChallengeID != challengeID {
			continue
		}
		if !sub.IsPublic && sub.UserID != viewerID {
			continue
		}
		cp := *sub
		cp.LikeCount = len(f.likes[likeKey(models.LikeTargetSubmission, sub.ID)])
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeRepo) SetSubmissionVisibility(ctx context.Context, id string, isPublic bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if sub, ok := f.submissions[id]; ok {
		sub.IsPublic = isPublic
	}
	return nil
}

func (f *fakeRepo) CountSubmissions(ctx context.Context, challengeID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, sub := range f.submissions {
		if sub.ChallengeID == challengeID {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) UpsertEnrollment(ctx context.Context, courseID, userID string) (*models.Enrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := pairKey(courseID, userID)
	if enr, ok := f.enrollments[key]; ok {
		enr.UpdatedAt = time.Now().UTC()
		cp := *enr
		return &cp, nil
	}

	enr := &models.Enrollment{
		ID:         fmt.Sprintf("enr-%d", len(f.enrollments)+1),
		CourseID:   courseID,
		UserID:     userID,
		EnrolledAt: time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	f.enrollments[key] = enr
	cp := *enr
	return &cp, nil
}

func (f *fakeRepo) UpdateEnrollmentProgress(ctx context.Context, courseID, userID string, progress float64, completedLessons []string) (*models.Enrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	enr, ok := f.enrollments[pairKey(courseID, userID)]
	if !ok {
		return nil, nil
	}
	enr.Progress = progress
	enr.CompletedLessons = completedLessons
	enr.UpdatedAt = time.Now().UTC()
	cp := *enr
	return &cp, nil
}

func (f *fakeRepo) UpsertRating(ctx context.Context, r *models.Rating) (models.RatingSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := pairKey(r.CourseID, r.UserID)
	if existing, ok := f.ratings[key]; ok {
		// Conflict on (course, user): the stored row keeps its id
		existing.Rating = r.Rating
		existing.Review = r.Review
		existing.UpdatedAt = time.Now().UTC()
	} else {
		cp := *r
		cp.CreatedAt = time.Now().UTC()
		cp.UpdatedAt = cp.CreatedAt
		f.ratings[key] = &cp
	}

	return f.summaryLocked(r.CourseID), nil
}

func (f *fakeRepo) summaryLocked(courseID string) models.RatingSummary {
	var sum, count int
	for _, r := range f.ratings {
		if r.CourseID == courseID {
			sum += r.Rating
			count++
		}
	}
	if count == 0 {
		return models.RatingSummary{}
	}
	return models.RatingSummary{
		AvgRating:    float64(sum) / float64(count),
		TotalRatings: count,
	}
}

func (f *fakeRepo) ListRatings(ctx context.Context, courseID string) ([]*models.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Rating
	for _, r := range f.ratings {
		if r.CourseID == courseID {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeRepo) GetUserRating(ctx context.Context, courseID, userID string) (*models.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.ratings[pairKey(courseID, userID)]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRepo) RatingSummary(ctx context.Context, courseID string) (models.RatingSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.summaryLocked(courseID), nil
}

func (f *fakeRepo) CourseStats(ctx context.Context, courseID string) (*models.CourseStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stats := &models.CourseStats{}
	var progressSum float64
	for _, enr := range f.enrollments {
		if enr.CourseID == courseID {
			stats.Enrollments++
			progressSum += enr.Progress
		}
	}
	if stats.Enrollments > 0 {
		stats.AvgProgress = progressSum / float64(stats.Enrollments)
	}
	for _, ch := range f.challenges {
		if ch.CourseID == courseID && ch.IsPublic {
			stats.Challenges++
			for _, sub := range f.submissions {
				if sub.ChallengeID == ch.ID {
					stats.Submissions++
				}
			}
		}
	}
	summary := f.summaryLocked(courseID)
	stats.AvgRating = summary.AvgRating
	stats.TotalRatings = summary.TotalRatings
	return stats, nil
}

func (f *fakeRepo) Ping(ctx context.Context) error { return nil }
func (f *fakeRepo) Close() error                   { return nil }
