package models

import (
	"time"
)

// Difficulty represents a challenge difficulty tier
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether the difficulty is one of the known tiers
func (d Difficulty) Valid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// ChallengeSource records how a challenge came to exist
type ChallengeSource string

const (
	SourceAI       ChallengeSource = "ai"
	SourceFallback ChallengeSource = "fallback"
	SourceSample   ChallengeSource = "sample"
)

// Challenge represents a generated or curated coding exercise
type Challenge struct {
	ID            string          `json:"id"`
	CourseID      string          `json:"courseId"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Difficulty    Difficulty      `json:"difficulty"`
	Skills        []string        `json:"skills"`
	Steps         []string        `json:"steps"`
	EstimatedTime string          `json:"estimatedTime"`
	ProjectType   string          `json:"projectType"`
	Language      string          `json:"language,omitempty"`
	OwnerID       string          `json:"ownerId,omitempty"`
	IsPublic      bool            `json:"isPublic"`
	Source        ChallengeSource `json:"source,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// FeedItem is a challenge enriched with social counts for the public feed.
// Counts come from auxiliary queries, not denormalized counters, so they are
// eventually consistent under concurrent likes.
type FeedItem struct {
	Challenge
	Likes       int  `json:"likes"`
	Comments    int  `json:"comments"`
	Submissions int  `json:"submissions"`
	IsLiked     bool `json:"isLiked"`
}

// FeedFilters defines filters for listing the challenge feed. Page is the
// client-facing input; Offset is derived from it before the store is queried.
type FeedFilters struct {
	Course   string
	Filter   string // "", "recent", "popular", "mine"
	ViewerID string
	Page     int
	Limit    int
	Offset   int
}
