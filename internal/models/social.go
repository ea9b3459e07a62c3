package models

import (
	"time"
)

// LikeTarget represents the kind of entity a like attaches to
type LikeTarget string

const (
	LikeTargetChallenge  LikeTarget = "challenge"
	LikeTargetSubmission LikeTarget = "submission"
)

// Valid reports whether the target is a likeable entity kind
func (t LikeTarget) Valid() bool {
	return t == LikeTargetChallenge || t == LikeTargetSubmission
}

// LikeStatus is the like state of one target as seen by one user
type LikeStatus struct {
	Count   int  `json:"count"`
	IsLiked bool `json:"isLiked"`
}

// Submission represents a user's record of completing a challenge,
// optionally with code, a story and a repository link
type Submission struct {
	ID          string    `json:"id"`
	ChallengeID string    `json:"challengeId"`
	UserID      string    `json:"userId"`
	Code        string    `json:"code,omitempty"`
	Story       string    `json:"story,omitempty"`
	GithubLink  string    `json:"githubLink,omitempty"`
	IsPublic    bool      `json:"isPublic"`
	LikeCount   int       `json:"likeCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Comment represents a comment on a challenge. ParentID, when set, references
// another comment on the same challenge; nesting depth is unbounded.
type Comment struct {
	ID          string    `json:"id"`
	ChallengeID string    `json:"challengeId"`
	UserID      string    `json:"userId"`
	Content     string    `json:"content"`
	ParentID    *string   `json:"parentId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
