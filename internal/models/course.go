package models

import (
	"time"
)

// Course represents a course definition. Course content itself lives in the
// external store (or the built-in catalog in demo mode); the engine only
// needs identity and track metadata.
type Course struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Lessons     int    `json:"lessons"`
}

// Enrollment represents a user's enrollment and progress in a course
type Enrollment struct {
	ID               string    `json:"id"`
	CourseID         string    `json:"courseId"`
	UserID           string    `json:"userId"`
	Progress         float64   `json:"progress"` // 0-100
	CompletedLessons []string  `json:"completedLessons,omitempty"`
	EnrolledAt       time.Time `json:"enrolledAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Rating represents one user's rating of a course
type Rating struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"courseId"`
	UserID    string    `json:"userId"`
	Rating    int       `json:"rating"` // 1-5
	Review    string    `json:"review,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RatingSummary is the recomputed aggregate for a course
type RatingSummary struct {
	AvgRating    float64 `json:"avg_rating"`
	TotalRatings int     `json:"total_ratings"`
}

// CourseStats aggregates activity for a course
type CourseStats struct {
	Enrollments  int     `json:"enrollments"`
	Challenges   int     `json:"challenges"`
	Submissions  int     `json:"submissions"`
	TotalRatings int     `json:"total_ratings"`
	AvgRating    float64 `json:"avg_rating"`
	AvgProgress  float64 `json:"avg_progress"`
}

// CourseRequest is a free-text request for a course that does not exist yet
type CourseRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	CourseTopic string `json:"courseTopic" validate:"required"`
	Details     string `json:"details,omitempty"`
}
