// Package catalog holds the curated content the engine serves without any
// external dependency: fallback challenges used when AI generation is
// unavailable or invalid, per-track project idea pools for prompt building,
// built-in course definitions, and the sample feed served in demo mode.
package catalog

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/skillforge/learn-engine/internal/models"
)

// Track identifies a curated content track
type Track string

const (
	TrackJavaScript Track = "javascript"
	TrackFlutter    Track = "flutter"
	TrackSystems    Track = "systems"
)

// TrackForCourse maps a course id onto a content track by substring match:
// "flutter" anywhere in the id selects the Flutter track, "systems" the
// Systems Design track, anything else falls back to JavaScript.
func TrackForCourse(courseID string) Track {
	id := strings.ToLower(courseID)
	switch {
	case strings.Contains(id, "flutter"):
		return TrackFlutter
	case strings.Contains(id, "systems"):
		return TrackSystems
	default:
		return TrackJavaScript
	}
}

// Entry is a curated fallback challenge definition
type Entry struct {
	Title         string            `yaml:"title"`
	Description   string            `yaml:"description"`
	Difficulty    models.Difficulty `yaml:"difficulty"`
	Skills        []string          `yaml:"skills"`
	Steps         []string          `yaml:"steps"`
	EstimatedTime string            `yaml:"estimated_time"`
	ProjectType   string            `yaml:"project_type"`
	Language      string            `yaml:"language"`
}

// Catalog holds curated content, optionally extended from a YAML overlay
// directory at startup
type Catalog struct {
	mu      sync.RWMutex
	entries map[Track][]Entry
	ideas   map[Track][]string
	courses map[string]*models.Course
	samples []models.Challenge
}

// New creates a catalog populated with the built-in content
func New() *Catalog {
	return &Catalog{
		entries: builtinEntries(),
		ideas:   builtinIdeas(),
		courses: builtinCourses(),
		samples: builtinSamples(),
	}
}

// Fallback selects the curated challenge for a course and experience level.
// Catalog entries are ordered easy to hard; the level maps straight onto the
// index (beginner 0, intermediate 1, advanced 2), clamped to catalog bounds.
func (c *Catalog) Fallback(courseID string, level models.ExperienceLevel) models.Challenge {
	c.mu.RLock()
	defer c.mu.RUnlock()

	track := TrackForCourse(courseID)
	entries := c.entries[track]

	idx := 0
	switch level {
	case models.LevelIntermediate:
		idx = 1
	case models.LevelAdvanced:
		idx = 2
	}
	if idx >= len(entries) {
		idx = len(entries) - 1
	}

	e := entries[idx]
	return models.Challenge{
		ID:            fmt.Sprintf("%s-fallback-%d", track, idx),
		CourseID:      courseID,
		Title:         e.Title,
		Description:   e.Description,
		Difficulty:    e.Difficulty,
		Skills:        append([]string(nil), e.Skills...),
		Steps:         append([]string(nil), e.Steps...),
		EstimatedTime: e.EstimatedTime,
		ProjectType:   e.ProjectType,
		Language:      e.Language,
		IsPublic:      true,
		Source:        models.SourceFallback,
	}
}

// Ideas returns n distinct project ideas for the course's track, sampled with
// the caller's rand source so tests can seed it
func (c *Catalog) Ideas(courseID string, n int, rng *rand.Rand) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	pool := c.ideas[TrackForCourse(courseID)]
	if n >= len(pool) {
		return append([]string(nil), pool...)
	}

	picked := rng.Perm(len(pool))[:n]
	out := make([]string, 0, n)
	for _, i := range picked {
		out = append(out, pool[i])
	}
	return out
}

// DefaultCourseID is the course served when a request names none
const DefaultCourseID = "javascript-fundamentals"

// Course returns a built-in course definition, or nil if unknown
func (c *Catalog) Course(courseID string) *models.Course {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.courses[courseID]
}

// CourseOrDefault returns the course definition, synthesizing a minimal one
// from the track when the id is unknown so stats pages never 404 in demo mode
func (c *Catalog) CourseOrDefault(courseID string) *models.Course {
	if course := c.Course(courseID); course != nil {
		return course
	}

	track := TrackForCourse(courseID)
	title := "JavaScript Course"
	switch track {
	case TrackFlutter:
		title = "Flutter Course"
	case TrackSystems:
		title = "Systems Design Course"
	}

	return &models.Course{
		ID:       courseID,
		Title:    title,
		Language: string(track),
	}
}

// Courses returns all built-in course definitions
func (c *Catalog) Courses() []*models.Course {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*models.Course, 0, len(c.courses))
	for _, course := range c.courses {
		out = append(out, course)
	}
	return out
}

// SampleFeed returns the built-in sample challenges served when the store is
// not configured, optionally filtered by course
func (c *Catalog) SampleFeed(course string) []*models.FeedItem {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*models.FeedItem, 0, len(c.samples))
	for i := range c.samples {
		if course != "" && c.samples[i].CourseID != course {
			continue
		}
		out = append(out, &models.FeedItem{Challenge: c.samples[i]})
	}
	return out
}

// SampleStats returns static stats for demo mode
func (c *Catalog) SampleStats(courseID string) *models.CourseStats {
	// Fixed plausible numbers; demo mode promises a stable payload, not data.
	return &models.CourseStats{
		Enrollments:  128,
		Challenges:   len(c.SampleFeed(courseID)),
		Submissions:  47,
		TotalRatings: 31,
		AvgRating:    4.6,
		AvgProgress:  42.5,
	}
}

// sampleTime pins sample created_at values so demo payloads are stable
func sampleTime(day int) time.Time {
	return time.Date(2025, time.March, day, 12, 0, 0, 0, time.UTC)
}
