package catalog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/skillforge/learn-engine/internal/models"
)

// overlayFile represents the YAML structure of a catalog overlay file. Any
// section may be omitted; a file can extend one track's challenges and ideas,
// define courses, or both.
type overlayFile struct {
	Track      string   `yaml:"track"`
	Challenges []Entry  `yaml:"challenges"`
	Ideas      []string `yaml:"ideas"`
	Courses    []struct {
		ID          string `yaml:"id"`
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
		Language    string `yaml:"language"`
		Lessons     int    `yaml:"lessons"`
	} `yaml:"courses"`
}

// LoadFromDir loads all YAML overlay files from a directory, extending the
// built-in catalogs. Files that fail to parse are skipped with a warning so a
// bad overlay never takes the service down.
func (c *Catalog) LoadFromDir(dir string) error {
	slog.Info("loading catalog overlays from directory", "dir", dir)

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			continue
		}
		files = append(files, matches...)
	}

	loaded := 0
	for _, file := range files {
		if err := c.LoadFromFile(file); err != nil {
			slog.Warn("failed to load catalog overlay", "file", file, "error", err)
			continue
		}
		loaded++
	}

	slog.Info("catalog overlays loaded", "count", loaded, "total_files", len(files))
	return nil
}

// LoadFromFile loads a single overlay file
func (c *Catalog) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var of overlayFile
	if err := yaml.Unmarshal(data, &of); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	if (len(of.Challenges) > 0 || len(of.Ideas) > 0) && of.Track == "" {
		return fmt.Errorf("track is required when challenges or ideas are present")
	}

	track := Track(of.Track)
	if of.Track != "" {
		switch track {
		case TrackJavaScript, TrackFlutter, TrackSystems:
		default:
			return fmt.Errorf("unknown track: %s", of.Track)
		}
	}

	for i, entry := range of.Challenges {
		if entry.Title == "" {
			return fmt.Errorf("challenge %d: title is required", i)
		}
		if !entry.Difficulty.Valid() {
			return fmt.Errorf("challenge %d: invalid difficulty %q", i, entry.Difficulty)
		}
	}

	for _, course := range of.Courses {
		if course.ID == "" {
			return fmt.Errorf("course id is required")
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(of.Challenges) > 0 {
		c.entries[track] = append(c.entries[track], of.Challenges...)
		slog.Info("catalog challenges loaded", "track", track, "count", len(of.Challenges))
	}

	if len(of.Ideas) > 0 {
		c.ideas[track] = append(c.ideas[track], of.Ideas...)
	}

	for _, course := range of.Courses {
		c.courses[course.ID] = &models.Course{
			ID:          course.ID,
			Title:       course.Title,
			Description: course.Description,
			Language:    course.Language,
			Lessons:     course.Lessons,
		}
		slog.Info("catalog course loaded", "id", course.ID, "title", course.Title)
	}

	return nil
}
