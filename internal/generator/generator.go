package generator

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/skillforge/learn-engine/internal/catalog"
	"github.com/skillforge/learn-engine/internal/llm"
	"github.com/skillforge/learn-engine/internal/models"
)

// ideaSampleSize is how many catalog ideas get offered to the model per
// prompt. Enough for variety, few enough that the model actually reads them.
const ideaSampleSize = 3

// Generator runs the AI challenge pipeline: build prompt, call the model,
// extract JSON, validate. It never returns an error; any failure at any stage
// reports ok=false and the caller substitutes a catalog fallback.
type Generator struct {
	client  llm.Client
	catalog *catalog.Catalog
	logger  *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Generator. client may be nil when no model credentials are
// configured; Generate then always reports ok=false. rng may be nil, in which
// case a time-seeded source is used.
func New(client llm.Client, cat *catalog.Catalog, logger *slog.Logger, rng *rand.Rand) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Generator{
		client:  client,
		catalog: cat,
		logger:  logger,
		rng:     rng,
	}
}

// Generate produces a personalized challenge for the course and profile.
// ok=false means the caller should fall back to the curated catalog.
func (g *Generator) Generate(ctx context.Context, courseID string, profile models.Profile) (ch *models.Challenge, ok bool) {
	// The pipeline must degrade, never fail the request.
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("challenge generation panicked", "course_id", courseID, "panic", r)
			ch, ok = nil, false
		}
	}()

	if g.client == nil {
		return nil, false
	}

	g.mu.Lock()
	ideas := g.catalog.Ideas(courseID, ideaSampleSize, g.rng)
	g.mu.Unlock()

	prompt := BuildPrompt(courseID, profile, ideas)

	raw, err := g.client.GenerateText(ctx, prompt.System, prompt.User)
	if err != nil {
		g.logger.Warn("model call failed, falling back", "course_id", courseID, "error", err)
		return nil, false
	}

	payload, found := ExtractJSON(raw)
	if !found {
		g.logger.Warn("no JSON object in model response", "course_id", courseID)
		return nil, false
	}

	var candidate Candidate
	if err := json.Unmarshal([]byte(payload), &candidate); err != nil {
		g.logger.Warn("model response failed to decode", "course_id", courseID, "error", err)
		return nil, false
	}

	if err := ValidateCandidate(candidate); err != nil {
		g.logger.Warn("model response failed schema validation", "course_id", courseID, "error", err)
		return nil, false
	}

	language := profile.PreferredLanguage
	if language == "" {
		language = string(catalog.TrackForCourse(courseID))
	}

	return &models.Challenge{
		ID:            candidate.ID,
		CourseID:      courseID,
		Title:         candidate.Title,
		Description:   candidate.Description,
		Difficulty:    models.Difficulty(candidate.Difficulty),
		Skills:        candidate.Skills,
		Steps:         candidate.Steps,
		EstimatedTime: candidate.EstimatedTime,
		ProjectType:   candidate.ProjectType,
		Language:      language,
		Source:        models.SourceAI,
		CreatedAt:     time.Now().UTC(),
	}, true
}
