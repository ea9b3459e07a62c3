package generator

import (
	"fmt"
	"strings"

	"github.com/skillforge/learn-engine/internal/models"
)

// systemPrompt instructs the model to produce exactly one JSON challenge
// object. The schema here mirrors the validator; anything off-schema is
// rejected downstream and the request falls back to the curated catalog.
const systemPrompt = `You are a coding challenge designer for an online learning platform.
Your task is to produce ONE personalized coding challenge as a JSON object.

You must output ONLY a JSON object with these exact fields:
- id: short kebab-case slug for the challenge
- title: string, 5 to 100 characters
- description: string, 20 to 500 characters, motivating and specific
- difficulty: exactly one of "easy", "medium", "hard"
- skills: array of 2 to 6 short skill strings
- steps: array of 3 to 8 concrete build steps, each one sentence
- estimatedTime: human readable estimate like "4-6 hours"
- projectType: short label like "web app", "mobile app", "CLI tool"

CRITICAL RULES:
1. Output ONLY the JSON object, no markdown fences, no explanation
2. Respect every length bound above exactly
3. The challenge must be buildable by one person with the stated skills
4. Do not invent fields beyond the ones listed`

// Prompt is a built generation prompt plus the ideas that were sampled
// into it
type Prompt struct {
	System string
	User   string
	Ideas  []string
}

// BuildPrompt deterministically renders the user prompt for a course and
// profile. The three candidate ideas are sampled by the caller (so tests can
// seed the source); everything else is a pure function of the input.
func BuildPrompt(courseID string, p models.Profile, ideas []string) Prompt {
	var b strings.Builder

	level := p.Level()
	difficulty := p.DifficultyHint()

	fmt.Fprintf(&b, "Design a coding challenge for a learner on the %q course.\n\n", courseID)
	fmt.Fprintf(&b, "Learner level: %s\n", level)
	fmt.Fprintf(&b, "Target difficulty: %s\n", difficulty)

	if p.PreferredLanguage != "" {
		fmt.Fprintf(&b, "Preferred language: %s\n", p.PreferredLanguage)
	}

	if len(p.Interests) > 0 {
		fmt.Fprintf(&b, "Interests: %s\n", strings.Join(p.Interests, ", "))
	}

	if len(p.Goals) > 0 {
		fmt.Fprintf(&b, "Goals: %s\n", strings.Join(p.Goals, ", "))
	}

	if p.LearningStyle != "" {
		fmt.Fprintf(&b, "Learning style: %s\n", p.LearningStyle)
	}

	if p.BuildIdea != "" {
		fmt.Fprintf(&b, "\nThe learner wants to build: %s\nShape the challenge around this idea if at all reasonable.\n", p.BuildIdea)
	}

	if len(ideas) > 0 {
		b.WriteString("\nIf the learner gave no usable idea, pick the best fit from these candidates:\n")
		for _, idea := range ideas {
			fmt.Fprintf(&b, "- %s\n", idea)
		}
	}

	b.WriteString("\nReturn the challenge now as a single JSON object.")

	return Prompt{
		System: systemPrompt,
		User:   b.String(),
		Ideas:  ideas,
	}
}
