package models

// ExperienceLevel represents a learner's self-reported experience
type ExperienceLevel string

const (
	LevelBeginner     ExperienceLevel = "beginner"
	LevelIntermediate ExperienceLevel = "intermediate"
	LevelAdvanced     ExperienceLevel = "advanced"
)

// LearningStyle represents a learner's preferred learning style
type LearningStyle string

const (
	StyleVisual  LearningStyle = "visual"
	StyleHandsOn LearningStyle = "hands-on"
	StyleReading LearningStyle = "reading"
)

// Profile is the canonical, normalized record of a learner's stated
// experience, interests and goals, used to personalize challenge generation.
// Either ExperienceLevel or Confidence may be unset; DifficultyHint resolves
// a target difficulty from whichever is present.
type Profile struct {
	ExperienceLevel   ExperienceLevel `json:"experienceLevel,omitempty"`
	PreferredLanguage string          `json:"preferredLanguage,omitempty"`
	Interests         []string        `json:"interests,omitempty"`
	Goals             []string        `json:"goals,omitempty"`
	LearningStyle     LearningStyle   `json:"learningStyle,omitempty"`
	BuildIdea         string          `json:"buildIdea,omitempty"`
	Confidence        int             `json:"confidence,omitempty"` // 1-5, 0 when unset
}

// DifficultyHint derives the target difficulty for generation. An explicit
// experience level wins; otherwise confidence maps <=2 to easy, 3 to medium
// and >=4 to hard. With neither present the hint defaults to easy.
func (p Profile) DifficultyHint() Difficulty {
	switch p.ExperienceLevel {
	case LevelBeginner:
		return DifficultyEasy
	case LevelIntermediate:
		return DifficultyMedium
	case LevelAdvanced:
		return DifficultyHard
	}

	switch {
	case p.Confidence == 0:
		return DifficultyEasy
	case p.Confidence <= 2:
		return DifficultyEasy
	case p.Confidence == 3:
		return DifficultyMedium
	default:
		return DifficultyHard
	}
}

// Level resolves the effective experience level, deriving one from the
// confidence score when no explicit level was given.
func (p Profile) Level() ExperienceLevel {
	if p.ExperienceLevel != "" {
		return p.ExperienceLevel
	}

	switch p.DifficultyHint() {
	case DifficultyMedium:
		return LevelIntermediate
	case DifficultyHard:
		return LevelAdvanced
	default:
		return LevelBeginner
	}
}

// SurveyInput accepts both historical onboarding survey shapes: the structured
// shape (experienceLevel/interests/goals/learningStyle) and the legacy shape
// (confidence/buildIdea). Either subset may be present alone; Normalize folds
// whatever was sent into one canonical Profile.
type SurveyInput struct {
	ExperienceLevel   string   `json:"experienceLevel,omitempty"`
	PreferredLanguage string   `json:"preferredLanguage,omitempty"`
	Interests         []string `json:"interests,omitempty"`
	Goals             []string `json:"goals,omitempty"`
	LearningStyle     string   `json:"learningStyle,omitempty"`
	Confidence        int      `json:"confidence,omitempty"`
	BuildIdea         string   `json:"buildIdea,omitempty"`
}

// Normalize produces the canonical Profile from whichever survey fields were
// present. Unknown enum values are dropped rather than rejected; a survey is
// client-side state and the pipeline degrades instead of erroring.
func (s SurveyInput) Normalize() Profile {
	p := Profile{
		PreferredLanguage: s.PreferredLanguage,
		Interests:         dedupe(s.Interests),
		Goals:             dedupe(s.Goals),
		BuildIdea:         s.BuildIdea,
	}

	switch ExperienceLevel(s.ExperienceLevel) {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		p.ExperienceLevel = ExperienceLevel(s.ExperienceLevel)
	}

	switch LearningStyle(s.LearningStyle) {
	case StyleVisual, StyleHandsOn, StyleReading:
		p.LearningStyle = LearningStyle(s.LearningStyle)
	}

	if s.Confidence >= 1 && s.Confidence <= 5 {
		p.Confidence = s.Confidence
	}

	return p
}

// dedupe removes duplicates while preserving first-seen order
func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
