package chat

import (
	"strings"
)

// Intent is the closed set of question categories surfaced alongside each
// turn. The presentation layer keys widgets (project showcase, timeline,
// skill radar) off this instead of substring-matching transcripts.
type Intent string

const (
	// IntentProjects asks about built projects.
	IntentProjects Intent = "projects"
	// IntentAchievements asks about awards, certificates, milestones.
	IntentAchievements Intent = "achievements"
	// IntentSkills asks about technologies and proficiencies.
	IntentSkills Intent = "skills"
	// IntentExperience asks about work history or education.
	IntentExperience Intent = "experience"
	// IntentGeneral is everything else.
	IntentGeneral Intent = "general"
)

// intentKeywords maps each intent to its trigger words, checked against
// the lowercased question. First match in declaration order wins.
var intentKeywords = []struct {
	intent Intent
	words  []string
}{
	{IntentProjects, []string{"project", "built", "build", "portfolio", "app", "application", "demo"}},
	{IntentAchievements, []string{"achievement", "award", "certificate", "certification", "hackathon", "won", "winner", "milestone"}},
	{IntentSkills, []string{"skill", "technolog", "language", "framework", "stack", "tool", "proficien"}},
	{IntentExperience, []string{"experience", "intern", "job", "work", "company", "education", "university", "degree", "study"}},
}

// ClassifyIntent categorizes a visitor question.
func ClassifyIntent(question string) Intent {
	q := strings.ToLower(question)
	for _, entry := range intentKeywords {
		for _, w := range entry.words {
			if strings.Contains(q, w) {
				return entry.intent
			}
		}
	}
	return IntentGeneral
}
