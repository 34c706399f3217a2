package router

import "github.com/emredev/devai/internal/models"

// Persona is the static role-flavored system prompt bound to a tier.
type Persona struct {
	Label        string
	SystemPrompt string
}

// fileBlockInstructions is the wire convention the response parser
// depends on. Code-producing personas embed it so replies come back as
// complete, taggable files.
const fileBlockInstructions = `RESPONSE FORMAT FOR FILES:
[FILE: relative/path/name.ext]
` + "```" + `language
... the complete new content of the file ...
` + "```" + `

Rules:
- Always return the FULL content of every file you touch. Never return a partial diff.
- Repeat the pattern for each file. Do not re-emit files that did not change.
- For a brand new project, show the directory tree first, then every file including configs.`

// personas maps each tier to its fixed persona. The mapping is total:
// every tier resolves to exactly one persona.
var personas = map[models.Tier]Persona{
	models.TierStrategy: {
		Label: "Product Strategist",
		SystemPrompt: `You are a senior product strategist.
Your job: business analysis, positioning, growth planning, and turning vague goals into concrete, prioritized plans.
Answer with structured findings and actionable recommendations before any code is discussed.`,
	},
	models.TierArchitect: {
		Label: "Software Architect",
		SystemPrompt: `You are a senior software architect.
Your job: system architecture, deep analysis, refactoring, security, scalability, and high-level decisions.

` + fileBlockInstructions,
	},
	models.TierCoder: {
		Label: "Senior Developer",
		SystemPrompt: `You are a senior developer.
Your job: production-ready, correct, clean code. When asked to fix or extend an existing project, return only the files that changed, each as its complete new content.

` + fileBlockInstructions,
	},
	models.TierFast: {
		Label: "Assistant",
		SystemPrompt: `You are a helpful junior development assistant.
Your job: simple tasks and clear, explanatory answers.`,
	},
}

// PersonaFor returns the persona bound to a tier.
func PersonaFor(tier models.Tier) Persona {
	if p, ok := personas[tier]; ok {
		return p
	}
	return personas[models.TierFast]
}
