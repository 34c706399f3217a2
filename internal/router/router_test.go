package router

import (
	"strings"
	"testing"

	"github.com/emredev/devai/internal/models"
)

func userMessage(content string) []models.Message {
	return []models.Message{{Role: models.RoleUser, Content: content}}
}

func TestSelect_KeywordRouting(t *testing.T) {
	r := New()

	tests := []struct {
		name   string
		prompt string
		want   models.Tier
	}{
		{"strategy turkish", "bu ürün için pazarlama planı çıkar", models.TierStrategy},
		{"strategy english", "draft a growth strategy with KPI targets", models.TierStrategy},
		{"strategy content", "seo uyumlu makale yaz", models.TierStrategy},
		{"architect turkish", "karmaşık bir mimari analiz et: e-ticaret sitesi", models.TierArchitect},
		{"architect english", "refactor this into a scalable microservice", models.TierArchitect},
		{"architect security", "güvenlik açıklarını incele", models.TierArchitect},
		{"coder turkish", "bu fonksiyondaki hatayı düzelt", models.TierCoder},
		{"coder english", "write a function to debounce input", models.TierCoder},
		{"coder bug", "there is a bug in the login form", models.TierCoder},
		{"default fast", "merhaba, nasılsın?", models.TierFast},
		{"default fast english", "what is the weather like", models.TierFast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := r.Select(userMessage(tt.prompt), "")
			if sel.Tier != tt.want {
				t.Errorf("Select(%q) = %v, want %v", tt.prompt, sel.Tier, tt.want)
			}
		})
	}
}

func TestSelect_PriorityOrder(t *testing.T) {
	r := New()

	// Contains both a STRATEGY keyword (strateji) and a CODER keyword
	// (kod): first rule wins.
	sel := r.Select(userMessage("strateji belirle ve kod yaz"), "")
	if sel.Tier != models.TierStrategy {
		t.Errorf("strategy keyword must outrank coder keyword, got %v", sel.Tier)
	}

	// Architect keyword outranks coder keyword.
	sel = r.Select(userMessage("refactor this code"), "")
	if sel.Tier != models.TierArchitect {
		t.Errorf("architect keyword must outrank coder keyword, got %v", sel.Tier)
	}
}

func TestSelect_Determinism(t *testing.T) {
	r := New()
	history := userMessage("write a function")

	first := r.Select(history, "")
	for i := 0; i < 10; i++ {
		if got := r.Select(history, ""); got != first {
			t.Fatalf("Select is not deterministic: %+v != %+v", got, first)
		}
	}
}

func TestSelect_FallbackPrompt(t *testing.T) {
	r := New()

	sel := r.Select(nil, "mimari öneri ver")
	if sel.Tier != models.TierArchitect {
		t.Errorf("fallback prompt should be routed, got %v", sel.Tier)
	}

	sel = r.Select(nil, "")
	if sel.Tier != models.TierFast {
		t.Errorf("empty input should default to FAST, got %v", sel.Tier)
	}
}

func TestSelect_LargeHistoryEscalates(t *testing.T) {
	r := New(WithContextThreshold(100))

	history := []models.Message{
		{Role: models.RoleUser, Content: strings.Repeat("x", 200)},
		{Role: models.RoleUser, Content: "hello"},
	}

	sel := r.Select(history, "")
	if sel.Tier != models.TierArchitect {
		t.Errorf("oversized history should route ARCHITECT, got %v", sel.Tier)
	}
}

func TestSelect_LastMessageOnly(t *testing.T) {
	r := New()

	// Keywords in earlier turns do not count; only the latest message
	// carries routing signal.
	history := []models.Message{
		{Role: models.RoleUser, Content: "design a scalable architecture"},
		{Role: models.RoleAssistant, Content: "Here is the design."},
		{Role: models.RoleUser, Content: "thanks!"},
	}

	sel := r.Select(history, "")
	if sel.Tier != models.TierFast {
		t.Errorf("only the latest message should be matched, got %v", sel.Tier)
	}
}

func TestSelect_CaseInsensitive(t *testing.T) {
	r := New()

	sel := r.Select(userMessage("REFACTOR THE ARCHITECTURE"), "")
	if sel.Tier != models.TierArchitect {
		t.Errorf("matching must be case-insensitive, got %v", sel.Tier)
	}
}

func TestSelect_PersonaBinding(t *testing.T) {
	r := New()

	for _, tier := range models.AllTiers() {
		sel := r.SelectTier(tier)
		if sel.Tier != tier {
			t.Errorf("SelectTier(%v).Tier = %v", tier, sel.Tier)
		}
		if sel.PersonaLabel == "" {
			t.Errorf("tier %v has no persona label", tier)
		}
		if sel.SystemPrompt == "" {
			t.Errorf("tier %v has no system prompt", tier)
		}
	}
}

func TestPersonaFor_CodeTiersCarryFileConvention(t *testing.T) {
	for _, tier := range []models.Tier{models.TierCoder, models.TierArchitect} {
		p := PersonaFor(tier)
		if !strings.Contains(p.SystemPrompt, "[FILE:") {
			t.Errorf("tier %v system prompt must instruct the [FILE: ...] convention", tier)
		}
		if !strings.Contains(p.SystemPrompt, "```") {
			t.Errorf("tier %v system prompt must instruct fenced blocks", tier)
		}
	}
}
