package commands

import (
	"fmt"
	"os"

	"github.com/emredev/devai/internal/config"
	"github.com/emredev/devai/internal/models"
	"github.com/emredev/devai/internal/orchestrator"
	"github.com/emredev/devai/internal/provider"
	"github.com/emredev/devai/internal/router"
	"github.com/emredev/devai/internal/session"
)

// apiKey resolves the provider credential. DEVAI_API_KEY wins so a
// dedicated key can coexist with other tools using OPENAI_API_KEY.
func apiKey() (string, error) {
	if key := os.Getenv("DEVAI_API_KEY"); key != "" {
		return key, nil
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("no API key found: set DEVAI_API_KEY or OPENAI_API_KEY")
}

// buildOrchestrator assembles the router, provider and orchestrator
// from the user configuration.
func buildOrchestrator(cfg config.Config) (*orchestrator.Orchestrator, error) {
	key, err := apiKey()
	if err != nil {
		return nil, err
	}

	r := router.New(router.WithContextThreshold(cfg.ContextThreshold))
	p := provider.New(key, cfg)
	o := orchestrator.New(r, p, orchestrator.WithMinResponseChars(cfg.MinResponseChars))

	return o, nil
}

// buildSessionManager assembles the session manager on the default
// sessions directory.
func buildSessionManager(cfg config.Config) (*session.Manager, error) {
	o, err := buildOrchestrator(cfg)
	if err != nil {
		return nil, err
	}

	dir, err := config.GetSessionsDir()
	if err != nil {
		return nil, err
	}
	store, err := session.NewStore(dir)
	if err != nil {
		return nil, err
	}

	return session.NewManager(store, o), nil
}

// pinnedTier parses the --tier flag, or returns nil when unset.
func pinnedTier() (*models.Tier, error) {
	if tierFlag == "" {
		return nil, nil
	}
	tier, ok := models.ParseTier(tierFlag)
	if !ok {
		return nil, fmt.Errorf("unknown tier %q (use FAST, CODER, ARCHITECT or STRATEGY)", tierFlag)
	}
	return &tier, nil
}
