package commands

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/emredev/devai/internal/config"
	"github.com/emredev/devai/internal/tui"
	"github.com/emredev/devai/internal/workspace"
)

var resumeFlag string

// chatCmd starts the interactive chat TUI
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat session. Replies are routed to specialist
personas and generated files can be applied to the in-memory workspace
with Ctrl+A.

A new session is created unless --resume is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			cfg = config.DefaultConfig()
		}

		manager, err := buildSessionManager(cfg)
		if err != nil {
			return err
		}

		sessionID := resumeFlag
		if sessionID == "" {
			sess, err := manager.Store().Create()
			if err != nil {
				return fmt.Errorf("failed to create session: %w", err)
			}
			sessionID = sess.ID
		} else {
			if _, err := manager.Store().Get(sessionID); err != nil {
				return err
			}
		}

		if err := manager.Store().SetActive(sessionID); err != nil {
			return err
		}

		model := tui.NewChatModel(manager, sessionID, workspace.NewStore())
		p := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("chat session failed: %w", err)
		}

		return nil
	},
}

func init() {
	chatCmd.Flags().StringVar(&resumeFlag, "resume", "", "Resume an existing session by id")
}
