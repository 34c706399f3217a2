package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/emredev/devai/internal/config"
	"github.com/emredev/devai/internal/models"
	"github.com/emredev/devai/internal/session"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage chat sessions",
	Long:  `View and manage your local chat sessions.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all sessions",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all sessions",
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyClearCmd)
}

func openSessionStore() (*session.Store, error) {
	dir, err := config.GetSessionsDir()
	if err != nil {
		return nil, fmt.Errorf("failed to locate sessions: %w", err)
	}
	return session.NewStore(dir)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openSessionStore()
	if err != nil {
		return err
	}

	sessions, err := store.List()
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions found.")
		return nil
	}

	activeID, _ := store.ActiveID()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTITLE\tMESSAGES\tUPDATED")
	_, _ = fmt.Fprintln(w, "--\t-----\t--------\t-------")

	for _, sess := range sessions {
		updated := sess.UpdatedAt.Format("2006-01-02 15:04")
		title := sess.Title
		if len(title) > 40 {
			title = title[:40] + "..."
		}
		marker := ""
		if sess.ID == activeID {
			marker = " *"
		}
		_, _ = fmt.Fprintf(w, "%s%s\t%s\t%d\t%s\n",
			sess.ID, marker, title, len(sess.Messages), updated)
	}

	return w.Flush()
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := openSessionStore()
	if err != nil {
		return err
	}

	sess, err := store.Get(args[0])
	if err != nil {
		return fmt.Errorf("session not found: %w", err)
	}

	fmt.Printf("ID: %s\n", sess.ID)
	fmt.Printf("Title: %s\n", sess.Title)
	fmt.Printf("Created: %s\n", sess.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Updated: %s\n", sess.UpdatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Messages: %d\n", len(sess.Messages))
	fmt.Println()

	for i, msg := range sess.Messages {
		role := "You"
		if msg.Role == models.RoleAssistant {
			role = "DevAI"
		}
		fmt.Printf("[%d] %s:\n", i+1, role)

		content := msg.Content
		if len(content) > 500 {
			content = content[:500] + "..."
		}
		fmt.Printf("  %s\n\n", content)
	}

	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	store, err := openSessionStore()
	if err != nil {
		return err
	}

	if err := store.Delete(args[0]); err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}

	fmt.Printf("Deleted session: %s\n", args[0])
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	store, err := openSessionStore()
	if err != nil {
		return err
	}

	if err := store.ClearAll(); err != nil {
		return fmt.Errorf("failed to clear sessions: %w", err)
	}

	fmt.Println("All sessions deleted.")
	return nil
}
