package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/emredev/devai/internal/config"
	"github.com/emredev/devai/internal/models"
	"github.com/emredev/devai/internal/orchestrator"
	"github.com/emredev/devai/internal/parser"
	"github.com/emredev/devai/internal/render"
	"github.com/emredev/devai/internal/workspace"
)

var (
	colorTextDim = lipgloss.Color("#565f89")
	colorSuccess = lipgloss.Color("#9ece6a")
	colorFail    = lipgloss.Color("#f7768e")
)

// spinner is a minimal stderr loading indicator for one-shot queries.
type spinner struct {
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	stopped bool
}

func newSpinner(message string) *spinner {
	return &spinner{
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (s *spinner) start() {
	go func() {
		defer close(s.done)

		chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
		frame := 0

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		fmt.Fprint(os.Stderr, "\033[?25l")
		for {
			select {
			case <-s.stop:
				fmt.Fprint(os.Stderr, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				fmt.Fprintf(os.Stderr, "\r\033[K%s %s", chars[frame%len(chars)], s.message)
				frame++
			}
		}
	}()
}

func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	checkmark := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	msg := lipgloss.NewStyle().Foreground(colorSuccess).Render(message)
	fmt.Fprintf(os.Stderr, "%s %s\n", checkmark, msg)
}

func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}

// runQuery executes a single request and prints the reply. If rawOutput
// is true, only the raw response text is printed without decoration.
func runQuery(prompt string, rawOutput bool) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return fmt.Errorf("prompt cannot be empty")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		cfg = config.DefaultConfig()
	}

	o, err := buildOrchestrator(cfg)
	if err != nil {
		return err
	}

	tier, err := pinnedTier()
	if err != nil {
		return err
	}

	var spin *spinner
	if !rawOutput {
		spin = newSpinner("Generating response")
		spin.start()
	}

	start := time.Now()
	result, err := o.Execute(context.Background(), orchestrator.Task{
		Prompt: prompt,
		Tier:   tier,
	})
	if err != nil {
		if !rawOutput {
			spin.stopWithError()
		}
		return fmt.Errorf("generation failed: %w", err)
	}
	if !rawOutput {
		spin.stopWithSuccess(fmt.Sprintf("%s answered", result.PersonaLabel))
	}

	if cfg.Verbose && !rawOutput {
		fmt.Fprintf(os.Stderr, "[verbose] Tier: %s\n", result.Tier)
		fmt.Fprintf(os.Stderr, "[verbose] Request took %s\n", time.Since(start).Round(time.Millisecond))
		if result.Escalated {
			fmt.Fprintln(os.Stderr, "[verbose] Reply came from the escalated tier")
		}
	}

	segments := parser.Parse(result.Content)

	if applyFlag != "" {
		if err := applySegmentsToDir(segments, applyFlag); err != nil {
			return err
		}
	}

	if rawOutput {
		if outputFlag != "" {
			return os.WriteFile(outputFlag, []byte(result.Content), 0o644)
		}
		fmt.Print(result.Content)
		return nil
	}

	fmt.Fprintln(os.Stderr)

	if copyFlag || cfg.CopyToClipboard {
		if err := clipboard.WriteAll(result.Content); err != nil {
			warnMsg := lipgloss.NewStyle().Foreground(colorFail).Render(
				fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err),
			)
			fmt.Fprintln(os.Stderr, warnMsg)
		} else {
			clipMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Copied to clipboard")
			fmt.Fprintln(os.Stderr, clipMsg)
		}
	}

	if outputFlag != "" {
		if err := os.WriteFile(outputFlag, []byte(result.Content), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		successMsg := lipgloss.NewStyle().Foreground(colorSuccess).Render(
			fmt.Sprintf("✓ Response saved to %s", outputFlag),
		)
		fmt.Fprintln(os.Stderr, successMsg)
		return nil
	}

	termWidth := getTerminalWidth()
	contentWidth := termWidth - 4
	if contentWidth < 40 {
		contentWidth = 40
	}
	if contentWidth > 120 {
		contentWidth = 120
	}

	if result.Escalated {
		fmt.Println(render.EscalationNotice(result.PersonaLabel))
	}

	out, err := render.Segments(segments, render.DefaultOptions().WithWidth(contentWidth))
	if err != nil {
		out = result.Content
	}
	fmt.Println(out)

	return nil
}

// applySegmentsToDir materializes the generated files under dir,
// creating nested directories for tagged paths. Filenames come from the
// model reply and are untrusted: anything that would resolve outside
// dir (absolute, ../ traversal, Windows drive paths) is rejected.
func applySegmentsToDir(segments []models.Segment, dir string) error {
	store := workspace.NewStore()
	if applied := store.ApplySegments(segments); applied == 0 {
		fmt.Fprintln(os.Stderr, "No files found in the response")
		return nil
	}

	for _, f := range store.Files() {
		rel := filepath.FromSlash(f.Name)
		if !filepath.IsLocal(rel) {
			return fmt.Errorf("refusing to write %q: path escapes the target directory", f.Name)
		}
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", f.Name, err)
		}
		if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.Name, err)
		}
		fmt.Fprintf(os.Stderr, "✓ wrote %s\n", path)
	}

	return nil
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
