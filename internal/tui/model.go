package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/emredev/devai/internal/models"
	"github.com/emredev/devai/internal/orchestrator"
	"github.com/emredev/devai/internal/parser"
	"github.com/emredev/devai/internal/render"
	"github.com/emredev/devai/internal/session"
	"github.com/emredev/devai/internal/workspace"
)

// Message types for the TUI. Both carry the send generation they belong
// to so replies from a cancelled send can be dropped.
type (
	responseMsg struct {
		seq    int
		result *orchestrator.Result
	}
	errMsg struct {
		seq int
		err error
	}
)

// Sender abstracts the session send pipeline so tests can script
// replies without a provider.
type Sender interface {
	Send(ctx context.Context, sessionID, text string, attachments []models.VirtualFile) (*session.SendResult, error)
}

// Model represents the chat TUI state
type Model struct {
	sender    Sender
	sessionID string
	files     *workspace.Store

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// State
	messages []chatMessage
	loading  bool
	ready    bool
	err      error
	notice   string
	// sendSeq identifies the current in-flight send. Esc bumps it, so a
	// response arriving for an older send is stale and ignored.
	sendSeq int

	// Dimensions
	width  int
	height int
}

// chatMessage represents a rendered message in the chat
type chatMessage struct {
	role      string // "user" or "assistant"
	content   string
	persona   string
	escalated bool
}

// NewChatModel creates a new chat TUI model bound to a session.
func NewChatModel(sender Sender, sessionID string, files *workspace.Store) Model {
	ta := textarea.New()
	ta.Placeholder = "Type your message here..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	return Model{
		sender:    sender,
		sessionID: sessionID,
		files:     files,
		textarea:  ta,
		spinner:   s,
		messages:  []chatMessage{},
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4
		inputHeight := 6
		statusHeight := 1
		padding := 2

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
		if vpHeight < 5 {
			vpHeight = 5
		}

		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.textarea.SetWidth(contentWidth - 4)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
			m.textarea.SetWidth(contentWidth - 4)
		}
		m.updateViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.loading {
				// The Send goroutine still runs to completion (and may
				// persist the turn), but its reply is now stale.
				m.sendSeq++
				m.loading = false
				m.notice = "generation cancelled"
			} else {
				return m, tea.Quit
			}

		case "ctrl+a":
			m.notice = m.applyLastReply()

		case "enter":
			if !m.loading && strings.TrimSpace(m.textarea.Value()) != "" {
				input := strings.TrimSpace(m.textarea.Value())
				if input == "exit" || input == "quit" || input == "/exit" || input == "/quit" {
					return m, tea.Quit
				}

				m.messages = append(m.messages, chatMessage{
					role:    "user",
					content: input,
				})
				m.updateViewport()
				m.viewport.GotoBottom()

				m.loading = true
				m.err = nil
				m.notice = ""
				m.textarea.Reset()

				return m, tea.Batch(
					m.sendMessage(input),
					m.spinner.Tick,
				)
			}
		}

	case responseMsg:
		if msg.seq != m.sendSeq {
			break
		}
		m.loading = false
		m.messages = append(m.messages, chatMessage{
			role:      "assistant",
			content:   msg.result.Content,
			persona:   msg.result.PersonaLabel,
			escalated: msg.result.Escalated,
		})
		m.updateViewport()
		m.viewport.GotoBottom()

	case errMsg:
		if msg.seq != m.sendSeq {
			break
		}
		m.loading = false
		m.err = msg.err

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	// Only pass KeyMsg to the textarea to prevent escape sequence leaks.
	if !m.loading {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	var sections []string
	contentWidth := m.width - 4

	headerParts := []string{
		titleStyle.Render("✦ DevAI"),
		subtitleStyle.Render("  •  workspace: "),
		subtitleStyle.Render(fmt.Sprintf("%d files", m.files.Len())),
	}
	headerContent := lipgloss.JoinHorizontal(lipgloss.Center, headerParts...)
	sections = append(sections, headerStyle.Width(contentWidth).Render(headerContent))

	var messagesContent string
	if len(m.messages) == 0 {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent))

	var inputContent string
	if m.loading {
		inputContent = m.spinner.View() + loadingStyle.Render(" thinking...")
	} else {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.textarea.View(),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	sections = append(sections, m.renderStatusBar(contentWidth))

	if m.notice != "" {
		sections = append(sections, noticeStyle.Render("  "+m.notice))
	}
	if m.err != nil {
		sections = append(sections, errorStyle.Render(fmt.Sprintf("  ⚠ Error: %v", m.err)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	title := welcomeTitleStyle.Width(width).Render("Welcome to DevAI")
	subtitle := welcomeStyle.Width(width).Render("Describe what you want to build, or ask anything")

	content := lipgloss.JoinVertical(lipgloss.Center, "", title, "", subtitle, "")

	contentHeight := lipgloss.Height(content)
	topPadding := (height - contentHeight) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	return strings.Repeat("\n", topPadding) + content
}

func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Ctrl+A", "Apply files"},
		{"Esc", "Quit"},
		{"↑↓", "Scroll"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	bar := strings.Join(items, "  │  ")
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// sendMessage creates a command that runs the session send pipeline,
// stamped with the generation it was started for.
func (m Model) sendMessage(text string) tea.Cmd {
	seq := m.sendSeq
	return func() tea.Msg {
		out, err := m.sender.Send(context.Background(), m.sessionID, text, nil)
		if err != nil {
			return errMsg{seq: seq, err: err}
		}
		return responseMsg{seq: seq, result: out.Result}
	}
}

// applyLastReply parses the most recent assistant message and writes
// its code segments into the workspace.
func (m *Model) applyLastReply() string {
	for i := len(m.messages) - 1; i >= 0; i-- {
		if m.messages[i].role != "assistant" {
			continue
		}
		applied := m.files.ApplySegments(parser.Parse(m.messages[i].content))
		if applied == 0 {
			return "no files in the last reply"
		}
		return fmt.Sprintf("%d file(s) applied to the workspace", applied)
	}
	return "nothing to apply yet"
}

// updateViewport refreshes the viewport content with styled messages
func (m *Model) updateViewport() {
	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6

	for i, msg := range m.messages {
		if i > 0 {
			content.WriteString("\n")
		}

		if msg.role == "user" {
			label := userLabelStyle.Render("⬤ You")
			content.WriteString(label + "\n" + msg.content)
		} else {
			label := assistantLabelStyle.Render("✦ " + personaOrDefault(msg.persona))
			if msg.escalated {
				label += escalatedStyle.Render("  (escalated)")
			}
			content.WriteString(label + "\n")

			segments := parser.Parse(msg.content)
			rendered, err := render.Segments(segments, render.DefaultOptions().WithWidth(bubbleWidth))
			if err != nil {
				rendered = msg.content
			}
			content.WriteString(strings.TrimRight(rendered, "\n"))
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

func personaOrDefault(persona string) string {
	if persona == "" {
		return "DevAI"
	}
	return persona
}
