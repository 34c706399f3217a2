package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/emredev/devai/internal/models"
)

var (
	fileCaptionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("12")).
				Bold(true)

	codeFrameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)

	escalationStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Italic(true)
)

// Segments renders a parsed response: prose through the markdown
// renderer, code segments as framed blocks captioned with the target
// filename.
func Segments(segments []models.Segment, opts Options) (string, error) {
	var b strings.Builder

	for i, seg := range segments {
		if i > 0 {
			b.WriteString("\n")
		}

		switch seg.Type {
		case models.SegmentCode:
			b.WriteString(codeBlock(seg))
		default:
			rendered, err := Markdown(seg.Content, opts)
			if err != nil {
				// Fall back to the raw text so output is never lost.
				rendered = seg.Content
			}
			b.WriteString(strings.TrimRight(rendered, "\n"))
			b.WriteString("\n")
		}
	}

	return b.String(), nil
}

func codeBlock(seg models.Segment) string {
	caption := fileCaptionStyle.Render(fmt.Sprintf("▸ %s", seg.FileName))
	if seg.Language != "" {
		caption += fileCaptionStyle.Render(fmt.Sprintf(" (%s)", seg.Language))
	}
	body := codeFrameStyle.Render(strings.TrimRight(seg.Code, "\n"))
	return caption + "\n" + body + "\n"
}

// EscalationNotice formats the note shown when a reply came from the
// escalated tier instead of the routed one.
func EscalationNotice(personaLabel string) string {
	return escalationStyle.Render(fmt.Sprintf("↑ escalated to %s", personaLabel))
}
