package cli

import (
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/healthners/healthners/internal/domain"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4C6FFF"))

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8E8E93"))

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#6C47FF")).
			Padding(0, 1)

	quickReplyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#007AFF"))
)

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// markdownRenderer renders bot replies. Links, lists and emphasis in the
// model output are shown formatted rather than as raw Markdown.
type markdownRenderer struct {
	width int
	theme domain.Theme
	r     *glamour.TermRenderer
}

func newMarkdownRenderer(width int) *markdownRenderer {
	return &markdownRenderer{width: width}
}

func (m *markdownRenderer) Render(text string, theme domain.Theme) string {
	if m.r == nil || m.theme != theme {
		style := "light"
		if theme == domain.ThemeDark {
			style = "dark"
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(m.width-4),
		)
		if err != nil {
			return text
		}
		m.r, m.theme = r, theme
	}

	out, err := m.r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

func renderUser(text string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, userStyle.Render(text))
}
