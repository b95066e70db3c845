package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Core palette
	Teal      = lipgloss.Color("#2EC4B6")
	DeepTeal  = lipgloss.Color("#147A70")
	Amber     = lipgloss.Color("#FFB627")
	Paper     = lipgloss.Color("#F4F1DE")
	Ink       = lipgloss.Color("#1B1B1E")
	MidGray   = lipgloss.Color("#6C6F7F")
	LightGray = lipgloss.Color("#AAAAAA")
	Red       = lipgloss.Color("#FF4136")
	Green     = lipgloss.Color("#3DDC84")

	// Headings and labels
	TitleStyle = lipgloss.NewStyle().
			Foreground(Teal).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(DeepTeal).
			Bold(true)

	ValueStyle = lipgloss.NewStyle().
			Foreground(Paper)

	// Note paths, e.g. in search results and after add
	PathStyle = lipgloss.NewStyle().
			Foreground(Amber).
			Underline(true)

	// Insight list numbering
	BulletStyle = lipgloss.NewStyle().
			Foreground(Amber).
			Bold(true)

	ExcerptStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Italic(true).
			PaddingLeft(2)

	// Backend badge shown in the shell prompt
	BadgeStyle = lipgloss.NewStyle().
			Background(DeepTeal).
			Foreground(Ink).
			Bold(true).
			Padding(0, 1)

	PromptStyle = lipgloss.NewStyle().
			Foreground(Teal).
			Bold(true)

	// Spinner
	SpinnerStyle = lipgloss.NewStyle().
			Foreground(Amber)

	// Banner
	BannerStyle = lipgloss.NewStyle().
			Foreground(Teal).
			Bold(true)

	SeparatorStyle = lipgloss.NewStyle().
			Foreground(MidGray)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)

	WarnStyle = lipgloss.NewStyle().
			Foreground(Amber).
			Bold(true)

	// Error
	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	// Hints under errors and help text
	HelpStyle = lipgloss.NewStyle().
			Foreground(MidGray)
)

const Banner = `
  ┏┓╻┏━┓╺┳╸┏━╸╻ ╻╻┏━┓┏━╸
  ┃┗┫┃ ┃ ┃ ┣╸ ┃╻┃┃┗━┓┣╸
  ╹ ╹┗━┛ ╹ ┗━╸┗┻┛╹┗━┛┗━╸
`

// Separator returns a horizontal rule of width cells.
func Separator(width int) string {
	if width <= 0 {
		width = 40
	}
	return SeparatorStyle.Render(strings.Repeat("─", width))
}
