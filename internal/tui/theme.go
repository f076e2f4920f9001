package tui

import "github.com/charmbracelet/lipgloss"

type theme struct {
	renderer *lipgloss.Renderer

	border    lipgloss.TerminalColor
	highlight lipgloss.TerminalColor
	brand     lipgloss.TerminalColor
	error     lipgloss.TerminalColor
	body      lipgloss.TerminalColor
	accent    lipgloss.TerminalColor

	base lipgloss.Style
}

func newTheme(renderer *lipgloss.Renderer) theme {
	t := theme{renderer: renderer}

	t.border = lipgloss.AdaptiveColor{Dark: "#2D3748", Light: "#CBD5E0"}
	t.body = lipgloss.AdaptiveColor{Dark: "#94A3B8", Light: "#64748B"}
	t.accent = lipgloss.AdaptiveColor{Dark: "#F1F5F9", Light: "#0F172A"}
	t.brand = lipgloss.Color("#3B82F6")
	t.highlight = lipgloss.Color("#22C55E")
	t.error = lipgloss.Color("#EF4444")

	t.base = renderer.NewStyle().Foreground(t.body)
	return t
}

func (t theme) Base() lipgloss.Style {
	return t.base
}

func (t theme) TextBody() lipgloss.Style {
	return t.Base().Foreground(t.body)
}

func (t theme) TextAccent() lipgloss.Style {
	return t.Base().Foreground(t.accent)
}

func (t theme) TextHighlight() lipgloss.Style {
	return t.Base().Foreground(t.highlight)
}

func (t theme) TextBrand() lipgloss.Style {
	return t.Base().Foreground(t.brand)
}

func (t theme) TextError() lipgloss.Style {
	return t.Base().Foreground(t.error)
}

func (t theme) Panel() lipgloss.Style {
	return t.Base().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.border).
		Padding(0, 1)
}
