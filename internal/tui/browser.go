// Package tui implements the interactive changelog browser.
package tui

import (
	"fmt"
	"strings"

	"trainvoc-updates/internal/domain"
	"trainvoc-updates/internal/service"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#5A189A")).Bold(true)
	chipStyle     = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("60"))
	activeChip    = chipStyle.BorderForeground(lipgloss.Color("#9D4EDD")).Bold(true)
	detailStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("60")).Padding(0, 1)

	typeStyles = map[domain.UpdateType]lipgloss.Style{
		domain.UpdateTypeNew:      lipgloss.NewStyle().Foreground(lipgloss.Color("#2ECC71")).Bold(true),
		domain.UpdateTypeImproved: lipgloss.NewStyle().Foreground(lipgloss.Color("#3498DB")).Bold(true),
		domain.UpdateTypeFixed:    lipgloss.NewStyle().Foreground(lipgloss.Color("#F39C12")).Bold(true),
	}
)

// Browser is a searchable changelog: type to filter, tab cycles the category
// chips, up/down picks a version.
type Browser struct {
	changelog *service.ChangelogService
	search    textinput.Model
	category  *domain.UpdateType
	result    *domain.ChangelogResult
	cursor    int
	width     int
}

func NewBrowser(changelog *service.ChangelogService) Browser {
	ti := textinput.New()
	ti.Placeholder = "Search versions..."
	ti.Focus()
	ti.CharLimit = 128
	ti.Width = 40

	b := Browser{
		changelog: changelog,
		search:    ti,
	}
	b.refresh()
	return b
}

func (b Browser) Init() tea.Cmd {
	return textinput.Blink
}

func (b Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return b, tea.Quit
		case tea.KeyTab:
			b.category = nextCategory(b.category)
			b.refresh()
			return b, nil
		case tea.KeyShiftTab:
			b.category = prevCategory(b.category)
			b.refresh()
			return b, nil
		case tea.KeyUp:
			if b.cursor > 0 {
				b.cursor--
			}
			return b, nil
		case tea.KeyDown:
			if b.cursor < len(b.result.Versions)-1 {
				b.cursor++
			}
			return b, nil
		}

	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.search.Width = msg.Width - 20
	}

	previous := b.search.Value()
	var cmd tea.Cmd
	b.search, cmd = b.search.Update(msg)
	if b.search.Value() != previous {
		b.refresh()
	}
	return b, cmd
}

func (b *Browser) refresh() {
	b.result = b.changelog.Search(domain.ChangelogQuery{
		Query:    b.search.Value(),
		Category: b.category,
	})
	if b.cursor >= len(b.result.Versions) {
		b.cursor = len(b.result.Versions) - 1
	}
	if b.cursor < 0 {
		b.cursor = 0
	}
}

// Category is the active chip; nil means All.
func (b Browser) Category() *domain.UpdateType {
	return b.category
}

func (b Browser) Results() []domain.UpdateNotes {
	return b.result.Versions
}

// Selected returns the highlighted version, or nil when nothing matches.
func (b Browser) Selected() *domain.UpdateNotes {
	if len(b.result.Versions) == 0 {
		return nil
	}
	return &b.result.Versions[b.cursor]
}

func (b Browser) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Trainvoc changelog"))
	sb.WriteString("\n\n")
	sb.WriteString(b.search.View())
	sb.WriteString("\n")
	sb.WriteString(b.renderChips())
	sb.WriteString("\n")

	if b.result.Summary != "" {
		sb.WriteString(dimStyle.Render(b.result.Summary))
		sb.WriteString("\n")
	}

	if len(b.result.Versions) == 0 {
		sb.WriteString(dimStyle.Render("No versions match your search."))
		sb.WriteString("\n")
	}

	for i, v := range b.result.Versions {
		line := fmt.Sprintf("%-10s %s", v.CurrentVersion, v.ReleaseDate)
		if i == b.cursor {
			sb.WriteString(selectedStyle.Render("> " + line))
		} else {
			sb.WriteString("  " + line)
		}
		sb.WriteString("\n")
	}

	if selected := b.Selected(); selected != nil {
		sb.WriteString("\n")
		sb.WriteString(detailStyle.Render(b.renderDetail(selected)))
		sb.WriteString("\n")
	}

	sb.WriteString(dimStyle.Render("type to search • tab: category • ↑/↓: select • esc: quit"))
	return sb.String()
}

func (b Browser) renderChips() string {
	chips := make([]string, 0, len(domain.UpdateTypes)+1)

	label := func(name string, active bool) string {
		if active {
			return activeChip.Render(name)
		}
		return chipStyle.Render(name)
	}

	chips = append(chips, label("All", b.category == nil))
	for _, t := range domain.UpdateTypes {
		chips = append(chips, label(string(t), b.category != nil && *b.category == t))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}

func (b Browser) renderDetail(v *domain.UpdateNotes) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("%s (%d)", v.CurrentVersion, v.VersionCode)))
	sb.WriteString("\n")

	for _, h := range service.FilterHighlights(v, b.category) {
		style, ok := typeStyles[h.Type]
		if !ok {
			style = dimStyle
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", style.Render(string(h.Type)), h.Title))
		if h.Description != "" {
			sb.WriteString(dimStyle.Render("    " + h.Description))
			sb.WriteString("\n")
		}
	}

	if len(v.UpcomingFeatures) > 0 {
		sb.WriteString(dimStyle.Render("Coming soon: " + strings.Join(v.UpcomingFeatures, ", ")))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func nextCategory(current *domain.UpdateType) *domain.UpdateType {
	if current == nil {
		t := domain.UpdateTypes[0]
		return &t
	}
	for i, t := range domain.UpdateTypes {
		if t == *current && i+1 < len(domain.UpdateTypes) {
			next := domain.UpdateTypes[i+1]
			return &next
		}
	}
	return nil
}

func prevCategory(current *domain.UpdateType) *domain.UpdateType {
	if current == nil {
		t := domain.UpdateTypes[len(domain.UpdateTypes)-1]
		return &t
	}
	for i, t := range domain.UpdateTypes {
		if t == *current && i > 0 {
			prev := domain.UpdateTypes[i-1]
			return &prev
		}
	}
	return nil
}
