package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nvpkp/lexi/config"
)

// PickerModel lets the user choose a profile from a list
type PickerModel struct {
	profiles []config.Profile
	cursor   int
	chosen   string
	done     bool

	keys     KeyMap
	help     help.Model
	showHelp bool

	width        int
	height       int
	scrollOffset int
}

// NewPicker creates a picker with the cursor on the active profile
func NewPicker(profiles []config.Profile) PickerModel {
	m := PickerModel{
		profiles: profiles,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		width:    80,
		height:   24,
	}
	for i, p := range profiles {
		if p.Active {
			m.cursor = i
		}
	}
	m.adjustScrollOffset()
	return m
}

// Chosen returns the selected profile name, or false if the user quit
func (m PickerModel) Chosen() (string, bool) {
	return m.chosen, m.chosen != ""
}

// Cursor returns the highlighted row
func (m PickerModel) Cursor() int {
	return m.cursor
}

func (m PickerModel) Init() tea.Cmd {
	return nil
}

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.adjustScrollOffset()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			m.moveUp()
		case key.Matches(msg, m.keys.Down):
			m.moveDown()
		case key.Matches(msg, m.keys.Top):
			m.cursor = 0
			m.scrollOffset = 0
		case key.Matches(msg, m.keys.Bottom):
			if len(m.profiles) > 0 {
				m.cursor = len(m.profiles) - 1
				m.adjustScrollOffset()
			}
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
		case key.Matches(msg, m.keys.Select):
			if len(m.profiles) > 0 {
				m.chosen = m.profiles[m.cursor].Name
				m.done = true
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m *PickerModel) moveUp() {
	if m.cursor > 0 {
		m.cursor--
		m.adjustScrollOffset()
	}
}

func (m *PickerModel) moveDown() {
	if m.cursor < len(m.profiles)-1 {
		m.cursor++
		m.adjustScrollOffset()
	}
}

// visibleHeight is the number of list rows that fit under the title and
// above the help line
func (m *PickerModel) visibleHeight() int {
	available := m.height - 5
	if available < 1 {
		available = 1
	}
	return available
}

// adjustScrollOffset keeps the cursor inside the visible window
func (m *PickerModel) adjustScrollOffset() {
	visible := m.visibleHeight()
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}
	if m.cursor >= m.scrollOffset+visible {
		m.scrollOffset = m.cursor - visible + 1
	}
	maxOffset := len(m.profiles) - visible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if m.scrollOffset > maxOffset {
		m.scrollOffset = maxOffset
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

func (m PickerModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("👥 Select a profile"))
	b.WriteString("\n")
	b.WriteString(SeparatorStyle.Render(strings.Repeat("─", min(m.width, 40))))
	b.WriteString("\n\n")

	end := min(m.scrollOffset+m.visibleHeight(), len(m.profiles))
	for i := m.scrollOffset; i < end; i++ {
		p := m.profiles[i]
		line := fmt.Sprintf("%s - %s (%s)", p.Name, p.Config.Provider, p.Config.Model)
		if p.Active {
			line += " (active)"
		}

		switch {
		case i == m.cursor:
			b.WriteString(SelectedStyle.Render("▸ " + line))
		case p.Active:
			b.WriteString(ActiveStyle.Render("  " + line))
		default:
			b.WriteString(NormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.showHelp {
		b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	} else {
		b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	}
	return b.String()
}

// PickProfile runs the picker and returns the chosen profile name
func PickProfile(profiles []config.Profile) (string, bool, error) {
	final, err := tea.NewProgram(NewPicker(profiles)).Run()
	if err != nil {
		return "", false, fmt.Errorf("profile picker failed: %w", err)
	}
	name, ok := final.(PickerModel).Chosen()
	return name, ok, nil
}
