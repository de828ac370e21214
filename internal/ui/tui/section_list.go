package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/skillfold/skillfold/internal/model"
	"github.com/skillfold/skillfold/internal/split"
)

// SectionAction represents the outcome of the section review.
type SectionAction int

const (
	// SectionActionCancel means the user aborted the split.
	SectionActionCancel SectionAction = iota
	// SectionActionConfirm means the user accepted the plan.
	SectionActionConfirm
)

// SectionListResult contains the result of the section review TUI.
type SectionListResult struct {
	Action   SectionAction
	Sections []model.Section
}

// sectionListKeyMap defines the key bindings for the section review.
type sectionListKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	Confirm key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultSectionListKeyMap() sectionListKeyMap {
	return sectionListKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "t"),
			key.WithHelp("space/t", "toggle core/reference"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm split"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "cancel"),
		),
	}
}

type sectionListColumnWidths struct {
	title    int
	category int
	lines    int
	target   int
}

func defaultSectionListColumnWidths() sectionListColumnWidths {
	return sectionListColumnWidths{
		title:    32,
		category: 10,
		lines:    7,
		target:   36,
	}
}

// SectionListModel is the BubbleTea model for reviewing a split plan
// before it is written. Toggling a row moves the section between the
// primary document and a reference file.
type SectionListModel struct {
	table        table.Model
	sections     []model.Section
	keys         sectionListKeyMap
	result       SectionListResult
	showHelp     bool
	quitting     bool
	columnWidths sectionListColumnWidths
}

// NewSectionListModel creates a review model for classified sections.
func NewSectionListModel(sections []model.Section) SectionListModel {
	m := SectionListModel{
		sections:     append([]model.Section(nil), sections...),
		keys:         defaultSectionListKeyMap(),
		columnWidths: defaultSectionListColumnWidths(),
	}

	widths := m.columnWidths
	columns := []table.Column{
		{Title: "Section", Width: widths.title},
		{Title: "Category", Width: widths.category},
		{Title: "Lines", Width: widths.lines},
		{Title: "Target", Width: widths.target},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(m.rows()),
		table.WithFocused(true),
		table.WithHeight(len(m.sections)+1),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(lipgloss.Color("6"))
	styles.Selected = styles.Selected.Bold(true).Foreground(lipgloss.Color("2"))
	t.SetStyles(styles)

	m.table = t
	return m
}

// rows builds the table rows from the current section categories.
func (m SectionListModel) rows() []table.Row {
	rows := make([]table.Row, 0, len(m.sections))
	for _, s := range m.sections {
		title := s.Title
		if title == "" {
			title = "(preamble)"
		}
		target := "SKILL.md"
		if s.Category == model.Reference {
			target = model.ReferencesDir + "/" + split.Slugify(s.Title)
		}
		rows = append(rows, table.Row{
			truncateText(title, m.columnWidths.title),
			string(s.Category),
			fmt.Sprintf("%d", s.LineCount()),
			truncateText(target, m.columnWidths.target),
		})
	}
	return rows
}

// Init implements tea.Model.
func (m SectionListModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m SectionListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.result = SectionListResult{Action: SectionActionCancel}
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Confirm):
			m.result = SectionListResult{
				Action:   SectionActionConfirm,
				Sections: m.sections,
			}
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Toggle):
			m.toggleCurrent()
			m.table.SetRows(m.rows())
			return m, nil

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// toggleCurrent flips the selected section between core and reference.
func (m *SectionListModel) toggleCurrent() {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.sections) {
		return
	}
	if m.sections[idx].Category == model.Reference {
		m.sections[idx].Category = model.Core
	} else {
		m.sections[idx].Category = model.Reference
	}
}

// View implements tea.Model.
func (m SectionListModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(Styles.Title.Render("Review split plan"))
	b.WriteString("\n\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")

	moved := 0
	for _, s := range m.sections {
		if s.Category == model.Reference {
			moved++
		}
	}
	b.WriteString(fmt.Sprintf("\n%d of %d section(s) move to references\n", moved, len(m.sections)))

	if idx := m.table.Cursor(); idx >= 0 && idx < len(m.sections) {
		if preview := m.sections[idx].BodyText(); preview != "" {
			b.WriteString("\n" + formatDetail("Preview: ", truncateText(preview, 160), 72) + "\n")
		}
	}

	if m.showHelp {
		b.WriteString("\n" + m.helpView())
	} else {
		b.WriteString("\nspace toggle · enter confirm · q cancel · ? help\n")
	}
	return b.String()
}

func (m SectionListModel) helpView() string {
	keys := []key.Binding{
		m.keys.Up, m.keys.Down, m.keys.Toggle, m.keys.Confirm, m.keys.Quit,
	}
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(fmt.Sprintf("  %-10s %s\n", k.Help().Key, k.Help().Desc))
	}
	return b.String()
}

// Result returns the interaction outcome after the program exits.
func (m SectionListModel) Result() SectionListResult {
	return m.result
}

// ReviewSections runs the interactive review and returns the outcome.
func ReviewSections(sections []model.Section) (SectionListResult, error) {
	final, err := Run(NewSectionListModel(sections))
	if err != nil {
		return SectionListResult{}, err
	}
	if m, ok := final.(SectionListModel); ok {
		return m.Result(), nil
	}
	return SectionListResult{}, nil
}
