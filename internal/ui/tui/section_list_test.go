package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/skillfold/skillfold/internal/model"
)

func reviewSections() []model.Section {
	return []model.Section{
		{Title: "Overview", Level: 2, Body: []string{"short"}, Category: model.Core},
		{Title: "Advanced Configuration", Level: 2, Body: []string{"a", "b", "c"}, Category: model.Reference},
	}
}

func TestNewSectionListModel_Rows(t *testing.T) {
	m := NewSectionListModel(reviewSections())

	rows := m.rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	if rows[0][1] != "core" || rows[0][3] != "SKILL.md" {
		t.Errorf("core row = %v", rows[0])
	}
	if rows[1][1] != "reference" || rows[1][3] != "references/advanced-configuration.md" {
		t.Errorf("reference row = %v", rows[1])
	}
}

func TestSectionListModel_ToggleCurrent(t *testing.T) {
	m := NewSectionListModel(reviewSections())

	// Cursor starts on the first row (core).
	m.toggleCurrent()
	if m.sections[0].Category != model.Reference {
		t.Errorf("category after toggle = %v, want reference", m.sections[0].Category)
	}

	m.toggleCurrent()
	if m.sections[0].Category != model.Core {
		t.Errorf("category after second toggle = %v, want core", m.sections[0].Category)
	}

	// Input sections must not be mutated.
	original := reviewSections()
	m2 := NewSectionListModel(original)
	m2.toggleCurrent()
	if original[0].Category != model.Core {
		t.Error("NewSectionListModel shares the caller's slice")
	}
}

func TestSectionListModel_ConfirmAndCancel(t *testing.T) {
	t.Run("confirm", func(t *testing.T) {
		m := NewSectionListModel(reviewSections())
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

		result := updated.(SectionListModel).Result()
		if result.Action != SectionActionConfirm {
			t.Errorf("Action = %v, want confirm", result.Action)
		}
		if len(result.Sections) != 2 {
			t.Errorf("result carries %d sections, want 2", len(result.Sections))
		}
	})

	t.Run("cancel", func(t *testing.T) {
		m := NewSectionListModel(reviewSections())
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

		result := updated.(SectionListModel).Result()
		if result.Action != SectionActionCancel {
			t.Errorf("Action = %v, want cancel", result.Action)
		}
	})
}

func TestSectionListModel_View(t *testing.T) {
	m := NewSectionListModel(reviewSections())

	view := m.View()
	if !strings.Contains(view, "Review split plan") {
		t.Error("view missing title")
	}
	if !strings.Contains(view, "1 of 2 section(s) move to references") {
		t.Errorf("view missing move summary:\n%s", view)
	}
}
