// Package tui implements the full-screen plan review: a checklist of the
// proposed diary where the user marks entries to regenerate, or confirms
// the plan as a whole.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/saucier/mise/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F4A259")).
			MarginBottom(1)

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F4A259"))

	markedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#BC4B51"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)
)

// ReviewModel is the bubbletea model for plan review.
type ReviewModel struct {
	proposal model.Diary
	keys     KeyMap
	dates    []time.Time
	marked   map[int]bool
	cursor   int
	done     bool
	canceled bool
}

// NewReviewModel creates a review model for the proposal over the given
// dates.
func NewReviewModel(proposal model.Diary, dates []time.Time) ReviewModel {
	return ReviewModel{
		proposal: proposal,
		dates:    dates,
		keys:     DefaultKeyMap(),
		marked:   make(map[int]bool),
	}
}

// Init implements tea.Model.
func (m ReviewModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.dates)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Toggle):
		m.marked[m.cursor] = !m.marked[m.cursor]
	case key.Matches(keyMsg, m.keys.Accept):
		m.done = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Quit):
		m.canceled = true
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model.
func (m ReviewModel) View() string {
	if m.done || m.canceled {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Proposed meal plan"))
	b.WriteByte('\n')

	for i, date := range m.dates {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("❯ ")
		}

		checkbox := "[ ]"
		if m.marked[i] {
			checkbox = markedStyle.Render("[x]")
		}

		name := "(unassigned)"
		if meal, ok := m.proposal.Meal(date); ok {
			name = meal.Name
		}

		line := fmt.Sprintf("%s%s %s  %s", cursor, checkbox, model.FormatDate(date), name)
		if m.marked[i] {
			line = markedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	b.WriteString(helpStyle.Render(
		"space: mark for change • enter: confirm • j/k: move • q: cancel"))
	return b.String()
}

// Accepted reports whether the user confirmed the plan with no entries
// marked for change.
func (m ReviewModel) Accepted() bool {
	return m.done && len(m.rejectedIndexes()) == 0
}

// Rejected returns the dates the user marked for change.
func (m ReviewModel) Rejected() []time.Time {
	indexes := m.rejectedIndexes()
	rejected := make([]time.Time, 0, len(indexes))
	for _, i := range indexes {
		rejected = append(rejected, m.dates[i])
	}
	return rejected
}

// Canceled reports whether the user abandoned the review.
func (m ReviewModel) Canceled() bool {
	return m.canceled
}

func (m ReviewModel) rejectedIndexes() []int {
	var indexes []int
	for i := range m.dates {
		if m.marked[i] {
			indexes = append(indexes, i)
		}
	}
	return indexes
}
