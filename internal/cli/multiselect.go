package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/streamtide/deploy-cli/internal/usecase"
)

// migrationItem represents a selectable migration in the multi-select
type migrationItem struct {
	migration usecase.MigrationStatusEntry
}

// multiSelectModel is the bubbletea model for multi-select
type multiSelectModel struct {
	items    []migrationItem
	cursor   int
	selected map[int]bool
	title     string
	done      bool
	cancelled bool
}

// initialMultiSelectModel preselects every pending or interrupted migration
func initialMultiSelectModel(entries []usecase.MigrationStatusEntry, title string) multiSelectModel {
	items := make([]migrationItem, len(entries))
	selected := make(map[int]bool)
	for i, entry := range entries {
		items[i] = migrationItem{migration: entry}
		selected[i] = entry.State == usecase.MigrationPending || entry.State == usecase.MigrationInProgress
	}
	return multiSelectModel{
		items:    items,
		selected: selected,
		title:    title,
	}
}

// Init is the initial command for bubbletea
func (m multiSelectModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m multiSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.cancelled = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case " ":
			m.selected[m.cursor] = !m.selected[m.cursor]
		case "enter":
			if len(m.selectedIDs()) > 0 {
				m.done = true
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

// View renders the UI
func (m multiSelectModel) View() string {
	if m.done || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(color.New(color.FgCyan, color.Bold).Sprintf("%s\n\n", m.title))

	for i, item := range m.items {
		cursor := " "
		if m.cursor == i {
			cursor = color.New(color.FgCyan).Sprint("▸")
		}

		checkbox := " "
		if m.selected[i] {
			checkbox = color.New(color.FgGreen).Sprint("✓")
		} else {
			checkbox = color.New(color.FgWhite).Sprint("○")
		}

		id := color.New(color.FgWhite, color.Bold).Sprintf("%3s", item.migration.ID)
		state := color.New(color.FgYellow).Sprintf("(%s)", item.migration.State)

		b.WriteString(fmt.Sprintf("%s %s %s %s %s\n", cursor, checkbox, id, item.migration.Description, state))
	}

	b.WriteString("\n")
	b.WriteString(color.New(color.FgYellow).Sprint("↑/↓: move  Space: toggle  Enter: confirm  q: quit\n"))

	return b.String()
}

// SelectMigrations shows a multi-select interface and returns the chosen migration IDs in list order
func SelectMigrations(entries []usecase.MigrationStatusEntry, title string) ([]string, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("no migrations to select")
	}

	model := initialMultiSelectModel(entries, title)
	p := tea.NewProgram(model)

	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("multi-select failed: %w", err)
	}

	m := finalModel.(multiSelectModel)
	if m.cancelled || !m.done {
		return nil, fmt.Errorf("selection cancelled")
	}

	return m.selectedIDs(), nil
}

func (m multiSelectModel) selectedIDs() []string {
	var ids []string
	for i, item := range m.items {
		if m.selected[i] {
			ids = append(ids, item.migration.ID)
		}
	}
	return ids
}
