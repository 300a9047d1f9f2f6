package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/streamtide/deploy-cli/internal/usecase"
	"github.com/stretchr/testify/assert"
)

func selectEntries() []usecase.MigrationStatusEntry {
	return []usecase.MigrationStatusEntry{
		{ID: "1", Description: "deploy Migrations contract", State: usecase.MigrationCompleted},
		{ID: "2", Description: "deploy streamtide contracts", State: usecase.MigrationInProgress},
		{ID: "3", Description: "add streamtide admins", State: usecase.MigrationPending},
		{ID: "99", Description: "replace the streamtide implementation", State: usecase.MigrationManual, Manual: true},
	}
}

func press(m multiSelectModel, keys ...string) multiSelectModel {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(multiSelectModel)
	}
	return m
}

func TestMultiSelect_PreselectsUnfinished(t *testing.T) {
	m := initialMultiSelectModel(selectEntries(), "Select")
	assert.Equal(t, []string{"2", "3"}, m.selectedIDs())
	assert.Contains(t, m.View(), "deploy streamtide contracts")
}

func TestMultiSelect_Toggle(t *testing.T) {
	m := initialMultiSelectModel(selectEntries(), "Select")

	m = press(m, "down", "down", " ", "down", " ", "enter")
	assert.True(t, m.done)
	assert.Equal(t, []string{"2", "99"}, m.selectedIDs())
	assert.Empty(t, m.View())
}

func TestMultiSelect_EnterNeedsSelection(t *testing.T) {
	m := initialMultiSelectModel(selectEntries(), "Select")

	m = press(m, "down", " ", "down", " ", "enter")
	assert.False(t, m.done)

	m = press(m, "q")
	assert.True(t, m.cancelled)
}
