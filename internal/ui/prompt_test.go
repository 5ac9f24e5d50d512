package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func keys(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestSelectModel_Navigation(t *testing.T) {
	t.Parallel()

	var m tea.Model = newSelectModel("Pick", []string{"a", "b", "c"})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(keys("j"))
	m, _ = m.Update(keys("j"))
	require.Equal(t, 2, m.(selectModel).cursor, "cursor stops at the last option")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	sm := m.(selectModel)
	require.True(t, sm.done)
	require.Equal(t, 1, sm.cursor)
	require.Contains(t, sm.View(), "b")
}

func TestSelectModel_ScrollsLongLists(t *testing.T) {
	t.Parallel()

	opts := make([]string, 40)
	for i := range opts {
		opts[i] = strings.Repeat("x", i+1)
	}
	var m tea.Model = newSelectModel("Pick", opts)
	for i := 0; i < 20; i++ {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	sm := m.(selectModel)
	require.Equal(t, 20, sm.cursor)
	require.Equal(t, 20-visibleOptions+1, sm.offset)
	require.Contains(t, sm.View(), "reveal more choices")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.True(t, m.(selectModel).aborted)
}

func TestConfirmModel(t *testing.T) {
	t.Parallel()

	var m tea.Model = newConfirmModel("Return to Menu?")
	require.Contains(t, m.View(), "(Y/n)")
	m, _ = m.Update(keys("n"))
	require.False(t, m.(confirmModel).value)
	require.True(t, m.(confirmModel).done)

	m = newConfirmModel("Return to Menu?")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.(confirmModel).value, "enter accepts the default")

	m = newConfirmModel("Return to Menu?")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.True(t, m.(confirmModel).aborted)
}

func TestSecretModel_MasksInput(t *testing.T) {
	t.Parallel()

	var m tea.Model = newSecretModel("Cookie")
	m, _ = m.Update(keys("s3cret"))
	require.NotContains(t, m.View(), "s3cret")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	sm := m.(secretModel)
	require.True(t, sm.done)
	require.Equal(t, "s3cret", sm.input.Value())
	require.NotContains(t, sm.View(), "s3cret")
}
