package main

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/jnetc/pkg/result"
	"github.com/dd0wney/jnetc/pkg/templates"
)

func viewSet() *result.Set {
	return result.Assemble("run-7", "TA12", []result.Row{
		{Ordinal: 2, From: "A0", To: "B", Template: templates.F, Expression: "IsActive(DB)"},
		{Ordinal: 3, From: "B", To: "C", Template: templates.A, Variant: templates.A2,
			Expression:  "GTcpmin(B)",
			Diagnostics: []result.Diagnostic{result.Note(result.CodeThreatLRT, "threatening LRT L39")}},
		{Ordinal: 4, From: "C", To: "Q9",
			Err: result.NewRowError(result.ClassificationFailed, errors.New("unknown stage Q9"))},
	})
}

func press(m tea.Model, msgs ...tea.Msg) viewModel {
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}
	return m.(viewModel)
}

var (
	tabKey      = tea.KeyMsg{Type: tea.KeyTab}
	shiftTabKey = tea.KeyMsg{Type: tea.KeyShiftTab}
	enterKey    = tea.KeyMsg{Type: tea.KeyEnter}
	downKey     = tea.KeyMsg{Type: tea.KeyDown}
	errorsKey   = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")}
	quitKey     = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}
)

func TestViewModel_Tabs(t *testing.T) {
	m := newViewModel(viewSet())
	assert.Equal(t, rowsTab, m.current)

	m = press(m, tabKey)
	assert.Equal(t, diagnosticsTab, m.current)
	assert.Contains(t, m.View(), "threat-lrt")

	m = press(m, tabKey)
	assert.Equal(t, summaryTab, m.current)
	view := m.View()
	assert.Contains(t, view, "Errors:     1")
	assert.Contains(t, view, "threat-lrt")

	m = press(m, tabKey)
	assert.Equal(t, rowsTab, m.current)
	m = press(m, shiftTabKey)
	assert.Equal(t, summaryTab, m.current)
}

func TestViewModel_Detail(t *testing.T) {
	m := press(newViewModel(viewSet()), tea.WindowSizeMsg{Width: 160, Height: 40}, downKey, enterKey)
	require.True(t, m.detail)

	r := m.selected()
	require.NotNil(t, r)
	assert.Equal(t, "B", r.From)

	view := m.View()
	assert.Contains(t, view, "#3 B -> C  template A2")
	assert.Contains(t, view, "[threat-lrt] threatening LRT L39")

	m = press(m, enterKey)
	assert.False(t, m.detail)
}

func TestViewModel_ErrorsOnly(t *testing.T) {
	m := press(newViewModel(viewSet()), errorsKey)
	assert.True(t, m.errorsOnly)
	assert.Equal(t, []int{1, 2}, m.visible)

	m = press(m, downKey, enterKey)
	r := m.selected()
	require.NotNil(t, r)
	assert.Equal(t, "Q9", r.To)
	assert.Contains(t, m.View(), "ERROR: classification: unknown stage Q9")

	m = press(m, errorsKey)
	assert.Len(t, m.visible, 3)
}

func TestViewModel_Quit(t *testing.T) {
	_, cmd := newViewModel(viewSet()).Update(quitKey)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
