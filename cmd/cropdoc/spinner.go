// ABOUTME: Bubbletea spinner shown on stderr while diagnoses are in flight
// ABOUTME: Frame cycling model; quits on doneMsg from the work goroutine

package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

var spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))

type tickMsg struct{}

type doneMsg struct{}

type spinnerModel struct {
	frame int
	label string
}

func newSpinner(label string) spinnerModel {
	return spinnerModel{label: label}
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m spinnerModel) Init() tea.Cmd {
	return tick()
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, tick()
	case doneMsg:
		return m, tea.Quit
	case tea.KeyMsg:
		// Any key cancels the wait display but not the work.
		return m, tea.Quit
	}
	return m, nil
}

func (m spinnerModel) View() string {
	return spinnerStyle.Render(spinnerFrames[m.frame]) + " " + m.label
}
