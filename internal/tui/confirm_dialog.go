/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/coffeeshop/envctl/pkg/styles"
)

// Model for the confirmation dialog
type confirmDialog struct {
	title    string
	body     string
	question string
	choice   bool
	quitting bool
}

func (m confirmDialog) Init() tea.Cmd {
	return nil
}

func (m confirmDialog) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "y", "Y", "enter":
			m.choice = true
			m.quitting = true
			return m, tea.Quit
		case "n", "N", "q", "esc", "ctrl+c":
			m.choice = false
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m confirmDialog) View() string {
	content := ""
	if m.title != "" {
		content += "\n" + styles.RenderTitle(m.title) + "\n"
	}
	if m.body != "" {
		content += "\n" + m.body + "\n\n"
	}

	// Show question until answered
	if !m.quitting {
		content += m.question + styles.RenderPrompt(" [Y/n]") + "\n"
	}

	return content
}

// DoConfirmDialog shows a confirm dialog and waits for a yes/no answer.
func DoConfirmDialog(title string, body string, question string) (bool, error) {
	if err := requireInteractive("confirmation"); err != nil {
		return false, err
	}

	p := tea.NewProgram(confirmDialog{title: title, body: body, question: question})
	m, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("failed to run confirmation dialog: %w", err)
	}

	return m.(confirmDialog).choice, nil
}

// DoConfirmQuestion shows a one-line confirm question.
func DoConfirmQuestion(question string) (bool, error) {
	return DoConfirmDialog("", "", question)
}
