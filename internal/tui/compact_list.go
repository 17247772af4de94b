/*
 * Copyright Metaplay. Licensed under the Apache-2.0 license.
 */

package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/coffeeshop/envctl/pkg/styles"
)

// Item in our compact list.
type compactListItem struct {
	index       int
	name        string
	description string
}

func (item compactListItem) Title() string {
	return fmt.Sprintf("%s %s", item.name, styles.RenderMuted(item.description))
}

func (item compactListItem) FilterValue() string { return item.name }

// compactListDelegate renders each item on a single line.
type compactListDelegate struct{}

func (d compactListDelegate) Height() int                               { return 1 }
func (d compactListDelegate) Spacing() int                              { return 0 }
func (d compactListDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d compactListDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(compactListItem)
	if !ok {
		return
	}

	title := item.Title()
	if index == m.Index() {
		fmt.Fprint(w, lipgloss.NewStyle().Foreground(styles.ColorCoffee).Render("▸ "+title))
	} else {
		fmt.Fprint(w, "  "+title)
	}
}

// Model for the compact selection list.
type compactListModel struct {
	title    string
	model    list.Model
	selected *compactListItem
	quitting bool
}

func newCompactListModel(title string, model list.Model) compactListModel {
	return compactListModel{
		title: title,
		model: model,
	}
}

func (m compactListModel) Init() tea.Cmd {
	return nil
}

func (m compactListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if item, ok := m.model.SelectedItem().(compactListItem); ok {
				m.selected = &item
				m.quitting = true
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	m.model, cmd = m.model.Update(msg)
	return m, cmd
}

func (m compactListModel) View() string {
	content := "\n" + styles.RenderTitle(m.title) + "\n\n"
	if !m.quitting {
		content += styles.ListStyle.Render(m.model.View())
	}
	return content
}

func newCompactList(items []list.Item) list.Model {
	height := len(items) + 2
	model := list.New(items, compactListDelegate{}, 80, height)
	model.SetShowTitle(false)
	model.SetFilteringEnabled(false)
	model.SetShowStatusBar(false)
	model.SetShowHelp(false)
	model.SetShowPagination(false)
	return model
}

func chooseFromList(title string, items []list.Item) (int, error) {
	program := tea.NewProgram(newCompactListModel(title, newCompactList(items)))
	finalModel, err := program.Run()
	if err != nil {
		return -1, fmt.Errorf("failed to run selection list: %w", err)
	}

	selected := finalModel.(compactListModel).selected
	if selected == nil {
		return -1, fmt.Errorf("user did not select any item")
	}
	return selected.index, nil
}

// ChooseFromListDialog lets the user pick one of the elements. describe
// returns the name and a muted description for each element.
func ChooseFromListDialog[T any](title string, elements []T, describe func(elem *T) (string, string)) (*T, error) {
	if err := requireInteractive("list selection"); err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return nil, fmt.Errorf("nothing to choose from")
	}

	items := make([]list.Item, len(elements))
	for ndx := range elements {
		name, description := describe(&elements[ndx])
		items[ndx] = compactListItem{index: ndx, name: name, description: description}
	}

	chosen, err := chooseFromList(title, items)
	if err != nil {
		return nil, err
	}
	return &elements[chosen], nil
}
