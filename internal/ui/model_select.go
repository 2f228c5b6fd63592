package ui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type ModelSelectModel struct {
	list   list.Model
	models []string
	width  int
	height int
}

type modelItem struct {
	name string
}

func (i modelItem) Title() string       { return i.name }
func (i modelItem) Description() string { return "Text generation" }
func (i modelItem) FilterValue() string { return i.name }

// ModelChosen is emitted once the user picks a model to chat with.
type ModelChosen struct {
	Model string
}

func NewModelSelectModel(models []string, width, height int) ModelSelectModel {
	items := make([]list.Item, len(models))
	for i, name := range models {
		items[i] = modelItem{name: name}
	}

	l := list.New(items, CreateThemedDelegate(), width, height-4)
	l.Title = "Select Model"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	ConfigureListStyles(&l)

	return ModelSelectModel{
		list:   l,
		models: models,
		width:  width,
		height: height,
	}
}

func (m ModelSelectModel) Init() tea.Cmd {
	return nil
}

func (m ModelSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+x":
			return m, tea.Quit

		case "enter":
			selectedItem := m.list.SelectedItem()
			if selectedItem == nil {
				return m, nil
			}
			name := selectedItem.(modelItem).name
			return m, func() tea.Msg {
				return ModelChosen{Model: name}
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m ModelSelectModel) View() string {
	helpText := "↑/↓: Navigate • Enter: Select • /: Filter • Ctrl+X: Exit"

	return lipgloss.JoinVertical(lipgloss.Left,
		m.list.View(),
		helpStyle.Render(helpText),
	)
}
