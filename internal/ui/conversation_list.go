package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gemchat/internal/models"
)

type ConversationListModel struct {
	list          list.Model
	conversations []*models.Conversation
	confirm       ConfirmOverlayModel
	width         int
	height        int
}

type conversationItem struct {
	conv *models.Conversation
}

func (i conversationItem) Title() string { return i.conv.Title }
func (i conversationItem) Description() string {
	return fmt.Sprintf("Created: %s | Model: %s | Messages: %d",
		i.conv.CreatedAt.Format("2006-01-02 15:04"), i.conv.Model, len(i.conv.Messages))
}
func (i conversationItem) FilterValue() string { return i.conv.Title }

// ConversationSelected is emitted when the user opens a conversation.
type ConversationSelected struct {
	ConversationID string
}

// CreateConversation is emitted when the user asks for a fresh conversation.
type CreateConversation struct{}

func NewConversationListModel(conversations []*models.Conversation, width, height int) ConversationListModel {
	items := make([]list.Item, len(conversations))
	for i, c := range conversations {
		items[i] = conversationItem{conv: c}
	}

	l := list.New(items, CreateThemedDelegate(), width, height-4)
	l.Title = "Conversations"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	ConfigureListStyles(&l)

	// Disable all built-in key bindings except arrows and filter
	l.KeyMap.CursorUp = key.NewBinding(key.WithKeys("up"))
	l.KeyMap.CursorDown = key.NewBinding(key.WithKeys("down"))
	l.KeyMap.NextPage = key.NewBinding()
	l.KeyMap.PrevPage = key.NewBinding()
	l.KeyMap.GoToStart = key.NewBinding()
	l.KeyMap.GoToEnd = key.NewBinding()
	l.KeyMap.Filter = key.NewBinding(key.WithKeys("/"))
	l.KeyMap.ClearFilter = key.NewBinding(key.WithKeys("esc"))
	l.KeyMap.CancelWhileFiltering = key.NewBinding(key.WithKeys("esc"))
	l.KeyMap.AcceptWhileFiltering = key.NewBinding(key.WithKeys("enter"))
	l.KeyMap.ShowFullHelp = key.NewBinding()
	l.KeyMap.CloseFullHelp = key.NewBinding()
	l.KeyMap.Quit = key.NewBinding()
	l.KeyMap.ForceQuit = key.NewBinding()

	return ConversationListModel{
		list:          l,
		conversations: conversations,
		confirm:       NewConfirmOverlayModel(),
		width:         width,
		height:        height,
	}
}

func (m ConversationListModel) Init() tea.Cmd {
	return nil
}

func (m ConversationListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Confirm dialog swallows input while visible
	switch msg.(type) {
	case DeleteCancelled:
		m.confirm.Hide()
		return m, nil
	}

	if m.confirm.IsVisible() {
		cmd := m.confirm.UpdateConfirm(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+x":
			return m, tea.Quit

		case "enter":
			selectedItem := m.list.SelectedItem()
			if selectedItem == nil {
				return m, nil
			}
			conv := selectedItem.(conversationItem).conv
			return m, func() tea.Msg {
				return ConversationSelected{ConversationID: conv.ID}
			}

		case "ctrl+n":
			return m, func() tea.Msg {
				return CreateConversation{}
			}

		case "ctrl+d":
			selectedItem := m.list.SelectedItem()
			if selectedItem == nil {
				return m, nil
			}
			conv := selectedItem.(conversationItem).conv
			m.confirm.Show(conv.ID, conv.Title)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m ConversationListModel) View() string {
	helpText := "↑/↓: Navigate • Enter: Open • /: Filter • Ctrl+N: New • Ctrl+D: Delete • Ctrl+X: Exit"

	baseView := lipgloss.JoinVertical(lipgloss.Left,
		m.list.View(),
		helpStyle.Render(helpText),
	)

	return m.confirm.RenderOverlay(baseView)
}

func (m *ConversationListModel) RefreshConversations(conversations []*models.Conversation) {
	m.conversations = conversations
	items := make([]list.Item, len(conversations))
	for i, c := range conversations {
		items[i] = conversationItem{conv: c}
	}
	m.list.SetItems(items)
}

func (m *ConversationListModel) HideConfirm() {
	m.confirm.Hide()
}
