package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	overlay "github.com/rmhubbert/bubbletea-overlay"
)

// DeleteConfirmed is emitted when the user confirms deleting a conversation.
type DeleteConfirmed struct {
	ConversationID string
}

// DeleteCancelled is emitted when the user dismisses the confirm dialog.
type DeleteCancelled struct{}

type ConfirmModel struct {
	conversationID string
	title          string
	confirmActive  bool
	width          int
}

func NewConfirmModel() ConfirmModel {
	return ConfirmModel{}
}

func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "left", "right", "tab":
			m.confirmActive = !m.confirmActive
			return m, nil

		case "enter":
			if m.confirmActive {
				id := m.conversationID
				return m, func() tea.Msg {
					return DeleteConfirmed{ConversationID: id}
				}
			}
			return m, func() tea.Msg {
				return DeleteCancelled{}
			}

		case "esc":
			return m, func() tea.Msg {
				return DeleteCancelled{}
			}
		}
	}

	return m, nil
}

func (m ConfirmModel) View() string {
	var content strings.Builder

	content.WriteString(ConfirmTitleStyle.Render("Delete Conversation") + "\n\n")
	content.WriteString(ConfirmMessageStyle.Render(fmt.Sprintf("Delete %q? This cannot be undone.", m.title)) + "\n\n")

	buttons := RenderButton("Delete", m.confirmActive) + "  " + RenderButton("Cancel", !m.confirmActive)
	content.WriteString(buttons + "\n\n")

	content.WriteString(HelpTextSimpleStyle.Render("←/→: Switch • Enter: Confirm • Esc: Cancel"))

	return GetConfirmBorderStyle(confirmOverlayWidth).Render(content.String())
}

const confirmOverlayWidth = 54

// ConfirmOverlayModel wraps the confirm dialog with the overlay library
type ConfirmOverlayModel struct {
	confirm ConfirmModel
	visible bool
}

func NewConfirmOverlayModel() ConfirmOverlayModel {
	return ConfirmOverlayModel{
		confirm: NewConfirmModel(),
		visible: false,
	}
}

func (m *ConfirmOverlayModel) Show(conversationID, title string) {
	m.confirm.conversationID = conversationID
	m.confirm.title = title
	m.confirm.confirmActive = false
	m.visible = true
}

func (m *ConfirmOverlayModel) Hide() {
	m.visible = false
}

func (m *ConfirmOverlayModel) IsVisible() bool {
	return m.visible
}

func (m *ConfirmOverlayModel) UpdateConfirm(msg tea.Msg) tea.Cmd {
	if !m.visible {
		return nil
	}

	var cmd tea.Cmd
	var mdl tea.Model
	mdl, cmd = m.confirm.Update(msg)
	m.confirm = mdl.(ConfirmModel)
	return cmd
}

func (m ConfirmOverlayModel) RenderOverlay(backgroundView string) string {
	if !m.visible {
		return backgroundView
	}

	overlayModel := overlay.New(
		m.confirm,
		&staticViewModel{content: backgroundView},
		overlay.Center, // horizontal position
		overlay.Top,    // vertical position
		0,              // x offset
		1,              // y offset
	)

	return overlayModel.View()
}

// staticViewModel is a simple model that renders static content (background)
type staticViewModel struct {
	content string
}

func (m staticViewModel) Init() tea.Cmd {
	return nil
}

func (m staticViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

func (m staticViewModel) View() string {
	return m.content
}
