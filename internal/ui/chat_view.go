package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"gemchat/internal/logging"
	"gemchat/internal/models"
	"gemchat/internal/session"
)

const (
	titleHeight    = 4
	textareaHeight = 5
	helpHeight     = 2
	chromePadding  = 2
)

type ChatViewModel struct {
	controller *session.Controller
	viewport   viewport.Model
	textarea   textarea.Model
	spinner    spinner.Model
	mdRenderer *glamour.TermRenderer
	width      int
	height     int
}

// ReplyResolved carries a finished reply fetch back to the program loop.
// It is handled at the top level so a reply still lands after the user
// has navigated away from the chat view.
type ReplyResolved struct {
	Outcome session.Outcome
}

// BackToConversationList is emitted when the user leaves the chat view.
type BackToConversationList struct{}

// FetchReply runs the blocking reply request off the update loop.
func FetchReply(c *session.Controller, p session.Pending) tea.Cmd {
	return func() tea.Msg {
		return ReplyResolved{Outcome: c.Fetch(context.Background(), p)}
	}
}

// createMarkdownRenderer creates a markdown renderer with fallback handling
func createMarkdownRenderer(width int) *glamour.TermRenderer {
	// Try auto style first
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-10),
	)
	if err == nil {
		return renderer
	}

	logging.Error("Failed to create markdown renderer with auto style: %v, trying fallback", err)

	// Try basic style as fallback
	renderer, err = glamour.NewTermRenderer(
		glamour.WithWordWrap(width - 10),
	)
	if err == nil {
		return renderer
	}

	logging.Error("Failed to create markdown renderer with basic style: %v, using no style", err)

	// Last resort: try with no options (should never fail)
	renderer, err = glamour.NewTermRenderer()
	if err != nil {
		logging.Error("Critical: Failed to create basic markdown renderer: %v", err)
		return nil
	}

	return renderer
}

// safeRenderMarkdown safely renders markdown with panic recovery and fallback
func (m *ChatViewModel) safeRenderMarkdown(content string) string {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Panic in markdown rendering: %v", r)
		}
	}()

	// Fallback to plain text if no renderer
	if m.mdRenderer == nil {
		return content
	}

	// Empty content returns as-is
	if content == "" {
		return content
	}

	rendered, err := m.mdRenderer.Render(content)
	if err != nil {
		logging.Error("Markdown rendering error: %v, falling back to plain text", err)
		return content
	}

	return strings.TrimRight(rendered, "\n")
}

func NewChatViewModel(controller *session.Controller, width, height int) ChatViewModel {
	ta := textarea.New()
	ta.Placeholder = "Type your message..."
	ta.Focus()
	ta.CharLimit = 2000
	ta.SetWidth(width - 4)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false

	// Configure textarea key bindings - keep only essential editing keys
	ta.KeyMap.CharacterForward = key.NewBinding(key.WithKeys("right"))
	ta.KeyMap.CharacterBackward = key.NewBinding(key.WithKeys("left"))
	ta.KeyMap.LineStart = key.NewBinding(key.WithKeys("home"))
	ta.KeyMap.LineEnd = key.NewBinding(key.WithKeys("end"))
	ta.KeyMap.DeleteCharacterBackward = key.NewBinding(key.WithKeys("backspace"))
	ta.KeyMap.DeleteCharacterForward = key.NewBinding(key.WithKeys("delete"))
	ta.KeyMap.LineNext = key.NewBinding()
	ta.KeyMap.LinePrevious = key.NewBinding()
	ta.KeyMap.WordForward = key.NewBinding()
	ta.KeyMap.WordBackward = key.NewBinding()
	ta.KeyMap.DeleteWordBackward = key.NewBinding()
	ta.KeyMap.DeleteWordForward = key.NewBinding()
	ta.KeyMap.DeleteAfterCursor = key.NewBinding()
	ta.KeyMap.DeleteBeforeCursor = key.NewBinding()
	ta.KeyMap.InsertNewline = key.NewBinding()
	ta.KeyMap.Paste = key.NewBinding()

	viewportHeight := height - titleHeight - textareaHeight - helpHeight - chromePadding
	vp := viewport.New(width-6, viewportHeight)
	vp.SetContent("")
	vp.MouseWheelDelta = 2

	// Configure viewport key bindings - keep arrows and page up/down
	vp.KeyMap.Down = key.NewBinding(key.WithKeys("down"))
	vp.KeyMap.Up = key.NewBinding(key.WithKeys("up"))
	vp.KeyMap.PageDown = key.NewBinding(key.WithKeys("pgdown"))
	vp.KeyMap.PageUp = key.NewBinding(key.WithKeys("pgup"))
	vp.KeyMap.HalfPageDown = key.NewBinding()
	vp.KeyMap.HalfPageUp = key.NewBinding()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	m := ChatViewModel{
		controller: controller,
		viewport:   vp,
		textarea:   ta,
		spinner:    sp,
		mdRenderer: createMarkdownRenderer(width),
		width:      width,
		height:     height,
	}
	m.renderMessages()
	m.viewport.GotoBottom()

	return m
}

func (m ChatViewModel) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

func (m ChatViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		viewportHeight := msg.Height - titleHeight - textareaHeight - helpHeight - chromePadding
		m.viewport.Width = msg.Width - 6
		m.viewport.Height = viewportHeight
		m.textarea.SetWidth(msg.Width - 4)

		// Update markdown renderer word wrap width
		m.mdRenderer = createMarkdownRenderer(msg.Width)
		m.renderMessages()

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+x":
			return m, tea.Quit

		case "esc":
			// The reply fetch, if one is in flight, keeps running
			return m, func() tea.Msg {
				return BackToConversationList{}
			}

		case "ctrl+l":
			m.controller.ClearActive()
			m.renderMessages()
			m.viewport.GotoBottom()
			return m, nil

		case "enter":
			p, ok := m.controller.Send(m.textarea.Value())
			if !ok {
				return m, nil
			}
			m.textarea.Reset()
			m.renderMessages()
			m.viewport.GotoBottom()
			return m, tea.Batch(
				FetchReply(m.controller, p),
				m.spinner.Tick,
			)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.controller.Busy() {
			m.renderMessages()
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m ChatViewModel) View() string {
	var b strings.Builder

	title := models.DefaultTitle
	model := m.controller.Model()
	if conv := m.controller.Active(); conv != nil {
		title = conv.Title
		model = conv.Model
	}
	b.WriteString(TitleWithPaddingStyle.Render(title) + "\n")

	statusLine := fmt.Sprintf("Model: %s | Conversations: %d", model, len(m.controller.Conversations()))
	if m.controller.Busy() {
		statusLine += " | " + m.spinner.View() + " Thinking..."
	}
	b.WriteString(statusBarStyle.Render(statusLine) + "\n\n")

	b.WriteString(RenderViewportWithBorder(m.viewport.View()))
	b.WriteString("\n")

	scrollInfo := m.renderScrollIndicator()
	if scrollInfo != "" {
		b.WriteString(scrollInfo)
	}
	b.WriteString("\n\n")

	b.WriteString(m.textarea.View() + "\n")

	helpText := "Enter: Send • ↑/↓: Scroll • PgUp/PgDn: Page Scroll • Ctrl+L: Clear • Esc: Back • Ctrl+X: Exit"
	b.WriteString(helpStyle.Render(helpText))

	return b.String()
}

// RefreshMessages re-renders the transcript after an external change,
// such as a reply landing in the active conversation.
func (m *ChatViewModel) RefreshMessages() {
	m.renderMessages()
	m.viewport.GotoBottom()
}

func (m *ChatViewModel) renderMessages() {
	var b strings.Builder

	for _, msg := range m.controller.ActiveMessages() {
		if msg.Role == models.RoleUser {
			label := UserMessageLabelStyle.Render("You:")
			renderedContent := m.safeRenderMarkdown(msg.Content)
			b.WriteString(GetUserMessageContentStyle(m.width).Render(label + "\n" + renderedContent))
			b.WriteString("\n\n")
			continue
		}

		label := AssistantMessageLabelStyle.Render("Assistant:")
		if msg.Pending() {
			b.WriteString(GetAssistantMessageContentStyle(m.width).Render(label + "\n" + m.spinner.View() + " Thinking..."))
			b.WriteString("\n\n")
			continue
		}

		renderedContent := m.safeRenderMarkdown(msg.Content)
		b.WriteString(GetAssistantMessageContentStyle(m.width).Render(label + "\n" + renderedContent))
		b.WriteString("\n\n")
	}

	m.viewport.SetContent(b.String())
}

func (m ChatViewModel) renderScrollIndicator() string {
	if m.viewport.TotalLineCount() <= m.viewport.Height {
		return ""
	}

	scrollPercent := int(m.viewport.ScrollPercent() * 100)
	indicator := fmt.Sprintf("Scroll: %d%% ↕", scrollPercent)

	return ScrollIndicatorStyle.Render(indicator)
}
