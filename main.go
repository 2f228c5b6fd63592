package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"gemchat/internal/api"
	"gemchat/internal/config"
	"gemchat/internal/logging"
	"gemchat/internal/session"
	"gemchat/internal/store"
	"gemchat/internal/ui"
)

type appState int

const (
	stateModelSelect appState = iota
	stateConversationList
	stateChatView
)

type model struct {
	state      appState
	controller *session.Controller

	// UI models
	modelSelectModel ui.ModelSelectModel
	listModel        ui.ConversationListModel
	chatViewModel    ui.ChatViewModel

	// Screen size
	width  int
	height int

	// Error state
	err error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logging.InitLogger(); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	dbPath, err := cfg.DatabasePath()
	if err != nil {
		log.Fatalf("Failed to resolve database path: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}

	kv, err := store.NewBadgerKV(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer kv.Close()

	client := api.NewClient(cfg.ServerURL, cfg.RequestTimeout())

	controller := session.NewController(client, store.NewConversationStore(kv), cfg.DefaultModel)

	// Model selection is skipped when the server is unreachable or
	// reports nothing; the configured default applies instead.
	modelNames, err := client.Models(context.Background())
	if err != nil {
		logging.Error("Failed to list models, using default %q: %v", cfg.DefaultModel, err)
	}

	initialModel := model{
		state:      stateModelSelect,
		controller: controller,
		width:      80,
		height:     24,
	}

	if len(modelNames) > 0 {
		initialModel.modelSelectModel = ui.NewModelSelectModel(modelNames, 80, 24)
	} else {
		initialModel.state = stateConversationList
		initialModel.listModel = ui.NewConversationListModel(controller.Conversations(), 80, 24)
	}

	p := tea.NewProgram(initialModel, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}

func (m model) Init() tea.Cmd {
	switch m.state {
	case stateModelSelect:
		return m.modelSelectModel.Init()
	case stateConversationList:
		return m.listModel.Init()
	case stateChatView:
		return m.chatViewModel.Init()
	}
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case ui.ReplyResolved:
		// Handled here rather than in the chat view so a late reply
		// still patches its conversation after navigation.
		stillActive := m.controller.Resolve(msg.Outcome)
		switch m.state {
		case stateChatView:
			if stillActive {
				m.chatViewModel.RefreshMessages()
			}
		case stateConversationList:
			m.listModel.RefreshConversations(m.controller.Conversations())
		}
		return m, nil

	case ui.ModelChosen:
		m.controller.SetModel(msg.Model)
		m.state = stateConversationList
		m.listModel = ui.NewConversationListModel(m.controller.Conversations(), m.width, m.height)
		return m, m.listModel.Init()

	case ui.CreateConversation:
		m.controller.NewConversation()
		m.state = stateChatView
		m.chatViewModel = ui.NewChatViewModel(m.controller, m.width, m.height)
		return m, m.chatViewModel.Init()

	case ui.ConversationSelected:
		m.controller.Select(msg.ConversationID)
		m.state = stateChatView
		m.chatViewModel = ui.NewChatViewModel(m.controller, m.width, m.height)
		return m, m.chatViewModel.Init()

	case ui.DeleteConfirmed:
		m.controller.Delete(msg.ConversationID)
		m.listModel.HideConfirm()
		m.listModel.RefreshConversations(m.controller.Conversations())
		return m, nil

	case ui.BackToConversationList:
		m.state = stateConversationList
		m.listModel = ui.NewConversationListModel(m.controller.Conversations(), m.width, m.height)
		return m, m.listModel.Init()
	}

	// Delegate to current screen
	switch m.state {
	case stateModelSelect:
		newModel, cmd := m.modelSelectModel.Update(msg)
		m.modelSelectModel = newModel.(ui.ModelSelectModel)
		return m, cmd

	case stateConversationList:
		newModel, cmd := m.listModel.Update(msg)
		m.listModel = newModel.(ui.ConversationListModel)
		return m, cmd

	case stateChatView:
		newModel, cmd := m.chatViewModel.Update(msg)
		m.chatViewModel = newModel.(ui.ChatViewModel)
		return m, cmd
	}

	return m, nil
}

func (m model) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress Ctrl+C to quit", m.err)
	}

	switch m.state {
	case stateModelSelect:
		return m.modelSelectModel.View()
	case stateConversationList:
		return m.listModel.View()
	case stateChatView:
		return m.chatViewModel.View()
	}

	return "Loading..."
}
