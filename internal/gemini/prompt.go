package gemini

import (
	"strings"

	"gemchat/internal/memory"
)

// Prompt assembles the model prompt in the order the proxy has always used:
// system instructions first, then recent conversation turns oldest-first,
// then the new user message and an open assistant line.
func Prompt(system []string, turns []memory.Item, userMessage string) string {
	var parts []string

	if len(system) > 0 {
		parts = append(parts, "System instructions:")
		for _, s := range system {
			parts = append(parts, strings.TrimSpace(s))
		}
		parts = append(parts, "")
	}

	var history []string
	for _, item := range turns {
		// System entries are already at the top of the prompt.
		if item.Role == memory.RoleSystem {
			continue
		}
		history = append(history, roleLabel(item.Role)+": "+strings.TrimSpace(item.Text))
	}
	if len(history) > 0 {
		parts = append(parts, "Conversation history (oldest → newest):")
		parts = append(parts, history...)
		parts = append(parts, "")
	}

	parts = append(parts, "User: "+strings.TrimSpace(userMessage))
	parts = append(parts, "Assistant:")

	return strings.Join(parts, "\n")
}

func roleLabel(role string) string {
	switch role {
	case memory.RoleAssistant:
		return "Assistant"
	default:
		return "User"
	}
}
