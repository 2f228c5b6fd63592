package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"gemchat/internal/gemini"
	"gemchat/internal/memory"
)

// missingKeyReply is returned in-band when the server has no API key; the
// client shows it like any assistant reply.
const missingKeyReply = "Server is missing GEMINI_API_KEY. Please set it in .env."

// Generator produces reply text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	ModelName() string
}

type ChatRequest struct {
	Message    string `json:"message"`
	SessionID  string `json:"session_id,omitempty"`
	MemorySize int    `json:"memory_size,omitempty"`
	System     string `json:"system,omitempty"`
}

type ChatResponse struct {
	Response  string    `json:"response"`
	Model     string    `json:"model"`
	HTML      string    `json:"html,omitempty"`
	Markdown  string    `json:"markdown,omitempty"`
	Segments  []Segment `json:"segments,omitempty"`
	Timestamp string    `json:"timestamp,omitempty"`
	SessionID string    `json:"session_id,omitempty"`
}

// ChatHandler proxies chat requests to the model, threading per-session
// prompt memory through each call. A nil generator means the server runs
// without an API key.
type ChatHandler struct {
	generator Generator
	mem       *memory.SessionMemory
	model     string
}

func NewChatHandler(generator Generator, mem *memory.SessionMemory, model string) *ChatHandler {
	if generator != nil {
		model = generator.ModelName()
	}
	return &ChatHandler{
		generator: generator,
		mem:       mem,
		model:     model,
	}
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body"))
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Message is required"))
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = fmt.Sprintf("session-%d", time.Now().UnixMilli())
	}

	if req.System != "" {
		h.mem.Add(sessionID, memory.RoleSystem, req.System)
	}

	if h.generator == nil {
		h.respond(w, sessionID, missingKeyReply)
		return
	}

	// Snapshot the history before storing the new message so the prompt
	// does not repeat it.
	system := systemTexts(h.mem.All(sessionID))
	recent := h.mem.Recent(sessionID, req.MemorySize)
	h.mem.Add(sessionID, memory.RoleUser, req.Message)

	prompt := gemini.Prompt(system, recent, req.Message)

	reply, err := h.generator.Generate(r.Context(), prompt)
	if err != nil {
		log.Printf("generate failed for session %s: %v", sessionID, err)
		reply = fmt.Sprintf("Error communicating with the model: %v", err)
	}

	h.mem.Add(sessionID, memory.RoleAssistant, reply)
	h.respond(w, sessionID, reply)
}

func (h *ChatHandler) respond(w http.ResponseWriter, sessionID, reply string) {
	visual := BuildVisualPayload(reply)
	writeJSON(w, http.StatusOK, ChatResponse{
		Response:  reply,
		Model:     h.model,
		HTML:      visual.HTML,
		Markdown:  visual.Markdown,
		Segments:  visual.Segments,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		SessionID: sessionID,
	})
}

func (h *ChatHandler) Models(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"models": {h.model}})
}

func (h *ChatHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *ChatHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"sessions": h.mem.Sessions()})
}

func (h *ChatHandler) GetMemory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	writeJSON(w, http.StatusOK, h.mem.All(sessionID))
}

func (h *ChatHandler) ClearMemory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	h.mem.Clear(sessionID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"message": fmt.Sprintf("Cleared memory for session %s", sessionID),
	})
}

func systemTexts(items []memory.Item) []string {
	var texts []string
	for _, item := range items {
		if item.Role == memory.RoleSystem {
			texts = append(texts, item.Text)
		}
	}
	return texts
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func errorResp(code, message string) map[string]errorBody {
	return map[string]errorBody{"error": {Code: code, Message: message}}
}
