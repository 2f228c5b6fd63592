package session

import (
	"context"
	"strings"

	"gemchat/internal/logging"
	"gemchat/internal/models"
)

// ErrorReply is the fixed assistant text shown when a reply request fails.
const ErrorReply = "Sorry, something went wrong while contacting the model. Please try again."

// ReplyService is the remote text-generation call. Implementations return
// the reply text or an error; the controller never retries.
type ReplyService interface {
	Reply(ctx context.Context, message, model string) (string, error)
}

// Saver persists the whole conversation set.
type Saver interface {
	Load() ([]*models.Conversation, error)
	Save(set []*models.Conversation) error
}

// Pending identifies an in-flight exchange. It carries the target
// conversation and message ids rather than "the active conversation" so the
// patch lands correctly even if the user navigated away in the meantime.
type Pending struct {
	ConversationID string
	MessageID      string
	Prompt         string
	Model          string
}

// Outcome is the resolution of a pending exchange.
type Outcome struct {
	Pending
	Reply string
	Err   error
}

// Controller owns the conversation set, the active-conversation pointer and
// the busy flag. It is single-threaded by contract: all methods must be
// called from the same goroutine (the UI event loop); only Fetch blocks.
type Controller struct {
	replier       ReplyService
	store         Saver
	conversations []*models.Conversation
	activeID      string
	model         string
	busy          bool
}

// NewController loads the persisted conversation set. A failing load is
// logged and treated as an empty store.
func NewController(replier ReplyService, store Saver, model string) *Controller {
	conversations, err := store.Load()
	if err != nil {
		logging.Error("Failed to load conversations, starting empty: %v", err)
		conversations = []*models.Conversation{}
	}

	c := &Controller{
		replier:       replier,
		store:         store,
		conversations: conversations,
		model:         model,
	}
	if len(conversations) > 0 {
		c.activeID = conversations[0].ID
	}
	return c
}

// Conversations returns the set, newest first.
func (c *Controller) Conversations() []*models.Conversation {
	return c.conversations
}

// Active returns the active conversation, or nil when the pointer is unset
// or names an unknown id.
func (c *Controller) Active() *models.Conversation {
	return c.find(c.activeID)
}

// ActiveMessages is the derived message list of the active conversation.
// An unset or unknown pointer yields an empty view.
func (c *Controller) ActiveMessages() []models.Message {
	conv := c.Active()
	if conv == nil {
		return nil
	}
	return conv.Messages
}

// Busy reports whether a reply is pending for this controller.
func (c *Controller) Busy() bool {
	return c.busy
}

// Model returns the model used for new conversations.
func (c *Controller) Model() string {
	return c.model
}

// SetModel changes the model used for conversations created afterwards.
func (c *Controller) SetModel(model string) {
	c.model = model
}

// NewConversation creates an empty conversation, puts it at the front of the
// set and makes it active.
func (c *Controller) NewConversation() *models.Conversation {
	conv := models.NewConversation(c.model)
	c.conversations = append([]*models.Conversation{conv}, c.conversations...)
	c.activeID = conv.ID
	c.persist()
	return conv
}

// Select moves the active pointer to id. An unknown id leaves an empty
// active view rather than failing.
func (c *Controller) Select(id string) {
	c.activeID = id
}

// Delete removes a conversation. When the active one goes, the pointer
// falls back to the newest remaining conversation, or to none.
func (c *Controller) Delete(id string) {
	kept := c.conversations[:0]
	removed := false
	for _, conv := range c.conversations {
		if conv.ID == id {
			removed = true
			continue
		}
		kept = append(kept, conv)
	}
	if !removed {
		return
	}
	c.conversations = kept

	if c.activeID == id {
		c.activeID = ""
		if len(c.conversations) > 0 {
			c.activeID = c.conversations[0].ID
		}
	}
	c.persist()
}

// ClearActive empties the active conversation's message list in place.
func (c *Controller) ClearActive() {
	conv := c.Active()
	if conv == nil {
		return
	}
	conv.Messages = []models.Message{}
	conv.Touch()
	c.persist()
}

// Send validates the input and, when accepted, appends a user message plus
// an empty assistant message to the active conversation, marks the
// controller busy and persists. The returned Pending drives Fetch/Resolve.
// Empty input or an already pending reply is a silent no-op (ok == false).
func (c *Controller) Send(text string) (Pending, bool) {
	if c.busy || strings.TrimSpace(text) == "" {
		return Pending{}, false
	}

	conv := c.Active()
	if conv == nil {
		conv = c.NewConversation()
	}

	assistant := models.NewMessage(models.RoleAssistant, "")
	conv.Append(models.NewMessage(models.RoleUser, text), assistant)

	c.busy = true
	c.persist()

	return Pending{
		ConversationID: conv.ID,
		MessageID:      assistant.ID,
		Prompt:         text,
		Model:          conv.Model,
	}, true
}

// Fetch runs the reply call for a pending exchange. It is the only blocking
// method and is safe to run off the event loop; feed its Outcome back into
// Resolve on the loop.
func (c *Controller) Fetch(ctx context.Context, p Pending) Outcome {
	reply, err := c.replier.Reply(ctx, p.Prompt, p.Model)
	return Outcome{Pending: p, Reply: reply, Err: err}
}

// Resolve patches the pending assistant message with the reply text, or
// with ErrorReply on failure, and clears the busy flag. The patch targets
// the conversation and message ids captured at send time; it reports
// whether that conversation is still the active one so the caller knows
// whether to re-render.
func (c *Controller) Resolve(o Outcome) bool {
	c.busy = false

	reply := o.Reply
	if o.Err != nil {
		logging.Error("Reply request failed: %v", o.Err)
		reply = ErrorReply
	}

	conv := c.find(o.ConversationID)
	if conv == nil {
		// Conversation deleted while the reply was in flight.
		return false
	}

	for i := range conv.Messages {
		if conv.Messages[i].ID != o.MessageID {
			continue
		}
		if conv.Messages[i].Pending() {
			conv.Messages[i].Content = reply
			conv.Touch()
			c.persist()
		}
		break
	}

	return conv.ID == c.activeID
}

func (c *Controller) find(id string) *models.Conversation {
	if id == "" {
		return nil
	}
	for _, conv := range c.conversations {
		if conv.ID == id {
			return conv
		}
	}
	return nil
}

// persist writes the whole set. Write failures are logged and swallowed so
// the UI keeps running on in-memory state.
func (c *Controller) persist() {
	if err := c.store.Save(c.conversations); err != nil {
		logging.Error("Failed to persist conversations: %v", err)
	}
}
