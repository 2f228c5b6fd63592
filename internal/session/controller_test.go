package session

import (
	"context"
	"errors"
	"testing"

	"gemchat/internal/models"
)

type fakeReplier struct {
	reply string
	err   error
	calls []string
}

func (f *fakeReplier) Reply(ctx context.Context, message, model string) (string, error) {
	f.calls = append(f.calls, message)
	return f.reply, f.err
}

type fakeSaver struct {
	initial   []*models.Conversation
	loadErr   error
	saveErr   error
	saveCount int
	lastSaved []*models.Conversation
}

func (f *fakeSaver) Load() ([]*models.Conversation, error) {
	if f.loadErr != nil {
		return []*models.Conversation{}, f.loadErr
	}
	if f.initial == nil {
		return []*models.Conversation{}, nil
	}
	return f.initial, nil
}

func (f *fakeSaver) Save(set []*models.Conversation) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saveCount++
	f.lastSaved = set
	return nil
}

func newTestController(replier *fakeReplier, saver *fakeSaver) *Controller {
	if replier == nil {
		replier = &fakeReplier{reply: "Hello!"}
	}
	if saver == nil {
		saver = &fakeSaver{}
	}
	return NewController(replier, saver, "gemini-2.5-flash")
}

func TestSendAppendsExactlyOnePair(t *testing.T) {
	c := newTestController(nil, nil)
	c.NewConversation()

	p, ok := c.Send("Hi")
	if !ok {
		t.Fatal("Send should accept non-empty input")
	}

	msgs := c.ActiveMessages()
	if len(msgs) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Role != models.RoleUser || msgs[0].Content != "Hi" {
		t.Errorf("First message should be the user text, got %+v", msgs[0])
	}
	if msgs[1].Role != models.RoleAssistant || msgs[1].Content != "" {
		t.Errorf("Second message should be an empty assistant placeholder, got %+v", msgs[1])
	}
	if p.MessageID != msgs[1].ID {
		t.Error("Pending should target the assistant placeholder")
	}
	if p.Model != "gemini-2.5-flash" {
		t.Errorf("Pending model = %q", p.Model)
	}
}

func TestSendIgnoresEmptyInput(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"Empty", ""},
		{"Spaces", "   "},
		{"Tabs and newlines", "\t\n  \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestController(nil, nil)
			c.NewConversation()

			if _, ok := c.Send(tt.text); ok {
				t.Error("Send should reject blank input")
			}
			if len(c.ActiveMessages()) != 0 {
				t.Errorf("Message list changed: %d messages", len(c.ActiveMessages()))
			}
			if c.Busy() {
				t.Error("Rejected send must not set the busy flag")
			}
		})
	}
}

func TestSendBusyGuard(t *testing.T) {
	c := newTestController(nil, nil)
	c.NewConversation()

	if _, ok := c.Send("first"); !ok {
		t.Fatal("First send should be accepted")
	}
	if !c.Busy() {
		t.Fatal("Controller should be busy while the reply is pending")
	}

	if _, ok := c.Send("second"); ok {
		t.Error("Second send must be rejected while pending")
	}
	if len(c.ActiveMessages()) != 2 {
		t.Errorf("Busy-guarded send created messages: %d total", len(c.ActiveMessages()))
	}
}

func TestSendWithoutActiveConversationCreatesOne(t *testing.T) {
	c := newTestController(nil, nil)

	if c.Active() != nil {
		t.Fatal("Fresh empty controller should have no active conversation")
	}

	if _, ok := c.Send("Hi"); !ok {
		t.Fatal("Send should be accepted")
	}
	if len(c.Conversations()) != 1 {
		t.Fatalf("Expected 1 conversation, got %d", len(c.Conversations()))
	}
	if c.Active() == nil {
		t.Fatal("The created conversation should be active")
	}
	if c.Active().Title != "Hi" {
		t.Errorf("Title = %q, want %q", c.Active().Title, "Hi")
	}
}

func TestSendResolveSuccessScenario(t *testing.T) {
	replier := &fakeReplier{reply: "Hello!"}
	saver := &fakeSaver{}
	c := NewController(replier, saver, "gemini-2.5-flash")

	c.NewConversation()
	p, ok := c.Send("Hi")
	if !ok {
		t.Fatal("Send rejected")
	}

	stillActive := c.Resolve(c.Fetch(context.Background(), p))
	if !stillActive {
		t.Error("Patched conversation should still be active")
	}
	if c.Busy() {
		t.Error("Busy flag should clear after Resolve")
	}

	msgs := c.ActiveMessages()
	if len(msgs) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(msgs))
	}
	if msgs[1].Content != "Hello!" {
		t.Errorf("Assistant content = %q, want %q", msgs[1].Content, "Hello!")
	}
	if len(replier.calls) != 1 || replier.calls[0] != "Hi" {
		t.Errorf("Replier calls = %v", replier.calls)
	}
	if c.Conversations()[0].Title != "Hi" {
		t.Errorf("Conversation title = %q, want %q", c.Conversations()[0].Title, "Hi")
	}
}

func TestResolveFailureUsesErrorPlaceholder(t *testing.T) {
	replier := &fakeReplier{err: errors.New("connection refused")}
	c := newTestController(replier, nil)
	c.NewConversation()

	p, _ := c.Send("Hi")
	c.Resolve(c.Fetch(context.Background(), p))

	msgs := c.ActiveMessages()
	if len(msgs) != 2 {
		t.Fatalf("Expected exactly 2 messages after failure, got %d", len(msgs))
	}
	if msgs[1].Content != ErrorReply {
		t.Errorf("Assistant content = %q, want the error placeholder", msgs[1].Content)
	}
	if c.Busy() {
		t.Error("Busy flag should clear after a failed reply")
	}
}

func TestResolvePatchesExactlyOnce(t *testing.T) {
	c := newTestController(nil, nil)
	c.NewConversation()

	p, _ := c.Send("Hi")
	c.Resolve(Outcome{Pending: p, Reply: "first"})
	c.Resolve(Outcome{Pending: p, Reply: "second"})

	msgs := c.ActiveMessages()
	if msgs[1].Content != "first" {
		t.Errorf("Assistant content = %q, a resolved message must not be overwritten", msgs[1].Content)
	}
}

func TestResolveAfterNavigationPatchesOriginalConversation(t *testing.T) {
	c := newTestController(nil, nil)

	first := c.NewConversation()
	p, _ := c.Send("Hi from first")

	second := c.NewConversation()
	c.Select(second.ID)

	stillActive := c.Resolve(Outcome{Pending: p, Reply: "late reply"})
	if stillActive {
		t.Error("Patched conversation is no longer active; Resolve should say so")
	}

	var patched *models.Conversation
	for _, conv := range c.Conversations() {
		if conv.ID == first.ID {
			patched = conv
		}
	}
	if patched == nil {
		t.Fatal("Original conversation disappeared")
	}
	if patched.Messages[1].Content != "late reply" {
		t.Errorf("Late patch missed its target: %q", patched.Messages[1].Content)
	}
	if len(second.Messages) != 0 {
		t.Errorf("Active conversation received a stray patch: %d messages", len(second.Messages))
	}
}

func TestResolveAfterDeleteIsDropped(t *testing.T) {
	c := newTestController(nil, nil)
	conv := c.NewConversation()
	p, _ := c.Send("Hi")

	c.Delete(conv.ID)

	if active := c.Resolve(Outcome{Pending: p, Reply: "ghost"}); active {
		t.Error("Resolve against a deleted conversation cannot be active")
	}
	if c.Busy() {
		t.Error("Busy flag should clear even when the target is gone")
	}
}

func TestDeleteActiveFallsBackToNewest(t *testing.T) {
	c := newTestController(nil, nil)
	older := c.NewConversation()
	newer := c.NewConversation()

	c.Select(older.ID)
	c.Delete(older.ID)

	if c.Active() == nil || c.Active().ID != newer.ID {
		t.Error("Pointer should fall back to the newest remaining conversation")
	}

	c.Delete(newer.ID)
	if c.Active() != nil {
		t.Error("Pointer should be none once the set is empty")
	}
	if len(c.ActiveMessages()) != 0 {
		t.Error("Active view should be empty once the set is empty")
	}
}

func TestDeleteNonActiveLeavesActiveUntouched(t *testing.T) {
	c := newTestController(nil, nil)
	other := c.NewConversation()
	active := c.NewConversation()
	c.Send("Hi")

	c.Delete(other.ID)

	if c.Active() == nil || c.Active().ID != active.ID {
		t.Error("Active pointer changed when deleting another conversation")
	}
	if len(c.ActiveMessages()) != 2 {
		t.Errorf("Active message list changed: %d messages", len(c.ActiveMessages()))
	}
}

func TestDeleteUnknownIDIsNoop(t *testing.T) {
	saver := &fakeSaver{}
	c := newTestController(nil, saver)
	c.NewConversation()
	before := saver.saveCount

	c.Delete("no-such-id")

	if len(c.Conversations()) != 1 {
		t.Error("Unknown-id delete removed something")
	}
	if saver.saveCount != before {
		t.Error("Unknown-id delete should not re-persist")
	}
}

func TestSelectUnknownIDYieldsEmptyView(t *testing.T) {
	c := newTestController(nil, nil)
	c.NewConversation()
	c.Send("Hi")

	c.Select("no-such-id")

	if c.Active() != nil {
		t.Error("Unknown id should leave no active conversation")
	}
	if len(c.ActiveMessages()) != 0 {
		t.Error("Unknown id should yield an empty message view")
	}
}

func TestClearActiveEmptiesInPlace(t *testing.T) {
	c := newTestController(nil, nil)
	conv := c.NewConversation()
	p, _ := c.Send("Hi")
	c.Resolve(Outcome{Pending: p, Reply: "Hello!"})

	c.ClearActive()

	if len(c.Conversations()) != 1 {
		t.Error("ClearActive must not delete the conversation")
	}
	if len(c.ActiveMessages()) != 0 {
		t.Errorf("Expected empty message list, got %d", len(c.ActiveMessages()))
	}
	if conv.Title != models.DefaultTitle {
		t.Errorf("Title should revert to %q, got %q", models.DefaultTitle, conv.Title)
	}
}

func TestEveryMutationPersistsWholeSet(t *testing.T) {
	saver := &fakeSaver{}
	c := newTestController(nil, saver)

	conv := c.NewConversation() // 1
	p, _ := c.Send("Hi")        // 2
	c.Resolve(Outcome{Pending: p, Reply: "Hello!"}) // 3
	c.ClearActive()  // 4
	c.Delete(conv.ID) // 5

	if saver.saveCount != 5 {
		t.Errorf("Expected 5 persists, got %d", saver.saveCount)
	}
	if len(saver.lastSaved) != 0 {
		t.Errorf("Final persisted set should be empty, got %d", len(saver.lastSaved))
	}
}

func TestControllerStartsFromPersistedSet(t *testing.T) {
	existing := models.NewConversation("gemini-2.5-flash")
	existing.Append(
		models.NewMessage(models.RoleUser, "earlier"),
		models.NewMessage(models.RoleAssistant, "reply"),
	)
	saver := &fakeSaver{initial: []*models.Conversation{existing}}

	c := newTestController(nil, saver)

	if len(c.Conversations()) != 1 {
		t.Fatalf("Expected 1 loaded conversation, got %d", len(c.Conversations()))
	}
	if c.Active() == nil || c.Active().ID != existing.ID {
		t.Error("Newest loaded conversation should become active")
	}
}

func TestControllerSurvivesLoadFailure(t *testing.T) {
	saver := &fakeSaver{loadErr: errors.New("corrupt store")}

	c := newTestController(nil, saver)

	if len(c.Conversations()) != 0 {
		t.Error("Load failure should mean an empty set")
	}
	if c.Active() != nil {
		t.Error("No active conversation after a failed load")
	}
}

func TestControllerSurvivesSaveFailure(t *testing.T) {
	saver := &fakeSaver{saveErr: errors.New("disk full")}
	c := newTestController(nil, saver)

	c.NewConversation()
	if _, ok := c.Send("Hi"); !ok {
		t.Error("Send should still work when persistence fails")
	}
	if len(c.ActiveMessages()) != 2 {
		t.Error("In-memory state should advance despite save failures")
	}
}
