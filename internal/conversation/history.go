package conversation

import "sync"

// History is the in-memory message store for one agent session. The agent
// loop appends as turns progress and calls ForPrompt immediately before each
// model invocation.
type History struct {
	mu       sync.RWMutex
	messages []Message
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{messages: make([]Message, 0)}
}

// Append adds a message to the history.
func (h *History) Append(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, msg)
}

// AppendToolResult appends a tool-result message for the given call.
func (h *History) AppendToolResult(callID, output string) {
	h.Append(Message{Role: RoleTool, Parts: []Part{ToolResultPart(callID, output)}})
}

// Messages returns a copy of the raw history.
func (h *History) Messages() []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// ForPrompt returns the history repaired for the next model request.
// The stored history is not modified: a dangling call may still gain its
// result later in the same turn.
func (h *History) ForPrompt() ([]Message, RepairStats) {
	return RepairWithStats(h.Messages())
}

// Len returns the number of stored messages.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.messages)
}
