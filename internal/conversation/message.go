// Package conversation holds the message model shared with the
// model-invocation loop and the repair transform that keeps the
// tool-call/tool-result protocol consistent across turns.
package conversation

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// PartType tags one part of a message's content sequence.
type PartType string

const (
	PartText       PartType = "text"
	PartReasoning  PartType = "reasoning"
	PartToolCall   PartType = "tool-call"
	PartToolResult PartType = "tool-result"
)

// Part is a single element of a message's ordered content.
// Fields are populated depending on Type:
//
//	text/reasoning: Text
//	tool-call:      CallID, ToolName, Arguments
//	tool-result:    CallID, Output
type Part struct {
	Type PartType `json:"type"`

	Text string `json:"text,omitempty"`

	CallID    string `json:"call_id,omitempty"`
	ToolName  string `json:"tool_name,omitempty"`
	Arguments string `json:"arguments,omitempty"` // raw JSON string

	Output string `json:"output,omitempty"`
}

// Message is one turn element of the conversation history.
type Message struct {
	Role  Role   `json:"role"`
	Parts []Part `json:"parts"`
}

// TextMessage builds a single-part text message.
func TextMessage(role Role, text string) Message {
	return Message{Role: role, Parts: []Part{{Type: PartText, Text: text}}}
}

// ToolCallPart builds a tool-call part.
func ToolCallPart(callID, toolName, arguments string) Part {
	return Part{Type: PartToolCall, CallID: callID, ToolName: toolName, Arguments: arguments}
}

// ToolResultPart builds a tool-result part.
func ToolResultPart(callID, output string) Part {
	return Part{Type: PartToolResult, CallID: callID, Output: output}
}
