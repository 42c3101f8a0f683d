// Package tools provides the tool registry, routing, and specifications for
// the agent's tool surface.
package tools

// ToolKind classifies the type of tool handler.
type ToolKind int

const (
	ToolKindFunction ToolKind = iota // standard function tool
)

// ToolOutput is the result of tool execution. All failure is encoded here;
// handlers return a Go error only for invalid input or internal faults.
type ToolOutput struct {
	Content string `json:"content"`
	Success *bool  `json:"success,omitempty"`
}

// Ok wraps content as a successful output.
func Ok(content string) *ToolOutput {
	success := true
	return &ToolOutput{Content: content, Success: &success}
}

// Fail wraps content as a failed output.
func Fail(content string) *ToolOutput {
	success := false
	return &ToolOutput{Content: content, Success: &success}
}

// ToolInvocation provides context for one tool call.
type ToolInvocation struct {
	CallID    string                 `json:"call_id"`
	ToolName  string                 `json:"tool_name"`
	Arguments map[string]interface{} `json:"arguments"`
	Cwd       string                 `json:"cwd,omitempty"`
}
