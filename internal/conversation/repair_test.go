package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validHistory() []Message {
	return []Message{
		TextMessage(RoleUser, "list the files"),
		{Role: RoleAssistant, Parts: []Part{
			{Type: PartText, Text: "Listing now."},
			ToolCallPart("call-1", "list_dir", `{"path":"."}`),
		}},
		{Role: RoleTool, Parts: []Part{ToolResultPart("call-1", "a.go\nb.go")}},
		TextMessage(RoleAssistant, "Two files found."),
	}
}

func TestRepair_ValidHistoryUnchanged(t *testing.T) {
	history := validHistory()
	repaired, stats := RepairWithStats(history)
	assert.Equal(t, history, repaired)
	assert.Zero(t, stats.DroppedCalls)
	assert.Zero(t, stats.DroppedMessages)
}

func TestRepair_DropsDanglingCall(t *testing.T) {
	history := []Message{
		TextMessage(RoleUser, "run tests"),
		{Role: RoleAssistant, Parts: []Part{
			{Type: PartText, Text: "Running."},
			ToolCallPart("call-9", "shell", `{"command":"go test"}`),
		}},
		// User interrupted before the tool result arrived.
		TextMessage(RoleUser, "never mind"),
	}

	repaired, stats := RepairWithStats(history)
	require.Len(t, repaired, 3)
	assert.Equal(t, 1, stats.DroppedCalls)
	assert.Equal(t, []string{"call-9"}, stats.DroppedCallIDs)
	// The text part survives; only the dangling call is removed.
	assert.Equal(t, []Part{{Type: PartText, Text: "Running."}}, repaired[1].Parts)
}

func TestRepair_DropsEmptiedMessage(t *testing.T) {
	history := []Message{
		TextMessage(RoleUser, "hello"),
		{Role: RoleAssistant, Parts: []Part{
			ToolCallPart("call-2", "read_file", `{"path":"x"}`),
		}},
		TextMessage(RoleUser, "stop"),
	}

	repaired, stats := RepairWithStats(history)
	require.Len(t, repaired, 2)
	assert.Equal(t, RoleUser, repaired[0].Role)
	assert.Equal(t, RoleUser, repaired[1].Role)
	assert.Equal(t, 1, stats.DroppedMessages)
}

func TestRepair_PreservesTrailingEmptyMessage(t *testing.T) {
	// The last message may be live streaming state: keep it even when the
	// dangling call removal leaves it empty.
	history := []Message{
		TextMessage(RoleUser, "hello"),
		{Role: RoleAssistant, Parts: []Part{
			ToolCallPart("call-3", "shell", `{"command":"sleep 60"}`),
		}},
	}

	repaired, _ := RepairWithStats(history)
	require.Len(t, repaired, 2)
	assert.Equal(t, RoleAssistant, repaired[1].Role)
	assert.Empty(t, repaired[1].Parts)
}

func TestRepair_ResultAnywhereInHistoryMatches(t *testing.T) {
	history := []Message{
		{Role: RoleAssistant, Parts: []Part{
			ToolCallPart("a", "grep", `{}`),
			ToolCallPart("b", "grep", `{}`),
		}},
		{Role: RoleTool, Parts: []Part{ToolResultPart("b", "found")}},
		{Role: RoleTool, Parts: []Part{ToolResultPart("a", "found")}},
	}

	repaired, stats := RepairWithStats(history)
	assert.Equal(t, history, repaired)
	assert.Zero(t, stats.DroppedCalls)
}

func TestRepair_Idempotent(t *testing.T) {
	histories := [][]Message{
		validHistory(),
		{
			TextMessage(RoleUser, "x"),
			{Role: RoleAssistant, Parts: []Part{ToolCallPart("dangling", "shell", `{}`)}},
			TextMessage(RoleUser, "y"),
		},
		{},
		{TextMessage(RoleAssistant, "")},
	}

	for _, history := range histories {
		once := Repair(history)
		twice := Repair(once)
		assert.Equal(t, once, twice)
	}
}

func TestRepair_MixedDanglingAndMatched(t *testing.T) {
	history := []Message{
		{Role: RoleAssistant, Parts: []Part{
			ToolCallPart("ok", "read_file", `{}`),
			ToolCallPart("lost", "shell", `{}`),
		}},
		{Role: RoleTool, Parts: []Part{ToolResultPart("ok", "contents")}},
		TextMessage(RoleAssistant, "done"),
	}

	repaired, stats := RepairWithStats(history)
	require.Len(t, repaired, 3)
	assert.Equal(t, 1, stats.DroppedCalls)
	require.Len(t, repaired[0].Parts, 1)
	assert.Equal(t, "ok", repaired[0].Parts[0].CallID)
}

func TestRepair_ReasoningOnlyMessageDropped(t *testing.T) {
	// Reasoning without text or calls is not meaningful content once its
	// sibling tool-call is dropped.
	history := []Message{
		TextMessage(RoleUser, "q"),
		{Role: RoleAssistant, Parts: []Part{
			{Type: PartReasoning, Text: "thinking..."},
			ToolCallPart("gone", "shell", `{}`),
		}},
		TextMessage(RoleUser, "new question"),
	}

	repaired, _ := RepairWithStats(history)
	require.Len(t, repaired, 2)
}

func TestHistory_ForPromptLeavesStoreIntact(t *testing.T) {
	h := NewHistory()
	h.Append(TextMessage(RoleUser, "go"))
	h.Append(Message{Role: RoleAssistant, Parts: []Part{ToolCallPart("c1", "shell", `{}`)}})

	prompt, stats := h.ForPrompt()
	require.Len(t, prompt, 2) // trailing message preserved
	assert.Zero(t, stats.DroppedMessages)

	// The pending call can still complete afterwards.
	h.AppendToolResult("c1", "output")
	prompt, stats = h.ForPrompt()
	require.Len(t, prompt, 3)
	assert.Zero(t, stats.DroppedCalls)
}
