package conversation

// RepairStats reports what a repair pass removed, for diagnostics.
type RepairStats struct {
	DroppedCalls    int
	DroppedMessages int
	DroppedCallIDs  []string
}

// Repair removes assistant tool-call parts that have no matching tool-result
// anywhere in the history, and excises messages left without meaningful
// content by that removal. The very last message is preserved even when
// empty, since it may represent live streaming state.
//
// Histories become inconsistent when a user sends a new message while the
// assistant is mid-tool-call; without repair the next model request would
// carry an unmatched tool-call, which providers reject as a protocol error.
// Repair is idempotent and is the identity on valid histories.
func Repair(messages []Message) []Message {
	repaired, _ := RepairWithStats(messages)
	return repaired
}

// RepairWithStats is Repair plus a report of dropped calls and messages.
func RepairWithStats(messages []Message) ([]Message, RepairStats) {
	var stats RepairStats

	// Pass 1: collect every tool-result id present anywhere in the history.
	resultIDs := make(map[string]bool)
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if part.Type == PartToolResult {
				resultIDs[part.CallID] = true
			}
		}
	}

	// Pass 2: drop dangling tool-calls, then messages emptied by the drop.
	repaired := make([]Message, 0, len(messages))
	for i, msg := range messages {
		if msg.Role != RoleAssistant || !hasToolCalls(msg) {
			repaired = append(repaired, msg)
			continue
		}

		kept := make([]Part, 0, len(msg.Parts))
		for _, part := range msg.Parts {
			if part.Type == PartToolCall && !resultIDs[part.CallID] {
				stats.DroppedCalls++
				stats.DroppedCallIDs = append(stats.DroppedCallIDs, part.CallID)
				continue
			}
			kept = append(kept, part)
		}

		msg.Parts = kept
		isLast := i == len(messages)-1
		if !hasMeaningfulContent(msg) && !isLast {
			stats.DroppedMessages++
			continue
		}
		repaired = append(repaired, msg)
	}

	return repaired, stats
}

func hasToolCalls(msg Message) bool {
	for _, part := range msg.Parts {
		if part.Type == PartToolCall {
			return true
		}
	}
	return false
}

// hasMeaningfulContent reports whether the message still carries non-empty
// text or a tool-call after repair.
func hasMeaningfulContent(msg Message) bool {
	for _, part := range msg.Parts {
		switch part.Type {
		case PartText:
			if part.Text != "" {
				return true
			}
		case PartToolCall:
			return true
		}
	}
	return false
}
