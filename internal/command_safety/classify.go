package command_safety

import "regexp"

// Verdict is the approval classification for a command about to run.
type Verdict int

const (
	// AutoApprove marks a known read-only command that may run without
	// asking anyone.
	AutoApprove Verdict = iota
	// RunSandboxed marks a command with no dangerous signal that runs
	// under the sandbox without approval.
	RunSandboxed
	// NeedsApproval marks a command that must pause for external approval.
	NeedsApproval
)

// Classification is the advisory metadata attached to a command request.
// The sandbox never blocks on it; the calling loop decides whether to
// surface an approval gate.
type Classification struct {
	Verdict Verdict
	// Reason is a short human-readable explanation for NeedsApproval.
	Reason string
}

// Classify decides how a raw shell command should be gated. A dangerous
// pattern match, a structurally dangerous argv, or a request to run without
// sandboxing all require approval.
func Classify(command string, sandboxDisabled bool, extra []*regexp.Regexp) Classification {
	argv := []string{"bash", "-c", command}

	if MatchesDangerousPattern(command, extra) || CommandMightBeDangerous(argv) {
		return Classification{Verdict: NeedsApproval, Reason: "command matches a dangerous pattern"}
	}
	if sandboxDisabled {
		return Classification{Verdict: NeedsApproval, Reason: "sandbox is disabled for this command"}
	}
	if IsKnownSafeCommand(argv) {
		return Classification{Verdict: AutoApprove}
	}
	return Classification{Verdict: RunSandboxed}
}

// RequiresApproval is a convenience wrapper for the tool-level
// needsApproval predicate.
func RequiresApproval(command string, sandboxDisabled bool, extra []*regexp.Regexp) bool {
	return Classify(command, sandboxDisabled, extra).Verdict == NeedsApproval
}
