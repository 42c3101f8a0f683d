package exec

import "strings"

// denialSignatures map known sandbox-denial stderr fragments to an
// explanation the agent can act on. Matching is case-insensitive.
var denialSignatures = []struct {
	fragment    string
	explanation string
}{
	{"operation not permitted", "a syscall was blocked by the sandbox"},
	{"network is unreachable", "network access is disabled by the sandbox policy"},
	{"could not resolve host", "network access is disabled by the sandbox policy"},
	{"read-only file system", "the path is outside the writable roots of the sandbox policy"},
	{"permission denied", "the sandbox denied access to a file or directory"},
	{"sandbox-exec", "the command was rejected by the sandbox profile"},
}

// DetectViolations returns an explanation for each denial signature found
// in stderr. Duplicate explanations are collapsed.
func DetectViolations(stderr string) []string {
	lower := strings.ToLower(stderr)
	seen := make(map[string]bool)
	var violations []string
	for _, sig := range denialSignatures {
		if strings.Contains(lower, sig.fragment) && !seen[sig.explanation] {
			seen[sig.explanation] = true
			violations = append(violations, sig.explanation)
		}
	}
	return violations
}

// AnnotateStderr appends sandbox violation explanations to stderr so the
// agent can tell "your command is wrong" from "the sandbox blocked this".
// Returns stderr unchanged when no signature matches.
func AnnotateStderr(stderr string, violations []string) string {
	if len(violations) == 0 {
		return stderr
	}
	var b strings.Builder
	b.WriteString(stderr)
	b.WriteString("\n<sandbox_violations>\n")
	for _, v := range violations {
		b.WriteString(v)
		b.WriteString("\n")
	}
	b.WriteString("</sandbox_violations>")
	return b.String()
}
