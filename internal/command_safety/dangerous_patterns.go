package command_safety

import "regexp"

// dangerousPatterns match raw command text for operations that must pause
// for approval before running. The argv-level checks in
// CommandMightBeDangerous cover structured invocations; these regexes catch
// the same intent inside arbitrary shell scripts.
var dangerousPatterns = []*regexp.Regexp{
	// Recursive delete of anything.
	regexp.MustCompile(`\brm\s+(-[a-zA-Z]*[rf][a-zA-Z]*\s+)+`),
	// Privilege escalation.
	regexp.MustCompile(`\b(sudo|doas)\b`),
	// Writes to raw disk devices.
	regexp.MustCompile(`\bdd\b.*\bof=/dev/`),
	regexp.MustCompile(`\bmkfs\b`),
	// Piping a remote script straight into a shell.
	regexp.MustCompile(`\b(curl|wget)\b[^|;&]*\|\s*(ba|z|da|k)?sh\b`),
	// Fork bomb.
	regexp.MustCompile(`:\(\)\s*\{.*\}\s*;?\s*:`),
	// World-writable permission grants.
	regexp.MustCompile(`\bchmod\s+(-[a-zA-Z]+\s+)*0?777\b`),
	// Handing file ownership to root.
	regexp.MustCompile(`\bchown\s+(-[a-zA-Z]+\s+)*root\b`),
	// Force-pushing over shared history.
	regexp.MustCompile(`\bgit\s+push\b.*(--force\b|--force-with-lease\b|\s-f\b)`),
	// Destructive SQL.
	regexp.MustCompile(`(?i)\bDROP\s+(DATABASE|TABLE)\b`),
}

// MatchesDangerousPattern tests the raw command text against the built-in
// dangerous patterns plus any caller-supplied extras.
func MatchesDangerousPattern(command string, extra []*regexp.Regexp) bool {
	for _, re := range dangerousPatterns {
		if re.MatchString(command) {
			return true
		}
	}
	for _, re := range extra {
		if re.MatchString(command) {
			return true
		}
	}
	return false
}
