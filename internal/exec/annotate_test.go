package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectViolations(t *testing.T) {
	violations := DetectViolations("curl: (7) Couldn't connect\ncurl: Network is unreachable")
	assert.Equal(t, []string{"network access is disabled by the sandbox policy"}, violations)

	assert.Empty(t, DetectViolations("make: *** No rule to make target 'all'"))
}

func TestDetectViolations_CollapsesDuplicates(t *testing.T) {
	stderr := "Network is unreachable\ncould not resolve host: example.com"
	violations := DetectViolations(stderr)
	assert.Len(t, violations, 1)
}

func TestAnnotateStderr(t *testing.T) {
	out := AnnotateStderr("touch: cannot touch '/x': Read-only file system",
		DetectViolations("touch: cannot touch '/x': Read-only file system"))

	assert.Contains(t, out, "<sandbox_violations>")
	assert.Contains(t, out, "writable roots")
	assert.Contains(t, out, "</sandbox_violations>")
}

func TestAnnotateStderr_NoViolationsUnchanged(t *testing.T) {
	assert.Equal(t, "plain error", AnnotateStderr("plain error", nil))
}
