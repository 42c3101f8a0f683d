package tools

// Default timeouts in milliseconds.
const (
	DefaultShellTimeoutMs    = 10_000  // 10s
	DefaultReadFileTimeoutMs = 30_000  // 30s
	DefaultToolTimeoutMs     = 120_000 // 2min fallback
)

// ToolSpec defines the specification for a tool (sent to the model).
type ToolSpec struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ToolParameter `json:"parameters"`

	// DefaultTimeoutMs is the default deadline for this tool when the
	// model does not provide a timeout_ms argument.
	DefaultTimeoutMs int64 `json:"-"` // not sent to the model
}

// ToolParameter defines a parameter for a tool.
type ToolParameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// NewReadFileToolSpec creates the specification for the read_file tool.
func NewReadFileToolSpec() ToolSpec {
	return ToolSpec{
		Name:        "read_file",
		Description: "Read the contents of a file. When offset/limit are given, returns that line window with line numbers; oversized full reads are saved to the overflow store.",
		Parameters: []ToolParameter{
			{Name: "path", Type: "string", Description: "The path to the file to read", Required: true},
			{Name: "offset", Type: "integer", Description: "Starting line number (0-indexed, optional)", Required: false},
			{Name: "limit", Type: "integer", Description: "Maximum number of lines to read (optional)", Required: false},
		},
		DefaultTimeoutMs: DefaultReadFileTimeoutMs,
	}
}

// NewWriteFileToolSpec creates the specification for the write_file tool.
func NewWriteFileToolSpec() ToolSpec {
	return ToolSpec{
		Name:        "write_file",
		Description: "Write content to a file, creating parent directories as needed. Returns a short preview of what was written.",
		Parameters: []ToolParameter{
			{Name: "path", Type: "string", Description: "The path to the file to write", Required: true},
			{Name: "content", Type: "string", Description: "The full content to write", Required: true},
		},
		DefaultTimeoutMs: DefaultToolTimeoutMs,
	}
}

// NewEditFileToolSpec creates the specification for the edit_file tool.
func NewEditFileToolSpec() ToolSpec {
	return ToolSpec{
		Name:        "edit_file",
		Description: "Replace an exact string in a file. Fails if the string is absent, or occurs more than once unless replace_all is set.",
		Parameters: []ToolParameter{
			{Name: "path", Type: "string", Description: "The path to the file to edit", Required: true},
			{Name: "old_string", Type: "string", Description: "The exact text to replace", Required: true},
			{Name: "new_string", Type: "string", Description: "The replacement text", Required: true},
			{Name: "replace_all", Type: "boolean", Description: "Replace every occurrence (default false)", Required: false},
		},
		DefaultTimeoutMs: DefaultToolTimeoutMs,
	}
}

// NewDeleteFileToolSpec creates the specification for the delete_file tool.
func NewDeleteFileToolSpec() ToolSpec {
	return ToolSpec{
		Name:        "delete_file",
		Description: "Delete a file.",
		Parameters: []ToolParameter{
			{Name: "path", Type: "string", Description: "The path to the file to delete", Required: true},
		},
		DefaultTimeoutMs: DefaultToolTimeoutMs,
	}
}

// NewListDirToolSpec creates the specification for the list_dir tool.
func NewListDirToolSpec() ToolSpec {
	return ToolSpec{
		Name:        "list_dir",
		Description: "List a directory's entries. Hidden entries are filtered; directories sort before files.",
		Parameters: []ToolParameter{
			{Name: "path", Type: "string", Description: "The path to the directory to list", Required: true},
		},
		DefaultTimeoutMs: DefaultToolTimeoutMs,
	}
}

// NewFileExistsToolSpec creates the specification for the file_exists tool.
func NewFileExistsToolSpec() ToolSpec {
	return ToolSpec{
		Name:        "file_exists",
		Description: "Check whether a path exists.",
		Parameters: []ToolParameter{
			{Name: "path", Type: "string", Description: "The path to check", Required: true},
		},
		DefaultTimeoutMs: DefaultToolTimeoutMs,
	}
}

// NewGrepToolSpec creates the specification for the grep tool.
func NewGrepToolSpec() ToolSpec {
	return ToolSpec{
		Name:        "grep",
		Description: "Search file contents with a regular expression. Returns file, line number, and line content per match; no matches is a successful empty result.",
		Parameters: []ToolParameter{
			{Name: "pattern", Type: "string", Description: "The regular expression to search for", Required: true},
			{Name: "path", Type: "string", Description: "File or directory to search (defaults to the working directory)", Required: false},
			{Name: "file_type", Type: "string", Description: "Restrict the search to a file type, e.g. go, py, js", Required: false},
			{Name: "glob", Type: "string", Description: "Restrict the search to files matching a glob, e.g. *.go", Required: false},
			{Name: "case_insensitive", Type: "boolean", Description: "Match case-insensitively (default false)", Required: false},
			{Name: "context", Type: "integer", Description: "Lines of context around each match", Required: false},
			{Name: "max_results", Type: "integer", Description: "Maximum matches to return", Required: false},
		},
		DefaultTimeoutMs: DefaultToolTimeoutMs,
	}
}

// NewGlobFilesToolSpec creates the specification for the glob_files tool.
func NewGlobFilesToolSpec() ToolSpec {
	return ToolSpec{
		Name:        "glob_files",
		Description: "Find files matching a glob pattern, sorted by most recently modified first.",
		Parameters: []ToolParameter{
			{Name: "pattern", Type: "string", Description: "The glob pattern, e.g. **/*.go", Required: true},
			{Name: "directory", Type: "string", Description: "Directory to search (defaults to the working directory)", Required: false},
		},
		DefaultTimeoutMs: DefaultToolTimeoutMs,
	}
}

// NewShellToolSpec creates the specification for the shell tool.
func NewShellToolSpec() ToolSpec {
	return ToolSpec{
		Name:        "shell",
		Description: "Execute a shell command and return the output. Use this to run bash commands, list files, read command output, etc.",
		Parameters: []ToolParameter{
			{Name: "command", Type: "string", Description: "The shell command to execute (will be run with bash -c)", Required: true},
			{Name: "timeout_ms", Type: "number", Description: "The timeout for the command in milliseconds. Defaults to 10000 (10s). Use longer timeouts for builds, installs, or test suites.", Required: false},
			{Name: "disable_sandbox", Type: "boolean", Description: "Run without sandbox restrictions. Requires approval.", Required: false},
		},
		DefaultTimeoutMs: DefaultShellTimeoutMs,
	}
}

// NewReadOutputToolSpec creates the specification for the read_output tool.
func NewReadOutputToolSpec() ToolSpec {
	return ToolSpec{
		Name:        "read_output",
		Description: "Read a saved overflow output file by line range. Use the path returned by a truncated tool result.",
		Parameters: []ToolParameter{
			{Name: "path", Type: "string", Description: "The saved output file path", Required: true},
			{Name: "offset", Type: "integer", Description: "Starting line number (0-indexed, optional)", Required: false},
			{Name: "limit", Type: "integer", Description: "Maximum number of lines to return (optional)", Required: false},
		},
		DefaultTimeoutMs: DefaultReadFileTimeoutMs,
	}
}

// AllToolSpecs returns the specifications for the full tool surface.
func AllToolSpecs() []ToolSpec {
	return []ToolSpec{
		NewReadFileToolSpec(),
		NewWriteFileToolSpec(),
		NewEditFileToolSpec(),
		NewDeleteFileToolSpec(),
		NewListDirToolSpec(),
		NewFileExistsToolSpec(),
		NewGrepToolSpec(),
		NewGlobFilesToolSpec(),
		NewShellToolSpec(),
		NewReadOutputToolSpec(),
	}
}
