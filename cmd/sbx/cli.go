// Package main defines the sbx CLI structure using kong.
package main

// Globals are flags shared by every command.
type Globals struct {
	Config    string `help:"Config file path (default sandbox.toml in cwd)" type:"path"`
	Workspace string `help:"Workspace directory (overrides config)"`
	Verbose   bool   `short:"v" help:"Enable debug logging"`
}

// CLI defines the command-line interface.
type CLI struct {
	Globals

	Exec     ExecCmd     `cmd:"" help:"Run a shell command through the sandbox"`
	Grep     GrepCmd     `cmd:"" help:"Search file contents"`
	Glob     GlobCmd     `cmd:"" help:"Find files matching a glob pattern"`
	Read     ReadCmd     `cmd:"" help:"Read a file, optionally a line window"`
	Classify ClassifyCmd `cmd:"" help:"Show how a command would be classified"`
	Version  VersionCmd  `cmd:"" help:"Show version information"`
}

// ExecCmd runs a shell command the way the shell tool would.
type ExecCmd struct {
	Command        []string `arg:"" help:"Command to run (joined with spaces)"`
	Cwd            string   `help:"Working directory for the command"`
	TimeoutMs      int      `help:"Timeout in milliseconds"`
	DisableSandbox bool     `help:"Run without sandbox wrapping"`
}

// GrepCmd searches file contents.
type GrepCmd struct {
	Pattern         string `arg:"" help:"Regex pattern"`
	Path            string `arg:"" optional:"" help:"File or directory to search"`
	FileType        string `help:"Restrict to a file type (go, py, ts, ...)"`
	Glob            string `help:"Restrict to files matching a glob"`
	CaseInsensitive bool   `short:"i" help:"Case-insensitive search"`
	Context         int    `short:"C" help:"Context lines around each match"`
	MaxResults      int    `help:"Maximum matches to return"`
}

// GlobCmd finds files matching a glob pattern, most recently modified first.
type GlobCmd struct {
	Pattern   string `arg:"" help:"Glob pattern (supports **)"`
	Directory string `arg:"" optional:"" help:"Directory to search"`
}

// ReadCmd reads a file or pages a saved overflow file.
type ReadCmd struct {
	Path   string `arg:"" help:"File path"`
	Offset int    `help:"0-indexed first line of the window"`
	Limit  int    `help:"Number of lines in the window"`
	Saved  bool   `help:"Page a saved overflow file instead of a workspace file"`
}

// ClassifyCmd reports the approval classification for a command.
type ClassifyCmd struct {
	Command []string `arg:"" help:"Command to classify (joined with spaces)"`
}

// VersionCmd shows version information.
type VersionCmd struct{}
