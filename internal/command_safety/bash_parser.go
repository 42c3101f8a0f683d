// Package command_safety classifies shell commands as safe, dangerous, or
// unknown, driving the auto-approval decision for command execution.
package command_safety

import (
	"path/filepath"
	"strings"
)

// ParseShellLcPlainCommands parses bash/zsh -lc "..." into individual commands.
// Returns nil if not a bash/zsh -lc invocation or if script has unsafe constructs.
func ParseShellLcPlainCommands(command []string) [][]string {
	_, script := extractBashCommand(command)
	if script == "" {
		return nil
	}
	return parseWordOnlyCommandsSequence(script)
}

// extractBashCommand extracts (shell, script) from ["bash", "-lc", "script"],
// ["zsh", "-lc", "script"] or ["sh", "-lc", "script"]. Also accepts "-c".
func extractBashCommand(command []string) (shell, script string) {
	if len(command) != 3 {
		return "", ""
	}
	shell = command[0]
	flag := command[1]
	script = command[2]

	if flag != "-lc" && flag != "-c" {
		return "", ""
	}

	base := filepath.Base(shell)
	switch base {
	case "bash", "zsh", "sh":
		return shell, script
	default:
		return "", ""
	}
}

// parseWordOnlyCommandsSequence parses a bash script into individual commands.
// Only accepts word-only commands joined by &&, ||, ;, |.
// Rejects redirections, subshells, variable expansion, command substitution,
// background jobs, and other unsafe constructs.
// Returns nil if the script contains any unsafe constructs.
func parseWordOnlyCommandsSequence(script string) [][]string {
	p := &parser{
		src: script,
		pos: 0,
	}
	return p.parse()
}

type parser struct {
	src string
	pos int
}

func (p *parser) parse() [][]string {
	var commands [][]string
	var currentWords []string
	needCommand := false // true after an operator, expecting a following command

	for p.pos < len(p.src) {
		p.skipWhitespace()
		if p.pos >= len(p.src) {
			break
		}

		ch := p.src[p.pos]

		// Comment: skip to end of line
		if ch == '#' {
			for p.pos < len(p.src) && p.src[p.pos] != '\n' {
				p.pos++
			}
			continue
		}

		// Reject unsafe characters
		if ch == '>' || ch == '<' || ch == '(' || ch == ')' || ch == '`' || ch == '$' {
			return nil
		}

		// Handle operators: &&, ||, ;, |
		if ch == '&' {
			if p.pos+1 < len(p.src) && p.src[p.pos+1] == '&' {
				// && operator
				if len(currentWords) == 0 {
					return nil // operator with no preceding command
				}
				commands = append(commands, currentWords)
				currentWords = nil
				needCommand = true
				p.pos += 2
				continue
			}
			// Bare & (background job) - reject
			return nil
		}

		if ch == '|' {
			if p.pos+1 < len(p.src) && p.src[p.pos+1] == '|' {
				// || operator
				if len(currentWords) == 0 {
					return nil
				}
				commands = append(commands, currentWords)
				currentWords = nil
				needCommand = true
				p.pos += 2
				continue
			}
			// | pipe operator
			if len(currentWords) == 0 {
				return nil
			}
			commands = append(commands, currentWords)
			currentWords = nil
			needCommand = true
			p.pos++
			continue
		}

		if ch == ';' {
			if len(currentWords) == 0 {
				return nil
			}
			commands = append(commands, currentWords)
			currentWords = nil
			needCommand = true
			p.pos++
			continue
		}

		// Parse a word (possibly concatenated with quotes)
		word := p.parseWord()
		if word == nil {
			return nil // parse error
		}

		// Reject variable assignment: if this is the first word of a command
		// and it contains '=', it's a variable assignment like FOO=bar.
		if len(currentWords) == 0 && strings.Contains(*word, "=") {
			return nil
		}

		currentWords = append(currentWords, *word)
		needCommand = false
	}

	// Reject trailing operator (e.g. "ls &&")
	if needCommand {
		return nil
	}

	// Emit the last command if any
	if len(currentWords) > 0 {
		commands = append(commands, currentWords)
	}

	if len(commands) == 0 {
		return nil
	}

	return commands
}

// parseWord parses one "word" which may be a plain token, a quoted string,
// or a concatenation of these (e.g. -g"*.py" or "/usr"'/'"local"/bin).
// Returns nil on error (unsafe construct encountered).
func (p *parser) parseWord() *string {
	var result strings.Builder
	gotAny := false

	for p.pos < len(p.src) {
		ch := p.src[p.pos]

		// Whitespace or operator terminates the word
		if ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' {
			break
		}
		if ch == '&' || ch == '|' || ch == ';' || ch == '#' {
			break
		}

		// Reject unsafe characters
		if ch == '>' || ch == '<' || ch == '(' || ch == ')' || ch == '`' || ch == '$' {
			return nil
		}

		// Reject = in first word position (variable assignment).
		// Mid-word = is fine (--flag=value); the parse loop rejects
		// FOO=bar by checking the first word of each command.
		if ch == '=' && !gotAny {
			return nil
		}

		if ch == '\'' {
			// Single-quoted string
			s := p.parseSingleQuoted()
			if s == nil {
				return nil
			}
			result.WriteString(*s)
			gotAny = true
			continue
		}

		if ch == '"' {
			// Double-quoted string
			s := p.parseDoubleQuoted()
			if s == nil {
				return nil
			}
			result.WriteString(*s)
			gotAny = true
			continue
		}

		// Plain character - part of unquoted word
		result.WriteByte(ch)
		p.pos++
		gotAny = true
	}

	if !gotAny {
		return nil
	}

	s := result.String()
	return &s
}

// parseSingleQuoted parses a single-quoted string 'content'.
// Returns the content without quotes, or nil on error.
func (p *parser) parseSingleQuoted() *string {
	if p.pos >= len(p.src) || p.src[p.pos] != '\'' {
		return nil
	}
	p.pos++ // skip opening '

	var result strings.Builder
	for p.pos < len(p.src) {
		ch := p.src[p.pos]
		if ch == '\'' {
			p.pos++ // skip closing '
			s := result.String()
			return &s
		}
		result.WriteByte(ch)
		p.pos++
	}

	// Unterminated single quote
	return nil
}

// parseDoubleQuoted parses a double-quoted string "content".
// Rejects any $ or ` inside (no expansion/substitution allowed).
// Returns the content without quotes, or nil on error.
func (p *parser) parseDoubleQuoted() *string {
	if p.pos >= len(p.src) || p.src[p.pos] != '"' {
		return nil
	}
	p.pos++ // skip opening "

	var result strings.Builder
	for p.pos < len(p.src) {
		ch := p.src[p.pos]
		if ch == '"' {
			p.pos++ // skip closing "
			s := result.String()
			return &s
		}
		// Reject expansions and substitutions inside double quotes
		if ch == '$' || ch == '`' {
			return nil
		}
		result.WriteByte(ch)
		p.pos++
	}

	// Unterminated double quote
	return nil
}

func (p *parser) skipWhitespace() {
	for p.pos < len(p.src) {
		ch := p.src[p.pos]
		if ch != ' ' && ch != '\t' && ch != '\n' && ch != '\r' {
			break
		}
		p.pos++
	}
}
