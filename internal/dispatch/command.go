package dispatch

import (
	"errors"
	"fmt"
	"strings"
)

// Command is the closed set of operations the terminal understands.
type Command int

// Declaration order is the order help lists them in.
const (
	CmdInfo Command = iota
	CmdWork
	CmdEducation
	CmdSkills
	CmdProjects
	CmdLanguages
	CmdInterests
	CmdContact
	CmdCache
	CmdClear
	CmdWhoami
	CmdHelp

	numCommands
)

type commandInfo struct {
	name        string
	aliases     []string
	description string
	// needsDocument commands call the cache before formatting.
	needsDocument bool
}

var commandTable = [numCommands]commandInfo{
	CmdInfo:      {name: "info", description: "Display basic personal details", needsDocument: true},
	CmdWork:      {name: "work", aliases: []string{"experience"}, description: "Show employment history and achievements", needsDocument: true},
	CmdEducation: {name: "education", description: "Display academic background", needsDocument: true},
	CmdSkills:    {name: "skills", description: "List technical proficiencies", needsDocument: true},
	CmdProjects:  {name: "projects", description: "Show portfolio highlights", needsDocument: true},
	CmdLanguages: {name: "languages", description: "Show spoken fluency levels", needsDocument: true},
	CmdInterests: {name: "interests", description: "Display personal hobbies", needsDocument: true},
	CmdContact:   {name: "contact", description: "Show email, location and social links", needsDocument: true},
	CmdCache:     {name: "cache", description: "Display data freshness and TTL"},
	CmdClear:     {name: "clear", description: "Wipe the screen"},
	CmdWhoami:    {name: "whoami", description: "Print name and professional title", needsDocument: true},
	CmdHelp:      {name: "help", description: "Show this message"},
}

var commandsByName = func() map[string]Command {
	m := make(map[string]Command)
	for i, info := range commandTable {
		m[info.name] = Command(i)
		for _, alias := range info.aliases {
			m[alias] = Command(i)
		}
	}
	return m
}()

// String returns the canonical command name.
func (c Command) String() string {
	if c < 0 || c >= numCommands {
		return fmt.Sprintf("Command(%d)", int(c))
	}
	return commandTable[c].name
}

// NeedsDocument reports whether the command reads the CV.
func (c Command) NeedsDocument() bool {
	return c >= 0 && c < numCommands && commandTable[c].needsDocument
}

// Names lists every accepted command name and alias in help order.
func Names() []string {
	var out []string
	for _, info := range commandTable {
		out = append(out, info.name)
		out = append(out, info.aliases...)
	}
	return out
}

// Invocation is a parsed command line.
type Invocation struct {
	Command Command
	// Name is the first token as typed.
	Name string
	// Args are accepted and currently ignored by every command.
	Args []string
}

// ErrEmptyLine is returned by Parse for blank input.
var ErrEmptyLine = errors.New("empty command line")

// NotFoundError reports an unrecognised command token.
type NotFoundError struct {
	Token string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("command not found: %s", e.Token)
}

// Parse trims the line, splits on whitespace and resolves the first token case-insensitively.
func Parse(line string) (Invocation, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Invocation{}, ErrEmptyLine
	}

	name := fields[0]
	cmd, ok := commandsByName[strings.ToLower(name)]
	if !ok {
		return Invocation{Name: name, Args: fields[1:]}, &NotFoundError{Token: name}
	}
	return Invocation{Command: cmd, Name: name, Args: fields[1:]}, nil
}
