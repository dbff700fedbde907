// Package command parses slash-commands into a closed set of command kinds.
// Parsing is state-free; execution belongs to the coordinator.
package command

import (
	"fmt"
	"strings"
)

// Kind identifies a recognized slash-command.
type Kind int

const (
	KindUnknown Kind = iota
	KindHelp
	KindUsers
	KindNick
	KindMe
)

// Command is a parsed slash-command with its arguments.
type Command struct {
	Kind Kind
	// Name is the lowercased command token as typed, kept for reporting
	// unknown commands. Empty for a bare "/".
	Name string
	// Args is the trimmed remainder after the command token. May be empty.
	Args string
}

// Help and usage strings unicast back to the invoker.
const (
	HelpText  = "Available commands: /help, /users, /nick <new_name>, /me <action>"
	UsageNick = "Usage: /nick <new_name>"
	UsageMe   = "Usage: /me <action>"
)

// Parse interprets text (which must start with "/") as a slash-command.
// The command token is matched case-insensitively.
func Parse(text string) Command {
	rest := strings.TrimPrefix(text, "/")

	name, args := rest, ""
	if i := strings.IndexByte(rest, ' '); i >= 0 {
		name, args = rest[:i], rest[i+1:]
	}
	name = strings.ToLower(name)
	args = strings.TrimSpace(args)

	cmd := Command{Name: name, Args: args}
	switch name {
	case "help":
		cmd.Kind = KindHelp
	case "users":
		cmd.Kind = KindUsers
	case "nick":
		cmd.Kind = KindNick
	case "me":
		cmd.Kind = KindMe
	default:
		cmd.Kind = KindUnknown
	}
	return cmd
}

// Unknown formats the reply for an unrecognized command. A bare "/" with no
// token reports as "Unknown command: /".
func (c Command) Unknown() string {
	return fmt.Sprintf("Unknown command: /%s", c.Name)
}

// UsersReply formats the /users response for the given presence list.
func UsersReply(names []string) string {
	return fmt.Sprintf("Users online: %s", strings.Join(names, ", "))
}
