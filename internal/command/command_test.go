package command

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Command
	}{
		{"help", "/help", Command{Kind: KindHelp, Name: "help"}},
		{"case insensitive", "/HELP", Command{Kind: KindHelp, Name: "help"}},
		{"users", "/users", Command{Kind: KindUsers, Name: "users"}},
		{"nick with arg", "/nick carol", Command{Kind: KindNick, Name: "nick", Args: "carol"}},
		{"nick trims args", "/nick   carol  ", Command{Kind: KindNick, Name: "nick", Args: "carol"}},
		{"nick without arg", "/nick", Command{Kind: KindNick, Name: "nick"}},
		{"me with multiword arg", "/me waves at everyone", Command{Kind: KindMe, Name: "me", Args: "waves at everyone"}},
		{"me without arg", "/me", Command{Kind: KindMe, Name: "me"}},
		{"unknown", "/frobnicate now", Command{Kind: KindUnknown, Name: "frobnicate", Args: "now"}},
		{"bare slash", "/", Command{Kind: KindUnknown, Name: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Parse(tt.text))
		})
	}
}

func TestUnknown(t *testing.T) {
	require.Equal(t, "Unknown command: /frobnicate", Parse("/frobnicate").Unknown())
	require.Equal(t, "Unknown command: /", Parse("/").Unknown())
}

func TestUsersReply(t *testing.T) {
	require.Equal(t, "Users online: alice, bob", UsersReply([]string{"alice", "bob"}))
	require.Equal(t, "Users online: ", UsersReply(nil))
}
