package textparse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMentions(t *testing.T) {
	require.Equal(t, []string{"alice", "bob"}, Mentions("@alice hi @bob and @alice again"))
	require.Empty(t, Mentions("no mentions here"))
	require.Equal(t, []string{"under_score9"}, Mentions("see @under_score9!"))

	// The pattern only matches word characters, punctuation terminates the
	// handle.
	require.Equal(t, []string{"alice"}, Mentions("@alice's post"))
}

func TestHashtags(t *testing.T) {
	require.Equal(t, []string{"books", "films"}, Hashtags("#books and #films and #books"))
	require.Empty(t, Hashtags("plain text"))
	require.Equal(t, []string{"2024", "best_of"}, Hashtags("#2024 #best_of"))
}
