package mirror

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComposeStatusShortText(t *testing.T) {
	got := composeStatus("I posted \"Hello\" on LuvList", "https://luvlist.example/posts/1", 240)
	require.Equal(t, "I posted \"Hello\" on LuvList\n\nhttps://luvlist.example/posts/1", got)
}

func TestComposeStatusTruncates(t *testing.T) {
	link := "https://luvlist.example/posts/1"
	long := strings.Repeat("a", 400)

	maxText := blueskyCharBudget - len(link) - 3
	got := composeStatus(long, link, maxText)

	require.True(t, strings.HasSuffix(got, "\n\n"+link))
	text := strings.TrimSuffix(got, "\n\n"+link)
	require.Equal(t, strings.Repeat("a", maxText)+"…", text)
}

func TestComposeStatusCountsRunes(t *testing.T) {
	link := "https://luvlist.example/says/9"
	long := strings.Repeat("ありがとう", 100)

	maxText := mastodonCharBudget - len(link) - 4
	got := composeStatus(long, link, maxText)

	text := strings.TrimSuffix(got, "\n\n"+link)
	runes := []rune(text)
	require.Len(t, runes, maxText+1)
	require.Equal(t, '…', runes[len(runes)-1])
}

func TestComposeStatusNegativeBudget(t *testing.T) {
	// A link longer than the whole budget leaves no room for text at all.
	got := composeStatus("body", "https://example.com/x", -5)
	require.Equal(t, "…\n\nhttps://example.com/x", got)
}
