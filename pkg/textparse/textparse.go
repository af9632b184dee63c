package textparse

import "regexp"

var (
	hashtagPattern = regexp.MustCompile(`#(\w+)`)
	mentionPattern = regexp.MustCompile(`@(\w+)`)
)

// Hashtags extracts the distinct #word tokens of text, in first-occurrence
// order.
func Hashtags(text string) []string {
	return distinct(hashtagPattern.FindAllStringSubmatch(text, -1))
}

// Mentions extracts the distinct @word tokens of text, in first-occurrence
// order. Whether a token names a real user is the caller's problem.
func Mentions(text string) []string {
	return distinct(mentionPattern.FindAllStringSubmatch(text, -1))
}

func distinct(matches [][]string) []string {
	seen := map[string]struct{}{}
	var result []string
	for _, m := range matches {
		if _, ok := seen[m[1]]; ok {
			continue
		}

		seen[m[1]] = struct{}{}
		result = append(result, m[1])
	}

	return result
}
