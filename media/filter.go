package media

import (
	"fmt"
	"strings"
)

// EpisodePatterns are the substrings searched for in a display name when
// narrowing a season listing to one episode. Matching is best-effort:
// a bare zero-padded number will also hit unrelated digits in a name.
func EpisodePatterns(episode int) []string {
	return []string{
		fmt.Sprintf("E%02d", episode),
		fmt.Sprintf("EP%02d", episode),
		fmt.Sprintf("第%d集", episode),
		fmt.Sprintf("%02d", episode),
	}
}

// FilterEpisode narrows items to those naming episode.
// When nothing matches it returns all items and exact=false.
func FilterEpisode(items []Item, episode int) (filtered []Item, exact bool) {
	patterns := EpisodePatterns(episode)

	for _, item := range items {
		for _, p := range patterns {
			if strings.Contains(item.DisplayName, p) {
				filtered = append(filtered, item)
				break
			}
		}
	}

	if len(filtered) == 0 {
		return items, false
	}
	return filtered, true
}
