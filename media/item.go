package media

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Item is one resource row. Locator is opaque and only ever checked for emptiness.
type Item struct {
	Kind        Kind   `json:"kind"`
	DisplayName string `json:"name"`
	Size        string `json:"size,omitempty"`
	Locator     string `json:"locator"`
	Resolution  string `json:"resolution,omitempty"`
	Quality     string `json:"quality,omitempty"`
	Source      string `json:"source,omitempty"`
	ZhSub       bool   `json:"zh_sub,omitempty"`
	Season      string `json:"season,omitempty"`
	Seasons     []int  `json:"season_list,omitempty"`
	StreamType  string `json:"stream_type,omitempty"`
}

// Tags lists the non-empty descriptive labels of the item.
func (i Item) Tags() []string {
	var tags []string
	for _, t := range []string{i.Resolution, i.Quality, i.Source} {
		if t != "" {
			tags = append(tags, t)
		}
	}
	if i.ZhSub {
		tags = append(tags, "zh-sub")
	}
	if i.Season != "" {
		tags = append(tags, "season "+i.Season)
	}
	if i.StreamType != "" {
		tags = append(tags, strings.ToUpper(i.StreamType))
	}
	return tags
}

// Listing is a resolved set of items for one (kind, scope).
// Approximate is set when an episode filter matched nothing and the
// whole season is shown instead.
type Listing struct {
	Kind        Kind   `json:"kind"`
	Scope       Scope  `json:"scope"`
	Items       []Item `json:"items"`
	Approximate bool   `json:"approximate,omitempty"`
}

func (l *Listing) Empty() bool {
	return l == nil || len(l.Items) == 0
}

// Match keeps items whose display name fuzzily contains query.
// An empty query returns the listing unchanged.
func (l Listing) Match(query string) Listing {
	if query == "" {
		return l
	}

	matched := make([]Item, 0, len(l.Items))
	for _, item := range l.Items {
		if fuzzy.MatchNormalizedFold(query, item.DisplayName) {
			matched = append(matched, item)
		}
	}
	l.Items = matched
	return l
}
