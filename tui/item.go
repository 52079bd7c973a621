package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/spf13/viper"
	"github.com/subgate-cli/subgate/icon"
	"github.com/subgate-cli/subgate/key"
	"github.com/subgate-cli/subgate/media"
	"github.com/subgate-cli/subgate/style"
)

// listItem shows one resource row.
type listItem struct {
	item    media.Item
	relayed bool
}

func (t *listItem) Title() string {
	title := t.item.DisplayName
	if t.relayed {
		title += " " + style.Fg(style.SuccessColor)(icon.Get(icon.Relay))
	}
	return title
}

func (t *listItem) Description() string {
	var parts []string

	if t.item.Size != "" {
		parts = append(parts, style.Fg(style.AccentColor)(t.item.Size))
	}
	for _, tag := range t.item.Tags() {
		parts = append(parts, style.Faint(tag))
	}
	if viper.GetBool(key.TUIShowURLs) {
		parts = append(parts, style.Fg(style.FaintColor)(t.item.Locator))
	}

	return strings.Join(parts, " • ")
}

func (t *listItem) FilterValue() string {
	return t.item.DisplayName
}

func toListItems(listing *media.Listing, relayed map[string]bool) []list.Item {
	if listing.Empty() {
		return []list.Item{}
	}

	items := make([]list.Item, len(listing.Items))
	for i, it := range listing.Items {
		items[i] = &listItem{item: it, relayed: relayed[it.Locator]}
	}
	return items
}
