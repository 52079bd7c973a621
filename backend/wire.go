package backend

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/subgate-cli/subgate/media"
)

// flexString accepts any JSON scalar and keeps its textual form.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	*f = flexString(data)
	return nil
}

// flexBool accepts booleans, numbers and strings.
type flexBool bool

func (f *flexBool) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case bool:
		*f = flexBool(value)
	case float64:
		*f = value != 0
	case string:
		b, _ := strconv.ParseBool(value)
		*f = flexBool(b || value == "1" || value == "是")
	default:
		*f = false
	}
	return nil
}

type envelope[T any] struct {
	Code flexString `json:"code"`
	Msg  string     `json:"msg"`
	Data T          `json:"data"`
}

type resourcesData struct {
	TVInfo    *media.Info `json:"tv_info"`
	MovieInfo *media.Info `json:"movie_info"`
	Available *struct {
		Has115    flexBool `json:"has_115"`
		HasMagnet flexBool `json:"has_magnet"`
		HasEd2k   flexBool `json:"has_ed2k"`
		HasVideo  flexBool `json:"has_video"`
	} `json:"available_resources"`
}

type listingData struct {
	Resources []wireItem `json:"resources"`
}

type episodesData struct {
	EpisodeCount int `json:"episode_count"`
}

type wireItem struct {
	Name       flexString   `json:"name"`
	Title      flexString   `json:"title"`
	Size       flexString   `json:"size"`
	ShareLink  string       `json:"share_link"`
	Magnet     string       `json:"magnet"`
	Ed2k       string       `json:"ed2k"`
	Link       string       `json:"link"`
	Resolution flexString   `json:"resolution"`
	Quality    flexString   `json:"quality"`
	Source     flexString   `json:"source"`
	ZhSub      flexBool     `json:"zh_sub"`
	Season     flexString   `json:"season"`
	SeasonList []flexString `json:"season_list"`
	Type       string       `json:"type"`
}

func (w wireItem) toItem(kind media.Kind) media.Item {
	item := media.Item{
		Kind:       kind,
		Size:       string(w.Size),
		Resolution: string(w.Resolution),
		Quality:    string(w.Quality),
		Source:     string(w.Source),
		ZhSub:      bool(w.ZhSub),
		Season:     string(w.Season),
	}

	name, title := string(w.Name), string(w.Title)
	switch kind {
	case media.Pan115:
		item.DisplayName = firstNonEmpty(title, name)
		item.Locator = w.ShareLink
	case media.Magnet:
		item.DisplayName = firstNonEmpty(name, title)
		item.Locator = w.Magnet
	case media.Ed2k:
		item.DisplayName = firstNonEmpty(name, title)
		item.Locator = w.Ed2k
	case media.Video:
		item.DisplayName = firstNonEmpty(name, title)
		item.Locator = w.Link
		item.StreamType = w.Type
	}
	if item.DisplayName == "" {
		item.DisplayName = "unknown resource"
	}

	for _, s := range w.SeasonList {
		if n, err := strconv.Atoi(string(s)); err == nil {
			item.Seasons = append(item.Seasons, n)
		}
	}

	return item
}

// toItems converts wire rows and drops rows without a locator.
func toItems(kind media.Kind, rows []wireItem) []media.Item {
	items := make([]media.Item, 0, len(rows))
	for _, row := range rows {
		if item := row.toItem(kind); item.Locator != "" {
			items = append(items, item)
		}
	}
	return items
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
