package media

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/samber/mo"
)

var (
	idKeys       = []string{"tmdb_id", "tmdbId", "tmdbid"}
	typeKeys     = []string{"type", "media_type", "mediaType"}
	titleKeys    = []string{"title", "name"}
	posterKeys   = []string{"poster_path", "posterPath"}
	backdropKeys = []string{"backdrop_path", "backdropPath"}
	yearKeys     = []string{"year", "release_year"}
)

// Resolve builds a Request from a decoded body.
// It reports false when the payload carries no TMDB identifier; callers then
// fall back to raw submission without resource browsing.
func Resolve(payload map[string]any) (*Request, bool) {
	if payload == nil {
		return nil, false
	}

	id := first(payload, idKeys)
	if id == "" {
		return nil, false
	}

	return &Request{
		TMDBID:       id,
		Type:         ParseType(first(payload, typeKeys)),
		Title:        first(payload, titleKeys),
		PosterPath:   optional(payload, posterKeys),
		BackdropPath: optional(payload, backdropKeys),
		Year:         optional(payload, yearKeys),
		Payload:      payload,
	}, true
}

func first(payload map[string]any, keys []string) string {
	for _, k := range keys {
		if s := scalar(payload[k]); s != "" {
			return s
		}
	}
	return ""
}

func optional(payload map[string]any, keys []string) mo.Option[string] {
	if s := first(payload, keys); s != "" {
		return mo.Some(s)
	}
	return mo.None[string]()
}

// scalar renders JSON scalars as strings. Form fields arrive as strings or
// single-element slices, JSON numbers as float64 or json.Number.
func scalar(v any) string {
	switch value := v.(type) {
	case string:
		return strings.TrimSpace(value)
	case json.Number:
		return value.String()
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case []string:
		if len(value) > 0 {
			return strings.TrimSpace(value[0])
		}
	case []any:
		if len(value) > 0 {
			return scalar(value[0])
		}
	}
	return ""
}
