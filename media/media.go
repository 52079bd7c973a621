// Package media holds the identity of an intercepted item and the resource model browsed for it.
package media

import (
	"fmt"

	"github.com/samber/mo"
	"github.com/subgate-cli/subgate/constant"
)

// Type is the TMDB media type.
type Type string

const (
	Movie Type = "movie"
	TV    Type = "tv"
)

// ParseType maps loose spellings to a Type. Unknown values are movies.
func ParseType(s string) Type {
	switch s {
	case "tv", "TV", "series", "show":
		return TV
	default:
		return Movie
	}
}

func (t Type) Episodic() bool {
	return t == TV
}

// Request is the identity of one intercepted item. It is never mutated after Resolve.
type Request struct {
	TMDBID       string            `json:"tmdb_id"`
	Type         Type              `json:"type"`
	Title        string            `json:"title"`
	PosterPath   mo.Option[string] `json:"poster_path"`
	BackdropPath mo.Option[string] `json:"backdrop_path"`
	Year         mo.Option[string] `json:"year"`

	// Payload is the decoded body as the host application sent it.
	// It is what gets submitted once the user confirms.
	Payload map[string]any `json:"-"`
}

// DisplayTitle falls back to a placeholder for untitled items.
func (r *Request) DisplayTitle() string {
	if r.Title == "" {
		return "unknown title"
	}
	return r.Title
}

func (r *Request) TMDBURL() string {
	return fmt.Sprintf("%s/%s/%s", constant.TMDBSite, r.Type, r.TMDBID)
}

func (r *Request) PosterURL() mo.Option[string] {
	return imageURL(constant.PosterSize, r.PosterPath)
}

func (r *Request) BackdropURL() mo.Option[string] {
	return imageURL(constant.BackdropSize, r.BackdropPath)
}

func imageURL(size string, path mo.Option[string]) mo.Option[string] {
	if p, ok := path.Get(); ok {
		return mo.Some(constant.TMDBImageBase + "/" + size + p)
	}
	return mo.None[string]()
}

// Body is the payload to submit for r. Requests built without a payload
// submit the normalized identity instead.
func (r *Request) Body() map[string]any {
	if len(r.Payload) > 0 {
		return r.Payload
	}

	body := map[string]any{
		"tmdb_id": r.TMDBID,
		"type":    string(r.Type),
		"title":   r.Title,
	}
	if p, ok := r.PosterPath.Get(); ok {
		body["poster_path"] = p
	}
	if p, ok := r.BackdropPath.Get(); ok {
		body["backdrop_path"] = p
	}
	if y, ok := r.Year.Get(); ok {
		body["year"] = y
	}
	return body
}

// Info is the metadata returned with resource discovery.
type Info struct {
	Overview string `json:"overview"`
	Seasons  int    `json:"number_of_seasons"`
}

// SeasonCount is the number of selectable seasons. Unknown counts default to one.
func (i Info) SeasonCount() int {
	if i.Seasons < 1 {
		return 1
	}
	return i.Seasons
}
