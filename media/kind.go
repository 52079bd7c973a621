package media

import "fmt"

// Kind is a resource category offered by the provider.
type Kind string

const (
	Pan115 Kind = "115"
	Magnet Kind = "magnet"
	Ed2k   Kind = "ed2k"
	Video  Kind = "video"
)

// Kinds is the fixed presentation order.
var Kinds = []Kind{Pan115, Magnet, Ed2k, Video}

// ParseKind accepts the wire names plus a few aliases.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "115", "pan115":
		return Pan115, nil
	case "magnet":
		return Magnet, nil
	case "ed2k":
		return Ed2k, nil
	case "video", "stream":
		return Video, nil
	}
	return "", fmt.Errorf("unknown resource kind %q", s)
}

// Wire is the name used in CMS routes. String is for display only.
func (k Kind) Wire() string {
	return string(k)
}

func (k Kind) String() string {
	switch k {
	case Pan115:
		return "115 share"
	case Magnet:
		return "magnet"
	case Ed2k:
		return "ed2k"
	case Video:
		return "stream"
	}
	return string(k)
}

// Relayable reports whether items of k can be handed to the cloud download queue.
func (k Kind) Relayable() bool {
	return k != Video
}

// Availability records which kinds have at least one item.
type Availability map[Kind]bool

// None reports availability with every kind absent.
func None() Availability {
	return Availability{Pan115: false, Magnet: false, Ed2k: false, Video: false}
}

// First returns the first available kind in presentation order.
func (a Availability) First() (Kind, bool) {
	for _, k := range Kinds {
		if a[k] {
			return k, true
		}
	}
	return "", false
}

// Scope narrows a listing. The zero value is the whole item.
type Scope struct {
	Season  int `json:"season,omitempty"`
	Episode int `json:"episode,omitempty"`
}

func Whole() Scope {
	return Scope{}
}

func SeasonScope(season int) Scope {
	return Scope{Season: season}
}

func EpisodeScope(season, episode int) Scope {
	return Scope{Season: season, Episode: episode}
}

func (s Scope) IsWhole() bool {
	return s.Season == 0 && s.Episode == 0
}

func (s Scope) IsEpisode() bool {
	return s.Season > 0 && s.Episode > 0
}

func (s Scope) String() string {
	switch {
	case s.IsEpisode():
		return fmt.Sprintf("S%02dE%02d", s.Season, s.Episode)
	case s.Season > 0:
		return fmt.Sprintf("S%02d", s.Season)
	default:
		return "all"
	}
}
