package orchestrator

import (
	"errors"
	"fmt"

	"github.com/subgate-cli/subgate/media"
)

// LoadState is the lifecycle of one (kind, scope) fetch.
type LoadState int

const (
	Unloaded LoadState = iota
	Loading
	Loaded
	Failed
)

func (s LoadState) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "error"
	}
	return fmt.Sprintf("LoadState(%d)", int(s))
}

func (s LoadState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

var (
	// ErrClosed is returned by operations on a dismissed or superseded session.
	ErrClosed = errors.New("session is closed")

	// ErrScopeRequired is returned when a TV kind is loaded without the season or episode it needs.
	ErrScopeRequired = errors.New("season and episode are required for this resource kind")

	// ErrNoIdentity is returned when a session is started for a request without a TMDB id.
	ErrNoIdentity = errors.New("request has no tmdb id")
)

// normalize applies the scope rules for typ and kind.
//
// Movies and 115 shares are always whole-item. TV magnets need a season and
// may narrow to an episode. TV ed2k and stream links only exist per episode.
func normalize(typ media.Type, kind media.Kind, scope media.Scope) (media.Scope, error) {
	if !typ.Episodic() || kind == media.Pan115 {
		return media.Whole(), nil
	}

	switch kind {
	case media.Magnet:
		if scope.Season < 1 {
			return scope, fmt.Errorf("%w: magnet needs a season", ErrScopeRequired)
		}
		if scope.Episode < 0 {
			scope.Episode = 0
		}
		return scope, nil
	case media.Ed2k, media.Video:
		if !scope.IsEpisode() {
			return scope, fmt.Errorf("%w: %s is episode-scoped", ErrScopeRequired, kind)
		}
		return scope, nil
	}

	return scope, fmt.Errorf("unknown resource kind %q", kind)
}

// DefaultScope is the first scope presentation offers for kind:
// season 1 for TV magnets, S01E01 for other episodic kinds.
func DefaultScope(typ media.Type, kind media.Kind) media.Scope {
	if !typ.Episodic() || kind == media.Pan115 {
		return media.Whole()
	}
	if kind == media.Magnet {
		return media.SeasonScope(1)
	}
	return media.EpisodeScope(1, 1)
}
