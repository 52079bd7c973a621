package orchestrator

import (
	"github.com/samber/lo"
	"github.com/subgate-cli/subgate/media"
)

// KindView is the read-only state of one kind.
type KindView struct {
	Kind    media.Kind     `json:"kind"`
	Scope   media.Scope    `json:"scope"`
	State   LoadState      `json:"state"`
	Listing *media.Listing `json:"listing,omitempty"`
	Err     string         `json:"error,omitempty"`
}

// View is a consistent copy of a session's state for presentation.
type View struct {
	ID           string             `json:"session"`
	Request      *media.Request     `json:"request"`
	Closed       bool               `json:"closed"`
	Discovery    LoadState          `json:"discovery"`
	Info         *media.Info        `json:"info,omitempty"`
	InfoErr      string             `json:"info_error,omitempty"`
	Availability media.Availability `json:"availability"`
	Kinds        []KindView         `json:"kinds"`
	Episodes     map[int]int        `json:"episodes,omitempty"`
}

// Kind returns the view of k.
func (v View) Kind(k media.Kind) KindView {
	view, ok := lo.Find(v.Kinds, func(kv KindView) bool { return kv.Kind == k })
	if !ok {
		return KindView{Kind: k}
	}
	return view
}

// Seasons is the list of selectable seasons, 1-based.
func (v View) Seasons() []int {
	n := 1
	if v.Info != nil {
		n = v.Info.SeasonCount()
	}
	return lo.RangeFrom(1, n)
}

// Snapshot copies the session state. Listings are shared read-only.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		ID:           s.ID,
		Request:      s.Request,
		Closed:       s.closed,
		Discovery:    s.discovery,
		Info:         s.info,
		Availability: cloneAvailability(s.availability),
		Episodes:     make(map[int]int),
	}
	if s.infoErr != nil {
		v.InfoErr = reason(s.infoErr)
	}

	for _, k := range media.Kinds {
		kv := KindView{Kind: k}
		if sl, ok := s.slots[k]; ok {
			kv.Scope, kv.State, kv.Listing = sl.scope, sl.state, sl.listing
			if sl.err != nil {
				kv.Err = reason(sl.err)
			}
		}
		v.Kinds = append(v.Kinds, kv)
	}

	for season, c := range s.episodes {
		if c.state == Loaded {
			v.Episodes[season] = c.count
		}
	}

	return v
}
