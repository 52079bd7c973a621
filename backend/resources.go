package backend

import (
	"context"
	"fmt"

	"github.com/subgate-cli/subgate/media"
)

// Discovery is the answer of the resources endpoint.
type Discovery struct {
	Info         media.Info
	Availability media.Availability
}

// Discover fetches metadata and per-kind availability for one item.
func (c *Client) Discover(ctx context.Context, typ media.Type, id string) (*Discovery, error) {
	var env envelope[resourcesData]
	path := fmt.Sprintf("/api/%s/%s/%s/resources", c.provider, typ, id)
	if err := c.getJSON(ctx, "discover", path, &env); err != nil {
		return nil, err
	}

	d := &Discovery{Availability: media.None()}
	switch {
	case env.Data.TVInfo != nil:
		d.Info = *env.Data.TVInfo
	case env.Data.MovieInfo != nil:
		d.Info = *env.Data.MovieInfo
	}

	avail := env.Data.Available
	if avail == nil {
		return d, ErrNoAvailability
	}
	d.Availability[media.Pan115] = bool(avail.Has115)
	d.Availability[media.Magnet] = bool(avail.HasMagnet)
	d.Availability[media.Ed2k] = bool(avail.HasEd2k)
	d.Availability[media.Video] = bool(avail.HasVideo)

	return d, nil
}

// Listing fetches every item of kind for the whole media item.
func (c *Client) Listing(ctx context.Context, typ media.Type, id string, kind media.Kind) ([]media.Item, error) {
	path := fmt.Sprintf("/api/%s/%s/%s/%s", c.provider, typ, id, kind.Wire())
	return c.listing(ctx, "listing", path, kind)
}

// SeasonListing fetches every item of kind for one TV season.
func (c *Client) SeasonListing(ctx context.Context, id string, season int, kind media.Kind) ([]media.Item, error) {
	path := fmt.Sprintf("/api/%s/tv/%s/season/%d/%s", c.provider, id, season, kind.Wire())
	return c.listing(ctx, "season listing", path, kind)
}

// EpisodeListing fetches every item of kind for one TV episode.
func (c *Client) EpisodeListing(ctx context.Context, id string, season, episode int, kind media.Kind) ([]media.Item, error) {
	path := fmt.Sprintf("/api/%s/tv/%s/episode/%d/%d/%s", c.provider, id, season, episode, kind.Wire())
	return c.listing(ctx, "episode listing", path, kind)
}

// EpisodeCount returns how many episodes a season has. Zero means unknown.
func (c *Client) EpisodeCount(ctx context.Context, id string, season int) (int, error) {
	var env envelope[episodesData]
	path := fmt.Sprintf("/api/%s/tv/%s/season/%d/episodes", c.provider, id, season)
	if err := c.getJSON(ctx, "episode count", path, &env); err != nil {
		return 0, err
	}
	return env.Data.EpisodeCount, nil
}

func (c *Client) listing(ctx context.Context, op, path string, kind media.Kind) ([]media.Item, error) {
	var env envelope[listingData]
	if err := c.getJSON(ctx, op, path, &env); err != nil {
		return nil, err
	}
	return toItems(kind, env.Data.Resources), nil
}
