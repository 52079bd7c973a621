package orchestrator

import (
	"context"

	"github.com/subgate-cli/subgate/backend"
	"github.com/subgate-cli/subgate/media"
)

// Catalog is the read side of the CMS that sessions browse. *backend.Client implements it.
type Catalog interface {
	Discover(ctx context.Context, typ media.Type, id string) (*backend.Discovery, error)
	Listing(ctx context.Context, typ media.Type, id string, kind media.Kind) ([]media.Item, error)
	SeasonListing(ctx context.Context, id string, season int, kind media.Kind) ([]media.Item, error)
	EpisodeListing(ctx context.Context, id string, season, episode int, kind media.Kind) ([]media.Item, error)
	EpisodeCount(ctx context.Context, id string, season int) (int, error)
}

var _ Catalog = (*backend.Client)(nil)

// fetch resolves one already-normalized (kind, scope) listing.
func fetch(ctx context.Context, c Catalog, req *media.Request, kind media.Kind, scope media.Scope) (*media.Listing, error) {
	listing := &media.Listing{Kind: kind, Scope: scope}

	var (
		items []media.Item
		err   error
	)

	switch {
	case scope.IsWhole():
		items, err = c.Listing(ctx, req.Type, req.TMDBID, kind)
	case kind == media.Magnet:
		// single-episode magnets come from the season listing
		items, err = c.SeasonListing(ctx, req.TMDBID, scope.Season, kind)
		if err == nil && scope.Episode > 0 && len(items) > 0 {
			var exact bool
			items, exact = media.FilterEpisode(items, scope.Episode)
			listing.Approximate = !exact
		}
	default:
		items, err = c.EpisodeListing(ctx, req.TMDBID, scope.Season, scope.Episode, kind)
	}
	if err != nil {
		return nil, err
	}

	listing.Items = items
	return listing, nil
}
