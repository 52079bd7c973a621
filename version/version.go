// Package version checks the CMS for a newer build.
package version

import (
	"context"
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/subgate-cli/subgate/filesystem"
	"github.com/subgate-cli/subgate/where"
)

// Fetcher returns the raw latest-version answer. *backend.Client.LatestVersion fits.
type Fetcher func(ctx context.Context) (string, error)

var (
	versionCacher     *gache.Cache[string]
	versionCacherOnce sync.Once
)

func cacher() *gache.Cache[string] {
	versionCacherOnce.Do(func() {
		versionCacher = gache.New[string](&gache.Options{
			Path:       where.VersionCache(),
			Lifetime:   2 * time.Hour,
			FileSystem: &filesystem.GacheFs{},
		})
	})
	return versionCacher
}

// Latest returns the latest build stamp, from cache when fresh.
// Only well-formed stamps are cached.
func Latest(ctx context.Context, fetch Fetcher) (string, error) {
	if ver, expired, err := cacher().Get(); err == nil && !expired && ver != "" {
		return ver, nil
	}

	ver, err := fetch(ctx)
	if err != nil {
		return "", err
	}

	if _, err := ParseBuild(ver); err != nil {
		return "", err
	}

	_ = cacher().Set(ver)
	return ver, nil
}
