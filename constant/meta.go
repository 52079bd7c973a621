// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Subgate is the canonical application identifier used for filesystem paths and CLI branding.
	Subgate = "subgate"

	// Version is the current application semantic version string.
	Version = "0.1.0"

	// Build is the numeric build stamp compared against the CMS latest-version endpoint.
	Build = 20261014

	// UserAgent is the default HTTP User-Agent string used for backend requests.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Build metadata, set with -ldflags "-X github.com/subgate-cli/subgate/constant.Revision=...".
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
