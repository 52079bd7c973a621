// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Backend CMS - these keys locate the media CMS and its resource provider.
const (
	BackendBaseURL  = "backend.base_url"
	BackendProvider = "backend.provider"
	BackendTimeout  = "backend.timeout"
)

// Interception - these keys select the intercepted subscription route.
const (
	InterceptPath = "intercept.path"
)

// Reverse proxy hosting the web application.
const (
	ProxyListen   = "proxy.listen"
	ProxyUpstream = "proxy.upstream"
)

// Credentials.
const (
	AuthToken = "auth.token"
)

// Network transport tuning.
const (
	NetworkChromeTLS = "network.chrome_tls"
)

// Metrics endpoint.
const (
	MetricsListen = "metrics.listen"
)

// Journal of confirmed subscriptions and relays.
const (
	HistorySave = "history.save"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Terminal User Interface (TUI) - these keys define the primary interactive environment's styling and logic.
const (
	TUIItemSpacing = "tui.item_spacing"
	TUIShowURLs    = "tui.show_urls"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored         = "cli.colored"
	CliVersionCheck    = "cli.version_check"
	CliVersionInterval = "cli.version_interval"
)
