// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Proxy - these keys configure the CORS-bypassing relay every upstream request goes through.
const (
	ProxyRaw            = "proxy.raw"
	ProxyJSON           = "proxy.json"
	ProxyImpersonateTLS = "proxy.impersonate_tls"
)

// Bilibili - these keys point the resolvers at the metadata and parsing services.
const (
	BilibiliMetadataEndpoint = "bilibili.metadata_endpoint"
	BilibiliStreamEndpoint   = "bilibili.stream_endpoint"
	BilibiliEmbedTemplate    = "bilibili.embed_template"
)

// Enrichment - these keys configure the tag/summary service.
const (
	EnrichEnable        = "enrich.enable"
	EnrichEndpoint      = "enrich.endpoint"
	EnrichAPIKey        = "enrich.api_key"
	EnrichFallbackDelay = "enrich.fallback_delay"
	EnrichCacheTTL      = "enrich.cache_ttl"
)

// Buffering - these keys bound the in-memory download of native sources.
const (
	BufferStallTimeout = "buffer.stall_timeout"
	BufferMaxSize      = "buffer.max_size"
)

// Media Playback - these keys maintain the configuration for external video players.
const (
	Player                     = "player.default"
	PlayerCompletionPercentage = "player.completion_percentage"
	PlayerSeekStep             = "player.seek_step"
)

// Output Locations - these keys override where downloads and captured frames are written.
const (
	DownloadsPath = "downloads.path"
	CapturesPath  = "captures.path"
)

// External Viewing - these keys choose where embed pages and fallback URLs are opened.
const (
	Browser = "browser.app"
)

// HTTP API - these keys configure the local server.
const (
	ServerAddress        = "server.address"
	ServerAllowedOrigins = "server.allowed_origins"
)

// History Tracking - these keys configure the persistence of playback state.
const (
	HistorySaveOnPlay = "history.save_on_play"
)

// Search Interaction - these keys define suggestions for previously parsed links.
const (
	SearchShowQuerySuggestions = "search.show_query_suggestions"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
