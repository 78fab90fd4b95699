package constant

// Upstream services. Every one of them can be overridden through the config registry.
const (
	ProxyRaw  = "https://api.allorigins.win/raw"
	ProxyJSON = "https://api.allorigins.win/get"

	BilibiliMetadataEndpoint = "https://api.bilibili.com/x/web-interface/view"
	BilibiliStreamEndpoint   = "https://api.injahow.cn/bparse/"
	BilibiliEmbedTemplate    = "https://player.bilibili.com/player.html?{{ .Param }}={{ .ID }}&page=1&high_quality=1&danmaku=0"

	YouTubeEmbedTemplate     = "https://www.youtube.com/embed/%s"
	YouTubeWatchTemplate     = "https://www.youtube.com/watch?v=%s"
	YouTubeThumbnailTemplate = "https://img.youtube.com/vi/%s/maxresdefault.jpg"

	// ShortLinkMarker is the host of the Bilibili redirect service.
	ShortLinkMarker = "b23.tv"
)
