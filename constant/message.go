package constant

// UnsupportedInput is shown whenever no platform can be identified in the input.
const UnsupportedInput = "无法识别的链接格式。支持：Bilibili (BV/av 号、b23.tv 短链)、YouTube (watch?v= / youtu.be / embed)、直链视频 (mp4 / webm / ogg / mov)。\n" +
	"Unsupported link format. Supported: Bilibili (BV/av id, b23.tv short link), YouTube (watch?v= / youtu.be / embed), direct video files (mp4 / webm / ogg / mov)."

// Placeholders used when metadata is unavailable.
const (
	PlaceholderTitleFormat = "%s 视频 (%s)"
	DirectTitlePlaceholder = "直链视频"
)
