// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/vidlink-cli/vidlink/color"
	"github.com/vidlink-cli/vidlink/constant"
	"github.com/vidlink-cli/vidlink/key"
	"github.com/vidlink-cli/vidlink/style"
)

// Field is a registered setting with its default value.
type Field struct {
	Key         string
	Value       any
	Description string
	// Secret values are masked whenever they are printed.
	Secret bool
}

func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env is the variable overriding the field, e.g. VIDLINK_BUFFER_STALL_TIMEOUT.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Vidlink + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// Current is the effective value, masked for secrets.
func (f *Field) Current() any {
	value := viper.Get(f.Key)
	if s, ok := value.(string); ok && f.Secret {
		return Mask(s)
	}
	return value
}

// Mask hides all but the last four characters of secret.
func Mask(secret string) string {
	if len(secret) <= 4 {
		return strings.Repeat("*", len(secret))
	}
	return strings.Repeat("*", len(secret)-4) + secret[len(secret)-4:]
}

func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
		Env         string `json:"env"`
	}{
		Key:         f.Key,
		Value:       f.Current(),
		Default:     f.Value,
		Description: f.Description,
		Type:        fmt.Sprintf("%T", f.Value),
		Env:         f.Env(),
	})
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	add := func(f Field) {
		if _, exists := Default[f.Key]; exists {
			panic("Duplicate config key: " + f.Key)
		}
		Default[f.Key] = f
		EnvExposed = append(EnvExposed, f.Key)
	}
	register := func(k string, v any, desc string) {
		add(Field{Key: k, Value: v, Description: desc})
	}
	secret := func(k string, desc string) {
		add(Field{Key: k, Value: "", Description: desc, Secret: true})
	}

	register(key.ProxyRaw, constant.ProxyRaw, "CORS-bypass proxy in raw mode.\nThe target body is returned verbatim")
	register(key.ProxyJSON, constant.ProxyJSON, "CORS-bypass proxy in json mode.\nReturns {status: {url}, contents}")
	register(key.ProxyImpersonateTLS, false, "Use a Chrome TLS fingerprint for proxy requests")
	register(key.BilibiliMetadataEndpoint, constant.BilibiliMetadataEndpoint, "Bilibili video metadata endpoint")
	register(key.BilibiliStreamEndpoint, constant.BilibiliStreamEndpoint, "Third-party parsing endpoint that returns a direct MP4 URL")
	register(key.BilibiliEmbedTemplate, constant.BilibiliEmbedTemplate, "Embed URL template used when no direct stream is available.\n{{ .Param }} is bvid or aid, {{ .ID }} the identifier")
	register(key.EnrichEnable, true, "Request tags and a summary for parsed videos")
	register(key.EnrichEndpoint, "", "Enrichment service endpoint.\nA static fallback is used when unset")
	secret(key.EnrichAPIKey, "Enrichment service credential.\nFalls back to the system keyring, see \"vidlink auth\"")
	register(key.EnrichFallbackDelay, 800, "Delay in milliseconds before the static enrichment fallback is returned")
	register(key.EnrichCacheTTL, 24, "Hours to keep enrichment results on disk. 0 disables the cache")
	register(key.BufferStallTimeout, 0, "Seconds without received data before buffering gives up and streams directly.\n0 waits indefinitely (skip manually)")
	register(key.BufferMaxSize, 0, "Largest source in MiB that is buffered in memory. 0 means unlimited")
	register(key.Player, "mpv", "Media player to use (e.g., mpv, iina)")
	register(key.PlayerCompletionPercentage, 80, "Percentage required to mark a video as watched (1-100)")
	register(key.PlayerSeekStep, 5, "Seconds to seek with the arrow keys")
	register(key.DownloadsPath, "", "Directory for downloaded videos.\nDefaults to the user download directory")
	register(key.CapturesPath, "", "Directory for captured frames.\nDefaults to a captures directory next to downloads")
	register(key.Browser, "", "Application embed pages and undownloadable videos are opened with.\nEmpty means the system default handler")
	register(key.ServerAddress, "127.0.0.1:7878", "Listen address of \"vidlink serve\"")
	register(key.ServerAllowedOrigins, []string{}, "Browser origins allowed to open the buffering socket and call the API.\nEmpty lets any origin call parse and enrich, the socket stays same-origin")
	register(key.HistorySaveOnPlay, true, "Save history on video play")
	register(key.SearchShowQuerySuggestions, true, "Suggest previously parsed links")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, true, "Enable automatic version check")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"typename": func(v any) string { return fmt.Sprintf("%T", v) },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl .Current }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
