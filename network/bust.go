package network

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// now is swapped in tests.
var now = time.Now

// Timestamp returns the value used for the t= cache-busting parameter.
func Timestamp() string {
	return strconv.FormatInt(now().UnixMilli(), 10)
}

// CacheBust sets t=<unix millis> on the URL so intermediaries cannot answer from a stale cache.
func CacheBust(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		sep := "?"
		if strings.Contains(raw, "?") {
			sep = "&"
		}
		return raw + sep + "t=" + Timestamp()
	}

	q := u.Query()
	q.Set("t", Timestamp())
	u.RawQuery = q.Encode()
	return u.String()
}
