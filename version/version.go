// Package version tracks the application version and discovers newer releases.
package version

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/metafates/gache"
	"github.com/tidwall/gjson"
	"github.com/vidlink-cli/vidlink/constant"
	"github.com/vidlink-cli/vidlink/filesystem"
	"github.com/vidlink-cli/vidlink/network"
	"github.com/vidlink-cli/vidlink/where"
)

var versionCacher = gache.New[string](&gache.Options{
	Path:       filepath.Join(where.Cache(), "version.json"),
	Lifetime:   time.Hour * 24 * 2,
	FileSystem: &filesystem.GacheFs{},
})

// Latest returns the newest released version without the v prefix.
// The answer is cached for two days to stay clear of the API rate limit.
func Latest() (string, error) {
	return latest(constant.ReleasesAPI)
}

func latest(endpoint string) (string, error) {
	ver, expired, err := versionCacher.Get()
	if err != nil {
		return "", err
	}

	if !expired && ver != "" {
		return ver, nil
	}

	resp, err := network.NewResty().R().Get(endpoint)
	if err != nil {
		return "", err
	}

	if resp.IsError() {
		return "", errors.New("release lookup: " + resp.Status())
	}

	tag := gjson.GetBytes(resp.Body(), "tag_name").String()
	if tag == "" {
		return "", errors.New("empty tag name")
	}

	version := strings.TrimPrefix(tag, "v")
	_ = versionCacher.Set(version)
	return version, nil
}
