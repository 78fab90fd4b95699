// Package download saves a resolved video to the downloads directory.
//
// A buffered copy is written straight from memory. Otherwise the source is fetched again.
// When saving is impossible or fails, the resource is handed to the system's default handler so
// the user can save it there.
package download

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/samber/mo"
	"github.com/vidlink-cli/vidlink/classify"
	"github.com/vidlink-cli/vidlink/filesystem"
	"github.com/vidlink-cli/vidlink/log"
	"github.com/vidlink-cli/vidlink/network"
	"github.com/vidlink-cli/vidlink/open"
	"github.com/vidlink-cli/vidlink/source"
	"github.com/vidlink-cli/vidlink/util"
	"github.com/vidlink-cli/vidlink/where"
)

// ErrNotDownloadable is returned for results that can only be viewed externally.
var ErrNotDownloadable = errors.New("download: result has no directly downloadable source")

// Progress is called while bytes arrive. total is -1 when unknown.
type Progress func(written, total int64)

// Outcome describes what Force did.
type Outcome struct {
	// Path is the saved file. Empty when the resource was opened externally instead.
	Path string
	// External is the URL handed to the system handler, if any.
	External string
	// Cause is why the external handler was used.
	Cause error
}

// Downloader saves videos.
type Downloader struct {
	client *http.Client
	opener func(string) error
}

// New returns a Downloader over client that falls back to opener.
func New(client *http.Client, opener func(string) error) *Downloader {
	if client == nil {
		client = network.Media
	}
	if opener == nil {
		opener = open.Start
	}
	return &Downloader{client: client, opener: opener}
}

// Force saves data's first downloadable source. buffered, when present, is the complete file
// already in memory. The returned error is set only when even the external handler failed.
func (d *Downloader) Force(ctx context.Context, data *source.Data, buffered mo.Option[[]byte], progress Progress) (*Outcome, error) {
	logger := log.For("download").WithField("title", data.Title)

	video, ok := data.Downloadable()
	if !ok {
		logger.Info("not downloadable, opening externally")
		return d.external(data.External(), ErrNotDownloadable)
	}

	path := filepath.Join(where.Downloads(), FileName(data.Title, video.URL))

	var err error
	if content, ok := buffered.Get(); ok {
		err = d.write(path, content, progress)
	} else {
		err = d.fetch(ctx, video.URL, path, progress)
	}

	if err != nil {
		logger.Warnf("save failed, opening externally: %v", err)
		return d.external(video.URL, err)
	}

	logger.Infof("saved to %s", path)
	return &Outcome{Path: path}, nil
}

func (d *Downloader) external(url string, cause error) (*Outcome, error) {
	if err := d.opener(url); err != nil {
		return nil, errors.Join(cause, fmt.Errorf("open externally: %w", err))
	}
	return &Outcome{External: url, Cause: cause}, nil
}

// FileName is <title>.<ext>, with the extension taken from the URL and defaulting to mp4.
// Untitled results are named after the last path segment of the URL.
func FileName(title, rawURL string) string {
	stem := util.SanitizeFilename(title)
	if stem == "" {
		if u, err := url.Parse(rawURL); err == nil {
			stem = util.SanitizeFilename(util.FileStem(u.Path))
		}
	}
	if stem == "" {
		stem = "video"
	}

	ext, ok := classify.Extension(rawURL)
	if !ok {
		ext = "mp4"
	}
	return stem + "." + ext
}

func (d *Downloader) write(path string, data []byte, progress Progress) error {
	var body io.Reader = bytes.NewReader(data)
	if progress != nil {
		body = &countingReader{reader: body, total: int64(len(data)), progress: progress}
	}
	_, err := filesystem.WriteAtomic(path, body)
	return err
}

// fetch streams url to path.
func (d *Downloader) fetch(ctx context.Context, url, path string, progress Progress) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, network.CacheBust(url), nil)
	if err != nil {
		return err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	var body io.Reader = resp.Body
	if progress != nil {
		body = &countingReader{reader: resp.Body, total: resp.ContentLength, progress: progress}
	}

	_, err = filesystem.WriteAtomic(path, body)
	return err
}

type countingReader struct {
	reader   io.Reader
	written  int64
	total    int64
	progress Progress
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.reader.Read(p)
	if n > 0 {
		c.written += int64(n)
		c.progress(c.written, c.total)
	}
	return n, err
}
