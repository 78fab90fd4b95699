// Package history tracks played videos and how far they were watched.
package history

import (
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/vidlink-cli/vidlink/filesystem"
	"github.com/vidlink-cli/vidlink/source"
	"github.com/vidlink-cli/vidlink/where"
	"golang.org/x/exp/slices"
)

// cacher provides a disk-backed registry for playback progress records.
var cacher = gache.New[map[string]*SavedVideo](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

var now = time.Now

// mu serializes access to the shared map gache returns.
var mu sync.Mutex

// Get returns a snapshot of every saved record keyed by input.
func Get() (map[string]*SavedVideo, error) {
	mu.Lock()
	defer mu.Unlock()

	saved, err := load()
	if err != nil {
		return nil, err
	}
	return lo.Assign(saved), nil
}

func load() (map[string]*SavedVideo, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*SavedVideo), nil
	}
	return cached, nil
}

// Sorted returns the saved records, most recently played first.
func Sorted() ([]*SavedVideo, error) {
	saved, err := Get()
	if err != nil {
		return nil, err
	}

	records := lo.Values(saved)
	slices.SortFunc(records, func(a, b *SavedVideo) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
	return records, nil
}

// Latest returns the most recently played record.
func Latest() mo.Option[*SavedVideo] {
	records, err := Sorted()
	if err != nil || len(records) == 0 {
		return mo.None[*SavedVideo]()
	}
	return mo.Some(records[0])
}

// Save records playback of data at position seconds, percentage watched.
func Save(data *source.Data, percentage, position float64) error {
	mu.Lock()
	defer mu.Unlock()

	saved, err := load()
	if err != nil {
		return err
	}

	record := newSavedVideo(data)

	// Re-watching never lowers the watched percentage; the position always follows the latest session.
	if existing, exists := saved[record.encode()]; exists {
		percentage = max(percentage, existing.WatchedPercentage)
	}
	record.WatchedPercentage = percentage
	record.Position = position
	record.UpdatedAt = now()

	saved[record.encode()] = record

	return cacher.Set(saved)
}

// Remove permanently deletes a record.
func Remove(video *SavedVideo) error {
	mu.Lock()
	defer mu.Unlock()

	saved, err := load()
	if err != nil {
		return err
	}

	delete(saved, video.encode())
	return cacher.Set(saved)
}
