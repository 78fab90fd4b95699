package source

// Video is one playable or downloadable variant of a result.
type Video struct {
	URL          string `json:"url"`
	Format       string `json:"format"`
	Quality      string `json:"quality"`
	Size         int64  `json:"size,omitempty"`
	Downloadable bool   `json:"isDownloadable"`
}

// String returns the quality or URL for display.
func (v *Video) String() string {
	if v.Quality != "" {
		return v.Quality
	}
	return v.URL
}
