package source

// Enrichment is the tag/summary record produced by the enrichment service.
type Enrichment struct {
	Tags      []string `json:"tags"`
	Summary   string   `json:"summary"`
	Sentiment string   `json:"sentiment"`
}
