package inline

import (
	"encoding/json"

	"github.com/vidlink-cli/vidlink/source"
)

// Entry is the outcome for one input.
type Entry struct {
	Input  string       `json:"input"`
	Result *source.Data `json:"result,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// Output is the document written in json mode.
type Output struct {
	Results []*Entry `json:"results"`
}

func asJson(entries []*Entry) ([]byte, error) {
	if entries == nil {
		entries = []*Entry{}
	}

	return json.Marshal(&Output{Results: entries})
}
