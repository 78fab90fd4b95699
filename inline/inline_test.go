package inline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/vidlink-cli/vidlink/filesystem"
	"github.com/vidlink-cli/vidlink/key"
	"github.com/vidlink-cli/vidlink/query"
	"github.com/vidlink-cli/vidlink/source"
)

func init() {
	filesystem.SetMemMapFs()
}

type fakeParser struct{}

func (fakeParser) Parse(_ context.Context, raw string) (*source.Data, error) {
	if raw == "bad" {
		return nil, errors.New("unsupported")
	}
	return &source.Data{
		Title:      raw,
		PlayerType: source.Iframe,
		Sources: []*source.Video{
			{URL: "https://embed/" + raw},
			{URL: "https://watch/" + raw, Downloadable: true},
		},
	}, nil
}

type fakeEnricher struct{}

func (fakeEnricher) Enrich(context.Context, string, source.Platform) source.Enrichment {
	return source.Enrichment{Tags: []string{"t"}, Summary: "s", Sentiment: "neutral"}
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	Convey("Given several inputs", t, func() {
		var out bytes.Buffer
		options := &Options{
			Out:    &out,
			Parser: fakeParser{},
			Inputs: []string{"a", "bad", "b"},
		}

		Convey("Json mode keeps input order and reports failures per entry", func() {
			options.Json = true
			options.Enricher = mo.Some[Enricher](fakeEnricher{})
			So(Run(ctx, options), ShouldBeNil)

			var output Output
			So(json.Unmarshal(out.Bytes(), &output), ShouldBeNil)
			So(output.Results, ShouldHaveLength, 3)
			So(output.Results[0].Input, ShouldEqual, "a")
			So(output.Results[0].Result.AISummary, ShouldNotBeNil)
			So(output.Results[1].Error, ShouldEqual, "unsupported")
			So(output.Results[1].Result, ShouldBeNil)
			So(output.Results[2].Result.Title, ShouldEqual, "b")
		})

		Convey("Plain mode prints the primary sources", func() {
			So(Run(ctx, options), ShouldBeNil)
			So(out.String(), ShouldEqual, "https://embed/a\nhttps://embed/b\n")
		})

		Convey("Pretty mode prints a card per input and the failure", func() {
			options.Pretty = true
			So(Run(ctx, options), ShouldBeNil)
			So(out.String(), ShouldContainSubstring, "https://watch/a")
			So(out.String(), ShouldContainSubstring, "unsupported")
			So(out.String(), ShouldContainSubstring, "bad")
		})

		Convey("Plain mode honours the picker", func() {
			picker, err := ParseSourcePicker("all")
			So(err, ShouldBeNil)
			options.Picker = mo.Some(picker)

			So(Run(ctx, options), ShouldBeNil)
			So(out.String(), ShouldEqual, "https://embed/a\nhttps://watch/a\nhttps://embed/b\nhttps://watch/b\n")
		})
	})

	Convey("Given no results", t, func() {
		var out bytes.Buffer
		So(writeJson(&out, nil), ShouldBeNil)
		So(out.String(), ShouldEqual, `{"results":[]}`)
	})
}

func TestParseSourcePicker(t *testing.T) {
	Convey("ParseSourcePicker", t, func() {
		_, err := ParseSourcePicker("nope")
		So(err, ShouldNotBeNil)

		downloadable, err := ParseSourcePicker("downloadable")
		So(err, ShouldBeNil)

		data, _ := fakeParser{}.Parse(context.Background(), "x")
		So(downloadable(data), ShouldBeEmpty)

		data.PlayerType = source.Native
		So(downloadable(data), ShouldHaveLength, 1)
	})
}

func TestRunMany(t *testing.T) {
	Convey("Given a large batch resolved in parallel", t, func() {
		viper.Set(key.SearchShowQuerySuggestions, true)

		inputs := make([]string, 200)
		for i := range inputs {
			inputs[i] = fmt.Sprintf("batch-%03d", i)
		}

		var out bytes.Buffer
		So(Run(context.Background(), &Options{Out: &out, Parser: fakeParser{}, Inputs: inputs, Concurrency: 8}), ShouldBeNil)

		Convey("Every input is printed in order", func() {
			lines := strings.Split(strings.TrimSpace(out.String()), "\n")
			So(lines, ShouldHaveLength, 200)
			So(lines[199], ShouldEqual, "https://embed/batch-199")
		})

		Convey("Every input is remembered", func() {
			So(query.SuggestMany("batch-"), ShouldHaveLength, 200)
		})
	})
}
