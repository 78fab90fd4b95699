// Package inline implements the non-interactive mode: resolve inputs and print the results.
package inline

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/samber/lo"
	"github.com/vidlink-cli/vidlink/log"
	"github.com/vidlink-cli/vidlink/query"
)

const defaultConcurrency = 4

// Run resolves every input and writes the results in input order.
// Unsupported inputs are reported per entry and do not fail the run.
func Run(ctx context.Context, options *Options) error {
	if options.Out == nil {
		options.Out = os.Stdout
	}
	if options.Concurrency <= 0 {
		options.Concurrency = defaultConcurrency
	}

	entries := resolve(ctx, options)

	if options.Json {
		return writeJson(options.Out, entries)
	}

	if options.Pretty {
		return writePretty(options.Out, entries)
	}

	return writePlain(options.Out, entries, options)
}

func resolve(ctx context.Context, options *Options) []*Entry {
	entries := make([]*Entry, len(options.Inputs))
	semaphore := make(chan struct{}, options.Concurrency)

	var wg sync.WaitGroup
	for i, input := range options.Inputs {
		wg.Add(1)
		go func(i int, input string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			entries[i] = resolveOne(ctx, input, options)
		}(i, input)
	}
	wg.Wait()

	return entries
}

func resolveOne(ctx context.Context, input string, options *Options) *Entry {
	entry := &Entry{Input: input}

	data, err := options.Parser.Parse(ctx, input)
	if err != nil {
		log.Warnf("inline: %s: %v", input, err)
		entry.Error = err.Error()
		return entry
	}

	if enricher, ok := options.Enricher.Get(); ok && data.AISummary == nil {
		enrichment := enricher.Enrich(ctx, data.Title, data.Platform)
		data.AISummary = &enrichment
	}

	if err := query.Remember(input, 1); err != nil {
		log.Warnf("inline: remember %s: %v", input, err)
	}

	entry.Result = data
	return entry
}

func writeJson(out io.Writer, entries []*Entry) error {
	data, err := asJson(entries)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

// writePlain prints one picked source URL per line. Failed inputs are only logged.
func writePlain(out io.Writer, entries []*Entry, options *Options) error {
	picker, ok := options.Picker.Get()
	if !ok {
		picker, _ = ParseSourcePicker("primary")
	}

	for _, entry := range lo.Filter(entries, func(e *Entry, _ int) bool { return e.Result != nil }) {
		for _, video := range picker(entry.Result) {
			if _, err := fmt.Fprintln(out, video.URL); err != nil {
				return err
			}
		}
	}

	return nil
}
