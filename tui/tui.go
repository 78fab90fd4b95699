package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/viper"
	"github.com/vidlink-cli/vidlink/blob"
	"github.com/vidlink-cli/vidlink/buffer"
	"github.com/vidlink-cli/vidlink/capture"
	"github.com/vidlink-cli/vidlink/download"
	"github.com/vidlink-cli/vidlink/enrich"
	"github.com/vidlink-cli/vidlink/history"
	"github.com/vidlink-cli/vidlink/key"
	"github.com/vidlink-cli/vidlink/log"
	"github.com/vidlink-cli/vidlink/open"
	"github.com/vidlink-cli/vidlink/player"
	"github.com/vidlink-cli/vidlink/resolver"
	"github.com/vidlink-cli/vidlink/server"
)

// Options encapsulates the runtime configuration for the player shell.
type Options struct {
	// Input is resolved right away when set.
	Input string
	// Continue resumes the most recent history entry.
	Continue bool
}

// Run starts the loopback blob server and the Bubble Tea program.
func Run(options *Options) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	start := 0.0
	if options.Continue {
		latest, ok := history.Latest().Get()
		if !ok {
			return errors.New("history is empty, nothing to continue")
		}
		options.Input = latest.Input
		start = latest.Position
	}

	parser, err := resolver.FromConfig()
	if err != nil {
		return err
	}
	if viper.GetBool(key.EnrichEnable) {
		parser = parser.WithEnricher(enrich.FromConfig())
	}

	store := blob.NewStore()
	srv := server.New(store)
	if err := srv.Listen("127.0.0.1:0"); err != nil {
		return err
	}
	defer func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.For("tui").Warnf("server shutdown: %v", err)
		}
	}()

	mediaPlayer := player.New()
	deps := dependencies{
		parser:     parser,
		player:     mediaPlayer,
		machine:    buffer.FromConfig(store, srv.BaseURL()),
		downloader: download.New(nil, open.Start),
		prober:     capture.NewCORSProbe(),
		origin:     srv.BaseURL(),
		open:       open.Start,
	}

	bubble := newBubble(ctx, options, deps)
	if options.Input != "" {
		bubble.input = options.Input
		bubble.start = start
	}

	_, err = tea.NewProgram(bubble, tea.WithAltScreen()).Run()

	bubble.persist()
	bubble.detach()
	deps.machine.Close()
	if mediaPlayer.IsRunning() {
		_ = mediaPlayer.Close()
	}

	return err
}
