package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vidlink-cli/vidlink/blob"
	"github.com/vidlink-cli/vidlink/color"
	"github.com/vidlink-cli/vidlink/enrich"
	"github.com/vidlink-cli/vidlink/icon"
	"github.com/vidlink-cli/vidlink/key"
	"github.com/vidlink-cli/vidlink/resolver"
	"github.com/vidlink-cli/vidlink/server"
	"github.com/vidlink-cli/vidlink/style"
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("address", "a", "", "Address to listen on")
	lo.Must0(viper.BindPFlag(key.ServerAddress, serveCmd.Flags().Lookup("address")))
}

// serveCmd exposes the resolution pipeline over HTTP.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the parse and enrichment API over HTTP",
	Long: `Start an HTTP server exposing:

  GET  /api/parse?url=<link>[&enrich=true]
  POST /api/enrich        {"title": "...", "platform": "..."}
  GET  /api/buffer?url=   websocket reporting buffering progress
  GET  /blob/:id          buffered media
  GET  /healthz`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		parser, err := resolver.FromConfig()
		handleErr(err)

		srv := server.New(blob.NewStore()).
			WithOrigins(viper.GetStringSlice(key.ServerAllowedOrigins)).
			WithAPI(parser, enrich.FromConfig())
		handleErr(srv.Listen(viper.GetString(key.ServerAddress)))

		fmt.Printf("%s Listening on %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), style.Bold(srv.BaseURL()))
		fmt.Println(style.Faint("Press Ctrl+C to stop"))

		signals := make(chan os.Signal, 1)
		signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
		<-signals

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		handleErr(srv.Shutdown(ctx))
	},
}
