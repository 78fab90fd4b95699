// Package main is the entry point for vidlink.
package main

import (
	"github.com/samber/lo"
	"github.com/vidlink-cli/vidlink/cmd"
	"github.com/vidlink-cli/vidlink/config"
	"github.com/vidlink-cli/vidlink/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
