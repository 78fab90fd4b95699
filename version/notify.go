package version

import (
	"fmt"

	"github.com/spf13/viper"
	"github.com/vidlink-cli/vidlink/color"
	"github.com/vidlink-cli/vidlink/constant"
	"github.com/vidlink-cli/vidlink/icon"
	"github.com/vidlink-cli/vidlink/key"
	"github.com/vidlink-cli/vidlink/log"
	"github.com/vidlink-cli/vidlink/style"
	"github.com/vidlink-cli/vidlink/util"
)

// Notify prints a short banner when a newer release than the running one exists.
// Lookup failures are logged and otherwise ignored.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	erase := util.PrintErasable(fmt.Sprintf("%s Checking for a new release...", icon.Get(icon.Progress)))
	latest, err := Latest()
	erase()
	if err != nil {
		log.Warnf("release check: %v", err)
		return
	}

	if comp, err := Compare(latest, constant.Version); err != nil || comp <= 0 {
		return
	}

	fmt.Printf("\n%s %s is available %s\n%s\n\n",
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(constant.Vidlink+" "+latest),
		style.Faint("(you have "+constant.Version+")"),
		style.Faint(constant.Releases+"/tag/v"+latest),
	)
}
