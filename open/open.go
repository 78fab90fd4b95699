// Package open hands embed pages, fallback URLs and saved files to the desktop.
package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
	"github.com/vidlink-cli/vidlink/key"
)

var goos = runtime.GOOS

// Start opens target with browser.app, or with the system default handler when it is unset.
// It returns once the launcher has started.
func Start(target string) error {
	cmd, err := Command(target, viper.GetString(key.Browser))
	if err != nil {
		return err
	}
	return cmd.Start()
}

// Command builds the launcher invocation for target on the running OS. app may be empty.
func Command(target, app string) (*exec.Cmd, error) {
	if app == "" {
		return system(target)
	}

	switch goos {
	case "windows":
		// start treats & as a command separator
		return exec.Command("cmd", "/C", "start", "", app, strings.ReplaceAll(target, "&", "^&")), nil
	case "darwin":
		return exec.Command("open", "-a", app, target), nil
	case "android":
		return exec.Command("termux-open", "--choose", target), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command(app, target), nil
	default:
		return nil, fmt.Errorf("open: unsupported OS %s", goos)
	}
}

func system(target string) (*exec.Cmd, error) {
	switch goos {
	case "windows":
		rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
		return exec.Command(rundll, "url.dll,FileProtocolHandler", target), nil
	case "darwin":
		return exec.Command("open", target), nil
	case "android":
		return exec.Command("termux-open", target), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", target), nil
	default:
		return nil, fmt.Errorf("open: unsupported OS %s", goos)
	}
}
