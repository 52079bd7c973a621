// Package open launches URLs with the system's default handler.
package open

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/subgate-cli/subgate/constant"
)

// ErrUnsupportedScheme is returned for links the desktop handler should not receive.
var ErrUnsupportedScheme = errors.New("unsupported link scheme")

var schemes = map[string]bool{
	"http":   true,
	"https":  true,
	"magnet": true,
	"ed2k":   true,
}

// Check reports whether link can be handed to the system handler.
func Check(link string) error {
	scheme, _, found := strings.Cut(link, ":")
	scheme = strings.ToLower(scheme)
	if !found || !schemes[scheme] {
		return fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
	}
	return nil
}

// Run opens link and waits for the handler to exit.
func Run(link string) error {
	cmd, err := command(link)
	if err != nil {
		return err
	}
	return cmd.Run()
}

// Start opens link asynchronously.
func Start(link string) error {
	cmd, err := command(link)
	if err != nil {
		return err
	}
	return cmd.Start()
}

func command(link string) (*exec.Cmd, error) {
	if err := Check(link); err != nil {
		return nil, err
	}

	switch runtime.GOOS {
	case constant.Windows:
		rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
		return exec.Command(rundll, "url.dll,FileProtocolHandler", link), nil
	case constant.Darwin:
		return exec.Command("open", link), nil
	case constant.Linux:
		return exec.Command("xdg-open", link), nil
	case constant.Android:
		return exec.Command("termux-open", link), nil
	default:
		return nil, fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
}
