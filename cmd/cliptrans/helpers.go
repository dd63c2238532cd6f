package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/cliptrans/internal/clip"
	"go.klb.dev/cliptrans/internal/control"
	"go.klb.dev/cliptrans/internal/ipc"
	"go.klb.dev/cliptrans/internal/translate"
	"go.klb.dev/cliptrans/internal/watch"
)

// Display modes accepted by --mode.
const (
	modeAuto     = "auto"
	modeWindowed = "windowed"
	modeTray     = "tray"
	modeHeadless = "headless"
)

// rpcTimeout bounds every control-plane call except Watch.
const rpcTimeout = 30 * time.Second

var errNoDaemon = errors.New(`no cliptrans daemon is running (start one with "cliptrans run")`)

// resolveMode turns --mode into a concrete display mode. auto picks the
// window when a display is available and the terminal otherwise.
func resolveMode(mode, goos string, getenv func(string) string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", modeAuto:
		if hasDisplay(goos, getenv) {
			return modeWindowed, nil
		}
		return modeHeadless, nil
	case modeWindowed, "window", "gui":
		return modeWindowed, nil
	case modeTray:
		return modeTray, nil
	case modeHeadless, "terminal", "cli":
		return modeHeadless, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want auto|windowed|tray|headless)", mode)
	}
}

// hasDisplay reports whether a GUI can be shown. macOS and Windows always
// have one; elsewhere an X11 or Wayland session must be advertised.
func hasDisplay(goos string, getenv func(string) string) bool {
	switch goos {
	case "darwin", "windows":
		return true
	}
	return getenv("DISPLAY") != "" || getenv("WAYLAND_DISPLAY") != ""
}

// newClipboard returns the clipboard backend named by --clipboard.
func newClipboard(name string) (clip.Accessor, error) {
	switch strings.ToLower(name) {
	case "", "system":
		return clip.New(), nil
	case "memory":
		return clip.NewMemory(""), nil
	default:
		return nil, fmt.Errorf("unknown clipboard %q (want system|memory)", name)
	}
}

// addProviderFlags adds the flags that select and configure a translation
// provider. Shared by run and translate.
func addProviderFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("provider", translate.ProviderGoogle, "translation provider: google|libre|stub")
	f.StringSlice("google-service-url", nil, "Google Translate hosts to use (default: translate.google.com)")
	f.String("proxy", "", "HTTP proxy for the google provider")
	f.String("libre-url", "", "LibreTranslate server URL (provider libre)")
	f.StringSlice("languages", translate.DefaultLanguages, "target languages offered")
	f.Duration("timeout", watch.DefaultTimeout, "per-translation timeout")
}

func providerFromViper(v *viper.Viper) (translate.Provider, error) {
	return translate.New(translate.Options{
		Name:              v.GetString("provider"),
		GoogleServiceURLs: v.GetStringSlice("google-service-url"),
		Proxy:             v.GetString("proxy"),
		LibreURL:          v.GetString("libre-url"),
	})
}

// addSocketFlag adds --socket, the daemon's IPC path.
func addSocketFlag(cmd *cobra.Command) {
	cmd.Flags().String("socket", ipc.SocketPath(), "daemon IPC socket path")
}

// dialDaemon connects to the running daemon, or returns errNoDaemon.
func dialDaemon(v *viper.Viper) (*control.Client, error) {
	path := v.GetString("socket")
	if path == "" {
		path = ipc.SocketPath()
	}
	if !ipc.IsRunning(path) {
		return nil, errNoDaemon
	}
	return control.Dial(path)
}

// rpcContext returns a context for one control-plane call.
func rpcContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), rpcTimeout)
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// rpcError strips the gRPC envelope from a control-plane error.
func rpcError(op string, err error) error {
	return fmt.Errorf("%s: %s", op, control.ErrorMessage(err))
}

func fmtAge(t time.Time) string {
	age := time.Since(t).Round(time.Second)
	if age < time.Minute {
		return fmt.Sprintf("%ds ago", int(age.Seconds()))
	}
	if age < time.Hour {
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	}
	return t.Format("15:04:05")
}

