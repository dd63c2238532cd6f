package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/cliptrans/internal/control"
	"go.klb.dev/cliptrans/internal/ipc"
	"go.klb.dev/cliptrans/internal/session"
	"go.klb.dev/cliptrans/internal/translate"
	"go.klb.dev/cliptrans/internal/ui"
	"go.klb.dev/cliptrans/internal/watch"
)

func newRunCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Watch the clipboard and show translations",
		Long: `Starts the translator. Every time new text lands on the clipboard it is
translated into the target language and shown in the display:

  windowed  a small "Mini Translator" window with a language picker
  tray      a system tray menu only
  headless  results are printed to stdout
  auto      windowed when a display is available, headless otherwise

Closing the window (or "cliptrans hide") stops watching; "cliptrans open"
resumes. The target language can be changed from the window, the tray, with
"cliptrans lang <code>", or by editing "lang" in the config file.

Precedence (lowest → highest): defaults → config file → CLIPTRANS_* env vars → flags`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runDaemon(v) },
	}

	f := cmd.Flags()
	f.String("lang", translate.DefaultLanguage, "initial target language")
	f.Duration("interval", watch.DefaultInterval, "clipboard poll interval")
	f.String("mode", modeAuto, "display: auto|windowed|tray|headless")
	f.Bool("start-hidden", false, "start hidden and idle; use \"cliptrans open\" or the tray to begin")
	f.String("clipboard", "system", "clipboard backend: system|memory")
	f.Bool("no-ipc", false, "do not serve the control socket")
	addProviderFlags(cmd)
	addSocketFlag(cmd)
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runDaemon(v *viper.Viper) error {
	closer := setupLogging(v)
	defer closer.Close()

	mode, err := resolveMode(v.GetString("mode"), runtime.GOOS, os.Getenv)
	if err != nil {
		return err
	}
	langs, err := translate.ParseLanguages(v.GetStringSlice("languages"))
	if err != nil {
		return err
	}
	provider, err := providerFromViper(v)
	if err != nil {
		return err
	}
	accessor, err := newClipboard(v.GetString("clipboard"))
	if err != nil {
		return err
	}

	sess, err := session.New(accessor, provider, watch.Config{
		Interval:  v.GetDuration("interval"),
		Timeout:   v.GetDuration("timeout"),
		Language:  v.GetString("lang"),
		Languages: langs,
	})
	if err != nil {
		accessor.Close()
		return err
	}
	defer sess.Close()

	slog.Info("cliptrans starting",
		"version", Version,
		"mode", mode,
		"provider", provider.Name(),
		"clipboard", accessor.Name(),
		"lang", sess.Language(),
	)

	if !v.GetBool("no-ipc") {
		srv, err := serveControl(sess, v.GetString("socket"))
		if err != nil {
			return err
		}
		defer srv.Stop()
	}

	watchConfig(v, sess)

	ctx, stop := signalContext()
	defer stop()

	// Start before any frontend exists so they pick up the state on creation.
	if !v.GetBool("start-hidden") {
		sess.Open()
	}

	switch mode {
	case modeWindowed:
		ui.NewWindow(sess).Run(ctx, v.GetBool("start-hidden"))
	case modeTray:
		ui.NewTray(sess).Run(ctx)
	default:
		term := ui.NewTerminal(os.Stdout)
		sess.Hub().Register(term)
		defer sess.Hub().Unregister(term)
		term.Run(ctx)
	}

	slog.Info("cliptrans stopped")
	return nil
}

// serveControl starts the control plane on the IPC socket at path.
func serveControl(sess *session.Session, path string) (*control.Server, error) {
	if path == "" {
		path = ipc.SocketPath()
	}
	ln, err := ipc.Listen(path)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("cliptrans is already running (%s)", path)
		}
		return nil, fmt.Errorf("ipc listen: %w", err)
	}
	srv := control.NewServer(sess)
	go func() {
		if err := srv.Serve(ln); err != nil {
			slog.Error("control plane stopped", "err", err)
		}
	}()
	return srv, nil
}

// watchConfig applies "lang" edits in the config file to the running session.
func watchConfig(v *viper.Viper, sess *session.Session) {
	path := v.ConfigFileUsed()
	if path == "" {
		return
	}
	r := newLangReloader(sess, path)
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		slog.Debug("config changed", "file", e.Name)
		r.reload()
	})
	v.WatchConfig()
	slog.Info("watching config file", "file", path)
}

// langReloader tracks the "lang" value written in the config file. Only a
// change of that value reaches the session; edits to other keys, and flag or
// env values layered over the file, never do.
type langReloader struct {
	sess *session.Session
	path string
	last string
}

func newLangReloader(sess *session.Session, path string) *langReloader {
	r := &langReloader{sess: sess, path: path}
	r.last, _ = fileLang(path)
	return r
}

func (r *langReloader) reload() {
	lang, ok := fileLang(r.path)
	if !ok {
		r.last = ""
		return
	}
	if lang == r.last {
		return
	}
	r.last = lang
	if err := r.sess.SetLanguage(lang); err != nil {
		slog.Warn("config reload: bad language", "lang", lang, "err", err)
	}
}

// fileLang reads "lang" from the config file alone.
func fileLang(path string) (string, bool) {
	fv := viper.New()
	fv.SetConfigFile(path)
	if err := fv.ReadInConfig(); err != nil {
		slog.Debug("config reload: read failed", "file", path, "err", err)
		return "", false
	}
	if !fv.InConfig("lang") {
		return "", false
	}
	return translate.NormalizeCode(fv.GetString("lang")), true
}
