//go:build !windows

package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.klb.dev/cliptrans/internal/clip"
	"go.klb.dev/cliptrans/internal/hub"
	"go.klb.dev/cliptrans/internal/logging"
	"go.klb.dev/cliptrans/internal/session"
	"go.klb.dev/cliptrans/internal/translate"
	"go.klb.dev/cliptrans/internal/watch"
)

func TestResolveMode(t *testing.T) {
	env := func(vals map[string]string) func(string) string {
		return func(k string) string { return vals[k] }
	}
	none := env(nil)
	x11 := env(map[string]string{"DISPLAY": ":0"})
	wayland := env(map[string]string{"WAYLAND_DISPLAY": "wayland-0"})

	tests := []struct {
		mode, goos string
		getenv     func(string) string
		want       string
	}{
		{"auto", "linux", none, modeHeadless},
		{"auto", "linux", x11, modeWindowed},
		{"", "linux", wayland, modeWindowed},
		{"auto", "darwin", none, modeWindowed},
		{"auto", "windows", none, modeWindowed},
		{"Tray", "linux", none, modeTray},
		{"headless", "darwin", none, modeHeadless},
		{"gui", "linux", none, modeWindowed},
	}
	for _, tt := range tests {
		got, err := resolveMode(tt.mode, tt.goos, tt.getenv)
		require.NoError(t, err, tt.mode)
		assert.Equal(t, tt.want, got, "mode=%q goos=%s", tt.mode, tt.goos)
	}

	_, err := resolveMode("hologram", "linux", none)
	assert.Error(t, err)
}

func TestResolveLogging(t *testing.T) {
	o := resolveLogging(true, "json", "", "")
	assert.Equal(t, logging.FormatJSON, o.Format)
	assert.Equal(t, slog.LevelDebug, o.Level)

	o = resolveLogging(false, "auto", "", "/var/log/cliptrans.log")
	assert.Equal(t, slog.LevelInfo, o.Level)
	assert.Equal(t, "/var/log/cliptrans.log", o.File)

	o = resolveLogging(true, "text", "warn", "")
	assert.Equal(t, logging.FormatText, o.Format)
	assert.Equal(t, slog.LevelWarn, o.Level)
}

func TestNewClipboard(t *testing.T) {
	c, err := newClipboard("memory")
	require.NoError(t, err)
	assert.Equal(t, "memory", c.Name())

	_, err = newClipboard("carrier-pigeon")
	assert.Error(t, err)
}

// isolate keeps config discovery and the daemon socket inside the test.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	sock := filepath.Join(t.TempDir(), "cliptrans.sock")
	t.Setenv("CLIPTRANS_SOCKET", sock)
	return sock
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTranslateLocal(t *testing.T) {
	isolate(t)

	out, err := execute(t, newTranslateCmd(), "--provider", "stub", "--lang", "FR", "hello", "world")
	require.NoError(t, err)
	assert.Equal(t, "[fr] hello world\n", out)

	cmd := newTranslateCmd()
	cmd.SetIn(strings.NewReader("  from stdin \n"))
	out, err = execute(t, cmd, "--provider", "stub", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"translated_text": "[hi] from stdin"`)

	_, err = execute(t, newTranslateCmd(), "--provider", "stub", "--lang", "xx", "hello")
	assert.ErrorIs(t, err, translate.ErrUnsupportedLanguage)

	_, err = execute(t, newTranslateCmd(), "--provider", "nope", "hello")
	assert.Error(t, err)
}

func TestClientCommandsWithoutDaemon(t *testing.T) {
	isolate(t)

	for _, cmd := range []*cobra.Command{newLangCmd(), newOpenCmd(), newHideCmd(), newCopyCmd(), newStatusCmd(), newTailCmd()} {
		_, err := execute(t, cmd)
		assert.ErrorIs(t, err, errNoDaemon, cmd.Use)
	}

	out, err := execute(t, newLanguagesCmd())
	require.NoError(t, err)
	assert.Regexp(t, `\*\s+hi\s+Hindi`, out)
	assert.Contains(t, out, "zh-cn")
}

func startDaemon(t *testing.T, sock string) (*session.Session, *clip.Memory) {
	t.Helper()
	mem := clip.NewMemory("")
	sess, err := session.New(mem, translate.NewStub(), watch.Config{Interval: 5 * time.Millisecond, Language: "fr"})
	require.NoError(t, err)
	srv, err := serveControl(sess, sock)
	require.NoError(t, err)
	t.Cleanup(func() {
		srv.Stop()
		sess.Close()
	})
	return sess, mem
}

func TestClientCommandsAgainstDaemon(t *testing.T) {
	sock := isolate(t)
	sess, mem := startDaemon(t, sock)

	_, err := serveControl(sess, sock)
	assert.ErrorContains(t, err, "already running")

	out, err := execute(t, newOpenCmd())
	require.NoError(t, err)
	assert.Equal(t, "watching\n", out)

	sub := hub.NewChanSubscriber("test", "test", 4)
	sess.Hub().Register(sub)
	mem.Set("hello")
	select {
	case <-sub.C():
	case <-time.After(2 * time.Second):
		t.Fatal("daemon did not translate")
	}

	out, err = execute(t, newLangCmd(), "de")
	require.NoError(t, err)
	assert.Equal(t, "fr → de (German)\n", out)

	out, err = execute(t, newLangCmd())
	require.NoError(t, err)
	assert.Equal(t, "de (German)\n", out)

	_, err = execute(t, newLangCmd(), "xx")
	assert.ErrorContains(t, err, "unsupported language")

	out, err = execute(t, newCopyCmd(), "--print")
	require.NoError(t, err)
	assert.Equal(t, "[de] hello\n", out)

	out, err = execute(t, newStatusCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "State:")
	assert.Contains(t, out, "watching")
	assert.Contains(t, out, "Language:")
	assert.Contains(t, out, "de")

	out, err = execute(t, newStatusCmd(), "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"language": "de"`)

	out, err = execute(t, newTranslateCmd(), "bye")
	require.NoError(t, err)
	assert.Equal(t, "[de] bye\n", out, "one-shot uses the daemon's language")
	assert.Equal(t, "hello", sess.Status().LastSeen)

	out, err = execute(t, newLanguagesCmd())
	require.NoError(t, err)
	assert.Regexp(t, `\*\s+de\s+German`, out)

	out, err = execute(t, newHideCmd())
	require.NoError(t, err)
	assert.Equal(t, "idle\n", out)
}

func configSession(t *testing.T) (*session.Session, *translate.Stub) {
	t.Helper()
	mem := clip.NewMemory("")
	stub := translate.NewStub()
	sess, err := session.New(mem, stub, watch.Config{Interval: 5 * time.Millisecond, Language: "fr"})
	require.NoError(t, err)
	t.Cleanup(sess.Close)

	sess.Open()
	mem.Set("hello")
	require.Eventually(t, func() bool { return len(stub.Calls()) == 1 }, time.Second, 5*time.Millisecond)
	sess.Hide()
	return sess, stub
}

func writeConfig(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func TestLangReloaderAppliesOnlyFileChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cliptrans.toml")
	writeConfig(t, path, "interval = \"500ms\"\n")
	sess, stub := configSession(t)

	r := newLangReloader(sess, path)
	require.NoError(t, sess.SetLanguage("de"))

	writeConfig(t, path, "interval = \"1s\"\n")
	r.reload()
	assert.Equal(t, "de", sess.Language(), "a file without lang leaves the language alone")
	assert.Len(t, stub.Calls(), 2)

	writeConfig(t, path, "interval = \"1s\"\nlang = \"JA\"\n")
	r.reload()
	assert.Equal(t, "ja", sess.Language())
	assert.Len(t, stub.Calls(), 3)

	require.NoError(t, sess.SetLanguage("es"))
	writeConfig(t, path, "interval = \"2s\"\nlang = \"ja\"\n")
	r.reload()
	assert.Equal(t, "es", sess.Language(), "an unchanged lang in the file is not re-applied")

	writeConfig(t, path, "lang = \"klingon\"\n")
	r.reload()
	assert.Equal(t, "es", sess.Language())

	writeConfig(t, path, "not toml [")
	r.reload()
	assert.Equal(t, "es", sess.Language())
}

func TestWatchConfigIgnoresUnrelatedEdits(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "cliptrans.toml")
	writeConfig(t, path, "interval = \"500ms\"\n")
	sess, stub := configSession(t)

	cmd := newRunCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--config", path}))
	v := viper.New()
	require.NoError(t, bindViper(cmd, v))
	watchConfig(v, sess)

	require.NoError(t, sess.SetLanguage("de"))
	calls := len(stub.Calls())

	writeConfig(t, path, "interval = \"1s\"\n")
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, "de", sess.Language(), "the --lang default must not leak in on reload")
	assert.Len(t, stub.Calls(), calls)

	writeConfig(t, path, "interval = \"1s\"\nlang = \"ja\"\n")
	require.Eventually(t, func() bool { return sess.Language() == "ja" }, 2*time.Second, 10*time.Millisecond)
}
