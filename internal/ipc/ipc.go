// Package ipc locates and opens the local socket the cliptrans daemon serves
// its control plane on. CLI sub-commands (lang, open, copy, status, ...) look
// for it and act on the running daemon when one is listening.
package ipc

import (
	"net"
	"os"
	"time"
)

// EnvSocket overrides the socket path.
const EnvSocket = "CLIPTRANS_SOCKET"

// SocketPath returns the platform-appropriate path for the IPC socket.
//
//   - Linux:   $XDG_RUNTIME_DIR/cliptrans.sock, else $TMPDIR/cliptrans.sock
//   - macOS:   $TMPDIR/cliptrans.sock
//   - Windows: \\.\pipe\cliptrans
//
// $CLIPTRANS_SOCKET overrides all of them.
func SocketPath() string {
	if s := os.Getenv(EnvSocket); s != "" {
		return s
	}
	return socketPath()
}

// IsRunning reports whether a daemon appears to be listening on path. It does
// a cheap dial-and-close; no data is exchanged.
func IsRunning(path string) bool {
	c, err := dialIPC(path, time.Second)
	if err != nil {
		return false
	}
	_ = c.Close()
	return true
}

// Listen creates a listener on path, removing any stale socket left by a
// crashed run. It refuses to steal the socket from a live daemon.
func Listen(path string) (net.Listener, error) {
	if IsRunning(path) {
		return nil, &os.PathError{Op: "listen", Path: path, Err: os.ErrExist}
	}
	removeStale(path)
	return listenIPC(path)
}

// Dial connects to the socket at path.
func Dial(path string, timeout time.Duration) (net.Conn, error) {
	return dialIPC(path, timeout)
}
