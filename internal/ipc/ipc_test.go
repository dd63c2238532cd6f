//go:build !windows

package ipc

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSocketPath(t *testing.T) {
	t.Setenv(EnvSocket, "")
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	assert.Equal(t, "/run/user/1000/cliptrans.sock", SocketPath())

	t.Setenv(EnvSocket, "/tmp/custom.sock")
	assert.Equal(t, "/tmp/custom.sock", SocketPath())
}

func TestListenDial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.sock")
	assert.False(t, IsRunning(path))

	ln, err := Listen(path)
	require.NoError(t, err)
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			_ = c.Close()
		}
	}()

	assert.True(t, IsRunning(path))
	_, err = Listen(path)
	assert.Error(t, err, "a live socket must not be replaced")

	c, err := Dial(path, time.Second)
	require.NoError(t, err)
	_ = c.Close()

	require.NoError(t, ln.Close())
	assert.False(t, IsRunning(path))
}
