package greet

import (
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-barry/greet/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "greet.config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestResolve_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := RuntimeConfig{ConfigPath: filepath.Join(t.TempDir(), "none.yml")}.Resolve()
	require.NoError(t, err)
	assert.Equal(t, core.DefaultConfig(), cfg)
}

func TestResolve_OverridesBeatFile(t *testing.T) {
	path := writeConfig(t, "addr: 127.0.0.1:1234\nenv: dev\npublicDir: assets\n")

	cfg, err := RuntimeConfig{ConfigPath: path}.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:1234", cfg.Addr)
	assert.Equal(t, "assets", cfg.PublicDir)

	cfg, err = RuntimeConfig{ConfigPath: path, Addr: ":9999", Env: "prod", PublicDir: "static"}.Resolve()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "static", cfg.PublicDir)
}

func TestResolve_RejectsBadEnvOverride(t *testing.T) {
	_, err := RuntimeConfig{ConfigPath: filepath.Join(t.TempDir(), "none.yml"), Env: "qa"}.Resolve()
	assert.Error(t, err)
}

func newTestApp(t *testing.T) *core.App {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "style.css"), []byte("body{}"), 0644))

	cfg := core.DefaultConfig()
	cfg.PublicDir = dir
	cfg.Addr = "127.0.0.1:0"
	app, err := core.NewApp(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })
	return app
}

func TestNewServer(t *testing.T) {
	app := newTestApp(t)
	srv := NewServer(app)

	assert.Equal(t, "127.0.0.1:0", srv.Addr)
	assert.Equal(t, 10*time.Second, srv.ReadHeaderTimeout)
	assert.NotNil(t, srv.Handler)
}

func TestServe_HandlesRequestsAndShutsDown(t *testing.T) {
	app := newTestApp(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, NewServer(app), ln, zap.NewNop())
	}()

	base := "http://" + ln.Addr().String()

	resp, err := http.Get(base + "/greet/Alice?last_name=Smith")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), "AliceSmith"))

	resp, err = http.Get(base + "/public/style.css")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "body{}", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServe_ReturnsListenerErrors(t *testing.T) {
	app := newTestApp(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ln.Close()

	err = Serve(context.Background(), NewServer(app), ln, zap.NewNop())
	assert.Error(t, err)
}
