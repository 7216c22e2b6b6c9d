package greet

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-barry/greet/core"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// RuntimeConfig carries command-line overrides. Empty fields keep the value
// from the config file.
type RuntimeConfig struct {
	ConfigPath string
	Addr       string
	Env        string
	PublicDir  string
}

// Resolve loads the config file and applies the overrides on top.
func (rc RuntimeConfig) Resolve() (core.Config, error) {
	path := rc.ConfigPath
	if path == "" {
		path = core.DefaultConfigFile
	}
	cfg, err := core.LoadConfig(path)
	if err != nil {
		return core.Config{}, err
	}
	if rc.Addr != "" {
		cfg.Addr = rc.Addr
	}
	if rc.Env != "" {
		cfg.Env = rc.Env
	}
	if rc.PublicDir != "" {
		cfg.PublicDir = rc.PublicDir
	}
	return cfg, cfg.Validate()
}

func NewServer(app *core.App) *http.Server {
	return &http.Server{
		Addr:              app.Config.Addr,
		Handler:           app.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          zap.NewStdLog(app.Log),
	}
}

// Start builds the app and serves until SIGINT or SIGTERM.
var Start = func(rc RuntimeConfig) error {
	cfg, err := rc.Resolve()
	if err != nil {
		return err
	}

	log, err := core.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	app, err := core.NewApp(cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return err
	}
	log.Info("greet listening", zap.String("addr", ln.Addr().String()))
	return Serve(ctx, NewServer(app), ln, log)
}

// Serve runs srv on ln until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, srv *http.Server, ln net.Listener, log *zap.Logger) error {
	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
