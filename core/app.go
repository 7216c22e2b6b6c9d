package core

import (
	"net/http"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// RouteSpec is one entry of the startup route table.
type RouteSpec struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// App holds everything built at startup. None of it changes while serving.
type App struct {
	Config    Config
	Log       *zap.Logger
	Renderer  *Renderer
	Responder *Responder
	Router    *Router
	Static    *StaticHandler
	CORS      CORSPolicy

	tracerProvider trace.TracerProvider
}

type Option func(*App)

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(a *App) {
		a.tracerProvider = tp
	}
}

func NewApp(cfg Config, log *zap.Logger, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &App{
		Config: cfg,
		Log:    log,
		Router: NewRouter(),
		CORS:   DefaultCORSPolicy(cfg.AllowedOrigin),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.Responder = NewResponder(log, cfg)

	static, err := NewStaticHandler(cfg.PublicDir, cfg, a.Responder, log)
	if err != nil {
		return nil, err
	}
	a.Static = static

	renderer, err := NewRenderer(static.FS(), cfg.MinifyHTML)
	if err != nil {
		static.Close()
		return nil, err
	}
	if err := renderer.Check(); err != nil {
		static.Close()
		return nil, errors.Wrap(err, "template check")
	}
	a.Renderer = renderer

	for _, spec := range a.routeTable() {
		if err := a.Router.Register(spec.Method, spec.Pattern, spec.Handler); err != nil {
			static.Close()
			return nil, err
		}
	}
	if err := a.Router.Mount(publicPrefix, http.StripPrefix("/public", a.Static)); err != nil {
		static.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) routeTable() []RouteSpec {
	return []RouteSpec{
		{Method: http.MethodGet, Pattern: "/", Handler: a.index},
		{Method: http.MethodGet, Pattern: "/greet/{name}", Handler: a.greet},
	}
}

// Handler is the full request pipeline:
// recover, tracing, access log, CORS, then the route table.
func (a *App) Handler() http.Handler {
	var h http.Handler = a.Router
	h = a.CORS.Handler(h)
	h = AccessLog(a.Log, h)
	h = Tracing(a.tracerProvider, h)
	return Recover(a.Log, a.Responder, h)
}

func (a *App) Close() error {
	return a.Static.Close()
}
