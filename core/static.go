package core

import (
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// StaticHandler serves files from one directory. The directory is opened as
// an os.Root, so no request can resolve to a file outside it.
type StaticHandler struct {
	root         *os.Root
	cacheControl string
	responder    *Responder
	log          *zap.Logger
}

func NewStaticHandler(dir string, cfg Config, responder *Responder, log *zap.Logger) (*StaticHandler, error) {
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "open public dir %s", dir)
	}

	cacheControl := "no-store"
	if cfg.IsProd() {
		cacheControl = "public, max-age=31536000, immutable"
	}

	return &StaticHandler{
		root:         root,
		cacheControl: cacheControl,
		responder:    responder,
		log:          log,
	}, nil
}

// FS exposes the root read-only, for the versioned template func.
func (s *StaticHandler) FS() fs.FS {
	return s.root.FS()
}

func (s *StaticHandler) Close() error {
	return s.root.Close()
}

// resolve maps the request path below the mount to a name inside the root.
func resolve(urlPath string) (string, error) {
	if strings.ContainsAny(urlPath, "\\\x00") {
		return "", ErrForbidden
	}
	for _, part := range strings.Split(urlPath, "/") {
		if part == ".." {
			return "", ErrForbidden
		}
	}
	name := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if name == "" {
		return "", ErrNotFound
	}
	return name, nil
}

func (s *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		s.responder.Error(w, http.StatusMethodNotAllowed)
		return
	}

	name, err := resolve(r.URL.Path)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	f, err := s.root.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.fail(w, r, ErrNotFound)
			return
		}
		// Escapes through symlinks land here too.
		s.log.Debug("static open refused", zap.String("path", r.URL.Path), zap.Error(err))
		s.fail(w, r, ErrForbidden)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		s.fail(w, r, ErrNotFound)
		return
	}

	w.Header().Set("Content-Type", detectMimeType(name))
	w.Header().Set("Cache-Control", s.cacheControl)
	http.ServeContent(w, r, name, info.ModTime(), f)
}

func (s *StaticHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrForbidden) {
		s.log.Warn("static path refused", zap.String("path", r.URL.Path))
		s.responder.Error(w, http.StatusForbidden)
		return
	}
	s.responder.Error(w, http.StatusNotFound)
}

func detectMimeType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	case ".woff":
		return "font/woff"
	case ".woff2":
		return "font/woff2"
	case ".js":
		return "text/javascript; charset=utf-8"
	}
	if ext == "" {
		return "application/octet-stream"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}
