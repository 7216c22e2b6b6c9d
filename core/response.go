package core

import (
	"compress/gzip"
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	contentTypeHTML  = "text/html; charset=utf-8"
	contentTypePlain = "text/plain; charset=utf-8"
)

// Responder turns render results into HTTP responses.
type Responder struct {
	log          *zap.Logger
	compress     bool
	debugHeaders bool
}

func NewResponder(log *zap.Logger, cfg Config) *Responder {
	return &Responder{
		log:          log,
		compress:     cfg.Compress,
		debugHeaders: cfg.DebugHeaders,
	}
}

// HTML writes a rendered page, or a generic 500 when err is set. The error
// detail only goes to the log.
func (rs *Responder) HTML(w http.ResponseWriter, r *http.Request, name string, body []byte, err error) {
	if err != nil {
		// The wrapped error carries a pkg/errors stack, which zap logs as
		// errorVerbose.
		detail := err
		var re *RenderError
		if errors.As(err, &re) {
			detail = re.Err
		}
		rs.log.Error("render failed",
			zap.String("template", name),
			zap.String("path", r.URL.Path),
			zap.Error(detail),
		)
		rs.Error(w, http.StatusInternalServerError)
		return
	}

	h := w.Header()
	if rs.debugHeaders {
		h.Set("X-Greet-Route", name)
	}

	etag := generateETag(body)
	gzipped := rs.compress && acceptsGzip(r)
	if gzipped {
		etag = strings.TrimSuffix(etag, `"`) + `-gz"`
		h.Add("Vary", "Accept-Encoding")
	}
	h.Set("ETag", etag)
	h.Set("Content-Type", contentTypeHTML)

	if etagMatches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if !gzipped {
		h.Set("Content-Length", strconv.Itoa(len(body)))
		w.WriteHeader(http.StatusOK)
		if r.Method != http.MethodHead {
			w.Write(body)
		}
		return
	}

	h.Set("Content-Encoding", "gzip")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	gz := gzip.NewWriter(w)
	if _, err := gz.Write(body); err != nil {
		rs.log.Debug("gzip write failed", zap.Error(err))
	}
	if err := gz.Close(); err != nil {
		rs.log.Debug("gzip close failed", zap.Error(err))
	}
}

// Error writes a plain-text status page that carries nothing but the status
// text.
func (rs *Responder) Error(w http.ResponseWriter, status int) {
	h := w.Header()
	h.Del("Content-Encoding")
	h.Del("ETag")
	h.Set("Content-Type", contentTypePlain)
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	w.Write([]byte(http.StatusText(status) + "\n"))
}

func generateETag(body []byte) string {
	sum := sha1.Sum(body)
	return `"` + hex.EncodeToString(sum[:]) + `"`
}

// etagMatches applies the weak comparison If-None-Match uses to a
// comma-separated list of entity tags.
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	etag = strings.TrimPrefix(etag, "W/")
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}

func acceptsGzip(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept-Encoding"), "gzip")
}
