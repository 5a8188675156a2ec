package static

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const indexFile = "index.html"

// Handler serves files from a public directory ahead of the API routes. A
// request whose path does not name a file is passed on untouched.
type Handler struct {
	root   string
	logger zerolog.Logger
}

// NewHandler resolves dir once; a relative dir is taken from the working directory.
func NewHandler(dir string, logger zerolog.Logger) (*Handler, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	return &Handler{
		root:   abs,
		logger: logger.With().Str("component", "StaticFiles").Logger(),
	}, nil
}

// Middleware serves GET and HEAD requests that match a file and aborts the chain.
func (h *Handler) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Next()
			return
		}

		file, ok := h.resolve(c.Request.URL.Path)
		if !ok {
			c.Next()
			return
		}

		h.logger.Debug().
			Str("requested_path", c.Request.URL.Path).
			Str("file_path", file).
			Msg("serving static file")

		http.ServeFile(c.Writer, c.Request, file)
		c.Abort()
	}
}

// resolve maps a URL path onto a regular file inside the root, falling back to
// index.html for directories.
func (h *Handler) resolve(urlPath string) (string, bool) {
	rel := strings.TrimPrefix(filepath.Clean("/"+urlPath), string(filepath.Separator))
	full := filepath.Join(h.root, filepath.FromSlash(rel))

	if full != h.root && !strings.HasPrefix(full, h.root+string(filepath.Separator)) {
		h.logger.Warn().
			Str("requested_path", urlPath).
			Str("full_path", full).
			Msg("attempted directory traversal")
		return "", false
	}

	info, err := os.Stat(full)
	if err != nil {
		if !os.IsNotExist(err) {
			h.logger.Error().Err(err).Str("path", full).Msg("failed to stat file")
		}
		return "", false
	}

	if info.IsDir() {
		full = filepath.Join(full, indexFile)
		info, err = os.Stat(full)
		if err != nil || info.IsDir() {
			return "", false
		}
	}

	return full, true
}
