package static

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>weather</h1>"), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "js"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "js", "main.js"), []byte("fetch('/api/weather')"), 0o600))

	h, err := NewHandler(dir, zerolog.Nop())
	require.NoError(t, err)

	r := gin.New()
	r.Use(h.Middleware())
	r.GET("/api/weather", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching weather data"})
	})
	return r
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestMiddleware_ServesFiles(t *testing.T) {
	r := newRouter(t)

	rec := get(r, "/js/main.js")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fetch('/api/weather')", rec.Body.String())

	rec = get(r, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>weather</h1>")
}

func TestMiddleware_IndependentOfAPI(t *testing.T) {
	r := newRouter(t)

	assert.Equal(t, http.StatusInternalServerError, get(r, "/api/weather").Code)
	assert.Equal(t, http.StatusOK, get(r, "/js/main.js").Code)
}

func TestMiddleware_FallsThrough(t *testing.T) {
	r := newRouter(t)

	assert.Equal(t, http.StatusNotFound, get(r, "/missing.css").Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/js").Code)
}

func TestResolve_Traversal(t *testing.T) {
	dir := t.TempDir()
	h, err := NewHandler(filepath.Join(dir, "public"), zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "secret.env"), []byte("OPENWEATHER_KEY=x"), 0o600))

	_, ok := h.resolve("/../secret.env")
	assert.False(t, ok)
}
