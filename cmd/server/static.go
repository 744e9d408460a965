package main

import (
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

// setupStaticFiles serves the built frontend from dir with an index.html
// fallback for client-side routes. Without a build the API runs alone.
func setupStaticFiles(router *gin.Engine, dir string, logger *slog.Logger) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		logger.Info("🔧 No frontend build found, serving API only", "static_dir", dir)
		router.NoRoute(apiNotFound)
		return
	}
	logger.Info("📦 Serving frontend assets", "static_dir", dir)
	router.NoRoute(spaHandler(os.DirFS(dir)))
}

func apiNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
}

func spaHandler(dist fs.FS) gin.HandlerFunc {
	fileServer := http.FileServer(http.FS(dist))
	return func(c *gin.Context) {
		urlPath := c.Request.URL.Path
		if strings.HasPrefix(urlPath, "/api") {
			apiNotFound(c)
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}

		name := strings.TrimPrefix(path.Clean(urlPath), "/")
		if name != "" {
			if stat, err := fs.Stat(dist, name); err == nil && !stat.IsDir() {
				fileServer.ServeHTTP(c.Writer, c.Request)
				return
			}
		}

		index, err := fs.ReadFile(dist, "index.html")
		if err != nil {
			c.String(http.StatusNotFound, "404 page not found")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", index)
	}
}
