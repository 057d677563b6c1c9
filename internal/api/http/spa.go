package http

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

//go:embed ui/index.html
var embeddedUI embed.FS

const apiPrefix = "/api"

// SPA serves the single-page client for every path no route matched.
// Unknown /api paths get a JSON 404 instead. When staticDir is set, its
// index.html replaces the embedded page and its other files are served as
// assets.
func SPA(staticDir string) (gin.HandlerFunc, error) {
	var assets fs.FS
	index, err := fs.ReadFile(embeddedUI, "ui/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded index.html: %w", err)
	}

	if staticDir != "" {
		assets = os.DirFS(staticDir)
		index, err = fs.ReadFile(assets, "index.html")
		if err != nil {
			return nil, fmt.Errorf("failed to load index.html from %s: %w", staticDir, err)
		}
	}

	var fileServer http.Handler
	if assets != nil {
		fileServer = http.FileServer(http.FS(assets))
	}

	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if p == apiPrefix || strings.HasPrefix(p, apiPrefix+"/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}

		if fileServer != nil && isAsset(assets, p) {
			fileServer.ServeHTTP(c.Writer, c.Request)
			return
		}

		c.Data(http.StatusOK, "text/html; charset=utf-8", index)
	}, nil
}

// isAsset reports whether p names a regular file other than index.html.
func isAsset(assets fs.FS, p string) bool {
	name := strings.TrimPrefix(path.Clean("/"+p), "/")
	if name == "" || name == "index.html" || !fs.ValidPath(name) {
		return false
	}
	info, err := fs.Stat(assets, name)
	return err == nil && info.Mode().IsRegular()
}
