//go:build dev

package resources

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
)

// Dir returns the static directory next to this source file, regardless of
// where the binary is run from.
func Dir() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return StaticDirectoryPath
	}
	return filepath.Join(filepath.Dir(filename), "static")
}

// Embedded reports whether assets are compiled into the binary.
func Embedded() bool { return false }

// Handler serves assets from the filesystem so edits show up on reload.
func Handler() http.Handler {
	staticDir := Dir()
	slog.Info("static assets served from filesystem", "path", staticDir)

	// Browsers revalidate with Last-Modified; no long-lived cache headers here.
	return http.StripPrefix("/static/", http.FileServer(http.FS(os.DirFS(staticDir))))
}
