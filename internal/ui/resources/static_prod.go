//go:build !dev

package resources

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static/*
var staticFS embed.FS

// Dir returns the source location of the assets. Embedded builds serve them
// from the binary, so it is only useful for watching a checkout.
func Dir() string { return StaticDirectoryPath }

// Embedded reports whether assets are compiled into the binary.
func Embedded() bool { return true }

// Handler serves the embedded assets.
func Handler() http.Handler {
	fsys, _ := fs.Sub(staticFS, "static")
	fileServer := http.FileServer(http.FS(fsys))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Embedded assets never change for the lifetime of the binary.
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		http.StripPrefix("/static/", fileServer).ServeHTTP(w, r)
	})
}
