package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/loomkit/loom/internal/catalog"
)

// assetCacheMaxAge is one year; asset paths are content-stable.
const assetCacheMaxAge = 31536000

// manifestName is the asset route serving the full icon manifest.
const manifestName = "icon-manifest.json"

// handleAssets serves the full icon manifest from the snapshot and,
// when an assets directory is configured, the on-disk icon SVG tree.
func (s *Server) handleAssets(w http.ResponseWriter, r *http.Request) {
	rel := chi.URLParam(r, "*")

	if rel == manifestName {
		setCacheHeaders(w)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write(s.manifest)
		return
	}

	if s.config.AssetsDir == "" {
		http.NotFound(w, r)
		return
	}

	// Traversal guard: rooting before Clean strips any ".." prefix, and the
	// resolved path is verified against the assets root below.
	clean := filepath.Clean("/" + rel)
	filePath := filepath.Join(s.config.AssetsDir, clean)

	absRoot, err := filepath.Abs(s.config.AssetsDir)
	if err != nil {
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}
	absFile, err := filepath.Abs(filePath)
	if err != nil || !strings.HasPrefix(absFile, absRoot+string(filepath.Separator)) {
		http.Error(w, "invalid path", http.StatusForbidden)
		return
	}

	info, err := os.Stat(filePath)
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	setCacheHeaders(w)
	w.Header().Set("Content-Type", contentTypeFor(filePath))
	http.ServeFile(w, r, filePath)
}

// handleFiles serves catalog-sourced scaffold file bodies, backing the
// remote references produced in urls mode.
func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	rel := chi.URLParam(r, "*")
	content, ok := s.files[rel]
	if !ok {
		http.NotFound(w, r)
		return
	}

	setCacheHeaders(w)
	w.Header().Set("Content-Type", contentTypeFor(rel))
	w.Write([]byte(content))
}

// catalogFiles maps scaffold destination paths to their snapshot bodies:
// the shared stylesheet and utility file plus every non-virtual component
// source, at the same paths the scaffolder emits.
func catalogFiles(store *catalog.Store) map[string]string {
	snap := store.Snapshot()
	files := make(map[string]string)

	if snap.BaseStylesheet != "" {
		files["src/styles/globals.css"] = snap.BaseStylesheet
	}
	if snap.UtilityFile != "" {
		files["src/lib/utils.ts"] = snap.UtilityFile
	}

	for _, rec := range store.List(0) {
		if rec.IsVirtual() {
			continue
		}
		body, ok := store.Source(rec.Name)
		if !ok {
			continue
		}
		dir := fmt.Sprintf("src/components/%s/%s", catalog.LayerDir(rec.Layer), rec.KebabName())
		files[dir+"/"+rec.KebabName()+".tsx"] = body
	}

	return files
}

func setCacheHeaders(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", assetCacheMaxAge))
}

func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return "image/svg+xml"
	case ".json":
		return "application/json; charset=utf-8"
	case ".css":
		return "text/css; charset=utf-8"
	case ".ts", ".tsx":
		return "application/typescript; charset=utf-8"
	case ".png":
		return "image/png"
	case ".woff2":
		return "font/woff2"
	default:
		return "application/octet-stream"
	}
}
