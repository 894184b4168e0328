// Package scaffold turns a resolved component set into a deterministic,
// self-consistent Vite + React + TypeScript project file tree: source
// manifest, generated barrel files, a trimmed icon subset and a synthesized
// entry point.
package scaffold

import (
	"fmt"
	"sort"
	"strings"
)

// Mode selects how catalog-sourced file contents travel in the response.
// Generated files (boilerplate, barrels, entry point, icon manifest) are
// always inline in both modes; the logical file tree is identical.
type Mode string

const (
	// ModeInline embeds every file body in the response.
	ModeInline Mode = "inline"
	// ModeURLs replaces catalog-sourced bodies with remote references and
	// adds a setup script that downloads them.
	ModeURLs Mode = "urls"
)

// ParseMode validates a mode string, defaulting empty to ModeInline.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return ModeInline, nil
	case ModeInline, ModeURLs:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("invalid mode %q (want %q or %q)", s, ModeInline, ModeURLs)
	}
}

// File is one entry of the generated manifest: a destination path plus
// either inline content or a remote reference, never both.
type File struct {
	Path      string `json:"path"`
	Content   string `json:"content,omitempty"`
	RemoteURL string `json:"remoteUrl,omitempty"`
}

// Plan is the result of one scaffold request.
type Plan struct {
	ProjectName string `json:"projectName"`
	Mode        Mode   `json:"mode"`

	// Files is the complete manifest in deterministic order.
	Files []File `json:"files"`

	// Components lists every resolved component name, ordered by layer
	// then name - stable across identical requests.
	Components []string `json:"components"`

	// Layers groups resolved names by layer rank, each group sorted
	// lexicographically.
	Layers map[int][]string `json:"layers"`

	// NotFound lists requested names with no catalog entry. A non-empty
	// list is a soft warning, not a failure.
	NotFound []string `json:"notFound,omitempty"`

	// Warnings carries human-readable notes (omitted manifest sections,
	// unknown names).
	Warnings []string `json:"warnings,omitempty"`
}

// FileCount returns the number of manifest entries.
func (p *Plan) FileCount() int {
	return len(p.Files)
}

// Tree returns the sorted list of destination paths, used to compare the
// logical file tree across modes.
func (p *Plan) Tree() []string {
	paths := make([]string, 0, len(p.Files))
	for _, f := range p.Files {
		paths = append(paths, f.Path)
	}
	sort.Strings(paths)
	return paths
}

// EmptyResolutionError is returned when every requested name was unknown:
// there is nothing to build. It carries up to three fuzzy suggestions per
// unknown name.
type EmptyResolutionError struct {
	Unknown     []string
	Suggestions map[string][]string
}

func (e *EmptyResolutionError) Error() string {
	var b strings.Builder
	b.WriteString("no requested component could be resolved: ")
	b.WriteString(strings.Join(e.Unknown, ", "))
	for _, name := range e.Unknown {
		if s := e.Suggestions[name]; len(s) > 0 {
			fmt.Fprintf(&b, "; did you mean %s for %q", strings.Join(s, ", "), name)
		}
	}
	return b.String()
}
