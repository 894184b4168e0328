package scaffold

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// renderSetupScript generates the shell script shipped in urls mode. It
// creates every destination directory, downloads each remote reference to
// its destination and installs dependencies. Downloads are emitted in path
// order so the script is byte-identical across identical requests.
func renderSetupScript(projectName string, files []File) string {
	remote := make([]File, 0, len(files))
	dirSet := make(map[string]struct{})
	for _, f := range files {
		if f.RemoteURL == "" {
			continue
		}
		remote = append(remote, f)
		if dir := path.Dir(f.Path); dir != "." {
			dirSet[dir] = struct{}{}
		}
	}
	sort.Slice(remote, func(a, b int) bool { return remote[a].Path < remote[b].Path })

	dirs := make([]string, 0, len(dirSet))
	for dir := range dirSet {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	var b strings.Builder
	b.WriteString("#!/usr/bin/env sh\n")
	fmt.Fprintf(&b, "# Setup script for %s. Downloads catalog-sourced files and installs\n", projectName)
	b.WriteString("# dependencies. Run from the project root.\n")
	b.WriteString("set -eu\n\n")

	if len(dirs) > 0 {
		for _, dir := range dirs {
			fmt.Fprintf(&b, "mkdir -p %q\n", dir)
		}
		b.WriteString("\n")
	}

	for _, f := range remote {
		fmt.Fprintf(&b, "curl -fsSL %q -o %q\n", f.RemoteURL, f.Path)
	}
	if len(remote) > 0 {
		b.WriteString("\n")
	}

	b.WriteString("npm install\n")
	return b.String()
}
