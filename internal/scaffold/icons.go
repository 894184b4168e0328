package scaffold

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// IconScanner extracts icon asset references from raw component source
// text. It is a narrow interface so the regex heuristic can be swapped for
// a proper parser without touching the scaffolder.
type IconScanner interface {
	Scan(source string) []string
}

// safetyNetIcons are always included in the trimmed manifest: generated
// entry points and common component states reach for them even when no
// scanned source mentions them literally.
var safetyNetIcons = []string{"alert-circle", "check", "chevron-down", "close", "search"}

// attrScanner is the default best-effort scanner: it matches identifier
// style values of name="..." and icon="..." attributes. Dynamic references
// (name={variable}) are invisible to it - that is what the safety net and
// the full-manifest pointer are for.
type attrScanner struct {
	pattern *regexp.Regexp
}

// NewAttrScanner returns the default attribute-pattern scanner.
func NewAttrScanner() IconScanner {
	return &attrScanner{
		pattern: regexp.MustCompile(`(?:name|icon)="([a-z0-9][a-z0-9-]*)"`),
	}
}

// Scan returns every distinct icon name referenced in source, unordered.
func (s *attrScanner) Scan(source string) []string {
	matches := s.pattern.FindAllStringSubmatch(source, -1)
	seen := make(map[string]struct{}, len(matches))
	var names []string
	for _, m := range matches {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		names = append(names, m[1])
	}
	return names
}

// trimIconAssets scans the given source bodies and returns the referenced
// subset of the asset table, always including the safety-net entries that
// exist in the table. Names referenced but absent from the table are
// dropped: the full manifest pointer covers overflow lookups.
func trimIconAssets(assets map[string]string, sources []string, scanner IconScanner) map[string]string {
	wanted := make(map[string]struct{})
	for _, name := range safetyNetIcons {
		wanted[name] = struct{}{}
	}
	for _, src := range sources {
		for _, name := range scanner.Scan(src) {
			wanted[name] = struct{}{}
		}
	}

	trimmed := make(map[string]string)
	for name := range wanted {
		if path, ok := assets[name]; ok {
			trimmed[name] = path
		}
	}
	return trimmed
}

// renderIconManifest emits src/lib/icon-manifest.ts with the trimmed asset
// subset, keys sorted for byte-identical output, plus the full-manifest
// path constant for overflow lookups.
func renderIconManifest(trimmed map[string]string, fullManifestPath string) string {
	names := make([]string, 0, len(trimmed))
	for name := range trimmed {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("// Generated icon subset. Icons referenced by the scaffolded components\n")
	b.WriteString("// plus a small always-useful set; consult fullManifestPath for the rest.\n")
	b.WriteString("export const icons: Record<string, string> = {\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  %q: %q,\n", name, trimmed[name])
	}
	b.WriteString("};\n\n")
	fmt.Fprintf(&b, "export const fullManifestPath = %q;\n", fullManifestPath)
	return b.String()
}
