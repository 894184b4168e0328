package scaffold

import (
	"fmt"
	"sort"
	"strings"

	"github.com/loomkit/loom/internal/catalog"
)

// exportGroup describes one component directory and the names it exports:
// the owning non-virtual component plus any resolved virtual names hosted
// there.
type exportGroup struct {
	host    *catalog.ComponentRecord
	exports []string // host name first, virtual names sorted after
}

// buildExportGroups computes, for every non-virtual resolved component, the
// names its directory exports. Virtual names are routed to their host's
// group so they are never imported from a nonexistent path.
func (s *Scaffolder) buildExportGroups(resolved map[string]struct{}) map[string]*exportGroup {
	groups := make(map[string]*exportGroup)

	for name := range resolved {
		rec, ok := s.store.Get(name)
		if !ok || rec.IsVirtual() {
			continue
		}
		groups[rec.Name] = &exportGroup{host: rec, exports: []string{rec.Name}}
	}

	for name := range resolved {
		rec, ok := s.store.Get(name)
		if !ok || !rec.IsVirtual() {
			continue
		}
		group, ok := groups[rec.HostComponent]
		if !ok {
			// Host outside the resolved set; expansion should prevent
			// this, skip rather than emit a dangling export.
			continue
		}
		group.exports = append(group.exports, rec.Name)
	}

	for _, group := range groups {
		virtuals := group.exports[1:]
		sort.Strings(virtuals)
	}

	return groups
}

// componentBarrel renders the index.ts of one component directory.
func componentBarrel(group *exportGroup) string {
	return fmt.Sprintf("export { %s } from %q;\n",
		strings.Join(group.exports, ", "),
		"./"+group.host.KebabName())
}

// layerBarrel renders the index.ts of one layer directory, re-exporting
// every component directory in the layer in lexicographic order.
func layerBarrel(groups []*exportGroup) string {
	sort.Slice(groups, func(a, b int) bool {
		return groups[a].host.Name < groups[b].host.Name
	})

	var b strings.Builder
	for _, group := range groups {
		fmt.Fprintf(&b, "export { %s } from %q;\n",
			strings.Join(group.exports, ", "),
			"./"+group.host.KebabName())
	}
	return b.String()
}

// rootBarrel renders src/components/index.ts, re-exporting the populated
// layer barrels from the highest layer number to the lowest. The ordering
// is cosmetic (pages before primitives in generated code) but must be
// deterministic.
func rootBarrel(populatedLayers []int) string {
	layers := make([]int, len(populatedLayers))
	copy(layers, populatedLayers)
	sort.Sort(sort.Reverse(sort.IntSlice(layers)))

	var b strings.Builder
	for _, layer := range layers {
		fmt.Fprintf(&b, "export * from %q;\n", "./"+catalog.LayerDir(layer))
	}
	return b.String()
}
