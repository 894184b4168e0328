package resolver

import "github.com/loomkit/loom/internal/catalog"

// VirtualExpander pulls virtual catalog entries into a resolved set when
// their host is already included. Virtual children are "free" once their
// host is pulled in: they share the host's source file, so exporting them
// costs nothing.
type VirtualExpander struct {
	store *catalog.Store
}

// NewVirtualExpander creates an expander over the given store.
func NewVirtualExpander(store *catalog.Store) *VirtualExpander {
	return &VirtualExpander{store: store}
}

// Expand adds every virtual record whose host is present in the set. The
// set is mutated in place and returned. Expansion is idempotent: a second
// run finds nothing new to add.
func (e *VirtualExpander) Expand(set map[string]Resolved) map[string]Resolved {
	for name := range set {
		for _, virt := range e.store.VirtualsHostedBy(name) {
			if _, ok := set[virt.Name]; ok {
				continue
			}
			set[virt.Name] = Resolved{Name: virt.Name, Layer: virt.Layer, Kind: virt.Kind}
		}
	}
	return set
}

// HostOf returns the host name for a virtual component, or "" and false for
// non-virtual or unknown names.
func (e *VirtualExpander) HostOf(name string) (string, bool) {
	rec, ok := e.store.Get(name)
	if !ok || !rec.IsVirtual() {
		return "", false
	}
	return rec.HostComponent, true
}
