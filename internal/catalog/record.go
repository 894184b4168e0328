package catalog

import (
	"fmt"
	"strings"
)

// Layer ranks in the component hierarchy. Higher layers may depend on lower
// layers, never the reverse in well-formed data.
const (
	LayerUtility   = 2
	LayerPrimitive = 3
	LayerComposite = 4
	LayerPattern   = 5
	LayerShell     = 6
)

// layerDirs maps layer ranks to generated project directory names.
var layerDirs = map[int]string{
	LayerUtility:   "utils",
	LayerPrimitive: "primitives",
	LayerComposite: "composites",
	LayerPattern:   "patterns",
	LayerShell:     "shells",
}

// layerNames maps layer ranks to human-readable labels.
var layerNames = map[int]string{
	LayerUtility:   "utility",
	LayerPrimitive: "primitive",
	LayerComposite: "composite",
	LayerPattern:   "pattern",
	LayerShell:     "shell",
}

// LayerDir returns the generated project directory name for a layer rank.
func LayerDir(layer int) string {
	if dir, ok := layerDirs[layer]; ok {
		return dir
	}
	return fmt.Sprintf("layer-%d", layer)
}

// LayerName returns the human-readable label for a layer rank.
func LayerName(layer int) string {
	if name, ok := layerNames[layer]; ok {
		return name
	}
	return fmt.Sprintf("layer-%d", layer)
}

// ValidLayer reports whether a layer rank is in the supported range.
func ValidLayer(layer int) bool {
	_, ok := layerDirs[layer]
	return ok
}

// ComponentRecord is one catalog entry. Records are immutable after the
// snapshot is loaded.
type ComponentRecord struct {
	// Name is the unique, case-sensitive display/import name.
	Name string `json:"name" yaml:"name"`

	// Layer is the rank in the component hierarchy (2=utility .. 6=shell).
	Layer int `json:"layer" yaml:"layer"`

	// Kind is a free-text category label, used only for search weighting.
	Kind string `json:"kind" yaml:"kind"`

	Description string   `json:"description" yaml:"description"`
	UseCases    []string `json:"useCases,omitempty" yaml:"useCases,omitempty"`
	Aliases     []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	PropNames   []string `json:"props,omitempty" yaml:"props,omitempty"`

	// Dependencies are other component names by declared intent. The list
	// may be incomplete or reference a virtual entry.
	Dependencies []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`

	// HostComponent, when set, marks this record as virtual: it has no
	// source files of its own and all source/export operations redirect to
	// the named host record.
	HostComponent string `json:"hostComponent,omitempty" yaml:"hostComponent,omitempty"`
}

// IsVirtual reports whether the record redirects to a host component.
func (r *ComponentRecord) IsVirtual() bool {
	return r.HostComponent != ""
}

// SourceKey returns the key under which the record's source body is stored
// in the snapshot.
func (r *ComponentRecord) SourceKey() string {
	return fmt.Sprintf("%s:%d", r.Name, r.Layer)
}

// KebabName returns the record name in kebab-case, used for generated file
// and directory names ("DataTable" -> "data-table").
func (r *ComponentRecord) KebabName() string {
	return KebabCase(r.Name)
}

// KebabCase converts a PascalCase or camelCase identifier to kebab-case.
func KebabCase(name string) string {
	var b strings.Builder
	for i, ch := range name {
		if ch >= 'A' && ch <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(ch - 'A' + 'a')
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}
