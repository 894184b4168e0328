package catalog

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// SupportedSchema is the semver constraint for snapshot schema versions this
// build understands.
const SupportedSchema = "^1"

// Snapshot is the immutable catalog payload loaded once at process start.
// It carries component records, source file bodies keyed "name:layer", the
// base stylesheet, the shared utility file, and the icon asset table.
type Snapshot struct {
	SchemaVersion string            `json:"schemaVersion" yaml:"schemaVersion"`
	Components    []ComponentRecord `json:"components" yaml:"components"`

	// Sources holds raw source bodies keyed by ComponentRecord.SourceKey().
	// Virtual records have no entry; their source lives under the host key.
	Sources map[string]string `json:"sources,omitempty" yaml:"sources,omitempty"`

	// BaseStylesheet is the design-system global stylesheet. Optional;
	// when empty the generated project omits it.
	BaseStylesheet string `json:"baseStylesheet,omitempty" yaml:"baseStylesheet,omitempty"`

	// UtilityFile is the shared helper module every component imports.
	// Optional; when empty the generated project omits it.
	UtilityFile string `json:"utilityFile,omitempty" yaml:"utilityFile,omitempty"`

	// Assets maps icon names to design-system CDN paths.
	Assets map[string]string `json:"assets,omitempty" yaml:"assets,omitempty"`

	// AssetManifestPath points at the full icon manifest for overflow
	// lookups beyond the trimmed subset.
	AssetManifestPath string `json:"assetManifestPath,omitempty" yaml:"assetManifestPath,omitempty"`
}

// checkSchemaVersion verifies the snapshot's schemaVersion against
// SupportedSchema.
func checkSchemaVersion(version string) error {
	if version == "" {
		return fmt.Errorf("snapshot is missing schemaVersion")
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("invalid schemaVersion %q: %w", version, err)
	}

	constraint, err := semver.NewConstraint(SupportedSchema)
	if err != nil {
		return fmt.Errorf("invalid schema constraint %q: %w", SupportedSchema, err)
	}

	if !constraint.Check(v) {
		return fmt.Errorf("unsupported schemaVersion %s (supported: %s)", version, SupportedSchema)
	}

	return nil
}

// Validate checks the snapshot's structural invariants. Hard violations
// (duplicate names, bad layers, self-dependency, dangling or virtual hosts)
// return an error and must fail the load. Unknown declared dependency names
// are returned as warnings: they are a data-quality issue, not a load
// failure.
func (s *Snapshot) Validate() ([]string, error) {
	if err := checkSchemaVersion(s.SchemaVersion); err != nil {
		return nil, err
	}

	byName := make(map[string]*ComponentRecord, len(s.Components))
	for i := range s.Components {
		rec := &s.Components[i]
		if rec.Name == "" {
			return nil, fmt.Errorf("component at index %d has no name", i)
		}
		if _, exists := byName[rec.Name]; exists {
			return nil, fmt.Errorf("duplicate component name: %s", rec.Name)
		}
		if !ValidLayer(rec.Layer) {
			return nil, fmt.Errorf("component %s: layer %d out of range [%d,%d]",
				rec.Name, rec.Layer, LayerUtility, LayerShell)
		}
		byName[rec.Name] = rec
	}

	var warnings []string
	for i := range s.Components {
		rec := &s.Components[i]

		if rec.IsVirtual() {
			host, ok := byName[rec.HostComponent]
			if !ok {
				return nil, fmt.Errorf("virtual component %s: host %s does not exist",
					rec.Name, rec.HostComponent)
			}
			if host.IsVirtual() {
				return nil, fmt.Errorf("virtual component %s: host %s is itself virtual",
					rec.Name, rec.HostComponent)
			}
		}

		for _, dep := range rec.Dependencies {
			if dep == rec.Name {
				return nil, fmt.Errorf("component %s depends on itself", rec.Name)
			}
			if _, ok := byName[dep]; !ok {
				warnings = append(warnings,
					fmt.Sprintf("component %s declares unknown dependency %s", rec.Name, dep))
			}
		}
	}

	return warnings, nil
}
