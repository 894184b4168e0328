package scaffold

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/loomkit/loom/internal/catalog"
	"github.com/loomkit/loom/internal/resolver"
)

// IconRegistryComponent is the catalog entry that renders icons from the
// asset table. The trimmed icon manifest is only generated when this
// component is part of the resolved set.
const IconRegistryComponent = "Icon"

// maxSuggestions caps fuzzy suggestions per unknown name.
const maxSuggestions = 3

// SuggestFunc produces fuzzy-search suggestions for an unknown component
// name, best match first.
type SuggestFunc func(name string, limit int) []string

// Options configures a Scaffolder.
type Options struct {
	// BaseURL prefixes remote file references in urls mode.
	BaseURL string
	// Suggest supplies suggestions for unknown requested names. Optional.
	Suggest SuggestFunc
	// Scanner extracts icon references from source bodies. Defaults to the
	// attribute-pattern scanner.
	Scanner IconScanner
}

// Scaffolder synthesizes ready-to-build project trees from resolved
// component sets. It is stateless across requests; every call builds a
// fresh Plan.
type Scaffolder struct {
	store    *catalog.Store
	resolver *resolver.Resolver
	expander *resolver.VirtualExpander
	scanner  IconScanner
	suggest  SuggestFunc
	baseURL  string
	logger   *zap.Logger
}

// New creates a scaffolder over the given store and resolver.
func New(store *catalog.Store, res *resolver.Resolver, opts Options, logger *zap.Logger) *Scaffolder {
	if logger == nil {
		logger = zap.NewNop()
	}
	scanner := opts.Scanner
	if scanner == nil {
		scanner = NewAttrScanner()
	}
	return &Scaffolder{
		store:    store,
		resolver: res,
		expander: resolver.NewVirtualExpander(store),
		scanner:  scanner,
		suggest:  opts.Suggest,
		baseURL:  strings.TrimSuffix(opts.BaseURL, "/"),
		logger:   logger,
	}
}

// Scaffold resolves the requested component set and assembles the project
// manifest. Unknown names are soft warnings collected in Plan.NotFound; the
// only hard failure is an entirely-unknown request (EmptyResolutionError).
func (s *Scaffolder) Scaffold(projectName string, requested []string, mode Mode) (*Plan, error) {
	if projectName == "" {
		return nil, fmt.Errorf("project name is required")
	}
	if mode == "" {
		mode = ModeInline
	}

	// Step 1: resolve every known requested name and merge the closures.
	set := make(map[string]resolver.Resolved)
	var notFound []string
	var knownRequested []*catalog.ComponentRecord
	seen := make(map[string]struct{})

	for _, name := range requested {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		rec, ok := s.store.Get(name)
		if !ok {
			notFound = append(notFound, name)
			continue
		}
		knownRequested = append(knownRequested, rec)

		closure, err := s.resolver.Resolve(rec.Name)
		if err != nil {
			return nil, err
		}
		for _, r := range closure {
			set[r.Name] = r
		}
	}

	if len(set) == 0 {
		err := &EmptyResolutionError{Unknown: notFound, Suggestions: map[string][]string{}}
		if s.suggest != nil {
			for _, name := range notFound {
				err.Suggestions[name] = s.suggest(name, maxSuggestions)
			}
		}
		return nil, err
	}

	// Step 2: pull in virtual components whose host is already included.
	s.expander.Expand(set)

	// Step 3: deterministic grouping - layer buckets sorted by name, and
	// the flat component list ordered by layer then name.
	layers := make(map[int][]string)
	for _, r := range set {
		layers[r.Layer] = append(layers[r.Layer], r.Name)
	}
	for _, names := range layers {
		sort.Strings(names)
	}
	components := make([]string, 0, len(set))
	for name := range set {
		components = append(components, name)
	}
	sort.Slice(components, func(a, b int) bool {
		ra, rb := set[components[a]], set[components[b]]
		if ra.Layer != rb.Layer {
			return ra.Layer < rb.Layer
		}
		return ra.Name < rb.Name
	})

	plan := &Plan{
		ProjectName: projectName,
		Mode:        mode,
		Components:  components,
		Layers:      layers,
		NotFound:    notFound,
	}
	for _, name := range notFound {
		plan.Warnings = append(plan.Warnings, fmt.Sprintf("component not found: %s", name))
	}

	if err := s.assemble(plan, set, knownRequested); err != nil {
		return nil, err
	}
	return plan, nil
}

// assemble builds the manifest from one internal representation and applies
// the mode as a final serialization step, so the two modes cannot drift.
func (s *Scaffolder) assemble(plan *Plan, set map[string]resolver.Resolved, knownRequested []*catalog.ComponentRecord) error {
	snap := s.store.Snapshot()
	resolved := make(map[string]struct{}, len(set))
	for name := range set {
		resolved[name] = struct{}{}
	}

	hasStylesheet := snap.BaseStylesheet != ""
	hasUtility := snap.UtilityFile != ""

	var files []File
	catalogSourced := make(map[string]struct{})
	addGenerated := func(path, content string) {
		files = append(files, File{Path: path, Content: content})
	}
	addSourced := func(path, content string) {
		files = append(files, File{Path: path, Content: content})
		catalogSourced[path] = struct{}{}
	}

	// Fixed boilerplate.
	addGenerated("package.json", renderPackageJSON(plan.ProjectName))
	addGenerated("vite.config.ts", viteConfig)
	addGenerated("tsconfig.json", tsConfig)
	addGenerated("index.html", renderIndexHTML(plan.ProjectName))
	addGenerated("src/main.tsx", renderMainTSX(hasStylesheet))

	// Optional snapshot artifacts: absence omits the section, never fails.
	if hasStylesheet {
		addSourced("src/styles/globals.css", snap.BaseStylesheet)
	} else {
		plan.Warnings = append(plan.Warnings, "catalog has no base stylesheet; src/styles/globals.css omitted")
	}
	if hasUtility {
		addSourced("src/lib/utils.ts", snap.UtilityFile)
	} else {
		plan.Warnings = append(plan.Warnings, "catalog has no shared utility file; src/lib/utils.ts omitted")
	}

	// Component directories: source body plus barrel per non-virtual
	// component, virtual names exported from their host's directory.
	groups := s.buildExportGroups(resolved)
	groupList := make([]*exportGroup, 0, len(groups))
	for _, group := range groups {
		body, ok := s.store.Source(group.host.Name)
		if !ok {
			// No source body is a data-quality gap; drop the directory
			// rather than emit a barrel over a missing file.
			plan.Warnings = append(plan.Warnings,
				fmt.Sprintf("no source body for %s; component omitted", group.host.Name))
			s.logger.Warn("missing source body", zap.String("component", group.host.Name))
			continue
		}
		groupList = append(groupList, group)
		dir := fmt.Sprintf("src/components/%s/%s", catalog.LayerDir(group.host.Layer), group.host.KebabName())
		addSourced(dir+"/"+group.host.KebabName()+".tsx", body)
		addGenerated(dir+"/index.ts", componentBarrel(group))
	}
	// Deterministic source/barrel ordering regardless of map iteration.
	sort.SliceStable(files[5:], func(a, b int) bool { return files[5+a].Path < files[5+b].Path })

	// Layer barrels over the populated (host) layers, then the root barrel.
	byLayer := make(map[int][]*exportGroup)
	for _, group := range groupList {
		byLayer[group.host.Layer] = append(byLayer[group.host.Layer], group)
	}
	populated := make([]int, 0, len(byLayer))
	for layer := range byLayer {
		populated = append(populated, layer)
	}
	sort.Ints(populated)
	for _, layer := range populated {
		addGenerated(fmt.Sprintf("src/components/%s/index.ts", catalog.LayerDir(layer)), layerBarrel(byLayer[layer]))
	}
	addGenerated("src/components/index.ts", rootBarrel(populated))

	// Trimmed icon subset, only when the icon registry is in play and the
	// snapshot actually carries an asset table.
	if _, ok := resolved[IconRegistryComponent]; ok && len(snap.Assets) > 0 {
		var bodies []string
		for _, group := range groupList {
			if body, ok := s.store.Source(group.host.Name); ok {
				bodies = append(bodies, body)
			}
		}
		trimmed := trimIconAssets(snap.Assets, bodies, s.scanner)
		addGenerated("src/lib/icon-manifest.ts", renderIconManifest(trimmed, snap.AssetManifestPath))
	}

	// Entry point, selected against the originally requested set.
	kind := selectTemplate(knownRequested)
	entry, err := renderEntryPoint(kind, plan.ProjectName, resolved, plan.Components)
	if err != nil {
		return err
	}
	addGenerated("src/App.tsx", entry)
	s.logger.Debug("selected entry-point template",
		zap.String("template", kind.String()),
		zap.String("project", plan.ProjectName),
	)

	// Final serialization step: in urls mode, catalog-sourced bodies become
	// remote references and a setup script is appended. The logical tree
	// is unchanged.
	if plan.Mode == ModeURLs {
		for i := range files {
			if _, ok := catalogSourced[files[i].Path]; ok {
				files[i].RemoteURL = s.remoteURL(files[i].Path)
				files[i].Content = ""
			}
		}
		files = append(files, File{Path: "setup.sh", Content: renderSetupScript(plan.ProjectName, files)})
	}

	plan.Files = files
	return nil
}

// remoteURL maps a destination path to its catalog file URL.
func (s *Scaffolder) remoteURL(path string) string {
	base := s.baseURL
	if base == "" {
		base = "http://localhost:7420"
	}
	return base + "/files/" + path
}
