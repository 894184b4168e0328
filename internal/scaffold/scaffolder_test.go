package scaffold

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/loomkit/loom/internal/catalog"
	"github.com/loomkit/loom/internal/resolver"
)

func newTestScaffolder(t *testing.T) *Scaffolder {
	t.Helper()
	snap, err := catalog.Default(zap.NewNop())
	require.NoError(t, err)
	store, err := catalog.NewStore(snap)
	require.NoError(t, err)
	res := resolver.New(store, zap.NewNop())
	return New(store, res, Options{BaseURL: "https://cdn.example.com/loom"}, zap.NewNop())
}

func planFile(t *testing.T, plan *Plan, path string) File {
	t.Helper()
	for _, f := range plan.Files {
		if f.Path == path {
			return f
		}
	}
	t.Fatalf("plan has no file %s; files: %v", path, plan.Tree())
	return File{}
}

func hasFile(plan *Plan, path string) bool {
	for _, f := range plan.Files {
		if f.Path == path {
			return true
		}
	}
	return false
}

func TestScaffoldDeterministic(t *testing.T) {
	s := newTestScaffolder(t)

	first, err := s.Scaffold("admin-portal", []string{"AppShell", "DataTable", "FilterBar"}, ModeInline)
	require.NoError(t, err)
	second, err := s.Scaffold("admin-portal", []string{"AppShell", "DataTable", "FilterBar"}, ModeInline)
	require.NoError(t, err)

	// Byte-identical files and identical resolved-name list, order included.
	assert.Equal(t, first.Components, second.Components)
	require.Equal(t, len(first.Files), len(second.Files))
	for i := range first.Files {
		assert.Equal(t, first.Files[i], second.Files[i])
	}
}

func TestScaffoldPartialFailure(t *testing.T) {
	s := newTestScaffolder(t)

	plan, err := s.Scaffold("demo", []string{"Button", "TotallyUnknownXYZ"}, ModeInline)
	require.NoError(t, err)
	assert.Equal(t, []string{"TotallyUnknownXYZ"}, plan.NotFound)
	assert.Contains(t, plan.Components, "Button")
	assert.True(t, hasFile(plan, "src/components/primitives/button/button.tsx"))
}

func TestScaffoldEmptyResolutionIsHardError(t *testing.T) {
	s := newTestScaffolder(t)

	_, err := s.Scaffold("demo", []string{"TotallyUnknownXYZ"}, ModeInline)
	require.Error(t, err)
	var empty *EmptyResolutionError
	require.ErrorAs(t, err, &empty)
	assert.Equal(t, []string{"TotallyUnknownXYZ"}, empty.Unknown)
}

func TestScaffoldSuggestionsOnEmptyResolution(t *testing.T) {
	snap, err := catalog.Default(zap.NewNop())
	require.NoError(t, err)
	store, err := catalog.NewStore(snap)
	require.NoError(t, err)
	res := resolver.New(store, zap.NewNop())
	s := New(store, res, Options{
		Suggest: func(name string, limit int) []string {
			return []string{"Button"}
		},
	}, zap.NewNop())

	_, err = s.Scaffold("demo", []string{"Buton"}, ModeInline)
	var empty *EmptyResolutionError
	require.ErrorAs(t, err, &empty)
	assert.Equal(t, []string{"Button"}, empty.Suggestions["Buton"])
}

func TestScaffoldVirtualRedirection(t *testing.T) {
	s := newTestScaffolder(t)

	// Requesting Button pulls in its virtual child IconButton for free.
	plan, err := s.Scaffold("demo", []string{"Button"}, ModeInline)
	require.NoError(t, err)
	assert.Contains(t, plan.Components, "IconButton")

	// IconButton is exported from Button's barrel, and no path is ever
	// generated under IconButton's own (nonexistent) directory.
	barrel := planFile(t, plan, "src/components/primitives/button/index.ts")
	assert.Contains(t, barrel.Content, "export { Button, IconButton } from \"./button\";")
	for _, path := range plan.Tree() {
		assert.NotContains(t, path, "icon-button")
	}
}

func TestScaffoldBarrelLayout(t *testing.T) {
	s := newTestScaffolder(t)

	plan, err := s.Scaffold("demo", []string{"AppShell", "DataTable"}, ModeInline)
	require.NoError(t, err)

	// Root barrel re-exports populated layers from highest to lowest.
	root := planFile(t, plan, "src/components/index.ts")
	lines := strings.Split(strings.TrimSpace(root.Content), "\n")
	require.NotEmpty(t, lines)
	assert.Equal(t, `export * from "./shells";`, lines[0])
	assert.Equal(t, `export * from "./utils";`, lines[len(lines)-1])

	// Layer barrel lists component directories lexicographically.
	prims := planFile(t, plan, "src/components/primitives/index.ts")
	avatarIdx := strings.Index(prims.Content, "avatar")
	buttonIdx := strings.Index(prims.Content, "button")
	require.GreaterOrEqual(t, avatarIdx, 0)
	require.GreaterOrEqual(t, buttonIdx, 0)
	assert.Less(t, avatarIdx, buttonIdx)
}

func TestScaffoldModeTreeEquality(t *testing.T) {
	s := newTestScaffolder(t)
	req := []string{"AppShell", "DataTable"}

	inline, err := s.Scaffold("demo", req, ModeInline)
	require.NoError(t, err)
	urls, err := s.Scaffold("demo", req, ModeURLs)
	require.NoError(t, err)

	// urls mode adds only the setup script; the logical tree is otherwise
	// identical.
	inlineTree := inline.Tree()
	urlsTree := urls.Tree()
	require.Equal(t, len(inlineTree)+1, len(urlsTree))
	assert.Contains(t, urlsTree, "setup.sh")
	for _, path := range inlineTree {
		assert.Contains(t, urlsTree, path)
	}

	// Catalog-sourced files carry remote references in urls mode; the same
	// paths carry inline content in inline mode. Exactly one of the two is
	// ever set.
	for _, f := range urls.Files {
		if f.RemoteURL != "" {
			assert.Empty(t, f.Content, "file %s has both content and remote URL", f.Path)
			assert.Equal(t, "https://cdn.example.com/loom/files/"+f.Path, f.RemoteURL)
			inlineFile := planFile(t, inline, f.Path)
			assert.NotEmpty(t, inlineFile.Content)
		}
	}

	// Generated files stay inline in both modes.
	for _, path := range []string{"package.json", "src/App.tsx", "src/components/index.ts"} {
		f := planFile(t, urls, path)
		assert.NotEmpty(t, f.Content)
		assert.Empty(t, f.RemoteURL)
	}
}

func TestScaffoldSetupScript(t *testing.T) {
	s := newTestScaffolder(t)

	plan, err := s.Scaffold("demo", []string{"Button"}, ModeURLs)
	require.NoError(t, err)

	script := planFile(t, plan, "setup.sh")
	assert.True(t, strings.HasPrefix(script.Content, "#!/usr/bin/env sh"))
	assert.Contains(t, script.Content, "set -eu")
	assert.Contains(t, script.Content, "npm install")

	// Every remote reference is downloaded to its destination.
	for _, f := range plan.Files {
		if f.RemoteURL == "" {
			continue
		}
		assert.Contains(t, script.Content, f.RemoteURL)
		assert.Contains(t, script.Content, f.Path)
	}
}

func TestScaffoldIconManifest(t *testing.T) {
	s := newTestScaffolder(t)

	// DataTable depends on Icon, so the trimmed manifest is generated.
	plan, err := s.Scaffold("demo", []string{"AppShell", "DataTable"}, ModeInline)
	require.NoError(t, err)

	manifest := planFile(t, plan, "src/lib/icon-manifest.ts")
	// Safety-net entries are always present.
	for _, name := range safetyNetIcons {
		assert.Contains(t, manifest.Content, "\""+name+"\"")
	}
	// Referenced by DataTable's source.
	assert.Contains(t, manifest.Content, "\"chevron-down\"")
	// In the asset table but never referenced and not safety-net: trimmed.
	assert.NotContains(t, manifest.Content, "calendar")
	assert.Contains(t, manifest.Content, "fullManifestPath")
}

func TestScaffoldIconManifestOmittedWithoutRegistry(t *testing.T) {
	s := newTestScaffolder(t)

	// Card has no dependency on the icon registry.
	plan, err := s.Scaffold("demo", []string{"Card"}, ModeInline)
	require.NoError(t, err)
	assert.False(t, hasFile(plan, "src/lib/icon-manifest.ts"))
}

func TestScaffoldMissingOptionalArtifacts(t *testing.T) {
	// A snapshot without stylesheet or utility file still scaffolds; the
	// sections are omitted with warnings.
	snap := &catalog.Snapshot{
		SchemaVersion: "1.0.0",
		Components: []catalog.ComponentRecord{
			{Name: "Button", Layer: catalog.LayerPrimitive, Kind: "action"},
		},
		Sources: map[string]string{"Button:3": "export function Button() {}\n"},
	}
	store, err := catalog.NewStore(snap)
	require.NoError(t, err)
	res := resolver.New(store, zap.NewNop())
	s := New(store, res, Options{}, zap.NewNop())

	plan, err := s.Scaffold("demo", []string{"Button"}, ModeInline)
	require.NoError(t, err)
	assert.False(t, hasFile(plan, "src/styles/globals.css"))
	assert.False(t, hasFile(plan, "src/lib/utils.ts"))
	assert.NotEmpty(t, plan.Warnings)

	// main.tsx must not import the omitted stylesheet.
	main := planFile(t, plan, "src/main.tsx")
	assert.NotContains(t, main.Content, "globals.css")
}

func TestScaffoldComponentsOrderedByLayerThenName(t *testing.T) {
	s := newTestScaffolder(t)

	plan, err := s.Scaffold("demo", []string{"AppShell", "DataTable"}, ModeInline)
	require.NoError(t, err)

	last := resolver.Resolved{}
	for i, name := range plan.Components {
		rec, ok := s.store.Get(name)
		require.True(t, ok)
		if i > 0 {
			if rec.Layer == last.Layer {
				assert.Greater(t, rec.Name, last.Name)
			} else {
				assert.Greater(t, rec.Layer, last.Layer)
			}
		}
		last = resolver.Resolved{Name: rec.Name, Layer: rec.Layer}
	}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeInline, m)

	m, err = ParseMode("urls")
	require.NoError(t, err)
	assert.Equal(t, ModeURLs, m)

	_, err = ParseMode("carrier-pigeon")
	assert.Error(t, err)
}
