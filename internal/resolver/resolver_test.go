package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/loomkit/loom/internal/catalog"
)

func buildStore(t *testing.T, records []catalog.ComponentRecord) *catalog.Store {
	t.Helper()
	snap := &catalog.Snapshot{SchemaVersion: "1.0.0", Components: records}
	store, err := catalog.NewStore(snap)
	require.NoError(t, err)
	return store
}

func exampleStore(t *testing.T) *catalog.Store {
	return buildStore(t, []catalog.ComponentRecord{
		{Name: "Button", Layer: 3, Kind: "action"},
		{Name: "Card", Layer: 3, Kind: "display"},
		{Name: "Modal", Layer: 4, Kind: "overlay", Dependencies: []string{"Button"}},
		{Name: "SettingsPage", Layer: 6, Kind: "layout", Dependencies: []string{"Modal", "Card"}},
	})
}

func indexOf(closure []Resolved, name string) int {
	for i, r := range closure {
		if r.Name == name {
			return i
		}
	}
	return -1
}

func TestResolveBottomUp(t *testing.T) {
	r := New(exampleStore(t), zap.NewNop())

	closure, err := r.Resolve("SettingsPage")
	require.NoError(t, err)
	require.Len(t, closure, 4)

	// Dependencies strictly precede their dependents; the root is last.
	assert.Less(t, indexOf(closure, "Button"), indexOf(closure, "Modal"))
	assert.Less(t, indexOf(closure, "Modal"), indexOf(closure, "SettingsPage"))
	assert.Less(t, indexOf(closure, "Card"), indexOf(closure, "SettingsPage"))
	assert.Equal(t, "SettingsPage", closure[3].Name)

	deps, err := r.Dependencies("SettingsPage")
	require.NoError(t, err)
	assert.Len(t, deps, 3)
	assert.Equal(t, closure[:3], deps)
}

func TestResolveDiamondEmitsOnce(t *testing.T) {
	store := buildStore(t, []catalog.ComponentRecord{
		{Name: "Icon", Layer: 2},
		{Name: "Button", Layer: 3, Dependencies: []string{"Icon"}},
		{Name: "Input", Layer: 3, Dependencies: []string{"Icon"}},
		{Name: "SearchField", Layer: 4, Dependencies: []string{"Button", "Input"}},
	})
	r := New(store, zap.NewNop())

	closure, err := r.Resolve("SearchField")
	require.NoError(t, err)
	require.Len(t, closure, 4)

	// Icon is reachable via both Button and Input but appears exactly
	// once, at the position of its first visit.
	assert.Equal(t, "Icon", closure[0].Name)
	assert.Equal(t, "Button", closure[1].Name)
	assert.Equal(t, "Input", closure[2].Name)
	assert.Equal(t, "SearchField", closure[3].Name)
}

func TestResolveUnknownRootIsError(t *testing.T) {
	r := New(exampleStore(t), zap.NewNop())
	_, err := r.Resolve("Ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "component not found")
}

func TestResolveSkipsUnknownDependency(t *testing.T) {
	store := buildStore(t, []catalog.ComponentRecord{
		{Name: "Button", Layer: 3, Dependencies: []string{"MissingThing"}},
	})
	r := New(store, zap.NewNop())

	closure, err := r.Resolve("Button")
	require.NoError(t, err)
	require.Len(t, closure, 1)
	assert.Equal(t, "Button", closure[0].Name)
}

func TestResolveTerminatesOnCycle(t *testing.T) {
	// Malformed cyclic data must not loop. NewStore accepts the cycle
	// (cycle detection is not its job); the visited guard ends the walk.
	store := buildStore(t, []catalog.ComponentRecord{
		{Name: "A", Layer: 4, Dependencies: []string{"B"}},
		{Name: "B", Layer: 4, Dependencies: []string{"A"}},
	})
	r := New(store, zap.NewNop())

	closure, err := r.Resolve("A")
	require.NoError(t, err)
	require.Len(t, closure, 2)
	assert.Equal(t, "B", closure[0].Name)
	assert.Equal(t, "A", closure[1].Name)
}

func TestResolveMemoized(t *testing.T) {
	r := New(exampleStore(t), zap.NewNop())

	first, err := r.Resolve("SettingsPage")
	require.NoError(t, err)
	second, err := r.Resolve("SettingsPage")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Callers get defensive copies, so mutating one result must not leak
	// into the cache.
	first[0].Name = "mutated"
	third, err := r.Resolve("SettingsPage")
	require.NoError(t, err)
	assert.Equal(t, second, third)
}

func TestResolveCaseInsensitiveRoot(t *testing.T) {
	r := New(exampleStore(t), zap.NewNop())
	closure, err := r.Resolve("settingspage")
	require.NoError(t, err)
	assert.Equal(t, "SettingsPage", closure[len(closure)-1].Name)
}

func TestVirtualExpandIdempotent(t *testing.T) {
	store := buildStore(t, []catalog.ComponentRecord{
		{Name: "Button", Layer: 3},
		{Name: "IconButton", Layer: 3, HostComponent: "Button"},
		{Name: "Card", Layer: 3},
	})
	e := NewVirtualExpander(store)

	set := map[string]Resolved{
		"Button": {Name: "Button", Layer: 3},
	}
	e.Expand(set)
	require.Len(t, set, 2)
	assert.Contains(t, set, "IconButton")

	// Second run yields the same set - no growth.
	e.Expand(set)
	assert.Len(t, set, 2)
}

func TestVirtualExpandRequiresHostPresent(t *testing.T) {
	store := buildStore(t, []catalog.ComponentRecord{
		{Name: "Button", Layer: 3},
		{Name: "IconButton", Layer: 3, HostComponent: "Button"},
		{Name: "Card", Layer: 3},
	})
	e := NewVirtualExpander(store)

	set := map[string]Resolved{"Card": {Name: "Card", Layer: 3}}
	e.Expand(set)
	assert.Len(t, set, 1)
}

func TestHostOf(t *testing.T) {
	store := buildStore(t, []catalog.ComponentRecord{
		{Name: "Button", Layer: 3},
		{Name: "IconButton", Layer: 3, HostComponent: "Button"},
	})
	e := NewVirtualExpander(store)

	host, ok := e.HostOf("IconButton")
	require.True(t, ok)
	assert.Equal(t, "Button", host)

	_, ok = e.HostOf("Button")
	assert.False(t, ok)
	_, ok = e.HostOf("Ghost")
	assert.False(t, ok)
}
