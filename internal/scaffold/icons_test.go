package scaffold

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttrScanner(t *testing.T) {
	scanner := NewAttrScanner()

	src := `
		<Icon name="search" size={14} />
		<IconButton icon="close" label="Dismiss" />
		<Icon name="search" />
		<Icon name={dynamic} />
		<input name="displayName" />
	`
	names := scanner.Scan(src)

	// Duplicates collapse; dynamic references are invisible; identifier
	// casing like displayName does not match the lowercase pattern.
	assert.ElementsMatch(t, []string{"search", "close"}, names)
}

func TestTrimIconAssets(t *testing.T) {
	assets := map[string]string{
		"search":       "icons/search.svg",
		"close":        "icons/close.svg",
		"check":        "icons/check.svg",
		"chevron-down": "icons/chevron-down.svg",
		"alert-circle": "icons/alert-circle.svg",
		"calendar":     "icons/calendar.svg",
		"trash":        "icons/trash.svg",
	}
	sources := []string{`<Icon name="trash" />`}

	trimmed := trimIconAssets(assets, sources, NewAttrScanner())

	// Referenced plus the full safety net; calendar is neither.
	assert.Contains(t, trimmed, "trash")
	for _, name := range safetyNetIcons {
		assert.Contains(t, trimmed, name)
	}
	assert.NotContains(t, trimmed, "calendar")
}

func TestTrimIconAssetsDropsUnknownReferences(t *testing.T) {
	assets := map[string]string{"check": "icons/check.svg"}
	sources := []string{`<Icon name="not-in-table" />`}

	trimmed := trimIconAssets(assets, sources, NewAttrScanner())
	assert.Equal(t, map[string]string{"check": "icons/check.svg"}, trimmed)
}

func TestRenderIconManifestSortedAndPointsToFullManifest(t *testing.T) {
	trimmed := map[string]string{
		"close":  "icons/close.svg",
		"check":  "icons/check.svg",
		"search": "icons/search.svg",
	}
	out := renderIconManifest(trimmed, "assets/icon-manifest.json")

	assert.Contains(t, out, "export const icons: Record<string, string> = {")
	assert.Contains(t, out, `export const fullManifestPath = "assets/icon-manifest.json";`)

	// Keys are emitted in sorted order for byte-identical output.
	checkIdx := strings.Index(out, `"check"`)
	closeIdx := strings.Index(out, `"close"`)
	searchIdx := strings.Index(out, `"search"`)
	assert.True(t, checkIdx < closeIdx && closeIdx < searchIdx)
}
