package commands

import (
	"archive/tar"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Loom version:")
	assert.Contains(t, out, "Go version:")
}

func TestListCommandJSON(t *testing.T) {
	out, err := runCommand(t, "list", "--format", "json")
	require.NoError(t, err)

	var components []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &components))
	assert.Greater(t, len(components), 10)
}

func TestListCommandLayerFilter(t *testing.T) {
	out, err := runCommand(t, "list", "--layer", "6", "--format", "json")
	require.NoError(t, err)

	var components []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &components))
	require.Len(t, components, 1)
	assert.Equal(t, "AppShell", components[0]["name"])
}

func TestSearchCommandJSON(t *testing.T) {
	out, err := runCommand(t, "search", "button", "--format", "json")
	require.NoError(t, err)

	var results []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.NotEmpty(t, results)
	assert.Equal(t, "Button", results[0]["name"])
}

func TestInfoCommandUnknownComponent(t *testing.T) {
	_, err := runCommand(t, "info", "Buton")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "component not found")
}

func TestScaffoldWritesTreeAndRefusesOverwrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "admin")

	out, err := runCommand(t, "scaffold", "admin", "--components", "AppShell,DataTable", "--out", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote")

	for _, path := range []string{"package.json", "src/App.tsx", "src/components/index.ts"} {
		_, err := os.Stat(filepath.Join(dir, path))
		assert.NoError(t, err, path)
	}

	_, err = runCommand(t, "scaffold", "admin", "--components", "AppShell", "--out", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not empty")
}

func TestScaffoldArchive(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "admin.tar.gz")

	_, err := runCommand(t, "scaffold", "admin", "--components", "Button", "--archive", archive)
	require.NoError(t, err)

	f, err := os.Open(archive)
	require.NoError(t, err)
	defer f.Close()

	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	tr := tar.NewReader(gz)

	var names []string
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		names = append(names, header.Name)
	}
	assert.Contains(t, names, "admin/package.json")
	assert.Contains(t, names, "admin/src/components/primitives/button/button.tsx")
}

func TestScaffoldRequiresComponents(t *testing.T) {
	_, err := runCommand(t, "scaffold", "admin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one component")
}

func TestServeRejectsUnknownTransport(t *testing.T) {
	_, err := runCommand(t, "serve", "--transport", "carrier-pigeon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid transport")
}

func TestValidateDefaultSnapshot(t *testing.T) {
	out, err := runCommand(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "OK")
}
