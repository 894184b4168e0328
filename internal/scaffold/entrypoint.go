package scaffold

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/loomkit/loom/internal/catalog"
)

// templateKind identifies which entry-point template a request selects.
type templateKind int

const (
	tplPlaceholder templateKind = iota
	tplMinimalShell
	tplDashboard
	tplSettingsForm
	tplListPage
)

func (k templateKind) String() string {
	switch k {
	case tplListPage:
		return "list-page"
	case tplSettingsForm:
		return "settings-form"
	case tplDashboard:
		return "dashboard"
	case tplMinimalShell:
		return "minimal-shell"
	default:
		return "placeholder"
	}
}

// Anchor component names per template. Selection tests the originally
// requested set, not the expanded closure, so a transitively pulled-in
// primitive never falsely triggers a template.
var (
	tableAnchors = []string{"DataTable"}
	formAnchors  = []string{"Input", "Textarea", "FormField", "Checkbox", "SearchField"}
	gridAnchors  = []string{"CardGrid"}
	cardAnchors  = []string{"Card", "StatCard"}
)

// componentsUsedBy lists, in render order, every component a template may
// import. The actual import line is the intersection with the resolved set.
var componentsUsedBy = map[templateKind][]string{
	tplListPage:     {"AppShell", "FilterBar", "DataTable", "Badge", "Button"},
	tplSettingsForm: {"AppShell", "Card", "FormField", "Input", "Textarea", "Checkbox", "Button"},
	tplDashboard:    {"AppShell", "CardGrid", "StatCard", "Card"},
	tplMinimalShell: {"AppShell", "Button"},
	tplPlaceholder:  nil,
}

// selectTemplate picks the entry-point template by testing anchors in
// priority order against the requested records.
func selectTemplate(requested []*catalog.ComponentRecord) templateKind {
	names := make(map[string]struct{}, len(requested))
	hasShell := false
	for _, rec := range requested {
		names[rec.Name] = struct{}{}
		if rec.Layer == catalog.LayerShell {
			hasShell = true
		}
	}

	hasAny := func(anchors []string) bool {
		for _, a := range anchors {
			if _, ok := names[a]; ok {
				return true
			}
		}
		return false
	}

	switch {
	case hasShell && hasAny(tableAnchors):
		return tplListPage
	case hasShell && hasAny(formAnchors):
		return tplSettingsForm
	case hasAny(gridAnchors) || hasAll(names, cardAnchors):
		return tplDashboard
	case hasShell:
		return tplMinimalShell
	default:
		return tplPlaceholder
	}
}

func hasAll(names map[string]struct{}, anchors []string) bool {
	for _, a := range anchors {
		if _, ok := names[a]; !ok {
			return false
		}
	}
	return len(anchors) > 0
}

// entryContext is the data every entry-point template renders against.
type entryContext struct {
	ProjectName string
	Imports     string          // comma-joined component names, "" = no import line
	Has         map[string]bool // resolved-set membership per component name
	Components  []string        // resolved names, for the placeholder listing
}

var entryTemplates = map[templateKind]*template.Template{
	tplListPage: template.Must(template.New("list-page").Parse(`{{if .Imports}}import { {{.Imports}} } from "./components";

{{end}}{{if index .Has "AppShell"}}const navigation = [
  { label: "Items", href: "/", icon: "menu" },
];

{{end}}const columns = [
  { key: "name", header: "Name", sortable: true },
  { key: "status", header: "Status" },
];

const rows = [
  { id: "1", name: "First item", status: "active" },
  { id: "2", name: "Second item", status: "archived" },
  { id: "3", name: "Third item", status: "active" },
];

export default function App() {
  return (
{{- if index .Has "AppShell"}}
    <AppShell navigation={navigation}>
{{- else}}
    <div>
{{- end}}
      <h1>{{.ProjectName}}</h1>
{{- if index .Has "FilterBar"}}
      <FilterBar filters={["active", "archived"]} onFilterChange={() => {}}>
{{- if index .Has "Button"}}
        <Button variant="solid">New item</Button>
{{- end}}
      </FilterBar>
{{- end}}
      <DataTable columns={columns} rows={rows} selectable />
{{- if index .Has "AppShell"}}
    </AppShell>
{{- else}}
    </div>
{{- end}}
  );
}
`)),

	tplSettingsForm: template.Must(template.New("settings-form").Parse(`{{if .Imports}}import { {{.Imports}} } from "./components";

{{end}}{{if index .Has "AppShell"}}const navigation = [
  { label: "Settings", href: "/settings", icon: "menu" },
];

{{end}}export default function App() {
  return (
{{- if index .Has "AppShell"}}
    <AppShell navigation={navigation}>
{{- else}}
    <div>
{{- end}}
      <h1>{{.ProjectName}} settings</h1>
      <form onSubmit={(e) => e.preventDefault()}>
{{- if index .Has "FormField"}}
        <FormField label="Display name" help="Shown on your profile.">
          <Input value="" placeholder="Ada Lovelace" onChange={() => {}} />
        </FormField>
{{- else if index .Has "Input"}}
        <Input value="" placeholder="Display name" onChange={() => {}} />
{{- end}}
{{- if index .Has "Textarea"}}
        <Textarea value="" rows={4} onChange={() => {}} />
{{- end}}
{{- if index .Has "Checkbox"}}
        <Checkbox checked={false} onChange={() => {}} />
{{- end}}
{{- if index .Has "Button"}}
        <Button variant="solid">Save changes</Button>
{{- end}}
      </form>
{{- if index .Has "AppShell"}}
    </AppShell>
{{- else}}
    </div>
{{- end}}
  );
}
`)),

	tplDashboard: template.Must(template.New("dashboard").Parse(`{{if .Imports}}import { {{.Imports}} } from "./components";

{{end}}{{if index .Has "AppShell"}}const navigation = [
  { label: "Overview", href: "/", icon: "menu" },
];

{{end}}export default function App() {
  return (
{{- if index .Has "AppShell"}}
    <AppShell navigation={navigation}>
{{- else}}
    <div>
{{- end}}
      <h1>{{.ProjectName}}</h1>
{{- if index .Has "CardGrid"}}
      <CardGrid columns={3}>
{{- end}}
{{- if index .Has "StatCard"}}
        <StatCard label="Active users" value="1,284" delta="+12%" trend="up" />
        <StatCard label="Error rate" value="0.4%" delta="-0.1%" trend="down" />
{{- end}}
{{- if index .Has "Card"}}
        <Card title="Recent activity">Nothing yet.</Card>
{{- end}}
{{- if index .Has "CardGrid"}}
      </CardGrid>
{{- end}}
{{- if index .Has "AppShell"}}
    </AppShell>
{{- else}}
    </div>
{{- end}}
  );
}
`)),

	tplMinimalShell: template.Must(template.New("minimal-shell").Parse(`{{if .Imports}}import { {{.Imports}} } from "./components";

{{end}}{{if index .Has "AppShell"}}const navigation = [
  { label: "Home", href: "/", icon: "menu" },
];

{{end}}export default function App() {
  return (
{{- if index .Has "AppShell"}}
    <AppShell navigation={navigation}>
{{- else}}
    <div>
{{- end}}
      <h1>{{.ProjectName}}</h1>
      <p>Start building by editing src/App.tsx.</p>
{{- if index .Has "Button"}}
      <Button variant="solid">Get started</Button>
{{- end}}
{{- if index .Has "AppShell"}}
    </AppShell>
{{- else}}
    </div>
{{- end}}
  );
}
`)),

	tplPlaceholder: template.Must(template.New("placeholder").Parse(`export default function App() {
  return (
    <div>
      <h1>{{.ProjectName}}</h1>
      <p>Scaffolded components, ready to import from "./components":</p>
      <ul>
{{- range .Components}}
        <li>{{.}}</li>
{{- end}}
      </ul>
    </div>
  );
}
`)),
}

// renderEntryPoint synthesizes src/App.tsx for the selected template. The
// import line names exactly the template components present in the resolved
// set - no dangling imports.
func renderEntryPoint(kind templateKind, projectName string, resolved map[string]struct{}, components []string) (string, error) {
	has := make(map[string]bool, len(resolved))
	for name := range resolved {
		has[name] = true
	}

	var imports []string
	for _, name := range componentsUsedBy[kind] {
		if has[name] {
			imports = append(imports, name)
		}
	}

	ctx := entryContext{
		ProjectName: projectName,
		Imports:     strings.Join(imports, ", "),
		Has:         has,
		Components:  components,
	}

	var b strings.Builder
	if err := entryTemplates[kind].Execute(&b, ctx); err != nil {
		return "", fmt.Errorf("render %s entry point: %w", kind, err)
	}
	return b.String(), nil
}
