package scaffold

import (
	"fmt"
	"strings"

	"github.com/loomkit/loom/internal/catalog"
)

// renderPackageJSON emits the fixed Vite + React + TypeScript package
// manifest for the generated project.
func renderPackageJSON(projectName string) string {
	return fmt.Sprintf(`{
  "name": %q,
  "private": true,
  "version": "0.1.0",
  "type": "module",
  "scripts": {
    "dev": "vite",
    "build": "tsc -b && vite build",
    "preview": "vite preview"
  },
  "dependencies": {
    "react": "^18.3.1",
    "react-dom": "^18.3.1"
  },
  "devDependencies": {
    "@types/react": "^18.3.12",
    "@types/react-dom": "^18.3.1",
    "@vitejs/plugin-react": "^4.3.4",
    "typescript": "~5.6.2",
    "vite": "^6.0.1"
  }
}
`, catalog.KebabCase(projectName))
}

const viteConfig = `import { defineConfig } from "vite";
import react from "@vitejs/plugin-react";

export default defineConfig({
  plugins: [react()],
});
`

const tsConfig = `{
  "compilerOptions": {
    "target": "ES2020",
    "lib": ["ES2020", "DOM", "DOM.Iterable"],
    "module": "ESNext",
    "moduleResolution": "bundler",
    "jsx": "react-jsx",
    "strict": true,
    "noEmit": true,
    "skipLibCheck": true
  },
  "include": ["src"]
}
`

// renderIndexHTML emits the HTML entry with the project name as title.
func renderIndexHTML(projectName string) string {
	return fmt.Sprintf(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="UTF-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1.0" />
    <title>%s</title>
  </head>
  <body>
    <div id="root"></div>
    <script type="module" src="/src/main.tsx"></script>
  </body>
</html>
`, projectName)
}

// renderMainTSX emits the React bootstrap. The stylesheet import is only
// written when the catalog snapshot actually carries a base stylesheet.
func renderMainTSX(hasStylesheet bool) string {
	var b strings.Builder
	b.WriteString("import React from \"react\";\n")
	b.WriteString("import ReactDOM from \"react-dom/client\";\n")
	b.WriteString("import App from \"./App\";\n")
	if hasStylesheet {
		b.WriteString("import \"./styles/globals.css\";\n")
	}
	b.WriteString(`
ReactDOM.createRoot(document.getElementById("root")!).render(
  <React.StrictMode>
    <App />
  </React.StrictMode>,
);
`)
	return b.String()
}
