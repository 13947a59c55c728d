// Package adminconsole embeds the console's templates and static files.
package adminconsole

import "embed"

// In dev mode (IsDev=true) assets are read from disk so edits show without a rebuild.

//go:embed all:frontend/static
var StaticFS embed.FS

//go:embed all:frontend/templates
var TemplateFS embed.FS
