// internal/app/features/portalmember/templates.go
package portalmember

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "portalmember",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
