package renderer

import (
	"html/template"

	"github.com/expertwinding/storefront/app/utils/format"
	"github.com/unrolled/render"
)

// New loads the HTML templates under dir. In development templates are
// re-read on every request.
func New(dir string, isDevelopment bool) *render.Render {
	return render.New(render.Options{
		Directory:     dir,
		Layout:        "layout",
		Extensions:    []string{".html"},
		IsDevelopment: isDevelopment,
		Funcs:         []template.FuncMap{Funcs()},
	})
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"price":      format.Price,
		"plainPrice": format.PlainPrice,
		"str": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"num": func(n *int) int {
			if n == nil {
				return 0
			}
			return *n
		},
		"selected": func(current *uint, id uint) bool {
			return current != nil && *current == id
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	}
}
