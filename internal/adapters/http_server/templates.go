package httpserver

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/cavanpasek/ouray-info/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var pageTemplates = template.Must(
	template.New("").Funcs(template.FuncMap{
		"fillstyle": func(f float64) template.CSS {
			return template.CSS(fmt.Sprintf("width: %.2f%%", f))
		},
		"rating1": func(f float64) string {
			return fmt.Sprintf("%.1f", f)
		},
		"starfill": func(rating int) float64 {
			return domain.FillPercent(float64(rating))
		},
	}).ParseFS(templateFS, "templates/*.html"),
)

func (h *Handlers) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, name, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("template render failed")
	}
}
