// Package web serves the single-page UI: text generation, image analysis and tool listing.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/rs/zerolog/log"
)

//go:embed templates/index.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// pageData is injected into the page template
type pageData struct {
	Title      string
	GatewayURL string // the browser fetches the tool listing from here directly
}

// Handler serves the page at "/" and its assets under "/static/"
func Handler(gatewayURL string) http.Handler {
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		data := pageData{
			Title:      "Go + MCP + Gemini Integration",
			GatewayURL: gatewayURL,
		}
		if err := pageTemplate.Execute(w, data); err != nil {
			log.Ctx(r.Context()).Error().Err(err).Msg("failed to render page")
		}
	})
	return mux
}
