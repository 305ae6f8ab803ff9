package view

import (
	_ "embed"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/ndrandal/stock-dashboard/internal/dashboard"
)

//go:embed dashboard.html
var pageSource string

var pageTmpl = template.Must(template.New("dashboard").Parse(pageSource))

// SnapshotSource is anything that can report the current dashboard state.
type SnapshotSource interface {
	Snapshot() dashboard.Snapshot
}

// Handler serves the single-page dashboard pre-rendered with the current
// snapshot. The page then follows live updates over wsPath.
func Handler(src SnapshotSource, wsPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := struct {
			Model
			WSPath string
		}{Build(src.Snapshot()), wsPath}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := pageTmpl.Execute(w, data); err != nil {
			log.Error().Err(err).Msg("render dashboard page")
		}
	}
}
