package api

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Roelanb/kanbanview/internal/preview"
)

// bridgeShim stands in for the IDE: it provides acquireVsCodeApi and forwards
// posted messages to /bridge.
const bridgeShim = `<script>
function acquireVsCodeApi() {
    return {
        postMessage: function(msg) {
            return fetch('/bridge?board=' + encodeURIComponent('%BOARD%'), {
                method: 'POST',
                headers: { 'Content-Type': 'application/json' },
                body: JSON.stringify(msg)
            });
        }
    };
}
</script>
`

// injectBridge places the bridge shim at the top of head so it runs before
// the document's own error-logging script.
func injectBridge(doc, board string) string {
	shim := strings.Replace(bridgeShim, "%BOARD%", template.JSEscapeString(board), 1)
	return strings.Replace(doc, "<head>\n", "<head>\n"+shim, 1)
}

// mountUI registers the server-rendered board documents.
func (s *Server) mountUI(r chi.Router) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		if s.preview == nil {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/board/"+url.PathEscape(s.preview.DefaultName()), http.StatusFound)
	})

	r.Get("/board/{name}", func(w http.ResponseWriter, r *http.Request) {
		if s.preview == nil {
			http.Error(w, "preview unavailable", http.StatusServiceUnavailable)
			return
		}
		name := chi.URLParam(r, "name")
		doc, err := s.preview.Document(r.Context(), name)
		switch {
		case errors.Is(err, preview.ErrBoardNotFound):
			http.Error(w, "board not found", http.StatusNotFound)
			return
		case err != nil:
			s.log.Errorw("render board failed", "board", name, "error", err)
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write([]byte(injectBridge(doc, name)))
	})
}
