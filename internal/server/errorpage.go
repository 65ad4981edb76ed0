package server

import (
	"html/template"
	"net/http"

	"github.com/gcdash/gcdash/pkg/errors"
)

var errorPage = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Status}} {{.Text}}</title>
<style>
body { font-family: sans-serif; margin: 4rem auto; max-width: 40rem; color: #31333f; }
h1 { font-size: 2rem; }
code { color: #808495; }
</style>
</head>
<body>
<h1>{{.Status}} {{.Text}}</h1>
<p>{{.Message}}</p>
{{- if .RequestID}}
<p><code>request {{.RequestID}}</code></p>
{{- end}}
<p><a href="/">Back to the dashboard</a></p>
</body>
</html>
`))

type errorView struct {
	Status    int
	Text      string
	Message   string
	RequestID string
}

// writeError sends the error page for err. Server errors are logged and
// their details kept out of the response.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	view := errorView{
		Status:    status,
		Text:      http.StatusText(status),
		RequestID: RequestID(r.Context()),
	}
	if status >= 500 {
		s.logger.Error("render failed", "path", r.URL.Path, "code", errors.GetCode(err), "error", err, "id", view.RequestID)
		view.Message = "The page could not be rendered."
	} else {
		view.Message = errors.UserMessage(err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = errorPage.Execute(w, view)
}
