package live

import (
	_ "embed"
	"net/http"
)

// ClientJS is the browser client that connects back for pending views
// and swaps in the settled markup.
//
//go:embed client.js
var ClientJS []byte

// ScriptHandler serves the embedded client script.
func ScriptHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Write(ClientJS)
	})
}
