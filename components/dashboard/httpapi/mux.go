package httpapi

import (
	"net/http"
	"strings"

	"github.com/goliatone/go-statboard/components/dashboard"
)

// Mux mounts the handlers on a net/http mux under basePath, for hosts that
// do not run go-router. When hook is set the mux also streams region events
// over WebSocket (/ws) and Server-Sent Events (/events).
func (h *Handlers) Mux(basePath string, hook *dashboard.BroadcastHook) *http.ServeMux {
	prefix := strings.TrimRight(basePath, "/") + "/dashboard"
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+prefix+"/_data", h.HandleBoard)
	mux.HandleFunc("GET "+prefix+"/regions/{id}", func(w http.ResponseWriter, r *http.Request) {
		h.HandleRegion(w, r, r.PathValue("id"))
	})
	mux.HandleFunc("POST "+prefix+"/refresh", h.HandleRefresh)
	if hook != nil {
		mux.HandleFunc("GET "+prefix+"/ws", hook.ServeWebSocket)
		mux.HandleFunc("GET "+prefix+"/events", hook.ServeSSE)
	}
	return mux
}
