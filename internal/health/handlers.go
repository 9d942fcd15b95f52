package health

import "net/http"

// Handler exposes HTTP handlers for health endpoints.
type Handler struct{}

// Live reports liveness status.
func (Handler) Live(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
