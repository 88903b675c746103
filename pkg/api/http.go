// Package api wires the HTTP surface: routing, JSON encoding, and the
// mapping from typed service errors to boundary status codes.
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"capsuledb/pkg/api/handlers"
	"capsuledb/pkg/capsule"
)

// NewHandler returns the API router. All capsule routes live under /v1;
// /healthz is mounted here so probes work against the bare handler in
// tests as well as behind the gateway middleware.
func NewHandler(svc *capsule.Service) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	handlers.RegisterCapsules(v1, svc)
	return r
}
