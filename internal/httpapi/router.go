// Package httpapi serves the status, trigger, events and metrics endpoints.
package httpapi

import (
	"net/http"

	"jobalert/internal/logging"
)

func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: HealthHandler{}.Health,
	}))

	sch := ScrapeHandler{Status: d.Status, Trigger: d.Trigger, Log: d.Log}
	mux.HandleFunc("/scrape/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sch.GetStatus,
	}))
	mux.HandleFunc("/scrape/run", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sch.Run,
	}))

	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	mux.Handle("/metrics", d.Metrics.Handler())
	return mux
}

// Handler is the mux wrapped in the standard middleware chain.
func Handler(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = logging.NewNop()
	}
	log = log.Component("http")
	return Chain(NewMux(d), RequestID, Recover(log), AccessLog(log), Cors)
}
