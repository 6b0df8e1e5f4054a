package httpapi

import (
	"net/http"

	"jobalert/internal/logging"
	"jobalert/internal/poll"
)

type ScrapeHandler struct {
	Status  func() poll.Status
	Trigger func() bool
	Log     *logging.Logger
}

func (h ScrapeHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	if h.Status == nil {
		WriteError(w, r, http.StatusServiceUnavailable, codeNotReady, "runner not configured")
		return
	}
	WriteJSON(w, http.StatusOK, h.Status())
}

// Run starts a cycle in the background. The response does not wait for it.
func (h ScrapeHandler) Run(w http.ResponseWriter, r *http.Request) {
	if h.Trigger == nil {
		WriteError(w, r, http.StatusServiceUnavailable, codeNotReady, "runner not configured")
		return
	}
	if h.Status != nil && h.Status().Running {
		WriteJSON(w, http.StatusConflict, map[string]any{"ok": false, "msg": "already running"})
		return
	}

	reqID := RequestIDFrom(r.Context())
	go func() {
		if !h.Trigger() && h.Log != nil {
			h.Log.Warn("manual cycle not started", "request_id", reqID)
		}
	}()
	WriteJSON(w, http.StatusAccepted, map[string]any{"ok": true})
}
