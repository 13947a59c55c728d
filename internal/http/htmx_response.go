package httpx

import "net/http"

// HTMXResponse is a small builder for htmx response headers.
type HTMXResponse struct {
	w http.ResponseWriter
}

// HTMX wraps w for htmx header building.
func HTMX(w http.ResponseWriter) *HTMXResponse {
	return &HTMXResponse{w: w}
}

// Redirect asks htmx to navigate the whole page and answers 204.
// Nothing else should be written afterwards.
func (h *HTMXResponse) Redirect(url string) {
	h.w.Header().Set("Hx-Redirect", url)
	h.w.WriteHeader(http.StatusNoContent)
}

// PushURL records url in the browser history for the swapped content.
func (h *HTMXResponse) PushURL(url string) *HTMXResponse {
	h.w.Header().Set("Hx-Push-Url", url)
	return h
}

// Refresh forces a full page reload and answers 204.
func (h *HTMXResponse) Refresh() {
	h.w.Header().Set("Hx-Refresh", "true")
	h.w.WriteHeader(http.StatusNoContent)
}

// Trigger fires a client-side event after the swap.
func (h *HTMXResponse) Trigger(event string, payload any) *HTMXResponse {
	SetHXTrigger(h.w, event, payload)
	return h
}
