package registry

import (
	"encoding/json"
	"net/http"
)

// writeJSON writes v with the given HTTP status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeSuccess writes the success envelope, merging extra payload keys next
// to the status discriminator.
func writeSuccess(w http.ResponseWriter, extra map[string]any) {
	body := map[string]any{"status": "success"}
	for k, v := range extra {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

// writeError writes the error envelope. Declared failures ride on HTTP 200;
// callers discriminate on the status and code fields, not the HTTP status.
func writeError(w http.ResponseWriter, code Code, msg string) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "error",
		"code":   code,
		"error":  msg,
	})
}
