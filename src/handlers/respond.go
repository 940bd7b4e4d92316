package handlers

import (
	"encoding/json"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeErrors reports validation failures as a list so clients can show
// every problem with the submitted form at once.
func writeErrors(w http.ResponseWriter, status int, errs []string) {
	writeJSON(w, status, map[string][]string{"errors": errs})
}
