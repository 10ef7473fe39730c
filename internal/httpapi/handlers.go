package httpapi

import (
	"encoding/json"
	"net/http"
	"time"
)

func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(struct {
		Status    int    `json:"status"`
		Timestamp string `json:"timestamp"`
	}{
		Status:    http.StatusOK,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
