package health

import (
	"encoding/json"
	"net/http"
	"time"
)

var started = time.Now()

// Response is the payload for the healthcheck endpoint. Uptime is reported
// in seconds, matching what monitoring probes already scrape.
type Response struct {
	Uptime float64 `json:"uptime"`
}

// Handler is a plain HTTP handler for the healthcheck endpoint.
func Handler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(Response{Uptime: time.Since(started).Seconds()})
}
