package status

import (
	"encoding/json"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var unknownStatusTotal = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "document_status_unknown_total",
	Help: "Raw status values that did not match the canonical vocabulary.",
})

// RegisterMetrics registers the quarantine counter with the given registerer.
func RegisterMetrics(reg prometheus.Registerer) error {
	return reg.Register(unknownStatusTotal)
}

// Quarantine records one unrecognized raw status value. The value is logged
// for offline cleanup and counted for alerting; the caller still receives the
// pending fallback from Normalize.
func Quarantine(raw string) {
	unknownStatusTotal.Inc()

	entry := map[string]any{
		"ts":         time.Now().UTC().Format(time.RFC3339Nano),
		"level":      "warn",
		"component":  "status",
		"event":      "unknown_status_quarantined",
		"raw_status": raw,
	}
	if b, err := json.Marshal(entry); err == nil {
		log.SetFlags(0)
		log.Println(string(b))
	}
}
