package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler serves /metrics (Prometheus) and /healthz.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return mux
}

// NewServer creates the separate metrics listener used when
// METRICS_LISTEN_ADDR is set.
func NewServer(addr string) *http.Server {
	return &http.Server{
		Addr:    addr,
		Handler: Handler(),
	}
}
