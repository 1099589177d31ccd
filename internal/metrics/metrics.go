// Package metrics is the ambient status/metrics surface of spec §4.9: a
// small chi router exposing Prometheus counters over an archive run,
// grounded on the teacher's internal/handler/router.go chi wiring and
// its prometheus/client_golang dependency, which otherwise has no home
// in this spec.
package metrics

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counters tracks archive-run activity. Build it with NewCounters (the
// zero value has nil counters); register once per process.
type Counters struct {
	FilesAdded      prometheus.Counter
	FilesContent    prometheus.Counter
	FilesMetadata   prometheus.Counter
	FilesDeleted    prometheus.Counter
	ArchiveFailures prometheus.Counter
	BytesUploaded   prometheus.Counter
	ThawRequests    prometheus.Counter
}

// NewCounters registers the serac archive-run counters against reg.
func NewCounters(reg prometheus.Registerer) *Counters {
	factory := promauto.With(reg)
	return &Counters{
		FilesAdded:      factory.NewCounter(prometheus.CounterOpts{Name: "serac_files_added_total", Help: "Files classified as ADD in the most recent archive run."}),
		FilesContent:    factory.NewCounter(prometheus.CounterOpts{Name: "serac_files_content_total", Help: "Files classified as CONTENT in the most recent archive run."}),
		FilesMetadata:   factory.NewCounter(prometheus.CounterOpts{Name: "serac_files_metadata_total", Help: "Files classified as METADATA in the most recent archive run."}),
		FilesDeleted:    factory.NewCounter(prometheus.CounterOpts{Name: "serac_files_deleted_total", Help: "Files classified as DELETE in the most recent archive run."}),
		ArchiveFailures: factory.NewCounter(prometheus.CounterOpts{Name: "serac_archive_failures_total", Help: "Per-file archive failures."}),
		BytesUploaded:   factory.NewCounter(prometheus.CounterOpts{Name: "serac_bytes_uploaded_total", Help: "Plaintext bytes uploaded to the backend."}),
		ThawRequests:    factory.NewCounter(prometheus.CounterOpts{Name: "serac_thaw_requests_total", Help: "Glacier thaw requests issued."}),
	}
}

// Router returns a chi router exposing /healthz and /metrics. It never
// touches the index or backend itself; it only serves the in-process
// counters an archive run updates concurrently.
func Router(reg *prometheus.Registry) chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return r
}
