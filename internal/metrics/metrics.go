package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	SurveysProcessed *prometheus.CounterVec
	APIErrors        prometheus.Counter
	RequestSeconds   *prometheus.HistogramVec
	ActiveWorkers    prometheus.Gauge
	SpeciesRecorded  prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		SurveysProcessed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "survey_sites_processed_total",
			Help: "Total number of processed site surveys.",
		}, []string{"status"}),
		APIErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "survey_provider_api_errors_total",
			Help: "Total number of errors received from the observations provider API.",
		}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "survey_provider_request_duration_seconds",
			Help:    "Duration of requests to the observations provider API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		ActiveWorkers: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "survey_active_workers",
			Help: "Current number of active workers processing site surveys.",
		}),
		SpeciesRecorded: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "survey_species_recorded_total",
			Help: "Total number of species records written by surveys.",
		}),
	}
}
