package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		beaconExchanges,
		beaconExchangeSeconds,
		beaconStreamChunks,
		beaconStreamBytes,
		beaconContextPins,
		uploadsTotal,
		answersSubmitted,
	)
}

var (
	beaconExchanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "beacon_exchanges_total",
			Help: "Completed Beacon chat exchanges by outcome (ok/error).",
		},
		[]string{"outcome"},
	)

	beaconExchangeSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "beacon_exchange_seconds",
			Help:    "Wall time of successful exchanges, submit to final append.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 30, 60},
		},
	)

	beaconStreamChunks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "beacon_stream_chunks_total",
			Help: "Response fragments consumed from the streaming endpoint.",
		},
	)

	beaconStreamBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "beacon_stream_bytes_total",
			Help: "Bytes of response text consumed from the streaming endpoint.",
		},
	)

	beaconContextPins = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "beacon_context_pins",
			Help: "Currently attached section contexts.",
		},
	)

	uploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attachment_uploads_total",
			Help: "Attachment uploads by outcome (ok/error).",
		},
		[]string{"outcome"},
	)

	answersSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "answers_submitted_total",
			Help: "Bulk-submitted answers by backend outcome (ok/failed).",
		},
		[]string{"outcome"},
	)
)

// -------- Beacon helpers --------

func ExchangeFinished(outcome string, d time.Duration) {
	beaconExchanges.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		beaconExchangeSeconds.Observe(d.Seconds())
	}
}

func StreamChunk(size int) {
	beaconStreamChunks.Inc()
	beaconStreamBytes.Add(float64(size))
}

func ContextPins(n int) { beaconContextPins.Set(float64(n)) }

// -------- Submission helpers --------

func UploadFinished(ok bool) {
	if ok {
		uploadsTotal.WithLabelValues("ok").Inc()
		return
	}
	uploadsTotal.WithLabelValues("error").Inc()
}

func AnswersSubmitted(succeeded, failed int) {
	answersSubmitted.WithLabelValues("ok").Add(float64(succeeded))
	answersSubmitted.WithLabelValues("failed").Add(float64(failed))
}
