package handlers

import (
	"bytes"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/valyala/fasthttp"
)

const metricsNamespace = "surveyreport"

var (
	submissionsTotal    *prometheus.CounterVec
	submissionEvents    prometheus.Histogram
	submissionTotalTime prometheus.Histogram
	storeInsertDuration *prometheus.HistogramVec

	metricsOnce sync.Once
)

// InitPrometheusMetrics registers the submission collectors with the
// default registry. Safe to call more than once.
func InitPrometheusMetrics() {
	metricsOnce.Do(func() {
		submissionsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "submissions_total",
				Help:      "Total number of survey report submissions by outcome.",
			},
			[]string{"outcome"},
		)
		submissionEvents = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "submission_events",
				Help:      "Number of normalized events per assembled report.",
				Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
			},
		)
		submissionTotalTime = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "submission_total_time_seconds",
				Help:      "Span between first and last answer event per report.",
				Buckets:   []float64{5, 15, 30, 60, 120, 300, 600, 1800, 3600},
			},
		)
		storeInsertDuration = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "store_insert_duration_seconds",
				Help:      "Histogram of report insert latency in seconds.",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"backend"},
		)
		prometheus.MustRegister(submissionsTotal, submissionEvents, submissionTotalTime, storeInsertDuration)
	})
}

// MetricsHandler serves the default registry in the Prometheus text format.
// An optional ?prefix= query keeps only metric families whose name starts with it.
func MetricsHandler() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		metricFamilies, err := prometheus.DefaultGatherer.Gather()
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to gather metrics")
			return
		}

		prefix := string(ctx.QueryArgs().Peek("prefix"))
		filtered := filterFamilies(metricFamilies, prefix)

		var buf bytes.Buffer
		encoder := expfmt.NewEncoder(&buf, expfmt.FmtText)
		for _, mf := range filtered {
			if err := encoder.Encode(mf); err != nil {
				errResponse(ctx, fasthttp.StatusInternalServerError, "failed to encode metrics")
				return
			}
		}

		ctx.SetContentType(string(expfmt.FmtText))
		ctx.Response.Header.Set("Cache-Control", "no-store")
		ctx.SetBody(buf.Bytes())
	}
}

func filterFamilies(families []*dto.MetricFamily, prefix string) []*dto.MetricFamily {
	if prefix == "" {
		return families
	}
	kept := make([]*dto.MetricFamily, 0, len(families))
	for _, mf := range families {
		if strings.HasPrefix(mf.GetName(), prefix) {
			kept = append(kept, mf)
		}
	}
	return kept
}
