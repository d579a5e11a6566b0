package handlers

import (
	"context"
	"time"

	dbpkg "surveyreport/internal/db"
	"surveyreport/internal/report"
)

// instrumentedStore records insert latency per backend.
type instrumentedStore struct {
	next    report.Store
	backend string
}

// InstrumentStore wraps store so each insert is observed in
// surveyreport_store_insert_duration_seconds. InitPrometheusMetrics must
// have been called.
func InstrumentStore(store dbpkg.Store) report.Store {
	return &instrumentedStore{next: store, backend: store.Backend()}
}

func (s *instrumentedStore) InsertReport(ctx context.Context, rec *report.Record) (string, error) {
	start := time.Now()
	id, err := s.next.InsertReport(ctx, rec)
	storeInsertDuration.WithLabelValues(s.backend).Observe(time.Since(start).Seconds())
	return id, err
}
