package upload

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rowsInserted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "protrack_upload_rows_inserted_total",
		Help: "Rows inserted by batch commits, by entity.",
	}, []string{"entity"})

	rowsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "protrack_upload_rows_skipped_total",
		Help: "Rows skipped by batch commits, by entity and reason.",
	}, []string{"entity", "reason"})
)
