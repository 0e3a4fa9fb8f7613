package dataview

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pipelineRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskgrid_pipeline_runs_total",
		Help: "The total number of local sort/filter pipeline executions",
	})
	sortOps = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskgrid_sort_ops_total",
		Help: "The total number of sort apply/clear operations",
	})
	filterOps = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskgrid_filter_ops_total",
		Help: "The total number of filter apply/clear operations",
	})
	visibleRows = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "slaskgrid_visible_rows",
		Help: "Visible rows per grid after the last pipeline run",
	}, []string{"grid"})
)
