// Copyright 2026 CatalogForge
//
// SPDX-License-Identifier: AGPL-3.0-only

package build

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// metricsBuild holds Prometheus metrics for the build subsystem.
type metricsBuild struct {
	once sync.Once

	packagesEnqueued prometheus.Counter
	packagesCacheHit prometheus.Counter
	packagesQueued   prometheus.Counter

	tasksFinished prometheus.Counter
	tasksFailed   prometheus.Counter
	tasksIgnored  prometheus.Counter

	appsVetoed prometheus.Counter

	compositeMerges prometheus.Counter

	processDuration prometheus.Histogram
	taskDuration    prometheus.Histogram
}

var buildMetrics metricsBuild

func (m *metricsBuild) init() {
	m.once.Do(func() {
		m.packagesEnqueued = prometheus.NewCounter(prometheus.CounterOpts{Name: "catgen_packages_enqueued_total", Help: "Packages submitted to the pipeline"})
		m.packagesCacheHit = prometheus.NewCounter(prometheus.CounterOpts{Name: "catgen_packages_cache_hit_total", Help: "Packages resolved directly from the old-catalog cache"})
		m.packagesQueued = prometheus.NewCounter(prometheus.CounterOpts{Name: "catgen_packages_queued_total", Help: "Packages appended to the pending queue"})

		m.tasksFinished = prometheus.NewCounter(prometheus.CounterOpts{Name: "catgen_tasks_finished_total", Help: "Package tasks that reached Finished"})
		m.tasksFailed = prometheus.NewCounter(prometheus.CounterOpts{Name: "catgen_tasks_failed_total", Help: "Package tasks that reached Failed"})
		m.tasksIgnored = prometheus.NewCounter(prometheus.CounterOpts{Name: "catgen_tasks_ignored_total", Help: "Package tasks that reached Ignored"})

		m.appsVetoed = prometheus.NewCounter(prometheus.CounterOpts{Name: "catgen_apps_vetoed_total", Help: "Application records carrying at least one veto"})

		m.compositeMerges = prometheus.NewCounter(prometheus.CounterOpts{Name: "catgen_composite_merges_total", Help: "Composite merges performed during the merge pass"})

		buckets := []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
		m.processDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "catgen_process_seconds", Help: "Duration of a full Context.Process run", Buckets: buckets})
		m.taskDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "catgen_task_seconds", Help: "Duration of one package task", Buckets: buckets})

		prometheus.MustRegister(
			m.packagesEnqueued, m.packagesCacheHit, m.packagesQueued,
			m.tasksFinished, m.tasksFailed, m.tasksIgnored,
			m.appsVetoed, m.compositeMerges,
			m.processDuration, m.taskDuration,
		)
	})
}
