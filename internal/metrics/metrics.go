// Package metrics holds the process counters exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Marks counts attendance cell edits by result: accepted or rejected.
	Marks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "listas_attendance_marks_total",
		Help: "Attendance cell edits, by result.",
	}, []string{"result"})

	Grades = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "listas_grade_edits_total",
		Help: "Grade book edits, by result.",
	}, []string{"result"})

	Imports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "listas_imports_total",
		Help: "Uploaded files, by screen and result.",
	}, []string{"screen", "result"})

	Exports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "listas_exports_total",
		Help: "Downloaded exports, by screen and format.",
	}, []string{"screen", "format"})

	Backups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "listas_backups_total",
		Help: "Scheduled database snapshots, by result.",
	}, []string{"result"})
)

const (
	Accepted = "accepted"
	Rejected = "rejected"
	Failed   = "failed"
)
