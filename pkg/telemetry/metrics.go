// Package telemetry exposes Prometheus metrics for the capsule store and
// services. The /metrics endpoint is mounted by the server binary.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CapsuleWrites = promauto.NewCounter(prometheus.CounterOpts{
		Name: "capsuledb_store_writes_total",
		Help: "Capsule records written to the store.",
	})
	CapsuleReads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "capsuledb_store_reads_total",
		Help: "Capsule point lookups served by the store.",
	})
	CapsuleScans = promauto.NewCounter(prometheus.CounterOpts{
		Name: "capsuledb_store_scans_total",
		Help: "Full collection scans served by the store.",
	})

	CapsulesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "capsuledb_capsules_created_total",
		Help: "Capsules created through the write service.",
	})
	ReadsDenied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "capsuledb_reads_denied_total",
		Help: "Capsule fetches rejected by the lifecycle or policy gate.",
	}, []string{"reason"})
	GeoQueries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "capsuledb_geo_queries_total",
		Help: "Geo-radius searches executed.",
	})

	CapsulesByStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "capsuledb_capsules",
		Help: "Stored capsules by derived status, updated by the stats sweeper.",
	}, []string{"status"})
	StoreDiskBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "capsuledb_store_disk_bytes",
		Help: "Best-effort on-disk size of the Pebble database.",
	})
)
