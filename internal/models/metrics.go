package models

import "time"

// SyncMetrics summarises the synchronization engine's activity.
type SyncMetrics struct {
	RequestsTotal            uint64    `json:"requestsTotal"`
	AverageRequestDurationMs float64   `json:"averageRequestDurationMs"`
	DeltasApplied            uint64    `json:"deltasApplied"`
	DeltasDropped            uint64    `json:"deltasDropped"`
	StreamErrors             uint64    `json:"streamErrors"`
	BulkOperations           uint64    `json:"bulkOperations"`
	CatalogSize              int       `json:"catalogSize"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generatedAt"`
}
