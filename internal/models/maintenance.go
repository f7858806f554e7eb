package models

// ====== Mantenimiento admin: consistencia de ratings ======

// RatingsSummary resume el estado de las estadísticas de rating.
type RatingsSummary struct {
	TotalServices        int64 `json:"totalServices"`
	ServicesWithStats    int64 `json:"servicesWithStats"`
	ServicesWithoutStats int64 `json:"servicesWithoutStats"`
	TotalReviews         int64 `json:"totalReviews"`
	MinReviews           int64 `json:"minReviews"`
}

// PendingServiceStats es un servicio cuyo contador de reviews no
// coincide con las reviews reales.
type PendingServiceStats struct {
	ServiceID   int    `json:"serviceId"`
	Title       string `json:"title"`
	StatsCount  int    `json:"statsCount"`
	ActualCount int    `json:"actualCount"`
}

// PendingRatings lista los servicios con estadísticas desfasadas.
type PendingRatings struct {
	MinReviews int64                 `json:"minReviews"`
	Services   []PendingServiceStats `json:"services"`
}

// RecountRequest parametriza el recálculo total de ratings.
type RecountRequest struct {
	BatchSize   int  `json:"batchSize"`
	Parallelism int  `json:"parallelism"`
	FlushCache  bool `json:"flushCache"`
}

// RecountResult informa el resultado del recálculo.
type RecountResult struct {
	RecountedServices int `json:"recountedServices"`
	ClearedServices   int `json:"clearedServices"`
	Batches           int `json:"batches"`
	FlushedCacheKeys  int `json:"flushedCacheKeys"`
}
