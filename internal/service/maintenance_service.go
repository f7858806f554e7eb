package service

import (
	"context"
	"log"
	"sync"

	"servizo-backend/internal/cache"
	"servizo-backend/internal/db"
	"servizo-backend/internal/models"
	"servizo-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MaintenanceService orquesta tareas administrativas de consistencia:
// recuento de ratings y limpieza del cache de recomendaciones.
type MaintenanceService struct {
	reviews  *repository.ReviewRepository
	services *repository.ServiceRepository
}

func NewMaintenanceService(reviews *repository.ReviewRepository, services *repository.ServiceRepository) *MaintenanceService {
	return &MaintenanceService{reviews: reviews, services: services}
}

// ---------------------- SUMMARY / PENDING ----------------------

// GetRatingsSummary devuelve el resumen global de estadísticas.
func (s *MaintenanceService) GetRatingsSummary(ctx context.Context, minReviews int64) (*models.RatingsSummary, error) {
	mdb := db.DB()
	servicesColl := mdb.Collection("services")
	reviewsColl := mdb.Collection("reviews")

	totalServices, err := servicesColl.CountDocuments(ctx, bson.M{"isActive": true})
	if err != nil {
		return nil, err
	}

	// servicios con stats ya calculadas (al menos minReviews reviews)
	withStatsFilter := bson.M{
		"isActive":     true,
		"rating.count": bson.M{"$gte": minReviews},
	}
	withStats, err := servicesColl.CountDocuments(ctx, withStatsFilter)
	if err != nil {
		return nil, err
	}
	withoutStats := totalServices - withStats
	if withoutStats < 0 {
		withoutStats = 0
	}

	totalReviews, err := reviewsColl.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	summary := &models.RatingsSummary{
		TotalServices:        totalServices,
		ServicesWithStats:    withStats,
		ServicesWithoutStats: withoutStats,
		TotalReviews:         totalReviews,
		MinReviews:           minReviews,
	}
	return summary, nil
}

// GetPendingRatings lista servicios cuyo rating.count no coincide con
// el número real de reviews (típico tras borrados manuales en Mongo).
func (s *MaintenanceService) GetPendingRatings(ctx context.Context, minReviews, limit int64) (*models.PendingRatings, error) {
	if limit <= 0 {
		limit = 50
	}

	mdb := db.DB()
	servicesColl := mdb.Collection("services")

	pipeline := bson.A{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "isActive", Value: true},
		}}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "reviews"},
			{Key: "localField", Value: "serviceId"},
			{Key: "foreignField", Value: "serviceId"},
			{Key: "as", Value: "revs"},
		}}},
		bson.D{{Key: "$addFields", Value: bson.D{
			{Key: "actualCount", Value: bson.D{{Key: "$size", Value: "$revs"}}},
		}}},
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "actualCount", Value: bson.D{{Key: "$gte", Value: minReviews}}},
			{Key: "$expr", Value: bson.D{
				{Key: "$ne", Value: bson.A{"$actualCount", bson.D{{Key: "$ifNull", Value: bson.A{"$rating.count", 0}}}}},
			}},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "serviceId", Value: 1},
			{Key: "title", Value: 1},
			{Key: "rating.count", Value: 1},
			{Key: "actualCount", Value: 1},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "actualCount", Value: -1}}}},
		bson.D{{Key: "$limit", Value: limit}},
	}

	cur, err := servicesColl.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var pending []models.PendingServiceStats
	for cur.Next(ctx) {
		var doc struct {
			ServiceID int    `bson:"serviceId"`
			Title     string `bson:"title"`
			Rating    struct {
				Count int `bson:"count"`
			} `bson:"rating"`
			ActualCount int `bson:"actualCount"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		pending = append(pending, models.PendingServiceStats{
			ServiceID:   doc.ServiceID,
			Title:       doc.Title,
			StatsCount:  doc.Rating.Count,
			ActualCount: doc.ActualCount,
		})
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	return &models.PendingRatings{MinReviews: minReviews, Services: pending}, nil
}

// ---------------------- RECOUNT ----------------------

// RecountRatings recalcula avg/count de TODOS los servicios activos a
// partir de la colección de reviews, en batches paralelos, y opcionalmente
// invalida el cache de recomendaciones (las listas dependen del rating).
func (s *MaintenanceService) RecountRatings(ctx context.Context, req *models.RecountRequest) (*models.RecountResult, error) {
	if req.BatchSize <= 0 {
		req.BatchSize = 50
	}
	if req.Parallelism <= 0 {
		req.Parallelism = 4
	}

	// 1) stats reales agregadas desde reviews
	stats, err := s.reviews.AggregateStatsByService(ctx)
	if err != nil {
		return nil, err
	}

	// 2) ids de todos los servicios activos (los que quedaron sin reviews
	// vuelven a cero)
	mdb := db.DB()
	servicesColl := mdb.Collection("services")

	findOpts := options.Find().SetProjection(bson.M{"serviceId": 1})
	cur, err := servicesColl.Find(ctx, bson.M{"isActive": true}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var serviceIDs []int
	for cur.Next(ctx) {
		var doc struct {
			ServiceID int `bson:"serviceId"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		serviceIDs = append(serviceIDs, doc.ServiceID)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	// 3) particionar en batches
	var batches [][]int
	for i := 0; i < len(serviceIDs); i += req.BatchSize {
		j := i + req.BatchSize
		if j > len(serviceIDs) {
			j = len(serviceIDs)
		}
		batches = append(batches, serviceIDs[i:j])
	}

	// 4) aplicar updates en paralelo
	var wg sync.WaitGroup
	sem := make(chan struct{}, req.Parallelism)
	errCh := make(chan error, len(batches))

	var mu sync.Mutex
	recounted, cleared := 0, 0

	for _, batch := range batches {
		sem <- struct{}{}
		wg.Add(1)

		go func(ids []int) {
			defer wg.Done()
			defer func() { <-sem }()

			for _, id := range ids {
				rs, ok := stats[id]
				if !ok {
					rs = models.RatingStats{}
				}
				if err := s.services.UpdateRatingStats(ctx, id, rs); err != nil {
					errCh <- err
					return
				}
				mu.Lock()
				if ok {
					recounted++
				} else {
					cleared++
				}
				mu.Unlock()
			}
		}(batch)
	}

	wg.Wait()
	close(errCh)

	if len(errCh) > 0 {
		// por simplicidad devolvemos el primer error
		return nil, <-errCh
	}

	// 5) invalidar cache de recomendaciones
	flushed := 0
	if req.FlushCache {
		n, err := cache.DeleteByPrefix(ctx, "rec:user:")
		if err != nil {
			// el recuento ya quedó aplicado, no lo deshacemos por esto
			log.Printf("[maintenance] error limpiando cache de recomendaciones: %v", err)
		} else {
			flushed = n
		}
	}

	result := &models.RecountResult{
		RecountedServices: recounted,
		ClearedServices:   cleared,
		Batches:           len(batches),
		FlushedCacheKeys:  flushed,
	}
	return result, nil
}
