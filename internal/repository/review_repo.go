package repository

import (
	"context"

	"servizo-backend/internal/db"
	"servizo-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{col: db.DB().Collection("reviews")}
}

func (r *ReviewRepository) GetByBooking(ctx context.Context, bookingID int) (*models.ReviewDoc, error) {
	var rev models.ReviewDoc
	err := r.col.FindOne(ctx, bson.M{"bookingId": bookingID}).Decode(&rev)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &rev, err
}

func (r *ReviewRepository) ListByService(ctx context.Context, serviceID, limit, offset int) ([]models.ReviewDoc, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cur, err := r.col.Find(ctx, bson.M{"serviceId": serviceID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ReviewDoc
	for cur.Next(ctx) {
		var rev models.ReviewDoc
		if err := cur.Decode(&rev); err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	return out, cur.Err()
}

func (r *ReviewRepository) GetNextReviewID(ctx context.Context) (int, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "reviewId", Value: -1}})
	var rev models.ReviewDoc
	err := r.col.FindOne(ctx, bson.M{}, opts).Decode(&rev)
	if err == mongo.ErrNoDocuments {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return rev.ReviewID + 1, nil
}

func (r *ReviewRepository) Insert(ctx context.Context, rev *models.ReviewDoc) error {
	_, err := r.col.InsertOne(ctx, rev)
	return err
}

// serviceStats es el resultado del $group por servicio.
type serviceStats struct {
	ServiceID int     `bson:"_id"`
	Average   float64 `bson:"average"`
	Count     int     `bson:"count"`
}

// AggregateStatsByService recalcula promedio y cantidad de reviews por
// servicio sobre toda la colección. Lo usa el mantenimiento admin.
func (r *ReviewRepository) AggregateStatsByService(ctx context.Context) (map[int]models.RatingStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":     "$serviceId",
			"average": bson.M{"$avg": "$rating"},
			"count":   bson.M{"$sum": 1},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make(map[int]models.RatingStats)
	for cur.Next(ctx) {
		var st serviceStats
		if err := cur.Decode(&st); err != nil {
			return nil, err
		}
		out[st.ServiceID] = models.RatingStats{
			Average: st.Average,
			Count:   st.Count,
		}
	}
	return out, cur.Err()
}
