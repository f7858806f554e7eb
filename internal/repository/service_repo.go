package repository

import (
	"context"

	"servizo-backend/internal/db"
	"servizo-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ServiceRepository struct {
	col   *mongo.Collection
	users *mongo.Collection
}

func NewServiceRepository() *ServiceRepository {
	return &ServiceRepository{
		col:   db.DB().Collection("services"),
		users: db.DB().Collection("users"),
	}
}

func (r *ServiceRepository) GetByID(ctx context.Context, serviceID int) (*models.ServiceDoc, error) {
	var s models.ServiceDoc
	err := r.col.FindOne(ctx, bson.M{"serviceId": serviceID}).Decode(&s)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	joined := []models.ServiceDoc{s}
	if err := r.attachProviders(ctx, joined); err != nil {
		return nil, err
	}
	return &joined[0], nil
}

// GetActive devuelve el catálogo activo completo con la proyección del
// proveedor resuelta. Es el snapshot que consume el engine.
func (r *ServiceRepository) GetActive(ctx context.Context) ([]models.ServiceDoc, error) {
	cur, err := r.col.Find(ctx, bson.M{"isActive": true})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ServiceDoc
	for cur.Next(ctx) {
		var s models.ServiceDoc
		if err := cur.Decode(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	if err := r.attachProviders(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ServiceRepository) Search(
	ctx context.Context,
	q string,
	category string,
	city string,
	minPrice, maxPrice float64,
	limit, offset int,
) ([]models.ServiceDoc, error) {

	filter := bson.M{"isActive": true}

	if q != "" {
		filter["$or"] = []bson.M{
			{"title": bson.M{"$regex": q, "$options": "i"}},
			{"description": bson.M{"$regex": q, "$options": "i"}},
		}
	}
	if category != "" {
		filter["category"] = category
	}
	if city != "" {
		filter["city"] = bson.M{"$regex": city, "$options": "i"}
	}
	if minPrice > 0 || maxPrice > 0 {
		priceCond := bson.M{}
		if minPrice > 0 {
			priceCond["$gte"] = minPrice
		}
		if maxPrice > 0 {
			priceCond["$lte"] = maxPrice
		}
		filter["price"] = priceCond
	}

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ServiceDoc
	for cur.Next(ctx) {
		var s models.ServiceDoc
		if err := cur.Decode(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, cur.Err()
}

// Top por popularidad (bookingCount) o rating promedio.
func (r *ServiceRepository) Top(ctx context.Context, metric string, limit int) ([]models.ServiceDoc, error) {
	sortField := "bookingCount" // popular
	if metric == "rating" {
		sortField = "rating.average"
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortField, Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, bson.M{"isActive": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ServiceDoc
	for cur.Next(ctx) {
		var s models.ServiceDoc
		if err := cur.Decode(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, cur.Err()
}

func (r *ServiceRepository) ListByProvider(ctx context.Context, providerID int) ([]models.ServiceDoc, error) {
	cur, err := r.col.Find(ctx, bson.M{"providerId": providerID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ServiceDoc
	for cur.Next(ctx) {
		var s models.ServiceDoc
		if err := cur.Decode(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, cur.Err()
}

func (r *ServiceRepository) GetNextServiceID(ctx context.Context) (int, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "serviceId", Value: -1}})
	var s models.ServiceDoc
	err := r.col.FindOne(ctx, bson.M{}, opts).Decode(&s)
	if err == mongo.ErrNoDocuments {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return s.ServiceID + 1, nil
}

func (r *ServiceRepository) Insert(ctx context.Context, s *models.ServiceDoc) error {
	_, err := r.col.InsertOne(ctx, s)
	return err
}

func (r *ServiceRepository) Update(ctx context.Context, s *models.ServiceDoc) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"serviceId": s.ServiceID}, s)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// UpdateRatingStats pisa las estadísticas de rating del servicio.
func (r *ServiceRepository) UpdateRatingStats(ctx context.Context, serviceID int, stats models.RatingStats) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"serviceId": serviceID},
		bson.M{"$set": bson.M{"rating": stats}},
	)
	return err
}

func (r *ServiceRepository) IncrementBookingCount(ctx context.Context, serviceID int) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"serviceId": serviceID},
		bson.M{"$inc": bson.M{"bookingCount": 1}},
	)
	return err
}

// attachProviders resuelve la proyección ProviderInfo con una sola
// consulta $in (no usamos $lookup, igual que el resto de los repos).
func (r *ServiceRepository) attachProviders(ctx context.Context, services []models.ServiceDoc) error {
	if len(services) == 0 {
		return nil
	}

	idSet := make(map[int]struct{}, len(services))
	ids := make([]int, 0, len(services))
	for i := range services {
		if _, ok := idSet[services[i].ProviderID]; !ok && services[i].ProviderID != 0 {
			idSet[services[i].ProviderID] = struct{}{}
			ids = append(ids, services[i].ProviderID)
		}
	}

	cur, err := r.users.Find(ctx, bson.M{"userId": bson.M{"$in": ids}})
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	providers := make(map[int]models.ProviderInfo, len(ids))
	for cur.Next(ctx) {
		var u models.UserDoc
		if err := cur.Decode(&u); err != nil {
			return err
		}
		providers[u.UserID] = models.ProviderInfo{
			UserID: u.UserID,
			Name:   u.Name,
			City:   u.City,
			State:  u.State,
		}
	}
	if err := cur.Err(); err != nil {
		return err
	}

	for i := range services {
		if p, ok := providers[services[i].ProviderID]; ok {
			pCopy := p
			services[i].Provider = &pCopy
		}
	}
	return nil
}
