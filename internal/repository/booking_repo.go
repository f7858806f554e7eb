package repository

import (
	"context"

	"servizo-backend/internal/db"
	"servizo-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BookingRepository struct {
	col      *mongo.Collection
	services *mongo.Collection
	users    *mongo.Collection
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{
		col:      db.DB().Collection("bookings"),
		services: db.DB().Collection("services"),
		users:    db.DB().Collection("users"),
	}
}

func (r *BookingRepository) GetByID(ctx context.Context, bookingID int) (*models.BookingDoc, error) {
	var b models.BookingDoc
	err := r.col.FindOne(ctx, bson.M{"bookingId": bookingID}).Decode(&b)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &b, err
}

// GetByCustomer devuelve las reservas del cliente, más recientes
// primero, con servicio y proveedor resueltos. `limit` acota el
// historial que después consume el engine (últimas 50).
func (r *BookingRepository) GetByCustomer(ctx context.Context, customerID int, status string, limit int) ([]models.BookingDoc, error) {
	filter := bson.M{"customerId": customerID}
	if status != "" && status != "all" {
		filter["status"] = status
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	return r.findJoined(ctx, filter, opts)
}

func (r *BookingRepository) GetByProvider(ctx context.Context, providerID int, status string, limit int) ([]models.BookingDoc, error) {
	filter := bson.M{"providerId": providerID}
	if status != "" && status != "all" {
		filter["status"] = status
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	return r.findJoined(ctx, filter, opts)
}

// GetSnapshot devuelve un corte acotado de todas las reservas del
// sistema para el filtro colaborativo. El límite es contrato de
// entrada del engine: en un sistema grande puede dejar afuera usuarios
// similares activos, y eso es aceptado a propósito.
func (r *BookingRepository) GetSnapshot(ctx context.Context, limit int) ([]models.BookingDoc, error) {
	opts := options.Find().SetLimit(int64(limit))
	return r.findJoined(ctx, bson.M{}, opts)
}

func (r *BookingRepository) GetNextBookingID(ctx context.Context) (int, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "bookingId", Value: -1}})
	var b models.BookingDoc
	err := r.col.FindOne(ctx, bson.M{}, opts).Decode(&b)
	if err == mongo.ErrNoDocuments {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return b.BookingID + 1, nil
}

func (r *BookingRepository) Insert(ctx context.Context, b *models.BookingDoc) error {
	_, err := r.col.InsertOne(ctx, b)
	return err
}

// UpdateStatus aplica un $set parcial (status + campos de cierre).
func (r *BookingRepository) UpdateStatus(ctx context.Context, bookingID int, update bson.M) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"bookingId": bookingID},
		bson.M{"$set": update},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// findJoined ejecuta la consulta y resuelve las proyecciones de
// servicio y proveedor en dos consultas $in. Si un join no resuelve,
// la reserva queda con la proyección en nil y los consumidores la
// tratan como dato faltante.
func (r *BookingRepository) findJoined(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.BookingDoc, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.BookingDoc
	for cur.Next(ctx) {
		var b models.BookingDoc
		if err := cur.Decode(&b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	if err := r.attachJoins(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BookingRepository) attachJoins(ctx context.Context, bookings []models.BookingDoc) error {
	if len(bookings) == 0 {
		return nil
	}

	serviceIDs := distinctIDs(bookings, func(b models.BookingDoc) int { return b.ServiceID })
	providerIDs := distinctIDs(bookings, func(b models.BookingDoc) int { return b.ProviderID })

	serviceMap := make(map[int]models.ServiceDoc, len(serviceIDs))
	cur, err := r.services.Find(ctx, bson.M{"serviceId": bson.M{"$in": serviceIDs}})
	if err != nil {
		return err
	}
	for cur.Next(ctx) {
		var s models.ServiceDoc
		if err := cur.Decode(&s); err != nil {
			cur.Close(ctx)
			return err
		}
		serviceMap[s.ServiceID] = s
	}
	if err := cur.Err(); err != nil {
		cur.Close(ctx)
		return err
	}
	cur.Close(ctx)

	providerMap := make(map[int]models.ProviderInfo, len(providerIDs))
	cur, err = r.users.Find(ctx, bson.M{"userId": bson.M{"$in": providerIDs}})
	if err != nil {
		return err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var u models.UserDoc
		if err := cur.Decode(&u); err != nil {
			return err
		}
		providerMap[u.UserID] = models.ProviderInfo{
			UserID: u.UserID,
			Name:   u.Name,
			City:   u.City,
			State:  u.State,
		}
	}
	if err := cur.Err(); err != nil {
		return err
	}

	for i := range bookings {
		if s, ok := serviceMap[bookings[i].ServiceID]; ok {
			sCopy := s
			bookings[i].Service = &sCopy
		}
		if p, ok := providerMap[bookings[i].ProviderID]; ok {
			pCopy := p
			bookings[i].Provider = &pCopy
		}
	}
	return nil
}

func distinctIDs(bookings []models.BookingDoc, get func(models.BookingDoc) int) []int {
	seen := make(map[int]struct{}, len(bookings))
	var ids []int
	for _, b := range bookings {
		id := get(b)
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}
