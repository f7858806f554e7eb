package service

import (
	"context"
	"fmt"
	"time"

	"servizo-backend/internal/models"
	"servizo-backend/internal/repository"
)

type ReviewService struct {
	reviews  *repository.ReviewRepository
	bookings *repository.BookingRepository
	services *repository.ServiceRepository
}

func NewReviewService(
	reviews *repository.ReviewRepository,
	bookings *repository.BookingRepository,
	services *repository.ServiceRepository,
) *ReviewService {
	return &ReviewService{
		reviews:  reviews,
		bookings: bookings,
		services: services,
	}
}

type CreateReviewData struct {
	BookingID int
	Rating    int
	Comment   string
}

// Create registra una review sobre una reserva completada del propio
// cliente (una sola por reserva) y actualiza las estadísticas de
// rating del servicio de forma incremental.
func (s *ReviewService) Create(ctx context.Context, customerID int, data CreateReviewData) (*models.ReviewDoc, error) {
	if data.Rating < 1 || data.Rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5")
	}
	if len(data.Comment) < 10 {
		return nil, fmt.Errorf("comment must be at least 10 characters")
	}

	b, err := s.bookings.GetByID(ctx, data.BookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("booking %d not found", data.BookingID)
	}
	if b.CustomerID != customerID {
		return nil, fmt.Errorf("booking %d does not belong to customer %d", data.BookingID, customerID)
	}
	if b.Status != models.BookingStatusCompleted {
		return nil, fmt.Errorf("only completed bookings can be reviewed")
	}

	existing, err := s.reviews.GetByBooking(ctx, data.BookingID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("booking %d already reviewed", data.BookingID)
	}

	nextID, err := s.reviews.GetNextReviewID(ctx)
	if err != nil {
		return nil, err
	}

	rev := &models.ReviewDoc{
		ReviewID:   nextID,
		ServiceID:  b.ServiceID,
		BookingID:  b.BookingID,
		CustomerID: customerID,
		ProviderID: b.ProviderID,
		Rating:     data.Rating,
		Comment:    data.Comment,
		IsVerified: true,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}

	if err := s.reviews.Insert(ctx, rev); err != nil {
		return nil, err
	}

	if err := s.bumpServiceRating(ctx, b.ServiceID, data.Rating); err != nil {
		return nil, err
	}
	return rev, nil
}

// bumpServiceRating actualiza promedio y conteo sin recalcular toda la
// colección: total = avg*count + rating nuevo.
func (s *ReviewService) bumpServiceRating(ctx context.Context, serviceID, rating int) error {
	svc, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		return err
	}
	if svc == nil {
		return fmt.Errorf("service %d not found", serviceID)
	}

	rs := models.RatingStats{}
	if svc.Rating != nil {
		rs = *svc.Rating
	}

	total := rs.Average*float64(rs.Count) + float64(rating)
	rs.Count++
	rs.Average = total / float64(rs.Count)

	return s.services.UpdateRatingStats(ctx, serviceID, rs)
}

func (s *ReviewService) ListByService(ctx context.Context, serviceID, limit, offset int) ([]models.ReviewDoc, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.reviews.ListByService(ctx, serviceID, limit, offset)
}
