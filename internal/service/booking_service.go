package service

import (
	"context"
	"fmt"
	"time"

	"servizo-backend/internal/models"
	"servizo-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
)

type BookingService struct {
	bookings *repository.BookingRepository
	services *repository.ServiceRepository
	users    *repository.UserRepository
}

func NewBookingService(
	bookings *repository.BookingRepository,
	services *repository.ServiceRepository,
	users *repository.UserRepository,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		services: services,
		users:    users,
	}
}

// transiciones válidas de estado; quién puede aplicarlas se valida aparte
var allowedTransitions = map[string][]string{
	models.BookingStatusPending:    {models.BookingStatusConfirmed, models.BookingStatusRejected, models.BookingStatusCancelled},
	models.BookingStatusConfirmed:  {models.BookingStatusInProgress, models.BookingStatusCompleted, models.BookingStatusCancelled},
	models.BookingStatusInProgress: {models.BookingStatusCompleted, models.BookingStatusCancelled},
}

func canTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type CreateBookingData struct {
	ServiceID       int
	BookingDate     string
	BookingTime     string
	CustomerAddress string
	SpecialRequests string
	PaymentMethod   string
}

// Create registra una reserva nueva en estado pending. El monto se
// congela con el precio actual del servicio.
func (s *BookingService) Create(ctx context.Context, customerID int, data CreateBookingData) (*models.BookingDoc, error) {
	customer, err := s.users.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil || customer.Role != models.RoleCustomer {
		return nil, fmt.Errorf("only customers can book services")
	}

	svc, err := s.services.GetByID(ctx, data.ServiceID)
	if err != nil {
		return nil, err
	}
	if svc == nil || !svc.IsActive {
		return nil, fmt.Errorf("service %d not available", data.ServiceID)
	}
	if svc.ProviderID == customerID {
		return nil, fmt.Errorf("cannot book your own service")
	}
	if data.BookingDate == "" || data.BookingTime == "" {
		return nil, fmt.Errorf("booking date and time are required")
	}

	nextID, err := s.bookings.GetNextBookingID(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	b := &models.BookingDoc{
		BookingID:       nextID,
		CustomerID:      customerID,
		ServiceID:       svc.ServiceID,
		ProviderID:      svc.ProviderID,
		BookingDate:     data.BookingDate,
		BookingTime:     data.BookingTime,
		CustomerAddress: data.CustomerAddress,
		SpecialRequests: data.SpecialRequests,
		Status:          models.BookingStatusPending,
		TotalAmount:     svc.Price,
		PaymentStatus:   "pending",
		PaymentMethod:   data.PaymentMethod,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.bookings.Insert(ctx, b); err != nil {
		return nil, err
	}

	if err := s.services.IncrementBookingCount(ctx, svc.ServiceID); err != nil {
		// no rompemos la reserva por un contador
		return b, nil
	}
	return b, nil
}

// UpdateStatus aplica una transición pedida por el proveedor.
func (s *BookingService) UpdateStatus(ctx context.Context, providerID, bookingID int, newStatus string) (*models.BookingDoc, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("booking %d not found", bookingID)
	}
	if b.ProviderID != providerID {
		return nil, fmt.Errorf("booking %d does not belong to provider %d", bookingID, providerID)
	}
	if !canTransition(b.Status, newStatus) {
		return nil, fmt.Errorf("cannot change booking from %s to %s", b.Status, newStatus)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	update := bson.M{"status": newStatus, "updatedAt": now}
	switch newStatus {
	case models.BookingStatusCompleted:
		update["completedAt"] = now
	case models.BookingStatusCancelled:
		update["cancelledAt"] = now
	}

	if err := s.bookings.UpdateStatus(ctx, bookingID, update); err != nil {
		return nil, err
	}
	b.Status = newStatus
	b.UpdatedAt = now
	return b, nil
}

// Cancel la ejecuta el cliente sobre su propia reserva; las reservas
// cerradas (completed/cancelled/rejected) ya no se tocan.
func (s *BookingService) Cancel(ctx context.Context, customerID, bookingID int, reason string) (*models.BookingDoc, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("booking %d not found", bookingID)
	}
	if b.CustomerID != customerID {
		return nil, fmt.Errorf("booking %d does not belong to customer %d", bookingID, customerID)
	}
	if !canTransition(b.Status, models.BookingStatusCancelled) {
		return nil, fmt.Errorf("booking in status %s cannot be cancelled", b.Status)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	update := bson.M{
		"status":             models.BookingStatusCancelled,
		"cancellationReason": reason,
		"cancelledAt":        now,
		"updatedAt":          now,
	}
	if err := s.bookings.UpdateStatus(ctx, bookingID, update); err != nil {
		return nil, err
	}
	b.Status = models.BookingStatusCancelled
	b.CancelReason = reason
	return b, nil
}

func (s *BookingService) ListForCustomer(ctx context.Context, customerID int, status string, limit int) ([]models.BookingDoc, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.bookings.GetByCustomer(ctx, customerID, status, limit)
}

func (s *BookingService) ListForProvider(ctx context.Context, providerID int, status string, limit int) ([]models.BookingDoc, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.bookings.GetByProvider(ctx, providerID, status, limit)
}
