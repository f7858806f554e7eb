package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"servizo-backend/internal/service"

	"github.com/go-chi/chi/v5"
)

type BookingHandler struct {
	svc *service.BookingService
}

func NewBookingHandler(s *service.BookingService) *BookingHandler { return &BookingHandler{svc: s} }

type createBookingRequest struct {
	ServiceID       int    `json:"serviceId"`
	BookingDate     string `json:"bookingDate"`
	BookingTime     string `json:"bookingTime"`
	CustomerAddress string `json:"customerAddress"`
	SpecialRequests string `json:"specialRequests"`
	PaymentMethod   string `json:"paymentMethod"`
}

// @Summary Crear reserva (CUSTOMER)
// @Tags bookings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body createBookingRequest true "Datos de la reserva"
// @Success 201 {object} models.BookingDoc
// @Failure 400 {string} string "body inválido"
// @Router /me/bookings [post]
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	customerID := UserIDFromContext(r.Context())

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ServiceID == 0 {
		http.Error(w, "body inválido (serviceId requerido)", http.StatusBadRequest)
		return
	}

	b, err := h.svc.Create(r.Context(), customerID, service.CreateBookingData{
		ServiceID:       req.ServiceID,
		BookingDate:     req.BookingDate,
		BookingTime:     req.BookingTime,
		CustomerAddress: req.CustomerAddress,
		SpecialRequests: req.SpecialRequests,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(b)
}

// @Summary Mis reservas (CUSTOMER)
// @Tags bookings
// @Security BearerAuth
// @Produce json
// @Param status query string false "pending|confirmed|in-progress|completed|cancelled|rejected"
// @Param limit query int false "límite (default: 50)"
// @Success 200 {array} models.BookingDoc
// @Router /me/bookings [get]
func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	customerID := UserIDFromContext(r.Context())

	status := r.URL.Query().Get("status")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	bookings, err := h.svc.ListForCustomer(r.Context(), customerID, status, limit)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(bookings)
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

// @Summary Cancelar reserva propia (CUSTOMER)
// @Tags bookings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "bookingId"
// @Param body body cancelBookingRequest true "motivo"
// @Success 200 {object} models.BookingDoc
// @Router /me/bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	customerID := UserIDFromContext(r.Context())
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	var req cancelBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "body inválido", http.StatusBadRequest)
		return
	}

	b, err := h.svc.Cancel(r.Context(), customerID, id, req.Reason)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	_ = json.NewEncoder(w).Encode(b)
}

// ====== PROVIDER ======

// @Summary Reservas recibidas (PROVIDER)
// @Tags bookings
// @Security BearerAuth
// @Produce json
// @Param status query string false "filtrar por estado"
// @Param limit query int false "límite (default: 50)"
// @Success 200 {array} models.BookingDoc
// @Router /provider/bookings [get]
func (h *BookingHandler) ListForProvider(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	providerID := UserIDFromContext(r.Context())

	status := r.URL.Query().Get("status")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	bookings, err := h.svc.ListForProvider(r.Context(), providerID, status, limit)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(bookings)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// @Summary Cambiar estado de una reserva (PROVIDER)
// @Description Transiciones válidas: pending→confirmed/rejected, confirmed→in-progress/completed, in-progress→completed.
// @Tags bookings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "bookingId"
// @Param body body updateStatusRequest true "nuevo estado"
// @Success 200 {object} models.BookingDoc
// @Router /provider/bookings/{id}/status [put]
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	providerID := UserIDFromContext(r.Context())
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		http.Error(w, "body inválido (status requerido)", http.StatusBadRequest)
		return
	}

	b, err := h.svc.UpdateStatus(r.Context(), providerID, id, req.Status)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	_ = json.NewEncoder(w).Encode(b)
}
