package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"servizo-backend/internal/service"

	"github.com/go-chi/chi/v5"
)

type ReviewHandler struct {
	svc *service.ReviewService
}

func NewReviewHandler(s *service.ReviewService) *ReviewHandler { return &ReviewHandler{svc: s} }

type createReviewRequest struct {
	BookingID int    `json:"bookingId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// @Summary Crear review (CUSTOMER)
// @Description Solo sobre reservas completadas propias; una review por reserva.
// @Tags reviews
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body createReviewRequest true "Datos de la review"
// @Success 201 {object} models.ReviewDoc
// @Failure 400 {string} string "body inválido"
// @Router /me/reviews [post]
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	customerID := UserIDFromContext(r.Context())

	var req createReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.BookingID == 0 {
		http.Error(w, "body inválido (bookingId requerido)", http.StatusBadRequest)
		return
	}

	rev, err := h.svc.Create(r.Context(), customerID, service.CreateReviewData{
		BookingID: req.BookingID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(rev)
}

// @Summary Reviews de un servicio
// @Tags reviews
// @Produce json
// @Param id path int true "serviceId"
// @Param limit query int false "límite (default: 20)"
// @Param offset query int false "offset"
// @Success 200 {array} models.ReviewDoc
// @Router /services/{id}/reviews [get]
func (h *ReviewHandler) ListByService(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	serviceID, _ := strconv.Atoi(chi.URLParam(r, "id"))

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	reviews, err := h.svc.ListByService(r.Context(), serviceID, limit, offset)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(reviews)
}
