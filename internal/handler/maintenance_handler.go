package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"servizo-backend/internal/models"
	"servizo-backend/internal/service"

	"github.com/go-chi/chi/v5"
)

// MaintenanceHandler expone endpoints de mantenimiento admin.
type MaintenanceHandler struct {
	svc *service.MaintenanceService
}

func NewMaintenanceHandler(svc *service.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{svc: svc}
}

// @Summary Resumen de estado de ratings
// @Description Devuelve conteos de servicios con/sin estadísticas de rating y total de reviews.
// @Tags admin-maintenance
// @Security BearerAuth
// @Produce json
// @Param minReviews query int false "Mínimo de reviews para considerar un servicio (default 1)"
// @Success 200 {object} models.RatingsSummary
// @Failure 500 {string} string "error interno"
// @Router /admin/maintenance/ratings/summary [get]
// GET /admin/maintenance/ratings/summary
func (h *MaintenanceHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	minReviews := int64(1)
	if v := r.URL.Query().Get("minReviews"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			minReviews = n
		}
	}

	summary, err := h.svc.GetRatingsSummary(r.Context(), minReviews)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// @Summary Servicios con estadísticas desfasadas
// @Description Lista servicios cuyo rating.count no coincide con el número real de reviews.
// @Tags admin-maintenance
// @Security BearerAuth
// @Produce json
// @Param minReviews query int false "Mínimo de reviews reales (default 1)"
// @Param limit query int false "Límite de servicios (default 50)"
// @Success 200 {object} models.PendingRatings
// @Failure 500 {string} string "error interno"
// @Router /admin/maintenance/ratings/pending [get]
// GET /admin/maintenance/ratings/pending
func (h *MaintenanceHandler) GetPending(w http.ResponseWriter, r *http.Request) {
	minReviews := int64(1)
	if v := r.URL.Query().Get("minReviews"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			minReviews = n
		}
	}
	limit := int64(50)
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}

	resp, err := h.svc.GetPendingRatings(r.Context(), minReviews, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// @Summary Recalcular estadísticas de rating
// @Description Recalcula avg/count de todos los servicios activos desde la colección de reviews, en batches paralelos, y opcionalmente invalida el cache de recomendaciones.
// @Tags admin-maintenance
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body models.RecountRequest true "Parámetros del recálculo"
// @Success 200 {object} models.RecountResult
// @Failure 400 {string} string "body inválido"
// @Failure 500 {string} string "error interno"
// @Router /admin/maintenance/ratings/recount [post]
// POST /admin/maintenance/ratings/recount
func (h *MaintenanceHandler) PostRecount(w http.ResponseWriter, r *http.Request) {
	var req models.RecountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "body inválido", http.StatusBadRequest)
		return
	}
	if req.BatchSize <= 0 {
		req.BatchSize = 50
	}
	if req.Parallelism <= 0 {
		req.Parallelism = 4
	}

	res, err := h.svc.RecountRatings(r.Context(), &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Utilidad pequeña para respuestas JSON.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Helper para montar rutas en main.go
func MountMaintenanceRoutes(r chi.Router, h *MaintenanceHandler) {
	r.Route("/admin/maintenance", func(r chi.Router) {
		r.Get("/ratings/summary", h.GetSummary)
		r.Get("/ratings/pending", h.GetPending)
		r.Post("/ratings/recount", h.PostRecount)
	})
}
