package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"servizo-backend/internal/service"

	"github.com/go-chi/chi/v5"
)

type ServiceHandler struct {
	svc *service.CatalogService
}

func NewServiceHandler(s *service.CatalogService) *ServiceHandler { return &ServiceHandler{svc: s} }

// @Summary Obtener servicio
// @Tags services
// @Produce json
// @Param id path int true "serviceId"
// @Success 200 {object} models.ServiceDoc
// @Router /services/{id} [get]
func (h *ServiceHandler) GetService(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))
	s, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	if s == nil {
		http.NotFound(w, r)
		return
	}
	_ = json.NewEncoder(w).Encode(s)
}

// @Summary Buscar / listar servicios (paginado)
// @Tags services
// @Produce json
// @Param q query string false "búsqueda por título/descripción"
// @Param category query string false "filtrar por categoría"
// @Param city query string false "filtrar por ciudad"
// @Param min_price query number false "precio mínimo"
// @Param max_price query number false "precio máximo"
// @Param limit query int false "límite"
// @Param offset query int false "offset"
// @Success 200 {array} models.ServiceDoc
// @Router /services/search [get]
func (h *ServiceHandler) Search(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	q := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")
	city := r.URL.Query().Get("city")

	minPrice, _ := strconv.ParseFloat(r.URL.Query().Get("min_price"), 64)
	maxPrice, _ := strconv.ParseFloat(r.URL.Query().Get("max_price"), 64)

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 {
		limit = 20
	}

	services, err := h.svc.Search(r.Context(), q, category, city, minPrice, maxPrice, limit, offset)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	_ = json.NewEncoder(w).Encode(services)
}

// @Summary Top servicios (popularidad o rating)
// @Tags services
// @Produce json
// @Param metric query string false "popular|rating (default: popular)"
// @Param limit query int false "límite (default: 20)"
// @Success 200 {array} models.ServiceDoc
// @Router /services/top [get]
func (h *ServiceHandler) Top(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	metric := r.URL.Query().Get("metric")
	if metric == "" {
		metric = "popular"
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 20
	}

	services, err := h.svc.Top(r.Context(), metric, limit)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(services)
}

// ====== PROVIDER: crear / actualizar servicios ======

type createServiceRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Price       float64  `json:"price"`
	PriceType   string   `json:"priceType"`
	Duration    int      `json:"duration"`
	City        string   `json:"city"`
	Tags        []string `json:"tags"`
}

// @Summary Crear servicio (PROVIDER)
// @Tags services
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body createServiceRequest true "Datos del servicio"
// @Success 201 {object} models.ServiceDoc
// @Failure 400 {string} string "body inválido"
// @Router /provider/services [post]
func (h *ServiceHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	providerID := UserIDFromContext(r.Context())

	var req createServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		http.Error(w, "body inválido (title requerido)", http.StatusBadRequest)
		return
	}

	doc, err := h.svc.Create(r.Context(), providerID, service.CreateServiceData{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Price:       req.Price,
		PriceType:   req.PriceType,
		Duration:    req.Duration,
		City:        req.City,
		Tags:        req.Tags,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(doc)
}

type updateServiceRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Price       *float64  `json:"price"`
	Duration    *int      `json:"duration"`
	City        *string   `json:"city"`
	IsActive    *bool     `json:"isActive"`
	Tags        *[]string `json:"tags"`
}

// @Summary Actualizar servicio propio (PROVIDER)
// @Tags services
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "serviceId"
// @Param body body updateServiceRequest true "Campos a actualizar"
// @Success 200 {object} models.ServiceDoc
// @Router /provider/services/{id} [put]
func (h *ServiceHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	providerID := UserIDFromContext(r.Context())
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	var req updateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "body inválido", http.StatusBadRequest)
		return
	}

	doc, err := h.svc.Update(r.Context(), providerID, id, service.UpdateServiceData{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Duration:    req.Duration,
		City:        req.City,
		IsActive:    req.IsActive,
		Tags:        req.Tags,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	_ = json.NewEncoder(w).Encode(doc)
}

// @Summary Mis servicios (PROVIDER)
// @Tags services
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.ServiceDoc
// @Router /provider/services [get]
func (h *ServiceHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	providerID := UserIDFromContext(r.Context())

	services, err := h.svc.ListByProvider(r.Context(), providerID)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(services)
}
