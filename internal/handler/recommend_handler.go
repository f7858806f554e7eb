package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"servizo-backend/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

type RecommendHandler struct {
	svc *service.RecommendService
}

func NewRecommendHandler(s *service.RecommendService) *RecommendHandler {
	return &RecommendHandler{svc: s}
}

func recommendStatus(err error) int {
	if errors.Is(err, service.ErrNotCustomer) {
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// @Summary Mis recomendaciones
// @Description Lista híbrida (contenido + colaborativo + categorías) con fallback de popularidad.
// @Tags recommend
// @Security BearerAuth
// @Produce json
// @Param limit query int false "cantidad de recomendaciones (máx 50)"
// @Param refresh query bool false "si true, ignora cache Redis"
// @Success 200 {array} models.RecommendedService
// @Router /me/recommendations [get]
func (h *RecommendHandler) GetMyRecommendations(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID := UserIDFromContext(r.Context())
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	refresh := r.URL.Query().Get("refresh") == "true"

	items, err := h.svc.Recommend(r.Context(), service.RecRequest{
		UserID:  userID,
		Limit:   limit,
		Refresh: refresh,
	})
	if err != nil {
		http.Error(w, err.Error(), recommendStatus(err))
		return
	}
	_ = json.NewEncoder(w).Encode(items)
}

// @Summary Servicios cerca mío
// @Description Servicios activos cuyo proveedor atiende la ciudad (o estado) del usuario.
// @Tags recommend
// @Security BearerAuth
// @Produce json
// @Param limit query int false "cantidad (máx 50)"
// @Success 200 {array} models.ServiceDoc
// @Router /me/recommendations/nearby [get]
func (h *RecommendHandler) GetNearby(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID := UserIDFromContext(r.Context())
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	services, err := h.svc.Nearby(r.Context(), userID, limit)
	if err != nil {
		http.Error(w, err.Error(), recommendStatus(err))
		return
	}
	_ = json.NewEncoder(w).Encode(services)
}

// @Summary Historial de recomendaciones generadas
// @Tags recommend
// @Security BearerAuth
// @Produce json
// @Param limit query int false "límite (default: 20)"
// @Success 200 {array} models.RecommendationLog
// @Router /me/recommendations/history [get]
func (h *RecommendHandler) GetMyHistory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID := UserIDFromContext(r.Context())
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	history, err := h.svc.History(r.Context(), userID, int64(limit))
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(history)
}

// @Summary Recomendaciones de un usuario (ADMIN)
// @Tags recommend
// @Security BearerAuth
// @Produce json
// @Param id path int true "userId"
// @Param limit query int false "cantidad de recomendaciones (máx 50)"
// @Param refresh query bool false "si true, ignora cache Redis"
// @Success 200 {array} models.RecommendedService
// @Router /users/{id}/recommendations [get]
func (h *RecommendHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	refresh := r.URL.Query().Get("refresh") == "true"

	items, err := h.svc.Recommend(r.Context(), service.RecRequest{
		UserID:  userID,
		Limit:   limit,
		Refresh: refresh,
	})
	if err != nil {
		http.Error(w, err.Error(), recommendStatus(err))
		return
	}
	_ = json.NewEncoder(w).Encode(items)
}

// upgrader global (no afecta a swagger)
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary Mis recomendaciones en tiempo real (WebSocket)
// @Tags recommend
// @Produce json
// @Param limit query int false "cantidad de recomendaciones (máx 50)"
// @Param refresh query bool false "si true, ignora cache Redis"
// @Success 200 {object} map[string]interface{}
// @Router /me/ws/recommendations [get]
func (h *RecommendHandler) GetMyRecommendationsWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "No se pudo abrir WebSocket", 400)
		return
	}
	defer conn.Close()

	userID := UserIDFromContext(r.Context())
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	refresh := r.URL.Query().Get("refresh") == "true"

	// Mensaje inicial
	conn.WriteJSON(map[string]any{
		"type": "start",
		"msg":  "Conexión WS abierta, iniciando cálculo…",
	})

	// Progreso por señal del híbrido
	for _, signal := range []string{"content", "collaborative", "category"} {
		conn.WriteJSON(map[string]any{
			"type":   "progress",
			"signal": signal,
		})
	}

	items, err := h.svc.Recommend(r.Context(), service.RecRequest{
		UserID:  userID,
		Limit:   limit,
		Refresh: refresh,
	})
	if err != nil {
		conn.WriteJSON(map[string]any{
			"type":  "error",
			"error": err.Error(),
		})
		return
	}

	// Mensaje final con recomendaciones
	conn.WriteJSON(map[string]any{
		"type":        "recommendations",
		"userId":      userID,
		"items":       items,
		"generatedAt": time.Now(),
	})
}
