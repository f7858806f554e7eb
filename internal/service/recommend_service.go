package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"servizo-backend/internal/cache"
	"servizo-backend/internal/models"
	"servizo-backend/internal/recommend"
	"servizo-backend/internal/repository"
)

const (
	DefaultLimit = 10
	MaxLimit     = 50 // por seguridad, no deja pedir 1000 ítems

	// Cotas de los snapshots que recibe el engine. Son contrato de
	// entrada explícito: el snapshot global de 2000 reservas puede
	// dejar afuera usuarios similares activos en un sistema grande,
	// y eso se acepta a cambio de un costo por llamada predecible.
	historyLimit        = 50
	globalBookingsLimit = 2000

	recCacheTTLSeconds = 60 * 60
)

// ErrNotCustomer marca que el usuario no puede recibir recomendaciones.
var ErrNotCustomer = errors.New("recommendations are only available for customers")

type RecommendService struct {
	users    *repository.UserRepository
	bookings *repository.BookingRepository
	services *repository.ServiceRepository
	recRepo  *repository.RecommendationRepository
	engine   *recommend.Engine
}

func NewRecommendService(
	users *repository.UserRepository,
	bookings *repository.BookingRepository,
	services *repository.ServiceRepository,
	recRepo *repository.RecommendationRepository,
) *RecommendService {
	return &RecommendService{
		users:    users,
		bookings: bookings,
		services: services,
		recRepo:  recRepo,
		engine:   recommend.NewEngine(),
	}
}

// ====== Petición de recomendaciones ======

type RecRequest struct {
	UserID  int
	Limit   int
	Refresh bool
}

func cacheKey(req RecRequest) string {
	// Cachea por usuario + limit (refresh solo decide si usar cache)
	return fmt.Sprintf("rec:user:%d:limit:%d", req.UserID, req.Limit)
}

// Recommend arma los snapshots acotados y corre el engine híbrido.
func (s *RecommendService) Recommend(ctx context.Context, req RecRequest) ([]models.RecommendedService, error) {
	// defaults y límites
	if req.Limit <= 0 {
		req.Limit = DefaultLimit
	} else if req.Limit > MaxLimit {
		req.Limit = MaxLimit
	}

	// 1) Cache Redis (solo si refresh = false)
	var cached []models.RecommendedService
	if !req.Refresh {
		if ok, err := cache.GetJSON(ctx, cacheKey(req), &cached); err == nil && ok {
			return cached, nil
		}
	}

	// 2) Usuario objetivo (solo clientes reciben recomendaciones)
	user, err := s.users.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %d not found", req.UserID)
	}
	if user.Role != models.RoleCustomer {
		return nil, ErrNotCustomer
	}

	// 3) Snapshots: historial propio, corte global y catálogo activo
	history, err := s.bookings.GetByCustomer(ctx, req.UserID, "", historyLimit)
	if err != nil {
		return nil, err
	}

	allBookings, err := s.bookings.GetSnapshot(ctx, globalBookingsLimit)
	if err != nil {
		return nil, err
	}

	catalog, err := s.services.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	// 4) Engine puro: sin I/O, todo en memoria
	items := s.engine.Recommend(*user, history, allBookings, catalog, req.Limit)

	// 5) Guardar historial en Mongo (no rompemos la respuesta si falla)
	if s.recRepo != nil {
		recItems := make([]models.RecItem, 0, len(items))
		for _, it := range items {
			recItems = append(recItems, models.RecItem{
				ServiceID: it.ServiceID,
				Reasons:   it.RecommendationReasons,
			})
		}
		hist := &models.RecommendationLog{
			UserID: req.UserID,
			Algo:   "hybrid",
			Params: map[string]any{
				"limit":        req.Limit,
				"historySize":  len(history),
				"snapshotSize": len(allBookings),
				"catalogSize":  len(catalog),
				"refresh":      req.Refresh,
			},
			Items:     recItems,
			CreatedAt: time.Now(),
		}
		if err := s.recRepo.Insert(ctx, hist); err != nil {
			log.Printf("error guardando recomendación en Mongo: %v", err)
		}
	}

	// 6) Cachear en Redis (1 hora)
	if err := cache.SetJSON(ctx, cacheKey(req), items, recCacheTTLSeconds); err != nil {
		log.Printf("error cacheando recomendación en Redis: %v", err)
	}

	return items, nil
}

// Nearby devuelve servicios cuyo proveedor atiende la zona del usuario.
// No se cachea: es barato y depende solo del catálogo.
func (s *RecommendService) Nearby(ctx context.Context, userID, limit int) ([]models.ServiceDoc, error) {
	if limit <= 0 {
		limit = DefaultLimit
	} else if limit > MaxLimit {
		limit = MaxLimit
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %d not found", userID)
	}

	catalog, err := s.services.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	// excluimos lo que el usuario ya reservó, igual que el híbrido
	history, err := s.bookings.GetByCustomer(ctx, userID, "", historyLimit)
	if err != nil {
		return nil, err
	}
	booked := make(map[int]struct{}, len(history))
	for _, b := range history {
		booked[b.ServiceID] = struct{}{}
	}
	available := make([]models.ServiceDoc, 0, len(catalog))
	for _, svc := range catalog {
		if _, ok := booked[svc.ServiceID]; !ok {
			available = append(available, svc)
		}
	}

	ranked := s.engine.ByLocation(*user, available, limit)
	out := make([]models.ServiceDoc, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.Service)
	}
	return out, nil
}

// History lista las últimas listas generadas para un usuario.
func (s *RecommendService) History(ctx context.Context, userID int, limit int64) ([]models.RecommendationLog, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.recRepo.FindByUser(ctx, userID, limit)
}
