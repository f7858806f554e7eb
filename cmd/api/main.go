package main

import (
	"log"
	"net/http"

	_ "servizo-backend/docs" // swagger docs

	"servizo-backend/internal/cache"
	"servizo-backend/internal/chat"
	"servizo-backend/internal/config"
	"servizo-backend/internal/db"
	"servizo-backend/internal/handler"
	"servizo-backend/internal/repository"
	"servizo-backend/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Servizo Marketplace API
// @version 1.0
// @description API del marketplace de servicios (reservas, reviews y recomendaciones híbridas)
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	// Mongo y Redis
	db.InitMongo(cfg)
	cache.InitRedis(cfg)

	// repos
	userRepo := repository.NewUserRepository()
	serviceRepo := repository.NewServiceRepository()
	bookingRepo := repository.NewBookingRepository()
	reviewRepo := repository.NewReviewRepository()
	recRepo := repository.NewRecommendationRepository()
	chatRepo := repository.NewChatRepository()

	// services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)
	catalogSvc := service.NewCatalogService(serviceRepo, userRepo)
	bookingSvc := service.NewBookingService(bookingRepo, serviceRepo, userRepo)
	reviewSvc := service.NewReviewService(reviewRepo, bookingRepo, serviceRepo)
	// coordinador del engine híbrido + cache Redis + historial en Mongo
	recSvc := service.NewRecommendService(userRepo, bookingRepo, serviceRepo, recRepo)
	// servicio de mantenimiento admin
	maintSvc := service.NewMaintenanceService(reviewRepo, serviceRepo)

	// lobby de chat
	chatHub := chat.NewHub(chatRepo)

	// handlers
	authH := handler.NewAuthHandler(authSvc)
	serviceH := handler.NewServiceHandler(catalogSvc)
	bookingH := handler.NewBookingHandler(bookingSvc)
	reviewH := handler.NewReviewHandler(reviewSvc)
	recH := handler.NewRecommendHandler(recSvc)
	chatH := handler.NewChatHandler(chatHub)
	maintH := handler.NewMaintenanceHandler(maintSvc)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// =============
	// Rutas públicas
	// =============
	r.Get("/health", handler.Health)

	r.Post("/auth/register", authH.Register)
	r.Post("/auth/login", authH.Login)

	// Catálogo (público)
	r.Get("/services/search", serviceH.Search)
	r.Get("/services/top", serviceH.Top)
	r.Get("/services/{id}", serviceH.GetService)
	r.Get("/services/{id}/reviews", reviewH.ListByService)

	// Chat global (el join manda nombre y userId opcional)
	r.Get("/ws/chat", chatH.ServeWS)

	// ===========================
	// Rutas protegidas con JWT
	// ===========================
	authMw := handler.JWTAuth(cfg.JWTSecret)

	r.Group(func(r chi.Router) {
		r.Use(authMw)

		// ---- Perfil propio (cualquier role) ----
		r.Get("/me", authH.GetMe)
		r.Put("/me", authH.UpdateMe)

		// ---- Endpoints CUSTOMER ----
		r.Group(func(r chi.Router) {
			r.Use(handler.CustomerOnly())

			r.Route("/me/bookings", func(r chi.Router) {
				r.Get("/", bookingH.ListMine)
				r.Post("/", bookingH.Create)
				r.Post("/{id}/cancel", bookingH.Cancel)
			})

			r.Post("/me/reviews", reviewH.Create)

			// recomendaciones híbridas
			r.Get("/me/recommendations", recH.GetMyRecommendations)
			r.Get("/me/recommendations/nearby", recH.GetNearby)
			r.Get("/me/recommendations/history", recH.GetMyHistory)

			// WebSocket
			r.Get("/me/ws/recommendations", recH.GetMyRecommendationsWS)
		})

		// ---- Endpoints PROVIDER ----
		r.Group(func(r chi.Router) {
			r.Use(handler.ProviderOnly())

			r.Route("/provider", func(r chi.Router) {
				r.Get("/services", serviceH.ListMine)
				r.Post("/services", serviceH.CreateService)
				r.Put("/services/{id}", serviceH.UpdateService)

				r.Get("/bookings", bookingH.ListForProvider)
				r.Put("/bookings/{id}/status", bookingH.UpdateStatus)
			})
		})

		// ---- Endpoints solo ADMIN ----
		r.Group(func(r chi.Router) {
			r.Use(handler.AdminOnly())

			r.Get("/users", authH.ListUsers)
			r.Put("/users/{id}/update", authH.UpdateUser)

			r.Route("/users/{id}", func(r chi.Router) {
				r.Get("/", authH.GetUserByID)

				// recomendaciones de cualquier usuario
				r.Get("/recommendations", recH.GetRecommendations)
			})

			// --- mantenimiento de ratings / cache ---
			handler.MountMaintenanceRoutes(r, maintH)
		})
	})

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	log.Printf("HTTP escuchando en :%s", cfg.HTTPPort)
	log.Fatal(http.ListenAndServe(":"+cfg.HTTPPort, r))
}
