package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"facturacion-api/internal/config"
	"facturacion-api/internal/database"
	custommiddleware "facturacion-api/internal/middleware"
	"facturacion-api/internal/repository"
	"facturacion-api/internal/service"
	"facturacion-api/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
}

func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB) *Server {
	// Create router
	router := chi.NewRouter()

	// Add basic middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.Server.Env == "development"))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithJSON(w, http.StatusOK, database.Health(r.Context(), db))
	})

	// Initialize repositories
	personaRepo := repository.NewPersonaRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	facturaRepo := repository.NewFacturaRepository(db)
	usuarioRepo := repository.NewUsuarioRepository(db)
	reporteRepo := repository.NewReporteRepository(db)

	// Initialize services
	authService := service.NewAuthService(usuarioRepo, cfg.JWT)
	personaService := service.NewPersonaService(personaRepo)
	productoService := service.NewProductoService(productoRepo)
	facturaService := service.NewFacturaService(facturaRepo, personaRepo, productoRepo)
	reporteService := service.NewReporteService(reporteRepo)

	// Initialize handlers
	authHandler := transport.NewAuthHandler(authService, logger)
	personaHandler := transport.NewPersonaHandler(personaService, logger)
	productoHandler := transport.NewProductoHandler(productoService, logger)
	facturaHandler := transport.NewFacturaHandler(facturaService, logger)
	reporteHandler := transport.NewReporteHandler(reporteService, logger)

	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT, logger)

	// Register routes. Auth endpoints stay open; everything else requires a
	// valid bearer token.
	router.Route("/api", func(api chi.Router) {
		authHandler.RegisterRoutes(api)

		api.Group(func(protected chi.Router) {
			protected.Use(authMiddleware)
			personaHandler.RegisterRoutes(protected)
			productoHandler.RegisterRoutes(protected)
			facturaHandler.RegisterRoutes(protected)
			reporteHandler.RegisterRoutes(protected)
		})
	})

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
	}

	return server
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
