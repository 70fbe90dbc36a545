package transport

import (
	"net/http"

	"facturacion-api/internal/middleware"
	"facturacion-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ReporteHandler serves the five read-only aggregate reports. An empty store
// yields 200 with an empty collection, never an error.
type ReporteHandler struct {
	reporteService service.ReporteService
	logger         *zap.Logger
}

// NewReporteHandler creates a new ReporteHandler
func NewReporteHandler(reporteService service.ReporteService, logger *zap.Logger) *ReporteHandler {
	return &ReporteHandler{
		reporteService: reporteService,
		logger:         logger,
	}
}

// RegisterRoutes registers the reporte routes
func (h *ReporteHandler) RegisterRoutes(r chi.Router) {
	r.Route("/reportes", func(r chi.Router) {
		r.Get("/personas-total", h.PersonasTotal)
		r.Get("/persona-producto-mas-caro", h.PersonaProductoMasCaro)
		r.Get("/productos-cantidad-desc", h.ProductosPorCantidadDesc)
		r.Get("/productos-utilidad-desc", h.ProductosPorUtilidadDesc)
		r.Get("/productos-margen", h.ProductosMargen)
	})
}

func (h *ReporteHandler) PersonasTotal(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reporteService.PersonasTotal(r.Context())
	if err != nil {
		h.logger.Error("Failed to read personas-total report", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to read report")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, rows)
}

func (h *ReporteHandler) PersonaProductoMasCaro(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reporteService.PersonaProductoMasCaro(r.Context())
	if err != nil {
		h.logger.Error("Failed to read persona-producto-mas-caro report", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to read report")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, rows)
}

func (h *ReporteHandler) ProductosPorCantidadDesc(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reporteService.ProductosPorCantidadDesc(r.Context())
	if err != nil {
		h.logger.Error("Failed to read productos-cantidad-desc report", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to read report")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, rows)
}

func (h *ReporteHandler) ProductosPorUtilidadDesc(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reporteService.ProductosPorUtilidadDesc(r.Context())
	if err != nil {
		h.logger.Error("Failed to read productos-utilidad-desc report", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to read report")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, rows)
}

func (h *ReporteHandler) ProductosMargen(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reporteService.ProductosMargen(r.Context())
	if err != nil {
		h.logger.Error("Failed to read productos-margen report", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to read report")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, rows)
}
