package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"facturacion-api/internal/middleware"
	"facturacion-api/internal/repository"
	"facturacion-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FacturaRequest represents the create factura payload. lineTotal is not
// accepted: storage computes it.
type FacturaRequest struct {
	Numero    string                  `json:"numero"`
	Fecha     time.Time               `json:"fecha"`
	PersonaID int64                   `json:"personaId"`
	Detalles  []FacturaDetalleRequest `json:"detalles"`
}

type FacturaDetalleRequest struct {
	Linea      int             `json:"linea"`
	Cantidad   decimal.Decimal `json:"cantidad"`
	ProductoID int64           `json:"productoId"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
}

// FacturaHandler handles HTTP requests for facturas
type FacturaHandler struct {
	facturaService service.FacturaService
	logger         *zap.Logger
}

// NewFacturaHandler creates a new FacturaHandler
func NewFacturaHandler(facturaService service.FacturaService, logger *zap.Logger) *FacturaHandler {
	return &FacturaHandler{
		facturaService: facturaService,
		logger:         logger,
	}
}

// RegisterRoutes registers the factura routes. There is no update route:
// correcting a factura means delete and recreate.
func (h *FacturaHandler) RegisterRoutes(r chi.Router) {
	r.Route("/facturas", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Delete("/{id}", h.Delete)
	})
}

// List returns all facturas with their detalles, most recent first
func (h *FacturaHandler) List(w http.ResponseWriter, r *http.Request) {
	facturas, err := h.facturaService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list facturas", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list facturas")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, facturas)
}

// Get returns one factura with its detalles
func (h *FacturaHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid id")
		return
	}

	factura, err := h.facturaService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrFacturaNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "factura no existe")
			return
		}
		h.logger.Error("Failed to get factura", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get factura")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, factura)
}

// Create validates and persists a factura with its detalles
func (h *FacturaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req FacturaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := service.CreateFacturaInput{
		Numero:    req.Numero,
		Fecha:     req.Fecha,
		PersonaID: req.PersonaID,
	}
	for _, d := range req.Detalles {
		input.Detalles = append(input.Detalles, service.CreateFacturaDetalleInput{
			Linea:      d.Linea,
			Cantidad:   d.Cantidad,
			ProductoID: d.ProductoID,
			UnitPrice:  d.UnitPrice,
		})
	}

	factura, err := h.facturaService.Create(r.Context(), input)
	if err != nil {
		var validationErr *service.ValidationError
		switch {
		case errors.As(err, &validationErr):
			middleware.RespondWithRuleViolations(w, validationErr.Violations)
		case errors.Is(err, repository.ErrNumeroExists):
			middleware.RespondWithError(w, http.StatusConflict, "numero de factura ya existe")
		default:
			h.logger.Error("Failed to create factura", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create factura")
		}
		return
	}

	h.logger.Info("Factura created",
		zap.Int64("factura_id", factura.ID),
		zap.String("numero", factura.Numero),
		zap.Int("detalles", len(factura.Detalles)),
	)
	w.Header().Set("Location", fmt.Sprintf("/api/facturas/%d", factura.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, factura)
}

// Delete removes a factura; its detalles cascade with it
func (h *FacturaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.facturaService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrFacturaNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "factura no existe")
			return
		}
		h.logger.Error("Failed to delete factura", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete factura")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
