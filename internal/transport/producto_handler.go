package transport

import (
	"errors"
	"fmt"
	"net/http"

	"facturacion-api/internal/middleware"
	"facturacion-api/internal/repository"
	"facturacion-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductoRequest represents the create producto payload. Precio and Costo
// carry no sign or magnitude validation.
type ProductoRequest struct {
	Descripcion  string          `json:"descripcion"`
	UnidadMedida string          `json:"unidadMedida"`
	Precio       decimal.Decimal `json:"precio"`
	Costo        decimal.Decimal `json:"costo"`
}

// PreciosRequest represents the update-prices payload
type PreciosRequest struct {
	Precio decimal.Decimal `json:"precio"`
	Costo  decimal.Decimal `json:"costo"`
}

// ProductoHandler handles HTTP requests for the productos catalog
type ProductoHandler struct {
	productoService service.ProductoService
	logger          *zap.Logger
}

// NewProductoHandler creates a new ProductoHandler
func NewProductoHandler(productoService service.ProductoService, logger *zap.Logger) *ProductoHandler {
	return &ProductoHandler{
		productoService: productoService,
		logger:          logger,
	}
}

// RegisterRoutes registers the producto routes
func (h *ProductoHandler) RegisterRoutes(r chi.Router) {
	r.Route("/productos", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}/precios", h.UpdatePrecios)
		r.Delete("/{id}", h.Delete)
	})
}

// List returns all productos
func (h *ProductoHandler) List(w http.ResponseWriter, r *http.Request) {
	productos, err := h.productoService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list productos", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list productos")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, productos)
}

// Get returns one producto by id
func (h *ProductoHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid id")
		return
	}

	producto, err := h.productoService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductoNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "producto no existe")
			return
		}
		h.logger.Error("Failed to get producto", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get producto")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, producto)
}

// Create inserts a producto
func (h *ProductoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductoRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	producto, err := h.productoService.Create(r.Context(), service.CreateProductoInput{
		Descripcion:  req.Descripcion,
		UnidadMedida: req.UnidadMedida,
		Precio:       req.Precio,
		Costo:        req.Costo,
	})
	if err != nil {
		h.logger.Error("Failed to create producto", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create producto")
		return
	}

	h.logger.Info("Producto created", zap.Int64("producto_id", producto.ID))
	w.Header().Set("Location", fmt.Sprintf("/api/productos/%d", producto.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, producto)
}

// UpdatePrecios replaces a producto's precio and costo
func (h *ProductoHandler) UpdatePrecios(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req PreciosRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.productoService.UpdatePrecios(r.Context(), id, req.Precio, req.Costo); err != nil {
		if errors.Is(err, repository.ErrProductoNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "producto no existe")
			return
		}
		h.logger.Error("Failed to update precios", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update precios")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete removes a producto when no factura detalles reference it
func (h *ProductoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.productoService.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrProductoNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "producto no existe")
		case errors.Is(err, repository.ErrProductoReferenced):
			middleware.RespondWithError(w, http.StatusConflict, "producto tiene facturas asociadas")
		default:
			h.logger.Error("Failed to delete producto", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete producto")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
