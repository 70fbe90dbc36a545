package transport

import (
	"errors"
	"fmt"
	"net/http"

	"facturacion-api/internal/middleware"
	"facturacion-api/internal/repository"
	"facturacion-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PersonaRequest represents the create/update persona payload. Name fields
// are accepted as-is, matching current behavior.
type PersonaRequest struct {
	Nombre        string `json:"nombre"`
	Apellido      string `json:"apellido"`
	TipoDocumento string `json:"tipoDocumento"`
	Documento     string `json:"documento"`
}

// PersonaHandler handles HTTP requests for the personas catalog
type PersonaHandler struct {
	personaService service.PersonaService
	logger         *zap.Logger
}

// NewPersonaHandler creates a new PersonaHandler
func NewPersonaHandler(personaService service.PersonaService, logger *zap.Logger) *PersonaHandler {
	return &PersonaHandler{
		personaService: personaService,
		logger:         logger,
	}
}

// RegisterRoutes registers the persona routes
func (h *PersonaHandler) RegisterRoutes(r chi.Router) {
	r.Route("/personas", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List returns all personas
func (h *PersonaHandler) List(w http.ResponseWriter, r *http.Request) {
	personas, err := h.personaService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list personas", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list personas")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, personas)
}

// Get returns one persona by id
func (h *PersonaHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid id")
		return
	}

	persona, err := h.personaService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrPersonaNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "persona no existe")
			return
		}
		h.logger.Error("Failed to get persona", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get persona")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, persona)
}

// Create inserts a persona
func (h *PersonaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req PersonaRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	persona, err := h.personaService.Create(r.Context(), service.CreatePersonaInput{
		Nombre:        req.Nombre,
		Apellido:      req.Apellido,
		TipoDocumento: req.TipoDocumento,
		Documento:     req.Documento,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDocumentoExists) {
			middleware.RespondWithError(w, http.StatusConflict, "documento ya existe")
			return
		}
		h.logger.Error("Failed to create persona", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create persona")
		return
	}

	h.logger.Info("Persona created", zap.Int64("persona_id", persona.ID))
	w.Header().Set("Location", fmt.Sprintf("/api/personas/%d", persona.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, persona)
}

// Update replaces a persona's fields
func (h *PersonaHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req PersonaRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err = h.personaService.Update(r.Context(), id, service.CreatePersonaInput{
		Nombre:        req.Nombre,
		Apellido:      req.Apellido,
		TipoDocumento: req.TipoDocumento,
		Documento:     req.Documento,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrPersonaNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "persona no existe")
		case errors.Is(err, repository.ErrDocumentoExists):
			middleware.RespondWithError(w, http.StatusConflict, "documento ya existe")
		default:
			h.logger.Error("Failed to update persona", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update persona")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete removes a persona when no facturas reference it
func (h *PersonaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.personaService.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrPersonaNotFound):
			middleware.RespondWithError(w, http.StatusNotFound, "persona no existe")
		case errors.Is(err, repository.ErrPersonaReferenced):
			middleware.RespondWithError(w, http.StatusConflict, "persona tiene facturas asociadas")
		default:
			h.logger.Error("Failed to delete persona", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete persona")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
