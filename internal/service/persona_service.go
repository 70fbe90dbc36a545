package service

import (
	"context"
	"fmt"

	"facturacion-api/internal/domain"
	"facturacion-api/internal/repository"
)

// CreatePersonaInput carries the caller-supplied persona fields. Name fields
// are stored as given: no trimming or blank validation is applied.
type CreatePersonaInput struct {
	Nombre        string
	Apellido      string
	TipoDocumento string
	Documento     string
}

// PersonaService implements the personas catalog operations.
type PersonaService interface {
	List(ctx context.Context) ([]domain.Persona, error)
	Get(ctx context.Context, id int64) (*domain.Persona, error)
	Create(ctx context.Context, input CreatePersonaInput) (*domain.Persona, error)
	Update(ctx context.Context, id int64, input CreatePersonaInput) error
	Delete(ctx context.Context, id int64) error
}

type personaService struct {
	personaRepo repository.PersonaRepository
}

// NewPersonaService creates a new instance of PersonaService
func NewPersonaService(personaRepo repository.PersonaRepository) PersonaService {
	return &personaService{personaRepo: personaRepo}
}

func (s *personaService) List(ctx context.Context) ([]domain.Persona, error) {
	return s.personaRepo.List(ctx)
}

func (s *personaService) Get(ctx context.Context, id int64) (*domain.Persona, error) {
	return s.personaRepo.FindByID(ctx, id)
}

// Create rejects duplicate documentos. The pre-check gives a friendly error;
// the unique index catches concurrent creates and yields the same sentinel.
func (s *personaService) Create(ctx context.Context, input CreatePersonaInput) (*domain.Persona, error) {
	exists, err := s.personaRepo.ExistsByDocumento(ctx, input.Documento)
	if err != nil {
		return nil, fmt.Errorf("failed to check documento: %w", err)
	}
	if exists {
		return nil, repository.ErrDocumentoExists
	}

	persona := &domain.Persona{
		Nombre:        input.Nombre,
		Apellido:      input.Apellido,
		TipoDocumento: input.TipoDocumento,
		Documento:     input.Documento,
	}

	if err := s.personaRepo.Create(ctx, persona); err != nil {
		return nil, err
	}

	return persona, nil
}

// Update checks documento uniqueness only when the documento actually
// changes.
func (s *personaService) Update(ctx context.Context, id int64, input CreatePersonaInput) error {
	persona, err := s.personaRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if persona.Documento != input.Documento {
		exists, err := s.personaRepo.ExistsByDocumento(ctx, input.Documento)
		if err != nil {
			return fmt.Errorf("failed to check documento: %w", err)
		}
		if exists {
			return repository.ErrDocumentoExists
		}
	}

	persona.Nombre = input.Nombre
	persona.Apellido = input.Apellido
	persona.TipoDocumento = input.TipoDocumento
	persona.Documento = input.Documento

	return s.personaRepo.Update(ctx, persona)
}

// Delete relies on the storage layer's foreign-key constraint to block
// removal of personas that facturas still reference.
func (s *personaService) Delete(ctx context.Context, id int64) error {
	return s.personaRepo.Delete(ctx, id)
}
