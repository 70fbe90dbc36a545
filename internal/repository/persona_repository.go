package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"facturacion-api/internal/domain"
)

var (
	ErrPersonaNotFound   = errors.New("persona not found")
	ErrDocumentoExists   = errors.New("persona with this documento already exists")
	ErrPersonaReferenced = errors.New("persona is referenced by existing facturas")
)

// PersonaRepository defines the interface for persona data access
type PersonaRepository interface {
	List(ctx context.Context) ([]domain.Persona, error)
	FindByID(ctx context.Context, id int64) (*domain.Persona, error)
	ExistsByDocumento(ctx context.Context, documento string) (bool, error)
	Create(ctx context.Context, persona *domain.Persona) error
	Update(ctx context.Context, persona *domain.Persona) error
	Delete(ctx context.Context, id int64) error
}

type personaRepository struct {
	db *sql.DB
}

// NewPersonaRepository creates a new instance of PersonaRepository
func NewPersonaRepository(db *sql.DB) PersonaRepository {
	return &personaRepository{db: db}
}

func (r *personaRepository) List(ctx context.Context) ([]domain.Persona, error) {
	query := `
		SELECT per_id, per_nombre, per_apellido, per_tipodocumento, per_documento
		FROM persona
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list personas: %w", err)
	}
	defer rows.Close()

	personas := []domain.Persona{}
	for rows.Next() {
		var p domain.Persona
		if err := rows.Scan(&p.ID, &p.Nombre, &p.Apellido, &p.TipoDocumento, &p.Documento); err != nil {
			return nil, fmt.Errorf("failed to scan persona: %w", err)
		}
		personas = append(personas, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating personas: %w", err)
	}

	return personas, nil
}

func (r *personaRepository) FindByID(ctx context.Context, id int64) (*domain.Persona, error) {
	query := `
		SELECT per_id, per_nombre, per_apellido, per_tipodocumento, per_documento
		FROM persona
		WHERE per_id = $1
	`

	p := &domain.Persona{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Nombre, &p.Apellido, &p.TipoDocumento, &p.Documento)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPersonaNotFound
		}
		return nil, fmt.Errorf("failed to find persona by ID: %w", err)
	}

	return p, nil
}

func (r *personaRepository) ExistsByDocumento(ctx context.Context, documento string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM persona WHERE per_documento = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, documento).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check documento existence: %w", err)
	}

	return exists, nil
}

// Create inserts a persona and assigns the generated id. A concurrent insert
// racing past the service's existence pre-check still fails here on the
// unique documento index.
func (r *personaRepository) Create(ctx context.Context, persona *domain.Persona) error {
	query := `
		INSERT INTO persona (per_nombre, per_apellido, per_tipodocumento, per_documento)
		VALUES ($1, $2, $3, $4)
		RETURNING per_id
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		persona.Nombre,
		persona.Apellido,
		persona.TipoDocumento,
		persona.Documento,
	).Scan(&persona.ID)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrDocumentoExists
		}
		return fmt.Errorf("failed to create persona: %w", err)
	}

	return nil
}

func (r *personaRepository) Update(ctx context.Context, persona *domain.Persona) error {
	query := `
		UPDATE persona
		SET per_nombre = $2, per_apellido = $3, per_tipodocumento = $4, per_documento = $5
		WHERE per_id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		persona.ID,
		persona.Nombre,
		persona.Apellido,
		persona.TipoDocumento,
		persona.Documento,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrDocumentoExists
		}
		return fmt.Errorf("failed to update persona: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrPersonaNotFound
	}

	return nil
}

// Delete removes a persona. Referential integrity is not pre-validated: a
// foreign-key violation from facturas still pointing at the persona is
// translated to ErrPersonaReferenced.
func (r *personaRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM persona WHERE per_id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrPersonaReferenced
		}
		return fmt.Errorf("failed to delete persona: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrPersonaNotFound
	}

	return nil
}
