package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"facturacion-api/internal/domain"
)

var (
	ErrUsuarioNotFound = errors.New("usuario not found")
	ErrUsernameExists  = errors.New("usuario with this username already exists")
)

// UsuarioRepository defines the interface for usuario data access
type UsuarioRepository interface {
	Create(ctx context.Context, usuario *domain.Usuario) error
	FindByUsername(ctx context.Context, username string) (*domain.Usuario, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

type usuarioRepository struct {
	db *sql.DB
}

// NewUsuarioRepository creates a new instance of UsuarioRepository
func NewUsuarioRepository(db *sql.DB) UsuarioRepository {
	return &usuarioRepository{db: db}
}

func (r *usuarioRepository) Create(ctx context.Context, usuario *domain.Usuario) error {
	query := `
		INSERT INTO usuario (usr_username, usr_passwordhash, usr_role)
		VALUES ($1, $2, $3)
		RETURNING usr_id
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		usuario.Username,
		usuario.PasswordHash,
		usuario.Role,
	).Scan(&usuario.ID)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrUsernameExists
		}
		return fmt.Errorf("failed to create usuario: %w", err)
	}

	return nil
}

// FindByUsername matches the username exactly, with no trimming.
func (r *usuarioRepository) FindByUsername(ctx context.Context, username string) (*domain.Usuario, error) {
	query := `
		SELECT usr_id, usr_username, usr_passwordhash, usr_role
		FROM usuario
		WHERE usr_username = $1
	`

	u := &domain.Usuario{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUsuarioNotFound
		}
		return nil, fmt.Errorf("failed to find usuario by username: %w", err)
	}

	return u, nil
}

func (r *usuarioRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM usuario WHERE usr_username = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}

	return exists, nil
}
