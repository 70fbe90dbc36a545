package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"facturacion-api/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	ErrProductoNotFound   = errors.New("producto not found")
	ErrProductoReferenced = errors.New("producto is referenced by existing factura detalles")
)

// ProductoRepository defines the interface for producto data access
type ProductoRepository interface {
	List(ctx context.Context) ([]domain.Producto, error)
	FindByID(ctx context.Context, id int64) (*domain.Producto, error)
	FindByIDs(ctx context.Context, ids []int64) ([]domain.Producto, error)
	Create(ctx context.Context, producto *domain.Producto) error
	UpdatePrecios(ctx context.Context, id int64, precio, costo decimal.Decimal) error
	Delete(ctx context.Context, id int64) error
}

type productoRepository struct {
	db *sql.DB
}

// NewProductoRepository creates a new instance of ProductoRepository
func NewProductoRepository(db *sql.DB) ProductoRepository {
	return &productoRepository{db: db}
}

func (r *productoRepository) List(ctx context.Context) ([]domain.Producto, error) {
	query := `
		SELECT prod_id, prod_descripcion, prod_um, prod_precio, prod_costo
		FROM producto
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list productos: %w", err)
	}
	defer rows.Close()

	return scanProductos(rows)
}

func (r *productoRepository) FindByID(ctx context.Context, id int64) (*domain.Producto, error) {
	query := `
		SELECT prod_id, prod_descripcion, prod_um, prod_precio, prod_costo
		FROM producto
		WHERE prod_id = $1
	`

	p := &domain.Producto{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Descripcion, &p.UnidadMedida, &p.Precio, &p.Costo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductoNotFound
		}
		return nil, fmt.Errorf("failed to find producto by ID: %w", err)
	}

	return p, nil
}

// FindByIDs returns the productos whose ids are in the given set. Missing ids
// are simply absent from the result; the caller decides whether that is an
// error.
func (r *productoRepository) FindByIDs(ctx context.Context, ids []int64) ([]domain.Producto, error) {
	if len(ids) == 0 {
		return []domain.Producto{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT prod_id, prod_descripcion, prod_um, prod_precio, prod_costo
		FROM producto
		WHERE prod_id IN (%s)
	`, strings.Join(placeholders, ", "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to find productos by ids: %w", err)
	}
	defer rows.Close()

	return scanProductos(rows)
}

func (r *productoRepository) Create(ctx context.Context, producto *domain.Producto) error {
	query := `
		INSERT INTO producto (prod_descripcion, prod_um, prod_precio, prod_costo)
		VALUES ($1, $2, $3, $4)
		RETURNING prod_id
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		producto.Descripcion,
		producto.UnidadMedida,
		producto.Precio,
		producto.Costo,
	).Scan(&producto.ID)

	if err != nil {
		return fmt.Errorf("failed to create producto: %w", err)
	}

	return nil
}

func (r *productoRepository) UpdatePrecios(ctx context.Context, id int64, precio, costo decimal.Decimal) error {
	query := `UPDATE producto SET prod_precio = $2, prod_costo = $3 WHERE prod_id = $1`

	result, err := r.db.ExecContext(ctx, query, id, precio, costo)
	if err != nil {
		return fmt.Errorf("failed to update producto precios: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductoNotFound
	}

	return nil
}

// Delete removes a producto. Deletion is blocked by the database while any
// factura detalle references it; that violation becomes ErrProductoReferenced.
func (r *productoRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM producto WHERE prod_id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrProductoReferenced
		}
		return fmt.Errorf("failed to delete producto: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductoNotFound
	}

	return nil
}

func scanProductos(rows *sql.Rows) ([]domain.Producto, error) {
	productos := []domain.Producto{}
	for rows.Next() {
		var p domain.Producto
		if err := rows.Scan(&p.ID, &p.Descripcion, &p.UnidadMedida, &p.Precio, &p.Costo); err != nil {
			return nil, fmt.Errorf("failed to scan producto: %w", err)
		}
		productos = append(productos, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating productos: %w", err)
	}

	return productos, nil
}
