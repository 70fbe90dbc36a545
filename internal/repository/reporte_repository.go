package repository

import (
	"context"
	"database/sql"
	"fmt"

	"facturacion-api/internal/domain"
)

// ReporteRepository reads the precomputed aggregate views. The views are
// recomputed by the database on every read; there is no mutation path.
type ReporteRepository interface {
	PersonasTotal(ctx context.Context) ([]domain.PersonaTotal, error)
	PersonaProductoMasCaro(ctx context.Context) ([]domain.PersonaProductoMasCaro, error)
	ProductosPorCantidad(ctx context.Context) ([]domain.ProductoCantidad, error)
	ProductosPorUtilidad(ctx context.Context) ([]domain.ProductoUtilidad, error)
	ProductosMargen(ctx context.Context) ([]domain.ProductoMargen, error)
}

type reporteRepository struct {
	db *sql.DB
}

// NewReporteRepository creates a new instance of ReporteRepository
func NewReporteRepository(db *sql.DB) ReporteRepository {
	return &reporteRepository{db: db}
}

func (r *reporteRepository) PersonasTotal(ctx context.Context) ([]domain.PersonaTotal, error) {
	query := `SELECT per_id, per_nombre, per_apellido, total_facturado FROM v_persona_total`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read v_persona_total: %w", err)
	}
	defer rows.Close()

	result := []domain.PersonaTotal{}
	for rows.Next() {
		var row domain.PersonaTotal
		if err := rows.Scan(&row.PersonaID, &row.Nombre, &row.Apellido, &row.TotalFacturado); err != nil {
			return nil, fmt.Errorf("failed to scan v_persona_total row: %w", err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating v_persona_total: %w", err)
	}

	return result, nil
}

func (r *reporteRepository) PersonaProductoMasCaro(ctx context.Context) ([]domain.PersonaProductoMasCaro, error) {
	query := `
		SELECT per_id, per_nombre, per_apellido, prod_id, prod_descripcion, prod_precio
		FROM v_persona_producto_mas_caro
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read v_persona_producto_mas_caro: %w", err)
	}
	defer rows.Close()

	result := []domain.PersonaProductoMasCaro{}
	for rows.Next() {
		var row domain.PersonaProductoMasCaro
		if err := rows.Scan(
			&row.PersonaID, &row.Nombre, &row.Apellido,
			&row.ProductoID, &row.ProductoDescripcion, &row.ProductoPrecio,
		); err != nil {
			return nil, fmt.Errorf("failed to scan v_persona_producto_mas_caro row: %w", err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating v_persona_producto_mas_caro: %w", err)
	}

	return result, nil
}

func (r *reporteRepository) ProductosPorCantidad(ctx context.Context) ([]domain.ProductoCantidad, error) {
	query := `SELECT prod_id, prod_descripcion, cantidad_facturada FROM v_productos_por_cantidad`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read v_productos_por_cantidad: %w", err)
	}
	defer rows.Close()

	result := []domain.ProductoCantidad{}
	for rows.Next() {
		var row domain.ProductoCantidad
		if err := rows.Scan(&row.ProductoID, &row.ProductoDescripcion, &row.CantidadFacturada); err != nil {
			return nil, fmt.Errorf("failed to scan v_productos_por_cantidad row: %w", err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating v_productos_por_cantidad: %w", err)
	}

	return result, nil
}

func (r *reporteRepository) ProductosPorUtilidad(ctx context.Context) ([]domain.ProductoUtilidad, error) {
	query := `SELECT prod_id, prod_descripcion, utilidad_total FROM v_productos_por_utilidad`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read v_productos_por_utilidad: %w", err)
	}
	defer rows.Close()

	result := []domain.ProductoUtilidad{}
	for rows.Next() {
		var row domain.ProductoUtilidad
		if err := rows.Scan(&row.ProductoID, &row.ProductoDescripcion, &row.UtilidadTotal); err != nil {
			return nil, fmt.Errorf("failed to scan v_productos_por_utilidad row: %w", err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating v_productos_por_utilidad: %w", err)
	}

	return result, nil
}

func (r *reporteRepository) ProductosMargen(ctx context.Context) ([]domain.ProductoMargen, error) {
	query := `SELECT prod_id, prod_descripcion, ingresos, utilidad, margen FROM v_productos_margen`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read v_productos_margen: %w", err)
	}
	defer rows.Close()

	result := []domain.ProductoMargen{}
	for rows.Next() {
		var row domain.ProductoMargen
		if err := rows.Scan(&row.ProductoID, &row.ProductoDescripcion, &row.Ingresos, &row.Utilidad, &row.Margen); err != nil {
			return nil, fmt.Errorf("failed to scan v_productos_margen row: %w", err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating v_productos_margen: %w", err)
	}

	return result, nil
}
