package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"facturacion-api/internal/domain"

	"github.com/shopspring/decimal"
)

var (
	ErrFacturaNotFound = errors.New("factura not found")
	ErrNumeroExists    = errors.New("factura with this numero already exists")
)

// FacturaRepository defines the interface for factura data access
type FacturaRepository interface {
	List(ctx context.Context) ([]domain.Factura, error)
	FindByID(ctx context.Context, id int64) (*domain.Factura, error)
	ExistsByNumero(ctx context.Context, numero string) (bool, error)
	CreateWithDetalles(ctx context.Context, factura *domain.Factura) error
	Delete(ctx context.Context, id int64) error
}

type facturaRepository struct {
	db *sql.DB
}

// NewFacturaRepository creates a new instance of FacturaRepository
func NewFacturaRepository(db *sql.DB) FacturaRepository {
	return &facturaRepository{db: db}
}

// List returns all facturas with their detalles, most recent fecha first.
func (r *facturaRepository) List(ctx context.Context) ([]domain.Factura, error) {
	query := `
		SELECT f.fenc_id, f.fenc_numero, f.fenc_fecha, f.zper_id,
		       d.fdet_id, d.fdet_linea, d.fdet_cantidad, d.zprod_id, d.unit_price, d.line_total
		FROM fact_encabezado f
		LEFT JOIN fact_detalle d ON d.zfenc_id = f.fenc_id
		ORDER BY f.fenc_fecha DESC, f.fenc_id DESC, d.fdet_linea ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list facturas: %w", err)
	}
	defer rows.Close()

	facturas := []domain.Factura{}
	index := map[int64]int{}

	for rows.Next() {
		var f domain.Factura
		var (
			detID        sql.NullInt64
			detLinea     sql.NullInt32
			detCantidad  sql.NullString
			detProductoID sql.NullInt64
			detUnitPrice sql.NullString
			detLineTotal sql.NullString
		)

		if err := rows.Scan(
			&f.ID, &f.Numero, &f.Fecha, &f.PersonaID,
			&detID, &detLinea, &detCantidad, &detProductoID, &detUnitPrice, &detLineTotal,
		); err != nil {
			return nil, fmt.Errorf("failed to scan factura: %w", err)
		}

		pos, seen := index[f.ID]
		if !seen {
			f.Detalles = []domain.FacturaDetalle{}
			facturas = append(facturas, f)
			pos = len(facturas) - 1
			index[f.ID] = pos
		}

		if detID.Valid {
			detalle, err := buildDetalle(f.ID, detID, detLinea, detCantidad, detProductoID, detUnitPrice, detLineTotal)
			if err != nil {
				return nil, err
			}
			facturas[pos].Detalles = append(facturas[pos].Detalles, detalle)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating facturas: %w", err)
	}

	return facturas, nil
}

func (r *facturaRepository) FindByID(ctx context.Context, id int64) (*domain.Factura, error) {
	headerQuery := `
		SELECT fenc_id, fenc_numero, fenc_fecha, zper_id
		FROM fact_encabezado
		WHERE fenc_id = $1
	`

	f := &domain.Factura{}
	err := r.db.QueryRowContext(ctx, headerQuery, id).Scan(&f.ID, &f.Numero, &f.Fecha, &f.PersonaID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFacturaNotFound
		}
		return nil, fmt.Errorf("failed to find factura by ID: %w", err)
	}

	detalles, err := r.findDetalles(ctx, id)
	if err != nil {
		return nil, err
	}
	f.Detalles = detalles

	return f, nil
}

func (r *facturaRepository) findDetalles(ctx context.Context, facturaID int64) ([]domain.FacturaDetalle, error) {
	query := `
		SELECT fdet_id, fdet_linea, fdet_cantidad, zprod_id, unit_price, line_total
		FROM fact_detalle
		WHERE zfenc_id = $1
		ORDER BY fdet_linea ASC
	`

	rows, err := r.db.QueryContext(ctx, query, facturaID)
	if err != nil {
		return nil, fmt.Errorf("failed to query factura detalles: %w", err)
	}
	defer rows.Close()

	detalles := []domain.FacturaDetalle{}
	for rows.Next() {
		d := domain.FacturaDetalle{FacturaID: facturaID}
		if err := rows.Scan(&d.ID, &d.Linea, &d.Cantidad, &d.ProductoID, &d.UnitPrice, &d.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan factura detalle: %w", err)
		}
		detalles = append(detalles, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating factura detalles: %w", err)
	}

	return detalles, nil
}

func (r *facturaRepository) ExistsByNumero(ctx context.Context, numero string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM fact_encabezado WHERE fenc_numero = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, numero).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check numero existence: %w", err)
	}

	return exists, nil
}

// CreateWithDetalles persists the header and all lines in one transaction.
// line_total is computed by the database; the RETURNING clause reads it back
// so the caller sees server-assigned ids and computed totals. Any failure
// before commit rolls back the whole invoice.
func (r *facturaRepository) CreateWithDetalles(ctx context.Context, factura *domain.Factura) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	headerQuery := `
		INSERT INTO fact_encabezado (fenc_numero, fenc_fecha, zper_id)
		VALUES ($1, $2, $3)
		RETURNING fenc_id
	`

	err = tx.QueryRowContext(ctx, headerQuery, factura.Numero, factura.Fecha, factura.PersonaID).Scan(&factura.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrNumeroExists
		}
		return fmt.Errorf("failed to insert fact_encabezado: %w", err)
	}

	detalleQuery := `
		INSERT INTO fact_detalle (fdet_linea, fdet_cantidad, zprod_id, zfenc_id, unit_price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING fdet_id, line_total
	`

	for i := range factura.Detalles {
		d := &factura.Detalles[i]
		d.FacturaID = factura.ID

		err = tx.QueryRowContext(
			ctx,
			detalleQuery,
			d.Linea,
			d.Cantidad,
			d.ProductoID,
			d.FacturaID,
			d.UnitPrice,
		).Scan(&d.ID, &d.LineTotal)

		if err != nil {
			return fmt.Errorf("failed to insert fact_detalle linea %d: %w", d.Linea, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit factura transaction: %w", err)
	}

	return nil
}

// Delete removes a factura; the ON DELETE CASCADE constraint removes its
// detalles with it.
func (r *facturaRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM fact_encabezado WHERE fenc_id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete factura: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrFacturaNotFound
	}

	return nil
}

func buildDetalle(
	facturaID int64,
	id sql.NullInt64,
	linea sql.NullInt32,
	cantidad sql.NullString,
	productoID sql.NullInt64,
	unitPrice sql.NullString,
	lineTotal sql.NullString,
) (domain.FacturaDetalle, error) {
	d := domain.FacturaDetalle{
		ID:         id.Int64,
		Linea:      int(linea.Int32),
		ProductoID: productoID.Int64,
		FacturaID:  facturaID,
	}

	var err error
	if d.Cantidad, err = parseDecimal(cantidad.String); err != nil {
		return d, fmt.Errorf("failed to parse fdet_cantidad: %w", err)
	}
	if d.UnitPrice, err = parseDecimal(unitPrice.String); err != nil {
		return d, fmt.Errorf("failed to parse unit_price: %w", err)
	}
	if d.LineTotal, err = parseDecimal(lineTotal.String); err != nil {
		return d, fmt.Errorf("failed to parse line_total: %w", err)
	}

	return d, nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
