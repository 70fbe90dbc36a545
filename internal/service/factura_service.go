package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"facturacion-api/internal/domain"
	"facturacion-api/internal/repository"

	"github.com/shopspring/decimal"
)

// fechaFutureTolerance allows slightly future-dated facturas to absorb clock
// drift between caller and server.
const fechaFutureTolerance = 5 * time.Minute

// maxNumeroLength bounds the trimmed factura numero.
const maxNumeroLength = 50

// ValidationError reports one or more violated business rules. Structural
// (phase one) validation collects every violation; relational (phase two)
// validation stops at the first.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, "; ")
}

func newValidationError(violations ...string) *ValidationError {
	return &ValidationError{Violations: violations}
}

// CreateFacturaInput is the caller-supplied invoice. LineTotal is never part
// of the input; storage computes it.
type CreateFacturaInput struct {
	Numero    string
	Fecha     time.Time
	PersonaID int64
	Detalles  []CreateFacturaDetalleInput
}

type CreateFacturaDetalleInput struct {
	Linea      int
	Cantidad   decimal.Decimal
	ProductoID int64
	UnitPrice  decimal.Decimal
}

// FacturaService validates and persists invoices.
type FacturaService interface {
	List(ctx context.Context) ([]domain.Factura, error)
	Get(ctx context.Context, id int64) (*domain.Factura, error)
	Create(ctx context.Context, input CreateFacturaInput) (*domain.Factura, error)
	Delete(ctx context.Context, id int64) error
}

type facturaService struct {
	facturaRepo  repository.FacturaRepository
	personaRepo  repository.PersonaRepository
	productoRepo repository.ProductoRepository
	now          func() time.Time
}

// NewFacturaService creates a new instance of FacturaService
func NewFacturaService(
	facturaRepo repository.FacturaRepository,
	personaRepo repository.PersonaRepository,
	productoRepo repository.ProductoRepository,
) FacturaService {
	return &facturaService{
		facturaRepo:  facturaRepo,
		personaRepo:  personaRepo,
		productoRepo: productoRepo,
		now:          time.Now,
	}
}

func (s *facturaService) List(ctx context.Context) ([]domain.Factura, error) {
	return s.facturaRepo.List(ctx)
}

func (s *facturaService) Get(ctx context.Context, id int64) (*domain.Factura, error) {
	return s.facturaRepo.FindByID(ctx, id)
}

// Create runs two ordered validation phases before touching storage. Phase
// one collects every structural violation and reports them together; any
// failure there short-circuits phase two. Phase two checks relational rules
// in a fixed order and stops at the first failure. Only when both phases pass
// is the header persisted with all detalles in a single transaction.
func (s *facturaService) Create(ctx context.Context, input CreateFacturaInput) (*domain.Factura, error) {
	if err := s.validateStructural(input); err != nil {
		return nil, err
	}

	numero := strings.TrimSpace(input.Numero)

	if err := s.validateRelational(ctx, numero, input); err != nil {
		return nil, err
	}

	factura := &domain.Factura{
		Numero:    numero,
		Fecha:     input.Fecha,
		PersonaID: input.PersonaID,
	}
	for _, d := range input.Detalles {
		factura.Detalles = append(factura.Detalles, domain.FacturaDetalle{
			Linea:      d.Linea,
			Cantidad:   d.Cantidad,
			ProductoID: d.ProductoID,
			UnitPrice:  d.UnitPrice,
		})
	}

	// A concurrent create racing past ExistsByNumero still fails on the
	// unique index and surfaces as the same conflict.
	if err := s.facturaRepo.CreateWithDetalles(ctx, factura); err != nil {
		return nil, err
	}

	return factura, nil
}

func (s *facturaService) Delete(ctx context.Context, id int64) error {
	return s.facturaRepo.Delete(ctx, id)
}

func (s *facturaService) validateStructural(input CreateFacturaInput) error {
	var violations []string

	if strings.TrimSpace(input.Numero) == "" {
		violations = append(violations, "Numero requerido")
	}
	if trimmed := strings.TrimSpace(input.Numero); trimmed != "" && len(trimmed) > maxNumeroLength {
		violations = append(violations, "Numero excede longitud 50")
	}
	if input.Fecha.IsZero() {
		violations = append(violations, "Fecha inválida")
	}
	if input.Fecha.After(s.now().Add(fechaFutureTolerance)) {
		violations = append(violations, "Fecha no puede ser futura")
	}
	if len(input.Detalles) == 0 {
		violations = append(violations, "Debe incluir al menos un detalle")
	}

	var badCantidad, badUnitPrice, badLinea bool
	for _, d := range input.Detalles {
		if d.Cantidad.LessThanOrEqual(decimal.Zero) {
			badCantidad = true
		}
		if d.UnitPrice.IsNegative() {
			badUnitPrice = true
		}
		if d.Linea <= 0 {
			badLinea = true
		}
	}
	if badCantidad {
		violations = append(violations, "Todas las cantidades deben ser > 0")
	}
	if badUnitPrice {
		violations = append(violations, "Precio unitario no puede ser negativo")
	}
	if badLinea {
		violations = append(violations, "Linea debe ser > 0")
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

func (s *facturaService) validateRelational(ctx context.Context, numero string, input CreateFacturaInput) error {
	exists, err := s.facturaRepo.ExistsByNumero(ctx, numero)
	if err != nil {
		return fmt.Errorf("failed to check numero: %w", err)
	}
	if exists {
		return repository.ErrNumeroExists
	}

	if _, err := s.personaRepo.FindByID(ctx, input.PersonaID); err != nil {
		if errors.Is(err, repository.ErrPersonaNotFound) {
			return newValidationError("Persona no existe")
		}
		return fmt.Errorf("failed to check persona: %w", err)
	}

	lineas := make([]int, 0, len(input.Detalles))
	seen := make(map[int]struct{}, len(input.Detalles))
	duplicated := false
	for _, d := range input.Detalles {
		if _, ok := seen[d.Linea]; ok {
			duplicated = true
		}
		seen[d.Linea] = struct{}{}
		lineas = append(lineas, d.Linea)
	}
	if duplicated {
		return newValidationError("Lineas duplicadas en detalle")
	}

	// Sorted line numbers must be exactly 1..n, no gaps.
	sort.Ints(lineas)
	for i, linea := range lineas {
		if linea != i+1 {
			return newValidationError("Lineas deben ser consecutivas iniciando en 1")
		}
	}

	productoIDs := distinctProductoIDs(input.Detalles)
	productos, err := s.productoRepo.FindByIDs(ctx, productoIDs)
	if err != nil {
		return fmt.Errorf("failed to check productos: %w", err)
	}
	if len(productos) != len(productoIDs) {
		return newValidationError("Producto inexistente en detalle")
	}

	precios := make(map[int64]decimal.Decimal, len(productos))
	for _, p := range productos {
		precios[p.ID] = p.Precio
	}
	for _, d := range input.Detalles {
		// Exact match against the catalog price; the submitted price is
		// never silently corrected.
		if !precios[d.ProductoID].Equal(d.UnitPrice) {
			return newValidationError("UnitPrice de uno o más productos no coincide con precio registrado")
		}
	}

	return nil
}

func distinctProductoIDs(detalles []CreateFacturaDetalleInput) []int64 {
	seen := make(map[int64]struct{}, len(detalles))
	ids := make([]int64, 0, len(detalles))
	for _, d := range detalles {
		if _, ok := seen[d.ProductoID]; ok {
			continue
		}
		seen[d.ProductoID] = struct{}{}
		ids = append(ids, d.ProductoID)
	}
	return ids
}
