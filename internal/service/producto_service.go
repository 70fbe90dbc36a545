package service

import (
	"context"

	"facturacion-api/internal/domain"
	"facturacion-api/internal/repository"

	"github.com/shopspring/decimal"
)

// CreateProductoInput carries caller-supplied producto fields. Precio and
// Costo are accepted as-is: zero and negative values are intentional current
// behavior, not rejected.
type CreateProductoInput struct {
	Descripcion  string
	UnidadMedida string
	Precio       decimal.Decimal
	Costo        decimal.Decimal
}

// ProductoService implements the productos catalog operations.
type ProductoService interface {
	List(ctx context.Context) ([]domain.Producto, error)
	Get(ctx context.Context, id int64) (*domain.Producto, error)
	Create(ctx context.Context, input CreateProductoInput) (*domain.Producto, error)
	UpdatePrecios(ctx context.Context, id int64, precio, costo decimal.Decimal) error
	Delete(ctx context.Context, id int64) error
}

type productoService struct {
	productoRepo repository.ProductoRepository
}

// NewProductoService creates a new instance of ProductoService
func NewProductoService(productoRepo repository.ProductoRepository) ProductoService {
	return &productoService{productoRepo: productoRepo}
}

func (s *productoService) List(ctx context.Context) ([]domain.Producto, error) {
	return s.productoRepo.List(ctx)
}

func (s *productoService) Get(ctx context.Context, id int64) (*domain.Producto, error) {
	return s.productoRepo.FindByID(ctx, id)
}

func (s *productoService) Create(ctx context.Context, input CreateProductoInput) (*domain.Producto, error) {
	producto := &domain.Producto{
		Descripcion:  input.Descripcion,
		UnidadMedida: input.UnidadMedida,
		Precio:       input.Precio,
		Costo:        input.Costo,
	}

	if err := s.productoRepo.Create(ctx, producto); err != nil {
		return nil, err
	}

	return producto, nil
}

func (s *productoService) UpdatePrecios(ctx context.Context, id int64, precio, costo decimal.Decimal) error {
	return s.productoRepo.UpdatePrecios(ctx, id, precio, costo)
}

func (s *productoService) Delete(ctx context.Context, id int64) error {
	return s.productoRepo.Delete(ctx, id)
}
