package service

import (
	"context"
	"sort"

	"facturacion-api/internal/domain"
	"facturacion-api/internal/repository"
)

// ReporteService serves the five aggregate reports. It is a pass-through over
// the database views except for the two descending sort overrides, applied
// here after the read.
type ReporteService interface {
	PersonasTotal(ctx context.Context) ([]domain.PersonaTotal, error)
	PersonaProductoMasCaro(ctx context.Context) ([]domain.PersonaProductoMasCaro, error)
	ProductosPorCantidadDesc(ctx context.Context) ([]domain.ProductoCantidad, error)
	ProductosPorUtilidadDesc(ctx context.Context) ([]domain.ProductoUtilidad, error)
	ProductosMargen(ctx context.Context) ([]domain.ProductoMargen, error)
}

type reporteService struct {
	reporteRepo repository.ReporteRepository
}

// NewReporteService creates a new instance of ReporteService
func NewReporteService(reporteRepo repository.ReporteRepository) ReporteService {
	return &reporteService{reporteRepo: reporteRepo}
}

func (s *reporteService) PersonasTotal(ctx context.Context) ([]domain.PersonaTotal, error) {
	return s.reporteRepo.PersonasTotal(ctx)
}

func (s *reporteService) PersonaProductoMasCaro(ctx context.Context) ([]domain.PersonaProductoMasCaro, error) {
	return s.reporteRepo.PersonaProductoMasCaro(ctx)
}

func (s *reporteService) ProductosPorCantidadDesc(ctx context.Context) ([]domain.ProductoCantidad, error) {
	rows, err := s.reporteRepo.ProductosPorCantidad(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].CantidadFacturada.GreaterThan(rows[j].CantidadFacturada)
	})

	return rows, nil
}

func (s *reporteService) ProductosPorUtilidadDesc(ctx context.Context) ([]domain.ProductoUtilidad, error) {
	rows, err := s.reporteRepo.ProductosPorUtilidad(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].UtilidadTotal.GreaterThan(rows[j].UtilidadTotal)
	})

	return rows, nil
}

func (s *reporteService) ProductosMargen(ctx context.Context) ([]domain.ProductoMargen, error) {
	return s.reporteRepo.ProductosMargen(ctx)
}
