package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"facturacion-api/internal/domain"
	"facturacion-api/internal/repository"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock repositories for testing

type mockPersonaRepository struct {
	personas map[int64]*domain.Persona
	nextID   int64
}

func newMockPersonaRepository() *mockPersonaRepository {
	return &mockPersonaRepository{personas: make(map[int64]*domain.Persona)}
}

func (m *mockPersonaRepository) List(ctx context.Context) ([]domain.Persona, error) {
	personas := []domain.Persona{}
	for _, p := range m.personas {
		personas = append(personas, *p)
	}
	return personas, nil
}

func (m *mockPersonaRepository) FindByID(ctx context.Context, id int64) (*domain.Persona, error) {
	p, exists := m.personas[id]
	if !exists {
		return nil, repository.ErrPersonaNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockPersonaRepository) ExistsByDocumento(ctx context.Context, documento string) (bool, error) {
	for _, p := range m.personas {
		if p.Documento == documento {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockPersonaRepository) Create(ctx context.Context, persona *domain.Persona) error {
	for _, p := range m.personas {
		if p.Documento == persona.Documento {
			return repository.ErrDocumentoExists
		}
	}
	m.nextID++
	persona.ID = m.nextID
	copied := *persona
	m.personas[persona.ID] = &copied
	return nil
}

func (m *mockPersonaRepository) Update(ctx context.Context, persona *domain.Persona) error {
	if _, exists := m.personas[persona.ID]; !exists {
		return repository.ErrPersonaNotFound
	}
	for _, p := range m.personas {
		if p.ID != persona.ID && p.Documento == persona.Documento {
			return repository.ErrDocumentoExists
		}
	}
	copied := *persona
	m.personas[persona.ID] = &copied
	return nil
}

func (m *mockPersonaRepository) Delete(ctx context.Context, id int64) error {
	if _, exists := m.personas[id]; !exists {
		return repository.ErrPersonaNotFound
	}
	delete(m.personas, id)
	return nil
}

type mockProductoRepository struct {
	productos map[int64]*domain.Producto
	nextID    int64
}

func newMockProductoRepository() *mockProductoRepository {
	return &mockProductoRepository{productos: make(map[int64]*domain.Producto)}
}

func (m *mockProductoRepository) List(ctx context.Context) ([]domain.Producto, error) {
	productos := []domain.Producto{}
	for _, p := range m.productos {
		productos = append(productos, *p)
	}
	return productos, nil
}

func (m *mockProductoRepository) FindByID(ctx context.Context, id int64) (*domain.Producto, error) {
	p, exists := m.productos[id]
	if !exists {
		return nil, repository.ErrProductoNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockProductoRepository) FindByIDs(ctx context.Context, ids []int64) ([]domain.Producto, error) {
	productos := []domain.Producto{}
	for _, id := range ids {
		if p, exists := m.productos[id]; exists {
			productos = append(productos, *p)
		}
	}
	return productos, nil
}

func (m *mockProductoRepository) Create(ctx context.Context, producto *domain.Producto) error {
	m.nextID++
	producto.ID = m.nextID
	copied := *producto
	m.productos[producto.ID] = &copied
	return nil
}

func (m *mockProductoRepository) UpdatePrecios(ctx context.Context, id int64, precio, costo decimal.Decimal) error {
	p, exists := m.productos[id]
	if !exists {
		return repository.ErrProductoNotFound
	}
	p.Precio = precio
	p.Costo = costo
	return nil
}

func (m *mockProductoRepository) Delete(ctx context.Context, id int64) error {
	if _, exists := m.productos[id]; !exists {
		return repository.ErrProductoNotFound
	}
	delete(m.productos, id)
	return nil
}

type mockFacturaRepository struct {
	facturas      map[int64]*domain.Factura
	nextID        int64
	nextDetalleID int64
}

func newMockFacturaRepository() *mockFacturaRepository {
	return &mockFacturaRepository{facturas: make(map[int64]*domain.Factura)}
}

func (m *mockFacturaRepository) List(ctx context.Context) ([]domain.Factura, error) {
	facturas := []domain.Factura{}
	for _, f := range m.facturas {
		facturas = append(facturas, *f)
	}
	return facturas, nil
}

func (m *mockFacturaRepository) FindByID(ctx context.Context, id int64) (*domain.Factura, error) {
	f, exists := m.facturas[id]
	if !exists {
		return nil, repository.ErrFacturaNotFound
	}
	copied := *f
	return &copied, nil
}

func (m *mockFacturaRepository) ExistsByNumero(ctx context.Context, numero string) (bool, error) {
	for _, f := range m.facturas {
		if f.Numero == numero {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockFacturaRepository) CreateWithDetalles(ctx context.Context, factura *domain.Factura) error {
	for _, f := range m.facturas {
		if f.Numero == factura.Numero {
			return repository.ErrNumeroExists
		}
	}
	m.nextID++
	factura.ID = m.nextID
	for i := range factura.Detalles {
		d := &factura.Detalles[i]
		m.nextDetalleID++
		d.ID = m.nextDetalleID
		d.FacturaID = factura.ID
		d.LineTotal = d.Cantidad.Mul(d.UnitPrice)
	}
	copied := *factura
	m.facturas[factura.ID] = &copied
	return nil
}

func (m *mockFacturaRepository) Delete(ctx context.Context, id int64) error {
	if _, exists := m.facturas[id]; !exists {
		return repository.ErrFacturaNotFound
	}
	delete(m.facturas, id)
	return nil
}

func newFacturaServiceForTest() (*facturaService, *mockFacturaRepository, *mockPersonaRepository, *mockProductoRepository) {
	facturaRepo := newMockFacturaRepository()
	personaRepo := newMockPersonaRepository()
	productoRepo := newMockProductoRepository()

	svc := NewFacturaService(facturaRepo, personaRepo, productoRepo).(*facturaService)
	return svc, facturaRepo, personaRepo, productoRepo
}

func seedPersona(t *testing.T, repo *mockPersonaRepository) *domain.Persona {
	t.Helper()
	persona := &domain.Persona{
		Nombre:        "Maria",
		Apellido:      "Gomez",
		TipoDocumento: "CC",
		Documento:     "1002003000",
	}
	require.NoError(t, repo.Create(context.Background(), persona))
	return persona
}

func seedProducto(t *testing.T, repo *mockProductoRepository, precio string) *domain.Producto {
	t.Helper()
	producto := &domain.Producto{
		Descripcion:  "Tornillo 3/4",
		UnidadMedida: "UND",
		Precio:       decimal.RequireFromString(precio),
		Costo:        decimal.RequireFromString(precio).Div(decimal.NewFromInt(2)),
	}
	require.NoError(t, repo.Create(context.Background(), producto))
	return producto
}

func validInput(persona *domain.Persona, producto *domain.Producto) CreateFacturaInput {
	return CreateFacturaInput{
		Numero:    "FAC-001",
		Fecha:     time.Now().Add(-time.Hour),
		PersonaID: persona.ID,
		Detalles: []CreateFacturaDetalleInput{
			{Linea: 1, Cantidad: decimal.NewFromInt(3), ProductoID: producto.ID, UnitPrice: producto.Precio},
		},
	}
}

func TestCreateFactura_CollectsAllStructuralViolations(t *testing.T) {
	svc, _, _, _ := newFacturaServiceForTest()

	_, err := svc.Create(context.Background(), CreateFacturaInput{
		Numero:    "   ",
		Fecha:     time.Time{},
		PersonaID: 1,
		Detalles:  nil,
	})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.ElementsMatch(t, []string{
		"Numero requerido",
		"Fecha inválida",
		"Debe incluir al menos un detalle",
	}, validationErr.Violations)
}

func TestCreateFactura_RejectsFutureFecha(t *testing.T) {
	svc, _, personaRepo, productoRepo := newFacturaServiceForTest()
	persona := seedPersona(t, personaRepo)
	producto := seedProducto(t, productoRepo, "100")

	input := validInput(persona, producto)
	input.Fecha = time.Now().Add(time.Hour)

	_, err := svc.Create(context.Background(), input)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{"Fecha no puede ser futura"}, validationErr.Violations)
}

func TestCreateFactura_AcceptsFechaWithinClockDrift(t *testing.T) {
	svc, _, personaRepo, productoRepo := newFacturaServiceForTest()
	persona := seedPersona(t, personaRepo)
	producto := seedProducto(t, productoRepo, "100")

	input := validInput(persona, producto)
	input.Fecha = time.Now().Add(2 * time.Minute)

	_, err := svc.Create(context.Background(), input)
	assert.NoError(t, err)
}

func TestCreateFactura_RejectsOverlongNumero(t *testing.T) {
	svc, _, personaRepo, productoRepo := newFacturaServiceForTest()
	persona := seedPersona(t, personaRepo)
	producto := seedProducto(t, productoRepo, "100")

	input := validInput(persona, producto)
	for len(input.Numero) <= maxNumeroLength {
		input.Numero += "X"
	}

	_, err := svc.Create(context.Background(), input)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{"Numero excede longitud 50"}, validationErr.Violations)
}

func TestCreateFactura_ReportsEachDetalleRuleOnce(t *testing.T) {
	svc, _, personaRepo, productoRepo := newFacturaServiceForTest()
	persona := seedPersona(t, personaRepo)
	producto := seedProducto(t, productoRepo, "100")

	input := validInput(persona, producto)
	input.Detalles = []CreateFacturaDetalleInput{
		{Linea: 0, Cantidad: decimal.Zero, ProductoID: producto.ID, UnitPrice: decimal.NewFromInt(-1)},
		{Linea: -2, Cantidad: decimal.NewFromInt(-5), ProductoID: producto.ID, UnitPrice: decimal.NewFromInt(-9)},
	}

	_, err := svc.Create(context.Background(), input)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.ElementsMatch(t, []string{
		"Todas las cantidades deben ser > 0",
		"Precio unitario no puede ser negativo",
		"Linea debe ser > 0",
	}, validationErr.Violations)
}

func TestCreateFactura_StructuralFailureSkipsRelationalChecks(t *testing.T) {
	svc, _, _, _ := newFacturaServiceForTest()

	// PersonaID points nowhere, but the empty numero must fail first and the
	// response must carry only structural violations.
	_, err := svc.Create(context.Background(), CreateFacturaInput{
		Numero:    "",
		Fecha:     time.Now().Add(-time.Hour),
		PersonaID: 999,
		Detalles: []CreateFacturaDetalleInput{
			{Linea: 1, Cantidad: decimal.NewFromInt(1), ProductoID: 999, UnitPrice: decimal.NewFromInt(1)},
		},
	})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{"Numero requerido"}, validationErr.Violations)
}

func TestCreateFactura_DuplicateNumeroIsConflict(t *testing.T) {
	svc, _, personaRepo, productoRepo := newFacturaServiceForTest()
	persona := seedPersona(t, personaRepo)
	producto := seedProducto(t, productoRepo, "100")

	_, err := svc.Create(context.Background(), validInput(persona, producto))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), validInput(persona, producto))
	assert.ErrorIs(t, err, repository.ErrNumeroExists)
}

func TestCreateFactura_TrimsNumeroBeforeUniquenessCheck(t *testing.T) {
	svc, _, personaRepo, productoRepo := newFacturaServiceForTest()
	persona := seedPersona(t, personaRepo)
	producto := seedProducto(t, productoRepo, "100")

	_, err := svc.Create(context.Background(), validInput(persona, producto))
	require.NoError(t, err)

	input := validInput(persona, producto)
	input.Numero = "  FAC-001  "

	_, err = svc.Create(context.Background(), input)
	assert.ErrorIs(t, err, repository.ErrNumeroExists)
}

func TestCreateFactura_UnknownPersona(t *testing.T) {
	svc, _, personaRepo, productoRepo := newFacturaServiceForTest()
	persona := seedPersona(t, personaRepo)
	producto := seedProducto(t, productoRepo, "100")

	input := validInput(persona, producto)
	input.PersonaID = persona.ID + 100

	_, err := svc.Create(context.Background(), input)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{"Persona no existe"}, validationErr.Violations)
}

func TestCreateFactura_DuplicateLineas(t *testing.T) {
	svc, _, personaRepo, productoRepo := newFacturaServiceForTest()
	persona := seedPersona(t, personaRepo)
	producto := seedProducto(t, productoRepo, "100")

	input := validInput(persona, producto)
	input.Detalles = []CreateFacturaDetalleInput{
		{Linea: 1, Cantidad: decimal.NewFromInt(1), ProductoID: producto.ID, UnitPrice: producto.Precio},
		{Linea: 1, Cantidad: decimal.NewFromInt(2), ProductoID: producto.ID, UnitPrice: producto.Precio},
		{Linea: 2, Cantidad: decimal.NewFromInt(3), ProductoID: producto.ID, UnitPrice: producto.Precio},
	}

	_, err := svc.Create(context.Background(), input)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{"Lineas duplicadas en detalle"}, validationErr.Violations)
}

func TestCreateFactura_NonConsecutiveLineas(t *testing.T) {
	svc, _, personaRepo, productoRepo := newFacturaServiceForTest()
	persona := seedPersona(t, personaRepo)
	producto := seedProducto(t, productoRepo, "100")

	input := validInput(persona, producto)
	input.Detalles = []CreateFacturaDetalleInput{
		{Linea: 1, Cantidad: decimal.NewFromInt(1), ProductoID: producto.ID, UnitPrice: producto.Precio},
		{Linea: 3, Cantidad: decimal.NewFromInt(2), ProductoID: producto.ID, UnitPrice: producto.Precio},
	}

	_, err := svc.Create(context.Background(), input)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{"Lineas deben ser consecutivas iniciando en 1"}, validationErr.Violations)
}

func TestCreateFactura_UnorderedLineasAccepted(t *testing.T) {
	svc, _, personaRepo, productoRepo := newFacturaServiceForTest()
	persona := seedPersona(t, personaRepo)
	producto := seedProducto(t, productoRepo, "100")

	// Submission order does not matter as long as the set is 1..n.
	input := validInput(persona, producto)
	input.Detalles = []CreateFacturaDetalleInput{
		{Linea: 3, Cantidad: decimal.NewFromInt(1), ProductoID: producto.ID, UnitPrice: producto.Precio},
		{Linea: 1, Cantidad: decimal.NewFromInt(2), ProductoID: producto.ID, UnitPrice: producto.Precio},
		{Linea: 2, Cantidad: decimal.NewFromInt(3), ProductoID: producto.ID, UnitPrice: producto.Precio},
	}

	_, err := svc.Create(context.Background(), input)
	assert.NoError(t, err)
}

func TestCreateFactura_UnknownProducto(t *testing.T) {
	svc, _, personaRepo, productoRepo := newFacturaServiceForTest()
	persona := seedPersona(t, personaRepo)
	producto := seedProducto(t, productoRepo, "100")

	input := validInput(persona, producto)
	input.Detalles = append(input.Detalles, CreateFacturaDetalleInput{
		Linea: 2, Cantidad: decimal.NewFromInt(1), ProductoID: producto.ID + 100, UnitPrice: decimal.NewFromInt(10),
	})

	_, err := svc.Create(context.Background(), input)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{"Producto inexistente en detalle"}, validationErr.Violations)
}

func TestCreateFactura_UnitPriceMustMatchCatalog(t *testing.T) {
	svc, _, personaRepo, productoRepo := newFacturaServiceForTest()
	persona := seedPersona(t, personaRepo)
	producto := seedProducto(t, productoRepo, "100")

	input := validInput(persona, producto)
	input.Detalles[0].UnitPrice = producto.Precio.Add(decimal.NewFromFloat(0.01))

	_, err := svc.Create(context.Background(), input)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{"UnitPrice de uno o más productos no coincide con precio registrado"}, validationErr.Violations)
}

func TestCreateFactura_EquivalentDecimalRepresentationsMatch(t *testing.T) {
	svc, _, personaRepo, productoRepo := newFacturaServiceForTest()
	persona := seedPersona(t, personaRepo)
	producto := seedProducto(t, productoRepo, "100.50")

	// 100.50 and 100.5 are the same value; scale must not matter.
	input := validInput(persona, producto)
	input.Detalles[0].UnitPrice = decimal.RequireFromString("100.5")

	_, err := svc.Create(context.Background(), input)
	assert.NoError(t, err)
}

func TestCreateFactura_Success(t *testing.T) {
	svc, facturaRepo, personaRepo, productoRepo := newFacturaServiceForTest()
	persona := seedPersona(t, personaRepo)
	producto := seedProducto(t, productoRepo, "100")
	otro := seedProducto(t, productoRepo, "25.50")

	input := CreateFacturaInput{
		Numero:    "  FAC-042  ",
		Fecha:     time.Now().Add(-24 * time.Hour),
		PersonaID: persona.ID,
		Detalles: []CreateFacturaDetalleInput{
			{Linea: 1, Cantidad: decimal.NewFromInt(3), ProductoID: producto.ID, UnitPrice: producto.Precio},
			{Linea: 2, Cantidad: decimal.RequireFromString("1.5"), ProductoID: otro.ID, UnitPrice: otro.Precio},
		},
	}

	factura, err := svc.Create(context.Background(), input)
	require.NoError(t, err)

	assert.NotZero(t, factura.ID)
	assert.Equal(t, "FAC-042", factura.Numero)
	require.Len(t, factura.Detalles, 2)
	assert.True(t, factura.Detalles[0].LineTotal.Equal(decimal.NewFromInt(300)))
	assert.True(t, factura.Detalles[1].LineTotal.Equal(decimal.RequireFromString("38.25")))

	stored, err := facturaRepo.FindByID(context.Background(), factura.ID)
	require.NoError(t, err)
	assert.Equal(t, factura.Numero, stored.Numero)
	assert.Len(t, stored.Detalles, 2)
}

func TestDeleteFactura_NotFound(t *testing.T) {
	svc, _, _, _ := newFacturaServiceForTest()

	err := svc.Delete(context.Background(), 42)
	assert.True(t, errors.Is(err, repository.ErrFacturaNotFound))
}

func TestProperty_LineTotalsAreCantidadTimesUnitPrice(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("every persisted line total equals cantidad * unitPrice", prop.ForAll(
		func(cantidades []int64) bool {
			svc, _, personaRepo, productoRepo := newFacturaServiceForTest()
			persona := seedPersona(t, personaRepo)

			input := CreateFacturaInput{
				Numero:    "FAC-PROP",
				Fecha:     time.Now().Add(-time.Hour),
				PersonaID: persona.ID,
			}
			for i, c := range cantidades {
				producto := seedProducto(t, productoRepo, decimal.NewFromInt(int64(i+1)).Mul(decimal.RequireFromString("7.25")).String())
				input.Detalles = append(input.Detalles, CreateFacturaDetalleInput{
					Linea:      i + 1,
					Cantidad:   decimal.NewFromInt(c),
					ProductoID: producto.ID,
					UnitPrice:  producto.Precio,
				})
			}

			factura, err := svc.Create(context.Background(), input)
			if err != nil {
				t.Logf("FAIL: Create returned error: %v", err)
				return false
			}

			for _, d := range factura.Detalles {
				if !d.LineTotal.Equal(d.Cantidad.Mul(d.UnitPrice)) {
					t.Logf("FAIL: linea %d total %s != %s * %s", d.Linea, d.LineTotal, d.Cantidad, d.UnitPrice)
					return false
				}
			}
			return true
		},
		gen.SliceOfN(4, gen.Int64Range(1, 1000)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
