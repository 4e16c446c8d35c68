package basket_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wic-assist-api/internal/application/basket"
	"github.com/jhoicas/wic-assist-api/internal/domain"
	"github.com/jhoicas/wic-assist-api/internal/domain/benefit"
	"github.com/jhoicas/wic-assist-api/internal/domain/entity"
	"github.com/jhoicas/wic-assist-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes de repositorios
// ──────────────────────────────────────────────────────────────────────────────

type fakeLedgerRepo struct {
	mu    sync.Mutex
	docs  map[string]*entity.LedgerDocument
	fails int // número de Save que fallan antes de empezar a funcionar
	saves int
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{docs: make(map[string]*entity.LedgerDocument)}
}

func (f *fakeLedgerRepo) Load(_ context.Context, userID string) (*entity.LedgerDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.docs[userID], nil
}

func (f *fakeLedgerRepo) Save(_ context.Context, userID string, doc *entity.LedgerDocument) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fails > 0 {
		f.fails--
		return errors.New("store no disponible")
	}
	f.docs[userID] = doc
	f.saves++
	return nil
}

func (f *fakeLedgerRepo) saved(userID string) *entity.LedgerDocument {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.docs[userID]
}

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func (f *fakeProductRepo) GetByUPC(_ context.Context, upc string) (*entity.Product, error) {
	return f.products[upc], nil
}

func (f *fakeProductRepo) ListByCategory(_ context.Context, category string, eligibleOnly bool, limit int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range f.products {
		if benefit.Canon(p.Category) == category && (!eligibleOnly || p.Eligible) {
			out = append(out, p)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeProductRepo) Upsert(_ context.Context, p *entity.Product) error {
	f.products[p.UPC] = p
	return nil
}

func (f *fakeProductRepo) Count(_ context.Context) (int, error) { return len(f.products), nil }

// blockingProductRepo detiene GetByUPC hasta que se libere, para poder
// observar una verificación en curso desde otra goroutine.
type blockingProductRepo struct {
	*fakeProductRepo
	entered chan struct{}
	release chan struct{}
}

func (b *blockingProductRepo) GetByUPC(ctx context.Context, upc string) (*entity.Product, error) {
	b.entered <- struct{}{}
	<-b.release
	return b.fakeProductRepo.GetByUPC(ctx, upc)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const testUser = "user-1"

func testCatalog() *fakeProductRepo {
	return &fakeProductRepo{products: map[string]*entity.Product{
		"100": {UPC: "100", Name: "Leche entera", Category: "Milk", Eligible: true},
		"200": {UPC: "200", Name: "Jugo de uva", Category: "Juice", Eligible: true},
		"300": {UPC: "300", Name: "Gaseosa", Category: "Soda", Eligible: false},
	}}
}

// buildUseCase arma el caso de uso con fakes y la cola de escritura arrancada.
// flush detiene la cola drenando lo pendiente; llamarlo antes de inspeccionar
// el repo persistido.
func buildUseCase(t *testing.T, ledgerRepo *fakeLedgerRepo, products *fakeProductRepo) (uc *basket.UseCase, flush func()) {
	t.Helper()
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	writer := basket.NewWriter(ledgerRepo, log)
	writer.Start()
	return basket.NewUseCase(ledgerRepo, products, writer, log), writer.Stop
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestScanUPC_NoEncontradoYNoElegible(t *testing.T) {
	uc, flush := buildUseCase(t, newFakeLedgerRepo(), testCatalog())
	defer flush()
	ctx := context.Background()

	out, err := uc.ScanUPC(ctx, testUser, "999")
	require.NoError(t, err)
	assert.False(t, out.Found, "UPC fuera de la APL: found=false, sin mutación")

	out, err = uc.ScanUPC(ctx, testUser, "300")
	require.NoError(t, err)
	assert.True(t, out.Found)
	assert.False(t, out.Eligible)
	assert.False(t, out.CanAdd)
}

func TestScanUPC_ElegibleConSaldo(t *testing.T) {
	uc, flush := buildUseCase(t, newFakeLedgerRepo(), testCatalog())
	defer flush()

	out, err := uc.ScanUPC(context.Background(), testUser, "100")
	require.NoError(t, err)
	assert.True(t, out.Found)
	assert.True(t, out.Eligible)
	assert.True(t, out.CanAdd)
	require.NotNil(t, out.Product)
	assert.Equal(t, "MILK", out.Product.Category)
}

func TestScanUPC_VerificacionConcurrente_Rechazada(t *testing.T) {
	products := &blockingProductRepo{
		fakeProductRepo: testCatalog(),
		entered:         make(chan struct{}),
		release:         make(chan struct{}),
	}
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	writer := basket.NewWriter(newFakeLedgerRepo(), log)
	writer.Start()
	defer writer.Stop()
	uc := basket.NewUseCase(newFakeLedgerRepo(), products, writer, log)
	ctx := context.Background()

	firstDone := make(chan error, 1)
	go func() {
		_, err := uc.ScanUPC(ctx, testUser, "100")
		firstDone <- err
	}()
	<-products.entered // la primera verificación quedó a medio camino

	_, err := uc.ScanUPC(ctx, testUser, "200")
	assert.ErrorIs(t, err, domain.ErrCheckInProgress,
		"una segunda verificación concurrente de la misma sesión se rechaza")

	close(products.release)
	require.NoError(t, <-firstDone, "la verificación original termina sin error")
}

func TestAddItem_RechazosYAlta(t *testing.T) {
	uc, flush := buildUseCase(t, newFakeLedgerRepo(), testCatalog())
	defer flush()
	ctx := context.Background()

	_, err := uc.AddItem(ctx, testUser, "999")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.AddItem(ctx, testUser, "300")
	assert.ErrorIs(t, err, domain.ErrNotEligible)

	out, err := uc.AddItem(ctx, testUser, "100")
	require.NoError(t, err)
	assert.True(t, out.Added)
	require.Len(t, out.State.Basket, 1)
	assert.Equal(t, "MILK", out.State.Basket[0].Category)
}

func TestAddItem_CategoriaAlTope_AddedFalseConRazon(t *testing.T) {
	// JUICE tiene cupo 1: el primer jugo entra, otro UPC de jugo se rechaza.
	products := testCatalog()
	products.products["201"] = &entity.Product{UPC: "201", Name: "Jugo de manzana", Category: "Juice", Eligible: true}
	uc, flush := buildUseCase(t, newFakeLedgerRepo(), products)
	defer flush()
	ctx := context.Background()

	first, err := uc.AddItem(ctx, testUser, "200")
	require.NoError(t, err)
	require.True(t, first.Added)

	second, err := uc.AddItem(ctx, testUser, "201")
	require.NoError(t, err)
	assert.False(t, second.Added)
	assert.NotEmpty(t, second.Reason)
	assert.Len(t, second.State.Basket, 1, "rechazo por saldo: sin mutación")
}

func TestIncrement_DesbordaAPaidYCheckoutCuentaUnidadesPagadas(t *testing.T) {
	uc, flush := buildUseCase(t, newFakeLedgerRepo(), testCatalog())
	defer flush()
	ctx := context.Background()

	_, err := uc.AddItem(ctx, testUser, "200") // JUICE cupo 1
	require.NoError(t, err)
	state, err := uc.IncrementItem(ctx, testUser, "200", "Juice")
	require.NoError(t, err)
	require.Len(t, state.Basket, 2, "la segunda unidad desborda a PAID")

	out, err := uc.Checkout(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Lines)
	assert.Equal(t, 1, out.PaidUnits)
	assert.Empty(t, out.State.Basket)
	for _, b := range out.State.Balances {
		assert.Zero(t, b.Used, "checkout reinicia los saldos (%s)", b.Category)
	}
}

func TestClearBasket_RevierteSaldos(t *testing.T) {
	uc, flush := buildUseCase(t, newFakeLedgerRepo(), testCatalog())
	defer flush()
	ctx := context.Background()

	_, err := uc.AddItem(ctx, testUser, "100")
	require.NoError(t, err)
	state, err := uc.ClearBasket(ctx, testUser)
	require.NoError(t, err)
	assert.Empty(t, state.Basket)
	for _, b := range state.Balances {
		assert.Zero(t, b.Used)
	}
}

func TestPersistencia_EscrituraWriteBehindLlegaAlStore(t *testing.T) {
	repo := newFakeLedgerRepo()
	uc, flush := buildUseCase(t, repo, testCatalog())
	ctx := context.Background()

	_, err := uc.AddItem(ctx, testUser, "100")
	require.NoError(t, err)
	flush() // drena la cola

	doc := repo.saved(testUser)
	require.NotNil(t, doc, "la mutación debe haberse persistido")
	require.Len(t, doc.Basket, 1)
	assert.Equal(t, "100", doc.Basket[0].UPC)
	assert.Equal(t, 1, doc.Balances["MILK"].Used)
}

func TestPersistencia_FalloNoRevierteEstadoEnMemoria(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.fails = 100 // todos los Save fallan
	uc, flush := buildUseCase(t, repo, testCatalog())
	ctx := context.Background()

	out, err := uc.AddItem(ctx, testUser, "100")
	require.NoError(t, err, "el fallo de persistencia nunca llega al caller")
	assert.True(t, out.Added)

	state, err := uc.State(ctx, testUser)
	require.NoError(t, err)
	assert.Len(t, state.Basket, 1, "el estado en memoria es autoritativo")
	flush()
}

func TestLogout_DescartaSesionYRecargaDelStore(t *testing.T) {
	repo := newFakeLedgerRepo()
	uc, flush := buildUseCase(t, repo, testCatalog())
	ctx := context.Background()

	_, err := uc.AddItem(ctx, testUser, "100")
	require.NoError(t, err)
	flush() // asegura el documento en el store

	uc.Logout(testUser)

	// Nueva sesión: el estado se recarga del documento persistido.
	state, err := uc.State(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, state.Basket, 1)
	assert.Equal(t, "Leche entera", state.Basket[0].Name)
}

func TestObserver_NotificadoTrasMutacion(t *testing.T) {
	uc, flush := buildUseCase(t, newFakeLedgerRepo(), testCatalog())
	defer flush()

	var notified []string
	uc.Subscribe(func(userID string) { notified = append(notified, userID) })

	_, err := uc.AddItem(context.Background(), testUser, "100")
	require.NoError(t, err)
	require.Len(t, notified, 1)
	assert.Equal(t, testUser, notified[0])
}
