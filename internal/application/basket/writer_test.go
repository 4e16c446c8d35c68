package basket_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wic-assist-api/internal/application/basket"
	"github.com/jhoicas/wic-assist-api/internal/domain/entity"
	"github.com/jhoicas/wic-assist-api/pkg/logger"
)

// gatedLedgerRepo bloquea cada Save hasta que se abra la compuerta, y
// registra el último documento escrito.
type gatedLedgerRepo struct {
	gate  chan struct{}
	mu    sync.Mutex
	last  *entity.LedgerDocument
	saves int
}

func (r *gatedLedgerRepo) Load(_ context.Context, _ string) (*entity.LedgerDocument, error) {
	return nil, nil
}

func (r *gatedLedgerRepo) Save(_ context.Context, _ string, doc *entity.LedgerDocument) error {
	<-r.gate
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = doc
	r.saves++
	return nil
}

// docVersion arma un documento distinguible por su contador de uso.
func docVersion(n int) *entity.LedgerDocument {
	return &entity.LedgerDocument{
		Balances: map[string]*entity.CategoryBalance{
			"MILK": {Category: "MILK", Used: n},
		},
	}
}

// Con la cola llena, Enqueue espera espacio en vez de escribir fuera de
// orden: tras drenar, la última escritura durable debe ser el snapshot más
// reciente, no uno viejo de los que quedaban encolados.
func TestWriter_ColaLlena_PreservaOrdenFIFO(t *testing.T) {
	repo := &gatedLedgerRepo{gate: make(chan struct{})}
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	w := basket.NewWriter(repo, log)
	w.Start()

	// El worker toma el primer job y se bloquea dentro de Save; los
	// siguientes llenan el buffer. Más allá de eso, Enqueue bloquea, así
	// que el resto se encola desde otra goroutine.
	const total = 300 // mayor que el buffer de la cola (256)
	done := make(chan struct{})
	var enqueued atomic.Int64
	go func() {
		defer close(done)
		for i := 1; i <= total; i++ {
			w.Enqueue("user-1", docVersion(i))
			enqueued.Add(1)
		}
	}()

	// Espera a que el productor se atasque con la cola llena (1 en vuelo
	// dentro de Save + 256 en el buffer) antes de abrir la compuerta.
	require.Eventually(t, func() bool { return enqueued.Load() >= 257 },
		2*time.Second, time.Millisecond, "el productor debe llegar a llenar la cola")

	close(repo.gate) // abre la compuerta: el worker drena en orden
	<-done
	w.Stop()

	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.Equal(t, total, repo.saves, "ningún snapshot se descarta")
	require.NotNil(t, repo.last)
	assert.Equal(t, total, repo.last.Balances["MILK"].Used,
		"la última escritura durable debe ser el snapshot más reciente")
}
