package basket

import (
	"context"
	"time"

	"github.com/jhoicas/wic-assist-api/internal/domain/entity"
	"github.com/jhoicas/wic-assist-api/internal/domain/repository"
	"github.com/jhoicas/wic-assist-api/pkg/logger"
)

// writeJob un snapshot pendiente de persistir.
type writeJob struct {
	userID string
	doc    *entity.LedgerDocument
}

// Writer cola de escritura write-behind hacia el document store. La mutación
// en memoria es la autoritativa para la sesión: un fallo de persistencia se
// loguea y reintenta, nunca bloquea al caller ni revierte el estado.
type Writer struct {
	repo    repository.LedgerRepository
	log     *logger.Logger
	jobs    chan writeJob
	done    chan struct{}
	retries int
	backoff time.Duration
}

// NewWriter construye la cola con un buffer acotado.
func NewWriter(repo repository.LedgerRepository, log *logger.Logger) *Writer {
	return &Writer{
		repo:    repo,
		log:     log.Component("ledger-writer"),
		jobs:    make(chan writeJob, 256),
		done:    make(chan struct{}),
		retries: 3,
		backoff: 200 * time.Millisecond,
	}
}

// Start arranca el worker de persistencia.
func (w *Writer) Start() {
	go w.loop()
}

// Stop cierra la cola y espera a que el worker drene los trabajos pendientes.
func (w *Writer) Stop() {
	close(w.jobs)
	<-w.done
}

// Enqueue encola un snapshot preservando el orden FIFO. Si la cola está
// llena el caller se bloquea hasta que el worker libere espacio: persistir
// el snapshot nuevo fuera de orden dejaría como última escritura durable un
// snapshot viejo de los que quedaban encolados.
func (w *Writer) Enqueue(userID string, doc *entity.LedgerDocument) {
	job := writeJob{userID: userID, doc: doc}
	select {
	case w.jobs <- job:
	default:
		w.log.Warn().Str("user_id", userID).Msg("cola de escritura llena, esperando espacio")
		w.jobs <- job
	}
}

func (w *Writer) loop() {
	defer close(w.done)
	for job := range w.jobs {
		w.persist(job)
	}
}

// persist intenta la escritura con reintentos y backoff exponencial.
// Tras agotar los reintentos solo se loguea: el estado en memoria sigue
// siendo la fuente de verdad de la sesión (last-write-wins en el store).
func (w *Writer) persist(job writeJob) {
	delay := w.backoff
	var err error
	for attempt := 0; attempt <= w.retries; attempt++ {
		if attempt > 0 {
			time.Sleep(delay)
			delay *= 2
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = w.repo.Save(ctx, job.userID, job.doc)
		cancel()
		if err == nil {
			return
		}
		w.log.Warn().Err(err).Str("user_id", job.userID).Int("attempt", attempt+1).
			Msg("fallo al persistir ledger")
	}
	w.log.Error().Err(err).Str("user_id", job.userID).
		Msg("ledger no persistido tras agotar reintentos")
}
