package basket

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/jhoicas/wic-assist-api/internal/domain/benefit"
	"github.com/jhoicas/wic-assist-api/internal/domain/repository"
	"github.com/jhoicas/wic-assist-api/pkg/logger"
)

// session estado en memoria de un usuario autenticado: su ledger y el guard
// de re-entrada para la verificación de elegibilidad. Modelo de un solo
// escritor: mu serializa toda mutación del ledger de ese usuario.
type session struct {
	userID    string
	mu        sync.Mutex
	ledger    *benefit.Ledger
	checkBusy atomic.Bool // rechaza una segunda verificación mientras hay una en curso
}

// sessionRegistry registro de sesiones por usuario. Carga perezosa desde el
// document store en el primer uso; Evict limpia todo el estado en memoria
// cuando la identidad desaparece (logout / cambio de usuario).
type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*session
	repo     repository.LedgerRepository
	log      *logger.Logger
}

func newSessionRegistry(repo repository.LedgerRepository, log *logger.Logger) *sessionRegistry {
	return &sessionRegistry{
		sessions: make(map[string]*session),
		repo:     repo,
		log:      log.Component("sessions"),
	}
}

// get devuelve la sesión del usuario, cargando el documento persistido la
// primera vez. Un documento ausente arranca con ledger vacío; un documento
// inválido se rechaza en la frontera en vez de propagarse al dominio.
func (r *sessionRegistry) get(ctx context.Context, userID string) (*session, error) {
	r.mu.Lock()
	if s, ok := r.sessions[userID]; ok {
		r.mu.Unlock()
		return s, nil
	}
	r.mu.Unlock()

	// Cargar fuera del lock del registro: el load puede ir a red.
	doc, err := r.repo.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("cargar ledger de %s: %w", userID, err)
	}
	if doc != nil {
		if err := doc.Validate(); err != nil {
			return nil, fmt.Errorf("documento de ledger inválido para %s: %w", userID, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Otro request pudo habernos ganado la carga.
	if s, ok := r.sessions[userID]; ok {
		return s, nil
	}
	s := &session{userID: userID, ledger: benefit.NewLedger()}
	if doc != nil {
		s.ledger.Restore(doc)
	}
	r.sessions[userID] = s
	r.log.Debug().Str("user_id", userID).Bool("loaded", doc != nil).Msg("sesión iniciada")
	return s, nil
}

// evict elimina la sesión y con ella todo el estado en memoria del usuario.
func (r *sessionRegistry) evict(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[userID]; ok {
		delete(r.sessions, userID)
		r.log.Debug().Str("user_id", userID).Msg("sesión descartada")
	}
}
