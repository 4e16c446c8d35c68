// Package basket: caso de uso de canasta y saldos WIC. Mantiene una sesión
// en memoria por usuario autenticado (el Ledger es el dueño exclusivo de
// saldos y canasta), persiste cada mutación vía la cola write-behind y
// notifica observadores tras cada cambio de estado.
package basket

import (
	"context"
	"sort"

	"github.com/jhoicas/wic-assist-api/internal/application/dto"
	"github.com/jhoicas/wic-assist-api/internal/domain"
	"github.com/jhoicas/wic-assist-api/internal/domain/benefit"
	"github.com/jhoicas/wic-assist-api/internal/domain/entity"
	"github.com/jhoicas/wic-assist-api/internal/domain/repository"
	"github.com/jhoicas/wic-assist-api/pkg/logger"
)

// Observer recibe el ID del usuario cuyo estado de canasta/saldos cambió.
type Observer func(userID string)

// UseCase casos de uso de canasta. Las mutaciones corren síncronas en memoria
// y la escritura durable es best-effort (ver Writer): el estado en memoria es
// autoritativo para la sesión.
type UseCase struct {
	sessions  *sessionRegistry
	products  repository.ProductRepository
	writer    *Writer
	observers []Observer
	log       *logger.Logger
}

// NewUseCase construye el caso de uso. Llamar writer.Start() aparte (lo hace main).
func NewUseCase(ledgerRepo repository.LedgerRepository, products repository.ProductRepository, writer *Writer, log *logger.Logger) *UseCase {
	return &UseCase{
		sessions: newSessionRegistry(ledgerRepo, log),
		products: products,
		writer:   writer,
		log:      log.Component("basket"),
	}
}

// Subscribe registra un observador de cambios de estado.
func (uc *UseCase) Subscribe(obs Observer) {
	uc.observers = append(uc.observers, obs)
}

func (uc *UseCase) notify(userID string) {
	for _, obs := range uc.observers {
		obs(userID)
	}
}

// persistAndNotify encola el snapshot y notifica observadores. Se invoca con
// el lock de sesión tomado por el caller; el snapshot ya es una copia.
func (uc *UseCase) persistAndNotify(s *session) {
	uc.writer.Enqueue(s.userID, s.ledger.Snapshot())
	uc.notify(s.userID)
}

// ScanUPC verifica la elegibilidad de un UPC contra la APL y el saldo de su
// categoría. Guard de re-entrada por sesión: una segunda verificación
// concurrente se rechaza con ErrCheckInProgress (es una protección del
// borde de UI, no parte del contrato del ledger).
func (uc *UseCase) ScanUPC(ctx context.Context, userID, upc string) (*dto.ScanResponse, error) {
	s, err := uc.sessions.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !s.checkBusy.CompareAndSwap(false, true) {
		return nil, domain.ErrCheckInProgress
	}
	defer s.checkBusy.Store(false)

	p, err := uc.products.GetByUPC(ctx, upc)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return &dto.ScanResponse{UPC: upc, Found: false}, nil
	}
	canonical := benefit.Canon(p.Category)
	resp := &dto.ScanResponse{
		UPC:      upc,
		Found:    true,
		Eligible: p.Eligible,
		Product:  dto.ToProductResponse(p, canonical),
	}
	if p.Eligible {
		s.mu.Lock()
		resp.CanAdd = s.ledger.CanAdd(canonical)
		s.mu.Unlock()
	}
	return resp, nil
}

// AddItem agrega un UPC a la canasta. Rechaza UPC fuera de la APL
// (ErrNotFound) y productos no elegibles (ErrNotEligible); una categoría sin
// saldo no es error: Added=false con Reason.
func (uc *UseCase) AddItem(ctx context.Context, userID, upc string) (*dto.AddItemResponse, error) {
	p, err := uc.products.GetByUPC(ctx, upc)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if !p.Eligible {
		return nil, domain.ErrNotEligible
	}
	s, err := uc.sessions.get(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	canonical := benefit.Canon(p.Category)
	existing := lineExists(s.ledger, upc, canonical)
	added := s.ledger.AddItem(upc, p.Name, canonical, p.NutritionMap())
	mutated := added || existing // add sobre línea existente delega en increment
	resp := &dto.AddItemResponse{Added: added, State: *uc.stateLockedDTO(s)}
	if !added && !existing {
		resp.Reason = "categoría sin saldo disponible"
	}
	if mutated {
		uc.persistAndNotify(s)
	}
	s.mu.Unlock()
	return resp, nil
}

// IncrementItem suma una unidad de una línea; al tope la unidad se desborda
// a PAID (ver benefit.Ledger.IncrementItem).
func (uc *UseCase) IncrementItem(ctx context.Context, userID, upc, category string) (*dto.BasketResponse, error) {
	s, err := uc.sessions.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ledger.IncrementItem(upc, category) {
		uc.persistAndNotify(s)
	}
	return uc.stateLockedDTO(s), nil
}

// DecrementItem resta una unidad; las unidades PAID se drenan primero.
func (uc *UseCase) DecrementItem(ctx context.Context, userID, upc, category string) (*dto.BasketResponse, error) {
	s, err := uc.sessions.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ledger.DecrementItem(upc, category) {
		uc.persistAndNotify(s)
	}
	return uc.stateLockedDTO(s), nil
}

// Checkout completa la compra: vacía la canasta y reinicia los saldos
// (nuevo periodo). Sobre canasta vacía solo persiste.
func (uc *UseCase) Checkout(ctx context.Context, userID string) (*dto.CheckoutResponse, error) {
	s, err := uc.sessions.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := len(s.ledger.Basket())
	paid := 0
	for _, line := range s.ledger.Basket() {
		if line.Category == benefit.PaidCategory {
			paid += line.Qty
		}
	}
	s.ledger.Checkout()
	uc.persistAndNotify(s)
	return &dto.CheckoutResponse{
		Lines:     lines,
		PaidUnits: paid,
		State:     *uc.stateLockedDTO(s),
	}, nil
}

// ClearBasket abandona la canasta sin comprar: revierte la contabilidad de
// uso y elimina las líneas.
func (uc *UseCase) ClearBasket(ctx context.Context, userID string) (*dto.BasketResponse, error) {
	s, err := uc.sessions.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ledger.ClearBasket() {
		uc.persistAndNotify(s)
	}
	return uc.stateLockedDTO(s), nil
}

// State devuelve canasta + saldos actuales del usuario.
func (uc *UseCase) State(ctx context.Context, userID string) (*dto.BasketResponse, error) {
	s, err := uc.sessions.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return uc.stateLockedDTO(s), nil
}

// Snapshot devuelve el documento actual del usuario (para el recibo PDF).
func (uc *UseCase) Snapshot(ctx context.Context, userID string) (*entity.LedgerDocument, error) {
	s, err := uc.sessions.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Snapshot(), nil
}

// Logout descarta la sesión en memoria del usuario (evento de cambio de
// identidad del Auth Provider). La próxima petición autenticada recarga
// desde el store.
func (uc *UseCase) Logout(userID string) {
	uc.sessions.evict(userID)
}

// stateLockedDTO arma el DTO de estado; requiere el lock de sesión tomado.
func (uc *UseCase) stateLockedDTO(s *session) *dto.BasketResponse {
	out := &dto.BasketResponse{
		Basket:   []dto.BasketLineResponse{},
		Balances: []dto.BalanceResponse{},
	}
	for _, line := range s.ledger.Basket() {
		out.Basket = append(out.Basket, dto.BasketLineResponse{
			UPC:       line.UPC,
			Name:      line.Name,
			Category:  line.Category,
			Qty:       line.Qty,
			Nutrition: line.Nutrition,
		})
	}
	balances := s.ledger.Balances()
	sort.Slice(balances, func(i, j int) bool { return balances[i].Category < balances[j].Category })
	for _, b := range balances {
		br := dto.BalanceResponse{Category: b.Category, Allowed: b.Allowed, Used: b.Used}
		if b.Allowed != nil {
			r := b.Remaining()
			br.Remaining = &r
		}
		out.Balances = append(out.Balances, br)
	}
	return out
}

// lineExists indica si ya hay línea (upc, categoría canónica) en la canasta.
func lineExists(l *benefit.Ledger, upc, canonical string) bool {
	for _, line := range l.Basket() {
		if line.UPC == upc && line.Category == canonical {
			return true
		}
	}
	return false
}
