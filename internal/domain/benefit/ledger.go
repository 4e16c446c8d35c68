package benefit

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/wic-assist-api/internal/domain/entity"
)

// Ledger es el agregado de saldos por categoría y líneas de canasta de un
// usuario. Es el dueño exclusivo de ambas colecciones; ningún otro componente
// las muta directamente. No hace I/O: la capa de aplicación decide cuándo
// persistir el Snapshot.
type Ledger struct {
	balances map[string]*entity.CategoryBalance
	basket   []*entity.BasketLine
}

// NewLedger crea un ledger vacío.
func NewLedger() *Ledger {
	return &Ledger{balances: make(map[string]*entity.CategoryBalance)}
}

// ensureBalance inicializa perezosamente el saldo de una categoría canónica
// con el cupo por defecto de la tabla de reglas. Solo se invoca desde
// caminos de escritura: CanAdd no crea entradas.
func (l *Ledger) ensureBalance(canonical string) *entity.CategoryBalance {
	if b, ok := l.balances[canonical]; ok {
		return b
	}
	b := &entity.CategoryBalance{
		Category: canonical,
		Allowed:  DeriveAllowed(canonical),
	}
	l.balances[canonical] = b
	return b
}

// findLine ubica la línea exacta (upc, categoría canónica); nil si no existe.
func (l *Ledger) findLine(upc, canonical string) *entity.BasketLine {
	for _, line := range l.basket {
		if line.UPC == upc && line.Category == canonical {
			return line
		}
	}
	return nil
}

// removeLine elimina la línea exacta (upc, categoría) conservando el orden.
func (l *Ledger) removeLine(upc, canonical string) {
	for i, line := range l.basket {
		if line.UPC == upc && line.Category == canonical {
			l.basket = append(l.basket[:i], l.basket[i+1:]...)
			return
		}
	}
}

// CanAdd indica si la categoría admite una unidad más: true si nunca se ha
// visto (se inicializará perezosamente en la próxima escritura), si el cupo
// es ilimitado, o si used < allowed. Lectura pura, sin efectos.
func (l *Ledger) CanAdd(category string) bool {
	b, ok := l.balances[Canon(category)]
	if !ok {
		return true
	}
	if b.Allowed == nil {
		return true
	}
	return b.Used < *b.Allowed
}

// AddItem agrega un producto a la canasta. Devuelve true si se creó una
// línea nueva; false si ya existía (en cuyo caso delega en IncrementItem)
// o si la categoría está sin saldo (rechazo, sin mutación).
func (l *Ledger) AddItem(upc, name, category string, nutrition map[string]decimal.Decimal) bool {
	canonical := Canon(category)
	b := l.ensureBalance(canonical)

	if l.findLine(upc, canonical) != nil {
		l.IncrementItem(upc, canonical)
		return false
	}
	if b.Allowed != nil && b.Used >= *b.Allowed {
		return false
	}
	l.basket = append(l.basket, &entity.BasketLine{
		UPC:       upc,
		Name:      name,
		Category:  canonical,
		Qty:       1,
		Nutrition: nutrition,
	})
	b.Used++
	return true
}

// IncrementItem suma una unidad de un UPC. Si la categoría original aún tiene
// saldo incrementa su línea; si está al tope, el excedente se desborda a la
// categoría sintética PAID en vez de bloquear la acción: el usuario sigue
// agregando unidades y paga de su bolsillo lo que excede el beneficio.
// Devuelve true si hubo mutación.
func (l *Ledger) IncrementItem(upc, category string) bool {
	canonical := Canon(category)
	b := l.ensureBalance(canonical)

	if b.Allowed == nil || b.Used < *b.Allowed {
		line := l.findLine(upc, canonical)
		if line == nil {
			// Defensivo: AddItem garantiza la línea; sin ella no hay qué incrementar.
			return false
		}
		line.Qty++
		b.Used++
		return true
	}

	// Desborde a PAID
	paid := l.ensureBalance(PaidCategory)
	if pl := l.findLine(upc, PaidCategory); pl != nil {
		pl.Qty++
		paid.Used++
		return true
	}
	orig := l.findLine(upc, canonical)
	if orig == nil {
		// Defensivo: sin línea original no hay nombre/nutrición que copiar.
		return false
	}
	l.basket = append(l.basket, &entity.BasketLine{
		UPC:       upc,
		Name:      orig.Name,
		Category:  PaidCategory,
		Qty:       1,
		Nutrition: orig.Nutrition,
	})
	paid.Used++
	return true
}

// DecrementItem resta una unidad de un UPC. Las unidades desbordadas a PAID
// se drenan primero (último en entrar, primero en salir sobre el excedente);
// después la línea de la categoría original. Used se acota en piso 0; la
// línea se elimina cuando qty llega a 0. Devuelve true si hubo mutación.
func (l *Ledger) DecrementItem(upc, category string) bool {
	if pl := l.findLine(upc, PaidCategory); pl != nil {
		pl.Qty--
		if paid, ok := l.balances[PaidCategory]; ok && paid.Used > 0 {
			paid.Used--
		}
		if pl.Qty <= 0 {
			l.removeLine(upc, PaidCategory)
		}
		return true
	}

	canonical := Canon(category)
	line := l.findLine(upc, canonical)
	if line == nil {
		return false
	}
	line.Qty--
	if b, ok := l.balances[canonical]; ok && b.Used > 0 {
		b.Used--
	}
	if line.Qty <= 0 {
		l.removeLine(upc, canonical)
	}
	return true
}

// Checkout vacía la canasta y reinicia Used de todas las categorías a 0
// (compra completada: inicia un nuevo periodo de conteo). Las líneas de la
// canasta son la única fuente del conteo de uso; vaciar sin reiniciar
// agotaría los cupos de forma permanente. Devuelve true si hubo mutación.
func (l *Ledger) Checkout() bool {
	mutated := len(l.basket) > 0
	for _, b := range l.balances {
		if b.Used != 0 {
			mutated = true
			b.Used = 0
		}
	}
	l.basket = nil
	return mutated
}

// ClearBasket abandona la canasta sin comprar: revierte la contabilidad de
// uso (resta el qty de cada línea a su categoría, piso 0) y elimina todas
// las líneas. Modela un carrito cancelado, no una compra. Devuelve true si
// hubo mutación.
func (l *Ledger) ClearBasket() bool {
	if len(l.basket) == 0 {
		return false
	}
	for _, line := range l.basket {
		if b, ok := l.balances[line.Category]; ok {
			b.Used -= line.Qty
			if b.Used < 0 {
				b.Used = 0
			}
		}
	}
	l.basket = nil
	return true
}

// Balances devuelve una copia de los saldos por categoría.
func (l *Ledger) Balances() []*entity.CategoryBalance {
	out := make([]*entity.CategoryBalance, 0, len(l.balances))
	for _, b := range l.balances {
		cp := *b
		out = append(out, &cp)
	}
	return out
}

// Basket devuelve una copia de las líneas de la canasta en su orden.
func (l *Ledger) Basket() []*entity.BasketLine {
	out := make([]*entity.BasketLine, 0, len(l.basket))
	for _, line := range l.basket {
		cp := *line
		out = append(out, &cp)
	}
	return out
}

// Snapshot serializa el estado a un LedgerDocument para persistir.
func (l *Ledger) Snapshot() *entity.LedgerDocument {
	doc := &entity.LedgerDocument{
		Balances: make(map[string]*entity.CategoryBalance, len(l.balances)),
		Basket:   make([]*entity.BasketLine, 0, len(l.basket)),
	}
	for k, b := range l.balances {
		cp := *b
		doc.Balances[k] = &cp
	}
	for _, line := range l.basket {
		cp := *line
		doc.Basket = append(doc.Basket, &cp)
	}
	return doc
}

// Restore reemplaza el estado con un documento cargado del store.
// El documento ya debe venir validado (ver LedgerDocument.Validate).
func (l *Ledger) Restore(doc *entity.LedgerDocument) {
	l.balances = make(map[string]*entity.CategoryBalance)
	l.basket = nil
	if doc == nil {
		return
	}
	for k, b := range doc.Balances {
		cp := *b
		l.balances[Canon(k)] = &cp
	}
	for _, line := range doc.Basket {
		cp := *line
		l.basket = append(l.basket, &cp)
	}
}
