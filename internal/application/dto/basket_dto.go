package dto

import "github.com/shopspring/decimal"

// AddItemRequest entrada para agregar un producto escaneado a la canasta.
type AddItemRequest struct {
	UPC string `json:"upc" validate:"required,min=1,max=20"`
}

// ItemOpRequest entrada para incrementar/decrementar una línea existente.
type ItemOpRequest struct {
	UPC      string `json:"upc" validate:"required"`
	Category string `json:"category" validate:"required"`
}

// BalanceResponse saldo de una categoría WIC. Allowed nulo = ilimitado.
type BalanceResponse struct {
	Category  string `json:"category"`
	Allowed   *int   `json:"allowed,omitempty"`
	Used      int    `json:"used"`
	Remaining *int   `json:"remaining,omitempty"` // ausente si el cupo es ilimitado
}

// BasketLineResponse una línea de la canasta.
type BasketLineResponse struct {
	UPC       string                     `json:"upc"`
	Name      string                     `json:"name"`
	Category  string                     `json:"category"`
	Qty       int                        `json:"qty"`
	Nutrition map[string]decimal.Decimal `json:"nutrition,omitempty"`
}

// BasketResponse estado completo de canasta + saldos del usuario.
type BasketResponse struct {
	Basket   []BasketLineResponse `json:"basket"`
	Balances []BalanceResponse    `json:"balances"`
}

// AddItemResponse resultado de un add: si se creó línea nueva y el estado resultante.
type AddItemResponse struct {
	Added  bool           `json:"added"` // false = línea existente incrementada o categoría sin saldo
	Reason string         `json:"reason,omitempty"`
	State  BasketResponse `json:"state"`
}

// CheckoutResponse resultado del checkout.
type CheckoutResponse struct {
	Lines     int            `json:"lines"`      // líneas compradas
	PaidUnits int            `json:"paid_units"` // unidades cobradas fuera del beneficio
	State     BasketResponse `json:"state"`
}

// ScanResponse resultado de la verificación de elegibilidad de un UPC.
type ScanResponse struct {
	UPC      string           `json:"upc"`
	Found    bool             `json:"found"`
	Eligible bool             `json:"eligible"`
	CanAdd   bool             `json:"can_add"` // la categoría aún tiene saldo
	Product  *ProductResponse `json:"product,omitempty"`
}
