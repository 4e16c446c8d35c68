// Package receipt: genera el recibo de compra (PDF) de la canasta actual,
// separando unidades cubiertas por el beneficio de las unidades PAID.
package receipt

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/wic-assist-api/internal/domain"
	"github.com/jhoicas/wic-assist-api/internal/domain/entity"
	"github.com/jhoicas/wic-assist-api/internal/domain/repository"
)

// ReceiptPDFGenerator puerto del generador de PDF (implementado en infrastructure/pdf).
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(ctx context.Context, user *entity.User, doc *entity.LedgerDocument, at time.Time) ([]byte, error)
}

// LedgerSnapshotter provee el documento actual del usuario (lo implementa el
// caso de uso de canasta; se define aquí como puerto para no acoplar paquetes).
type LedgerSnapshotter interface {
	Snapshot(ctx context.Context, userID string) (*entity.LedgerDocument, error)
}

// UseCase genera el recibo de la canasta activa del usuario.
type UseCase struct {
	snapshotter LedgerSnapshotter
	userRepo    repository.UserRepository
	generator   ReceiptPDFGenerator
}

// NewUseCase construye el caso de uso.
func NewUseCase(snapshotter LedgerSnapshotter, userRepo repository.UserRepository, generator ReceiptPDFGenerator) *UseCase {
	return &UseCase{snapshotter: snapshotter, userRepo: userRepo, generator: generator}
}

// DownloadReceiptPDF genera el PDF del recibo de la canasta actual.
// Retorna (pdfBytes, filename, nil), domain.ErrUserNotFound si el usuario no
// existe, o domain.ErrInvalidInput si la canasta está vacía.
func (uc *UseCase) DownloadReceiptPDF(ctx context.Context, userID string) ([]byte, string, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: obtener usuario: %w", err)
	}
	if user == nil {
		return nil, "", domain.ErrUserNotFound
	}
	doc, err := uc.snapshotter.Snapshot(ctx, userID)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: obtener ledger: %w", err)
	}
	if doc == nil || len(doc.Basket) == 0 {
		return nil, "", domain.ErrInvalidInput
	}
	now := time.Now()
	pdf, err := uc.generator.GenerateReceiptPDF(ctx, user, doc, now)
	if err != nil {
		return nil, "", fmt.Errorf("receipt: generar pdf: %w", err)
	}
	filename := fmt.Sprintf("recibo-wic-%s.pdf", now.Format("20060102-150405"))
	return pdf, filename, nil
}
