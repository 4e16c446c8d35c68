// Package catalog: casos de uso de consulta sobre la APL (Approved Product
// List): búsqueda por UPC, sustitutos elegibles y sustitutos más saludables.
package catalog

import (
	"context"

	"github.com/jhoicas/wic-assist-api/internal/application/dto"
	"github.com/jhoicas/wic-assist-api/internal/domain"
	"github.com/jhoicas/wic-assist-api/internal/domain/benefit"
	"github.com/jhoicas/wic-assist-api/internal/domain/nutrition"
	"github.com/jhoicas/wic-assist-api/internal/domain/repository"
)

// UseCase casos de uso de catálogo.
type UseCase struct {
	repo repository.ProductRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.ProductRepository) *UseCase {
	return &UseCase{repo: repo}
}

// FindByUPC busca un producto en la APL. Devuelve ErrNotFound si el UPC no existe.
func (uc *UseCase) FindByUPC(ctx context.Context, upc string) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByUPC(ctx, upc)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return dto.ToProductResponse(p, benefit.Canon(p.Category)), nil
}

// Substitutes lista productos elegibles de la misma categoría canónica.
func (uc *UseCase) Substitutes(ctx context.Context, category string, limit int) (*dto.SubstitutesResponse, error) {
	canonical := benefit.Canon(category)
	if canonical == "" {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.repo.ListByCategory(ctx, canonical, true, limit)
	if err != nil {
		return nil, err
	}
	out := &dto.SubstitutesResponse{Category: canonical}
	for _, p := range list {
		out.Items = append(out.Items, *dto.ToProductResponse(p, canonical))
	}
	return out, nil
}

// HealthierSubstitutes lista sustitutos elegibles con puntaje nutricional
// estrictamente mejor (menor) que el del producto base, orden ascendente,
// truncado a limit. Devuelve ErrNotFound si el UPC base no existe.
func (uc *UseCase) HealthierSubstitutes(ctx context.Context, category, baseUPC string, limit int) (*dto.SubstitutesResponse, error) {
	base, err := uc.repo.GetByUPC(ctx, baseUPC)
	if err != nil {
		return nil, err
	}
	if base == nil {
		return nil, domain.ErrNotFound
	}
	canonical := benefit.Canon(category)
	if canonical == "" {
		canonical = benefit.Canon(base.Category)
	}
	// Se piden candidatos sin tope: el truncado aplica después del ranking.
	candidates, err := uc.repo.ListByCategory(ctx, canonical, true, 0)
	if err != nil {
		return nil, err
	}
	ranked := nutrition.RankHealthier(base, candidates, limit)
	out := &dto.SubstitutesResponse{Category: canonical}
	for _, p := range ranked {
		resp := dto.ToProductResponse(p, canonical)
		score := nutrition.Score(p.Nutrients)
		resp.Score = &score
		out.Items = append(out.Items, *resp)
	}
	return out, nil
}
