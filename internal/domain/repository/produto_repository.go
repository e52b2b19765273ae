package repository

import (
	"context"

	"github.com/fluxo7arena/fiscal-api/internal/domain/entity"
)

// ProdutoRepository porta de persistência de produtos.
type ProdutoRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Produto, error)
	// GetByIDs devolve os produtos encontrados indexados por ID; IDs
	// inexistentes simplesmente não aparecem no mapa.
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Produto, error)
}

// FinalizadoraRepository porta de persistência de meios de pagamento.
type FinalizadoraRepository interface {
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Finalizadora, error)
}
