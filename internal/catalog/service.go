package catalog

import (
	"log"
	"time"

	"apoia/internal/api"
)

// Fonte é o subconjunto do cliente da API que a vitrine consome
type Fonte interface {
	ListProdutosComArrecadacao() ([]api.Produto, error)
	ListCategorias() ([]api.Categoria, error)
}

// ProdutoCard é a projeção de um produto para a vitrine, com o progresso
// já calculado e saturado.
type ProdutoCard struct {
	api.Produto
	Progresso    float64 `json:"progresso"`
	MetaAtingida bool    `json:"metaAtingida"`
	Resumo       string  `json:"resumo"`
}

// resumoLimite espelha o corte de descrição do card original
const resumoLimite = 100

// Service carrega e filtra a vitrine de produtos. Uma única busca ao
// servidor alimenta o conjunto completo; mudanças de filtro recomputam
// localmente sem re-fetch.
type Service struct {
	fonte Fonte
	cache *Cache
}

// NewService cria a vitrine sobre a fonte e o TTL dados
func NewService(fonte Fonte, ttl time.Duration) *Service {
	return &Service{
		fonte: fonte,
		cache: NewCache(ttl),
	}
}

// ListProdutos retorna os cards da vitrine, filtrados localmente
func (s *Service) ListProdutos(filtro Filtro) ([]ProdutoCard, error) {
	produtos, err := s.todosProdutos()
	if err != nil {
		return nil, err
	}

	filtrados := Filtrar(produtos, filtro)

	cards := make([]ProdutoCard, 0, len(filtrados))
	for _, produto := range filtrados {
		cards = append(cards, ProdutoCard{
			Produto:      produto,
			Progresso:    Progresso(produto),
			MetaAtingida: MetaAtingida(produto),
			Resumo:       ResumirDescricao(produto.Descricao, resumoLimite),
		})
	}
	return cards, nil
}

// ListCategorias retorna as categorias da plataforma
func (s *Service) ListCategorias() ([]api.Categoria, error) {
	if categorias, ok := s.cache.GetCategorias(); ok {
		return categorias, nil
	}

	categorias, err := s.fonte.ListCategorias()
	if err != nil {
		return nil, err
	}
	s.cache.SetCategorias(categorias)
	return categorias, nil
}

// Invalidate força re-fetch na próxima listagem (após criar/editar/deletar)
func (s *Service) Invalidate() {
	s.cache.Invalidate()
	log.Println("[CATALOG] Cache invalidated")
}

func (s *Service) todosProdutos() ([]api.Produto, error) {
	if produtos, ok := s.cache.GetProdutos(); ok {
		return produtos, nil
	}

	produtos, err := s.fonte.ListProdutosComArrecadacao()
	if err != nil {
		return nil, err
	}
	s.cache.SetProdutos(produtos)
	return produtos, nil
}
