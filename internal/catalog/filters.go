package catalog

import (
	"strings"

	"apoia/internal/api"
)

// Filtro são os parâmetros de filtragem local da vitrine, espelhando a
// query string da tela inicial (buscaporNome, categoria).
type Filtro struct {
	BuscaPorNome string `json:"buscaporNome"`
	Categoria    string `json:"categoria"`
}

// Vazio indica ausência de filtros ativos
func (f Filtro) Vazio() bool {
	return strings.TrimSpace(f.BuscaPorNome) == "" && strings.TrimSpace(f.Categoria) == ""
}

// Filtrar aplica os filtros sobre o conjunto completo: busca por nome é
// substring case-insensitive; categoria é igualdade exata case-insensitive.
// Nunca dispara rede: opera só sobre o snapshot já carregado.
func Filtrar(produtos []api.Produto, filtro Filtro) []api.Produto {
	busca := strings.ToLower(strings.TrimSpace(filtro.BuscaPorNome))
	categoria := strings.ToLower(strings.TrimSpace(filtro.Categoria))

	filtrados := make([]api.Produto, 0, len(produtos))
	for _, produto := range produtos {
		if busca != "" && !strings.Contains(strings.ToLower(produto.Nome), busca) {
			continue
		}
		if categoria != "" {
			if produto.Categoria == nil || strings.ToLower(produto.Categoria.Nome) != categoria {
				continue
			}
		}
		filtrados = append(filtrados, produto)
	}
	return filtrados
}

// Progresso calcula o percentual arrecadado da meta, sempre em [0, 100].
// Meta ausente ou zero conta como 0; arrecadação negativa conta como 0;
// acima da meta satura em 100.
func Progresso(produto api.Produto) float64 {
	if produto.ValorMeta <= 0 {
		return 0
	}
	if produto.ValorArrecadado <= 0 {
		return 0
	}
	progresso := (produto.ValorArrecadado / produto.ValorMeta) * 100
	if progresso > 100 {
		return 100
	}
	return progresso
}

// MetaAtingida é o estado terminal de exibição: desabilita novos apoios
// na interface (o servidor continua sendo a autoridade).
func MetaAtingida(produto api.Produto) bool {
	return Progresso(produto) >= 100
}

// ResumirDescricao corta a descrição para o card da vitrine
func ResumirDescricao(descricao string, limite int) string {
	runes := []rune(descricao)
	if limite <= 0 || len(runes) <= limite {
		return descricao
	}
	return string(runes[:limite]) + "..."
}
