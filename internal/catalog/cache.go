package catalog

import (
	"sync"
	"time"

	"apoia/internal/api"
)

// Cache guarda em memória, com TTL, o resultado integral das listagens.
// Filtros nunca invalidam o cache: são recomputados localmente sobre o
// conjunto completo.
type Cache struct {
	mu         sync.RWMutex
	produtos   []api.Produto
	categorias []api.Categoria
	updatedAt  map[string]time.Time
	ttl        time.Duration

	now func() time.Time
}

const (
	keyProdutos   = "produtos"
	keyCategorias = "categorias"
)

// NewCache cria um novo cache com TTL
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		updatedAt: make(map[string]time.Time),
		ttl:       ttl,
		now:       time.Now,
	}
}

func (c *Cache) isExpired(key string) bool {
	t, ok := c.updatedAt[key]
	if !ok {
		return true
	}
	return c.now().Sub(t) > c.ttl
}

// GetProdutos retorna o conjunto completo cacheado, se ainda válido
func (c *Cache) GetProdutos() ([]api.Produto, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.isExpired(keyProdutos) {
		return nil, false
	}
	return c.produtos, c.produtos != nil
}

// SetProdutos armazena o conjunto completo de produtos
func (c *Cache) SetProdutos(produtos []api.Produto) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.produtos = produtos
	c.updatedAt[keyProdutos] = c.now()
}

// GetCategorias retorna as categorias cacheadas, se ainda válidas
func (c *Cache) GetCategorias() ([]api.Categoria, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.isExpired(keyCategorias) {
		return nil, false
	}
	return c.categorias, c.categorias != nil
}

// SetCategorias armazena as categorias
func (c *Cache) SetCategorias(categorias []api.Categoria) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.categorias = categorias
	c.updatedAt[keyCategorias] = c.now()
}

// Invalidate descarta tudo, forçando re-fetch no próximo acesso
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.produtos = nil
	c.categorias = nil
	c.updatedAt = make(map[string]time.Time)
}
