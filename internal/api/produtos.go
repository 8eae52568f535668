package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
)

// ListProdutosComArrecadacao retorna todos os produtos com o total
// arrecadado. Endpoint público; filtros são aplicados localmente pelo
// chamador, nunca via re-fetch.
func (c *Client) ListProdutosComArrecadacao() ([]Produto, error) {
	var produtos []Produto
	if err := c.executeJSON(http.MethodGet, "/api/produto/com-arrecadacao", nil, nil, "", false, &produtos); err != nil {
		return nil, err
	}
	return produtos, nil
}

// GetProduto busca um produto pelo id. O token é enviado quando presente,
// mas o endpoint aceita chamadas anônimas.
func (c *Client) GetProduto(id int) (*Produto, error) {
	if id <= 0 {
		return nil, &APIError{StatusCode: 0, Message: "produto não especificado", Type: ErrTypeValidation}
	}

	var produto Produto
	authed := c.token() != ""
	if err := c.executeJSON(http.MethodGet, "/api/produto/"+strconv.Itoa(id), nil, nil, "application/json", authed, &produto); err != nil {
		return nil, err
	}
	return &produto, nil
}

// ListProdutosDoCriador lista os produtos de um criador, com arrecadação
func (c *Client) ListProdutosDoCriador(nome string) ([]Produto, error) {
	path := fmt.Sprintf("/api/produto/criador/%s/com-arrecadacao", url.PathEscape(nome))

	var produtos []Produto
	if err := c.executeJSON(http.MethodGet, path, nil, nil, "application/json", true, &produtos); err != nil {
		return nil, err
	}
	return produtos, nil
}

// CriarProduto envia o produto como multipart form, incluindo a imagem de
// capa lida do caminho local.
func (c *Client) CriarProduto(novo NovoProduto) (*Produto, error) {
	imagem, err := os.Open(novo.ImagemPath)
	if err != nil {
		return nil, &APIError{StatusCode: 0, Message: fmt.Sprintf("não foi possível ler a imagem: %v", err), Type: ErrTypeValidation}
	}
	defer imagem.Close()

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	fields := map[string]string{
		"nome":        novo.Nome,
		"descricao":   novo.Descricao,
		"categoriaId": strconv.Itoa(novo.CategoriaID),
		"criadorId":   strconv.Itoa(novo.CriadorID),
		"valor_meta":  strconv.FormatFloat(novo.ValorMeta, 'f', -1, 64),
	}
	for name, value := range fields {
		if err := form.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", name, err)
		}
	}

	part, err := form.CreateFormFile("imagem_capa", filepath.Base(novo.ImagemPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, imagem); err != nil {
		return nil, fmt.Errorf("failed to copy image into form: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart form: %w", err)
	}

	var criado Produto
	if err := c.executeJSON(http.MethodPost, "/api/produto", nil, &buf, form.FormDataContentType(), true, &criado); err != nil {
		return nil, err
	}
	return &criado, nil
}

// EditarProduto submete o registro completo via PUT
func (c *Client) EditarProduto(id int, edicao ProdutoEdicao) (*Produto, error) {
	if id <= 0 {
		return nil, &APIError{StatusCode: 0, Message: "produto não especificado", Type: ErrTypeValidation}
	}

	payload, err := json.Marshal(edicao)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal produto: %w", err)
	}

	var atualizado Produto
	if err := c.executeJSON(http.MethodPut, "/api/produto/"+strconv.Itoa(id), nil, bytes.NewReader(payload), "application/json", true, &atualizado); err != nil {
		return nil, err
	}
	return &atualizado, nil
}

// DeletarProduto remove um produto do criador
func (c *Client) DeletarProduto(id int) error {
	if id <= 0 {
		return &APIError{StatusCode: 0, Message: "produto não especificado", Type: ErrTypeValidation}
	}
	return c.executeJSON(http.MethodDelete, "/api/produto/"+strconv.Itoa(id), nil, nil, "application/json", true, nil)
}

// ListCategorias retorna as categorias da plataforma. Endpoint público.
func (c *Client) ListCategorias() ([]Categoria, error) {
	var categorias []Categoria
	if err := c.executeJSON(http.MethodGet, "/api/categoria", nil, nil, "application/json", false, &categorias); err != nil {
		return nil, err
	}
	return categorias, nil
}
