package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Tipos da taxonomia de erro do cliente
const (
	ErrTypeAuth       = "auth"
	ErrTypeNotFound   = "not_found"
	ErrTypeValidation = "validation"
	ErrTypeRemote     = "remote"
	ErrTypeDecode     = "decode"
)

// APIError carrega o status HTTP e a classificação de uma falha da API
type APIError struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Type       string `json:"type"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d/%s): %s", e.StatusCode, e.Type, e.Message)
}

// AsAPIError extrai um *APIError da cadeia de erros, se houver
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// TokenProvider fornece o token da sessão atual ("" quando anônimo)
type TokenProvider func() string

// Client fala com a API remota de crowdfunding. Todas as operações são
// JSON-sobre-HTTPS exceto a criação de produto (multipart). O token da
// sessão viaja no header customizado "Token", como o servidor espera.
type Client struct {
	baseURL string
	client  *http.Client
	token   TokenProvider
}

// NewClient cria o cliente da API sobre a base URL configurada
func NewClient(baseURL string, token TokenProvider) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
		token:   token,
	}
}

// execute faz a chamada e devolve o corpo bruto da resposta.
// authed anexa o header Token; erro de status é classificado em APIError.
func (c *Client) execute(method, path string, query url.Values, body io.Reader, contentType string, authed bool) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequest(method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if authed {
		req.Header.Set("Token", c.token())
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &APIError{StatusCode: 0, Message: err.Error(), Type: ErrTypeRemote}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: err.Error(), Type: ErrTypeRemote}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := classifyStatus(resp.StatusCode, respBody)
		log.Printf("[API] %s %s -> %d: %s", method, path, resp.StatusCode, apiErr.Message)
		return nil, apiErr
	}

	return respBody, nil
}

// executeJSON decodifica a resposta em result (quando não-nil)
func (c *Client) executeJSON(method, path string, query url.Values, body io.Reader, contentType string, authed bool, result interface{}) error {
	respBody, err := c.execute(method, path, query, body, contentType, authed)
	if err != nil {
		return err
	}
	if result == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return &APIError{StatusCode: 0, Message: fmt.Sprintf("failed to parse response: %v", err), Type: ErrTypeDecode}
	}
	return nil
}

func classifyStatus(statusCode int, body []byte) *APIError {
	message := remoteErrorMessage(body)

	errType := ErrTypeRemote
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		errType = ErrTypeAuth
	case statusCode == http.StatusNotFound:
		errType = ErrTypeNotFound
	case statusCode == http.StatusBadRequest || statusCode == http.StatusUnprocessableEntity:
		errType = ErrTypeValidation
	}

	return &APIError{StatusCode: statusCode, Message: message, Type: errType}
}

// remoteErrorMessage tenta extrair {"error": "..."} do corpo; caso
// contrário devolve o texto cru truncado.
func remoteErrorMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}

	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200]
	}
	if text == "" {
		text = "request failed"
	}
	return text
}
