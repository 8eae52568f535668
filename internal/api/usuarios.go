package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// Login autentica o usuário e devolve token + nome de exibição
func (c *Client) Login(credenciais Credenciais) (*SessaoCriada, error) {
	payload, err := json.Marshal(credenciais)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal credentials: %w", err)
	}

	var sessao SessaoCriada
	if err := c.executeJSON(http.MethodPost, "/api/login", nil, bytes.NewReader(payload), "application/json", false, &sessao); err != nil {
		return nil, err
	}

	// Resposta 2xx sem token/nome é estrutura inesperada do servidor
	if sessao.Token == "" || sessao.Nome == "" {
		return nil, &APIError{StatusCode: 0, Message: "dados de login incompletos recebidos do servidor", Type: ErrTypeDecode}
	}
	return &sessao, nil
}

// RegistrarUsuario cadastra um novo usuário. Endpoint público.
func (c *Client) RegistrarUsuario(novo NovoUsuario) (*Usuario, error) {
	payload, err := json.Marshal(novo)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal usuario: %w", err)
	}

	var usuario Usuario
	if err := c.executeJSON(http.MethodPost, "/api/usuario", nil, bytes.NewReader(payload), "application/json", false, &usuario); err != nil {
		return nil, err
	}
	return &usuario, nil
}
