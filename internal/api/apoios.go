package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// CriarApoio registra um apoio e devolve o registro criado junto com o
// payload PIX para apresentação.
func (c *Client) CriarApoio(novo NovoApoio) (*ApoioCriado, error) {
	payload, err := json.Marshal(novo)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal apoio: %w", err)
	}

	var criado ApoioCriado
	if err := c.executeJSON(http.MethodPost, "/api/apoio", nil, bytes.NewReader(payload), "application/json", true, &criado); err != nil {
		return nil, err
	}
	return &criado, nil
}

// StatusDoApoio consulta o status de pagamento atual de um apoio
func (c *Client) StatusDoApoio(apoioID int) (string, error) {
	if apoioID <= 0 {
		return "", &APIError{StatusCode: 0, Message: "apoio não especificado", Type: ErrTypeValidation}
	}

	var status StatusApoio
	path := "/api/apoio/" + strconv.Itoa(apoioID) + "/status"
	if err := c.executeJSON(http.MethodGet, path, nil, nil, "application/json", true, &status); err != nil {
		return "", err
	}
	return status.PixStatus, nil
}

// SimularPagamento dispara a confirmação simulada de pagamento. Existe
// apenas para desenvolvimento; o gate de ambiente fica na camada de cima.
func (c *Client) SimularPagamento(apoioID int) error {
	if apoioID <= 0 {
		return &APIError{StatusCode: 0, Message: "apoio não especificado", Type: ErrTypeValidation}
	}
	path := "/api/apoio/" + strconv.Itoa(apoioID) + "/simular"
	return c.executeJSON(http.MethodPost, path, nil, nil, "application/json", true, nil)
}
