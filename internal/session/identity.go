package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ErrIdentityIncomplete indica token sem as claims obrigatórias de identidade
var ErrIdentityIncomplete = errors.New("token does not carry a complete identity")

// DecodeIdentity extrai a identidade do usuário das claims do token.
// O token não é verificado criptograficamente aqui; o servidor é quem
// valida assinatura; o cliente só precisa das claims para preencher o
// apoiador e o criador de produto. O schema é estrito: as claims `id` e
// `nome` são obrigatórias e a ausência de qualquer uma falha fechado.
func DecodeIdentity(tokenString string) (*Identity, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrIdentityIncomplete
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}

	id, ok := claimAsInt(claims["id"])
	if !ok || id <= 0 {
		return nil, ErrIdentityIncomplete
	}

	nome, ok := claims["nome"].(string)
	if !ok || strings.TrimSpace(nome) == "" {
		return nil, ErrIdentityIncomplete
	}

	return &Identity{ID: id, Nome: nome}, nil
}

// claimAsInt normaliza a claim numérica, que chega como float64 via JSON
func claimAsInt(raw interface{}) (int, bool) {
	switch v := raw.(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	}
	return 0, false
}
