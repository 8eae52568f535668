package session

import (
	"log"
	"strings"
)

const (
	slotToken = "token"
	slotNome  = "nome"
)

// Service é o contexto de sessão do aplicativo. Dois estados: anônimo
// (token ausente) e autenticado (token e nome presentes). As únicas
// transições são Login e Logout; o serviço nunca valida expiração ou
// assinatura do token; presença é tratada como prova de autenticação,
// e o servidor rejeita tokens inválidos nas chamadas subsequentes.
type Service struct {
	store Store
}

// NewService cria o contexto de sessão sobre a célula persistente dada
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Login persiste token e nome. Idempotente para os mesmos valores.
func (s *Service) Login(token, nome string) {
	s.store.Set(slotToken, token)
	s.store.Set(slotNome, nome)
	log.Printf("[SESSION] Logged in as %s", nome)
}

// Logout limpa ambos os slots persistidos
func (s *Service) Logout() {
	s.store.Delete(slotToken)
	s.store.Delete(slotNome)
	log.Println("[SESSION] Logged out")
}

// Token retorna o token persistido, ou "" quando anônimo
func (s *Service) Token() string {
	token, _ := s.store.Get(slotToken)
	return token
}

// Nome retorna o nome de exibição persistido, ou "" quando anônimo
func (s *Service) Nome() string {
	nome, _ := s.store.Get(slotNome)
	return nome
}

// IsAuthenticated é verdadeiro sse token e nome estão ambos presentes
func (s *Service) IsAuthenticated() bool {
	return strings.TrimSpace(s.Token()) != "" && strings.TrimSpace(s.Nome()) != ""
}

// Identity decodifica a identidade do usuário a partir do token da sessão
func (s *Service) Identity() (*Identity, error) {
	return DecodeIdentity(s.Token())
}

// GetAuthState retorna o estado completo da autenticação
func (s *Service) GetAuthState() *AuthState {
	state := &AuthState{
		IsAuthenticated: s.IsAuthenticated(),
	}
	if state.IsAuthenticated {
		state.Nome = s.Nome()
	}
	return state
}
