package session

// AuthState representa o estado de autenticação atual exposto ao frontend
type AuthState struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	Nome            string `json:"nome,omitempty"`
}

// Identity é a identidade do usuário decodificada do token JWT.
// Ambos os campos são obrigatórios; decodificação parcial é tratada
// como não autenticado.
type Identity struct {
	ID   int    `json:"id"`
	Nome string `json:"nome"`
}
