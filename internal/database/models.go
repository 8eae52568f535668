package database

import "time"

// ApoioRegistro é o registro local de um apoio criado nesta máquina, com o
// último status observado pelo polling. O servidor continua autoritativo;
// isto existe só para a tela de histórico sobreviver a restarts.
type ApoioRegistro struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ApoioID     int       `gorm:"uniqueIndex;not null" json:"apoioId"`
	ProdutoID   int       `gorm:"index;not null" json:"produtoId"`
	ProdutoNome string    `json:"produtoNome"`
	Valor       float64   `gorm:"not null" json:"valor"`
	Status      string    `gorm:"default:CREATED" json:"status"`
	RequestID   string    `json:"requestId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Preferencia armazena pares chave/valor de configuração local do app
// (base URL escolhida, último email de login, etc)
type Preferencia struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Chave     string    `gorm:"uniqueIndex;not null" json:"chave"`
	Valor     string    `gorm:"type:text" json:"valor"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
