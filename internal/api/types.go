package api

// Ref é uma referência nomeada aninhada em Produto (categoria, criador)
type Ref struct {
	ID   int    `json:"id"`
	Nome string `json:"nome"`
}

// Categoria de produtos da plataforma
type Categoria struct {
	ID   int    `json:"id"`
	Nome string `json:"nome"`
}

// Produto é o snapshot somente-leitura retornado pela API. O cliente nunca
// mescla atualizações parciais entre requests.
type Produto struct {
	ID              int     `json:"id"`
	Nome            string  `json:"nome"`
	Descricao       string  `json:"descricao"`
	ValorMeta       float64 `json:"valor_meta"`
	ValorArrecadado float64 `json:"valor_arrecadado"`
	ImagemCapa      string  `json:"imagem_capa,omitempty"`
	Categoria       *Ref    `json:"categoria,omitempty"`
	Criador         *Ref    `json:"criador,omitempty"`
}

// NovoProduto é o payload de criação de produto. A imagem é enviada como
// arquivo (multipart), lida do caminho local escolhido no diálogo nativo.
type NovoProduto struct {
	Nome        string  `json:"nome"`
	Descricao   string  `json:"descricao"`
	CategoriaID int     `json:"categoriaId"`
	CriadorID   int     `json:"criadorId"`
	ValorMeta   float64 `json:"valor_meta"`
	ImagemPath  string  `json:"imagemPath"`
}

// ProdutoEdicao é o payload de atualização integral via PUT. No fluxo de
// edição a imagem é apenas uma URL, diferente do upload da criação. O
// servidor espera o registro completo no PUT.
type ProdutoEdicao struct {
	Nome        string  `json:"nome"`
	Descricao   string  `json:"descricao"`
	ValorMeta   float64 `json:"valor_meta"`
	CategoriaID int     `json:"categoriaId"`
	ImagemCapa  string  `json:"imagem_capa"`
	UsuarioID   int     `json:"usuarioId"`
}

// Credenciais de login
type Credenciais struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

// SessaoCriada é a resposta do login
type SessaoCriada struct {
	Token string `json:"token"`
	Nome  string `json:"nome"`
}

// NovoUsuario é o payload de cadastro de usuário
type NovoUsuario struct {
	Nome  string `json:"nome"`
	Email string `json:"email"`
	Senha string `json:"senha"`
}

// Usuario criado pela API
type Usuario struct {
	ID    int    `json:"id"`
	Nome  string `json:"nome"`
	Email string `json:"email"`
}

// NovoApoio é o payload de criação de apoio (pledge)
type NovoApoio struct {
	Produto  int     `json:"produto"`
	Apoiador int     `json:"apoiador"`
	Valor    float64 `json:"valor"`
}

// Apoio é o registro de apoio criado pelo servidor. O status transiciona
// do lado do servidor; o cliente apenas observa via polling.
type Apoio struct {
	ID     int     `json:"id"`
	Status string  `json:"status"`
	Valor  float64 `json:"valor,omitempty"`
}

// Pix é o payload de apresentação do pagamento. Dados opacos: o cliente
// renderiza o QR e o código copiável sem interpretá-los.
type Pix struct {
	ID           string  `json:"id"`
	BrCode       string  `json:"brCode"`
	BrCodeBase64 string  `json:"brCodeBase64,omitempty"`
	Valor        float64 `json:"valor"`
	ExpiresAt    string  `json:"expires_at,omitempty"`
}

// ApoioCriado é a resposta composta do POST /api/apoio
type ApoioCriado struct {
	Apoio Apoio `json:"apoio"`
	Pix   Pix   `json:"pix"`
}

// StatusApoio é a resposta do endpoint de status do apoio
type StatusApoio struct {
	PixStatus string `json:"pixStatus"`
}

// Status de pagamento observados pelo cliente
const (
	StatusCreated    = "CREATED"
	StatusPending    = "PENDING"
	StatusPaid       = "PAID"
	StatusAguardando = "AGUARDANDO"
)
