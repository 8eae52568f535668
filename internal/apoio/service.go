package apoio

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"apoia/internal/api"
	"apoia/internal/config"
)

var (
	// ErrValorInvalido indica valor de apoio não positivo; rejeitado antes
	// de qualquer chamada de rede.
	ErrValorInvalido = errors.New("informe um valor válido para o apoio")

	// ErrSimulacaoIndisponivel indica tentativa de simular pagamento fora
	// do modo de desenvolvimento.
	ErrSimulacaoIndisponivel = errors.New("simulação de pagamento indisponível neste ambiente")

	// ErrPixProvisorio indica que o QR Code ainda não foi gerado de fato
	ErrPixProvisorio = errors.New("aguarde a geração completa do QR Code antes de simular o pagamento")

	// ErrSemApoioAtivo indica operação sobre um fluxo de apoio inexistente
	ErrSemApoioAtivo = errors.New("nenhum apoio em andamento")
)

// Backend é o subconjunto do cliente da API que o fluxo de apoio consome
type Backend interface {
	GetProduto(id int) (*api.Produto, error)
	CriarApoio(novo api.NovoApoio) (*api.ApoioCriado, error)
	StatusDoApoio(apoioID int) (string, error)
	SimularPagamento(apoioID int) error
}

// Historico registra localmente os apoios criados nesta máquina
type Historico interface {
	RegistrarApoio(apoioID, produtoID int, produtoNome string, valor float64, status string) error
	AtualizarStatusApoio(apoioID int, status string) error
}

// Preparacao é o estado inicial da tela de apoio: o produto alvo e o
// valor sugerido do formulário.
type Preparacao struct {
	Produto             *api.Produto `json:"produto"`
	ValorMinimoSugerido float64      `json:"valorMinimoSugerido"`
	MetaAtingida        bool         `json:"metaAtingida"`
}

// Andamento é o fluxo de apoio aguardando pagamento
type Andamento struct {
	ApoioID int     `json:"apoioId"`
	Pix     api.Pix `json:"pix"`
	Status  string  `json:"status"`
}

// Service orquestra o fluxo de apoiar um produto: validação do valor,
// criação do apoio, apresentação do PIX e acompanhamento do pagamento.
type Service struct {
	backend   Backend
	historico Historico
	poller    *Poller
	devMode   bool

	mu          sync.Mutex
	current     *Andamento
	lastProduto *api.Produto
}

// NewService cria o serviço de apoio. historico pode ser nil (sem registro
// local); emitEvent repassa os eventos de status ao frontend.
func NewService(backend Backend, historico Historico, interval time.Duration, devMode bool, emitEvent func(eventName string, data interface{})) *Service {
	s := &Service{
		backend:   backend,
		historico: historico,
		devMode:   devMode,
	}
	s.poller = NewPoller(s.verificarStatus, interval, emitEvent)
	return s
}

// Preparar carrega o produto alvo para a tela de apoio
func (s *Service) Preparar(produtoID int) (*Preparacao, error) {
	if produtoID <= 0 {
		return nil, &api.APIError{StatusCode: 0, Message: "produto não especificado", Type: api.ErrTypeValidation}
	}

	produto, err := s.backend.GetProduto(produtoID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.lastProduto = produto
	s.mu.Unlock()

	metaAtingida := produto.ValorMeta > 0 && produto.ValorArrecadado >= produto.ValorMeta
	return &Preparacao{
		Produto:             produto,
		ValorMinimoSugerido: config.ValorMinimoSugerido,
		MetaAtingida:        metaAtingida,
	}, nil
}

// Criar registra o apoio e inicia o acompanhamento do pagamento.
// Valores não positivos são rejeitados sem tocar a rede.
func (s *Service) Criar(produtoID, apoiadorID int, valor float64) (*Andamento, error) {
	if valor <= 0 {
		return nil, ErrValorInvalido
	}
	if produtoID <= 0 || apoiadorID <= 0 {
		return nil, fmt.Errorf("dados incompletos para criar o apoio")
	}

	criado, err := s.backend.CriarApoio(api.NovoApoio{
		Produto:  produtoID,
		Apoiador: apoiadorID,
		Valor:    valor,
	})
	if err != nil {
		return nil, err
	}

	andamento := &Andamento{
		ApoioID: criado.Apoio.ID,
		Pix:     criado.Pix,
		Status:  criado.Apoio.Status,
	}

	s.mu.Lock()
	s.current = andamento
	produtoNome := ""
	if s.lastProduto != nil && s.lastProduto.ID == produtoID {
		produtoNome = s.lastProduto.Nome
	}
	s.mu.Unlock()

	if s.historico != nil {
		if err := s.historico.RegistrarApoio(criado.Apoio.ID, produtoID, produtoNome, valor, criado.Apoio.Status); err != nil {
			log.Printf("[APOIO] Could not record apoio locally: %v", err)
		}
	}

	s.poller.Start(criado.Apoio.ID)
	return andamento, nil
}

// Simular confirma o pagamento via endpoint de simulação. Disponível
// apenas em modo de desenvolvimento, e só depois do PIX definitivo.
func (s *Service) Simular() error {
	if !s.devMode {
		return ErrSimulacaoIndisponivel
	}

	s.mu.Lock()
	current := s.current
	s.mu.Unlock()

	if current == nil {
		return ErrSemApoioAtivo
	}
	if strings.HasPrefix(current.Pix.ID, "temp_") {
		return ErrPixProvisorio
	}

	return s.backend.SimularPagamento(current.ApoioID)
}

// PararAcompanhamento cancela o polling ativo (teardown da tela)
func (s *Service) PararAcompanhamento() {
	s.poller.Stop()
}

// EmAcompanhamento indica se há polling de status ativo
func (s *Service) EmAcompanhamento() bool {
	return s.poller.IsRunning()
}

// verificarStatus é o tick do poller: consulta o servidor, espelha o
// status no andamento corrente e no histórico local.
func (s *Service) verificarStatus(apoioID int) (string, error) {
	status, err := s.backend.StatusDoApoio(apoioID)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	if s.current != nil && s.current.ApoioID == apoioID {
		s.current.Status = status
	}
	s.mu.Unlock()

	if s.historico != nil {
		if err := s.historico.AtualizarStatusApoio(apoioID, status); err != nil {
			log.Printf("[APOIO] Could not update local status: %v", err)
		}
	}

	return status, nil
}
