package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"apoia/internal/api"
	"apoia/internal/apoio"
	"apoia/internal/catalog"
	"apoia/internal/config"
	"apoia/internal/database"
	"apoia/internal/session"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// SettingsDTO expõe as configurações efetivas ao frontend
type SettingsDTO struct {
	APIBaseURL string `json:"apiBaseUrl"`
	DevMode    bool   `json:"devMode"`
	AppVersion string `json:"appVersion"`
}

// App struct. Ponto central do Wails, conecta todos os services.
type App struct {
	ctx     context.Context
	cfg     config.Settings
	db      *database.Service
	session *session.Service
	api     *api.Client
	catalog *catalog.Service
	apoio   *apoio.Service
}

// NewApp creates a new App application struct
func NewApp() *App {
	return &App{}
}

// Startup is called when the app starts. Inicializa config, banco local,
// sessão persistida, cliente da API e serviços de domínio.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx
	log.Println("[APOIA] Starting up...")

	if err := config.EnsureDataDirs(); err != nil {
		log.Printf("[APOIA] Error creating data dirs: %v", err)
	}

	a.cfg = config.Load()

	dbService, err := database.NewService()
	if err != nil {
		// Sem banco local o app segue funcional, apenas sem histórico
		log.Printf("[APOIA] Error initializing database: %v", err)
	} else {
		a.db = dbService
	}

	// Preferência local de servidor vale quando não há override por env
	if a.db != nil && strings.TrimSpace(os.Getenv("APOIA_API_URL")) == "" {
		if saved, err := a.db.GetPreferencia("api_base_url"); err == nil && saved != "" {
			a.cfg.APIBaseURL = strings.TrimRight(saved, "/")
		}
	}
	log.Printf("[APOIA] API base URL: %s (dev mode: %v)", a.cfg.APIBaseURL, a.cfg.DevMode)

	a.session = session.NewService(session.NewKeyringStore(config.AppBundleID))
	log.Println("[APOIA] Session service initialized")

	a.api = api.NewClient(a.cfg.APIBaseURL, a.session.Token)
	a.catalog = catalog.NewService(a.api, config.ProdutosCacheTTL)

	var historico apoio.Historico
	if a.db != nil {
		historico = a.db
	}
	a.apoio = apoio.NewService(a.api, historico, config.StatusPollInterval, a.cfg.DevMode, a.emitEvent)
	log.Println("[APOIA] Services initialized")
}

// DomReady é chamado quando o frontend terminou de carregar
func (a *App) DomReady(ctx context.Context) {
	a.emitEvent("app:hydrated", map[string]interface{}{
		"auth":     a.session.GetAuthState(),
		"settings": a.GetSettings(),
	})
}

// Shutdown encerra o polling ativo e fecha o banco
func (a *App) Shutdown(ctx context.Context) {
	if a.apoio != nil {
		a.apoio.PararAcompanhamento()
	}
	if a.db != nil {
		a.db.Close()
	}
	log.Println("[APOIA] Shutdown complete")
}

func (a *App) emitEvent(eventName string, data interface{}) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, eventName, data)
}

// requireAuth falha fechado quando a sessão está anônima
func (a *App) requireAuth() error {
	if !a.session.IsAuthenticated() {
		return &api.APIError{StatusCode: 401, Message: "Usuário não autenticado!", Type: api.ErrTypeAuth}
	}
	return nil
}

// identity resolve o usuário autenticado a partir do token persistido
func (a *App) identity() (*session.Identity, error) {
	identity, err := a.session.Identity()
	if err != nil {
		return nil, &api.APIError{StatusCode: 401, Message: "ID do usuário não encontrado no token!", Type: api.ErrTypeDecode}
	}
	return identity, nil
}

// === Sessão ===

// GetAuthState retorna o estado de autenticação para o route guard
func (a *App) GetAuthState() *session.AuthState {
	return a.session.GetAuthState()
}

// RequireAuth é o predicado do route guard: erro quando anônimo
func (a *App) RequireAuth() (*session.AuthState, error) {
	if err := a.requireAuth(); err != nil {
		return nil, err
	}
	return a.session.GetAuthState(), nil
}

// Login autentica contra a API e persiste a sessão
func (a *App) Login(email, senha string) (*session.AuthState, error) {
	sessao, err := a.api.Login(api.Credenciais{Email: email, Senha: senha})
	if err != nil {
		return nil, err
	}

	a.session.Login(sessao.Token, sessao.Nome)
	state := a.session.GetAuthState()
	a.emitEvent("auth:changed", state)
	return state, nil
}

// Logout limpa a sessão persistida e derruba qualquer polling ativo
func (a *App) Logout() *session.AuthState {
	if a.apoio != nil {
		a.apoio.PararAcompanhamento()
	}
	a.session.Logout()
	state := a.session.GetAuthState()
	a.emitEvent("auth:changed", state)
	return state
}

// RegistrarUsuario cadastra uma nova conta
func (a *App) RegistrarUsuario(nome, email, senha string) (*api.Usuario, error) {
	return a.api.RegistrarUsuario(api.NovoUsuario{Nome: nome, Email: email, Senha: senha})
}

// === Vitrine ===

// ListCategorias retorna as categorias para os botões de filtro
func (a *App) ListCategorias() ([]api.Categoria, error) {
	return a.catalog.ListCategorias()
}

// ListProdutos retorna os cards da vitrine com os filtros locais aplicados
func (a *App) ListProdutos(filtro catalog.Filtro) ([]catalog.ProdutoCard, error) {
	return a.catalog.ListProdutos(filtro)
}

// GetProduto busca um produto específico
func (a *App) GetProduto(id int) (*api.Produto, error) {
	return a.api.GetProduto(id)
}

// === Produtos do criador ===

// EscolherImagem abre o diálogo nativo de seleção da imagem de capa
func (a *App) EscolherImagem() (string, error) {
	return runtime.OpenFileDialog(a.ctx, runtime.OpenDialogOptions{
		Title: "Escolher imagem do produto",
		Filters: []runtime.FileFilter{
			{DisplayName: "Imagens", Pattern: "*.png;*.jpg;*.jpeg;*.gif;*.webp"},
		},
	})
}

// CadastrarProduto cria um produto com upload da imagem de capa
func (a *App) CadastrarProduto(novo api.NovoProduto) (*api.Produto, error) {
	if err := a.requireAuth(); err != nil {
		return nil, err
	}
	identity, err := a.identity()
	if err != nil {
		return nil, err
	}

	if novo.CategoriaID <= 0 {
		return nil, &api.APIError{Message: "Por favor, selecione uma categoria!", Type: api.ErrTypeValidation}
	}
	if strings.TrimSpace(novo.ImagemPath) == "" {
		return nil, &api.APIError{Message: "Por favor, selecione uma imagem para o produto!", Type: api.ErrTypeValidation}
	}

	novo.CriadorID = identity.ID
	criado, err := a.api.CriarProduto(novo)
	if err != nil {
		return nil, err
	}

	a.catalog.Invalidate()
	return criado, nil
}

// EditarProduto atualiza o registro completo de um produto.
// No fluxo de edição a imagem é uma URL, sem novo upload.
func (a *App) EditarProduto(id int, edicao api.ProdutoEdicao) (*api.Produto, error) {
	if err := a.requireAuth(); err != nil {
		return nil, err
	}
	if edicao.UsuarioID == 0 {
		if identity, err := a.identity(); err == nil {
			edicao.UsuarioID = identity.ID
		}
	}

	atualizado, err := a.api.EditarProduto(id, edicao)
	if err != nil {
		return nil, err
	}

	a.catalog.Invalidate()
	return atualizado, nil
}

// DeletarProduto remove um produto após confirmação nativa
func (a *App) DeletarProduto(id int) error {
	if err := a.requireAuth(); err != nil {
		return err
	}

	resposta, err := runtime.MessageDialog(a.ctx, runtime.MessageDialogOptions{
		Type:          runtime.QuestionDialog,
		Title:         config.AppName,
		Message:       "Tem certeza que deseja excluir este produto?",
		Buttons:       []string{"Excluir", "Cancelar"},
		DefaultButton: "Cancelar",
	})
	if err != nil {
		return err
	}
	if resposta != "Excluir" {
		return nil
	}

	if err := a.api.DeletarProduto(id); err != nil {
		return err
	}

	a.catalog.Invalidate()
	return nil
}

// MeusProdutos lista os produtos do usuário autenticado, como cards
func (a *App) MeusProdutos() ([]catalog.ProdutoCard, error) {
	if err := a.requireAuth(); err != nil {
		return nil, err
	}

	produtos, err := a.api.ListProdutosDoCriador(a.session.Nome())
	if err != nil {
		return nil, err
	}
	return produtosParaCards(produtos), nil
}

// === Apoio ===

// PrepararApoio carrega a tela de apoio de um produto
func (a *App) PrepararApoio(produtoID int) (*apoio.Preparacao, error) {
	if err := a.requireAuth(); err != nil {
		return nil, err
	}
	if _, err := a.identity(); err != nil {
		return nil, err
	}
	return a.apoio.Preparar(produtoID)
}

// CriarApoio registra o apoio e inicia o acompanhamento do pagamento
func (a *App) CriarApoio(produtoID int, valor float64) (*apoio.Andamento, error) {
	if err := a.requireAuth(); err != nil {
		return nil, err
	}
	identity, err := a.identity()
	if err != nil {
		return nil, err
	}
	return a.apoio.Criar(produtoID, identity.ID, valor)
}

// SimularPagamento confirma o pagamento simulado (apenas em dev mode)
func (a *App) SimularPagamento() error {
	if err := a.requireAuth(); err != nil {
		return err
	}
	return a.apoio.Simular()
}

// PararAcompanhamento cancela o polling ao sair da tela de apoio
func (a *App) PararAcompanhamento() {
	a.apoio.PararAcompanhamento()
}

// HistoricoDeApoios lista os apoios criados nesta máquina
func (a *App) HistoricoDeApoios() ([]database.ApoioRegistro, error) {
	if a.db == nil {
		return nil, fmt.Errorf("banco de dados local indisponível")
	}
	return a.db.ListApoios(50)
}

// === Configuração ===

// GetSettings expõe as configurações efetivas do app
func (a *App) GetSettings() SettingsDTO {
	return SettingsDTO{
		APIBaseURL: a.cfg.APIBaseURL,
		DevMode:    a.cfg.DevMode,
		AppVersion: config.AppVersion,
	}
}

// SetAPIBaseURL persiste a escolha de servidor. Passa a valer na próxima
// inicialização; a variável APOIA_API_URL tem precedência sobre ela.
func (a *App) SetAPIBaseURL(baseURL string) (SettingsDTO, error) {
	url := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if url == "" {
		return a.GetSettings(), &api.APIError{Message: "informe a URL do servidor", Type: api.ErrTypeValidation}
	}
	if a.db == nil {
		return a.GetSettings(), fmt.Errorf("banco de dados local indisponível")
	}
	if err := a.db.SetPreferencia("api_base_url", url); err != nil {
		return a.GetSettings(), err
	}
	log.Printf("[APOIA] API base URL preference saved: %s", url)
	return a.GetSettings(), nil
}

func produtosParaCards(produtos []api.Produto) []catalog.ProdutoCard {
	cards := make([]catalog.ProdutoCard, 0, len(produtos))
	for _, produto := range produtos {
		cards = append(cards, catalog.ProdutoCard{
			Produto:      produto,
			Progresso:    catalog.Progresso(produto),
			MetaAtingida: catalog.MetaAtingida(produto),
			Resumo:       produto.Descricao,
		})
	}
	return cards
}
