package apoio

import (
	"errors"
	"sync"
	"testing"
	"time"

	"apoia/internal/api"
)

type fakeBackend struct {
	mu           sync.Mutex
	produto      *api.Produto
	produtoErr   error
	criado       *api.ApoioCriado
	criarErr     error
	statusQueue  []string
	statusErr    error
	statusCalls  int
	criarCalls   int
	simularCalls int
}

func (f *fakeBackend) GetProduto(id int) (*api.Produto, error) {
	return f.produto, f.produtoErr
}

func (f *fakeBackend) CriarApoio(novo api.NovoApoio) (*api.ApoioCriado, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.criarCalls++
	return f.criado, f.criarErr
}

func (f *fakeBackend) StatusDoApoio(apoioID int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls++
	if f.statusErr != nil {
		return "", f.statusErr
	}
	if len(f.statusQueue) == 0 {
		return api.StatusPending, nil
	}
	status := f.statusQueue[0]
	if len(f.statusQueue) > 1 {
		f.statusQueue = f.statusQueue[1:]
	}
	return status, nil
}

func (f *fakeBackend) SimularPagamento(apoioID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.simularCalls++
	return nil
}

func (f *fakeBackend) calls() (criar, status, simular int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.criarCalls, f.statusCalls, f.simularCalls
}

type eventRecorder struct {
	mu     sync.Mutex
	events []string
}

func (r *eventRecorder) emit(eventName string, data interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, eventName)
}

func (r *eventRecorder) count(eventName string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, name := range r.events {
		if name == eventName {
			n++
		}
	}
	return n
}

func apoioCriado(id int) *api.ApoioCriado {
	return &api.ApoioCriado{
		Apoio: api.Apoio{ID: id, Status: api.StatusCreated},
		Pix:   api.Pix{ID: "pix-1", BrCode: "00020126...", Valor: 150},
	}
}

func TestCriarRejectsNonPositiveValorWithoutRequest(t *testing.T) {
	backend := &fakeBackend{criado: apoioCriado(42)}
	svc := NewService(backend, nil, time.Hour, false, nil)

	for _, valor := range []float64{0, -1, -150.5} {
		if _, err := svc.Criar(3, 9, valor); !errors.Is(err, ErrValorInvalido) {
			t.Fatalf("Criar(valor=%v) = %v, want ErrValorInvalido", valor, err)
		}
	}

	criar, status, _ := backend.calls()
	if criar != 0 || status != 0 {
		t.Fatalf("rejected valor must not touch the network: criar=%d status=%d", criar, status)
	}
}

func TestCriarStartsPollingUntilPaid(t *testing.T) {
	backend := &fakeBackend{
		criado:      apoioCriado(42),
		statusQueue: []string{api.StatusPending, api.StatusPending, api.StatusPaid},
	}
	recorder := &eventRecorder{}
	svc := NewService(backend, nil, 5*time.Millisecond, false, recorder.emit)

	andamento, err := svc.Criar(3, 9, 150)
	if err != nil {
		t.Fatalf("Criar() error: %v", err)
	}
	if andamento.ApoioID != 42 || andamento.Status != api.StatusCreated {
		t.Fatalf("unexpected andamento: %+v", andamento)
	}
	if andamento.Pix.BrCode == "" {
		t.Fatal("expected pix payload in andamento")
	}

	deadline := time.Now().Add(2 * time.Second)
	for svc.EmAcompanhamento() && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}

	if svc.EmAcompanhamento() {
		t.Fatal("polling must stop after PAID")
	}
	if recorder.count("apoio:pago") != 1 {
		t.Fatalf("expected single apoio:pago event, got %d", recorder.count("apoio:pago"))
	}
	if recorder.count("apoio:status_changed") < 3 {
		t.Fatalf("expected status events for each tick, got %d", recorder.count("apoio:status_changed"))
	}

	_, status, _ := backend.calls()
	if status < 3 {
		t.Fatalf("expected at least 3 status checks, got %d", status)
	}
}

func TestPollingSwallowsTickErrors(t *testing.T) {
	backend := &fakeBackend{
		criado:    apoioCriado(42),
		statusErr: errors.New("network down"),
	}
	svc := NewService(backend, nil, 5*time.Millisecond, false, nil)

	if _, err := svc.Criar(3, 9, 150); err != nil {
		t.Fatalf("Criar() error: %v", err)
	}

	time.Sleep(30 * time.Millisecond)

	if !svc.EmAcompanhamento() {
		t.Fatal("polling must keep running through tick failures")
	}
	_, status, _ := backend.calls()
	if status < 2 {
		t.Fatalf("expected repeated attempts despite errors, got %d", status)
	}

	svc.PararAcompanhamento()
}

func TestPararAcompanhamentoCancelsPolling(t *testing.T) {
	backend := &fakeBackend{criado: apoioCriado(42)}
	svc := NewService(backend, nil, 50*time.Millisecond, false, nil)

	if _, err := svc.Criar(3, 9, 150); err != nil {
		t.Fatalf("Criar() error: %v", err)
	}
	if !svc.EmAcompanhamento() {
		t.Fatal("expected active polling after Criar")
	}

	// Esperar a verificação imediata terminar antes de medir
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, status, _ := backend.calls(); status >= 1 {
			break
		}
		time.Sleep(2 * time.Millisecond)
	}

	svc.PararAcompanhamento()
	if svc.EmAcompanhamento() {
		t.Fatal("expected polling stopped after teardown")
	}

	_, before, _ := backend.calls()
	time.Sleep(120 * time.Millisecond)
	_, after, _ := backend.calls()
	if after != before {
		t.Fatalf("polling kept running after stop: %d -> %d", before, after)
	}
}

func TestCriarPropagatesBackendError(t *testing.T) {
	backend := &fakeBackend{criarErr: errors.New("server rejected")}
	svc := NewService(backend, nil, time.Hour, false, nil)

	if _, err := svc.Criar(3, 9, 150); err == nil {
		t.Fatal("expected backend error")
	}
	if svc.EmAcompanhamento() {
		t.Fatal("failed creation must not start polling")
	}
}

func TestPrepararLoadsProduto(t *testing.T) {
	backend := &fakeBackend{produto: &api.Produto{ID: 7, Nome: "Bicicleta", ValorMeta: 1000, ValorArrecadado: 1000}}
	svc := NewService(backend, nil, time.Hour, false, nil)

	prep, err := svc.Preparar(7)
	if err != nil {
		t.Fatalf("Preparar() error: %v", err)
	}
	if prep.Produto.Nome != "Bicicleta" || !prep.MetaAtingida {
		t.Fatalf("unexpected preparacao: %+v", prep)
	}
	if prep.ValorMinimoSugerido != 100 {
		t.Fatalf("unexpected valor sugerido: %v", prep.ValorMinimoSugerido)
	}
}

func TestPrepararRejectsMissingProduto(t *testing.T) {
	backend := &fakeBackend{}
	svc := NewService(backend, nil, time.Hour, false, nil)

	_, err := svc.Preparar(0)
	apiErr, ok := api.AsAPIError(err)
	if !ok || apiErr.Type != api.ErrTypeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPrepararPropagatesNotFound(t *testing.T) {
	backend := &fakeBackend{produtoErr: &api.APIError{StatusCode: 404, Message: "Produto não encontrado", Type: api.ErrTypeNotFound}}
	svc := NewService(backend, nil, time.Hour, false, nil)

	_, err := svc.Preparar(7)
	apiErr, ok := api.AsAPIError(err)
	if !ok || apiErr.Type != api.ErrTypeNotFound {
		t.Fatalf("expected not_found error, got %v", err)
	}
}

func TestSimularGatedByDevMode(t *testing.T) {
	backend := &fakeBackend{criado: apoioCriado(42)}
	svc := NewService(backend, nil, time.Hour, false, nil)

	if _, err := svc.Criar(3, 9, 150); err != nil {
		t.Fatalf("Criar() error: %v", err)
	}
	defer svc.PararAcompanhamento()

	if err := svc.Simular(); !errors.Is(err, ErrSimulacaoIndisponivel) {
		t.Fatalf("Simular() outside dev mode = %v, want ErrSimulacaoIndisponivel", err)
	}
	_, _, simular := backend.calls()
	if simular != 0 {
		t.Fatal("simulate endpoint must never be reached outside dev mode")
	}
}

func TestSimularInDevMode(t *testing.T) {
	backend := &fakeBackend{criado: apoioCriado(42)}
	svc := NewService(backend, nil, time.Hour, true, nil)

	if err := svc.Simular(); !errors.Is(err, ErrSemApoioAtivo) {
		t.Fatalf("Simular() without active apoio = %v, want ErrSemApoioAtivo", err)
	}

	if _, err := svc.Criar(3, 9, 150); err != nil {
		t.Fatalf("Criar() error: %v", err)
	}
	defer svc.PararAcompanhamento()

	if err := svc.Simular(); err != nil {
		t.Fatalf("Simular() error: %v", err)
	}
	_, _, simular := backend.calls()
	if simular != 1 {
		t.Fatalf("expected one simulate call, got %d", simular)
	}
}

func TestSimularRejectsProvisionalPix(t *testing.T) {
	backend := &fakeBackend{criado: &api.ApoioCriado{
		Apoio: api.Apoio{ID: 42, Status: api.StatusCreated},
		Pix:   api.Pix{ID: "temp_abc", BrCode: ""},
	}}
	svc := NewService(backend, nil, time.Hour, true, nil)

	if _, err := svc.Criar(3, 9, 150); err != nil {
		t.Fatalf("Criar() error: %v", err)
	}
	defer svc.PararAcompanhamento()

	if err := svc.Simular(); !errors.Is(err, ErrPixProvisorio) {
		t.Fatalf("Simular() with temp pix = %v, want ErrPixProvisorio", err)
	}
}

func TestHistoricoRecordsApoioAndStatus(t *testing.T) {
	backend := &fakeBackend{
		produto:     &api.Produto{ID: 3, Nome: "Bicicleta"},
		criado:      apoioCriado(42),
		statusQueue: []string{api.StatusPaid},
	}
	historico := &fakeHistorico{}
	svc := NewService(backend, historico, 5*time.Millisecond, false, nil)

	if _, err := svc.Preparar(3); err != nil {
		t.Fatalf("Preparar() error: %v", err)
	}
	if _, err := svc.Criar(3, 9, 150); err != nil {
		t.Fatalf("Criar() error: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for svc.EmAcompanhamento() && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}

	historico.mu.Lock()
	defer historico.mu.Unlock()
	if historico.registrado != 1 {
		t.Fatalf("expected one recorded apoio, got %d", historico.registrado)
	}
	if historico.produtoNome != "Bicicleta" {
		t.Fatalf("expected produto name from preparation, got %q", historico.produtoNome)
	}
	if historico.ultimoStatus != api.StatusPaid {
		t.Fatalf("expected last status PAID, got %q", historico.ultimoStatus)
	}
}

type fakeHistorico struct {
	mu           sync.Mutex
	registrado   int
	produtoNome  string
	ultimoStatus string
}

func (f *fakeHistorico) RegistrarApoio(apoioID, produtoID int, produtoNome string, valor float64, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registrado++
	f.produtoNome = produtoNome
	f.ultimoStatus = status
	return nil
}

func (f *fakeHistorico) AtualizarStatusApoio(apoioID int, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ultimoStatus = status
	return nil
}
