package apoio

import (
	"context"
	"log"
	"sync"
	"time"

	"apoia/internal/api"
)

// StatusChecker consulta o status de pagamento de um apoio
type StatusChecker func(apoioID int) (string, error)

// Poller acompanha o status de pagamento de um apoio em intervalos fixos.
// O ticker roda num goroutine próprio e cada verificação é síncrona dentro
// do loop, então nunca há duas consultas em voo: se uma verificação demora
// mais que o intervalo, os ticks perdidos são descartados pelo Ticker.
// O loop termina quando o status chega a PAID ou quando Stop é chamado
// (teardown da tela, shutdown do app).
type Poller struct {
	mu       sync.Mutex
	check    StatusChecker
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	running  bool

	// Callback para emitir eventos ao frontend
	emitEvent func(eventName string, data interface{})
}

// NewPoller cria um poller sobre a função de consulta dada
func NewPoller(check StatusChecker, interval time.Duration, emitEvent func(eventName string, data interface{})) *Poller {
	return &Poller{
		check:     check,
		interval:  interval,
		emitEvent: emitEvent,
	}
}

// Start inicia o acompanhamento de um apoio. Um acompanhamento anterior
// ainda ativo é cancelado antes.
func (p *Poller) Start(apoioID int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.ctx = ctx
	p.cancel = cancel
	p.running = true

	go p.loop(ctx, apoioID)
	log.Printf("[APOIO] Started status polling for apoio %d (every %s)", apoioID, p.interval)
}

// Stop cancela o acompanhamento ativo, se houver
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	if p.running {
		p.running = false
		log.Println("[APOIO] Stopped status polling")
	}
}

// IsRunning retorna se há acompanhamento ativo
func (p *Poller) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Poller) loop(ctx context.Context, apoioID int) {
	// Verificação imediata na primeira vez
	if p.tick(apoioID) {
		p.finish(ctx)
		return
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if p.tick(apoioID) {
				p.finish(ctx)
				return
			}
		}
	}
}

// finish encerra o acompanhamento a partir do próprio loop, sem derrubar
// um acompanhamento mais novo que tenha substituído este.
func (p *Poller) finish(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctx != ctx {
		return
	}
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.running = false
}

// tick consulta o status uma vez e retorna true quando o pagamento foi
// confirmado. Falhas são engolidas: a próxima verificação tenta de novo.
func (p *Poller) tick(apoioID int) bool {
	status, err := p.check(apoioID)
	if err != nil {
		log.Printf("[APOIO] Status check failed for apoio %d: %v", apoioID, err)
		return false
	}

	p.emit("apoio:status_changed", map[string]interface{}{
		"apoioId": apoioID,
		"status":  status,
	})

	if status == api.StatusPaid {
		log.Printf("[APOIO] Payment confirmed for apoio %d", apoioID)
		p.emit("apoio:pago", map[string]interface{}{
			"apoioId": apoioID,
		})
		return true
	}
	return false
}

func (p *Poller) emit(eventName string, data interface{}) {
	if p.emitEvent != nil {
		p.emitEvent(eventName, data)
	}
}
