package session

import (
	"log"
	"sync"

	"github.com/zalando/go-keyring"
)

// Store é a célula chave-valor persistente da sessão. Implementações nunca
// propagam falha de armazenamento para o chamador: logam e seguem com o
// valor default (slot ausente).
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}

// keyringStore persiste os slots no keychain do sistema, espelhando cada
// valor em memória para sobreviver a falhas transitórias do keychain.
type keyringStore struct {
	service string

	mu     sync.RWMutex
	mirror map[string]string
}

// NewKeyringStore cria um store apoiado no keychain sob o service name dado
func NewKeyringStore(service string) Store {
	return &keyringStore{
		service: service,
		mirror:  make(map[string]string),
	}
}

func (s *keyringStore) Get(key string) (string, bool) {
	value, err := keyring.Get(s.service, key)
	if err == nil {
		s.mu.Lock()
		s.mirror[key] = value
		s.mu.Unlock()
		return value, true
	}
	if err != keyring.ErrNotFound {
		log.Printf("[SESSION] Keychain read failed for %q: %v", key, err)
		s.mu.RLock()
		cached, ok := s.mirror[key]
		s.mu.RUnlock()
		if ok {
			return cached, true
		}
	}
	return "", false
}

func (s *keyringStore) Set(key, value string) {
	s.mu.Lock()
	s.mirror[key] = value
	s.mu.Unlock()

	if err := keyring.Set(s.service, key, value); err != nil {
		log.Printf("[SESSION] Keychain write failed for %q: %v", key, err)
	}
}

func (s *keyringStore) Delete(key string) {
	s.mu.Lock()
	delete(s.mirror, key)
	s.mu.Unlock()

	if err := keyring.Delete(s.service, key); err != nil && err != keyring.ErrNotFound {
		log.Printf("[SESSION] Keychain delete failed for %q: %v", key, err)
	}
}

// memoryStore guarda os slots apenas em memória. Usado em testes e como
// fallback quando o keychain está indisponível na plataforma.
type memoryStore struct {
	mu    sync.RWMutex
	slots map[string]string
}

// NewMemoryStore cria um store volátil
func NewMemoryStore() Store {
	return &memoryStore{slots: make(map[string]string)}
}

func (s *memoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.slots[key]
	return value, ok
}

func (s *memoryStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[key] = value
}

func (s *memoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, key)
}
