package database

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newInMemoryDatabaseService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}

	if err := db.AutoMigrate(&ApoioRegistro{}, &Preferencia{}); err != nil {
		t.Fatalf("failed to migrate in-memory sqlite: %v", err)
	}

	return &Service{db: db}
}

func TestRegistrarApoioRejectsInvalidID(t *testing.T) {
	svc := newInMemoryDatabaseService(t)

	if err := svc.RegistrarApoio(0, 3, "Bicicleta", 150, "CREATED"); err == nil {
		t.Fatal("expected error for invalid apoio id")
	}
}

func TestRegistrarEAtualizarStatus(t *testing.T) {
	svc := newInMemoryDatabaseService(t)

	if err := svc.RegistrarApoio(42, 3, "Bicicleta", 150, "CREATED"); err != nil {
		t.Fatalf("RegistrarApoio() error: %v", err)
	}
	if err := svc.AtualizarStatusApoio(42, "PAID"); err != nil {
		t.Fatalf("AtualizarStatusApoio() error: %v", err)
	}

	registros, err := svc.ListApoios(10)
	if err != nil {
		t.Fatalf("ListApoios() error: %v", err)
	}
	if len(registros) != 1 {
		t.Fatalf("expected one registro, got %d", len(registros))
	}
	registro := registros[0]
	if registro.ApoioID != 42 || registro.ProdutoNome != "Bicicleta" || registro.Valor != 150 {
		t.Fatalf("unexpected registro: %+v", registro)
	}
	if registro.Status != "PAID" {
		t.Fatalf("expected status PAID, got %q", registro.Status)
	}
	if registro.RequestID == "" {
		t.Fatal("expected generated request id")
	}
}

func TestAtualizarStatusRejectsEmptyStatus(t *testing.T) {
	svc := newInMemoryDatabaseService(t)

	if err := svc.AtualizarStatusApoio(42, "  "); err == nil {
		t.Fatal("expected error for empty status")
	}
}

func TestPreferenciaRoundTrip(t *testing.T) {
	svc := newInMemoryDatabaseService(t)

	valor, err := svc.GetPreferencia("api_base_url")
	if err != nil || valor != "" {
		t.Fatalf("expected empty preference, got (%q, %v)", valor, err)
	}

	if err := svc.SetPreferencia("api_base_url", "http://localhost:3000"); err != nil {
		t.Fatalf("SetPreferencia() error: %v", err)
	}
	if err := svc.SetPreferencia("api_base_url", "https://crowdfunding-vxjp.onrender.com"); err != nil {
		t.Fatalf("SetPreferencia() overwrite error: %v", err)
	}

	valor, err = svc.GetPreferencia("api_base_url")
	if err != nil {
		t.Fatalf("GetPreferencia() error: %v", err)
	}
	if valor != "https://crowdfunding-vxjp.onrender.com" {
		t.Fatalf("unexpected preference value: %q", valor)
	}
}

func TestSetPreferenciaRejectsEmptyKey(t *testing.T) {
	svc := newInMemoryDatabaseService(t)

	if err := svc.SetPreferencia("", "x"); err == nil {
		t.Fatal("expected error for empty key")
	}
}
