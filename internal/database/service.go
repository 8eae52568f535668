package database

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"apoia/internal/config"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Service encapsula o acesso ao SQLite via GORM
type Service struct {
	db *gorm.DB
}

// NewService cria e inicializa o serviço de banco de dados
func NewService() (*Service, error) {
	dbPath, db, err := openWritableDatabase()
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&ApoioRegistro{},
		&Preferencia{},
	); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate: %w", err)
	}

	// Permissão 0600 no arquivo do banco
	os.Chmod(dbPath, 0600)

	log.Printf("[DB] Database initialized at %s", dbPath)
	return &Service{db: db}, nil
}

func openWritableDatabase() (string, *gorm.DB, error) {
	candidates := make([]string, 0, 3)
	if override := strings.TrimSpace(os.Getenv("APOIA_DB_PATH")); override != "" {
		candidates = append(candidates, override)
	}
	candidates = append(candidates, config.DBPath())
	candidates = append(candidates, filepath.Join(os.TempDir(), "APOIA", config.DBFileName))

	var lastErr error
	for _, candidate := range candidates {
		path := strings.TrimSpace(candidate)
		if path == "" {
			continue
		}

		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			lastErr = err
			continue
		}

		db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err != nil {
			lastErr = err
			continue
		}

		sqlDB, err := db.DB()
		if err != nil {
			lastErr = err
			continue
		}

		sqlDB.Exec("PRAGMA journal_mode=WAL")
		sqlDB.Exec("PRAGMA busy_timeout=5000")
		sqlDB.Exec("PRAGMA synchronous=NORMAL")

		return path, db, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no database path candidates available")
	}
	return "", nil, fmt.Errorf("failed to open writable database: %w", lastErr)
}

// Close fecha a conexão com o banco
func (s *Service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// === Histórico de apoios ===

// RegistrarApoio grava o apoio recém-criado no histórico local
func (s *Service) RegistrarApoio(apoioID, produtoID int, produtoNome string, valor float64, status string) error {
	if apoioID <= 0 {
		return fmt.Errorf("invalid apoio id: %d", apoioID)
	}

	registro := &ApoioRegistro{
		ApoioID:     apoioID,
		ProdutoID:   produtoID,
		ProdutoNome: produtoNome,
		Valor:       valor,
		Status:      status,
		RequestID:   uuid.NewString(),
	}
	return s.db.Create(registro).Error
}

// AtualizarStatusApoio espelha o último status observado pelo polling
func (s *Service) AtualizarStatusApoio(apoioID int, status string) error {
	if strings.TrimSpace(status) == "" {
		return fmt.Errorf("empty status for apoio %d", apoioID)
	}
	return s.db.Model(&ApoioRegistro{}).
		Where("apoio_id = ?", apoioID).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()}).Error
}

// ListApoios retorna o histórico local, mais recentes primeiro
func (s *Service) ListApoios(limit int) ([]ApoioRegistro, error) {
	if limit <= 0 {
		limit = 50
	}
	var registros []ApoioRegistro
	err := s.db.Order("created_at DESC").Limit(limit).Find(&registros).Error
	return registros, err
}

// === Preferências ===

// GetPreferencia lê uma preferência local; ("", nil) quando ausente
func (s *Service) GetPreferencia(chave string) (string, error) {
	var pref Preferencia
	err := s.db.Where("chave = ?", chave).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return pref.Valor, nil
}

// SetPreferencia grava (ou sobrescreve) uma preferência local
func (s *Service) SetPreferencia(chave, valor string) error {
	if strings.TrimSpace(chave) == "" {
		return fmt.Errorf("empty preference key")
	}

	var pref Preferencia
	err := s.db.Where("chave = ?", chave).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.db.Create(&Preferencia{Chave: chave, Valor: valor}).Error
	}
	if err != nil {
		return err
	}

	pref.Valor = valor
	return s.db.Save(&pref).Error
}
