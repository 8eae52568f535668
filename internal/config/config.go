package config

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// AppName é o nome do aplicativo
	AppName = "APOIA"

	// AppVersion é a versão atual
	AppVersion = "1.0.0"

	// AppBundleID é o bundle identifier macOS
	AppBundleID = "com.apoia.app"

	// DBFileName é o nome do arquivo SQLite
	DBFileName = "apoia_data.db"

	// StatusPollInterval é o intervalo de verificação do status de pagamento PIX
	StatusPollInterval = 10 * time.Second

	// ProdutosCacheTTL é o TTL do cache local de produtos
	ProdutosCacheTTL = 60 * time.Second

	// ValorMinimoSugerido é o valor sugerido de apoio exibido no formulário (R$)
	ValorMinimoSugerido = 100.0
)

// Os dois hosts historicamente usados pelo cliente. Qual é o autoritativo
// depende do ambiente, então a escolha fica explícita via APOIA_API_URL.
const (
	APIBaseURLLocal  = "http://localhost:3000"
	APIBaseURLRemote = "https://crowdfunding-vxjp.onrender.com"
)

// Settings agrupa os valores configuráveis em runtime
type Settings struct {
	APIBaseURL string
	DevMode    bool
}

// Load resolve as configurações a partir de .env e variáveis de ambiente
func Load() Settings {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[CONFIG] Could not load .env: %v", err)
	}

	baseURL := strings.TrimSpace(os.Getenv("APOIA_API_URL"))
	if baseURL == "" {
		baseURL = APIBaseURLRemote
	}
	baseURL = strings.TrimRight(baseURL, "/")

	devMode := strings.EqualFold(strings.TrimSpace(os.Getenv("APOIA_DEV_MODE")), "true")

	return Settings{
		APIBaseURL: baseURL,
		DevMode:    devMode,
	}
}

// DataDir retorna o diretório raiz de dados do app
// ~/Library/Application Support/APOIA/
func DataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "Library", "Application Support", "APOIA")
}

// DBPath retorna o caminho do arquivo SQLite
func DBPath() string {
	return filepath.Join(DataDir(), DBFileName)
}

// LogDir retorna o diretório de logs
func LogDir() string {
	return filepath.Join(DataDir(), "logs")
}

// EnsureDataDirs cria os diretórios necessários se não existirem
func EnsureDataDirs() error {
	dirs := []string{
		DataDir(),
		LogDir(),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}
	return nil
}
